package compiler

import (
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/scriptvec/internal/fork"
	"github.com/roach88/scriptvec/internal/ingest"
	"github.com/roach88/scriptvec/internal/ir"
	"github.com/roach88/scriptvec/internal/outcome"
	"github.com/roach88/scriptvec/internal/override"
	"github.com/roach88/scriptvec/internal/script"
)

// Options configures a compilation.
type Options struct {
	// Workers bounds concurrent per-vector work. Values below 2 compile
	// sequentially.
	Workers int

	// Logger receives progress events. Nil discards them.
	Logger *zap.Logger
}

// Result is a compiled corpus.
type Result struct {
	Vectors []ir.CompiledVector
	Report  *Report
}

// step is the outcome of compiling one candidate.
type step struct {
	vector     ir.CompiledVector
	diags      []ir.Diagnostic
	skip       *ir.SkipRecord
	overridden bool
}

// Compile runs every candidate of corpus through the pipeline. The table
// must already be built; a nil table applies nothing. Vectors and
// diagnostics come back in corpus order whatever the worker count.
func Compile(corpus *ingest.Result, table *override.Table, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	steps := make([]step, len(corpus.Vectors))
	if opts.Workers > 1 {
		var g errgroup.Group
		g.SetLimit(opts.Workers)
		for i := range corpus.Vectors {
			i := i
			g.Go(func() error {
				s, err := compileOne(corpus.Vectors[i], table)
				steps[i] = s
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, raw := range corpus.Vectors {
			s, err := compileOne(raw, table)
			if err != nil {
				return nil, err
			}
			steps[i] = s
		}
	}

	report := &Report{Rows: corpus.Rows}
	report.addDiagnostics(corpus.Diagnostics...)
	vectors := make([]ir.CompiledVector, 0, len(steps))
	for _, s := range steps {
		if s.skip != nil {
			report.Excluded++
			report.Skipped = append(report.Skipped, *s.skip)
			logger.Debug("Skipped vector",
				zap.Int("row", s.skip.Row),
				zap.String("reason", s.skip.Reason))
			continue
		}
		if s.overridden {
			report.Overridden++
			logger.Debug("Applied override", zap.Int("row", s.vector.Index))
		}
		report.addDiagnostics(s.diags...)
		vectors = append(vectors, s.vector)
	}
	report.Processed = len(vectors)
	report.sortDiagnostics()

	for _, d := range report.Diagnostics {
		logger.Debug("Diagnostic",
			zap.String("kind", string(d.Kind)),
			zap.Int("row", d.Row),
			zap.String("message", d.Message))
	}
	logger.Info("Compiled corpus",
		zap.Int("rows", report.Rows),
		zap.Int("processed", report.Processed),
		zap.Int("excluded", report.Excluded),
		zap.Int("overridden", report.Overridden),
		zap.Int("diagnostics", len(report.Diagnostics)),
		zap.Int("workers", max(opts.Workers, 1)))

	return &Result{Vectors: vectors, Report: report}, nil
}

// compileOne is pure: it reads only raw and the immutable table.
func compileOne(raw ir.RawVector, table *override.Table) (step, error) {
	if skip, ok := table.Skip(raw.InputScript, raw.OutputScript); ok {
		return step{skip: &ir.SkipRecord{
			Row:          raw.Index,
			ScriptSig:    raw.InputScript,
			ScriptPubKey: raw.OutputScript,
			KeyFork:      skip.KeyFork,
			Reason:       skip.ReasonOrDefault(),
		}}, nil
	}

	var s step
	diag := func(kind ir.DiagnosticKind, msg string) {
		s.diags = append(s.diags, ir.Diagnostic{Kind: kind, Row: raw.Index, Message: msg})
		s.vector.Notes = append(s.vector.Notes, msg)
	}

	res := fork.Resolve(raw.Flags)
	for _, msg := range res.Messages() {
		diag(ir.DiagUnknownFlag, msg)
	}
	mapped := outcome.Map(raw.ExpectedOutcome)
	if !mapped.Known() {
		diag(ir.DiagUnknownOutcome, mapped.Message())
	}

	in := script.Normalize(raw.InputScript)
	out := script.Normalize(raw.OutputScript)

	v := &s.vector
	v.Index = raw.Index
	v.InputScript, v.OutputScript = in, out
	v.Fork = res.Fork
	v.Outcome = outcome.Refine(mapped.Code, in, out)
	v.UnmappedOutcome = mapped.Unmapped
	v.Comment = raw.Comment
	v.OriginalFlags = raw.Flags
	v.OriginalOutcome = raw.ExpectedOutcome

	if e, ok := table.Lookup(raw.InputScript, raw.OutputScript, raw.Flags); ok && !e.Empty() {
		var extra []ir.Diagnostic
		s.vector, extra = override.Apply(e, s.vector)
		s.diags = append(s.diags, extra...)
		s.overridden = true
	}

	id, err := ir.VectorID(s.vector)
	if err != nil {
		return step{}, fmt.Errorf("row %d: %w", raw.Index, err)
	}
	s.vector.ID = id
	return s, nil
}
