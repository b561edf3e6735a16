package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/roach88/scriptvec/internal/compiler"
	"github.com/roach88/scriptvec/internal/ir"
)

// Run is one recorded compilation.
type Run struct {
	Seq             int64     `json:"seq"`
	ID              string    `json:"id"`
	CorpusPath      string    `json:"corpus_path"`
	CorpusHash      string    `json:"corpus_hash"`
	OverridesPath   string    `json:"overrides_path,omitempty"`
	CompilerVersion string    `json:"compiler_version"`
	FixtureVersion  string    `json:"fixture_version"`
	ChunkSize       int       `json:"chunk_size"`
	Rows            int       `json:"rows"`
	Processed       int       `json:"processed"`
	Excluded        int       `json:"excluded"`
	Overridden      int       `json:"overridden"`
	Diagnostics     int       `json:"diagnostics"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewRun describes a compile of corpus read from corpusPath. ID, Seq and
// CreatedAt are assigned by WriteRun.
func NewRun(corpusPath, overridesPath string, corpus []byte, chunkSize int, res *compiler.Result) Run {
	r := Run{
		CorpusPath:      corpusPath,
		CorpusHash:      ir.CorpusHash(corpus),
		OverridesPath:   overridesPath,
		CompilerVersion: ir.CompilerVersion,
		FixtureVersion:  ir.FixtureVersion,
		ChunkSize:       chunkSize,
	}
	if res != nil && res.Report != nil {
		r.Rows = res.Report.Rows
		r.Processed = res.Report.Processed
		r.Excluded = res.Report.Excluded
		r.Overridden = res.Report.Overridden
		r.Diagnostics = len(res.Report.Diagnostics)
	}
	return r
}

// WriteRun records run with its vectors and diagnostics in one
// transaction. Either everything is stored or nothing is. The returned
// Run carries the assigned ID and Seq.
func (s *Store) WriteRun(ctx context.Context, run Run, vectors []ir.CompiledVector, diags []ir.Diagnostic) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.Must(uuid.NewV7()).String()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs (
			id, corpus_path, corpus_hash, overrides_path,
			compiler_version, fixture_version, chunk_size,
			rows, processed, excluded, overridden, diagnostics, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.CorpusPath, run.CorpusHash, run.OverridesPath,
		run.CompilerVersion, run.FixtureVersion, run.ChunkSize,
		run.Rows, run.Processed, run.Excluded, run.Overridden, run.Diagnostics,
		run.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Run{}, fmt.Errorf("insert run %s: %w", run.ID, err)
	}
	if run.Seq, err = res.LastInsertId(); err != nil {
		return Run{}, fmt.Errorf("run seq: %w", err)
	}

	vstmt, err := tx.PrepareContext(ctx, `
		INSERT INTO vectors (
			run_id, position, id, row_index, input_script, output_script,
			fork, outcome, unmapped_outcome, comment,
			original_flags, original_outcome, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return Run{}, fmt.Errorf("prepare vector insert: %w", err)
	}
	defer vstmt.Close()

	for pos, v := range vectors {
		notes, err := ir.MarshalCanonical(notesOf(v))
		if err != nil {
			return Run{}, fmt.Errorf("marshal notes of row %d: %w", v.Index, err)
		}
		if _, err := vstmt.ExecContext(ctx,
			run.ID, pos, v.ID, v.Index, v.InputScript, v.OutputScript,
			v.Fork.String(), string(v.Outcome), v.UnmappedOutcome, v.Comment,
			v.OriginalFlags, v.OriginalOutcome, string(notes),
		); err != nil {
			return Run{}, fmt.Errorf("insert vector %d: %w", pos, err)
		}
	}

	for pos, d := range diags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics (run_id, position, kind, row_index, message)
			VALUES (?, ?, ?, ?, ?)
		`, run.ID, pos, string(d.Kind), d.Row, d.Message); err != nil {
			return Run{}, fmt.Errorf("insert diagnostic %d: %w", pos, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit run %s: %w", run.ID, err)
	}
	return run, nil
}

func notesOf(v ir.CompiledVector) []string {
	if v.Notes == nil {
		return []string{}
	}
	return v.Notes
}
