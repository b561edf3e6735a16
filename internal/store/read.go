package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/roach88/scriptvec/internal/ir"
)

var (
	// ErrRunNotFound reports a run ID or prefix that matches nothing.
	ErrRunNotFound = errors.New("run not found")

	// ErrAmbiguousRun reports a prefix that matches more than one run.
	ErrAmbiguousRun = errors.New("ambiguous run prefix")
)

const runColumns = `
	seq, id, corpus_path, corpus_hash, overrides_path,
	compiler_version, fixture_version, chunk_size,
	rows, processed, excluded, overridden, diagnostics, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (Run, error) {
	var (
		r       Run
		created string
	)
	if err := row.Scan(
		&r.Seq, &r.ID, &r.CorpusPath, &r.CorpusHash, &r.OverridesPath,
		&r.CompilerVersion, &r.FixtureVersion, &r.ChunkSize,
		&r.Rows, &r.Processed, &r.Excluded, &r.Overridden, &r.Diagnostics, &created,
	); err != nil {
		return Run{}, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: created_at %q: %w", r.ID, created, err)
	}
	r.CreatedAt = t
	return r, nil
}

// ListRuns returns every recorded run, oldest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+runColumns+` FROM runs ORDER BY seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun returns the run with exactly this ID.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	r, err := scanRun(s.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return r, nil
}

// ResolveRun accepts a full run ID or a unique prefix of one.
func (s *Store) ResolveRun(ctx context.Context, ref string) (Run, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Run{}, fmt.Errorf("%w: empty reference", ErrRunNotFound)
	}
	if r, err := s.ReadRun(ctx, ref); err == nil || !errors.Is(err, ErrRunNotFound) {
		return r, err
	}

	// UUIDs never contain LIKE wildcards, so a prefix with one matches nothing.
	if strings.ContainsAny(ref, `%_\`) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, ref)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE id LIKE ? ORDER BY seq ASC LIMIT 2`, ref+"%")
	if err != nil {
		return Run{}, fmt.Errorf("resolve run %s: %w", ref, err)
	}
	defer rows.Close()

	var matches []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return Run{}, fmt.Errorf("scan run: %w", err)
		}
		matches = append(matches, r)
	}
	if err := rows.Err(); err != nil {
		return Run{}, fmt.Errorf("iterate runs: %w", err)
	}
	switch len(matches) {
	case 0:
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, ref)
	case 1:
		return matches[0], nil
	default:
		return Run{}, fmt.Errorf("%w: %s", ErrAmbiguousRun, ref)
	}
}

// ReadVectors returns the compiled vectors of a run in emission order.
func (s *Store) ReadVectors(ctx context.Context, runID string) ([]ir.CompiledVector, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, row_index, input_script, output_script, fork, outcome,
		       unmapped_outcome, comment, original_flags, original_outcome, notes
		FROM vectors
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query vectors of %s: %w", runID, err)
	}
	defer rows.Close()

	var vectors []ir.CompiledVector
	for rows.Next() {
		var (
			v                 ir.CompiledVector
			forkName, outcome string
			notes             string
		)
		if err := rows.Scan(
			&v.ID, &v.Index, &v.InputScript, &v.OutputScript, &forkName, &outcome,
			&v.UnmappedOutcome, &v.Comment, &v.OriginalFlags, &v.OriginalOutcome, &notes,
		); err != nil {
			return nil, fmt.Errorf("scan vector: %w", err)
		}
		if v.Fork, err = ir.ParseForkRule(forkName); err != nil {
			return nil, fmt.Errorf("vector %s: %w", v.ID, err)
		}
		v.Outcome = ir.OutcomeCode(outcome)
		if err := json.Unmarshal([]byte(notes), &v.Notes); err != nil {
			return nil, fmt.Errorf("vector %s: notes: %w", v.ID, err)
		}
		if len(v.Notes) == 0 {
			v.Notes = nil
		}
		vectors = append(vectors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vectors: %w", err)
	}
	return vectors, nil
}

// ReadDiagnostics returns the diagnostics of a run in report order.
func (s *Store) ReadDiagnostics(ctx context.Context, runID string) ([]ir.Diagnostic, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, row_index, message
		FROM diagnostics
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics of %s: %w", runID, err)
	}
	defer rows.Close()

	var diags []ir.Diagnostic
	for rows.Next() {
		var (
			d    ir.Diagnostic
			kind string
		)
		if err := rows.Scan(&kind, &d.Row, &d.Message); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		d.Kind = ir.DiagnosticKind(kind)
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return diags, nil
}
