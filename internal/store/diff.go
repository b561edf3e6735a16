package store

import (
	"context"
	"fmt"
)

// Diff compares the vector sets of two runs. Added and Removed are
// vector IDs in the emission order of the run that holds them.
type Diff struct {
	From      string   `json:"from"`
	To        string   `json:"to"`
	Added     []string `json:"added"`
	Removed   []string `json:"removed"`
	Unchanged int      `json:"unchanged"`
}

// Changed reports whether the runs hold different vector sets.
func (d Diff) Changed() bool {
	return len(d.Added) > 0 || len(d.Removed) > 0
}

// DiffRuns reports the vector IDs present in run b but not a (Added) and
// in a but not b (Removed). Both runs must exist. Vectors are compared by
// content address, so reordering alone is not a change.
func (s *Store) DiffRuns(ctx context.Context, a, b string) (Diff, error) {
	for _, id := range []string{a, b} {
		if _, err := s.ReadRun(ctx, id); err != nil {
			return Diff{}, err
		}
	}

	from, err := s.vectorIDs(ctx, a)
	if err != nil {
		return Diff{}, err
	}
	to, err := s.vectorIDs(ctx, b)
	if err != nil {
		return Diff{}, err
	}

	d := Diff{From: a, To: b, Added: []string{}, Removed: []string{}}
	inFrom := make(map[string]bool, len(from))
	for _, id := range from {
		inFrom[id] = true
	}
	inTo := make(map[string]bool, len(to))
	for _, id := range to {
		inTo[id] = true
	}
	for _, id := range to {
		if !inFrom[id] {
			d.Added = append(d.Added, id)
		}
	}
	for _, id := range from {
		if inTo[id] {
			d.Unchanged++
		} else {
			d.Removed = append(d.Removed, id)
		}
	}
	return d, nil
}

// vectorIDs returns the distinct vector IDs of a run in first-seen order.
func (s *Store) vectorIDs(ctx context.Context, runID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM vectors WHERE run_id = ? ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query vector ids of %s: %w", runID, err)
	}
	defer rows.Close()

	seen := make(map[string]bool)
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan vector id: %w", err)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vector ids: %w", err)
	}
	return ids, nil
}
