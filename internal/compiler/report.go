package compiler

import (
	"cmp"
	"slices"

	"github.com/roach88/scriptvec/internal/ir"
)

// Report accumulates the outcome of one compilation.
type Report struct {
	Rows        int             `json:"rows"`
	Processed   int             `json:"processed"`
	Excluded    int             `json:"excluded"`
	Overridden  int             `json:"overridden"`
	Diagnostics []ir.Diagnostic `json:"diagnostics"`
	Skipped     []ir.SkipRecord `json:"skipped"`
}

// Clean reports whether no unknown flags, unknown outcomes or malformed
// rows were found.
func (r *Report) Clean() bool {
	return len(r.Diagnostics) == 0
}

// Count returns the number of diagnostics of one kind.
func (r *Report) Count(kind ir.DiagnosticKind) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

// Messages returns the diagnostic messages in row order.
func (r *Report) Messages() []string {
	msgs := make([]string, len(r.Diagnostics))
	for i, d := range r.Diagnostics {
		msgs[i] = d.Message
	}
	return msgs
}

// Summary condenses the report into counts.
func (r *Report) Summary() Summary {
	return Summary{
		Rows:        r.Rows,
		Processed:   r.Processed,
		Excluded:    r.Excluded,
		Overridden:  r.Overridden,
		Diagnostics: len(r.Diagnostics),
		Clean:       r.Clean(),
	}
}

// Summary holds the counts printed after a compile.
type Summary struct {
	Rows        int  `json:"rows"`
	Processed   int  `json:"processed"`
	Excluded    int  `json:"excluded"`
	Overridden  int  `json:"overridden"`
	Diagnostics int  `json:"diagnostics"`
	Clean       bool `json:"clean"`
}

func (r *Report) addDiagnostics(diags ...ir.Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, diags...)
}

// sortDiagnostics orders diagnostics by row, keeping the order within a row.
func (r *Report) sortDiagnostics() {
	slices.SortStableFunc(r.Diagnostics, func(a, b ir.Diagnostic) int {
		return cmp.Compare(a.Row, b.Row)
	})
}
