package outcome

import (
	"fmt"
	"strings"

	"github.com/roach88/scriptvec/internal/ir"
)

// Mapping is the result of mapping one outcome label.
type Mapping struct {
	Code ir.OutcomeCode

	// Unmapped holds the raw label when Code is ir.OutcomeUnknown.
	Unmapped string
}

// Known reports whether the label was found in the table.
func (m Mapping) Known() bool {
	return m.Code != ir.OutcomeUnknown
}

// Message returns the diagnostic message for an unmapped label, or "" when
// the label was known.
func (m Mapping) Message() string {
	if m.Known() {
		return ""
	}
	return fmt.Sprintf("Unknown error code: %s", m.Unmapped)
}

// Map looks up an outcome label. Surrounding whitespace is ignored;
// matching is otherwise exact.
func Map(label string) Mapping {
	label = strings.TrimSpace(label)
	if code, ok := labelTable[label]; ok {
		return Mapping{Code: code}
	}
	return Mapping{Code: ir.OutcomeUnknown, Unmapped: label}
}
