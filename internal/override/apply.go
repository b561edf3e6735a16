package override

import (
	"slices"
	"strings"

	"github.com/roach88/scriptvec/internal/fork"
	"github.com/roach88/scriptvec/internal/ir"
	"github.com/roach88/scriptvec/internal/outcome"
	"github.com/roach88/scriptvec/internal/script"
)

// MarkerPrefix opens the audit marker appended to overridden comments.
const MarkerPrefix = " [OVERRIDE: "

// Apply rewrites v with the fields e replaces and appends the audit marker
// to its comment. The replacement outcome is mapped but not refined, and
// replacement scripts go through script.Normalize. Labels the tables do not
// know are reported against v's row. An empty entry returns v unchanged.
func Apply(e Entry, v ir.CompiledVector) (ir.CompiledVector, []ir.Diagnostic) {
	if e.Empty() {
		return v, nil
	}

	var (
		parts []string
		diags []ir.Diagnostic
	)
	v.Notes = slices.Clip(v.Notes)
	note := func(kind ir.DiagnosticKind, msg string) {
		diags = append(diags, ir.Diagnostic{Kind: kind, Row: v.Index, Message: msg})
		v.Notes = append(v.Notes, msg)
	}

	if e.Error != nil {
		m := outcome.Map(*e.Error)
		v.Outcome, v.UnmappedOutcome = m.Code, m.Unmapped
		if !m.Known() {
			note(ir.DiagUnknownOutcome, m.Message())
		}
		parts = append(parts, "ERROR: "+*e.Error)
	}
	if e.NewScriptSig != nil {
		v.InputScript = script.Normalize(*e.NewScriptSig)
		parts = append(parts, "SIG_REPLACED")
	}
	if e.NewScriptPubKey != nil {
		v.OutputScript = script.Normalize(*e.NewScriptPubKey)
		parts = append(parts, "PUBKEY_REPLACED")
	}
	if e.Fork != nil {
		res := fork.Resolve(*e.Fork)
		v.Fork = res.Fork
		for _, msg := range res.Messages() {
			note(ir.DiagUnknownFlag, msg)
		}
		parts = append(parts, "FORK: "+*e.Fork)
	}

	v.Comment += MarkerPrefix + strings.Join(parts, ", ") + "]"
	return v, diags
}
