package outcome

import (
	"regexp"

	"github.com/roach88/scriptvec/internal/ir"
)

// Whole-token matches against normalized (lowercase) script text.
var (
	addToken = regexp.MustCompile(`\b(?:add|add1)\b`)
	subToken = regexp.MustCompile(`\b(?:sub|sub1)\b`)
)

// Refine narrows ir.OutcomeInvalidScript to ir.OutcomeOpAdd or
// ir.OutcomeOpSub when either normalized script mentions the matching
// arithmetic opcode. Add wins over sub. Any other code is returned
// unchanged, so Refine is idempotent.
func Refine(code ir.OutcomeCode, input, output string) ir.OutcomeCode {
	if code != ir.OutcomeInvalidScript {
		return code
	}
	text := input + " " + output
	switch {
	case addToken.MatchString(text):
		return ir.OutcomeOpAdd
	case subToken.MatchString(text):
		return ir.OutcomeOpSub
	}
	return code
}
