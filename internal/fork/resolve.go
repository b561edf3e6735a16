// Package fork resolves activation-flag sets to one position of the fork
// hierarchy.
//
// Activation is not a union of independent toggles: the mapped rules
// collapse to the single highest-ranked rule, since higher forks imply the
// semantics of lower ones.
package fork

import (
	"fmt"
	"strings"

	"github.com/roach88/scriptvec/internal/ir"
)

// Resolution is the result of resolving one flags field.
type Resolution struct {
	Fork ir.ForkRule

	// Unknown lists labels absent from the flag table, in input order.
	Unknown []string
}

// Messages returns one diagnostic message per unknown label.
func (r Resolution) Messages() []string {
	msgs := make([]string, len(r.Unknown))
	for i, label := range r.Unknown {
		msgs[i] = fmt.Sprintf("Unknown flag: %s", label)
	}
	return msgs
}

// Resolve maps a comma-separated flag list onto the hierarchy.
// It never fails: unknown labels are reported and dropped.
func Resolve(flags string) Resolution {
	if flags == "" || flags == ir.NoFlags {
		return Resolution{Fork: ir.ForkNoRules}
	}

	var res Resolution
	seen := make(map[ir.ForkRule]struct{})
	for _, label := range strings.Split(flags, ",") {
		label = strings.TrimSpace(label)
		r, policy, known := Lookup(label)
		switch {
		case !known:
			res.Unknown = append(res.Unknown, label)
		case policy:
			// policy-only flags carry no fork semantics
		default:
			seen[r] = struct{}{}
		}
	}

	rules := make([]ir.ForkRule, 0, len(seen))
	for r := range seen {
		rules = append(rules, r)
	}
	res.Fork = ir.MaxFork(rules...)
	return res
}
