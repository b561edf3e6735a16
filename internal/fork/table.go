package fork

import "github.com/roach88/scriptvec/internal/ir"

// mapping is one entry of the flag table. Policy-only flags map to no rule.
type mapping struct {
	rule   ir.ForkRule
	policy bool
}

func rule(r ir.ForkRule) mapping { return mapping{rule: r} }

var policyOnly = mapping{policy: true}

// flagTable maps activation-flag labels onto the fork hierarchy.
// Several flags map to the same fork: any of them activates it.
var flagTable = map[string]mapping{
	"P2SH":                rule(ir.ForkBIP16),
	"DERSIG":              rule(ir.ForkBIP66),
	"CHECKLOCKTIMEVERIFY": rule(ir.ForkBIP65),
	"CHECKSEQUENCEVERIFY": rule(ir.ForkBIP112),

	"WITNESS":                               rule(ir.ForkBIP141),
	"DISCOURAGE_UPGRADABLE_WITNESS_PROGRAM": rule(ir.ForkBIP141),
	"WITNESS_PUBKEYTYPE":                    rule(ir.ForkBIP141),
	"CONST_SCRIPTCODE":                      rule(ir.ForkBIP141),
	"NULLDUMMY":                             rule(ir.ForkBIP147),

	"STRICTENC":      rule(ir.ForkUAHF),
	"SIGHASH_FORKID": rule(ir.ForkUAHF),

	"LOW_S":    rule(ir.ForkDAACW144),
	"NULLFAIL": rule(ir.ForkDAACW144),

	"SIGPUSHONLY": rule(ir.ForkEuclid),
	"CLEANSTACK":  rule(ir.ForkEuclid),

	"SCHNORR_MULTISIG": rule(ir.ForkMersenne),
	"MINIMALDATA":      rule(ir.ForkMersenne),

	"ENFORCE_SIGCHECKS": rule(ir.ForkFermat),

	"64_BIT_INTEGERS":      rule(ir.ForkGauss),
	"NATIVE_INTROSPECTION": rule(ir.ForkGauss),

	"P2SH_32":       rule(ir.ForkDescartes),
	"ENABLE_TOKENS": rule(ir.ForkDescartes),

	"ENABLE_MAY2025": rule(ir.ForkGalois),

	"KTH_PYTHAGORAS": rule(ir.ForkPythagoras),

	"NONE":                       policyOnly,
	"MINIMALIF":                  policyOnly,
	"DISCOURAGE_UPGRADABLE_NOPS": policyOnly,
	"INPUT_SIGCHECKS":            policyOnly,
	"VM_LIMITS_STANDARD":         policyOnly,
	"DISALLOW_SEGWIT_RECOVERY":   policyOnly,
}

// Lookup reports how a single flag label maps.
// known is false for labels absent from the table; rule is only meaningful
// when known is true and policy is false.
func Lookup(label string) (r ir.ForkRule, policy, known bool) {
	m, ok := flagTable[label]
	if !ok {
		return ir.ForkNoRules, false, false
	}
	return m.rule, m.policy, true
}

// Flags returns the number of labels in the table.
func Flags() int {
	return len(flagTable)
}
