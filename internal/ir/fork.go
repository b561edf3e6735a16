package ir

import (
	"fmt"
)

// ForkRule is one position in the fixed, totally ordered fork hierarchy.
// A rule at rank k implies the semantics of every rule with rank < k.
type ForkRule uint8

const (
	ForkNoRules ForkRule = iota
	ForkBIP16
	ForkBIP66
	ForkBIP65
	ForkBIP112
	ForkBIP141
	ForkBIP147
	ForkUAHF
	ForkDAACW144
	ForkEuclid
	ForkMersenne
	ForkFermat
	ForkGauss
	ForkDescartes
	ForkGalois
	ForkPythagoras
)

// forkNames is indexed by rank.
var forkNames = [...]string{
	ForkNoRules:    "no_rules",
	ForkBIP16:      "bip16_rule",
	ForkBIP66:      "bip66_rule",
	ForkBIP65:      "bip65_rule",
	ForkBIP112:     "bip112_rule",
	ForkBIP141:     "bip141_rule",
	ForkBIP147:     "bip147_rule",
	ForkUAHF:       "bch_uahf",
	ForkDAACW144:   "bch_daa_cw144",
	ForkEuclid:     "bch_euclid",
	ForkMersenne:   "bch_mersenne",
	ForkFermat:     "bch_fermat",
	ForkGauss:      "bch_gauss",
	ForkDescartes:  "bch_descartes",
	ForkGalois:     "bch_galois",
	ForkPythagoras: "bch_pythagoras",
}

// ForkRules returns every rule in rank order.
func ForkRules() []ForkRule {
	rules := make([]ForkRule, len(forkNames))
	for i := range forkNames {
		rules[i] = ForkRule(i)
	}
	return rules
}

// Rank returns the position of the rule in the hierarchy.
func (f ForkRule) Rank() int {
	return int(f)
}

// Valid reports whether f is a member of the hierarchy.
func (f ForkRule) Valid() bool {
	return int(f) < len(forkNames)
}

// String returns the enumerator name used by the test harness.
func (f ForkRule) String() string {
	if !f.Valid() {
		return fmt.Sprintf("fork(%d)", uint8(f))
	}
	return forkNames[f]
}

// ParseForkRule resolves an enumerator name such as "bch_uahf".
func ParseForkRule(name string) (ForkRule, error) {
	for i, n := range forkNames {
		if n == name {
			return ForkRule(i), nil
		}
	}
	return ForkNoRules, fmt.Errorf("unknown fork rule %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (f ForkRule) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("invalid fork rule %d", uint8(f))
	}
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *ForkRule) UnmarshalText(b []byte) error {
	rule, err := ParseForkRule(string(b))
	if err != nil {
		return err
	}
	*f = rule
	return nil
}

// MaxFork returns the highest-ranked rule, or ForkNoRules for no rules.
func MaxFork(rules ...ForkRule) ForkRule {
	best := ForkNoRules
	for _, r := range rules {
		if r.Rank() > best.Rank() {
			best = r
		}
	}
	return best
}
