package override

import (
	"fmt"
	"reflect"
	"strings"
)

// Spec is the decoded override document.
type Spec struct {
	Overrides []Entry `json:"overrides" yaml:"overrides"`
	Skips     []Skip  `json:"skip_tests" yaml:"skip_tests"`
}

// Entry rewrites one or more fields of a matched vector. Nil fields are
// left alone.
type Entry struct {
	ScriptSig    string `json:"script_sig" yaml:"script_sig"`
	ScriptPubKey string `json:"script_pub_key" yaml:"script_pub_key"`

	// KeyFork narrows the match to vectors whose flags field equals it.
	KeyFork *string `json:"key_fork,omitempty" yaml:"key_fork,omitempty"`

	Error           *string `json:"error,omitempty" yaml:"error,omitempty"`
	Fork            *string `json:"fork,omitempty" yaml:"fork,omitempty"`
	NewScriptSig    *string `json:"new_script_sig,omitempty" yaml:"new_script_sig,omitempty"`
	NewScriptPubKey *string `json:"new_script_pub_key,omitempty" yaml:"new_script_pub_key,omitempty"`
}

// ForkSpecific reports whether the entry is keyed by flags as well.
func (e Entry) ForkSpecific() bool {
	return e.KeyFork != nil
}

// Empty reports whether the entry replaces nothing.
func (e Entry) Empty() bool {
	return e.Error == nil && e.Fork == nil && e.NewScriptSig == nil && e.NewScriptPubKey == nil
}

// Skip unconditionally drops a matched vector.
type Skip struct {
	ScriptSig    string `json:"script_sig" yaml:"script_sig"`
	ScriptPubKey string `json:"script_pub_key" yaml:"script_pub_key"`
	Reason       string `json:"reason,omitempty" yaml:"reason,omitempty"`

	// KeyFork is informational; skips always match on the script pair.
	KeyFork string `json:"key_fork,omitempty" yaml:"key_fork,omitempty"`
}

// DefaultSkipReason is used when a skip entry carries no reason.
const DefaultSkipReason = "Test skipped"

// ReasonOrDefault returns the skip reason, falling back to DefaultSkipReason.
func (s Skip) ReasonOrDefault() string {
	if s.Reason == "" {
		return DefaultSkipReason
	}
	return s.Reason
}

// document is the on-disk shape of an override file. Entries may use the
// knuth_* names of older override files for the replacement fields.
type document struct {
	Overrides []entryDoc `json:"overrides" yaml:"overrides"`
	Skips     []Skip     `json:"skip_tests" yaml:"skip_tests"`
}

type entryDoc struct {
	ScriptSig    string  `json:"script_sig" yaml:"script_sig"`
	ScriptPubKey string  `json:"script_pub_key" yaml:"script_pub_key"`
	KeyFork      *string `json:"key_fork" yaml:"key_fork"`

	Error           *string `json:"error" yaml:"error"`
	Fork            *string `json:"fork" yaml:"fork"`
	NewScriptSig    *string `json:"new_script_sig" yaml:"new_script_sig"`
	NewScriptPubKey *string `json:"new_script_pub_key" yaml:"new_script_pub_key"`

	KnuthError        *string `json:"knuth_error" yaml:"knuth_error"`
	KnuthFork         *string `json:"knuth_fork" yaml:"knuth_fork"`
	KnuthScriptSig    *string `json:"knuth_script_sig" yaml:"knuth_script_sig"`
	KnuthScriptPubKey *string `json:"knuth_script_pub_key" yaml:"knuth_script_pub_key"`
}

// spec folds the knuth_* aliases into their fields. Setting both names of
// one field is an error.
func (d *document) spec() (*Spec, error) {
	spec := &Spec{Skips: d.Skips}
	for i, e := range d.Overrides {
		entry := Entry{ScriptSig: e.ScriptSig, ScriptPubKey: e.ScriptPubKey, KeyFork: e.KeyFork}
		for _, f := range []struct {
			dst         **string
			name, alias string
			val, legacy *string
		}{
			{&entry.Error, "error", "knuth_error", e.Error, e.KnuthError},
			{&entry.Fork, "fork", "knuth_fork", e.Fork, e.KnuthFork},
			{&entry.NewScriptSig, "new_script_sig", "knuth_script_sig", e.NewScriptSig, e.KnuthScriptSig},
			{&entry.NewScriptPubKey, "new_script_pub_key", "knuth_script_pub_key", e.NewScriptPubKey, e.KnuthScriptPubKey},
		} {
			if f.val != nil && f.legacy != nil {
				return nil, fmt.Errorf("overrides[%d]: both %s and %s are set", i, f.name, f.alias)
			}
			*f.dst = f.val
			if f.legacy != nil {
				*f.dst = f.legacy
			}
		}
		spec.Overrides = append(spec.Overrides, entry)
	}
	return spec, nil
}

// fieldNames lists the json names of a struct's fields.
func fieldNames(v any) []string {
	t := reflect.TypeOf(v)
	names := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		names = append(names, name)
	}
	return names
}

type pair struct {
	sig, pub string
}

type fullKey struct {
	pair
	fork   string
	forked bool
}

func keyOf(e Entry) fullKey {
	k := fullKey{pair: pair{e.ScriptSig, e.ScriptPubKey}}
	if e.KeyFork != nil {
		k.fork, k.forked = *e.KeyFork, true
	}
	return k
}
