package override

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/scriptvec/internal/fork"
	"github.com/roach88/scriptvec/internal/outcome"
)

// Validation error codes (E200-E299)
const (
	ErrEmptyOverride   = "E200" // override replaces nothing
	ErrEmptySkipPair   = "E201" // skip entry has neither script
	ErrUnknownKeyFork  = "E202" // key_fork names an unknown flag
	ErrUnknownFork     = "E203" // fork names an unknown flag
	ErrUnknownOutcome  = "E204" // error names an unknown outcome label
	ErrCodeMixedKeys   = "E205" // scripts-only and fork-specific keys mixed
	ErrCodeDuplicate   = "E206" // duplicate full key
	ErrDuplicateSkip   = "E207" // skip entry repeats an earlier script pair
	ErrSkipAndOverride = "E208" // skipped pair also has overrides
)

// ValidationError is one problem found in an override document.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Fatal reports whether the error would make Build fail.
func (e ValidationError) Fatal() bool {
	return e.Code == ErrCodeMixedKeys || e.Code == ErrCodeDuplicate
}

// Validate checks an override document and returns every problem found.
// Only conflicts (see Fatal) stop compilation; the rest flag entries that
// cannot have the intended effect.
func Validate(spec *Spec) []ValidationError {
	var errs []ValidationError
	add := func(field, code, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	b := NewBuilder()
	overridden := make(map[pair]bool)
	for i, e := range spec.Overrides {
		field := fmt.Sprintf("overrides[%d]", i)
		if err := b.Add(e); err != nil {
			code := ErrCodeDuplicate
			if errors.Is(err, ErrMixedKeys) {
				code = ErrCodeMixedKeys
			}
			add(field, code, "%v", err)
		}
		overridden[pair{e.ScriptSig, e.ScriptPubKey}] = true

		if e.Empty() {
			add(field, ErrEmptyOverride, "override replaces no field")
		}
		if e.KeyFork != nil {
			for _, label := range unknownFlags(*e.KeyFork) {
				add(field+".key_fork", ErrUnknownKeyFork, "unknown flag %q", label)
			}
		}
		if e.Fork != nil {
			for _, label := range unknownFlags(*e.Fork) {
				add(field+".fork", ErrUnknownFork, "unknown flag %q", label)
			}
		}
		if e.Error != nil && !outcome.Map(*e.Error).Known() {
			add(field+".error", ErrUnknownOutcome, "unknown outcome label %q", *e.Error)
		}
	}

	seen := make(map[pair]bool)
	for i, s := range spec.Skips {
		field := fmt.Sprintf("skip_tests[%d]", i)
		p := pair{s.ScriptSig, s.ScriptPubKey}
		if strings.TrimSpace(s.ScriptSig) == "" && strings.TrimSpace(s.ScriptPubKey) == "" {
			add(field, ErrEmptySkipPair, "skip entry needs script_sig or script_pub_key")
		}
		if seen[p] {
			add(field, ErrDuplicateSkip, "script pair already skipped by an earlier entry")
		}
		seen[p] = true
		if overridden[p] {
			add(field, ErrSkipAndOverride, "skipped scripts also have overrides, which will never apply")
		}
	}
	return errs
}

func unknownFlags(flags string) []string {
	return fork.Resolve(flags).Unknown
}
