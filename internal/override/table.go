package override

import (
	"errors"
	"fmt"
)

var (
	// ErrMixedKeys means a script pair has both scripts-only and
	// fork-specific override entries.
	ErrMixedKeys = errors.New("scripts-only and fork-specific overrides for the same scripts")

	// ErrDuplicateKey means two override entries share a full key.
	ErrDuplicateKey = errors.New("duplicate override key")
)

// ConflictError reports an override entry rejected by the builder.
type ConflictError struct {
	Index        int // 0-based position in the overrides list
	ScriptSig    string
	ScriptPubKey string
	KeyFork      *string
	Err          error
}

func (e *ConflictError) Error() string {
	key := fmt.Sprintf("(%q, %q)", e.ScriptSig, e.ScriptPubKey)
	if e.KeyFork != nil {
		key = fmt.Sprintf("(%q, %q, %q)", e.ScriptSig, e.ScriptPubKey, *e.KeyFork)
	}
	return fmt.Sprintf("override %d %s: %v", e.Index, key, e.Err)
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// Builder accumulates entries and rejects conflicting ones.
type Builder struct {
	entries map[fullKey]Entry
	kinds   map[pair]bool // pair -> fork-specific
	skips   map[pair]Skip
	added   int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		entries: make(map[fullKey]Entry),
		kinds:   make(map[pair]bool),
		skips:   make(map[pair]Skip),
	}
}

// Add registers one override entry. The builder is unchanged when Add
// returns an error.
func (b *Builder) Add(e Entry) error {
	index := b.added
	k := keyOf(e)
	conflict := func(err error) error {
		return &ConflictError{
			Index:        index,
			ScriptSig:    e.ScriptSig,
			ScriptPubKey: e.ScriptPubKey,
			KeyFork:      e.KeyFork,
			Err:          err,
		}
	}

	if forked, seen := b.kinds[k.pair]; seen && forked != k.forked {
		return conflict(ErrMixedKeys)
	}
	if _, dup := b.entries[k]; dup {
		return conflict(ErrDuplicateKey)
	}

	b.entries[k] = e
	b.kinds[k.pair] = k.forked
	b.added++
	return nil
}

// AddSkip registers a skip entry. The first entry for a script pair wins.
func (b *Builder) AddSkip(s Skip) {
	p := pair{s.ScriptSig, s.ScriptPubKey}
	if _, ok := b.skips[p]; !ok {
		b.skips[p] = s
	}
}

// Build returns the immutable table. The builder must not be used after.
func (b *Builder) Build() *Table {
	t := &Table{entries: b.entries, skips: b.skips}
	b.entries, b.kinds, b.skips = nil, nil, nil
	return t
}

// Build validates spec and returns its table.
func Build(spec *Spec) (*Table, error) {
	b := NewBuilder()
	for _, e := range spec.Overrides {
		if err := b.Add(e); err != nil {
			return nil, err
		}
	}
	for _, s := range spec.Skips {
		b.AddSkip(s)
	}
	return b.Build(), nil
}

// Table is a validated, read-only override table. A nil *Table is empty.
type Table struct {
	entries map[fullKey]Entry
	skips   map[pair]Skip
}

// Skip returns the skip entry matching the script pair.
func (t *Table) Skip(sig, pub string) (Skip, bool) {
	if t == nil {
		return Skip{}, false
	}
	s, ok := t.skips[pair{sig, pub}]
	return s, ok
}

// Lookup returns the override for a vector, preferring an entry keyed by
// flags over a scripts-only entry.
func (t *Table) Lookup(sig, pub, flags string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	p := pair{sig, pub}
	if e, ok := t.entries[fullKey{pair: p, fork: flags, forked: true}]; ok {
		return e, true
	}
	e, ok := t.entries[fullKey{pair: p}]
	return e, ok
}

// Overrides returns the number of override entries.
func (t *Table) Overrides() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Skips returns the number of distinct skip keys.
func (t *Table) Skips() int {
	if t == nil {
		return 0
	}
	return len(t.skips)
}
