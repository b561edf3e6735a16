package emit

import "strings"

// Options controls fixture rendering.
type Options struct {
	ChunkSize int

	// ForkEnum is the qualified C++ enum of fork rules, for example
	// "kth::domain::machine::rule_fork".
	ForkEnum string

	// ErrorNamespace qualifies outcome codes; ErrorEnum names the enum
	// declared inside it.
	ErrorNamespace string
	ErrorEnum      string

	// Source names the corpus in the generated preamble.
	Source string
}

// DefaultOptions returns the options matching the reference harness.
func DefaultOptions() Options {
	return Options{
		ChunkSize:      DefaultChunkSize,
		ForkEnum:       "kth::domain::machine::rule_fork",
		ErrorNamespace: "kth::error",
		ErrorEnum:      "error_code_t",
		Source:         "script_tests.json",
	}
}

// withDefaults fills zero fields from DefaultOptions. ChunkSize is left
// alone so that Chunk can reject bad values.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ForkEnum == "" {
		o.ForkEnum = d.ForkEnum
	}
	if o.ErrorNamespace == "" {
		o.ErrorNamespace = d.ErrorNamespace
	}
	if o.ErrorEnum == "" {
		o.ErrorEnum = d.ErrorEnum
	}
	if o.Source == "" {
		o.Source = d.Source
	}
	return o
}

// forkEnumParts splits ForkEnum into its namespace and enum name.
func (o Options) forkEnumParts() (ns, name string) {
	i := strings.LastIndex(o.ForkEnum, "::")
	if i < 0 {
		return "", o.ForkEnum
	}
	return o.ForkEnum[:i], o.ForkEnum[i+2:]
}
