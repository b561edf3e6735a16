package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/roach88/scriptvec/internal/emit"
	"github.com/roach88/scriptvec/internal/ingest"
	"github.com/roach88/scriptvec/internal/override"
)

// Error code constants, unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeInvalidArgs  = "E002" // Missing or invalid arguments
	ErrCodeNotFound     = "E003" // Path not found
	ErrCodeReadFailed   = "E004" // File could not be read
	ErrCodeCorpus       = "E005" // Corpus is not a JSON array of rows
	ErrCodeOverrides    = "E006" // Override document could not be decoded
	ErrCodeConflict     = "E007" // Conflicting override keys
	ErrCodeMarker       = "E008" // Splice markers missing or out of order
	ErrCodeWriteFailed  = "E009" // File write error
	ErrCodeConfig       = "E010" // Project config could not be loaded
	ErrCodeLedger       = "E011" // Compilation ledger error
	ErrCodeRunNotFound  = "E012" // No run matches the reference
	ErrCodeAmbiguousRun = "E013" // Run prefix matches several runs
)

// LoadError is a fatal input problem with its CLI error code. Line and
// Column are set when the underlying decoder reports a position.
type LoadError struct {
	Code    string
	Message string
	Path    string
	Line    int
	Column  int
	Err     error
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Path, e.Line, e.Column, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// readInput reads a file, mapping a missing file to ErrCodeNotFound.
func readInput(path, what string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s not found: %s", what, path), Path: path, Err: err}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading %s: %v", what, err), Path: path, Err: err}
	}
	return data, nil
}

// LoadCorpus reads and parses a corpus file. The raw bytes are returned
// for hashing.
func LoadCorpus(path string) (*ingest.Result, []byte, error) {
	data, err := readInput(path, "corpus")
	if err != nil {
		return nil, nil, err
	}
	res, err := ingest.Parse(data)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeCorpus, Message: err.Error(), Path: path, Err: err}
	}
	return res, data, nil
}

// LoadOverrides reads an override document without building it.
func LoadOverrides(path string) (*override.Spec, error) {
	format, err := override.FormatOf(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeOverrides, Message: err.Error(), Path: path, Err: err}
	}
	data, err := readInput(path, "overrides")
	if err != nil {
		return nil, err
	}
	spec, err := override.Decode(path, format, data)
	if err == nil {
		return spec, nil
	}
	loadErr := &LoadError{Code: ErrCodeOverrides, Message: err.Error(), Path: path, Err: err}
	var parseErr *override.ParseError
	if errors.As(err, &parseErr) {
		loadErr.Message = parseErr.Message
		loadErr.Line, loadErr.Column = parseErr.Line, parseErr.Column
	}
	return nil, loadErr
}

// BuildOverrides loads and builds an override table. An empty path yields
// a nil table, which applies nothing.
func BuildOverrides(path string) (*override.Table, error) {
	if path == "" {
		return nil, nil
	}
	spec, err := LoadOverrides(path)
	if err != nil {
		return nil, err
	}
	table, err := override.Build(spec)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeConflict, Message: err.Error(), Path: path, Err: err}
	}
	return table, nil
}

// markerError maps splice failures to ErrCodeMarker.
func markerError(path string, err error) error {
	if errors.Is(err, emit.ErrMarkerMissing) || errors.Is(err, emit.ErrMarkerOrder) {
		return &LoadError{Code: ErrCodeMarker, Message: err.Error(), Path: path, Err: err}
	}
	return &LoadError{Code: ErrCodeReadFailed, Message: err.Error(), Path: path, Err: err}
}
