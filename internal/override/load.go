package override

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of an override document.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCUE  Format = "cue"
)

// ErrUnknownFormat is returned for files whose extension names no format.
var ErrUnknownFormat = errors.New("unknown override file format")

// FormatOf picks the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".cue":
		return FormatCUE, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ParseError reports an override document that could not be decoded.
// Line and Column are 1-based and zero when unknown.
type ParseError struct {
	Path    string
	Format  Format
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Load reads and decodes an override document.
func Load(path string) (*Spec, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading overrides: %w", err)
	}
	return Decode(path, format, data)
}

// Decode decodes an override document. path is used for error positions.
// Fields the document format does not define are rejected.
func Decode(path string, format Format, data []byte) (*Spec, error) {
	var doc document
	switch format {
	case FormatJSON:
		if err := decodeJSON(data, &doc); err != nil {
			return nil, jsonError(path, data, err)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, &ParseError{Path: path, Format: format, Message: err.Error()}
		}
	case FormatCUE:
		if err := decodeCUE(path, data, &doc); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	spec, err := doc.spec()
	if err != nil {
		return nil, &ParseError{Path: path, Format: format, Message: err.Error()}
	}
	return spec, nil
}

func decodeJSON(data []byte, doc *document) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(doc); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after the override document")
	}
	return nil
}

func decodeCUE(path string, data []byte, doc *document) error {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return cueError(path, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return cueError(path, err)
	}
	if err := v.Decode(doc); err != nil {
		return cueError(path, err)
	}
	return checkCUEFields(path, v)
}

// checkCUEFields rejects regular fields the document does not define.
// Definitions such as #Override are not regular fields.
func checkCUEFields(path string, v cue.Value) error {
	if err := knownFields(path, "", v, fieldNames(document{})); err != nil {
		return err
	}
	for _, list := range []struct {
		name  string
		known []string
	}{
		{"overrides", fieldNames(entryDoc{})},
		{"skip_tests", fieldNames(Skip{})},
	} {
		items, err := v.LookupPath(cue.ParsePath(list.name)).List()
		if err != nil {
			continue
		}
		for i := 0; items.Next(); i++ {
			if err := knownFields(path, fmt.Sprintf("%s[%d].", list.name, i), items.Value(), list.known); err != nil {
				return err
			}
		}
	}
	return nil
}

func knownFields(path, prefix string, v cue.Value, known []string) error {
	fields, err := v.Fields()
	if err != nil {
		return nil
	}
	for fields.Next() {
		name := fields.Selector().String()
		if slices.Contains(known, name) {
			continue
		}
		perr := &ParseError{Path: path, Format: FormatCUE, Message: fmt.Sprintf("unknown field %s%s", prefix, name)}
		if pos := fields.Value().Pos(); pos.IsValid() {
			perr.Line, perr.Column = pos.Line(), pos.Column()
		}
		return perr
	}
	return nil
}

// cueError keeps the first error and its position.
func cueError(path string, err error) error {
	perr := &ParseError{Path: path, Format: FormatCUE, Message: err.Error()}
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return perr
	}
	first := errs[0]
	perr.Message = first.Error()
	if positions := cueerrors.Positions(first); len(positions) > 0 && positions[0].IsValid() {
		perr.Line = positions[0].Line()
		perr.Column = positions[0].Column()
	}
	return perr
}

func jsonError(path string, data []byte, err error) error {
	perr := &ParseError{Path: path, Format: FormatJSON, Message: err.Error()}
	var offset int64
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntax):
		offset = syntax.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	default:
		return perr
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	before := data[:offset]
	perr.Line = bytes.Count(before, []byte("\n")) + 1
	perr.Column = int(offset) - (bytes.LastIndexByte(before, '\n') + 1)
	if perr.Column < 1 {
		perr.Column = 1
	}
	return perr
}
