package ingest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/scriptvec/internal/ir"
)

// ErrCorpusNotArray is returned when the corpus top level is not a JSON array.
var ErrCorpusNotArray = errors.New("corpus must be a JSON array")

// descriptionSentinels are prose prefixes of the corpus format description rows.
var descriptionSentinels = []string{
	"Format is:",
	"It is evaluated",
	"pushes as",
	"followed by",
	"correct prevout",
	"nSequences",
}

// Result holds the candidates of one corpus.
type Result struct {
	Vectors     []ir.RawVector
	Diagnostics []ir.Diagnostic
	Rows        int // total rows read, including dropped ones
}

// Read parses a corpus from r.
func Read(r io.Reader) (*Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	return Parse(data)
}

// Parse parses corpus bytes. Row numbers are 1-based.
func Parse(data []byte) (*Result, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrCorpusNotArray
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, fmt.Errorf("parsing corpus: %w", err)
	}

	result := &Result{Rows: len(rows)}
	for i, row := range rows {
		vec, diag, ok := Classify(i+1, row)
		if diag != nil {
			result.Diagnostics = append(result.Diagnostics, *diag)
		}
		if ok {
			result.Vectors = append(result.Vectors, vec)
		}
	}
	return result, nil
}

// Classify turns one row into at most one candidate.
// It returns ok=false for dropped rows; diag is non-nil only when the row
// was malformed (comments and description rows are dropped silently).
func Classify(index int, row json.RawMessage) (vec ir.RawVector, diag *ir.Diagnostic, ok bool) {
	var fields []json.RawMessage
	if err := json.Unmarshal(row, &fields); err != nil {
		return vec, malformed(index, "expected an array of fields"), false
	}

	switch {
	case len(fields) == 1:
		return vec, nil, false
	case len(fields) < 4:
		return vec, malformed(index, fmt.Sprintf("unexpected entry format: %d field(s)", len(fields))), false
	}

	var first string
	if err := json.Unmarshal(fields[0], &first); err == nil && isDescription(first) {
		return vec, nil, false
	}

	n := min(len(fields), 5)
	values := make([]string, 5)
	for i := 0; i < n; i++ {
		if err := json.Unmarshal(fields[i], &values[i]); err != nil {
			return vec, malformed(index, fmt.Sprintf("field %d is not a string", i+1)), false
		}
	}

	vec = ir.RawVector{
		Index:           index,
		InputScript:     values[0],
		OutputScript:    values[1],
		Flags:           NormalizeFlags(values[2]),
		ExpectedOutcome: values[3],
		Comment:         values[4],
	}
	return vec, nil, true
}

// NormalizeFlags maps an empty flags field, or one that holds a spuriously
// duplicated script fragment, to the NONE sentinel.
func NormalizeFlags(flags string) string {
	if flags == "" || looksLikeScript(flags) {
		return ir.NoFlags
	}
	return flags
}

func looksLikeScript(s string) bool {
	return strings.Contains(s, "0x") && strings.Contains(s, "CHECKSIG")
}

func isDescription(s string) bool {
	for _, prefix := range descriptionSentinels {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}
	return false
}

func malformed(index int, msg string) *ir.Diagnostic {
	return &ir.Diagnostic{
		Kind:    ir.DiagMalformedRow,
		Row:     index,
		Message: fmt.Sprintf("Row %d: %s", index, msg),
	}
}
