package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

// FormatRow is the description row that opens upstream corpora.
const FormatRow = "Format is: [scriptSig, scriptPubKey, flags, expected_scripterror, ... comments]"

// Corpus builds a script test corpus: a JSON array of rows, each row an
// array of fields.
type Corpus struct {
	rows [][]any
}

// NewCorpus returns an empty corpus.
func NewCorpus() *Corpus {
	return &Corpus{}
}

// Description appends the upstream format description row.
func (c *Corpus) Description() *Corpus {
	return c.Raw(FormatRow)
}

// Comment appends a single-field comment row.
func (c *Corpus) Comment(text string) *Corpus {
	return c.Raw(text)
}

// Vector appends a five-field test vector row.
func (c *Corpus) Vector(sig, pub, flags, expected, comment string) *Corpus {
	return c.Raw(sig, pub, flags, expected, comment)
}

// Raw appends a row with arbitrary fields, for malformed rows.
func (c *Corpus) Raw(fields ...any) *Corpus {
	if fields == nil {
		fields = []any{}
	}
	c.rows = append(c.rows, fields)
	return c
}

// Len returns the number of rows.
func (c *Corpus) Len() int {
	return len(c.rows)
}

// Bytes encodes the corpus one row per line, the way upstream files are laid out.
func (c *Corpus) Bytes() []byte {
	out := []byte("[\n")
	for i, row := range c.rows {
		line, err := json.Marshal(row)
		if err != nil {
			panic(err) // rows hold only strings and numbers
		}
		out = append(out, ' ', ' ')
		out = append(out, line...)
		if i < len(c.rows)-1 {
			out = append(out, ',')
		}
		out = append(out, '\n')
	}
	return append(out, "]\n"...)
}

// WriteFile writes the corpus into dir and returns its path.
func (c *Corpus) WriteFile(t testing.TB, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, c.Bytes(), 0644); err != nil {
		t.Fatalf("write corpus %s: %v", path, err)
	}
	return path
}
