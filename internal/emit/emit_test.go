package emit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scriptvec/internal/compiler"
	"github.com/roach88/scriptvec/internal/ir"
)

func fixture() *compiler.Result {
	return &compiler.Result{
		Vectors: []ir.CompiledVector{
			{
				ID: "a1", Index: 1,
				InputScript: "[0b]", OutputScript: "",
				Fork: ir.ForkNoRules, Outcome: ir.OutcomeSuccess,
				OriginalFlags: "NONE", OriginalOutcome: "OK",
			},
			{
				ID: "b2", Index: 2,
				InputScript: "1", OutputScript: "add 2 equal",
				Fork: ir.ForkDAACW144, Outcome: ir.OutcomeOpAdd,
				Comment:       `say "hi"`,
				OriginalFlags: "LOW_S,NULLFAIL", OriginalOutcome: "EQUALVERIFY",
			},
			{
				ID: "c3", Index: 3,
				InputScript: "'a\tb'", OutputScript: "equal",
				Fork: ir.ForkBIP16, Outcome: ir.OutcomeUnknown, UnmappedOutcome: "WAT",
				Comment:       "x [OVERRIDE: FORK: P2SH]",
				OriginalFlags: "P2SH,BOGUS", OriginalOutcome: "WAT",
				Notes:         []string{"Unknown flag: BOGUS", "Unknown error code: WAT"},
			},
		},
		Report: &compiler.Report{
			Rows: 4, Processed: 3, Excluded: 1, Overridden: 1,
			Diagnostics: []ir.Diagnostic{
				{Kind: ir.DiagUnknownFlag, Row: 3, Message: "Unknown flag: BOGUS"},
				{Kind: ir.DiagUnknownOutcome, Row: 3, Message: "Unknown error code: WAT"},
			},
			Skipped: []ir.SkipRecord{
				{Row: 4, ScriptSig: "1", ScriptPubKey: "CHECKLOCKTIMEVERIFY", KeyFork: "P2SH", Reason: "needs tx"},
			},
		},
	}
}

func smallChunks() Options {
	opts := DefaultOptions()
	opts.ChunkSize = 2
	return opts
}

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

// =============================================================================
// Chunking
// =============================================================================

func TestChunk(t *testing.T) {
	vectors := make([]ir.CompiledVector, 7)
	for i := range vectors {
		vectors[i].Index = i + 1
	}

	chunks, err := Chunk(vectors, 3)
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 3)
	assert.Len(t, chunks[1], 3)
	assert.Len(t, chunks[2], 1)

	var flat []int
	for _, c := range chunks {
		for _, v := range c {
			flat = append(flat, v.Index)
		}
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7}, flat)

	chunks, err = Chunk(nil, 100)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	for _, size := range []int{0, -1} {
		_, err = Chunk(vectors, size)
		assert.ErrorIs(t, err, ErrChunkSize)
	}
}

func TestChunkAppendDoesNotClobber(t *testing.T) {
	vectors := make([]ir.CompiledVector, 4)
	chunks, err := Chunk(vectors, 2)
	require.NoError(t, err)

	_ = append(chunks[0], ir.CompiledVector{Index: 99})
	assert.Equal(t, 0, chunks[1][0].Index)
}

// =============================================================================
// C++ header
// =============================================================================

func TestWriteHeaderGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHeader(&buf, fixture(), smallChunks()))
	golden(t).Assert(t, "header", buf.Bytes())
}

func TestWriteArraysGolden(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteArrays(&buf, fixture(), smallChunks()))
	golden(t).Assert(t, "arrays", buf.Bytes())
}

func TestWriteHeaderEmpty(t *testing.T) {
	var buf bytes.Buffer
	res := &compiler.Result{Report: &compiler.Report{}}
	require.NoError(t, WriteHeader(&buf, res, DefaultOptions()))

	out := buf.String()
	assert.Contains(t, out, "std::vector<script_test_list const*> const all_script_test_chunks{\n};\n")
	assert.Contains(t, out, "script_test_list const script_tests_from_json{};\n")
	assert.NotContains(t, out, "script_tests_from_json_0")
	assert.NotContains(t, out, "PARSING ERRORS ENCOUNTERED")
	assert.NotContains(t, out, "SKIPPED TESTS")
}

func TestWriteHeaderRejectsChunkSize(t *testing.T) {
	opts := DefaultOptions()
	opts.ChunkSize = 0
	err := WriteHeader(&bytes.Buffer{}, fixture(), opts)
	assert.ErrorIs(t, err, ErrChunkSize)
}

func TestWriteHeaderNamespaces(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{ChunkSize: 10, ForkEnum: "fork_t", ErrorNamespace: "my::err", ErrorEnum: "code"}
	require.NoError(t, WriteHeader(&buf, fixture(), opts))

	out := buf.String()
	assert.Contains(t, out, "\nenum fork_t : uint32_t;\n")
	assert.Contains(t, out, "namespace my::err {\n    enum code;\n}\n")
	assert.Contains(t, out, `fork_t::bch_daa_cw144, my::err::op_add`)
	assert.Contains(t, out, "/* UNKNOWN_ERROR: WAT */ my::err::unknown")
	assert.Contains(t, out, " * Script test chunk 0 (tests 0 to 2)\n")
}

func TestVectorLineSeparators(t *testing.T) {
	v := fixture().Vectors[0]
	opts := DefaultOptions()
	assert.Contains(t, vectorLine(v, false, opts), `""}, // flags: NONE`)
	assert.Contains(t, vectorLine(v, true, opts), `""} // flags: NONE`)
}

func TestCommentSafety(t *testing.T) {
	v := ir.CompiledVector{
		Outcome:         ir.OutcomeUnknown,
		UnmappedOutcome: "A*/B",
		OriginalFlags:   "X\nY",
		Comment:         "line1\nline2\\",
	}
	line := vectorLine(v, true, DefaultOptions())
	assert.NotContains(t, line, "\n")
	assert.Contains(t, line, "/* UNKNOWN_ERROR: A* /B */")
	assert.Contains(t, line, `"line1\nline2\\"`)
	assert.Contains(t, line, "// flags: X Y,")
}

func TestLineCommentTrailingBackslash(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"P2SH", "P2SH"},
		{`EVAL_FALSE\`, `EVAL_FALSE\x5c`},
		{`a\\`, `a\\x5c`},
		{"a\\\n", `a\x5c`},
		{`a\b`, `a\b`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, lineComment(tt.in), tt.in)
	}

	v := ir.CompiledVector{
		Outcome:         ir.OutcomeSuccess,
		OriginalFlags:   `P2SH\`,
		OriginalOutcome: `OK\`,
	}
	line := vectorLine(v, true, DefaultOptions())
	assert.False(t, strings.HasSuffix(line, `\`), line)
	assert.Contains(t, line, `// flags: P2SH\x5c, expected: OK\x5c`)
}

func TestCString(t *testing.T) {
	assert.Equal(t, `a\\b\"c\nd\re\tf`, cString("a\\b\"c\nd\re\tf"))
	assert.Equal(t, "'Az'", cString("'Az'"))
}

// =============================================================================
// Splicing
// =============================================================================

func TestSplice(t *testing.T) {
	content := "#include <x>\n" + BeginMarker + "\nold stuff\nmore\n" + EndMarker + "\ntrailer\n"
	out, err := Splice([]byte(content), []byte("new body\n"))
	require.NoError(t, err)
	assert.Equal(t, "#include <x>\n"+BeginMarker+"\nnew body\n"+EndMarker+"\ntrailer\n", string(out))

	again, err := Splice(out, []byte("new body\n"))
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestSpliceErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    error
	}{
		{"no markers", "nothing here\n", ErrMarkerMissing},
		{"no end", BeginMarker + "\nbody\n", ErrMarkerMissing},
		{"no begin", "body\n" + EndMarker + "\n", ErrMarkerMissing},
		{"reversed", EndMarker + "\nbody\n" + BeginMarker + "\n", ErrMarkerOrder},
		{"same line", BeginMarker + " " + EndMarker + "\n", ErrMarkerOrder},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Splice([]byte(tt.content), []byte("x"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSpliceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script.cpp")
	content := "a\n" + BeginMarker + "\nold\n" + EndMarker + "\nb\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	require.NoError(t, SpliceFile(path, []byte("fresh\n")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n"+BeginMarker+"\nfresh\n"+EndMarker+"\nb\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temporary files left behind")
}

func TestSpliceFileLeavesTargetOnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.cpp")
	content := "no markers\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	err := SpliceFile(path, []byte("fresh\n"))
	assert.ErrorIs(t, err, ErrMarkerMissing)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(got))
}

func TestWriteFileCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "nested", "script_tests.hpp")
	require.NoError(t, WriteFile(path, []byte("x")))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x", string(got))
}

// =============================================================================
// JSON fixture
// =============================================================================

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, fixture(), smallChunks()))

	var doc struct {
		Version   string   `json:"version"`
		ChunkSize int      `json:"chunk_size"`
		Total     int      `json:"total"`
		Index     []string `json:"index"`
		Chunks    [][]struct {
			ID              string   `json:"id"`
			Index           int      `json:"index"`
			Fork            string   `json:"fork"`
			Outcome         string   `json:"outcome"`
			UnmappedOutcome string   `json:"unmapped_outcome"`
			Notes           []string `json:"notes"`
		} `json:"chunks"`
		Report struct {
			Clean       bool `json:"clean"`
			Processed   int  `json:"processed"`
			Diagnostics []struct {
				Kind string `json:"kind"`
				Row  int    `json:"row"`
			} `json:"diagnostics"`
		} `json:"report"`
		Skipped []struct {
			Row     int    `json:"row"`
			KeyFork string `json:"key_fork"`
		} `json:"skipped"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))

	assert.Equal(t, ir.FixtureVersion, doc.Version)
	assert.Equal(t, 2, doc.ChunkSize)
	assert.Equal(t, 3, doc.Total)
	assert.Equal(t, []string{"script_tests_from_json_0", "script_tests_from_json_1"}, doc.Index)
	require.Len(t, doc.Chunks, 2)
	assert.Len(t, doc.Chunks[0], 2)
	assert.Equal(t, "bch_daa_cw144", doc.Chunks[0][1].Fork)
	assert.Equal(t, "unknown", doc.Chunks[1][0].Outcome)
	assert.Equal(t, "WAT", doc.Chunks[1][0].UnmappedOutcome)
	assert.Len(t, doc.Chunks[1][0].Notes, 2)
	assert.False(t, doc.Report.Clean)
	assert.Equal(t, 3, doc.Report.Processed)
	assert.Len(t, doc.Report.Diagnostics, 2)
	require.Len(t, doc.Skipped, 1)
	assert.Equal(t, "P2SH", doc.Skipped[0].KeyFork)
}

func TestWriteJSONDeterministic(t *testing.T) {
	var first bytes.Buffer
	require.NoError(t, WriteJSON(&first, fixture(), DefaultOptions()))
	for i := 0; i < 5; i++ {
		var again bytes.Buffer
		require.NoError(t, WriteJSON(&again, fixture(), DefaultOptions()))
		assert.Equal(t, first.String(), again.String(), fmt.Sprintf("run %d", i))
	}
	assert.True(t, bytes.HasSuffix(first.Bytes(), []byte("}\n")))
}
