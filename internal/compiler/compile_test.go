package compiler

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/roach88/scriptvec/internal/ingest"
	"github.com/roach88/scriptvec/internal/ir"
	"github.com/roach88/scriptvec/internal/outcome"
	"github.com/roach88/scriptvec/internal/override"
)

func parse(t *testing.T, corpus string) *ingest.Result {
	t.Helper()
	res, err := ingest.Parse([]byte(corpus))
	require.NoError(t, err)
	return res
}

func ptr(s string) *string { return &s }

// =============================================================================
// End-to-end rows
// =============================================================================

func TestCompileBaselineRow(t *testing.T) {
	res, err := Compile(parse(t, `[["0x01 0x0b", "", "NONE", "OK", ""]]`), nil, Options{})
	require.NoError(t, err)
	require.Len(t, res.Vectors, 1)

	v := res.Vectors[0]
	assert.Equal(t, ir.ForkNoRules, v.Fork)
	assert.Equal(t, ir.OutcomeSuccess, v.Outcome)
	assert.Equal(t, "[0b]", v.InputScript)
	assert.Equal(t, "", v.OutputScript)
	assert.Equal(t, 1, v.Index)
	assert.Len(t, v.ID, 64)
	assert.True(t, res.Report.Clean())
}

func TestCompileArithmeticRow(t *testing.T) {
	res, err := Compile(parse(t, `[["", "ADD", "LOW_S,NULLFAIL", "EQUALVERIFY", "x"]]`), nil, Options{})
	require.NoError(t, err)
	require.Len(t, res.Vectors, 1)

	v := res.Vectors[0]
	assert.Equal(t, ir.ForkDAACW144, v.Fork)
	assert.Equal(t, "add", v.OutputScript)
	assert.Equal(t, ir.OutcomeInvalidScript, outcome.Map("EQUALVERIFY").Code)
	assert.Equal(t, ir.OutcomeOpAdd, v.Outcome, "invalid_script refined by the add opcode")
	assert.Equal(t, "x", v.Comment)
	assert.Equal(t, "LOW_S,NULLFAIL", v.OriginalFlags)
	assert.Equal(t, "EQUALVERIFY", v.OriginalOutcome)
}

// =============================================================================
// Diagnostics and report
// =============================================================================

func TestCompileDiagnosticsInRowOrder(t *testing.T) {
	corpus := `[
		["Format is: [scriptSig, scriptPubKey, flags, expected_scripterror, ... comments]"],
		["1", "1", "P2SH,BOGUS", "OK", "unknown flag"],
		["1", "2"],
		["1", "1", "P2SH", "WAT", "unknown outcome"],
		["DUP", "DROP", "", "OK"]
	]`
	res, err := Compile(parse(t, corpus), nil, Options{})
	require.NoError(t, err)

	report := res.Report
	assert.False(t, report.Clean())
	assert.Equal(t, 5, report.Rows)
	assert.Equal(t, 3, report.Processed)
	assert.Equal(t, []string{
		"Unknown flag: BOGUS",
		"Row 3: unexpected entry format: 2 field(s)",
		"Unknown error code: WAT",
	}, report.Messages())
	assert.Equal(t, 1, report.Count(ir.DiagUnknownFlag))
	assert.Equal(t, 1, report.Count(ir.DiagMalformedRow))
	assert.Equal(t, 1, report.Count(ir.DiagUnknownOutcome))

	assert.Equal(t, []string{"Unknown flag: BOGUS"}, res.Vectors[0].Notes)
	assert.Equal(t, ir.ForkBIP16, res.Vectors[0].Fork)

	unknown := res.Vectors[1]
	assert.Equal(t, ir.OutcomeUnknown, unknown.Outcome)
	assert.Equal(t, "WAT", unknown.UnmappedOutcome)

	last := res.Vectors[2]
	assert.Equal(t, "NONE", last.OriginalFlags)
	assert.Equal(t, "", last.Comment)
	assert.Empty(t, last.Notes)
}

func TestReportSummary(t *testing.T) {
	r := &Report{Rows: 4, Processed: 2, Excluded: 1, Overridden: 1,
		Diagnostics: []ir.Diagnostic{{Kind: ir.DiagMalformedRow, Row: 3}}}
	assert.Equal(t, Summary{Rows: 4, Processed: 2, Excluded: 1, Overridden: 1, Diagnostics: 1, Clean: false}, r.Summary())
}

// =============================================================================
// Overrides and skips
// =============================================================================

func TestCompileSkipBeatsOverride(t *testing.T) {
	table, err := override.Build(&override.Spec{
		Overrides: []override.Entry{{ScriptSig: "1", ScriptPubKey: "ADD", Error: ptr("OK")}},
		Skips:     []override.Skip{{ScriptSig: "1", ScriptPubKey: "ADD", Reason: "flaky"}},
	})
	require.NoError(t, err)

	res, err := Compile(parse(t, `[["1", "ADD", "P2SH", "EVAL_FALSE", "c"], ["2", "2 EQUAL", "", "OK", ""]]`), table, Options{})
	require.NoError(t, err)

	require.Len(t, res.Vectors, 1)
	assert.Equal(t, 2, res.Vectors[0].Index)
	assert.Equal(t, 1, res.Report.Excluded)
	assert.Equal(t, 0, res.Report.Overridden)
	assert.Equal(t, []ir.SkipRecord{{Row: 1, ScriptSig: "1", ScriptPubKey: "ADD", Reason: "flaky"}}, res.Report.Skipped)
}

func TestCompileAppliesOverrides(t *testing.T) {
	table, err := override.Build(&override.Spec{Overrides: []override.Entry{
		{ScriptSig: "1", ScriptPubKey: "ADD", KeyFork: ptr("P2SH"), Error: ptr("EVAL_FALSE")},
		{ScriptSig: "2", ScriptPubKey: "SUB", NewScriptPubKey: ptr("OP_1SUB"), Fork: ptr("STRICTENC")},
	}})
	require.NoError(t, err)

	corpus := `[
		["1", "ADD", "P2SH", "EQUALVERIFY", "a"],
		["1", "ADD", "STRICTENC", "EQUALVERIFY", "b"],
		["2", "SUB", "", "OK", "c"]
	]`
	res, err := Compile(parse(t, corpus), table, Options{})
	require.NoError(t, err)
	require.Len(t, res.Vectors, 3)
	assert.Equal(t, 2, res.Report.Overridden)

	first := res.Vectors[0]
	assert.Equal(t, ir.OutcomeStackFalse, first.Outcome)
	assert.Equal(t, "a [OVERRIDE: ERROR: EVAL_FALSE]", first.Comment)

	second := res.Vectors[1]
	assert.Equal(t, ir.OutcomeOpAdd, second.Outcome, "fork-specific key does not match other flags")
	assert.Equal(t, "b", second.Comment)

	third := res.Vectors[2]
	assert.Equal(t, "sub1", third.OutputScript)
	assert.Equal(t, ir.ForkUAHF, third.Fork)
	assert.Equal(t, "c [OVERRIDE: PUBKEY_REPLACED, FORK: STRICTENC]", third.Comment)
	assert.NotEqual(t, first.ID, third.ID)
}

// =============================================================================
// Concurrency
// =============================================================================

func TestCompileWorkersMatchSequential(t *testing.T) {
	defer goleak.VerifyNone(t)

	var b strings.Builder
	b.WriteString("[")
	for i := 0; i < 500; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		switch i % 4 {
		case 0:
			fmt.Fprintf(&b, `["%d", "ADD %d EQUAL", "P2SH,LOW_S", "EQUALVERIFY", "row %d"]`, i, i, i)
		case 1:
			fmt.Fprintf(&b, `["0x01 0x%02x", "EQUAL", "", "OK", ""]`, i%256)
		case 2:
			fmt.Fprintf(&b, `["%d", "SUB", "FLAG_%d", "NOT_A_LABEL"]`, i, i)
		default:
			b.WriteString(`["1"]`)
		}
	}
	b.WriteString("]")
	corpus := b.String()

	table, err := override.Build(&override.Spec{
		Overrides: []override.Entry{{ScriptSig: "8", ScriptPubKey: "ADD 8 EQUAL", Error: ptr("OK")}},
		Skips:     []override.Skip{{ScriptSig: "4", ScriptPubKey: "ADD 4 EQUAL"}},
	})
	require.NoError(t, err)

	seq, err := Compile(parse(t, corpus), table, Options{})
	require.NoError(t, err)
	par, err := Compile(parse(t, corpus), table, Options{Workers: 8})
	require.NoError(t, err)

	assert.Equal(t, seq.Vectors, par.Vectors)
	assert.Equal(t, seq.Report, par.Report)
	assert.Equal(t, 1, par.Report.Excluded)
	assert.Equal(t, 1, par.Report.Overridden)
	for i := 1; i < len(par.Vectors); i++ {
		assert.Less(t, par.Vectors[i-1].Index, par.Vectors[i].Index)
	}
}

func TestCompileLogsSummary(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, err := Compile(parse(t, `[["1", "1", "BOGUS", "OK", ""]]`), nil, Options{Logger: zap.New(core)})
	require.NoError(t, err)

	summary := logs.FilterMessage("Compiled corpus").All()
	require.Len(t, summary, 1)
	assert.Equal(t, int64(1), summary[0].ContextMap()["processed"])
	assert.Equal(t, int64(1), summary[0].ContextMap()["diagnostics"])
	assert.Equal(t, 1, logs.FilterMessage("Diagnostic").Len())
}
