package override

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFormats(t *testing.T) {
	for _, name := range []string{"overrides.json", "overrides.yaml", "overrides.cue"} {
		t.Run(name, func(t *testing.T) {
			spec, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)

			require.Len(t, spec.Overrides, 2)
			first := spec.Overrides[0]
			assert.Equal(t, "1", first.ScriptSig)
			assert.Equal(t, "ADD 2 EQUAL", first.ScriptPubKey)
			require.NotNil(t, first.KeyFork)
			assert.Equal(t, "P2SH,STRICTENC", *first.KeyFork)
			require.NotNil(t, first.Error)
			assert.Equal(t, "EVAL_FALSE", *first.Error)
			assert.Nil(t, first.Fork)
			assert.Nil(t, first.NewScriptSig)

			second := spec.Overrides[1]
			assert.False(t, second.ForkSpecific())
			require.NotNil(t, second.NewScriptPubKey)
			assert.Equal(t, "0x01 0x0b EQUAL", *second.NewScriptPubKey)
			require.NotNil(t, second.Fork)
			assert.Equal(t, "P2SH", *second.Fork)

			require.Len(t, spec.Skips, 1)
			assert.Equal(t, "CHECKLOCKTIMEVERIFY", spec.Skips[0].ScriptPubKey)
			assert.Equal(t, "needs transaction context", spec.Skips[0].Reason)

			_, err = Build(spec)
			assert.NoError(t, err)
		})
	}
}

func TestFormatOf(t *testing.T) {
	tests := map[string]Format{
		"a.json":    FormatJSON,
		"a.yaml":    FormatYAML,
		"a.YML":     FormatYAML,
		"dir/a.cue": FormatCUE,
	}
	for path, want := range tests {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatOf("overrides.toml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDecodeJSONSyntaxErrorPosition(t *testing.T) {
	data := []byte("{\n  \"overrides\": [\n    {\"script_sig\": 1,}\n  ]\n}")
	_, err := Decode("bad.json", FormatJSON, data)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, FormatJSON, perr.Format)
	assert.Equal(t, 3, perr.Line)
	assert.Positive(t, perr.Column)
}

func TestDecodeCUEError(t *testing.T) {
	data := []byte("overrides: [{script_sig: 1, script_pub_key: \"x\"}]\nskip_tests: []\n")
	_, err := Decode("bad.cue", FormatCUE, data)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, FormatCUE, perr.Format)
}

func TestDecodeCUERejectsIncomplete(t *testing.T) {
	data := []byte("overrides: [{script_sig: string, script_pub_key: \"x\"}]\n")
	_, err := Decode("open.cue", FormatCUE, data)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
}

func TestDecodeYAMLError(t *testing.T) {
	_, err := Decode("bad.yaml", FormatYAML, []byte("overrides: [\n"))
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Contains(t, perr.Error(), "bad.yaml")
}

func TestLoadKnuthFieldNames(t *testing.T) {
	spec, err := Load(filepath.Join("testdata", "knuth_overrides.json"))
	require.NoError(t, err)
	require.Len(t, spec.Overrides, 2)

	first := spec.Overrides[0]
	assert.False(t, first.Empty())
	require.NotNil(t, first.Error)
	assert.Equal(t, "EVAL_FALSE", *first.Error)
	require.NotNil(t, first.Fork)
	assert.Equal(t, "P2SH", *first.Fork)

	second := spec.Overrides[1]
	assert.True(t, second.ForkSpecific())
	require.NotNil(t, second.NewScriptSig)
	assert.Equal(t, "0x01 0x0c", *second.NewScriptSig)
	require.NotNil(t, second.NewScriptPubKey)
	assert.Equal(t, "0x01 0x0c EQUAL", *second.NewScriptPubKey)
	assert.Nil(t, second.Error)

	require.Len(t, spec.Skips, 1)
	_, err = Build(spec)
	assert.NoError(t, err)
}

func TestDecodeKnuthFieldNamesEveryFormat(t *testing.T) {
	data := []byte(`{"overrides": [{"script_sig": "1", "script_pub_key": "ADD", "knuth_error": "EVAL_FALSE", "knuth_fork": "P2SH"}]}`)
	for _, format := range []Format{FormatJSON, FormatYAML, FormatCUE} {
		t.Run(string(format), func(t *testing.T) {
			spec, err := Decode("overrides."+string(format), format, data)
			require.NoError(t, err)
			require.Len(t, spec.Overrides, 1)
			e := spec.Overrides[0]
			assert.False(t, e.Empty())
			assert.Equal(t, "EVAL_FALSE", *e.Error)
			assert.Equal(t, "P2SH", *e.Fork)
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	tests := []struct {
		name  string
		data  string
		field string
	}{
		{"override entry", `{"overrides": [{"script_sig": "1", "script_pub_key": "ADD", "knuth_eror": "OK"}]}`, "knuth_eror"},
		{"skip entry", `{"skip_tests": [{"script_sig": "1", "script_pub_key": "ADD", "why": "x"}]}`, "why"},
		{"top level", `{"override": []}`, "override"},
	}
	for _, tt := range tests {
		for _, format := range []Format{FormatJSON, FormatYAML, FormatCUE} {
			t.Run(tt.name+"/"+string(format), func(t *testing.T) {
				_, err := Decode("overrides."+string(format), format, []byte(tt.data))
				var perr *ParseError
				require.True(t, errors.As(err, &perr), "err = %v", err)
				assert.Equal(t, format, perr.Format)
				assert.Contains(t, perr.Message, tt.field)
			})
		}
	}
}

func TestDecodeCUEUnknownFieldPosition(t *testing.T) {
	data := []byte("overrides: [{\n\tscript_sig:     \"1\"\n\tscript_pub_key: \"ADD\"\n\tknuth_eror:     \"OK\"\n}]\n")
	_, err := Decode("typo.cue", FormatCUE, data)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "unknown field overrides[0].knuth_eror", perr.Message)
	assert.Equal(t, 4, perr.Line)
}

func TestDecodeRejectsAliasAndField(t *testing.T) {
	data := []byte(`{"overrides": [{"script_sig": "1", "script_pub_key": "ADD", "error": "OK", "knuth_error": "EVAL_FALSE"}]}`)
	_, err := Decode("both.json", FormatJSON, data)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "overrides[0]: both error and knuth_error are set", perr.Message)
}

func TestDecodeJSONRejectsTrailingData(t *testing.T) {
	_, err := Decode("trailing.json", FormatJSON, []byte(`{"overrides": []} {}`))
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
}
