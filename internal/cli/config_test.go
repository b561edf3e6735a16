package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
corpus: script_tests.json
overrides: overrides.cue
output_dir: include
replace_in_file: test/script.cpp
json_out: vectors.json
chunk_size: 50
workers: 8
db: ledger.db
fork_namespace: bch::machine
error_namespace: bch::error
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Config{
		Corpus:         "script_tests.json",
		Overrides:      "overrides.cue",
		OutputDir:      "include",
		ReplaceInFile:  "test/script.cpp",
		JSONOut:        "vectors.json",
		ChunkSize:      50,
		Workers:        8,
		DB:             "ledger.db",
		ForkNamespace:  "bch::machine",
		ErrorNamespace: "bch::error",
	}, *cfg)
}

func TestLoadConfig_Empty(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, Config{}, *cfg)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "chunksize: 10\n"))
	require.Error(t, err)

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeConfig, loadErr.Code)
}

func TestLoadConfig_BadType(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "workers: many\n"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeConfig, loadErr.Code)
}

func TestConfigApply_FlagsWin(t *testing.T) {
	cfg := &Config{
		Overrides: "cfg.yaml",
		OutputDir: "cfg-out",
		ChunkSize: 10,
		Workers:   4,
		DB:        "cfg.db",
	}
	opts := &CompileOptions{
		OutputDir: "flag-out",
		ChunkSize: 100,
		Workers:   1,
	}
	changed := map[string]bool{"output-dir": true}

	cfg.apply(opts, func(flag string) bool { return changed[flag] })

	assert.Equal(t, "cfg.yaml", opts.Overrides)
	assert.Equal(t, "flag-out", opts.OutputDir)
	assert.Equal(t, 10, opts.ChunkSize)
	assert.Equal(t, 4, opts.Workers)
	assert.Equal(t, "cfg.db", opts.DB)
}

func TestConfigApply_ZeroValuesKeepDefaults(t *testing.T) {
	opts := &CompileOptions{ChunkSize: 100, ForkNamespace: DefaultForkNamespace}
	(&Config{}).apply(opts, func(string) bool { return false })
	assert.Equal(t, 100, opts.ChunkSize)
	assert.Equal(t, DefaultForkNamespace, opts.ForkNamespace)

	var nilCfg *Config
	nilCfg.apply(opts, func(string) bool { return false })
	assert.Equal(t, 100, opts.ChunkSize)
}

func TestFindConfig_NoneInWorkingDirectory(t *testing.T) {
	cfg, path, err := findConfig("")
	require.NoError(t, err)
	assert.Nil(t, cfg)
	assert.Empty(t, path)
}
