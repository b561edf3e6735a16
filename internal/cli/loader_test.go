package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/scriptvec/internal/emit"
	"github.com/roach88/scriptvec/internal/ingest"
	"github.com/roach88/scriptvec/internal/override"
)

func TestLoadError_Format(t *testing.T) {
	plain := &LoadError{Code: ErrCodeCorpus, Message: "corpus must be a JSON array"}
	assert.Equal(t, "E005: corpus must be a JSON array", plain.Error())

	positioned := &LoadError{Code: ErrCodeOverrides, Message: "bad value", Path: "o.json", Line: 2, Column: 5}
	assert.Equal(t, "o.json:2:5: E006: bad value", positioned.Error())
}

func TestLoadCorpus(t *testing.T) {
	res, raw, err := LoadCorpus(cleanCorpus)
	require.NoError(t, err)
	assert.Equal(t, 5, res.Rows)
	assert.Len(t, res.Vectors, 4)
	assert.NotEmpty(t, raw)
}

func TestLoadCorpus_NotArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "c.json")
	require.NoError(t, os.WriteFile(path, []byte(`"rows"`), 0644))

	_, _, err := LoadCorpus(path)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeCorpus, loadErr.Code)
	assert.True(t, errors.Is(err, ingest.ErrCorpusNotArray))
}

func TestLoadOverrides_ParsePosition(t *testing.T) {
	_, err := LoadOverrides(filepath.Join("testdata", "broken.json"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeOverrides, loadErr.Code)
	assert.Equal(t, 2, loadErr.Line)
	assert.Positive(t, loadErr.Column)

	var parseErr *override.ParseError
	assert.ErrorAs(t, err, &parseErr)
}

func TestBuildOverrides(t *testing.T) {
	table, err := BuildOverrides("")
	require.NoError(t, err)
	assert.Nil(t, table)

	table, err = BuildOverrides(filepath.Join("testdata", "overrides.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 1, table.Overrides())
	assert.Equal(t, 1, table.Skips())
}

func TestBuildOverrides_Conflict(t *testing.T) {
	_, err := BuildOverrides(filepath.Join("testdata", "conflict.yaml"))
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeConflict, loadErr.Code)

	var conflict *override.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, 1, conflict.Index)
	assert.ErrorIs(t, err, override.ErrDuplicateKey)
}

func TestMarkerError(t *testing.T) {
	var loadErr *LoadError
	require.ErrorAs(t, markerError("x.cpp", emit.ErrMarkerOrder), &loadErr)
	assert.Equal(t, ErrCodeMarker, loadErr.Code)

	require.ErrorAs(t, markerError("x.cpp", errors.New("io")), &loadErr)
	assert.Equal(t, ErrCodeReadFailed, loadErr.Code)
}
