package emit

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Insertion markers delimiting the generated region of a target file.
const (
	BeginMarker = "// BEGIN AUTO-GENERATED SCRIPT TESTS - DO NOT EDIT"
	EndMarker   = "// END AUTO-GENERATED SCRIPT TESTS"
)

var (
	// ErrMarkerMissing means a target file lacks one of the markers.
	ErrMarkerMissing = errors.New("insertion marker not found")

	// ErrMarkerOrder means the end marker does not follow the begin line.
	ErrMarkerOrder = errors.New("end marker must follow the begin marker line")
)

// Splice replaces the text between the line holding BeginMarker and
// EndMarker with body. Both markers are kept. On error content is not
// modified.
func Splice(content, body []byte) ([]byte, error) {
	begin := bytes.Index(content, []byte(BeginMarker))
	if begin < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMarkerMissing, BeginMarker)
	}
	end := bytes.Index(content, []byte(EndMarker))
	if end < 0 {
		return nil, fmt.Errorf("%w: %q", ErrMarkerMissing, EndMarker)
	}

	lineEnd := bytes.IndexByte(content[begin:], '\n')
	if lineEnd < 0 || begin+lineEnd+1 > end {
		return nil, ErrMarkerOrder
	}
	lineEnd += begin + 1

	out := make([]byte, 0, lineEnd+len(body)+len(content)-end)
	out = append(out, content[:lineEnd]...)
	out = append(out, body...)
	out = append(out, content[end:]...)
	return out, nil
}

// SpliceFile splices body into the file at path. The file is replaced
// atomically and left untouched on any error.
func SpliceFile(path string, body []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("reading target: %w", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading target: %w", err)
	}
	out, err := Splice(content, body)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return writeAtomic(path, out, info.Mode().Perm())
}

// writeAtomic writes data to a temporary file next to path and renames it
// into place.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(name, path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// WriteFile writes data to path atomically, creating parent directories.
func WriteFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return writeAtomic(path, data, 0o644)
}
