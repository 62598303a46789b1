// Package fileutil reads and replaces config files without leaving them
// half-written.
package fileutil

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// AtomicWriteFile replaces path with data in one rename, so a crash or a
// failed write leaves the previous contents in place. The parent directory
// must exist. perm is applied to the new file before it is renamed.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) (err error) {
	// same directory, or the rename would cross filesystems
	tmp, err := os.CreateTemp(filepath.Dir(path), ".mcptoggle-atomic-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	steps := []struct {
		what string
		do   func() error
	}{
		{"writing temp file", func() error { _, werr := tmp.Write(data); return werr }},
		{"setting file permissions", func() error { return tmp.Chmod(perm) }},
		{"syncing temp file", tmp.Sync},
		{"closing temp file", tmp.Close},
		{"renaming temp file", func() error { return os.Rename(tmp.Name(), path) }},
	}
	for _, step := range steps {
		if err := step.do(); err != nil {
			return errors.Wrap(err, step.what)
		}
	}
	return nil
}

// MarshalJSON encodes v as 2-space indented JSON with a trailing newline.
// HTML characters are not escaped, so commands such as "a && b" survive a
// round trip byte for byte.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "marshaling JSON")
	}
	return buf.Bytes(), nil
}

// CompactJSON encodes v as single-line JSON without HTML escaping and
// without a trailing newline. Use it for values embedded in a larger
// document.
func CompactJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, errors.Wrap(err, "marshaling JSON")
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// AtomicWriteJSONWithPerm writes v as indented JSON to path atomically with
// the given permissions.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteJSONWithPerm(path string, v any, perm os.FileMode) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, perm)
}

// AtomicWriteJSON writes v as indented JSON to path atomically.
// The file keeps its current permissions when it exists, and is created
// with 0644 otherwise.
func AtomicWriteJSON(path string, v any) error {
	return AtomicWriteJSONWithPerm(path, v, PermOrDefault(path, 0o644))
}

// AtomicWriteYAML writes v as YAML to path atomically with 0644 permissions.
func AtomicWriteYAML(path string, v any) error {
	data, err := marshalYAML(v)
	if err != nil {
		return err
	}
	return AtomicWriteFile(path, data, 0o644)
}

// marshalYAML turns the panic yaml.v3 raises for types it cannot encode,
// such as channels, into an error.
func marshalYAML(v any) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			data, err = nil, errors.Newf("marshaling YAML: %v", r)
		}
	}()
	data, err = yaml.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(err, "marshaling YAML")
	}
	if !bytes.HasSuffix(data, []byte("\n")) {
		data = append(data, '\n')
	}
	return data, nil
}

// PermOrDefault returns the permission bits of the file at path, or def when
// the file cannot be stat'ed.
func PermOrDefault(path string, def os.FileMode) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return def
	}
	return info.Mode().Perm()
}

// Exists reports whether path exists and is a regular file.
func Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
