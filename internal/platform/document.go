package platform

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"slices"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/pkg/fileutil"
)

// Document is a JSON configuration file decoded one level deep. Top-level
// values are kept as raw bytes, in file order, so keys this tool never
// touches are written back unchanged and where they were. New keys are
// appended.
type Document struct {
	keys   []string
	values map[string]json.RawMessage
}

// ReadDocument reads and decodes the JSON object at path. A missing file
// matches errors.ErrNotFound; anything but a JSON object matches
// errors.ErrParse.
func ReadDocument(path string) (*Document, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, err
	}
	return ParseDocument(path, data)
}

// ParseDocument decodes data read from path. An empty file is an empty
// document.
func ParseDocument(path string, data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return &Document{}, nil
	}
	if bytes.Equal(trimmed, []byte("null")) {
		return nil, errors.Markf(errors.ErrParse, "%s does not contain a JSON object", path)
	}

	doc := &Document{}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, ParseError(err, path, data)
	}
	return doc, nil
}

// UnmarshalJSON decodes a JSON object, keeping member order. null leaves
// the document empty.
func (d *Document) UnmarshalJSON(data []byte) error {
	fields, err := decodeObject(data)
	if err != nil {
		return err
	}
	*d = Document{}
	for _, f := range fields {
		d.SetRaw(f.Key, f.Value)
	}
	return nil
}

// MarshalJSON encodes the document compactly in key order.
func (d Document) MarshalJSON() ([]byte, error) {
	fields := make([]Field, 0, len(d.keys))
	for _, k := range d.keys {
		fields = append(fields, Field{Key: k, Value: d.values[k]})
	}
	return encodeObject(fields)
}

// Keys returns the top-level keys in document order.
func (d *Document) Keys() []string {
	return slices.Clone(d.keys)
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.values[key]
	return ok
}

// Raw returns the undecoded value under key.
func (d *Document) Raw(key string) (json.RawMessage, bool) {
	raw, ok := d.values[key]
	return raw, ok
}

// SetRaw stores raw under key. An existing key keeps its position.
func (d *Document) SetRaw(key string, raw json.RawMessage) {
	if d.values == nil {
		d.values = make(map[string]json.RawMessage)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = raw
}

// Delete removes key.
func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	d.keys = slices.DeleteFunc(d.keys, func(k string) bool { return k == key })
}

// Servers decodes the server set stored under key. A missing key or null
// value is an empty set.
func (d *Document) Servers(key string) (mcp.ServerSet, error) {
	raw, ok := d.values[key]
	if !ok {
		return mcp.NewServerSet(), nil
	}

	var set mcp.ServerSet
	if err := json.Unmarshal(raw, &set); err != nil {
		return mcp.ServerSet{}, errors.WrapMark(err, errors.ErrParse, "decoding "+key)
	}
	return set, nil
}

// SetServers stores set under key. When omitEmpty is set, an empty set
// removes the key instead.
func (d *Document) SetServers(key string, set mcp.ServerSet, omitEmpty bool) error {
	if omitEmpty && set.Len() == 0 {
		d.Delete(key)
		return nil
	}
	return d.Set(key, set)
}

// Decode unmarshals the value under key into v. It reports false when the
// key is absent.
func (d *Document) Decode(key string, v any) (bool, error) {
	raw, ok := d.values[key]
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return true, errors.WrapMark(err, errors.ErrParse, "decoding "+key)
	}
	return true, nil
}

// Set encodes v and stores it under key.
func (d *Document) Set(key string, v any) error {
	data, err := fileutil.CompactJSON(v)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	d.SetRaw(key, data)
	return nil
}

// Encode renders the document with two-space indentation.
func (d *Document) Encode() ([]byte, error) {
	return fileutil.MarshalJSON(d)
}

// BuildSnapshot assembles a snapshot from decoded sets. A name found in both
// sets stays enabled and its disabled copy is dropped.
func BuildSnapshot(tool, path string, enabled, disabled mcp.ServerSet, logger *slog.Logger) *mcp.Snapshot {
	snap := mcp.NewSnapshot(tool, path)
	snap.Enabled = enabled
	snap.Disabled = disabled

	for _, name := range disabled.Names() {
		if snap.Enabled.Has(name) {
			snap.Disabled.Delete(name)
			if logger != nil {
				logger.Warn("server is both enabled and disabled; keeping it enabled", "tool", tool, "server", name)
			}
		}
	}
	return snap
}

// Field is one member of a JSON object.
type Field struct {
	Key   string
	Value json.RawMessage
}

// Fields decodes the object under key, keeping member order. A missing key
// or null value yields no fields.
func (d *Document) Fields(key string) ([]Field, error) {
	raw, ok := d.values[key]
	if !ok {
		return nil, nil
	}
	fields, err := decodeObject(raw)
	if err != nil {
		return nil, errors.WrapMark(err, errors.ErrParse, "decoding "+key)
	}
	return fields, nil
}

// SetFields stores fields under key as an object in the given order.
func (d *Document) SetFields(key string, fields []Field) error {
	data, err := encodeObject(fields)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", key)
	}
	d.SetRaw(key, data)
	return nil
}

func decodeObject(raw []byte) ([]Field, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.Newf("expected an object, got %v", tok)
	}

	var fields []Field
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		name, _ := tok.(string)

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, Field{Key: name, Value: value})
	}
	return fields, nil
}

func encodeObject(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := fileutil.CompactJSON(f.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(f.Value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
