package platform

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/logging"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDocument(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		missing  bool
		wantKeys int
		sentinel error
	}{
		{name: "object", content: `{"a": 1, "b": {"c": true}}`, wantKeys: 2},
		{name: "empty file", content: "  \n", wantKeys: 0},
		{name: "missing", missing: true, sentinel: errors.ErrNotFound},
		{name: "syntax error", content: `{"a": }`, sentinel: errors.ErrParse},
		{name: "array", content: `[1, 2]`, sentinel: errors.ErrParse},
		{name: "null", content: `null`, sentinel: errors.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.json")
			if !tt.missing {
				path = writeFile(t, tt.content)
			}

			doc, err := ReadDocument(path)
			if tt.sentinel != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
				assert.Contains(t, err.Error(), path)
				return
			}
			require.NoError(t, err)
			assert.Len(t, doc.Keys(), tt.wantKeys)
		})
	}
}

func TestDocument_Servers(t *testing.T) {
	doc, err := ParseDocument("x.json", []byte(`{
		"mcpServers": {"b": {"command": "b"}, "a": {"command": "a"}},
		"nothing": null,
		"bad": [1]
	}`))
	require.NoError(t, err)

	set, err := doc.Servers("mcpServers")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, set.Names())

	set, err = doc.Servers("missing")
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	set, err = doc.Servers("nothing")
	require.NoError(t, err)
	assert.Equal(t, 0, set.Len())

	_, err = doc.Servers("bad")
	assert.True(t, errors.Is(err, errors.ErrParse))
}

func TestDocument_SetServersAndEncode(t *testing.T) {
	doc, err := ParseDocument("x.json", []byte(`{"theme": "dark", "_disabled": {"x": {"command": "x"}}}`))
	require.NoError(t, err)

	set := mcp.NewServerSet()
	set.Set("zeta", &mcp.Server{Command: "z"})
	set.Set("alpha", &mcp.Server{Command: "a && b"})

	require.NoError(t, doc.SetServers("mcpServers", set, false))
	require.NoError(t, doc.SetServers("_disabled", mcp.NewServerSet(), true))
	assert.False(t, doc.Has("_disabled"))

	data, err := doc.Encode()
	require.NoError(t, err)
	assert.Equal(t, `{
  "theme": "dark",
  "mcpServers": {
    "zeta": {
      "command": "z"
    },
    "alpha": {
      "command": "a && b"
    }
  }
}
`, string(data))
}

func TestDocument_KeepsKeyOrder(t *testing.T) {
	doc, err := ParseDocument("x.json", []byte(`{"zed": 1, "mcpServers": {}, "alpha": {"b": 2, "a": 1}, "middle": true}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"zed", "mcpServers", "alpha", "middle"}, doc.Keys())

	set := mcp.NewServerSet()
	set.Set("fs", &mcp.Server{Command: "npx"})
	require.NoError(t, doc.SetServers("mcpServers", set, false))
	require.NoError(t, doc.Set("added", "x"))
	doc.Delete("middle")
	doc.Delete("absent")

	assert.Equal(t, []string{"zed", "mcpServers", "alpha", "added"}, doc.Keys())

	data, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"zed":1,"mcpServers":{"fs":{"command":"npx"}},"alpha":{"b":2,"a":1},"added":"x"}`, string(data))

	var back Document
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, doc.Keys(), back.Keys())

	raw, ok := back.Raw("alpha")
	require.True(t, ok)
	assert.Equal(t, `{"b":2,"a":1}`, string(raw))
}

func TestDocument_UnmarshalNull(t *testing.T) {
	doc := &Document{}
	doc.SetRaw("stale", json.RawMessage(`1`))
	require.NoError(t, json.Unmarshal([]byte(`null`), doc))
	assert.Empty(t, doc.Keys())

	assert.Error(t, json.Unmarshal([]byte(`"str"`), doc))
}

func TestDocument_Fields(t *testing.T) {
	doc, err := ParseDocument("x.json", []byte(`{"mcp": {"z": {"enabled": false}, "a": {"type": "local"}}, "n": null, "s": "str"}`))
	require.NoError(t, err)

	fields, err := doc.Fields("mcp")
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "z", fields[0].Key)
	assert.Equal(t, "a", fields[1].Key)
	assert.JSONEq(t, `{"type": "local"}`, string(fields[1].Value))

	fields, err = doc.Fields("n")
	require.NoError(t, err)
	assert.Empty(t, fields)

	fields, err = doc.Fields("missing")
	require.NoError(t, err)
	assert.Empty(t, fields)

	_, err = doc.Fields("s")
	assert.True(t, errors.Is(err, errors.ErrParse))

	require.NoError(t, doc.SetFields("mcp", []Field{
		{Key: "b", Value: json.RawMessage(`{"x":1}`)},
		{Key: "a", Value: json.RawMessage(`true`)},
	}))
	raw, _ := doc.Raw("mcp")
	assert.Equal(t, `{"b":{"x":1},"a":true}`, string(raw))
}

func TestDocument_Decode(t *testing.T) {
	doc, err := ParseDocument("x.json", []byte(`{"names": ["a", "b"], "bad": 3}`))
	require.NoError(t, err)

	var names []string
	ok, err := doc.Decode("names", &names)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, names)

	ok, err = doc.Decode("missing", &names)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = doc.Decode("bad", &names)
	assert.True(t, errors.Is(err, errors.ErrParse))
}

func TestBuildSnapshot_DropsDuplicateDisabled(t *testing.T) {
	enabled := mcp.NewServerSet()
	enabled.Set("a", &mcp.Server{Command: "a"})
	disabled := mcp.NewServerSet()
	disabled.Set("a", &mcp.Server{Command: "stale"})
	disabled.Set("b", &mcp.Server{Command: "b"})

	snap := BuildSnapshot("cursor", "/p", enabled, disabled, logging.ForTest(t))
	assert.Equal(t, []string{"a"}, snap.EnabledNames())
	assert.Equal(t, []string{"b"}, snap.DisabledNames())
	assert.Equal(t, mcp.Metadata{Tool: "cursor", Path: "/p"}, snap.Metadata)

	rec, _ := snap.Enabled.Get("a")
	assert.Equal(t, "a", rec.Command)
}
