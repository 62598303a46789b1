package codex

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/logging"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/paths"
)

const codexConfig = `model = "o3"
approval_policy = "on-request"

[mcp_servers.github]
command = "npx"
args = ["-y", "@modelcontextprotocol/server-github"]
startup_timeout_ms = 20000

[mcp_servers.github.env]
GITHUB_TOKEN = "ghp_example"

[mcp_servers.context7]
command = "npx"
args = ["-y", "@upstash/context7-mcp"]

[_disabled_mcp_servers.sentry]
command = "npx"
args = ["@sentry/mcp-server"]
`

func newTestAdapter(t *testing.T, content string) (*Adapter, *backup.Manager) {
	t.Helper()
	env := paths.EnvAt(t.TempDir())
	path := env.ConfigPath(paths.ToolCodex)
	if content != "" {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	backups := backup.NewManager(env.BackupDir(), backup.WithLogger(logging.NewDiscard()))
	return New(path, backups, WithLogger(logging.ForTest(t))), backups
}

func readTOML(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, toml.Unmarshal(data, &doc))
	return doc
}

func TestAdapter_Identity(t *testing.T) {
	a, _ := newTestAdapter(t, "")
	assert.Equal(t, "codex", a.Name())
	assert.Equal(t, "Codex CLI", a.DisplayName())
	assert.True(t, strings.HasSuffix(a.ConfigPath(), filepath.Join(".codex", "config.toml")))
	assert.False(t, a.SupportsProjectScope())
}

func TestAdapter_Detect(t *testing.T) {
	a, _ := newTestAdapter(t, codexConfig)
	assert.True(t, a.Detect())

	a, _ = newTestAdapter(t, `model = "o3"`)
	assert.False(t, a.Detect())

	a, _ = newTestAdapter(t, "[mcp_servers")
	assert.False(t, a.Detect())

	a, _ = newTestAdapter(t, "")
	assert.False(t, a.Detect())
}

func TestAdapter_LoadConfig(t *testing.T) {
	a, _ := newTestAdapter(t, codexConfig)

	snap, err := a.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"context7", "github"}, snap.EnabledNames())
	assert.Equal(t, []string{"sentry"}, snap.DisabledNames())

	gh, _ := snap.Enabled.Get("github")
	assert.Equal(t, "npx", gh.Command)
	assert.Equal(t, "ghp_example", gh.Env["GITHUB_TOKEN"])
	timeout, ok := gh.Extra("startup_timeout_ms")
	require.True(t, ok)
	assert.Equal(t, "20000", string(timeout))
}

func TestAdapter_LoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		sentinel error
		contains string
	}{
		{"missing", "", errors.ErrNotFound, "does not exist"},
		{"syntax", "model = \"o3\"\n[mcp_servers.github\n", errors.ErrParse, "line 2"},
		{"servers not a table", `mcp_servers = "github"`, errors.ErrParse, "mcp_servers must be a table"},
		{"server not a table", "[mcp_servers]\ngithub = 1\n", errors.ErrParse, "mcp_servers.github"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAdapter(t, tt.content)
			_, err := a.LoadConfig()
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestAdapter_SaveConfig(t *testing.T) {
	a, _ := newTestAdapter(t, codexConfig)

	snap, err := a.LoadConfig()
	require.NoError(t, err)
	require.NoError(t, snap.Disable("github"))
	require.NoError(t, a.SaveConfig(snap))

	doc := readTOML(t, a.ConfigPath())
	assert.Equal(t, "o3", doc["model"])
	assert.Equal(t, "on-request", doc["approval_policy"])

	servers := doc[ServersKey].(map[string]any)
	assert.Contains(t, servers, "context7")
	assert.NotContains(t, servers, "github")

	disabled := doc[DisabledKey].(map[string]any)
	gh := disabled["github"].(map[string]any)
	assert.Equal(t, int64(20000), gh["startup_timeout_ms"], "integers stay integers")
	assert.Equal(t, map[string]any{"GITHUB_TOKEN": "ghp_example"}, gh["env"])

	reloaded, err := a.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"context7"}, reloaded.EnabledNames())
	assert.Equal(t, []string{"github", "sentry"}, reloaded.DisabledNames())
}

func TestAdapter_SaveConfig_EmptyDisabledRemovesTable(t *testing.T) {
	a, _ := newTestAdapter(t, codexConfig)

	snap, err := a.LoadConfig()
	require.NoError(t, err)
	require.NoError(t, snap.Enable("sentry"))
	require.NoError(t, a.SaveConfig(snap))

	doc := readTOML(t, a.ConfigPath())
	assert.NotContains(t, doc, DisabledKey)
	assert.Len(t, doc[ServersKey], 3)
}

func TestAdapter_SaveConfig_FailureRestores(t *testing.T) {
	a, backups := newTestAdapter(t, codexConfig)
	a.writeFile = func(path string, _ []byte, perm os.FileMode) error {
		_ = os.WriteFile(path, []byte("garbage ="), perm)
		return errors.New("device busy")
	}

	snap, err := a.LoadConfig()
	require.NoError(t, err)
	require.NoError(t, snap.Disable("context7"))

	err = a.SaveConfig(snap)
	assert.True(t, errors.Is(err, errors.ErrSave))

	data, err := os.ReadFile(a.ConfigPath())
	require.NoError(t, err)
	assert.Equal(t, codexConfig, string(data))

	m, err := backups.Latest("codex")
	require.NoError(t, err)
	assert.Len(t, m.Files, 1)
}

func TestAdapter_SaveConfig_NumberTypes(t *testing.T) {
	a, _ := newTestAdapter(t, "")
	srv := &mcp.Server{}
	require.NoError(t, json.Unmarshal([]byte(`{"command":"tuned-mcp","retries":3,"backoff":1.5,"ports":[1,2]}`), srv))
	snap := mcp.NewSnapshot("codex", a.ConfigPath())
	snap.Enabled.Set("tuned", srv)
	require.NoError(t, a.SaveConfig(snap))

	doc := readTOML(t, a.ConfigPath())
	tuned := doc[ServersKey].(map[string]any)["tuned"].(map[string]any)
	assert.Equal(t, "tuned-mcp", tuned["command"])
	assert.Equal(t, int64(3), tuned["retries"])
	assert.Equal(t, 1.5, tuned["backoff"])
	assert.Equal(t, []any{int64(1), int64(2)}, tuned["ports"])
}
