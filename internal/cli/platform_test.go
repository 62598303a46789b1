package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/mcptoggle/internal/config"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/logging"
	"github.com/thoreinstein/mcptoggle/internal/paths"
	"github.com/thoreinstein/mcptoggle/internal/platform"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{Env: paths.EnvAt(t.TempDir()), Logger: logging.ForTest(t)}
}

func TestNewRegistry_AllTools(t *testing.T) {
	opts := testOptions(t)
	reg, err := NewRegistry(opts)
	require.NoError(t, err)

	assert.Equal(t, paths.Tools(), reg.Names())
	for _, tool := range paths.Tools() {
		a, err := reg.Get(tool)
		require.NoError(t, err)
		assert.Equal(t, tool, a.Name())
		assert.Equal(t, opts.Env.ConfigPath(tool), a.ConfigPath())
		assert.Equal(t, filepath.Join(opts.Env.BackupDir(), tool), a.BackupDir())
	}

	claude, _ := reg.Get(paths.ToolClaude)
	_, ok := platform.AsProjectAdapter(claude)
	assert.True(t, ok, "claude supports project scope")
	cursor, _ := reg.Get(paths.ToolCursor)
	_, ok = platform.AsProjectAdapter(cursor)
	assert.False(t, ok)
}

func TestNewRegistry_ConfigOverrides(t *testing.T) {
	opts := testOptions(t)
	root := t.TempDir()
	opts.Config = &config.Config{
		Version:   config.CurrentVersion,
		BackupDir: filepath.Join(root, "bk"),
		Tools: map[string]config.ToolOverride{
			paths.ToolCursor: {ConfigPath: filepath.Join(root, "cursor.json")},
			paths.ToolClaude: {DisabledPath: filepath.Join(root, "off.json")},
		},
	}

	reg, err := NewRegistry(opts)
	require.NoError(t, err)

	cursor, _ := reg.Get(paths.ToolCursor)
	assert.Equal(t, filepath.Join(root, "cursor.json"), cursor.ConfigPath())
	assert.Equal(t, filepath.Join(root, "bk", paths.ToolCursor), cursor.BackupDir())

	claude, _ := reg.Get(paths.ToolClaude)
	assert.Equal(t, []string{opts.Env.ConfigPath(paths.ToolClaude), filepath.Join(root, "off.json")}, claude.BackupPaths())
}

func TestOptions_ProfilesDir(t *testing.T) {
	opts := testOptions(t)
	assert.Equal(t, opts.Env.ProfilesDir(), opts.ProfilesDir())
	assert.Equal(t, opts.Env.ProfilesDir(), NewProfileStore(opts).Dir())

	opts.Config = &config.Config{ProfilesDir: "/srv/profiles"}
	assert.Equal(t, "/srv/profiles", opts.ProfilesDir())
}

func TestSelectAdapter(t *testing.T) {
	opts := testOptions(t)
	reg, err := NewRegistry(opts)
	require.NoError(t, err)

	t.Run("nothing detected", func(t *testing.T) {
		_, err := SelectAdapter(reg, "", "")
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrNotFound))
		assert.Contains(t, errors.Suggest(err), "--tool")
	})

	writeFile(t, opts.Env.ConfigPath(paths.ToolWindsurf), `{"mcpServers": {}}`)
	writeFile(t, opts.Env.ConfigPath(paths.ToolCodex), "[mcp_servers]\n")

	t.Run("first detected in tool order", func(t *testing.T) {
		a, err := SelectAdapter(reg, "", "")
		require.NoError(t, err)
		assert.Equal(t, paths.ToolWindsurf, a.Name())
	})

	t.Run("default tool", func(t *testing.T) {
		a, err := SelectAdapter(reg, "", paths.ToolCodex)
		require.NoError(t, err)
		assert.Equal(t, paths.ToolCodex, a.Name())
	})

	t.Run("explicit tool wins", func(t *testing.T) {
		a, err := SelectAdapter(reg, paths.ToolGemini, paths.ToolCodex)
		require.NoError(t, err)
		assert.Equal(t, paths.ToolGemini, a.Name(), "an undetected tool can still be named")
	})

	t.Run("unknown tool", func(t *testing.T) {
		_, err := SelectAdapter(reg, "vscode", "")
		assert.True(t, errors.Is(err, errors.ErrUnknownTool))
	})
}
