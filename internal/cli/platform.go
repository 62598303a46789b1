// Package cli wires adapters, scope resolution and profile storage together
// for the command layer.
package cli

import (
	"log/slog"
	"strings"

	"github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/config"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/paths"
	"github.com/thoreinstein/mcptoggle/internal/platform"
	"github.com/thoreinstein/mcptoggle/internal/platform/claude"
	"github.com/thoreinstein/mcptoggle/internal/platform/codex"
	"github.com/thoreinstein/mcptoggle/internal/platform/jsonfile"
	"github.com/thoreinstein/mcptoggle/internal/platform/opencode"
	"github.com/thoreinstein/mcptoggle/internal/profile"
)

// ErrNoToolsDetected is returned when no tool is named and none is
// installed.
var ErrNoToolsDetected = errors.Mark(errors.New("no supported tool detected"), errors.ErrNotFound)

// jsonTools use the plain mcpServers layout with a synthetic disabled key.
var jsonTools = []string{
	paths.ToolClaudeDesktop,
	paths.ToolCursor,
	paths.ToolWindsurf,
	paths.ToolGemini,
}

// Options configures the factories in this package.
type Options struct {
	// Env holds the resolved home and config-home directories.
	Env paths.Env
	// Config is the loaded app configuration. nil means defaults.
	Config *config.Config
	// Logger receives adapter debug output.
	Logger *slog.Logger
}

func (o Options) config() *config.Config {
	if o.Config == nil {
		return &config.Config{Version: config.CurrentVersion}
	}
	return o.Config
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// BackupDir returns the backup root, honoring backup_dir.
func (o Options) BackupDir() string {
	if dir := o.config().BackupDir; dir != "" {
		return config.ExpandHome(dir)
	}
	return o.Env.BackupDir()
}

// ProfilesDir returns the profile directory, honoring profiles_dir.
func (o Options) ProfilesDir() string {
	if dir := o.config().ProfilesDir; dir != "" {
		return config.ExpandHome(dir)
	}
	return o.Env.ProfilesDir()
}

// NewBackupManager returns the backup manager shared by all adapters.
func NewBackupManager(opts Options) *backup.Manager {
	return backup.NewManager(opts.BackupDir(), backup.WithLogger(opts.logger()))
}

// NewProfileStore returns the profile store.
func NewProfileStore(opts Options) *profile.Store {
	return profile.NewStore(opts.ProfilesDir(), profile.WithLogger(opts.logger()))
}

// NewRegistry builds a registry holding one adapter per supported tool,
// with file locations taken from the environment and config overrides.
func NewRegistry(opts Options) (*platform.Registry, error) {
	cfg := opts.config()
	logger := opts.logger()
	backups := NewBackupManager(opts)

	configPath := func(tool string) string {
		return cfg.ToolConfigPath(tool, opts.Env.ConfigPath(tool))
	}

	adapters := []platform.Adapter{
		claude.New(configPath(paths.ToolClaude),
			cfg.ToolDisabledPath(paths.ToolClaude, opts.Env.DisabledPath(paths.ToolClaude)),
			backups, claude.WithLogger(logger)),
		opencode.New(configPath(paths.ToolOpenCode), backups, opencode.WithLogger(logger)),
		codex.New(configPath(paths.ToolCodex), backups, codex.WithLogger(logger)),
	}
	for _, tool := range jsonTools {
		adapters = append(adapters, jsonfile.New(tool, configPath(tool), backups, jsonfile.WithLogger(logger)))
	}

	reg := platform.NewRegistry()
	for _, a := range adapters {
		if err := reg.Register(a); err != nil {
			return nil, errors.Wrapf(err, "registering %s", a.Name())
		}
	}
	return reg, nil
}

// SelectAdapter returns the adapter a command works on: the explicitly named
// tool, else defaultTool, else the first detected tool.
func SelectAdapter(reg *platform.Registry, tool, defaultTool string) (platform.Adapter, error) {
	switch {
	case tool != "":
		return reg.Get(tool)
	case defaultTool != "":
		return reg.Get(defaultTool)
	}

	detected := reg.Detected()
	if len(detected) == 0 {
		return nil, errors.WithHintf(ErrNoToolsDetected,
			"Pass --tool with one of: %s", strings.Join(reg.Names(), ", "))
	}
	return detected[0], nil
}
