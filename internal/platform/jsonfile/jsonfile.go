package jsonfile

import (
	"log/slog"
	"path/filepath"

	"github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/paths"
	"github.com/thoreinstein/mcptoggle/internal/platform"
	"github.com/thoreinstein/mcptoggle/pkg/fileutil"
)

// Keys used in the config file.
const (
	ServersKey  = "mcpServers"
	DisabledKey = "_disabledMcpServers"
)

// Adapter reads and writes one tool's JSON config file.
type Adapter struct {
	name      string
	path      string
	saver     platform.Saver
	logger    *slog.Logger
	writeFile platform.WriteFunc
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Adapter) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New returns an adapter for tool reading configPath. Backups are stored
// through backups.
func New(tool, configPath string, backups *backup.Manager, opts ...Option) *Adapter {
	a := &Adapter{
		name:      tool,
		path:      configPath,
		logger:    slog.Default(),
		writeFile: fileutil.AtomicWriteFile,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.saver = platform.NewSaver(tool, backups, a.logger)
	return a
}

// Compile-time interface check.
var _ platform.Adapter = (*Adapter)(nil)

func (a *Adapter) Name() string { return a.name }

func (a *Adapter) DisplayName() string { return paths.DisplayName(a.name) }

func (a *Adapter) ConfigPath() string { return a.path }

func (a *Adapter) BackupPaths() []string { return []string{a.path} }

func (a *Adapter) BackupDir() string { return a.saver.BackupDir() }

func (a *Adapter) SupportsProjectScope() bool { return false }

// Detect reports whether the config file exists and has an mcpServers key.
func (a *Adapter) Detect() bool {
	doc, err := platform.ReadDocument(a.path)
	if err != nil {
		return false
	}
	return doc.Has(ServersKey)
}

// LoadConfig reads the enabled and parked disabled servers.
func (a *Adapter) LoadConfig() (*mcp.Snapshot, error) {
	doc, err := platform.ReadDocument(a.path)
	if err != nil {
		return nil, err
	}

	enabled, err := doc.Servers(ServersKey)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", a.path)
	}
	disabled, err := doc.Servers(DisabledKey)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", a.path)
	}

	return platform.BuildSnapshot(a.name, a.path, enabled, disabled, a.logger), nil
}

// SaveConfig writes snap back into the config file, keeping every other
// top-level key. A missing file is created.
func (a *Adapter) SaveConfig(snap *mcp.Snapshot) error {
	doc, err := platform.ReadDocument(a.path)
	switch {
	case errors.Is(err, errors.ErrNotFound):
		doc = &platform.Document{}
	case err != nil:
		return err
	}

	if err := doc.SetServers(ServersKey, snap.Enabled, false); err != nil {
		return err
	}
	if err := doc.SetServers(DisabledKey, snap.Disabled, true); err != nil {
		return err
	}
	data, err := doc.Encode()
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}

	perm := fileutil.PermOrDefault(a.path, 0o644)
	return a.saver.Save(a.BackupPaths(), func() error {
		if err := paths.EnsureDir(filepath.Dir(a.path), 0o755); err != nil {
			return errors.Wrapf(err, "creating directory for %s", a.path)
		}
		if err := a.writeFile(a.path, data, perm); err != nil {
			return err
		}
		a.logger.Debug("config written", "tool", a.name, "path", a.path,
			"enabled", snap.Enabled.Len(), "disabled", snap.Disabled.Len())
		return nil
	})
}

// CreateBackup copies the config file into a new backup.
func (a *Adapter) CreateBackup() (string, error) {
	return a.saver.CreateBackup(a.BackupPaths())
}
