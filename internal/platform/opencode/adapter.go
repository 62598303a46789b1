package opencode

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

// ServersKey holds the server map in opencode.json.
const ServersKey = "mcp"

// Adapter reads and writes OpenCode's configuration.
type Adapter struct {
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

// New returns the OpenCode adapter for the config file at configPath.
func New(configPath string, backups *backup.Manager, opts ...Option) *Adapter {
	a := &Adapter{
		path:      configPath,
		logger:    slog.Default(),
		writeFile: fileutil.AtomicWriteFile,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.saver = platform.NewSaver(paths.ToolOpenCode, backups, a.logger)
	return a
}

// Compile-time interface check.
var _ platform.Adapter = (*Adapter)(nil)

func (a *Adapter) Name() string { return paths.ToolOpenCode }

func (a *Adapter) DisplayName() string { return paths.DisplayName(paths.ToolOpenCode) }

func (a *Adapter) ConfigPath() string { return a.path }

func (a *Adapter) BackupPaths() []string { return []string{a.path} }

func (a *Adapter) BackupDir() string { return a.saver.BackupDir() }

func (a *Adapter) SupportsProjectScope() bool { return false }

// Detect reports whether opencode.json exists and has an "mcp" key.
func (a *Adapter) Detect() bool {
	doc, err := platform.ReadDocument(a.path)
	if err != nil {
		return false
	}
	return doc.Has(ServersKey)
}

// LoadConfig splits the "mcp" map on each record's enabled flag.
func (a *Adapter) LoadConfig() (*mcp.Snapshot, error) {
	doc, err := platform.ReadDocument(a.path)
	if err != nil {
		return nil, err
	}

	fields, err := doc.Fields(ServersKey)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", a.path)
	}

	snap := mcp.NewSnapshot(paths.ToolOpenCode, a.path)
	for _, f := range fields {
		srv, enabled, err := toServer(f.Key, f.Value)
		if err != nil {
			return nil, errors.WrapMark(err, errors.ErrParse, "loading "+a.path)
		}
		if enabled {
			snap.Enabled.Set(f.Key, srv)
		} else {
			snap.Disabled.Set(f.Key, srv)
		}
	}
	return snap, nil
}

// SaveConfig writes snap back into the "mcp" map. Servers already in the
// file keep their position; new ones are appended, enabled first.
func (a *Adapter) SaveConfig(snap *mcp.Snapshot) error {
	doc, err := platform.ReadDocument(a.path)
	switch {
	case errors.Is(err, errors.ErrNotFound):
		doc = &platform.Document{}
	case err != nil:
		return err
	}

	existing, err := doc.Fields(ServersKey)
	if err != nil {
		return errors.Wrapf(err, "loading %s", a.path)
	}

	var order []string
	seen := make(map[string]bool)
	for _, f := range existing {
		if snap.Exists(f.Key) && !seen[f.Key] {
			order = append(order, f.Key)
			seen[f.Key] = true
		}
	}
	for _, name := range snap.AllNames() {
		if !seen[name] {
			order = append(order, name)
			seen[name] = true
		}
	}

	fields := make([]platform.Field, 0, len(order))
	for _, name := range order {
		srv, _ := snap.Lookup(name)
		record, err := fromServer(srv, snap.IsEnabled(name))
		if err != nil {
			return err
		}
		fields = append(fields, platform.Field{Key: name, Value: record})
	}
	if err := doc.SetFields(ServersKey, fields); err != nil {
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
		a.logger.Debug("config written", "tool", paths.ToolOpenCode, "path", a.path,
			"enabled", snap.Enabled.Len(), "disabled", snap.Disabled.Len())
		return nil
	})
}

// CreateBackup copies opencode.json into a new backup.
func (a *Adapter) CreateBackup() (string, error) {
	return a.saver.CreateBackup(a.BackupPaths())
}
