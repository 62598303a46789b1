package claude

import (
	"encoding/json"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/paths"
	"github.com/thoreinstein/mcptoggle/internal/platform"
	"github.com/thoreinstein/mcptoggle/pkg/fileutil"
)

// Keys used in ~/.claude.json.
const (
	ServersKey          = "mcpServers"
	ProjectsKey         = "projects"
	ProjectDisabledKey  = "disabledMcpServers"
	ProjectRecordsKey   = "_disabledMcpServers"
	defaultConfigPerm   = 0o600
	defaultDisabledPerm = 0o600
)

// Adapter reads and writes Claude Code's configuration.
type Adapter struct {
	path         string
	disabledPath string
	saver        platform.Saver
	logger       *slog.Logger

	writeFile  platform.WriteFunc
	removeFile func(string) error
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

// New returns the Claude Code adapter for the main config file at
// configPath and the separate disabled-servers file at disabledPath.
func New(configPath, disabledPath string, backups *backup.Manager, opts ...Option) *Adapter {
	a := &Adapter{
		path:         configPath,
		disabledPath: disabledPath,
		logger:       slog.Default(),
		writeFile:    fileutil.AtomicWriteFile,
		removeFile:   os.Remove,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.saver = platform.NewSaver(paths.ToolClaude, backups, a.logger)
	return a
}

// Compile-time interface checks.
var (
	_ platform.Adapter        = (*Adapter)(nil)
	_ platform.ProjectAdapter = (*Adapter)(nil)
)

func (a *Adapter) Name() string { return paths.ToolClaude }

func (a *Adapter) DisplayName() string { return paths.DisplayName(paths.ToolClaude) }

func (a *Adapter) ConfigPath() string { return a.path }

// DisabledPath returns the separate disabled-servers file.
func (a *Adapter) DisabledPath() string { return a.disabledPath }

// BackupPaths returns the main config file and the disabled-servers file.
func (a *Adapter) BackupPaths() []string { return []string{a.path, a.disabledPath} }

func (a *Adapter) BackupDir() string { return a.saver.BackupDir() }

func (a *Adapter) SupportsProjectScope() bool { return true }

// Detect reports whether ~/.claude.json exists and has an mcpServers key.
func (a *Adapter) Detect() bool {
	doc, err := platform.ReadDocument(a.path)
	if err != nil {
		return false
	}
	return doc.Has(ServersKey)
}

// LoadConfig reads the user-level servers. A missing disabled file means
// nothing is disabled.
func (a *Adapter) LoadConfig() (*mcp.Snapshot, error) {
	doc, err := platform.ReadDocument(a.path)
	if err != nil {
		return nil, err
	}

	enabled, err := doc.Servers(ServersKey)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", a.path)
	}

	disabled, err := a.loadDisabled()
	if err != nil {
		return nil, err
	}

	return platform.BuildSnapshot(paths.ToolClaude, a.path, enabled, disabled, a.logger), nil
}

func (a *Adapter) loadDisabled() (mcp.ServerSet, error) {
	data, err := fileutil.ReadFileWithLimit(a.disabledPath)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return mcp.NewServerSet(), nil
		}
		return mcp.ServerSet{}, err
	}

	var set mcp.ServerSet
	if err := json.Unmarshal(data, &set); err != nil {
		return mcp.ServerSet{}, errors.WrapMark(err, errors.ErrParse, "parsing "+a.disabledPath)
	}
	return set, nil
}

// SaveConfig writes the enabled servers into ~/.claude.json and the
// disabled ones into the disabled file, deleting it when the disabled set is
// empty. Both files are backed up first and restored together on failure.
func (a *Adapter) SaveConfig(snap *mcp.Snapshot) error {
	doc, err := a.readForUpdate()
	if err != nil {
		return err
	}
	if err := doc.SetServers(ServersKey, snap.Enabled, false); err != nil {
		return err
	}
	data, err := doc.Encode()
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}

	var disabledData []byte
	if snap.Disabled.Len() > 0 {
		disabledData, err = fileutil.MarshalJSON(snap.Disabled)
		if err != nil {
			return errors.Wrap(err, "encoding disabled servers")
		}
	}

	return a.saver.Save(a.BackupPaths(), func() error {
		if err := a.writeMain(data); err != nil {
			return err
		}

		if disabledData == nil {
			if err := a.removeFile(a.disabledPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return errors.Wrapf(err, "removing %s", a.disabledPath)
			}
			a.logger.Debug("disabled file removed", "path", a.disabledPath)
			return nil
		}

		if err := paths.EnsureDir(filepath.Dir(a.disabledPath), 0o700); err != nil {
			return errors.Wrapf(err, "creating directory for %s", a.disabledPath)
		}
		perm := fileutil.PermOrDefault(a.disabledPath, defaultDisabledPerm)
		if err := a.writeFile(a.disabledPath, disabledData, perm); err != nil {
			return errors.Wrapf(err, "writing %s", a.disabledPath)
		}
		a.logger.Debug("disabled file written", "path", a.disabledPath, "servers", snap.Disabled.Len())
		return nil
	})
}

// CreateBackup copies whichever of the two files exist into a new backup.
func (a *Adapter) CreateBackup() (string, error) {
	return a.saver.CreateBackup(a.BackupPaths())
}

// readForUpdate loads ~/.claude.json for modification. A missing file
// yields an empty document.
func (a *Adapter) readForUpdate() (*platform.Document, error) {
	doc, err := platform.ReadDocument(a.path)
	if errors.Is(err, errors.ErrNotFound) {
		return &platform.Document{}, nil
	}
	return doc, err
}

func (a *Adapter) writeMain(data []byte) error {
	if err := paths.EnsureDir(filepath.Dir(a.path), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", a.path)
	}
	perm := fileutil.PermOrDefault(a.path, defaultConfigPerm)
	if err := a.writeFile(a.path, data, perm); err != nil {
		return errors.Wrapf(err, "writing %s", a.path)
	}
	a.logger.Debug("config written", "tool", paths.ToolClaude, "path", a.path)
	return nil
}
