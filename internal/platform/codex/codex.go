package codex

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"maps"
	"path/filepath"
	"slices"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/paths"
	"github.com/thoreinstein/mcptoggle/internal/platform"
	"github.com/thoreinstein/mcptoggle/pkg/fileutil"
)

// Tables used in config.toml.
const (
	ServersKey  = "mcp_servers"
	DisabledKey = "_disabled_mcp_servers"
)

// Adapter reads and writes the Codex CLI configuration.
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

// New returns the Codex adapter for the config file at configPath.
func New(configPath string, backups *backup.Manager, opts ...Option) *Adapter {
	a := &Adapter{
		path:      configPath,
		logger:    slog.Default(),
		writeFile: fileutil.AtomicWriteFile,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.saver = platform.NewSaver(paths.ToolCodex, backups, a.logger)
	return a
}

// Compile-time interface check.
var _ platform.Adapter = (*Adapter)(nil)

func (a *Adapter) Name() string { return paths.ToolCodex }

func (a *Adapter) DisplayName() string { return paths.DisplayName(paths.ToolCodex) }

func (a *Adapter) ConfigPath() string { return a.path }

func (a *Adapter) BackupPaths() []string { return []string{a.path} }

func (a *Adapter) BackupDir() string { return a.saver.BackupDir() }

func (a *Adapter) SupportsProjectScope() bool { return false }

// Detect reports whether config.toml exists and has an mcp_servers table.
func (a *Adapter) Detect() bool {
	doc, err := a.read()
	if err != nil {
		return false
	}
	_, ok := doc[ServersKey]
	return ok
}

// LoadConfig reads both tables. Servers are ordered by name.
func (a *Adapter) LoadConfig() (*mcp.Snapshot, error) {
	doc, err := a.read()
	if err != nil {
		return nil, err
	}

	enabled, err := decodeTable(doc, ServersKey)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", a.path)
	}
	disabled, err := decodeTable(doc, DisabledKey)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", a.path)
	}

	return platform.BuildSnapshot(paths.ToolCodex, a.path, enabled, disabled, a.logger), nil
}

// SaveConfig writes both tables back, keeping every other setting. An empty
// disabled table is removed.
func (a *Adapter) SaveConfig(snap *mcp.Snapshot) error {
	doc, err := a.read()
	switch {
	case errors.Is(err, errors.ErrNotFound):
		doc = make(map[string]any)
	case err != nil:
		return err
	}

	if doc[ServersKey], err = encodeTable(snap.Enabled); err != nil {
		return err
	}
	if snap.Disabled.Len() == 0 {
		delete(doc, DisabledKey)
	} else if doc[DisabledKey], err = encodeTable(snap.Disabled); err != nil {
		return err
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}

	perm := fileutil.PermOrDefault(a.path, 0o600)
	return a.saver.Save(a.BackupPaths(), func() error {
		if err := paths.EnsureDir(filepath.Dir(a.path), 0o700); err != nil {
			return errors.Wrapf(err, "creating directory for %s", a.path)
		}
		if err := a.writeFile(a.path, data, perm); err != nil {
			return err
		}
		a.logger.Debug("config written", "tool", paths.ToolCodex, "path", a.path,
			"enabled", snap.Enabled.Len(), "disabled", snap.Disabled.Len())
		return nil
	})
}

// CreateBackup copies config.toml into a new backup.
func (a *Adapter) CreateBackup() (string, error) {
	return a.saver.CreateBackup(a.BackupPaths())
}

func (a *Adapter) read() (map[string]any, error) {
	data, err := fileutil.ReadFileWithLimit(a.path)
	if err != nil {
		return nil, err
	}

	doc := make(map[string]any)
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, platform.ParseError(err, a.path, data)
	}
	return doc, nil
}

// decodeTable converts the table under key into a server set, ordered by
// server name. A missing table is an empty set.
func decodeTable(doc map[string]any, key string) (mcp.ServerSet, error) {
	set := mcp.NewServerSet()
	v, ok := doc[key]
	if !ok {
		return set, nil
	}
	table, ok := v.(map[string]any)
	if !ok {
		return set, errors.Markf(errors.ErrParse, "%s must be a table, got %T", key, v)
	}

	for _, name := range slices.Sorted(maps.Keys(table)) {
		fields, ok := table[name].(map[string]any)
		if !ok {
			return set, errors.Markf(errors.ErrParse, "%s.%s must be a table, got %T", key, name, table[name])
		}
		data, err := fileutil.CompactJSON(fields)
		if err != nil {
			return set, errors.WrapMark(err, errors.ErrParse, "converting "+key+"."+name)
		}
		srv := &mcp.Server{}
		if err := json.Unmarshal(data, srv); err != nil {
			return set, errors.WrapMark(err, errors.ErrParse, "decoding "+key+"."+name)
		}
		set.Set(name, srv)
	}
	return set, nil
}

// encodeTable converts a server set into TOML-ready tables.
func encodeTable(set mcp.ServerSet) (map[string]any, error) {
	table := make(map[string]any, set.Len())
	for name, srv := range set.All() {
		data, err := fileutil.CompactJSON(srv)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding server %q", name)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var fields map[string]any
		if err := dec.Decode(&fields); err != nil {
			return nil, errors.Wrapf(err, "encoding server %q", name)
		}
		table[name] = tomlValue(fields)
	}
	return table, nil
}

// tomlValue turns JSON numbers back into TOML integers or floats so that
// a value such as startup_timeout_ms = 5000 is not rewritten as 5000.0.
func tomlValue(v any) any {
	switch v := v.(type) {
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return i
		}
		f, _ := v.Float64()
		return f
	case map[string]any:
		for k, item := range v {
			v[k] = tomlValue(item)
		}
		return v
	case []any:
		for i, item := range v {
			v[i] = tomlValue(item)
		}
		return v
	default:
		return v
	}
}
