package config

import (
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/viper"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/paths"
	"github.com/thoreinstein/mcptoggle/pkg/fileutil"
)

// FileName is the configuration file name inside the app directory.
const FileName = "config.yaml"

// EnvPrefix is the prefix for environment overrides, e.g.
// MCPTOGGLE_DEFAULT_TOOL.
const EnvPrefix = "MCPTOGGLE"

// CurrentVersion is the only supported config format version.
const CurrentVersion = 1

// Config represents the top-level configuration structure.
type Config struct {
	Version      int                     `mapstructure:"version" yaml:"version"`
	DefaultTool  string                  `mapstructure:"default_tool" yaml:"default_tool,omitempty"`
	DefaultScope string                  `mapstructure:"default_scope" yaml:"default_scope,omitempty"`
	ProfilesDir  string                  `mapstructure:"profiles_dir" yaml:"profiles_dir,omitempty"`
	BackupDir    string                  `mapstructure:"backup_dir" yaml:"backup_dir,omitempty"`
	Tools        map[string]ToolOverride `mapstructure:"tools" yaml:"tools,omitempty"`
}

// ToolOverride replaces the default file locations of one tool.
type ToolOverride struct {
	ConfigPath   string `mapstructure:"config_path" yaml:"config_path,omitempty"`
	DisabledPath string `mapstructure:"disabled_path" yaml:"disabled_path,omitempty"`
}

// Init resets Viper and configures it to search "." and appDir for
// config.yaml, with MCPTOGGLE_* environment overrides.
// Call this once at application startup before accessing config values.
func Init(appDir string) {
	viper.Reset()

	viper.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
	viper.SetConfigType("yaml")

	viper.AddConfigPath(".")
	viper.AddConfigPath(appDir)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range topKeys {
		// Unmarshal only sees keys Viper knows about
		_ = viper.BindEnv(key)
	}

	viper.SetDefault("version", CurrentVersion)
	viper.SetDefault("default_scope", "auto")
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file exists.
// The result is validated; problems are reported as errors.ErrInvalidConfig.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound):
			// implicit search; defaults apply
		case path != "" && errors.Is(err, os.ErrNotExist):
			return nil, errors.Markf(errors.ErrNotFound, "config file %s does not exist", path)
		default:
			return nil, errors.WrapMark(err, errors.ErrParse, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapMark(err, errors.ErrParse, "unmarshaling config")
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		var combined error
		for _, err := range errs {
			combined = errors.CombineErrors(combined, err)
		}
		return nil, errors.WrapMark(combined, errors.ErrInvalidConfig, "validating config")
	}
	return &cfg, nil
}

// FilePath returns the file `config set` writes: the file Viper loaded, or
// config.yaml in appDir.
func FilePath(appDir string) string {
	if used := viper.ConfigFileUsed(); used != "" {
		return used
	}
	return filepath.Join(appDir, FileName)
}

// ToolConfigPath returns the configured main file for tool, or def.
func (c *Config) ToolConfigPath(tool, def string) string {
	if o, ok := c.Tools[tool]; ok && o.ConfigPath != "" {
		return ExpandHome(o.ConfigPath)
	}
	return def
}

// ToolDisabledPath returns the configured disabled file for tool, or def.
func (c *Config) ToolDisabledPath(tool, def string) string {
	if o, ok := c.Tools[tool]; ok && o.DisabledPath != "" {
		return ExpandHome(o.DisabledPath)
	}
	return def
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := paths.ResolveHome()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// topKeys are the scalar keys `config set` accepts directly.
var topKeys = []string{"version", "default_tool", "default_scope", "profiles_dir", "backup_dir"}

// toolKeys are the per-tool keys, written as tools.<id>.<key>.
var toolKeys = []string{"config_path", "disabled_path"}

// Keys returns every settable key for display.
func Keys() []string {
	keys := slices.Clone(topKeys)
	for _, k := range toolKeys {
		keys = append(keys, "tools.<tool>."+k)
	}
	return keys
}

// Set validates value for key, applies it and writes the configuration to
// path.
func Set(path, key, value string) error {
	v, err := parseValue(key, value)
	if err != nil {
		return err
	}

	// a nil override falls through to the file, env and defaults
	var prev any
	if viper.IsSet(key) {
		prev = viper.Get(key)
	}
	viper.Set(key, v)

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		viper.Set(key, prev)
		return errors.WrapMark(err, errors.ErrParse, "unmarshaling config")
	}
	if errs := Validate(&cfg); len(errs) > 0 {
		viper.Set(key, prev)
		return errors.Mark(errs[0], errors.ErrInvalidConfig)
	}
	return Write(path, &cfg)
}

// parseValue checks key and converts value to the type stored under it.
func parseValue(key, value string) (any, error) {
	if slices.Contains(topKeys, key) {
		if key == "version" {
			n, err := strconv.Atoi(value)
			if err != nil {
				return nil, errors.Markf(errors.ErrInvalidConfig, "version must be an integer, got %q", value)
			}
			return n, nil
		}
		return value, nil
	}

	parts := strings.Split(key, ".")
	if len(parts) == 3 && parts[0] == "tools" && slices.Contains(toolKeys, parts[2]) {
		if !paths.ValidTool(parts[1]) {
			return nil, errors.WithHintf(
				errors.Markf(errors.ErrUnknownTool, "unknown tool %q in key %s", parts[1], key),
				"Supported tools: %s", strings.Join(paths.Tools(), ", "),
			)
		}
		return value, nil
	}

	return nil, errors.WithHintf(
		errors.Markf(errors.ErrInvalidConfig, "unknown configuration key %q", key),
		"Settable keys: %s", strings.Join(Keys(), ", "),
	)
}

// Write stores cfg as YAML at path, creating the directory if needed.
func Write(path string, cfg *Config) error {
	if err := paths.EnsureDir(filepath.Dir(path), paths.DefaultDirPerm); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := fileutil.AtomicWriteYAML(path, cfg); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}

// Current decodes the settings Viper holds now without validating them.
func Current() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.WrapMark(err, errors.ErrParse, "unmarshaling config")
	}
	return &cfg, nil
}
