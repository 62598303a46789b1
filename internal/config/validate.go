package config

import (
	"maps"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/paths"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates the version field is not one this
	// release reads.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidTool indicates an unrecognized tool name.
	ErrInvalidTool = errors.New("invalid tool")

	// ErrInvalidScope indicates default_scope is not user, project or auto.
	ErrInvalidScope = errors.New("invalid scope")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// validScopes mirrors the modes the scope resolver accepts.
var validScopes = []string{"user", "project", "auto"}

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != CurrentVersion {
		errs = append(errs, errors.Wrapf(ErrUnsupportedVersion, "version %d", cfg.Version))
	}

	if cfg.DefaultTool != "" && !paths.ValidTool(cfg.DefaultTool) {
		errs = append(errs, &ToolError{Field: "default_tool", Tool: cfg.DefaultTool, Err: ErrInvalidTool})
	}

	if cfg.DefaultScope != "" && !slices.Contains(validScopes, cfg.DefaultScope) {
		errs = append(errs, errors.Wrapf(ErrInvalidScope, "default_scope %q (want %s)",
			cfg.DefaultScope, strings.Join(validScopes, ", ")))
	}

	for field, p := range map[string]string{"profiles_dir": cfg.ProfilesDir, "backup_dir": cfg.BackupDir} {
		if err := validatePath(p); err != nil {
			errs = append(errs, &PathError{Field: field, Path: p, Err: err})
		}
	}

	for _, tool := range slices.Sorted(maps.Keys(cfg.Tools)) {
		if !paths.ValidTool(tool) {
			errs = append(errs, &ToolError{Field: "tools", Tool: tool, Err: ErrInvalidTool})
			continue
		}
		o := cfg.Tools[tool]
		if err := validatePath(o.ConfigPath); err != nil {
			errs = append(errs, &PathError{Field: "tools." + tool + ".config_path", Path: o.ConfigPath, Err: err})
		}
		if err := validatePath(o.DisabledPath); err != nil {
			errs = append(errs, &PathError{Field: "tools." + tool + ".disabled_path", Path: o.DisabledPath, Err: err})
		}
	}

	slices.SortStableFunc(errs, func(a, b error) int { return strings.Compare(a.Error(), b.Error()) })
	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	// Clean the path and check it's not empty after cleaning
	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// ToolError represents an error for a specific tool name.
type ToolError struct {
	Field string
	Tool  string
	Err   error
}

func (e *ToolError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Tool
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// PathError represents an error for a specific path field.
type PathError struct {
	Field string
	Path  string
	Err   error
}

func (e *PathError) Error() string {
	return e.Field + ": " + e.Err.Error() + ": " + e.Path
}

func (e *PathError) Unwrap() error {
	return e.Err
}
