package scope

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/platform"
)

// Mode is the scope requested on the command line or in config.
type Mode string

const (
	// ModeUser always selects the user-level configuration.
	ModeUser Mode = "user"
	// ModeProject selects the project view for an explicit or current directory.
	ModeProject Mode = "project"
	// ModeAuto selects the nearest recorded project, else user.
	ModeAuto Mode = "auto"
)

// Modes returns the accepted mode names.
func Modes() []Mode {
	return []Mode{ModeUser, ModeProject, ModeAuto}
}

// ParseMode validates s. The empty string is ModeAuto.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeAuto, nil
	case ModeUser, ModeProject, ModeAuto:
		return Mode(s), nil
	}
	return "", errors.WithHint(
		errors.Markf(errors.ErrInvalidConfig, "unknown scope %q", s),
		"Use --scope user, --scope project or --scope auto.",
	)
}

// Resolution is the outcome of resolving a mode for one tool.
type Resolution struct {
	Scope       mcp.Scope
	ProjectPath string
}

// IsProject reports whether the resolution selects a project view.
func (r Resolution) IsProject() bool {
	return r.Scope == mcp.ScopeProject
}

func (r Resolution) String() string {
	if r.IsProject() {
		return string(r.Scope) + " (" + r.ProjectPath + ")"
	}
	return string(r.Scope)
}

// Resolver turns a requested mode into a [Resolution].
type Resolver struct {
	getwd  func() (string, error)
	logger *slog.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithWorkingDir fixes the directory used when no path is given.
func WithWorkingDir(dir string) Option {
	return func(r *Resolver) {
		r.getwd = func() (string, error) { return dir, nil }
	}
}

// NewResolver returns a Resolver that uses the process working directory.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		getwd:  os.Getwd,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve selects the scope a command runs in for adapter a. path is the
// explicit project directory, or "" for the working directory.
//
// Project mode fails with errors.ErrUnsupportedScope when the tool has no
// project configuration and errors.ErrPathNotFound when the directory is
// missing. Auto mode never fails for those reasons; it falls back to user.
func (r *Resolver) Resolve(a platform.Adapter, mode Mode, path string) (Resolution, error) {
	var (
		res Resolution
		err error
	)
	switch mode {
	case ModeUser:
		res = Resolution{Scope: mcp.ScopeUser}
	case ModeProject:
		res, err = r.resolveProject(a, path)
	case ModeAuto, "":
		res, err = r.resolveAuto(a, path)
	default:
		_, err = ParseMode(string(mode))
	}
	if err != nil {
		return Resolution{}, err
	}

	r.logger.Debug("scope resolved", "tool", a.Name(), "mode", string(mode), "scope", res.String())
	return res, nil
}

func (r *Resolver) resolveProject(a platform.Adapter, path string) (Resolution, error) {
	if _, ok := platform.AsProjectAdapter(a); !ok {
		return Resolution{}, errors.WithHint(
			errors.Markf(errors.ErrUnsupportedScope, "%s has no project-level configuration", a.DisplayName()),
			"Use --scope user for this tool.",
		)
	}
	dir, err := r.directory(path)
	if err != nil {
		return Resolution{}, err
	}
	return Resolution{Scope: mcp.ScopeProject, ProjectPath: dir}, nil
}

func (r *Resolver) resolveAuto(a platform.Adapter, path string) (Resolution, error) {
	user := Resolution{Scope: mcp.ScopeUser}

	pa, ok := platform.AsProjectAdapter(a)
	if !ok {
		return user, nil
	}
	dir, err := r.directory(path)
	if err != nil {
		return Resolution{}, err
	}

	known, err := pa.ProjectPaths()
	switch {
	case errors.Is(err, errors.ErrNotFound):
		return user, nil
	case err != nil:
		return Resolution{}, err
	}

	if match, ok := nearest(dir, known); ok {
		return Resolution{Scope: mcp.ScopeProject, ProjectPath: match}, nil
	}
	return user, nil
}

// directory returns the absolute, existing directory for path or the
// working directory.
func (r *Resolver) directory(path string) (string, error) {
	if path == "" {
		wd, err := r.getwd()
		if err != nil {
			return "", errors.Wrap(err, "determining working directory")
		}
		path = wd
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving %s", path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", errors.WithHint(
			errors.Markf(errors.ErrPathNotFound, "project path %s does not exist", abs),
			"Pass an existing directory with --project.",
		)
	}
	if !info.IsDir() {
		return "", errors.Markf(errors.ErrPathNotFound, "project path %s is not a directory", abs)
	}
	return abs, nil
}

// nearest returns the first of dir and its ancestors that appears in known.
func nearest(dir string, known []string) (string, bool) {
	set := make(map[string]bool, len(known))
	for _, p := range known {
		set[filepath.Clean(p)] = true
	}

	for {
		if set[dir] {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
