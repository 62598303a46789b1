// Package flags provides shared flag accessors for CLI commands.
// This package exists to avoid import cycles between the root command
// and noun subpackages (profile, backup).
package flags

import (
	"context"

	"github.com/thoreinstein/mcptoggle/internal/cli"
	"github.com/thoreinstein/mcptoggle/internal/config"
	"github.com/thoreinstein/mcptoggle/internal/logging"
	"github.com/thoreinstein/mcptoggle/internal/paths"
)

var (
	// tool holds the value of the --tool flag.
	tool string
	// scope holds the value of the --scope flag.
	scope string
	// project holds the value of the --project flag.
	project string

	env paths.Env
	cfg *config.Config
)

// GetTool returns the current value of the --tool flag.
func GetTool() string { return tool }

// SetTool sets the --tool value.
func SetTool(t string) { tool = t }

// GetScope returns the current value of the --scope flag.
func GetScope() string { return scope }

// SetScope sets the --scope value.
func SetScope(s string) { scope = s }

// GetProject returns the current value of the --project flag.
func GetProject() string { return project }

// SetProject sets the --project value.
func SetProject(p string) { project = p }

// SetEnv records the resolved home directories. The root command sets it
// once; tests point it at a temporary directory.
func SetEnv(e paths.Env) { env = e }

// GetEnv returns the environment set by SetEnv.
func GetEnv() paths.Env { return env }

// SetConfig records the loaded app configuration.
func SetConfig(c *config.Config) { cfg = c }

// GetConfig returns the configuration set by SetConfig, or nil.
func GetConfig() *config.Config { return cfg }

// Reset clears all shared state.
func Reset() {
	tool, scope, project = "", "", ""
	env = paths.Env{}
	cfg = nil
}

// Session opens a cli.Session from the shared state, logging through the
// logger carried by ctx.
func Session(ctx context.Context) (*cli.Session, error) {
	return cli.NewSession(cli.Options{
		Env:    env,
		Config: cfg,
		Logger: logging.FromContext(ctx),
	})
}

// OpenView selects the tool and scope from the flags and loads its view.
func OpenView(ctx context.Context) (*cli.Session, *cli.View, error) {
	s, err := Session(ctx)
	if err != nil {
		return nil, nil, err
	}
	v, err := s.Open(tool, scope, project)
	if err != nil {
		return nil, nil, err
	}
	return s, v, nil
}
