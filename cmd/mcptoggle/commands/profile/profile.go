// Package profile provides CLI commands for saving and restoring named
// enabled/disabled splits.
package profile

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/internal/cli"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/platform"
)

// Color constants for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// Cmd is the root profile command.
var Cmd = &cobra.Command{
	Use:   "profile",
	Short: "Save and load sets of enabled servers",
	Long: `Save the current enabled/disabled split of a tool under a name and
load it again later, e.g. a "minimal" profile for long sessions and a
"full" one for debugging.

Profiles hold user-level configuration only; --scope is ignored. A profile
saved from one tool can be loaded into another, with a warning.`,
	Example: `  # Save the current split
  mcptoggle profile save minimal

  # Switch back to it later
  mcptoggle profile load minimal

  See Also:
    mcptoggle profile list   - List saved profiles
    mcptoggle profile delete - Delete a profile
    mcptoggle profile init   - Save the current config as "default"`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// open selects the tool and loads its user-level snapshot.
func open(ctx context.Context) (*cli.Session, platform.Adapter, *mcp.Snapshot, error) {
	s, err := flags.Session(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	a, err := s.Adapter(flags.GetTool())
	if err != nil {
		return nil, nil, nil, err
	}
	snap, err := a.LoadConfig()
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "loading %s configuration", a.DisplayName())
	}
	return s, a, snap, nil
}
