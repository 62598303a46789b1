package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/internal/cli"
	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// action selects what enable, disable and toggle do with each name.
type action int

const (
	actionEnable action = iota
	actionDisable
	actionToggle
)

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
	rootCmd.AddCommand(toggleCmd)
}

var enableCmd = &cobra.Command{
	Use:   "enable <name>...",
	Short: "Enable disabled MCP servers",
	Long: `Move one or more disabled MCP servers back into the tool's active
server list, with the definition they had when they were disabled.

Under project scope only the project entry changes: a server the project
disabled is re-enabled for that project, and the user configuration is left
alone.

A backup is taken before the configuration is written.`,
	Example: `  # Enable one server
  mcptoggle enable github

  # Enable several servers for Cursor
  mcptoggle enable github sentry --tool cursor

  See Also:
    mcptoggle disable - Disable servers
    mcptoggle list    - List configured servers`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggleWithWriter(cmd.Context(), os.Stdout, actionEnable, args)
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <name>...",
	Short: "Disable MCP servers without removing them",
	Long: `Move one or more MCP servers out of the tool's active server list. The
definition is kept where the tool ignores it, so 'mcptoggle enable' restores
it unchanged.

Under project scope the server is hidden for that project only.

A backup is taken before the configuration is written.`,
	Example: `  # Disable one server
  mcptoggle disable github

  # Disable a server in the current project only
  mcptoggle disable github --scope project

  See Also:
    mcptoggle enable - Enable servers
    mcptoggle list   - List configured servers`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggleWithWriter(cmd.Context(), os.Stdout, actionDisable, args)
	},
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <name>...",
	Short: "Flip MCP servers between enabled and disabled",
	Long: `Enable each named server that is disabled and disable each one that is
enabled.`,
	Example: `  # Flip two servers
  mcptoggle toggle github sentry

  See Also:
    mcptoggle interactive - Pick servers to toggle from a list`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runToggleWithWriter(cmd.Context(), os.Stdout, actionToggle, args)
	},
}

// runToggleWithWriter applies act to every name and saves once. Any unknown
// name aborts the command before anything is written.
func runToggleWithWriter(ctx context.Context, w io.Writer, act action, names []string) error {
	_, v, err := flags.OpenView(ctx)
	if err != nil {
		return err
	}

	for _, name := range names {
		if !v.Effective.Exists(name) {
			return errors.WithHint(
				errors.Markf(errors.ErrInvalidOperation, "server %q does not exist in %s", name, v.Adapter.DisplayName()),
				"Run: mcptoggle list",
			)
		}
	}

	printHeader(w, v)
	for _, name := range names {
		msg, err := apply(v, act, name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "  %s: %s\n", name, msg)
	}

	if !v.Changed() {
		return nil
	}
	return errors.Wrapf(v.Save(), "saving %s", v.Adapter.DisplayName())
}

func apply(v *cli.View, act action, name string) (string, error) {
	enabled := v.Effective.IsEnabled(name)
	switch {
	case act == actionEnable && enabled:
		return colorGray + "already enabled" + colorReset, nil
	case act == actionDisable && !enabled:
		return colorGray + "already disabled" + colorReset, nil
	case act == actionToggle && enabled, act == actionDisable:
		if err := v.Disable(name); err != nil {
			return "", err
		}
		return colorYellow + "disabled" + colorReset, nil
	default:
		if err := v.Enable(name); err != nil {
			return "", err
		}
		return colorGreen + "enabled" + colorReset, nil
	}
}
