// Package backup provides CLI commands for managing configuration backups.
package backup

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/internal/cli"
	"github.com/thoreinstein/mcptoggle/internal/platform"
)

// Color constants for terminal output.
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorCyan   = "\033[36m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage configuration backups",
	Long: `Manage configuration backups for AI coding assistants.

Before mcptoggle writes a tool's configuration, it copies the current files
into a new backup. This command group lists, restores, creates and prunes
those backups. Backups are never removed automatically.

Backups are stored under the mcptoggle config directory in backups/<tool>/,
or under backup_dir when it is set in config.yaml.`,
	Example: `  # List all backups
  mcptoggle backup list

  # Restore the most recent Claude Code backup
  mcptoggle backup restore --tool claude

  # Remove old backups, keeping the 3 most recent
  mcptoggle backup prune --keep 3

  See Also:
    mcptoggle backup list    - List available backups
    mcptoggle backup restore - Restore from a backup
    mcptoggle backup create  - Manually create a backup
    mcptoggle backup prune   - Remove old backups`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// targets returns the adapter named by --tool, or every registered one.
// When detectedOnly is set, the fallback is limited to installed tools.
func targets(ctx context.Context, detectedOnly bool) (*cli.Session, []platform.Adapter, error) {
	s, err := flags.Session(ctx)
	if err != nil {
		return nil, nil, err
	}
	if tool := flags.GetTool(); tool != "" {
		a, err := s.Registry.Get(tool)
		if err != nil {
			return nil, nil, err
		}
		return s, []platform.Adapter{a}, nil
	}
	if detectedOnly {
		return s, s.Registry.Detected(), nil
	}
	return s, s.Registry.All(), nil
}
