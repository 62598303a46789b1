package backup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/errors"
)

func init() {
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a manual backup",
	Long: `Create a backup of tool configuration files.

Backups are created automatically before mcptoggle modifies configurations.
This command allows you to create additional backups manually.

By default, creates backups for all detected tools. Use the --tool flag to
limit to one tool.`,
	Example: `  # Create backup for all tools
  mcptoggle backup create

  # Create backup for a specific tool
  mcptoggle backup create --tool claude

  See Also:
    mcptoggle backup list    - List available backups
    mcptoggle backup restore - Restore from a backup`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runCreateWithWriter(cmd.Context(), os.Stdout)
	},
}

func runCreateWithWriter(ctx context.Context, w io.Writer) error {
	s, adapters, err := targets(ctx, true)
	if err != nil {
		return err
	}

	created := 0
	for _, a := range adapters {
		manifest, err := s.Backups.Backup(a.Name(), a.BackupPaths())
		if err != nil {
			if errors.Is(err, backup.ErrNothingToBackUp) {
				fmt.Fprintf(w, "%s%s: no files found to back up%s\n",
					colorYellow, a.DisplayName(), colorReset)
				continue
			}
			return errors.Wrapf(err, "backing up %s", a.Name())
		}

		fmt.Fprintf(w, "%s✓ %s: created backup %s (%d files)%s\n",
			colorGreen, a.DisplayName(), manifest.ID, len(manifest.Files), colorReset)
		created++
	}

	if created == 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "No backups created. Configurations may not exist yet.")
	}

	return nil
}
