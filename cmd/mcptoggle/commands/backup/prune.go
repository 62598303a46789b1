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

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", backup.DefaultKeep,
		"Number of backups to retain per tool")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove old backups beyond the retention count.

By default, keeps the 10 most recent backups per tool and removes older ones.
Use the --keep flag to specify a different retention count. Backups are only
ever removed by this command.

By default, prunes backups for every supported tool. Use the --tool flag to
limit to one tool.`,
	Example: `  # Prune all tools, keeping the default number of backups each
  mcptoggle backup prune

  # Keep only the 3 most recent backups
  mcptoggle backup prune --keep 3

  # Remove all Claude Code backups
  mcptoggle backup prune --tool claude --keep 0

  See Also:
    mcptoggle backup list   - List available backups
    mcptoggle backup create - Create a new backup`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runPruneWithWriter(cmd.Context(), os.Stdout)
	},
}

func runPruneWithWriter(ctx context.Context, w io.Writer) error {
	if pruneKeep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "Pass --keep 0 to remove every backup.")
	}

	s, adapters, err := targets(ctx, false)
	if err != nil {
		return err
	}

	pruned := 0
	for _, a := range adapters {
		n, err := s.Backups.Prune(a.Name(), pruneKeep)
		if err != nil {
			return errors.Wrapf(err, "pruning backups for %s", a.Name())
		}
		if n > 0 {
			fmt.Fprintf(w, "%s✓ %s: removed %d backup(s)%s\n", colorGreen, a.DisplayName(), n, colorReset)
			pruned += n
		}
	}

	if pruned == 0 {
		fmt.Fprintln(w, "No backups to prune.")
	}
	return nil
}
