package backup

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/cli/prompt"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/logging"
)

// selector is the part of prompt.Selector restore uses.
type selector interface {
	PickOne(header string, labels []string, preview func(int) string) (int, error)
	Confirm(question string, def bool) (bool, error)
}

var (
	restoreYes  bool
	restorePick bool

	newSelector   = func() selector { return prompt.NewSelector() }
	isInteractive = func() bool { return logging.IsTTY(os.Stdout) }
)

func init() {
	restoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Restore without asking for confirmation")
	restoreCmd.Flags().BoolVar(&restorePick, "pick", false, "Choose the backup from a fuzzy list")
	Cmd.AddCommand(restoreCmd)
}

var restoreCmd = &cobra.Command{
	Use:   "restore [backup-id]",
	Short: "Restore from a backup",
	Long: `Restore a tool's configuration from a backup.

If no backup ID is provided, restores from the most recent backup for the
tool, or lets you choose one with --pick. The tool is the one selected by
--tool, default_tool, or the first detected tool.

The current files are backed up before they are overwritten, so a restore
can itself be undone. Every file's checksum is verified before anything is
written.`,
	Example: `  # Restore from the most recent Claude Code backup
  mcptoggle backup restore --tool claude

  # Restore from a specific backup without prompting
  mcptoggle backup restore 20260123T100712.042 --tool claude --yes

  # Choose a backup interactively
  mcptoggle backup restore --pick

  See Also:
    mcptoggle backup list   - List available backups
    mcptoggle backup create - Create a new backup`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRestoreWithWriter(cmd.Context(), os.Stdout, args)
	},
}

func runRestoreWithWriter(ctx context.Context, w io.Writer, args []string) error {
	s, err := flags.Session(ctx)
	if err != nil {
		return err
	}
	a, err := s.Adapter(flags.GetTool())
	if err != nil {
		return err
	}

	manifests, err := s.Backups.List(a.Name())
	if err != nil {
		if errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.NewUserError(
				errors.Newf("no backups found for %s", a.DisplayName()),
				"Backups are created automatically before every change.")
		}
		return errors.Wrap(err, "listing backups")
	}

	sel := newSelector()
	var manifest *backup.Manifest
	switch {
	case len(args) > 0:
		if manifest, err = s.Backups.Get(a.Name(), args[0]); err != nil {
			return errors.WithHint(errors.Wrapf(err, "getting backup %s", args[0]), "Run: mcptoggle backup list")
		}
	case restorePick:
		if !isInteractive() {
			return errors.NewUserError(errors.New("--pick needs a terminal"), "Pass the backup ID instead.")
		}
		i, err := sel.PickOne("Select a backup to restore", backupLabels(manifests), func(i int) string {
			return backupPreview(manifests[i])
		})
		if err != nil {
			if errors.Is(err, prompt.ErrCancelled) {
				fmt.Fprintln(w, "Cancelled.")
				return nil
			}
			return err
		}
		manifest = &manifests[i]
	default:
		manifest = &manifests[0]
		fmt.Fprintf(w, "Using most recent backup: %s\n", manifest.ID)
	}

	if !restoreYes {
		ok, err := sel.Confirm(fmt.Sprintf("Restore %d file(s) of %s from backup %s?",
			len(manifest.Files), a.DisplayName(), manifest.ID), false)
		if err != nil && !errors.Is(err, prompt.ErrCancelled) {
			return err
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
	}

	if _, err := a.CreateBackup(); err != nil && !errors.Is(err, errors.ErrNotFound) {
		return errors.Wrap(err, "backing up current configuration")
	}

	if err := s.Backups.RestoreManifest(manifest); err != nil {
		return errors.Wrap(err, "restoring backup")
	}

	fmt.Fprintf(w, "%s✓ Restored %s configuration from backup %s%s\n",
		colorGreen, a.DisplayName(), manifest.ID, colorReset)
	return nil
}

func backupLabels(manifests []backup.Manifest) []string {
	labels := make([]string, len(manifests))
	for i, m := range manifests {
		labels[i] = fmt.Sprintf("%s  %s  (%d files)",
			m.ID, m.CreatedAt.Local().Format("2006-01-02 15:04:05"), len(m.Files))
	}
	return labels
}

func backupPreview(m backup.Manifest) string {
	s := fmt.Sprintf("ID: %s\nCreated: %s\nVersion: %s\n\nFiles:\n",
		m.ID, m.CreatedAt.Local().Format("2006-01-02 15:04:05"), m.ToolVersion)
	for _, f := range m.Files {
		s += "  " + f.OriginalPath + "\n"
	}
	for _, p := range m.Absent {
		s += "  " + p + " (absent; removed on restore)\n"
	}
	return s
}
