package profile

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
)

func init() {
	Cmd.AddCommand(deleteCmd)
}

var deleteCmd = &cobra.Command{
	Use:     "delete <name>",
	Aliases: []string{"rm"},
	Short:   "Delete a profile",
	Long:    `Delete a saved profile permanently. No backup is taken.`,
	Example: `  # Delete the "old" profile
  mcptoggle profile delete old

  See Also:
    mcptoggle profile list - List saved profiles`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeleteWithWriter(cmd.Context(), os.Stdout, args[0])
	},
}

func runDeleteWithWriter(ctx context.Context, w io.Writer, name string) error {
	s, err := flags.Session(ctx)
	if err != nil {
		return err
	}
	if err := s.Profiles.Delete(name); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s✓ Deleted profile %q%s\n", colorGreen, name, colorReset)
	return nil
}
