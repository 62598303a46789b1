package profile

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	Cmd.AddCommand(saveCmd)
}

var saveCmd = &cobra.Command{
	Use:   "save <name>",
	Short: "Save the current split as a profile",
	Long: `Save the enabled and disabled servers of the selected tool as a named
profile. An existing profile with the same name is replaced.

Names may contain letters, digits, '.', '_' and '-', and must start with a
letter or digit.`,
	Example: `  # Save the Claude Code servers as "work"
  mcptoggle profile save work --tool claude

  See Also:
    mcptoggle profile load - Load a profile`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSaveWithWriter(cmd.Context(), os.Stdout, args[0])
	},
}

func runSaveWithWriter(ctx context.Context, w io.Writer, name string) error {
	s, a, snap, err := open(ctx)
	if err != nil {
		return err
	}

	replaced := s.Profiles.Exists(name)
	p, err := s.Profiles.Save(name, snap)
	if err != nil {
		return err
	}

	verb := "Saved"
	if replaced {
		verb = "Replaced"
	}
	fmt.Fprintf(w, "%s✓ %s profile %q from %s: %d enabled, %d disabled%s\n",
		colorGreen, verb, name, a.DisplayName(), p.Enabled.Len(), p.Disabled.Len(), colorReset)
	return nil
}
