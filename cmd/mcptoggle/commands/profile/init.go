package profile

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/internal/profile"
)

func init() {
	Cmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the profile directory and a default profile",
	Long: `Create the profile directory and save the selected tool's current
split as the "default" profile. An existing default profile is left alone.`,
	Example: `  # Initialize profiles from Claude Code
  mcptoggle profile init --tool claude

  See Also:
    mcptoggle profile save - Save a profile`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInitWithWriter(cmd.Context(), os.Stdout)
	},
}

func runInitWithWriter(ctx context.Context, w io.Writer) error {
	s, a, snap, err := open(ctx)
	if err != nil {
		return err
	}

	created, err := s.Profiles.Init(snap)
	if err != nil {
		return err
	}
	if !created {
		fmt.Fprintf(w, "%sProfile %q already exists in %s%s\n",
			colorGray, profile.DefaultName, s.Profiles.Dir(), colorReset)
		return nil
	}
	fmt.Fprintf(w, "%s✓ Saved %s servers as profile %q in %s%s\n",
		colorGreen, a.DisplayName(), profile.DefaultName, s.Profiles.Dir(), colorReset)
	return nil
}
