package profile

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/logging"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/paths"
)

func init() {
	Cmd.AddCommand(loadCmd)
}

var loadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Replace the current split with a profile",
	Long: `Replace the enabled and disabled servers of the selected tool with the
ones stored in a profile. Servers that are not in the profile are removed
from the tool's configuration; everything else in the file is kept.

A backup is taken first, so 'mcptoggle backup restore' undoes a load.`,
	Example: `  # Load the "minimal" profile into Cursor
  mcptoggle profile load minimal --tool cursor

  See Also:
    mcptoggle profile save - Save a profile
    mcptoggle profile list - List saved profiles`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runLoadWithWriter(cmd.Context(), os.Stdout, args[0])
	},
}

func runLoadWithWriter(ctx context.Context, w io.Writer, name string) error {
	s, err := flags.Session(ctx)
	if err != nil {
		return err
	}
	a, err := s.Adapter(flags.GetTool())
	if err != nil {
		return err
	}

	p, err := s.Profiles.Load(ctx, name, a.Name())
	if err != nil {
		return err
	}

	live, err := a.LoadConfig()
	switch {
	case errors.Is(err, errors.ErrNotFound):
		live = mcp.NewSnapshot(a.Name(), a.ConfigPath())
	case err != nil:
		return errors.Wrapf(err, "loading %s configuration", a.DisplayName())
	}

	skipped := live.Apply(p.Snapshot())
	logger := logging.FromContext(ctx)
	for _, server := range skipped {
		logger.Warn("profile lists a server with no definition; skipping", "profile", name, "server", server)
	}
	if err := a.SaveConfig(live); err != nil {
		return errors.Wrapf(err, "saving %s", a.DisplayName())
	}

	if p.ToolMismatch(a.Name()) {
		fmt.Fprintf(w, "%sNote: profile %q was saved from %s%s\n",
			colorYellow, name, paths.DisplayName(p.Tool), colorReset)
	}
	fmt.Fprintf(w, "%s✓ Loaded profile %q into %s: %d enabled, %d disabled%s\n",
		colorGreen, name, a.DisplayName(), live.Enabled.Len(), live.Disabled.Len(), colorReset)
	if len(skipped) > 0 {
		fmt.Fprintf(w, "%sSkipped %d server(s) with no definition in the profile or %s: %s%s\n",
			colorYellow, len(skipped), a.DisplayName(), strings.Join(skipped, ", "), colorReset)
	}
	return nil
}
