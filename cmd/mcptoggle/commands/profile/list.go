package profile

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Long:  `List saved profiles sorted by name, with their server counts.`,
	Example: `  # List profiles
  mcptoggle profile list

  # Output as JSON
  mcptoggle profile list --json

  See Also:
    mcptoggle profile load - Load a profile`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.Context(), os.Stdout)
	},
}

func runListWithWriter(ctx context.Context, w io.Writer) error {
	s, err := flags.Session(ctx)
	if err != nil {
		return err
	}
	summaries, err := s.Profiles.List()
	if err != nil {
		return err
	}

	if listJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(summaries), "encoding output")
	}

	if len(summaries) == 0 {
		fmt.Fprintln(w, "No profiles saved.")
		fmt.Fprintf(w, "Save one with: %smcptoggle profile save <name>%s\n", colorGray, colorReset)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sNAME%s\t%sTOOL%s\t%sENABLED%s\t%sDISABLED%s\t%sCREATED%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)
	for _, p := range summaries {
		tool := p.Tool
		if tool == "" {
			tool = "-"
		}
		created := "-"
		if !p.Created.IsZero() {
			created = p.Created.Local().Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", p.Name, tool, p.EnabledCount, p.DisabledCount, created)
	}
	return tw.Flush()
}
