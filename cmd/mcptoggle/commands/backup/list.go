package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Long: `List all available configuration backups grouped by tool.

By default, lists backups for every supported tool. Use the --tool flag to
limit to one tool. Backups are shown with the most recent first.`,
	Example: `  # List all backups
  mcptoggle backup list

  # List backups for a specific tool
  mcptoggle backup list --tool claude

  # Output as JSON
  mcptoggle backup list --json

  See Also:
    mcptoggle backup restore - Restore from a backup
    mcptoggle backup create  - Create a new backup`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.Context(), os.Stdout)
	},
}

// listOutput represents the JSON output for backup list.
type listOutput struct {
	Tool    string       `json:"tool"`
	Backups []infoOutput `json:"backups"`
}

// infoOutput represents a single backup in JSON output.
type infoOutput struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	FileCount int       `json:"file_count"`
	Version   string    `json:"mcptoggle_version"`
}

type toolBackups struct {
	tool      string
	display   string
	manifests []backup.Manifest
}

func runListWithWriter(ctx context.Context, w io.Writer) error {
	s, adapters, err := targets(ctx, false)
	if err != nil {
		return err
	}

	all := make([]toolBackups, 0, len(adapters))
	for _, a := range adapters {
		manifests, err := s.Backups.List(a.Name())
		if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
			return errors.Wrapf(err, "listing backups for %s", a.Name())
		}
		all = append(all, toolBackups{tool: a.Name(), display: a.DisplayName(), manifests: manifests})
	}

	if listJSON {
		return outputListJSON(w, all)
	}
	return outputListTabular(w, all)
}

func outputListJSON(w io.Writer, all []toolBackups) error {
	output := make([]listOutput, 0, len(all))
	for _, tb := range all {
		backups := make([]infoOutput, len(tb.manifests))
		for i, m := range tb.manifests {
			backups[i] = infoOutput{
				ID:        m.ID,
				CreatedAt: m.CreatedAt,
				FileCount: len(m.Files),
				Version:   m.ToolVersion,
			}
		}
		output = append(output, listOutput{Tool: tb.tool, Backups: backups})
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(output), "encoding output")
}

func outputListTabular(w io.Writer, all []toolBackups) error {
	shown := 0
	for _, tb := range all {
		if len(tb.manifests) == 0 {
			continue
		}

		// Add blank line between tools (but not before first)
		if shown > 0 {
			fmt.Fprintln(w)
		}
		shown++

		fmt.Fprintf(w, "%sTool: %s%s\n", colorCyan+colorBold, tb.display, colorReset)

		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %sID%s\t%sCREATED%s\t%sFILES%s\t%sVERSION%s\n",
			colorBold, colorReset,
			colorBold, colorReset,
			colorBold, colorReset,
			colorBold, colorReset)

		for _, m := range tb.manifests {
			fmt.Fprintf(tw, "  %s%s%s\t%s\t%d\t%s\n",
				colorGreen, m.ID, colorReset,
				m.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				len(m.Files),
				m.ToolVersion)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if shown == 0 {
		fmt.Fprintln(w, "No backups available")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Backups are created automatically before mcptoggle modifies configurations.")
		fmt.Fprintf(w, "You can also create a backup manually with: %smcptoggle backup create%s\n", colorGray, colorReset)
	}

	return nil
}
