package commands

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
	"github.com/thoreinstein/mcptoggle/internal/platform"
)

var detectJSON bool

func init() {
	detectCmd.Flags().BoolVar(&detectJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(detectCmd)
}

var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Show which AI assistants are installed",
	Long: `Show every supported tool, where its MCP configuration lives and
whether it was found.

Status values:
  detected       config file exists and has a server list
  no_servers     config file exists but has no server list
  not_installed  config file does not exist

Paths honor the tools.<id>.config_path settings in config.yaml.`,
	Example: `  # Show all tools
  mcptoggle detect

  # JSON output for scripting
  mcptoggle detect --json

  See Also: mcptoggle list, mcptoggle config`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDetectWithWriter(cmd.Context(), os.Stdout)
	},
}

func runDetectWithWriter(ctx context.Context, w io.Writer) error {
	s, err := flags.Session(ctx)
	if err != nil {
		return err
	}
	results := platform.DetectAll(s.Registry)

	if detectJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "encoding output")
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sTOOL%s\t%sSTATUS%s\t%sPROJECT%s\t%sCONFIG%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)
	for _, r := range results {
		status := string(r.Status)
		switch r.Status {
		case platform.StatusDetected:
			status = colorGreen + status + colorReset
		case platform.StatusNoServers:
			status = colorYellow + status + colorReset
		default:
			status = colorGray + status + colorReset
		}
		project := "-"
		if r.ProjectScope {
			project = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.DisplayName, status, project, r.ConfigPath)
	}
	return tw.Flush()
}
