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
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/tokens"
	"github.com/thoreinstein/mcptoggle/internal/validator"
)

var statusJSON bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Summarize servers, context cost and configuration problems",
	Long: `Show how many servers are enabled and disabled, an estimate of the
context tokens the enabled servers cost, and problems found in their
definitions.

Token counts are estimates based on well-known servers; unknown servers
count as 2000 tokens.

Problems on enabled servers that stop them from starting are errors; the
same problems on disabled servers are warnings. Notes such as tokens
written inline in env values are shown with -v.`,
	Example: `  # Summary for the detected tool
  mcptoggle status

  # Summary of the effective project configuration
  mcptoggle status --scope project

  # JSON output for scripting
  mcptoggle status --json

  See Also: mcptoggle list, mcptoggle interactive`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runStatusWithWriter(cmd.Context(), os.Stdout)
	},
}

// statusOutput represents the JSON output for status.
type statusOutput struct {
	Tool        string            `json:"tool"`
	Scope       mcp.Scope         `json:"scope"`
	ProjectPath string            `json:"project_path,omitempty"`
	Enabled     int               `json:"enabled"`
	Disabled    int               `json:"disabled"`
	Tokens      int               `json:"estimated_tokens"`
	Servers     []tokenOutput     `json:"servers"`
	Checks      *validator.Result `json:"checks"`
}

// tokenOutput is one enabled server's estimate.
type tokenOutput struct {
	Name   string `json:"name"`
	Tokens int    `json:"estimated_tokens"`
}

func runStatusWithWriter(ctx context.Context, w io.Writer) error {
	_, v, err := flags.OpenView(ctx)
	if err != nil {
		return err
	}
	eff := v.Effective

	out := statusOutput{
		Tool:        v.Adapter.Name(),
		Scope:       v.Resolution.Scope,
		ProjectPath: v.Resolution.ProjectPath,
		Enabled:     eff.Enabled.Len(),
		Disabled:    eff.Disabled.Len(),
		Tokens:      tokens.Total(eff.Enabled),
		Servers:     make([]tokenOutput, 0, eff.Enabled.Len()),
		Checks:      validator.ValidateSnapshot(eff.Snapshot),
	}
	for name, srv := range eff.Enabled.All() {
		out.Servers = append(out.Servers, tokenOutput{Name: name, Tokens: tokens.Estimate(name, srv)})
	}

	if statusJSON {
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding output")
	}

	printHeader(w, v)
	fmt.Fprintf(w, "  Enabled:  %s%d%s\n", colorGreen, out.Enabled, colorReset)
	fmt.Fprintf(w, "  Disabled: %d\n", out.Disabled)
	fmt.Fprintf(w, "  Estimated context: ~%d tokens\n", out.Tokens)

	if len(out.Servers) > 0 {
		fmt.Fprintln(w)
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintf(tw, "  %sSERVER%s\t%sTOKENS%s\n", colorBold, colorReset, colorBold, colorReset)
		for _, s := range out.Servers {
			fmt.Fprintf(tw, "  %s\t~%d\n", s.Name, s.Tokens)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	fmt.Fprintln(w)
	rep := validator.NewReporter(w, validator.FormatText)
	rep.Verbose = verbosity > 0
	return rep.Report(out.Checks)
}
