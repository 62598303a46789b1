package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/internal/cli"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/redact"
)

var (
	listJSON        bool
	listShowSecrets bool
)

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output as JSON")
	listCmd.Flags().BoolVar(&listShowSecrets, "show-secrets", false, "print environment values, headers and arguments unmasked")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List enabled and disabled MCP servers",
	Long: `List the MCP servers of one tool with their state.

Under project scope the effective configuration is shown, and each server
is labeled with where it comes from:
  inherited   enabled at user level, untouched by the project
  overridden  enabled at both levels; the project's definition wins
  addition    enabled only by the project
  user        disabled at user level
  project     disabled by the project

Secrets in environment variables, headers, arguments and URLs are masked
unless --show-secrets is given.`,
	Example: `  # List servers of the detected tool
  mcptoggle list

  # Effective servers for the current project
  mcptoggle list --tool claude --scope project

  # JSON output for scripting
  mcptoggle list --json

  See Also: mcptoggle status, mcptoggle enable, mcptoggle disable`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runListWithWriter(cmd.Context(), os.Stdout)
	},
}

// listOutput represents the JSON output for list.
type listOutput struct {
	Tool        string         `json:"tool"`
	Scope       mcp.Scope      `json:"scope"`
	ProjectPath string         `json:"project_path,omitempty"`
	Servers     []serverOutput `json:"servers"`
}

// serverOutput represents a single server in JSON output.
type serverOutput struct {
	Name      string            `json:"name"`
	Enabled   bool              `json:"enabled"`
	Source    string            `json:"source,omitempty"`
	Transport string            `json:"transport,omitempty"`
	Command   string            `json:"command,omitempty"`
	Args      []string          `json:"args,omitempty"`
	URL       string            `json:"url,omitempty"`
	Env       map[string]string `json:"env,omitempty"`
	Headers   map[string]string `json:"headers,omitempty"`
	Undefined bool              `json:"undefined,omitempty"`
}

func runListWithWriter(ctx context.Context, w io.Writer) error {
	_, v, err := flags.OpenView(ctx)
	if err != nil {
		return err
	}

	servers := collectServers(v, listShowSecrets)
	if listJSON {
		out := listOutput{
			Tool:        v.Adapter.Name(),
			Scope:       v.Resolution.Scope,
			ProjectPath: v.Resolution.ProjectPath,
			Servers:     servers,
		}
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(out), "encoding output")
	}

	printHeader(w, v)
	if len(servers) == 0 {
		fmt.Fprintf(w, "  %s(no MCP servers configured)%s\n", colorGray, colorReset)
		return nil
	}

	project := v.Resolution.IsProject()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if project {
		fmt.Fprintf(tw, "  %sNAME%s\t%sSTATE%s\t%sSOURCE%s\t%sTRANSPORT%s\t%sCOMMAND/URL%s\n",
			colorBold, colorReset, colorBold, colorReset, colorBold, colorReset,
			colorBold, colorReset, colorBold, colorReset)
	} else {
		fmt.Fprintf(tw, "  %sNAME%s\t%sSTATE%s\t%sTRANSPORT%s\t%sCOMMAND/URL%s\n",
			colorBold, colorReset, colorBold, colorReset,
			colorBold, colorReset, colorBold, colorReset)
	}
	for _, s := range servers {
		state := colorGray + "disabled" + colorReset
		if s.Enabled {
			state = colorGreen + "enabled" + colorReset
		}
		if project {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n", s.Name, state, s.Source, dash(s.Transport), target(s))
		} else {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", s.Name, state, dash(s.Transport), target(s))
		}
	}
	return tw.Flush()
}

// collectServers lists the effective servers, enabled first.
func collectServers(v *cli.View, showSecrets bool) []serverOutput {
	eff := v.Effective
	out := make([]serverOutput, 0, eff.Enabled.Len()+eff.Disabled.Len())
	for name, srv := range eff.Enabled.All() {
		o := describe(name, srv, showSecrets)
		o.Enabled = true
		o.Source = eff.Inheritance.Source(name)
		out = append(out, o)
	}
	for name, srv := range eff.Disabled.All() {
		o := describe(name, srv, showSecrets)
		if v.Resolution.IsProject() {
			o.Source = "user"
			if v.Project != nil && v.Project.Disabled.Has(name) {
				o.Source = "project"
			}
		}
		out = append(out, o)
	}
	return out
}

func describe(name string, srv *mcp.Server, showSecrets bool) serverOutput {
	if srv.IsPlaceholder() {
		return serverOutput{Name: name, Undefined: true}
	}
	o := serverOutput{
		Name:      name,
		Transport: transport(srv),
		Command:   srv.Command,
		Args:      srv.Args,
		URL:       srv.URL,
		Env:       srv.Env,
		Headers:   srv.Headers,
	}
	if !showSecrets {
		o.Args = redact.Args(srv.Args)
		o.URL = redact.URL(srv.URL)
		o.Env = redact.Env(srv.Env)
		o.Headers = redact.Env(srv.Headers)
	}
	return o
}

// transport returns the declared transport, or the one implied by the
// record's fields.
func transport(srv *mcp.Server) string {
	switch {
	case srv.Type != "":
		return srv.Type
	case srv.IsRemote():
		return mcp.TransportHTTP
	case srv.IsLocal():
		return mcp.TransportStdio
	}
	return ""
}

func target(s serverOutput) string {
	switch {
	case s.Undefined:
		return colorYellow + "(undefined)" + colorReset
	case s.URL != "":
		return s.URL
	case s.Command != "":
		return truncate(strings.Join(append([]string{s.Command}, s.Args...), " "), 60)
	}
	return "-"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
