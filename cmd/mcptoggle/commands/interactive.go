package commands

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/internal/cli"
	"github.com/thoreinstein/mcptoggle/internal/cli/prompt"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/logging"
	"github.com/thoreinstein/mcptoggle/internal/tokens"
)

// serverPicker is the part of prompt.Selector the interactive command uses.
type serverPicker interface {
	PickServers(choices []prompt.Choice) ([]string, error)
}

var (
	newPicker     = func() serverPicker { return prompt.NewSelector() }
	isInteractive = func() bool { return logging.IsTTY(os.Stdout) }
)

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

var interactiveCmd = &cobra.Command{
	Use:     "interactive",
	Aliases: []string{"i"},
	Short:   "Pick servers to toggle from a fuzzy list",
	Long: `Open a fuzzy finder listing every server with its state. Mark servers
with Tab and press Enter to flip them; Esc or Ctrl+C leaves everything as it
was.

The preview pane shows each server's definition with secrets masked.`,
	Example: `  # Toggle servers of the detected tool
  mcptoggle interactive

  # Toggle servers for the current project
  mcptoggle interactive --tool claude --scope project

  See Also: mcptoggle toggle, mcptoggle list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInteractiveWithWriter(cmd.Context(), os.Stdout)
	},
}

func runInteractiveWithWriter(ctx context.Context, w io.Writer) error {
	if !isInteractive() {
		return errors.NewUserError(
			errors.New("interactive mode needs a terminal"),
			"Use: mcptoggle enable|disable|toggle <name>...",
		)
	}

	_, v, err := flags.OpenView(ctx)
	if err != nil {
		return err
	}

	choices := serverChoices(v)
	if len(choices) == 0 {
		fmt.Fprintln(w, "No MCP servers configured.")
		return nil
	}

	picked, err := newPicker().PickServers(choices)
	if err != nil {
		if errors.Is(err, prompt.ErrCancelled) {
			fmt.Fprintln(w, "Cancelled.")
			return nil
		}
		return err
	}
	if len(picked) == 0 {
		fmt.Fprintln(w, "No changes.")
		return nil
	}

	flip := make(map[string]bool, len(picked))
	for _, name := range picked {
		flip[name] = true
	}
	var want []string
	for _, c := range choices {
		if c.Enabled != flip[c.Name] {
			want = append(want, c.Name)
		}
	}

	changed, err := v.SetEnabled(want)
	if err != nil {
		return err
	}

	printHeader(w, v)
	for _, name := range changed {
		if v.Effective.IsEnabled(name) {
			fmt.Fprintf(w, "  %s: %senabled%s\n", name, colorGreen, colorReset)
		} else {
			fmt.Fprintf(w, "  %s: %sdisabled%s\n", name, colorYellow, colorReset)
		}
	}
	if !v.Changed() {
		return nil
	}
	return errors.Wrapf(v.Save(), "saving %s", v.Adapter.DisplayName())
}

// serverChoices lists the effective servers, enabled first.
func serverChoices(v *cli.View) []prompt.Choice {
	servers := collectServers(v, false)
	choices := make([]prompt.Choice, 0, len(servers))
	for _, s := range servers {
		choices = append(choices, prompt.Choice{
			Name:    s.Name,
			Enabled: s.Enabled,
			Detail:  preview(v, s),
		})
	}
	return choices
}

func preview(v *cli.View, s serverOutput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", s.Name)
	if s.Source != "" {
		fmt.Fprintf(&sb, "Source: %s\n", s.Source)
	}
	if s.Undefined {
		sb.WriteString("\nNo definition at user or project level.\n")
		return sb.String()
	}
	fmt.Fprintf(&sb, "Transport: %s\n", dash(s.Transport))
	if s.Command != "" {
		fmt.Fprintf(&sb, "Command: %s\n", strings.Join(append([]string{s.Command}, s.Args...), " "))
	}
	if s.URL != "" {
		fmt.Fprintf(&sb, "URL: %s\n", s.URL)
	}
	if len(s.Env) > 0 {
		sb.WriteString("\nEnvironment:\n")
		for _, k := range slices.Sorted(maps.Keys(s.Env)) {
			fmt.Fprintf(&sb, "  %s=%s\n", k, s.Env[k])
		}
	}
	if srv, ok := v.Effective.Lookup(s.Name); ok {
		fmt.Fprintf(&sb, "\nEstimated context: ~%d tokens\n", tokens.Estimate(s.Name, srv))
	}
	return sb.String()
}
