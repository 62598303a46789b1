// Package commands implements the CLI commands for mcptoggle.
package commands

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/mcptoggle/cmd"
	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/backup"
	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/profile"
	internalbackup "github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/config"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/logging"
	"github.com/thoreinstein/mcptoggle/internal/paths"
	"github.com/thoreinstein/mcptoggle/internal/scope"
)

var (
	// toolFlag holds the value of the --tool flag.
	toolFlag string
	// scopeFlag holds the value of the --scope flag.
	scopeFlag string
	// projectFlag holds the value of the --project flag.
	projectFlag string

	// verbosity holds the count of -v flags.
	verbosity int
	// quiet holds the value of the -q/--quiet flag.
	quiet bool
	// logFormat holds the value of the --log-format flag.
	logFormat string
	// logFile holds the path to the log file.
	logFile string
)

// closeLog releases the --log-file handle after the command finishes.
var closeLog = func() error { return nil }

func init() {
	rootCmd.PersistentFlags().StringVarP(&toolFlag, "tool", "t", "",
		"target tool: "+strings.Join(paths.Tools(), ", ")+" (default: default_tool, else first detected)")
	rootCmd.PersistentFlags().StringVar(&scopeFlag, "scope", "",
		"configuration scope: user, project, auto (default: default_scope, else auto)")
	rootCmd.PersistentFlags().StringVar(&projectFlag, "project", "",
		"project directory for project scope (default: current directory)")
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("mcptoggle version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(profile.Cmd)
	rootCmd.AddCommand(backup.Cmd)
}

var rootCmd = &cobra.Command{
	Use:   "mcptoggle",
	Short: "Enable and disable MCP servers in AI assistant configurations",
	Long: `mcptoggle switches MCP servers on and off for AI coding assistants
without losing their definitions.

Disabled servers are kept in a place the assistant ignores, so they can be
re-enabled later exactly as they were. Every change is preceded by a backup.

Supported tools: Claude Code, Claude Desktop, Cursor, Windsurf, Gemini CLI,
OpenCode and Codex CLI. Claude Code also supports per-project configuration;
use --scope project or run inside a known project directory.`,
	Example: `  # Show which tools are installed
  mcptoggle detect

  # List servers for the detected tool
  mcptoggle list

  # Disable a server for the current project only
  mcptoggle disable github --scope project

  # Pick servers interactively
  mcptoggle interactive --tool cursor

  See Also: mcptoggle status, mcptoggle profile, mcptoggle backup`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return setupSession(cmd)
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeLog()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	logger, closer, err := logging.Setup(cmd.ErrOrStderr(), logging.Options{
		Verbosity: verbosity,
		Quiet:     quiet,
		Format:    logging.Format(logFormat),
		File:      logFile,
	})
	if err != nil {
		return err
	}
	closeLog = closer
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))
	return nil
}

// setupSession resolves the environment, loads config.yaml and publishes
// the global flags to subpackages.
func setupSession(cmd *cobra.Command) error {
	internalbackup.Version = cmd.Root().Version

	env, err := paths.DefaultEnv()
	if err != nil {
		return errors.NewUserError(err, "Set the HOME environment variable.")
	}
	flags.SetEnv(env)
	flags.SetTool(toolFlag)
	flags.SetScope(scopeFlag)
	flags.SetProject(projectFlag)

	if toolFlag != "" && !paths.ValidTool(toolFlag) {
		return errors.NewUserError(
			errors.Markf(errors.ErrUnknownTool, "unknown tool %q", toolFlag),
			"Valid tools: "+strings.Join(paths.Tools(), ", "))
	}
	if scopeFlag != "" {
		if _, err := scope.ParseMode(scopeFlag); err != nil {
			return err
		}
	}

	config.Init(env.AppDir())
	cfg, err := config.Load("")
	if err != nil {
		// config commands must still run to repair a broken file
		if isConfigCommand(cmd) {
			logging.FromContext(cmd.Context()).Debug("config invalid", "error", err)
			return nil
		}
		return errors.NewConfigError(err)
	}
	flags.SetConfig(cfg)
	return nil
}

func isConfigCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == configCmd {
			return true
		}
	}
	return false
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}
