package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/internal/config"
	"github.com/thoreinstein/mcptoggle/internal/errors"
)

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage mcptoggle configuration",
	Long: `Manage mcptoggle configuration stored in config.yaml under the
mcptoggle config directory (see 'mcptoggle config path').

Every key can also be set through the environment, e.g.
MCPTOGGLE_DEFAULT_TOOL=cursor.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  mcptoggle config

  # Always work on Cursor unless --tool says otherwise
  mcptoggle config set default_tool cursor

  # Point claude at a non-default file
  mcptoggle config set tools.claude.config_path ~/work/.claude.json

See Also: mcptoggle detect`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runConfigListWithWriter(os.Stdout)
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Supports dot notation for nested keys, e.g. tools.claude.config_path.`,
	Example: `  # Get the default scope
  mcptoggle config get default_scope

See Also: mcptoggle config set, mcptoggle config list`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return runConfigGetWithWriter(os.Stdout, args[0])
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and write config.yaml.

Values are validated before anything is written: tools must be supported,
default_scope must be user, project or auto, and paths must be absolute or
start with ~/.`,
	Example: `  # Set the default tool
  mcptoggle config set default_tool claude

  # Keep backups somewhere else
  mcptoggle config set backup_dir ~/backups/mcp

See Also: mcptoggle config get, mcptoggle config list`,
	Args: cobra.ExactArgs(2),
	RunE: func(_ *cobra.Command, args []string) error {
		return runConfigSetWithWriter(os.Stdout, args[0], args[1])
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format, defaults included.`,
	Example: `  # List all configuration
  mcptoggle config list

See Also: mcptoggle config get, mcptoggle config set`,
	Args: cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runConfigListWithWriter(os.Stdout)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file location",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		fmt.Fprintln(os.Stdout, config.FilePath(flags.GetEnv().AppDir()))
		return nil
	},
}

func runConfigGetWithWriter(w io.Writer, key string) error {
	if !viper.IsSet(key) {
		fmt.Fprintln(w, "not set")
		return nil
	}

	switch v := viper.Get(key).(type) {
	case map[string]any:
		data, err := yaml.Marshal(v)
		if err != nil {
			return errors.Wrap(err, "marshaling value")
		}
		fmt.Fprint(w, string(data))
	default:
		fmt.Fprintln(w, viper.GetString(key))
	}
	return nil
}

func runConfigSetWithWriter(w io.Writer, key, value string) error {
	path := config.FilePath(flags.GetEnv().AppDir())
	if err := config.Set(path, key, value); err != nil {
		return err
	}
	fmt.Fprintf(w, "Set %s = %s\n", key, value)
	return nil
}

func runConfigListWithWriter(w io.Writer) error {
	data, err := yaml.Marshal(viper.AllSettings())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	fmt.Fprint(w, string(data))
	return nil
}
