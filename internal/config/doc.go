// Package config provides configuration management for the mcptoggle CLI.
//
// This package handles loading, saving, and validating mcptoggle's own
// configuration file. It is distinct from the assistant configurations,
// which are managed by the platform adapters.
//
// # Configuration File
//
// The default configuration file location is
// $XDG_CONFIG_HOME/mcptoggle/config.yaml; a config.yaml in the working
// directory takes precedence. The file uses YAML:
//
//	version: 1
//	default_tool: claude
//	default_scope: auto          # user, project or auto
//	profiles_dir: ~/mcp-profiles # optional
//	backup_dir: /var/backups/mcp # optional
//	tools:
//	  cursor:
//	    config_path: ~/work/.cursor/mcp.json
//	  claude:
//	    disabled_path: ~/.claude/disabled-mcp.json
//
// Every key can also be set from the environment with the MCPTOGGLE_
// prefix, e.g. MCPTOGGLE_DEFAULT_TOOL=cursor.
//
// # Validation
//
// [Load] validates automatically and fails with errors.ErrInvalidConfig.
// [Validate] can be called directly and returns every problem found.
package config
