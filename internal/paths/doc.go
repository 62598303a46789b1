// Package paths resolves the on-disk locations mcptoggle works with: each
// tool's MCP configuration file, the separate disabled-servers file for tools
// that keep one, and the tool's own profile and backup directories.
//
// # Explicit Environment
//
// Locations are derived from an [Env] value resolved once at startup with
// [DefaultEnv] (home directory plus github.com/adrg/xdg config home) and then
// passed down explicitly. Tests build one with [EnvAt]:
//
//	env := paths.EnvAt(t.TempDir())
//	env.ConfigPath(paths.ToolClaude) // <tmp>/.claude.json
//
// # Tool Configuration Files
//
//	| Tool           | Config file                                   |
//	|----------------|-----------------------------------------------|
//	| claude         | ~/.claude.json                                |
//	| claude-desktop | <ConfigHome>/Claude/claude_desktop_config.json|
//	| cursor         | ~/.cursor/mcp.json                            |
//	| windsurf       | ~/.codeium/windsurf/mcp_config.json           |
//	| gemini         | ~/.gemini/settings.json                       |
//	| opencode       | ~/.config/opencode/opencode.json              |
//	| codex          | ~/.codex/config.toml                          |
//
// Functions that accept a tool parameter return empty strings for unknown
// tools. Use [ValidTool] to check validity first.
package paths
