package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// AppName is the directory name used under the config home.
const AppName = "mcptoggle"

// Tool identifiers for supported AI coding assistants.
const (
	ToolClaude        = "claude"
	ToolClaudeDesktop = "claude-desktop"
	ToolCursor        = "cursor"
	ToolWindsurf      = "windsurf"
	ToolGemini        = "gemini"
	ToolOpenCode      = "opencode"
	ToolCodex         = "codex"
)

// toolConfigFiles maps tool names to their MCP config file, relative to the
// home directory. claude-desktop is resolved against the config home instead.
var toolConfigFiles = map[string]string{
	ToolClaude:        ".claude.json",
	ToolClaudeDesktop: filepath.Join("Claude", "claude_desktop_config.json"),
	ToolCursor:        filepath.Join(".cursor", "mcp.json"),
	ToolWindsurf:      filepath.Join(".codeium", "windsurf", "mcp_config.json"),
	ToolGemini:        filepath.Join(".gemini", "settings.json"),
	ToolOpenCode:      filepath.Join(".config", "opencode", "opencode.json"),
	ToolCodex:         filepath.Join(".codex", "config.toml"),
}

// toolDisplayNames maps tool names to human-readable names.
var toolDisplayNames = map[string]string{
	ToolClaude:        "Claude Code",
	ToolClaudeDesktop: "Claude Desktop",
	ToolCursor:        "Cursor",
	ToolWindsurf:      "Windsurf",
	ToolGemini:        "Gemini CLI",
	ToolOpenCode:      "OpenCode",
	ToolCodex:         "Codex CLI",
}

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Env captures the locations every path is derived from. It is resolved once
// at startup and handed to constructors; nothing below the command layer
// reads the process environment.
type Env struct {
	// Home is the user's home directory.
	Home string

	// ConfigHome is the XDG config home (~/.config on Linux,
	// ~/Library/Application Support on macOS).
	ConfigHome string
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// DefaultEnv resolves the Env for the current user.
func DefaultEnv() (Env, error) {
	home, err := ResolveHome()
	if err != nil {
		return Env{}, err
	}
	return Env{
		Home:       home,
		ConfigHome: xdg.ConfigHome,
	}, nil
}

// EnvAt returns an Env rooted at dir, with the config home at dir/.config.
// Tests use it to sandbox every derived path.
func EnvAt(dir string) Env {
	return Env{
		Home:       dir,
		ConfigHome: filepath.Join(dir, ".config"),
	}
}

// AppDir returns <ConfigHome>/mcptoggle.
func (e Env) AppDir() string {
	return filepath.Join(e.ConfigHome, AppName)
}

// ProfilesDir returns the default profile store directory.
func (e Env) ProfilesDir() string {
	return filepath.Join(e.AppDir(), "profiles")
}

// BackupDir returns the default root backup directory.
func (e Env) BackupDir() string {
	return filepath.Join(e.AppDir(), "backups")
}

// ConfigPath returns the default MCP config file for a tool.
//
//   - claude: ~/.claude.json
//   - claude-desktop: <ConfigHome>/Claude/claude_desktop_config.json
//   - cursor: ~/.cursor/mcp.json
//   - windsurf: ~/.codeium/windsurf/mcp_config.json
//   - gemini: ~/.gemini/settings.json
//   - opencode: ~/.config/opencode/opencode.json
//   - codex: ~/.codex/config.toml
//
// Returns an empty string for unknown tools.
func (e Env) ConfigPath(tool string) string {
	rel, ok := toolConfigFiles[tool]
	if !ok {
		return ""
	}
	if tool == ToolClaudeDesktop {
		return filepath.Join(e.ConfigHome, rel)
	}
	return filepath.Join(e.Home, rel)
}

// DisabledPath returns the separate disabled-servers file for tools that keep
// one (only claude: ~/.claude/disabled-mcp.json). Empty for every other tool.
func (e Env) DisabledPath(tool string) string {
	if tool != ToolClaude {
		return ""
	}
	return filepath.Join(e.Home, ".claude", "disabled-mcp.json")
}

// ValidTool returns true if the tool name is recognized.
func ValidTool(tool string) bool {
	_, ok := toolConfigFiles[tool]
	return ok
}

// Tools returns all supported tool identifiers in display order.
func Tools() []string {
	return []string{
		ToolClaude,
		ToolClaudeDesktop,
		ToolCursor,
		ToolWindsurf,
		ToolGemini,
		ToolOpenCode,
		ToolCodex,
	}
}

// DisplayName returns the human-readable name for a tool, or the id itself
// when unknown.
func DisplayName(tool string) string {
	if name, ok := toolDisplayNames[tool]; ok {
		return name
	}
	return tool
}
