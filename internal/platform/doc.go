// Package platform defines the adapter contract mcptoggle uses to read and
// write each assistant's MCP configuration.
//
// An [Adapter] loads a tool's user-level configuration into an
// [mcp.Snapshot] and saves it back, always taking a backup first. Tools with
// per-project configuration (currently Claude Code) also implement
// [ProjectAdapter]. Concrete adapters live in subpackages:
//
//   - jsonfile: tools whose file holds an "mcpServers" object (Claude
//     Desktop, Cursor, Windsurf, Gemini CLI)
//   - claude: ~/.claude.json plus the separate disabled-servers file and
//     per-project sections
//   - opencode: the "mcp" object with inline "enabled" flags
//   - codex: the TOML "mcp_servers" table
//
// # Registry and Detection
//
// A [Registry] holds the adapters built for one invocation and returns them
// in a fixed order. [DetectAll] reports, per tool, whether its config file
// exists and carries a server list:
//
//	for _, r := range platform.DetectAll(reg) {
//	    fmt.Printf("%s: %s\n", r.Name, r.Status)
//	}
//
// # Thread Safety
//
// The registry is safe for concurrent use. Adapters are not; a command
// uses each from a single goroutine.
package platform
