// Package codex implements the Codex CLI adapter.
//
// Codex keeps MCP servers as TOML tables in ~/.codex/config.toml:
//
//	[mcp_servers.github]
//	command = "npx"
//	args = ["-y", "@modelcontextprotocol/server-github"]
//	env = { GITHUB_TOKEN = "..." }
//
// Disabled servers are parked under a synthetic [_disabled_mcp_servers]
// table that Codex ignores. Other settings in the file are kept, although
// comments are not and keys are written back in sorted order.
package codex
