// Package jsonfile implements the adapter for tools whose MCP servers live
// under an "mcpServers" object in a single JSON file: Claude Desktop, Cursor,
// Windsurf and Gemini CLI.
//
// Disabled servers are parked in the same file under a synthetic
// "_disabledMcpServers" key that the tools themselves ignore. The key is
// removed when nothing is disabled.
package jsonfile
