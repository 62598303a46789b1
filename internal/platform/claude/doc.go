// Package claude implements the Claude Code adapter.
//
// Claude Code keeps user-level MCP servers under "mcpServers" in
// ~/.claude.json. Disabled servers are stored in a separate file,
// ~/.claude/disabled-mcp.json, holding a plain name → record object; the
// file is deleted whenever nothing is disabled.
//
// Per-project settings live in the same ~/.claude.json under
// "projects"[<absolute path>]:
//
//	{
//	  "projects": {
//	    "/home/me/src/app": {
//	      "mcpServers": {"db": {"command": "pg-mcp"}},
//	      "disabledMcpServers": ["github"],
//	      "_disabledMcpServers": {"github": {"command": "npx", "args": ["gh-mcp"]}}
//	    }
//	  }
//	}
//
// "disabledMcpServers" is the list Claude Code itself honors.
// "_disabledMcpServers" keeps the records of disabled servers so they can be
// enabled again; a listed name without a record loads as a placeholder.
// Every other key of a project entry is preserved.
package claude
