// Package opencode implements the OpenCode adapter.
//
// OpenCode keeps MCP servers under the "mcp" key of
// ~/.config/opencode/opencode.json and marks a disabled server inline with
// "enabled": false. Its record shape differs from the other tools:
//
//	"mcp": {
//	  "github": {
//	    "type": "local",
//	    "command": ["npx", "-y", "@modelcontextprotocol/server-github"],
//	    "environment": {"GITHUB_TOKEN": "..."}
//	  }
//	}
//
// Records are translated to and from [mcp.Server] on load and save. The
// position of existing servers in the file is kept.
package opencode
