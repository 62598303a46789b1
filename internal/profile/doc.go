// Package profile stores named enabled/disabled splits of a tool's MCP
// servers so they can be re-applied later.
//
// Each profile is one JSON file, <dir>/<name>.json:
//
//	{
//	  "name": "work",
//	  "tool": "claude",
//	  "enabled": {"github": {"command": "npx", ...}},
//	  "disabled": {"sentry": {...}},
//	  "created": "2026-01-23T10:07:12Z"
//	}
//
// Files written by older releases use mcpServers, disabledMcpServers and
// createdAt instead; [Store.Load] reads both shapes.
package profile
