// Package tokens estimates how much of a model's context window the tool
// definitions of an MCP server occupy.
//
// The numbers are rough figures for well-known servers. They exist so that
// `mcptoggle status` can show which servers are worth disabling, not to be
// exact.
package tokens

import (
	"strings"

	"github.com/thoreinstein/mcptoggle/internal/mcp"
)

// Default is the estimate for a server not in the table.
const Default = 2000

// known maps a substring of a server's name, command or arguments to an
// estimate. Entries are checked in order, so longer and more specific keys
// come first.
var known = []struct {
	key    string
	tokens int
}{
	{"github", 18000},
	{"gitlab", 12000},
	{"atlassian", 15000},
	{"jira", 9000},
	{"notion", 9500},
	{"linear", 8000},
	{"slack", 7000},
	{"playwright", 14000},
	{"puppeteer", 5500},
	{"chrome-devtools", 12000},
	{"browser", 6000},
	{"sentry", 8500},
	{"supabase", 10000},
	{"postgres", 1500},
	{"sqlite", 2500},
	{"filesystem", 6000},
	{"context7", 2000},
	{"sequential-thinking", 1500},
	{"memory", 3000},
	{"fetch", 800},
	{"time", 600},
}

// Estimate returns the estimated token cost of srv registered under name.
// Matching is case-insensitive against the name first, then the command
// line.
func Estimate(name string, srv *mcp.Server) int {
	if n, ok := lookup(name); ok {
		return n
	}
	if srv != nil {
		line := srv.Command + " " + strings.Join(srv.Args, " ") + " " + srv.URL
		if n, ok := lookup(line); ok {
			return n
		}
	}
	return Default
}

func lookup(s string) (int, bool) {
	s = strings.ToLower(s)
	for _, k := range known {
		if strings.Contains(s, k.key) {
			return k.tokens, true
		}
	}
	return 0, false
}

// Total sums the estimates of every server in set.
func Total(set mcp.ServerSet) int {
	total := 0
	for name, srv := range set.All() {
		total += Estimate(name, srv)
	}
	return total
}
