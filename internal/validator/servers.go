package validator

import (
	"maps"
	"net/url"
	"slices"
	"strings"

	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/redact"
)

// ValidateServer checks one record and appends its issues to r. enabled
// selects the stricter rules for servers the assistant will start.
func ValidateServer(r *Result, name string, srv *mcp.Server, enabled bool) {
	add := func(sev Severity, field, msg string, value any) {
		r.add(name, sev, field, msg, value)
	}

	if strings.TrimSpace(name) != name {
		add(SeverityWarning, "name", "has leading or trailing whitespace", name)
	}

	if srv.IsPlaceholder() {
		add(SeverityWarning, "", "has no definition at any level", nil)
		return
	}

	// problems that stop an enabled server from starting are errors;
	// on a disabled server they only matter once it is enabled again
	blocking := SeverityWarning
	if enabled {
		blocking = SeverityError
	}

	switch srv.Type {
	case "", mcp.TransportStdio, mcp.TransportSSE, mcp.TransportHTTP:
	default:
		add(SeverityWarning, "type", "is not a known transport", srv.Type)
	}

	switch {
	case srv.IsRemote():
		if srv.URL == "" {
			add(blocking, "url", "is required for remote transports", nil)
		} else if u, err := url.Parse(srv.URL); err != nil || u.Scheme == "" || u.Host == "" {
			add(blocking, "url", "is not an absolute URL", redact.URL(srv.URL))
		}
	case srv.Command == "":
		add(blocking, "command", "is required for local servers", nil)
	}

	if srv.Command != "" && srv.URL != "" {
		add(SeverityWarning, "", "sets both command and url", nil)
	}

	for _, key := range slices.Sorted(maps.Keys(srv.Env)) {
		value := srv.Env[key]
		if value == "" {
			add(SeverityInfo, "env."+key, "is empty", nil)
			continue
		}
		if redact.ContainsTokenPrefix(value) {
			add(SeverityInfo, "env."+key, "holds a literal token; consider a secret manager", redact.Value(value))
		}
	}
}

// ValidateSnapshot checks every server in snap.
func ValidateSnapshot(snap *mcp.Snapshot) *Result {
	r := &Result{}
	for name, srv := range snap.Enabled.All() {
		ValidateServer(r, name, srv, true)
	}
	for name, srv := range snap.Disabled.All() {
		ValidateServer(r, name, srv, false)
	}
	return r
}
