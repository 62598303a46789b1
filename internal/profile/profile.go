package profile

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
)

// Profile is a saved enabled/disabled split.
type Profile struct {
	Name     string        `json:"name"`
	Tool     string        `json:"tool"`
	Enabled  mcp.ServerSet `json:"enabled"`
	Disabled mcp.ServerSet `json:"disabled"`
	Created  time.Time     `json:"created"`
}

// Summary is the listing view of a profile.
type Summary struct {
	Name          string    `json:"name"`
	Tool          string    `json:"tool"`
	EnabledCount  int       `json:"enabled_count"`
	DisabledCount int       `json:"disabled_count"`
	Created       time.Time `json:"created"`
}

// ToolMismatch reports whether the profile was saved from a tool other than
// tool. Profiles without a recorded tool never mismatch.
func (p *Profile) ToolMismatch(tool string) bool {
	return p.Tool != "" && p.Tool != tool
}

// Snapshot returns a copy of the profile's split for applying to a live
// configuration.
func (p *Profile) Snapshot() *mcp.Snapshot {
	snap := mcp.NewSnapshot(p.Tool, "")
	snap.Enabled = p.Enabled.Clone()
	snap.Disabled = p.Disabled.Clone()
	return snap
}

// Summary returns the listing view of p.
func (p *Profile) Summary() Summary {
	return Summary{
		Name:          p.Name,
		Tool:          p.Tool,
		EnabledCount:  p.Enabled.Len(),
		DisabledCount: p.Disabled.Len(),
		Created:       p.Created,
	}
}

// record accepts both the current and the legacy field names.
type record struct {
	Name     string          `json:"name"`
	Tool     string          `json:"tool"`
	Enabled  json.RawMessage `json:"enabled"`
	Disabled json.RawMessage `json:"disabled"`
	Created  string          `json:"created"`

	LegacyEnabled  json.RawMessage `json:"mcpServers"`
	LegacyDisabled json.RawMessage `json:"disabledMcpServers"`
	LegacyCreated  string          `json:"createdAt"`
}

// decode parses data in either shape into a Profile.
func decode(data []byte) (*Profile, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}

	enabled, err := decodeSet(first(r.Enabled, r.LegacyEnabled))
	if err != nil {
		return nil, errors.Wrap(err, "decoding enabled servers")
	}
	disabled, err := decodeSet(first(r.Disabled, r.LegacyDisabled))
	if err != nil {
		return nil, errors.Wrap(err, "decoding disabled servers")
	}
	for _, name := range disabled.Names() {
		if enabled.Has(name) {
			disabled.Delete(name)
		}
	}

	p := &Profile{
		Name:     r.Name,
		Tool:     r.Tool,
		Enabled:  enabled,
		Disabled: disabled,
	}
	created := r.Created
	if created == "" {
		created = r.LegacyCreated
	}
	if created != "" {
		// unparseable timestamps leave Created zero
		p.Created, _ = time.Parse(time.RFC3339, created)
	}
	return p, nil
}

func first(a, b json.RawMessage) json.RawMessage {
	if len(a) > 0 {
		return a
	}
	return b
}

// decodeSet reads a server object. A plain list of names, as some legacy
// files store disabled servers, becomes placeholder records.
func decodeSet(raw json.RawMessage) (mcp.ServerSet, error) {
	set := mcp.NewServerSet()
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return set, nil
	}
	if trimmed[0] == '[' {
		var names []string
		if err := json.Unmarshal(trimmed, &names); err != nil {
			return set, err
		}
		for _, name := range names {
			set.Set(name, mcp.Placeholder(name))
		}
		return set, nil
	}
	if err := json.Unmarshal(trimmed, &set); err != nil {
		return set, err
	}
	return set, nil
}
