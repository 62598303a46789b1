package opencode

import (
	"encoding/json"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/pkg/fileutil"
)

// Type values in an OpenCode server record.
const (
	// TypeLocal indicates a local process server (maps to "stdio").
	TypeLocal = "local"

	// TypeRemote indicates a remote HTTP/SSE server (maps to "sse").
	TypeRemote = "remote"
)

// enabledKey is OpenCode's per-record switch. Only false is ever written.
const enabledKey = "enabled"

// toServer converts an OpenCode record into a server and reports whether
// the record is enabled.
//
// Field mappings:
//   - command ([]string) → Command (string) + Args ([]string)
//   - environment → env
//   - type "local" → "stdio", "remote" → "sse"
//   - enabled is consumed; a missing value means enabled
//
// Every other field is kept on the server as an extra field.
func toServer(name string, raw json.RawMessage) (*mcp.Server, bool, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false, errors.Wrapf(err, "server %q", name)
	}

	enabled := true
	canonical := make(map[string]json.RawMessage, len(fields)+1)
	for key, value := range fields {
		var err error
		switch key {
		case enabledKey:
			err = json.Unmarshal(value, &enabled)
		case "command":
			var argv []string
			if err = json.Unmarshal(value, &argv); err == nil && len(argv) > 0 {
				if canonical["command"], err = fileutil.CompactJSON(argv[0]); err == nil && len(argv) > 1 {
					canonical["args"], err = fileutil.CompactJSON(argv[1:])
				}
			}
		case "environment":
			canonical["env"] = value
		case "type":
			var typ string
			if err = json.Unmarshal(value, &typ); err == nil {
				canonical["type"], err = fileutil.CompactJSON(canonicalType(typ))
			}
		default:
			canonical[key] = value
		}
		if err != nil {
			return nil, false, errors.Wrapf(err, "server %q: field %q", name, key)
		}
	}

	data, err := fileutil.CompactJSON(canonical)
	if err != nil {
		return nil, false, errors.Wrapf(err, "server %q", name)
	}
	srv := &mcp.Server{}
	if err := json.Unmarshal(data, srv); err != nil {
		return nil, false, errors.Wrapf(err, "server %q", name)
	}
	return srv, enabled, nil
}

// fromServer converts a server back into an OpenCode record. A disabled
// record gets "enabled": false. The type is inferred when the server has
// none.
func fromServer(srv *mcp.Server, enabled bool) (json.RawMessage, error) {
	data, err := fileutil.CompactJSON(srv)
	if err != nil {
		return nil, errors.Wrapf(err, "server %q", srv.Name)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, errors.Wrapf(err, "server %q", srv.Name)
	}

	out := make(map[string]json.RawMessage, len(fields)+1)
	for key, value := range fields {
		switch key {
		case "command", "args", "type":
			// rebuilt below
		case "env":
			out["environment"] = value
		default:
			out[key] = value
		}
	}

	if srv.Command != "" {
		argv := append([]string{srv.Command}, srv.Args...)
		if out["command"], err = fileutil.CompactJSON(argv); err != nil {
			return nil, err
		}
	}
	if typ := opencodeType(srv); typ != "" {
		if out["type"], err = fileutil.CompactJSON(typ); err != nil {
			return nil, err
		}
	}
	if !enabled {
		out[enabledKey] = json.RawMessage("false")
	}

	return fileutil.CompactJSON(out)
}

func canonicalType(typ string) string {
	switch typ {
	case TypeLocal:
		return mcp.TransportStdio
	case TypeRemote:
		return mcp.TransportSSE
	default:
		return typ
	}
}

func opencodeType(srv *mcp.Server) string {
	switch srv.Type {
	case mcp.TransportStdio:
		return TypeLocal
	case mcp.TransportSSE, mcp.TransportHTTP:
		return TypeRemote
	case "":
		// Infer type from context
		if srv.Command != "" {
			return TypeLocal
		}
		if srv.URL != "" {
			return TypeRemote
		}
		return ""
	default:
		return srv.Type
	}
}
