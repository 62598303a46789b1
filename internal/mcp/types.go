package mcp

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"

	"github.com/thoreinstein/mcptoggle/pkg/fileutil"
)

// Transport type constants for MCP server communication, as written in the
// "type" field of a server record.
const (
	// TransportStdio indicates local process communication via stdin/stdout.
	// This is the default transport when a Command is specified.
	TransportStdio = "stdio"

	// TransportSSE indicates remote server communication via Server-Sent Events.
	TransportSSE = "sse"

	// TransportHTTP indicates remote server communication via streamable HTTP.
	TransportHTTP = "http"
)

// Server is one MCP server launch descriptor.
//
// Records are moved between the enabled and disabled sets of a [Snapshot]
// but never deep-mutated. Fields this type does not model are kept verbatim
// and written back on save.
type Server struct {
	// Name is the server's key in the enclosing set. It is never serialized
	// inside the record.
	Name string `json:"-"`

	// Command is the executable for local (stdio) servers.
	Command string `json:"command"`

	// Args are command-line arguments passed to Command.
	Args []string `json:"args,omitempty"`

	// Env contains environment variables passed to the server process.
	Env map[string]string `json:"env,omitempty"`

	// Type is the transport ("stdio", "sse", "http"). Often omitted for
	// stdio servers.
	Type string `json:"type,omitempty"`

	// URL is the endpoint of a remote server.
	URL string `json:"url,omitempty"`

	// Headers are HTTP headers for remote transports.
	Headers map[string]string `json:"headers,omitempty"`

	// unknownFields stores JSON fields not explicitly defined in this struct.
	unknownFields map[string]json.RawMessage
}

// Placeholder returns the record used for a server that is disabled by name
// only, with no definition at any level.
func Placeholder(name string) *Server {
	return &Server{Name: name}
}

// IsPlaceholder reports whether s carries no definition at all: an empty
// command and no other field.
func (s *Server) IsPlaceholder() bool {
	return s.Command == "" &&
		len(s.Args) == 0 &&
		len(s.Env) == 0 &&
		s.Type == "" &&
		s.URL == "" &&
		len(s.Headers) == 0 &&
		len(s.unknownFields) == 0
}

// IsLocal returns true if this server uses local (stdio) transport.
func (s *Server) IsLocal() bool {
	if s.Type == TransportStdio {
		return true
	}
	return s.Type == "" && s.Command != ""
}

// IsRemote returns true if this server uses a remote transport.
func (s *Server) IsRemote() bool {
	if s.Type == TransportSSE || s.Type == TransportHTTP {
		return true
	}
	return s.Type == "" && s.URL != "" && s.Command == ""
}

// Extra returns the raw value of a field this type does not model.
func (s *Server) Extra(key string) (json.RawMessage, bool) {
	v, ok := s.unknownFields[key]
	return v, ok
}

// ExtraKeys returns the names of unmodeled fields, sorted.
func (s *Server) ExtraKeys() []string {
	return slices.Sorted(maps.Keys(s.unknownFields))
}

// Clone returns a deep copy of s.
func (s *Server) Clone() *Server {
	if s == nil {
		return nil
	}
	c := *s
	c.Args = slices.Clone(s.Args)
	c.Env = maps.Clone(s.Env)
	c.Headers = maps.Clone(s.Headers)
	if s.unknownFields != nil {
		c.unknownFields = make(map[string]json.RawMessage, len(s.unknownFields))
		for k, v := range s.unknownFields {
			c.unknownFields[k] = slices.Clone(v)
		}
	}
	return &c
}

// Equal reports whether s and o encode to the same record. Names are not
// compared.
func (s *Server) Equal(o *Server) bool {
	if s == nil || o == nil {
		return s == o
	}
	a, errA := s.MarshalJSON()
	b, errB := o.MarshalJSON()
	return errA == nil && errB == nil && bytes.Equal(a, b)
}

// MarshalJSON implements json.Marshaler to include unknown fields in output.
// A placeholder encodes as {"command": ""}.
func (s *Server) MarshalJSON() ([]byte, error) {
	result := make(map[string]any, len(s.unknownFields)+6)

	// Unknown fields first so known fields take precedence
	for k, v := range s.unknownFields {
		result[k] = v
	}

	if s.Command != "" || s.URL == "" {
		result["command"] = s.Command
	}
	if len(s.Args) > 0 {
		result["args"] = s.Args
	}
	if len(s.Env) > 0 {
		result["env"] = s.Env
	}
	if s.Type != "" {
		result["type"] = s.Type
	}
	if s.URL != "" {
		result["url"] = s.URL
	}
	if len(s.Headers) > 0 {
		result["headers"] = s.Headers
	}

	return fileutil.CompactJSON(result)
}

// UnmarshalJSON implements json.Unmarshaler to capture unknown fields.
func (s *Server) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	known := []struct {
		key string
		dst any
	}{
		{"command", &s.Command},
		{"args", &s.Args},
		{"env", &s.Env},
		{"type", &s.Type},
		{"url", &s.URL},
		{"headers", &s.Headers},
	}
	for _, f := range known {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return err
		}
		delete(raw, f.key)
	}

	if len(raw) > 0 {
		s.unknownFields = raw
	}

	return nil
}
