package mcp

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/pkg/fileutil"
)

// ServerSet maps server names to records and remembers insertion order.
// Decoding keeps the order the names appear in the file, and encoding
// writes them back in that order. The zero value is an empty set.
type ServerSet struct {
	names []string
	m     map[string]*Server
}

// NewServerSet returns an empty set.
func NewServerSet() ServerSet {
	return ServerSet{m: make(map[string]*Server)}
}

// Len returns the number of servers.
func (s *ServerSet) Len() int {
	return len(s.names)
}

// Has reports whether name is present.
func (s *ServerSet) Has(name string) bool {
	_, ok := s.m[name]
	return ok
}

// Get returns the record for name.
func (s *ServerSet) Get(name string) (*Server, bool) {
	srv, ok := s.m[name]
	return srv, ok
}

// Set stores srv under name. A new name is appended; an existing name keeps
// its position.
func (s *ServerSet) Set(name string, srv *Server) {
	if s.m == nil {
		s.m = make(map[string]*Server)
	}
	if _, ok := s.m[name]; !ok {
		s.names = append(s.names, name)
	}
	srv.Name = name
	s.m[name] = srv
}

// Delete removes name and returns its record.
func (s *ServerSet) Delete(name string) (*Server, bool) {
	srv, ok := s.m[name]
	if !ok {
		return nil, false
	}
	delete(s.m, name)
	s.names = slices.DeleteFunc(s.names, func(n string) bool { return n == name })
	return srv, true
}

// Names returns the names in insertion order. An empty set yields an
// empty, non-nil slice.
func (s *ServerSet) Names() []string {
	return append(make([]string, 0, len(s.names)), s.names...)
}

// All iterates the set in insertion order.
func (s *ServerSet) All() iter.Seq2[string, *Server] {
	return func(yield func(string, *Server) bool) {
		for _, name := range s.names {
			if !yield(name, s.m[name]) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the set.
func (s *ServerSet) Clone() ServerSet {
	c := NewServerSet()
	for name, srv := range s.All() {
		c.Set(name, srv.Clone())
	}
	return c
}

// MarshalJSON writes the set as a JSON object in insertion order.
func (s ServerSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range s.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := fileutil.CompactJSON(name)
		if err != nil {
			return nil, err
		}
		val, err := fileutil.CompactJSON(s.m[name])
		if err != nil {
			return nil, errors.Wrapf(err, "encoding server %q", name)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a JSON object of records, keeping key order. null
// decodes to an empty set. A duplicated key keeps its first position and
// its last value.
func (s *ServerSet) UnmarshalJSON(data []byte) error {
	*s = NewServerSet()

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return errors.Newf("server list must be a JSON object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return errors.Newf("unexpected token %v", tok)
		}
		srv := &Server{}
		if err := dec.Decode(srv); err != nil {
			return errors.Wrapf(err, "decoding server %q", name)
		}
		s.Set(name, srv)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
