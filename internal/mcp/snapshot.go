package mcp

import (
	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// Metadata describes where a snapshot came from.
type Metadata struct {
	// Tool is the adapter id that produced the snapshot.
	Tool string `json:"tool,omitempty"`

	// Path is the file the snapshot was loaded from.
	Path string `json:"path,omitempty"`
}

// Snapshot is the enabled/disabled split of one tool's servers at one scope.
// A name is in at most one of the two sets.
type Snapshot struct {
	Enabled  ServerSet
	Disabled ServerSet
	Metadata Metadata
}

// NewSnapshot returns an empty snapshot for tool.
func NewSnapshot(tool, path string) *Snapshot {
	return &Snapshot{
		Enabled:  NewServerSet(),
		Disabled: NewServerSet(),
		Metadata: Metadata{Tool: tool, Path: path},
	}
}

// Clone returns a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	return &Snapshot{
		Enabled:  s.Enabled.Clone(),
		Disabled: s.Disabled.Clone(),
		Metadata: s.Metadata,
	}
}

// Enable moves name from the disabled set to the enabled set.
func (s *Snapshot) Enable(name string) error {
	srv, ok := s.Disabled.Delete(name)
	if !ok {
		return errors.Markf(errors.ErrInvalidOperation, "server %q is not disabled or does not exist", name)
	}
	s.Enabled.Set(name, srv)
	return nil
}

// Disable moves name from the enabled set to the disabled set.
func (s *Snapshot) Disable(name string) error {
	srv, ok := s.Enabled.Delete(name)
	if !ok {
		return errors.Markf(errors.ErrInvalidOperation, "server %q is not enabled or does not exist", name)
	}
	s.Disabled.Set(name, srv)
	return nil
}

// Toggle enables a disabled server or disables an enabled one. It reports
// whether name ended up enabled.
func (s *Snapshot) Toggle(name string) (bool, error) {
	switch {
	case s.Enabled.Has(name):
		return false, s.Disable(name)
	case s.Disabled.Has(name):
		return true, s.Enable(name)
	default:
		return false, errors.Markf(errors.ErrInvalidOperation, "server %q does not exist", name)
	}
}

// EnabledNames returns the enabled names in insertion order.
func (s *Snapshot) EnabledNames() []string {
	return s.Enabled.Names()
}

// DisabledNames returns the disabled names in insertion order.
func (s *Snapshot) DisabledNames() []string {
	return s.Disabled.Names()
}

// AllNames returns the enabled names followed by the disabled names.
func (s *Snapshot) AllNames() []string {
	return append(s.Enabled.Names(), s.Disabled.Names()...)
}

// Exists reports whether name is in either set.
func (s *Snapshot) Exists(name string) bool {
	return s.Enabled.Has(name) || s.Disabled.Has(name)
}

// IsEnabled reports whether name is in the enabled set.
func (s *Snapshot) IsEnabled(name string) bool {
	return s.Enabled.Has(name)
}

// Lookup returns the record for name from whichever set holds it.
func (s *Snapshot) Lookup(name string) (*Server, bool) {
	if srv, ok := s.Enabled.Get(name); ok {
		return srv, true
	}
	return s.Disabled.Get(name)
}

// Apply replaces the contents of s with the enabled/disabled split of src,
// keeping s's metadata. A placeholder in src takes the record s already
// holds for that name. Placeholders s has no record for are left out and
// their names returned.
func (s *Snapshot) Apply(src *Snapshot) (skipped []string) {
	enabled, disabled := NewServerSet(), NewServerSet()
	fill := func(into *ServerSet, from *ServerSet) {
		for name, rec := range from.All() {
			if rec.IsPlaceholder() {
				live, ok := s.Lookup(name)
				if !ok || live.IsPlaceholder() {
					skipped = append(skipped, name)
					continue
				}
				rec = live
			}
			into.Set(name, rec.Clone())
		}
	}
	fill(&enabled, &src.Enabled)
	fill(&disabled, &src.Disabled)

	s.Enabled, s.Disabled = enabled, disabled
	return skipped
}
