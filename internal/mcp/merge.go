package mcp

import (
	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// Scope names which configuration level a view represents.
type Scope string

const (
	ScopeUser    Scope = "user"
	ScopeProject Scope = "project"
)

// Inheritance records where each effectively enabled server came from under
// project scope. The three lists partition the enabled names exactly.
type Inheritance struct {
	// Inherited servers are enabled at user level and untouched by the project.
	Inherited []string `json:"inherited"`

	// Overridden servers are enabled at both levels; the project's record wins.
	Overridden []string `json:"overridden"`

	// Additions are enabled only by the project.
	Additions []string `json:"additions"`
}

// Source returns "inherited", "overridden" or "addition" for name, or "" if
// name is not an enabled server.
func (in *Inheritance) Source(name string) string {
	if in == nil {
		return ""
	}
	for _, list := range []struct {
		names []string
		label string
	}{
		{in.Inherited, "inherited"},
		{in.Overridden, "overridden"},
		{in.Additions, "addition"},
	} {
		for _, n := range list.names {
			if n == name {
				return list.label
			}
		}
	}
	return ""
}

// ScopedConfig is a snapshot tagged with the scope it represents. Under
// project scope it is the effective view produced by [Merge].
type ScopedConfig struct {
	*Snapshot

	Scope       Scope
	ProjectPath string
	Inheritance *Inheritance
}

// UserScoped wraps a user-level snapshot.
func UserScoped(s *Snapshot) *ScopedConfig {
	return &ScopedConfig{Snapshot: s, Scope: ScopeUser}
}

// Merge combines a user-level snapshot with a project-level one into the
// effective configuration for projectPath.
//
// A project disable hides a user-enabled server. A server enabled at both
// levels uses the project's record. Disabled names that neither level
// defines get a placeholder record rather than an error.
func Merge(user, project *Snapshot, projectPath string) (*ScopedConfig, error) {
	if user == nil {
		user = NewSnapshot("", "")
	}

	if project == nil {
		eff := user.Clone()
		return &ScopedConfig{
			Snapshot:    eff,
			Scope:       ScopeProject,
			ProjectPath: projectPath,
			Inheritance: &Inheritance{
				Inherited:  eff.EnabledNames(),
				Overridden: []string{},
				Additions:  []string{},
			},
		}, nil
	}

	eff := NewSnapshot(user.Metadata.Tool, user.Metadata.Path)
	inh := &Inheritance{
		Inherited:  []string{},
		Overridden: []string{},
		Additions:  []string{},
	}

	for name, srv := range user.Enabled.All() {
		switch {
		case project.Disabled.Has(name):
			// hidden by the project
		case project.Enabled.Has(name):
			rec, _ := project.Enabled.Get(name)
			eff.Enabled.Set(name, rec.Clone())
			inh.Overridden = append(inh.Overridden, name)
		default:
			eff.Enabled.Set(name, srv.Clone())
			inh.Inherited = append(inh.Inherited, name)
		}
	}

	for name, srv := range project.Enabled.All() {
		if user.Enabled.Has(name) {
			continue
		}
		eff.Enabled.Set(name, srv.Clone())
		inh.Additions = append(inh.Additions, name)
	}

	disabled := append(user.Disabled.Names(), project.Disabled.Names()...)
	for _, name := range disabled {
		if eff.Enabled.Has(name) || eff.Disabled.Has(name) {
			continue
		}
		eff.Disabled.Set(name, resolveDisabled(user, project, name))
	}

	sc := &ScopedConfig{
		Snapshot:    eff,
		Scope:       ScopeProject,
		ProjectPath: projectPath,
		Inheritance: inh,
	}
	if err := sc.CheckPartition(); err != nil {
		return nil, err
	}
	return sc, nil
}

// resolveDisabled picks the best record for an effectively disabled name.
func resolveDisabled(user, project *Snapshot, name string) *Server {
	if srv, ok := project.Enabled.Get(name); ok {
		return srv.Clone()
	}
	if srv, ok := project.Disabled.Get(name); ok && !srv.IsPlaceholder() {
		return srv.Clone()
	}
	if srv, ok := user.Enabled.Get(name); ok {
		return srv.Clone()
	}
	if srv, ok := user.Disabled.Get(name); ok {
		return srv.Clone()
	}
	return Placeholder(name)
}

// CheckPartition verifies that the provenance lists partition the enabled
// names and that no name is both enabled and disabled.
func (sc *ScopedConfig) CheckPartition() error {
	for _, name := range sc.Disabled.Names() {
		if sc.Enabled.Has(name) {
			return errors.Markf(errors.ErrInvalidState, "server %q is both enabled and disabled", name)
		}
	}

	if sc.Scope != ScopeProject {
		return nil
	}
	if sc.Inheritance == nil {
		return errors.Markf(errors.ErrInvalidState, "project view of %s has no inheritance data", sc.ProjectPath)
	}

	seen := make(map[string]bool, sc.Enabled.Len())
	for _, list := range [][]string{sc.Inheritance.Inherited, sc.Inheritance.Overridden, sc.Inheritance.Additions} {
		for _, name := range list {
			if seen[name] {
				return errors.Markf(errors.ErrInvalidState, "server %q has more than one source", name)
			}
			if !sc.Enabled.Has(name) {
				return errors.Markf(errors.ErrInvalidState, "server %q has a source but is not enabled", name)
			}
			seen[name] = true
		}
	}
	if len(seen) != sc.Enabled.Len() {
		return errors.Markf(errors.ErrInvalidState, "%d enabled servers have no source", sc.Enabled.Len()-len(seen))
	}
	return nil
}

// DisableInProject hides name for the project. name must be effectively
// enabled in merged. A project-defined record moves to the project's
// disabled set; otherwise the user's record is recorded there so the
// project file stays self-describing. project may be nil; the returned
// snapshot is the one to save.
func DisableInProject(merged *ScopedConfig, project *Snapshot, name string) (*Snapshot, error) {
	if !merged.IsEnabled(name) {
		return nil, errors.Markf(errors.ErrInvalidOperation, "server %q is not enabled or does not exist", name)
	}
	if project == nil {
		project = NewSnapshot(merged.Metadata.Tool, merged.Metadata.Path)
	}

	if project.Enabled.Has(name) {
		if err := project.Disable(name); err != nil {
			return nil, err
		}
		return project, nil
	}

	rec, _ := merged.Enabled.Get(name)
	if rec == nil {
		rec = Placeholder(name)
	}
	project.Disabled.Set(name, rec.Clone())
	return project, nil
}

// EnableInProject re-enables name for the project. name must be effectively
// disabled in merged. The project's disable is lifted; if the user level
// does not enable the server, the best known record is added to the
// project's enabled set. A disabled project record that differs from the
// user's goes back to the project's enabled set as an override. A name with no definition at either level cannot
// be enabled.
func EnableInProject(merged *ScopedConfig, user, project *Snapshot, name string) (*Snapshot, error) {
	rec, ok := merged.Disabled.Get(name)
	if !ok {
		return nil, errors.Markf(errors.ErrInvalidOperation, "server %q is not disabled or does not exist", name)
	}

	userEnabled := user != nil && user.Enabled.Has(name)
	if !userEnabled && rec.IsPlaceholder() {
		return nil, errors.WithHint(
			errors.Markf(errors.ErrInvalidOperation, "server %q has no definition at user or project level", name),
			"Define the server in the user or project configuration first.",
		)
	}

	if project == nil {
		project = NewSnapshot(merged.Metadata.Tool, merged.Metadata.Path)
	}
	own, hadOwn := project.Disabled.Delete(name)

	switch {
	case !userEnabled:
		project.Enabled.Set(name, rec.Clone())
	case hadOwn && !own.IsPlaceholder():
		// a project record that differs from the user's was an override
		// before it was disabled; put it back
		if u, _ := user.Enabled.Get(name); !own.Equal(u) {
			project.Enabled.Set(name, own)
		}
	}
	return project, nil
}
