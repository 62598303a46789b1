package cli

import (
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/platform"
	"github.com/thoreinstein/mcptoggle/internal/scope"
)

// View is one tool's servers at a resolved scope. Mutations go through the
// view so that project scope edits the project entry and the effective
// configuration stays current.
type View struct {
	Adapter    platform.Adapter
	Resolution scope.Resolution

	// User is the user-level snapshot.
	User *mcp.Snapshot

	// Project is the project-level snapshot under project scope. It is nil
	// while the project has no entry.
	Project *mcp.Snapshot

	// Effective is what the assistant sees: User itself under user scope,
	// the merged configuration under project scope.
	Effective *mcp.ScopedConfig

	project platform.ProjectAdapter
	changed bool
}

// LoadView reads the configuration a for the resolved scope.
func LoadView(a platform.Adapter, res scope.Resolution) (*View, error) {
	user, err := a.LoadConfig()
	if err != nil {
		return nil, err
	}

	v := &View{Adapter: a, Resolution: res, User: user}
	if !res.IsProject() {
		v.Effective = mcp.UserScoped(user)
		return v, nil
	}

	pa, ok := platform.AsProjectAdapter(a)
	if !ok {
		return nil, errors.Markf(errors.ErrUnsupportedScope, "%s has no project-level configuration", a.DisplayName())
	}
	v.project = pa

	if v.Project, err = pa.LoadProjectConfig(res.ProjectPath); err != nil {
		return nil, err
	}
	if err := v.remerge(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *View) remerge() error {
	eff, err := mcp.Merge(v.User, v.Project, v.Resolution.ProjectPath)
	if err != nil {
		return err
	}
	v.Effective = eff
	return nil
}

// Changed reports whether any mutation succeeded since the view was loaded.
func (v *View) Changed() bool {
	return v.changed
}

// Enable enables name at the view's scope.
func (v *View) Enable(name string) error {
	if v.project == nil {
		if err := v.User.Enable(name); err != nil {
			return err
		}
		v.changed = true
		return nil
	}

	p, err := mcp.EnableInProject(v.Effective, v.User, v.Project, name)
	if err != nil {
		return err
	}
	v.Project = p
	v.changed = true
	return v.remerge()
}

// Disable disables name at the view's scope.
func (v *View) Disable(name string) error {
	if v.project == nil {
		if err := v.User.Disable(name); err != nil {
			return err
		}
		v.changed = true
		return nil
	}

	p, err := mcp.DisableInProject(v.Effective, v.Project, name)
	if err != nil {
		return err
	}
	v.Project = p
	v.changed = true
	return v.remerge()
}

// Toggle flips name and reports whether it ended up enabled.
func (v *View) Toggle(name string) (bool, error) {
	switch {
	case v.Effective.IsEnabled(name):
		return false, v.Disable(name)
	case v.Effective.Disabled.Has(name):
		return true, v.Enable(name)
	default:
		return false, errors.Markf(errors.ErrInvalidOperation, "server %q does not exist", name)
	}
}

// SetEnabled makes exactly the names in want effectively enabled and
// returns the names whose state changed. Names in want that the view does
// not know are reported as errors.ErrInvalidOperation before anything
// changes.
func (v *View) SetEnabled(want []string) ([]string, error) {
	wanted := make(map[string]bool, len(want))
	for _, name := range want {
		if !v.Effective.Exists(name) {
			return nil, errors.Markf(errors.ErrInvalidOperation, "server %q does not exist", name)
		}
		wanted[name] = true
	}

	var changed []string
	for _, name := range v.Effective.AllNames() {
		enabled := v.Effective.IsEnabled(name)
		switch {
		case wanted[name] && !enabled:
			if err := v.Enable(name); err != nil {
				return changed, err
			}
		case !wanted[name] && enabled:
			if err := v.Disable(name); err != nil {
				return changed, err
			}
		default:
			continue
		}
		changed = append(changed, name)
	}
	return changed, nil
}

// Save writes the edited level back: the project entry under project scope,
// the user configuration otherwise.
func (v *View) Save() error {
	if v.project != nil {
		if v.Project == nil {
			return nil
		}
		return v.project.SaveProjectConfig(v.Resolution.ProjectPath, v.Project)
	}
	return v.Adapter.SaveConfig(v.User)
}
