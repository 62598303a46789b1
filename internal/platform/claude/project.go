package claude

import (
	"encoding/json"
	"path/filepath"
	"slices"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/paths"
	"github.com/thoreinstein/mcptoggle/internal/platform"
)

// projectKey returns the key Claude Code uses for a project directory.
func projectKey(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", errors.Wrapf(err, "resolving project path %q", path)
	}
	return abs, nil
}

// projects decodes the "projects" object of ~/.claude.json in file order. A
// missing key is an empty document.
func projects(doc *platform.Document) (*platform.Document, error) {
	all := &platform.Document{}
	if _, err := doc.Decode(ProjectsKey, all); err != nil {
		return nil, err
	}
	return all, nil
}

// projectEntry returns the decoded entry for key, or nil if there is none.
func projectEntry(all *platform.Document, key string) (*platform.Document, error) {
	raw, ok := all.Raw(key)
	if !ok {
		return nil, nil
	}

	entry := &platform.Document{}
	if err := json.Unmarshal(raw, entry); err != nil {
		return nil, errors.WrapMark(err, errors.ErrParse, "decoding project "+key)
	}
	return entry, nil
}

// ProjectPaths lists the project directories recorded in ~/.claude.json,
// sorted.
func (a *Adapter) ProjectPaths() ([]string, error) {
	doc, err := platform.ReadDocument(a.path)
	if err != nil {
		return nil, err
	}
	all, err := projects(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", a.path)
	}
	keys := all.Keys()
	slices.Sort(keys)
	return keys, nil
}

// LoadProjectConfig returns the project-level snapshot for path, or nil if
// ~/.claude.json has no entry for it.
//
// Names in disabledMcpServers come first, in list order, with their record
// from _disabledMcpServers or mcpServers, else a placeholder. Records in
// _disabledMcpServers that are not listed follow. A listed name is never
// also enabled.
func (a *Adapter) LoadProjectConfig(path string) (*mcp.Snapshot, error) {
	key, err := projectKey(path)
	if err != nil {
		return nil, err
	}

	doc, err := platform.ReadDocument(a.path)
	if err != nil {
		return nil, err
	}
	all, err := projects(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", a.path)
	}
	entry, err := projectEntry(all, key)
	if err != nil {
		return nil, errors.Wrapf(err, "loading %s", a.path)
	}
	if entry == nil {
		return nil, nil
	}

	enabled, err := entry.Servers(ServersKey)
	if err != nil {
		return nil, errors.Wrapf(err, "loading project %s from %s", key, a.path)
	}
	records, err := entry.Servers(ProjectRecordsKey)
	if err != nil {
		return nil, errors.Wrapf(err, "loading project %s from %s", key, a.path)
	}
	var names []string
	if _, err := entry.Decode(ProjectDisabledKey, &names); err != nil {
		return nil, errors.Wrapf(err, "loading project %s from %s", key, a.path)
	}

	snap := mcp.NewSnapshot(paths.ToolClaude, a.path)
	snap.Enabled = enabled
	for _, name := range names {
		if snap.Disabled.Has(name) {
			continue
		}
		rec, ok := records.Get(name)
		if !ok {
			rec, ok = snap.Enabled.Get(name)
		}
		if !ok {
			rec = mcp.Placeholder(name)
		}
		snap.Enabled.Delete(name)
		snap.Disabled.Set(name, rec)
	}
	for name, rec := range records.All() {
		if snap.Disabled.Has(name) {
			continue
		}
		if snap.Enabled.Has(name) {
			a.logger.Warn("project server is both enabled and disabled; keeping it enabled", "project", key, "server", name)
			continue
		}
		snap.Disabled.Set(name, rec)
	}

	a.logger.Debug("project config loaded", "project", key,
		"enabled", snap.Enabled.Len(), "disabled", snap.Disabled.Len())
	return snap, nil
}

// SaveProjectConfig writes snap as the project entry for path, creating the
// entry if needed. Placeholders are written as bare names in
// disabledMcpServers; other disabled records are kept in
// _disabledMcpServers.
func (a *Adapter) SaveProjectConfig(path string, snap *mcp.Snapshot) error {
	key, err := projectKey(path)
	if err != nil {
		return err
	}

	doc, err := a.readForUpdate()
	if err != nil {
		return err
	}
	all, err := projects(doc)
	if err != nil {
		return errors.Wrapf(err, "loading %s", a.path)
	}
	entry, err := projectEntry(all, key)
	if err != nil {
		return errors.Wrapf(err, "loading %s", a.path)
	}
	if entry == nil {
		entry = &platform.Document{}
	}

	records := mcp.NewServerSet()
	for name, rec := range snap.Disabled.All() {
		if !rec.IsPlaceholder() {
			records.Set(name, rec.Clone())
		}
	}

	names := snap.DisabledNames()
	if names == nil {
		names = []string{}
	}

	if err := entry.SetServers(ServersKey, snap.Enabled, false); err != nil {
		return err
	}
	if err := entry.Set(ProjectDisabledKey, names); err != nil {
		return err
	}
	if err := entry.SetServers(ProjectRecordsKey, records, true); err != nil {
		return err
	}

	if err := all.Set(key, entry); err != nil {
		return err
	}
	if err := doc.Set(ProjectsKey, all); err != nil {
		return err
	}
	data, err := doc.Encode()
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}

	return a.saver.Save([]string{a.path}, func() error {
		return a.writeMain(data)
	})
}

// MergedConfig returns the effective configuration for the project at path.
func (a *Adapter) MergedConfig(path string) (*mcp.ScopedConfig, error) {
	key, err := projectKey(path)
	if err != nil {
		return nil, err
	}

	user, err := a.LoadConfig()
	if err != nil {
		return nil, err
	}
	project, err := a.LoadProjectConfig(key)
	if err != nil {
		return nil, err
	}

	return mcp.Merge(user, project, key)
}
