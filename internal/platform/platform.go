package platform

import (
	"github.com/thoreinstein/mcptoggle/internal/mcp"
)

// Adapter isolates one assistant's configuration format behind a common
// contract. Each supported tool (claude, cursor, opencode, codex, ...)
// provides an implementation.
//
// Adapters receive every path they use at construction time and never read
// the environment themselves. Enable/disable/toggle are methods on
// [mcp.Snapshot]; an adapter only loads and saves snapshots.
type Adapter interface {
	// Name returns the tool identifier (claude, cursor, opencode, ...).
	// The name must match one of the constants in the paths package.
	Name() string

	// DisplayName returns the human-readable tool name.
	DisplayName() string

	// Detect reports whether the tool's config file exists and contains
	// its server-list key. It never fails; any error means false.
	Detect() bool

	// ConfigPath returns the main configuration file. No I/O.
	ConfigPath() string

	// BackupPaths returns the live files a backup covers.
	BackupPaths() []string

	// BackupDir returns the directory holding this tool's backups.
	BackupDir() string

	// LoadConfig reads the user-level snapshot. It fails with
	// errors.ErrNotFound when the file is absent and errors.ErrParse when
	// it cannot be decoded. Missing server lists load as empty sets.
	LoadConfig() (*mcp.Snapshot, error)

	// SaveConfig backs up the live file(s), merges the snapshot into the
	// on-disk document preserving unrelated fields, and writes atomically.
	// On failure the backup is restored and the error matches
	// errors.ErrSave.
	SaveConfig(snap *mcp.Snapshot) error

	// CreateBackup copies the live file(s) into a new backup and returns
	// its directory. Fails with errors.ErrNotFound if nothing exists.
	CreateBackup() (string, error)

	// SupportsProjectScope reports whether the tool has per-project
	// configuration. Adapters answering true implement [ProjectAdapter].
	SupportsProjectScope() bool
}

// ProjectAdapter is implemented by adapters whose tool keeps per-project
// server configuration.
type ProjectAdapter interface {
	Adapter

	// LoadProjectConfig returns the project-level snapshot for path, or
	// nil, nil when the project has no entry.
	LoadProjectConfig(path string) (*mcp.Snapshot, error)

	// SaveProjectConfig writes the project-level snapshot for path, with
	// the same backup and restore guarantees as SaveConfig.
	SaveProjectConfig(path string, snap *mcp.Snapshot) error

	// MergedConfig returns the effective configuration for path.
	MergedConfig(path string) (*mcp.ScopedConfig, error)

	// ProjectPaths lists the project directories recorded in the user
	// configuration.
	ProjectPaths() ([]string, error)
}

// AsProjectAdapter returns a as a ProjectAdapter when it supports project
// scope.
func AsProjectAdapter(a Adapter) (ProjectAdapter, bool) {
	if !a.SupportsProjectScope() {
		return nil, false
	}
	pa, ok := a.(ProjectAdapter)
	return pa, ok
}
