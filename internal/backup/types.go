package backup

import (
	"io/fs"
	"time"

	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// Manifest format version for forward compatibility.
const ManifestVersion = 1

// DefaultKeep is the number of backups `backup prune` keeps when no count is
// given. Backups are never pruned implicitly.
const DefaultKeep = 10

// idLayout is the timestamp part of a backup ID. It sorts lexically and has
// millisecond resolution; same-millisecond backups get a "-N" suffix.
const idLayout = "20060102T150405.000"

// manifestName is the metadata file inside each backup directory.
const manifestName = "manifest.json"

// Sentinel errors for backup operations.
var (
	// ErrNoBackupsFound indicates no backups exist for the specified tool.
	// It also matches errors.ErrNotFound.
	ErrNoBackupsFound = errors.Mark(errors.New("no backups found"), errors.ErrNotFound)

	// ErrNothingToBackUp indicates none of the requested files exist.
	// It also matches errors.ErrNotFound.
	ErrNothingToBackUp = errors.Mark(errors.New("nothing to back up"), errors.ErrNotFound)

	// ErrBackupCorrupted indicates backup file integrity verification failed.
	// This occurs when a file's SHA256 hash doesn't match the manifest.
	ErrBackupCorrupted = errors.New("backup corrupted")
)

// Manifest contains metadata about a backup.
// It is stored as manifest.json in each backup directory.
type Manifest struct {
	// Version is the manifest format version for forward compatibility.
	Version int `json:"version"`

	// CreatedAt is when the backup was created.
	CreatedAt time.Time `json:"created_at"`

	// Tool is the assistant whose configuration was copied (claude, cursor, ...).
	Tool string `json:"tool"`

	// Files contains metadata for each backed up file.
	Files []File `json:"files"`

	// Absent lists requested paths that did not exist when the backup was
	// taken. Restoring the backup removes them again.
	Absent []string `json:"absent,omitempty"`

	// ToolVersion is the version of mcptoggle that created this backup.
	ToolVersion string `json:"mcptoggle_version"`

	// ID is the backup identifier, e.g. 20260123T100712.042 or
	// 20260123T100712.042-1. Populated from the directory name, not stored.
	ID string `json:"-"`

	// Dir is the backup directory. Populated on load, not stored.
	Dir string `json:"-"`
}

// File contains metadata for a single backed up file.
type File struct {
	// OriginalPath is the absolute path where the file was located.
	OriginalPath string `json:"original_path"`

	// RelPath is the relative path within the backup directory.
	RelPath string `json:"rel_path"`

	// SHA256Hash is the hex-encoded SHA256 hash of the file contents.
	SHA256Hash string `json:"sha256_hash"`

	// Mode is the file's permission bits.
	Mode fs.FileMode `json:"mode"`
}
