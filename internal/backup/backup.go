package backup

import (
	"cmp"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/pkg/fileutil"
)

// Version is recorded in every manifest. The command layer sets it from the
// build-time version.
var Version = "dev"

// Manager handles backup creation, restoration, and management.
type Manager struct {
	rootDir string
	now     func() time.Time
	logger  *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a backup Manager storing backups under rootDir
// (<rootDir>/<tool>/<ID>/).
func NewManager(rootDir string, opts ...Option) *Manager {
	m := &Manager{
		rootDir: rootDir,
		now:     time.Now,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ToolDir returns the directory holding a tool's backups.
func (m *Manager) ToolDir(tool string) string {
	return filepath.Join(m.rootDir, tool)
}

// Backup copies the given files into a new backup directory for tool.
// Paths that do not exist are recorded in the manifest's Absent list; if
// none exist the call fails with ErrNothingToBackUp.
//
// Each file is copied with preserved permissions and verified with a
// SHA256 hash. Two calls never share a directory.
func (m *Manager) Backup(tool string, paths []string) (*Manifest, error) {
	if tool == "" {
		return nil, errors.New("tool is required")
	}
	if len(paths) == 0 {
		return nil, errors.New("at least one path is required")
	}

	var present, absent []string
	for _, p := range paths {
		info, err := os.Stat(p)
		switch {
		case err == nil && info.Mode().IsRegular():
			present = append(present, p)
		case err == nil:
			return nil, errors.Newf("%s is not a regular file", p)
		case errors.Is(err, fs.ErrNotExist):
			absent = append(absent, p)
		default:
			return nil, errors.Wrapf(err, "stat %s", p)
		}
	}
	if len(present) == 0 {
		return nil, errors.Wrapf(ErrNothingToBackUp, "%s", strings.Join(paths, ", "))
	}

	createdAt := m.now().UTC()
	id, dir, err := m.reserve(tool, createdAt)
	if err != nil {
		return nil, err
	}

	files := make([]File, 0, len(present))
	for _, p := range present {
		bf, err := backupFile(p, dir)
		if err != nil {
			os.RemoveAll(dir)
			return nil, errors.Wrapf(err, "backing up file %s", p)
		}
		files = append(files, *bf)
	}

	manifest := &Manifest{
		Version:     ManifestVersion,
		CreatedAt:   createdAt,
		Tool:        tool,
		Files:       files,
		Absent:      absent,
		ToolVersion: Version,
		ID:          id,
		Dir:         dir,
	}

	if err := fileutil.AtomicWriteJSONWithPerm(filepath.Join(dir, manifestName), manifest, 0o600); err != nil {
		os.RemoveAll(dir)
		return nil, errors.Wrap(err, "writing manifest")
	}

	m.logger.Debug("backup created", "tool", tool, "id", id, "files", len(files))
	return manifest, nil
}

// reserve creates a fresh backup directory. os.Mkdir fails when the
// directory exists, so a same-millisecond backup moves on to the next
// suffix instead of overwriting.
func (m *Manager) reserve(tool string, at time.Time) (string, string, error) {
	toolDir := m.ToolDir(tool)
	if err := os.MkdirAll(toolDir, 0o700); err != nil {
		return "", "", errors.Wrap(err, "creating backup directory")
	}

	base := at.Format(idLayout)
	for n := 0; n < 1000; n++ {
		id := base
		if n > 0 {
			id = base + "-" + strconv.Itoa(n)
		}
		dir := filepath.Join(toolDir, id)
		err := os.Mkdir(dir, 0o700)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", errors.Wrap(err, "creating backup directory")
		}
	}
	return "", "", errors.Newf("too many backups at %s", base)
}

// backupFile copies a single file to the backup directory.
func backupFile(src, backupPath string) (*File, error) {
	relPath := generateRelPath(src)
	dst := filepath.Join(backupPath, relPath)

	if err := os.MkdirAll(filepath.Dir(dst), 0o700); err != nil {
		return nil, errors.Wrap(err, "creating parent directory")
	}

	hash, mode, err := copyFile(src, dst)
	if err != nil {
		return nil, err
	}

	return &File{
		OriginalPath: src,
		RelPath:      relPath,
		SHA256Hash:   hash,
		Mode:         mode,
	}, nil
}

// Restore puts the files of a backup back at their original locations and
// removes files that did not exist when the backup was taken. Every file's
// hash is verified before anything is written.
func (m *Manager) Restore(tool, backupID string) error {
	manifest, err := m.Get(tool, backupID)
	if err != nil {
		return err
	}
	return m.RestoreManifest(manifest)
}

// RestoreManifest restores a backup whose manifest is already loaded.
func (m *Manager) RestoreManifest(manifest *Manifest) error {
	contents := make([][]byte, len(manifest.Files))
	for i, bf := range manifest.Files {
		data, err := os.ReadFile(filepath.Join(manifest.Dir, bf.RelPath))
		if err != nil {
			return errors.Wrapf(err, "reading backup file %s", bf.RelPath)
		}
		sum := sha256.Sum256(data)
		if hex.EncodeToString(sum[:]) != bf.SHA256Hash {
			return errors.Wrapf(ErrBackupCorrupted, "file %s hash mismatch", bf.RelPath)
		}
		contents[i] = data
	}

	for i, bf := range manifest.Files {
		if err := os.MkdirAll(filepath.Dir(bf.OriginalPath), 0o755); err != nil {
			return errors.Wrapf(err, "creating directory for %s", bf.OriginalPath)
		}
		if err := fileutil.AtomicWriteFile(bf.OriginalPath, contents[i], bf.Mode.Perm()); err != nil {
			return errors.Wrapf(err, "restoring %s", bf.OriginalPath)
		}
	}

	for _, p := range manifest.Absent {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Wrapf(err, "removing %s", p)
		}
	}

	m.logger.Debug("backup restored", "tool", manifest.Tool, "id", manifest.ID)
	return nil
}

// List returns all available backups for a tool, newest first.
// Directories without a readable manifest are skipped.
func (m *Manager) List(tool string) ([]Manifest, error) {
	if tool == "" {
		return nil, errors.New("tool is required")
	}

	entries, err := os.ReadDir(m.ToolDir(tool))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "for %s", tool)
		}
		return nil, errors.Wrap(err, "reading backup directory")
	}

	manifests := make([]Manifest, 0, len(entries))
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		manifest, err := m.Get(tool, entry.Name())
		if err != nil {
			m.logger.Debug("skipping backup directory", "dir", entry.Name(), "error", err)
			continue
		}
		manifests = append(manifests, *manifest)
	}

	if len(manifests) == 0 {
		return nil, errors.Wrapf(ErrNoBackupsFound, "for %s", tool)
	}

	slices.SortFunc(manifests, func(a, b Manifest) int {
		return compareIDs(b.ID, a.ID)
	})

	return manifests, nil
}

// Latest returns the newest backup for a tool.
func (m *Manager) Latest(tool string) (*Manifest, error) {
	manifests, err := m.List(tool)
	if err != nil {
		return nil, err
	}
	return &manifests[0], nil
}

// Prune removes backups beyond the newest keep and returns how many were
// removed. It only runs when asked to.
func (m *Manager) Prune(tool string, keep int) (int, error) {
	if keep < 0 {
		return 0, errors.New("keep must be non-negative")
	}

	manifests, err := m.List(tool)
	if err != nil {
		if errors.Is(err, ErrNoBackupsFound) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for i := keep; i < len(manifests); i++ {
		if err := os.RemoveAll(manifests[i].Dir); err != nil {
			return removed, errors.Wrapf(err, "removing backup %s", manifests[i].ID)
		}
		removed++
	}

	return removed, nil
}

// Get returns the manifest for a specific backup.
func (m *Manager) Get(tool, backupID string) (*Manifest, error) {
	if tool == "" {
		return nil, errors.New("tool is required")
	}
	if backupID == "" || strings.ContainsAny(backupID, `/\`) || backupID == "." || backupID == ".." {
		return nil, errors.Newf("invalid backup ID %q", backupID)
	}

	dir := filepath.Join(m.ToolDir(tool), backupID)
	data, err := os.ReadFile(filepath.Join(dir, manifestName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Wrapf(ErrNoBackupsFound, "backup %s", backupID)
		}
		return nil, errors.Wrap(err, "reading manifest")
	}

	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "parsing manifest of backup %s", backupID), errors.ErrParse)
	}

	manifest.ID = backupID
	manifest.Dir = dir
	return &manifest, nil
}

// compareIDs orders backup IDs chronologically, comparing the numeric
// disambiguator when the timestamps are equal.
func compareIDs(a, b string) int {
	aBase, aSeq := splitID(a)
	bBase, bSeq := splitID(b)
	if c := strings.Compare(aBase, bBase); c != 0 {
		return c
	}
	return cmp.Compare(aSeq, bSeq)
}

func splitID(id string) (string, int) {
	base, suffix, ok := strings.Cut(id, "-")
	if !ok {
		return id, 0
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return id, 0
	}
	return base, n
}

// copyFile copies a file from src to dst, returning the SHA256 hash and mode.
func copyFile(src, dst string) (hash string, mode fs.FileMode, err error) {
	srcFile, err := os.Open(src)
	if err != nil {
		return "", 0, errors.Wrap(err, "opening source file")
	}
	defer srcFile.Close()

	srcInfo, err := srcFile.Stat()
	if err != nil {
		return "", 0, errors.Wrap(err, "stat source file")
	}
	mode = srcInfo.Mode().Perm()

	// Backups may hold secrets; the copy is private regardless of the source
	dstFile, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return "", 0, errors.Wrap(err, "creating destination file")
	}

	h := sha256.New()
	w := io.MultiWriter(dstFile, h)

	if _, err := io.Copy(w, srcFile); err != nil {
		dstFile.Close()
		return "", 0, errors.Wrap(err, "copying file")
	}

	if err := dstFile.Close(); err != nil {
		return "", 0, errors.Wrap(err, "closing destination file")
	}

	return hex.EncodeToString(h.Sum(nil)), mode, nil
}

// generateRelPath creates a relative path for storage in the backup
// directory from an absolute source path: the volume name and leading
// separator are dropped and colons removed.
func generateRelPath(absPath string) string {
	clean := filepath.Clean(absPath)
	clean = strings.TrimPrefix(clean, filepath.VolumeName(clean))
	clean = strings.TrimLeft(clean, `/\`)
	return strings.ReplaceAll(clean, ":", "")
}
