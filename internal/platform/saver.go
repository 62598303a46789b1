package platform

import (
	"io/fs"
	"log/slog"
	"os"

	"github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// WriteFunc writes a whole file atomically. Adapters use
// fileutil.AtomicWriteFile unless a test swaps in a failing one.
type WriteFunc func(path string, data []byte, perm os.FileMode) error

// Saver runs an adapter's writes under a fresh backup.
type Saver struct {
	tool    string
	backups *backup.Manager
	logger  *slog.Logger
}

// NewSaver returns a Saver that stores tool's backups in backups.
func NewSaver(tool string, backups *backup.Manager, logger *slog.Logger) Saver {
	if logger == nil {
		logger = slog.Default()
	}
	return Saver{tool: tool, backups: backups, logger: logger}
}

// BackupDir returns the directory holding the tool's backups.
func (s Saver) BackupDir() string {
	return s.backups.ToolDir(s.tool)
}

// CreateBackup copies the existing files among paths into a new backup and
// returns its directory. It matches errors.ErrNotFound when none exist.
func (s Saver) CreateBackup(paths []string) (string, error) {
	m, err := s.backups.Backup(s.tool, paths)
	if err != nil {
		return "", err
	}
	return m.Dir, nil
}

// Save backs up paths, then calls write. If write fails, the backup is
// restored, files that did not exist before are removed, and the returned
// error matches errors.ErrSave.
func (s Saver) Save(paths []string, write func() error) error {
	manifest, err := s.backups.Backup(s.tool, paths)
	switch {
	case err == nil:
		s.logger.Debug("backed up before save", "tool", s.tool, "backup", manifest.ID)
	case errors.Is(err, backup.ErrNothingToBackUp):
		manifest = nil
	default:
		return errors.WrapMark(err, errors.ErrSave, "backing up before save")
	}

	werr := write()
	if werr == nil {
		return nil
	}

	var rerr error
	if manifest != nil {
		rerr = s.backups.RestoreManifest(manifest)
	} else {
		for _, p := range paths {
			if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
				rerr = errors.CombineErrors(rerr, err)
			}
		}
	}

	err = errors.WrapMark(werr, errors.ErrSave, "saving "+s.tool+" configuration")
	if rerr != nil {
		s.logger.Error("rollback after failed save did not complete", "tool", s.tool, "error", rerr)
		return errors.CombineErrors(err, errors.Wrap(rerr, "restoring backup"))
	}
	return err
}
