package fileutil

import (
	"io"
	"io/fs"
	"os"

	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// MaxFileSize bounds every config, profile and manifest read. Claude's
// ~/.claude.json grows with per-project history, so it is generous.
const MaxFileSize = 16 << 20

// ErrFileTooLarge is returned for files over MaxFileSize.
var ErrFileTooLarge = errors.Newf("file exceeds maximum size of %d bytes", MaxFileSize)

// ReadFileWithLimit returns the contents of path. A missing file is marked
// errors.ErrNotFound; a directory or a file over MaxFileSize is rejected.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Markf(errors.ErrNotFound, "%s does not exist", path)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil {
		if info.IsDir() {
			return nil, errors.Newf("%s is a directory", path)
		}
		if info.Size() > MaxFileSize {
			return nil, errors.Wrapf(ErrFileTooLarge, "reading %s", path)
		}
	}

	// the file may grow between Stat and ReadAll
	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if len(data) > MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "reading %s", path)
	}
	return data, nil
}
