package profile

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/logging"
	"github.com/thoreinstein/mcptoggle/internal/mcp"
	"github.com/thoreinstein/mcptoggle/internal/paths"
	"github.com/thoreinstein/mcptoggle/pkg/fileutil"
)

// DefaultName is the profile created by [Store.Init].
const DefaultName = "default"

const (
	fileExt  = ".json"
	filePerm = 0o600
)

// namePattern validates profile names. Names start with a letter or digit
// and may contain letters, digits, dots, underscores and hyphens.
var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateName returns errors.ErrInvalidName if name cannot be used as a
// profile name.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return errors.WithHint(
			errors.Markf(errors.ErrInvalidName, "invalid profile name %q", name),
			"Profile names start with a letter or digit and contain only letters, digits, '.', '_' and '-'.",
		)
	}
	return nil
}

// Store manages the profile directory.
type Store struct {
	dir    string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewStore returns a Store over dir. The directory is created on first
// write or listing.
func NewStore(dir string, opts ...Option) *Store {
	s := &Store{
		dir:    dir,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the profile directory.
func (s *Store) Dir() string {
	return s.dir
}

// Path returns the file a profile named name is stored in.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+fileExt)
}

// Exists reports whether a profile named name is stored.
func (s *Store) Exists(name string) bool {
	return ValidateName(name) == nil && fileutil.Exists(s.Path(name))
}

// Save stores the split of snap under name, replacing any existing profile
// of that name.
func (s *Store) Save(name string, snap *mcp.Snapshot) (*Profile, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	p := &Profile{
		Name:     name,
		Tool:     snap.Metadata.Tool,
		Enabled:  snap.Enabled.Clone(),
		Disabled: snap.Disabled.Clone(),
		Created:  s.now().UTC().Truncate(time.Second),
	}

	if err := paths.EnsureDir(s.dir, paths.DefaultDirPerm); err != nil {
		return nil, errors.Wrap(err, "creating profile directory")
	}
	if err := fileutil.AtomicWriteJSONWithPerm(s.Path(name), p, filePerm); err != nil {
		return nil, errors.Wrapf(err, "writing profile %s", name)
	}

	s.logger.Debug("profile saved", "name", name, "tool", p.Tool,
		"enabled", p.Enabled.Len(), "disabled", p.Disabled.Len())
	return p, nil
}

// Load reads the profile named name. A profile saved from another tool
// loads normally; the mismatch is logged as a warning and reported by
// [Profile.ToolMismatch].
func (s *Store) Load(ctx context.Context, name, tool string) (*Profile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	p, err := s.read(name)
	if err != nil {
		return nil, err
	}

	if tool != "" && p.ToolMismatch(tool) {
		logging.FromContext(ctx).Warn("profile was saved for a different tool",
			"profile", name, "saved_for", p.Tool, "loading_into", tool)
	}
	return p, nil
}

func (s *Store) read(name string) (*Profile, error) {
	path := s.Path(name)
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, errors.ErrNotFound) {
			return nil, errors.WithHint(
				errors.Markf(errors.ErrProfileNotFound, "profile %q not found", name),
				"Run: mcptoggle profile list",
			)
		}
		return nil, errors.Wrapf(err, "reading profile %s", name)
	}

	p, err := decode(data)
	if err != nil {
		return nil, errors.WrapMark(err, errors.ErrParse, "parsing profile "+path)
	}
	// the file name is authoritative
	p.Name = name
	return p, nil
}

// List returns a summary of every stored profile, sorted by name. The
// directory is created if missing. Files that cannot be read are skipped.
func (s *Store) List() ([]Summary, error) {
	if err := paths.EnsureDir(s.dir, paths.DefaultDirPerm); err != nil {
		return nil, errors.Wrap(err, "creating profile directory")
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "reading profile directory")
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), fileExt)
		if ValidateName(name) != nil {
			continue
		}
		p, err := s.read(name)
		if err != nil {
			s.logger.Debug("skipping unreadable profile", "file", entry.Name(), "error", err)
			continue
		}
		summaries = append(summaries, p.Summary())
	}

	slices.SortFunc(summaries, func(a, b Summary) int {
		return strings.Compare(a.Name, b.Name)
	})
	return summaries, nil
}

// Delete removes the profile named name. No backup is taken.
func (s *Store) Delete(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := os.Remove(s.Path(name)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errors.Markf(errors.ErrProfileNotFound, "profile %q not found", name)
		}
		return errors.Wrapf(err, "deleting profile %s", name)
	}
	s.logger.Debug("profile deleted", "name", name)
	return nil
}

// Init creates the profile directory and saves snap as the default profile
// unless one already exists. It reports whether a profile was written.
func (s *Store) Init(snap *mcp.Snapshot) (bool, error) {
	if err := paths.EnsureDir(s.dir, paths.DefaultDirPerm); err != nil {
		return false, errors.Wrap(err, "creating profile directory")
	}
	if s.Exists(DefaultName) {
		return false, nil
	}
	if _, err := s.Save(DefaultName, snap); err != nil {
		return false, err
	}
	return true, nil
}
