package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// LevelTrace is below Debug and logs individual merge and file decisions.
const LevelTrace = slog.LevelDebug - 4

// DebugEnv is consulted when no verbosity flag is given. "1" or "true"
// selects Debug, "2" selects Trace.
const DebugEnv = "MCPTOGGLE_DEBUG"

// Format is the --log-format value.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Config describes a single-destination logger.
type Config struct {
	Level  slog.Level
	Format Format
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New returns a logger for cfg. An unrecognized format falls back to text.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	h, err := newHandler(out, cfg.Format, cfg.Level)
	if err != nil {
		h, _ = newHandler(out, FormatText, cfg.Level)
	}
	return slog.New(h)
}

func newHandler(w io.Writer, format Format, level slog.Leveler) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case FormatText, "":
		return NewHandler(w, opts), nil
	case FormatJSON:
		return slog.NewJSONHandler(w, opts), nil
	default:
		return nil, errors.NewUserError(
			errors.Newf("unknown log format %q", format),
			"Use --log-format text or --log-format json.",
		)
	}
}

// LevelFromVerbosity maps the count of -v flags to a level:
// 0 is Warn, 1 is Info, 2 is Debug and 3 or more is Trace.
func LevelFromVerbosity(v int) slog.Level {
	switch {
	case v <= 0:
		return slog.LevelWarn
	case v == 1:
		return slog.LevelInfo
	case v == 2:
		return slog.LevelDebug
	default:
		return LevelTrace
	}
}

// Options are the command-line knobs that shape the process logger.
type Options struct {
	Verbosity int
	Quiet     bool
	Format    Format
	// File, when set, receives a JSON copy of every record.
	File string
}

func (o Options) level() slog.Level {
	if o.Quiet {
		return slog.LevelError
	}
	v := o.Verbosity
	if v == 0 {
		switch os.Getenv(DebugEnv) {
		case "1", "true":
			v = 2
		case "2":
			v = 3
		}
	}
	return LevelFromVerbosity(v)
}

// Setup builds the process logger from opts, writing human output to w.
// The returned closer releases the log file, if any.
func Setup(w io.Writer, opts Options) (*slog.Logger, func() error, error) {
	noop := func() error { return nil }

	if opts.Quiet && opts.Verbosity > 0 {
		return nil, noop, errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "Pass either --quiet or --verbose.")
	}

	level := opts.level()
	primary, err := newHandler(w, opts.Format, level)
	if err != nil {
		return nil, noop, err
	}
	if opts.File == "" {
		return slog.New(primary), noop, nil
	}

	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, noop, errors.NewUserError(errors.Wrap(err, "opening log file"), "Check that the --log-file directory exists and is writable.")
	}
	file := slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})

	return slog.New(tee{primary, file}), f.Close, nil
}

type ctxKey struct{}

// NewContext returns a copy of ctx carrying logger.
func NewContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.Default()
}

// NewDiscard returns a logger that drops everything.
func NewDiscard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// testWriter sends each handler write to t.Log.
type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest returns a Trace-level logger whose output shows up with the
// test's own log, i.e. on failure or under go test -v.
func ForTest(t *testing.T) *slog.Logger {
	t.Helper()
	return slog.New(NewHandler(testWriter{t: t}, &slog.HandlerOptions{Level: LevelTrace}))
}
