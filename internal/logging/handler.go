package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/fatih/color"

	"github.com/thoreinstein/mcptoggle/internal/redact"
)

const timeLayout = "15:04:05"

var (
	timeColor = color.New(color.FgHiBlack)
	keyColor  = color.New(color.FgCyan)
)

// Handler is the terminal handler. Each record becomes one line:
//
//	14:02:11 WRN backup skipped tool=cursor path=/home/me/.cursor/mcp.json
//
// Attribute values pass through the redact package before they are
// written, so server env, args and URLs never print in the clear.
type Handler struct {
	level slog.Leveler
	out   io.Writer
	mu    *sync.Mutex
	color bool

	// prefix is the dotted group path applied to record attributes.
	prefix string
	// attrs holds attributes from WithAttrs, already rendered.
	attrs []byte
}

// NewHandler returns a Handler writing to out. Colors are used only when
// out is a terminal that accepts them.
func NewHandler(out io.Writer, opts *slog.HandlerOptions) *Handler {
	h := &Handler{
		level: slog.LevelInfo,
		out:   out,
		mu:    &sync.Mutex{},
		color: SupportsColor(out),
	}
	if opts != nil && opts.Level != nil {
		h.level = opts.Level
	}
	return h
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	buf := make([]byte, 0, 128)

	if !r.Time.IsZero() {
		buf = append(buf, h.paint(timeColor, r.Time.Format(timeLayout))...)
		buf = append(buf, ' ')
	}
	label, c := levelLabel(r.Level)
	buf = append(buf, h.paint(c, label)...)
	buf = append(buf, ' ')
	buf = append(buf, r.Message...)
	buf = append(buf, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		buf = h.appendAttr(buf, h.prefix, a)
		return true
	})
	buf = append(buf, '\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.out.Write(buf)
	return err
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	c := *h
	c.attrs = slices.Clone(h.attrs)
	for _, a := range attrs {
		c.attrs = c.appendAttr(c.attrs, c.prefix, a)
	}
	return &c
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	c := *h
	c.prefix = h.prefix + name + "."
	return &c
}

func (h *Handler) appendAttr(buf []byte, prefix string, a slog.Attr) []byte {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return buf
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			buf = h.appendAttr(buf, prefix, ga)
		}
		return buf
	}

	buf = append(buf, ' ')
	buf = append(buf, h.paint(keyColor, prefix+a.Key)...)
	buf = append(buf, '=')
	return append(buf, formatValue(a.Key, a.Value.Any())...)
}

func (h *Handler) paint(c *color.Color, s string) string {
	if !h.color {
		return s
	}
	return c.Sprint(s)
}

func levelLabel(l slog.Level) (string, *color.Color) {
	switch {
	case l >= slog.LevelError:
		return "ERR", color.New(color.FgRed, color.Bold)
	case l >= slog.LevelWarn:
		return "WRN", color.New(color.FgYellow)
	case l >= slog.LevelInfo:
		return "INF", color.New(color.FgGreen)
	case l >= slog.LevelDebug:
		return "DBG", color.New(color.FgMagenta)
	default:
		return "TRC", color.New(color.FgHiBlack)
	}
}

// formatValue masks v when key or v looks secret and quotes strings that
// would otherwise be ambiguous on a key=value line.
func formatValue(key string, v any) string {
	switch v := v.(type) {
	case string:
		var s string
		if redact.ShouldMask(key) || redact.ContainsTokenPrefix(v) {
			s = redact.Value(v)
		} else {
			s = redact.URL(v)
		}
		if s == "" || strings.ContainsAny(s, " =\"\t\n") {
			return strconv.Quote(s)
		}
		return s
	case []string:
		return fmt.Sprint(redact.Args(v))
	case map[string]string:
		return fmt.Sprint(redact.Env(v))
	case error:
		return strconv.Quote(v.Error())
	default:
		if redact.ShouldMask(key) {
			return redact.Value(fmt.Sprint(v))
		}
		return fmt.Sprint(v)
	}
}
