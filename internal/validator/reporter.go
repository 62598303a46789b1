package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// Format selects how a Reporter renders a Result.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

const maxValueLen = 50

// Reporter writes a Result to an output stream.
type Reporter struct {
	out    io.Writer
	format Format

	// Verbose includes info-level findings in text output.
	Verbose bool
}

// NewReporter returns a Reporter writing format to out.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{out: out, format: format}
}

// Report writes result. A nil result writes nothing.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}
	if r.format == FormatJSON {
		enc := json.NewEncoder(r.out)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(result), "encoding check report")
	}
	return r.text(result)
}

func (r *Reporter) text(result *Result) error {
	threshold := SeverityWarning
	if r.Verbose {
		threshold = SeverityInfo
	}

	servers := result.Servers(threshold)
	if len(servers) == 0 {
		fmt.Fprintln(r.out, color.GreenString("✓ No problems found"))
		return nil
	}

	var parts []string
	if n := result.Count(SeverityError); n > 0 {
		parts = append(parts, color.RedString("%d error(s)", n))
	}
	if n := result.Count(SeverityWarning); n > 0 {
		parts = append(parts, color.YellowString("%d warning(s)", n))
	}
	if n := result.Count(SeverityInfo); n > 0 && r.Verbose {
		parts = append(parts, fmt.Sprintf("%d note(s)", n))
	}
	fmt.Fprintf(r.out, "Server checks: %s\n\n", strings.Join(parts, ", "))

	for _, name := range servers {
		fmt.Fprintf(r.out, "%s\n", color.New(color.Bold).Sprint(name))
		for _, i := range result.For(name, threshold) {
			fmt.Fprintln(r.out, formatIssue(i))
		}
		fmt.Fprintln(r.out)
	}
	return nil
}

// formatIssue renders one line: "  ✗ field: message [value]".
func formatIssue(i Issue) string {
	var sb strings.Builder
	switch i.Severity {
	case SeverityError:
		sb.WriteString(color.RedString("  ✗ "))
	case SeverityWarning:
		sb.WriteString(color.YellowString("  ! "))
	default:
		sb.WriteString(color.HiBlackString("  i "))
	}
	if i.Field != "" {
		sb.WriteString(i.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		v := fmt.Sprint(i.Value)
		if len(v) > maxValueLen {
			v = v[:maxValueLen-3] + "..."
		}
		sb.WriteString(color.HiBlackString(" [%s]", v))
	}
	return sb.String()
}
