package validator

import (
	"fmt"
	"slices"

	"github.com/thoreinstein/mcptoggle/internal/errors"
)

// Severity ranks a finding. Lower values are more serious.
type Severity int

const (
	// SeverityError means the assistant will fail to start the server.
	SeverityError Severity = iota
	// SeverityWarning means the record is suspicious but usable.
	SeverityWarning
	// SeverityInfo is advice only.
	SeverityInfo
)

var severityNames = []string{"error", "warning", "info"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalText writes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	if s.String() == "unknown" {
		return nil, errors.Newf("invalid severity %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText reads a severity name.
func (s *Severity) UnmarshalText(b []byte) error {
	i := slices.Index(severityNames, string(b))
	if i < 0 {
		return errors.Newf("unknown severity %q", b)
	}
	*s = Severity(i)
	return nil
}

// Issue is one finding about one server.
type Issue struct {
	Server   string   `json:"server"`
	Severity Severity `json:"severity"`
	// Field is the record field at fault, e.g. "url" or "env.API_KEY".
	// Empty when the finding is about the record as a whole.
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	// Value is what was found, already redacted.
	Value any `json:"value,omitempty"`
}

func (i Issue) Error() string {
	subject := i.Server
	if i.Field != "" {
		subject += "." + i.Field
	}
	msg := fmt.Sprintf("%s: %s %s", i.Severity, subject, i.Message)
	if i.Value != nil {
		msg += fmt.Sprintf(" (got %v)", i.Value)
	}
	return msg
}

// Result collects the findings of one run, in the order they were found.
type Result struct {
	Issues []Issue `json:"issues"`
}

func (r *Result) add(server string, sev Severity, field, msg string, value any) {
	r.Issues = append(r.Issues, Issue{
		Server:   server,
		Severity: sev,
		Field:    field,
		Message:  msg,
		Value:    value,
	})
}

// Count returns how many issues have severity sev.
func (r *Result) Count(sev Severity) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, i := range r.Issues {
		if i.Severity == sev {
			n++
		}
	}
	return n
}

// HasErrors reports whether any issue is an error.
func (r *Result) HasErrors() bool { return r.Count(SeverityError) > 0 }

// HasWarnings reports whether any issue is a warning.
func (r *Result) HasWarnings() bool { return r.Count(SeverityWarning) > 0 }

// Filter returns the issues at sev or more serious.
func (r *Result) Filter(sev Severity) []Issue {
	if r == nil {
		return nil
	}
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity <= sev {
			out = append(out, i)
		}
	}
	return out
}

// Servers returns the names that have at least one issue at sev or more
// serious, in first-seen order.
func (r *Result) Servers(sev Severity) []string {
	var names []string
	for _, i := range r.Filter(sev) {
		if !slices.Contains(names, i.Server) {
			names = append(names, i.Server)
		}
	}
	return names
}

// For returns the issues about server at sev or more serious.
func (r *Result) For(server string, sev Severity) []Issue {
	var out []Issue
	for _, i := range r.Filter(sev) {
		if i.Server == server {
			out = append(out, i)
		}
	}
	return out
}
