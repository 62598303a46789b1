package validator

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func sampleResult() *Result {
	r := &Result{}
	r.add("github", SeverityError, "command", "is required for local servers", nil)
	r.add("ws", SeverityWarning, "type", "is not a known transport", "websocket")
	r.add("github", SeverityInfo, "env.TOKEN", "holds a literal token; consider a secret manager", "****3456")
	r.add("notes-only", SeverityInfo, "env.EMPTY", "is empty", nil)
	return r
}

func TestReporter_Text(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatText).Report(sampleResult()); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Server checks: 1 error(s), 1 warning(s)",
		"github\n  ✗ command: is required for local servers",
		"ws\n  ! type: is not a known transport [websocket]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "notes-only") || strings.Contains(out, "env.TOKEN") {
		t.Errorf("notes should be hidden without Verbose\n%s", out)
	}
}

func TestReporter_TextVerbose(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	var buf bytes.Buffer
	rep := NewReporter(&buf, FormatText)
	rep.Verbose = true
	if err := rep.Report(sampleResult()); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"2 note(s)", "  i env.TOKEN:", "[****3456]", "notes-only\n  i env.EMPTY: is empty"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
}

func TestReporter_TextClean(t *testing.T) {
	r := &Result{}
	r.add("x", SeverityInfo, "env.A", "is empty", nil)

	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatText).Report(r); err != nil {
		t.Fatalf("Report() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No problems found") {
		t.Errorf("output = %q, want success line", buf.String())
	}
}

func TestReporter_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatJSON).Report(sampleResult()); err != nil {
		t.Fatalf("Report() error = %v", err)
	}

	var decoded Result
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if len(decoded.Issues) != 4 {
		t.Fatalf("decoded %d issues, want 4", len(decoded.Issues))
	}
	first := decoded.Issues[0]
	if first.Server != "github" || first.Severity != SeverityError || first.Field != "command" {
		t.Errorf("first issue = %+v", first)
	}
}

func TestFormatIssue_TruncatesValue(t *testing.T) {
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = false })

	line := formatIssue(Issue{Severity: SeverityWarning, Field: "url", Message: "bad", Value: strings.Repeat("x", 80)})
	if !strings.Contains(line, strings.Repeat("x", maxValueLen-3)+"...]") {
		t.Errorf("value not truncated: %q", line)
	}
}

func TestReporter_NilResult(t *testing.T) {
	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatText).Report(nil); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("nil result wrote %q", buf.String())
	}
}
