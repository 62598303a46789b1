package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/internal/cli/prompt"
	"github.com/thoreinstein/mcptoggle/internal/config"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/paths"
)

const cursorConfig = `{
  "theme": "dark",
  "mcpServers": {
    "github": {
      "command": "npx",
      "args": ["-y", "@modelcontextprotocol/server-github"],
      "env": {"GITHUB_PERSONAL_ACCESS_TOKEN": "ghp_abcdef123456"}
    },
    "fetch": {"command": "uvx", "args": ["mcp-server-fetch"]}
  },
  "_disabledMcpServers": {
    "sentry": {"type": "http", "url": "https://mcp.sentry.dev/mcp"}
  }
}
`

// setupEnv points the shared flag state at a temporary home and selects
// tool.
func setupEnv(t *testing.T, tool string) paths.Env {
	t.Helper()
	env := paths.EnvAt(t.TempDir())
	flags.Reset()
	flags.SetEnv(env)
	flags.SetTool(tool)
	flags.SetScope("user")
	t.Cleanup(flags.Reset)
	return env
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func setupCursor(t *testing.T) paths.Env {
	t.Helper()
	env := setupEnv(t, paths.ToolCursor)
	writeFile(t, env.ConfigPath(paths.ToolCursor), cursorConfig)
	return env
}

func readJSON(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("parsing %s: %v", path, err)
	}
	return doc
}

func keys(m any) []string {
	obj, _ := m.(map[string]any)
	out := make([]string, 0, len(obj))
	for k := range obj {
		out = append(out, k)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestList_Tabular(t *testing.T) {
	setupCursor(t)
	listJSON, listShowSecrets = false, false

	var buf bytes.Buffer
	if err := runListWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runListWithWriter() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Cursor", "github", "fetch", "sentry", "enabled", "disabled", "https://mcp.sentry.dev/mcp"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "SOURCE") {
		t.Error("user scope output should not have a SOURCE column")
	}
}

func TestList_JSONMasksSecrets(t *testing.T) {
	setupCursor(t)
	listJSON, listShowSecrets = true, false
	t.Cleanup(func() { listJSON = false })

	var buf bytes.Buffer
	if err := runListWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runListWithWriter() error = %v", err)
	}

	var out listOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Tool != paths.ToolCursor || out.Scope != "user" {
		t.Errorf("tool/scope = %s/%s", out.Tool, out.Scope)
	}
	if len(out.Servers) != 3 {
		t.Fatalf("got %d servers, want 3", len(out.Servers))
	}
	gh := out.Servers[0]
	if gh.Name != "github" || !gh.Enabled || gh.Transport != "stdio" {
		t.Errorf("github = %+v", gh)
	}
	if got := gh.Env["GITHUB_PERSONAL_ACCESS_TOKEN"]; got != "****3456" {
		t.Errorf("token = %q, want masked", got)
	}
	if s := out.Servers[2]; s.Name != "sentry" || s.Enabled || s.Transport != "http" {
		t.Errorf("sentry = %+v", s)
	}

	listShowSecrets = true
	t.Cleanup(func() { listShowSecrets = false })
	buf.Reset()
	if err := runListWithWriter(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "ghp_abcdef123456") {
		t.Error("--show-secrets should print the raw token")
	}
}

func TestList_NoToolDetected(t *testing.T) {
	setupEnv(t, "")
	listJSON = false

	err := runListWithWriter(context.Background(), &bytes.Buffer{})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if errors.Suggest(err) == "" {
		t.Error("expected a suggestion naming --tool")
	}
}

func TestToggleCommands(t *testing.T) {
	env := setupCursor(t)
	path := env.ConfigPath(paths.ToolCursor)

	var buf bytes.Buffer
	if err := runToggleWithWriter(context.Background(), &buf, actionDisable, []string{"github"}); err != nil {
		t.Fatalf("disable error = %v", err)
	}
	doc := readJSON(t, path)
	if contains(keys(doc["mcpServers"]), "github") || !contains(keys(doc["_disabledMcpServers"]), "github") {
		t.Errorf("github not moved to disabled: %v", doc)
	}
	if doc["theme"] != "dark" {
		t.Error("unrelated keys must be preserved")
	}

	buf.Reset()
	if err := runToggleWithWriter(context.Background(), &buf, actionEnable, []string{"github", "sentry"}); err != nil {
		t.Fatalf("enable error = %v", err)
	}
	doc = readJSON(t, path)
	if got := keys(doc["mcpServers"]); len(got) != 3 {
		t.Errorf("enabled = %v, want all three", got)
	}
	if _, ok := doc["_disabledMcpServers"]; ok {
		t.Error("empty disabled key should be removed")
	}

	buf.Reset()
	if err := runToggleWithWriter(context.Background(), &buf, actionToggle, []string{"fetch"}); err != nil {
		t.Fatalf("toggle error = %v", err)
	}
	if !strings.Contains(buf.String(), "fetch: ") || !strings.Contains(buf.String(), "disabled") {
		t.Errorf("toggle output = %q", buf.String())
	}

	entries, err := os.ReadDir(filepath.Join(env.BackupDir(), paths.ToolCursor))
	if err != nil {
		t.Fatalf("reading backups: %v", err)
	}
	if len(entries) != 3 {
		t.Errorf("got %d backups, want one per write", len(entries))
	}
}

func TestToggleCommands_AlreadyInState(t *testing.T) {
	env := setupCursor(t)
	before, _ := os.ReadFile(env.ConfigPath(paths.ToolCursor))

	var buf bytes.Buffer
	if err := runToggleWithWriter(context.Background(), &buf, actionEnable, []string{"github"}); err != nil {
		t.Fatalf("error = %v", err)
	}
	if !strings.Contains(buf.String(), "already enabled") {
		t.Errorf("output = %q", buf.String())
	}
	after, _ := os.ReadFile(env.ConfigPath(paths.ToolCursor))
	if !bytes.Equal(before, after) {
		t.Error("no-op must not rewrite the file")
	}
}

func TestToggleCommands_UnknownServer(t *testing.T) {
	env := setupCursor(t)
	before, _ := os.ReadFile(env.ConfigPath(paths.ToolCursor))

	err := runToggleWithWriter(context.Background(), &bytes.Buffer{}, actionDisable, []string{"github", "nope"})
	if !errors.Is(err, errors.ErrInvalidOperation) {
		t.Fatalf("error = %v, want ErrInvalidOperation", err)
	}
	after, _ := os.ReadFile(env.ConfigPath(paths.ToolCursor))
	if !bytes.Equal(before, after) {
		t.Error("a failed command must not write anything")
	}
}

func TestToggleCommands_ProjectScope(t *testing.T) {
	env := setupEnv(t, paths.ToolClaude)
	project := t.TempDir()
	flags.SetScope("project")
	flags.SetProject(project)
	writeFile(t, env.ConfigPath(paths.ToolClaude), `{"mcpServers": {"github": {"command": "npx"}}}`)

	var buf bytes.Buffer
	if err := runToggleWithWriter(context.Background(), &buf, actionDisable, []string{"github"}); err != nil {
		t.Fatalf("error = %v", err)
	}

	doc := readJSON(t, env.ConfigPath(paths.ToolClaude))
	if !contains(keys(doc["mcpServers"]), "github") {
		t.Error("user level must keep github enabled")
	}
	projects, _ := doc["projects"].(map[string]any)
	entry, _ := projects[project].(map[string]any)
	names, _ := entry["disabledMcpServers"].([]any)
	if len(names) != 1 || names[0] != "github" {
		t.Errorf("project disabled = %v", entry["disabledMcpServers"])
	}
	if !strings.Contains(buf.String(), "project ("+project+")") {
		t.Errorf("header should name the project: %q", buf.String())
	}
}

func TestStatus(t *testing.T) {
	setupCursor(t)
	statusJSON = true
	t.Cleanup(func() { statusJSON = false })

	var buf bytes.Buffer
	if err := runStatusWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runStatusWithWriter() error = %v", err)
	}

	var out struct {
		Enabled  int `json:"enabled"`
		Disabled int `json:"disabled"`
		Tokens   int `json:"estimated_tokens"`
		Servers  []struct {
			Name   string `json:"name"`
			Tokens int    `json:"estimated_tokens"`
		} `json:"servers"`
		Checks struct {
			Issues []struct {
				Server   string `json:"server"`
				Severity string `json:"severity"`
				Field    string `json:"field"`
			} `json:"issues"`
		} `json:"checks"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if out.Enabled != 2 || out.Disabled != 1 {
		t.Errorf("counts = %d/%d, want 2/1", out.Enabled, out.Disabled)
	}
	if len(out.Servers) != 2 || out.Tokens != out.Servers[0].Tokens+out.Servers[1].Tokens {
		t.Errorf("token breakdown = %+v, total %d", out.Servers, out.Tokens)
	}

	var tokenNote bool
	for _, i := range out.Checks.Issues {
		if i.Server == "github" && i.Severity == "info" && strings.HasPrefix(i.Field, "env.") {
			tokenNote = true
		}
	}
	if !tokenNote {
		t.Errorf("checks should note the inline github token: %+v", out.Checks.Issues)
	}
}

func TestStatus_Text(t *testing.T) {
	setupCursor(t)
	statusJSON = false

	var buf bytes.Buffer
	if err := runStatusWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runStatusWithWriter() error = %v", err)
	}
	for _, want := range []string{"Enabled:", "Disabled:", "Estimated context", "github"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("output missing %q\n%s", want, buf.String())
		}
	}
}

func TestDetect(t *testing.T) {
	setupCursor(t)
	detectJSON = true
	t.Cleanup(func() { detectJSON = false })

	var buf bytes.Buffer
	if err := runDetectWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runDetectWithWriter() error = %v", err)
	}

	var results []struct {
		Name   string `json:"name"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(buf.Bytes(), &results); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(results) != len(paths.Tools()) {
		t.Fatalf("got %d tools, want %d", len(results), len(paths.Tools()))
	}
	for _, r := range results {
		want := "not_installed"
		if r.Name == paths.ToolCursor {
			want = "detected"
		}
		if r.Status != want {
			t.Errorf("%s status = %s, want %s", r.Name, r.Status, want)
		}
	}
}

type fakePicker struct {
	picked []string
	err    error
	seen   []prompt.Choice
}

func (f *fakePicker) PickServers(choices []prompt.Choice) ([]string, error) {
	f.seen = choices
	return f.picked, f.err
}

func stubInteractive(t *testing.T, f *fakePicker) {
	t.Helper()
	oldPicker, oldTTY := newPicker, isInteractive
	newPicker = func() serverPicker { return f }
	isInteractive = func() bool { return true }
	t.Cleanup(func() { newPicker, isInteractive = oldPicker, oldTTY })
}

func TestInteractive(t *testing.T) {
	env := setupCursor(t)
	f := &fakePicker{picked: []string{"github", "sentry"}}
	stubInteractive(t, f)

	var buf bytes.Buffer
	if err := runInteractiveWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runInteractiveWithWriter() error = %v", err)
	}

	if len(f.seen) != 3 || !f.seen[0].Enabled || f.seen[2].Enabled {
		t.Errorf("choices = %+v", f.seen)
	}
	if strings.Contains(f.seen[0].Detail, "ghp_abcdef123456") {
		t.Error("preview must mask secrets")
	}

	doc := readJSON(t, env.ConfigPath(paths.ToolCursor))
	enabled := keys(doc["mcpServers"])
	if !contains(enabled, "fetch") || !contains(enabled, "sentry") || contains(enabled, "github") {
		t.Errorf("enabled = %v, want fetch and sentry", enabled)
	}
}

func TestInteractive_Cancelled(t *testing.T) {
	env := setupCursor(t)
	stubInteractive(t, &fakePicker{err: prompt.ErrCancelled})
	before, _ := os.ReadFile(env.ConfigPath(paths.ToolCursor))

	var buf bytes.Buffer
	if err := runInteractiveWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("cancel should not be an error, got %v", err)
	}
	if !strings.Contains(buf.String(), "Cancelled") {
		t.Errorf("output = %q", buf.String())
	}
	after, _ := os.ReadFile(env.ConfigPath(paths.ToolCursor))
	if !bytes.Equal(before, after) {
		t.Error("cancel must not write")
	}
}

func TestInteractive_NoTerminal(t *testing.T) {
	setupCursor(t)
	old := isInteractive
	isInteractive = func() bool { return false }
	t.Cleanup(func() { isInteractive = old })

	err := runInteractiveWithWriter(context.Background(), &bytes.Buffer{})
	if err == nil || errors.Suggest(err) == "" {
		t.Fatalf("error = %v, want a user error with a suggestion", err)
	}
}

func TestVersion(t *testing.T) {
	var buf bytes.Buffer
	runVersionWithWriter(&buf)
	for _, want := range []string{"mcptoggle version", "commit:", "built:", "go:"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("version output missing %q", want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"npx -y @modelcontextprotocol/server-github", 12, "npx -y @m..."},
		{"abcdef", 3, "abc"},
		{"résumé-server", 8, "résum..."},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestList_DefaultToolFromConfig(t *testing.T) {
	env := setupEnv(t, "")
	writeFile(t, env.ConfigPath(paths.ToolCursor), cursorConfig)
	writeFile(t, env.ConfigPath(paths.ToolWindsurf), `{"mcpServers": {"other": {"command": "x"}}}`)
	flags.SetConfig(&config.Config{Version: config.CurrentVersion, DefaultTool: paths.ToolCursor})
	listJSON = true
	t.Cleanup(func() { listJSON = false })

	var buf bytes.Buffer
	if err := runListWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runListWithWriter() error = %v", err)
	}
	var out listOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Tool != paths.ToolCursor {
		t.Errorf("tool = %s, want default_tool cursor", out.Tool)
	}
}

func setupConfig(t *testing.T) paths.Env {
	t.Helper()
	env := setupEnv(t, "")
	config.Init(env.AppDir())
	if _, err := config.Load(""); err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return env
}

func TestConfigSetGetList(t *testing.T) {
	env := setupConfig(t)

	var buf bytes.Buffer
	if err := runConfigGetWithWriter(&buf, "default_tool"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "not set" {
		t.Errorf("get before set = %q, want not set", got)
	}

	buf.Reset()
	if err := runConfigSetWithWriter(&buf, "default_tool", "cursor"); err != nil {
		t.Fatalf("set error = %v", err)
	}
	if !strings.Contains(buf.String(), "Set default_tool = cursor") {
		t.Errorf("set output = %q", buf.String())
	}

	data, err := os.ReadFile(filepath.Join(env.AppDir(), config.FileName))
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "default_tool: cursor") {
		t.Errorf("config file = %s", data)
	}

	buf.Reset()
	if err := runConfigGetWithWriter(&buf, "default_tool"); err != nil {
		t.Fatal(err)
	}
	if got := strings.TrimSpace(buf.String()); got != "cursor" {
		t.Errorf("get = %q, want cursor", got)
	}

	buf.Reset()
	if err := runConfigListWithWriter(&buf); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"default_tool: cursor", "default_scope: auto", "version: 1"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("list missing %q\n%s", want, buf.String())
		}
	}
}

func TestConfigSet_Rejects(t *testing.T) {
	env := setupConfig(t)

	tests := []struct {
		name    string
		key     string
		value   string
		wantErr error
	}{
		{"unknown key", "colour", "red", errors.ErrInvalidConfig},
		{"unknown tool", "default_tool", "vscode", errors.ErrInvalidConfig},
		{"unknown tool override", "tools.vscode.config_path", "/tmp/x.json", errors.ErrUnknownTool},
		{"bad scope", "default_scope", "global", errors.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runConfigSetWithWriter(&bytes.Buffer{}, tt.key, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := os.Stat(filepath.Join(env.AppDir(), config.FileName)); err == nil {
		t.Error("rejected values must not write the config file")
	}
}
