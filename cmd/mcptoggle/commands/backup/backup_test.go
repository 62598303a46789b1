package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/thoreinstein/mcptoggle/cmd/mcptoggle/commands/flags"
	"github.com/thoreinstein/mcptoggle/internal/backup"
	"github.com/thoreinstein/mcptoggle/internal/cli/prompt"
	"github.com/thoreinstein/mcptoggle/internal/errors"
	"github.com/thoreinstein/mcptoggle/internal/paths"
)

func setupEnv(t *testing.T) paths.Env {
	t.Helper()
	env := paths.EnvAt(t.TempDir())
	flags.Reset()
	flags.SetEnv(env)
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

// seedBackups writes the cursor config once per content and backs it up
// with increasing timestamps, leaving the last content in place.
func seedBackups(t *testing.T, env paths.Env, contents ...string) []*backup.Manifest {
	t.Helper()
	path := env.ConfigPath(paths.ToolCursor)
	at := time.Date(2026, 1, 23, 10, 0, 0, 0, time.UTC)
	var out []*backup.Manifest
	for i, c := range contents {
		writeFile(t, path, c)
		stamp := at.Add(time.Duration(i) * time.Minute)
		m := backup.NewManager(env.BackupDir(), backup.WithClock(func() time.Time { return stamp }))
		manifest, err := m.Backup(paths.ToolCursor, []string{path})
		if err != nil {
			t.Fatalf("seeding backup: %v", err)
		}
		out = append(out, manifest)
	}
	return out
}

func TestCreate(t *testing.T) {
	env := setupEnv(t)
	writeFile(t, env.ConfigPath(paths.ToolCursor), `{"mcpServers": {}}`)

	var buf bytes.Buffer
	if err := runCreateWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runCreateWithWriter() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Cursor: created backup") {
		t.Errorf("output = %q", buf.String())
	}

	manifests, err := backup.NewManager(env.BackupDir()).List(paths.ToolCursor)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(manifests) != 1 || len(manifests[0].Files) != 1 {
		t.Errorf("manifests = %+v", manifests)
	}
}

func TestCreate_NothingInstalled(t *testing.T) {
	setupEnv(t)

	var buf bytes.Buffer
	if err := runCreateWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runCreateWithWriter() error = %v", err)
	}
	if !strings.Contains(buf.String(), "No backups created") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestCreate_ToolWithoutConfig(t *testing.T) {
	setupEnv(t)
	flags.SetTool(paths.ToolGemini)

	var buf bytes.Buffer
	if err := runCreateWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runCreateWithWriter() error = %v", err)
	}
	if !strings.Contains(buf.String(), "no files found") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestList(t *testing.T) {
	env := setupEnv(t)
	seeded := seedBackups(t, env, `{"a": 1}`, `{"a": 2}`)

	listJSON = true
	t.Cleanup(func() { listJSON = false })

	var buf bytes.Buffer
	if err := runListWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runListWithWriter() error = %v", err)
	}

	var out []listOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out) != len(paths.Tools()) {
		t.Fatalf("got %d tools, want %d", len(out), len(paths.Tools()))
	}
	for _, tb := range out {
		if tb.Tool != paths.ToolCursor {
			if len(tb.Backups) != 0 {
				t.Errorf("%s has %d backups, want 0", tb.Tool, len(tb.Backups))
			}
			continue
		}
		if len(tb.Backups) != 2 {
			t.Fatalf("cursor has %d backups, want 2", len(tb.Backups))
		}
		if tb.Backups[0].ID != seeded[1].ID {
			t.Errorf("first backup = %s, want newest %s", tb.Backups[0].ID, seeded[1].ID)
		}
	}
}

func TestList_Tabular(t *testing.T) {
	env := setupEnv(t)
	listJSON = false

	var buf bytes.Buffer
	if err := runListWithWriter(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No backups available") {
		t.Errorf("empty output = %q", buf.String())
	}

	seeded := seedBackups(t, env, `{}`)
	buf.Reset()
	if err := runListWithWriter(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "Tool: Cursor") || !strings.Contains(out, seeded[0].ID) {
		t.Errorf("output = %q", out)
	}
	if strings.Contains(out, "Claude Code") {
		t.Error("tools without backups should be skipped")
	}
}

func TestPrune(t *testing.T) {
	env := setupEnv(t)
	seeded := seedBackups(t, env, `{"a": 1}`, `{"a": 2}`, `{"a": 3}`)

	pruneKeep = 1
	t.Cleanup(func() { pruneKeep = backup.DefaultKeep })

	var buf bytes.Buffer
	if err := runPruneWithWriter(context.Background(), &buf); err != nil {
		t.Fatalf("runPruneWithWriter() error = %v", err)
	}
	if !strings.Contains(buf.String(), "removed 2 backup(s)") {
		t.Errorf("output = %q", buf.String())
	}

	manifests, err := backup.NewManager(env.BackupDir()).List(paths.ToolCursor)
	if err != nil {
		t.Fatal(err)
	}
	if len(manifests) != 1 || manifests[0].ID != seeded[2].ID {
		t.Errorf("kept %+v, want only the newest", manifests)
	}

	buf.Reset()
	if err := runPruneWithWriter(context.Background(), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "No backups to prune.") {
		t.Errorf("second prune output = %q", buf.String())
	}
}

func TestPrune_NegativeKeep(t *testing.T) {
	setupEnv(t)
	pruneKeep = -1
	t.Cleanup(func() { pruneKeep = backup.DefaultKeep })

	err := runPruneWithWriter(context.Background(), &bytes.Buffer{})
	if err == nil || errors.Suggest(err) == "" {
		t.Fatalf("error = %v, want a user error", err)
	}
}

type fakeSelector struct {
	pick       int
	pickErr    error
	confirm    bool
	confirmErr error

	labels   []string
	question string
}

func (f *fakeSelector) PickOne(_ string, labels []string, _ func(int) string) (int, error) {
	f.labels = labels
	return f.pick, f.pickErr
}

func (f *fakeSelector) Confirm(question string, _ bool) (bool, error) {
	f.question = question
	return f.confirm, f.confirmErr
}

func stubSelector(t *testing.T, f *fakeSelector, tty bool) {
	t.Helper()
	oldSel, oldTTY := newSelector, isInteractive
	newSelector = func() selector { return f }
	isInteractive = func() bool { return tty }
	t.Cleanup(func() {
		newSelector, isInteractive = oldSel, oldTTY
		restoreYes, restorePick = false, false
	})
}

func readConfig(t *testing.T, env paths.Env) string {
	t.Helper()
	data, err := os.ReadFile(env.ConfigPath(paths.ToolCursor))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestRestore_LatestWithConfirmation(t *testing.T) {
	env := setupEnv(t)
	flags.SetTool(paths.ToolCursor)
	seedBackups(t, env, `{"a": 1}`, `{"a": 2}`)
	writeFile(t, env.ConfigPath(paths.ToolCursor), `{"a": 3}`)

	f := &fakeSelector{confirm: true}
	stubSelector(t, f, true)

	var buf bytes.Buffer
	if err := runRestoreWithWriter(context.Background(), &buf, nil); err != nil {
		t.Fatalf("runRestoreWithWriter() error = %v", err)
	}
	if got := readConfig(t, env); got != `{"a": 2}` {
		t.Errorf("config = %s, want newest backup", got)
	}
	if !strings.Contains(f.question, "Restore 1 file(s) of Cursor") {
		t.Errorf("question = %q", f.question)
	}

	manifests, err := backup.NewManager(env.BackupDir()).List(paths.ToolCursor)
	if err != nil {
		t.Fatal(err)
	}
	if len(manifests) != 3 {
		t.Errorf("got %d backups, want the pre-restore state saved too", len(manifests))
	}
}

func TestRestore_ByIDWithYes(t *testing.T) {
	env := setupEnv(t)
	flags.SetTool(paths.ToolCursor)
	seeded := seedBackups(t, env, `{"a": 1}`, `{"a": 2}`)

	f := &fakeSelector{}
	stubSelector(t, f, false)
	restoreYes = true

	if err := runRestoreWithWriter(context.Background(), &bytes.Buffer{}, []string{seeded[0].ID}); err != nil {
		t.Fatalf("runRestoreWithWriter() error = %v", err)
	}
	if got := readConfig(t, env); got != `{"a": 1}` {
		t.Errorf("config = %s, want first backup", got)
	}
	if f.question != "" {
		t.Error("--yes must not prompt")
	}
}

func TestRestore_Pick(t *testing.T) {
	env := setupEnv(t)
	flags.SetTool(paths.ToolCursor)
	seedBackups(t, env, `{"a": 1}`, `{"a": 2}`, `{"a": 3}`)

	f := &fakeSelector{pick: 2, confirm: true}
	stubSelector(t, f, true)
	restorePick = true

	if err := runRestoreWithWriter(context.Background(), &bytes.Buffer{}, nil); err != nil {
		t.Fatalf("runRestoreWithWriter() error = %v", err)
	}
	if len(f.labels) != 3 {
		t.Errorf("labels = %v", f.labels)
	}
	if got := readConfig(t, env); got != `{"a": 1}` {
		t.Errorf("config = %s, want the oldest backup", got)
	}
}

func TestRestore_Declined(t *testing.T) {
	env := setupEnv(t)
	flags.SetTool(paths.ToolCursor)
	seedBackups(t, env, `{"a": 1}`)
	writeFile(t, env.ConfigPath(paths.ToolCursor), `{"a": 2}`)

	tests := []struct {
		name string
		f    *fakeSelector
	}{
		{"answered no", &fakeSelector{confirm: false}},
		{"input closed", &fakeSelector{confirmErr: prompt.ErrCancelled}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubSelector(t, tt.f, true)

			var buf bytes.Buffer
			if err := runRestoreWithWriter(context.Background(), &buf, nil); err != nil {
				t.Fatalf("runRestoreWithWriter() error = %v", err)
			}
			if !strings.Contains(buf.String(), "Cancelled.") {
				t.Errorf("output = %q", buf.String())
			}
			if got := readConfig(t, env); got != `{"a": 2}` {
				t.Errorf("config = %s, want unchanged", got)
			}
		})
	}
}

func TestRestore_Errors(t *testing.T) {
	env := setupEnv(t)
	flags.SetTool(paths.ToolCursor)
	stubSelector(t, &fakeSelector{}, false)

	err := runRestoreWithWriter(context.Background(), &bytes.Buffer{}, nil)
	if err == nil || errors.Suggest(err) == "" {
		t.Errorf("no backups: error = %v, want a user error", err)
	}

	seedBackups(t, env, `{}`)
	err = runRestoreWithWriter(context.Background(), &bytes.Buffer{}, []string{"19990101T000000.000"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("unknown ID: error = %v, want ErrNotFound", err)
	}

	restorePick = true
	err = runRestoreWithWriter(context.Background(), &bytes.Buffer{}, nil)
	if err == nil || !strings.Contains(err.Error(), "terminal") {
		t.Errorf("--pick without a terminal: error = %v", err)
	}
}
