package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/ucc/internal/model"
	"github.com/idilsaglam/ucc/internal/persist"
	"github.com/idilsaglam/ucc/internal/ui"
)

type harness struct {
	dir    string
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{"UCC_DATA_DIR", "UCC_BACKEND", "UCC_BOARD", "UCC_THEME", "UCC_DEBUG"} {
		t.Setenv(k, "")
	}
	h := &harness{dir: t.TempDir()}
	prevOut, prevErr := ui.Stdout, ui.Stderr
	ui.Stdout, ui.Stderr = &h.stdout, &h.stderr
	t.Cleanup(func() {
		ui.Stdout, ui.Stderr = prevOut, prevErr
		ui.SetTheme("classic")
	})
	return h
}

// run invokes ucc against the harness data dir and returns the exit code.
func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return Run(append([]string{"--data-dir", h.dir}, args...))
}

func (h *harness) snapshot(t *testing.T) persist.Snapshot {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(h.dir, persist.SnapshotKey+".json"))
	require.NoError(t, err)
	s, err := persist.Decode(b)
	require.NoError(t, err)
	return s
}

func (h *harness) onlyTask(t *testing.T) model.Task {
	t.Helper()
	s := h.snapshot(t)
	require.Len(t, s.Tasks, 1)
	return s.Tasks[0]
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("add", "Write", "quarterly", "report", "--due", "2025-06-30", "--assignee", "Leo"))
	require.Contains(t, h.stdout.String(), "added")

	task := h.onlyTask(t)
	require.Equal(t, "Write quarterly report", task.Name)
	require.Equal(t, "untitled", task.Status)
	require.Equal(t, model.Leo, task.Assignee)
	require.Equal(t, "2025-06-30", task.DueDate.String())

	require.Equal(t, 0, h.run("ls"))
	out := h.stdout.String()
	require.Contains(t, out, "Personal board")
	require.Contains(t, out, "Write quarterly report")
	require.Contains(t, out, "LB")
	require.Contains(t, out, "Jun 30, 2025")
}

func TestAddValidation(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 2, h.run("add", "   "))
	require.Contains(t, h.stderr.String(), "please enter a task name")

	require.Equal(t, 2, h.run("add", "x", "--assignee", "bob"))
	require.Equal(t, 2, h.run("add", "x", "--due", "tomorrow"))
	require.Equal(t, 2, h.run("add", "x", "--status", "nowhere"))
	require.Equal(t, 2, h.run("add"))
	require.NoFileExists(t, filepath.Join(h.dir, persist.SnapshotKey+".json"))
}

func TestTeamBoardAndStatusByTitle(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("--team", "add", "Review doc", "--status", "review"))
	s := h.snapshot(t)
	require.Empty(t, s.Tasks)
	require.Len(t, s.TeamTasks, 1)
	require.Equal(t, "team-review", s.TeamTasks[0].Status)

	// ids resolve across both boards without --team
	require.Equal(t, 0, h.run("done", s.TeamTasks[0].ID))
	require.True(t, h.snapshot(t).TeamTasks[0].Completed)
}

func TestMoveDoneAndComment(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("add", "ship it"))
	id := h.onlyTask(t).ID

	require.Equal(t, 0, h.run("mv", id, "in-progress"))
	require.Equal(t, "in-progress", h.onlyTask(t).Status)

	require.Equal(t, 0, h.run("mv", id, "In Progress"))
	require.Contains(t, h.stdout.String(), "already in")

	require.Equal(t, 0, h.run("done", id[:8]))
	require.True(t, h.onlyTask(t).Completed)
	require.Equal(t, 0, h.run("done", id))
	require.False(t, h.onlyTask(t).Completed)

	require.Equal(t, 0, h.run("comment", id, "Looks", "good"))
	c := h.onlyTask(t).Comments
	require.Len(t, c, 1)
	require.Equal(t, "Looks good", c[0].Text)
	require.Equal(t, "GH", c[0].AuthorInitials)

	require.Equal(t, 0, h.run("show", id))
	require.Contains(t, h.stdout.String(), "Comments (1)")
	require.Contains(t, h.stdout.String(), "just now")

	require.Equal(t, 2, h.run("comment", id, " "))
	require.Equal(t, 2, h.run("done", "nope"))
}

func TestEditFlushesBeforeExit(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("add", "draft"))
	id := h.onlyTask(t).ID

	require.Equal(t, 0, h.run("edit", id, "--name", "final", "--description", "details", "--due", "2025-07-01"))
	task := h.onlyTask(t)
	require.Equal(t, "final", task.Name)
	require.Equal(t, "details", task.Description)
	require.Equal(t, "2025-07-01", task.DueDate.String())

	require.Equal(t, 0, h.run("edit", id, "--due", ""))
	require.True(t, h.onlyTask(t).DueDate.IsZero())

	require.Equal(t, 2, h.run("edit", id))
	require.Equal(t, 2, h.run("edit", id, "--due", "07/01/2025"))
}

func TestColumnsRename(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("columns", "rename", "untitled", "Inbox"))
	b, err := os.ReadFile(filepath.Join(h.dir, persist.PersonalTitlesKey+".json"))
	require.NoError(t, err)
	require.JSONEq(t, `{"untitled":"Inbox"}`, string(b))

	require.Equal(t, 0, h.run("columns", "ls"))
	require.Contains(t, h.stdout.String(), "Inbox")

	require.Equal(t, 0, h.run("columns", "rename", "Inbox", "Inbox"))
	require.Contains(t, h.stdout.String(), "unchanged")
}

func TestProjects(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("projects", "add", "Website"))
	require.Equal(t, 0, h.run("add", "hero image", "--project", "website"))

	s := h.snapshot(t)
	require.Len(t, s.Projects, 1)
	require.Equal(t, s.Projects[0].ID, s.Tasks[0].Project)

	require.Equal(t, 0, h.run("projects", "ls"))
	require.Contains(t, h.stdout.String(), "Website")
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("add", "mine"))
	require.Equal(t, 0, h.run("--team", "add", "ours"))

	out := t.TempDir()
	require.Equal(t, 0, h.run("export", "--out", out))

	matches, err := filepath.Glob(filepath.Join(out, "uncommon-command-center-*.json"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	b, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &doc))
	require.Contains(t, doc, "exportDate")
	require.Contains(t, string(doc["tasks"]), "mine")
	require.NotContains(t, string(b), "ours")
	require.True(t, strings.HasPrefix(string(b), "{\n  \""))
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 2, h.run("frobnicate"))
	require.Equal(t, 2, h.run("ls", "--bogus"))
	require.Equal(t, 2, h.run("--backend", "floppy", "ls"))
	require.Contains(t, h.stderr.String(), "Hint:")
	require.Equal(t, 0, h.run("--help"))
}

func TestSQLiteBackend(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, 0, h.run("--backend", "sqlite", "add", "in the db"))
	require.FileExists(t, filepath.Join(h.dir, "ucc.db"))

	require.Equal(t, 0, h.run("--backend", "sqlite", "ls"))
	require.Contains(t, h.stdout.String(), "in the db")
}
