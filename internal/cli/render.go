package cli

import (
	"fmt"
	"time"

	"github.com/idilsaglam/ucc/internal/board"
	"github.com/idilsaglam/ucc/internal/model"
	"github.com/idilsaglam/ucc/internal/ui"
)

// -------------- rendering helpers --------------

func header(v board.View) []string {
	t := ui.Current()
	name := "Personal board"
	if v.List == model.Team {
		name = "Team board"
	}
	done, total := v.Counts()
	return []string{
		fmt.Sprintf("%s  %s %d  %s %d  %s %d",
			ui.C(t.Title, name),
			ui.C(t.Success, t.SymDone), done,
			ui.C(t.Pending, t.SymPending), total-done,
			ui.C(t.Accent, "Total"), total,
		),
		ui.C(t.Muted, ui.ProgressBar(done, total, 28)),
		"",
	}
}

func boardLines(v board.View) []string {
	t := ui.Current()
	lines := header(v)
	for _, c := range v.Columns {
		lines = append(lines, ui.C(t.Column, fmt.Sprintf("%s (%d)", c.Column.Title, len(c.Tasks))))
		if len(c.Tasks) == 0 {
			lines = append(lines, ui.C(t.Muted, "  (empty)"))
		}
		for _, task := range c.Tasks {
			lines = append(lines, cardLine(task))
		}
		lines = append(lines, "")
	}
	if len(v.Unplaced) > 0 {
		lines = append(lines, ui.C(t.Column, fmt.Sprintf("Other (%d)", len(v.Unplaced))))
		for _, task := range v.Unplaced {
			lines = append(lines, cardLine(task)+" "+ui.Dim("["+task.Status+"]"))
		}
		lines = append(lines, "")
	}
	lines = append(lines, ui.C(t.Muted, "Tip: add with `ucc add \"Write report\"`"))
	return lines
}

func groupLines(v board.View) []string {
	t := ui.Current()
	var pend, done []model.Task
	collect := func(ts []model.Task) {
		for _, task := range ts {
			if task.Completed {
				done = append(done, task)
			} else {
				pend = append(pend, task)
			}
		}
	}
	for _, c := range v.Columns {
		collect(c.Tasks)
	}
	collect(v.Unplaced)

	lines := header(v)
	for _, g := range []struct {
		title string
		tasks []model.Task
	}{{"Pending", pend}, {"Done", done}} {
		lines = append(lines, ui.C(t.Accent, g.title))
		if len(g.tasks) == 0 {
			lines = append(lines, ui.C(t.Muted, "  (none)"))
		}
		for _, task := range g.tasks {
			lines = append(lines, cardLine(task))
		}
		lines = append(lines, "")
	}
	return lines[:len(lines)-1]
}

func cardLine(task model.Task) string {
	t := ui.Current()
	box, color := t.BoxUnchecked, t.Muted
	if task.Completed {
		box, color = t.BoxChecked, t.Success
	}
	line := fmt.Sprintf("  %s %s %s", ui.C(color, box), ui.Truncate(task.Name, 60), ui.C(t.Accent, task.Assignee.Initials()))
	if !task.DueDate.IsZero() {
		line += " " + ui.C(t.Pending, "due "+task.DueDate.Pretty())
	}
	return line + " " + ui.Dim(task.ID)
}

func taskLines(task model.Task, column, project string, now time.Time) []string {
	t := ui.Current()
	status := "open"
	if task.Completed {
		status = ui.C(t.Success, "completed")
	}
	assignee := task.Assignee.Initials()
	if task.Assignee != model.Unassigned {
		assignee += " " + task.Assignee.DisplayName()
	}
	lines := []string{
		ui.C(t.Title, task.Name),
		ui.Dim(task.ID),
		"",
		fmt.Sprintf("%s %s (%s)", ui.C(t.Muted, "Column:  "), column, status),
		fmt.Sprintf("%s %s", ui.C(t.Muted, "Due:     "), task.DueDate.Pretty()),
		fmt.Sprintf("%s %s", ui.C(t.Muted, "Assignee:"), assignee),
	}
	if project != "" {
		lines = append(lines, fmt.Sprintf("%s %s", ui.C(t.Muted, "Project: "), project))
	}
	lines = append(lines, fmt.Sprintf("%s %s", ui.C(t.Muted, "Created: "), task.CreatedAt.Local().Format("Jan 2, 2006 15:04")))
	if task.Description != "" {
		lines = append(lines, "", task.Description)
	}
	lines = append(lines, "", ui.C(t.Accent, fmt.Sprintf("Comments (%d)", len(task.Comments))))
	for _, c := range task.Comments {
		lines = append(lines, fmt.Sprintf("  %s %s %s",
			ui.C(t.Accent, c.AuthorInitials),
			ui.C(t.Muted, ui.RelativeTime(c.Timestamp, now)),
			c.Text,
		))
	}
	return lines
}
