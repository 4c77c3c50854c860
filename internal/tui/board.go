// Package tui is the interactive kanban board.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/ucc/internal/board"
	"github.com/idilsaglam/ucc/internal/model"
	"github.com/idilsaglam/ucc/internal/ui"
)

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEditName
	modeEditDue
	modeComment
	modeRename
)

// Model is the Bubble Tea model for one session on the board. It holds only
// cursor and input state; tasks live in the store.
type Model struct {
	store *board.Store
	list  model.List

	col, row int

	mode   mode
	ti     textinput.Model
	editID string

	flash    string
	flashErr bool

	width, height int
	help          help.Model
	now           func() time.Time
}

// New opens the board on list with the first column focused.
func New(store *board.Store, list model.List) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	h := help.New()
	h.Styles.ShortKey = helpStyle
	h.Styles.ShortDesc = helpStyle

	return Model{
		store:  store,
		list:   list,
		ti:     ti,
		width:  100,
		height: 30,
		help:   h,
		now:    time.Now,
	}
}

// Run starts the board in the alternate screen and flushes pending edits
// once the program exits, whichever way it exits.
func Run(store *board.Store, list model.List) error {
	defer store.Flush()
	_, err := tea.NewProgram(New(store, list), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
		m.help.Width = ws.Width
		return m, nil
	}
	if m.mode != modeBrowse {
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.flash = ""
	v := m.store.Board(m.list)

	switch {
	case key.Matches(km, keys.Quit):
		m.store.Flush()
		return m, tea.Quit
	case key.Matches(km, keys.Left):
		m.focusColumn(v, m.col-1)
	case key.Matches(km, keys.Right):
		m.focusColumn(v, m.col+1)
	case key.Matches(km, keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(km, keys.Down):
		if m.row < len(v.Columns[m.col].Tasks)-1 {
			m.row++
		}
	case key.Matches(km, keys.MoveLeft):
		m.moveSelected(v, -1)
	case key.Matches(km, keys.MoveRight):
		m.moveSelected(v, 1)
	case key.Matches(km, keys.Toggle):
		if t, ok := m.selected(v); ok {
			if done, _ := m.store.ToggleCompletion(t.ID, m.list); done {
				m.setFlash("completed "+ui.Truncate(t.Name, 30), false)
			}
		}
	case key.Matches(km, keys.Add):
		return m.startInput(modeAdd, "", "", "New task name...")
	case key.Matches(km, keys.Edit):
		if t, ok := m.selected(v); ok {
			return m.startInput(modeEditName, t.ID, t.Name, "Task name...")
		}
	case key.Matches(km, keys.Due):
		if t, ok := m.selected(v); ok {
			return m.startInput(modeEditDue, t.ID, t.DueDate.String(), "YYYY-MM-DD (empty clears)")
		}
	case key.Matches(km, keys.Comment):
		if t, ok := m.selected(v); ok {
			return m.startInput(modeComment, t.ID, "", "Write a comment...")
		}
	case key.Matches(km, keys.Rename):
		return m.startInput(modeRename, "", v.Columns[m.col].Column.Title, "Column title...")
	case key.Matches(km, keys.SwitchBoard):
		m.list = otherList(m.list)
		m.col, m.row = 0, 0
	}
	return m, nil
}

func (m Model) startInput(md mode, id, value, placeholder string) (tea.Model, tea.Cmd) {
	m.mode = md
	m.editID = id
	m.flash = ""
	m.ti.Placeholder = placeholder
	m.ti.SetValue(value)
	m.ti.CursorEnd()
	cmd := m.ti.Focus()
	return m, cmd
}

func (m Model) stopInput() Model {
	m.mode = modeBrowse
	m.editID = ""
	m.ti.SetValue("")
	m.ti.Blur()
	return m
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			m.store.Flush()
			return m, tea.Quit
		case "esc":
			if m.mode == modeEditName {
				m.store.Flush()
			}
			return m.stopInput(), nil
		case "enter":
			return m.submit()
		}
	}

	before := m.ti.Value()
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	// names are written through as they are typed; the store coalesces saves
	if m.mode == modeEditName && m.ti.Value() != before {
		if _, err := m.store.UpdateField(m.editID, m.list, model.FieldName, m.ti.Value()); err != nil {
			m.setFlash(err.Error(), true)
		}
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	value := m.ti.Value()
	v := m.store.Board(m.list)

	switch m.mode {
	case modeAdd:
		status := v.Columns[m.col].Column.Status
		t, err := m.store.Create(m.list, board.Draft{Name: value, Status: status})
		if err != nil {
			var verr *model.ValidationError
			if errors.As(err, &verr) {
				m.setFlash(verr.Reason, true)
			} else {
				m.setFlash(err.Error(), true)
			}
			return m, nil
		}
		m = m.stopInput()
		m.row = len(m.store.Board(m.list).Columns[m.col].Tasks) - 1
		m.setFlash("added "+ui.Truncate(t.Name, 30), false)
		return m, nil

	case modeEditName:
		m.store.Flush()

	case modeEditDue:
		if _, err := m.store.UpdateField(m.editID, m.list, model.FieldDueDate, value); err != nil {
			m.setFlash("due date must look like 2025-06-30", true)
			return m, nil
		}
		m.store.Flush()

	case modeComment:
		if _, ok := m.store.AppendComment(m.editID, m.list, value); ok {
			m.setFlash("comment added", false)
		}

	case modeRename:
		c := v.Columns[m.col].Column
		if m.store.RenameColumn(m.list, c.Status, value) {
			m.setFlash(fmt.Sprintf("renamed %q", c.Title), false)
		}
	}
	return m.stopInput(), nil
}

func (m *Model) setFlash(s string, isErr bool) {
	m.flash, m.flashErr = s, isErr
}

func (m *Model) focusColumn(v board.View, col int) {
	if col < 0 || col >= len(v.Columns) {
		return
	}
	m.col = col
	if n := len(v.Columns[col].Tasks); m.row >= n {
		m.row = max(n-1, 0)
	}
}

// moveSelected shifts the selected card one column left or right and keeps
// it selected in its new column.
func (m *Model) moveSelected(v board.View, offset int) {
	t, ok := m.selected(v)
	if !ok {
		return
	}
	cols := make([]model.Column, len(v.Columns))
	for i, c := range v.Columns {
		cols[i] = c.Column
	}
	target := board.Neighbor(cols, t.Status, offset)
	if target == "" || !m.store.MoveStatus(t.ID, m.list, target) {
		return
	}
	m.col += offset
	after := m.store.Board(m.list).Columns[m.col].Tasks
	for i := range after {
		if after[i].ID == t.ID {
			m.row = i
		}
	}
}

func (m Model) selected(v board.View) (model.Task, bool) {
	if m.col >= len(v.Columns) {
		return model.Task{}, false
	}
	tasks := v.Columns[m.col].Tasks
	if m.row < 0 || m.row >= len(tasks) {
		return model.Task{}, false
	}
	return tasks[m.row], true
}

func otherList(l model.List) model.List {
	if l == model.Team {
		return model.Personal
	}
	return model.Team
}

func (m Model) View() string {
	v := m.store.Board(m.list)

	var b strings.Builder
	b.WriteString(m.header(v))
	b.WriteString("\n\n")
	b.WriteString(m.columns(v))
	if n := len(v.Unplaced); n > 0 {
		b.WriteString("\n" + mutedStyle.Render(fmt.Sprintf("%d task(s) in columns this board does not show", n)))
	}
	if t, ok := m.selected(v); ok {
		b.WriteString("\n" + m.detail(t))
	}
	if m.mode != modeBrowse {
		b.WriteString("\n" + inputBarStyle.Render(m.inputTitle()+"\n"+m.ti.View()))
	}
	if m.flash != "" {
		style := successStyle
		if m.flashErr {
			style = errorStyle
		}
		b.WriteString("\n" + style.Render(m.flash))
	}
	b.WriteString("\n" + m.help.View(keys))
	return b.String()
}

func (m Model) header(v board.View) string {
	name := "Personal board"
	if v.List == model.Team {
		name = "Team board"
	}
	done, total := v.Counts()
	return fmt.Sprintf("%s   %s %d  %s %d  %s",
		titleStyle.Render(name),
		successStyle.Render("✔"), done,
		pendingStyle.Render("•"), total-done,
		accentStyle.Render(ui.ProgressBar(done, total, 20)),
	)
}

func (m Model) columns(v board.View) string {
	n := len(v.Columns)
	width := (m.width - 2) / max(n, 1)
	inner := max(width-4, 16)

	rendered := make([]string, n)
	for ci, cv := range v.Columns {
		lines := []string{titleStyle.Render(fmt.Sprintf("%s (%d)", ui.Truncate(cv.Column.Title, inner-5), len(cv.Tasks)))}
		if len(cv.Tasks) == 0 {
			lines = append(lines, mutedStyle.Render("empty"))
		}
		for ti, t := range cv.Tasks {
			lines = append(lines, m.card(t, inner, ci == m.col && ti == m.row))
		}
		style := columnStyle
		if ci == m.col {
			style = focusedColumnStyle
		}
		rendered[ci] = style.Width(inner).Render(strings.Join(lines, "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) card(t model.Task, width int, selected bool) string {
	box := mutedStyle.Render(boxUnchecked)
	name := ui.Truncate(t.Name, width-6)
	if t.Completed {
		box = successStyle.Render(boxChecked)
		name = doneStyle.Render(name)
	}
	line := fmt.Sprintf("%s %s %s", box, name, accentStyle.Render(t.Assignee.Initials()))
	if selected {
		return selectedStyle.Render("> ") + line
	}
	return "  " + line
}

func (m Model) detail(t model.Task) string {
	lines := []string{
		titleStyle.Render(t.Name),
		fmt.Sprintf("%s %s   %s %s   %s %s",
			mutedStyle.Render("due"), t.DueDate.Pretty(),
			mutedStyle.Render("assignee"), t.Assignee.Initials(),
			mutedStyle.Render("id"), t.ID,
		),
	}
	if t.Description != "" {
		lines = append(lines, t.Description)
	}
	if t.Project != "" {
		lines = append(lines, mutedStyle.Render("project ")+t.Project)
	}
	if len(t.Comments) > 0 {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d comment(s)", len(t.Comments))))
		for _, c := range t.Comments {
			lines = append(lines, fmt.Sprintf("  %s %s  %s",
				accentStyle.Render(c.AuthorInitials),
				mutedStyle.Render(ui.RelativeTime(c.Timestamp, m.now())),
				c.Text,
			))
		}
	}
	return columnStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) inputTitle() string {
	switch m.mode {
	case modeAdd:
		return "Add task"
	case modeEditName:
		return "Edit name"
	case modeEditDue:
		return "Due date"
	case modeComment:
		return "Comment"
	case modeRename:
		return "Rename column"
	}
	return ""
}
