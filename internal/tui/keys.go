package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Left, Right, Up, Down key.Binding
	MoveLeft, MoveRight   key.Binding
	Toggle, Add, Edit     key.Binding
	Due, Comment, Rename  key.Binding
	SwitchBoard, Quit     key.Binding
}

var keys = keyMap{
	Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "column")),
	Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "column")),
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "card")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "card")),
	MoveLeft:    key.NewBinding(key.WithKeys("H", "shift+left"), key.WithHelp("H", "move ←")),
	MoveRight:   key.NewBinding(key.WithKeys("L", "shift+right"), key.WithHelp("L", "move →")),
	Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
	Add:         key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Due:         key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "due")),
	Comment:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "comment")),
	Rename:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename column")),
	SwitchBoard: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "personal/team")),
	Quit:        key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.MoveLeft, k.MoveRight, k.Toggle, k.Add, k.Edit, k.Comment, k.SwitchBoard, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.MoveLeft, k.MoveRight, k.Toggle},
		{k.Add, k.Edit, k.Due, k.Comment, k.Rename},
		{k.SwitchBoard, k.Quit},
	}
}
