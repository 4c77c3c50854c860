package model

import (
	"fmt"
	"strings"
)

// List names one of the two task lists.
type List string

const (
	Personal List = "personal"
	Team     List = "team"
)

// Lists in lookup order.
var Lists = []List{Personal, Team}

// ParseList accepts "personal"/"team" (and "me"/"my" as a shorthand).
func ParseList(s string) (List, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "personal", "me", "my", "":
		return Personal, nil
	case "team":
		return Team, nil
	}
	return "", fmt.Errorf("unknown board %q (want personal or team)", s)
}

// DefaultStatus is the column new tasks land in when the caller gives none.
func (l List) DefaultStatus() string {
	if l == Team {
		return "team-todo"
	}
	return "untitled"
}

// DefaultColumns returns the built-in columns for the board, left to right.
func (l List) DefaultColumns() []Column {
	if l == Team {
		return []Column{
			{Status: "team-todo", Title: "To Do"},
			{Status: "team-in-progress", Title: "In Progress"},
			{Status: "team-review", Title: "Review"},
			{Status: "team-done", Title: "Done"},
		}
	}
	return []Column{
		{Status: "untitled", Title: "Untitled"},
		{Status: "todo", Title: "To Do"},
		{Status: "in-progress", Title: "In Progress"},
		{Status: "done", Title: "Done"},
	}
}

func (l List) String() string { return string(l) }

// Field is a task attribute editable after creation.
type Field string

const (
	FieldName        Field = "name"
	FieldDescription Field = "description"
	FieldDueDate     Field = "dueDate"
)

// ParseField maps user input to an editable field.
func ParseField(s string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "title":
		return FieldName, nil
	case "description", "desc":
		return FieldDescription, nil
	case "duedate", "due", "due-date":
		return FieldDueDate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}
