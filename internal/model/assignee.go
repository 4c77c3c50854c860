package model

import "strings"

// Assignee is one of a fixed set of people; "" means unassigned.
type Assignee string

const (
	Unassigned Assignee = ""
	Greg       Assignee = "greg"
	Leo        Assignee = "leo"
	Nikah      Assignee = "nikah"
)

var assignees = map[Assignee]struct{ name, initials string }{
	Greg:  {"Greg Van Horn", "GH"},
	Leo:   {"Leo Bergonzi", "LB"},
	Nikah: {"Nikah Pardinas", "NP"},
}

// Assignees lists the known people in display order.
func Assignees() []Assignee { return []Assignee{Greg, Leo, Nikah} }

// Valid reports whether a is unset or a known person.
func (a Assignee) Valid() bool {
	if a == Unassigned {
		return true
	}
	_, ok := assignees[a]
	return ok
}

// Initials falls back to "UN" for unset or unknown people.
func (a Assignee) Initials() string {
	if p, ok := assignees[a]; ok {
		return p.initials
	}
	return "UN"
}

func (a Assignee) DisplayName() string {
	if p, ok := assignees[a]; ok {
		return p.name
	}
	return string(a)
}

// ParseAssignee normalises case; validity is checked separately.
func ParseAssignee(s string) Assignee {
	return Assignee(strings.ToLower(strings.TrimSpace(s)))
}
