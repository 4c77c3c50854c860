package model

import "time"

// Task is a card on one of the two boards.
// Optional string fields use "" for unset so snapshots stay flat.
type Task struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Assignee    Assignee  `json:"assignee"`
	Project     string    `json:"project"`
	DueDate     Date      `json:"dueDate"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	Completed   bool      `json:"completed"`
	Comments    []Comment `json:"comments,omitempty"`
}

// Clone returns a copy that shares no slices with t.
func (t Task) Clone() Task {
	if t.Comments != nil {
		t.Comments = append([]Comment(nil), t.Comments...)
	}
	return t
}

// Comment is an entry in a task's discussion thread.
type Comment struct {
	ID             string    `json:"id"`
	Text           string    `json:"text"`
	Author         string    `json:"author"`
	AuthorInitials string    `json:"authorInitials"`
	Timestamp      time.Time `json:"timestamp"`
}

// Project is referenced by tasks but otherwise barely used.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Column is a board column: a status key plus its display title.
type Column struct {
	Status string
	Title  string
}
