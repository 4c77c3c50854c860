// Package persist maps the board's in-memory state to documents in a kv.Store.
package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/idilsaglam/ucc/internal/model"
)

// Storage keys. The names are shared with earlier versions of the board, so
// existing data keeps loading.
const (
	SnapshotKey       = "uncommonCommandCenter"
	PersonalTitlesKey = "personalColumnTitles"
	TeamTitlesKey     = "teamColumnTitles"
	LegacyTitlesKey   = "kanbanColumnTitles"
)

// Snapshot is everything the board saves in one write.
type Snapshot struct {
	Tasks     []model.Task    `json:"tasks"`
	TeamTasks []model.Task    `json:"teamTasks"`
	Projects  []model.Project `json:"projects"`
	LastSaved time.Time       `json:"lastSaved"`
}

// Normalize replaces nil collections with empty ones so encoded snapshots
// always carry [] rather than null.
func (s Snapshot) Normalize() Snapshot {
	if s.Tasks == nil {
		s.Tasks = []model.Task{}
	}
	if s.TeamTasks == nil {
		s.TeamTasks = []model.Task{}
	}
	if s.Projects == nil {
		s.Projects = []model.Project{}
	}
	return s
}

// Encode produces the stored form. Output is deterministic for a given snapshot.
func Encode(s Snapshot) ([]byte, error) {
	b, err := json.Marshal(s.Normalize())
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode parses a stored snapshot. Missing collections come back empty.
func Decode(b []byte) (Snapshot, error) {
	var raw struct {
		Tasks     []model.Task    `json:"tasks"`
		TeamTasks []model.Task    `json:"teamTasks"`
		Projects  []model.Project `json:"projects"`
		LastSaved string          `json:"lastSaved"`
	}
	if err := json.Unmarshal(bytes.TrimSpace(b), &raw); err != nil {
		return Snapshot{}.Normalize(), fmt.Errorf("json unmarshal: %w", err)
	}
	s := Snapshot{Tasks: raw.Tasks, TeamTasks: raw.TeamTasks, Projects: raw.Projects}
	if raw.LastSaved != "" {
		t, err := time.Parse(time.RFC3339Nano, raw.LastSaved)
		if err != nil {
			return Snapshot{}.Normalize(), fmt.Errorf("lastSaved: %w", err)
		}
		s.LastSaved = t
	}
	return s.Normalize(), nil
}
