package persist

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/idilsaglam/ucc/internal/model"
)

// Export is the downloadable backup. Team tasks and column titles are not
// part of it.
type Export struct {
	Tasks      []model.Task    `json:"tasks"`
	Projects   []model.Project `json:"projects"`
	ExportDate time.Time       `json:"exportDate"`
}

func NewExport(s Snapshot, now time.Time) Export {
	s = s.Normalize()
	return Export{Tasks: s.Tasks, Projects: s.Projects, ExportDate: now.UTC()}
}

// FileName is uncommon-command-center-<YYYY-MM-DD>.json for the export date.
func (e Export) FileName() string {
	return fmt.Sprintf("uncommon-command-center-%s.json", e.ExportDate.Format("2006-01-02"))
}

// Marshal renders the export with two-space indentation.
func (e Export) Marshal() ([]byte, error) {
	b, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}
