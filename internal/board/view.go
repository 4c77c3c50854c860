package board

import "github.com/idilsaglam/ucc/internal/model"

// ColumnView is one rendered column: its header and cards.
type ColumnView struct {
	Column model.Column
	Tasks  []model.Task
}

// View is a read-only projection of one board. Renderers work from a View and
// never touch the store directly.
type View struct {
	List     model.List
	Columns  []ColumnView
	Unplaced []model.Task // statuses no column renders
}

// Counts returns completed and total tasks across columns and unplaced cards.
func (v View) Counts() (done, total int) {
	count := func(ts []model.Task) {
		for _, t := range ts {
			total++
			if t.Completed {
				done++
			}
		}
	}
	for _, c := range v.Columns {
		count(c.Tasks)
	}
	count(v.Unplaced)
	return done, total
}

// Columns returns the board's columns with title overrides applied.
func (s *Store) Columns(list model.List) []model.Column {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.columnsLocked(list)
}

func (s *Store) columnsLocked(list model.List) []model.Column {
	cols := list.DefaultColumns()
	for i := range cols {
		if t, ok := s.titles.Title(list, cols[i].Status); ok {
			cols[i].Title = t
		}
	}
	return cols
}

// Board groups list's tasks by column, preserving insertion order.
func (s *Store) Board(list model.List) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	cols := s.columnsLocked(list)
	v := View{List: list, Columns: make([]ColumnView, len(cols))}
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		v.Columns[i] = ColumnView{Column: c, Tasks: []model.Task{}}
		idx[c.Status] = i
	}
	for _, t := range s.lists[list] {
		if i, ok := idx[t.Status]; ok {
			v.Columns[i].Tasks = append(v.Columns[i].Tasks, t.Clone())
		} else {
			v.Unplaced = append(v.Unplaced, t.Clone())
		}
	}
	return v
}

// Neighbor returns the status of the column offset steps away from status,
// or "" when that would leave the board.
func Neighbor(cols []model.Column, status string, offset int) string {
	for i, c := range cols {
		if c.Status != status {
			continue
		}
		j := i + offset
		if j < 0 || j >= len(cols) {
			return ""
		}
		return cols[j].Status
	}
	return ""
}
