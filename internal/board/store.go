// Package board holds the task store: both task lists, the project list and
// column titles, and every mutation the user can make to them.
package board

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/idilsaglam/ucc/internal/model"
	"github.com/idilsaglam/ucc/internal/persist"
)

const (
	DefaultSaveDelay      = 500 * time.Millisecond
	DefaultAuthorName     = "Greg Van Horn"
	DefaultAuthorInitials = "GH"

	writeTimeout = 5 * time.Second
)

// Options tune a Store. Zero values pick the defaults.
type Options struct {
	SaveDelay      time.Duration
	AuthorName     string
	AuthorInitials string
	Logger         *log.Logger
	Now            func() time.Time
}

// Draft is the user input for a new task.
type Draft struct {
	Name        string
	Description string
	Assignee    model.Assignee
	Project     string
	DueDate     model.Date
	Status      string
}

// Store is the single source of truth for board state. Construct one per
// process and hand it to whatever handles user actions.
type Store struct {
	repo     *persist.Repository
	log      *log.Logger
	now      func() time.Time
	author   string
	initials string

	mu       sync.Mutex
	lists    map[model.List][]model.Task
	projects []model.Project
	titles   persist.ColumnTitles

	edits *debouncer
}

func New(repo *persist.Repository, opt Options) *Store {
	if opt.SaveDelay <= 0 {
		opt.SaveDelay = DefaultSaveDelay
	}
	if opt.AuthorName == "" {
		opt.AuthorName = DefaultAuthorName
	}
	if opt.AuthorInitials == "" {
		opt.AuthorInitials = DefaultAuthorInitials
	}
	if opt.Logger == nil {
		opt.Logger = log.StandardLogger()
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	s := &Store{
		repo:     repo,
		log:      opt.Logger,
		now:      opt.Now,
		author:   opt.AuthorName,
		initials: opt.AuthorInitials,
		lists:    map[model.List][]model.Task{model.Personal: {}, model.Team: {}},
		projects: []model.Project{},
		titles:   persist.ColumnTitles{},
	}
	s.edits = newDebouncer(opt.SaveDelay, s.save)
	return s
}

// Load replaces in-memory state with what is persisted. Unreadable data is
// logged and leaves the store empty; it is never an error for the caller.
func (s *Store) Load(ctx context.Context) {
	snap, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		s.log.WithError(err).Warn("snapshot unreadable, starting empty")
	}
	titles, err := s.repo.LoadColumnTitles(ctx)
	if err != nil {
		s.log.WithError(err).Warn("column titles unreadable")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists[model.Personal] = snap.Tasks
	s.lists[model.Team] = snap.TeamTasks
	s.projects = snap.Projects
	s.titles = titles
	s.log.WithFields(log.Fields{
		"personal": len(snap.Tasks),
		"team":     len(snap.TeamTasks),
		"projects": len(snap.Projects),
	}).Debug("store loaded")
}

// Create validates d and appends a new task to list. An empty name (after
// trimming) or an unknown assignee is rejected without touching state.
func (s *Store) Create(list model.List, d Draft) (model.Task, error) {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return model.Task{}, &model.ValidationError{Field: "name", Reason: "please enter a task name"}
	}
	if !d.Assignee.Valid() {
		return model.Task{}, &model.ValidationError{Field: "assignee", Reason: fmt.Sprintf("unknown assignee %q", d.Assignee)}
	}
	status := strings.TrimSpace(d.Status)
	if status == "" {
		status = list.DefaultStatus()
	}

	s.mu.Lock()
	now := s.now().UTC().Truncate(time.Millisecond)
	t := model.Task{
		ID:          s.newTaskIDLocked(list, now),
		Name:        name,
		Description: strings.TrimSpace(d.Description),
		Assignee:    d.Assignee,
		Project:     strings.TrimSpace(d.Project),
		DueDate:     d.DueDate,
		Status:      status,
		CreatedAt:   now,
	}
	s.lists[list] = append(s.lists[list], t)
	s.mu.Unlock()

	s.log.WithFields(log.Fields{"list": list, "task": t.ID, "status": status}).Info("task created")
	s.save()
	return t.Clone(), nil
}

func (s *Store) newTaskIDLocked(list model.List, now time.Time) string {
	for {
		id := model.NewID(now)
		if s.indexLocked(list, id) < 0 {
			return id
		}
	}
}

func (s *Store) indexLocked(list model.List, id string) int {
	for i := range s.lists[list] {
		if s.lists[list][i].ID == id {
			return i
		}
	}
	return -1
}

// FindByID searches the personal list first, then the team list.
func (s *Store) FindByID(id string) (model.Task, model.List, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range model.Lists {
		if i := s.indexLocked(l, id); i >= 0 {
			return s.lists[l][i].Clone(), l, true
		}
	}
	return model.Task{}, "", false
}

// Get looks id up in one list only.
func (s *Store) Get(list model.List, id string) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexLocked(list, id); i >= 0 {
		return s.lists[list][i].Clone(), true
	}
	return model.Task{}, false
}

// MoveStatus reassigns the task's column. Moving to the column it is already
// in, or naming an id that is not in list, changes nothing and writes nothing.
func (s *Store) MoveStatus(id string, list model.List, status string) bool {
	s.mu.Lock()
	i := s.indexLocked(list, id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	old := s.lists[list][i].Status
	if old == status {
		s.mu.Unlock()
		return false
	}
	s.lists[list][i].Status = status
	s.mu.Unlock()

	s.log.WithFields(log.Fields{"list": list, "task": id, "from": old, "to": status}).Info("task moved")
	s.save()
	return true
}

// ToggleCompletion flips the completion flag and returns the new value.
func (s *Store) ToggleCompletion(id string, list model.List) (completed, ok bool) {
	s.mu.Lock()
	i := s.indexLocked(list, id)
	if i < 0 {
		s.mu.Unlock()
		return false, false
	}
	s.lists[list][i].Completed = !s.lists[list][i].Completed
	completed = s.lists[list][i].Completed
	s.mu.Unlock()

	s.log.WithFields(log.Fields{"list": list, "task": id, "completed": completed}).Info("task completion toggled")
	s.save()
	return completed, true
}

// UpdateField sets name, description or due date. Unlike Create it accepts
// an empty name. The write is debounced per task and field; call Flush when
// the edit surface closes.
func (s *Store) UpdateField(id string, list model.List, field model.Field, value string) (bool, error) {
	var due model.Date
	switch field {
	case model.FieldName, model.FieldDescription:
	case model.FieldDueDate:
		d, err := model.ParseDate(value)
		if err != nil {
			return false, err
		}
		due = d
	default:
		return false, fmt.Errorf("%w: %q", model.ErrUnknownField, field)
	}

	s.mu.Lock()
	i := s.indexLocked(list, id)
	if i < 0 {
		s.mu.Unlock()
		return false, nil
	}
	t := &s.lists[list][i]
	switch field {
	case model.FieldName:
		t.Name = value
	case model.FieldDescription:
		t.Description = value
	case model.FieldDueDate:
		t.DueDate = due
	}
	s.mu.Unlock()

	s.log.WithFields(log.Fields{"list": list, "task": id, "field": field}).Debug("task field edited")
	s.edits.Trigger(string(list) + "/" + id + "/" + string(field))
	return true, nil
}

// AppendComment adds a comment by the configured author. Blank text is ignored.
func (s *Store) AppendComment(id string, list model.List, text string) (model.Comment, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Comment{}, false
	}

	s.mu.Lock()
	i := s.indexLocked(list, id)
	if i < 0 {
		s.mu.Unlock()
		return model.Comment{}, false
	}
	now := s.now().UTC().Truncate(time.Millisecond)
	c := model.Comment{
		ID:             model.NewID(now),
		Text:           text,
		Author:         s.author,
		AuthorInitials: s.initials,
		Timestamp:      now,
	}
	s.lists[list][i].Comments = append(s.lists[list][i].Comments, c)
	s.mu.Unlock()

	s.log.WithFields(log.Fields{"list": list, "task": id, "comment": c.ID}).Info("comment added")
	s.save()
	return c, true
}

// AddProject registers a project tasks can refer to by id.
func (s *Store) AddProject(name string) (model.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return model.Project{}, &model.ValidationError{Field: "project", Reason: "please enter a project name"}
	}
	s.mu.Lock()
	p := model.Project{ID: model.NewID(s.now()), Name: name}
	s.projects = append(s.projects, p)
	s.mu.Unlock()

	s.log.WithField("project", p.ID).Info("project added")
	s.save()
	return p, nil
}

// RenameColumn overrides a column's display title. Blank or unchanged titles
// are ignored. Both boards' title records are written together.
func (s *Store) RenameColumn(list model.List, status, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}
	s.mu.Lock()
	if current := s.columnTitleLocked(list, status); current == title {
		s.mu.Unlock()
		return false
	}
	s.titles.Set(list, status, title)
	titles := cloneTitles(s.titles)
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := s.repo.SaveColumnTitles(ctx, titles); err != nil {
		s.log.WithError(err).Error("saving column titles")
	}
	s.log.WithFields(log.Fields{"list": list, "status": status, "title": title}).Info("column renamed")
	return true
}

func (s *Store) columnTitleLocked(list model.List, status string) string {
	if t, ok := s.titles.Title(list, status); ok {
		return t
	}
	for _, c := range list.DefaultColumns() {
		if c.Status == status {
			return c.Title
		}
	}
	return status
}

func cloneTitles(in persist.ColumnTitles) persist.ColumnTitles {
	out := persist.ColumnTitles{}
	for l, m := range in {
		for k, v := range m {
			out.Set(l, k, v)
		}
	}
	return out
}

// Tasks returns a copy of list in insertion order.
func (s *Store) Tasks(list model.List) []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.lists[list])
}

func (s *Store) Projects() []model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Project{}, s.projects...)
}

// Snapshot copies the persisted part of the store.
func (s *Store) Snapshot() persist.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() persist.Snapshot {
	return persist.Snapshot{
		Tasks:     cloneTasks(s.lists[model.Personal]),
		TeamTasks: cloneTasks(s.lists[model.Team]),
		Projects:  append([]model.Project{}, s.projects...),
	}
}

func cloneTasks(in []model.Task) []model.Task {
	out := make([]model.Task, len(in))
	for i := range in {
		out[i] = in[i].Clone()
	}
	return out
}

// Export builds the downloadable backup of the personal board.
func (s *Store) Export(now time.Time) persist.Export {
	return persist.NewExport(s.Snapshot(), now)
}

// PendingWrites reports how many debounced edits have not been written yet.
func (s *Store) PendingWrites() int { return s.edits.Pending() }

// Flush writes any debounced edits immediately.
func (s *Store) Flush() {
	if s.edits.Flush() {
		s.log.Debug("pending edits flushed")
	}
}

// Close flushes pending edits. The store stays usable afterwards.
func (s *Store) Close() error {
	s.Flush()
	return nil
}

// save writes the snapshot. Failures are logged; the in-memory change stands
// and becomes durable with the next successful write.
func (s *Store) save() {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if _, err := s.repo.SaveSnapshot(ctx, s.snapshotLocked()); err != nil {
		var werr *persist.WriteError
		if errors.As(err, &werr) {
			s.log.WithError(werr.Err).WithField("key", werr.Key).Error("saving snapshot")
			return
		}
		s.log.WithError(err).Error("saving snapshot")
		return
	}
	s.log.Debug("snapshot saved")
}
