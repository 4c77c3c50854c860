package persist

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/idilsaglam/ucc/internal/model"
	"github.com/idilsaglam/ucc/internal/store/kv"
)

// Repository reads and writes board documents in a kv.Store.
type Repository struct {
	kv  kv.Store
	now func() time.Time
}

func NewRepository(store kv.Store) *Repository {
	return &Repository{kv: store, now: time.Now}
}

// WithClock overrides the time source used for lastSaved.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

// LoadSnapshot never fails hard: an absent slot is an empty snapshot with a
// nil error, and an unreadable one is an empty snapshot plus *ReadError.
func (r *Repository) LoadSnapshot(ctx context.Context) (Snapshot, error) {
	raw, ok, err := r.kv.Get(ctx, SnapshotKey)
	if err != nil {
		return Snapshot{}.Normalize(), &ReadError{Key: SnapshotKey, Err: err}
	}
	if !ok {
		return Snapshot{}.Normalize(), nil
	}
	s, err := Decode([]byte(raw))
	if err != nil {
		return Snapshot{}.Normalize(), &ReadError{Key: SnapshotKey, Err: err}
	}
	return s, nil
}

// SaveSnapshot stamps lastSaved and writes the snapshot. It returns the
// stamped snapshot so callers can compare against what was stored.
func (r *Repository) SaveSnapshot(ctx context.Context, s Snapshot) (Snapshot, error) {
	s.LastSaved = r.now().UTC()
	b, err := Encode(s)
	if err != nil {
		return s, &WriteError{Key: SnapshotKey, Err: err}
	}
	if err := r.kv.Set(ctx, SnapshotKey, string(b)); err != nil {
		return s, &WriteError{Key: SnapshotKey, Err: err}
	}
	return s.Normalize(), nil
}

// ColumnTitles holds per-board display-title overrides keyed by status.
type ColumnTitles map[model.List]map[string]string

// Title returns the override for status on list, if any.
func (c ColumnTitles) Title(list model.List, status string) (string, bool) {
	t, ok := c[list][status]
	return t, ok
}

// Set records an override, allocating maps as needed.
func (c ColumnTitles) Set(list model.List, status, title string) {
	if c[list] == nil {
		c[list] = make(map[string]string)
	}
	c[list][status] = title
}

// LoadColumnTitles reads both boards' overrides. The legacy single-board key
// is only consulted for the personal board when the personal key is absent.
// Records that fail to parse are skipped; what could be read is still returned
// alongside the joined *ReadErrors.
func (r *Repository) LoadColumnTitles(ctx context.Context) (ColumnTitles, error) {
	titles := ColumnTitles{}
	var errs []error

	personal, ok, err := r.loadTitles(ctx, PersonalTitlesKey)
	switch {
	case err != nil:
		errs = append(errs, err)
	case ok:
		titles[model.Personal] = personal
	}

	team, teamOK, err := r.loadTitles(ctx, TeamTitlesKey)
	if err != nil {
		errs = append(errs, err)
	} else if teamOK {
		titles[model.Team] = team
	}

	if !ok {
		legacy, legacyOK, err := r.loadTitles(ctx, LegacyTitlesKey)
		if err != nil {
			errs = append(errs, err)
		} else if legacyOK {
			titles[model.Personal] = legacy
		}
	}
	return titles, errors.Join(errs...)
}

// loadTitles reports ok for any present record, parseable or not.
func (r *Repository) loadTitles(ctx context.Context, key string) (map[string]string, bool, error) {
	raw, ok, err := r.kv.Get(ctx, key)
	if err != nil {
		return nil, false, &ReadError{Key: key, Err: err}
	}
	if !ok {
		return nil, false, nil
	}
	m := map[string]string{}
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		return nil, true, &ReadError{Key: key, Err: err}
	}
	return m, true, nil
}

// SaveColumnTitles writes both boards' records, empty ones included.
func (r *Repository) SaveColumnTitles(ctx context.Context, titles ColumnTitles) error {
	var errs []error
	for _, l := range []struct {
		list model.List
		key  string
	}{{model.Personal, PersonalTitlesKey}, {model.Team, TeamTitlesKey}} {
		m := titles[l.list]
		if m == nil {
			m = map[string]string{}
		}
		b, err := json.Marshal(m)
		if err != nil {
			errs = append(errs, &WriteError{Key: l.key, Err: err})
			continue
		}
		if err := r.kv.Set(ctx, l.key, string(b)); err != nil {
			errs = append(errs, &WriteError{Key: l.key, Err: err})
		}
	}
	return errors.Join(errs...)
}
