package persist

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/ucc/internal/model"
	"github.com/idilsaglam/ucc/internal/store/kv"
)

var fixedNow = time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)

func sampleSnapshot() Snapshot {
	created := time.Date(2025, time.May, 30, 8, 0, 0, 123000000, time.UTC)
	return Snapshot{
		Tasks: []model.Task{
			{ID: "1", Name: "Write report", Status: "todo", CreatedAt: created},
			{
				ID: "2", Name: "Review", Description: "second pass", Assignee: model.Leo,
				Project: "p1", DueDate: model.NewDate(2025, time.June, 3), Status: "done",
				CreatedAt: created, Completed: true,
				Comments: []model.Comment{{
					ID: "c1", Text: "Looks good", Author: "Greg Van Horn",
					AuthorInitials: "GH", Timestamp: created.Add(time.Hour),
				}},
			},
		},
		TeamTasks: []model.Task{{ID: "3", Name: "Standup", Status: "team-todo", CreatedAt: created}},
		Projects:  []model.Project{{ID: "p1", Name: "Launch"}},
		LastSaved: fixedNow,
	}
}

func TestEncodeDecodeEncodeIsStable(t *testing.T) {
	cases := map[string]Snapshot{
		"empty":          {},
		"optional-unset": {Tasks: []model.Task{{ID: "x", Name: "bare", Status: "untitled"}}},
		"full":           sampleSnapshot(),
	}
	for name, snap := range cases {
		t.Run(name, func(t *testing.T) {
			first, err := Encode(snap)
			require.NoError(t, err)
			decoded, err := Decode(first)
			require.NoError(t, err)
			second, err := Encode(decoded)
			require.NoError(t, err)
			require.Equal(t, string(first), string(second))
		})
	}
}

func TestEncodeWireShape(t *testing.T) {
	b, err := Encode(Snapshot{})
	require.NoError(t, err)

	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))
	require.Equal(t, "[]", string(m["tasks"]))
	require.Equal(t, "[]", string(m["teamTasks"]))
	require.Equal(t, "[]", string(m["projects"]))
	require.Contains(t, m, "lastSaved")

	b, err = Encode(sampleSnapshot())
	require.NoError(t, err)
	var doc struct {
		Tasks []map[string]any `json:"tasks"`
	}
	require.NoError(t, json.Unmarshal(b, &doc))
	require.NotContains(t, doc.Tasks[0], "comments")
	require.Equal(t, "2025-06-03", doc.Tasks[1]["dueDate"])
	require.Equal(t, "leo", doc.Tasks[1]["assignee"])
}

func TestDecodeDefaultsMissingCollections(t *testing.T) {
	s, err := Decode([]byte(`{"tasks":[{"id":"1","name":"a","status":"todo"}]}`))
	require.NoError(t, err)
	require.Len(t, s.Tasks, 1)
	require.NotNil(t, s.TeamTasks)
	require.Empty(t, s.TeamTasks)
	require.NotNil(t, s.Projects)
}

func TestLoadSnapshotAbsentCorruptAndValid(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	repo := NewRepository(store).WithClock(func() time.Time { return fixedNow })

	s, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Empty(t, s.Tasks)

	require.NoError(t, store.Set(ctx, SnapshotKey, "{not json"))
	s, err = repo.LoadSnapshot(ctx)
	var rerr *ReadError
	require.True(t, errors.As(err, &rerr))
	require.Equal(t, SnapshotKey, rerr.Key)
	require.Empty(t, s.Tasks)
	require.Empty(t, s.TeamTasks)
	require.Empty(t, s.Projects)

	saved, err := repo.SaveSnapshot(ctx, sampleSnapshot())
	require.NoError(t, err)
	require.Equal(t, fixedNow, saved.LastSaved)

	loaded, err := repo.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, saved, loaded)
}

type failingStore struct{ kv.Memory }

func (f *failingStore) Set(context.Context, string, string) error {
	return errors.New("quota exceeded")
}

func TestSaveSnapshotWrapsWriteFailure(t *testing.T) {
	repo := NewRepository(&failingStore{})
	_, err := repo.SaveSnapshot(context.Background(), Snapshot{})
	var werr *WriteError
	require.True(t, errors.As(err, &werr))
	require.Equal(t, SnapshotKey, werr.Key)
	require.ErrorContains(t, err, "quota exceeded")
}

func TestColumnTitlesLegacyFallback(t *testing.T) {
	ctx := context.Background()

	t.Run("legacy used when personal absent", func(t *testing.T) {
		store := kv.NewMemory()
		require.NoError(t, store.Set(ctx, LegacyTitlesKey, `{"todo":"Inbox"}`))
		require.NoError(t, store.Set(ctx, TeamTitlesKey, `{"team-todo":"Backlog"}`))

		titles, err := NewRepository(store).LoadColumnTitles(ctx)
		require.NoError(t, err)
		got, ok := titles.Title(model.Personal, "todo")
		require.True(t, ok)
		require.Equal(t, "Inbox", got)
		got, _ = titles.Title(model.Team, "team-todo")
		require.Equal(t, "Backlog", got)
		_, ok = titles.Title(model.Team, "todo")
		require.False(t, ok, "legacy titles never apply to the team board")
	})

	t.Run("legacy ignored when personal present", func(t *testing.T) {
		store := kv.NewMemory()
		require.NoError(t, store.Set(ctx, LegacyTitlesKey, `{"todo":"Inbox"}`))
		require.NoError(t, store.Set(ctx, PersonalTitlesKey, `{"done":"Shipped"}`))

		titles, err := NewRepository(store).LoadColumnTitles(ctx)
		require.NoError(t, err)
		_, ok := titles.Title(model.Personal, "todo")
		require.False(t, ok)
		got, _ := titles.Title(model.Personal, "done")
		require.Equal(t, "Shipped", got)
	})

	t.Run("corrupt record skipped", func(t *testing.T) {
		store := kv.NewMemory()
		require.NoError(t, store.Set(ctx, PersonalTitlesKey, `[`))
		require.NoError(t, store.Set(ctx, TeamTitlesKey, `{"team-done":"Closed"}`))

		titles, err := NewRepository(store).LoadColumnTitles(ctx)
		var rerr *ReadError
		require.True(t, errors.As(err, &rerr))
		require.Equal(t, PersonalTitlesKey, rerr.Key)
		got, _ := titles.Title(model.Team, "team-done")
		require.Equal(t, "Closed", got)
	})
}

func TestSaveColumnTitlesWritesBothKeys(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	titles := ColumnTitles{}
	titles.Set(model.Personal, "todo", "Next")

	require.NoError(t, NewRepository(store).SaveColumnTitles(ctx, titles))
	v, ok, _ := store.Get(ctx, PersonalTitlesKey)
	require.True(t, ok)
	require.JSONEq(t, `{"todo":"Next"}`, v)
	v, ok, _ = store.Get(ctx, TeamTitlesKey)
	require.True(t, ok)
	require.JSONEq(t, `{}`, v)
}

func TestExportExcludesTeamTasks(t *testing.T) {
	exp := NewExport(sampleSnapshot(), fixedNow)
	require.Equal(t, "uncommon-command-center-2025-06-01.json", exp.FileName())

	b, err := exp.Marshal()
	require.NoError(t, err)
	var m map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &m))
	require.Len(t, m, 3)
	require.Contains(t, m, "tasks")
	require.Contains(t, m, "projects")
	require.Contains(t, m, "exportDate")
	require.NotContains(t, string(b), "Standup")
	require.Contains(t, string(b), "\n  \"tasks\"")
}
