package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func backends(t *testing.T) map[string]Store {
	t.Helper()

	file, err := NewFile(t.TempDir())
	require.NoError(t, err)

	lite, err := NewSQLite(filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = lite.Close() })

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	rds := NewRedis(client, "")
	t.Cleanup(func() { _ = rds.Close() })

	return map[string]Store{
		"file":   file,
		"sqlite": lite,
		"redis":  rds,
		"memory": NewMemory(),
	}
}

func TestStoresRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "uncommonCommandCenter")
			require.NoError(t, err)
			require.False(t, ok, "fresh store should report absence")

			require.NoError(t, s.Set(ctx, "uncommonCommandCenter", `{"tasks":[]}`))
			v, ok, err := s.Get(ctx, "uncommonCommandCenter")
			require.NoError(t, err)
			require.True(t, ok)
			require.Equal(t, `{"tasks":[]}`, v)

			require.NoError(t, s.Set(ctx, "uncommonCommandCenter", `{"tasks":[1]}`))
			v, _, err = s.Get(ctx, "uncommonCommandCenter")
			require.NoError(t, err)
			require.Equal(t, `{"tasks":[1]}`, v)

			require.NoError(t, s.Delete(ctx, "uncommonCommandCenter"))
			_, ok, err = s.Get(ctx, "uncommonCommandCenter")
			require.NoError(t, err)
			require.False(t, ok)

			// deleting twice is fine
			require.NoError(t, s.Delete(ctx, "uncommonCommandCenter"))
		})
	}
}

func TestFileStoreLayout(t *testing.T) {
	dir := t.TempDir()
	f, err := NewFile(dir)
	require.NoError(t, err)

	require.NoError(t, f.Set(context.Background(), "teamColumnTitles", `{"team-todo":"Backlog"}`))
	b, err := os.ReadFile(filepath.Join(dir, "teamColumnTitles.json"))
	require.NoError(t, err)
	require.Equal(t, `{"team-todo":"Backlog"}`, string(b))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")

	_, _, err = f.Get(context.Background(), "../escape")
	require.Error(t, err)
}

func TestRedisPrefix(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	r := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "board:")
	t.Cleanup(func() { _ = r.Close() })

	require.NoError(t, r.Set(context.Background(), "personalColumnTitles", "{}"))
	got, err := mr.Get("board:personalColumnTitles")
	require.NoError(t, err)
	require.Equal(t, "{}", got)
	require.Zero(t, mr.TTL("board:personalColumnTitles"))
}

func TestSQLiteSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.db")
	s, err := NewSQLite(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(context.Background(), "k", "v"))
	require.NoError(t, s.Close())

	s2, err := NewSQLite(path)
	require.NoError(t, err)
	defer s2.Close()
	v, ok, err := s2.Get(context.Background(), "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "v", v)
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()

	s, err := Open(ctx, Options{Dir: t.TempDir()})
	require.NoError(t, err)
	require.IsType(t, &File{}, s)

	s, err = Open(ctx, Options{Backend: "sqlite", Dir: t.TempDir()})
	require.NoError(t, err)
	require.IsType(t, &SQLite{}, s)
	require.NoError(t, s.Close())

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	s, err = Open(ctx, Options{Backend: "redis", RedisURL: "redis://" + mr.Addr()})
	require.NoError(t, err)
	require.IsType(t, &Redis{}, s)
	require.NoError(t, s.Close())

	s, err = Open(ctx, Options{Backend: "memory"})
	require.NoError(t, err)
	require.IsType(t, &Memory{}, s)

	_, err = Open(ctx, Options{Backend: "floppy"})
	require.Error(t, err)
}
