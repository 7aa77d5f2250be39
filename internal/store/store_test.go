package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/vastlit/internal/testutil"
)

// createTestStore creates a new store in a temp directory.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	s, err := Open(path, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func fixedClock() func() time.Time {
	return func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		require.NoError(t, err, "iteration %d", i)
		s.Close()
	}

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	var name string
	err = s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='snapshots'").Scan(&name)
	assert.NoError(t, err)
}

func TestOpen_Pragmas(t *testing.T) {
	s := createTestStore(t)
	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestSave_AssignsIDAndSeq(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(testutil.NewSequentialIDGenerator("")), WithClock(fixedClock()))
	ctx := context.Background()

	first, err := s.Save(ctx, "Debug", "hash-a", []byte(`{"a":1}`))
	require.NoError(t, err)
	second, err := s.Save(ctx, "Debug", "hash-b", []byte(`{"a":2}`))
	require.NoError(t, err)

	assert.Equal(t, "snapshot-0001", first.ID)
	assert.Equal(t, "snapshot-0002", second.ID)
	assert.Less(t, first.Seq, second.Seq)
	assert.Equal(t, fixedClock()(), first.CreatedAt)
}

func TestSave_DefaultUUIDv7(t *testing.T) {
	s := createTestStore(t)
	rec, err := s.Save(context.Background(), "Debug", "h", []byte(`{}`))
	require.NoError(t, err)

	parsed, err := uuid.Parse(rec.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestLatest(t *testing.T) {
	s := createTestStore(t, WithClock(fixedClock()))
	ctx := context.Background()

	_, err := s.Save(ctx, "Debug", "d1", []byte(`{}`))
	require.NoError(t, err)
	_, err = s.Save(ctx, "Release", "r1", []byte(`{}`))
	require.NoError(t, err)
	_, err = s.Save(ctx, "Debug", "d2", []byte(`{"x":1}`))
	require.NoError(t, err)

	rec, err := s.Latest(ctx, "Release")
	require.NoError(t, err)
	assert.Equal(t, "r1", rec.Hash)

	rec, err = s.Latest(ctx, "Debug")
	require.NoError(t, err)
	assert.Equal(t, "d2", rec.Hash)
	assert.Equal(t, `{"x":1}`, rec.Body)

	rec, err = s.Latest(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "d2", rec.Hash)
}

func TestLatest_Empty(t *testing.T) {
	s := createTestStore(t)
	_, err := s.Latest(context.Background(), "Debug")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestGet(t *testing.T) {
	s := createTestStore(t, WithClock(fixedClock()))
	ctx := context.Background()

	saved, err := s.Save(ctx, "Debug", "h", []byte(`{"k":"v"}`))
	require.NoError(t, err)

	got, err := s.Get(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved, got)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s := createTestStore(t, WithIDGenerator(testutil.NewSequentialIDGenerator("")))
	ctx := context.Background()

	for _, h := range []string{"a", "b", "c"} {
		_, err := s.Save(ctx, "Debug", h, []byte(`{}`))
		require.NoError(t, err)
	}

	all, err := s.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Hash)
	assert.Equal(t, "a", all[2].Hash)

	limited, err := s.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "snapshot-0003", limited[0].ID)
}
