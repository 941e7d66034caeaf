package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/rpg-context/pkg/state"
)

func setupTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := NewRedisStore("redis://"+mr.Addr(), logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis store: %v", err)
	}

	return store, mr
}

func newStoredContext(t *testing.T, sessionID string, lastUpdate time.Time) *state.PlayerContext {
	t.Helper()
	pc, err := state.NewPlayerContext("player-1", sessionID, "Aria", lastUpdate)
	require.NoError(t, err)
	return pc
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	_, err := NewRedisStore("not a url", logger)
	assert.Error(t, err)
}

func TestRedisStore_SaveAndLoad(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pc := newStoredContext(t, "session-1", now)

	require.NoError(t, store.SaveContext(ctx, pc))

	loaded, err := store.LoadContext(ctx, "session-1")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "session-1", loaded.SessionID)
	assert.Equal(t, "Aria", loaded.Character.Name)
	assert.Equal(t, state.StartingLocation, loaded.Location.Current)
	assert.True(t, loaded.LastUpdate.Equal(now))
}

func TestRedisStore_SaveNil(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer func() { _ = store.Close() }()

	assert.Error(t, store.SaveContext(context.Background(), nil))
}

func TestRedisStore_LoadMissing(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer func() { _ = store.Close() }()

	loaded, err := store.LoadContext(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStore_Delete(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	pc := newStoredContext(t, "session-1", time.Now())
	require.NoError(t, store.SaveContext(ctx, pc))

	require.NoError(t, store.DeleteContext(ctx, "session-1"))

	loaded, err := store.LoadContext(ctx, "session-1")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// index entry removed as well
	ids, err := store.ListActiveSince(ctx, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_ListActiveSince(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveContext(ctx, newStoredContext(t, "stale", base.Add(-2*time.Hour))))
	require.NoError(t, store.SaveContext(ctx, newStoredContext(t, "fresh", base.Add(-10*time.Minute))))

	ids, err := store.ListActiveSince(ctx, base.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"fresh"}, ids)
}

func TestRedisStore_ListOlderThan(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveContext(ctx, newStoredContext(t, "ancient", base.Add(-40*24*time.Hour))))
	require.NoError(t, store.SaveContext(ctx, newStoredContext(t, "old", base.Add(-35*24*time.Hour))))
	require.NoError(t, store.SaveContext(ctx, newStoredContext(t, "recent", base.Add(-time.Hour))))

	ids, err := store.ListOlderThan(ctx, base.Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ancient", "old"}, ids)
}

func TestRedisStore_SaveUpdatesIndexScore(t *testing.T) {
	store, mr := setupTestStore(t)
	defer mr.Close()
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	pc := newStoredContext(t, "session-1", base.Add(-2*time.Hour))
	require.NoError(t, store.SaveContext(ctx, pc))

	// re-save after activity moves it out of the stale window
	pc.LastUpdate = base
	require.NoError(t, store.SaveContext(ctx, pc))

	ids, err := store.ListOlderThan(ctx, base.Add(-time.Hour))
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = store.ListActiveSince(ctx, base.Add(-time.Hour))
	require.NoError(t, err)
	assert.Equal(t, []string{"session-1"}, ids)
}

func TestRedisStore_Ping(t *testing.T) {
	store, mr := setupTestStore(t)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Ping(context.Background()))

	mr.Close()
	assert.Error(t, store.Ping(context.Background()))
}
