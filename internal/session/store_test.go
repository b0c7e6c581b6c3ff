package session

import (
	"path/filepath"
	"testing"

	"github.com/aristath/stockcircle/internal/database"
	"github.com/aristath/stockcircle/internal/domain"
	"github.com/aristath/stockcircle/internal/events"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, storage Storage) (*Store, *events.Bus) {
	bus := events.NewBus(zerolog.Nop())
	store, err := NewStore(storage, bus, zerolog.Nop())
	require.NoError(t, err)
	return store, bus
}

func TestStore_StartsLoggedOut(t *testing.T) {
	store, _ := newTestStore(t, NewMemoryStorage())
	assert.False(t, store.Current().LoggedIn())
	assert.Equal(t, Session{}, store.Current())
}

func TestStore_LoginPersists(t *testing.T) {
	storage := NewSQLiteStorage(setupTestDB(t))
	store, _ := newTestStore(t, storage)

	require.NoError(t, store.Login("1", "alice"))
	assert.Equal(t, Session{UserID: "1", Username: "alice"}, store.Current())

	v, ok, err := storage.Get(KeyUserID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	// a fresh store over the same storage sees the same identity
	reloaded, _ := newTestStore(t, storage)
	assert.Equal(t, Session{UserID: "1", Username: "alice"}, reloaded.Current())
}

func TestStore_LoginRejectsPartialIdentity(t *testing.T) {
	storage := NewMemoryStorage()
	store, _ := newTestStore(t, storage)

	assert.ErrorIs(t, store.Login("", "alice"), ErrIncomplete)
	assert.ErrorIs(t, store.Login("1", ""), ErrIncomplete)
	assert.False(t, store.Current().LoggedIn())

	_, ok, _ := storage.Get(KeyUsername)
	assert.False(t, ok)
}

func TestStore_LogoutClearsEverything(t *testing.T) {
	storage := NewSQLiteStorage(setupTestDB(t))
	store, _ := newTestStore(t, storage)

	require.NoError(t, store.Login("1", "alice"))
	require.NoError(t, store.Logout())

	assert.Equal(t, Session{}, store.Current())
	for _, key := range []string{KeyUserID, KeyUsername} {
		_, ok, err := storage.Get(key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}

	// idempotent
	require.NoError(t, store.Logout())
	assert.Equal(t, Session{}, store.Current())
}

func TestStore_HalfSessionIsDiscarded(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"only user id", KeyUserID, "1"},
		{"only username", KeyUsername, "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := NewMemoryStorage()
			require.NoError(t, storage.Set(tt.key, tt.value))

			store, _ := newTestStore(t, storage)
			assert.False(t, store.Current().LoggedIn())

			_, ok, _ := storage.Get(tt.key)
			assert.False(t, ok, "stray key must be removed")
		})
	}
}

func TestStore_EmitsSessionChanged(t *testing.T) {
	store, bus := newTestStore(t, NewMemoryStorage())

	var got []*events.SessionChangedData
	bus.Subscribe(events.SessionChanged, func(e events.Event) {
		got = append(got, e.Data.(*events.SessionChangedData))
	})

	require.NoError(t, store.Login("9", "zoe"))
	require.NoError(t, store.Logout())

	require.Len(t, got, 2)
	assert.True(t, got[0].LoggedIn)
	assert.Equal(t, "9", got[0].UserID)
	assert.False(t, got[1].LoggedIn)
}

func TestStore_WithMigratedDatabase(t *testing.T) {
	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "client.db"),
		Name: "client",
	})
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Migrate())

	storage := NewSQLiteStorage(db.Conn())
	store, _ := newTestStore(t, storage)
	require.NoError(t, store.Login(domain.UserID("1"), "alice"))

	reloaded, _ := newTestStore(t, storage)
	assert.Equal(t, "alice", reloaded.Current().Username)
}
