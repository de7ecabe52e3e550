package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	store, err := New(db)
	require.NoError(t, err)
	return store
}

func TestPreferencesRoundTrip(t *testing.T) {
	store := newTestStore(t)

	got, err := store.GetPreference("output", "table")
	require.NoError(t, err)
	assert.Equal(t, "table", got, "unset keys fall back")

	require.NoError(t, store.SetPreference("output", "json"))
	require.NoError(t, store.SetPreference("output", "yaml"))

	got, err = store.GetPreference("output", "table")
	require.NoError(t, err)
	assert.Equal(t, "yaml", got, "Save upserts")
}

func TestActiveConnection(t *testing.T) {
	store := newTestStore(t)

	id, err := store.ActiveConnection()
	require.NoError(t, err)
	assert.Empty(t, id)

	require.NoError(t, store.SetActiveConnection("c1"))
	id, err = store.ActiveConnection()
	require.NoError(t, err)
	assert.Equal(t, "c1", id)
}

func TestHistoryOrderAndPrune(t *testing.T) {
	store := newTestStore(t)

	old := HistoryEntry{Method: "GET", Path: "/connections", Outcome: "success", CreatedAt: time.Now().Add(-48 * time.Hour)}
	require.NoError(t, store.AppendHistory(old))
	require.NoError(t, store.AppendHistory(HistoryEntry{Method: "POST", Path: "/validations", Status: 201, Outcome: "success"}))
	require.NoError(t, store.AppendHistory(HistoryEntry{Method: "GET", Path: "/anomalies", Status: 504, Outcome: "timeout"}))

	entries, err := store.RecentHistory(2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "/anomalies", entries[0].Path, "newest first")
	assert.Equal(t, "/validations", entries[1].Path)

	pruned, err := store.PruneHistory(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	entries, err = store.RecentHistory(0)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
