package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MansiJagta/echo-forge-create/models"
	"github.com/MansiJagta/echo-forge-create/platform/database"
	"github.com/MansiJagta/echo-forge-create/services"
)

func newPostgresHistory(t *testing.T) *services.PostgresHistoryStore {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return &services.PostgresHistoryStore{DB: db}
}

func seedRecords(t *testing.T, store *services.PostgresHistoryStore, userID string, n int) []string {
	t.Helper()

	base := time.Now().UTC().Add(-time.Hour)
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		record := &models.AudioRecord{
			UserID:    userID,
			Filename:  fmt.Sprintf("generated_speech_%02d.mp3", i),
			Text:      "hello",
			VoiceID:   "voice-1",
			AudioURL:  fmt.Sprintf("/download/generated_speech_%02d.mp3", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		id, err := store.Create(context.Background(), record)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestPostgresHistoryListNewestFirst(t *testing.T) {
	t.Parallel()

	store := newPostgresHistory(t)
	seedRecords(t, store, "user-1", 5)

	records, err := store.List(context.Background(), "user-1", 10, 0)
	require.NoError(t, err)
	require.Len(t, records, 5)

	for i := 1; i < len(records); i++ {
		assert.True(t, !records[i-1].CreatedAt.Before(records[i].CreatedAt),
			"records must be ordered newest first")
	}
}

func TestPostgresHistoryPagination(t *testing.T) {
	t.Parallel()

	store := newPostgresHistory(t)
	seedRecords(t, store, "user-1", 5)

	page, err := store.List(context.Background(), "user-1", 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "generated_speech_02.mp3", page[0].Filename)
	assert.Equal(t, "generated_speech_01.mp3", page[1].Filename)
}

func TestPostgresHistoryListScopedToUser(t *testing.T) {
	t.Parallel()

	store := newPostgresHistory(t)
	seedRecords(t, store, "user-1", 3)
	seedRecords(t, store, "user-2", 2)

	records, err := store.List(context.Background(), "user-2", 10, 0)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestPostgresHistoryDeleteOwnership(t *testing.T) {
	t.Parallel()

	store := newPostgresHistory(t)
	ids := seedRecords(t, store, "owner", 1)

	// A foreign caller sees not-found, and the record survives.
	err := store.Delete(context.Background(), ids[0], "intruder")
	assert.ErrorIs(t, err, models.ErrNotFound)

	records, err := store.List(context.Background(), "owner", 10, 0)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	require.NoError(t, store.Delete(context.Background(), ids[0], "owner"))

	err = store.Delete(context.Background(), ids[0], "owner")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
