package services_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MansiJagta/echo-forge-create/models"
	"github.com/MansiJagta/echo-forge-create/pkg/supabase"
	"github.com/MansiJagta/echo-forge-create/services"
)

func newSupabaseHistory(t *testing.T, handler http.Handler) *services.SupabaseHistoryStore {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &services.SupabaseHistoryStore{
		Backend: supabase.NewClient(server.URL, "service-key", server.Client()),
		Table:   "audio_history",
	}
}

func TestSupabaseHistoryCreateAssignsID(t *testing.T) {
	t.Parallel()

	var inserted models.AudioRecord
	store := newSupabaseHistory(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/audio_history", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&inserted))
		w.WriteHeader(http.StatusCreated)
	}))

	id, err := store.Create(context.Background(), &models.AudioRecord{
		UserID:   "user-1",
		Filename: "generated_speech_abc123.mp3",
		Text:     "hello",
		VoiceID:  "voice-1",
		AudioURL: "/download/generated_speech_abc123.mp3",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, id, inserted.ID)
	assert.False(t, inserted.CreatedAt.IsZero())
}

func TestSupabaseHistoryListPagination(t *testing.T) {
	t.Parallel()

	store := newSupabaseHistory(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.user-1", q.Get("user_id"))
		assert.Equal(t, "created_at.desc", q.Get("order"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "20", q.Get("offset"))

		w.Write([]byte(`[{"id":"newer"},{"id":"older"}]`))
	}))

	records, err := store.List(context.Background(), "user-1", 10, 20)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "newer", records[0].ID)
}

func TestSupabaseHistoryDeleteScopesToOwner(t *testing.T) {
	t.Parallel()

	store := newSupabaseHistory(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.rec-1", q.Get("id"))

		// Only the owner's filter matches a row.
		if q.Get("user_id") == "eq.owner" {
			w.Write([]byte(`[{"id":"rec-1"}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))

	assert.NoError(t, store.Delete(context.Background(), "rec-1", "owner"))

	// Someone else's id looks exactly like a missing record.
	err := store.Delete(context.Background(), "rec-1", "intruder")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
