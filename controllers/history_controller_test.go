package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MansiJagta/echo-forge-create/controllers"
	"github.com/MansiJagta/echo-forge-create/models"
	"github.com/MansiJagta/echo-forge-create/platform/middleware"
)

type stubHistory struct {
	gotUserID string
	gotLimit  int
	gotOffset int
	records   []models.AudioRecord

	deleteErr    error
	gotRecordID  string
	gotDeleteUID string
}

func (s *stubHistory) Create(_ context.Context, _ *models.AudioRecord) (string, error) {
	return "rec-1", nil
}

func (s *stubHistory) List(_ context.Context, userID string, limit, offset int) ([]models.AudioRecord, error) {
	s.gotUserID = userID
	s.gotLimit = limit
	s.gotOffset = offset
	return s.records, nil
}

func (s *stubHistory) Delete(_ context.Context, recordID, userID string) error {
	s.gotRecordID = recordID
	s.gotDeleteUID = userID
	return s.deleteErr
}

// asUser injects an authenticated caller the way the auth middleware would.
func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, userID)
		c.Next()
	}
}

func newHistoryRouter(store *stubHistory, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := &controllers.HistoryController{Store: store}

	router := gin.New()
	group := router.Group("/")
	if userID != "" {
		group.Use(asUser(userID))
	}
	group.GET("/audio/history", ctrl.List)
	group.DELETE("/audio/:id", ctrl.Delete)
	return router
}

func TestHistoryListDefaultsAndCaps(t *testing.T) {
	store := &stubHistory{records: []models.AudioRecord{{ID: "rec-1"}}}
	router := newHistoryRouter(store, "user-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audio/history", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", store.gotUserID)
	assert.Equal(t, 20, store.gotLimit)
	assert.Equal(t, 0, store.gotOffset)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audio/history?limit=9999&offset=40", nil))

	assert.Equal(t, 100, store.gotLimit)
	assert.Equal(t, 40, store.gotOffset)

	var body struct {
		Records []models.AudioRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Records, 1)
	assert.Equal(t, "rec-1", body.Records[0].ID)
}

func TestHistoryListUnauthenticated(t *testing.T) {
	router := newHistoryRouter(&stubHistory{}, "")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/audio/history", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHistoryDeleteNotOwned(t *testing.T) {
	store := &stubHistory{deleteErr: models.ErrNotFound}
	router := newHistoryRouter(store, "user-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/audio/rec-9", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "rec-9", store.gotRecordID)
	assert.Equal(t, "user-1", store.gotDeleteUID)
}

func TestHistoryDeleteSuccess(t *testing.T) {
	store := &stubHistory{}
	router := newHistoryRouter(store, "user-1")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/audio/rec-1", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "deleted")
}
