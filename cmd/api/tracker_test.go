package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pefman/tracker-detail/internal/stats"
	"github.com/pefman/tracker-detail/internal/tracker"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(store stats.Store) http.Handler {
	return newRouter(&server{
		store:      store,
		staleAfter: 24 * time.Hour,
		now:        func() time.Time { return fixedNow },
		log:        zap.NewNop(),
	})
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSaveThenGet(t *testing.T) {
	store := stats.NewMemoryStore()
	h := newTestServer(store)

	rec := do(t, h, http.MethodPost, "/_save_tracker_data", `{
		"player_uid": 7,
		"tracker_key": "wins",
		"legends": [
			{"name": "Wraith", "total": 150},
			{"name": "Bangalore", "total": 50},
			{"name": "Octane", "total": null}
		]
	}`)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())
	assert.Equal(t, 3, store.Len())

	rec = do(t, h, http.MethodGet, "/_get_tracker_data?player_uid=7&tracker_key=wins", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	totals, err := tracker.DecodeResponse(rec.Body)
	require.NoError(t, err)
	assert.EqualValues(t, 200, totals.Total)
	assert.Equal(t, tracker.CodeMissing, totals.TrackerState)
	require.Len(t, totals.Legends, 3)
	assert.Equal(t, tracker.LegendEntry{Name: "Bangalore", Total: 50, TrackerState: tracker.CodeCurrent}, totals.Legends[0])
	assert.Equal(t, tracker.LegendEntry{Name: "Octane", Total: 0, TrackerState: tracker.CodeMissing}, totals.Legends[1])
	assert.Equal(t, "Wraith", totals.Legends[2].Name)
}

func TestGet_UnknownTrackerIsMissing(t *testing.T) {
	h := newTestServer(stats.NewMemoryStore())
	rec := do(t, h, http.MethodGet, "/_get_tracker_data?player_uid=1&tracker_key=none", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, tracker.CodeMissing, body["tracker_totals"]["tracker_state"])
	assert.Equal(t, []any{}, body["tracker_totals"]["legends"])
}

func TestGet_BadParams(t *testing.T) {
	h := newTestServer(stats.NewMemoryStore())
	for _, target := range []string{
		"/_get_tracker_data?tracker_key=wins",
		"/_get_tracker_data?player_uid=abc&tracker_key=wins",
		"/_get_tracker_data?player_uid=1",
	} {
		rec := do(t, h, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

type failingStore struct{}

func (failingStore) Save(context.Context, stats.LegendTotal) error { return errors.New("db down") }
func (failingStore) Legends(context.Context, int64, string) ([]stats.LegendTotal, error) {
	return nil, errors.New("db down")
}

func TestStoreErrors(t *testing.T) {
	h := newTestServer(failingStore{})

	rec := do(t, h, http.MethodGet, "/_get_tracker_data?player_uid=1&tracker_key=wins", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = do(t, h, http.MethodPost, "/_save_tracker_data",
		`{"player_uid":1,"tracker_key":"wins","legends":[{"name":"A","total":1}]}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestSave_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", `{`},
		{"missing uid", `{"tracker_key":"wins","legends":[]}`},
		{"missing key", `{"player_uid":1,"legends":[{"name":"A","total":1}]}`},
		{"missing legend name", `{"player_uid":1,"tracker_key":"wins","legends":[{"total":1}]}`},
		{"negative total", `{"player_uid":1,"tracker_key":"wins","legends":[{"name":"A","total":-1}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := stats.NewMemoryStore()
			rec := do(t, newTestServer(store), http.MethodPost, "/_save_tracker_data", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, store.Len())
		})
	}
}

func TestRouting(t *testing.T) {
	h := newTestServer(stats.NewMemoryStore())

	rec := do(t, h, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)

	rec = do(t, h, http.MethodOptions, "/_save_tracker_data", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = do(t, h, http.MethodGet, "/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/_save_tracker_data", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
