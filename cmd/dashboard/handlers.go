package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/pefman/tracker-detail/internal/api"
	"github.com/pefman/tracker-detail/internal/dom"
	"github.com/pefman/tracker-detail/internal/hub"
	"github.com/pefman/tracker-detail/internal/render"
	"github.com/pefman/tracker-detail/internal/tracker"
)

// layoutUpdater registers rows for legends the document has not seen yet,
// then renders. Only configured trackers reach it, so sections stay bounded.
type layoutUpdater struct {
	doc      *dom.Document
	renderer *render.Renderer
}

func (u layoutUpdater) UpdateAllTrackers(trackerKey string, totals tracker.Totals) {
	names := make([]string, 0, len(totals.Legends))
	for _, l := range totals.Legends {
		names = append(names, l.Name)
	}
	u.doc.RegisterTracker(trackerKey, names)
	u.renderer.UpdateAllTrackers(trackerKey, totals)
}

type app struct {
	// ctx outlives requests; background refreshes run on it.
	ctx   context.Context
	title string

	// tracker key -> player uid of the configured trackers
	trackers map[string]int64

	doc     *dom.Document
	updater api.Updater
	client  *api.Client
	hub     *hub.Hub
	log     *zap.Logger
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": msg,
		"status":  code,
	})
}

func (a *app) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/", a.page).Methods(http.MethodGet)
	r.Handle("/ws", a.hub).Methods(http.MethodGet)
	r.HandleFunc("/api/document", a.document).Methods(http.MethodGet)
	r.HandleFunc("/refresh/{player_uid}/{tracker_key}", a.refresh).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "clients": a.hub.Len()})
	}).Methods(http.MethodGet)
	return r
}

func (a *app) page(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := a.doc.WriteHTML(&buf, a.title); err != nil {
		a.log.Error("render page", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

func (a *app) document(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sections": a.doc.Sections(),
		"nodes":    a.doc.Snapshot(),
	})
}

// POST /refresh/{player_uid}/{tracker_key}
func (a *app) refresh(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	uid, err := strconv.ParseInt(vars["player_uid"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "player_uid must be an integer")
		return
	}
	key := vars["tracker_key"]
	if owner, ok := a.trackers[key]; !ok || owner != uid {
		writeError(w, http.StatusNotFound, "unknown tracker")
		return
	}

	a.client.RefreshTrackerAsync(a.ctx, uid, key, a.updater)
	a.log.Debug("refresh queued", zap.Int64("player_uid", uid), zap.String("tracker_key", key))
	writeJSON(w, http.StatusAccepted, map[string]any{"player_uid": uid, "tracker_key": key})
}
