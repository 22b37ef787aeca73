package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/pefman/tracker-detail/internal/stats"
	"github.com/pefman/tracker-detail/internal/tracker"
)

type server struct {
	store      stats.Store
	staleAfter time.Duration
	now        func() time.Time
	log        *zap.Logger
}

// GET /_get_tracker_data?player_uid=<int>&tracker_key=<string>
func (s *server) getTrackerData(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	uid, err := strconv.ParseInt(q.Get("player_uid"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "player_uid must be an integer")
		return
	}
	key := q.Get("tracker_key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "missing tracker_key")
		return
	}

	recs, err := s.store.Legends(r.Context(), uid, key)
	if err != nil {
		s.log.Error("load tracker",
			zap.Int64("player_uid", uid), zap.String("tracker_key", key), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load tracker")
		return
	}
	writeJSON(w, tracker.Response{TrackerTotals: stats.Aggregate(recs, s.now(), s.staleAfter)})
}

type saveLegend struct {
	Name  string `json:"name"`
	Total *int64 `json:"total"`
}

type saveReq struct {
	PlayerUID  *int64       `json:"player_uid"`
	TrackerKey string       `json:"tracker_key"`
	Legends    []saveLegend `json:"legends"`
}

// POST /_save_tracker_data
// A legend with "total": null is stored as missing.
func (s *server) saveTrackerData(w http.ResponseWriter, r *http.Request) {
	var req saveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	if req.PlayerUID == nil {
		writeError(w, http.StatusBadRequest, "missing player_uid")
		return
	}

	now := s.now()
	recs := make([]stats.LegendTotal, 0, len(req.Legends))
	for _, l := range req.Legends {
		rec := stats.LegendTotal{
			PlayerUID:  *req.PlayerUID,
			TrackerKey: req.TrackerKey,
			Legend:     l.Name,
			Missing:    l.Total == nil,
			UpdatedAt:  now,
		}
		if l.Total != nil {
			rec.Total = *l.Total
		}
		if err := rec.Validate(); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		recs = append(recs, rec)
	}

	for _, rec := range recs {
		if err := s.store.Save(r.Context(), rec); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, stats.ErrInvalidRecord) {
				status = http.StatusBadRequest
			}
			s.log.Error("save tracker",
				zap.Int64("player_uid", rec.PlayerUID), zap.String("tracker_key", rec.TrackerKey),
				zap.String("legend", rec.Legend), zap.Error(err))
			writeError(w, status, "failed to save tracker")
			return
		}
	}
	s.log.Debug("saved tracker",
		zap.Int64("player_uid", *req.PlayerUID), zap.String("tracker_key", req.TrackerKey),
		zap.Int("legends", len(recs)))
	w.WriteHeader(http.StatusNoContent)
}
