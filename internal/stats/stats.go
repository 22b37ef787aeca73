package stats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/pefman/tracker-detail/internal/tracker"
)

// ErrInvalidRecord is returned when a LegendTotal cannot be stored.
var ErrInvalidRecord = errors.New("invalid legend total")

// LegendTotal is the stored total of one tracker for one legend of one player.
type LegendTotal struct {
	PlayerUID  int64     `bson:"player_uid"`
	TrackerKey string    `bson:"tracker_key"`
	Legend     string    `bson:"legend"`
	Total      int64     `bson:"total"`
	Missing    bool      `bson:"missing"`
	UpdatedAt  time.Time `bson:"updated_at"`
}

// Validate checks the fields every store relies on.
func (l LegendTotal) Validate() error {
	switch {
	case l.TrackerKey == "":
		return fmt.Errorf("%w: tracker key is required", ErrInvalidRecord)
	case l.Legend == "":
		return fmt.Errorf("%w: legend is required", ErrInvalidRecord)
	case l.Total < 0:
		return fmt.Errorf("%w: total must not be negative", ErrInvalidRecord)
	}
	return nil
}

// Store persists legend totals.
type Store interface {
	// Save upserts the record keyed by player, tracker key and legend.
	Save(ctx context.Context, rec LegendTotal) error
	// Legends returns the records of one tracker sorted by legend name.
	Legends(ctx context.Context, playerUID int64, trackerKey string) ([]LegendTotal, error)
}

type recordKey struct {
	playerUID  int64
	trackerKey string
	legend     string
}

// MemoryStore keeps legend totals in memory.
type MemoryStore struct {
	mu      sync.Mutex
	records map[recordKey]LegendTotal
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[recordKey]LegendTotal)}
}

func (s *MemoryStore) Save(ctx context.Context, rec LegendTotal) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[recordKey{rec.PlayerUID, rec.TrackerKey, rec.Legend}] = rec
	return nil
}

func (s *MemoryStore) Legends(ctx context.Context, playerUID int64, trackerKey string) ([]LegendTotal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []LegendTotal
	for k, rec := range s.records {
		if k.playerUID == playerUID && k.trackerKey == trackerKey {
			out = append(out, rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Legend < out[j].Legend })
	return out, nil
}

// Aggregate builds the tracker payload from stored legend totals.
// The tracker total is the sum of legend totals and the tracker state is
// the worst legend state; a tracker with no legends is missing.
func Aggregate(recs []LegendTotal, now time.Time, staleAfter time.Duration) tracker.Totals {
	out := tracker.Totals{
		TrackerState: tracker.CodeMissing,
		Legends:      make([]tracker.LegendEntry, 0, len(recs)),
	}
	for i, rec := range recs {
		code := legendState(rec, now, staleAfter)
		if i == 0 || tracker.Worse(code, out.TrackerState) {
			out.TrackerState = code
		}
		out.Total += rec.Total
		out.Legends = append(out.Legends, tracker.LegendEntry{
			Name:         rec.Legend,
			Total:        rec.Total,
			TrackerState: code,
		})
	}
	return out
}

func legendState(rec LegendTotal, now time.Time, staleAfter time.Duration) string {
	switch {
	case rec.Missing:
		return tracker.CodeMissing
	case staleAfter > 0 && now.Sub(rec.UpdatedAt) > staleAfter:
		return tracker.CodeOld
	default:
		return tracker.CodeCurrent
	}
}
