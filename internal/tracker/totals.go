// Package tracker holds the tracker payload types and the state mapping
// shared by the backend and the dashboard.
package tracker

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
)

var (
	// ErrMissingField is returned when a required payload field is absent.
	ErrMissingField = errors.New("missing field")
	// ErrInvalidField is returned when a payload field has an unusable value.
	ErrInvalidField = errors.New("invalid field")
)

// LegendEntry is one named sub-total of a tracker.
type LegendEntry struct {
	Name         string `json:"name" bson:"name"`
	Total        int64  `json:"total" bson:"total"`
	TrackerState string `json:"tracker_state" bson:"tracker_state"`
}

// Totals is the payload for one tracker key of one player.
type Totals struct {
	Total        int64         `json:"total"`
	TrackerState string        `json:"tracker_state"`
	Legends      []LegendEntry `json:"legends"`
}

// Response is the body of GET /_get_tracker_data.
type Response struct {
	TrackerTotals Totals `json:"tracker_totals"`
}

// wire shapes use pointers so absent fields can be told apart from zero values.
type wireResponse struct {
	TrackerTotals *wireTotals `json:"tracker_totals"`
}

type wireTotals struct {
	Total        *int64        `json:"total"`
	TrackerState stateCode     `json:"tracker_state"`
	Legends      *[]wireLegend `json:"legends"`
}

type wireLegend struct {
	Name         *string   `json:"name"`
	Total        *int64    `json:"total"`
	TrackerState stateCode `json:"tracker_state"`
}

// stateCode accepts a string, a number or null. null decodes to "".
type stateCode struct {
	set   bool
	value string
}

func (s *stateCode) UnmarshalJSON(b []byte) error {
	s.set = true
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		s.value = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		return json.Unmarshal(b, &s.value)
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("tracker_state %s: %w", b, ErrInvalidField)
	}
	if _, err := strconv.ParseInt(n.String(), 10, 64); err != nil {
		return fmt.Errorf("tracker_state %s: %w", b, ErrInvalidField)
	}
	s.value = n.String()
	return nil
}

// DecodeResponse reads a /_get_tracker_data body and returns its tracker_totals.
func DecodeResponse(r io.Reader) (Totals, error) {
	var w wireResponse
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(&w); err != nil {
		return Totals{}, fmt.Errorf("decode tracker response: %w", err)
	}
	if w.TrackerTotals == nil {
		return Totals{}, fmt.Errorf("tracker_totals: %w", ErrMissingField)
	}
	return w.TrackerTotals.totals()
}

func (w *wireTotals) totals() (Totals, error) {
	if w.Total == nil {
		return Totals{}, fmt.Errorf("tracker_totals.total: %w", ErrMissingField)
	}
	if *w.Total < 0 {
		return Totals{}, fmt.Errorf("tracker_totals.total %d: %w", *w.Total, ErrInvalidField)
	}
	if !w.TrackerState.set {
		return Totals{}, fmt.Errorf("tracker_totals.tracker_state: %w", ErrMissingField)
	}
	if w.Legends == nil {
		return Totals{}, fmt.Errorf("tracker_totals.legends: %w", ErrMissingField)
	}

	out := Totals{
		Total:        *w.Total,
		TrackerState: w.TrackerState.value,
		Legends:      make([]LegendEntry, 0, len(*w.Legends)),
	}
	for i, l := range *w.Legends {
		if l.Name == nil {
			return Totals{}, fmt.Errorf("tracker_totals.legends[%d].name: %w", i, ErrMissingField)
		}
		if l.Total == nil {
			return Totals{}, fmt.Errorf("tracker_totals.legends[%d].total: %w", i, ErrMissingField)
		}
		if *l.Total < 0 {
			return Totals{}, fmt.Errorf("tracker_totals.legends[%d].total %d: %w", i, *l.Total, ErrInvalidField)
		}
		if !l.TrackerState.set {
			return Totals{}, fmt.Errorf("tracker_totals.legends[%d].tracker_state: %w", i, ErrMissingField)
		}
		out.Legends = append(out.Legends, LegendEntry{
			Name:         *l.Name,
			Total:        *l.Total,
			TrackerState: l.TrackerState.value,
		})
	}
	return out, nil
}
