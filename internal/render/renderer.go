// Package render writes tracker totals into a Document: progress bars,
// count/total labels and the per-tracker summary circle.
package render

import (
	"strconv"
	"sync"

	"github.com/pefman/tracker-detail/internal/tracker"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Details is one call's worth of values for a legend row.
type Details struct {
	LegendName string
	Label      string
	TrackerKey string
	Count      int64
	Total      int64
	// TrackerState is the tracker-wide label. It picks the container class
	// and the circle subtext.
	TrackerState tracker.Label
	// LegendState is the label of this legend alone.
	LegendState tracker.Label
}

// Renderer applies tracker totals to a Document.
type Renderer struct {
	mu      sync.Mutex
	doc     Document
	printer *message.Printer
	log     *zap.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLocale sets the locale used to format the circle total.
func WithLocale(tag language.Tag) Option {
	return func(r *Renderer) {
		r.printer = message.NewPrinter(tag)
	}
}

// WithLogger sets the logger used for state mapping diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Renderer) {
		r.log = l
	}
}

// New creates a Renderer writing into doc.
func New(doc Document, opts ...Option) *Renderer {
	r := &Renderer{
		doc:     doc,
		printer: message.NewPrinter(language.AmericanEnglish),
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// UpdateAllTrackers renders every legend of totals in response order.
// The circle elements are shared by all legends of a tracker key, so after
// the call they hold the values written for the last legend.
func (r *Renderer) UpdateAllTrackers(trackerKey string, totals tracker.Totals) {
	r.mu.Lock()
	defer r.mu.Unlock()

	trackerState := r.stringForState(totals.TrackerState)
	for _, legend := range totals.Legends {
		legendState := r.stringForState(legend.TrackerState)
		r.setTrackerDetails(Details{
			LegendName:   legend.Name,
			Label:        legend.Name,
			TrackerKey:   trackerKey,
			Count:        legend.Total,
			Total:        totals.Total,
			TrackerState: trackerState,
			LegendState:  legendState,
		})
	}
}

// SetTrackerDetails renders a single legend row.
func (r *Renderer) SetTrackerDetails(d Details) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.setTrackerDetails(d)
}

// SetDefaultValues fills the loading placeholder row.
func (r *Renderer) SetDefaultValues() {
	r.SetTrackerDetails(Details{
		LegendName:   "Legend",
		Label:        "Loading...",
		TrackerKey:   "loading",
		Count:        0,
		Total:        0,
		TrackerState: tracker.Missing,
		LegendState:  tracker.Missing,
	})
}

func (r *Renderer) stringForState(code string) tracker.Label {
	label := tracker.StringForState(code)
	r.log.Debug("tracker state", zap.String("code", code), zap.String("label", string(label)))
	return label
}

func (r *Renderer) setTrackerDetails(d Details) {
	width := Width(Percent(d.Count, d.Total))
	formattedTotal := r.printer.Sprintf("%d", d.Total)

	if container, ok := r.lookup(KindProgressContainer, d); ok {
		keep := stateClass(d.TrackerState)
		for _, class := range StateClasses {
			if class != keep {
				container.RemoveClass(class)
			}
		}
		container.AddClass(keep)
	}

	r.setText(KindLabel, d, d.Label)
	r.setText(KindCount, d, strconv.FormatInt(d.Count, 10))
	r.setText(KindTotal, d, strconv.FormatInt(d.Total, 10))
	r.setText(KindLegendState, d, string(d.LegendState))
	if bar, ok := r.lookup(KindProgressBar, d); ok {
		bar.SetWidth(width)
	}
	r.setText(KindCircleTotal, d, formattedTotal)
	r.setText(KindCircleSubtext, d, string(d.TrackerState))
}

func (r *Renderer) lookup(kind Kind, d Details) (Element, bool) {
	return r.doc.Lookup(ElementKey(kind, d.LegendName, d.TrackerKey))
}

func (r *Renderer) setText(kind Kind, d Details, text string) {
	if el, ok := r.lookup(kind, d); ok {
		el.SetText(text)
	}
}

// stateClass picks the container class for a label. Anything that is not
// MISSING or OLD renders as current.
func stateClass(label tracker.Label) string {
	switch label {
	case tracker.Missing:
		return ClassMissing
	case tracker.Old:
		return ClassOld
	default:
		return ClassCurrent
	}
}
