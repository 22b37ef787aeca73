package render_test

import (
	"testing"

	"github.com/pefman/tracker-detail/internal/dom"
	"github.com/pefman/tracker-detail/internal/render"
	"github.com/pefman/tracker-detail/internal/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func node(t *testing.T, doc *dom.Document, kind render.Kind, legend, key string) dom.Node {
	t.Helper()
	n, ok := doc.Node(render.ElementKey(kind, legend, key))
	require.True(t, ok, "element %s missing", render.ElementKey(kind, legend, key))
	return n
}

func stateClasses(n dom.Node) []string {
	var out []string
	for _, c := range n.Classes {
		for _, s := range render.StateClasses {
			if c == s {
				out = append(out, c)
			}
		}
	}
	return out
}

func TestUpdateAllTrackers_Bangalore(t *testing.T) {
	doc := dom.New()
	doc.RegisterTracker("wins", []string{"Bangalore"})
	r := render.New(doc)

	r.UpdateAllTrackers("wins", tracker.Totals{
		Total:        200,
		TrackerState: "1",
		Legends: []tracker.LegendEntry{
			{Name: "Bangalore", Total: 50, TrackerState: "0"},
		},
	})

	assert.Equal(t, "25%", node(t, doc, render.KindProgressBar, "Bangalore", "wins").Width)
	assert.Equal(t, "Bangalore", node(t, doc, render.KindLabel, "Bangalore", "wins").Text)
	assert.Equal(t, "50", node(t, doc, render.KindCount, "Bangalore", "wins").Text)
	assert.Equal(t, "200", node(t, doc, render.KindTotal, "Bangalore", "wins").Text)
	assert.Equal(t, "OLD", node(t, doc, render.KindLegendState, "Bangalore", "wins").Text)
	assert.Equal(t, []string{render.ClassCurrent},
		stateClasses(node(t, doc, render.KindProgressContainer, "Bangalore", "wins")))
	assert.Equal(t, "200", node(t, doc, render.KindCircleTotal, "", "wins").Text)
	assert.Equal(t, "CURRENT", node(t, doc, render.KindCircleSubtext, "", "wins").Text)
}

func TestSetDefaultValues(t *testing.T) {
	doc := dom.New()
	doc.RegisterTracker("loading", []string{"Legend"})
	r := render.New(doc)

	r.SetDefaultValues()

	assert.Equal(t, "Loading...", node(t, doc, render.KindLabel, "Legend", "loading").Text)
	assert.Equal(t, "0", node(t, doc, render.KindCount, "Legend", "loading").Text)
	assert.Equal(t, "0", node(t, doc, render.KindTotal, "Legend", "loading").Text)
	assert.Equal(t, "0%", node(t, doc, render.KindProgressBar, "Legend", "loading").Width)
	assert.Equal(t, []string{render.ClassMissing},
		stateClasses(node(t, doc, render.KindProgressContainer, "Legend", "loading")))
	assert.Equal(t, "MISSING", node(t, doc, render.KindCircleSubtext, "", "loading").Text)
}

func TestSetTrackerDetails_ExactlyOneStateClass(t *testing.T) {
	doc := dom.New()
	doc.RegisterTracker("damage", []string{"Wraith"})
	r := render.New(doc)

	tests := []struct {
		label tracker.Label
		want  string
	}{
		{tracker.Missing, render.ClassMissing},
		{tracker.Old, render.ClassOld},
		{tracker.Current, render.ClassCurrent},
		{tracker.NoData, render.ClassCurrent},
		{tracker.Old, render.ClassOld},
		{tracker.Missing, render.ClassMissing},
	}
	for _, tt := range tests {
		r.SetTrackerDetails(render.Details{
			LegendName:   "Wraith",
			Label:        "Wraith",
			TrackerKey:   "damage",
			Count:        1,
			Total:        3,
			TrackerState: tt.label,
			LegendState:  tracker.Current,
		})
		got := stateClasses(node(t, doc, render.KindProgressContainer, "Wraith", "damage"))
		assert.Equal(t, []string{tt.want}, got, "label %s", tt.label)
	}
}

func TestUpdateAllTrackers_OrderAndLastLegendWins(t *testing.T) {
	doc := dom.New()
	doc.RegisterTracker("kills", []string{"A", "B", "C"})

	var order []string
	cancel := doc.Subscribe(func(p dom.Patch) {
		if p.Op == dom.OpText && p.ID == render.ElementKey(render.KindLabel, p.Value, "kills") {
			order = append(order, p.Value)
		}
	})
	defer cancel()

	r := render.New(doc)
	r.UpdateAllTrackers("kills", tracker.Totals{
		Total:        1500,
		TrackerState: "0",
		Legends: []tracker.LegendEntry{
			{Name: "A", Total: 100, TrackerState: "1"},
			{Name: "B", Total: 400, TrackerState: "1"},
			{Name: "C", Total: 1000, TrackerState: "-1"},
		},
	})

	assert.Equal(t, []string{"A", "B", "C"}, order)
	assert.Equal(t, "7%", node(t, doc, render.KindProgressBar, "A", "kills").Width)
	assert.Equal(t, "27%", node(t, doc, render.KindProgressBar, "B", "kills").Width)
	assert.Equal(t, "67%", node(t, doc, render.KindProgressBar, "C", "kills").Width)
	assert.Equal(t, "MISSING", node(t, doc, render.KindLegendState, "C", "kills").Text)
	assert.Equal(t, "1,500", node(t, doc, render.KindCircleTotal, "", "kills").Text)
	assert.Equal(t, "OLD", node(t, doc, render.KindCircleSubtext, "", "kills").Text)
}

func TestUpdateAllTrackers_UnknownElementsAreSkipped(t *testing.T) {
	doc := dom.New()
	doc.RegisterTracker("wins", []string{"Bangalore"})
	r := render.New(doc)

	assert.NotPanics(t, func() {
		r.UpdateAllTrackers("wins", tracker.Totals{
			Total:        10,
			TrackerState: "1",
			Legends: []tracker.LegendEntry{
				{Name: "Octane", Total: 5, TrackerState: "1"},
			},
		})
	})
	_, ok := doc.Node(render.ElementKey(render.KindLabel, "Octane", "wins"))
	assert.False(t, ok)
	assert.Equal(t, "", node(t, doc, render.KindLabel, "Bangalore", "wins").Text)
	assert.Equal(t, "10", node(t, doc, render.KindCircleTotal, "", "wins").Text)
}

func TestWithLocale(t *testing.T) {
	doc := dom.New()
	doc.RegisterTracker("damage", []string{"Lifeline"})
	r := render.New(doc, render.WithLocale(language.German))

	r.SetTrackerDetails(render.Details{
		LegendName:   "Lifeline",
		Label:        "Lifeline",
		TrackerKey:   "damage",
		Count:        1234,
		Total:        1234567,
		TrackerState: tracker.Current,
		LegendState:  tracker.Current,
	})

	assert.Equal(t, "1.234.567", node(t, doc, render.KindCircleTotal, "", "damage").Text)
	assert.Equal(t, "1234567", node(t, doc, render.KindTotal, "Lifeline", "damage").Text)
}
