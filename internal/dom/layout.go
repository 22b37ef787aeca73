package dom

import "github.com/pefman/tracker-detail/internal/render"

// Section is the page block for one tracker key.
type Section struct {
	TrackerKey string   `json:"tracker_key"`
	Legends    []string `json:"legends"`
}

// RegisterTracker registers the circle elements of trackerKey and the row
// elements of every legend, and records the section for page rendering.
// Registering the same tracker key again appends legends it did not have.
func (d *Document) RegisterTracker(trackerKey string, legends []string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, kind := range render.TrackerKinds {
		d.register(render.ElementKey(kind, "", trackerKey))
	}

	idx := -1
	for i := range d.sections {
		if d.sections[i].TrackerKey == trackerKey {
			idx = i
			break
		}
	}
	if idx < 0 {
		d.sections = append(d.sections, Section{TrackerKey: trackerKey})
		idx = len(d.sections) - 1
	}

	for _, legend := range legends {
		known := false
		for _, l := range d.sections[idx].Legends {
			if l == legend {
				known = true
				break
			}
		}
		if known {
			continue
		}
		d.sections[idx].Legends = append(d.sections[idx].Legends, legend)
		for _, kind := range render.LegendKinds {
			d.register(render.ElementKey(kind, legend, trackerKey))
		}
	}
}

// Sections returns the registered tracker sections in registration order.
func (d *Document) Sections() []Section {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]Section, len(d.sections))
	for i, s := range d.sections {
		out[i] = Section{TrackerKey: s.TrackerKey, Legends: append([]string(nil), s.Legends...)}
	}
	return out
}
