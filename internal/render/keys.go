package render

// Kind names one of the element id templates the renderer writes to.
type Kind int

const (
	KindProgressBar Kind = iota
	KindProgressContainer
	KindLabel
	KindCount
	KindTotal
	KindLegendState
	KindCircleTotal
	KindCircleSubtext
)

var kindPrefix = map[Kind]string{
	KindProgressBar:       "tracker-detail-progress-bar-",
	KindProgressContainer: "tracker-detail-progress-container-",
	KindLabel:             "tracker-detail-lr-style-label-",
	KindCount:             "tracker-detail-lr-style-count-",
	KindTotal:             "tracker-detail-lr-style-total-",
	KindLegendState:       "tracker-detail-legend-state-",
	KindCircleTotal:       "circle-total-any-",
	KindCircleSubtext:     "circle-total-subtext-any-",
}

// LegendKinds are the kinds keyed by legend and tracker key.
var LegendKinds = []Kind{
	KindProgressBar,
	KindProgressContainer,
	KindLabel,
	KindCount,
	KindTotal,
	KindLegendState,
}

// TrackerKinds are the kinds keyed by tracker key only.
var TrackerKinds = []Kind{KindCircleTotal, KindCircleSubtext}

// ElementKey returns the element id for kind. The legend is ignored for
// tracker-scoped kinds. An unknown kind returns "".
func ElementKey(kind Kind, legend, trackerKey string) string {
	prefix, ok := kindPrefix[kind]
	if !ok {
		return ""
	}
	switch kind {
	case KindCircleTotal, KindCircleSubtext:
		return prefix + trackerKey
	}
	return prefix + legend + "-" + trackerKey
}

// Container state classes. Exactly one is present on a progress container.
const (
	ClassMissing = "progress-bar-tracker-state-missing"
	ClassOld     = "progress-bar-tracker-state-old"
	ClassCurrent = "progress-bar-tracker-state-current"
)

// StateClasses lists every container state class.
var StateClasses = []string{ClassMissing, ClassOld, ClassCurrent}
