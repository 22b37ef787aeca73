package tracker

// Label is the display string for a tracker state code.
type Label string

const (
	Missing Label = "MISSING"
	Old     Label = "OLD"
	Current Label = "CURRENT"
	NoData  Label = "NO_DATA"
)

// Raw state codes as sent by the backend.
const (
	CodeMissing = "-1"
	CodeOld     = "0"
	CodeCurrent = "1"
)

// StringForState maps a raw state code to its label.
// Every input maps to exactly one label; unknown codes map to NoData.
func StringForState(code string) Label {
	switch code {
	case CodeMissing:
		return Missing
	case CodeOld:
		return Old
	case CodeCurrent:
		return Current
	default:
		return NoData
	}
}

// Worse reports whether code a is a worse freshness than code b.
// Ordering: missing < old < current.
func Worse(a, b string) bool {
	return rank(a) < rank(b)
}

func rank(code string) int {
	switch code {
	case CodeMissing:
		return 0
	case CodeOld:
		return 1
	case CodeCurrent:
		return 2
	}
	return -1
}
