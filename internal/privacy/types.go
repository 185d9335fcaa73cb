package privacy

import "regexp"

// Severity is the qualitative sensitivity tier attached to a detection rule.
// Danger marks higher-risk data (financial/identity), caution marks
// moderate-risk data (contact/location).
type Severity string

const (
	SeverityCaution Severity = "caution"
	SeverityDanger  Severity = "danger"
)

// DetectionRule represents a single sensitive-data detection rule
type DetectionRule struct {
	Name     string
	Pattern  *regexp.Regexp
	Severity Severity
	// Group selects the capture group reported as the match. Zero means
	// the whole match. Go regexp has no lookbehind, so rules that must
	// not match after certain context anchor that context outside group 1
	// and set Group to 1.
	Group int
}

// Match is a located, typed, severity-tagged span within scanned text.
// Start and End are rune offsets into the scanned text, End exclusive,
// so they stay correct for multi-byte input.
type Match struct {
	Type     string   `json:"type"`
	Value    string   `json:"value"`
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Severity Severity `json:"severity"`
}
