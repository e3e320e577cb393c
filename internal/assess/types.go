// Package assess sends filtered screen text to the remote generative-AI
// collaborator and turns whatever comes back, well-formed or not, into a
// complete, bounded RiskAssessment. It never fails to its caller: every
// path resolves to a valid result, and ambiguity resolves to LOW rather
// than to an unset state.
package assess

import "strings"

// Risk levels.
const (
	RiskHigh   = "HIGH"
	RiskMedium = "MEDIUM"
	RiskLow    = "LOW"
)

// Output bounds enforced before any result leaves this package.
const (
	maxReasonRunes  = 300
	maxAdviceRunes  = 200
	maxKeywordCount = 10
)

// RiskAssessment is the remote assessor's verdict, always fully populated.
type RiskAssessment struct {
	RiskLevel         string   `json:"risk_level"`
	DangerousKeywords []string `json:"dangerous_keywords"`
	Reason            string   `json:"reason"`
	Advice            string   `json:"advice"`

	// Degraded marks canned safe-default results (blank input, transport
	// failure, unparseable reply). The orchestrator uses it to decide
	// whether this assessment outranks the keyword fallback.
	Degraded bool `json:"-"`
}

// Informative reports whether the assessment carries content worth
// presenting: a non-degraded result with a reason or keywords.
func (a RiskAssessment) Informative() bool {
	return !a.Degraded && (strings.TrimSpace(a.Reason) != "" || len(a.DangerousKeywords) > 0)
}

// clamp enforces the output bounds and the level invariant.
func clamp(a RiskAssessment) RiskAssessment {
	a.RiskLevel = normalizeLevel(a.RiskLevel)
	a.Reason = truncateRunes(a.Reason, maxReasonRunes)
	a.Advice = truncateRunes(a.Advice, maxAdviceRunes)
	if a.DangerousKeywords == nil {
		a.DangerousKeywords = []string{}
	}
	if len(a.DangerousKeywords) > maxKeywordCount {
		a.DangerousKeywords = a.DangerousKeywords[:maxKeywordCount]
	}
	return a
}

// normalizeLevel maps any level string onto the three-value enum,
// defaulting to LOW.
func normalizeLevel(level string) string {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case RiskHigh:
		return RiskHigh
	case RiskMedium:
		return RiskMedium
	default:
		return RiskLow
	}
}

// truncateRunes caps s at max runes including a trailing "..." marker when
// cut. Rune-based: the shipped strings are Korean.
func truncateRunes(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
