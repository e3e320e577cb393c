package scan

import (
	"github.com/ppiankov/screenguard/internal/assess"
	"github.com/ppiankov/screenguard/internal/keyword"
)

// Outcome is the closed result set of one scan. Exactly one variant is
// produced per completed scan; aborted scans produce none.
type Outcome interface {
	isOutcome()
	// Kind is the stable wire tag for results and alerts.
	Kind() string
}

// NoFinding means the scan completed and nothing suspicious surfaced.
type NoFinding struct{}

func (NoFinding) isOutcome()   {}
func (NoFinding) Kind() string { return "no_finding" }

// KeywordFinding carries the deterministic matcher's hits. It is the
// fallback verdict when the AI assessment has nothing informative to say.
type KeywordFinding struct {
	Hits []keyword.Hit
}

func (KeywordFinding) isOutcome()   {}
func (KeywordFinding) Kind() string { return "keyword_finding" }

// AiFinding carries a substantive AI risk assessment.
type AiFinding struct {
	Assessment assess.RiskAssessment
}

func (AiFinding) isOutcome()   {}
func (AiFinding) Kind() string { return "ai_finding" }
