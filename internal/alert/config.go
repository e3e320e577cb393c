package alert

import (
	"time"

	"github.com/ppiankov/screenguard/internal/scan"
)

// AlertConfig defines a webhook alert destination.
type AlertConfig struct {
	URL     string            `yaml:"url"     json:"url"`
	Format  string            `yaml:"format"  json:"format"` // "generic", "slack", "pagerduty"
	Events  []string          `yaml:"events"  json:"events"` // outcome kinds; empty matches all
	Headers map[string]string `yaml:"headers" json:"headers"`
}

// ScanEvent is the payload sent to webhook endpoints.
type ScanEvent struct {
	Timestamp string   `json:"timestamp"`
	ScanID    string   `json:"scan_id"`
	Outcome   string   `json:"outcome"`
	RiskLevel string   `json:"risk_level,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	Advice    string   `json:"advice,omitempty"`
}

// EventFrom flattens a scan outcome into its alert payload.
func EventFrom(scanID string, outcome scan.Outcome, at time.Time) ScanEvent {
	ev := ScanEvent{
		Timestamp: at.UTC().Format(time.RFC3339),
		ScanID:    scanID,
		Outcome:   outcome.Kind(),
	}

	switch o := outcome.(type) {
	case scan.KeywordFinding:
		for _, h := range o.Hits {
			ev.Keywords = append(ev.Keywords, h.String())
		}
		ev.Reason = "위험 키워드가 발견되었습니다."
	case scan.AiFinding:
		ev.RiskLevel = o.Assessment.RiskLevel
		ev.Keywords = o.Assessment.DangerousKeywords
		ev.Reason = o.Assessment.Reason
		ev.Advice = o.Assessment.Advice
	}
	return ev
}
