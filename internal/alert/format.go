package alert

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/screenguard/internal/assess"
)

// FormatPayload builds the webhook body for the given format.
func FormatPayload(format string, event ScanEvent) ([]byte, error) {
	switch format {
	case "slack":
		return formatSlack(event)
	case "pagerduty":
		return formatPagerDuty(event)
	default:
		return formatGeneric(event)
	}
}

func formatGeneric(event ScanEvent) ([]byte, error) {
	return json.Marshal(event)
}

func formatSlack(event ScanEvent) ([]byte, error) {
	payload := map[string]any{
		"blocks": []any{
			map[string]any{
				"type": "header",
				"text": map[string]any{
					"type": "plain_text",
					"text": fmt.Sprintf("screenguard: %s", event.Outcome),
				},
			},
			map[string]any{
				"type": "section",
				"fields": []any{
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Scan:* %s", event.ScanID)},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Risk:* %s", riskLabelFor(event))},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Keywords:* %s", strings.Join(event.Keywords, ", "))},
					map[string]any{"type": "mrkdwn", "text": fmt.Sprintf("*Reason:* %s", event.Reason)},
				},
			},
		},
	}
	return json.Marshal(payload)
}

func formatPagerDuty(event ScanEvent) ([]byte, error) {
	severity := "info"
	switch {
	case event.RiskLevel == assess.RiskHigh:
		severity = "critical"
	case event.RiskLevel == assess.RiskMedium:
		severity = "warning"
	case event.Outcome == "keyword_finding":
		severity = "warning"
	}

	payload := map[string]any{
		"event_action": "trigger",
		"payload": map[string]any{
			"summary":  fmt.Sprintf("screenguard %s: %s", event.Outcome, event.Reason),
			"severity": severity,
			"source":   "screenguard",
			"custom_details": map[string]any{
				"scan_id":    event.ScanID,
				"risk_level": event.RiskLevel,
				"keywords":   event.Keywords,
				"advice":     event.Advice,
			},
		},
	}
	return json.Marshal(payload)
}

func riskLabelFor(event ScanEvent) string {
	if event.RiskLevel != "" {
		return event.RiskLevel
	}
	if event.Outcome == "keyword_finding" {
		return "keyword match"
	}
	return "none"
}
