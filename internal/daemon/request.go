// Package daemon implements the screenguard inbox/outbox scan service.
// Scan requests arrive as JSON files in the inbox directory, run through
// the scan pipeline one at a time, and results are written to the outbox.
package daemon

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ppiankov/screenguard/internal/scan"
)

// validID matches alphanumeric characters, dashes, and underscores only.
var validID = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Request is a scan trigger dropped into the inbox.
type Request struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	RequestedAt time.Time `json:"requested_at"`
}

// Result is written to the outbox after a request is handled.
type Result struct {
	ID          string    `json:"id"`
	Status      string    `json:"status"`
	Outcome     string    `json:"outcome,omitempty"`
	RiskLevel   string    `json:"risk_level,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	Reason      string    `json:"reason,omitempty"`
	Advice      string    `json:"advice,omitempty"`
	Error       string    `json:"error,omitempty"`
	CompletedAt time.Time `json:"completed_at"`
}

// Result status values.
const (
	ResultDone     = "done"
	ResultRejected = "rejected"
	ResultFailed   = "failed"
)

// ValidateRequest checks that a request has a safe, filesystem-usable ID.
func ValidateRequest(r *Request) error {
	if r.ID == "" {
		return fmt.Errorf("request ID is required")
	}
	if strings.Contains(r.ID, "..") {
		return fmt.Errorf("request ID must not contain '..'")
	}
	if !validID.MatchString(r.ID) {
		return fmt.Errorf("request ID contains invalid characters: only alphanumeric, dash, and underscore allowed")
	}
	return nil
}

// resultFrom flattens a completed scan's outcome into an outbox result.
func resultFrom(id string, outcome scan.Outcome) *Result {
	r := &Result{
		ID:          id,
		Status:      ResultDone,
		Outcome:     outcome.Kind(),
		CompletedAt: time.Now().UTC(),
	}
	switch o := outcome.(type) {
	case scan.KeywordFinding:
		for _, h := range o.Hits {
			r.Keywords = append(r.Keywords, h.String())
		}
	case scan.AiFinding:
		r.RiskLevel = o.Assessment.RiskLevel
		r.Keywords = o.Assessment.DangerousKeywords
		r.Reason = o.Assessment.Reason
		r.Advice = o.Assessment.Advice
	}
	return r
}
