package alert

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/ppiankov/screenguard/internal/scan"
)

// Dispatcher fans scan outcomes out to matching webhook configurations.
// It plugs into the orchestrator as a presenter.
type Dispatcher struct {
	configs []AlertConfig
	now     func() time.Time
	send    func(AlertConfig, ScanEvent) error
}

// NewDispatcher creates a Dispatcher from webhook configurations.
// Returns nil if configs is empty (callers should nil-check).
func NewDispatcher(configs []AlertConfig) *Dispatcher {
	if len(configs) == 0 {
		return nil
	}
	return &Dispatcher{configs: configs, now: time.Now, send: Send}
}

// Present sends the outcome to all webhooks whose Events list matches its
// kind. Delivery runs in goroutines and does not block scan resolution;
// per-destination failures are logged, never propagated.
func (d *Dispatcher) Present(_ context.Context, scanID string, outcome scan.Outcome) error {
	event := EventFrom(scanID, outcome, d.now())
	for _, cfg := range d.configs {
		if !matches(cfg.Events, event) {
			continue
		}
		cfg := cfg
		go func() {
			if err := d.send(cfg, event); err != nil {
				fmt.Fprintf(os.Stderr, "screenguard: alert delivery to %s: %v\n", cfg.URL, err)
			}
		}()
	}
	return nil
}

// matches reports whether the destination wants this outcome kind. An
// empty Events list subscribes to everything.
func matches(events []string, event ScanEvent) bool {
	if len(events) == 0 {
		return true
	}
	for _, e := range events {
		if e == event.Outcome {
			return true
		}
	}
	return false
}
