// Package scan runs the capture, extraction, filtering and assessment
// stages of one screen scan and resolves them into a single outcome.
package scan

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ppiankov/screenguard/internal/assess"
	"github.com/ppiankov/screenguard/internal/capture"
	"github.com/ppiankov/screenguard/internal/filter"
	"github.com/ppiankov/screenguard/internal/keyword"
	"github.com/ppiankov/screenguard/internal/permission"
)

// Admission failures. Both leave the orchestrator ready for the next
// request.
var (
	ErrBusy        = errors.New("scan: another scan is in flight")
	ErrRateLimited = errors.New("scan: rate limit exceeded")
)

// State tracks where the current scan is in its lifecycle.
type State string

const (
	StateIdle       State = "idle"
	StateCapturing  State = "capturing"
	StateExtracting State = "extracting"
	StateFiltering  State = "filtering"
	StateAssessing  State = "assessing"
	StateResolved   State = "resolved"
	StateAborted    State = "aborted"
)

// FrameSource produces decoded frames from the live capture session.
// *capture.Manager is the production implementation.
type FrameSource interface {
	EnsureInitialized() error
	CaptureFrame(ctx context.Context) (*image.RGBA, error)
}

// Extractor turns one frame into ordered text lines.
type Extractor interface {
	ExtractText(ctx context.Context, img image.Image) ([]string, error)
}

// Assessor classifies filtered text. Infallible by contract; degraded
// verdicts carry a safe default instead of an error.
type Assessor interface {
	Assess(ctx context.Context, lines []string) assess.RiskAssessment
}

// Presenter receives the outcome of every completed scan. Aborted scans
// are never presented.
type Presenter interface {
	Present(ctx context.Context, scanID string, outcome Outcome) error
}

const perMinuteDefault = 12

// Options wires the orchestrator's collaborators.
type Options struct {
	Holder     *permission.Holder
	Frames     FrameSource
	Extractor  Extractor
	Assessor   Assessor
	Keywords   []keyword.Keyword
	Presenters []Presenter

	// PerMinute caps scan admissions; zero applies the default.
	PerMinute int
}

// Orchestrator serializes scans: at most one in flight, admission rate
// limited, every admitted scan resolved or aborted.
type Orchestrator struct {
	holder     *permission.Holder
	frames     FrameSource
	extractor  Extractor
	assessor   Assessor
	keywords   []keyword.Keyword
	presenters []Presenter
	limiter    *rate.Limiter

	mu    sync.Mutex
	state State
}

// NewOrchestrator builds an idle orchestrator from its collaborators.
func NewOrchestrator(opts Options) *Orchestrator {
	perMinute := opts.PerMinute
	if perMinute <= 0 {
		perMinute = perMinuteDefault
	}
	return &Orchestrator{
		holder:     opts.Holder,
		frames:     opts.Frames,
		extractor:  opts.Extractor,
		assessor:   opts.Assessor,
		keywords:   opts.Keywords,
		presenters: opts.Presenters,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), 1),
		state:      StateIdle,
	}
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// admit gates one scan request: no concurrent scan, within the rate
// limit, and a valid grant on hand.
func (o *Orchestrator) admit() (*permission.Grant, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.state {
	case StateIdle, StateResolved, StateAborted:
	default:
		return nil, ErrBusy
	}
	if !o.limiter.Allow() {
		return nil, ErrRateLimited
	}
	grant := o.holder.Current()
	if grant == nil || !grant.Valid() {
		return nil, capture.ErrNoPermission
	}
	o.state = StateCapturing
	return grant, nil
}

// Run executes one full scan. A mid-scan permission revocation cancels
// the run; aborted scans return the cancellation error and present
// nothing. Completed scans resolve to exactly one outcome, delivered to
// every presenter.
func (o *Orchestrator) Run(ctx context.Context, scanID string) (Outcome, error) {
	grant, err := o.admit()
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	grant.OnRevoke(cancel)

	outcome, err := o.pipeline(runCtx, scanID)
	if err != nil {
		o.setState(StateAborted)
		return nil, err
	}

	o.setState(StateResolved)
	o.present(ctx, scanID, outcome)
	return outcome, nil
}

func (o *Orchestrator) pipeline(ctx context.Context, scanID string) (Outcome, error) {
	if err := o.frames.EnsureInitialized(); err != nil {
		return nil, err
	}
	img, err := o.frames.CaptureFrame(ctx)
	if err != nil {
		return nil, err
	}

	o.setState(StateExtracting)
	lines, err := o.extractor.ExtractText(ctx, img)
	if err != nil {
		return nil, err
	}

	o.setState(StateFiltering)
	content := filter.Filter(lines)
	hits := keyword.Match(content, o.keywords)

	o.setState(StateAssessing)
	assessment := o.assessor.Assess(ctx, content)
	if err := ctx.Err(); err != nil {
		// Revoked or cancelled while assessing; the verdict is void.
		return nil, err
	}

	return resolve(assessment, hits), nil
}

// resolve applies the verdict precedence: an informative AI assessment
// outranks keyword hits, keyword hits outrank silence.
func resolve(assessment assess.RiskAssessment, hits []keyword.Hit) Outcome {
	if assessment.Informative() {
		return AiFinding{Assessment: assessment}
	}
	if len(hits) > 0 {
		return KeywordFinding{Hits: hits}
	}
	return NoFinding{}
}

func (o *Orchestrator) present(ctx context.Context, scanID string, outcome Outcome) {
	for _, p := range o.presenters {
		if err := p.Present(ctx, scanID, outcome); err != nil {
			fmt.Fprintf(os.Stderr, "screenguard: presenter failed for scan %s: %v\n", scanID, err)
		}
	}
}
