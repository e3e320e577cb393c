// Package capture owns the permission-gated capture surface and its frame
// buffer. Sessions are created lazily, reused across scans while the backing
// grant stays valid, and torn down on explicit stop, platform revocation, or
// service shutdown. Each teardown path is effective at most once.
package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"sync"
	"time"

	"github.com/ppiankov/screenguard/internal/permission"
)

// Capture failure taxonomy. All are recoverable at the orchestrator level.
var (
	ErrNoPermission  = errors.New("capture: no valid permission grant")
	ErrInitFailed    = errors.New("capture: surface initialization failed")
	ErrAcquireFailed = errors.New("capture: no frame available")
	ErrDecodeFailed  = errors.New("capture: frame buffer inconsistent with stride")
)

// Backend creates capture surfaces from a permission grant. It is the
// platform collaborator boundary: the mirrored-display + frame-buffer pair.
type Backend interface {
	CreateSurface(g *permission.Grant, width, height, density int) (Surface, error)
}

// Surface is one live capture surface.
type Surface interface {
	// Queryable reports whether the underlying display is still valid.
	// The platform may invalidate it while the session object is allocated.
	Queryable() bool
	// AcquireLatest returns the most recent rendered frame, waiting up to
	// the context deadline for one to become available.
	AcquireLatest(ctx context.Context) (*RawFrame, error)
	// Release tears the surface down. Idempotent.
	Release() error
}

// Session pairs a surface with its capture geometry.
type Session struct {
	Width     int
	Height    int
	Density   int
	CreatedAt time.Time

	surface Surface
}

// Config holds capture geometry and the bounded frame-acquisition wait.
type Config struct {
	Width          int
	Height         int
	Density        int
	AcquireTimeout time.Duration
}

const acquireTimeoutDefault = 2 * time.Second

// Manager owns at most one Session and serializes access to it.
type Manager struct {
	backend Backend
	holder  *permission.Holder
	cfg     Config

	mu      sync.Mutex
	session *Session

	// captureMu admits one outstanding frame acquisition at a time.
	captureMu sync.Mutex
}

// NewManager creates a manager bound to an injectable permission holder.
func NewManager(backend Backend, holder *permission.Holder, cfg Config) *Manager {
	if cfg.AcquireTimeout <= 0 {
		cfg.AcquireTimeout = acquireTimeoutDefault
	}
	return &Manager{backend: backend, holder: holder, cfg: cfg}
}

// EnsureInitialized makes sure a usable session exists. Idempotent: an
// existing session whose surface is still queryable is reused; stale state
// is torn down and rebuilt from scratch.
func (m *Manager) EnsureInitialized() error {
	grant := m.holder.Current()
	if grant == nil || !grant.Valid() {
		return ErrNoPermission
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.session != nil {
		if m.session.surface.Queryable() {
			return nil
		}
		// The platform invalidated the display under us. Rebuild.
		fmt.Fprintf(os.Stderr, "screenguard: capture surface went stale, rebuilding\n")
		m.teardownLocked()
	}

	surface, err := m.backend.CreateSurface(grant, m.cfg.Width, m.cfg.Height, m.cfg.Density)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInitFailed, err)
	}

	m.session = &Session{
		Width:     m.cfg.Width,
		Height:    m.cfg.Height,
		Density:   m.cfg.Density,
		CreatedAt: time.Now().UTC(),
		surface:   surface,
	}

	// Platform-driven revocation: tear down the session and detach the
	// holder without re-stopping a capability the platform already stopped.
	grant.OnRevoke(func() {
		m.mu.Lock()
		m.teardownLocked()
		m.mu.Unlock()
		m.holder.ClearDetached()
		fmt.Fprintf(os.Stderr, "screenguard: capture grant revoked, session released\n")
	})

	return nil
}

// CaptureFrame acquires the most recent frame and converts it to a dense
// image. At most one acquisition is outstanding; the frame's buffer slot is
// released on every exit path.
func (m *Manager) CaptureFrame(ctx context.Context) (*image.RGBA, error) {
	m.captureMu.Lock()
	defer m.captureMu.Unlock()

	m.mu.Lock()
	session := m.session
	m.mu.Unlock()
	if session == nil {
		return nil, ErrNoPermission
	}

	acquireCtx, cancel := context.WithTimeout(ctx, m.cfg.AcquireTimeout)
	defer cancel()

	frame, err := session.surface.AcquireLatest(acquireCtx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrAcquireFailed, err)
	}
	defer frame.Release()

	img, err := frame.ToRGBA()
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Session returns a copy of the current session metadata, or nil.
func (m *Manager) Session() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.session == nil {
		return nil
	}
	s := *m.session
	return &s
}

// Shutdown releases the capture surface. Safe after explicit stop, after
// revocation, and on service destruction. The grant itself stays owned by
// the holder.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	m.teardownLocked()
	m.mu.Unlock()
}

func (m *Manager) teardownLocked() {
	if m.session == nil {
		return
	}
	if err := m.session.surface.Release(); err != nil {
		fmt.Fprintf(os.Stderr, "screenguard: release capture surface: %v\n", err)
	}
	m.session = nil
}
