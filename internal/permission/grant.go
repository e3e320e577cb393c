// Package permission owns the capture capability granted by the platform
// consent flow. A Grant wraps the platform's stop action and fans a single
// platform-side revocation out to registered listeners; the Holder is the
// injectable single-writer registry components receive instead of a global.
package permission

import "sync"

// Grant is the one-time capture capability. It must be stopped at most once,
// and never after the platform reports it revoked, since the platform has
// already stopped it by then.
type Grant struct {
	mu        sync.Mutex
	stop      func() error
	stopped   bool
	revoked   bool
	listeners []func()
}

// NewGrant wraps the platform stop action into a Grant.
func NewGrant(stop func() error) *Grant {
	return &Grant{stop: stop}
}

// OnRevoke registers a listener invoked when the platform revokes the grant.
// Listeners registered after revocation fire immediately.
func (g *Grant) OnRevoke(fn func()) {
	g.mu.Lock()
	if g.revoked {
		g.mu.Unlock()
		fn()
		return
	}
	g.listeners = append(g.listeners, fn)
	g.mu.Unlock()
}

// Revoked marks the grant invalid and fires listeners exactly once.
// Called by the platform collaborator; idempotent.
func (g *Grant) Revoked() {
	g.mu.Lock()
	if g.revoked {
		g.mu.Unlock()
		return
	}
	g.revoked = true
	g.stopped = true // the platform stopped the capability itself
	fns := g.listeners
	g.listeners = nil
	g.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Stop invokes the platform stop action. Safe to call repeatedly and after
// revocation: the action runs at most once, and never on a capability the
// platform already stopped.
func (g *Grant) Stop() error {
	g.mu.Lock()
	if g.stopped {
		g.mu.Unlock()
		return nil
	}
	g.stopped = true
	stop := g.stop
	g.mu.Unlock()

	if stop == nil {
		return nil
	}
	return stop()
}

// Valid reports whether the grant can still back a capture session.
func (g *Grant) Valid() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.revoked && !g.stopped
}
