package permission

import "sync"

// Holder is the process-wide registry for the current Grant.
// Lifecycle: Set → Current (0..n) → Clear / ClearDetached. Single writer.
type Holder struct {
	mu    sync.Mutex
	grant *Grant
}

// NewHolder creates an empty holder.
func NewHolder() *Holder {
	return &Holder{}
}

// Set installs a new grant, replacing any previous one without stopping it.
func (h *Holder) Set(g *Grant) {
	h.mu.Lock()
	h.grant = g
	h.mu.Unlock()
}

// Current returns the held grant, or nil.
func (h *Holder) Current() *Grant {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.grant
}

// Clear stops the held grant and drops it. Idempotent.
func (h *Holder) Clear() {
	h.mu.Lock()
	g := h.grant
	h.grant = nil
	h.mu.Unlock()

	if g != nil {
		_ = g.Stop()
	}
}

// ClearDetached drops the held grant without stopping it. Used when the
// platform already invalidated the capability and stopping again would
// signal a capability the platform no longer owns. Idempotent.
func (h *Holder) ClearDetached() {
	h.mu.Lock()
	h.grant = nil
	h.mu.Unlock()
}
