package inflation

import "sync"

// CurveHandle is a relinkable slot for a zero curve. Indices read the curve
// through it, so a curve built after the index can still be attached.
type CurveHandle struct {
	mu    sync.RWMutex
	curve *ZeroCurve
}

// NewCurveHandle returns a handle linked to c, which may be nil.
func NewCurveHandle(c *ZeroCurve) *CurveHandle {
	return &CurveHandle{curve: c}
}

// LinkTo replaces the linked curve.
func (h *CurveHandle) LinkTo(c *ZeroCurve) {
	h.mu.Lock()
	h.curve = c
	h.mu.Unlock()
}

// Curve returns the linked curve or nil.
func (h *CurveHandle) Curve() *ZeroCurve {
	if h == nil {
		return nil
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.curve
}

// Empty reports whether no curve is linked.
func (h *CurveHandle) Empty() bool {
	return h.Curve() == nil
}
