package inflation

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/meenmo/cpilib/errs"
	"github.com/meenmo/cpilib/utils"
)

// FixingHistory is an append-only record of published index levels. It is
// safe for concurrent use.
type FixingHistory struct {
	mu     sync.RWMutex
	dates  []time.Time
	levels map[time.Time]float64
}

// NewFixingHistory returns an empty history.
func NewFixingHistory() *FixingHistory {
	return &FixingHistory{levels: make(map[time.Time]float64)}
}

func sameLevel(a, b float64) bool {
	return math.Abs(a-b) <= 1e-12*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

// Add records level at date. Re-adding an identical value is a no-op. Dates
// must arrive in increasing order.
func (h *FixingHistory) Add(date time.Time, level float64) error {
	if level <= 0 || math.IsNaN(level) || math.IsInf(level, 0) {
		return errs.InvalidInput("FixingHistory.Add: level %g at %s is not positive", level, utils.FormatDate(date))
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.levels[date]; ok {
		if sameLevel(prev, level) {
			return nil
		}
		return fmt.Errorf("%w: %s already fixed at %g, got %g", errs.ErrFixingInconsistency, utils.FormatDate(date), prev, level)
	}
	if n := len(h.dates); n > 0 && date.Before(h.dates[n-1]) {
		return errs.InvalidInput("FixingHistory.Add: %s is before the last fixing %s", utils.FormatDate(date), utils.FormatDate(h.dates[n-1]))
	}
	h.dates = append(h.dates, date)
	h.levels[date] = level
	return nil
}

// Get returns the level published for date.
func (h *FixingHistory) Get(date time.Time) (float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	v, ok := h.levels[date]
	return v, ok
}

// Last returns the most recent fixing date.
func (h *FixingHistory) Last() (time.Time, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if len(h.dates) == 0 {
		return time.Time{}, false
	}
	return h.dates[len(h.dates)-1], true
}

// Len is the number of fixings.
func (h *FixingHistory) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.dates)
}

// Dates returns a copy of the fixing dates in order.
func (h *FixingHistory) Dates() []time.Time {
	h.mu.RLock()
	defer h.mu.RUnlock()
	out := make([]time.Time, len(h.dates))
	copy(out, h.dates)
	return out
}
