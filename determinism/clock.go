package determinism

import (
	"sync"
	"time"
)

// Clock returns wall time unless frozen, in which case now() returns the
// frozen value exactly, every call, until unfrozen. Safe for concurrent use.
type Clock struct {
	mu     sync.Mutex
	frozen *float64
}

// NewClock returns an unfrozen, wall-clock-backed Clock.
func NewClock() *Clock {
	return &Clock{}
}

// Now returns the frozen value if set, else the current unix time in
// fractional seconds.
func (c *Clock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.frozen != nil {
		return *c.frozen
	}
	return float64(time.Now().UnixNano()) / 1e9
}

// Freeze pins Now() to value until Unfreeze is called.
func (c *Clock) Freeze(value float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = &value
}

// Unfreeze releases a prior Freeze, reverting to wall time.
func (c *Clock) Unfreeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = nil
}

// IsFrozen reports whether the clock currently returns a pinned value.
func (c *Clock) IsFrozen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frozen != nil
}
