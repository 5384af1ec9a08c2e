package testutil

import (
	"fmt"
	"sync"

	"github.com/roach88/tempo/internal/clock"
	"github.com/roach88/tempo/internal/temporal"
)

// SteppingClock is a deterministic clock for tests. The first reading is the
// start date-time and every later reading advances by step.
//
// Unlike clock.FixedClock, SteppingClock moves, so tests can observe that
// "now" was read more than once. It can be reset for test reuse.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type SteppingClock struct {
	mu    sync.Mutex
	start temporal.DateTime
	step  temporal.Duration
	reads int64
}

var _ clock.Clock = (*SteppingClock)(nil)

// NewSteppingClock creates a clock reading start, then start+step, and so on.
func NewSteppingClock(start temporal.DateTime, step temporal.Duration) *SteppingClock {
	return &SteppingClock{start: start, step: step}
}

// DateTime returns the next reading.
//
// Panics if the reading leaves the supported year range; a test that steps
// that far is broken.
func (c *SteppingClock) DateTime() temporal.DateTime {
	c.mu.Lock()
	defer c.mu.Unlock()

	dt, err := c.start.PlusDuration(c.step.MultipliedBy(c.reads))
	if err != nil {
		panic(fmt.Sprintf("testutil: stepping clock reading %d: %v", c.reads, err))
	}
	c.reads++
	return dt
}

// Reads returns how many times DateTime has been called since the last reset.
func (c *SteppingClock) Reads() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reads
}

// Reset rewinds the clock so the next reading is the start again.
func (c *SteppingClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reads = 0
}

// SequentialIDs returns an id generator yielding prefix-001, prefix-002, ...
//
// Used in place of random UUIDs so stored entries list identically on every
// run. The returned function is safe for concurrent use.
func SequentialIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%03d", prefix, n)
	}
}
