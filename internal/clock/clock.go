// Package clock provides the current date-time as a temporal.DateTime.
//
// Reading the wall clock is the only effectful operation in tempo. Code that
// needs "now" depends on the Clock interface so tests can substitute a
// FixedClock, an OffsetClock or a mock.
package clock

import (
	"fmt"
	"time"

	"github.com/roach88/tempo/internal/temporal"
)

// Clock returns the current date-time.
type Clock interface {
	DateTime() temporal.DateTime
}

// SystemClock reads the system wall clock and renders it in a location.
type SystemClock struct {
	loc *time.Location
}

// NewSystemClock returns a clock in loc. A nil loc means UTC.
func NewSystemClock(loc *time.Location) *SystemClock {
	if loc == nil {
		loc = time.UTC
	}
	return &SystemClock{loc: loc}
}

// UTC returns a system clock in UTC.
func UTC() *SystemClock { return NewSystemClock(time.UTC) }

// Local returns a system clock in the platform's default location.
func Local() *SystemClock { return NewSystemClock(time.Local) }

// Location returns the clock's location.
func (c *SystemClock) Location() *time.Location { return c.loc }

// DateTime returns the current instant at the offset loc applies to it.
func (c *SystemClock) DateTime() temporal.DateTime {
	return temporal.MustFromTime(time.Now().In(c.loc))
}

// FixedClock always returns the same date-time.
type FixedClock struct {
	dt temporal.DateTime
}

// NewFixedClock returns a clock stopped at dt.
func NewFixedClock(dt temporal.DateTime) FixedClock { return FixedClock{dt: dt} }

func (c FixedClock) DateTime() temporal.DateTime { return c.dt }

// OffsetClock shifts another clock by a fixed duration.
type OffsetClock struct {
	base   Clock
	offset temporal.Duration
}

// NewOffsetClock returns a clock reading base plus offset.
func NewOffsetClock(base Clock, offset temporal.Duration) OffsetClock {
	return OffsetClock{base: base, offset: offset}
}

// DateTime panics if the shifted date-time leaves the supported year range.
func (c OffsetClock) DateTime() temporal.DateTime {
	dt, err := c.base.DateTime().PlusDuration(c.offset)
	if err != nil {
		panic(fmt.Sprintf("clock: offset %s: %v", c.offset, err))
	}
	return dt
}

// FuncClock adapts a function to a Clock.
type FuncClock func() temporal.DateTime

func (f FuncClock) DateTime() temporal.DateTime { return f() }

var (
	_ Clock = (*SystemClock)(nil)
	_ Clock = FixedClock{}
	_ Clock = OffsetClock{}
	_ Clock = FuncClock(nil)
)
