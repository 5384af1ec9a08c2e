package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tempo/internal/temporal"
)

var leapDay = temporal.MustOf(2008, 2, 29, 23, 59, 0, 0, temporal.UTC)

func TestSteppingClock_FirstReadingIsStart(t *testing.T) {
	clock := NewSteppingClock(leapDay, temporal.OfSeconds(30, 0))
	assert.Equal(t, int64(0), clock.Reads())
	assert.Equal(t, "2008-02-29T23:59:00Z", clock.DateTime().String())
	assert.Equal(t, int64(1), clock.Reads())
}

func TestSteppingClock_Advances(t *testing.T) {
	clock := NewSteppingClock(leapDay, temporal.OfSeconds(30, 0))

	var got []string
	for i := 0; i < 4; i++ {
		got = append(got, clock.DateTime().String())
	}

	assert.Equal(t, []string{
		"2008-02-29T23:59:00Z",
		"2008-02-29T23:59:30Z",
		"2008-03-01T00:00:00Z",
		"2008-03-01T00:00:30Z",
	}, got)
}

func TestSteppingClock_ZeroStepIsFixed(t *testing.T) {
	clock := NewSteppingClock(leapDay, temporal.Zero())

	assert.True(t, clock.DateTime().Equal(leapDay))
	assert.True(t, clock.DateTime().Equal(leapDay))
	assert.Equal(t, int64(2), clock.Reads())
}

func TestSteppingClock_NegativeStep(t *testing.T) {
	clock := NewSteppingClock(leapDay, temporal.OfDays(-1))

	clock.DateTime()
	assert.Equal(t, "2008-02-28T23:59:00Z", clock.DateTime().String())
}

func TestSteppingClock_Reset(t *testing.T) {
	clock := NewSteppingClock(leapDay, temporal.OfMinutes(1))

	clock.DateTime()
	clock.DateTime()
	clock.Reset()

	assert.Equal(t, int64(0), clock.Reads())
	assert.True(t, clock.DateTime().Equal(leapDay))
}

func TestSteppingClock_PanicsPastMaxYear(t *testing.T) {
	clock := NewSteppingClock(temporal.MaxDateTime(temporal.UTC), temporal.OfSeconds(1, 0))

	clock.DateTime()
	assert.Panics(t, func() { clock.DateTime() })
}

func TestSteppingClock_ThreadSafe(t *testing.T) {
	clock := NewSteppingClock(leapDay, temporal.OfMicros(1))
	const numGoroutines = 50
	const callsPerGoroutine = 100

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[temporal.DateTime]bool)
	)
	wg.Add(numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < callsPerGoroutine; j++ {
				dt := clock.DateTime()
				mu.Lock()
				seen[dt] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, seen, numGoroutines*callsPerGoroutine)
	assert.Equal(t, int64(numGoroutines*callsPerGoroutine), clock.Reads())
}

func TestSequentialIDs(t *testing.T) {
	next := SequentialIDs("entry")

	assert.Equal(t, "entry-001", next())
	assert.Equal(t, "entry-002", next())

	other := SequentialIDs("trace")
	assert.Equal(t, "trace-001", other())
	assert.Equal(t, "entry-003", next())
}
