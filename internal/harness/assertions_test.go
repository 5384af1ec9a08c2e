package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tempo/internal/store"
	"github.com/roach88/tempo/internal/temporal"
	"github.com/roach88/tempo/internal/testutil"
)

func sampleTrace() []TraceEvent {
	r := NewResult()
	r.AddTrace("duration.parse", []string{"PT90M"}, "PT1H30M", "")
	r.AddTrace("duration.plus", []string{"PT1S", "PT2S"}, "PT3S", "")
	r.AddTrace("duration.dividedBy", []string{"PT1S", "0"}, "", "DIVISION_BY_ZERO")
	r.AddTrace("duration.plus", []string{"PT1S", "PT1S"}, "PT2S", "")
	return r.Trace
}

func TestAssertTraceContains_Found(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type: AssertTraceContains,
		Op:   "duration.plus",
		Args: []string{"PT1S", "PT1S"},
	})
	assert.NoError(t, err)
}

func TestAssertTraceContains_ArgsArePrefix(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type: AssertTraceContains,
		Op:   "duration.dividedBy",
		Args: []string{"PT1S"},
	})
	assert.NoError(t, err)
}

func TestAssertTraceContains_NotFound(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type: AssertTraceContains,
		Op:   "duration.minus",
	})
	require.Error(t, err)

	assertErr, ok := err.(*AssertionError)
	require.True(t, ok)
	assert.Equal(t, "trace_contains", assertErr.Type)
	assert.Contains(t, assertErr.Expected, "duration.minus")
	assert.Equal(t, "not found in trace", assertErr.Actual)
	assert.Contains(t, assertErr.Error(), "[1] duration.parse [PT90M]")
}

func TestAssertTraceContains_WrongArgs(t *testing.T) {
	err := assertTraceContains(sampleTrace(), Assertion{
		Type: AssertTraceContains,
		Op:   "duration.plus",
		Args: []string{"PT2S"},
	})
	assert.Error(t, err)
}

func TestAssertTraceOrder(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceOrder(trace, Assertion{
		Type: AssertTraceOrder,
		Ops:  []string{"duration.parse", "duration.plus", "duration.dividedBy"},
	}))

	err := assertTraceOrder(trace, Assertion{
		Type: AssertTraceOrder,
		Ops:  []string{"duration.dividedBy", "duration.plus"},
	})
	require.Error(t, err)
	assert.Contains(t, err.(*AssertionError).Actual, "duration.dividedBy (pos 3) should be before duration.plus (pos 2)")

	err = assertTraceOrder(trace, Assertion{
		Type: AssertTraceOrder,
		Ops:  []string{"duration.parse", "clock.now"},
	})
	require.Error(t, err)
	assert.Equal(t, "missing op: clock.now", err.(*AssertionError).Actual)
}

func TestAssertTraceCount(t *testing.T) {
	trace := sampleTrace()

	assert.NoError(t, assertTraceCount(trace, Assertion{Type: AssertTraceCount, Op: "duration.plus", Count: 2}))
	assert.NoError(t, assertTraceCount(trace, Assertion{Type: AssertTraceCount, Op: "clock.now", Count: 0}))

	err := assertTraceCount(trace, Assertion{Type: AssertTraceCount, Op: "duration.plus", Count: 1})
	require.Error(t, err)
	assert.Equal(t, "2 occurrences", err.(*AssertionError).Actual)
}

func seededStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.SequentialIDs("entry")))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ctx := context.Background()
	for _, e := range []struct{ label, iv string }{
		{"standup", "2001-01-01T09:00Z/2001-01-01T09:15Z"},
		{"standup", "2001-01-02T09:00Z/2001-01-02T09:15Z"},
		{"lunch", "2001-01-01T12:00+01:00/2001-01-01T13:00+01:00"},
	} {
		iv, err := temporal.ParseInterval(e.iv)
		require.NoError(t, err)
		_, err = st.Add(ctx, e.label, iv)
		require.NoError(t, err)
	}
	return st
}

func TestAssertFinalState(t *testing.T) {
	st := seededStore(t)
	ctx := context.Background()

	err := assertFinalState(ctx, st, Assertion{
		Type:   AssertFinalState,
		Table:  "entries",
		Where:  map[string]any{"label": "lunch"},
		Expect: map[string]any{"id": "entry-003", "start_text": "2001-01-01T12:00:00+01:00", "start_micro": 978346800000000},
	})
	assert.NoError(t, err)
}

func TestAssertFinalState_Failures(t *testing.T) {
	st := seededStore(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{
			name:      "value mismatch",
			assertion: Assertion{Table: "entries", Where: map[string]any{"id": "entry-001"}, Expect: map[string]any{"label": "lunch"}},
			want:      `field "label" = standup`,
		},
		{
			name:      "row not found",
			assertion: Assertion{Table: "entries", Where: map[string]any{"id": "entry-999"}, Expect: map[string]any{"label": "lunch"}},
			want:      "row not found",
		},
		{
			name:      "ambiguous",
			assertion: Assertion{Table: "entries", Where: map[string]any{"label": "standup"}, Expect: map[string]any{"label": "standup"}},
			want:      "multiple rows matched",
		},
		{
			name:      "missing column",
			assertion: Assertion{Table: "entries", Where: map[string]any{"id": "entry-001"}, Expect: map[string]any{"colour": "red"}},
			want:      `field "colour" not present`,
		},
		{
			name:      "bad table name",
			assertion: Assertion{Table: "entries; DROP TABLE entries", Expect: map[string]any{"id": "x"}},
			want:      "invalid table name",
		},
		{
			name:      "bad column name",
			assertion: Assertion{Table: "entries", Where: map[string]any{"id OR 1=1": "x"}, Expect: map[string]any{"id": "x"}},
			want:      "invalid column name",
		},
		{
			name:      "unknown table",
			assertion: Assertion{Table: "sessions", Expect: map[string]any{"id": "x"}},
			want:      "query error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.assertion.Type = AssertFinalState
			err := assertFinalState(ctx, st, tt.assertion)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStateValuesEqual(t *testing.T) {
	assert.True(t, stateValuesEqual("a", []byte("a")))
	assert.True(t, stateValuesEqual(3, int64(3)))
	assert.True(t, stateValuesEqual(int64(3), int64(3)))
	assert.True(t, stateValuesEqual(true, int64(1)))
	assert.True(t, stateValuesEqual(nil, nil))
	assert.True(t, stateValuesEqual(1.5, 1.5))

	assert.False(t, stateValuesEqual("3", int64(3)))
	assert.False(t, stateValuesEqual(false, int64(1)))
	assert.False(t, stateValuesEqual(nil, "x"))
}

func TestEvaluateAssertions(t *testing.T) {
	result := &Result{Trace: sampleTrace()}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertTraceCount, Op: "duration.plus", Count: 2},
		{Type: AssertTraceContains, Op: "clock.now"},
		{Type: AssertFinalState, Table: "entries", Expect: map[string]any{"id": "x"}},
		{Type: "trace_exists"},
	}, nil)

	require.Len(t, errs, 3)
	assert.Contains(t, errs[0], "clock.now")
	assert.Contains(t, errs[1], "requires database context")
	assert.Contains(t, errs[2], `unknown assertion type "trace_exists"`)
}
