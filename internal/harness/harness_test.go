package harness

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tempo/internal/temporal"
)

func mustInterval(t *testing.T, s string) temporal.Interval {
	t.Helper()
	iv, err := temporal.ParseInterval(s)
	require.NoError(t, err)
	return iv
}

func TestRun_ExpectationsMet(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "expectations",
		Description: "results and error codes",
		Flow: []FlowStep{
			{Op: "duration.plus", Args: []string{"PT1S", "PT0.5S"}, Expect: &ExpectClause{Result: "PT1.5S"}},
			{Op: "duration.dividedBy", Args: []string{"PT1S", "0"}, Expect: &ExpectClause{Error: "DIVISION_BY_ZERO"}},
			{Op: "duration.sqrt", Args: []string{"PT1S"}, Expect: &ExpectClause{Error: "UNKNOWN_OP"}},
			{Op: "duration.plus", Args: []string{"PT1S"}, Expect: &ExpectClause{Error: "BAD_ARGUMENTS"}},
			{Op: "duration.negated", Args: []string{"PT1S"}},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	assert.Empty(t, result.Errors)
	require.Len(t, result.Trace, 5)
	assert.Equal(t, TraceEvent{Seq: 1, Op: "duration.plus", Args: []string{"PT1S", "PT0.5S"}, Result: "PT1.5S"}, result.Trace[0])
	assert.Equal(t, TraceEvent{Seq: 2, Op: "duration.dividedBy", Args: []string{"PT1S", "0"}, Error: "DIVISION_BY_ZERO"}, result.Trace[1])
	assert.Equal(t, "PT-1S", result.Trace[4].Result)
}

func TestRun_ExpectationMismatches(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "mismatches",
		Description: "every kind of failed expectation",
		Flow: []FlowStep{
			{Op: "duration.plus", Args: []string{"PT1S", "PT1S"}, Expect: &ExpectClause{Result: "PT3S"}},
			{Op: "duration.parse", Args: []string{"PT1X"}, Expect: &ExpectClause{Result: "PT1S"}},
			{Op: "duration.parse", Args: []string{"PT1S"}, Expect: &ExpectClause{Error: "PARSE_FAILED"}},
			{Op: "duration.parse", Args: []string{"PT1X"}, Expect: &ExpectClause{Error: "DIVISION_BY_ZERO"}},
		},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 4)
	assert.Equal(t, `flow[0] duration.plus: expected result "PT3S", got "PT2S"`, result.Errors[0])
	assert.Contains(t, result.Errors[1], `flow[1] duration.parse: expected result "PT1S", got error PARSE_FAILED`)
	assert.Equal(t, `flow[2] duration.parse: expected error PARSE_FAILED, got result "PT1S"`, result.Errors[2])
	assert.Equal(t, `flow[3] duration.parse: expected error DIVISION_BY_ZERO, got error PARSE_FAILED`, result.Errors[3])
}

func TestRun_ClockSteps(t *testing.T) {
	start := temporal.MustOf(2008, 2, 29, 23, 59, 30, 0, temporal.UTC)
	step, err := temporal.ParseDuration("PT15S")
	require.NoError(t, err)

	result, err := Run(&Scenario{
		Name:        "clock",
		Description: "each clock.now reading advances",
		Clock:       &ClockSpec{Start: start, Step: step},
		Flow: []FlowStep{
			{Op: "clock.now"},
			{Op: "clock.now"},
			{Op: "clock.now"},
		},
	})
	require.NoError(t, err)

	var got []string
	for _, event := range result.Trace {
		got = append(got, event.Result)
	}
	assert.Equal(t, []string{"2008-02-29T23:59:30Z", "2008-02-29T23:59:45Z", "2008-03-01T00:00:00Z"}, got)
}

func TestRun_DefaultClockIsFixed(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "default_clock",
		Description: "without a clock spec now never moves",
		Flow:        []FlowStep{{Op: "clock.now"}, {Op: "clock.now"}},
	})
	require.NoError(t, err)

	for _, event := range result.Trace {
		assert.Equal(t, "2000-01-01T00:00:00Z", event.Result)
	}
}

func TestRun_ZoneAppliesToBareArguments(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "zone",
		Description: "bare date-times take the scenario zone",
		Zone:        "-05:00",
		Flow: []FlowStep{
			{Op: "datetime.parse", Args: []string{"2008-02-29T19:00"}, Expect: &ExpectClause{Result: "2008-02-29T19:00:00-05:00"}},
			{Op: "datetime.withZone", Args: []string{"2008-02-29T19:00", "Z"}, Expect: &ExpectClause{Result: "2008-03-01T00:00:00Z"}},
		},
	})
	require.NoError(t, err)
	assert.True(t, result.Pass, result.Errors)
}

func TestRun_Timeline(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "timeline",
		Description: "setup entries feed timeline ops",
		Setup: []SetupEntry{
			{Label: "a", Interval: mustInterval(t, "2001-01-01/2001-01-03")},
			{Label: "b", Interval: mustInterval(t, "2001-01-02/2001-01-04")},
			{Label: "c", Interval: mustInterval(t, "2001-01-06/2001-01-07")},
		},
		Flow: []FlowStep{
			{Op: "timeline.list", Expect: &ExpectClause{Result: "a 2001-01-01T00:00:00Z/2001-01-03T00:00:00Z; " +
				"b 2001-01-02T00:00:00Z/2001-01-04T00:00:00Z; c 2001-01-06T00:00:00Z/2001-01-07T00:00:00Z"}},
			{Op: "timeline.coverage", Expect: &ExpectClause{Result: "2001-01-01T00:00:00Z/2001-01-04T00:00:00Z; " +
				"2001-01-06T00:00:00Z/2001-01-07T00:00:00Z"}},
			{Op: "timeline.gaps", Expect: &ExpectClause{Result: "2001-01-04T00:00:00Z/2001-01-06T00:00:00Z"}},
			{Op: "timeline.overlapping", Args: []string{"2001-01-04/2001-01-06"}, Expect: &ExpectClause{Result: "none"}},
			{Op: "timeline.add", Args: []string{"d", "2001-01-04/2001-01-06"}, Expect: &ExpectClause{Result: "entry-004"}},
			{Op: "timeline.gaps", Expect: &ExpectClause{Result: "none"}},
			{Op: "timeline.remove", Args: []string{"entry-002"}, Expect: &ExpectClause{Result: "entry-002"}},
			{Op: "timeline.remove", Args: []string{"entry-002"}, Expect: &ExpectClause{Error: "BAD_ARGUMENTS"}},
			{Op: "timeline.add", Args: []string{"e", "2001-01-02/2001-01-01"}, Expect: &ExpectClause{Error: "INTERVAL_INVERTED"}},
		},
		Assertions: []Assertion{
			{Type: AssertTraceCount, Op: "timeline.add", Count: 5},
			{Type: AssertFinalState, Table: "entries", Where: map[string]any{"label": "d"}, Expect: map[string]any{"id": "entry-004"}},
		},
	})
	require.NoError(t, err)

	assert.True(t, result.Pass, result.Errors)
	require.Len(t, result.Trace, 12)
	assert.Equal(t, TraceEvent{Seq: 1, Op: "timeline.add", Args: []string{"a", "2001-01-01T00:00:00Z/2001-01-03T00:00:00Z"}, Result: "entry-001"}, result.Trace[0])
}

func TestRun_FailedAssertion(t *testing.T) {
	result, err := Run(&Scenario{
		Name:        "failed_assertion",
		Description: "assertion failures mark the result failed",
		Flow:        []FlowStep{{Op: "clock.now"}},
		Assertions:  []Assertion{{Type: AssertTraceCount, Op: "clock.now", Count: 2}},
	})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "Expected: 2 occurrences of clock.now")
}

func TestRun_BadZone(t *testing.T) {
	_, err := Run(&Scenario{Name: "z", Zone: "Mars/Olympus", Flow: []FlowStep{{Op: "clock.now"}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario zone")
}

func TestRun_SetupFailure(t *testing.T) {
	_, err := Run(&Scenario{
		Name:  "setup",
		Setup: []SetupEntry{{Label: "  ", Interval: mustInterval(t, "2001-01-01/2001-01-02")}},
		Flow:  []FlowStep{{Op: "clock.now"}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "setup step 0")
}

func TestRunWithLogger_LogsSteps(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	_, err := RunWithLogger(&Scenario{
		Name:  "logged",
		Setup: []SetupEntry{{Label: "a", Interval: mustInterval(t, "2001-01-01/2001-01-02")}},
		Flow:  []FlowStep{{Op: "duration.parse", Args: []string{"PT60S"}}},
	}, logger)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `msg="setup step completed"`)
	assert.Contains(t, out, "id=entry-001")
	assert.Contains(t, out, `msg="flow step completed"`)
	assert.Contains(t, out, "result=PT1M")
}
