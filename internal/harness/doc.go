// Package harness runs conformance scenarios against the operation registry.
//
// A scenario is a YAML file describing a sequence of named operations, the
// result or error code each must produce, and assertions over the resulting
// trace and the timeline table.
//
// # Scenario Format
//
//	name: leap_day_arithmetic
//	description: "Month arithmetic clamps to the end of February"
//	zone: "+09:00"
//	clock:
//	  start: 2008-02-29T23:59:00Z
//	  step: PT30S
//	setup:
//	  - label: standup
//	    interval: 2008-02-28T09:00:00Z/2008-02-28T09:15:00Z
//	flow:
//	  - op: datetime.plusMonths
//	    args: ["2008-01-31", "1"]
//	    expect:
//	      result: 2008-02-29T00:00:00+09:00
//	  - op: duration.dividedBy
//	    args: [PT1S, "0"]
//	    expect:
//	      error: DIVISION_BY_ZERO
//	assertions:
//	  - type: trace_count
//	    op: clock.now
//	    count: 2
//	  - type: final_state
//	    table: entries
//	    where: { label: standup }
//	    expect: { start_text: "2008-02-28T09:00:00Z" }
//
// # Assertion Types
//
//   - trace_contains: an operation appears in the trace, optionally with
//     the given leading arguments
//   - trace_order: operations appear in the given order
//   - trace_count: an operation appears exactly N times
//   - final_state: a single row of the timeline table has the given values
//
// # Deterministic Testing
//
// Each scenario runs against a fresh in-memory SQLite timeline with
// sequential entry ids and a testutil.SteppingClock behind clock.now, so
// traces are identical across runs and can be compared with golden files.
package harness
