package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roach88/tempo/internal/ops"
	"github.com/roach88/tempo/internal/store"
	"github.com/roach88/tempo/internal/temporal"
	"github.com/roach88/tempo/internal/testutil"
)

// DefaultClockStart is what clock.now reads when a scenario has no clock.
var DefaultClockStart = temporal.MustOf(2000, 1, 1, 0, 0, 0, 0, temporal.UTC)

// Harness is the scenario execution engine.
type Harness struct {
	store    *store.Store
	registry *ops.Registry
	env      ops.Env
	logger   *slog.Logger
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
// Deterministic helpers ensure reproducible results.
//
// Execution flow:
// 1. Create fresh in-memory timeline and register the timeline.* ops
// 2. Add setup entries
// 3. Run flow steps, checking each expect clause
// 4. Evaluate assertions
func Run(scenario *Scenario) (*Result, error) {
	return RunWithLogger(scenario, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// RunWithLogger is Run with step logging sent to logger.
func RunWithLogger(scenario *Scenario, logger *slog.Logger) (*Result, error) {
	st, err := store.Open(":memory:", store.WithIDGenerator(testutil.SequentialIDs("entry")))
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	zone, err := scenario.zone()
	if err != nil {
		return nil, fmt.Errorf("scenario zone: %w", err)
	}

	clockSpec := ClockSpec{Start: DefaultClockStart}
	if scenario.Clock != nil {
		clockSpec = *scenario.Clock
	}

	registry := ops.NewRegistry()
	for _, op := range timelineOps(st) {
		if err := registry.Register(op); err != nil {
			return nil, err
		}
	}

	h := &Harness{
		store:    st,
		registry: registry,
		env: ops.Env{
			Clock: testutil.NewSteppingClock(clockSpec.Start, clockSpec.Step),
			Zone:  zone,
		},
		logger: logger,
	}

	ctx := context.Background()
	result := NewResult()

	if err := h.executeSetup(ctx, scenario.Setup, result); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	h.executeFlow(scenario.Flow, result)

	actx := &AssertionContext{
		Store: st,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// executeSetup adds setup entries directly to the store. They are traced as
// timeline.add so golden files show where ids came from.
func (h *Harness) executeSetup(ctx context.Context, setup []SetupEntry, result *Result) error {
	for i, entry := range setup {
		e, err := h.store.Add(ctx, entry.Label, entry.Interval)
		if err != nil {
			return fmt.Errorf("setup step %d: %w", i, err)
		}
		result.AddTrace("timeline.add", []string{entry.Label, entry.Interval.String()}, e.ID, "")

		h.logger.Info("setup step completed",
			"step", i,
			"label", entry.Label,
			"id", e.ID,
		)
	}
	return nil
}

// executeFlow runs every step, recording failures without stopping.
func (h *Harness) executeFlow(flow []FlowStep, result *Result) {
	for i, step := range flow {
		out, err := h.registry.Eval(h.env, step.Op, step.Args)
		code := ops.CodeOf(err)
		if err != nil && code == "" {
			code = "ERROR"
		}
		event := result.AddTrace(step.Op, step.Args, out, code)

		h.logger.Info("flow step completed",
			"step", i,
			"op", step.Op,
			"result", out,
			"error", err,
		)

		if msg := checkExpect(event, step.Expect, err); msg != "" {
			result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Op, msg))
		}
	}
}

// checkExpect returns a failure message, or "" if the step met expect.
func checkExpect(event TraceEvent, expect *ExpectClause, err error) string {
	switch {
	case expect == nil:
		return ""
	case expect.Error != "":
		if event.Error != expect.Error {
			return fmt.Sprintf("expected error %s, got %s", expect.Error, describe(event))
		}
	case err != nil:
		return fmt.Sprintf("expected result %q, got error %v", expect.Result, err)
	case event.Result != expect.Result:
		return fmt.Sprintf("expected result %q, got %q", expect.Result, event.Result)
	}
	return ""
}

func describe(event TraceEvent) string {
	if event.Error != "" {
		return "error " + event.Error
	}
	return fmt.Sprintf("result %q", event.Result)
}

// timelineOps exposes the store as operations so scenarios can mix timeline
// queries with temporal arithmetic. Lists render as "; "-separated items, or
// ops.NoResult when empty.
func timelineOps(st *store.Store) []ops.Op {
	ctx := context.Background()
	parse := func(env ops.Env, s string) (temporal.Interval, error) {
		return temporal.ParseIntervalIn(s, env.Zone)
	}

	return []ops.Op{
		{
			Name:    "timeline.add",
			Params:  []string{"label", "iv"},
			Summary: "add an entry, returning its id",
			Run: func(env ops.Env, args []string) (string, error) {
				iv, err := parse(env, args[1])
				if err != nil {
					return "", err
				}
				e, err := st.Add(ctx, args[0], iv)
				if err != nil {
					return "", fmt.Errorf("%w: %w", ops.ErrBadArguments, err)
				}
				return e.ID, nil
			},
		},
		{
			Name:    "timeline.remove",
			Params:  []string{"id"},
			Summary: "remove an entry",
			Run: func(_ ops.Env, args []string) (string, error) {
				if err := st.Remove(ctx, args[0]); err != nil {
					return "", fmt.Errorf("%w: %w", ops.ErrBadArguments, err)
				}
				return args[0], nil
			},
		},
		{
			Name:    "timeline.list",
			Summary: "entries ordered by start",
			Run: func(ops.Env, []string) (string, error) {
				entries, err := st.List(ctx)
				if err != nil {
					return "", err
				}
				return renderEntries(entries), nil
			},
		},
		{
			Name:    "timeline.overlapping",
			Params:  []string{"iv"},
			Summary: "entries sharing an instant with iv",
			Run: func(env ops.Env, args []string) (string, error) {
				iv, err := parse(env, args[0])
				if err != nil {
					return "", err
				}
				entries, err := st.Overlapping(ctx, iv)
				if err != nil {
					return "", err
				}
				return renderEntries(entries), nil
			},
		},
		{
			Name:    "timeline.coverage",
			Summary: "entries merged into disjoint intervals",
			Run: func(ops.Env, []string) (string, error) {
				covered, err := st.Coverage(ctx)
				if err != nil {
					return "", err
				}
				return renderIntervals(covered), nil
			},
		},
		{
			Name:    "timeline.gaps",
			Summary: "uncovered intervals between entries",
			Run: func(ops.Env, []string) (string, error) {
				gaps, err := st.Gaps(ctx)
				if err != nil {
					return "", err
				}
				return renderIntervals(gaps), nil
			},
		},
	}
}

func renderEntries(entries []store.Entry) string {
	if len(entries) == 0 {
		return ops.NoResult
	}
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = e.Label + " " + e.Interval.String()
	}
	return strings.Join(parts, "; ")
}

func renderIntervals(ivs []temporal.Interval) string {
	if len(ivs) == 0 {
		return ops.NoResult
	}
	parts := make([]string, len(ivs))
	for i, iv := range ivs {
		parts[i] = iv.String()
	}
	return strings.Join(parts, "; ")
}
