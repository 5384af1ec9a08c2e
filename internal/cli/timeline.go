package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/tempo/internal/ops"
	"github.com/roach88/tempo/internal/store"
	"github.com/roach88/tempo/internal/temporal"
)

// Error codes for timeline failures.
const (
	ErrCodeNotFound = "NOT_FOUND"
)

// EntryInfo is the JSON form of a timeline entry.
type EntryInfo struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Interval string `json:"interval"`
	Duration string `json:"duration"`
}

func entryInfo(e store.Entry) EntryInfo {
	return EntryInfo{
		ID:       e.ID,
		Label:    e.Label,
		Interval: e.Interval.String(),
		Duration: e.Interval.Duration().String(),
	}
}

// NewTimelineCommand creates the timeline command and its subcommands.
func NewTimelineCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Record labelled intervals and query their coverage",
		Long: `Record labelled half-open intervals in a SQLite database and query them.

Entries keep the offset they were written with. Coverage merges entries that
overlap or abut; gaps are the uncovered stretches between them.

Example:
  tempo timeline add standup 2008-02-29T09:00/2008-02-29T09:15
  tempo timeline gaps --db ./tempo.db`,
	}

	cmd.PersistentFlags().StringVar(&rootOpts.DB, "db", "", "path to SQLite database (default from config, tempo.db)")

	cmd.AddCommand(newTimelineAddCommand(rootOpts))
	cmd.AddCommand(newTimelineListCommand(rootOpts))
	cmd.AddCommand(newTimelineOverlapsCommand(rootOpts))
	cmd.AddCommand(newTimelineCoverageCommand(rootOpts))
	cmd.AddCommand(newTimelineGapsCommand(rootOpts))
	cmd.AddCommand(newTimelineRemoveCommand(rootOpts))

	return cmd
}

func newTimelineAddCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "add <label> <start>/<end>",
		Short:         "Add an entry",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTimeline(opts, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter, zone temporal.ZoneOffset) error {
				iv, err := temporal.ParseIntervalIn(args[1], zone)
				if err != nil {
					return outputOpError(f, err)
				}
				e, err := st.Add(ctx, args[0], iv)
				if err != nil {
					return outputStoreError(f, err)
				}
				slog.Debug("entry added", "id", e.ID, "interval", e.Interval.String(), "trace_id", f.TraceID)
				return f.Emit(entryInfo(e), func(w io.Writer) {
					fmt.Fprintln(w, e.ID)
				})
			})
		},
	}
}

func newTimelineListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List entries ordered by start",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTimeline(opts, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter, _ temporal.ZoneOffset) error {
				entries, err := st.List(ctx)
				if err != nil {
					return outputStoreError(f, err)
				}
				return outputEntries(f, entries)
			})
		},
	}
}

func newTimelineOverlapsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "overlaps <start>/<end>",
		Short:         "List entries sharing an instant with an interval",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTimeline(opts, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter, zone temporal.ZoneOffset) error {
				iv, err := temporal.ParseIntervalIn(args[0], zone)
				if err != nil {
					return outputOpError(f, err)
				}
				entries, err := st.Overlapping(ctx, iv)
				if err != nil {
					return outputStoreError(f, err)
				}
				return outputEntries(f, entries)
			})
		},
	}
}

func newTimelineCoverageCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "coverage",
		Short:         "Merge entries into disjoint covered intervals",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTimeline(opts, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter, _ temporal.ZoneOffset) error {
				covered, err := st.Coverage(ctx)
				if err != nil {
					return outputStoreError(f, err)
				}
				return outputIntervals(f, covered)
			})
		},
	}
}

func newTimelineGapsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "gaps",
		Short:         "List uncovered intervals between entries",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTimeline(opts, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter, _ temporal.ZoneOffset) error {
				gaps, err := st.Gaps(ctx)
				if err != nil {
					return outputStoreError(f, err)
				}
				return outputIntervals(f, gaps)
			})
		},
	}
}

func newTimelineRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "remove <id>",
		Short:         "Remove an entry",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withTimeline(opts, cmd, func(ctx context.Context, st *store.Store, f *OutputFormatter, _ temporal.ZoneOffset) error {
				if err := st.Remove(ctx, args[0]); err != nil {
					return outputStoreError(f, err)
				}
				return f.Emit(map[string]string{"removed": args[0]}, func(w io.Writer) {
					fmt.Fprintln(w, "removed", args[0])
				})
			})
		},
	}
}

// withTimeline opens the configured database for the duration of run.
func withTimeline(opts *RootOptions, cmd *cobra.Command, run func(context.Context, *store.Store, *OutputFormatter, temporal.ZoneOffset) error) error {
	formatter, err := opts.formatter(cmd)
	if err != nil {
		return err
	}
	env, err := opts.env()
	if err != nil {
		return err
	}
	if opts.DB == "" {
		return NewExitError(ExitCommandError, "no database: set --db, TEMPO_DB or db in the config file")
	}

	formatter.VerboseLog("Opening timeline %s", opts.DB)
	st, err := store.Open(opts.DB, opts.StoreOptions...)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open timeline", err)
	}
	defer st.Close()

	return run(cmd.Context(), st, formatter, env.Zone)
}

func outputEntries(f *OutputFormatter, entries []store.Entry) error {
	infos := make([]EntryInfo, 0, len(entries))
	for _, e := range entries {
		infos = append(infos, entryInfo(e))
	}
	return f.Emit(infos, func(w io.Writer) {
		for _, e := range entries {
			fmt.Fprintf(w, "%s  %s  %s\n", e.ID, e.Interval, e.Label)
		}
	})
}

func outputIntervals(f *OutputFormatter, ivs []temporal.Interval) error {
	out := make([]string, 0, len(ivs))
	for _, iv := range ivs {
		out = append(out, iv.String())
	}
	return f.Emit(out, func(w io.Writer) {
		for _, s := range out {
			fmt.Fprintln(w, s)
		}
	})
}

func outputStoreError(f *OutputFormatter, err error) error {
	code := ErrCodeGeneric
	switch {
	case errors.Is(err, store.ErrNotFound):
		code = ErrCodeNotFound
	case errors.Is(err, store.ErrEmptyLabel):
		code = ops.CodeBadArguments
	}
	return f.Fail(code, err)
}
