package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/tempo/internal/ops"
)

// EvalResult is the JSON payload of the eval command.
type EvalResult struct {
	Op     string   `json:"op"`
	Args   []string `json:"args"`
	Result string   `json:"result"`
}

// OpInfo describes one operation in the ops listing.
type OpInfo struct {
	Name    string   `json:"name"`
	Params  []string `json:"params"`
	Summary string   `json:"summary"`
}

// NewEvalCommand creates the eval command.
func NewEvalCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <op> [args...]",
		Short: "Evaluate a named operation",
		Long: `Evaluate a named operation on ISO-8601 arguments.

Partial operations print "none" when they have no result, such as the gap
between overlapping intervals. Run "tempo ops" for the list of operations.

Example:
  tempo eval duration.plus PT1H PT30M
  tempo eval datetime.plusMonths 2008-01-31 1
  tempo eval interval.gap 2001-01-01/2001-01-03 2001-01-05/2001-01-06`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(rootOpts, args[0], args[1:], cmd)
		},
	}

	return cmd
}

func runEval(opts *RootOptions, name string, args []string, cmd *cobra.Command) error {
	formatter, err := opts.formatter(cmd)
	if err != nil {
		return err
	}
	env, err := opts.env()
	if err != nil {
		return err
	}

	slog.Debug("evaluating", "op", name, "args", args, "trace_id", formatter.TraceID)
	result, err := opts.ops().Eval(env, name, args)
	if err != nil {
		return outputOpError(formatter, err)
	}

	if args == nil {
		args = []string{}
	}
	return formatter.Emit(EvalResult{Op: name, Args: args, Result: result}, func(w io.Writer) {
		fmt.Fprintln(w, result)
	})
}

// NewOpsCommand creates the ops command.
func NewOpsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ops",
		Short:         "List the operations eval accepts",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOps(rootOpts, cmd)
		},
	}

	return cmd
}

func runOps(opts *RootOptions, cmd *cobra.Command) error {
	formatter, err := opts.formatter(cmd)
	if err != nil {
		return err
	}

	list := opts.ops().List()
	infos := make([]OpInfo, 0, len(list))
	width := 0
	for _, op := range list {
		params := op.Params
		if params == nil {
			params = []string{}
		}
		infos = append(infos, OpInfo{Name: op.Name, Params: params, Summary: op.Summary})
		width = max(width, len(op.Usage()))
	}

	return formatter.Emit(infos, func(w io.Writer) {
		for _, op := range list {
			fmt.Fprintf(w, "%-*s  %s\n", width, op.Usage(), op.Summary)
		}
	})
}

// outputOpError reports a failed operation and returns an exit error.
func outputOpError(formatter *OutputFormatter, err error) error {
	return formatter.Fail(ops.CodeOf(err), err)
}
