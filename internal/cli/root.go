package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/roach88/tempo/internal/clock"
	"github.com/roach88/tempo/internal/config"
	"github.com/roach88/tempo/internal/ops"
	"github.com/roach88/tempo/internal/store"
	"github.com/roach88/tempo/internal/temporal"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Zone       string
	DB         string

	// Clock overrides the system clock (for testing).
	Clock clock.Clock

	// NewTraceID overrides the UUID trace ids in JSON output (for testing).
	NewTraceID func() string

	// StoreOptions are passed to store.Open by the timeline commands.
	StoreOptions []store.Option

	registry *ops.Registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{config.FormatText, config.FormatJSON}

// NewRootCommand creates the root command for the tempo CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tempo",
		Short: "tempo - date-time arithmetic at microsecond precision",
		Long: `tempo works with ISO-8601 durations, date-times with fixed UTC offsets,
and half-open intervals, at microsecond precision.

Settings come from --config (YAML), then TEMPO_ZONE, TEMPO_FORMAT and
TEMPO_DB, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.resolve(cmd)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.FormatText, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Zone, "zone", "", "zone for date-times written without an offset (UTC, +09:00 or an IANA name)")

	// Add subcommands
	cmd.AddCommand(NewEvalCommand(opts))
	cmd.AddCommand(NewOpsCommand(opts))
	cmd.AddCommand(NewDurationCommand(opts))
	cmd.AddCommand(NewDateTimeCommand(opts))
	cmd.AddCommand(NewIntervalCommand(opts))
	cmd.AddCommand(NewNowCommand(opts))
	cmd.AddCommand(NewTimelineCommand(opts))

	return cmd
}

// resolve layers the config file and environment under any flags the user
// set, then configures logging.
func (o *RootOptions) resolve(cmd *cobra.Command) error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}

	flags := cmd.Flags()
	if flags.Changed("format") {
		cfg.Format = o.Format
	}
	if flags.Changed("zone") {
		cfg.Zone = o.Zone
	}
	if flags.Changed("db") {
		cfg.DB = o.DB
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid settings", err)
	}
	o.Format, o.Zone, o.DB = cfg.Format, cfg.Zone, cfg.DB

	setupLogging(cmd.ErrOrStderr(), o.Verbose)
	slog.Debug("settings resolved", "config", o.ConfigPath, "format", o.Format, "zone", o.Zone, "db", o.DB)
	return nil
}

func setupLogging(w io.Writer, verbose bool) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
}

// location resolves the configured zone. An empty zone is UTC.
func (o *RootOptions) location() (*time.Location, error) {
	loc, err := config.ResolveLocation(o.Zone)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid zone", err)
	}
	return loc, nil
}

func (o *RootOptions) clock(loc *time.Location) clock.Clock {
	if o.Clock != nil {
		return o.Clock
	}
	return clock.NewSystemClock(loc)
}

// env builds the operation environment. For an IANA zone the offset is the
// one in effect now.
func (o *RootOptions) env() (ops.Env, error) {
	loc, err := o.location()
	if err != nil {
		return ops.Env{}, err
	}
	return ops.Env{
		Clock: o.clock(loc),
		Zone:  temporal.ZoneFor(loc, temporal.MustFromTime(time.Now())),
	}, nil
}

func (o *RootOptions) ops() *ops.Registry {
	if o.registry == nil {
		o.registry = ops.NewRegistry()
	}
	return o.registry
}

func (o *RootOptions) formatter(cmd *cobra.Command) (*OutputFormatter, error) {
	if !isValidFormat(o.Format) {
		return nil, NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", o.Format, ValidFormats))
	}
	newID := o.NewTraceID
	if newID == nil {
		newID = uuid.NewString
	}
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
		TraceID:   newID(),
	}, nil
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
