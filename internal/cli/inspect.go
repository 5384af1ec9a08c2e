package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/tempo/internal/temporal"
)

// DurationInfo is the breakdown printed by the duration command.
type DurationInfo struct {
	ISO     string `json:"iso"`
	Seconds int64  `json:"seconds"`
	Micros  int64  `json:"micros"`
	Millis  int64  `json:"millis"`
}

// DateTimeInfo is the breakdown printed by the datetime and now commands.
type DateTimeInfo struct {
	ISO         string `json:"iso"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Zone        string `json:"zone"`
	DayOfWeek   string `json:"day_of_week"`
	DayOfYear   int    `json:"day_of_year"`
	EpochSecond int64  `json:"epoch_second"`
	LeapYear    bool   `json:"leap_year"`
}

// IntervalInfo is the breakdown printed by the interval command.
type IntervalInfo struct {
	ISO      string `json:"iso"`
	Start    string `json:"start"`
	End      string `json:"end"`
	Duration string `json:"duration"`
	Empty    bool   `json:"empty"`
}

func durationInfo(d temporal.Duration) DurationInfo {
	return DurationInfo{
		ISO:     d.String(),
		Seconds: d.Seconds(),
		Micros:  d.Micros(),
		Millis:  d.ToMillis(),
	}
}

func dateTimeInfo(dt temporal.DateTime) DateTimeInfo {
	return DateTimeInfo{
		ISO:         dt.String(),
		Date:        dt.ToDateString(),
		Time:        dt.ToTimeString(),
		Zone:        dt.Zone().String(),
		DayOfWeek:   dt.DayOfWeek().String(),
		DayOfYear:   dt.DayOfYear(),
		EpochSecond: dt.EpochSecond(),
		LeapYear:    dt.IsLeapYear(),
	}
}

func intervalInfo(iv temporal.Interval) IntervalInfo {
	return IntervalInfo{
		ISO:      iv.String(),
		Start:    iv.Start().String(),
		End:      iv.End().String(),
		Duration: iv.Duration().String(),
		Empty:    iv.IsEmpty(),
	}
}

// NewDurationCommand creates the duration command.
func NewDurationCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "duration <iso-duration>",
		Short: "Normalize and break down a duration",
		Long: `Normalize an ISO-8601 duration and show its seconds and microseconds.

Example:
  tempo duration PT90M
  tempo duration PT-0.5S`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, cmd, func(_ temporal.ZoneOffset) (any, []field, error) {
				d, err := temporal.ParseDuration(args[0])
				if err != nil {
					return nil, nil, err
				}
				info := durationInfo(d)
				return info, []field{
					{"iso", info.ISO},
					{"seconds", strconv.FormatInt(info.Seconds, 10)},
					{"micros", strconv.FormatInt(info.Micros, 10)},
					{"millis", strconv.FormatInt(info.Millis, 10)},
				}, nil
			})
		},
	}
}

// NewDateTimeCommand creates the datetime command.
func NewDateTimeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "datetime <iso-datetime>",
		Short: "Normalize and break down a date-time",
		Long: `Normalize an ISO-8601 date-time and show its calendar fields.

A date-time written without an offset is read in --zone.

Example:
  tempo datetime 2008-02-29T10:15
  tempo datetime 2008-02-29T10:15+09:00`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, cmd, func(zone temporal.ZoneOffset) (any, []field, error) {
				dt, err := temporal.ParseDateTimeIn(args[0], zone)
				if err != nil {
					return nil, nil, err
				}
				info := dateTimeInfo(dt)
				return info, dateTimeFields(info), nil
			})
		},
	}
}

// NewIntervalCommand creates the interval command.
func NewIntervalCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "interval <start>/<end>",
		Short: "Normalize and break down a half-open interval",
		Long: `Normalize an interval written as two ISO-8601 date-times separated by "/".

Example:
  tempo interval 2008-02-28/2008-03-01`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(rootOpts, cmd, func(zone temporal.ZoneOffset) (any, []field, error) {
				iv, err := temporal.ParseIntervalIn(args[0], zone)
				if err != nil {
					return nil, nil, err
				}
				info := intervalInfo(iv)
				return info, []field{
					{"iso", info.ISO},
					{"start", info.Start},
					{"end", info.End},
					{"duration", info.Duration},
					{"empty", strconv.FormatBool(info.Empty)},
				}, nil
			})
		},
	}
}

// NewNowCommand creates the now command.
func NewNowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "now",
		Short:         "Print the current date-time in --zone",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNow(rootOpts, cmd)
		},
	}
}

func runNow(opts *RootOptions, cmd *cobra.Command) error {
	formatter, err := opts.formatter(cmd)
	if err != nil {
		return err
	}
	env, err := opts.env()
	if err != nil {
		return err
	}

	now, err := env.Clock.DateTime().WithZone(env.Zone)
	if err != nil {
		return outputOpError(formatter, err)
	}
	return formatter.Emit(dateTimeInfo(now), func(w io.Writer) {
		fmt.Fprintln(w, now.String())
	})
}

type field struct {
	name  string
	value string
}

func dateTimeFields(info DateTimeInfo) []field {
	return []field{
		{"iso", info.ISO},
		{"date", info.Date},
		{"time", info.Time},
		{"zone", info.Zone},
		{"day-of-week", info.DayOfWeek},
		{"day-of-year", strconv.Itoa(info.DayOfYear)},
		{"epoch-second", strconv.FormatInt(info.EpochSecond, 10)},
		{"leap-year", strconv.FormatBool(info.LeapYear)},
	}
}

// runInspect parses with the configured zone and prints either the JSON
// payload or the text fields.
func runInspect(opts *RootOptions, cmd *cobra.Command, inspect func(temporal.ZoneOffset) (any, []field, error)) error {
	formatter, err := opts.formatter(cmd)
	if err != nil {
		return err
	}
	env, err := opts.env()
	if err != nil {
		return err
	}

	payload, fields, err := inspect(env.Zone)
	if err != nil {
		return outputOpError(formatter, err)
	}
	return formatter.Emit(payload, func(w io.Writer) {
		writeFields(w, fields)
	})
}

func writeFields(w io.Writer, fields []field) {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.name))
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-*s  %s\n", width, f.name, f.value)
	}
}
