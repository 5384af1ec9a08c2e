package ops

import (
	"fmt"
	"strconv"

	"github.com/roach88/tempo/internal/temporal"
)

// reader converts string arguments, keeping the first failure.
type reader struct {
	env  Env
	args []string
	err  error
}

func (r *reader) fail(err error) {
	if r.err == nil && err != nil {
		r.err = err
	}
}

func (r *reader) duration(i int) temporal.Duration {
	d, err := temporal.ParseDuration(r.args[i])
	r.fail(err)
	return d
}

func (r *reader) dateTime(i int) temporal.DateTime {
	dt, err := temporal.ParseDateTimeIn(r.args[i], r.env.Zone)
	r.fail(err)
	return dt
}

func (r *reader) interval(i int) temporal.Interval {
	iv, err := temporal.ParseIntervalIn(r.args[i], r.env.Zone)
	r.fail(err)
	return iv
}

func (r *reader) zone(i int) temporal.ZoneOffset {
	z, err := temporal.ParseZoneOffset(r.args[i])
	r.fail(err)
	return z
}

func (r *reader) dayOfWeek(i int) temporal.DayOfWeek {
	d, err := temporal.ParseDayOfWeek(r.args[i])
	r.fail(err)
	return d
}

func (r *reader) int64(i int) int64 {
	v, err := strconv.ParseInt(r.args[i], 10, 64)
	if err != nil {
		r.fail(fmt.Errorf("%w: %q is not a 64-bit integer", ErrBadArguments, r.args[i]))
	}
	return v
}

func (r *reader) unit(i int) temporal.Unit {
	u, ok := temporal.UnitByName(r.args[i])
	if !ok {
		r.fail(fmt.Errorf("%w: unknown unit %q, want one of %v", ErrBadArguments, r.args[i], temporal.UnitNames()))
	}
	return u
}

func (r *reader) field(i int) temporal.Field {
	f, ok := temporal.FieldByName(r.args[i])
	if !ok {
		r.fail(fmt.Errorf("%w: unknown field %q, want one of %v", ErrBadArguments, r.args[i], temporal.FieldNames()))
	}
	return f
}

// op builds an Op whose result is rendered by render. A failed argument
// conversion wins over whatever run returned.
func op(name, summary string, params []string, run func(r *reader) (any, error)) Op {
	return Op{
		Name:    name,
		Params:  params,
		Summary: summary,
		Run: func(env Env, args []string) (string, error) {
			r := &reader{env: env, args: args}
			out, err := run(r)
			if r.err != nil {
				return "", r.err
			}
			if err != nil {
				return "", err
			}
			return render(out), nil
		},
	}
}

func render(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	}
	return fmt.Sprint(v)
}

func partial(iv temporal.Interval, ok bool) any {
	if !ok {
		return NoResult
	}
	return iv
}

func params(names ...string) []string { return names }

func builtins() []Op {
	return []Op{
		// Duration
		op("duration.parse", "normalize an ISO-8601 duration", params("d"), func(r *reader) (any, error) {
			return r.duration(0), nil
		}),
		op("duration.between", "duration from start to end", params("start", "end"), func(r *reader) (any, error) {
			return temporal.DurationBetween(r.dateTime(0), r.dateTime(1)), nil
		}),
		op("duration.plus", "a + b", params("a", "b"), func(r *reader) (any, error) {
			return r.duration(0).Plus(r.duration(1)), nil
		}),
		op("duration.minus", "a - b", params("a", "b"), func(r *reader) (any, error) {
			return r.duration(0).Minus(r.duration(1)), nil
		}),
		op("duration.multipliedBy", "d * k", params("d", "k"), func(r *reader) (any, error) {
			return r.duration(0).MultipliedBy(r.int64(1)), nil
		}),
		op("duration.dividedBy", "d / k truncated toward zero", params("d", "k"), func(r *reader) (any, error) {
			d, k := r.duration(0), r.int64(1)
			if r.err != nil {
				return nil, nil
			}
			return d.DividedBy(k)
		}),
		op("duration.negated", "-d", params("d"), func(r *reader) (any, error) {
			return r.duration(0).Negated(), nil
		}),
		op("duration.abs", "|d|", params("d"), func(r *reader) (any, error) {
			return r.duration(0).Abs(), nil
		}),
		op("duration.truncatedTo", "d truncated to a unit no longer than a day", params("d", "unit"), func(r *reader) (any, error) {
			return r.duration(0).TruncatedToUnit(r.unit(1))
		}),
		op("duration.compare", "-1, 0 or 1", params("a", "b"), func(r *reader) (any, error) {
			return r.duration(0).Compare(r.duration(1)), nil
		}),
		op("duration.toMillis", "whole milliseconds, floored", params("d"), func(r *reader) (any, error) {
			return r.duration(0).ToMillis(), nil
		}),

		// DateTime
		op("datetime.parse", "normalize an ISO-8601 date-time", params("dt"), func(r *reader) (any, error) {
			return r.dateTime(0), nil
		}),
		op("datetime.plus", "dt + amount units", params("dt", "amount", "unit"), func(r *reader) (any, error) {
			return r.dateTime(0).Plus(r.int64(1), r.unit(2))
		}),
		op("datetime.minus", "dt - amount units", params("dt", "amount", "unit"), func(r *reader) (any, error) {
			return r.dateTime(0).Minus(r.int64(1), r.unit(2))
		}),
		op("datetime.plusDuration", "dt + d", params("dt", "d"), func(r *reader) (any, error) {
			return r.dateTime(0).PlusDuration(r.duration(1))
		}),
		op("datetime.plusMonths", "dt + n months, clamped to the month end", params("dt", "n"), func(r *reader) (any, error) {
			return r.dateTime(0).PlusMonths(r.int64(1))
		}),
		op("datetime.plusYears", "dt + n years, clamped to the month end", params("dt", "n"), func(r *reader) (any, error) {
			return r.dateTime(0).PlusYears(r.int64(1))
		}),
		op("datetime.with", "dt with one field set", params("dt", "field", "value"), func(r *reader) (any, error) {
			return r.dateTime(0).With(r.field(1), r.int64(2))
		}),
		op("datetime.get", "value of one field", params("dt", "field"), func(r *reader) (any, error) {
			return r.dateTime(0).Get(r.field(1)), nil
		}),
		op("datetime.until", "whole units from start to end", params("start", "end", "unit"), func(r *reader) (any, error) {
			return r.dateTime(0).Until(r.dateTime(1), r.unit(2)), nil
		}),
		op("datetime.dayOfWeek", "ISO day of week", params("dt"), func(r *reader) (any, error) {
			return r.dateTime(0).DayOfWeek(), nil
		}),
		op("datetime.withZone", "same instant at another offset", params("dt", "zone"), func(r *reader) (any, error) {
			return r.dateTime(0).WithZone(r.zone(1))
		}),
		op("datetime.compare", "-1, 0 or 1 by instant", params("a", "b"), func(r *reader) (any, error) {
			return r.dateTime(0).Compare(r.dateTime(1)), nil
		}),

		// Interval
		op("interval.parse", "normalize start/end", params("iv"), func(r *reader) (any, error) {
			return r.interval(0), nil
		}),
		op("interval.duration", "length of the interval", params("iv"), func(r *reader) (any, error) {
			return r.interval(0).Duration(), nil
		}),
		op("interval.overlap", "shared part, or none", params("a", "b"), func(r *reader) (any, error) {
			return partial(r.interval(0).Overlap(r.interval(1))), nil
		}),
		op("interval.gap", "interval between, or none", params("a", "b"), func(r *reader) (any, error) {
			return partial(r.interval(0).Gap(r.interval(1))), nil
		}),
		op("interval.union", "cover of overlapping intervals, or none", params("a", "b"), func(r *reader) (any, error) {
			return partial(r.interval(0).Union(r.interval(1))), nil
		}),
		op("interval.join", "cover of abutting intervals, or none", params("a", "b"), func(r *reader) (any, error) {
			return partial(r.interval(0).Join(r.interval(1))), nil
		}),
		op("interval.cover", "smallest interval containing both", params("a", "b"), func(r *reader) (any, error) {
			return r.interval(0).Cover(r.interval(1)), nil
		}),
		op("interval.overlaps", "whether a and b share an instant", params("a", "b"), func(r *reader) (any, error) {
			return r.interval(0).Overlaps(r.interval(1)), nil
		}),
		op("interval.abuts", "whether a and b meet at a boundary", params("a", "b"), func(r *reader) (any, error) {
			return r.interval(0).Abuts(r.interval(1)), nil
		}),
		op("interval.contains", "whether b lies within a", params("a", "b"), func(r *reader) (any, error) {
			return r.interval(0).Contains(r.interval(1)), nil
		}),
		op("interval.containsDateTime", "whether dt lies within iv", params("iv", "dt"), func(r *reader) (any, error) {
			return r.interval(0).ContainsDateTime(r.dateTime(1)), nil
		}),

		// Day of week
		op("dayOfWeek.plus", "day n days later", params("day", "n"), func(r *reader) (any, error) {
			return r.dayOfWeek(0).Plus(r.int64(1)), nil
		}),

		// Clock
		op("clock.now", "current date-time", nil, func(r *reader) (any, error) {
			if r.env.Clock == nil {
				return nil, fmt.Errorf("%w: no clock configured", ErrBadArguments)
			}
			return r.env.Clock.DateTime(), nil
		}),
	}
}
