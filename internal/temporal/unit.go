package temporal

import (
	"fmt"
	"math"
	"sort"
)

// Unit is a unit of date-time such as days or hours.
//
// Time-based units have an exact length. Month and year carry an average
// reference length (a Gregorian year is 365.2425 days) and are added with
// calendar arithmetic instead; Forever is a sentinel that saturates.
type Unit int

const (
	UnitMicro Unit = iota
	UnitMilli
	UnitSecond
	UnitMinute
	UnitHour
	UnitDay
	UnitWeek
	UnitMonth
	UnitYear
	UnitForever
)

const secondsPerGregorianYear = 31556952

type unitInfo struct {
	name     string
	duration Duration
}

var unitTable = [...]unitInfo{
	UnitMicro:   {"micro", Duration{micros: 1}},
	UnitMilli:   {"milli", Duration{micros: MicrosPerMilli}},
	UnitSecond:  {"second", Duration{seconds: 1}},
	UnitMinute:  {"minute", Duration{seconds: SecondsPerMinute}},
	UnitHour:    {"hour", Duration{seconds: SecondsPerHour}},
	UnitDay:     {"day", Duration{seconds: SecondsPerDay}},
	UnitWeek:    {"week", Duration{seconds: SecondsPerDay * DaysPerWeek}},
	UnitMonth:   {"month", Duration{seconds: secondsPerGregorianYear / MonthsPerYear}},
	UnitYear:    {"year", Duration{seconds: secondsPerGregorianYear}},
	UnitForever: {"forever", Duration{seconds: math.MaxInt64, micros: MicrosPerSecond - 1}},
}

var unitsByName = func() map[string]Unit {
	m := make(map[string]Unit, len(unitTable))
	for u := range unitTable {
		m[unitTable[u].name] = Unit(u)
	}
	return m
}()

// UnitByName returns the unit with the given name, e.g. "month".
func UnitByName(name string) (Unit, bool) {
	u, ok := unitsByName[name]
	return u, ok
}

// UnitNames returns the sorted names of every unit.
func UnitNames() []string {
	names := make([]string, 0, len(unitsByName))
	for name := range unitsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (u Unit) valid() bool { return u >= 0 && int(u) < len(unitTable) }

func (u Unit) info() unitInfo {
	if !u.valid() {
		panic(fmt.Sprintf("temporal: unknown unit %d", int(u)))
	}
	return unitTable[u]
}

// Name returns the lower-case name.
func (u Unit) Name() string { return u.info().name }

func (u Unit) String() string {
	if !u.valid() {
		return fmt.Sprintf("Unit(%d)", int(u))
	}
	return unitTable[u].name
}

// Duration returns the reference length of the unit.
func (u Unit) Duration() Duration { return u.info().duration }

// IsDurationEstimated reports whether the reference length is an average
// rather than exact.
func (u Unit) IsDurationEstimated() bool { return u >= UnitMonth }

// IsDateBased reports whether the unit is a day or longer, Forever excluded.
func (u Unit) IsDateBased() bool { return u >= UnitDay && u <= UnitYear }

// IsTimeBased reports whether the unit is shorter than a day.
func (u Unit) IsTimeBased() bool { return u >= UnitMicro && u < UnitDay }

// AddTo returns dt with amount units added.
func (u Unit) AddTo(dt DateTime, amount int64) (DateTime, error) {
	switch u {
	case UnitMicro:
		return dt.PlusMicros(amount)
	case UnitMilli:
		return dt.PlusMillis(amount)
	case UnitSecond, UnitMinute, UnitHour, UnitDay, UnitWeek:
		return dt.plusScaled(amount, unitTable[u].duration.seconds)
	case UnitMonth:
		return dt.PlusMonths(amount)
	case UnitYear:
		return dt.PlusYears(amount)
	case UnitForever:
		switch {
		case amount > 0:
			return MaxDateTime(dt.zone), nil
		case amount < 0:
			return MinDateTime(dt.zone), nil
		}
		return dt, nil
	}
	panic(fmt.Sprintf("temporal: unknown unit %d", int(u)))
}

// SubtractFrom returns dt with amount units subtracted.
func (u Unit) SubtractFrom(dt DateTime, amount int64) (DateTime, error) {
	if amount == math.MinInt64 {
		return DateTime{}, yearRangeError()
	}
	return u.AddTo(dt, -amount)
}

// Between returns the number of whole units from start to end, negative
// when end is before start. Partial units are truncated toward zero.
//
// Month and year count calendar months in start's zone: 01-31 to 02-28 is
// zero months, 01-31 to 03-01 is one.
func (u Unit) Between(start, end DateTime) int64 {
	switch u {
	case UnitMicro, UnitMilli:
		return DurationBetween(start, end).ToMicros() / unitTable[u].duration.micros
	case UnitSecond, UnitMinute, UnitHour, UnitDay, UnitWeek:
		diff := DurationBetween(start, end)
		seconds := diff.seconds
		if seconds < 0 && diff.micros != 0 {
			seconds++
		}
		return seconds / unitTable[u].duration.seconds
	case UnitMonth:
		return monthsBetween(start, end)
	case UnitYear:
		return monthsBetween(start, end) / MonthsPerYear
	case UnitForever:
		return 0
	}
	panic(fmt.Sprintf("temporal: unknown unit %d", int(u)))
}

func monthsBetween(start, end DateTime) int64 {
	if shifted, err := end.WithZone(start.zone); err == nil {
		end = shifted
	}
	s, e := start.local(), end.local()
	months := (e.year*MonthsPerYear + e.month) - (s.year*MonthsPerYear + s.month)

	rest := func(f localFields) int64 {
		return f.day*MicrosPerDay +
			(f.hour*SecondsPerHour+f.minute*SecondsPerMinute+f.second)*MicrosPerSecond +
			f.micro
	}
	sRest, eRest := rest(s), rest(e)
	switch {
	case months > 0 && eRest < sRest:
		months--
	case months < 0 && eRest > sRest:
		months++
	}
	return months
}
