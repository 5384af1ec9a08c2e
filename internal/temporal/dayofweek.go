package temporal

import (
	"fmt"
	"time"
)

// DayOfWeek is an ISO-8601 day-of-week, Monday=1 to Sunday=7.
type DayOfWeek int

const (
	Monday DayOfWeek = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var dayNames = [...]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

// DayOfWeekOf returns the day for an ISO value in [1, 7].
func DayOfWeekOf(value int) (DayOfWeek, error) {
	if err := FieldDayOfWeek.Check(int64(value)); err != nil {
		return 0, err
	}
	return DayOfWeek(value), nil
}

// DayOfWeekFromStd converts a time.Weekday.
func DayOfWeekFromStd(wd time.Weekday) DayOfWeek {
	if wd == time.Sunday {
		return Sunday
	}
	return DayOfWeek(wd)
}

// AllDaysOfWeek returns the seven days starting from first.
// The zero value of first means Monday.
func AllDaysOfWeek(first DayOfWeek) []DayOfWeek {
	if !first.IsValid() {
		first = Monday
	}
	days := make([]DayOfWeek, 0, DaysPerWeek)
	for i := int64(0); i < DaysPerWeek; i++ {
		days = append(days, first.Plus(i))
	}
	return days
}

// IsValid reports whether d is one of the seven days.
func (d DayOfWeek) IsValid() bool { return d >= Monday && d <= Sunday }

// Value returns the ISO value.
func (d DayOfWeek) Value() int { return int(d) }

// Is reports whether d has the given ISO value.
func (d DayOfWeek) Is(value int) bool { return int(d) == value }

// Plus returns the day the given number of days later, wrapping modulo 7.
func (d DayOfWeek) Plus(days int64) DayOfWeek {
	return DayOfWeek(floorMod(int64(d)-1+floorMod(days, DaysPerWeek), DaysPerWeek) + 1)
}

// Minus returns the day the given number of days earlier.
func (d DayOfWeek) Minus(days int64) DayOfWeek {
	return d.Plus(-floorMod(days, DaysPerWeek))
}

// Std converts to a time.Weekday.
func (d DayOfWeek) Std() time.Weekday {
	return time.Weekday(d % DaysPerWeek)
}

// String returns the capitalized English name.
func (d DayOfWeek) String() string {
	if !d.IsValid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return dayNames[d]
}
