package temporal

import "fmt"

// Calendar constants.
const (
	MonthsPerYear    = 12
	DaysPerWeek      = 7
	HoursPerDay      = 24
	MinutesPerHour   = 60
	MinutesPerDay    = MinutesPerHour * HoursPerDay
	SecondsPerMinute = 60
	SecondsPerHour   = SecondsPerMinute * MinutesPerHour
	SecondsPerDay    = SecondsPerHour * HoursPerDay
	MicrosPerMilli   = 1000
	MicrosPerSecond  = 1_000_000
	MicrosPerMinute  = MicrosPerSecond * SecondsPerMinute
	MicrosPerHour    = MicrosPerSecond * SecondsPerHour
	MicrosPerDay     = MicrosPerSecond * SecondsPerDay
)

// Supported year range, inclusive.
const (
	MinYear = -9999
	MaxYear = 9999
)

// Days from 0000-03-01 to 1970-01-01 in the proleptic Gregorian calendar.
const daysTo1970 = 719468

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int64) int64 {
	return a - floorDiv(a, b)*b
}

func isLeapYear(year int64) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func lengthOfYear(year int64) int64 {
	if isLeapYear(year) {
		return 366
	}
	return 365
}

func daysInMonth(year, month int64) int64 {
	switch month {
	case 2:
		if isLeapYear(year) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	default:
		return 31
	}
}

func isValidDate(year, month, day int64) bool {
	return month >= 1 && month <= 12 && day >= 1 && day <= daysInMonth(year, month)
}

// daysFromCivil converts a proleptic Gregorian date to days since 1970-01-01.
// Eras are 400-year cycles starting on March 1st so the leap day is last.
func daysFromCivil(year, month, day int64) int64 {
	if month <= 2 {
		year--
	}
	era := floorDiv(year, 400)
	yoe := year - era*400
	mp := (month + 9) % 12
	doy := (153*mp+2)/5 + day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - daysTo1970
}

// civilFromDays is the inverse of daysFromCivil.
func civilFromDays(days int64) (year, month, day int64) {
	z := days + daysTo1970
	era := floorDiv(z, 146097)
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day = doy - (153*mp+2)/5 + 1
	month = mp + 3
	if month > 12 {
		month -= 12
	}
	year = yoe + era*400
	if month <= 2 {
		year++
	}
	return year, month, day
}

// dayOfYear returns the 1-based ordinal day within the year.
func dayOfYear(year, month, day int64) int64 {
	return daysFromCivil(year, month, day) - daysFromCivil(year, 1, 1) + 1
}

// resolveDate clamps day to the length of the target month.
// Only days above 28 can be invalid for an otherwise valid month.
func resolveDate(year, month, day int64) (int64, int64, int64) {
	if day > 28 {
		day = min(day, daysInMonth(year, month))
	}
	return year, month, day
}

// formatYear renders a year with at least four digits and a leading minus
// for years before 0000.
func formatYear(year int64) string {
	if year < 0 {
		return fmt.Sprintf("-%04d", -year)
	}
	return fmt.Sprintf("%04d", year)
}
