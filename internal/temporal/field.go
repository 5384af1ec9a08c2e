package temporal

import (
	"fmt"
	"sort"
)

// Field is a date-time field such as month-of-year or hour-of-day.
//
// The set of fields is closed; each one knows how to read its value from a
// DateTime and how to produce a DateTime with the value replaced.
type Field int

const (
	FieldMicroOfSecond Field = iota
	FieldMilliOfSecond
	FieldSecondOfMinute
	FieldSecondOfDay
	FieldMinuteOfHour
	FieldHourOfDay
	FieldDayOfWeek
	FieldDayOfMonth
	FieldDayOfYear
	FieldMonthOfYear
	FieldYear
)

type fieldInfo struct {
	name      string
	baseUnit  Unit
	rangeUnit Unit
	min, max  int64
}

var fieldTable = [...]fieldInfo{
	FieldMicroOfSecond:  {"micro-of-second", UnitMicro, UnitSecond, 0, MicrosPerSecond - 1},
	FieldMilliOfSecond:  {"milli-of-second", UnitMilli, UnitSecond, 0, 999},
	FieldSecondOfMinute: {"second-of-minute", UnitSecond, UnitMinute, 0, SecondsPerMinute - 1},
	FieldSecondOfDay:    {"second-of-day", UnitSecond, UnitDay, 0, SecondsPerDay - 1},
	FieldMinuteOfHour:   {"minute-of-hour", UnitMinute, UnitHour, 0, MinutesPerHour - 1},
	FieldHourOfDay:      {"hour-of-day", UnitHour, UnitDay, 0, HoursPerDay - 1},
	FieldDayOfWeek:      {"day-of-week", UnitDay, UnitWeek, 1, DaysPerWeek},
	FieldDayOfMonth:     {"day-of-month", UnitDay, UnitMonth, 1, 31},
	FieldDayOfYear:      {"day-of-year", UnitDay, UnitYear, 1, 366},
	FieldMonthOfYear:    {"month-of-year", UnitMonth, UnitYear, 1, MonthsPerYear},
	FieldYear:           {"year", UnitYear, UnitForever, MinYear, MaxYear},
}

// fieldsByName is populated once at package initialization and only read
// afterwards, so concurrent lookups need no locking.
var fieldsByName = func() map[string]Field {
	m := make(map[string]Field, len(fieldTable))
	for f := range fieldTable {
		m[fieldTable[f].name] = Field(f)
	}
	return m
}()

// FieldByName returns the field with the given kebab-case name,
// e.g. "day-of-month".
func FieldByName(name string) (Field, bool) {
	f, ok := fieldsByName[name]
	return f, ok
}

// AllFields returns every field in declaration order.
func AllFields() []Field {
	fields := make([]Field, 0, len(fieldTable))
	for f := range fieldTable {
		fields = append(fields, Field(f))
	}
	return fields
}

// FieldNames returns the sorted names of every field.
func FieldNames() []string {
	names := make([]string, 0, len(fieldsByName))
	for name := range fieldsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f Field) valid() bool { return f >= 0 && int(f) < len(fieldTable) }

func (f Field) info() fieldInfo {
	if !f.valid() {
		panic(fmt.Sprintf("temporal: unknown field %d", int(f)))
	}
	return fieldTable[f]
}

// Name returns the kebab-case name.
func (f Field) Name() string { return f.info().name }

// String implements fmt.Stringer.
func (f Field) String() string {
	if !f.valid() {
		return fmt.Sprintf("Field(%d)", int(f))
	}
	return fieldTable[f].name
}

func (f Field) BaseUnit() Unit  { return f.info().baseUnit }
func (f Field) RangeUnit() Unit { return f.info().rangeUnit }
func (f Field) MinValue() int64 { return f.info().min }
func (f Field) MaxValue() int64 { return f.info().max }

// Validate reports whether value is within the field's range.
func (f Field) Validate(value int64) bool {
	info := f.info()
	return info.min <= value && value <= info.max
}

// Check returns a FieldOutOfRange error when value is outside the range.
func (f Field) Check(value int64) error {
	if !f.Validate(value) {
		return fieldOutOfRange(f, value)
	}
	return nil
}

// GetFrom reads the field's value from dt.
func (f Field) GetFrom(dt DateTime) int64 {
	switch f {
	case FieldMicroOfSecond:
		return dt.micros
	case FieldMilliOfSecond:
		return dt.micros / MicrosPerMilli
	case FieldSecondOfMinute:
		return int64(dt.Second())
	case FieldSecondOfDay:
		return int64(dt.SecondOfDay())
	case FieldMinuteOfHour:
		return int64(dt.Minute())
	case FieldHourOfDay:
		return int64(dt.Hour())
	case FieldDayOfWeek:
		return int64(dt.DayOfWeek())
	case FieldDayOfMonth:
		return int64(dt.Day())
	case FieldDayOfYear:
		return int64(dt.DayOfYear())
	case FieldMonthOfYear:
		return int64(dt.Month())
	case FieldYear:
		return int64(dt.Year())
	}
	panic(fmt.Sprintf("temporal: unknown field %d", int(f)))
}

// AdjustInto returns a copy of dt with the field set to value.
//
// Day-of-week, day-of-year and second-of-day move dt by the signed
// difference between value and the current value, so setting day-of-year
// to 366 in a common year lands on January 1st of the following year.
// Setting milli-of-second replaces the whole micro-of-second.
func (f Field) AdjustInto(dt DateTime, value int64) (DateTime, error) {
	if err := f.Check(value); err != nil {
		return DateTime{}, err
	}
	switch f {
	case FieldMicroOfSecond:
		return dt.WithMicro(int(value))
	case FieldMilliOfSecond:
		return dt.WithMicro(int(value * MicrosPerMilli))
	case FieldSecondOfMinute:
		return dt.WithSecond(int(value))
	case FieldSecondOfDay:
		return dt.PlusSeconds(value - int64(dt.SecondOfDay()))
	case FieldMinuteOfHour:
		return dt.WithMinute(int(value))
	case FieldHourOfDay:
		return dt.WithHour(int(value))
	case FieldDayOfWeek:
		return dt.PlusDays(value - int64(dt.DayOfWeek()))
	case FieldDayOfMonth:
		return dt.WithDay(int(value))
	case FieldDayOfYear:
		return dt.PlusDays(value - int64(dt.DayOfYear()))
	case FieldMonthOfYear:
		return dt.WithMonth(int(value))
	case FieldYear:
		return dt.WithYear(int(value))
	}
	panic(fmt.Sprintf("temporal: unknown field %d", int(f)))
}
