package temporal

import (
	"math"
	"math/bits"
	"strconv"
	"strings"
	"time"
)

// DateTime is an instant bound to a fixed zone offset.
//
// The instant is stored as seconds since 1970-01-01T00:00:00Z plus a
// micro-of-second; calendar fields are computed from the local time
// (instant + offset) on demand and never stored.
//
// The zero value is 1970-01-01T00:00:00Z. == compares instant and offset;
// use Equal to compare instants only.
type DateTime struct {
	epochSeconds int64
	micros       int64
	zone         ZoneOffset
}

// localFields is the calendar decomposition of a DateTime in its own zone.
type localFields struct {
	year, month, day, hour, minute, second, micro int64
}

// Local second bounds of the supported range.
var (
	minLocalSecond = daysFromCivil(MinYear, 1, 1) * SecondsPerDay
	maxLocalSecond = daysFromCivil(MaxYear, 12, 31)*SecondsPerDay + SecondsPerDay - 1
)

// Of returns the DateTime for the given local fields in zone.
//
// Every field is checked against its Field range (FieldOutOfRange) and the
// date against the calendar (InvalidCalendarDate).
func Of(year, month, day, hour, minute, second, micro int, zone ZoneOffset) (DateTime, error) {
	return fromLocal(localFields{
		year:   int64(year),
		month:  int64(month),
		day:    int64(day),
		hour:   int64(hour),
		minute: int64(minute),
		second: int64(second),
		micro:  int64(micro),
	}, zone)
}

// OfDate returns midnight of the given date in zone.
func OfDate(year, month, day int, zone ZoneOffset) (DateTime, error) {
	return Of(year, month, day, 0, 0, 0, 0, zone)
}

// MustOf is like Of but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustOf(year, month, day, hour, minute, second, micro int, zone ZoneOffset) DateTime {
	dt, err := Of(year, month, day, hour, minute, second, micro, zone)
	if err != nil {
		panic(err)
	}
	return dt
}

// OfEpochSecond returns the instant epochSecond seconds plus microAdjustment
// microseconds after 1970-01-01T00:00:00Z, rendered in zone.
func OfEpochSecond(epochSecond, microAdjustment int64, zone ZoneOffset) (DateTime, error) {
	instant := OfSeconds(epochSecond, microAdjustment)
	return fromInstant(instant.seconds, instant.micros, zone)
}

// FromTime converts a time.Time, keeping its offset and truncating to
// microseconds.
func FromTime(t time.Time) (DateTime, error) {
	_, offset := t.Zone()
	zone, err := OffsetOfSeconds(int64(offset))
	if err != nil {
		return DateTime{}, err
	}
	return fromInstant(t.Unix(), int64(t.Nanosecond()/1000), zone)
}

// MustFromTime is like FromTime but panics on error.
func MustFromTime(t time.Time) DateTime {
	dt, err := FromTime(t)
	if err != nil {
		panic(err)
	}
	return dt
}

// MinDateTime returns the earliest supported local time in zone.
func MinDateTime(zone ZoneOffset) DateTime {
	return MustOf(MinYear, 1, 1, 0, 0, 0, 0, zone)
}

// MaxDateTime returns the latest supported local time in zone.
func MaxDateTime(zone ZoneOffset) DateTime {
	return MustOf(MaxYear, 12, 31, 23, 59, 59, MicrosPerSecond-1, zone)
}

func fromLocal(f localFields, zone ZoneOffset) (DateTime, error) {
	checks := []struct {
		field Field
		value int64
	}{
		{FieldYear, f.year},
		{FieldMonthOfYear, f.month},
		{FieldDayOfMonth, f.day},
		{FieldHourOfDay, f.hour},
		{FieldMinuteOfHour, f.minute},
		{FieldSecondOfMinute, f.second},
		{FieldMicroOfSecond, f.micro},
	}
	for _, c := range checks {
		if err := c.field.Check(c.value); err != nil {
			return DateTime{}, err
		}
	}
	if !isValidDate(f.year, f.month, f.day) {
		return DateTime{}, invalidDate(f.year, f.month, f.day)
	}
	if _, err := OffsetOfSeconds(int64(zone)); err != nil {
		return DateTime{}, err
	}

	local := daysFromCivil(f.year, f.month, f.day)*SecondsPerDay +
		f.hour*SecondsPerHour + f.minute*SecondsPerMinute + f.second
	return DateTime{epochSeconds: local - int64(zone), micros: f.micro, zone: zone}, nil
}

func fromInstant(epochSeconds, micros int64, zone ZoneOffset) (DateTime, error) {
	if _, err := OffsetOfSeconds(int64(zone)); err != nil {
		return DateTime{}, err
	}
	local, ok := addExact(epochSeconds, int64(zone))
	if !ok || local < minLocalSecond || local > maxLocalSecond {
		return DateTime{}, yearRangeError()
	}
	return DateTime{epochSeconds: epochSeconds, micros: micros, zone: zone}, nil
}

func yearRangeError() *Error {
	return newError(CodeFieldOutOfRange, "result is outside the supported year range %d to %d", MinYear, MaxYear)
}

func (dt DateTime) local() localFields {
	local := dt.epochSeconds + int64(dt.zone)
	days := floorDiv(local, SecondsPerDay)
	secondOfDay := floorMod(local, SecondsPerDay)
	year, month, day := civilFromDays(days)
	return localFields{
		year:   year,
		month:  month,
		day:    day,
		hour:   secondOfDay / SecondsPerHour,
		minute: (secondOfDay % SecondsPerHour) / SecondsPerMinute,
		second: secondOfDay % SecondsPerMinute,
		micro:  dt.micros,
	}
}

func (dt DateTime) epochDay() int64 {
	return floorDiv(dt.epochSeconds+int64(dt.zone), SecondsPerDay)
}

// instant returns the time since the epoch as a Duration.
func (dt DateTime) instant() Duration {
	return Duration{seconds: dt.epochSeconds, micros: dt.micros}
}

// Get returns the value of field.
func (dt DateTime) Get(field Field) int64 { return field.GetFrom(dt) }

func (dt DateTime) Year() int   { return int(dt.local().year) }
func (dt DateTime) Month() int  { return int(dt.local().month) }
func (dt DateTime) Day() int    { return int(dt.local().day) }
func (dt DateTime) Hour() int   { return int(dt.local().hour) }
func (dt DateTime) Minute() int { return int(dt.local().minute) }
func (dt DateTime) Second() int { return int(dt.local().second) }
func (dt DateTime) Micro() int  { return int(dt.micros) }

// DayOfWeek returns the ISO day-of-week.
func (dt DateTime) DayOfWeek() DayOfWeek {
	// 1970-01-01 was a Thursday.
	return DayOfWeek(floorMod(dt.epochDay()+3, DaysPerWeek) + 1)
}

// DayOfYear returns the 1-based day within the year.
func (dt DateTime) DayOfYear() int {
	f := dt.local()
	return int(dayOfYear(f.year, f.month, f.day))
}

// SecondOfDay returns the seconds elapsed since local midnight.
func (dt DateTime) SecondOfDay() int {
	return int(floorMod(dt.epochSeconds+int64(dt.zone), SecondsPerDay))
}

// IsLeapYear reports whether the local year is a leap year.
func (dt DateTime) IsLeapYear() bool { return isLeapYear(dt.local().year) }

// LengthOfMonth returns the number of days in the local month.
func (dt DateTime) LengthOfMonth() int {
	f := dt.local()
	return int(daysInMonth(f.year, f.month))
}

// LengthOfYear returns 365 or 366.
func (dt DateTime) LengthOfYear() int { return int(lengthOfYear(dt.local().year)) }

// Zone returns the offset used to render calendar fields.
func (dt DateTime) Zone() ZoneOffset { return dt.zone }

// EpochSecond returns the seconds since 1970-01-01T00:00:00Z.
func (dt DateTime) EpochSecond() int64 { return dt.epochSeconds }

// Time converts to a time.Time in a fixed zone of the same offset.
func (dt DateTime) Time() time.Time {
	return time.Unix(dt.epochSeconds, dt.micros*1000).In(dt.zone.Location())
}

// With returns a copy with field set to value.
func (dt DateTime) With(field Field, value int64) (DateTime, error) {
	return field.AdjustInto(dt, value)
}

// WithMicro returns a copy with the micro-of-second replaced.
func (dt DateTime) WithMicro(micro int) (DateTime, error) {
	f := dt.local()
	f.micro = int64(micro)
	return fromLocal(f, dt.zone)
}

// WithSecond returns a copy with the second-of-minute replaced.
func (dt DateTime) WithSecond(second int) (DateTime, error) {
	f := dt.local()
	f.second = int64(second)
	return fromLocal(f, dt.zone)
}

// WithMinute returns a copy with the minute-of-hour replaced.
func (dt DateTime) WithMinute(minute int) (DateTime, error) {
	f := dt.local()
	f.minute = int64(minute)
	return fromLocal(f, dt.zone)
}

// WithHour returns a copy with the hour-of-day replaced.
func (dt DateTime) WithHour(hour int) (DateTime, error) {
	f := dt.local()
	f.hour = int64(hour)
	return fromLocal(f, dt.zone)
}

// WithDay returns a copy with the day-of-month replaced.
// Days past the end of the month are an InvalidCalendarDate error, not clamped.
func (dt DateTime) WithDay(day int) (DateTime, error) {
	f := dt.local()
	f.day = int64(day)
	return fromLocal(f, dt.zone)
}

// WithMonth returns a copy with the month-of-year replaced, clamping the
// day to the last day of the new month: 2008-03-31 with month 2 is 2008-02-29.
func (dt DateTime) WithMonth(month int) (DateTime, error) {
	if err := FieldMonthOfYear.Check(int64(month)); err != nil {
		return DateTime{}, err
	}
	f := dt.local()
	f.year, f.month, f.day = resolveDate(f.year, int64(month), f.day)
	return fromLocal(f, dt.zone)
}

// WithYear returns a copy with the year replaced, clamping February 29th
// to the 28th in common years.
func (dt DateTime) WithYear(year int) (DateTime, error) {
	if err := FieldYear.Check(int64(year)); err != nil {
		return DateTime{}, err
	}
	f := dt.local()
	f.year, f.month, f.day = resolveDate(int64(year), f.month, f.day)
	return fromLocal(f, dt.zone)
}

// WithZone returns the same instant rendered in zone.
func (dt DateTime) WithZone(zone ZoneOffset) (DateTime, error) {
	return fromInstant(dt.epochSeconds, dt.micros, zone)
}

// InLocation returns the same instant rendered with the offset loc applies
// at that instant.
func (dt DateTime) InLocation(loc *time.Location) (DateTime, error) {
	return dt.WithZone(ZoneFor(loc, dt))
}

// Plus returns a copy with amount of unit added.
func (dt DateTime) Plus(amount int64, unit Unit) (DateTime, error) {
	return unit.AddTo(dt, amount)
}

// PlusDuration returns a copy with the exact duration added.
func (dt DateTime) PlusDuration(d Duration) (DateTime, error) {
	if d.IsZero() {
		return dt, nil
	}
	seconds, ok := addExact(dt.epochSeconds, d.seconds)
	if !ok {
		return DateTime{}, yearRangeError()
	}
	sum := OfSeconds(seconds, dt.micros+d.micros)
	return fromInstant(sum.seconds, sum.micros, dt.zone)
}

// PlusMicros folds the micro amount into whole seconds before applying it.
func (dt DateTime) PlusMicros(micros int64) (DateTime, error) {
	return dt.PlusDuration(OfMicros(micros))
}

// PlusMillis returns a copy with millis milliseconds added.
func (dt DateTime) PlusMillis(millis int64) (DateTime, error) {
	return dt.PlusDuration(OfMillis(millis))
}

// PlusSeconds returns a copy with whole seconds added.
func (dt DateTime) PlusSeconds(seconds int64) (DateTime, error) {
	return dt.plusScaled(seconds, 1)
}

// PlusMinutes returns a copy with minutes added.
func (dt DateTime) PlusMinutes(minutes int64) (DateTime, error) {
	return dt.plusScaled(minutes, SecondsPerMinute)
}

// PlusHours returns a copy with hours added.
func (dt DateTime) PlusHours(hours int64) (DateTime, error) {
	return dt.plusScaled(hours, SecondsPerHour)
}

// PlusDays returns a copy with standard days added. Offsets are fixed, so
// a day is always 86400 seconds.
func (dt DateTime) PlusDays(days int64) (DateTime, error) {
	return dt.plusScaled(days, SecondsPerDay)
}

// PlusWeeks returns a copy with weeks added.
func (dt DateTime) PlusWeeks(weeks int64) (DateTime, error) {
	return dt.plusScaled(weeks, SecondsPerDay*DaysPerWeek)
}

func (dt DateTime) plusScaled(amount, secondsPerUnit int64) (DateTime, error) {
	if amount == 0 {
		return dt, nil
	}
	seconds, ok := mulExact(amount, secondsPerUnit)
	if !ok {
		return DateTime{}, yearRangeError()
	}
	seconds, ok = addExact(dt.epochSeconds, seconds)
	if !ok {
		return DateTime{}, yearRangeError()
	}
	return fromInstant(seconds, dt.micros, dt.zone)
}

// PlusMonths adds calendar months, pulling the day back to the last valid
// day of a shorter target month: 2001-01-31 plus one month is 2001-02-28.
func (dt DateTime) PlusMonths(months int64) (DateTime, error) {
	if months == 0 {
		return dt, nil
	}
	const maxMonths = (MaxYear - MinYear + 1) * MonthsPerYear
	if months > maxMonths || months < -maxMonths {
		return DateTime{}, yearRangeError()
	}
	f := dt.local()
	total := f.year*MonthsPerYear + (f.month - 1) + months
	f.year, f.month, f.day = resolveDate(floorDiv(total, MonthsPerYear), floorMod(total, MonthsPerYear)+1, f.day)
	if f.year < MinYear || f.year > MaxYear {
		return DateTime{}, yearRangeError()
	}
	return fromLocal(f, dt.zone)
}

// PlusYears adds calendar years with the same end-of-month clamping as
// PlusMonths: 2008-02-29 plus one year is 2009-02-28.
func (dt DateTime) PlusYears(years int64) (DateTime, error) {
	const maxYears = MaxYear - MinYear + 1
	if years > maxYears || years < -maxYears {
		return DateTime{}, yearRangeError()
	}
	return dt.PlusMonths(years * MonthsPerYear)
}

// Minus returns a copy with amount of unit subtracted.
func (dt DateTime) Minus(amount int64, unit Unit) (DateTime, error) {
	return unit.SubtractFrom(dt, amount)
}

func (dt DateTime) MinusDuration(d Duration) (DateTime, error) { return dt.PlusDuration(d.Negated()) }
func (dt DateTime) MinusMicros(micros int64) (DateTime, error) { return dt.PlusDuration(OfMicros(micros).Negated()) }
func (dt DateTime) MinusMillis(millis int64) (DateTime, error) { return dt.PlusDuration(OfMillis(millis).Negated()) }
func (dt DateTime) MinusSeconds(n int64) (DateTime, error)     { return dt.minusScaled(n, 1) }
func (dt DateTime) MinusMinutes(n int64) (DateTime, error)     { return dt.minusScaled(n, SecondsPerMinute) }
func (dt DateTime) MinusHours(n int64) (DateTime, error)       { return dt.minusScaled(n, SecondsPerHour) }
func (dt DateTime) MinusDays(n int64) (DateTime, error)        { return dt.minusScaled(n, SecondsPerDay) }
func (dt DateTime) MinusWeeks(n int64) (DateTime, error)       { return dt.minusScaled(n, SecondsPerDay*DaysPerWeek) }
func (dt DateTime) MinusMonths(n int64) (DateTime, error)      { return dt.PlusMonths(-n) }
func (dt DateTime) MinusYears(n int64) (DateTime, error)       { return dt.PlusYears(-n) }

func (dt DateTime) minusScaled(amount, secondsPerUnit int64) (DateTime, error) {
	if amount == math.MinInt64 {
		return DateTime{}, yearRangeError()
	}
	return dt.plusScaled(-amount, secondsPerUnit)
}

// Until returns the number of whole units from dt to end.
func (dt DateTime) Until(end DateTime, unit Unit) int64 {
	return unit.Between(dt, end)
}

// Compare orders by instant, ignoring the zone offset.
func (dt DateTime) Compare(other DateTime) int {
	return dt.instant().Compare(other.instant())
}

// Equal reports whether both represent the same instant.
func (dt DateTime) Equal(other DateTime) bool {
	return dt.epochSeconds == other.epochSeconds && dt.micros == other.micros
}

// Before reports whether dt is strictly before other.
func (dt DateTime) Before(other DateTime) bool { return dt.Compare(other) < 0 }

// After reports whether dt is strictly after other.
func (dt DateTime) After(other DateTime) bool { return dt.Compare(other) > 0 }

// String renders the ISO-8601 form, e.g. 2008-02-29T10:15:30.5+09:00.
// The fraction is omitted when zero and a zero offset renders as Z.
func (dt DateTime) String() string {
	return dt.ToDateString() + "T" + dt.ToTimeString() + dt.zone.String()
}

// ToDateString renders YYYY-MM-DD.
func (dt DateTime) ToDateString() string {
	f := dt.local()
	var b strings.Builder
	b.WriteString(formatYear(f.year))
	b.WriteByte('-')
	writePadded(&b, f.month)
	b.WriteByte('-')
	writePadded(&b, f.day)
	return b.String()
}

// ToTimeString renders HH:MM:SS with an optional trimmed fraction.
func (dt DateTime) ToTimeString() string {
	f := dt.local()
	var b strings.Builder
	writePadded(&b, f.hour)
	b.WriteByte(':')
	writePadded(&b, f.minute)
	b.WriteByte(':')
	writePadded(&b, f.second)
	if f.micro != 0 {
		b.WriteByte('.')
		b.WriteString(formatFraction(f.micro))
	}
	return b.String()
}

// ToDateTimeString renders "YYYY-MM-DD HH:MM:SS[.f]" without the offset.
func (dt DateTime) ToDateTimeString() string {
	return dt.ToDateString() + " " + dt.ToTimeString()
}

func writePadded(b *strings.Builder, v int64) {
	if v < 10 {
		b.WriteByte('0')
	}
	b.WriteString(strconv.FormatInt(v, 10))
}

func addExact(a, b int64) (int64, bool) {
	sum := a + b
	if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
		return 0, false
	}
	return sum, true
}

func mulExact(a, b int64) (int64, bool) {
	hi, lo := bits.Mul64(absUint64(a), absUint64(b))
	if hi != 0 || lo > 1<<63 {
		return 0, false
	}
	negative := (a < 0) != (b < 0)
	if !negative && lo == 1<<63 {
		return 0, false
	}
	if negative {
		return -int64(lo), true
	}
	return int64(lo), true
}
