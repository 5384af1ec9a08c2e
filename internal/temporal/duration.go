package temporal

import (
	"math"
	"math/bits"
	"strconv"
	"strings"
	"time"
)

// Duration is an exact, signed amount of elapsed time.
//
// It is stored as whole seconds plus a non-negative micro-of-second in
// [0, MicrosPerSecond). The micro component never carries the sign:
// -0.999999s is {seconds: -1, micros: 1}.
//
// The zero value is a zero-length duration. Duration is comparable with ==.
type Duration struct {
	seconds int64
	micros  int64
}

// Zero returns a zero-length duration.
func Zero() Duration {
	return Duration{}
}

// OfDays returns a duration of whole standard 24-hour days.
func OfDays(days int64) Duration {
	return Duration{seconds: days * SecondsPerDay}
}

// OfHours returns a duration of whole hours.
func OfHours(hours int64) Duration {
	return Duration{seconds: hours * SecondsPerHour}
}

// OfMinutes returns a duration of whole minutes.
func OfMinutes(minutes int64) Duration {
	return Duration{seconds: minutes * SecondsPerMinute}
}

// OfSeconds returns seconds plus an arbitrary adjustment in microseconds.
//
// The adjustment may be negative or many multiples of a second; it is
// floor-normalized so the stored micro component lands in [0, MicrosPerSecond).
func OfSeconds(seconds, microAdjustment int64) Duration {
	return Duration{
		seconds: seconds + floorDiv(microAdjustment, MicrosPerSecond),
		micros:  floorMod(microAdjustment, MicrosPerSecond),
	}
}

// OfMillis returns a duration of milliseconds.
func OfMillis(millis int64) Duration {
	return OfSeconds(floorDiv(millis, 1000), floorMod(millis, 1000)*MicrosPerMilli)
}

// OfMicros returns a duration of microseconds.
func OfMicros(micros int64) Duration {
	return OfSeconds(0, micros)
}

// FromStd converts a time.Duration, truncating toward negative infinity to
// whole microseconds.
func FromStd(d time.Duration) Duration {
	return OfMicros(floorDiv(int64(d), int64(time.Microsecond)))
}

// DurationBetween returns the elapsed time from start to end.
// The result is negative when end is before start.
func DurationBetween(start, end DateTime) Duration {
	return OfSeconds(end.epochSeconds-start.epochSeconds, end.micros-start.micros)
}

// Seconds returns the whole-seconds component.
func (d Duration) Seconds() int64 { return d.seconds }

// Micros returns the micro-of-second component, always in [0, MicrosPerSecond).
func (d Duration) Micros() int64 { return d.micros }

// WithSeconds returns a copy with the seconds component replaced.
func (d Duration) WithSeconds(seconds int64) Duration {
	return Duration{seconds: seconds, micros: d.micros}
}

// WithMicros returns a copy with the micro component replaced and normalized.
func (d Duration) WithMicros(micros int64) Duration {
	return OfSeconds(d.seconds, micros)
}

// IsZero reports whether the duration has zero length.
func (d Duration) IsZero() bool {
	return d.seconds == 0 && d.micros == 0
}

// IsPositive reports whether the duration is greater than zero.
func (d Duration) IsPositive() bool {
	return d.seconds > 0 || (d.seconds == 0 && d.micros != 0)
}

// IsPositiveOrZero reports whether the duration is zero or greater.
func (d Duration) IsPositiveOrZero() bool {
	return d.seconds >= 0
}

// IsNegative reports whether the duration is less than zero.
func (d Duration) IsNegative() bool {
	return d.seconds < 0
}

// IsNegativeOrZero reports whether the duration is zero or less.
func (d Duration) IsNegativeOrZero() bool {
	return d.seconds < 0 || d.IsZero()
}

// Compare orders durations lexicographically on (seconds, micros).
//
// Because micros is unsigned this is also the numeric order:
// {seconds: -1, micros: 1} (-0.999999s) < {seconds: 0, micros: 0}.
func (d Duration) Compare(other Duration) int {
	switch {
	case d.seconds < other.seconds:
		return -1
	case d.seconds > other.seconds:
		return 1
	case d.micros < other.micros:
		return -1
	case d.micros > other.micros:
		return 1
	}
	return 0
}

// Equal reports whether both durations have the same length.
func (d Duration) Equal(other Duration) bool { return d == other }

// Less reports whether d is shorter than other.
func (d Duration) Less(other Duration) bool { return d.Compare(other) < 0 }

// Greater reports whether d is longer than other.
func (d Duration) Greater(other Duration) bool { return d.Compare(other) > 0 }

// Plus returns d + other.
// Both micro components are already in range, so at most one second carries.
func (d Duration) Plus(other Duration) Duration {
	if other.IsZero() {
		return d
	}
	seconds := d.seconds + other.seconds
	micros := d.micros + other.micros
	if micros >= MicrosPerSecond {
		micros -= MicrosPerSecond
		seconds++
	}
	return Duration{seconds: seconds, micros: micros}
}

// Minus returns d - other.
func (d Duration) Minus(other Duration) Duration {
	return d.Plus(other.Negated())
}

func (d Duration) PlusDays(days int64) Duration       { return d.PlusSeconds(days * SecondsPerDay) }
func (d Duration) PlusHours(hours int64) Duration     { return d.PlusSeconds(hours * SecondsPerHour) }
func (d Duration) PlusMinutes(minutes int64) Duration { return d.PlusSeconds(minutes * SecondsPerMinute) }

// PlusSeconds adds whole seconds; the micro component is untouched.
func (d Duration) PlusSeconds(seconds int64) Duration {
	return Duration{seconds: d.seconds + seconds, micros: d.micros}
}

// PlusMillis adds milliseconds.
func (d Duration) PlusMillis(millis int64) Duration {
	return d.Plus(OfMillis(millis))
}

// PlusMicros adds microseconds.
func (d Duration) PlusMicros(micros int64) Duration {
	return d.Plus(OfMicros(micros))
}

func (d Duration) MinusDays(days int64) Duration       { return d.PlusDays(-days) }
func (d Duration) MinusHours(hours int64) Duration     { return d.PlusHours(-hours) }
func (d Duration) MinusMinutes(minutes int64) Duration { return d.PlusMinutes(-minutes) }
func (d Duration) MinusSeconds(seconds int64) Duration { return d.PlusSeconds(-seconds) }
func (d Duration) MinusMillis(millis int64) Duration   { return d.Minus(OfMillis(millis)) }
func (d Duration) MinusMicros(micros int64) Duration   { return d.Minus(OfMicros(micros)) }

// Negated returns -d.
func (d Duration) Negated() Duration {
	if d.micros == 0 {
		return Duration{seconds: -d.seconds}
	}
	return Duration{seconds: -d.seconds - 1, micros: MicrosPerSecond - d.micros}
}

// Abs returns the duration with a non-negative length.
func (d Duration) Abs() Duration {
	if d.IsNegative() {
		return d.Negated()
	}
	return d
}

// MultipliedBy returns d * k.
//
// The micro product is formed in 128 bits, so micros*k never overflows
// before it is folded back into whole seconds.
func (d Duration) MultipliedBy(k int64) Duration {
	switch k {
	case 0:
		return Duration{}
	case 1:
		return d
	case -1:
		return d.Negated()
	}
	carry, micros := mulFloorDivMod(d.micros, k, MicrosPerSecond)
	return Duration{seconds: d.seconds*k + carry, micros: micros}
}

// DividedBy returns d / k with every integer division truncating toward zero.
//
// Seconds and micros are divided independently; the remainder of the seconds
// division is then redistributed into micro units in two steps:
//
//	remainder*(SCALE/k) + (microRemainder + remainder*(SCALE%k)) / k
//
// which keeps the result exact even when SCALE is not a multiple of k.
func (d Duration) DividedBy(k int64) (Duration, error) {
	if k == 0 {
		return Duration{}, newError(CodeDivisionByZero, "cannot divide a duration by zero")
	}
	if k == 1 {
		return d, nil
	}

	seconds, micros := d.seconds, d.micros
	// Give both components the same sign so truncation agrees between them.
	if seconds < 0 && micros != 0 {
		seconds++
		micros -= MicrosPerSecond
	}

	remainder := seconds % k
	seconds /= k

	microRemainder := micros % k
	micros /= k

	micros += remainder * (MicrosPerSecond / k)
	micros += truncMulAddDiv(microRemainder, remainder, MicrosPerSecond%k, k)

	if micros < 0 {
		seconds--
		micros += MicrosPerSecond
	}
	return Duration{seconds: seconds, micros: micros}, nil
}

// TruncatedTo truncates d toward zero to a multiple of unit within the day.
//
// unit must be positive, at most one day long and divide a standard day
// without remainder; TruncationUnitInvalid is returned otherwise.
func (d Duration) TruncatedTo(unit Duration) (Duration, error) {
	if unit.seconds > SecondsPerDay {
		return Duration{}, newError(CodeTruncationUnitInvalid, "unit %s is too large to be used for truncation", unit)
	}
	unitMicros := unit.ToMicros()
	if unitMicros <= 0 || MicrosPerDay%unitMicros != 0 {
		return Duration{}, newError(CodeTruncationUnitInvalid, "unit %s must divide into a standard day without remainder", unit)
	}
	microOfDay := (d.seconds%SecondsPerDay)*MicrosPerSecond + d.micros
	result := (microOfDay / unitMicros) * unitMicros
	return OfSeconds(d.seconds, d.micros+(result-microOfDay)), nil
}

// TruncatedToUnit truncates d to the reference duration of u.
func (d Duration) TruncatedToUnit(u Unit) (Duration, error) {
	return d.TruncatedTo(u.Duration())
}

// ToMicros returns the total length in microseconds.
// The result overflows for durations beyond roughly ±292,000 years.
func (d Duration) ToMicros() int64 {
	seconds, micros := d.seconds, d.micros
	if seconds < 0 {
		seconds++
		micros -= MicrosPerSecond
	}
	return seconds*MicrosPerSecond + micros
}

// ToMillis returns the total length in whole milliseconds, rounded toward
// negative infinity: -0.000001s is -1ms.
func (d Duration) ToMillis() int64 {
	return floorDiv(d.ToMicros(), MicrosPerMilli)
}

// ToMinutes returns the whole minutes of the seconds component.
func (d Duration) ToMinutes() int64 { return d.seconds / SecondsPerMinute }

// ToHours returns the whole hours of the seconds component.
func (d Duration) ToHours() int64 { return d.seconds / SecondsPerHour }

// ToDays returns the whole standard days of the seconds component.
func (d Duration) ToDays() int64 { return d.seconds / SecondsPerDay }

// Std converts to a time.Duration, saturating at its ±292-year range.
func (d Duration) Std() time.Duration {
	const maxSeconds = math.MaxInt64 / int64(time.Second)
	switch {
	case d.seconds >= maxSeconds:
		return time.Duration(math.MaxInt64)
	case d.seconds < -maxSeconds:
		return time.Duration(math.MinInt64)
	}
	return time.Duration(d.seconds)*time.Second + time.Duration(d.micros)*time.Microsecond
}

// String renders the ISO-8601 form, e.g. PT1H1M1.5S.
//
// Negative durations with a micro component borrow one second so the fraction
// renders as a positive decimal trailing a possibly negative seconds value;
// a zero seconds value of a negative duration renders as "-0".
func (d Duration) String() string {
	seconds, micros := d.seconds, d.micros
	if seconds == 0 && micros == 0 {
		return "PT0S"
	}

	negative := seconds < 0
	if negative && micros != 0 {
		seconds++
		micros = MicrosPerSecond - micros
	}

	hours := seconds / SecondsPerHour
	minutes := (seconds % SecondsPerHour) / SecondsPerMinute
	seconds %= SecondsPerMinute

	var b strings.Builder
	b.WriteString("PT")
	if hours != 0 {
		b.WriteString(strconv.FormatInt(hours, 10))
		b.WriteByte('H')
	}
	if minutes != 0 {
		b.WriteString(strconv.FormatInt(minutes, 10))
		b.WriteByte('M')
	}
	if seconds != 0 || micros != 0 {
		if seconds == 0 && negative {
			b.WriteString("-0")
		} else {
			b.WriteString(strconv.FormatInt(seconds, 10))
		}
		if micros != 0 {
			b.WriteByte('.')
			b.WriteString(formatFraction(micros))
		}
		b.WriteByte('S')
	}
	return b.String()
}

// formatFraction renders micros as six digits with trailing zeros removed.
func formatFraction(micros int64) string {
	s := strconv.FormatInt(micros+MicrosPerSecond, 10)[1:]
	return strings.TrimRight(s, "0")
}

// mulFloorDivMod returns floor(a*b / m) and the matching non-negative
// remainder, for 0 <= a < m. The product is formed in 128 bits.
func mulFloorDivMod(a, b, m int64) (quo, rem int64) {
	mag := uint64(b)
	if b < 0 {
		mag = -mag
	}
	hi, lo := bits.Mul64(uint64(a), mag)
	q, r := bits.Div64(hi, lo, uint64(m))
	quo, rem = int64(q), int64(r)
	if b < 0 {
		quo = -quo
		if rem != 0 {
			quo--
			rem = m - rem
		}
	}
	return quo, rem
}

// truncMulAddDiv returns (a + b*c) / k truncated toward zero.
//
// a and b*c never have opposite signs, c is non-negative and the quotient
// is known to be smaller than MicrosPerSecond in magnitude; the sum is formed
// in 128 bits because b*c overflows int64 for divisors above MicrosPerSecond.
func truncMulAddDiv(a, b, c, k int64) int64 {
	negative := a < 0 || b < 0
	ua, ub, uk := absUint64(a), absUint64(b), absUint64(k)
	hi, lo := bits.Mul64(ub, uint64(c))
	lo, carry := bits.Add64(lo, ua, 0)
	hi += carry
	q, _ := bits.Div64(hi, lo, uk)
	result := int64(q)
	if negative != (k < 0) {
		result = -result
	}
	return result
}

func absUint64(v int64) uint64 {
	if v < 0 {
		return -uint64(v)
	}
	return uint64(v)
}
