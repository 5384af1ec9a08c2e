package temporal

import (
	"fmt"
	"time"
)

// MaxOffsetSeconds bounds a ZoneOffset to ±18:00.
const MaxOffsetSeconds = 18 * SecondsPerHour

// ZoneOffset is a fixed offset from UTC in seconds east of Greenwich.
//
// Zone rules (DST transitions, historical offsets) are the platform's concern;
// ZoneFor resolves a time.Location to the offset in force at an instant.
type ZoneOffset int32

// UTC is the zero offset.
const UTC ZoneOffset = 0

// OffsetOf returns the offset for hours and minutes. Minutes take the sign
// of hours, so OffsetOf(-5, 30) is -05:30.
func OffsetOf(hours, minutes int) (ZoneOffset, error) {
	if hours < 0 && minutes > 0 {
		minutes = -minutes
	}
	return OffsetOfSeconds(int64(hours)*SecondsPerHour + int64(minutes)*SecondsPerMinute)
}

// OffsetOfSeconds returns the offset for a total number of seconds.
func OffsetOfSeconds(seconds int64) (ZoneOffset, error) {
	if seconds < -MaxOffsetSeconds || seconds > MaxOffsetSeconds {
		return 0, newError(CodeInvalidZoneOffset, "offset %ds is not in the range -18:00 to +18:00", seconds)
	}
	return ZoneOffset(seconds), nil
}

// ZoneFor returns the offset loc applies at the instant of dt.
func ZoneFor(loc *time.Location, dt DateTime) ZoneOffset {
	_, offset := time.Unix(dt.epochSeconds, 0).In(loc).Zone()
	return ZoneOffset(offset)
}

// TotalSeconds returns the offset in seconds.
func (z ZoneOffset) TotalSeconds() int64 { return int64(z) }

// Location returns a fixed time.Location for this offset.
func (z ZoneOffset) Location() *time.Location {
	if z == UTC {
		return time.UTC
	}
	return time.FixedZone(z.String(), int(z))
}

// String renders Z for UTC and ±HH:MM otherwise; seconds are appended
// only when present.
func (z ZoneOffset) String() string {
	if z == UTC {
		return "Z"
	}
	sign := byte('+')
	total := int64(z)
	if total < 0 {
		sign = '-'
		total = -total
	}
	hours := total / SecondsPerHour
	minutes := (total % SecondsPerHour) / SecondsPerMinute
	seconds := total % SecondsPerMinute
	if seconds != 0 {
		return fmt.Sprintf("%c%02d:%02d:%02d", sign, hours, minutes, seconds)
	}
	return fmt.Sprintf("%c%02d:%02d", sign, hours, minutes)
}
