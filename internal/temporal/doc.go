// Package temporal provides immutable calendar and time value objects.
//
// The package holds five value types:
//   - Duration: exact signed elapsed time as (seconds, micros)
//   - DateTime: an instant bound to a fixed zone offset
//   - Field and Unit: closed enums for generic field access and arithmetic
//   - DayOfWeek: ISO day-of-week, Monday=1 .. Sunday=7
//   - Interval: half-open [start, end) range algebra
//
// Key design constraints:
//   - Sub-second precision is the microsecond (MicrosPerSecond = 1_000_000)
//   - The sub-second component is never sign-carrying: -0.999999s is stored
//     as seconds=-1, micros=1
//   - Proleptic Gregorian calendar, years MinYear..MaxYear
//   - Every fallible constructor or mutator returns (value, error); no partial
//     value is ever observable
//   - No I/O, no locking; every value is safe for concurrent use
//
// Zone rules come from the platform (time.Location). A DateTime carries the
// resolved fixed offset only.
package temporal
