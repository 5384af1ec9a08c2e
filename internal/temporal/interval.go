package temporal

// Interval is the half-open range [start, end) between two instants.
//
// A zero-length interval (start equal to end) is valid; it represents a
// single instant and contains nothing, not even itself. Relations compare
// instants only, so endpoints in different zones compare as expected.
type Interval struct {
	start DateTime
	end   DateTime
}

// NewInterval returns [start, end).
// An end before start is an IntervalInverted error.
func NewInterval(start, end DateTime) (Interval, error) {
	if end.Before(start) {
		return Interval{}, newError(CodeIntervalInverted,
			"the end %s must not be before the start %s", end, start)
	}
	return Interval{start: start, end: end}, nil
}

// MustInterval is like NewInterval but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustInterval(start, end DateTime) Interval {
	iv, err := NewInterval(start, end)
	if err != nil {
		panic(err)
	}
	return iv
}

// Start returns the inclusive start.
func (iv Interval) Start() DateTime { return iv.start }

// End returns the exclusive end.
func (iv Interval) End() DateTime { return iv.end }

// WithStart returns a copy with a new start.
func (iv Interval) WithStart(start DateTime) (Interval, error) {
	return NewInterval(start, iv.end)
}

// WithEnd returns a copy with a new end.
func (iv Interval) WithEnd(end DateTime) (Interval, error) {
	return NewInterval(iv.start, end)
}

// IsEmpty reports whether the interval has zero length.
func (iv Interval) IsEmpty() bool { return iv.start.Equal(iv.end) }

// Duration returns the length of the interval.
func (iv Interval) Duration() Duration { return DurationBetween(iv.start, iv.end) }

// Equal reports whether both endpoints are the same instants.
func (iv Interval) Equal(other Interval) bool {
	return iv.start.Equal(other.start) && iv.end.Equal(other.end)
}

// Overlaps reports whether the intervals share at least one instant.
// Abutting intervals do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.start.Before(other.end) && other.start.Before(iv.end)
}

// Abuts reports whether the intervals meet at a boundary with neither gap
// nor overlap.
func (iv Interval) Abuts(other Interval) bool {
	return other.end.Equal(iv.start) || iv.end.Equal(other.start)
}

// Contains reports whether other lies completely within iv.
func (iv Interval) Contains(other Interval) bool {
	return !other.start.Before(iv.start) && other.start.Before(iv.end) && !other.end.After(iv.end)
}

// ContainsDateTime reports whether dt lies within [start, end).
func (iv Interval) ContainsDateTime(dt DateTime) bool {
	return !dt.Before(iv.start) && dt.Before(iv.end)
}

// Overlap returns the shared part of both intervals, if they overlap.
func (iv Interval) Overlap(other Interval) (Interval, bool) {
	if !iv.Overlaps(other) {
		return Interval{}, false
	}
	return Interval{start: later(iv.start, other.start), end: earlier(iv.end, other.end)}, true
}

// Gap returns the interval between two intervals that neither overlap nor
// abut.
func (iv Interval) Gap(other Interval) (Interval, bool) {
	switch {
	case iv.start.After(other.end):
		return Interval{start: other.end, end: iv.start}, true
	case other.start.After(iv.end):
		return Interval{start: iv.end, end: other.start}, true
	}
	return Interval{}, false
}

// Cover returns the smallest interval containing both.
func (iv Interval) Cover(other Interval) Interval {
	return Interval{start: earlier(iv.start, other.start), end: later(iv.end, other.end)}
}

// Union returns the cover of two overlapping intervals.
func (iv Interval) Union(other Interval) (Interval, bool) {
	if !iv.Overlaps(other) {
		return Interval{}, false
	}
	return iv.Cover(other), true
}

// Join returns the cover of two abutting intervals.
func (iv Interval) Join(other Interval) (Interval, bool) {
	if !iv.Abuts(other) {
		return Interval{}, false
	}
	return iv.Cover(other), true
}

// String renders start/end, both in DateTime string form.
func (iv Interval) String() string {
	return iv.start.String() + "/" + iv.end.String()
}

// earlier returns a when both are the same instant.
func earlier(a, b DateTime) DateTime {
	if b.Before(a) {
		return b
	}
	return a
}

// later returns a when both are the same instant.
func later(a, b DateTime) DateTime {
	if b.After(a) {
		return b
	}
	return a
}
