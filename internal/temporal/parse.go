package temporal

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// normalizeInput applies NFKC so full-width digits and signs parse like
// their ASCII forms, then trims surrounding space.
func normalizeInput(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

// componentState tracks whether a designator may still appear.
type componentState int

const (
	unready componentState = iota
	armed
	set
)

func (c componentState) take(text string, des byte) (componentState, error) {
	switch c {
	case unready:
		return c, parseError("duration", text, "'"+string(des)+"' designator cannot occur here")
	case set:
		return c, parseError("duration", text, "'"+string(des)+"' designator cannot occur more than once")
	}
	return set, nil
}

// ParseDuration parses the ISO-8601 form produced by Duration.String.
//
// Accepted: [+-]P[nD][T[nH][nM][n[.f]S]] where every number may carry its
// own sign and only seconds may have a fraction of up to six digits.
// Examples: "PT0S", "PT1H30M", "PT-0.999999S", "-P2DT3H".
func ParseDuration(s string) (Duration, error) {
	text := normalizeInput(s)
	rest := text
	if rest == "" {
		return Duration{}, parseError("duration", s, "empty string")
	}

	negate := false
	switch rest[0] {
	case '-':
		negate = true
		rest = rest[1:]
	case '+':
		rest = rest[1:]
	}
	if rest == "" || (rest[0] != 'P' && rest[0] != 'p') {
		return Duration{}, parseError("duration", text, "expected 'P' at the start")
	}
	rest = strings.ToUpper(rest[1:])

	// D, H, M, S in the order they must appear.
	state := [4]componentState{armed, unready, unready, unready}
	var total, micros int64
	components := 0
	inTime := false

	for rest != "" {
		if rest[0] == 'T' {
			if inTime {
				return Duration{}, parseError("duration", text, "'T' cannot occur more than once")
			}
			inTime = true
			state = [4]componentState{unready, armed, armed, armed}
			rest = rest[1:]
			if rest == "" {
				return Duration{}, parseError("duration", text, "expected a component after 'T'")
			}
			continue
		}

		value, fraction, hasFraction, remaining, err := scanNumber(text, rest)
		if err != nil {
			return Duration{}, err
		}
		if remaining == "" {
			return Duration{}, parseError("duration", text, "missing designator at the end")
		}
		des := remaining[0]
		rest = remaining[1:]

		idx := strings.IndexByte("DHMS", des)
		if idx < 0 {
			return Duration{}, parseError("duration", text, "unknown designator '"+string(des)+"'")
		}
		if state[idx], err = state[idx].take(text, des); err != nil {
			return Duration{}, err
		}
		for i := 0; i < idx; i++ {
			if state[i] == armed {
				state[i] = unready
			}
		}
		unitSeconds := [4]int64{SecondsPerDay, SecondsPerHour, SecondsPerMinute, 1}[idx]

		if hasFraction && des != 'S' {
			return Duration{}, parseError("duration", text, "only seconds may have a fraction")
		}

		amount, ok := mulExact(value, unitSeconds)
		if ok {
			total, ok = addExact(total, amount)
		}
		if !ok {
			return Duration{}, parseError("duration", text, "value out of range")
		}
		micros += fraction
		components++
	}
	if components == 0 {
		return Duration{}, parseError("duration", text, "expected at least one component")
	}

	d := OfSeconds(total, micros)
	if negate {
		d = d.Negated()
	}
	return d, nil
}

// scanNumber reads an optionally signed integer with an optional fraction
// of up to six digits. The fraction is returned in microseconds carrying
// the sign of the number.
func scanNumber(text, s string) (value, fraction int64, hasFraction bool, rest string, err error) {
	i := 0
	negative := false
	if i < len(s) && (s[i] == '-' || s[i] == '+') {
		negative = s[i] == '-'
		i++
	}
	start := i
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	if i == start {
		return 0, 0, false, "", parseError("duration", text, "expected a number")
	}
	value, perr := strconv.ParseInt(s[start:i], 10, 64)
	if perr != nil {
		return 0, 0, false, "", parseError("duration", text, "number out of range")
	}
	if i < len(s) && (s[i] == '.' || s[i] == ',') {
		i++
		fracStart := i
		for i < len(s) && isDigit(s[i]) {
			i++
		}
		digits := s[fracStart:i]
		if digits == "" || len(digits) > 6 {
			return 0, 0, false, "", parseError("duration", text, "fraction must have 1 to 6 digits")
		}
		fraction, _ = strconv.ParseInt(digits+strings.Repeat("0", 6-len(digits)), 10, 64)
		hasFraction = true
	}
	if negative {
		value, fraction = -value, -fraction
	}
	return value, fraction, hasFraction, s[i:], nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// ParseZoneOffset parses "Z", "+HH", "+HH:MM", "+HHMM" or "+HH:MM:SS".
func ParseZoneOffset(s string) (ZoneOffset, error) {
	text := normalizeInput(s)
	if text == "Z" || text == "z" {
		return UTC, nil
	}
	if len(text) < 3 || (text[0] != '+' && text[0] != '-') {
		return 0, parseError("zone offset", s, "expected Z or a signed offset")
	}
	digits := text[1:]
	if strings.Contains(digits, ":") {
		colonAt := func(i int) bool { return digits[i] == ':' }
		if !(len(digits) == 5 && colonAt(2)) && !(len(digits) == 8 && colonAt(2) && colonAt(5)) {
			return 0, parseError("zone offset", s, "expected HH:MM or HH:MM:SS")
		}
		digits = strings.ReplaceAll(digits, ":", "")
	}
	if len(digits) != 2 && len(digits) != 4 && len(digits) != 6 {
		return 0, parseError("zone offset", s, "expected HH, HH:MM or HH:MM:SS")
	}
	var parts [3]int64
	for i := 0; i*2 < len(digits); i++ {
		pair := digits[i*2 : i*2+2]
		if !isDigit(pair[0]) || !isDigit(pair[1]) {
			return 0, parseError("zone offset", s, "expected digits")
		}
		parts[i] = int64(pair[0]-'0')*10 + int64(pair[1]-'0')
	}
	if parts[1] >= MinutesPerHour || parts[2] >= SecondsPerMinute {
		return 0, parseError("zone offset", s, "minutes and seconds must be below 60")
	}
	total := parts[0]*SecondsPerHour + parts[1]*SecondsPerMinute + parts[2]
	if text[0] == '-' {
		total = -total
	}
	return OffsetOfSeconds(total)
}

// ParseDateTime parses YYYY-MM-DD[THH:MM[:SS[.f]]][zone]. A missing zone
// means UTC. The date and time may also be separated by a space.
func ParseDateTime(s string) (DateTime, error) {
	return ParseDateTimeIn(s, UTC)
}

// ParseDateTimeIn is like ParseDateTime but uses zone when the text
// carries no offset.
func ParseDateTimeIn(s string, zone ZoneOffset) (DateTime, error) {
	text := normalizeInput(s)
	p := &dateTimeParser{text: text}

	year, ok := p.year()
	if !ok || !p.expect('-') {
		return DateTime{}, parseError("date-time", s, "expected YYYY-MM-DD")
	}
	month, ok1 := p.fixed(2)
	ok2 := p.expect('-')
	day, ok3 := p.fixed(2)
	if !ok1 || !ok2 || !ok3 {
		return DateTime{}, parseError("date-time", s, "expected YYYY-MM-DD")
	}

	var hour, minute, second, micro int64
	if p.expect('T') || p.expect('t') || p.expect(' ') {
		var ok bool
		if hour, ok = p.fixed(2); !ok || !p.expect(':') {
			return DateTime{}, parseError("date-time", s, "expected HH:MM")
		}
		if minute, ok = p.fixed(2); !ok {
			return DateTime{}, parseError("date-time", s, "expected HH:MM")
		}
		if p.expect(':') {
			if second, ok = p.fixed(2); !ok {
				return DateTime{}, parseError("date-time", s, "expected seconds")
			}
			if p.expect('.') || p.expect(',') {
				if micro, ok = p.fraction(); !ok {
					return DateTime{}, parseError("date-time", s, "fraction must have 1 to 6 digits")
				}
			}
		}
	}

	if p.pos < len(text) {
		parsed, err := ParseZoneOffset(text[p.pos:])
		if err != nil {
			return DateTime{}, err
		}
		zone = parsed
	}

	return Of(int(year), int(month), int(day), int(hour), int(minute), int(second), int(micro), zone)
}

type dateTimeParser struct {
	text string
	pos  int
}

func (p *dateTimeParser) expect(c byte) bool {
	if p.pos < len(p.text) && p.text[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

// year reads an optionally signed year of at least four digits.
func (p *dateTimeParser) year() (int64, bool) {
	negative := false
	if p.expect('-') {
		negative = true
	} else {
		p.expect('+')
	}
	start := p.pos
	for p.pos < len(p.text) && isDigit(p.text[p.pos]) {
		p.pos++
	}
	if p.pos-start < 4 {
		return 0, false
	}
	v, err := strconv.ParseInt(p.text[start:p.pos], 10, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

func (p *dateTimeParser) fixed(n int) (int64, bool) {
	if p.pos+n > len(p.text) {
		return 0, false
	}
	var v int64
	for _, c := range []byte(p.text[p.pos : p.pos+n]) {
		if !isDigit(c) {
			return 0, false
		}
		v = v*10 + int64(c-'0')
	}
	p.pos += n
	return v, true
}

func (p *dateTimeParser) fraction() (int64, bool) {
	start := p.pos
	for p.pos < len(p.text) && isDigit(p.text[p.pos]) {
		p.pos++
	}
	digits := p.text[start:p.pos]
	if digits == "" || len(digits) > 6 {
		return 0, false
	}
	v, _ := strconv.ParseInt(digits+strings.Repeat("0", 6-len(digits)), 10, 64)
	return v, true
}

// ParseInterval parses "start/end" where both are date-time strings.
func ParseInterval(s string) (Interval, error) {
	return ParseIntervalIn(s, UTC)
}

// ParseIntervalIn is like ParseInterval but uses zone for endpoints that
// carry no offset.
func ParseIntervalIn(s string, zone ZoneOffset) (Interval, error) {
	text := normalizeInput(s)
	startText, endText, found := strings.Cut(text, "/")
	if !found {
		return Interval{}, parseError("interval", s, "expected start/end")
	}
	start, err := ParseDateTimeIn(startText, zone)
	if err != nil {
		return Interval{}, err
	}
	end, err := ParseDateTimeIn(endText, zone)
	if err != nil {
		return Interval{}, err
	}
	return NewInterval(start, end)
}

// ParseDayOfWeek accepts English day names or three-letter abbreviations in
// any case, or the ISO value 1 to 7.
func ParseDayOfWeek(s string) (DayOfWeek, error) {
	folder := cases.Fold()
	text := folder.String(normalizeInput(s))
	if len(text) == 1 && text[0] >= '1' && text[0] <= '7' {
		return DayOfWeek(text[0] - '0'), nil
	}
	for d := Monday; d <= Sunday; d++ {
		name := folder.String(dayNames[d])
		if text == name || (len(text) == 3 && text == name[:3]) {
			return d, nil
		}
	}
	return 0, parseError("day-of-week", s, "unknown day")
}
