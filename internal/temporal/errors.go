package temporal

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes temporal errors.
type ErrorCode string

const (
	// CodeFieldOutOfRange indicates a value outside a Field's [min, max] range.
	CodeFieldOutOfRange ErrorCode = "FIELD_OUT_OF_RANGE"

	// CodeInvalidCalendarDate indicates a (year, month, day) triple that does not exist.
	CodeInvalidCalendarDate ErrorCode = "INVALID_CALENDAR_DATE"

	// CodeDivisionByZero indicates Duration.DividedBy(0).
	CodeDivisionByZero ErrorCode = "DIVISION_BY_ZERO"

	// CodeTruncationUnitInvalid indicates a truncation unit longer than a day
	// or one that does not divide a day evenly.
	CodeTruncationUnitInvalid ErrorCode = "TRUNCATION_UNIT_INVALID"

	// CodeIntervalInverted indicates an Interval whose end is before its start.
	CodeIntervalInverted ErrorCode = "INTERVAL_INVERTED"

	// CodeInvalidZoneOffset indicates a zone offset outside -18:00..+18:00.
	CodeInvalidZoneOffset ErrorCode = "INVALID_ZONE_OFFSET"

	// CodeParseFailed indicates text that is not a valid ISO-8601 rendering.
	CodeParseFailed ErrorCode = "PARSE_FAILED"
)

// Error is the single error type returned by this package.
//
// All errors are local validation failures raised at the point of violation.
// None of them is transient; retrying the same call yields the same error.
type Error struct {
	// Code identifies the error category.
	Code ErrorCode

	// Message is a human-readable description.
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Is reports whether target is an *Error with the same code, so the
// sentinels below match any message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrFieldOutOfRange       = &Error{Code: CodeFieldOutOfRange}
	ErrInvalidCalendarDate   = &Error{Code: CodeInvalidCalendarDate}
	ErrDivisionByZero        = &Error{Code: CodeDivisionByZero}
	ErrTruncationUnitInvalid = &Error{Code: CodeTruncationUnitInvalid}
	ErrIntervalInverted      = &Error{Code: CodeIntervalInverted}
	ErrInvalidZoneOffset     = &Error{Code: CodeInvalidZoneOffset}
	ErrParseFailed           = &Error{Code: CodeParseFailed}
)

// CodeOf extracts the ErrorCode from err.
// Uses errors.As to handle wrapped errors. Returns "" for foreign errors.
func CodeOf(err error) ErrorCode {
	var te *Error
	if errors.As(err, &te) {
		return te.Code
	}
	return ""
}

func newError(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func fieldOutOfRange(f Field, value int64) *Error {
	return newError(CodeFieldOutOfRange, "invalid %s: %d is not in the range %d to %d",
		f.Name(), value, f.MinValue(), f.MaxValue())
}

func invalidDate(year, month, day int64) *Error {
	return newError(CodeInvalidCalendarDate, "invalid date %s-%02d-%02d", formatYear(year), month, day)
}

func parseError(kind, text, reason string) *Error {
	return newError(CodeParseFailed, "cannot parse %q as %s: %s", text, kind, reason)
}
