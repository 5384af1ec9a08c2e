package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/roach88/tempo/internal/config"
)

// Exit codes for tempo commands.
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // the operation ran and was rejected: bad value, unknown op, missing entry
	ExitCommandError = 2 // the command could not run: flags, config file, database
)

// ErrCodeGeneric is reported for failures that carry no temporal or op code.
const ErrCodeGeneric = "ERROR"

// ExitError carries the process exit code for a failed command.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps err with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the exit code carried by err, or ExitFailure.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results as text or as a CLIResponse.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // diagnostics; falls back to Writer
	Verbose   bool
	TraceID   string
}

// CLIResponse is the JSON envelope for every command.
type CLIResponse struct {
	Status  string    `json:"status"` // "ok" or "error"
	Data    any       `json:"data,omitempty"`
	Error   *CLIError `json:"error,omitempty"`
	TraceID string    `json:"trace_id,omitempty"`
}

// CLIError reports a failed operation. Code is a temporal error code
// (PARSE_FAILED, DIVISION_BY_ZERO, ...), UNKNOWN_OP, BAD_ARGUMENTS,
// NOT_FOUND or ERROR.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// JSON reports whether results are written as a CLIResponse.
func (f *OutputFormatter) JSON() bool {
	return f.Format == config.FormatJSON
}

// Emit writes payload in the JSON envelope, or calls text to render it.
func (f *OutputFormatter) Emit(payload any, text func(w io.Writer)) error {
	if f.JSON() {
		return f.Success(payload)
	}
	text(f.Writer)
	return nil
}

// Success writes data as an "ok" response, or on its own line as text.
func (f *OutputFormatter) Success(data any) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:  "ok",
			Data:    data,
			TraceID: f.TraceID,
		})
	}
	fmt.Fprintln(f.Writer, data)
	return nil
}

// Error writes an "error" response. Text output shows details only when
// verbose.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.JSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
			TraceID: f.TraceID,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", details)
	}
	return nil
}

// Fail reports err under code and returns the ExitFailure error for the
// command. A leading "CODE: " already in the message is not repeated.
func (f *OutputFormatter) Fail(code string, err error) error {
	if code == "" {
		code = ErrCodeGeneric
	}
	message := strings.TrimPrefix(err.Error(), code+": ")
	_ = f.Error(code, message, nil)
	return NewExitError(ExitFailure, code+": "+message)
}

// VerboseLog writes a diagnostic line when verbose. It never goes to Writer
// unless ErrWriter is unset, so JSON on stdout stays parseable.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
