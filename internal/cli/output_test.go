package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "json",
		Writer:  buf,
		TraceID: "trace-001",
	}

	err := formatter.Success(map[string]string{"result": "PT1H30M"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "trace-001", resp.TraceID)
	assert.Equal(t, map[string]any{"result": "PT1H30M"}, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "json",
		Writer:  buf,
		TraceID: "trace-002",
	}

	err := formatter.Error("DIVISION_BY_ZERO", "cannot divide by zero", nil)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "trace-002", resp.TraceID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DIVISION_BY_ZERO", resp.Error.Code)
	assert.Equal(t, "cannot divide by zero", resp.Error.Message)
	assert.Nil(t, resp.Error.Details)
}

func TestOutputFormatter_JSONErrorWithDetails(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	details := map[string]string{"op": "duration.dividedBy"}
	require.NoError(t, formatter.Error("DIVISION_BY_ZERO", "cannot divide by zero", details))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, map[string]any{"op": "duration.dividedBy"}, resp.Error.Details)
}

func TestOutputFormatter_JSONOmitsEmptyTraceID(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success("x"))
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestOutputFormatter_TextSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		TraceID: "trace-003",
	}

	require.NoError(t, formatter.Success("2008-02-29T00:00:00Z"))
	assert.Equal(t, "2008-02-29T00:00:00Z\n", buf.String())
}

func TestOutputFormatter_TextError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: false,
	}

	require.NoError(t, formatter.Error("PARSE_FAILED", "bad duration", map[string]string{"input": "PT"}))
	assert.Equal(t, "Error [PARSE_FAILED]: bad duration\n", buf.String())
}

func TestOutputFormatter_TextErrorVerbose(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format:  "text",
		Writer:  buf,
		Verbose: true,
	}

	require.NoError(t, formatter.Error("PARSE_FAILED", "bad duration", map[string]string{"input": "PT"}))
	assert.Contains(t, buf.String(), "Error [PARSE_FAILED]")
	assert.Contains(t, buf.String(), "Details:")
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			errOut := &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: errOut,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("opening %s", "tempo.db")

			assert.Empty(t, out.String())
			if tt.wantLog {
				assert.Equal(t, "opening tempo.db\n", errOut.String())
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestOutputFormatter_VerboseLogFallsBackToWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Writer: buf, Verbose: true}

	formatter.VerboseLog("opening %s", "tempo.db")
	assert.Equal(t, "opening tempo.db\n", buf.String())
}

func TestOutputFormatter_Emit(t *testing.T) {
	payload := map[string]string{"removed": "entry-001"}
	text := func(w io.Writer) { io.WriteString(w, "removed entry-001\n") }

	buf := &bytes.Buffer{}
	require.NoError(t, (&OutputFormatter{Format: "text", Writer: buf}).Emit(payload, text))
	assert.Equal(t, "removed entry-001\n", buf.String())

	buf.Reset()
	require.NoError(t, (&OutputFormatter{Format: "json", Writer: buf, TraceID: "trace-004"}).Emit(payload, text))
	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, map[string]any{"removed": "entry-001"}, resp.Data)
	assert.Equal(t, "trace-004", resp.TraceID)
}

func TestOutputFormatter_Fail(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		err      error
		wantText string
		wantExit string
	}{
		{
			name:     "code prefix not repeated",
			code:     "DIVISION_BY_ZERO",
			err:      errors.New("DIVISION_BY_ZERO: cannot divide PT1S by zero"),
			wantText: "Error [DIVISION_BY_ZERO]: cannot divide PT1S by zero\n",
			wantExit: "DIVISION_BY_ZERO: cannot divide PT1S by zero",
		},
		{
			name:     "plain error",
			code:     "NOT_FOUND",
			err:      errors.New("remove entry x: entry not found"),
			wantText: "Error [NOT_FOUND]: remove entry x: entry not found\n",
			wantExit: "NOT_FOUND: remove entry x: entry not found",
		},
		{
			name:     "no code",
			code:     "",
			err:      errors.New("disk I/O error"),
			wantText: "Error [ERROR]: disk I/O error\n",
			wantExit: "ERROR: disk I/O error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			err := (&OutputFormatter{Format: "text", Writer: buf}).Fail(tt.code, tt.err)

			assert.Equal(t, tt.wantText, buf.String())
			require.Error(t, err)
			assert.Equal(t, tt.wantExit, err.Error())
			assert.Equal(t, ExitFailure, GetExitCode(err))
		})
	}
}

func TestExitError(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to open timeline", cause)

	assert.Equal(t, "failed to open timeline: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	assert.Equal(t, ExitFailure, GetExitCode(NewExitError(ExitFailure, "no result")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
}
