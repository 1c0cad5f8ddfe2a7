package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shelf/internal/exec"
	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/query"
	"github.com/roach88/shelf/internal/store"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Success(map[string]int{"count": 2})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotNil(t, resp.Data)
	assert.Nil(t, resp.Error)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{
		Format: "json",
		Writer: buf,
	}

	err := formatter.Error(ErrCodeGrammar, "expected ':'", map[string]string{"query": "book.x"})
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E101", resp.Error.Code)
	assert.Equal(t, "expected ':'", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		wantDetails bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: tt.verbose}

			require.NoError(t, formatter.Error(ErrCodeSchema, "unknown attribute", "page_count"))
			assert.Contains(t, buf.String(), "Error [E102]: unknown attribute")
			if tt.wantDetails {
				assert.Contains(t, buf.String(), "Details: page_count")
			} else {
				assert.NotContains(t, buf.String(), "Details:")
			}
		})
	}
}

func TestOutputFormatter_Records(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	recs := []ir.Record{
		{"_id": ir.Text("b1"), "book_title": ir.Text("Dune & Messiah")},
		{"_id": ir.Text("b2"), "rating_count": ir.Int(412)},
	}
	require.NoError(t, formatter.Records(recs))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), `"Dune & Messiah"`)
	assert.Contains(t, string(lines[1]), `"rating_count":412`)
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
			out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
			formatter := &OutputFormatter{
				Format:    "json",
				Writer:    out,
				ErrWriter: errOut,
				Verbose:   tt.verbose,
			}

			formatter.VerboseLog("Matched %d record(s)", 3)

			assert.Empty(t, out.String())
			if tt.wantLog {
				assert.Contains(t, errOut.String(), "Matched 3 record(s)")
			} else {
				assert.Empty(t, errOut.String())
			}
		})
	}
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}

	_, cause := query.Compile(`book.page_count : "1"`)
	require.Error(t, cause)

	err := formatter.Fail(ExitFailure, cause)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.True(t, Reported(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, buf.String(), "Error [E102]")
}

func TestErrorCode(t *testing.T) {
	compileErr := func(q string) error {
		_, err := query.Compile(q)
		require.Error(t, err, q)
		return err
	}

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"grammar", compileErr(`book.rating_value >`), ErrCodeGrammar},
		{"schema", compileErr(`book.page_count : "1"`), ErrCodeSchema},
		{"quoting", compileErr(`book.book_title : Dune`), ErrCodeQuoting},
		{"numeric format", compileErr(`book.rating_value : > "4.24"`), ErrCodeNumericFormat},
		{"operator conflict", compileErr(`book.*_title : "Dun*"`), ErrCodeOperatorConflict},
		{"mismatched collection", compileErr(`book.book_title : "Dune" AND author.author_name : "x"`), ErrCodeMismatchedCollection},
		{"store", &exec.ExecError{Code: exec.ErrCodeStore, Unit: -1, Err: errors.New("locked")}, ErrCodeStore},
		{"scan limit", fmt.Errorf("run: %w", &exec.ExecError{Code: exec.ErrCodeScanLimit, Unit: 0}), ErrCodeScanLimit},
		{"invalid record", fmt.Errorf("import book: %w", store.ErrInvalidRecord), ErrCodeInvalidRecord},
		{"other", errors.New("boom"), ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorCode(tt.err))
		})
	}
}

func TestExitError(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExitError(ExitCommandError, "failed to open database", cause)

	assert.Equal(t, "failed to open database: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, ExitCommandError, GetExitCode(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, Reported(err))

	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))
	assert.Equal(t, "bad flag", NewExitError(ExitCommandError, "bad flag").Error())
}
