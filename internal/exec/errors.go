package exec

import (
	"errors"
	"fmt"
)

// ExecError represents a failure while resolving a compiled query.
//
// Interpretation errors (grammar, schema, quoting...) are query.Error and
// never wrapped in ExecError; an ExecError always means the query was valid.
type ExecError struct {
	// Code identifies the error category.
	Code ExecErrorCode

	// Message is a human-readable description.
	Message string

	// Unit is the 0-based index of the failing unit, or -1 for the whole query.
	Unit int

	// Expr is the filter expression being resolved.
	Expr string

	// Err is the underlying cause.
	Err error
}

// ExecErrorCode categorizes execution errors.
type ExecErrorCode string

const (
	// ErrCodeStore indicates the record store failed (I/O, SQL, decoding).
	ErrCodeStore ExecErrorCode = "STORE_FAILURE"

	// ErrCodeScanLimit indicates a pattern scan visited more records than allowed.
	ErrCodeScanLimit ExecErrorCode = "SCAN_LIMIT_EXCEEDED"
)

// Error implements the error interface.
func (e *ExecError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Unit >= 0 {
		msg = fmt.Sprintf("%s (unit %d: %s)", msg, e.Unit, e.Expr)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ExecError) Unwrap() error {
	return e.Err
}

// IsStoreError returns true if the error is a record store failure.
// Uses errors.As to handle wrapped errors.
func IsStoreError(err error) bool {
	var ee *ExecError
	if errors.As(err, &ee) {
		return ee.Code == ErrCodeStore
	}
	return false
}

// IsScanLimitError returns true if a pattern scan hit the scan limit.
// Matches both ExecError with ErrCodeScanLimit and ScanLimitExceededError.
func IsScanLimitError(err error) bool {
	var ee *ExecError
	if errors.As(err, &ee) && ee.Code == ErrCodeScanLimit {
		return true
	}
	var se *ScanLimitExceededError
	return errors.As(err, &se)
}

func newStoreError(unit int, expr string, err error) *ExecError {
	return &ExecError{
		Code:    ErrCodeStore,
		Message: "record store failed",
		Unit:    unit,
		Expr:    expr,
		Err:     err,
	}
}
