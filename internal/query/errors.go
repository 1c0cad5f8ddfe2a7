package query

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes interpretation errors.
type ErrorKind string

const (
	// KindGrammar: the string does not match the unit or compound grammar,
	// or a nested combinator was detected.
	KindGrammar ErrorKind = "GRAMMAR"

	// KindSchema: invalid collection tag, or the attribute (pattern) matches
	// no schema attribute.
	KindSchema ErrorKind = "SCHEMA"

	// KindQuoting: equality/NOT literal not quoted, or empty once unquoted.
	KindQuoting ErrorKind = "QUOTING"

	// KindNumericFormat: comparison literal is not a non-negative number, or
	// an equality literal cannot be coerced into a numeric attribute.
	KindNumericFormat ErrorKind = "NUMERIC_FORMAT"

	// KindOperatorConflict: more than one of {comparison operator, attribute
	// wildcard, value wildcard}, or more than one wildcard token.
	KindOperatorConflict ErrorKind = "OPERATOR_CONFLICT"

	// KindMismatchedCollection: combined units target different collections.
	KindMismatchedCollection ErrorKind = "MISMATCHED_COLLECTION"
)

// Sentinels for errors.Is matching. An *Error matches the sentinel of its kind.
var (
	ErrGrammar              = errors.New("grammar error")
	ErrSchema               = errors.New("schema error")
	ErrQuoting              = errors.New("quoting error")
	ErrNumericFormat        = errors.New("numeric format error")
	ErrOperatorConflict     = errors.New("operator conflict error")
	ErrMismatchedCollection = errors.New("mismatched collection error")
)

var sentinels = map[ErrorKind]error{
	KindGrammar:              ErrGrammar,
	KindSchema:               ErrSchema,
	KindQuoting:              ErrQuoting,
	KindNumericFormat:        ErrNumericFormat,
	KindOperatorConflict:     ErrOperatorConflict,
	KindMismatchedCollection: ErrMismatchedCollection,
}

// Error is returned by every interpretation stage.
//
// Errors are local to interpretation: nothing is retried and nothing is
// partially applied. Callers map Kind to a user-facing response.
type Error struct {
	// Kind identifies the error category.
	Kind ErrorKind

	// Message is a human-readable description.
	Message string

	// Input is the fragment of the query that failed (unit text or literal).
	Input string

	// Err is an optional underlying cause (e.g. strconv failure).
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("%s: %s (in %q)", e.Kind, e.Message, e.Input)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *Error) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// KindOf returns the kind of an interpretation error, or "" if err is not one.
// Uses errors.As to handle wrapped errors.
func KindOf(err error) ErrorKind {
	var qe *Error
	if errors.As(err, &qe) {
		return qe.Kind
	}
	return ""
}

func newError(kind ErrorKind, input, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Input: input}
}

func grammarError(input, format string, args ...any) *Error {
	return newError(KindGrammar, input, format, args...)
}

func schemaError(input, format string, args ...any) *Error {
	return newError(KindSchema, input, format, args...)
}

func quotingError(input, format string, args ...any) *Error {
	return newError(KindQuoting, input, format, args...)
}

func numericError(input string, cause error, format string, args ...any) *Error {
	e := newError(KindNumericFormat, input, format, args...)
	e.Err = cause
	return e
}

func conflictError(input, format string, args ...any) *Error {
	return newError(KindOperatorConflict, input, format, args...)
}
