package harness

import (
	"fmt"
	"slices"
	"strings"
)

// AssertionError is returned when an assertion fails.
// It includes the trace to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, ev := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s -> %s\n", ev.Step, ev.Query, outcome(ev))
	}

	return buf.String()
}

// checkExpect compares one step against its expect clause and returns a
// message per mismatch.
func checkExpect(ev TraceEvent, want ExpectClause) []string {
	var failures []string

	if want.Error != "" {
		switch {
		case ev.Error == "":
			failures = append(failures, fmt.Sprintf("expected error %s, got %d result(s)", want.Error, len(ev.IDs)))
		case !strings.EqualFold(ev.Error, want.Error):
			failures = append(failures, fmt.Sprintf("expected error %s, got %s", want.Error, ev.Error))
		}
	} else if ev.Error != "" {
		failures = append(failures, fmt.Sprintf("unexpected error %s", ev.Error))
		return failures
	}

	if want.IDs != nil {
		expected := slices.Clone(want.IDs)
		slices.Sort(expected)
		actual := slices.Clone(ev.IDs)
		slices.Sort(actual)
		if !slices.Equal(expected, actual) {
			failures = append(failures, fmt.Sprintf("ids: expected %v, got %v", expected, actual))
		}
	}
	if want.Count != nil && *want.Count != len(ev.IDs) {
		failures = append(failures, fmt.Sprintf("count: expected %d, got %d", *want.Count, len(ev.IDs)))
	}
	if want.Expr != "" && want.Expr != ev.Expr {
		failures = append(failures, fmt.Sprintf("expr: expected %s, got %s", want.Expr, ev.Expr))
	}
	if want.Finds != nil && *want.Finds != ev.Finds {
		failures = append(failures, fmt.Sprintf("finds: expected %d, got %d", *want.Finds, ev.Finds))
	}
	if want.Scans != nil && *want.Scans != ev.Scans {
		failures = append(failures, fmt.Sprintf("scans: expected %d, got %d", *want.Scans, ev.Scans))
	}

	return failures
}

// EvaluateAssertions checks trace-wide assertions and returns one message
// per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for _, a := range assertions {
		var err error
		switch a.Type {
		case AssertSameResult:
			err = assertSameResult(result.Trace, a)
		case AssertScanTotal:
			err = assertTotal(result.Trace, a, func(ev TraceEvent) int { return ev.Scans })
		case AssertFindTotal:
			err = assertTotal(result.Trace, a, func(ev TraceEvent) int { return ev.Finds })
		default:
			err = fmt.Errorf("unknown assertion type: %s", a.Type)
		}
		if err != nil {
			failures = append(failures, err.Error())
		}
	}
	return failures
}

// assertSameResult checks that the listed steps produced the same outcome.
func assertSameResult(trace []TraceEvent, a Assertion) error {
	var first *TraceEvent
	for _, n := range a.Steps {
		if n < 1 || n > len(trace) {
			return fmt.Errorf("same_result: step %d out of range", n)
		}
		ev := trace[n-1]
		if first == nil {
			first = &ev
			continue
		}
		if outcome(ev) != outcome(*first) {
			return &AssertionError{
				Type:     AssertSameResult,
				Expected: fmt.Sprintf("step %d: %s", first.Step, outcome(*first)),
				Actual:   fmt.Sprintf("step %d: %s", ev.Step, outcome(ev)),
				Trace:    trace,
			}
		}
	}
	return nil
}

func assertTotal(trace []TraceEvent, a Assertion, count func(TraceEvent) int) error {
	total := 0
	for _, ev := range trace {
		total += count(ev)
	}
	if total != a.Count {
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("%d call(s)", a.Count),
			Actual:   fmt.Sprintf("%d call(s)", total),
			Trace:    trace,
		}
	}
	return nil
}

// outcome renders a step's result: its error, or its ids.
func outcome(ev TraceEvent) string {
	if ev.Error != "" {
		return "error " + ev.Error
	}
	if len(ev.IDs) == 0 {
		return "(none)"
	}
	return strings.Join(ev.IDs, ", ")
}
