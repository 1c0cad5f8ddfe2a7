package harness

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// GoldenDir is where scenario transcripts live, relative to the package
// under test.
const GoldenDir = "testdata/scenarios/golden"

// Transcript renders a result as stable text for golden comparison:
//
//	scenario: translation
//	[1] book.rating_value : > 4.24
//	    expr:  GreaterThan(rating_value, 4.24)
//	    calls: find=1 scan=0
//	    ids:   b1, b4, b5
func Transcript(name string, result *Result) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "scenario: %s\n", name)
	for _, ev := range result.Trace {
		fmt.Fprintf(&buf, "[%d] %s\n", ev.Step, ev.Query)
		if ev.Expr != "" {
			fmt.Fprintf(&buf, "    expr:  %s\n", ev.Expr)
		}
		fmt.Fprintf(&buf, "    calls: find=%d scan=%d\n", ev.Finds, ev.Scans)
		if ev.Error != "" {
			fmt.Fprintf(&buf, "    error: %s\n", ev.Error)
		} else {
			fmt.Fprintf(&buf, "    ids:   %s\n", outcome(ev))
		}
	}
	return buf.Bytes()
}

// RunWithGolden executes a scenario and compares its transcript against
// GoldenDir/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns the result so callers can also check Pass. Test failure (via
// goldie) occurs if the transcript doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}

	AssertGolden(t, scenario.Name, result)
	return result, nil
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) {
	t.Helper()

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, Transcript(scenarioName, result))
}
