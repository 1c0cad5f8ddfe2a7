package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shelf/internal/ir"
)

// Scenario is a sequence of queries run against one set of records.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Fixtures preloads the testutil book and author fixtures.
	Fixtures bool `yaml:"fixtures"`

	// Records are inline records keyed by collection ("book", "author").
	// They are normalized like an import (numeric text parsed, missing
	// _id assigned) and loaded after the fixtures.
	Records map[string][]map[string]any `yaml:"records,omitempty"`

	// ScanLimit caps pattern scans (0 = unlimited).
	ScanLimit int `yaml:"scan_limit,omitempty"`

	// Steps are the queries, run in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the whole trace.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Step is one query with an optional expectation.
type Step struct {
	Query  string        `yaml:"query"`
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause lists expected step outcomes. Unset fields are not checked.
type ExpectClause struct {
	// IDs are the expected matching ids, in any order.
	IDs []string `yaml:"ids,omitempty"`

	// Count is the expected number of matches.
	Count *int `yaml:"count,omitempty"`

	// Error is the expected error kind or code.
	Error string `yaml:"error,omitempty"`

	// Expr is the expected filter expression.
	Expr string `yaml:"expr,omitempty"`

	// Finds and Scans are the expected store call counts.
	Finds *int `yaml:"finds,omitempty"`
	Scans *int `yaml:"scans,omitempty"`
}

// Assertion validates the trace as a whole.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Steps are 1-based step numbers (same_result).
	Steps []int `yaml:"steps,omitempty"`

	// Count is the expected total (scan_total, find_total).
	Count int `yaml:"count,omitempty"`
}

// Assertion type constants.
const (
	AssertSameResult = "same_result"
	AssertScanTotal  = "scan_total"
	AssertFindTotal  = "find_total"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("scenario validation failed: name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %q: at least one step is required", s.Name)
	}
	for i, step := range s.Steps {
		if step.Query == "" {
			return fmt.Errorf("scenario %q: step %d: query is required", s.Name, i+1)
		}
	}
	for coll := range s.Records {
		if _, err := ir.ParseCollection(coll); err != nil {
			return fmt.Errorf("scenario %q: records: %w", s.Name, err)
		}
	}
	if s.ScanLimit < 0 {
		return fmt.Errorf("scenario %q: scan_limit must be >= 0", s.Name)
	}

	for i, a := range s.Assertions {
		switch a.Type {
		case AssertSameResult:
			if len(a.Steps) < 2 {
				return fmt.Errorf("scenario %q: assertion %d: same_result needs at least two steps", s.Name, i+1)
			}
			for _, n := range a.Steps {
				if n < 1 || n > len(s.Steps) {
					return fmt.Errorf("scenario %q: assertion %d: step %d out of range", s.Name, i+1, n)
				}
			}
		case AssertScanTotal, AssertFindTotal:
		default:
			return fmt.Errorf("scenario %q: assertion %d: unknown type %q", s.Name, i+1, a.Type)
		}
	}
	return nil
}
