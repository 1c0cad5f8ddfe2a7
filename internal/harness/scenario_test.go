package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScenario_Valid(t *testing.T) {
	data := []byte(`
name: sample
description: "sample scenario"
fixtures: true
scan_limit: 10
records:
  author:
    - { _id: x1, author_name: "Martin Fowler", rating_count: "1,204" }
steps:
  - query: 'author.author_name : "Martin*"'
    expect:
      ids: [a1, a5, x1]
      scans: 1
  - query: 'author.author_url : "aaa"'
assertions:
  - type: same_result
    steps: [1, 2]
  - type: scan_total
    count: 1
`)

	s, err := ParseScenario(data)
	require.NoError(t, err)
	assert.Equal(t, "sample", s.Name)
	assert.True(t, s.Fixtures)
	assert.Equal(t, 10, s.ScanLimit)
	require.Len(t, s.Records["author"], 1)
	assert.Equal(t, "1,204", s.Records["author"][0]["rating_count"])
	require.Len(t, s.Steps, 2)
	require.NotNil(t, s.Steps[0].Expect)
	assert.Equal(t, []string{"a1", "a5", "x1"}, s.Steps[0].Expect.IDs)
	require.NotNil(t, s.Steps[0].Expect.Scans)
	assert.Equal(t, 1, *s.Steps[0].Expect.Scans)
	assert.Nil(t, s.Steps[0].Expect.Finds)
	assert.Nil(t, s.Steps[1].Expect)
	assert.Equal(t, []int{1, 2}, s.Assertions[0].Steps)
}

func TestParseScenario_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"unknown field", "name: x\nstep:\n  - query: 'book.a : \"b\"'\n", "failed to parse YAML"},
		{"missing name", "steps:\n  - query: 'book.a : \"b\"'\n", "name is required"},
		{"no steps", "name: x\n", "at least one step"},
		{"empty query", "name: x\nsteps:\n  - query: ''\n", "query is required"},
		{"bad collection", "name: x\nrecords:\n  shelf: []\nsteps:\n  - query: 'book.a : \"b\"'\n", "unknown collection"},
		{"negative scan limit", "name: x\nscan_limit: -1\nsteps:\n  - query: 'book.a : \"b\"'\n", "scan_limit"},
		{"unknown assertion", "name: x\nsteps:\n  - query: 'book.a : \"b\"'\nassertions:\n  - type: trace_order\n", "unknown type"},
		{"same_result one step", "name: x\nsteps:\n  - query: 'book.a : \"b\"'\nassertions:\n  - type: same_result\n    steps: [1]\n", "at least two steps"},
		{"same_result out of range", "name: x\nsteps:\n  - query: 'book.a : \"b\"'\n  - query: 'book.a : \"c\"'\nassertions:\n  - type: same_result\n    steps: [1, 3]\n", "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadScenario_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: s\nsteps:\n  - query: 'book.book_title : \"Dune\"'\n"), 0o644))

	s, err := LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "s", s.Name)

	_, err = LoadScenario(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}
