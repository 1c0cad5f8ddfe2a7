package cli

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"
)

func TestExplainCommand_Golden(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"explain_comparison", `book.rating_value : > 4.24`},
		{"explain_scan_or", `author.author_name : "Martin*" OR author.author_url : "aaa"`},
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _, err := execute(t, "explain", tt.query)
			require.NoError(t, err)
			g.Assert(t, tt.name, []byte(stdout))
		})
	}
}
