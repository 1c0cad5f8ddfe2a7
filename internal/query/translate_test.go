package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/queryir"
)

func mustValidate(t *testing.T, s string) ValidatedUnit {
	t.Helper()
	u := mustParseUnit(t, s)
	schema, err := ir.SchemaFor(u.Collection)
	require.NoError(t, err)
	v, err := Validate(u, schema)
	require.NoError(t, err)
	return v
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "greater than",
			input: `book.rating_value : > 4.24`,
			want:  "GreaterThan(rating_value, 4.24)",
		},
		{
			name:  "less than",
			input: `author.review_count:<15000`,
			want:  "LessThan(review_count, 15000)",
		},
		{
			name:  "equals text",
			input: `book.book_title : "Dune"`,
			want:  `Equals(book_title, "Dune")`,
		},
		{
			name:  "equals numeric",
			input: `book.rating_count : "1,000"`,
			want:  "Equals(rating_count, 1000)",
		},
		{
			name:  "not equals",
			input: `author.author_name : NOT "Isaac Asimov"`,
			want:  `NotEquals(author_name, "Isaac Asimov")`,
		},
		{
			name:  "attribute wildcard",
			input: `book.*_count : "412"`,
			want:  "AnyOf(Equals(rating_count, 412), Equals(review_count, 412))",
		},
		{
			name:  "attribute wildcard under not",
			input: `author.*_url : NOT "x"`,
			want:  `AnyOf(NotEquals(author_url, "x"), NotEquals(image_url, "x"))`,
		},
		{
			name:  "value wildcard",
			input: `author.author_name : "Martin*"`,
			want:  `PatternScan(author_name, "Martin*")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, err := Translate(mustValidate(t, tt.input))
			require.NoError(t, err)
			assert.Equal(t, tt.want, expr.String())
		})
	}
}

func TestTranslate_TypedNodes(t *testing.T) {
	expr, err := Translate(mustValidate(t, `book.rating_value : > 4.24`))
	require.NoError(t, err)
	assert.Equal(t, queryir.GreaterThan{Attr: "rating_value", Number: 4.24}, expr)

	expr, err = Translate(mustValidate(t, `book.*_count : "412"`))
	require.NoError(t, err)
	assert.Equal(t, queryir.AnyOf{Exprs: []queryir.Expr{
		queryir.Equals{Attr: "rating_count", Value: ir.Float(412)},
		queryir.Equals{Attr: "review_count", Value: ir.Float(412)},
	}}, expr)
}

func TestTranslate_Pure(t *testing.T) {
	v := mustValidate(t, `book.rating_* : "4.28"`)

	first, err := Translate(v)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := Translate(v)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTranslate_WhitespaceInsensitive(t *testing.T) {
	compact := mustValidate(t, `author.review_count:<15000`)
	spaced := mustValidate(t, "  author.review_count   :   <   15000  ")

	assert.Equal(t, compact.Unit, spaced.Unit)

	a, err := Translate(compact)
	require.NoError(t, err)
	b, err := Translate(spaced)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestExpand(t *testing.T) {
	v := mustValidate(t, `book.*_count : "412"`)

	expr, err := Expand(v)
	require.NoError(t, err)

	anyOf, ok := expr.(queryir.AnyOf)
	require.True(t, ok)
	attrs := make([]string, 0, len(anyOf.Exprs))
	for _, e := range anyOf.Exprs {
		attrs = append(attrs, e.(queryir.Equals).Attr)
	}
	assert.Equal(t, []string{"rating_count", "review_count"}, attrs)
}

func TestExpand_PatternScanMatchesPrefixOnly(t *testing.T) {
	expr, err := Expand(mustValidate(t, `author.author_name : "Martin*"`))
	require.NoError(t, err)

	fowler := ir.Record{"_id": ir.Text("a1"), "author_name": ir.Text("Martin Fowler")}
	robert := ir.Record{"_id": ir.Text("a2"), "author_name": ir.Text("Robert Martin")}

	assert.True(t, queryir.Match(expr, fowler))
	assert.False(t, queryir.Match(expr, robert))
}

func TestExpand_NoMatchesYieldsEmptyAnyOf(t *testing.T) {
	// Validate rejects this; Expand on a hand-built unit tolerates it.
	v := ValidatedUnit{
		Unit:    Unit{Collection: ir.Books, Attribute: "zz*", Operator: OpEq, Literal: `"x"`},
		Schema:  ir.BookSchema(),
		Kind:    KindAttrWildcard,
		Text:    "x",
		Pattern: queryir.CompilePattern("zz*"),
	}

	expr, err := Expand(v)
	require.NoError(t, err)
	assert.Equal(t, "AnyOf()", expr.String())
	assert.False(t, queryir.Match(expr, ir.Record{"_id": ir.Text("b1")}))
}

func TestExpand_PlainUnit(t *testing.T) {
	_, err := Expand(mustValidate(t, `book.book_title : "Dune"`))
	assert.Error(t, err)
}
