package query

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/shelf/internal/ir"
)

func TestCompile(t *testing.T) {
	tests := []struct {
		name  string
		input string
		coll  ir.Collection
		comb  Combinator
		expr  string
	}{
		{
			name:  "single",
			input: `book.rating_value : > 4.24`,
			coll:  ir.Books,
			comb:  CombNone,
			expr:  "GreaterThan(rating_value, 4.24)",
		},
		{
			name:  "and",
			input: `author.author_url : "aaa" AND author.rating_value : > 4.32`,
			coll:  ir.Authors,
			comb:  CombAnd,
			expr:  `And(Equals(author_url, "aaa"), GreaterThan(rating_value, 4.32))`,
		},
		{
			name:  "or with wildcards",
			input: `book.*_count : "412" OR book.rating_* : "4.28"`,
			coll:  ir.Books,
			comb:  CombOr,
			expr:  "Or(AnyOf(Equals(rating_count, 412), Equals(review_count, 412)), AnyOf(Equals(rating_value, 4.28), Equals(rating_count, 4.28)))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Compile(tt.input)
			require.NoError(t, err)

			assert.Equal(t, tt.coll, plan.Collection)
			assert.Equal(t, tt.comb, plan.Combinator)
			assert.Len(t, plan.Exprs, len(plan.Units))
			assert.Equal(t, tt.expr, plan.Expr().String())
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
	}{
		{"incomplete second unit", `book.review_count : < 1500 AND > 600`, ErrGrammar},
		{"mismatched collections", `book.review_count : < 1500 AND author.author_id : "1234"`, ErrMismatchedCollection},
		{"quoted comparison", `book.rating_value : > "4.24"`, ErrNumericFormat},
		{"untracked attribute", `book.page_count : "300"`, ErrSchema},
		{"unquoted equality", `author.author_name : Le Guin`, ErrQuoting},
		{"wildcard with comparison", `book.*_count : > 4`, ErrOperatorConflict},
		{"error in second unit", `book.rating_value : > 4 AND book.rating_count : < four`, ErrNumericFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := Compile(tt.input)
			require.Error(t, err)
			assert.Nil(t, plan)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestCompileCompound_RechecksInvariants(t *testing.T) {
	rating := Unit{Collection: ir.Books, Attribute: "rating_value", Operator: OpGT, Literal: "4"}
	author := Unit{Collection: ir.Authors, Attribute: "rating_value", Operator: OpGT, Literal: "4"}

	tests := []struct {
		name     string
		c        Compound
		sentinel error
	}{
		{"no units", Compound{Combinator: CombNone}, ErrGrammar},
		{"single unit with combinator", Compound{Units: []Unit{rating}, Combinator: CombAnd}, ErrGrammar},
		{"two units without combinator", Compound{Units: []Unit{rating, rating}, Combinator: CombNone}, ErrGrammar},
		{"three units", Compound{Units: []Unit{rating, rating, rating}, Combinator: CombOr}, ErrGrammar},
		{"mixed collections", Compound{Units: []Unit{rating, author}, Combinator: CombOr}, ErrMismatchedCollection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompileCompound(tt.c)
			assert.ErrorIs(t, err, tt.sentinel)
		})
	}
}

func TestError_Format(t *testing.T) {
	err := quotingError(`Dune`, "exact matches must be quoted")
	assert.Equal(t, `QUOTING: exact matches must be quoted (in "Dune")`, err.Error())

	err = grammarError("", "a query has one or two units, got %d", 0)
	assert.Equal(t, "GRAMMAR: a query has one or two units, got 0", err.Error())
}

func TestError_IsAndKindOf(t *testing.T) {
	cause := errors.New("strconv failure")
	err := numericError("x", cause, "not a number")
	wrapped := fmt.Errorf("compile: %w", err)

	assert.ErrorIs(t, wrapped, ErrNumericFormat)
	assert.NotErrorIs(t, wrapped, ErrSchema)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, KindNumericFormat, KindOf(wrapped))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))

	var qe *Error
	require.ErrorAs(t, wrapped, &qe)
	assert.Equal(t, "x", qe.Input)
}

func TestOperatorString(t *testing.T) {
	assert.Equal(t, "", OpEq.String())
	assert.Equal(t, "NOT", OpNotEq.String())
	assert.Equal(t, ">", OpGT.String())
	assert.Equal(t, "<", OpLT.String())
	assert.True(t, OpGT.IsComparison())
	assert.False(t, OpNotEq.IsComparison())
}
