package query

import (
	"fmt"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/queryir"
)

// Plan is a fully interpreted query: validated units and one filter
// expression per unit, ready for execution.
type Plan struct {
	Collection ir.Collection
	Combinator Combinator
	Units      []ValidatedUnit
	Exprs      []queryir.Expr
}

// Expr combines the per-unit expressions with the plan's combinator.
func (p *Plan) Expr() queryir.Expr {
	switch {
	case len(p.Exprs) == 1:
		return p.Exprs[0]
	case p.Combinator == CombAnd:
		return queryir.And{Left: p.Exprs[0], Right: p.Exprs[1]}
	default:
		return queryir.Or{Left: p.Exprs[0], Right: p.Exprs[1]}
	}
}

// Compile parses, validates and translates a query string.
func Compile(query string) (*Plan, error) {
	c, err := Parse(query)
	if err != nil {
		return nil, err
	}
	return CompileCompound(c)
}

// CompileCompound validates and translates an already-parsed query.
// It re-checks the compound invariants so hand-built values are safe.
func CompileCompound(c Compound) (*Plan, error) {
	switch len(c.Units) {
	case 1:
		if c.Combinator != CombNone {
			return nil, grammarError(string(c.Combinator), "combinator requires two units")
		}
	case 2:
		if c.Combinator != CombAnd && c.Combinator != CombOr {
			return nil, grammarError(string(c.Combinator), "two units must be joined by AND or OR")
		}
		if c.Units[0].Collection != c.Units[1].Collection {
			return nil, newError(KindMismatchedCollection, "",
				"logic operator only supported for units on the same collection (%s vs %s)",
				c.Units[0].Collection, c.Units[1].Collection)
		}
	default:
		return nil, grammarError("", "a query has one or two units, got %d", len(c.Units))
	}

	plan := &Plan{
		Collection: c.Collection(),
		Combinator: c.Combinator,
	}

	for _, u := range c.Units {
		schema, err := ir.SchemaFor(u.Collection)
		if err != nil {
			return nil, schemaError(u.String(), "%v", err)
		}
		v, err := Validate(u, schema)
		if err != nil {
			return nil, err
		}
		expr, err := Translate(v)
		if err != nil {
			return nil, fmt.Errorf("translate %q: %w", u, err)
		}
		plan.Units = append(plan.Units, v)
		plan.Exprs = append(plan.Exprs, expr)
	}

	return plan, nil
}
