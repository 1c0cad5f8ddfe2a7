package query

import (
	"fmt"

	"github.com/roach88/shelf/internal/queryir"
)

// Expand turns a wildcard unit into a filter expression.
//
// Attribute wildcard: every schema attribute matching the pattern becomes an
// Equals branch (NotEquals under NOT) of an AnyOf, with the literal coerced
// separately for each branch's domain. No match yields an empty AnyOf,
// which matches nothing.
//
// Value wildcard: a PatternScan on the unit's attribute. The store cannot
// evaluate it, so the executor falls back to a full-collection scan.
func Expand(v ValidatedUnit) (queryir.Expr, error) {
	switch v.Kind {
	case KindAttrWildcard:
		attrs := v.Schema.Select(v.Pattern.Match)
		branches := make([]queryir.Expr, 0, len(attrs))
		for _, a := range attrs {
			val, err := Coerce(a, v.Text)
			if err != nil {
				return nil, err
			}
			if v.Unit.Operator == OpNotEq {
				branches = append(branches, queryir.NotEquals{Attr: a.Name, Value: val})
			} else {
				branches = append(branches, queryir.Equals{Attr: a.Name, Value: val})
			}
		}
		return queryir.AnyOf{Exprs: branches}, nil

	case KindValueWildcard:
		return queryir.PatternScan{Attr: v.Attribute.Name, Pattern: v.Pattern}, nil

	default:
		return nil, fmt.Errorf("expand: unit %q has no wildcard", v.Unit)
	}
}
