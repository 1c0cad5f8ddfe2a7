package query

import (
	"fmt"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/queryir"
)

// Translate converts a validated unit into a filter expression.
//
// Translate is deterministic and pure: no I/O and no hidden state. Wildcard
// units are delegated to Expand.
func Translate(v ValidatedUnit) (queryir.Expr, error) {
	if v.Kind != KindPlain {
		return Expand(v)
	}

	attr := v.Attribute.Name
	switch v.Unit.Operator {
	case OpEq:
		return queryir.Equals{Attr: attr, Value: v.Value}, nil
	case OpNotEq:
		return queryir.NotEquals{Attr: attr, Value: v.Value}, nil
	case OpGT, OpLT:
		n, ok := ir.Number(v.Value)
		if !ok {
			return nil, numericError(v.Text, nil, "comparison value is not a number")
		}
		if v.Unit.Operator == OpGT {
			return queryir.GreaterThan{Attr: attr, Number: n}, nil
		}
		return queryir.LessThan{Attr: attr, Number: n}, nil
	default:
		return nil, fmt.Errorf("translate: unknown operator %d", v.Unit.Operator)
	}
}
