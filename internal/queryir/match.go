package queryir

import "github.com/roach88/shelf/internal/ir"

// Match evaluates an expression against a single record in process.
//
// This is the reference semantics every backend must agree with:
//   - absent or null attributes never match (Equals, NotEquals, comparisons, scans)
//   - list attributes match Equals when any element equals the value and
//     NotEquals when no element does
//   - comparisons only hold for numeric attribute values
//   - PatternScan compares against Value.Text of the attribute
//
// Match is a pure function; a nil expression matches nothing.
func Match(e Expr, rec ir.Record) bool {
	switch expr := e.(type) {
	case Equals:
		return matchEquals(rec.Get(expr.Attr), expr.Value)
	case NotEquals:
		v := rec.Get(expr.Attr)
		if ir.IsNull(v) {
			return false
		}
		return !matchEquals(v, expr.Value)
	case GreaterThan:
		n, ok := ir.Number(rec.Get(expr.Attr))
		return ok && n > expr.Number
	case LessThan:
		n, ok := ir.Number(rec.Get(expr.Attr))
		return ok && n < expr.Number
	case AnyOf:
		for _, sub := range expr.Exprs {
			if Match(sub, rec) {
				return true
			}
		}
		return false
	case PatternScan:
		v := rec.Get(expr.Attr)
		if ir.IsNull(v) {
			return false
		}
		return expr.Pattern.Match(v.Text())
	case And:
		return Match(expr.Left, rec) && Match(expr.Right, rec)
	case Or:
		return Match(expr.Left, rec) || Match(expr.Right, rec)
	default:
		return false
	}
}

// matchEquals compares a record value with a literal, expanding lists.
func matchEquals(v, literal ir.Value) bool {
	if list, ok := v.(ir.List); ok {
		if _, literalIsList := literal.(ir.List); !literalIsList {
			for _, elem := range list {
				if ir.Equal(elem, literal) {
					return true
				}
			}
			return false
		}
	}
	return ir.Equal(v, literal)
}
