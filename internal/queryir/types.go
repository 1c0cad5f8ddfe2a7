package queryir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/shelf/internal/ir"
)

// Expr represents a Filter Expression node.
//
// This is a sealed interface - only types in this package implement it.
// The marker method pattern prevents external implementations and enables
// exhaustive type switches in backends (querysql, the in-process matcher).
//
// Expr types:
//   - Equals, NotEquals: attribute compared to a coerced literal
//   - GreaterThan, LessThan: numeric comparison
//   - AnyOf: disjunction produced by attribute-wildcard expansion
//   - PatternScan: value-wildcard match, evaluated by scanning
//   - And, Or: combination of exactly two expressions
//
// Every node renders to a stable string via String(), used by explain output
// and golden files.
type Expr interface {
	exprNode() // Marker method - seals interface to this package
	String() string
}

// Equals matches records whose attribute equals Value.
//
// Semantics:
//
//	<attr> = <value>
//
// Int and Float compare numerically. For multi-valued attributes the
// predicate holds when any element equals Value. Absent or null attributes
// never match.
type Equals struct {
	Attr  string
	Value ir.Value
}

func (Equals) exprNode() {}

func (e Equals) String() string {
	return fmt.Sprintf("Equals(%s, %s)", e.Attr, formatLiteral(e.Value))
}

// NotEquals matches records whose attribute is present and differs from Value.
//
// Unlike a document store's $ne, an absent or null attribute does NOT match.
// For multi-valued attributes the predicate holds when no element equals Value.
type NotEquals struct {
	Attr  string
	Value ir.Value
}

func (NotEquals) exprNode() {}

func (e NotEquals) String() string {
	return fmt.Sprintf("NotEquals(%s, %s)", e.Attr, formatLiteral(e.Value))
}

// GreaterThan matches records whose numeric attribute is strictly greater
// than Number. Text attributes never match.
type GreaterThan struct {
	Attr   string
	Number float64
}

func (GreaterThan) exprNode() {}

func (e GreaterThan) String() string {
	return fmt.Sprintf("GreaterThan(%s, %s)", e.Attr, formatNumber(e.Number))
}

// LessThan matches records whose numeric attribute is strictly less than
// Number. Text attributes never match.
type LessThan struct {
	Attr   string
	Number float64
}

func (LessThan) exprNode() {}

func (e LessThan) String() string {
	return fmt.Sprintf("LessThan(%s, %s)", e.Attr, formatNumber(e.Number))
}

// AnyOf matches when at least one branch matches.
// An empty AnyOf matches no records.
type AnyOf struct {
	Exprs []Expr
}

func (AnyOf) exprNode() {}

func (e AnyOf) String() string {
	parts := make([]string, len(e.Exprs))
	for i, sub := range e.Exprs {
		parts[i] = sub.String()
	}
	return "AnyOf(" + strings.Join(parts, ", ") + ")"
}

// PatternScan matches records whose attribute, rendered with Value.Text,
// matches Pattern.
//
// The record store cannot evaluate this server-side. The executor fetches
// the whole collection and tests each record in process.
type PatternScan struct {
	Attr    string
	Pattern Pattern
}

func (PatternScan) exprNode() {}

func (e PatternScan) String() string {
	return fmt.Sprintf("PatternScan(%s, %q)", e.Attr, e.Pattern.String())
}

// And matches when both sides match.
type And struct {
	Left  Expr
	Right Expr
}

func (And) exprNode() {}

func (e And) String() string {
	return fmt.Sprintf("And(%s, %s)", e.Left, e.Right)
}

// Or matches when either side matches.
type Or struct {
	Left  Expr
	Right Expr
}

func (Or) exprNode() {}

func (e Or) String() string {
	return fmt.Sprintf("Or(%s, %s)", e.Left, e.Right)
}

// formatLiteral renders a literal for String(): numbers bare, text quoted.
func formatLiteral(v ir.Value) string {
	if n, ok := ir.Number(v); ok {
		return formatNumber(n)
	}
	if ir.IsNull(v) {
		return "null"
	}
	return strconv.Quote(v.Text())
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
