package query

import (
	"fmt"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/queryir"
)

// Operator is the comparison operator of a unit.
type Operator int

const (
	// OpEq is exact equality (no operator written).
	OpEq Operator = iota
	// OpNotEq is written "NOT".
	OpNotEq
	// OpGT is written ">".
	OpGT
	// OpLT is written "<".
	OpLT
)

// String returns the operator as written in a query ("" for equality).
func (o Operator) String() string {
	switch o {
	case OpNotEq:
		return "NOT"
	case OpGT:
		return ">"
	case OpLT:
		return "<"
	default:
		return ""
	}
}

// IsComparison reports whether the operator is ">" or "<".
func (o Operator) IsComparison() bool {
	return o == OpGT || o == OpLT
}

// Combinator joins two units.
type Combinator string

const (
	// CombNone marks a single-unit query.
	CombNone Combinator = "NA"
	// CombAnd intersects the two result sets.
	CombAnd Combinator = "AND"
	// CombOr unions the two result sets.
	CombOr Combinator = "OR"
)

// Unit is one syntactically well-formed "collection.attribute : [op] value"
// condition. It is not yet schema-validated; Literal keeps its quotes.
type Unit struct {
	Collection ir.Collection
	Attribute  string
	Operator   Operator
	Literal    string
}

// String renders the unit in canonical spacing.
func (u Unit) String() string {
	if u.Operator == OpEq {
		return fmt.Sprintf("%s.%s : %s", u.Collection, u.Attribute, u.Literal)
	}
	return fmt.Sprintf("%s.%s : %s %s", u.Collection, u.Attribute, u.Operator, u.Literal)
}

// Compound is one unit, or two units joined by AND/OR.
//
// When two units are present the combinator is never CombNone and both
// units target the same collection.
type Compound struct {
	Units      []Unit
	Combinator Combinator
}

// Collection returns the collection every unit targets.
func (c Compound) Collection() ir.Collection {
	if len(c.Units) == 0 {
		return ""
	}
	return c.Units[0].Collection
}

// UnitKind classifies a validated unit by where its wildcard sits.
type UnitKind int

const (
	// KindPlain has no wildcard.
	KindPlain UnitKind = iota
	// KindAttrWildcard has "*" in the attribute name.
	KindAttrWildcard
	// KindValueWildcard has "*" in the literal.
	KindValueWildcard
)

func (k UnitKind) String() string {
	switch k {
	case KindAttrWildcard:
		return "attribute-wildcard"
	case KindValueWildcard:
		return "value-wildcard"
	default:
		return "plain"
	}
}

// ValidatedUnit is a unit that passed schema, quoting, operator and
// coercion checks.
type ValidatedUnit struct {
	Unit   Unit
	Schema ir.Schema
	Kind   UnitKind

	// Text is the literal with quotes stripped (EQ/NOT) or as written (GT/LT).
	Text string

	// Attribute is the resolved schema attribute. Zero for KindAttrWildcard.
	Attribute ir.Attribute

	// Value is the coerced literal for KindPlain units: ir.Float for numeric
	// attributes and comparisons, ir.Text otherwise. Nil for wildcard kinds,
	// whose literal is coerced per expanded attribute or kept as a pattern.
	Value ir.Value

	// Pattern is the compiled attribute pattern (KindAttrWildcard) or value
	// pattern (KindValueWildcard).
	Pattern queryir.Pattern
}
