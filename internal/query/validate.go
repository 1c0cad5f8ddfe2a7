package query

import (
	"strconv"
	"strings"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/queryir"
)

// Validate checks a parsed unit against a collection schema and coerces its
// literal.
//
// Checks run in this order:
//  1. collection tag is book/author and matches the schema (SchemaError)
//  2. at most one wildcard, never combined with ">"/"<", and a value
//     wildcard never combined with NOT (OperatorConflictError)
//  3. EQ/NOT literals are quoted and non-empty (QuotingError); GT/LT
//     literals are unquoted non-negative decimals (NumericFormatError)
//  4. the attribute, or attribute pattern, names at least one schema
//     attribute (SchemaError)
//  5. the literal coerces into every target attribute's domain
//     (NumericFormatError)
//
// The schema is passed in rather than looked up so tests can validate
// against synthetic schemas.
func Validate(u Unit, schema ir.Schema) (ValidatedUnit, error) {
	raw := u.String()

	if _, err := ir.ParseCollection(string(u.Collection)); err != nil {
		return ValidatedUnit{}, schemaError(raw, "%v", err)
	}
	if u.Collection != schema.Collection {
		return ValidatedUnit{}, schemaError(raw, "unit targets %q but schema is for %q", u.Collection, schema.Collection)
	}

	kind, err := classify(u, raw)
	if err != nil {
		return ValidatedUnit{}, err
	}

	text, err := literalText(u, raw)
	if err != nil {
		return ValidatedUnit{}, err
	}

	v := ValidatedUnit{
		Unit:   u,
		Schema: schema,
		Kind:   kind,
		Text:   text,
	}

	if kind == KindAttrWildcard {
		v.Pattern = queryir.CompilePattern(u.Attribute)
		matched := schema.Select(v.Pattern.Match)
		if len(matched) == 0 {
			return ValidatedUnit{}, schemaError(raw, "attribute pattern %q matches no %s attribute", u.Attribute, schema.Collection)
		}
		// Coercion is per attribute domain; surface failures before translation.
		for _, a := range matched {
			if _, err := Coerce(a, text); err != nil {
				return ValidatedUnit{}, err
			}
		}
		return v, nil
	}

	attr, ok := schema.Lookup(u.Attribute)
	if !ok {
		return ValidatedUnit{}, schemaError(raw, "the query field %q is not tracked by the %s collection", u.Attribute, schema.Collection)
	}
	v.Attribute = attr

	switch {
	case kind == KindValueWildcard:
		v.Pattern = queryir.CompilePattern(text)
	case u.Operator.IsComparison():
		n, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return ValidatedUnit{}, numericError(text, err, "comparison value is not a number")
		}
		v.Value = ir.Float(n)
	default:
		val, err := Coerce(attr, text)
		if err != nil {
			return ValidatedUnit{}, err
		}
		v.Value = val
	}

	return v, nil
}

// classify enforces operator exclusivity and reports where the wildcard is.
func classify(u Unit, raw string) (UnitKind, error) {
	attrWild := strings.Count(u.Attribute, queryir.Wildcard)
	valueWild := strings.Count(u.Literal, queryir.Wildcard)

	if attrWild+valueWild > 1 {
		return KindPlain, conflictError(raw, "only one wildcard operator is allowed at a time")
	}

	switch {
	case attrWild == 1:
		if u.Operator.IsComparison() {
			return KindPlain, conflictError(raw, "wildcard attribute cannot be combined with comparison operator %q", u.Operator)
		}
		return KindAttrWildcard, nil
	case valueWild == 1:
		if u.Operator != OpEq {
			return KindPlain, conflictError(raw, "wildcard value cannot be combined with operator %q", u.Operator)
		}
		return KindValueWildcard, nil
	default:
		return KindPlain, nil
	}
}

// literalText applies the quoting rules and returns the literal to coerce.
func literalText(u Unit, raw string) (string, error) {
	if u.Operator.IsComparison() {
		if strings.HasPrefix(u.Literal, `"`) || strings.HasSuffix(u.Literal, `"`) {
			return "", numericError(u.Literal, nil, "comparison value must not be quoted")
		}
		if !isDecimal(u.Literal) {
			return "", numericError(u.Literal, nil, "a legal comparison value is a non-negative number")
		}
		return u.Literal, nil
	}
	return unquote(u.Literal)
}

// unquote strips a matching pair of double quotes. Exact matches must be
// quoted and the quoted content must be non-empty.
func unquote(lit string) (string, error) {
	if len(lit) < 2 || lit[0] != '"' || lit[len(lit)-1] != '"' {
		return "", quotingError(lit, "exact matches must be quoted")
	}
	content := lit[1 : len(lit)-1]
	if content == "" {
		return "", quotingError(lit, "quoted value is empty")
	}
	return content, nil
}

// isDecimal accepts digits with an optional fractional part: "15000",
// "4.24", "4.", ".5". Signs, exponents and separators are rejected.
func isDecimal(s string) bool {
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
			if dots > 1 {
				return false
			}
		default:
			return false
		}
	}
	return digits > 0
}
