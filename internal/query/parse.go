package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/roach88/shelf/internal/ir"
)

// Parse splits a raw query string into one or two units plus a combinator.
//
// Grammar:
//
//	unit      := collection "." attribute ":" [ws] [operator] [ws] value
//	compound  := unit ws "AND" ws unit | unit ws "OR" ws unit | unit
//
// The combinator is the FIRST whitespace-delimited AND/OR token. If the
// text after it still contains "AND" or "OR" anywhere, the query is
// rejected as nested rather than risk a silent mis-split.
//
// Parse owns no state: the same input always yields an identical Compound.
// Units are syntactically checked only; see Validate for schema rules.
func Parse(query string) (Compound, error) {
	left, comb, right, found := splitCombinator(query)
	if !found {
		u, err := ParseUnit(query)
		if err != nil {
			return Compound{}, err
		}
		return Compound{Units: []Unit{u}, Combinator: CombNone}, nil
	}

	if strings.Contains(right, string(CombAnd)) || strings.Contains(right, string(CombOr)) {
		return Compound{}, grammarError(query, "nested logic operator not supported")
	}

	first, err := ParseUnit(left)
	if err != nil {
		return Compound{}, err
	}
	second, err := ParseUnit(right)
	if err != nil {
		return Compound{}, err
	}

	if first.Collection != second.Collection {
		return Compound{}, newError(KindMismatchedCollection, query,
			"logic operator only supported for units on the same collection (%s vs %s)",
			first.Collection, second.Collection)
	}

	return Compound{Units: []Unit{first, second}, Combinator: comb}, nil
}

// splitCombinator finds the first "<ws>AND<ws>" or "<ws>OR<ws>" in s.
// Returns the raw text on each side (trimmed) and the combinator.
func splitCombinator(s string) (left string, comb Combinator, right string, found bool) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			i += size
			continue
		}

		start := i
		j := skipSpace(s, i)
		for _, c := range []Combinator{CombAnd, CombOr} {
			tok := string(c)
			if !strings.HasPrefix(s[j:], tok) {
				continue
			}
			after := j + len(tok)
			if after >= len(s) {
				continue
			}
			if next, _ := utf8.DecodeRuneInString(s[after:]); !unicode.IsSpace(next) {
				continue
			}
			return strings.TrimSpace(s[:start]), c, strings.TrimSpace(s[after:]), true
		}
		i = j
	}
	return "", CombNone, "", false
}

// ParseUnit parses a single "collection.attribute : [op] value" condition.
//
// Whitespace may surround the unit, the ":" and the operator. None is
// allowed around the "." between collection and attribute. The value is
// everything after the operator with surrounding whitespace trimmed.
func ParseUnit(raw string) (Unit, error) {
	s := raw
	i := skipSpace(s, 0)

	// collection
	start := i
	for i < len(s) && s[i] != '.' && s[i] != ':' && !isSpaceAt(s, i) {
		i++
	}
	tag := s[start:i]
	if tag == "" {
		return Unit{}, grammarError(raw, "collection is missing")
	}
	if i >= len(s) || s[i] != '.' {
		return Unit{}, grammarError(raw, "expected \"collection.attribute\"")
	}
	coll, err := ir.ParseCollection(tag)
	if err != nil {
		return Unit{}, schemaError(raw, "%v", err)
	}
	i++ // '.'

	// attribute
	start = i
	for i < len(s) && s[i] != ':' && !isSpaceAt(s, i) {
		i++
	}
	attr := s[start:i]
	if attr == "" {
		return Unit{}, grammarError(raw, "query field is missing")
	}

	i = skipSpace(s, i)
	if i >= len(s) || s[i] != ':' {
		return Unit{}, grammarError(raw, "expected \":\" after %q", attr)
	}
	i = skipSpace(s, i+1)

	// operator
	op, width := scanOperator(s[i:])
	i = skipSpace(s, i+width)

	value := strings.TrimRightFunc(s[i:], unicode.IsSpace)
	if value == "" {
		return Unit{}, grammarError(raw, "query value is missing")
	}
	if op != OpEq {
		if _, extra := scanOperator(value); extra > 0 {
			return Unit{}, conflictError(raw, "only one comparison operator is allowed")
		}
	}

	return Unit{
		Collection: coll,
		Attribute:  attr,
		Operator:   op,
		Literal:    value,
	}, nil
}

// scanOperator recognizes a leading ">", "<" or "NOT".
// Returns OpEq and 0 when none is present.
func scanOperator(s string) (Operator, int) {
	switch {
	case strings.HasPrefix(s, ">"):
		return OpGT, 1
	case strings.HasPrefix(s, "<"):
		return OpLT, 1
	case strings.HasPrefix(s, "NOT"):
		return OpNotEq, 3
	default:
		return OpEq, 0
	}
}

func skipSpace(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func isSpaceAt(s string, i int) bool {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return unicode.IsSpace(r)
}
