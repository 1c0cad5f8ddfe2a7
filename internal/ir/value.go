package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Value is a sealed interface over the attribute values a record can hold.
// Only Null, Text, Int, Float and List implement it.
//
// Int and Float together form the numeric domain. Coerced query literals are
// always Float (numeric) or Text (text).
type Value interface {
	irValue() // Sealed - only these types implement it

	// Text returns the textual form used by pattern scans.
	//
	// The form is formatting-sensitive: Float(4.0) renders as "4.0" while
	// Int(4) renders as "4", so a pattern like "4.0*" only matches the float.
	Text() string
}

// Null represents an explicit JSON null attribute.
type Null struct{}

func (Null) irValue() {}

// Text returns the empty string. Null never matches a pattern scan.
func (Null) Text() string { return "" }

// MarshalJSON implements json.Marshaler for Null.
func (Null) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// Text is a text-domain value. Construct with NewText to get NFC normalization.
type Text string

func (Text) irValue() {}

// Text returns the string itself.
func (t Text) Text() string { return string(t) }

// Int is an integral numeric value (counts).
type Int int64

func (Int) irValue() {}

// Text returns the decimal form.
func (i Int) Text() string { return strconv.FormatInt(int64(i), 10) }

// Float is a fractional numeric value (ratings, coerced literals).
type Float float64

func (Float) irValue() {}

// Text returns the shortest round-trip form, always carrying a decimal point
// or exponent: 4.0 -> "4.0", 4.25 -> "4.25", 1e16 -> "1e+16".
func (f Float) Text() string { return formatFloat(float64(f)) }

// MarshalJSON keeps the ".0" suffix on integral floats so the value decodes
// back as a Float and its text form survives a store round trip.
func (f Float) MarshalJSON() ([]byte, error) {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("non-finite float %v cannot be encoded", v)
	}
	return []byte(formatFloat(v)), nil
}

// List is a multi-valued attribute (e.g. similar_book_urls).
type List []Value

func (List) irValue() {}

// Text returns the compact JSON encoding of the list.
func (l List) Text() string {
	b, err := json.Marshal(l)
	if err != nil {
		return ""
	}
	return string(b)
}

// NewText creates an NFC-normalized Text value.
func NewText(s string) Text {
	return Text(norm.NFC.String(s))
}

// IsNull reports whether v is absent (nil) or an explicit Null.
func IsNull(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(Null)
	return ok
}

// Number returns the float64 form of a numeric value.
func Number(v Value) (float64, bool) {
	switch n := v.(type) {
	case Int:
		return float64(n), true
	case Float:
		return float64(n), true
	default:
		return 0, false
	}
}

// Equal compares two values. Int and Float compare numerically; a List
// never equals a scalar.
func Equal(a, b Value) bool {
	if IsNull(a) || IsNull(b) {
		return false
	}
	if x, ok := Number(a); ok {
		y, ok := Number(b)
		return ok && x == y
	}
	switch av := a.(type) {
	case Text:
		bv, ok := b.(Text)
		return ok && av == bv
	case List:
		bv, ok := b.(List)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// FromAny converts a decoded JSON value into a Value.
// json.Number is split into Int or Float by its literal form.
func FromAny(v any) (Value, error) {
	switch val := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return val, nil
	case string:
		return NewText(val), nil
	case json.Number:
		return numberFromLiteral(string(val))
	case bool:
		// Booleans have no domain in the schemas; keep their text form.
		return Text(strconv.FormatBool(val)), nil
	case int:
		return Int(val), nil
	case int64:
		return Int(val), nil
	case float64:
		return Float(val), nil
	case []any:
		list := make(List, len(val))
		for i, elem := range val {
			conv, err := FromAny(elem)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = conv
		}
		return list, nil
	default:
		return nil, fmt.Errorf("unsupported value type: %T", v)
	}
}

// numberFromLiteral keeps integral literals as Int and everything else as Float.
func numberFromLiteral(lit string) (Value, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if n, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return Int(n), nil
		}
	}
	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", lit, err)
	}
	return Float(f), nil
}

// formatFloat renders a float the way a repr() of a double does: positional
// notation between 1e-4 and 1e16, exponent notation outside, and a trailing
// ".0" for integral positional values.
func formatFloat(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// decodeValue decodes one JSON value with json.Number preserved.
func decodeValue(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	return FromAny(raw)
}
