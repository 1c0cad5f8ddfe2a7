package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/roach88/shelf/internal/ir"
)

// Coerce converts an unquoted literal into the value domain of attr.
//
// Numeric attributes (ratings, counts) parse as float64 after stripping
// thousands separators, so "173,245" becomes 173245. Hex, underscores and
// non-finite values are rejected. Text attributes keep the literal as
// NFC-normalized text.
func Coerce(attr ir.Attribute, text string) (ir.Value, error) {
	if attr.Domain != ir.DomainNumeric {
		return ir.NewText(text), nil
	}

	cleaned := strings.TrimSpace(strings.ReplaceAll(text, ",", ""))
	if cleaned == "" || strings.ContainsAny(cleaned, "xX_") {
		return nil, numericError(text, nil, "value for numeric attribute %q is not a number", attr.Name)
	}

	n, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return nil, numericError(text, err, "value for numeric attribute %q is not a number", attr.Name)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return nil, numericError(text, nil, "value for numeric attribute %q must be finite", attr.Name)
	}
	return ir.Float(n), nil
}
