package querysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/queryir"
)

// ErrNotPushdown is returned for expressions SQLite cannot evaluate, i.e.
// any expression containing a PatternScan. Callers fall back to a scan.
var ErrNotPushdown = errors.New("expression cannot be pushed down to SQL")

// Table returns the table backing a collection.
func Table(c ir.Collection) (string, error) {
	switch c {
	case ir.Books:
		return "books", nil
	case ir.Authors:
		return "authors", nil
	default:
		return "", fmt.Errorf("no table for collection %q", c)
	}
}

// SQLCompiler compiles filter expressions to parameterized SQL over the
// JSON documents stored in the books and authors tables.
//
// CRITICAL: ALL queries include ORDER BY id for deterministic results.
// CRITICAL: All values and JSON paths are parameterized, never interpolated.
//
// The generated SQL agrees with queryir.Match:
//   - absent or null attributes never match, NotEquals included
//   - list attributes are walked with json_each, so Equals matches any element
//   - comparisons are guarded by json_type so text values never compare
type SQLCompiler struct{}

// NewSQLCompiler creates a new SQLCompiler.
func NewSQLCompiler() *SQLCompiler {
	return &SQLCompiler{}
}

// Compile converts an expression into a SELECT over the collection's table.
// Returns (sql, params, error). The selected columns are (id, doc).
func (c *SQLCompiler) Compile(coll ir.Collection, e queryir.Expr) (string, []any, error) {
	table, err := Table(coll)
	if err != nil {
		return "", nil, err
	}

	where, params, err := c.CompileWhere(e)
	if err != nil {
		return "", nil, err
	}

	sql := fmt.Sprintf("SELECT id, doc FROM %s WHERE %s ORDER BY %s", table, where, stableOrderKey())
	return sql, params, nil
}

// CompileWhere converts an expression into a WHERE clause fragment.
func (c *SQLCompiler) CompileWhere(e queryir.Expr) (string, []any, error) {
	if e == nil {
		return "", nil, fmt.Errorf("cannot compile nil expression")
	}

	switch expr := e.(type) {
	case queryir.Equals:
		return c.compileEquals(expr.Attr, expr.Value)
	case queryir.NotEquals:
		return c.compileNotEquals(expr)
	case queryir.GreaterThan:
		sql, params := compileComparison(expr.Attr, ">", expr.Number)
		return sql, params, nil
	case queryir.LessThan:
		sql, params := compileComparison(expr.Attr, "<", expr.Number)
		return sql, params, nil
	case queryir.AnyOf:
		return c.compileJunction(expr.Exprs, " OR ", "0 = 1")
	case queryir.And:
		return c.compileJunction([]queryir.Expr{expr.Left, expr.Right}, " AND ", "1 = 1")
	case queryir.Or:
		return c.compileJunction([]queryir.Expr{expr.Left, expr.Right}, " OR ", "0 = 1")
	case queryir.PatternScan:
		return "", nil, fmt.Errorf("%w: %s", ErrNotPushdown, expr)
	default:
		return "", nil, fmt.Errorf("unsupported expression type: %T", e)
	}
}

// stableOrderKey returns the ORDER BY clause for a query.
// COLLATE BINARY keeps text ordering stable across SQLite versions.
func stableOrderKey() string {
	return "id ASC COLLATE BINARY"
}

// JSONPath returns the SQLite JSON path addressing a top-level attribute.
// The name is quoted so attributes like "ISBN" or "_id" need no escaping.
func JSONPath(attr string) string {
	return `$."` + strings.ReplaceAll(attr, `"`, `\"`) + `"`
}

// compileEquals matches the attribute itself, or any element when it holds a
// list. json_each on a scalar path yields exactly one row.
func (c *SQLCompiler) compileEquals(attr string, v ir.Value) (string, []any, error) {
	param, typeGuard, err := valueToParam(v)
	if err != nil {
		return "", nil, fmt.Errorf("convert value for %s: %w", attr, err)
	}

	sql := fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(doc, ?) WHERE type %s AND value = ?)", typeGuard)
	return sql, []any{JSONPath(attr), param}, nil
}

// compileNotEquals requires the attribute to be present and non-null.
func (c *SQLCompiler) compileNotEquals(ne queryir.NotEquals) (string, []any, error) {
	eq, eqParams, err := c.compileEquals(ne.Attr, ne.Value)
	if err != nil {
		return "", nil, err
	}

	sql := fmt.Sprintf("(coalesce(json_type(doc, ?), 'null') != 'null' AND NOT %s)", eq)
	params := append([]any{JSONPath(ne.Attr)}, eqParams...)
	return sql, params, nil
}

// compileComparison only holds for numeric JSON values.
func compileComparison(attr, op string, bound float64) (string, []any) {
	path := JSONPath(attr)
	sql := fmt.Sprintf("(json_type(doc, ?) IN ('integer', 'real') AND json_extract(doc, ?) %s ?)", op)
	return sql, []any{path, path, bound}
}

// compileJunction joins sub-expressions with sep. An empty list compiles
// to the identity given: "0 = 1" for OR, "1 = 1" for AND.
func (c *SQLCompiler) compileJunction(exprs []queryir.Expr, sep, empty string) (string, []any, error) {
	if len(exprs) == 0 {
		return empty, nil, nil
	}

	parts := make([]string, 0, len(exprs))
	var params []any
	for _, sub := range exprs {
		sql, subParams, err := c.CompileWhere(sub)
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, sql)
		params = append(params, subParams...)
	}

	return "(" + strings.Join(parts, sep) + ")", params, nil
}

// valueToParam converts a literal to a SQL parameter and the json_each type
// guard that keeps text and numbers from comparing equal.
func valueToParam(v ir.Value) (any, string, error) {
	switch val := v.(type) {
	case ir.Text:
		return string(val), "= 'text'", nil
	case ir.Int:
		return int64(val), "IN ('integer', 'real')", nil
	case ir.Float:
		return float64(val), "IN ('integer', 'real')", nil
	case ir.Null, nil:
		return nil, "", fmt.Errorf("null literal cannot be compared")
	case ir.List:
		return nil, "", fmt.Errorf("list literal cannot be used as SQL parameter")
	default:
		return nil, "", fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
