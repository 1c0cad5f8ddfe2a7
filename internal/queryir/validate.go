package queryir

import (
	"fmt"
	"slices"
)

// Analysis describes how an expression can be executed.
//
// A pushdown expression is made only of predicates the record store can
// evaluate natively (Equals, NotEquals, GreaterThan, LessThan, AnyOf, And,
// Or). Any PatternScan forces a full-collection scan.
type Analysis struct {
	// Pushdown is true when the whole expression can be handed to the store.
	Pushdown bool

	// ScanAttrs lists the attributes that need an in-process pattern scan,
	// in the order they appear. Empty when Pushdown is true.
	ScanAttrs []string

	// Warnings lists structural problems (nil nodes, unknown node types).
	Warnings []string
}

// Analyze walks an expression and reports whether it can be pushed down.
//
// Analyze is a pure function with no side effects.
func Analyze(e Expr) Analysis {
	a := &analyzer{
		warnings: []string{},
	}
	a.analyzeExpr(e)

	return Analysis{
		Pushdown:  len(a.scanAttrs) == 0 && len(a.warnings) == 0,
		ScanAttrs: a.scanAttrs,
		Warnings:  a.warnings,
	}
}

// analyzer accumulates findings during traversal.
type analyzer struct {
	scanAttrs []string
	warnings  []string
}

// addWarning appends a warning message.
func (a *analyzer) addWarning(format string, args ...any) {
	a.warnings = append(a.warnings, fmt.Sprintf(format, args...))
}

// analyzeExpr recursively inspects an expression node.
func (a *analyzer) analyzeExpr(e Expr) {
	if e == nil {
		a.addWarning("nil expression - every branch needs a predicate")
		return
	}

	switch expr := e.(type) {
	case Equals, NotEquals, GreaterThan, LessThan:
		// Native store predicates
	case AnyOf:
		for _, sub := range expr.Exprs {
			a.analyzeExpr(sub)
		}
	case PatternScan:
		if !slices.Contains(a.scanAttrs, expr.Attr) {
			a.scanAttrs = append(a.scanAttrs, expr.Attr)
		}
	case And:
		a.analyzeExpr(expr.Left)
		a.analyzeExpr(expr.Right)
	case Or:
		a.analyzeExpr(expr.Left)
		a.analyzeExpr(expr.Right)
	default:
		a.addWarning("unknown expression type: %T", e)
	}
}
