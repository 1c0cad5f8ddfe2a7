// Package queryir provides the Filter Expression tree that query units are
// translated into.
//
// The expression tree is the abstraction boundary between the query grammar
// and storage backends:
//
//	[query string] → [query.Unit] → [queryir.Expr] → [querysql / in-process Match]
//
// # Sealed interface
//
// Expr is sealed with a marker method, so backends can switch exhaustively:
//
//	switch e := expr.(type) {
//	case queryir.Equals:
//	    // attribute = literal
//	case queryir.PatternScan:
//	    // not pushdown-able, scan the collection
//	}
//
// # Pushdown
//
// Analyze reports whether an expression is made only of predicates the
// record store evaluates natively. PatternScan is never pushed down: the
// executor fetches the whole collection and filters with Match, which costs
// O(collection size) per query.
//
// Match is also the reference semantics for every backend. Absent and null
// attributes never match, including under NotEquals.
package queryir
