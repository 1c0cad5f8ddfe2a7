// Package query interprets the book/author query language.
//
// A query is one condition, or two conditions joined by AND/OR:
//
//	book.rating_value : > 4.24
//	author.author_name : "Martin*"
//	book.*_count : "412" OR book.rating_* : "4.28"
//
// The pipeline is Parse → Validate → Translate (Expand for wildcards). Each
// stage is pure; Compile runs all three and returns a Plan whose filter
// expressions the exec package resolves against a record store.
//
// Every failure is an *Error whose Kind tells the caller which rule was
// broken. Nothing is retried or partially applied.
package query
