// Package harness runs query conformance scenarios against a real store.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: translation
//	description: "What this scenario validates"
//	fixtures: true          # preload testutil.Books() and testutil.Authors()
//	scan_limit: 0           # optional exec.WithScanLimit
//	records:                # optional inline records, normalized like an import
//	  author:
//	    - { _id: x1, author_name: "Martin Fowler", rating_count: "1,204" }
//	steps:
//	  - query: 'author.author_url : "aaa" AND author.rating_value : > 4.32'
//	    expect:
//	      ids: [a1, a4]
//	      expr: 'And(Equals(author_url, "aaa"), GreaterThan(rating_value, 4.32))'
//	      finds: 2
//	      scans: 0
//	  - query: 'book.review_count : < 1500 AND > 600'
//	    expect:
//	      error: GRAMMAR
//	assertions:
//	  - type: same_result
//	    steps: [1, 2]
//	  - type: scan_total
//	    count: 1
//
// An expect clause checks only the fields it sets. Use "count: 0" to
// expect no matches. Error names are query.ErrorKind values or
// exec.ExecErrorCode values, compared case-insensitively.
//
// # Assertion Types
//
//   - same_result: the listed steps (1-based) return identical ids or the same error
//   - scan_total: pattern scans across all steps equal count
//   - find_total: pushdown Find calls across all steps equal count
//
// # Determinism
//
// Each scenario runs in a fresh in-memory SQLite database. Inline records
// without an _id get "<scenario name>-0001", "-0002"... so transcripts are
// stable and can be compared against golden files.
package harness
