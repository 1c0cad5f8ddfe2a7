// Package store provides SQLite-backed storage for the book and author
// collections.
//
// Each collection is a table of JSON documents keyed by _id:
//   - books:   one row per book record
//   - authors: one row per author record
//
// # Critical Patterns
//
// Deterministic Query Results
//   - All reads include ORDER BY id ASC COLLATE BINARY
//   - Find and ScanAll return records in the same order
//
// Parameterized SQL
//   - Filter values and JSON paths are bound, never interpolated
//   - Filter SQL comes from internal/querysql
//
// Stable Documents
//   - Documents are written with sorted keys and HTML escaping disabled
//   - Floats keep a ".0" suffix so Int/Float survive a round trip
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package store
