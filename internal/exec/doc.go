// Package exec resolves compiled queries against a record store.
//
// Each unit's filter expression is resolved independently:
//   - pushdown expressions go to RecordStore.Find
//   - expressions containing a PatternScan fall back to RecordStore.ScanAll
//     with queryir.Match applied in process
//
// Two-unit queries then combine the per-unit result sets by _id:
// intersection for AND, de-duplicated union for OR. Results are ordered by
// _id in byte order, the same order the SQLite store returns.
//
// A failure in either unit aborts the query; no partial result is returned
// and nothing is retried.
package exec
