package exec

import "fmt"

// ScanQuota counts records visited by a pattern-scan fallback and enforces
// a maximum. A PatternScan reads the whole collection, so the quota bounds
// the cost of value-wildcard queries on large collections.
//
// Each scan gets its own ScanQuota. A limit of 0 or less means unlimited.
type ScanQuota struct {
	limit   int
	visited int
}

// NewScanQuota creates a quota with the given limit.
func NewScanQuota(limit int) *ScanQuota {
	return &ScanQuota{limit: limit}
}

// Check counts one visited record and validates against the limit.
//
// Returns ScanLimitExceededError once the count passes the limit.
func (q *ScanQuota) Check(collection string) error {
	q.visited++
	if q.limit > 0 && q.visited > q.limit {
		return &ScanLimitExceededError{
			Collection: collection,
			Visited:    q.visited,
			Limit:      q.limit,
		}
	}
	return nil
}

// Visited returns the number of records counted so far.
func (q *ScanQuota) Visited() int {
	return q.visited
}

// Limit returns the configured limit.
func (q *ScanQuota) Limit() int {
	return q.limit
}

// ScanLimitExceededError is returned when a scan visits more records than
// the quota allows. The query is aborted; no partial result is returned.
type ScanLimitExceededError struct {
	Collection string
	Visited    int
	Limit      int
}

// Error implements the error interface.
func (e *ScanLimitExceededError) Error() string {
	return fmt.Sprintf("scan of %s exceeded limit (%d > %d records)", e.Collection, e.Visited, e.Limit)
}
