package exec

import (
	"slices"
	"strings"

	"github.com/roach88/shelf/internal/ir"
)

// Intersect returns the records of a whose _id also appears in b, ordered
// by _id with duplicates removed. Record identity is _id, so the copy from
// a is kept.
func Intersect(a, b []ir.Record) []ir.Record {
	inB := make(map[string]bool, len(b))
	for _, rec := range b {
		inB[rec.ID()] = true
	}

	out := []ir.Record{}
	seen := make(map[string]bool, len(a))
	for _, rec := range a {
		id := rec.ID()
		if inB[id] && !seen[id] {
			seen[id] = true
			out = append(out, rec)
		}
	}
	sortByID(out)
	return out
}

// Union returns every record of a and b, de-duplicated by _id and ordered
// by _id. When both sides hold the same _id the copy from a is kept.
func Union(a, b []ir.Record) []ir.Record {
	out := make([]ir.Record, 0, len(a)+len(b))
	seen := make(map[string]bool, len(a)+len(b))
	for _, side := range [][]ir.Record{a, b} {
		for _, rec := range side {
			id := rec.ID()
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, rec)
		}
	}
	sortByID(out)
	return out
}

// sortByID orders records by _id in byte order (SQLite's COLLATE BINARY).
func sortByID(recs []ir.Record) {
	slices.SortStableFunc(recs, func(x, y ir.Record) int {
		return strings.Compare(x.ID(), y.ID())
	})
}
