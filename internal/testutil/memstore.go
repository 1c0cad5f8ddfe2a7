package testutil

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/queryir"
	"github.com/roach88/shelf/internal/querysql"
)

// MemStore is an in-memory record store with the same contract as
// store.Store's Find and ScanAll: results ordered by id, PatternScan
// rejected by Find with querysql.ErrNotPushdown, and queryir.Match as the
// predicate semantics.
//
// It counts calls so executor tests can assert which path a query took,
// and can be told to fail.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type MemStore struct {
	mu      sync.Mutex
	records map[ir.Collection][]ir.Record

	findCalls int
	scanCalls int
	failWith  error
}

// NewMemStore creates a store preloaded with the Books and Authors fixtures.
func NewMemStore() *MemStore {
	m := NewEmptyMemStore()
	m.Load(ir.Books, Books())
	m.Load(ir.Authors, Authors())
	return m
}

// NewEmptyMemStore creates a store with no records.
func NewEmptyMemStore() *MemStore {
	return &MemStore{records: make(map[ir.Collection][]ir.Record)}
}

// Load replaces a collection's records.
func (m *MemStore) Load(c ir.Collection, recs []ir.Record) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sorted := slices.Clone(recs)
	slices.SortFunc(sorted, func(a, b ir.Record) int {
		return strings.Compare(a.ID(), b.ID())
	})
	m.records[c] = sorted
}

// FailWith makes every subsequent Find and ScanAll return err.
// Pass nil to clear.
func (m *MemStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failWith = err
}

// FindCalls returns how many times Find was called.
func (m *MemStore) FindCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.findCalls
}

// ScanCalls returns how many times ScanAll was iterated.
func (m *MemStore) ScanCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scanCalls
}

// Find returns records matching a pushdown-able expression.
func (m *MemStore) Find(ctx context.Context, c ir.Collection, e queryir.Expr) ([]ir.Record, error) {
	m.mu.Lock()
	m.findCalls++
	failWith := m.failWith
	recs := m.records[c]
	m.mu.Unlock()

	if failWith != nil {
		return nil, failWith
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("find %s: nil expression", c)
	}
	if !queryir.Analyze(e).Pushdown {
		return nil, fmt.Errorf("find %s: %w: %s", c, querysql.ErrNotPushdown, e)
	}

	out := []ir.Record{}
	for _, rec := range recs {
		if queryir.Match(e, rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}

// ScanAll yields every record of a collection in id order.
func (m *MemStore) ScanAll(ctx context.Context, c ir.Collection) iter.Seq2[ir.Record, error] {
	return func(yield func(ir.Record, error) bool) {
		m.mu.Lock()
		m.scanCalls++
		failWith := m.failWith
		recs := m.records[c]
		m.mu.Unlock()

		if failWith != nil {
			yield(nil, failWith)
			return
		}
		for _, rec := range recs {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
	}
}
