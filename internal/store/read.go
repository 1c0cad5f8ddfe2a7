package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"iter"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/queryir"
	"github.com/roach88/shelf/internal/querysql"
)

// Get returns the record with the given _id.
// Returns found=false (and no error) when the record does not exist.
func (s *Store) Get(ctx context.Context, coll ir.Collection, id string) (ir.Record, bool, error) {
	table, err := querysql.Table(coll)
	if err != nil {
		return nil, false, err
	}

	var doc string
	err = s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT doc FROM %s WHERE id = ?`, table), id).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s %q: %w", coll, id, err)
	}

	rec, err := unmarshalRecord(doc)
	if err != nil {
		return nil, false, fmt.Errorf("get %s %q: %w", coll, id, err)
	}
	return rec, true, nil
}

// Count returns the number of records in a collection.
func (s *Store) Count(ctx context.Context, coll ir.Collection) (int, error) {
	table, err := querysql.Table(coll)
	if err != nil {
		return 0, err
	}

	var n int
	if err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", coll, err)
	}
	return n, nil
}

// Find returns the records matching a pushdown-able expression, ordered by id.
// Expressions containing a PatternScan return querysql.ErrNotPushdown.
//
// Returns an empty slice (not nil) when nothing matches.
func (s *Store) Find(ctx context.Context, coll ir.Collection, e queryir.Expr) ([]ir.Record, error) {
	query, params, err := querysql.NewSQLCompiler().Compile(coll, e)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll, err)
	}

	s.logger.Debug("find", "collection", coll, "expr", e.String(), "sql", query)

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll, err)
	}
	defer rows.Close()

	recs := []ir.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("find %s: %w", coll, err)
		}
		recs = append(recs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find %s: iterate: %w", coll, err)
	}

	return recs, nil
}

// ScanAll iterates over every record in a collection, ordered by id.
//
// The iterator holds the store's only connection until iteration ends, so
// callers must not issue other store calls from inside the loop.
func (s *Store) ScanAll(ctx context.Context, coll ir.Collection) iter.Seq2[ir.Record, error] {
	return func(yield func(ir.Record, error) bool) {
		table, err := querysql.Table(coll)
		if err != nil {
			yield(nil, err)
			return
		}

		s.logger.Debug("scan", "collection", coll)

		rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`SELECT id, doc FROM %s ORDER BY id ASC COLLATE BINARY`, table))
		if err != nil {
			yield(nil, fmt.Errorf("scan %s: %w", coll, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			rec, err := scanRecord(rows)
			if err != nil {
				yield(nil, fmt.Errorf("scan %s: %w", coll, err))
				return
			}
			if !yield(rec, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(nil, fmt.Errorf("scan %s: iterate: %w", coll, err))
		}
	}
}

// ReadAll returns every record in a collection, ordered by id.
// Returns an empty slice (not nil) for an empty collection.
func (s *Store) ReadAll(ctx context.Context, coll ir.Collection) ([]ir.Record, error) {
	recs := []ir.Record{}
	for rec, err := range s.ScanAll(ctx, coll) {
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// scanRecord reads one (id, doc) row.
func scanRecord(rows *sql.Rows) (ir.Record, error) {
	var id, doc string
	if err := rows.Scan(&id, &doc); err != nil {
		return nil, fmt.Errorf("scan row: %w", err)
	}
	rec, err := unmarshalRecord(doc)
	if err != nil {
		return nil, fmt.Errorf("record %q: %w", id, err)
	}
	return rec, nil
}
