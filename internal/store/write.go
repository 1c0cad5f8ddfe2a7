package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/querysql"
)

// ErrMissingID is returned when a record without an _id is written.
var ErrMissingID = errors.New("record has no _id")

// Put inserts or replaces a record, keyed by its _id.
func (s *Store) Put(ctx context.Context, coll ir.Collection, rec ir.Record) error {
	return putRecord(ctx, s.db, coll, rec)
}

// PutAll upserts records in a single transaction. Either every record is
// written or none is.
func (s *Store) PutAll(ctx context.Context, coll ir.Collection, recs []ir.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, rec := range recs {
		if err := putRecord(ctx, tx, coll, rec); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Delete removes a record by _id. Returns false if no record had that id.
func (s *Store) Delete(ctx context.Context, coll ir.Collection, id string) (bool, error) {
	table, err := querysql.Table(coll)
	if err != nil {
		return false, err
	}

	res, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, table), id)
	if err != nil {
		return false, fmt.Errorf("delete %s %q: %w", coll, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete %s %q: %w", coll, id, err)
	}
	return n > 0, nil
}

// execer is satisfied by *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func putRecord(ctx context.Context, db execer, coll ir.Collection, rec ir.Record) error {
	table, err := querysql.Table(coll)
	if err != nil {
		return err
	}

	id := rec.ID()
	if id == "" {
		return fmt.Errorf("put %s: %w", coll, ErrMissingID)
	}

	doc, err := marshalRecord(rec)
	if err != nil {
		return fmt.Errorf("put %s %q: %w", coll, id, err)
	}

	_, err = db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, doc) VALUES (?, ?)
		ON CONFLICT(id) DO UPDATE SET doc = excluded.doc
	`, table), id, doc)
	if err != nil {
		return fmt.Errorf("put %s %q: %w", coll, id, err)
	}
	return nil
}
