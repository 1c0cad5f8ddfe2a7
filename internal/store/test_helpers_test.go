package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/shelf/internal/ir"
	"github.com/roach88/shelf/internal/testutil"
)

// createTestStore creates a new file-backed store in a temp dir for testing.
func createTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, opts...)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createSeededStore creates a store holding the testutil book and author fixtures.
func createSeededStore(t *testing.T) *Store {
	t.Helper()
	s := createTestStore(t)
	ctx := context.Background()
	for _, c := range ir.Collections {
		if err := s.PutAll(ctx, c, testutil.Records(c)); err != nil {
			t.Fatalf("PutAll(%s) failed: %v", c, err)
		}
	}
	return s
}

// createTestBook creates a minimal book record.
func createTestBook(id, title string) ir.Record {
	return ir.Record{
		"_id":        ir.Text(id),
		"book_title": ir.Text(title),
	}
}
