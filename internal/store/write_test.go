package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/shelf/internal/ir"
)

func TestPut_Basic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, ir.Books, createTestBook("b1", "Dune")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	var doc string
	if err := s.db.QueryRow("SELECT doc FROM books WHERE id = ?", "b1").Scan(&doc); err != nil {
		t.Fatalf("query failed: %v", err)
	}

	want := `{"_id":"b1","book_title":"Dune"}`
	if doc != want {
		t.Errorf("doc = %s, want %s", doc, want)
	}
}

func TestPut_StableDocument(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	rec := ir.Record{
		"_id":          ir.Text("b1"),
		"rating_value": ir.Float(4),
		"rating_count": ir.Int(412),
		"book_title":   ir.Text("Tom & Jerry <3>"),
		"cover_url":    ir.Null{},
		"similar_book_urls": ir.List{
			ir.Text("u1"), ir.Text("u2"),
		},
	}
	if err := s.Put(ctx, ir.Books, rec); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	var doc string
	if err := s.db.QueryRow("SELECT doc FROM books WHERE id = 'b1'").Scan(&doc); err != nil {
		t.Fatalf("query failed: %v", err)
	}

	// Sorted keys, no HTML escaping, Float keeps ".0".
	want := `{"_id":"b1","book_title":"Tom & Jerry <3>","cover_url":null,"rating_count":412,"rating_value":4.0,"similar_book_urls":["u1","u2"]}`
	if doc != want {
		t.Errorf("doc =\n  %s\nwant\n  %s", doc, want)
	}
}

func TestPut_Upserts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, ir.Books, createTestBook("b1", "Dune")); err != nil {
		t.Fatalf("first Put() failed: %v", err)
	}
	if err := s.Put(ctx, ir.Books, createTestBook("b1", "Dune Messiah")); err != nil {
		t.Fatalf("second Put() failed: %v", err)
	}

	n, err := s.Count(ctx, ir.Books)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count() = %d, want 1", n)
	}

	rec, _, err := s.Get(ctx, ir.Books, "b1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if got := rec.Get("book_title"); got != ir.Text("Dune Messiah") {
		t.Errorf("book_title = %v, want Dune Messiah", got)
	}
}

func TestPut_MissingID(t *testing.T) {
	s := createTestStore(t)

	err := s.Put(context.Background(), ir.Books, ir.Record{"book_title": ir.Text("Dune")})
	if !errors.Is(err, ErrMissingID) {
		t.Errorf("Put() error = %v, want ErrMissingID", err)
	}
}

func TestPut_UnknownCollection(t *testing.T) {
	s := createTestStore(t)

	if err := s.Put(context.Background(), "shelves", createTestBook("b1", "Dune")); err == nil {
		t.Error("expected error for unknown collection")
	}
}

func TestPut_NumericIDUsesTextForm(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, ir.Authors, ir.Record{"_id": ir.Int(42)}); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	_, found, err := s.Get(ctx, ir.Authors, "42")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if !found {
		t.Error("record with numeric _id not found by its text form")
	}
}

func TestPutAll_Atomic(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	recs := []ir.Record{
		createTestBook("b1", "Dune"),
		{"book_title": ir.Text("no id")},
	}
	if err := s.PutAll(ctx, ir.Books, recs); err == nil {
		t.Fatal("expected PutAll() to fail")
	}

	n, err := s.Count(ctx, ir.Books)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count() = %d after failed PutAll, want 0 (rolled back)", n)
	}
}

func TestDelete(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, ir.Books, createTestBook("b1", "Dune")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	deleted, err := s.Delete(ctx, ir.Books, "b1")
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if !deleted {
		t.Error("Delete() = false, want true")
	}

	deleted, err = s.Delete(ctx, ir.Books, "b1")
	if err != nil {
		t.Fatalf("second Delete() failed: %v", err)
	}
	if deleted {
		t.Error("second Delete() = true, want false")
	}
}

func TestCollectionsAreSeparate(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, ir.Books, createTestBook("x1", "Dune")); err != nil {
		t.Fatalf("Put() failed: %v", err)
	}

	_, found, err := s.Get(ctx, ir.Authors, "x1")
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if found {
		t.Error("book record visible in authors collection")
	}
}
