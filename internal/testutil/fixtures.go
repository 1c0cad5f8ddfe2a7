package testutil

import "github.com/roach88/shelf/internal/ir"

// Books returns a small book collection covering the query features:
// counts equal to 412 in either count attribute, ratings on both sides of
// 4.24, a multi-valued similar_book_urls, and a record with null/absent
// numeric attributes.
//
// Fresh records are returned on every call; tests may mutate them.
func Books() []ir.Record {
	return []ir.Record{
		{
			"_id":               ir.Text("b1"),
			"book_url":          ir.Text("https://example.org/book/1"),
			"book_title":        ir.Text("Dune"),
			"book_id":           ir.Text("234225"),
			"cover_url":         ir.Text("https://example.org/cover/1.jpg"),
			"rating_value":      ir.Float(4.28),
			"rating_count":      ir.Int(412),
			"review_count":      ir.Int(30000),
			"author_name":       ir.Text("Frank Herbert"),
			"author_url":        ir.Text("https://example.org/author/58"),
			"ISBN":              ir.Text("0441172717"),
			"similar_book_urls": ir.List{ir.Text("https://example.org/book/2"), ir.Text("https://example.org/book/3")},
		},
		{
			"_id":               ir.Text("b2"),
			"book_url":          ir.Text("https://example.org/book/2"),
			"book_title":        ir.Text("Hyperion"),
			"book_id":           ir.Text("77566"),
			"rating_value":      ir.Float(4.24),
			"rating_count":      ir.Int(15000),
			"review_count":      ir.Int(412),
			"author_name":       ir.Text("Dan Simmons"),
			"author_url":        ir.Text("https://example.org/author/2687"),
			"ISBN":              ir.Text("0553283685"),
			"similar_book_urls": ir.List{ir.Text("https://example.org/book/1")},
		},
		{
			"_id":               ir.Text("b3"),
			"book_url":          ir.Text("https://example.org/book/3"),
			"book_title":        ir.Text("The Dispossessed"),
			"book_id":           ir.Text("13651"),
			"rating_value":      ir.Float(4.21),
			"rating_count":      ir.Int(900),
			"review_count":      ir.Int(1200),
			"author_name":       ir.Text("Ursula K. Le Guin"),
			"author_url":        ir.Text("https://example.org/author/874602"),
			"ISBN":              ir.Text("0061054887"),
			"similar_book_urls": ir.List{},
		},
		{
			"_id":          ir.Text("b4"),
			"book_url":     ir.Text("https://example.org/book/4"),
			"book_title":   ir.Text("Exhalation"),
			"book_id":      ir.Text("41160292"),
			"rating_value": ir.Float(4.5),
			"rating_count": ir.Int(20000),
			"review_count": ir.Int(1500),
			"author_name":  ir.Text("Ted Chiang"),
			"author_url":   ir.Text("https://example.org/author/130311"),
		},
		{
			"_id":          ir.Text("b5"),
			"book_url":     ir.Text("https://example.org/book/5"),
			"book_title":   ir.Text("Stories of Your Life and Others"),
			"book_id":      ir.Text("223380"),
			"rating_value": ir.Float(4.28),
			"rating_count": ir.Int(7000),
			"review_count": ir.Int(700),
			"author_name":  ir.Text("Ted Chiang"),
			"author_url":   ir.Text("https://example.org/author/130311"),
		},
		{
			"_id":          ir.Text("b6"),
			"book_url":     ir.Text("https://example.org/book/6"),
			"book_title":   ir.Text("Untitled Draft"),
			"rating_value": ir.Null{},
			"author_name":  ir.Text("Anonymous"),
		},
	}
}

// Authors returns a small author collection: two "Martin" prefixes, one
// "Martin" suffix, three authors sharing author_url "aaa" with ratings on
// both sides of 4.32, and an author with null/absent counts.
func Authors() []ir.Record {
	return []ir.Record{
		{
			"_id":             ir.Text("a1"),
			"author_name":     ir.Text("Martin Fowler"),
			"author_id":       ir.Text("25215"),
			"author_url":      ir.Text("aaa"),
			"rating_value":    ir.Float(4.4),
			"rating_count":    ir.Int(412),
			"review_count":    ir.Int(12000),
			"image_url":       ir.Text("https://example.org/img/a1.jpg"),
			"related_authors": ir.List{ir.Text("Kent Beck"), ir.Text("Robert Martin")},
			"author_books":    ir.List{ir.Text("Refactoring")},
		},
		{
			"_id":             ir.Text("a2"),
			"author_name":     ir.Text("Robert Martin"),
			"author_id":       ir.Text("45372"),
			"author_url":      ir.Text("aaa"),
			"rating_value":    ir.Float(4.2),
			"rating_count":    ir.Int(9000),
			"review_count":    ir.Int(600),
			"related_authors": ir.List{ir.Text("Martin Fowler")},
			"author_books":    ir.List{ir.Text("Clean Code"), ir.Text("Clean Architecture")},
		},
		{
			"_id":             ir.Text("a3"),
			"author_name":     ir.Text("Ursula K. Le Guin"),
			"author_id":       ir.Text("874602"),
			"author_url":      ir.Text("https://example.org/author/874602"),
			"rating_value":    ir.Float(4.5),
			"rating_count":    ir.Int(1500),
			"review_count":    ir.Int(412),
			"related_authors": ir.List{},
			"author_books":    ir.List{ir.Text("The Dispossessed"), ir.Text("The Left Hand of Darkness")},
		},
		{
			"_id":          ir.Text("a4"),
			"author_name":  ir.Text("Ted Chiang"),
			"author_id":    ir.Text("130311"),
			"author_url":   ir.Text("aaa"),
			"rating_value": ir.Float(4.33),
			"rating_count": ir.Null{},
			"author_books": ir.List{ir.Text("Exhalation"), ir.Text("Stories of Your Life and Others")},
		},
		{
			"_id":          ir.Text("a5"),
			"author_name":  ir.Text("Martina Cole"),
			"author_id":    ir.Text("20591"),
			"author_url":   ir.Text("https://example.org/author/20591"),
			"rating_value": ir.Float(3.9),
			"rating_count": ir.Int(412),
			"review_count": ir.Int(2500),
		},
	}
}

// Records returns the fixture collection for c, or nil for an unknown collection.
func Records(c ir.Collection) []ir.Record {
	switch c {
	case ir.Books:
		return Books()
	case ir.Authors:
		return Authors()
	default:
		return nil
	}
}

// IDs returns the _id of each record, in order.
func IDs(recs []ir.Record) []string {
	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID()
	}
	return ids
}
