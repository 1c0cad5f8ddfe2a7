package ir

import "fmt"

// Collection names a record collection.
type Collection string

const (
	// Books is the "book" collection.
	Books Collection = "book"
	// Authors is the "author" collection.
	Authors Collection = "author"
)

// Collections lists every collection in declaration order.
var Collections = []Collection{Books, Authors}

// ParseCollection validates a collection tag. Matching is exact and case-sensitive.
func ParseCollection(s string) (Collection, error) {
	switch Collection(s) {
	case Books:
		return Books, nil
	case Authors:
		return Authors, nil
	default:
		return "", fmt.Errorf("unknown collection %q: must be %q or %q", s, Books, Authors)
	}
}

// Domain is the value domain of an attribute.
type Domain string

const (
	// DomainText attributes hold strings (or lists of strings when Multi).
	DomainText Domain = "text"
	// DomainNumeric attributes hold Int or Float values.
	DomainNumeric Domain = "numeric"
)

// Attribute describes one schema attribute.
type Attribute struct {
	Name   string `json:"name"`
	Domain Domain `json:"domain"`
	// Multi marks list-valued attributes; equality matches any element.
	Multi bool `json:"multi,omitempty"`
}

// Schema is the closed, ordered attribute set of a collection.
type Schema struct {
	Collection Collection  `json:"collection"`
	Attributes []Attribute `json:"attributes"`
}

// Lookup finds an attribute by exact name.
func (s Schema) Lookup(name string) (Attribute, bool) {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Names returns the attribute names in schema order.
func (s Schema) Names() []string {
	names := make([]string, len(s.Attributes))
	for i, a := range s.Attributes {
		names[i] = a.Name
	}
	return names
}

// Select returns the attributes accepted by match, in schema order.
func (s Schema) Select(match func(name string) bool) []Attribute {
	var out []Attribute
	for _, a := range s.Attributes {
		if match(a.Name) {
			out = append(out, a)
		}
	}
	return out
}

func text(name string) Attribute    { return Attribute{Name: name, Domain: DomainText} }
func numeric(name string) Attribute { return Attribute{Name: name, Domain: DomainNumeric} }
func list(name string) Attribute    { return Attribute{Name: name, Domain: DomainText, Multi: true} }

// BookSchema returns the book attribute schema.
// A fresh value is returned on every call so callers cannot mutate shared state.
func BookSchema() Schema {
	return Schema{
		Collection: Books,
		Attributes: []Attribute{
			text("_id"),
			text("book_url"),
			text("book_title"),
			text("cover_url"),
			numeric("rating_value"),
			text("book_id"),
			numeric("rating_count"),
			numeric("review_count"),
			text("author_name"),
			text("author_url"),
			text("ISBN"),
			list("similar_book_urls"),
		},
	}
}

// AuthorSchema returns the author attribute schema.
func AuthorSchema() Schema {
	return Schema{
		Collection: Authors,
		Attributes: []Attribute{
			text("_id"),
			text("author_name"),
			text("author_id"),
			text("author_url"),
			numeric("rating_count"),
			numeric("review_count"),
			numeric("rating_value"),
			text("image_url"),
			list("related_authors"),
			list("author_books"),
		},
	}
}

// SchemaFor returns the schema of a collection.
func SchemaFor(c Collection) (Schema, error) {
	switch c {
	case Books:
		return BookSchema(), nil
	case Authors:
		return AuthorSchema(), nil
	default:
		return Schema{}, fmt.Errorf("no schema for collection %q", c)
	}
}
