package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/shelf/internal/ir"
)

// ErrInvalidRecord is returned when an imported record cannot be normalized.
var ErrInvalidRecord = errors.New("invalid record")

// integralAttributes are numeric attributes stored as Int; every other
// numeric attribute is stored as Float.
var integralAttributes = map[string]bool{
	"rating_count": true,
	"review_count": true,
}

// ImportOptions controls Import.
type ImportOptions struct {
	// Strict rejects records that miss a schema attribute or carry one the
	// schema does not define.
	Strict bool
}

// ImportResult summarizes an import.
type ImportResult struct {
	// Imported is the number of records written.
	Imported int
	// AssignedIDs is the number of records that had no _id and got a fresh one.
	AssignedIDs int
}

// Normalize prepares a raw record for storage:
//   - a missing or null _id is replaced by one from ids (UUIDv7 when nil)
//   - numeric attributes held as text ("173,245") are parsed, separators
//     stripped; counts become Int and everything else Float
//   - empty numeric text becomes null
//
// The input record is not modified. assigned reports whether an _id was
// generated.
func Normalize(schema ir.Schema, rec ir.Record, strict bool, ids IDGenerator) (out ir.Record, assigned bool, err error) {
	if strict {
		if err := checkStrict(schema, rec); err != nil {
			return nil, false, err
		}
	}

	out = make(ir.Record, len(rec))
	for k, v := range rec {
		out[k] = v
	}

	if out.ID() == "" {
		if ids == nil {
			ids = UUIDv7Generator{}
		}
		out[ir.IDAttribute] = ir.Text(ids.Generate())
		assigned = true
	}

	for _, attr := range schema.Attributes {
		if attr.Domain != ir.DomainNumeric {
			continue
		}
		v, ok := out[attr.Name]
		if !ok || ir.IsNull(v) {
			continue
		}
		n, err := normalizeNumber(attr.Name, v)
		if err != nil {
			return nil, false, fmt.Errorf("%w: record %q: %v", ErrInvalidRecord, out.ID(), err)
		}
		out[attr.Name] = n
	}

	return out, assigned, nil
}

func normalizeNumber(attr string, v ir.Value) (ir.Value, error) {
	var f float64
	switch val := v.(type) {
	case ir.Int:
		if integralAttributes[attr] {
			return val, nil
		}
		return ir.Float(val), nil
	case ir.Float:
		f = float64(val)
	case ir.Text:
		cleaned := strings.TrimSpace(strings.ReplaceAll(string(val), ",", ""))
		if cleaned == "" {
			return ir.Null{}, nil
		}
		parsed, err := strconv.ParseFloat(cleaned, 64)
		if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
			return nil, fmt.Errorf("attribute %q: %q is not a number", attr, string(val))
		}
		f = parsed
	default:
		return nil, fmt.Errorf("attribute %q: expected a number, got %T", attr, v)
	}

	if integralAttributes[attr] && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return ir.Int(int64(f)), nil
	}
	return ir.Float(f), nil
}

func checkStrict(schema ir.Schema, rec ir.Record) error {
	var missing, extra []string
	for _, name := range schema.Names() {
		if name == ir.IDAttribute {
			continue
		}
		if _, ok := rec[name]; !ok {
			missing = append(missing, name)
		}
	}
	for _, name := range rec.SortedKeys() {
		if _, ok := schema.Lookup(name); !ok {
			extra = append(extra, name)
		}
	}
	if len(missing) == 0 && len(extra) == 0 {
		return nil
	}

	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing "+strings.Join(missing, ", "))
	}
	if len(extra) > 0 {
		parts = append(parts, "unknown "+strings.Join(extra, ", "))
	}
	return fmt.Errorf("%w: record %q: %s", ErrInvalidRecord, rec.ID(), strings.Join(parts, "; "))
}

// Import reads a JSON object or array of objects, normalizes every record
// and upserts them in one transaction. Nothing is written if any record
// fails normalization.
func (s *Store) Import(ctx context.Context, coll ir.Collection, r io.Reader, opts ImportOptions) (ImportResult, error) {
	schema, err := ir.SchemaFor(coll)
	if err != nil {
		return ImportResult{}, err
	}

	raw, err := ir.DecodeRecords(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("import %s: %w", coll, err)
	}

	var result ImportResult
	recs := make([]ir.Record, 0, len(raw))
	for i, rec := range raw {
		norm, assigned, err := Normalize(schema, rec, opts.Strict, s.ids)
		if err != nil {
			return ImportResult{}, fmt.Errorf("import %s: record %d: %w", coll, i, err)
		}
		if assigned {
			result.AssignedIDs++
		}
		recs = append(recs, norm)
	}

	if err := s.PutAll(ctx, coll, recs); err != nil {
		return ImportResult{}, fmt.Errorf("import %s: %w", coll, err)
	}
	result.Imported = len(recs)

	s.logger.Info("imported records",
		"collection", coll,
		"imported", result.Imported,
		"assigned_ids", result.AssignedIDs)

	return result, nil
}

// Export writes every record of a collection as an indented JSON array,
// ordered by id. Returns the number of records written.
func (s *Store) Export(ctx context.Context, coll ir.Collection, w io.Writer) (int, error) {
	recs, err := s.ReadAll(ctx, coll)
	if err != nil {
		return 0, fmt.Errorf("export %s: %w", coll, err)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(recs); err != nil {
		return 0, fmt.Errorf("export %s: %w", coll, err)
	}

	s.logger.Info("exported records", "collection", coll, "count", len(recs))
	return len(recs), nil
}

// ExportFileName is the dump file name for a collection: "book_db.json"
// or "author_db.json".
func ExportFileName(coll ir.Collection) string {
	return string(coll) + "_db.json"
}

// ExportTargets resolves "book", "author" or "all" into collections.
func ExportTargets(choice string) ([]ir.Collection, error) {
	if choice == "all" {
		return slices.Clone(ir.Collections), nil
	}
	c, err := ir.ParseCollection(choice)
	if err != nil {
		return nil, err
	}
	return []ir.Collection{c}, nil
}
