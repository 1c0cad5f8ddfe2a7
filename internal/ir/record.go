package ir

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"slices"
)

// IDAttribute is the identity attribute shared by both collections.
const IDAttribute = "_id"

// Record is a single book or author document keyed by attribute name.
type Record map[string]Value

// ID returns the record identity (the text form of _id).
// Returns "" when _id is absent or null.
func (r Record) ID() string {
	v, ok := r[IDAttribute]
	if !ok || IsNull(v) {
		return ""
	}
	return v.Text()
}

// Get returns the attribute value, or nil when the attribute is absent.
func (r Record) Get(attr string) Value {
	return r[attr]
}

// SortedKeys returns the attribute names in byte order.
func (r Record) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// UnmarshalJSON decodes a JSON object, preserving the Int/Float distinction
// of numeric literals.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	rec, err := RecordFromMap(raw)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}

// RecordFromMap converts a generic decoded object into a Record.
func RecordFromMap(raw map[string]any) (Record, error) {
	rec := make(Record, len(raw))
	for k, v := range raw {
		val, err := FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		rec[k] = val
	}
	return rec, nil
}

// DecodeRecords reads either a single JSON object or an array of objects.
func DecodeRecords(r io.Reader) ([]Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("decode records: empty input")
	}

	if data[0] == '{' {
		var rec Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		return []Record{rec}, nil
	}

	var recs []Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return recs, nil
}

// DecodeValue decodes a single JSON value (as stored by the record store).
func DecodeValue(data []byte) (Value, error) {
	return decodeValue(data)
}
