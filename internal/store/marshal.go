package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/shelf/internal/ir"
)

// marshalRecord converts a record to JSON TEXT for storage.
// Keys are sorted (json.Marshal sorts map keys) and HTML escaping is
// disabled so stored documents read exactly like their input.
func marshalRecord(rec ir.Record) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(rec); err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalRecord parses stored JSON TEXT back into a record.
// ir.Record.UnmarshalJSON keeps integral literals as Int and the rest as Float.
func unmarshalRecord(doc string) (ir.Record, error) {
	if doc == "" {
		return ir.Record{}, nil
	}
	var rec ir.Record
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("unmarshal record: %w", err)
	}
	return rec, nil
}
