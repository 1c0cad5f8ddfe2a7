// Package ir provides the record and schema types shared by every other
// package.
//
// ir imports nothing internal. Values are a sealed union (Null, Text, Int,
// Float, List); records are attribute maps keyed by name; schemas are closed
// per-collection attribute lists returned as fresh values.
//
// Key constraints:
//   - Text values are NFC normalized at construction (NewText)
//   - Floats keep a ".0" suffix in JSON so Int and Float survive a round trip
//   - Value.Text is the only numeric-to-text conversion used for pattern scans
package ir
