// Package bson is a read-only decoder for BSON, the length-prefixed binary
// document format used by MongoDB. It handles the decode direction only —
// there is no encoder in this package.
//
// # Three ways to read a document
//
// Parse decodes an entire document eagerly into a Document (a field-name to
// Value mapping):
//
//	doc, err := bson.Parse(buf)
//	name, _ := doc["name"].StringValue()
//
// PartialParse decodes only a requested set of fields, skipping the rest in
// O(1) per skipped value, and can stop as soon as every requested field has
// been found:
//
//	matcher := bson.NewFieldMatcher([]string{"_id", "name"}, true)
//	doc, err := bson.PartialParse(buf, matcher)
//
// IndexedParse builds a zero-copy index over the document — a sorted table
// of field name, type, and byte extent — and decodes values lazily on first
// access, caching the result:
//
//	view, err := bson.IndexedParse(buf)
//	age, err := view.GetInt32("age")
//
// Indexed views borrow the byte slice passed to IndexedParse. A view (and
// any nested document or array view obtained from it) must not be used after
// that slice is discarded or mutated by the caller.
//
// # Errors
//
// All decode failures are one of the typed errors in errors.go (Underflow,
// MalformedCString, MalformedString, MalformedLength, InvalidType,
// TypeMismatch, FieldNotFound, Unsupported). A decode never returns a
// partial result alongside an error.
package bson
