package bson_test

import "testing"

// AssertNoError fails the test if err is non-nil. Adapted from the small
// hand-rolled assertion helpers the teacher package kept alongside its
// stdlib-testing test files, trimmed down to what a decode-only library's
// tests actually need (no database fixtures).
func AssertNoError(t *testing.T, err error, message string) {
	t.Helper()
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", message, err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error, message string) {
	t.Helper()
	if err == nil {
		t.Fatalf("%s: expected an error, got none", message)
	}
}

// AssertEqual fails the test if expected != actual.
func AssertEqual(t *testing.T, expected, actual interface{}, message string) {
	t.Helper()
	if expected != actual {
		t.Fatalf("%s: expected %v, got %v", message, expected, actual)
	}
}
