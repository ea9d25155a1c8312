package bson

import "fmt"

// UnderflowError reports an attempted read past the end of the input slice.
type UnderflowError struct {
	Offset    int // position at which the read was attempted
	Needed    int // bytes required
	Remaining int // bytes actually available
}

func (e *UnderflowError) Error() string {
	return fmt.Sprintf("bson: underflow at offset %d: need %d bytes, have %d", e.Offset, e.Needed, e.Remaining)
}

// MalformedCStringError reports a C-string with no terminating 0x00 before
// the end of the slice.
type MalformedCStringError struct {
	Offset int // offset the scan started at
}

func (e *MalformedCStringError) Error() string {
	return fmt.Sprintf("bson: unterminated cstring starting at offset %d", e.Offset)
}

// MalformedStringError reports a BSON string whose length prefix or
// terminator byte is invalid.
type MalformedStringError struct {
	Offset int   // offset of the length prefix
	Length int32 // the length that was read
}

func (e *MalformedStringError) Error() string {
	return fmt.Sprintf("bson: malformed string at offset %d: length %d", e.Offset, e.Length)
}

// MalformedLengthError reports a document or array whose declared
// totalLength is inconsistent with the bytes actually walked.
type MalformedLengthError struct {
	Offset   int // offset of the length prefix
	Declared int // the length the document/array declared
	Measured int // the length actually measured, or -1 if unknown
}

func (e *MalformedLengthError) Error() string {
	return fmt.Sprintf("bson: malformed length at offset %d: declared %d, measured %d", e.Offset, e.Declared, e.Measured)
}

// InvalidTypeError reports a type byte outside the known 21-value set at a
// position where a type byte was expected.
type InvalidTypeError struct {
	Offset int  // offset of the type byte
	Byte   byte // the offending byte
}

func (e *InvalidTypeError) Error() string {
	return fmt.Sprintf("bson: invalid type byte 0x%02X at offset %d", e.Byte, e.Offset)
}

// TypeMismatchError reports a typed getter invoked on a field whose stored
// type cannot be narrowed to the requested type.
type TypeMismatchError struct {
	Field     string
	Requested Type
	Actual    Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("bson: field %q has type %s, not %s", e.Field, e.Actual, e.Requested)
}

// FieldNotFoundError reports a typed getter without a default value invoked
// on a field that is not present in the document.
type FieldNotFoundError struct {
	Field string
}

func (e *FieldNotFoundError) Error() string {
	return fmt.Sprintf("bson: field %q not found", e.Field)
}

// UnsupportedError reports an operation requested on a type the
// implementation deliberately does not support, such as JSON rendering of a
// Decimal128 or Regex value.
type UnsupportedError struct {
	Op   string
	Type Type
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("bson: %s not supported for type %s", e.Op, e.Type)
}
