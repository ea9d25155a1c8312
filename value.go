package bson

import "go.mongodb.org/mongo-driver/bson/primitive"

// Value is a decoded BSON value. Exactly one of its typed fields is
// meaningful, selected by Type. Strings and all fixed-size primitives are
// copied out of the source buffer by construction (Go's string conversion
// from a byte slice always copies), so they remain valid after the input
// slice is discarded or reused. Binary is the one exception: its Data field
// is a slice view directly into the buffer the Value was decoded from, for
// both eager and indexed decoding, matching this package's documented
// binary-lifetime policy (see DESIGN.md) — a caller that needs a Binary
// value to outlive the input must copy Data itself.
//
// An IndexedDocument's decoded values are independent in the same way once
// produced: only the IndexedDocument itself, and any Binary.Data obtained
// through it, borrow the backing slice.
//
// BSON's undefined and symbol types are accepted for compatibility: a
// decoded undefined collapses to Type == TypeNull, and a decoded symbol
// collapses to Type == TypeString.
type Value struct {
	typ Type

	boolVal   bool
	int32Val  int32
	int64Val  int64
	floatVal  float64
	stringVal string

	binary    primitive.Binary
	objectID  primitive.ObjectID
	datetime  primitive.DateTime
	timestamp primitive.Timestamp
	decimal   primitive.Decimal128
	regex     primitive.Regex
	dbPointer primitive.DBPointer
	code      primitive.CodeWithScope

	doc Document
	arr Array
}

// Type returns the decoded value's BSON type. For undefined and symbol
// source values this returns TypeNull and TypeString respectively, per this
// package's compatibility collapsing.
func (v Value) Type() Type { return v.typ }

// IsNull reports whether v decoded from a BSON null (or undefined) value.
func (v Value) IsNull() bool { return v.typ == TypeNull }

func NullValue() Value { return Value{typ: TypeNull} }

func BooleanValue(b bool) Value { return Value{typ: TypeBoolean, boolVal: b} }

func Int32Value(i int32) Value { return Value{typ: TypeInt32, int32Val: i} }

func Int64Value(i int64) Value { return Value{typ: TypeInt64, int64Val: i} }

func DoubleValue(f float64) Value { return Value{typ: TypeDouble, floatVal: f} }

func StringValue(s string) Value { return Value{typ: TypeString, stringVal: s} }

func DateTimeValue(ms int64) Value {
	return Value{typ: TypeDateTime, datetime: primitive.DateTime(ms)}
}

func BinaryValue(subtype byte, data []byte) Value {
	return Value{typ: TypeBinary, binary: primitive.Binary{Subtype: subtype, Data: data}}
}

func ObjectIDValue(id primitive.ObjectID) Value { return Value{typ: TypeObjectID, objectID: id} }

func TimestampValue(seconds, increment uint32) Value {
	return Value{typ: TypeTimestamp, timestamp: primitive.Timestamp{T: seconds, I: increment}}
}

func Decimal128Value(d primitive.Decimal128) Value { return Value{typ: TypeDecimal128, decimal: d} }

func RegexValue(pattern, options string) Value {
	return Value{typ: TypeRegex, regex: primitive.Regex{Pattern: pattern, Options: options}}
}

func DBPointerValue(ns string, id primitive.ObjectID) Value {
	return Value{typ: TypeDBPointer, dbPointer: primitive.DBPointer{DB: ns, Pointer: id}}
}

func CodeWithScopeValue(code string, scope Document) Value {
	return Value{typ: TypeJavaScriptWithScope, code: primitive.CodeWithScope{
		Code:  primitive.JavaScript(code),
		Scope: scope,
	}}
}

func JavaScriptValue(code string) Value { return Value{typ: TypeJavaScript, stringVal: code} }

func DocumentValue(d Document) Value { return Value{typ: TypeDocument, doc: d} }

func ArrayValue(a Array) Value { return Value{typ: TypeArray, arr: a} }

func MinKeyValue() Value { return Value{typ: TypeMinKey} }

func MaxKeyValue() Value { return Value{typ: TypeMaxKey} }

func (v Value) typeMismatch(want Type) error {
	return &TypeMismatchError{Requested: want, Actual: v.typ}
}

// BooleanValue returns v's boolean payload, or TypeMismatchError if v is not
// a boolean.
func (v Value) BooleanValue() (bool, error) {
	if v.typ != TypeBoolean {
		return false, v.typeMismatch(TypeBoolean)
	}
	return v.boolVal, nil
}

func (v Value) Int32ValueOK() (int32, error) {
	if v.typ != TypeInt32 {
		return 0, v.typeMismatch(TypeInt32)
	}
	return v.int32Val, nil
}

func (v Value) Int64ValueOK() (int64, error) {
	if v.typ != TypeInt64 {
		return 0, v.typeMismatch(TypeInt64)
	}
	return v.int64Val, nil
}

func (v Value) DoubleValueOK() (float64, error) {
	if v.typ != TypeDouble {
		return 0, v.typeMismatch(TypeDouble)
	}
	return v.floatVal, nil
}

// StringValue returns v's string payload. It accepts both TypeString and
// TypeJavaScript/TypeSymbol-derived values, all of which store their
// payload as stringVal.
func (v Value) StringValue() (string, error) {
	switch v.typ {
	case TypeString, TypeJavaScript:
		return v.stringVal, nil
	default:
		return "", v.typeMismatch(TypeString)
	}
}

func (v Value) DateTimeValue() (int64, error) {
	if v.typ != TypeDateTime {
		return 0, v.typeMismatch(TypeDateTime)
	}
	return int64(v.datetime), nil
}

func (v Value) BinaryValue() (primitive.Binary, error) {
	if v.typ != TypeBinary {
		return primitive.Binary{}, v.typeMismatch(TypeBinary)
	}
	return v.binary, nil
}

func (v Value) ObjectIDValue() (primitive.ObjectID, error) {
	if v.typ != TypeObjectID {
		return primitive.ObjectID{}, v.typeMismatch(TypeObjectID)
	}
	return v.objectID, nil
}

func (v Value) TimestampValue() (primitive.Timestamp, error) {
	if v.typ != TypeTimestamp {
		return primitive.Timestamp{}, v.typeMismatch(TypeTimestamp)
	}
	return v.timestamp, nil
}

func (v Value) Decimal128Value() (primitive.Decimal128, error) {
	if v.typ != TypeDecimal128 {
		return primitive.Decimal128{}, v.typeMismatch(TypeDecimal128)
	}
	return v.decimal, nil
}

func (v Value) RegexValue() (primitive.Regex, error) {
	if v.typ != TypeRegex {
		return primitive.Regex{}, v.typeMismatch(TypeRegex)
	}
	return v.regex, nil
}

func (v Value) DBPointerValue() (primitive.DBPointer, error) {
	if v.typ != TypeDBPointer {
		return primitive.DBPointer{}, v.typeMismatch(TypeDBPointer)
	}
	return v.dbPointer, nil
}

func (v Value) CodeWithScopeValue() (primitive.CodeWithScope, error) {
	if v.typ != TypeJavaScriptWithScope {
		return primitive.CodeWithScope{}, v.typeMismatch(TypeJavaScriptWithScope)
	}
	return v.code, nil
}

func (v Value) DocumentValue() (Document, error) {
	if v.typ != TypeDocument {
		return nil, v.typeMismatch(TypeDocument)
	}
	return v.doc, nil
}

func (v Value) ArrayValue() (Array, error) {
	if v.typ != TypeArray {
		return nil, v.typeMismatch(TypeArray)
	}
	return v.arr, nil
}

// Interface returns v's payload boxed as interface{}. BSON-specific variants
// come back as the official driver's primitive.* types, so callers that
// already work with them see familiar types; javascript comes back as a
// plain string, and documents and arrays as this package's Document and
// Array.
func (v Value) Interface() interface{} {
	switch v.typ {
	case TypeNull:
		return nil
	case TypeBoolean:
		return v.boolVal
	case TypeInt32:
		return v.int32Val
	case TypeInt64:
		return v.int64Val
	case TypeDouble:
		return v.floatVal
	case TypeString, TypeJavaScript:
		return v.stringVal
	case TypeDateTime:
		return v.datetime
	case TypeBinary:
		return v.binary
	case TypeObjectID:
		return v.objectID
	case TypeTimestamp:
		return v.timestamp
	case TypeDecimal128:
		return v.decimal
	case TypeRegex:
		return v.regex
	case TypeDBPointer:
		return v.dbPointer
	case TypeJavaScriptWithScope:
		return v.code
	case TypeDocument:
		return v.doc
	case TypeArray:
		return v.arr
	case TypeMinKey:
		return primitive.MinKey{}
	case TypeMaxKey:
		return primitive.MaxKey{}
	default:
		return nil
	}
}

// Document is the result of an eager decode: a field-name to Value mapping
// with no particular iteration order, matching the BSON wire format's own
// lack of an ordering guarantee at the API level.
type Document map[string]Value

// Array is the result of an eager decode of a BSON array: values in wire
// order. Non-contiguous or out-of-order numeric-string field names do not
// raise an error; the array preserves wire order instead of attempting to
// honor the gaps (see the Open Questions in DESIGN.md).
type Array []Value
