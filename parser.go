package bson

import "go.mongodb.org/mongo-driver/bson/primitive"

// decodeFunc decodes one value of a known type from a Reader positioned at
// its start, consuming exactly that value's bytes.
type decodeFunc func(r *Reader) (Value, error)

// sizeFunc computes a value's on-wire size without decoding it, reading
// only the length prefix where one exists. offset is the position of the
// value's first byte (after the type byte and field name).
type sizeFunc func(buf []byte, offset int) (int, error)

// decoders and sizers are 256-entry dispatch tables built once at init and
// never mutated afterwards; entries for unused byte values are left nil and
// produce InvalidTypeError on lookup. Document and array parsers close over
// decodeDocument/decodeArray (defined in document.go), which call back into
// dispatch for each field — the recursive dependency between "dispatch a
// value" and "decode a document of values" is resolved here, once, at
// package init instead of through a runtime-registered interface.
var decoders [256]decodeFunc
var sizers [256]sizeFunc

func init() {
	decoders[TypeDouble] = decodeDouble
	decoders[TypeString] = decodeString
	decoders[TypeDocument] = decodeDocumentValue
	decoders[TypeArray] = decodeArrayValue
	decoders[TypeBinary] = decodeBinary
	decoders[TypeUndefined] = decodeUndefined
	decoders[TypeObjectID] = decodeObjectID
	decoders[TypeBoolean] = decodeBoolean
	decoders[TypeDateTime] = decodeDateTime
	decoders[TypeNull] = decodeNull
	decoders[TypeRegex] = decodeRegex
	decoders[TypeDBPointer] = decodeDBPointer
	decoders[TypeJavaScript] = decodeJavaScript
	decoders[TypeSymbol] = decodeSymbol
	decoders[TypeJavaScriptWithScope] = decodeCodeWithScope
	decoders[TypeInt32] = decodeInt32
	decoders[TypeTimestamp] = decodeTimestamp
	decoders[TypeInt64] = decodeInt64
	decoders[TypeDecimal128] = decodeDecimal128
	decoders[TypeMinKey] = decodeMinKey
	decoders[TypeMaxKey] = decodeMaxKey

	sizers[TypeDouble] = fixedSizer(8)
	sizers[TypeString] = lengthPrefixedSizer
	sizers[TypeDocument] = nestedDocSizer
	sizers[TypeArray] = nestedDocSizer
	sizers[TypeBinary] = binarySizer
	sizers[TypeUndefined] = fixedSizer(0)
	sizers[TypeObjectID] = fixedSizer(12)
	sizers[TypeBoolean] = fixedSizer(1)
	sizers[TypeDateTime] = fixedSizer(8)
	sizers[TypeNull] = fixedSizer(0)
	sizers[TypeRegex] = regexSizer
	sizers[TypeDBPointer] = dbPointerSizer
	sizers[TypeJavaScript] = lengthPrefixedSizer
	sizers[TypeSymbol] = lengthPrefixedSizer
	sizers[TypeJavaScriptWithScope] = nestedDocSizer
	sizers[TypeInt32] = fixedSizer(4)
	sizers[TypeTimestamp] = fixedSizer(8)
	sizers[TypeInt64] = fixedSizer(8)
	sizers[TypeDecimal128] = fixedSizer(16)
	sizers[TypeMinKey] = fixedSizer(0)
	sizers[TypeMaxKey] = fixedSizer(0)
}

// dispatch decodes one value of type t from r, the single dispatch surface
// every decode path (eager, partial, indexed) goes through.
func dispatch(r *Reader, t Type) (Value, error) {
	fn := decoders[t]
	if fn == nil {
		return Value{}, &InvalidTypeError{Offset: r.pos - 1, Byte: byte(t)}
	}
	return fn(r)
}

// getValueSize computes the on-wire size of a value of type t starting at
// offset in buf, without decoding it. This is what the IndexedDocument
// builder uses to advance past every field while indexing.
func getValueSize(buf []byte, offset int, t Type) (int, error) {
	if size, fixed := isFixedSize(t); fixed {
		if offset > len(buf) {
			return 0, &UnderflowError{Offset: offset, Needed: size, Remaining: 0}
		}
		return size, nil
	}
	fn := sizers[t]
	if fn == nil {
		return 0, &InvalidTypeError{Offset: offset - 1, Byte: byte(t)}
	}
	return fn(buf, offset)
}

func fixedSizer(n int) sizeFunc {
	return func(buf []byte, offset int) (int, error) { return n, nil }
}

func readInt32At(buf []byte, offset int) (int32, error) {
	if offset+4 > len(buf) {
		return 0, &UnderflowError{Offset: offset, Needed: 4, Remaining: len(buf) - offset}
	}
	b := buf[offset : offset+4]
	return int32(uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24), nil
}

func lengthPrefixedSizer(buf []byte, offset int) (int, error) {
	l, err := readInt32At(buf, offset)
	if err != nil {
		return 0, err
	}
	if l < 1 {
		return 0, &MalformedStringError{Offset: offset, Length: l}
	}
	size := 4 + int(l)
	if offset+size > len(buf) {
		return 0, &UnderflowError{Offset: offset, Needed: size, Remaining: len(buf) - offset}
	}
	return size, nil
}

func binarySizer(buf []byte, offset int) (int, error) {
	l, err := readInt32At(buf, offset)
	if err != nil {
		return 0, err
	}
	if l < 0 {
		return 0, &MalformedLengthError{Offset: offset, Declared: int(l), Measured: -1}
	}
	size := 4 + 1 + int(l)
	if offset+size > len(buf) {
		return 0, &UnderflowError{Offset: offset, Needed: size, Remaining: len(buf) - offset}
	}
	return size, nil
}

func nestedDocSizer(buf []byte, offset int) (int, error) {
	l, err := readInt32At(buf, offset)
	if err != nil {
		return 0, err
	}
	if l < 5 {
		return 0, &MalformedLengthError{Offset: offset, Declared: int(l), Measured: -1}
	}
	if offset+int(l) > len(buf) {
		return 0, &UnderflowError{Offset: offset, Needed: int(l), Remaining: len(buf) - offset}
	}
	return int(l), nil
}

func regexSizer(buf []byte, offset int) (int, error) {
	end := offset
	for i := 0; i < 2; i++ {
		for end < len(buf) && buf[end] != 0x00 {
			end++
		}
		if end >= len(buf) {
			return 0, &MalformedCStringError{Offset: offset}
		}
		end++
	}
	return end - offset, nil
}

func dbPointerSizer(buf []byte, offset int) (int, error) {
	l, err := readInt32At(buf, offset)
	if err != nil {
		return 0, err
	}
	if l < 1 {
		return 0, &MalformedStringError{Offset: offset, Length: l}
	}
	size := 4 + int(l) + 12
	if offset+size > len(buf) {
		return 0, &UnderflowError{Offset: offset, Needed: size, Remaining: len(buf) - offset}
	}
	return size, nil
}

// --- per-type decoders ---

func decodeDouble(r *Reader) (Value, error) {
	f, err := r.ReadDouble()
	if err != nil {
		return Value{}, err
	}
	return DoubleValue(f), nil
}

func decodeString(r *Reader) (Value, error) {
	s, err := r.ReadString()
	if err != nil {
		return Value{}, err
	}
	return StringValue(s), nil
}

func decodeDocumentValue(r *Reader) (Value, error) {
	d, err := decodeDocument(r)
	if err != nil {
		return Value{}, err
	}
	return DocumentValue(d), nil
}

func decodeArrayValue(r *Reader) (Value, error) {
	a, err := decodeArray(r)
	if err != nil {
		return Value{}, err
	}
	return ArrayValue(a), nil
}

func decodeBinary(r *Reader) (Value, error) {
	lenOffset := r.pos
	l, err := r.ReadInt32()
	if err != nil {
		return Value{}, err
	}
	if l < 0 {
		return Value{}, &MalformedLengthError{Offset: lenOffset, Declared: int(l), Measured: -1}
	}
	subtype, err := r.ReadByte()
	if err != nil {
		return Value{}, err
	}
	// The old binary subtype (0x02) is followed by a redundant, internal
	// int32 length equal to l-4. It is consumed but not re-validated
	// strictly; a mismatch is tolerated the way long-lived BSON readers do
	// for this legacy subtype.
	if subtype == 0x02 && l >= 4 {
		if _, err := r.ReadInt32(); err != nil {
			return Value{}, err
		}
		l -= 4
	}
	data, err := r.ReadBytes(int(l))
	if err != nil {
		return Value{}, err
	}
	return BinaryValue(subtype, data), nil
}

func decodeUndefined(r *Reader) (Value, error) {
	return NullValue(), nil
}

func decodeObjectID(r *Reader) (Value, error) {
	b, err := r.ReadBytes(12)
	if err != nil {
		return Value{}, err
	}
	var id primitive.ObjectID
	copy(id[:], b)
	return ObjectIDValue(id), nil
}

func decodeBoolean(r *Reader) (Value, error) {
	b, err := r.ReadByte()
	if err != nil {
		return Value{}, err
	}
	return BooleanValue(b != 0), nil
}

func decodeDateTime(r *Reader) (Value, error) {
	ms, err := r.ReadInt64()
	if err != nil {
		return Value{}, err
	}
	return DateTimeValue(ms), nil
}

func decodeNull(r *Reader) (Value, error) {
	return NullValue(), nil
}

func decodeRegex(r *Reader) (Value, error) {
	pattern, err := r.ReadCString()
	if err != nil {
		return Value{}, err
	}
	options, err := r.ReadCString()
	if err != nil {
		return Value{}, err
	}
	return RegexValue(pattern, options), nil
}

func decodeDBPointer(r *Reader) (Value, error) {
	ns, err := r.ReadString()
	if err != nil {
		return Value{}, err
	}
	b, err := r.ReadBytes(12)
	if err != nil {
		return Value{}, err
	}
	var id primitive.ObjectID
	copy(id[:], b)
	return DBPointerValue(ns, id), nil
}

func decodeJavaScript(r *Reader) (Value, error) {
	s, err := r.ReadString()
	if err != nil {
		return Value{}, err
	}
	return JavaScriptValue(s), nil
}

func decodeSymbol(r *Reader) (Value, error) {
	s, err := r.ReadString()
	if err != nil {
		return Value{}, err
	}
	return StringValue(s), nil
}

func decodeCodeWithScope(r *Reader) (Value, error) {
	start := r.pos
	total, err := r.ReadInt32()
	if err != nil {
		return Value{}, err
	}
	code, err := r.ReadString()
	if err != nil {
		return Value{}, err
	}
	scope, err := decodeDocument(r)
	if err != nil {
		return Value{}, err
	}
	if r.pos != start+int(total) {
		return Value{}, &MalformedLengthError{Offset: start, Declared: int(total), Measured: r.pos - start}
	}
	return CodeWithScopeValue(code, scope), nil
}

func decodeInt32(r *Reader) (Value, error) {
	i, err := r.ReadInt32()
	if err != nil {
		return Value{}, err
	}
	return Int32Value(i), nil
}

func decodeTimestamp(r *Reader) (Value, error) {
	raw, err := r.ReadInt64()
	if err != nil {
		return Value{}, err
	}
	u := uint64(raw)
	// This package takes the low 32 bits as the seconds and the high 32
	// bits as the increment (see DESIGN.md's note on the timestamp split);
	// the official driver's primitive.Timestamp puts T in the high half.
	return TimestampValue(uint32(u), uint32(u>>32)), nil
}

func decodeInt64(r *Reader) (Value, error) {
	i, err := r.ReadInt64()
	if err != nil {
		return Value{}, err
	}
	return Int64Value(i), nil
}

func decodeDecimal128(r *Reader) (Value, error) {
	lo, err := r.ReadInt64()
	if err != nil {
		return Value{}, err
	}
	hi, err := r.ReadInt64()
	if err != nil {
		return Value{}, err
	}
	return Decimal128Value(primitive.NewDecimal128(uint64(hi), uint64(lo))), nil
}

func decodeMinKey(r *Reader) (Value, error) { return MinKeyValue(), nil }
func decodeMaxKey(r *Reader) (Value, error) { return MaxKeyValue(), nil }
