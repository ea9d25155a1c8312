package bson

// skipValue advances r past one value of the given type without decoding
// it. For fixed-length types this is a single bounds-checked skip. For the
// length-prefixed types (string, javascript, symbol, binary, dbPointer,
// document, array, javascriptWithScope) it reads only the length prefix
// and skips the rest in one call — in particular, for document, array, and
// javascriptWithScope, the length prefix already covers the entire nested
// value, so a nested subtree of any depth is skipped in O(1) without ever
// recursing into it. Regex has no length prefix and is skipped by scanning
// two cstrings.
func skipValue(r *Reader, t Type) error {
	if size, fixed := isFixedSize(t); fixed {
		return r.Skip(size)
	}

	switch t {
	case TypeString, TypeJavaScript, TypeSymbol:
		l, err := r.ReadInt32()
		if err != nil {
			return err
		}
		if l < 0 {
			return &MalformedStringError{Offset: r.pos - 4, Length: l}
		}
		return r.Skip(int(l))

	case TypeDBPointer:
		// A namespace string followed by a 12-byte ObjectId.
		l, err := r.ReadInt32()
		if err != nil {
			return err
		}
		if l < 0 {
			return &MalformedStringError{Offset: r.pos - 4, Length: l}
		}
		return r.Skip(int(l) + 12)

	case TypeBinary:
		l, err := r.ReadInt32()
		if err != nil {
			return err
		}
		if l < 0 {
			return &MalformedLengthError{Offset: r.pos - 4, Declared: int(l), Measured: -1}
		}
		return r.Skip(1 + int(l))

	case TypeDocument, TypeArray, TypeJavaScriptWithScope:
		lenOffset := r.pos
		l, err := r.ReadInt32()
		if err != nil {
			return err
		}
		if l < 4 {
			return &MalformedLengthError{Offset: lenOffset, Declared: int(l), Measured: -1}
		}
		// The length prefix already consumed 4 bytes; the remaining
		// l-4 bytes cover the rest of the nested value including its
		// own terminator.
		return r.Skip(int(l) - 4)

	case TypeRegex:
		if err := r.SkipCString(); err != nil {
			return err
		}
		return r.SkipCString()

	default:
		return &InvalidTypeError{Offset: r.pos - 1, Byte: byte(t)}
	}
}
