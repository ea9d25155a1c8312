package bson

// maxEagerDepth bounds the eager decoder's recursion into nested documents
// and arrays. The Skipper never recurses (it advances past nested
// containers in O(1) from their length prefix alone), so only the eager
// path that must materialize every nested value needs a guard. 200 is
// comfortably above the 50-level boundary this package is tested against.
const maxEagerDepth = 200

// Parse eagerly decodes buf into a Document, materializing every field.
// buf must be a single, complete BSON document: an int32 total length,
// followed by elements, followed by a 0x00 terminator.
func Parse(buf []byte) (Document, error) {
	r := NewReader(buf)
	return parseDocumentWithOptions(r, DefaultCapacityOptions, 0)
}

// ParseWithCapacity is Parse with an explicit capacity estimator, for
// callers tuning container presizing for documents that are much larger or
// smaller than DefaultCapacityOptions assumes.
func ParseWithCapacity(buf []byte, opts CapacityOptions) (Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	r := NewReader(buf)
	return parseDocumentWithOptions(r, opts, 0)
}

// ParseArray eagerly decodes buf as a BSON array (the same wire form as a
// document, with positional decimal-string field names).
func ParseArray(buf []byte) (Array, error) {
	r := NewReader(buf)
	return parseArrayWithOptions(r, DefaultCapacityOptions, 0)
}

func decodeDocument(r *Reader) (Document, error) {
	return parseDocumentWithOptions(r, DefaultCapacityOptions, 0)
}

func decodeArray(r *Reader) (Array, error) {
	return parseArrayWithOptions(r, DefaultCapacityOptions, 0)
}

func parseDocumentWithOptions(r *Reader, opts CapacityOptions, depth int) (Document, error) {
	if depth > maxEagerDepth {
		return nil, &MalformedLengthError{Offset: r.pos, Declared: -1, Measured: -1}
	}

	start := r.pos
	total, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if total < 5 {
		return nil, &MalformedLengthError{Offset: start, Declared: int(total), Measured: -1}
	}
	end := start + int(total)
	if end > r.Len() {
		return nil, &MalformedLengthError{Offset: start, Declared: int(total), Measured: r.Len() - start}
	}

	doc := make(Document, opts.documentCapacity(int(total)))
	for {
		typeByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if typeByte == 0x00 {
			break
		}
		t := Type(typeByte)
		if !t.Valid() {
			return nil, &InvalidTypeError{Offset: r.pos - 1, Byte: typeByte}
		}
		name, err := r.ReadCString()
		if err != nil {
			return nil, err
		}
		val, err := dispatchNested(r, t, opts, depth)
		if err != nil {
			return nil, err
		}
		doc[name] = val
	}
	if r.pos != end {
		return nil, &MalformedLengthError{Offset: start, Declared: int(total), Measured: r.pos - start}
	}
	return doc, nil
}

func parseArrayWithOptions(r *Reader, opts CapacityOptions, depth int) (Array, error) {
	if depth > maxEagerDepth {
		return nil, &MalformedLengthError{Offset: r.pos, Declared: -1, Measured: -1}
	}

	start := r.pos
	total, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if total < 5 {
		return nil, &MalformedLengthError{Offset: start, Declared: int(total), Measured: -1}
	}
	end := start + int(total)
	if end > r.Len() {
		return nil, &MalformedLengthError{Offset: start, Declared: int(total), Measured: r.Len() - start}
	}

	arr := make(Array, 0, opts.arrayCapacity(int(total)))
	for {
		typeByte, err := r.ReadByte()
		if err != nil {
			return nil, err
		}
		if typeByte == 0x00 {
			break
		}
		t := Type(typeByte)
		if !t.Valid() {
			return nil, &InvalidTypeError{Offset: r.pos - 1, Byte: typeByte}
		}
		// Array field names are the decimal string index and are purely
		// positional; they are scanned past but not otherwise used.
		if err := r.SkipCString(); err != nil {
			return nil, err
		}
		val, err := dispatchNested(r, t, opts, depth)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	if r.pos != end {
		return nil, &MalformedLengthError{Offset: start, Declared: int(total), Measured: r.pos - start}
	}
	return arr, nil
}

// dispatchNested is dispatch, but for TypeDocument/TypeArray it threads the
// capacity options and recursion depth through instead of always falling
// back to DefaultCapacityOptions the way the plain dispatch table's
// document/array decoders do.
func dispatchNested(r *Reader, t Type, opts CapacityOptions, depth int) (Value, error) {
	switch t {
	case TypeDocument:
		d, err := parseDocumentWithOptions(r, opts, depth+1)
		if err != nil {
			return Value{}, err
		}
		return DocumentValue(d), nil
	case TypeArray:
		a, err := parseArrayWithOptions(r, opts, depth+1)
		if err != nil {
			return Value{}, err
		}
		return ArrayValue(a), nil
	case TypeJavaScriptWithScope:
		return decodeCodeWithScopeNested(r, opts, depth)
	default:
		return dispatch(r, t)
	}
}

func decodeCodeWithScopeNested(r *Reader, opts CapacityOptions, depth int) (Value, error) {
	start := r.pos
	total, err := r.ReadInt32()
	if err != nil {
		return Value{}, err
	}
	code, err := r.ReadString()
	if err != nil {
		return Value{}, err
	}
	scope, err := parseDocumentWithOptions(r, opts, depth+1)
	if err != nil {
		return Value{}, err
	}
	if r.pos != start+int(total) {
		return Value{}, &MalformedLengthError{Offset: start, Declared: int(total), Measured: r.pos - start}
	}
	return CodeWithScopeValue(code, scope), nil
}
