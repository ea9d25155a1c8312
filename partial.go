package bson

// PartialParse walks buf once, decoding only the fields matcher targets and
// skipping every other value without decoding it. If matcher requests early
// exit, the walk stops as soon as every target has been matched, leaving
// the remainder of the document unread.
//
// The result contains only matched fields and has size at most
// matcher.Len(). On any decode error, PartialParse returns no result: a
// single format error fails the whole call, the same as Parse.
func PartialParse(buf []byte, matcher *FieldMatcher) (Document, error) {
	r := NewReader(buf)

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

	result := make(Document, matcher.Len())
	found := 0
	target := matcher.Len()

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

		if matcher.Matches(name) {
			val, err := dispatch(r, t)
			if err != nil {
				return nil, err
			}
			result[name] = val
			found++
			if matcher.EarlyExit() && found == target {
				return result, nil
			}
		} else {
			if err := skipValue(r, t); err != nil {
				return nil, err
			}
		}
	}

	if r.pos != end {
		return nil, &MalformedLengthError{Offset: start, Declared: int(total), Measured: r.pos - start}
	}
	return result, nil
}
