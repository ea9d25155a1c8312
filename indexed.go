package bson

import (
	"hash/fnv"
	"sort"
	"strconv"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// FieldIndex is one entry of an IndexedDocument's sorted field table: a
// field's name hash, its byte extent within the document's backing slice,
// and its precomputed value offset, size, and type.
type FieldIndex struct {
	nameHash    uint64
	nameOffset  int
	nameLength  int
	valueOffset int
	valueSize   int
	typ         Type
}

func hashName(b []byte) uint64 {
	h := fnv.New64a()
	h.Write(b)
	return h.Sum64()
}

// cachedValue is what a cache slot atomically publishes once a field has
// been decoded for the first time.
type cachedValue struct {
	val Value
	err error
}

// IndexedDocument is a zero-copy, lazily-decoding view over one BSON
// document. It borrows {bytes, offset, length} from the caller: it must not
// be used after that backing slice is discarded, reused, or mutated.
//
// Construction is O(n) in the document's byte length but decodes no field
// values. Field access is O(log n) plus, on first touch, the cost of
// decoding that one value; every subsequent access to the same field is
// O(log n) with no decode. Concurrent reads are safe: decoding a not-yet-
// cached field is funneled through a singleflight.Group keyed by field
// index, so concurrent first touches of the same field decode exactly once
// and every caller observes the same fully-constructed value — there is no
// path by which a reader can observe a partially decoded Value.
type IndexedDocument struct {
	bytes  []byte
	offset int
	length int

	fields []FieldIndex
	cache  []atomic.Pointer[cachedValue]
	sf     singleflight.Group
}

// IndexedParse builds an IndexedDocument over the whole of buf, which must
// be exactly one complete BSON document.
func IndexedParse(buf []byte) (*IndexedDocument, error) {
	return newIndexedDocument(buf, 0, len(buf))
}

func newIndexedDocument(bytes []byte, offset, length int) (*IndexedDocument, error) {
	if offset < 0 || length < 5 || offset+length > len(bytes) {
		return nil, &MalformedLengthError{Offset: offset, Declared: length, Measured: -1}
	}
	declared, err := readInt32At(bytes, offset)
	if err != nil {
		return nil, err
	}
	if int(declared) != length {
		return nil, &MalformedLengthError{Offset: offset, Declared: int(declared), Measured: length}
	}
	if bytes[offset+length-1] != 0x00 {
		return nil, &MalformedLengthError{Offset: offset, Declared: int(declared), Measured: -1}
	}

	var fields []FieldIndex
	cursor := offset + 4
	end := offset + length - 1

	for cursor < end {
		typeByte := bytes[cursor]
		cursor++
		if typeByte == 0x00 {
			break
		}
		t := Type(typeByte)
		if !t.Valid() {
			return nil, &InvalidTypeError{Offset: cursor - 1, Byte: typeByte}
		}

		nameStart := cursor
		for cursor < end && bytes[cursor] != 0x00 {
			cursor++
		}
		if cursor >= end {
			return nil, &MalformedCStringError{Offset: nameStart}
		}
		nameLen := cursor - nameStart
		nameHash := hashName(bytes[nameStart : nameStart+nameLen])
		cursor++ // skip the name terminator

		valueOffset := cursor
		valueSize, err := getValueSize(bytes, valueOffset, t)
		if err != nil {
			return nil, err
		}
		if valueOffset+valueSize > end+1 {
			return nil, &MalformedLengthError{Offset: offset, Declared: int(declared), Measured: -1}
		}

		fields = append(fields, FieldIndex{
			nameHash:    nameHash,
			nameOffset:  nameStart,
			nameLength:  nameLen,
			valueOffset: valueOffset,
			valueSize:   valueSize,
			typ:         t,
		})
		cursor += valueSize
	}

	if cursor != end {
		return nil, &MalformedLengthError{Offset: offset, Declared: int(declared), Measured: cursor - offset}
	}

	sort.Slice(fields, func(i, j int) bool { return fields[i].nameHash < fields[j].nameHash })

	return &IndexedDocument{
		bytes:  bytes,
		offset: offset,
		length: length,
		fields: fields,
		cache:  make([]atomic.Pointer[cachedValue], len(fields)),
	}, nil
}

// Size returns the number of fields in the document.
func (d *IndexedDocument) Size() int { return len(d.fields) }

// IsEmpty reports whether the document has no fields.
func (d *IndexedDocument) IsEmpty() bool { return len(d.fields) == 0 }

// locate finds name's index via binary search over the hash-sorted field
// table, resolving hash collisions with a byte-wise name comparison among
// every entry sharing the target hash. It returns -1 if name is absent.
func (d *IndexedDocument) locate(name string) int {
	h := hashName([]byte(name))
	n := len(d.fields)
	lo := sort.Search(n, func(i int) bool { return d.fields[i].nameHash >= h })
	for i := lo; i < n && d.fields[i].nameHash == h; i++ {
		f := d.fields[i]
		if string(d.bytes[f.nameOffset:f.nameOffset+f.nameLength]) == name {
			return i
		}
	}
	return -1
}

// Contains reports whether name is present in the document.
func (d *IndexedDocument) Contains(name string) bool { return d.locate(name) >= 0 }

// GetType returns the stored type of name, or 0 if name is absent.
func (d *IndexedDocument) GetType(name string) Type {
	i := d.locate(name)
	if i < 0 {
		return 0
	}
	return d.fields[i].typ
}

// FieldNames returns every field name in the document, in index order
// (which is sorted by name hash, not document order).
func (d *IndexedDocument) FieldNames() []string {
	names := make([]string, len(d.fields))
	for i, f := range d.fields {
		names[i] = string(d.bytes[f.nameOffset : f.nameOffset+f.nameLength])
	}
	return names
}

// value decodes (or returns the cached decode of) the field at index i.
// Concurrent callers racing to decode the same not-yet-cached field are
// coalesced by d.sf so the decode happens exactly once.
func (d *IndexedDocument) value(i int) (Value, error) {
	if cached := d.cache[i].Load(); cached != nil {
		return cached.val, cached.err
	}

	key := strconv.Itoa(i)
	resultIface, _, _ := d.sf.Do(key, func() (interface{}, error) {
		if cached := d.cache[i].Load(); cached != nil {
			return cached, nil
		}
		f := d.fields[i]
		r := NewReader(d.bytes[f.valueOffset : f.valueOffset+f.valueSize])
		val, err := dispatch(r, f.typ)
		cv := &cachedValue{val: val, err: err}
		d.cache[i].Store(cv)
		return cv, nil
	})

	cv := resultIface.(*cachedValue)
	return cv.val, cv.err
}

// Value returns name's decoded value regardless of its stored type, or
// FieldNotFoundError if name is absent. It is the untyped escape hatch
// generic consumers (ToJSON, cmd/bsondump) use instead of dispatching to one
// of the typed getters field by field.
func (d *IndexedDocument) Value(name string) (Value, error) {
	i := d.locate(name)
	if i < 0 {
		return Value{}, &FieldNotFoundError{Field: name}
	}
	return d.value(i)
}

func (d *IndexedDocument) get(name string, want Type) (Value, error) {
	i := d.locate(name)
	if i < 0 {
		return Value{}, &FieldNotFoundError{Field: name}
	}
	actual := d.fields[i].typ
	if !typeSatisfies(actual, want) {
		return Value{}, &TypeMismatchError{Field: name, Requested: want, Actual: actual}
	}
	return d.value(i)
}

// typeSatisfies reports whether a field of actual type can be returned from
// a getter asking for want. Undefined-as-null and symbol-as-string
// compatibility collapsing (see Value's doc comment) means a caller asking
// for TypeNull also accepts a stored TypeUndefined, and a caller asking for
// TypeString also accepts a stored TypeSymbol.
func typeSatisfies(actual, want Type) bool {
	if actual == want {
		return true
	}
	if want == TypeNull && actual == TypeUndefined {
		return true
	}
	if want == TypeString && actual == TypeSymbol {
		return true
	}
	return false
}

// GetInt32 returns the decoded int32 value of name, or FieldNotFoundError /
// TypeMismatchError.
func (d *IndexedDocument) GetInt32(name string) (int32, error) {
	v, err := d.get(name, TypeInt32)
	if err != nil {
		return 0, err
	}
	return v.Int32ValueOK()
}

// GetInt32Default is GetInt32 but returns def instead of FieldNotFoundError
// when name is absent.
func (d *IndexedDocument) GetInt32Default(name string, def int32) int32 {
	v, err := d.GetInt32(name)
	if err != nil {
		return def
	}
	return v
}

func (d *IndexedDocument) GetInt64(name string) (int64, error) {
	v, err := d.get(name, TypeInt64)
	if err != nil {
		return 0, err
	}
	return v.Int64ValueOK()
}

func (d *IndexedDocument) GetInt64Default(name string, def int64) int64 {
	v, err := d.GetInt64(name)
	if err != nil {
		return def
	}
	return v
}

func (d *IndexedDocument) GetDouble(name string) (float64, error) {
	v, err := d.get(name, TypeDouble)
	if err != nil {
		return 0, err
	}
	return v.DoubleValueOK()
}

func (d *IndexedDocument) GetDoubleDefault(name string, def float64) float64 {
	v, err := d.GetDouble(name)
	if err != nil {
		return def
	}
	return v
}

func (d *IndexedDocument) GetBoolean(name string) (bool, error) {
	v, err := d.get(name, TypeBoolean)
	if err != nil {
		return false, err
	}
	return v.BooleanValue()
}

func (d *IndexedDocument) GetBooleanDefault(name string, def bool) bool {
	v, err := d.GetBoolean(name)
	if err != nil {
		return def
	}
	return v
}

// GetDateTime returns name's datetime value as an int64 millisecond count
// since the Unix epoch (see DESIGN.md's Open Question on datetime
// representation).
func (d *IndexedDocument) GetDateTime(name string) (int64, error) {
	v, err := d.get(name, TypeDateTime)
	if err != nil {
		return 0, err
	}
	return v.DateTimeValue()
}

func (d *IndexedDocument) GetDateTimeDefault(name string, def int64) int64 {
	v, err := d.GetDateTime(name)
	if err != nil {
		return def
	}
	return v
}

func (d *IndexedDocument) GetString(name string) (string, error) {
	i := d.locate(name)
	if i < 0 {
		return "", &FieldNotFoundError{Field: name}
	}
	actual := d.fields[i].typ
	if actual != TypeString && actual != TypeSymbol {
		return "", &TypeMismatchError{Field: name, Requested: TypeString, Actual: actual}
	}
	v, err := d.value(i)
	if err != nil {
		return "", err
	}
	return v.StringValue()
}

func (d *IndexedDocument) GetStringDefault(name string, def string) string {
	v, err := d.GetString(name)
	if err != nil {
		return def
	}
	return v
}

// GetDocument returns a nested IndexedDocument view over name's value,
// built directly over the same backing slice — no copy, no eager parse of
// the nested subtree.
func (d *IndexedDocument) GetDocument(name string) (*IndexedDocument, error) {
	i := d.locate(name)
	if i < 0 {
		return nil, &FieldNotFoundError{Field: name}
	}
	f := d.fields[i]
	if f.typ != TypeDocument {
		return nil, &TypeMismatchError{Field: name, Requested: TypeDocument, Actual: f.typ}
	}
	return newIndexedDocument(d.bytes, f.valueOffset, f.valueSize)
}

// GetArray returns a nested IndexedBsonArray view over name's value.
func (d *IndexedDocument) GetArray(name string) (*IndexedBsonArray, error) {
	i := d.locate(name)
	if i < 0 {
		return nil, &FieldNotFoundError{Field: name}
	}
	f := d.fields[i]
	if f.typ != TypeArray {
		return nil, &TypeMismatchError{Field: name, Requested: TypeArray, Actual: f.typ}
	}
	inner, err := newIndexedDocument(d.bytes, f.valueOffset, f.valueSize)
	if err != nil {
		return nil, err
	}
	return &IndexedBsonArray{doc: inner}, nil
}

// IndexedBsonArray is IndexedDocument's array counterpart: the same
// zero-copy, lazily-cached machinery, addressed positionally instead of by
// field name. BSON arrays are wire-identical to documents with decimal
// string keys, so IndexedBsonArray is a thin positional wrapper around an
// IndexedDocument rather than a separate implementation.
type IndexedBsonArray struct {
	doc *IndexedDocument
}

// Len returns the number of elements in the array.
func (a *IndexedBsonArray) Len() int { return a.doc.Size() }

func (a *IndexedBsonArray) indexName(i int) string { return strconv.Itoa(i) }

func (a *IndexedBsonArray) GetInt32(i int) (int32, error) { return a.doc.GetInt32(a.indexName(i)) }
func (a *IndexedBsonArray) GetInt64(i int) (int64, error) { return a.doc.GetInt64(a.indexName(i)) }
func (a *IndexedBsonArray) GetDouble(i int) (float64, error) {
	return a.doc.GetDouble(a.indexName(i))
}
func (a *IndexedBsonArray) GetBoolean(i int) (bool, error) { return a.doc.GetBoolean(a.indexName(i)) }
func (a *IndexedBsonArray) GetString(i int) (string, error) { return a.doc.GetString(a.indexName(i)) }
func (a *IndexedBsonArray) GetDocument(i int) (*IndexedDocument, error) {
	return a.doc.GetDocument(a.indexName(i))
}
func (a *IndexedBsonArray) GetArray(i int) (*IndexedBsonArray, error) {
	return a.doc.GetArray(a.indexName(i))
}
func (a *IndexedBsonArray) GetType(i int) Type { return a.doc.GetType(a.indexName(i)) }
