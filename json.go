package bson

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON renders v as JSON for every type except Decimal128, Regex and
// JavaScriptWithScope, which this package deliberately leaves as
// UnsupportedError: they require picking a canonical string representation
// (MongoDB Extended JSON, a driver-specific shorthand, ...) that is a
// decision for a layer above this decode-only core, not something the core
// should bake in.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.typ {
	case TypeDecimal128, TypeRegex:
		return nil, &UnsupportedError{Op: "MarshalJSON", Type: v.typ}
	case TypeNull, TypeMinKey, TypeMaxKey:
		return []byte("null"), nil
	case TypeBoolean:
		return json.Marshal(v.boolVal)
	case TypeInt32:
		return json.Marshal(v.int32Val)
	case TypeInt64:
		return json.Marshal(v.int64Val)
	case TypeDouble:
		return json.Marshal(v.floatVal)
	case TypeString, TypeJavaScript:
		return json.Marshal(v.stringVal)
	case TypeDateTime:
		return json.Marshal(int64(v.datetime))
	case TypeObjectID:
		return json.Marshal(v.objectID.Hex())
	case TypeTimestamp:
		return json.Marshal(map[string]uint32{"t": v.timestamp.T, "i": v.timestamp.I})
	case TypeBinary:
		return json.Marshal(map[string]interface{}{
			"subtype": v.binary.Subtype,
			"data":    v.binary.Data,
		})
	case TypeDBPointer:
		return json.Marshal(map[string]string{"ns": v.dbPointer.DB, "id": v.dbPointer.Pointer.Hex()})
	case TypeDocument:
		return v.doc.MarshalJSON()
	case TypeArray:
		return v.arr.MarshalJSON()
	case TypeJavaScriptWithScope:
		return nil, &UnsupportedError{Op: "MarshalJSON", Type: v.typ}
	default:
		return nil, &UnsupportedError{Op: "MarshalJSON", Type: v.typ}
	}
}

// MarshalJSON renders d as a JSON object. It fails with UnsupportedError if
// any field's value does (Decimal128, Regex or JavaScriptWithScope anywhere
// in the tree).
func (d Document) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(d))
	for k, v := range d {
		b, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out[k] = b
	}
	return json.Marshal(out)
}

// MarshalJSON renders a as a JSON array.
func (a Array) MarshalJSON() ([]byte, error) {
	out := make([]json.RawMessage, len(a))
	for i, v := range a {
		b, err := v.MarshalJSON()
		if err != nil {
			return nil, err
		}
		out[i] = b
	}
	return json.Marshal(out)
}

// ToJSON renders d's fields (simple types only) as a JSON object string.
// It decodes every field of d in the process, caching each as it goes, the
// same as calling every typed getter once would. Complex subtrees decode
// fine as long as no Decimal128, Regex or JavaScriptWithScope value appears
// anywhere within them; if one does, ToJSON fails with UnsupportedError rather than
// returning a partial rendering.
func (d *IndexedDocument) ToJSON() (string, error) {
	out := make(map[string]json.RawMessage, d.Size())
	for i, f := range d.fields {
		name := string(d.bytes[f.nameOffset : f.nameOffset+f.nameLength])
		val, err := d.value(i)
		if err != nil {
			return "", err
		}
		b, err := val.MarshalJSON()
		if err != nil {
			return "", err
		}
		out[name] = b
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("bson: rendering document as JSON: %w", err)
	}
	return string(b), nil
}
