package bson_test

import (
	"encoding/binary"
)

// The helpers in this file hand-assemble raw BSON bytes for edge-case and
// boundary fixtures, the way packetd's pmongodb decoder tests build literal
// byte slices for malformed/truncated inputs. Happy-path, all-types
// fixtures instead go through the real mongo-driver encoder in
// properties_test.go, so decode correctness is checked against an
// independent implementation rather than round-tripping through this
// package's own test-only byte builder.

func cstring(s string) []byte {
	b := append([]byte(s), 0x00)
	return b
}

func elem(typeByte byte, name string, payload []byte) []byte {
	out := []byte{typeByte}
	out = append(out, cstring(name)...)
	out = append(out, payload...)
	return out
}

func int32LE(v int32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, uint32(v))
	return b
}

func int64LE(v int64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, uint64(v))
	return b
}

func bsonString(s string) []byte {
	out := int32LE(int32(len(s) + 1))
	out = append(out, []byte(s)...)
	out = append(out, 0x00)
	return out
}

// wrapDocument assembles a complete document from its elements: length
// prefix, the concatenated elements, and the terminator.
func wrapDocument(elements ...[]byte) []byte {
	body := []byte{}
	for _, e := range elements {
		body = append(body, e...)
	}
	total := 4 + len(body) + 1
	out := int32LE(int32(total))
	out = append(out, body...)
	out = append(out, 0x00)
	return out
}

// emptyDocument is the canonical 5-byte empty BSON document.
func emptyDocument() []byte {
	return wrapDocument()
}
