package bson

// Type is a BSON element type byte. The values match the MongoDB 3.4 wire
// format bit-exactly; they are part of this package's ABI.
type Type byte

const (
	TypeDouble             Type = 0x01
	TypeString             Type = 0x02
	TypeDocument           Type = 0x03
	TypeArray              Type = 0x04
	TypeBinary              Type = 0x05
	TypeUndefined           Type = 0x06
	TypeObjectID            Type = 0x07
	TypeBoolean             Type = 0x08
	TypeDateTime            Type = 0x09
	TypeNull                Type = 0x0A
	TypeRegex               Type = 0x0B
	TypeDBPointer           Type = 0x0C
	TypeJavaScript          Type = 0x0D
	TypeSymbol              Type = 0x0E
	TypeJavaScriptWithScope Type = 0x0F
	TypeInt32               Type = 0x10
	TypeTimestamp            Type = 0x11
	TypeInt64                Type = 0x12
	TypeDecimal128           Type = 0x13
	TypeMaxKey               Type = 0x7F
	TypeMinKey               Type = 0xFF
)

// typeNames holds the human-readable name for every valid type byte. It is
// not indexed by the byte value directly since 0x7F and 0xFF would make the
// array absurdly sparse in the wrong direction; a map is simpler here and is
// only ever read.
var typeNames = map[Type]string{
	TypeDouble:              "double",
	TypeString:              "string",
	TypeDocument:             "document",
	TypeArray:                "array",
	TypeBinary:               "binary",
	TypeUndefined:            "undefined",
	TypeObjectID:             "objectId",
	TypeBoolean:              "boolean",
	TypeDateTime:             "datetime",
	TypeNull:                 "null",
	TypeRegex:                "regex",
	TypeDBPointer:            "dbPointer",
	TypeJavaScript:           "javascript",
	TypeSymbol:               "symbol",
	TypeJavaScriptWithScope:  "javascriptWithScope",
	TypeInt32:                "int32",
	TypeTimestamp:            "timestamp",
	TypeInt64:                "int64",
	TypeDecimal128:           "decimal128",
	TypeMaxKey:               "maxKey",
	TypeMinKey:               "minKey",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether t is one of the 21 known BSON type codes.
func (t Type) Valid() bool {
	_, ok := typeNames[t]
	return ok
}

// fixedSize holds, for each of the 256 possible type bytes, the type's fixed
// on-wire size in bytes, or -1 if the type is variable-length (its value
// begins with a length prefix, or in regex's case requires a scan). Types
// not present in typeNames are also left at -1, so they never read as
// fixed-size; callers must still check Valid first.
var fixedSize [256]int

func init() {
	for i := range fixedSize {
		fixedSize[i] = -1
	}
	fixedSize[TypeDouble] = 8
	fixedSize[TypeString] = -1
	fixedSize[TypeDocument] = -1
	fixedSize[TypeArray] = -1
	fixedSize[TypeBinary] = -1
	fixedSize[TypeUndefined] = 0
	fixedSize[TypeObjectID] = 12
	fixedSize[TypeBoolean] = 1
	fixedSize[TypeDateTime] = 8
	fixedSize[TypeNull] = 0
	fixedSize[TypeRegex] = -1
	fixedSize[TypeDBPointer] = -1
	fixedSize[TypeJavaScript] = -1
	fixedSize[TypeSymbol] = -1
	fixedSize[TypeJavaScriptWithScope] = -1
	fixedSize[TypeInt32] = 4
	fixedSize[TypeTimestamp] = 8
	fixedSize[TypeInt64] = 8
	fixedSize[TypeDecimal128] = 16
	fixedSize[TypeMaxKey] = 0
	fixedSize[TypeMinKey] = 0
}

// isFixedSize reports whether t has a wire size known from the type byte
// alone, and if so what it is.
func isFixedSize(t Type) (size int, fixed bool) {
	s := fixedSize[t]
	if s < 0 {
		return 0, false
	}
	return s, true
}
