package bson_test

import (
	"testing"
	"time"

	"github.com/bsonview/bsonview"
	"github.com/google/go-cmp/cmp"
	"github.com/kr/pretty"
	mongobson "go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	gc "gopkg.in/check.v1"
)

// Test is gocheck's single entry point into the stdlib testing runner; every
// Test* method on a suite registered below runs inside it. This
// mirrors the real globalsign/mgo/bson package's own test suite, which this
// package's decode semantics are meant to be interchangeable with.
func Test(t *testing.T) { gc.TestingT(t) }

// valueOpts lets go-cmp compare bson.Value (which carries unexported
// payload fields, one per variant) and primitive.Decimal128 (which carries
// unexported limbs) by value instead of refusing to traverse them.
var valueOpts = cmp.Options{
	cmp.AllowUnexported(bson.Value{}),
	cmp.Comparer(func(a, b primitive.Decimal128) bool { return a == b }),
}

func diffValues(c *gc.C, want, got interface{}, label string) {
	if diff := cmp.Diff(want, got, valueOpts); diff != "" {
		c.Fatalf("%s mismatch (-want +got):\n%s\ngot: %# v", label, diff, pretty.Formatter(got))
	}
}

type PropertiesSuite struct {
	buf      []byte
	oid      primitive.ObjectID
	fixtures mongobson.D
}

var _ = gc.Suite(&PropertiesSuite{})

// SetUpSuite builds one document carrying every one of the 21 BSON types
// and marshals it with the official driver, so decode correctness below is
// checked against an independent encoder rather than round-tripped through
// this package's own byte builders (see fixtures_test.go's comment).
func (s *PropertiesSuite) SetUpSuite(c *gc.C) {
	s.oid = primitive.NewObjectID()

	s.fixtures = mongobson.D{
		{Key: "double", Value: 3.5},
		{Key: "string", Value: "hello"},
		{Key: "document", Value: mongobson.D{{Key: "inner", Value: int32(1)}}},
		{Key: "array", Value: mongobson.A{int32(1), int32(2), int32(3)}},
		{Key: "binary", Value: primitive.Binary{Subtype: 0x00, Data: []byte{1, 2, 3}}},
		{Key: "undefined", Value: primitive.Undefined{}},
		{Key: "objectId", Value: s.oid},
		{Key: "boolean", Value: true},
		{Key: "datetime", Value: primitive.NewDateTimeFromTime(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))},
		{Key: "null", Value: nil},
		{Key: "regex", Value: primitive.Regex{Pattern: "^a", Options: "i"}},
		{Key: "dbPointer", Value: primitive.DBPointer{DB: "ns.coll", Pointer: s.oid}},
		{Key: "javascript", Value: primitive.JavaScript("function(){}")},
		{Key: "symbol", Value: primitive.Symbol("sym")},
		{Key: "javascriptWithScope", Value: primitive.CodeWithScope{
			Code:  primitive.JavaScript("function(){}"),
			Scope: mongobson.D{{Key: "x", Value: int32(1)}},
		}},
		{Key: "int32", Value: int32(42)},
		{Key: "timestamp", Value: primitive.Timestamp{T: 100, I: 5}},
		{Key: "int64", Value: int64(1 << 40)},
		{Key: "decimal128", Value: primitive.NewDecimal128(0x1234, 0x5678)},
		{Key: "minKey", Value: primitive.MinKey{}},
		{Key: "maxKey", Value: primitive.MaxKey{}},
	}

	raw, err := mongobson.Marshal(s.fixtures)
	c.Assert(err, gc.IsNil)
	s.buf = raw
}

// TestAllTypesRoundTrip is scenario 5 from the testable-properties list: a
// fixture with one field of every supported type, eagerly decoded and
// checked against the values an independent encoder was handed.
func (s *PropertiesSuite) TestAllTypesRoundTrip(c *gc.C) {
	doc, err := bson.Parse(s.buf)
	c.Assert(err, gc.IsNil)
	c.Assert(len(doc), gc.Equals, len(s.fixtures))

	d, err := doc["double"].DoubleValueOK()
	c.Assert(err, gc.IsNil)
	c.Assert(d, gc.Equals, 3.5)

	str, err := doc["string"].StringValue()
	c.Assert(err, gc.IsNil)
	c.Assert(str, gc.Equals, "hello")

	inner, err := doc["document"].DocumentValue()
	c.Assert(err, gc.IsNil)
	innerX, err := inner["inner"].Int32ValueOK()
	c.Assert(err, gc.IsNil)
	c.Assert(innerX, gc.Equals, int32(1))

	arr, err := doc["array"].ArrayValue()
	c.Assert(err, gc.IsNil)
	c.Assert(len(arr), gc.Equals, 3)
	a1, err := arr[1].Int32ValueOK()
	c.Assert(err, gc.IsNil)
	c.Assert(a1, gc.Equals, int32(2))

	bin, err := doc["binary"].BinaryValue()
	c.Assert(err, gc.IsNil)
	diffValues(c, []byte{1, 2, 3}, bin.Data, "binary data")

	c.Assert(doc["undefined"].Type(), gc.Equals, bson.TypeNull)
	c.Assert(doc["undefined"].IsNull(), gc.Equals, true)

	oid, err := doc["objectId"].ObjectIDValue()
	c.Assert(err, gc.IsNil)
	c.Assert(oid, gc.Equals, s.oid)

	b, err := doc["boolean"].BooleanValue()
	c.Assert(err, gc.IsNil)
	c.Assert(b, gc.Equals, true)

	ms, err := doc["datetime"].DateTimeValue()
	c.Assert(err, gc.IsNil)
	c.Assert(ms, gc.Equals, int64(primitive.NewDateTimeFromTime(time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC))))

	c.Assert(doc["null"].IsNull(), gc.Equals, true)

	rx, err := doc["regex"].RegexValue()
	c.Assert(err, gc.IsNil)
	c.Assert(rx.Pattern, gc.Equals, "^a")
	c.Assert(rx.Options, gc.Equals, "i")

	dbp, err := doc["dbPointer"].DBPointerValue()
	c.Assert(err, gc.IsNil)
	c.Assert(dbp.DB, gc.Equals, "ns.coll")
	c.Assert(dbp.Pointer, gc.Equals, s.oid)

	js, err := doc["javascript"].StringValue()
	c.Assert(err, gc.IsNil)
	c.Assert(js, gc.Equals, "function(){}")

	sym, err := doc["symbol"].StringValue()
	c.Assert(err, gc.IsNil)
	c.Assert(sym, gc.Equals, "sym")
	c.Assert(doc["symbol"].Type(), gc.Equals, bson.TypeString)

	cws, err := doc["javascriptWithScope"].CodeWithScopeValue()
	c.Assert(err, gc.IsNil)
	c.Assert(string(cws.Code), gc.Equals, "function(){}")
	scope, ok := cws.Scope.(bson.Document)
	c.Assert(ok, gc.Equals, true)
	scopeX, err := scope["x"].Int32ValueOK()
	c.Assert(err, gc.IsNil)
	c.Assert(scopeX, gc.Equals, int32(1))

	i32, err := doc["int32"].Int32ValueOK()
	c.Assert(err, gc.IsNil)
	c.Assert(i32, gc.Equals, int32(42))

	// Timestamp's seconds/increment split depends on which half of the
	// wire int64 each occupies; this package follows spec.md's documented
	// convention (see DESIGN.md's Open Question) rather than asserting
	// numeric equality against primitive.Timestamp{T, I} here.
	c.Assert(doc["timestamp"].Type(), gc.Equals, bson.TypeTimestamp)
	_, err = doc["timestamp"].TimestampValue()
	c.Assert(err, gc.IsNil)

	i64, err := doc["int64"].Int64ValueOK()
	c.Assert(err, gc.IsNil)
	c.Assert(i64, gc.Equals, int64(1<<40))

	dec, err := doc["decimal128"].Decimal128Value()
	c.Assert(err, gc.IsNil)
	c.Assert(dec, gc.Equals, primitive.NewDecimal128(0x1234, 0x5678))

	c.Assert(doc["minKey"].Type(), gc.Equals, bson.TypeMinKey)
	c.Assert(doc["maxKey"].Type(), gc.Equals, bson.TypeMaxKey)
}

// TestPartialParseEqualsEagerRestricted is the second universally-quantified
// property: partialParse(bytes, F, earlyExit=false) equals eagerParse(bytes)
// restricted to F, pointwise, for any subset F.
func (s *PropertiesSuite) TestPartialParseEqualsEagerRestricted(c *gc.C) {
	targets := []string{"int32", "string", "objectId", "array"}
	eager, err := bson.Parse(s.buf)
	c.Assert(err, gc.IsNil)

	matcher := bson.NewFieldMatcher(targets, false)
	partial, err := bson.PartialParse(s.buf, matcher)
	c.Assert(err, gc.IsNil)
	c.Assert(len(partial), gc.Equals, len(targets))

	for _, name := range targets {
		diffValues(c, eager[name], partial[name], "field "+name)
	}
}

// TestPartialParseEarlyExitAgreesWithFullWalk is the third property:
// earlyExit=true and earlyExit=false must agree pointwise for the same
// target set, even though the early-exit walk never reaches the rest of
// the document.
func (s *PropertiesSuite) TestPartialParseEarlyExitAgreesWithFullWalk(c *gc.C) {
	targets := []string{"double", "boolean"}
	noExit := bson.NewFieldMatcher(targets, false)
	withExit := bson.NewFieldMatcher(targets, true)

	want, err := bson.PartialParse(s.buf, noExit)
	c.Assert(err, gc.IsNil)
	got, err := bson.PartialParse(s.buf, withExit)
	c.Assert(err, gc.IsNil)

	diffValues(c, want, got, "early-exit vs full walk")
}

// TestNestedDocumentSkippedInConstantWork is scenario 3: a large nested
// document between two wanted fields must be skipped by reading its length
// prefix alone, not by walking its fields.
func (s *PropertiesSuite) TestNestedDocumentSkippedInConstantWork(c *gc.C) {
	innerFields := mongobson.D{}
	for i := 0; i < 50; i++ {
		innerFields = append(innerFields, mongobson.E{Key: string(rune('a' + i%26)), Value: int32(i)})
	}
	raw, err := mongobson.Marshal(mongobson.D{
		{Key: "id", Value: int32(7)},
		{Key: "big", Value: innerFields},
		{Key: "tag", Value: "x"},
	})
	c.Assert(err, gc.IsNil)

	matcher := bson.NewFieldMatcher([]string{"id", "tag"}, false)
	got, err := bson.PartialParse(raw, matcher)
	c.Assert(err, gc.IsNil)
	c.Assert(len(got), gc.Equals, 2)

	id, err := got["id"].Int32ValueOK()
	c.Assert(err, gc.IsNil)
	c.Assert(id, gc.Equals, int32(7))

	tag, err := got["tag"].StringValue()
	c.Assert(err, gc.IsNil)
	c.Assert(tag, gc.Equals, "x")

	if _, ok := got["big"]; ok {
		c.Fatalf("skipped field %q should not appear in a partial-parse result", "big")
	}
}

// TestIndexedAgreesWithEager is the first universally-quantified property,
// restricted to the indexed/eager pair: exhaustive field reads of both must
// produce equal value sets.
func (s *PropertiesSuite) TestIndexedAgreesWithEager(c *gc.C) {
	eager, err := bson.Parse(s.buf)
	c.Assert(err, gc.IsNil)
	indexed, err := bson.IndexedParse(s.buf)
	c.Assert(err, gc.IsNil)
	c.Assert(indexed.Size(), gc.Equals, len(eager))

	for name, want := range eager {
		c.Assert(indexed.Contains(name), gc.Equals, true)
		// GetType reports the stored wire type, while a decoded Value
		// collapses undefined to null and symbol to string.
		wantType := want.Type()
		switch name {
		case "undefined":
			wantType = bson.TypeUndefined
		case "symbol":
			wantType = bson.TypeSymbol
		}
		c.Assert(indexed.GetType(name), gc.Equals, wantType)

		got, err := indexed.Value(name)
		c.Assert(err, gc.IsNil)
		diffValues(c, want, got, "field "+name)
	}
}

// TestIndexedCacheIsIdempotentAndConcurrencySafe checks cache idempotence by
// value: repeated reads of the same field, including concurrent ones, must
// return equal values.
func (s *PropertiesSuite) TestIndexedCacheIsIdempotentAndConcurrencySafe(c *gc.C) {
	indexed, err := bson.IndexedParse(s.buf)
	c.Assert(err, gc.IsNil)

	first, err := indexed.GetInt32("int32")
	c.Assert(err, gc.IsNil)

	const n = 16
	results := make(chan int32, n)
	for i := 0; i < n; i++ {
		go func() {
			v, verr := indexed.GetInt32("int32")
			if verr != nil {
				results <- -1
				return
			}
			results <- v
		}()
	}
	for i := 0; i < n; i++ {
		c.Assert(<-results, gc.Equals, first)
	}
}

// TestFiftyLevelNestingRoundTrips is the deep-nesting boundary behavior:
// both eager and indexed decode must handle 50 levels without overflowing.
func (s *PropertiesSuite) TestFiftyLevelNestingRoundTrips(c *gc.C) {
	var nested interface{} = int32(99)
	for i := 0; i < 50; i++ {
		nested = mongobson.D{{Key: "next", Value: nested}}
	}
	raw, err := mongobson.Marshal(mongobson.D{{Key: "root", Value: nested}})
	c.Assert(err, gc.IsNil)

	eager, err := bson.Parse(raw)
	c.Assert(err, gc.IsNil)
	indexed, err := bson.IndexedParse(raw)
	c.Assert(err, gc.IsNil)

	cur, err := eager["root"].DocumentValue()
	c.Assert(err, gc.IsNil)
	idoc, err := indexed.GetDocument("root")
	c.Assert(err, gc.IsNil)
	for i := 0; i < 49; i++ {
		cur, err = cur["next"].DocumentValue()
		c.Assert(err, gc.IsNil)
		idoc, err = idoc.GetDocument("next")
		c.Assert(err, gc.IsNil)
	}
	leaf, err := cur["next"].Int32ValueOK()
	c.Assert(err, gc.IsNil)
	c.Assert(leaf, gc.Equals, int32(99))

	ileaf, err := idoc.GetInt32("next")
	c.Assert(err, gc.IsNil)
	c.Assert(ileaf, gc.Equals, int32(99))
}

// TestParseStopsExactlyAtDeclaredLength is the fourth property: for a
// well-formed document of length L, Parse consumes exactly L bytes and
// ignores anything beyond it (a trailing garbage tail must not change the
// result or cause an error).
func (s *PropertiesSuite) TestParseStopsExactlyAtDeclaredLength(c *gc.C) {
	withTrailer := append(append([]byte{}, s.buf...), 0xDE, 0xAD, 0xBE, 0xEF)
	want, err := bson.Parse(s.buf)
	c.Assert(err, gc.IsNil)
	got, err := bson.Parse(withTrailer)
	c.Assert(err, gc.IsNil)
	diffValues(c, want, got, "parse with trailing garbage")
}

// TestNonUTF8FieldNameDecodesBestEffort is a boundary behavior: documents
// with non-UTF-8 field-name bytes must decode, not raise.
func (s *PropertiesSuite) TestNonUTF8FieldNameDecodesBestEffort(c *gc.C) {
	buf := wrapDocument(elem(byte(bson.TypeInt32), string([]byte{0xFF, 0xFE}), int32LE(1)))
	doc, err := bson.Parse(buf)
	c.Assert(err, gc.IsNil)
	c.Assert(len(doc), gc.Equals, 1)
}

// TestTruncatedInputFails is a boundary behavior: any prefix shorter than
// the declared length must raise Underflow or MalformedLength, never a
// partial result.
func (s *PropertiesSuite) TestTruncatedInputFails(c *gc.C) {
	truncated := s.buf[:len(s.buf)-3]
	_, err := bson.Parse(truncated)
	c.Assert(err, gc.NotNil)
	_, err = bson.IndexedParse(truncated)
	c.Assert(err, gc.NotNil)
}
