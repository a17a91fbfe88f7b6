// Package cbor implements the CBOR (RFC 8949) parser and renderer: the
// bytes <-> item.Item boundary for the CBOR wire format. The major-type
// table, tag table, and conformance-mode checks are ported from the
// teacher library's flat cbor.go/reader.go/writer.go, generalized so the
// parser emits a single item.Item per pull instead of one of twenty typed
// ReadX methods.
package cbor

// MajorType is the top three bits of a CBOR initial byte.
type MajorType byte

const (
	MajorUnsignedInt MajorType = 0
	MajorNegativeInt MajorType = 1
	MajorByteString  MajorType = 2
	MajorTextString  MajorType = 3
	MajorArray       MajorType = 4
	MajorMap         MajorType = 5
	MajorTag         MajorType = 6
	MajorSimpleFloat MajorType = 7
)

// AdditionalInfo well-known values in the bottom five bits of the initial
// byte.
const (
	AddInfo8Bit            = 24
	AddInfo16Bit            = 25
	AddInfo32Bit            = 26
	AddInfo64Bit            = 27
	AddInfoIndefiniteLength = 31
)

// Simple value well-known codes (major type 7, additional info < 25).
const (
	SimpleFalse     = 20
	SimpleTrue      = 21
	SimpleNull      = 22
	SimpleUndefined = 23
)

// Tag is a CBOR semantic tag code (major type 6).
type Tag uint64

// Well-known tags recognized by the parser (spec §4.3, §6).
const (
	TagDateTimeString   Tag = 0
	TagEpochDateTime    Tag = 1
	TagPositiveBigNum   Tag = 2
	TagNegativeBigNum   Tag = 3
	TagDecimalFraction  Tag = 4
	TagBigFloat         Tag = 5
	TagExpectedBase64URL Tag = 21
	TagExpectedBase64   Tag = 22
	TagExpectedBase16   Tag = 23
	TagEmbeddedCBOR     Tag = 24
	TagURI              Tag = 32
	TagBase64URL        Tag = 33
	TagBase64           Tag = 34
	TagRegularExpression Tag = 35
	TagMIMEMessage      Tag = 36
	TagSelfDescribeCBOR Tag = 55799
)

// ConformanceMode controls how strictly the parser/renderer follows
// RFC 8949, ported verbatim in spirit from the teacher's CborConformanceMode.
type ConformanceMode int

const (
	ConformanceLax ConformanceMode = iota
	ConformanceStrict
	ConformanceCanonical
	ConformanceCtap2Canonical
)

const breakByte byte = 0xFF

func encodeInitialByte(mt MajorType, ai byte) byte {
	return byte(mt)<<5 | (ai & 0x1F)
}

func decodeInitialByte(b byte) (MajorType, byte) {
	return MajorType(b >> 5), b & 0x1F
}
