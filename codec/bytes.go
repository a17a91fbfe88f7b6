package codec

import (
	"encoding/base32"
	"encoding/base64"
	"encoding/hex"

	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// ByteEncoding names the base-N text encoding used for a []byte field
// under JSON, where there is no raw byte-string wire type (spec §4.6).
// Under CBOR, every encoding is ignored: bytes are written/read directly
// as a Bytes item.
type ByteEncoding int

const (
	Base64 ByteEncoding = iota
	Base64URL
	Base32
	Base32Hex
	Base32Crockford
	Base32Z
	Base16
)

const crockfordAlphabet = "0123456789ABCDEFGHJKMNPQRSTVWXYZ"
const zBase32Alphabet = "ybndrfg8ejkmcpqxot1uwisza345h769"

var (
	crockfordEncoding = base32.NewEncoding(crockfordAlphabet).WithPadding(base32.NoPadding)
	zBase32Encoding   = base32.NewEncoding(zBase32Alphabet).WithPadding(base32.NoPadding)
)

func (e ByteEncoding) encodeToString(data []byte) string {
	switch e {
	case Base64:
		return base64.StdEncoding.EncodeToString(data)
	case Base64URL:
		return base64.URLEncoding.EncodeToString(data)
	case Base32:
		return base32.StdEncoding.EncodeToString(data)
	case Base32Hex:
		return base32.HexEncoding.EncodeToString(data)
	case Base32Crockford:
		return crockfordEncoding.EncodeToString(data)
	case Base32Z:
		return zBase32Encoding.EncodeToString(data)
	case Base16:
		return hex.EncodeToString(data)
	default:
		return base64.StdEncoding.EncodeToString(data)
	}
}

func (e ByteEncoding) decodeString(s string) ([]byte, error) {
	switch e {
	case Base64:
		return base64.StdEncoding.DecodeString(s)
	case Base64URL:
		return base64.URLEncoding.DecodeString(s)
	case Base32:
		return base32.StdEncoding.DecodeString(s)
	case Base32Hex:
		return base32.HexEncoding.DecodeString(s)
	case Base32Crockford:
		return crockfordEncoding.DecodeString(s)
	case Base32Z:
		return zBase32Encoding.DecodeString(s)
	case Base16:
		return hex.DecodeString(s)
	default:
		return base64.StdEncoding.DecodeString(s)
	}
}

// BytesWithEncoding builds a []byte Codec: a raw Bytes item under CBOR, a
// base-N encoded Text item under JSON, per spec §4.6.
func BytesWithEncoding(enc ByteEncoding) Codec[[]byte] {
	return New(
		func(w *writer.Writer, v []byte) error {
			if w.Target() == TargetJSON {
				return w.WriteText(enc.encodeToString(v))
			}
			return w.WriteBytes(v)
		},
		func(r *reader.Reader) ([]byte, error) {
			if r.Target() == TargetJSON {
				s, err := r.ReadText()
				if err != nil {
					return nil, err
				}
				return enc.decodeString(s)
			}
			return r.ReadBytes()
		},
	)
}

// Bytes is the default []byte Codec (Base64 under JSON).
var Bytes Codec[[]byte] = BytesWithEncoding(Base64)
