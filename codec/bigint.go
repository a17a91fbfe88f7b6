package codec

import (
	"math/big"

	"github.com/ionscribe/stream/cbor"
	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// BigInt is the arbitrary-precision integer Codec. Encoding is symmetric
// across both formats: the renderer picks the wire shape (a plain integer
// when it fits, tag 2/3 + bytes under CBOR or a verbatim digit string
// under JSON otherwise). Decoding is not, because neither parser folds a
// tag-prefixed bignum or an oversized JSON literal back into a single
// BigInteger item on its own (cbor.BigIntFromBytes's doc comment), so this
// Codec performs that combination itself.
var BigInt Codec[*big.Int] = New(
	func(w *writer.Writer, v *big.Int) error { return w.WriteBigInteger(v) },
	func(r *reader.Reader) (*big.Int, error) {
		if r.HasTag() {
			tag, err := r.ReadTag()
			if err != nil {
				return nil, err
			}
			if tag != uint64(cbor.TagPositiveBigNum) && tag != uint64(cbor.TagNegativeBigNum) {
				return nil, ioerr.NewUnsupported(0, "unexpected tag for big integer field")
			}
			payload, err := r.ReadBytes()
			if err != nil {
				return nil, err
			}
			return cbor.BigIntFromBytes(payload, tag == uint64(cbor.TagNegativeBigNum)), nil
		}
		if r.HasNumberString() {
			s, err := r.ReadNumberString()
			if err != nil {
				return nil, err
			}
			v, ok := new(big.Int).SetString(s, 10)
			if !ok {
				return nil, ioerr.NewInvalidInputData(0, "malformed big integer literal")
			}
			return v, nil
		}
		if r.HasOverLong() {
			u, neg, err := r.ReadOverLong()
			if err != nil {
				return nil, err
			}
			v := new(big.Int).SetUint64(u)
			if neg {
				v.Neg(v).Sub(v, big.NewInt(1))
			}
			return v, nil
		}
		v, err := readSigned(r)
		if err != nil {
			return nil, err
		}
		return big.NewInt(v), nil
	},
)
