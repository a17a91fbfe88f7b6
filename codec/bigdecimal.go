package codec

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/ionscribe/stream/cbor"
	"github.com/ionscribe/stream/ioerr"
	"github.com/ionscribe/stream/reader"
	"github.com/ionscribe/stream/writer"
)

// BigDecimalValue holds an arbitrary-precision decimal: value = Mantissa *
// 10^Exponent, the same representation as item.BigDecimal.
type BigDecimalValue struct {
	Mantissa *big.Int
	Exponent int32
}

// BigDecimal is the arbitrary-precision decimal Codec (CBOR tag 4 /
// JSON verbatim decimal literal).
var BigDecimal Codec[BigDecimalValue] = New(
	func(w *writer.Writer, v BigDecimalValue) error {
		return w.WriteBigDecimal(v.Mantissa, v.Exponent)
	},
	func(r *reader.Reader) (BigDecimalValue, error) {
		if r.HasTag() {
			tag, err := r.ReadTag()
			if err != nil {
				return BigDecimalValue{}, err
			}
			if tag != uint64(cbor.TagDecimalFraction) {
				return BigDecimalValue{}, ioerr.NewUnsupported(0, "unexpected tag for big decimal field")
			}
			if err := openTupleArray(r); err != nil {
				return BigDecimalValue{}, err
			}
			exp, err := readSigned(r)
			if err != nil {
				return BigDecimalValue{}, err
			}
			mantissa, err := BigInt.Decode(r)
			if err != nil {
				return BigDecimalValue{}, err
			}
			if err := closeTupleArray(r); err != nil {
				return BigDecimalValue{}, err
			}
			return BigDecimalValue{Mantissa: mantissa, Exponent: int32(exp)}, nil
		}
		if r.HasNumberString() {
			s, err := r.ReadNumberString()
			if err != nil {
				return BigDecimalValue{}, err
			}
			return parseDecimalLiteral(s)
		}
		v, err := r.ReadDouble()
		if err != nil {
			return BigDecimalValue{}, err
		}
		return decimalFromFloat(v)
	},
)

// parseDecimalLiteral splits a decimal literal (no surrounding
// whitespace, optional leading '-', optional fractional part, optional
// exponent) into a mantissa/exponent pair.
func parseDecimalLiteral(s string) (BigDecimalValue, error) {
	mantissaPart := s
	exponent := int64(0)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mantissaPart = s[:i]
		e, err := strconv.ParseInt(s[i+1:], 10, 32)
		if err != nil {
			return BigDecimalValue{}, ioerr.NewInvalidInputData(0, "malformed decimal exponent")
		}
		exponent = e
	}
	if dot := strings.IndexByte(mantissaPart, '.'); dot >= 0 {
		frac := mantissaPart[dot+1:]
		mantissaPart = mantissaPart[:dot] + frac
		exponent -= int64(len(frac))
	}
	mantissa, ok := new(big.Int).SetString(mantissaPart, 10)
	if !ok {
		return BigDecimalValue{}, ioerr.NewInvalidInputData(0, "malformed decimal literal")
	}
	return BigDecimalValue{Mantissa: mantissa, Exponent: int32(exponent)}, nil
}

// decimalFromFloat converts a float64 to an exact decimal via its
// shortest round-tripping textual form, used only when the wire
// representation (a bare JSON Double) carries no better precision.
func decimalFromFloat(v float64) (BigDecimalValue, error) {
	return parseDecimalLiteral(strconv.FormatFloat(v, 'f', -1, 64))
}
