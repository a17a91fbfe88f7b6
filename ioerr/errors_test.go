package ioerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ionscribe/stream/item"
	"github.com/stretchr/testify/require"
)

func TestKindStringNames(t *testing.T) {
	cases := map[Kind]string{
		KindUnexpectedEndOfInput: "UnexpectedEndOfInput",
		KindInvalidInputData:     "InvalidInputData",
		KindUnsupported:          "Unsupported",
		KindOverflow:             "Overflow",
		KindUnexpectedDataItem:   "UnexpectedDataItem",
		Kind(99):                 "Unknown",
	}
	for k, want := range cases {
		require.Equal(t, want, k.String())
	}
}

func TestErrorMessageIncludesPositionAndMessage(t *testing.T) {
	err := NewInvalidInputData(12, "bad escape sequence")
	require.Equal(t, "InvalidInputData at position 12: bad escape sequence", err.Error())
}

func TestErrorMessageOmittedWhenEmpty(t *testing.T) {
	err := NewOverflow(3, "")
	require.Equal(t, "Overflow at position 3", err.Error())
}

func TestUnexpectedDataItemFormatsExpectedAndActual(t *testing.T) {
	err := NewUnexpectedDataItem(5, item.KindInt, item.KindString)
	require.Equal(t, fmt.Sprintf("UnexpectedDataItem at position 5: expected %s but got %s", item.KindInt, item.KindString), err.Error())
}

func TestErrorIsMatchesSentinelByKind(t *testing.T) {
	err := NewUnsupported(0, "tag 999 not supported")
	require.True(t, errors.Is(err, Unsupported))
	require.False(t, errors.Is(err, Overflow))
}

func TestErrorUnwrapExposesCause(t *testing.T) {
	cause := errors.New("underlying")
	err := &Error{K: KindUnexpectedEndOfInput, Position: 0, Cause: cause}
	require.Equal(t, cause, errors.Unwrap(err))
}

func TestErrorAsRecoversFields(t *testing.T) {
	wrapped := fmt.Errorf("while decoding: %w", NewOverflow(7, "length too large"))

	var target *Error
	require.True(t, errors.As(wrapped, &target))
	require.Equal(t, KindOverflow, target.K)
	require.Equal(t, Position(7), target.Position)
}
