// Package vlq implements [Variable-length quantity] encoding as used in MIDI
// or BER. A VLQ is essentially a base-128 representation of an unsigned
// integer with the addition of the eighth bit to mark continuation of bytes.
// VLQ is identical to [LEB128] except in endianness.
//
// This package operates on byte slices. Decoding never reads past the bytes
// that belong to the encoded quantity.
//
// [Variable-length quantity]: https://en.wikipedia.org/wiki/Variable-length_quantity
// [LEB128]: https://en.wikipedia.org/wiki/LEB128
package vlq

import (
	"errors"
	"math/bits"
	"unsafe"
)

var (
	// ErrNotMinimal indicates a VLQ with a redundant leading 0x80 byte.
	ErrNotMinimal = errors.New("vlq is not minimally encoded")
	// ErrOverflow indicates a VLQ whose value does not fit the target type.
	ErrOverflow = errors.New("vlq too large for target type")
	// ErrIncomplete indicates that the buffer ended inside a VLQ.
	ErrIncomplete = errors.New("incomplete vlq")
)

// Read parses an unsigned VLQ from the beginning of buf. It returns the
// decoded value and the number of bytes consumed. The maximum allowed value
// is limited by the size of T.
//
// The encoding must be minimal: a leading byte of 0x80 is rejected with
// [ErrNotMinimal].
func Read[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](buf []byte) (ret T, n int, err error) {
	if len(buf) == 0 {
		return 0, 0, ErrIncomplete
	}
	b := buf[0]
	if b == 0x80 {
		return 0, 0, ErrNotMinimal
	}

	ret = T(b & 0x7f)
	numBits := bits.Len8(b & 0x7f)
	n = 1

	for b&0x80 != 0 {
		if n == len(buf) {
			return 0, n, ErrIncomplete
		}
		b = buf[n]
		n++
		ret <<= 7
		ret |= T(b & 0x7f)

		if numBits == 0 {
			numBits = bits.Len8(b & 0x7f)
		} else {
			numBits += 7
		}
		if numBits > int(unsafe.Sizeof(ret)*8) {
			return 0, n, ErrOverflow
		}
	}
	return ret, n, nil
}

// Length returns the number of bytes needed to encode n as a VLQ.
func Length[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](n T) int {
	if n == 0 {
		return 1
	}
	l := 0
	for i := n; i > 0; i >>= 7 {
		l++
	}
	return l
}

// Append appends the VLQ encoding of i to dst and returns the extended slice.
func Append[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](dst []byte, i T) []byte {
	l := Length(i)
	for j := l - 1; j >= 0; j-- {
		b := byte(i>>(j*7)) & 0x7f
		if j > 0 {
			b |= 0x80
		}
		dst = append(dst, b)
	}
	return dst
}
