// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"math"
	"math/bits"

	"codello.dev/tsp/internal/vlq"
)

// maxTagNumber is the largest tag number supported by this package. The limit
// exists so that a Tag can be handled uniformly on 32-bit and 64-bit
// platforms.
const maxTagNumber = math.MaxUint32

// decodeHeader parses the identifier and length octets of a data value
// encoding from the beginning of buf. It returns the parsed [Header] and the
// number of bytes that make up the header. base is the offset of buf[0]
// within the original input and is used for error locations.
//
// decodeHeader enforces the DER restrictions on headers: the
// indefinite-length octet 0x80 and the reserved octet 0xFF are rejected, the
// long length form must not be usable in short form and must not carry
// leading zero octets, and the high-tag-number form must be minimal and must
// not encode a number below 31.
func decodeHeader(buf []byte, base int64) (h Header, n int, err error) {
	if len(buf) == 0 {
		return h, 0, syntaxError(base, ErrTruncated)
	}
	b := buf[0]
	n = 1
	h.Tag.Class = Class(b >> 6)
	h.Constructed = b&0x20 == 0x20
	h.Tag.Number = uint(b & 0x1f)

	// If the bottom five bits are set, the tag number is VLQ-encoded in the
	// following octets.
	if b&0x1f == 0x1f {
		num, vn, err := vlq.Read[uint64](buf[n:])
		n += vn
		switch err {
		case nil:
		case vlq.ErrIncomplete:
			return h, n, syntaxError(base, ErrTruncated)
		default:
			return h, n, syntaxError(base, ErrNonCanonical)
		}
		if num < 0x1f || num > maxTagNumber {
			return h, n, syntaxError(base, ErrNonCanonical)
		}
		h.Tag.Number = uint(num)
	}

	if n == len(buf) {
		return h, n, syntaxError(base, ErrTruncated)
	}
	b = buf[n]
	n++
	switch {
	case b&0x80 == 0:
		// The length is encoded in the bottom 7 bits.
		h.Length = int(b)
	case b == 0x80:
		// constructed indefinite-length encoding
		return h, n, syntaxError(base, ErrInvalidLength)
	case b == 0xff:
		// reserved, see X.690 Section 8.1.3.5 c)
		return h, n, syntaxError(base, ErrInvalidLength)
	default:
		// The bottom 7 bits give the number of length octets to follow.
		numBytes := int(b & 0x7f)
		if numBytes > len(buf)-n {
			return h, n, syntaxError(base, ErrTruncated)
		}
		if buf[n] == 0x00 {
			// leading zero octets are redundant
			return h, n, syntaxError(base, ErrInvalidLength)
		}
		for i := 0; i < numBytes; i++ {
			if h.Length > math.MaxInt>>8 {
				return h, n, syntaxError(base, ErrInvalidLength)
			}
			h.Length = h.Length<<8 | int(buf[n])
			n++
		}
		if h.Length < 0x80 {
			// must have used the short form
			return h, n, syntaxError(base, ErrInvalidLength)
		}
	}
	return h, n, nil
}

// appendHeader appends the DER encoding of h to dst and returns the extended
// slice. The encoding is canonical: the length always uses the minimal form.
func appendHeader(dst []byte, h Header) []byte {
	b := byte(h.Tag.Class) << 6
	if h.Constructed {
		b |= 0x20
	}
	if h.Tag.Number < 0x1f {
		dst = append(dst, b|byte(h.Tag.Number))
	} else {
		dst = append(dst, b|0x1f)
		dst = vlq.Append(dst, h.Tag.Number)
	}

	if h.Length < 0x80 {
		return append(dst, byte(h.Length))
	}
	numBytes := (bits.Len(uint(h.Length)) + 7) / 8
	dst = append(dst, 0x80|byte(numBytes))
	for i := numBytes - 1; i >= 0; i-- {
		dst = append(dst, byte(h.Length>>(8*i)))
	}
	return dst
}
