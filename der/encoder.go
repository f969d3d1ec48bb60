// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"math/big"
	"time"

	"codello.dev/tsp/internal/vlq"
)

// The functions in this file append the canonical DER encoding of typed
// values to a byte slice. Constructed data values are assembled bottom-up:
// callers build the content octets of the children first and wrap them using
// [AppendElement] or [AppendExplicit], so every header is written with its
// definite, minimal length.
//
// The append functions cannot fail. Inputs that have no DER representation
// (such as an ObjectIdentifier with fewer than two arcs) are programmer
// errors and panic; schema implementations validate values before encoding.

// AppendElement appends a data value with the given tag and content octets to
// dst and returns the extended slice.
func AppendElement(dst []byte, tag Tag, constructed bool, content []byte) []byte {
	dst = appendHeader(dst, Header{Tag: tag, Constructed: constructed, Length: len(content)})
	return append(dst, content...)
}

// AppendExplicit wraps inner, which must be a complete data value encoding,
// in a constructed data value with the given tag.
func AppendExplicit(dst []byte, tag Tag, inner []byte) []byte {
	return AppendElement(dst, tag, true, inner)
}

// AppendRawValue appends rv to dst beneath a canonical header.
func AppendRawValue(dst []byte, rv RawValue) []byte {
	return AppendElement(dst, rv.Tag, rv.Constructed, rv.Bytes)
}

// AppendBoolean appends a BOOLEAN data value to dst. DER encodes true as the
// single content octet 0xFF.
func AppendBoolean(dst []byte, tag Tag, v bool) []byte {
	b := byte(0x00)
	if v {
		b = 0xff
	}
	return AppendElement(dst, tag, false, []byte{b})
}

// AppendInt64 appends an INTEGER data value to dst using the minimal
// two's-complement encoding.
func AppendInt64(dst []byte, tag Tag, v int64) []byte {
	n := 1
	for i := v; i > 127; i >>= 8 {
		n++
	}
	for i := v; i < -128; i >>= 8 {
		n++
	}
	dst = appendHeader(dst, Header{Tag: tag, Length: n})
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*i)))
	}
	return dst
}

// AppendUint64 appends a non-negative INTEGER data value to dst. Values with
// the top bit set receive a sign-disambiguating leading zero octet.
func AppendUint64(dst []byte, tag Tag, v uint64) []byte {
	n := 1
	for i := v; i > 127; i >>= 8 {
		n++
	}
	dst = appendHeader(dst, Header{Tag: tag, Length: n})
	for i := n - 1; i >= 0; i-- {
		dst = append(dst, byte(v>>(8*uint(i))))
	}
	return dst
}

// AppendBigInt appends an INTEGER data value of arbitrary precision to dst.
func AppendBigInt(dst []byte, tag Tag, v *big.Int) []byte {
	var content []byte
	switch v.Sign() {
	case 0:
		content = []byte{0x00}
	case 1:
		bs := v.Bytes()
		if bs[0]&0x80 != 0 {
			content = make([]byte, 0, len(bs)+1)
			content = append(content, 0x00)
		}
		content = append(content, bs...)
	case -1:
		// two's complement: invert the bytes of -v-1
		nMinus1 := new(big.Int).Neg(v)
		nMinus1.Sub(nMinus1, big.NewInt(1))
		bs := nMinus1.Bytes()
		for i := range bs {
			bs[i] ^= 0xff
		}
		if len(bs) == 0 || bs[0]&0x80 == 0 {
			bs = append([]byte{0xff}, bs...)
		}
		content = bs
	}
	return AppendElement(dst, tag, false, content)
}

// AppendOctetString appends an OCTET STRING data value to dst.
func AppendOctetString(dst []byte, tag Tag, b []byte) []byte {
	return AppendElement(dst, tag, false, b)
}

// AppendString appends a character string data value to dst. The bytes of s
// are written as-is; restricted character sets such as IA5String must be
// validated by the caller.
func AppendString(dst []byte, tag Tag, s string) []byte {
	dst = appendHeader(dst, Header{Tag: tag, Length: len(s)})
	return append(dst, s...)
}

// AppendBitString appends a BIT STRING data value to dst. Padding bits are
// written as zero as DER requires.
func AppendBitString(dst []byte, tag Tag, bs BitString) []byte {
	if !bs.IsValid() {
		panic("der: invalid bit string")
	}
	numBytes := (bs.BitLength + 7) / 8
	pad := byte(numBytes*8 - bs.BitLength)
	dst = appendHeader(dst, Header{Tag: tag, Length: numBytes + 1})
	dst = append(dst, pad)
	if numBytes == 0 {
		return dst
	}
	dst = append(dst, bs.Bytes[:numBytes]...)
	dst[len(dst)-1] &= 0xff << pad
	return dst
}

// AppendObjectIdentifier appends an OBJECT IDENTIFIER data value to dst. The
// identifier must consist of at least two arcs with the standard constraints
// on the first two, otherwise AppendObjectIdentifier panics.
func AppendObjectIdentifier(dst []byte, tag Tag, oid ObjectIdentifier) []byte {
	if len(oid) < 2 || oid[0] > 2 || (oid[0] < 2 && oid[1] >= 40) {
		panic("der: invalid object identifier")
	}
	content := make([]byte, 0, len(oid)+4)
	content = vlq.Append(content, oid[0]*40+oid[1])
	for _, v := range oid[2:] {
		content = vlq.Append(content, v)
	}
	return AppendElement(dst, tag, false, content)
}

// AppendGeneralizedTime appends a GeneralizedTime data value to dst in the
// DER-restricted form YYYYMMDDHHMMSS[.f…]Z. The time is converted to UTC and
// a fractional-seconds field is only written for a non-zero nanosecond part,
// without trailing zero digits.
func AppendGeneralizedTime(dst []byte, tag Tag, t time.Time) []byte {
	t = t.UTC()
	content := make([]byte, 0, 24)
	content = appendDigits(content, t.Year(), 4)
	content = appendDigits(content, int(t.Month()), 2)
	content = appendDigits(content, t.Day(), 2)
	content = appendDigits(content, t.Hour(), 2)
	content = appendDigits(content, t.Minute(), 2)
	content = appendDigits(content, t.Second(), 2)
	if ns := t.Nanosecond(); ns > 0 {
		content = append(content, '.')
		content = appendDigits(content, ns, 9)
		// ns > 0, so stripping trailing zeros cannot reach the dot.
		for content[len(content)-1] == '0' {
			content = content[:len(content)-1]
		}
	}
	content = append(content, 'Z')
	return AppendElement(dst, tag, false, content)
}

// appendDigits appends the base 10 representation of v, zero padded to
// exactly n digits.
func appendDigits(dst []byte, v int, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		p := 1
		for j := 0; j < i; j++ {
			p *= 10
		}
		dst = append(dst, '0'+byte(v/p%10))
	}
	return dst
}
