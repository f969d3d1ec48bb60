// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"math/big"
	"time"
	"unicode/utf8"

	"codello.dev/tsp/internal/vlq"
)

// The methods in this file read typed values from the content octets of an
// [Element]. They validate the per-type DER constraints but deliberately do
// not validate the tag of the Element: implicit tagging changes the tag of an
// encoding without changing its contents, so tag expectations belong to the
// schema, not to the codec.

// Boolean reads e as an ASN.1 BOOLEAN. DER requires the single content octet
// to be exactly 0x00 or 0xFF.
func (e Element) Boolean() (bool, error) {
	if e.Constructed || len(e.Bytes) != 1 {
		return false, syntaxError(e.offset, ErrInvalidBoolean)
	}
	switch e.Bytes[0] {
	case 0x00:
		return false, nil
	case 0xff:
		return true, nil
	}
	return false, syntaxError(e.offset, ErrInvalidBoolean)
}

// checkInteger validates the common DER constraints of an INTEGER encoding:
// the primitive form, at least one content octet and no redundant leading
// octet. A leading 0x00 is permitted only if the following octet would
// otherwise be mistaken for a sign bit (and 0xFF correspondingly).
func (e Element) checkInteger() error {
	if e.Constructed || len(e.Bytes) == 0 {
		return syntaxError(e.offset, ErrInvalidInteger)
	}
	if len(e.Bytes) > 1 {
		if e.Bytes[0] == 0x00 && e.Bytes[1]&0x80 == 0 {
			return syntaxError(e.offset, ErrInvalidInteger)
		}
		if e.Bytes[0] == 0xff && e.Bytes[1]&0x80 != 0 {
			return syntaxError(e.offset, ErrInvalidInteger)
		}
	}
	return nil
}

// Int64 reads e as an ASN.1 INTEGER that fits into an int64.
func (e Element) Int64() (int64, error) {
	if err := e.checkInteger(); err != nil {
		return 0, err
	}
	if len(e.Bytes) > 8 {
		return 0, syntaxError(e.offset, ErrInvalidInteger)
	}
	ret := int64(int8(e.Bytes[0])) // sign-extend
	for _, b := range e.Bytes[1:] {
		ret = ret<<8 | int64(b)
	}
	return ret, nil
}

// Uint64 reads e as a non-negative ASN.1 INTEGER that fits into a uint64.
// Values of 2^63 and above are encoded with a sign-disambiguating leading
// zero octet, so the encoding may be up to nine octets long.
func (e Element) Uint64() (uint64, error) {
	if err := e.checkInteger(); err != nil {
		return 0, err
	}
	if e.Bytes[0]&0x80 != 0 {
		// negative
		return 0, syntaxError(e.offset, ErrInvalidInteger)
	}
	bs := e.Bytes
	if bs[0] == 0x00 && len(bs) > 1 {
		bs = bs[1:]
	}
	if len(bs) > 8 {
		return 0, syntaxError(e.offset, ErrInvalidInteger)
	}
	var ret uint64
	for _, b := range bs {
		ret = ret<<8 | uint64(b)
	}
	return ret, nil
}

// BigInt reads e as an ASN.1 INTEGER of arbitrary precision.
func (e Element) BigInt() (*big.Int, error) {
	if err := e.checkInteger(); err != nil {
		return nil, err
	}
	ret := new(big.Int).SetBytes(e.Bytes)
	if e.Bytes[0]&0x80 != 0 {
		// two's complement: subtract 2^(8*len)
		shift := new(big.Int).Lsh(big.NewInt(1), uint(len(e.Bytes))*8)
		ret.Sub(ret, shift)
	}
	return ret, nil
}

// OctetString reads e as an ASN.1 OCTET STRING. DER requires the primitive
// encoding. The returned slice aliases the input buffer.
func (e Element) OctetString() ([]byte, error) {
	if e.Constructed {
		return nil, syntaxError(e.offset, ErrNonCanonical)
	}
	return e.Bytes, nil
}

// BitString reads e as an ASN.1 BIT STRING. DER requires the primitive
// encoding and zero-valued padding bits.
func (e Element) BitString() (BitString, error) {
	if e.Constructed || len(e.Bytes) == 0 {
		return BitString{}, syntaxError(e.offset, ErrInvalidBitString)
	}
	pad := int(e.Bytes[0])
	if pad > 7 || (len(e.Bytes) == 1 && pad != 0) {
		return BitString{}, syntaxError(e.offset, ErrInvalidBitString)
	}
	if pad > 0 && e.Bytes[len(e.Bytes)-1]&(1<<pad-1) != 0 {
		return BitString{}, syntaxError(e.offset, ErrNonCanonical)
	}
	return BitString{
		Bytes:     e.Bytes[1:],
		BitLength: (len(e.Bytes)-1)*8 - pad,
	}, nil
}

// ObjectIdentifier reads e as an ASN.1 OBJECT IDENTIFIER. Each component must
// be minimally base-128 encoded and the leading component carries the
// standard 40*X+Y folding of the first two arcs.
func (e Element) ObjectIdentifier() (ObjectIdentifier, error) {
	if e.Constructed || len(e.Bytes) == 0 {
		return nil, syntaxError(e.offset, ErrInvalidOID)
	}
	oid := make(ObjectIdentifier, 0, 8)
	bs := e.Bytes
	for len(bs) > 0 {
		v, n, err := vlq.Read[uint](bs)
		if err != nil {
			return nil, syntaxError(e.offset, ErrInvalidOID)
		}
		bs = bs[n:]
		if len(oid) == 0 {
			switch {
			case v < 40:
				oid = append(oid, 0, v)
			case v < 80:
				oid = append(oid, 1, v-40)
			default:
				oid = append(oid, 2, v-80)
			}
			continue
		}
		oid = append(oid, v)
	}
	return oid, nil
}

// IA5String reads e as an ASN.1 IA5String. The contents are restricted to the
// 7-bit ASCII range; they are validated but not transcoded.
func (e Element) IA5String() (string, error) {
	if e.Constructed {
		return "", syntaxError(e.offset, ErrNonCanonical)
	}
	for _, b := range e.Bytes {
		if b >= utf8.RuneSelf {
			return "", syntaxError(e.offset, ErrInvalidString)
		}
	}
	return string(e.Bytes), nil
}

// UTF8String reads e as an ASN.1 UTF8String.
func (e Element) UTF8String() (string, error) {
	if e.Constructed {
		return "", syntaxError(e.offset, ErrNonCanonical)
	}
	if !utf8.Valid(e.Bytes) {
		return "", syntaxError(e.offset, ErrInvalidString)
	}
	return string(e.Bytes), nil
}

// GeneralizedTime reads e as an ASN.1 GeneralizedTime in the DER-restricted
// form YYYYMMDDHHMMSS[.f…]Z: seconds are always present, the time is always
// in UTC with the Z suffix and a fractional-seconds field must not be empty
// and must not end in a zero digit.
func (e Element) GeneralizedTime() (time.Time, error) {
	if e.Constructed {
		return time.Time{}, syntaxError(e.offset, ErrInvalidTime)
	}
	bs := e.Bytes
	if len(bs) < 15 || bs[len(bs)-1] != 'Z' {
		return time.Time{}, syntaxError(e.offset, ErrInvalidTime)
	}
	bs = bs[:len(bs)-1]

	fields := [6]int{} // year, month, day, hour, minute, second
	widths := [6]int{4, 2, 2, 2, 2, 2}
	for i, w := range widths {
		v, ok := atoiN(bs[:w])
		if !ok {
			return time.Time{}, syntaxError(e.offset, ErrInvalidTime)
		}
		fields[i] = v
		bs = bs[w:]
	}

	nsec := 0
	if len(bs) > 0 {
		if bs[0] != '.' || len(bs) == 1 || len(bs) > 10 {
			return time.Time{}, syntaxError(e.offset, ErrInvalidTime)
		}
		frac := bs[1:]
		if frac[len(frac)-1] == '0' {
			// trailing zeros are forbidden in DER
			return time.Time{}, syntaxError(e.offset, ErrInvalidTime)
		}
		v, ok := atoiN(frac)
		if !ok {
			return time.Time{}, syntaxError(e.offset, ErrInvalidTime)
		}
		nsec = v
		for i := len(frac); i < 9; i++ {
			nsec *= 10
		}
	}

	if fields[1] < 1 || fields[1] > 12 || fields[2] < 1 || fields[2] > 31 ||
		fields[3] > 23 || fields[4] > 59 || fields[5] > 59 {
		return time.Time{}, syntaxError(e.offset, ErrInvalidTime)
	}
	t := time.Date(fields[0], time.Month(fields[1]), fields[2], fields[3], fields[4], fields[5], nsec, time.UTC)
	if t.Day() != fields[2] {
		// time.Date normalizes out-of-range days (e.g. Feb 30)
		return time.Time{}, syntaxError(e.offset, ErrInvalidTime)
	}
	return t, nil
}

// atoiN parses bs as an unsigned decimal number consisting of digits only.
func atoiN(bs []byte) (int, bool) {
	v := 0
	for _, b := range bs {
		if b < '0' || b > '9' {
			return 0, false
		}
		v = v*10 + int(b-'0')
	}
	return v, true
}
