// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package der implements encoding and decoding of the tag-length-value (TLV)
// format prescribed by the ASN.1 Distinguished Encoding Rules (DER) as
// specified in [Rec. ITU-T X.690].
// See also “[A Layman's Guide to a Subset of ASN.1, BER, and DER]”.
//
// In contrast to the Basic Encoding Rules there is exactly one valid DER
// encoding for every abstract value. This package enforces that property on
// both paths: the [Decoder] rejects every encoding DER forbids (indefinite
// lengths, non-minimal length octets, non-minimal integers and the like) and
// the Append functions never produce anything but the canonical form.
//
// # Decoding
//
// A [Decoder] is a cursor over a byte buffer that produces a sequence of
// [Element] values. Decoding is zero-copy: the content octets of an Element
// are a sub-slice of the input buffer and remain valid only as long as the
// buffer is neither freed nor mutated. Use [Parse] to decode a buffer that
// must contain exactly one top-level data value.
//
// Typed values are read from an Element using its methods such as
// [Element.Int64] or [Element.ObjectIdentifier]. The methods validate the
// per-type DER constraints but not the tag of the Element; matching tags
// against a schema is the caller's job, supported by [Decoder.Field] and
// [Decoder.Optional].
//
// # Encoding
//
// Encoding uses append-style functions that build the canonical encoding
// bottom-up: the content octets of a constructed data value are assembled
// first so that the enclosing header can be written with its definite,
// minimal length.
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
// [A Layman's Guide to a Subset of ASN.1, BER, and DER]: http://luca.ntop.org/Teaching/Appunti/asn1.html
package der

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Tag constitutes an ASN.1 tag, consisting of its class and number. For
// details, see Section 8 of Rec. ITU-T X.680.
type Tag struct {
	Class  Class
	Number uint
}

// Universal returns the tag with the given number in the UNIVERSAL class.
func Universal(number uint) Tag {
	return Tag{Class: ClassUniversal, Number: number}
}

// ContextSpecific returns the tag with the given number in the CONTEXT
// SPECIFIC class.
func ContextSpecific(number uint) Tag {
	return Tag{Class: ClassContextSpecific, Number: number}
}

// String returns a string representation of t in a format similar to the one
// used in ASN.1 notation. The tag number is enclosed by square brackets and
// prefixed with the class used. To avoid ambiguity the UNIVERSAL word is used
// for universal tags, although this is not valid ASN.1 syntax.
func (t Tag) String() string {
	if t.Class == ClassContextSpecific {
		return "[" + strconv.FormatUint(uint64(t.Number), 10) + "]"
	}
	return "[" + strings.ToUpper(t.Class.String()) + " " + strconv.FormatUint(uint64(t.Number), 10) + "]"
}

// Class holds the class part of an ASN.1 tag. The class acts as a namespace
// for the tag number. A Class value is an unsigned 2-bit integer. Class values
// whose value exceeds 2 bits are invalid.
//
//go:generate stringer -type=Class -trimprefix=Class
type Class uint8

// IsValid reports whether c is a valid Class value.
func (c Class) IsValid() bool {
	return c <= 3
}

// Predefined [Class] constants. These are all the possible values that can be
// encoded in the [Class] type.
const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// These are the ASN.1 tag numbers in the [ClassUniversal] namespace used by
// this package. The assignments are defined in Rec. ITU-T X.680, Section 8,
// Table 1.
const (
	TagBoolean         uint = 1
	TagInteger         uint = 2
	TagBitString       uint = 3
	TagOctetString     uint = 4
	TagNull            uint = 5
	TagOID             uint = 6
	TagEnumerated      uint = 10
	TagUTF8String      uint = 12
	TagSequence        uint = 16
	TagSet             uint = 17
	TagPrintableString uint = 19
	TagIA5String       uint = 22
	TagUTCTime         uint = 23
	TagGeneralizedTime uint = 24
)

// Header represents the header of an encoded data value, that is its
// identifier octets and its decoded length. DER forbids the indefinite-length
// format, so Length is always the definite number of content octets.
type Header struct {
	Tag         Tag
	Constructed bool
	Length      int
}

// String returns a string representation of h.
func (h Header) String() string {
	s := h.Tag.String()
	if h.Constructed {
		s += "/c"
	} else {
		s += "/p"
	}
	return s + ":" + strconv.Itoa(h.Length)
}

// A RawValue represents an un-decoded ASN.1 data value. During decoding the
// syntax of the encoding has been validated, so Bytes are guaranteed to
// contain the content octets of a valid DER encoding. During encoding the
// bytes are written as-is beneath a canonical header.
type RawValue struct {
	Tag         Tag
	Constructed bool
	Bytes       []byte
}

// Equal reports whether rv and other represent the same data value.
func (rv RawValue) Equal(other RawValue) bool {
	return rv.Tag == other.Tag && rv.Constructed == other.Constructed && slices.Equal(rv.Bytes, other.Bytes)
}

// String returns a string representation of rv. The byte contents of rv are
// only included if they are short enough.
func (rv RawValue) String() string {
	constructed := "primitive"
	if rv.Constructed {
		constructed = "constructed"
	}
	if len(rv.Bytes) > 24 {
		return fmt.Sprintf("RawValue{%s (%s) {%d bytes}}", rv.Tag.String(), constructed, len(rv.Bytes))
	}
	return fmt.Sprintf("RawValue{%s (%s) {% X}}", rv.Tag.String(), constructed, rv.Bytes)
}

// An ObjectIdentifier represents an ASN.1 OBJECT IDENTIFIER. The semantics of
// an object identifier are specified in [Rec. ITU-T X.660].
//
// [Rec. ITU-T X.660]: https://www.itu.int/rec/T-REC-X.660
type ObjectIdentifier []uint

// Equal reports whether oid and other represent the same identifier.
func (oid ObjectIdentifier) Equal(other ObjectIdentifier) bool {
	return slices.Equal(oid, other)
}

// String returns the dot-separated notation of oid.
func (oid ObjectIdentifier) String() string {
	var s strings.Builder
	s.Grow(32)

	buf := make([]byte, 0, 19)
	for i, v := range oid {
		if i > 0 {
			s.WriteByte('.')
		}
		s.Write(strconv.AppendInt(buf, int64(v), 10))
	}

	return s.String()
}

// BitString implements the ASN.1 BIT STRING type. A bit string is padded up
// to the nearest byte in memory and the number of valid bits is recorded. In
// DER the padding bits must be zero.
//
// See also section 22 of Rec. ITU-T X.680.
type BitString struct {
	Bytes     []byte // bits packed into bytes.
	BitLength int    // length in bits.
}

// IsValid reports whether there are enough bytes in s for the indicated
// BitLength.
func (s BitString) IsValid() bool {
	return len(s.Bytes) >= (s.BitLength+8-1)/8
}

// Len returns the number of bits in s.
func (s BitString) Len() int {
	return s.BitLength
}

// At returns the bit at the given index. If the index is out of range At
// panics.
func (s BitString) At(i int) int {
	if i < 0 || i >= s.BitLength {
		panic("index out of range")
	}
	x := i / 8
	y := 7 - uint(i%8)
	return int(s.Bytes[x]>>y) & 1
}

// Equal reports whether s and other contain the same bits.
func (s BitString) Equal(other BitString) bool {
	return s.BitLength == other.BitLength && slices.Equal(s.Bytes, other.Bytes)
}
