// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"strconv"
)

// These errors classify the ways in which a byte buffer can fail to be a
// valid DER encoding. They are reported wrapped in a [*SyntaxError] and can
// be matched using [errors.Is].
var (
	// ErrTruncated indicates that a declared length exceeds the remaining
	// bytes of the input.
	ErrTruncated = errors.New("truncated input")

	// ErrTrailingData indicates that a top-level decode left unconsumed bytes
	// in the input.
	ErrTrailingData = errors.New("trailing data after data value")

	// ErrUnexpectedTag indicates that a data value did not carry the tag the
	// schema requires at its position.
	ErrUnexpectedTag = errors.New("unexpected tag")

	// ErrNoMatchingChoice indicates that a data value matched none of the
	// alternatives of a CHOICE type.
	ErrNoMatchingChoice = errors.New("no matching CHOICE alternative")

	// ErrInvalidLength indicates length octets that DER forbids: the
	// indefinite form, a non-minimal long form, or the reserved octet 0xFF.
	ErrInvalidLength = errors.New("invalid length encoding")

	// ErrInvalidBoolean indicates a BOOLEAN whose content octet is neither
	// 0x00 nor 0xFF.
	ErrInvalidBoolean = errors.New("invalid boolean encoding")

	// ErrInvalidInteger indicates an INTEGER with zero content octets or with
	// redundant leading octets.
	ErrInvalidInteger = errors.New("invalid integer encoding")

	// ErrInvalidBitString indicates a BIT STRING with missing or out-of-range
	// padding information.
	ErrInvalidBitString = errors.New("invalid bit string encoding")

	// ErrInvalidString indicates a character string containing bytes outside
	// of its permitted alphabet.
	ErrInvalidString = errors.New("invalid string encoding")

	// ErrInvalidOID indicates a malformed OBJECT IDENTIFIER encoding.
	ErrInvalidOID = errors.New("invalid object identifier encoding")

	// ErrInvalidTime indicates a GeneralizedTime that violates the DER
	// restrictions on the time format.
	ErrInvalidTime = errors.New("invalid time format")

	// ErrMaxDepth indicates that the nesting of constructed data values
	// exceeded the depth guard of the decoder.
	ErrMaxDepth = errors.New("maximum nesting depth exceeded")

	// ErrNonCanonical indicates an encoding that is valid BER but not the
	// canonical DER form, such as an explicitly encoded DEFAULT value.
	ErrNonCanonical = errors.New("non-canonical encoding")
)

// SyntaxError represents an error in the DER encoding of the input. The error
// value contains the location of the error within the input as well as the
// error kind that classifies it.
type SyntaxError struct {
	// Err is the underlying error, usually one of the Err* kinds of this
	// package.
	Err error

	// ByteOffset is the location of the error. The location is usually the
	// start of the TLV header containing the error.
	ByteOffset int64
}

func (e *SyntaxError) Unwrap() error { return e.Err }

func (e *SyntaxError) Error() string {
	b := []byte("der: syntax error")
	if e.ByteOffset > 0 {
		b = strconv.AppendInt(append(b, " at offset "...), e.ByteOffset, 10)
	}
	if e.Err != nil {
		b = append(b, ": "...)
		b = append(b, e.Err.Error()...)
	}
	return string(b)
}

// syntaxError wraps kind into a [*SyntaxError] at the given offset.
func syntaxError(offset int64, kind error) error {
	return &SyntaxError{Err: kind, ByteOffset: offset}
}
