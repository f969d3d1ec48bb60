// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tsp implements the wire structures of the [RFC 3161] Time-Stamp
// Protocol: the [TimeStampReq] sent to a time-stamp authority, the
// [TimeStampResp] it returns and the signed [TSTInfo] payload embedded in a
// successful response. All structures are encoded using the ASN.1
// Distinguished Encoding Rules via the [codello.dev/tsp/der] package.
//
// The package is purely concerned with the byte format. Obtaining request or
// response bytes from a file or network connection, verifying the CMS
// signature of a time-stamp token and computing message digests are the
// caller's responsibility; the SignedData envelope and algorithm parameters
// pass through as opaque data values.
//
// Parse functions are all-or-nothing: on error no partial structure is
// returned. Decoded structures borrow from the input buffer, see the der
// package for the aliasing contract.
//
// [RFC 3161]: https://www.rfc-editor.org/rfc/rfc3161
package tsp

import (
	"errors"

	"codello.dev/tsp/der"
)

// These errors describe violations of RFC 3161 rules that hold between
// fields, as opposed to the syntax errors of the der package. They are
// reported wrapped in a [*SemanticError].
var (
	// ErrUnsupportedVersion indicates a version field with a value other
	// than 1, the only version RFC 3161 defines.
	ErrUnsupportedVersion = errors.New("unsupported version")

	// ErrStatusTokenMismatch indicates a response whose status and token
	// presence disagree: a granted status requires a token, every other
	// status forbids one.
	ErrStatusTokenMismatch = errors.New("status and token presence disagree")

	// ErrDigestSize indicates a message imprint whose hashed message does not
	// have the digest size of its hash algorithm.
	ErrDigestSize = errors.New("hashed message does not match digest size")

	// ErrValueRange indicates an integer field outside of its permitted
	// range, such as an unknown status code or an accuracy of zero millis.
	ErrValueRange = errors.New("value out of range")

	// ErrMissingField indicates that a required field was left unset when
	// encoding a structure.
	ErrMissingField = errors.New("missing required field")
)

// SemanticError reports a violation of an RFC 3161 constraint in a message
// that is syntactically valid DER. Struct names the structure in which the
// violation occurred.
type SemanticError struct {
	Struct string
	Err    error
}

func (e *SemanticError) Unwrap() error { return e.Err }

func (e *SemanticError) Error() string {
	s := "tsp: invalid " + e.Struct
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

// semanticError wraps err into a [*SemanticError] for the named structure.
func semanticError(name string, err error) error {
	return &SemanticError{Struct: name, Err: err}
}

// sequence checks that e is a SEQUENCE and returns a cursor over its fields.
func sequence(e der.Element) (*der.Decoder, error) {
	if e.Tag != der.Universal(der.TagSequence) {
		return nil, &der.SyntaxError{Err: der.ErrUnexpectedTag, ByteOffset: e.Offset()}
	}
	return e.Sequence()
}
