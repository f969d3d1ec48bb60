// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsp

import (
	"unicode/utf8"

	"codello.dev/tsp/der"
)

// A GeneralName identifies the TSA in a [TSTInfo]. GeneralName is a CHOICE
// over several alternatives, each carried under its own context-specific tag:
// [OtherName], [DNSName], [URI], [IPAddress] and [RegisteredID]. Exactly one
// alternative is active per value; a type switch over these five types is
// exhaustive.
type GeneralName interface {
	appendName(dst []byte) ([]byte, error)
}

// An OtherName is a name of a form identified by its embedded type OID. The
// whole AnotherName structure is carried as an opaque data value.
type OtherName der.RawValue

// A DNSName is a host name in preferred name syntax.
type DNSName string

// A URI is a uniform resource identifier.
type URI string

// An IPAddress is a network address in network byte order, four octets for
// IPv4 and sixteen for IPv6.
type IPAddress []byte

// A RegisteredID is a name registered as an object identifier.
type RegisteredID der.ObjectIdentifier

// Context tag numbers of the GeneralName alternatives, as assigned in
// RFC 5280, Section 4.2.1.6.
const (
	tagOtherName    uint = 0
	tagDNSName      uint = 2
	tagURI          uint = 6
	tagIPAddress    uint = 7
	tagRegisteredID uint = 8
)

// parseGeneralName decodes the alternative identified by the context tag of
// e. A tag matching none of the known alternatives fails with
// [der.ErrNoMatchingChoice].
func parseGeneralName(e der.Element) (GeneralName, error) {
	if e.Tag.Class != der.ClassContextSpecific {
		return nil, &der.SyntaxError{Err: der.ErrNoMatchingChoice, ByteOffset: e.Offset()}
	}
	switch e.Tag.Number {
	case tagOtherName:
		inner, err := e.Explicit()
		if err != nil {
			return nil, err
		}
		return OtherName(inner.RawValue()), nil
	case tagDNSName, tagURI:
		inner, err := e.Explicit()
		if err != nil {
			return nil, err
		}
		if inner.Tag != der.Universal(der.TagIA5String) {
			return nil, &der.SyntaxError{Err: der.ErrUnexpectedTag, ByteOffset: inner.Offset()}
		}
		s, err := inner.IA5String()
		if err != nil {
			return nil, err
		}
		if e.Tag.Number == tagDNSName {
			return DNSName(s), nil
		}
		return URI(s), nil
	case tagIPAddress:
		inner, err := e.Explicit()
		if err != nil {
			return nil, err
		}
		if inner.Tag != der.Universal(der.TagOctetString) {
			return nil, &der.SyntaxError{Err: der.ErrUnexpectedTag, ByteOffset: inner.Offset()}
		}
		addr, err := inner.OctetString()
		if err != nil {
			return nil, err
		}
		return IPAddress(addr), nil
	case tagRegisteredID:
		inner, err := e.Explicit()
		if err != nil {
			return nil, err
		}
		if inner.Tag != der.Universal(der.TagOID) {
			return nil, &der.SyntaxError{Err: der.ErrUnexpectedTag, ByteOffset: inner.Offset()}
		}
		oid, err := inner.ObjectIdentifier()
		if err != nil {
			return nil, err
		}
		return RegisteredID(oid), nil
	}
	return nil, &der.SyntaxError{Err: der.ErrNoMatchingChoice, ByteOffset: e.Offset()}
}

// appendIA5 validates s as an IA5String and appends its encoding beneath the
// explicit context tag number.
func appendIA5(dst []byte, number uint, name string, s string) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return nil, semanticError(name, der.ErrInvalidString)
		}
	}
	inner := der.AppendString(nil, der.Universal(der.TagIA5String), s)
	return der.AppendExplicit(dst, der.ContextSpecific(number), inner), nil
}

func (n OtherName) appendName(dst []byte) ([]byte, error) {
	inner := der.AppendRawValue(nil, der.RawValue(n))
	return der.AppendExplicit(dst, der.ContextSpecific(tagOtherName), inner), nil
}

func (n DNSName) appendName(dst []byte) ([]byte, error) {
	return appendIA5(dst, tagDNSName, "DNSName", string(n))
}

func (n URI) appendName(dst []byte) ([]byte, error) {
	return appendIA5(dst, tagURI, "URI", string(n))
}

func (n IPAddress) appendName(dst []byte) ([]byte, error) {
	inner := der.AppendOctetString(nil, der.Universal(der.TagOctetString), n)
	return der.AppendExplicit(dst, der.ContextSpecific(tagIPAddress), inner), nil
}

func (n RegisteredID) appendName(dst []byte) ([]byte, error) {
	if len(n) < 2 {
		return nil, semanticError("RegisteredID", ErrMissingField)
	}
	inner := der.AppendObjectIdentifier(nil, der.Universal(der.TagOID), der.ObjectIdentifier(n))
	return der.AppendExplicit(dst, der.ContextSpecific(tagRegisteredID), inner), nil
}
