// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsp

import (
	"codello.dev/tsp/der"
)

// An AlgorithmIdentifier names an algorithm together with its optional,
// algorithm-specific parameters. The parameters vary in shape by algorithm
// and are carried as an opaque data value.
type AlgorithmIdentifier struct {
	Algorithm  der.ObjectIdentifier
	Parameters *der.RawValue
}

func parseAlgorithmIdentifier(e der.Element) (AlgorithmIdentifier, error) {
	var a AlgorithmIdentifier
	d, err := sequence(e)
	if err != nil {
		return a, err
	}
	oidE, err := d.Field(der.Universal(der.TagOID))
	if err != nil {
		return a, err
	}
	if a.Algorithm, err = oidE.ObjectIdentifier(); err != nil {
		return a, err
	}
	if d.More() {
		p, err := d.Next()
		if err != nil {
			return a, err
		}
		rv := p.RawValue()
		a.Parameters = &rv
	}
	return a, d.End()
}

func (a AlgorithmIdentifier) appendTo(dst []byte) ([]byte, error) {
	if len(a.Algorithm) < 2 {
		return nil, semanticError("AlgorithmIdentifier", ErrMissingField)
	}
	content := der.AppendObjectIdentifier(nil, der.Universal(der.TagOID), a.Algorithm)
	if a.Parameters != nil {
		content = der.AppendRawValue(content, *a.Parameters)
	}
	return der.AppendElement(dst, der.Universal(der.TagSequence), true, content), nil
}

// A MessageImprint carries the digest of the datum to be time-stamped
// together with the algorithm that produced it. The codec treats the hashed
// message as opaque bytes; use [MessageImprint.CheckDigest] to verify its
// length against the algorithm.
type MessageImprint struct {
	HashAlgorithm AlgorithmIdentifier
	HashedMessage []byte
}

// CheckDigest verifies that the length of the hashed message matches the
// digest size of the hash algorithm. Unknown algorithms pass the check, as
// their digest size cannot be determined.
func (m MessageImprint) CheckDigest() error {
	if size, ok := DigestSize(m.HashAlgorithm.Algorithm); ok && size != len(m.HashedMessage) {
		return semanticError("MessageImprint", ErrDigestSize)
	}
	return nil
}

func parseMessageImprint(e der.Element) (MessageImprint, error) {
	var m MessageImprint
	d, err := sequence(e)
	if err != nil {
		return m, err
	}
	algE, err := d.Field(der.Universal(der.TagSequence))
	if err != nil {
		return m, err
	}
	if m.HashAlgorithm, err = parseAlgorithmIdentifier(algE); err != nil {
		return m, err
	}
	msgE, err := d.Field(der.Universal(der.TagOctetString))
	if err != nil {
		return m, err
	}
	if m.HashedMessage, err = msgE.OctetString(); err != nil {
		return m, err
	}
	return m, d.End()
}

func (m MessageImprint) appendTo(dst []byte) ([]byte, error) {
	content, err := m.HashAlgorithm.appendTo(nil)
	if err != nil {
		return nil, err
	}
	content = der.AppendOctetString(content, der.Universal(der.TagOctetString), m.HashedMessage)
	return der.AppendElement(dst, der.Universal(der.TagSequence), true, content), nil
}

// A TimeStampReq is a request for a time-stamp token as sent to a TSA.
// Version must be 1. Policy and Nonce are optional; a nil value means the
// field is absent. CertReq defaults to false and is omitted from the wire
// encoding when false.
//
// RFC 3161 additionally defines a request extensions field. It is not
// supported by this package and its presence is rejected as trailing data.
type TimeStampReq struct {
	Version        int
	MessageImprint MessageImprint
	Policy         der.ObjectIdentifier
	Nonce          *uint64
	CertReq        bool
}

// ParseRequest decodes a TimeStampReq from its DER encoding. The encoding
// must span the whole of buf. The returned structure borrows from buf.
func ParseRequest(buf []byte) (TimeStampReq, error) {
	var r TimeStampReq
	e, err := der.Parse(buf)
	if err != nil {
		return r, err
	}
	d, err := sequence(e)
	if err != nil {
		return r, err
	}

	verE, err := d.Field(der.Universal(der.TagInteger))
	if err != nil {
		return r, err
	}
	ver, err := verE.Int64()
	if err != nil {
		return r, err
	}
	if ver != 1 {
		return r, semanticError("TimeStampReq", ErrUnsupportedVersion)
	}
	r.Version = int(ver)

	miE, err := d.Field(der.Universal(der.TagSequence))
	if err != nil {
		return r, err
	}
	if r.MessageImprint, err = parseMessageImprint(miE); err != nil {
		return r, err
	}

	if oidE, ok, err := d.Optional(der.Universal(der.TagOID)); err != nil {
		return r, err
	} else if ok {
		if r.Policy, err = oidE.ObjectIdentifier(); err != nil {
			return r, err
		}
	}

	if nonceE, ok, err := d.Optional(der.Universal(der.TagInteger)); err != nil {
		return r, err
	} else if ok {
		nonce, err := nonceE.Uint64()
		if err != nil {
			return r, err
		}
		r.Nonce = &nonce
	}

	if crE, ok, err := d.Optional(der.Universal(der.TagBoolean)); err != nil {
		return r, err
	} else if ok {
		if r.CertReq, err = crE.Boolean(); err != nil {
			return r, err
		}
		if !r.CertReq {
			// DER encodes a DEFAULT value by omission.
			return r, &der.SyntaxError{Err: der.ErrNonCanonical, ByteOffset: crE.Offset()}
		}
	}
	return r, d.End()
}

// Encode returns the canonical DER encoding of r.
func (r TimeStampReq) Encode() ([]byte, error) {
	if r.Version != 1 {
		return nil, semanticError("TimeStampReq", ErrUnsupportedVersion)
	}
	content := der.AppendInt64(nil, der.Universal(der.TagInteger), int64(r.Version))
	content, err := r.MessageImprint.appendTo(content)
	if err != nil {
		return nil, err
	}
	if r.Policy != nil {
		content = der.AppendObjectIdentifier(content, der.Universal(der.TagOID), r.Policy)
	}
	if r.Nonce != nil {
		content = der.AppendUint64(content, der.Universal(der.TagInteger), *r.Nonce)
	}
	if r.CertReq {
		content = der.AppendBoolean(content, der.Universal(der.TagBoolean), true)
	}
	return der.AppendElement(nil, der.Universal(der.TagSequence), true, content), nil
}
