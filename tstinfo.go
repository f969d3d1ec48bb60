// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsp

import (
	"math/big"
	"time"

	"codello.dev/tsp/der"
)

// Accuracy is the deviation of the genTime of a [TSTInfo] around the true
// time. All three fields are independently optional; a nil field means "not
// specified", which is different from zero. Millis and Micros are restricted
// to the range 1 through 999.
type Accuracy struct {
	Seconds *int64
	Millis  *int64
	Micros  *int64
}

// Duration returns the accuracy as a single [time.Duration].
func (a Accuracy) Duration() time.Duration {
	var d time.Duration
	if a.Seconds != nil {
		d += time.Duration(*a.Seconds) * time.Second
	}
	if a.Millis != nil {
		d += time.Duration(*a.Millis) * time.Millisecond
	}
	if a.Micros != nil {
		d += time.Duration(*a.Micros) * time.Microsecond
	}
	return d
}

func parseAccuracy(e der.Element) (Accuracy, error) {
	var a Accuracy
	d, err := sequence(e)
	if err != nil {
		return a, err
	}
	readInt := func(e der.Element, lo, hi int64) (*int64, error) {
		v, err := e.Int64()
		if err != nil {
			return nil, err
		}
		if v < lo || v > hi {
			return nil, semanticError("Accuracy", ErrValueRange)
		}
		return &v, nil
	}
	if secE, ok, err := d.Optional(der.Universal(der.TagInteger)); err != nil {
		return a, err
	} else if ok {
		if a.Seconds, err = readInt(secE, 0, 1<<63-1); err != nil {
			return a, err
		}
	}
	// millis and micros carry implicit context tags so that each of the three
	// integers can be identified on its own.
	if msE, ok, err := d.Optional(der.ContextSpecific(0)); err != nil {
		return a, err
	} else if ok {
		if a.Millis, err = readInt(msE, 1, 999); err != nil {
			return a, err
		}
	}
	if usE, ok, err := d.Optional(der.ContextSpecific(1)); err != nil {
		return a, err
	} else if ok {
		if a.Micros, err = readInt(usE, 1, 999); err != nil {
			return a, err
		}
	}
	if a.Seconds == nil && a.Millis == nil && a.Micros == nil {
		// at least one of the three fields must be present
		return a, semanticError("Accuracy", ErrMissingField)
	}
	return a, d.End()
}

func (a Accuracy) appendTo(dst []byte) ([]byte, error) {
	if a.Seconds == nil && a.Millis == nil && a.Micros == nil {
		return nil, semanticError("Accuracy", ErrMissingField)
	}
	var content []byte
	if a.Seconds != nil {
		if *a.Seconds < 0 {
			return nil, semanticError("Accuracy", ErrValueRange)
		}
		content = der.AppendInt64(content, der.Universal(der.TagInteger), *a.Seconds)
	}
	if a.Millis != nil {
		if *a.Millis < 1 || *a.Millis > 999 {
			return nil, semanticError("Accuracy", ErrValueRange)
		}
		content = der.AppendInt64(content, der.ContextSpecific(0), *a.Millis)
	}
	if a.Micros != nil {
		if *a.Micros < 1 || *a.Micros > 999 {
			return nil, semanticError("Accuracy", ErrValueRange)
		}
		content = der.AppendInt64(content, der.ContextSpecific(1), *a.Micros)
	}
	return der.AppendElement(dst, der.Universal(der.TagSequence), true, content), nil
}

// A TSTInfo is the payload of a time-stamp token: the TSA's assertion that it
// saw the message imprint at the stated time. In a full response it is
// embedded as the eContent of the SignedData envelope inside
// [TimeStampResp.Token]; use [ParseTSTInfo] on those content bytes once the
// envelope has been opened by a CMS implementation.
//
// Version must be 1. SerialNumber is of unbounded precision; RFC 3161 allows
// serial numbers wider than 64 bits. Accuracy, Nonce, TSA and Extensions are
// optional, with nil meaning absent. Ordering defaults to false and is
// omitted from the wire encoding when false. The Extensions block is carried
// as an opaque data value.
type TSTInfo struct {
	Version        int
	Policy         der.ObjectIdentifier
	MessageImprint MessageImprint
	SerialNumber   *big.Int
	GenTime        time.Time
	Accuracy       *Accuracy
	Ordering       bool
	Nonce          *uint64
	TSA            GeneralName
	Extensions     *der.RawValue
}

// ParseTSTInfo decodes a TSTInfo from its DER encoding. The encoding must
// span the whole of buf. The returned structure borrows from buf.
func ParseTSTInfo(buf []byte) (TSTInfo, error) {
	var info TSTInfo
	e, err := der.Parse(buf)
	if err != nil {
		return info, err
	}
	d, err := sequence(e)
	if err != nil {
		return info, err
	}

	verE, err := d.Field(der.Universal(der.TagInteger))
	if err != nil {
		return info, err
	}
	ver, err := verE.Int64()
	if err != nil {
		return info, err
	}
	if ver != 1 {
		return info, semanticError("TSTInfo", ErrUnsupportedVersion)
	}
	info.Version = int(ver)

	if oidE, ok, err := d.Optional(der.Universal(der.TagOID)); err != nil {
		return info, err
	} else if ok {
		if info.Policy, err = oidE.ObjectIdentifier(); err != nil {
			return info, err
		}
	}

	miE, err := d.Field(der.Universal(der.TagSequence))
	if err != nil {
		return info, err
	}
	if info.MessageImprint, err = parseMessageImprint(miE); err != nil {
		return info, err
	}

	serE, err := d.Field(der.Universal(der.TagInteger))
	if err != nil {
		return info, err
	}
	if info.SerialNumber, err = serE.BigInt(); err != nil {
		return info, err
	}

	timeE, err := d.Field(der.Universal(der.TagGeneralizedTime))
	if err != nil {
		return info, err
	}
	if info.GenTime, err = timeE.GeneralizedTime(); err != nil {
		return info, err
	}

	if accE, ok, err := d.Optional(der.Universal(der.TagSequence)); err != nil {
		return info, err
	} else if ok {
		acc, err := parseAccuracy(accE)
		if err != nil {
			return info, err
		}
		info.Accuracy = &acc
	}

	if ordE, ok, err := d.Optional(der.Universal(der.TagBoolean)); err != nil {
		return info, err
	} else if ok {
		if info.Ordering, err = ordE.Boolean(); err != nil {
			return info, err
		}
		if !info.Ordering {
			// DER encodes a DEFAULT value by omission.
			return info, &der.SyntaxError{Err: der.ErrNonCanonical, ByteOffset: ordE.Offset()}
		}
	}

	if nonceE, ok, err := d.Optional(der.Universal(der.TagInteger)); err != nil {
		return info, err
	} else if ok {
		nonce, err := nonceE.Uint64()
		if err != nil {
			return info, err
		}
		info.Nonce = &nonce
	}

	if tsaE, ok, err := d.Optional(der.ContextSpecific(0)); err != nil {
		return info, err
	} else if ok {
		inner, err := tsaE.Explicit()
		if err != nil {
			return info, err
		}
		if info.TSA, err = parseGeneralName(inner); err != nil {
			return info, err
		}
	}

	if extE, ok, err := d.Optional(der.ContextSpecific(1)); err != nil {
		return info, err
	} else if ok {
		inner, err := extE.Explicit()
		if err != nil {
			return info, err
		}
		rv := inner.RawValue()
		info.Extensions = &rv
	}
	return info, d.End()
}

// Encode returns the canonical DER encoding of info.
func (info TSTInfo) Encode() ([]byte, error) {
	if info.Version != 1 {
		return nil, semanticError("TSTInfo", ErrUnsupportedVersion)
	}
	if info.SerialNumber == nil || info.GenTime.IsZero() {
		return nil, semanticError("TSTInfo", ErrMissingField)
	}
	content := der.AppendInt64(nil, der.Universal(der.TagInteger), int64(info.Version))
	if info.Policy != nil {
		content = der.AppendObjectIdentifier(content, der.Universal(der.TagOID), info.Policy)
	}
	content, err := info.MessageImprint.appendTo(content)
	if err != nil {
		return nil, err
	}
	content = der.AppendBigInt(content, der.Universal(der.TagInteger), info.SerialNumber)
	content = der.AppendGeneralizedTime(content, der.Universal(der.TagGeneralizedTime), info.GenTime)
	if info.Accuracy != nil {
		if content, err = info.Accuracy.appendTo(content); err != nil {
			return nil, err
		}
	}
	if info.Ordering {
		content = der.AppendBoolean(content, der.Universal(der.TagBoolean), true)
	}
	if info.Nonce != nil {
		content = der.AppendUint64(content, der.Universal(der.TagInteger), *info.Nonce)
	}
	if info.TSA != nil {
		name, err := info.TSA.appendName(nil)
		if err != nil {
			return nil, err
		}
		content = der.AppendExplicit(content, der.ContextSpecific(0), name)
	}
	if info.Extensions != nil {
		content = der.AppendExplicit(content, der.ContextSpecific(1), der.AppendRawValue(nil, *info.Extensions))
	}
	return der.AppendElement(nil, der.Universal(der.TagSequence), true, content), nil
}
