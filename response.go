// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsp

import (
	"unicode/utf8"

	"codello.dev/tsp/der"
)

// PKIStatusInfo reports the outcome of a time-stamp request. StatusString
// optionally carries free-form text for the requesting entity; FailInfo is
// only meaningful for a rejecting status and holds one bit per
// [PKIFailureInfo] reason.
type PKIStatusInfo struct {
	Status       PKIStatus
	StatusString []string
	FailInfo     *der.BitString
}

// HasFailure reports whether the failure bit f is present and set.
func (si PKIStatusInfo) HasFailure(f PKIFailureInfo) bool {
	return si.FailInfo != nil && int(f) < si.FailInfo.Len() && si.FailInfo.At(int(f)) == 1
}

func parseStatusInfo(e der.Element) (PKIStatusInfo, error) {
	var si PKIStatusInfo
	d, err := sequence(e)
	if err != nil {
		return si, err
	}

	statusE, err := d.Field(der.Universal(der.TagInteger))
	if err != nil {
		return si, err
	}
	status, err := statusE.Int64()
	if err != nil {
		return si, err
	}
	si.Status = PKIStatus(status)
	if !si.Status.IsValid() {
		return si, semanticError("PKIStatusInfo", ErrValueRange)
	}

	// statusString is a PKIFreeText, a SEQUENCE OF UTF8String.
	if textE, ok, err := d.Optional(der.Universal(der.TagSequence)); err != nil {
		return si, err
	} else if ok {
		td, err := textE.Sequence()
		if err != nil {
			return si, err
		}
		if !td.More() {
			// PKIFreeText has SIZE (1..MAX)
			return si, semanticError("PKIStatusInfo", ErrValueRange)
		}
		for td.More() {
			sE, err := td.Field(der.Universal(der.TagUTF8String))
			if err != nil {
				return si, err
			}
			s, err := sE.UTF8String()
			if err != nil {
				return si, err
			}
			si.StatusString = append(si.StatusString, s)
		}
	}

	if fiE, ok, err := d.Optional(der.Universal(der.TagBitString)); err != nil {
		return si, err
	} else if ok {
		fi, err := fiE.BitString()
		if err != nil {
			return si, err
		}
		si.FailInfo = &fi
	}
	return si, d.End()
}

func (si PKIStatusInfo) appendTo(dst []byte) ([]byte, error) {
	if !si.Status.IsValid() {
		return nil, semanticError("PKIStatusInfo", ErrValueRange)
	}
	content := der.AppendInt64(nil, der.Universal(der.TagInteger), int64(si.Status))
	if len(si.StatusString) > 0 {
		var text []byte
		for _, s := range si.StatusString {
			if !utf8.ValidString(s) {
				return nil, semanticError("PKIStatusInfo", der.ErrInvalidString)
			}
			text = der.AppendString(text, der.Universal(der.TagUTF8String), s)
		}
		content = der.AppendElement(content, der.Universal(der.TagSequence), true, text)
	}
	if si.FailInfo != nil {
		content = der.AppendBitString(content, der.Universal(der.TagBitString), *si.FailInfo)
	}
	return der.AppendElement(dst, der.Universal(der.TagSequence), true, content), nil
}

// A ContentInfo is the CMS wrapper around a signed content. In a time-stamp
// response the content type is [OIDSignedData] and the content holds the
// SignedData envelope, which this package does not interpret.
type ContentInfo struct {
	ContentType der.ObjectIdentifier
	Content     der.RawValue
}

func parseContentInfo(e der.Element) (ContentInfo, error) {
	var ci ContentInfo
	d, err := sequence(e)
	if err != nil {
		return ci, err
	}
	oidE, err := d.Field(der.Universal(der.TagOID))
	if err != nil {
		return ci, err
	}
	if ci.ContentType, err = oidE.ObjectIdentifier(); err != nil {
		return ci, err
	}
	wrapE, err := d.Field(der.ContextSpecific(0))
	if err != nil {
		return ci, err
	}
	inner, err := wrapE.Explicit()
	if err != nil {
		return ci, err
	}
	ci.Content = inner.RawValue()
	return ci, d.End()
}

func (ci ContentInfo) appendTo(dst []byte) ([]byte, error) {
	if len(ci.ContentType) < 2 {
		return nil, semanticError("ContentInfo", ErrMissingField)
	}
	content := der.AppendObjectIdentifier(nil, der.Universal(der.TagOID), ci.ContentType)
	content = der.AppendExplicit(content, der.ContextSpecific(0), der.AppendRawValue(nil, ci.Content))
	return der.AppendElement(dst, der.Universal(der.TagSequence), true, content), nil
}

// A TimeStampResp is the answer of a TSA to a [TimeStampReq]. The token is
// present exactly when the status is a granting one; [ParseResponse] and
// [TimeStampResp.Encode] both enforce this pairing.
type TimeStampResp struct {
	Status PKIStatusInfo
	Token  *ContentInfo
}

// IsGranted reports whether the response carries a time-stamp token.
func (r TimeStampResp) IsGranted() bool {
	return r.Status.Status.Granted()
}

// checkTokenPairing enforces the RFC 3161 rule that a granting status is
// accompanied by a token and any other status is not.
func (r TimeStampResp) checkTokenPairing() error {
	if r.Status.Status.Granted() != (r.Token != nil) {
		return semanticError("TimeStampResp", ErrStatusTokenMismatch)
	}
	return nil
}

// ParseResponse decodes a TimeStampResp from its DER encoding. The encoding
// must span the whole of buf. The returned structure borrows from buf.
func ParseResponse(buf []byte) (TimeStampResp, error) {
	var r TimeStampResp
	e, err := der.Parse(buf)
	if err != nil {
		return r, err
	}
	d, err := sequence(e)
	if err != nil {
		return r, err
	}

	siE, err := d.Field(der.Universal(der.TagSequence))
	if err != nil {
		return r, err
	}
	if r.Status, err = parseStatusInfo(siE); err != nil {
		return r, err
	}

	if tokE, ok, err := d.Optional(der.Universal(der.TagSequence)); err != nil {
		return r, err
	} else if ok {
		token, err := parseContentInfo(tokE)
		if err != nil {
			return r, err
		}
		r.Token = &token
	}
	if err := d.End(); err != nil {
		return r, err
	}
	if err := r.checkTokenPairing(); err != nil {
		return TimeStampResp{}, err
	}
	return r, nil
}

// Encode returns the canonical DER encoding of r.
func (r TimeStampResp) Encode() ([]byte, error) {
	if err := r.checkTokenPairing(); err != nil {
		return nil, err
	}
	content, err := r.Status.appendTo(nil)
	if err != nil {
		return nil, err
	}
	if r.Token != nil {
		if content, err = r.Token.appendTo(content); err != nil {
			return nil, err
		}
	}
	return der.AppendElement(nil, der.Universal(der.TagSequence), true, content), nil
}
