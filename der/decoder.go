// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

// MaxDepth is the maximum nesting depth of constructed data values accepted
// by a [Decoder]. The protocols implemented on top of this package use small,
// fixed nesting depths, so the limit exists purely as a guard against hostile
// inputs that attempt unbounded nesting.
const MaxDepth = 32

// An Element is a single decoded data value. Its Bytes are the content octets
// of the encoding and alias the input buffer the Element was decoded from;
// they must not be used after the buffer has been freed or mutated.
type Element struct {
	Tag         Tag
	Constructed bool
	Bytes       []byte

	offset int64 // offset of the identifier octet within the original input
	depth  int
}

// Offset returns the input byte offset at which the encoding of e starts.
func (e Element) Offset() int64 {
	return e.offset
}

// RawValue returns e as a [RawValue], discarding its input location.
func (e Element) RawValue() RawValue {
	return RawValue{Tag: e.Tag, Constructed: e.Constructed, Bytes: e.Bytes}
}

// Sequence returns a [Decoder] that reads the child data values of e. If e is
// not constructed or the nesting depth exceeds [MaxDepth], an error is
// returned.
func (e Element) Sequence() (*Decoder, error) {
	if !e.Constructed {
		return nil, syntaxError(e.offset, ErrUnexpectedTag)
	}
	if e.depth+1 > MaxDepth {
		return nil, syntaxError(e.offset, ErrMaxDepth)
	}
	return &Decoder{
		buf:   e.Bytes,
		base:  e.offset + int64(headerSize(e)),
		depth: e.depth + 1,
	}, nil
}

// Explicit interprets e as an explicitly tagged data value and returns the
// single data value wrapped by it. An explicit tag must use the constructed
// encoding and must contain exactly one child.
func (e Element) Explicit() (Element, error) {
	d, err := e.Sequence()
	if err != nil {
		return Element{}, err
	}
	inner, err := d.Next()
	if err != nil {
		return Element{}, err
	}
	if err := d.End(); err != nil {
		return Element{}, err
	}
	return inner, nil
}

// headerSize returns the number of bytes of the header that preceded the
// content octets of e.
func headerSize(e Element) int {
	// Reconstructing the header is cheap and saves a field on every Element.
	return len(appendHeader(make([]byte, 0, 12), Header{Tag: e.Tag, Constructed: e.Constructed, Length: len(e.Bytes)}))
}

// Decoder is a cursor over a byte buffer that reads a sequence of DER-encoded
// data values. The zero value is a Decoder over an empty buffer; use
// [NewDecoder] to create one over an input buffer.
//
// Decoding is zero-copy: Elements produced by the Decoder borrow their
// content octets from the input buffer.
type Decoder struct {
	buf   []byte
	base  int64 // offset of buf[0] within the original input
	pos   int
	depth int
}

// NewDecoder creates a new Decoder reading the data values in buf.
func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// More reports whether there are remaining bytes in the input of d. It does
// not guarantee that those bytes form a valid data value.
func (d *Decoder) More() bool {
	return d.pos < len(d.buf)
}

// Offset returns the current input byte offset of d.
func (d *Decoder) Offset() int64 {
	return d.base + int64(d.pos)
}

// PeekHeader decodes the header of the next data value without advancing d.
func (d *Decoder) PeekHeader() (Header, error) {
	h, _, err := decodeHeader(d.buf[d.pos:], d.Offset())
	return h, err
}

// Next decodes the next data value from d and advances past it. The content
// octets of the returned Element alias the input buffer.
func (d *Decoder) Next() (Element, error) {
	start := d.Offset()
	h, n, err := decodeHeader(d.buf[d.pos:], start)
	if err != nil {
		return Element{}, err
	}
	if h.Length > len(d.buf)-d.pos-n {
		return Element{}, syntaxError(start, ErrTruncated)
	}
	e := Element{
		Tag:         h.Tag,
		Constructed: h.Constructed,
		Bytes:       d.buf[d.pos+n : d.pos+n+h.Length],
		offset:      start,
		depth:       d.depth,
	}
	d.pos += n + h.Length
	return e, nil
}

// Field decodes the next data value and requires it to carry the given tag.
// It is used for the non-optional fields of a SEQUENCE.
func (d *Decoder) Field(tag Tag) (Element, error) {
	h, err := d.PeekHeader()
	if err != nil {
		return Element{}, err
	}
	if h.Tag != tag {
		return Element{}, syntaxError(d.Offset(), ErrUnexpectedTag)
	}
	return d.Next()
}

// Optional decodes the next data value if it carries the given tag. If the
// input is exhausted or the next data value carries a different tag, Optional
// reports false without advancing d. It is used for OPTIONAL and DEFAULT
// fields of a SEQUENCE.
func (d *Decoder) Optional(tag Tag) (Element, bool, error) {
	if !d.More() {
		return Element{}, false, nil
	}
	h, err := d.PeekHeader()
	if err != nil {
		return Element{}, false, err
	}
	if h.Tag != tag {
		return Element{}, false, nil
	}
	e, err := d.Next()
	if err != nil {
		return Element{}, false, err
	}
	return e, true, nil
}

// End verifies that all data values in d have been consumed. It must be
// called after the last declared field of a SEQUENCE has been decoded.
func (d *Decoder) End() error {
	if d.More() {
		return syntaxError(d.Offset(), ErrTrailingData)
	}
	return nil
}

// Parse decodes exactly one data value occupying the whole of buf. If buf
// contains bytes beyond the first data value, an error wrapping
// [ErrTrailingData] is returned. Decoding is all-or-nothing: on error no
// Element is returned.
func Parse(buf []byte) (Element, error) {
	d := NewDecoder(buf)
	e, err := d.Next()
	if err != nil {
		return Element{}, err
	}
	if err := d.End(); err != nil {
		return Element{}, err
	}
	return e, nil
}
