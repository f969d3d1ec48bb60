// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"errors"
	"testing"
)

func TestDecoder_Next(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		want    Element
		wantErr error
	}{
		"Primitive":        {[]byte{0x02, 0x01, 0x15}, Element{Tag: Universal(TagInteger), Bytes: []byte{0x15}}, nil},
		"Constructed":      {[]byte{0x30, 0x03, 0x02, 0x01, 0x15}, Element{Tag: Universal(TagSequence), Constructed: true, Bytes: []byte{0x02, 0x01, 0x15}}, nil},
		"ContextSpecific":  {[]byte{0xa0, 0x00}, Element{Tag: ContextSpecific(0), Constructed: true, Bytes: []byte{}}, nil},
		"HighTagNumber":    {[]byte{0x5f, 0x21, 0x01, 0xab}, Element{Tag: Tag{Class: ClassApplication, Number: 33}, Bytes: []byte{0xab}}, nil},
		"LongFormLength":   {append([]byte{0x04, 0x81, 0x80}, make([]byte, 128)...), Element{Tag: Universal(TagOctetString), Bytes: make([]byte, 128)}, nil},
		"Empty":            {nil, Element{}, ErrTruncated},
		"MissingLength":    {[]byte{0x02}, Element{}, ErrTruncated},
		"TruncatedContent": {[]byte{0x02, 0x03, 0x15}, Element{}, ErrTruncated},
		"TruncatedTag":     {[]byte{0x5f, 0xa1}, Element{}, ErrTruncated},
		"Indefinite":       {[]byte{0x30, 0x80, 0x02, 0x01, 0x15, 0x00, 0x00}, Element{}, ErrInvalidLength},
		"ReservedLength":   {[]byte{0x02, 0xff, 0x15}, Element{}, ErrInvalidLength},
		"NonMinimalLength": {[]byte{0x02, 0x81, 0x01, 0x15}, Element{}, ErrInvalidLength},
		"LeadingZeroLen":   {append([]byte{0x04, 0x82, 0x00, 0x80}, make([]byte, 128)...), Element{}, ErrInvalidLength},
		"NonMinimalTag":    {[]byte{0x5f, 0x80, 0x21, 0x01, 0xab}, Element{}, ErrNonCanonical},
		"LowTagInLongForm": {[]byte{0x5f, 0x1e, 0x01, 0xab}, Element{}, ErrNonCanonical},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := NewDecoder(tt.data).Next()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Next() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !got.RawValue().Equal(tt.want.RawValue()) {
				t.Errorf("Next() = %v, want %v", got.RawValue(), tt.want.RawValue())
			}
		})
	}
}

func TestParse(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		wantErr error
	}{
		"Exact":    {[]byte{0x02, 0x01, 0x15}, nil},
		"Trailing": {[]byte{0x02, 0x01, 0x15, 0x00}, ErrTrailingData},
		"Empty":    {nil, ErrTruncated},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(tt.data); !errors.Is(err, tt.wantErr) {
				t.Errorf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestElement_Sequence(t *testing.T) {
	e, err := Parse([]byte{0x30, 0x06, 0x02, 0x01, 0x15, 0x02, 0x01, 0x16})
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	d, err := e.Sequence()
	if err != nil {
		t.Fatalf("Sequence() error = %v, want nil", err)
	}
	first, err := d.Field(Universal(TagInteger))
	if err != nil {
		t.Fatalf("Field() error = %v, want nil", err)
	}
	if first.Offset() != 2 {
		t.Errorf("Offset() = %d, want 2", first.Offset())
	}
	if _, err = d.Field(Universal(TagBoolean)); !errors.Is(err, ErrUnexpectedTag) {
		t.Fatalf("Field() error = %v, wantErr %v", err, ErrUnexpectedTag)
	}
	if _, err = d.Field(Universal(TagInteger)); err != nil {
		t.Fatalf("Field() error = %v, want nil", err)
	}
	if err = d.End(); err != nil {
		t.Errorf("End() error = %v, want nil", err)
	}

	if _, err = first.Sequence(); !errors.Is(err, ErrUnexpectedTag) {
		t.Errorf("Sequence() on primitive error = %v, wantErr %v", err, ErrUnexpectedTag)
	}
}

func TestElement_Sequence_MaxDepth(t *testing.T) {
	data := []byte{0x02, 0x01, 0x15}
	for i := 0; i < MaxDepth+1; i++ {
		data = AppendElement(nil, Universal(TagSequence), true, data)
	}
	e, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	for {
		d, err := e.Sequence()
		if errors.Is(err, ErrMaxDepth) {
			return
		}
		if err != nil {
			t.Fatalf("Sequence() error = %v, wantErr %v", err, ErrMaxDepth)
		}
		if e, err = d.Next(); err != nil {
			t.Fatalf("Next() error = %v, want nil", err)
		}
	}
}

func TestElement_Explicit(t *testing.T) {
	tests := map[string]struct {
		data    []byte
		wantErr error
	}{
		"SingleChild": {[]byte{0xa0, 0x03, 0x02, 0x01, 0x15}, nil},
		"NoChild":     {[]byte{0xa0, 0x00}, ErrTruncated},
		"TwoChildren": {[]byte{0xa0, 0x06, 0x02, 0x01, 0x15, 0x02, 0x01, 0x16}, ErrTrailingData},
		"Primitive":   {[]byte{0x80, 0x01, 0x15}, ErrUnexpectedTag},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e, err := Parse(tt.data)
			if err != nil {
				t.Fatalf("Parse() error = %v, want nil", err)
			}
			inner, err := e.Explicit()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Explicit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && inner.Tag != Universal(TagInteger) {
				t.Errorf("Explicit() tag = %v, want %v", inner.Tag, Universal(TagInteger))
			}
		})
	}
}

func TestDecoder_Optional(t *testing.T) {
	e, err := Parse([]byte{0x30, 0x06, 0x02, 0x01, 0x15, 0x01, 0x01, 0xff})
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	d, _ := e.Sequence()
	if _, ok, err := d.Optional(Universal(TagBoolean)); err != nil || ok {
		t.Fatalf("Optional() = %t, %v; want false, nil", ok, err)
	}
	if _, ok, err := d.Optional(Universal(TagInteger)); err != nil || !ok {
		t.Fatalf("Optional() = %t, %v; want true, nil", ok, err)
	}
	if _, ok, err := d.Optional(Universal(TagBoolean)); err != nil || !ok {
		t.Fatalf("Optional() = %t, %v; want true, nil", ok, err)
	}
	if _, ok, err := d.Optional(Universal(TagBoolean)); err != nil || ok {
		t.Fatalf("Optional() at end = %t, %v; want false, nil", ok, err)
	}
	if err := d.End(); err != nil {
		t.Errorf("End() error = %v, want nil", err)
	}
}

func TestSyntaxError_Offset(t *testing.T) {
	// The malformed boolean starts at offset 5.
	e, err := Parse([]byte{0x30, 0x06, 0x02, 0x01, 0x15, 0x01, 0x81, 0x00})
	if err != nil {
		t.Fatalf("Parse() error = %v, want nil", err)
	}
	d, _ := e.Sequence()
	if _, err = d.Next(); err != nil {
		t.Fatalf("Next() error = %v, want nil", err)
	}
	_, err = d.Next()
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Fatalf("Next() error = %v, wantErr *SyntaxError", err)
	}
	if serr.ByteOffset != 5 {
		t.Errorf("ByteOffset = %d, want 5", serr.ByteOffset)
	}
}
