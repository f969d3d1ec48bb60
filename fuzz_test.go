// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsp

import (
	"bytes"
	"testing"
)

// The fuzz targets check two properties on arbitrary input: parsing never
// panics, and every input the strict reader accepts re-encodes to the
// identical byte sequence (there is exactly one DER encoding per value).

func FuzzParseRequest(f *testing.F) {
	f.Add(minimalRequest(bytes.Repeat([]byte{0xab}, 32)))
	f.Add([]byte{0x30, 0x00})
	f.Add([]byte{0x30, 0x80})
	f.Add([]byte{0x00, 0x00, 0x00, 0x00})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		req, err := ParseRequest(data)
		if err != nil {
			return
		}
		encoded, err := req.Encode()
		if err != nil {
			t.Fatalf("Encode() after successful parse: error = %v", err)
		}
		if !bytes.Equal(encoded, data) {
			t.Errorf("Encode() = %# x, want %# x", encoded, data)
		}
	})
}

func FuzzParseResponse(f *testing.F) {
	f.Add([]byte{0x30, 0x05, 0x30, 0x03, 0x02, 0x01, 0x02})
	f.Add([]byte{0x30, 0x00})
	f.Add([]byte{0x30, 0x80})
	f.Add([]byte{0x00, 0x00, 0x00, 0x00})

	f.Fuzz(func(t *testing.T, data []byte) {
		resp, err := ParseResponse(data)
		if err != nil {
			return
		}
		encoded, err := resp.Encode()
		if err != nil {
			t.Fatalf("Encode() after successful parse: error = %v", err)
		}
		if !bytes.Equal(encoded, data) {
			t.Errorf("Encode() = %# x, want %# x", encoded, data)
		}
	})
}

func FuzzParseTSTInfo(f *testing.F) {
	f.Add([]byte{0x30, 0x00})
	f.Add([]byte{0x30, 0x03, 0x02, 0x01, 0x01})
	f.Add([]byte{0x30, 0x80})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, data []byte) {
		info, err := ParseTSTInfo(data)
		if err != nil {
			return
		}
		encoded, err := info.Encode()
		if err != nil {
			t.Fatalf("Encode() after successful parse: error = %v", err)
		}
		if !bytes.Equal(encoded, data) {
			t.Errorf("Encode() = %# x, want %# x", encoded, data)
		}
	})
}
