// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsp

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"codello.dev/tsp/der"
)

// minimalRequest returns the DER encoding of a TimeStampReq containing only
// the required fields: version 1 and a SHA-256 message imprint over digest.
func minimalRequest(digest []byte) []byte {
	data := []byte{
		0x30, 0x34, // TimeStampReq
		0x02, 0x01, 0x01, // version 1
		0x30, 0x2f, // messageImprint
		0x30, 0x0b, // hashAlgorithm
		0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02, 0x01, // sha256
		0x04, 0x20, // hashedMessage
	}
	return append(data, digest...)
}

// extendRequest appends extra fields to a minimal request, fixing up the
// outer length.
func extendRequest(digest []byte, extra ...byte) []byte {
	data := minimalRequest(digest)
	data[1] += byte(len(extra))
	return append(data, extra...)
}

func TestParseRequest(t *testing.T) {
	digest := bytes.Repeat([]byte{0xab}, 32)
	nonce := uint64(0xdeadbeef)

	version2 := minimalRequest(digest)
	version2[4] = 0x02
	nonMinimalVersion := append([]byte{0x30, 0x35, 0x02, 0x02, 0x00, 0x01}, minimalRequest(digest)[5:]...)

	tests := map[string]struct {
		data    []byte
		want    TimeStampReq
		wantErr error
	}{
		"Minimal": {
			data: minimalRequest(digest),
			want: TimeStampReq{
				Version: 1,
				MessageImprint: MessageImprint{
					HashAlgorithm: AlgorithmIdentifier{Algorithm: OIDSHA256},
					HashedMessage: digest,
				},
			},
		},
		"NonceAndCertReq": {
			data: extendRequest(digest, 0x02, 0x05, 0x00, 0xde, 0xad, 0xbe, 0xef, 0x01, 0x01, 0xff),
			want: TimeStampReq{
				Version: 1,
				MessageImprint: MessageImprint{
					HashAlgorithm: AlgorithmIdentifier{Algorithm: OIDSHA256},
					HashedMessage: digest,
				},
				Nonce:   &nonce,
				CertReq: true,
			},
		},
		"ExplicitDefaultCertReq": {
			data:    extendRequest(digest, 0x01, 0x01, 0x00),
			wantErr: der.ErrNonCanonical,
		},
		"Version2": {
			data:    version2,
			wantErr: ErrUnsupportedVersion,
		},
		"NonMinimalVersion": {
			data:    nonMinimalVersion,
			wantErr: der.ErrInvalidInteger,
		},
		"Indefinite": {
			data:    []byte{0x30, 0x80, 0x02, 0x01, 0x01, 0x00, 0x00},
			wantErr: der.ErrInvalidLength,
		},
		"TrailingData": {
			data:    append(minimalRequest(digest), 0x00),
			wantErr: der.ErrTrailingData,
		},
		"NotASequence": {
			data:    []byte{0x04, 0x01, 0xab},
			wantErr: der.ErrUnexpectedTag,
		},
		"Truncated": {
			data:    minimalRequest(digest)[:20],
			wantErr: der.ErrTruncated,
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseRequest(tt.data)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ParseRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseRequest() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestParseRequest_EndToEnd checks that a minimal request decodes into the
// expected field values and re-encodes to the identical byte sequence.
func TestParseRequest_EndToEnd(t *testing.T) {
	digest := bytes.Repeat([]byte{0xab}, 32)
	data := minimalRequest(digest)

	req, err := ParseRequest(data)
	if err != nil {
		t.Fatalf("ParseRequest() error = %v, want nil", err)
	}
	if req.Version != 1 {
		t.Errorf("Version = %d, want 1", req.Version)
	}
	if !req.MessageImprint.HashAlgorithm.Algorithm.Equal(OIDSHA256) {
		t.Errorf("Algorithm = %v, want %v", req.MessageImprint.HashAlgorithm.Algorithm, OIDSHA256)
	}
	if !bytes.Equal(req.MessageImprint.HashedMessage, digest) {
		t.Errorf("HashedMessage = %# x, want %# x", req.MessageImprint.HashedMessage, digest)
	}
	if req.Policy != nil || req.Nonce != nil || req.CertReq {
		t.Errorf("optional fields = %v, %v, %t; want absent", req.Policy, req.Nonce, req.CertReq)
	}
	if err := req.MessageImprint.CheckDigest(); err != nil {
		t.Errorf("CheckDigest() error = %v, want nil", err)
	}

	encoded, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v, want nil", err)
	}
	if !bytes.Equal(encoded, data) {
		t.Errorf("Encode() = %# x, want %# x", encoded, data)
	}
}

func TestTimeStampReq_RoundTrip(t *testing.T) {
	digest := bytes.Repeat([]byte{0x42}, 32)
	nonce := uint64(1)<<63 + 17

	tests := map[string]TimeStampReq{
		"Minimal": {
			Version: 1,
			MessageImprint: MessageImprint{
				HashAlgorithm: AlgorithmIdentifier{Algorithm: OIDSHA256},
				HashedMessage: digest,
			},
		},
		"Full": {
			Version: 1,
			MessageImprint: MessageImprint{
				HashAlgorithm: AlgorithmIdentifier{Algorithm: OIDSHA256},
				HashedMessage: digest,
			},
			Policy:  der.ObjectIdentifier{1, 3, 6, 1, 4, 1, 13762, 3},
			Nonce:   &nonce,
			CertReq: true,
		},
	}
	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			data, err := req.Encode()
			if err != nil {
				t.Fatalf("Encode() error = %v, want nil", err)
			}
			got, err := ParseRequest(data)
			if err != nil {
				t.Fatalf("ParseRequest() error = %v, want nil", err)
			}
			if !reflect.DeepEqual(got, req) {
				t.Errorf("ParseRequest(Encode()) = %+v, want %+v", got, req)
			}
		})
	}
}

func TestTimeStampReq_Encode_Invalid(t *testing.T) {
	req := TimeStampReq{Version: 2}
	if _, err := req.Encode(); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Encode() error = %v, wantErr %v", err, ErrUnsupportedVersion)
	}
	req = TimeStampReq{Version: 1}
	if _, err := req.Encode(); !errors.Is(err, ErrMissingField) {
		t.Errorf("Encode() error = %v, wantErr %v", err, ErrMissingField)
	}
}

func TestMessageImprint_CheckDigest(t *testing.T) {
	m := MessageImprint{
		HashAlgorithm: AlgorithmIdentifier{Algorithm: OIDSHA256},
		HashedMessage: make([]byte, 20),
	}
	var serr *SemanticError
	if err := m.CheckDigest(); !errors.Is(err, ErrDigestSize) || !errors.As(err, &serr) {
		t.Errorf("CheckDigest() error = %v, wantErr %v", err, ErrDigestSize)
	}
	// Unknown algorithms cannot be checked and pass.
	m.HashAlgorithm.Algorithm = der.ObjectIdentifier{1, 2, 3}
	if err := m.CheckDigest(); err != nil {
		t.Errorf("CheckDigest() error = %v, want nil", err)
	}
}
