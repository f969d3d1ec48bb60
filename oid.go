// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsp

import "codello.dev/tsp/der"

// Object identifiers of the digest algorithms commonly used in message
// imprints, and of the content types appearing in time-stamp tokens.
var (
	OIDSHA1   = der.ObjectIdentifier{1, 3, 14, 3, 2, 26}
	OIDSHA256 = der.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 1}
	OIDSHA384 = der.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 2}
	OIDSHA512 = der.ObjectIdentifier{2, 16, 840, 1, 101, 3, 4, 2, 3}

	// OIDSignedData is the content type of the CMS SignedData structure that
	// forms a time-stamp token.
	OIDSignedData = der.ObjectIdentifier{1, 2, 840, 113549, 1, 7, 2}
	// OIDContentTypeTSTInfo is the CMS eContentType identifying a TSTInfo
	// payload inside the SignedData envelope.
	OIDContentTypeTSTInfo = der.ObjectIdentifier{1, 2, 840, 113549, 1, 9, 16, 1, 4}
)

// DigestSize returns the digest size in bytes of the given digest algorithm.
// It reports false for algorithms not known to this package.
func DigestSize(alg der.ObjectIdentifier) (int, bool) {
	switch {
	case alg.Equal(OIDSHA1):
		return 20, true
	case alg.Equal(OIDSHA256):
		return 32, true
	case alg.Equal(OIDSHA384):
		return 48, true
	case alg.Equal(OIDSHA512):
		return 64, true
	}
	return 0, false
}
