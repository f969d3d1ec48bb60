// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tsp

// PKIStatus is the status code of a [TimeStampResp]. The values are defined
// in RFC 3161, Section 2.4.2.
//
//go:generate stringer -type=PKIStatus -trimprefix=Status
type PKIStatus int

const (
	// StatusGranted indicates that a time-stamp token is present exactly as
	// requested.
	StatusGranted PKIStatus = iota
	// StatusGrantedWithMods indicates that a time-stamp token is present but
	// deviates from the request, for example by using a different policy.
	StatusGrantedWithMods
	// StatusRejection indicates that the request was rejected. Details may be
	// present in the failure info of the [PKIStatusInfo].
	StatusRejection
	// StatusWaiting indicates that the request has not been processed yet.
	StatusWaiting
	// StatusRevocationWarning indicates that a revocation of the TSA
	// certificate is imminent.
	StatusRevocationWarning
	// StatusRevocationNotification indicates that the TSA certificate has
	// been revoked.
	StatusRevocationNotification
)

// IsValid reports whether s is one of the status codes defined by RFC 3161.
func (s PKIStatus) IsValid() bool {
	return s >= StatusGranted && s <= StatusRevocationNotification
}

// Granted reports whether s indicates that a time-stamp token was issued.
func (s PKIStatus) Granted() bool {
	return s == StatusGranted || s == StatusGrantedWithMods
}

// PKIFailureInfo names a single failure bit of the failure info in a
// [PKIStatusInfo]. The value of a PKIFailureInfo constant is its bit position
// within the BIT STRING, not a bit mask.
//
//go:generate stringer -type=PKIFailureInfo -trimprefix=Fail
type PKIFailureInfo int

const (
	// FailBadAlg indicates an unrecognized or unsupported algorithm
	// identifier.
	FailBadAlg PKIFailureInfo = 0
	// FailBadRequest indicates that the requested transaction is not
	// permitted or supported.
	FailBadRequest PKIFailureInfo = 2
	// FailBadDataFormat indicates that the submitted data has the wrong
	// format.
	FailBadDataFormat PKIFailureInfo = 5
	// FailTimeNotAvailable indicates that the TSA's time source is not
	// available.
	FailTimeNotAvailable PKIFailureInfo = 14
	// FailUnacceptedPolicy indicates that the requested policy is not
	// supported by the TSA.
	FailUnacceptedPolicy PKIFailureInfo = 15
	// FailUnacceptedExtension indicates that a request extension is not
	// supported by the TSA.
	FailUnacceptedExtension PKIFailureInfo = 16
	// FailAddInfoNotAvailable indicates that the requested additional
	// information is not available or cannot be understood.
	FailAddInfoNotAvailable PKIFailureInfo = 17
	// FailSystemFailure indicates that the request could not be handled due
	// to a system failure.
	FailSystemFailure PKIFailureInfo = 25
)
