// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eccore

import (
	"github.com/scalarmul/eccore/internal/mont"
	"github.com/scalarmul/eccore/internal/word"
	"github.com/scalarmul/eccore/params"
)

// LowOrderCheck selects whether ECDH rejects a peer public key that turns
// out to have low order under 8*P. Mandatory is the only safe default:
// skipping the check reopens the small-subgroup confinement described in
// "To Infinity and Beyond" (CHES 2011), and should only ever be disabled
// by a deployment that has independently reasoned about why its peers
// cannot supply adversarial public keys.
type LowOrderCheck int

const (
	// LowOrderCheckMandatory rejects any public key of order <= 8. This
	// is the default and the only setting ECDH uses unless a caller
	// explicitly opts out via ECDHWithOptions.
	LowOrderCheckMandatory LowOrderCheck = iota
	// LowOrderCheckSkip disables the check. Only select this if the
	// deployment has its own justification for why a low-order public
	// key cannot reach this call, and document that justification where
	// this constant is used.
	LowOrderCheckSkip
)

// ECDH computes the X25519 shared secret scalar*peerPublic for the given
// 32-byte clamped scalar and 32-byte peer public key, rejecting peer keys
// of order <= 8 (see LowOrderCheckMandatory). This is the package's
// default, recommended entry point.
func ECDH(scalar, peerPublic [FieldBytes]byte) ([FieldBytes]byte, error) {
	return ECDHWithOptions(scalar, peerPublic, LowOrderCheckMandatory)
}

// ECDHWithOptions is ECDH with an explicit, auditable choice of whether
// the mandatory low-order check runs. Prefer ECDH.
func ECDHWithOptions(scalar, peerPublic [FieldBytes]byte, check LowOrderCheck) ([FieldBytes]byte, error) {
	d := params.Curve25519()
	n := d.Words

	k := decodeScalar(n, scalar)
	xp := decodeScalar(n, peerPublic)

	if check == LowOrderCheckMandatory {
		tmp := make([]word.Word, 4*n)
		p := &mont.Point{X: tmp[:n], Y: tmp[n : 2*n], Z: tmp[2*n : 3*n], Slack: tmp[3*n : 4*n]}
		if err := d.Mon.CheckOrder(p, xp); err != nil {
			return [FieldBytes]byte{}, newError(InvalidPoint, "peer public key has order <= 8")
		}
	}

	out := make([]word.Word, n)
	if err := d.Mon.MulVarBase(out, k, xp); err != nil {
		if err == mont.ErrInvalidScalar {
			return [FieldBytes]byte{}, newError(InvalidScalar, "zero scalar")
		}
		return [FieldBytes]byte{}, newError(InvalidPoint, "shared point has Z = 0")
	}

	return encodeLE(out), nil
}

// PublicKey computes the X25519 public key scalar*9 for a 32-byte clamped
// private scalar.
func PublicKey(scalar [FieldBytes]byte) ([FieldBytes]byte, error) {
	d := params.Curve25519()
	return ECDH(scalar, encodeLE(d.MonBaseX))
}
