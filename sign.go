// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eccore

import (
	"crypto/sha512"
	"math/big"

	"github.com/scalarmul/eccore/internal/ted"
	"github.com/scalarmul/eccore/internal/word"
	"github.com/scalarmul/eccore/params"
)

// SignDerive expands a 32-byte seed into an Ed25519-style signing key
// pair: the seed is hashed with SHA-512, the low half is clamped into a
// scalar s, and the public key A = s*B is computed with the twisted
// Edwards fixed-base comb (ted.MulComb4b) rather than the variable-base
// ladder, since B is a fixed, public base point. The returned scalar is
// the clamped s, ready for use as a signing exponent; the returned public
// key is the compressed Edwards point (y with the sign of x folded into
// its top bit, RFC 8032 §5.1.2).
func SignDerive(seed [32]byte) (public [FieldBytes]byte, scalar [FieldBytes]byte, err error) {
	h := sha512.Sum512(seed[:])

	var rawScalar [FieldBytes]byte
	copy(rawScalar[:], h[:32])
	PruneScalar(&rawScalar)

	d := params.Curve25519()
	n := d.Words
	s := decodeScalar(n, rawScalar)

	if word.IsZero(s) {
		return public, scalar, newError(InvalidScalar, "derived scalar is zero")
	}

	x := make([]word.Word, n)
	y := make([]word.Word, n)
	d.Ted.MulComb4b(x, y, s, d.CombTable())

	compressed := compressEdwards(x, y)
	return compressed, rawScalar, nil
}

// Sign produces an Ed25519-style detached signature over message with
// the keypair derived from seed, following RFC 8032 §5.1.6: the seed's
// SHA-512 splits into the clamped signing scalar s (as in SignDerive)
// and a nonce prefix; the nonce scalar r is prefix||message reduced mod
// L; R = r*B; the challenge scalar k is R||A||message reduced mod L;
// and S = r + k*s mod L. The signature is R||S.
func Sign(message []byte, seed [32]byte) (sig [64]byte, public [FieldBytes]byte, err error) {
	h := sha512.Sum512(seed[:])

	var rawScalar [FieldBytes]byte
	copy(rawScalar[:], h[:32])
	PruneScalar(&rawScalar)
	prefix := h[32:64]

	d := params.Curve25519()
	n := d.Words
	s := decodeScalar(n, rawScalar)
	if word.IsZero(s) {
		return sig, public, newError(InvalidScalar, "derived scalar is zero")
	}

	ax, ay := make([]word.Word, n), make([]word.Word, n)
	d.Ted.MulComb4b(ax, ay, s, d.CombTable())
	public = compressEdwards(ax, ay)

	rh := sha512.New()
	rh.Write(prefix)
	rh.Write(message)
	rEncScalar := reduceModL(rh.Sum(nil))
	rWords := decodeScalar(n, rEncScalar)

	rx, ry := make([]word.Word, n), make([]word.Word, n)
	d.Ted.MulComb4b(rx, ry, rWords, d.CombTable())
	rEnc := compressEdwards(rx, ry)

	kh := sha512.New()
	kh.Write(rEnc[:])
	kh.Write(public[:])
	kh.Write(message)
	kEnc := reduceModL(kh.Sum(nil))

	sOut := addScalarsModL(rEncScalar, kEnc, rawScalar)

	copy(sig[:32], rEnc[:])
	copy(sig[32:], sOut[:])
	return sig, public, nil
}

// addScalarsModL computes (r + k*s) mod L for three little-endian scalar
// encodings using math/big: this runs only over already-hashed,
// already-reduced scalar material, the same public-data trade-off
// reduceModL makes for the verifier's challenge scalar.
func addScalarsModL(r, k, s [FieldBytes]byte) [FieldBytes]byte {
	rBig := new(big.Int).SetBytes(reverse(r[:]))
	kBig := new(big.Int).SetBytes(reverse(k[:]))
	sBig := new(big.Int).SetBytes(reverse(s[:]))

	v := new(big.Int).Mul(kBig, sBig)
	v.Add(v, rBig)
	v.Mod(v, groupOrderL)

	var out [FieldBytes]byte
	vb := v.Bytes()
	for i, b := range vb {
		out[len(vb)-1-i] = b
	}
	return out
}

// PublicKeyMontgomery derives the Montgomery u-coordinate of the public
// key seed would produce with SignDerive: the comb stays in
// twisted-Edwards coordinates for the scalar multiplication itself, and
// only the already-computed affine point crosses the birational map, so
// a caller handing this public key to an X25519 peer (RFC 7748 §4.1's
// Ed25519-to-X25519 conversion) never needs a second fixed-base scan.
func PublicKeyMontgomery(seed [32]byte) ([FieldBytes]byte, error) {
	public, _, err := SignDerive(seed)
	if err != nil {
		return [FieldBytes]byte{}, err
	}

	_, y, err := DecompressEdwards(public)
	if err != nil {
		return [FieldBytes]byte{}, err
	}

	d := params.Curve25519()
	n := d.Words
	yw := make([]word.Word, n)
	decodeLE(yw, y[:])

	u := d.TedToMon(yw)
	d.Field.Lnr(u, u)
	return encodeLE(u), nil
}

// compressEdwards packs an affine twisted-Edwards point into the RFC 8032
// encoding: y little-endian in the low 255 bits, sign(x) in the top bit.
func compressEdwards(x, y []word.Word) [FieldBytes]byte {
	out := encodeLE(y)
	out[31] = (out[31] & 0x7F) | ((byte(x[0]&1) << 7) & 0x80)
	return out
}

// publicPoint decodes a public-key-producing scalar into its twisted
// Edwards affine point, used by verify.go to rebuild A from a signature's
// public key bytes by way of decompression rather than recomputation.
func publicPoint(d *params.Domain, compressed [FieldBytes]byte) (*ted.Point, error) {
	x, y, err := DecompressEdwards(compressed)
	if err != nil {
		return nil, err
	}
	n := d.Words
	p := ted.NewPoint(n)
	xw := make([]word.Word, n)
	yw := make([]word.Word, n)
	decodeLE(xw, x[:])
	decodeLE(yw, y[:])
	d.Ted.SetAffine(p, xw, yw)
	return p, nil
}
