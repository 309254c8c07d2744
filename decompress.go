// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eccore

import (
	"github.com/scalarmul/eccore/internal/field"
	"github.com/scalarmul/eccore/internal/word"
	"github.com/scalarmul/eccore/params"
)

// pm58Exponent is (p-5)/8 for p = 2^255-19, the exponent used by the
// inverse-square-root step of point decompression.
func pm58Exponent(n int) []word.Word {
	r := make([]word.Word, n)
	decodeLE(r, []byte{
		0xFD, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
		0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0x0F,
	})
	return r
}

// powExp computes r = a^e mod p via square-and-multiply, scanning e's
// bits from the most significant down. e is public (a fixed curve
// constant), so this need not be constant-time.
func powExp(fp field.Prime, r, a, e []word.Word) {
	n := fp.N
	acc := make([]word.Word, n)
	word.SetWord(acc, 1)
	started := false

	for i := word.Bits*n - 1; i >= 0; i-- {
		bit := (e[i/word.Bits] >> uint(i%word.Bits)) & 1
		if started {
			fp.Sqr(acc, acc)
		}
		if bit != 0 {
			if !started {
				word.Copy(acc, a)
				started = true
			} else {
				fp.Mul(acc, acc, a)
			}
		}
	}
	word.Copy(r, acc)
}

// DecompressEdwards recovers the twisted-Edwards point encoded by a
// 32-byte string: the low 255 bits hold y in little-endian, and the top
// bit of byte 31 holds the sign of x. Recovery solves
// x^2 = (y^2-1)/(d*y^2+1) using the exponentiation-by-(p-5)/8 technique
// from RFC 8032 §5.1.3, then fixes x's sign to match the encoded bit.
func DecompressEdwards(enc [FieldBytes]byte) (x, y [FieldBytes]byte, err error) {
	d := params.Curve25519()
	n := d.Words
	fp := d.Field

	sign := enc[31] >> 7
	yEnc := enc
	yEnc[31] &= 0x7F

	yw := make([]word.Word, n)
	decodeLE(yw, yEnc[:])
	canon := make([]word.Word, n)
	fp.Lnr(canon, yw)
	if word.Cmp(canon, yw) != 0 {
		return x, y, newError(InvalidPoint, "y not canonical")
	}

	u := make([]word.Word, n)
	v := make([]word.Word, n)
	y2 := make([]word.Word, n)
	fp.Sqr(y2, yw)
	one := make([]word.Word, n)
	word.SetWord(one, 1)
	fp.Sub(u, y2, one)
	fp.Mul(v, y2, d.Ted.D)
	fp.Add(v, v, one)

	v3 := make([]word.Word, n)
	v7 := make([]word.Word, n)
	fp.Sqr(v3, v)
	fp.Mul(v3, v3, v) // v^3
	fp.Sqr(v7, v3)
	fp.Mul(v7, v7, v) // v^7

	uv3 := make([]word.Word, n)
	uv7 := make([]word.Word, n)
	fp.Mul(uv3, u, v3)
	fp.Mul(uv7, u, v7)

	exp := pm58Exponent(n)
	t := make([]word.Word, n)
	powExp(fp, t, uv7, exp)

	xCand := make([]word.Word, n)
	fp.Mul(xCand, uv3, t)

	// candidate^2 * v should equal u.
	chk := make([]word.Word, n)
	fp.Sqr(chk, xCand)
	fp.Mul(chk, chk, v)
	fp.Lnr(chk, chk)
	uu := make([]word.Word, n)
	fp.Lnr(uu, u)

	if !fp.Cmp(chk, uu) {
		fp.Mul(xCand, xCand, d.SqrtM1)
		fp.Sqr(chk, xCand)
		fp.Mul(chk, chk, v)
		fp.Lnr(chk, chk)
		if !fp.Cmp(chk, uu) {
			return x, y, newError(InvalidPoint, "not a square")
		}
	}

	fp.Lnr(xCand, xCand)
	if field.Is0(xCand) && sign == 1 {
		return x, y, newError(InvalidPoint, "negative zero x")
	}

	xIsOdd := xCand[0] & 1
	if word.Word(sign) != xIsOdd {
		fp.Cneg(xCand, xCand, 1)
		fp.Lnr(xCand, xCand)
	}

	return encodeLE(xCand), encodeLE(yw), nil
}
