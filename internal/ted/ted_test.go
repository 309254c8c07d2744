// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ted

import (
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/scalarmul/eccore/internal/field"
	"github.com/scalarmul/eccore/internal/word"
)

// fp25519, curveD and baseXY mirror params.Curve25519's derivation,
// duplicated here (rather than imported) so internal/ted can be tested
// without importing the params package, which itself imports ted.
var fp25519 = field.Prime{N: 8, C: 19}

func words32(h ...uint32) []word.Word {
	w := make([]word.Word, len(h))
	for i, v := range h {
		w[i] = word.Word(v)
	}
	return w
}

func curveD() Curve {
	d := words32(0x135978A3, 0x75EB4DCA, 0x4141D8AB, 0x00700A4D, 0x7779E898, 0x8CC74079, 0x2B6FFE73, 0x52036CEE)
	return Curve{P: fp25519, D: d}
}

func baseXY() (x, y []word.Word) {
	x = words32(0x8F25D51A, 0xC9562D60, 0x9525A7B2, 0x692CC760, 0xFDD6DC5C, 0xC0A4E231, 0xCD6E53FE, 0x216936D3)
	y = words32(0x66666658, 0x66666666, 0x66666666, 0x66666666, 0x66666666, 0x66666666, 0x66666666, 0x66666666)
	return
}

func randomScalar(r *rand.Rand, n int) []word.Word {
	s := make([]word.Word, n)
	for i := range s {
		s[i] = word.Word(r.Uint32())
	}
	s[n-1] &= word.Word(1)<<(word.Bits-3) - 1
	return s
}

func unitMask(n int) []word.Word {
	m := make([]word.Word, n)
	word.SetWord(m, 1)
	return m
}

func TestValidateBasePoint(t *testing.T) {
	c := curveD()
	n := c.P.N
	x, y := baseXY()
	p := NewPoint(n)
	c.SetAffine(p, x, y)
	if err := c.Validate(p); err != nil {
		t.Fatalf("base point failed to validate: %v", err)
	}
}

func TestValidateRejectsOffCurvePoint(t *testing.T) {
	c := curveD()
	n := c.P.N
	x, y := baseXY()
	bogusY := make([]word.Word, n)
	word.Copy(bogusY, y)
	bogusY[0] ^= 1

	p := NewPoint(n)
	c.SetAffine(p, x, bogusY)
	if err := c.Validate(p); err == nil {
		t.Fatal("expected off-curve point to fail validation")
	}
}

func TestDoubleMatchesAddProj(t *testing.T) {
	c := curveD()
	n := c.P.N
	x, y := baseXY()
	p := NewPoint(n)
	c.SetAffine(p, x, y)

	viaDouble := NewPoint(n)
	c.Double(viaDouble, p)

	viaAdd := NewPoint(n)
	c.AddProj(viaAdd, p, p)

	mask := unitMask(n)
	x1, y1 := make([]word.Word, n), make([]word.Word, n)
	x2, y2 := make([]word.Word, n), make([]word.Word, n)
	if err := c.ProjToAffine(x1, y1, viaDouble, mask); err != nil {
		t.Fatalf("ProjToAffine(double): %v", err)
	}
	if err := c.ProjToAffine(x2, y2, viaAdd, mask); err != nil {
		t.Fatalf("ProjToAffine(add): %v", err)
	}
	if !eqWords(x1, x2) || !eqWords(y1, y2) {
		t.Fatalf("2P via Double != 2P via AddProj(P,P)")
	}
}

func eqWords(a, b []word.Word) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestCombAgreesWithBinary checks that the constant-time fixed-base comb
// scan (MulComb4b) computes the same point as the binary double-and-add
// reference (MulBinary) for random scalars, cross-checked as suggested by
// the reference test drivers.
func TestCombAgreesWithBinary(t *testing.T) {
	c := curveD()
	n := c.P.N
	x, y := baseXY()
	g := NewPoint(n)
	c.SetAffine(g, x, y)

	table := BuildCombTable(c, g, word.Bits*n)

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		k := randomScalar(r, n)

		cx, cy := make([]word.Word, n), make([]word.Word, n)
		c.MulComb4b(cx, cy, k, table)

		bp := NewPoint(n)
		c.MulBinary(bp, k, g)
		mask := unitMask(n)
		bx, by := make([]word.Word, n), make([]word.Word, n)
		if err := c.ProjToAffine(bx, by, bp, mask); err != nil {
			t.Fatalf("ProjToAffine(binary): %v", err)
		}

		if !eqWords(cx, bx) || !eqWords(cy, by) {
			t.Fatalf("comb and binary scalar mul disagree for k=%v", k)
		}
	}
}

func leWordsFromHex(t *testing.T, n int, s string) []word.Word {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("bad hex: %v", err)
	}
	if len(b) != n*4 {
		t.Fatalf("expected %d bytes, got %d", n*4, len(b))
	}
	r := make([]word.Word, n)
	for i := 0; i < n; i++ {
		var v uint32
		for j := 0; j < 4; j++ {
			v |= uint32(b[i*4+j]) << uint(8*j)
		}
		r[i] = word.Word(v)
	}
	return r
}

// TestCombFixedBaseSignDeriveVector pins MulComb4b against a clamped
// Ed25519-style signing scalar and its public point: k = the SHA-512/clamp
// of an all-0x01 seed (RFC 8032 §5.1.5's derivation, the same one
// eccore.SignDerive performs), and (x, y) = k*G checked independently.
// MulBinary must land on the same point, ruling out a comb/binary
// disagreement that cancels out for the random scalars in
// TestCombAgreesWithBinary but not for a fixed-base signing key.
func TestCombFixedBaseSignDeriveVector(t *testing.T) {
	c := curveD()
	n := c.P.N
	gx, gy := baseXY()
	g := NewPoint(n)
	c.SetAffine(g, gx, gy)

	k := leWordsFromHex(t, n, "58e86efb75fa4e2c410f46e16de9f6acae1a1703528651b69bc176c088bef36e")
	wantX := leWordsFromHex(t, n, "4c35a7ea9f7b9b53634fc062bc5b7365693c609dc1a6a4a3300a15ca3e346c36")
	wantY := leWordsFromHex(t, n, "8a88e3dd7409f195fd52db2d3cba5d72ca6709bf1d94121bf3748801b40f6f5c")

	table := BuildCombTable(c, g, word.Bits*n)
	cx, cy := make([]word.Word, n), make([]word.Word, n)
	c.MulComb4b(cx, cy, k, table)
	if !eqWords(cx, wantX) || !eqWords(cy, wantY) {
		t.Fatalf("comb scalar mul mismatch:\n got  x=%v y=%v\n want x=%v y=%v", cx, cy, wantX, wantY)
	}

	bp := NewPoint(n)
	c.MulBinary(bp, k, g)
	mask := unitMask(n)
	bx, by := make([]word.Word, n), make([]word.Word, n)
	if err := c.ProjToAffine(bx, by, bp, mask); err != nil {
		t.Fatalf("ProjToAffine(binary): %v", err)
	}
	if !eqWords(bx, wantX) || !eqWords(by, wantY) {
		t.Fatalf("binary scalar mul mismatch:\n got  x=%v y=%v\n want x=%v y=%v", bx, by, wantX, wantY)
	}
}

func TestSetNeutralIsIdentity(t *testing.T) {
	c := curveD()
	n := c.P.N
	x, y := baseXY()
	p := NewPoint(n)
	c.SetAffine(p, x, y)

	neutral := NewPoint(n)
	c.SetNeutral(neutral)

	sum := NewPoint(n)
	c.AddProj(sum, p, neutral)

	mask := unitMask(n)
	sx, sy := make([]word.Word, n), make([]word.Word, n)
	if err := c.ProjToAffine(sx, sy, sum, mask); err != nil {
		t.Fatalf("ProjToAffine: %v", err)
	}
	if !eqWords(sx, x) || !eqWords(sy, y) {
		t.Fatal("P + neutral != P")
	}
}
