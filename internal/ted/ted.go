// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ted implements point arithmetic on a twisted Edwards curve
// -x^2 + y^2 = 1 + d*x^2*y^2 using extended projective coordinates
// (X, Y, Z, E, H), where the pair (E, H) is carried alongside (X, Y, Z)
// purely so that T = E*H = X*Y/Z is available to the next addition
// without recomputing it, following Hisil, Wong, Carter and Dawson,
// "Twisted Edwards Curves Revisited" (Asiacrypt 2008), formulas
// dbl-2008-hwcd and add-2008-hwcd-3 specialized to a = -1.
package ted

import (
	"errors"

	"github.com/scalarmul/eccore/internal/field"
	"github.com/scalarmul/eccore/internal/word"
)

// ErrInvalidPoint is returned by Validate when a point does not satisfy
// the curve equation.
var ErrInvalidPoint = errors.New("ted: invalid point")

// Curve bundles the field and the curve constant d.
type Curve struct {
	P field.Prime
	D []word.Word
}

// Point holds a twisted Edwards point in extended projective coordinates.
// X, Y, Z are the point's homogeneous coordinates; E and H are carried so
// that T = E*H = X*Y/Z without recomputation on the next addition. A
// comb-table entry (affine, Z implicitly 1) sets E = X and H = Y.
type Point struct {
	X, Y, Z, E, H []word.Word
}

// NewPoint allocates a fresh n-word point.
func NewPoint(n int) *Point {
	return &Point{
		X: make([]word.Word, n), Y: make([]word.Word, n), Z: make([]word.Word, n),
		E: make([]word.Word, n), H: make([]word.Word, n),
	}
}

func newScratch(n, words int) []word.Word { return make([]word.Word, n*words) }

// Copy copies p into r, including the E, H auxiliary coordinates.
func (c Curve) Copy(r, p *Point) {
	word.Copy(r.X, p.X)
	word.Copy(r.Y, p.Y)
	word.Copy(r.Z, p.Z)
	word.Copy(r.E, p.E)
	word.Copy(r.H, p.H)
}

// SetNeutral sets p to the neutral element (0, 1, 1, 0, 1).
func (c Curve) SetNeutral(p *Point) {
	word.SetWord(p.X, 0)
	word.SetWord(p.Y, 1)
	word.SetWord(p.Z, 1)
	word.SetWord(p.E, 0)
	word.SetWord(p.H, 1)
}

// SetAffine sets p to the affine point (x, y), Z = 1, with E, H primed
// for the next addition's T product.
func (c Curve) SetAffine(p *Point, x, y []word.Word) {
	word.Copy(p.X, x)
	word.Copy(p.Y, y)
	word.SetWord(p.Z, 1)
	word.Copy(p.E, x)
	word.Copy(p.H, y)
}

// Double computes r = 2*p (dbl-2008-hwcd, a = -1). r may alias p.
func (c Curve) Double(r, p *Point) {
	n := c.P.N
	tmp := newScratch(n, 6)
	a, b, cc, dd, e, g := tmp[:n], tmp[n:2*n], tmp[2*n:3*n], tmp[3*n:4*n], tmp[4*n:5*n], tmp[5*n:6*n]

	c.P.Sqr(a, p.X)     // A := X1^2
	c.P.Sqr(b, p.Y)     // B := Y1^2
	c.P.Sqr(cc, p.Z)    // C := Z1^2
	c.P.Add(cc, cc, cc) // C := 2*Z1^2

	c.P.Add(e, p.X, p.Y)
	c.P.Sqr(e, e)
	c.P.Sub(e, e, a)
	c.P.Sub(e, e, b) // E := (X1+Y1)^2 - A - B

	c.P.Cneg(dd, a, 1) // D := -A
	c.P.Add(g, dd, b)  // G := D+B

	var f, h []word.Word = make([]word.Word, n), make([]word.Word, n)
	c.P.Sub(f, g, cc) // F := G-C
	c.P.Sub(h, dd, b) // H := D-B

	c.P.Mul(r.X, e, f)
	c.P.Mul(r.Y, g, h)
	c.P.Mul(r.Z, f, g)
	word.Copy(r.E, e)
	word.Copy(r.H, h)
}

// addCore is the shared hwcd-3 addition body. t2x, t2y are q's affine (or
// projective) X, Y; t2 is q's T = E2*H2; z2 is q's Z (pass nil for a
// mixed addition where Z2 = 1 is implicit).
func (c Curve) addCore(r, p *Point, t2x, t2y, t2 []word.Word, z2 []word.Word) {
	n := c.P.N
	tmp := newScratch(n, 6)
	a, b, cc, dd, e, h := tmp[:n], tmp[n:2*n], tmp[2*n:3*n], tmp[3*n:4*n], tmp[4*n:5*n], tmp[5*n:6*n]

	s1 := make([]word.Word, n)
	s2 := make([]word.Word, n)

	c.P.Sub(s1, p.Y, p.X)
	c.P.Sub(s2, t2y, t2x)
	c.P.Mul(a, s1, s2) // A := (Y1-X1)*(Y2-X2)

	c.P.Add(s1, p.Y, p.X)
	c.P.Add(s2, t2y, t2x)
	c.P.Mul(b, s1, s2) // B := (Y1+X1)*(Y2+X2)

	c.P.Mul(cc, p.E, p.H) // C := T1
	c.P.Mul(cc, cc, t2)   // C := T1*T2
	c.P.Add(cc, cc, cc)
	c.P.Mul(cc, cc, c.D) // C := 2*d*T1*T2

	if z2 != nil {
		c.P.Mul(dd, p.Z, z2)
	} else {
		word.Copy(dd, p.Z)
	}
	c.P.Add(dd, dd, dd) // D := 2*Z1*Z2

	var f, g []word.Word = make([]word.Word, n), make([]word.Word, n)
	c.P.Sub(e, b, a)  // E := B-A
	c.P.Sub(f, dd, cc) // F := D-C
	c.P.Add(g, dd, cc) // G := D+C
	c.P.Add(h, b, a)   // H := B+A

	c.P.Mul(r.X, e, f)
	c.P.Mul(r.Y, g, h)
	c.P.Mul(r.Z, f, g)
	word.Copy(r.E, e)
	word.Copy(r.H, h)
}

// AddMixed computes r = p + q where q is an extended-affine point
// (q.Z = 1 implicitly, T2 = q.E*q.H = q.X*q.Y). r may alias p.
func (c Curve) AddMixed(r, p, q *Point) {
	n := c.P.N
	t2 := make([]word.Word, n)
	c.P.Mul(t2, q.E, q.H)
	c.addCore(r, p, q.X, q.Y, t2, nil)
}

// AddProj computes r = p + q for two points both in full projective form.
// r may alias p or q.
func (c Curve) AddProj(r, p, q *Point) {
	n := c.P.N
	t2 := make([]word.Word, n)
	c.P.Mul(t2, q.E, q.H)
	c.addCore(r, p, q.X, q.Y, t2, q.Z)
}

// Validate reports whether p satisfies the curve equation
// -X^2*Z^2 + Y^2*Z^2 = Z^4 + d*X^2*Y^2 (the projective form of
// -x^2+y^2 = 1+d*x^2*y^2), returning ErrInvalidPoint if not.
func (c Curve) Validate(p *Point) error {
	n := c.P.N
	tmp := newScratch(n, 6)
	x2, y2, z2, z4, dx2y2, lhs := tmp[:n], tmp[n:2*n], tmp[2*n:3*n], tmp[3*n:4*n], tmp[4*n:5*n], tmp[5*n:6*n]

	c.P.Sqr(x2, p.X)
	c.P.Sqr(y2, p.Y)
	c.P.Sqr(z2, p.Z)
	c.P.Sqr(z4, z2)
	c.P.Mul(dx2y2, x2, y2)
	c.P.Mul(dx2y2, dx2y2, c.D)
	c.P.Add(dx2y2, dx2y2, z4)

	c.P.Cneg(x2, x2, 1)
	c.P.Mul(x2, x2, z2)
	c.P.Mul(y2, y2, z2)
	c.P.Add(lhs, x2, y2)

	if !c.P.Cmp(lhs, dx2y2) {
		return ErrInvalidPoint
	}
	return nil
}

// ProjToAffine converts p to affine (x, y) via a blinded inversion of Z,
// using mask as the blinding factor (see mont.Curve.ProjToAffineX for the
// same technique applied to the Montgomery ladder's output).
func (c Curve) ProjToAffine(x, y []word.Word, p *Point, mask []word.Word) error {
	n := c.P.N
	t := make([]word.Word, n)

	c.P.Mul(t, p.Z, mask)
	if err := c.P.Inv(t, t); err != nil {
		return ErrInvalidPoint
	}
	c.P.Mul(t, t, mask)

	tmp := make([]word.Word, n)
	c.P.Mul(tmp, p.X, t)
	c.P.Lnr(x, tmp)
	c.P.Mul(tmp, p.Y, t)
	c.P.Lnr(y, tmp)
	return nil
}

// MulBinary computes r = k*p with an ordinary double-and-add scan of k's
// bits, branching on each bit. This is NOT constant-time and must only
// ever be used where k is public, such as a test oracle.
func (c Curve) MulBinary(r *Point, k []word.Word, p *Point) {
	n := c.P.N
	c.SetNeutral(r)
	acc := NewPoint(n)
	c.Copy(acc, p)

	bits := word.Bits * n
	for i := 0; i < bits; i++ {
		bit := (k[i/word.Bits] >> uint(i%word.Bits)) & 1
		if bit == 1 {
			c.AddProj(r, r, acc)
		}
		c.Double(acc, acc)
	}
}

// CombTable holds the 16 precomputed extended-affine multiples of a base
// point G used by MulComb4b: Table[d] = sum over the set bits b of d of
// 2^(b*MaxD)*G, and Table[0] is the neutral element. MaxD is (w*n)/4, the
// number of columns the comb loop runs: the scalar is viewed as 4 equal
// rows of MaxD bits each, and column i's digit is formed by taking bit i
// of every row (row 0 contributes bit 0 of the digit, row 1 bit 1, and so
// on), so the same 16-entry table is reused unchanged at every column and
// only the running accumulator is doubled between columns.
type CombTable struct {
	MaxD  int
	Table [16]Point
}

// BuildCombTable derives the 16-entry comb table for g by repeated
// doubling and addition. It is computed at runtime from the curve's base
// point rather than shipped as literal constants, since those constants
// are themselves curve-parameter data, not algorithm.
func BuildCombTable(c Curve, g *Point, scalarBits int) *CombTable {
	const rows = 4
	maxd := scalarBits / rows
	n := c.P.N

	mask := make([]word.Word, n)
	word.SetWord(mask, 1)

	// bases[r] = 2^(r*maxd) * g, the weight column r of the scalar's
	// rows contributes at the comb's least significant position.
	var bases [rows]*Point
	cur := NewPoint(n)
	c.Copy(cur, g)
	for r := 0; r < rows; r++ {
		bases[r] = NewPoint(n)
		c.Copy(bases[r], cur)
		for b := 0; b < maxd; b++ {
			c.Double(cur, cur)
		}
	}

	t := &CombTable{MaxD: maxd}

	zero := make([]word.Word, n)
	one := make([]word.Word, n)
	word.SetWord(one, 1)
	t.Table[0] = *NewPoint(n)
	c.SetAffine(&t.Table[0], zero, one)

	for d := 1; d < 16; d++ {
		acc := NewPoint(n)
		started := false
		for r := 0; r < rows; r++ {
			if d&(1<<uint(r)) == 0 {
				continue
			}
			if !started {
				c.Copy(acc, bases[r])
				started = true
			} else {
				c.AddProj(acc, acc, bases[r])
			}
		}

		x, y := make([]word.Word, n), make([]word.Word, n)
		c.ProjToAffine(x, y, acc, mask)
		t.Table[d] = *NewPoint(n)
		c.SetAffine(&t.Table[d], x, y)
	}

	return t
}

// eqMask returns all-ones if a == b and all-zero otherwise, using only
// bitwise operations (an OR-reduction of a^b's bits down to bit 0) so the
// comparison never branches on either operand.
func eqMask(a, b int) word.Word {
	d := uint32(a) ^ uint32(b)
	d |= d >> 16
	d |= d >> 8
	d |= d >> 4
	d |= d >> 2
	d |= d >> 1
	return word.Word(d&1) - 1
}

// getDigit extracts the unsigned 4-bit digit for column col from the
// n-word scalar k: the scalar is partitioned into 4 equal rows of maxd
// bits, and bit r of the digit is bit col of row r (bit position
// r*maxd+col of k).
func getDigit(k []word.Word, col, maxd int) int {
	d := 0
	for r := 0; r < 4; r++ {
		bitpos := r*maxd + col
		bit := int((k[bitpos/word.Bits] >> uint(bitpos%word.Bits)) & 1)
		d |= bit << uint(r)
	}
	return d
}

// MulComb4b computes (x, y) = k*G using the fixed-base comb table built
// by BuildCombTable: for each column, from the most significant down to
// the least, every one of the table's 16 rows is read via a masked linear
// scan (selected, never branched or indexed on the secret digit) and
// folded into the running total with a doubling between columns, per the
// comb method's double(R); load_point; add_mixed schedule. The first
// column (the most significant) skips the doubling and initializes R
// directly from the loaded point.
func (c Curve) MulComb4b(x, y []word.Word, k []word.Word, t *CombTable) {
	n := c.P.N
	acc := NewPoint(n)
	sel := NewPoint(n)

	for col := t.MaxD - 1; col >= 0; col-- {
		d := getDigit(k, col, t.MaxD)

		for i := 0; i < n; i++ {
			sel.X[i], sel.Y[i], sel.Z[i], sel.E[i], sel.H[i] = 0, 0, 0, 0, 0
		}
		for j := 0; j < 16; j++ {
			mask := eqMask(j, d)
			row := &t.Table[j]
			for i := 0; i < n; i++ {
				sel.X[i] |= mask & row.X[i]
				sel.Y[i] |= mask & row.Y[i]
				sel.Z[i] |= mask & row.Z[i]
				sel.E[i] |= mask & row.E[i]
				sel.H[i] |= mask & row.H[i]
			}
		}

		if col == t.MaxD-1 {
			c.Copy(acc, sel)
		} else {
			c.Double(acc, acc)
			c.AddMixed(acc, acc, sel)
		}
	}

	// Fixed non-trivial blinding mask: acc.Z is derived from the secret k.
	mask := make([]word.Word, n)
	word.SetWord(mask, 0x5163)
	c.ProjToAffine(x, y, acc, mask)
}
