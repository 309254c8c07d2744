// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mont implements point arithmetic and scalar multiplication on a
// Montgomery curve using (X,Z)-only projective coordinates, following the
// differential-addition ladder from "Curve25519: New Diffie-Hellman Speed
// Records" (Bernstein, PKC 2005).
package mont

import (
	"errors"

	"github.com/scalarmul/eccore/internal/field"
	"github.com/scalarmul/eccore/internal/word"
)

// ErrInvalidScalar is returned when a variable-base scalar multiplication
// is asked to multiply by the zero scalar.
var ErrInvalidScalar = errors.New("mont: invalid scalar")

// ErrInvalidPoint is returned when a base point fails the low-order check
// or a projective-to-affine conversion collapses to Z = 0.
var ErrInvalidPoint = errors.New("mont: invalid point")

// Curve bundles the field and the small curve constant a24 = (A+2)/4 used
// by the doubling formula, plus the multiplicative blinding mask used to
// protect the single call into field.Inv that every public entry point
// here eventually makes.
type Curve struct {
	P    field.Prime
	A24  uint32
	Mask []word.Word // fixed, public, uniform-looking, non-zero mod p
}

// Point holds a Montgomery curve point in (X,Z) projective coordinates.
// The Y and Slack fields are scratch space reused by the point routines
// below exactly as the reference implementation reuses them: once the
// ladder exits, Y carries the X-coordinate and Slack the Z-coordinate of
// the ladder's companion point (k+1)*P (for y-recovery); otherwise both
// are scratch for intermediate values.
// All fields must be disjoint n-word slices owned by the caller; no
// routine in this package allocates persistent state.
type Point struct {
	X, Z     []word.Word
	Y        []word.Word // scratch / (k+1)P.X after the ladder
	Slack    []word.Word // scratch / (k+1)P.Z after the ladder, at least n words
}

func newScratch(n, words int) []word.Word { return make([]word.Word, n*words) }

// Copy copies the (X,Z) coordinates of p into r, setting Z = 1 if p.Z is
// nil (affine input).
func (c Curve) Copy(r, p *Point) {
	word.Copy(r.X, p.X)
	if p.Z != nil {
		word.Copy(r.Z, p.Z)
	} else {
		word.SetWord(r.Z, 1)
	}
}

// Add performs the differential addition R = P + Q given the affine
// x-coordinate xd of the difference D = P - Q. This is the fixed,
// branch-free 3-multiply/2-square/6-add sequence from the Montgomery
// ladder.
func (c Curve) Add(p, q *Point, xd []word.Word) {
	t1, t2 := p.Y, p.Slack[:c.P.N]
	xp, zp := p.X, p.Z
	xq, zq := q.X, q.Z

	c.P.Add(t1, xp, zp)    // t1 := xp+zp
	c.P.Sub(t2, xp, zp)    // t2 := xp-zp
	c.P.Sub(xp, xq, zq)    // xr := xq-zq
	c.P.Mul(zp, t1, xp)    // zr := t1*xr
	c.P.Add(t1, xq, zq)    // t1 := xq+zq
	c.P.Mul(xp, t1, t2)    // xr := t1*t2
	c.P.Sub(t1, xp, zp)    // t1 := xr-zr
	c.P.Add(t2, xp, zp)    // t2 := xr+zr
	c.P.Sqr(xp, t2)        // xr := t2^2
	c.P.Sqr(t2, t1)        // t2 := t1^2
	c.P.Mul(zp, xd, t2)    // zr := xd*t2
}

// Double performs P = 2P using the standard 2-multiply/2-square/4-add
// Montgomery doubling formula with the curve's a24 constant.
func (c Curve) Double(p *Point) {
	t1, t2 := p.Y, p.Slack[:c.P.N]
	xp, zp := p.X, p.Z

	c.P.Add(t1, xp, zp)         // t1 := xp+zp
	c.P.Sqr(t2, t1)             // t2 := t1^2
	c.P.Sub(t1, xp, zp)         // t1 := xp-zp
	c.P.Sqr(zp, t1)             // zr := t1^2
	c.P.Mul(xp, t2, zp)         // xr := t2*zr
	c.P.Sub(t1, t2, zp)         // t1 := t2-zr
	c.P.MulSmallInt(t2, t1, c.A24) // t2 := t1*a24
	c.P.Add(t2, t2, zp)         // t2 := t2+zr
	c.P.Mul(zp, t1, t2)         // zr := t1*t2
}

// CheckOrder computes R = 8*P and reports ErrInvalidPoint if its
// Z-coordinate is 0 or p, detecting points of order <= 8. This mitigates
// the combined attack described in "To Infinity and Beyond: Combined
// Attack on ECC Using Points of Low Order" (CHES 2011).
func (c Curve) CheckOrder(r *Point, xp []word.Word) error {
	word.Copy(r.X, xp)
	word.SetWord(r.Z, 1)

	c.Double(r)
	c.Double(r)
	c.Double(r)

	if word.IsZero(r.Z) || c.P.Isp(r.Z) {
		return ErrInvalidPoint
	}
	return nil
}

func getBit(k []word.Word, i int) int {
	return int((k[i/word.Bits] >> uint(i%word.Bits)) & 1)
}

// LadderFixedPosition is the original Curve25519 ladder: it scans k for
// its leading one bit (assumed to sit at a public, fixed position, as is
// the case for a properly pruned Curve25519 scalar) and iterates only
// from there. It is faster than the fully constant-time variant but its
// iteration count depends on the position of that leading bit, so it must
// never be used on a scalar whose bit length is secret.
func (c Curve) LadderFixedPosition(r *Point, k, xp []word.Word) {
	n := c.P.N
	tmp := newScratch(n, 3)
	q := &Point{X: tmp[:n], Y: tmp[n : 2*n], Z: tmp[2*n : 3*n], Slack: r.Slack}
	t := [2]*Point{r, q}

	i := word.Bits*n - 1
	for getBit(k, i) == 0 && i > 0 {
		i--
	}

	word.Copy(t[0].X, xp)
	word.SetWord(t[0].Z, 1)
	c.Copy(t[1], t[0])
	c.Double(t[1])

	for i = i - 1; i >= 0; i-- {
		ki := getBit(k, i)
		c.Add(t[1-ki], t[ki], xp)
		c.Double(t[ki])
	}

	word.Copy(r.Y, q.X)
	word.Copy(r.Slack, q.Z)
}

// LadderConstantTime is the fully constant-time Montgomery ladder mandated
// by this package for any secret scalar: T[0] starts at the point at
// infinity (X,Z)=(1,0) and T[1] at P, so leading zero bits of k still
// execute an addition and a doubling, keeping the total iteration count
// fixed at w*n regardless of k's value.
func (c Curve) LadderConstantTime(r *Point, k, xp []word.Word) {
	n := c.P.N
	tmp := newScratch(n, 3)
	q := &Point{X: tmp[:n], Y: tmp[n : 2*n], Z: tmp[2*n : 3*n], Slack: r.Slack}
	t := [2]*Point{r, q}

	word.SetWord(t[0].X, 1)
	word.SetWord(t[0].Z, 0)
	word.Copy(t[1].X, xp)
	word.SetWord(t[1].Z, 1)

	for i := word.Bits*n - 1; i >= 0; i-- {
		ki := getBit(k, i)
		c.Add(t[1-ki], t[ki], xp)
		c.Double(t[ki])
	}

	word.Copy(r.Y, q.X)
	word.Copy(r.Slack, q.Z)
}

// RecoverY recovers the Y-coordinate of q = k*P from q's (X,Z), the
// (X,Z) of (k+1)*P stashed in q.Y/q.Slack by the ladder, and the affine
// (x,y) of the base point p. This is the Okeya-Sakurai recovery
// specialized for curves with B = 1, a fixed 10-multiply/6-add schedule.
func (c Curve) RecoverY(r, q, p *Point) {
	n := c.P.N
	tmp := newScratch(n, 3)
	t1, t2, t3 := tmp[:n], tmp[n:2*n], tmp[2*n:3*n]
	x1, z1 := q.X, q.Z
	x2, z2 := q.Y, q.Slack[:n]
	xp, yp := p.X, p.Y

	c.P.Mul(t1, xp, x1) // t1 := xp*x1
	c.P.Sub(t1, t1, z1) // t1 := t1-z1
	c.P.Mul(t2, z1, xp) // t2 := z1*xp
	c.P.Sub(t2, x1, t2) // t2 := x1-t2
	c.P.Mul(t3, z2, t1) // t3 := z2*t1
	c.P.Mul(t1, x2, t2) // t1 := x2*t2
	c.P.Add(t2, t3, t1) // t2 := t3+t1
	c.P.Sub(t3, t3, t1) // t3 := t3-t1
	c.P.Mul(t1, x2, yp) // t1 := x2*yp
	c.P.Mul(r.Y, t2, t3) // yr := t2*t3
	c.P.Add(t3, z2, z2)  // t3 := 2*z2
	c.P.Add(t2, t3, t3)  // t2 := 4*z2  (labelled t3 in the source but kept here)
	c.P.Mul(t3, t2, t1)  // t3 := t2*t1
	c.P.Mul(t2, t3, z1)  // t2 := t3*z1
	c.P.Mul(r.Z, t2, z1) // zr := t2*z1
	c.P.Mul(r.X, t2, x1) // xr := t2*x1
}

// ProjToAffineX converts P = (X,Z) to its affine x = X/Z using blinded
// inversion: Z is first multiplied by the curve's fixed mask before being
// handed to field.Inv, decorrelating the inversion algorithm's
// input-dependent branching from the secret Z. See "SPA Vulnerabilities of
// the Binary Extended Euclidean Algorithm" (J. Crypt. Eng., 2016).
func (c Curve) ProjToAffineX(r, p *Point) error {
	n := c.P.N
	t1 := r.Slack[:n]

	c.P.Mul(t1, p.Z, c.Mask)
	if err := c.P.Inv(t1, t1); err != nil {
		return ErrInvalidPoint
	}
	c.P.Mul(r.Z, t1, c.Mask)

	c.P.Mul(t1, p.X, r.Z)
	c.P.Lnr(r.X, t1)

	if p.Y != nil && r.Y != nil {
		c.P.Mul(t1, p.Y, r.Z)
		c.P.Lnr(r.Y, t1)
	}

	word.SetWord(r.Z, 1)
	return nil
}

// MulVarBase computes r = k*xp (affine output x-coordinate only) using the
// constant-time ladder, rejecting k = 0. This is the ECDH primitive.
func (c Curve) MulVarBase(r []word.Word, k, xp []word.Word) error {
	n := c.P.N
	if word.IsZero(k) {
		word.SetWord(r, 0)
		return ErrInvalidScalar
	}

	tmp := newScratch(n, 4)
	q := &Point{X: tmp[:n], Y: tmp[n : 2*n], Z: tmp[2*n : 3*n], Slack: tmp[3*n : 4*n]}

	c.LadderConstantTime(q, k, xp)

	out := &Point{X: r, Z: tmp[2*n : 3*n], Slack: tmp[3*n : 4*n]}
	if err := c.ProjToAffineX(out, q); err != nil {
		word.SetWord(r, 0)
		return err
	}
	word.Copy(r, out.X)
	return nil
}
