// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package field implements arithmetic modulo a pseudo-Mersenne prime
// p = 2^(w*n-1) - c, for a small odd constant c, over the n-word Word
// representation from internal/word. Every operation here is strictly
// constant-time with respect to input values (inv excepted; see below),
// and every output is left incompletely reduced: a value in [0, 2p) rather
// than the canonical [0, p). Callers that need a canonical representative
// call Lnr (least non-negative residue) on demand.
package field

import (
	"errors"

	"github.com/scalarmul/eccore/internal/word"
)

// ErrInversionZero is returned by Inv when its argument is congruent to
// zero modulo p, which has no multiplicative inverse.
var ErrInversionZero = errors.New("field: inversion of zero")

// Prime bundles the (n, c) pair that defines p = 2^(w*n-1) - c, the field
// every other function in this package is parameterized by.
type Prime struct {
	N int        // word count
	C word.Word  // the small odd subtrahend
}

// Set writes the canonical representation of p itself into r.
func (m Prime) Set(r []word.Word) {
	n := m.N
	r[n-1] = word.Word(1)<<(word.Bits-1) - 1
	for i := n - 2; i > 0; i-- {
		r[i] = ^word.Word(0)
	}
	r[0] = -m.C
}

// Isp reports whether a is exactly p, including the "almost-p"
// representation produced by field ops before canonicalization: top word
// 2^(w-1)-1, all middle words set, low word (-c) mod 2^w.
func (m Prime) Isp(a []word.Word) bool {
	n := m.N
	if a[n-1] != word.Word(1)<<(word.Bits-1)-1 {
		return false
	}
	for i := n - 2; i > 0; i-- {
		if a[i] != ^word.Word(0) {
			return false
		}
	}
	return a[0] == -m.C
}

// arithmetic right shift of a signed DWord, portable regardless of whether
// the platform's native >> on signed integers is arithmetic or logical.
func ars(x word.SDWord, k uint) word.SDWord {
	if word.SDWord(-1)>>1 == word.SDWord(-1) {
		return x >> k
	}
	sign := word.SDWord(0)
	if x < 0 {
		sign = -1
	}
	return (x >> k) | (sign << (uint(word.DWordBits) - k))
}

// Add computes r = a + b mod p. The top bit of p is always 0; that spare
// bit of headroom is reclaimed here as carry-propagation room for the
// ripple addition across the lower limbs.
func (m Prime) Add(r, a, b []word.Word) {
	n := m.N
	c := m.C
	sum := word.DWord(a[n-1]) + word.DWord(b[n-1])
	msw := word.Word(sum) & (word.Word(1)<<(word.Bits-1) - 1)
	sum = word.DWord(c) * word.DWord(word.Word(sum>>(word.Bits-1)))

	for i := 0; i < n-1; i++ {
		sum += word.DWord(a[i]) + word.DWord(b[i])
		r[i] = word.Word(sum)
		sum >>= word.Bits
	}
	r[n-1] = msw + word.Word(sum)
}

// Sub computes r = a - b mod p as r = 4p + a - b, using a signed
// accumulator and an arithmetic right shift so the loop body never
// branches on the sign of the running difference.
func (m Prime) Sub(r, a, b []word.Word) {
	n := m.N
	c := word.SDWord(m.C)
	top := word.SDWord(4)<<(word.Bits-1) - 4
	sum := top + word.SDWord(a[n-1]) - word.SDWord(b[n-1])
	msw := word.Word(sum) & (word.Word(1)<<(word.Bits-1) - 1)
	sum = c * word.SDWord(word.Word(sum>>(word.Bits-1)))
	sum -= (c << 1) + (c << 1)

	for i := 0; i < n-1; i++ {
		sum += word.SDWord(a[i]) - word.SDWord(b[i])
		r[i] = word.Word(sum)
		sum = ars(sum, word.Bits)
	}
	r[n-1] = msw + word.Word(sum) + 4
}

// Cneg computes r = a if neg == 0, or r = -a mod p if neg == 1, blending
// the two outcomes limb-wise under a mask so the choice never branches.
func (m Prime) Cneg(r, a []word.Word, neg int) {
	n := m.N
	c := word.SDWord(m.C)
	mask := word.Word(0) - word.Word(neg&1)
	negFour := ^word.Word(3)

	sum := word.SDWord(mask&negFour) + word.SDWord(mask^a[n-1])
	msw := word.Word(sum) & (word.Word(1)<<(word.Bits-1) - 1)
	sum = c * word.SDWord(word.Word(sum>>(word.Bits-1)))
	sum -= word.SDWord(mask&(m.C<<1)) + word.SDWord(mask&(m.C<<1))
	sum += word.SDWord(mask & 1)

	for i := 0; i < n-1; i++ {
		sum += word.SDWord(mask ^ a[i])
		r[i] = word.Word(sum)
		sum = ars(sum, word.Bits)
	}
	r[n-1] = msw + word.Word(sum) + word.Word(mask&4)
}

// Hlv computes r = a/2 mod p: if a is even this is a plain shift, if a is
// odd p is added first via a masked (branch-free) add before the shift.
func (m Prime) Hlv(r, a []word.Word) {
	n := m.N
	c := m.C
	mask := word.Word(0) - (a[0] & 1)

	sum := word.SDWord(a[0]) - word.SDWord(c&mask)
	tmp := word.Word(sum)
	sum = ars(sum, word.Bits)

	for i := 1; i < n-1; i++ {
		sum += word.SDWord(a[i])
		r[i-1] = (word.Word(sum) << (word.Bits - 1)) | (tmp >> 1)
		tmp = word.Word(sum)
		sum = ars(sum, word.Bits)
	}
	sum += word.SDWord(a[n-1]) + word.SDWord(word.Word(1)<<(word.Bits-1)&mask)
	r[n-2] = (word.Word(sum) << (word.Bits - 1)) | (tmp >> 1)
	r[n-1] = word.Word(sum >> 1)
}

// Red performs the pseudo-Mersenne reduction of a 2n-word value a (as
// produced by Mul/Sqr) down to n words. It splits a into a low half L and
// a high half H and computes r = L + (2c)*H in a first pass, then folds
// the single bit that can overflow above 2^(w*n-1) back into the low limbs
// by multiplying it by c in a second pass.
func (m Prime) Red(r, a []word.Word) {
	n := m.N
	c := m.C
	d := c << 1

	var prod word.DWord
	for i := 0; i < n-1; i++ {
		prod += word.DWord(a[i+n])*word.DWord(d) + word.DWord(a[i])
		r[i] = word.Word(prod)
		prod >>= word.Bits
	}
	prod += word.DWord(a[2*n-1])*word.DWord(d) + word.DWord(a[n-1])

	msw := word.Word(prod) & (word.Word(1)<<(word.Bits-1) - 1)
	sum := word.DWord(c) * word.DWord(word.Word(prod>>(word.Bits-1)))
	for i := 0; i < n-1; i++ {
		sum += word.DWord(r[i])
		r[i] = word.Word(sum)
		sum >>= word.Bits
	}
	r[n-1] = msw + word.Word(sum)
}

// Red32 reduces a value whose high half is limited to 32 bits, as produced
// by MulSmall.
func (m Prime) Red32(r, a []word.Word) {
	n := m.N
	c := m.C
	msw := a[n-1] & (word.Word(1)<<(word.Bits-1) - 1)

	// The high half contributed by MulSmall is limited to 32 bits, i.e. it
	// spans hiLimbs = 32/Bits words plus one overflow bit in word hiLimbs.
	hiLimbs := 32 / word.Bits
	var prod word.DWord
	for i := 0; i < hiLimbs && i < n-1; i++ {
		w := (a[i+n] << 1) | (a[i+n-1] >> (word.Bits - 1))
		prod += word.DWord(w)*word.DWord(c) + word.DWord(a[i])
		r[i] = word.Word(prod)
		prod >>= word.Bits
	}
	if n > hiLimbs {
		top := a[n+hiLimbs-1] >> (word.Bits - 1)
		wmask := word.Word(0) - top
		prod += word.DWord(wmask&c) + word.DWord(a[hiLimbs])
		r[hiLimbs] = word.Word(prod)
		prod >>= word.Bits
	}
	for i := hiLimbs + 1; i < n-1; i++ {
		prod += word.DWord(a[i])
		r[i] = word.Word(prod)
		prod >>= word.Bits
	}
	r[n-1] = word.Word(prod) + msw
}

// scratch2n returns a zeroed 2n-word buffer. It is only ever used as a
// stack-local temporary inside a single call, never retained.
func (m Prime) scratch2n() []word.Word { return make([]word.Word, 2*m.N) }

// Mul computes r = a*b mod p: full schoolbook multiply into a 2n-word
// temporary, then the two-pass reduction in Red.
func (m Prime) Mul(r, a, b []word.Word) {
	t := m.scratch2n()
	word.MulFunc(t, a, b)
	m.Red(r, t)
}

// Sqr computes r = a^2 mod p.
func (m Prime) Sqr(r, a []word.Word) {
	t := m.scratch2n()
	word.SqrFunc(t, a)
	m.Red(r, t)
}

// MulSmall computes r = a*b32 mod p for a two-limb (32-bit) factor b32,
// given here as its low and high halves in the Word representation.
func (m Prime) MulSmall(r, a []word.Word, b0, b32 word.Word) {
	t := make([]word.Word, m.N+2)
	word.MulSmall(t, a, b0, b32)
	m.Red32(r, t)
}

// MulSmallInt is a convenience wrapper around MulSmall for curve constants
// that fit in a plain Go uint32, such as the Montgomery a24 parameter. It
// splits b into the low and high Word-sized halves MulSmall expects.
func (m Prime) MulSmallInt(r, a []word.Word, b uint32) {
	if word.Bits >= 32 {
		m.MulSmall(r, a, word.Word(b), 0)
	} else {
		m.MulSmall(r, a, word.Word(b), word.Word(b>>16))
	}
}

// Lnr canonicalizes a into r, the least non-negative residue in [0, p).
// It computes t = a - p branch-free by adding the two's complement of p,
// then masks in a re-add of p if that subtraction underflowed.
func (m Prime) Lnr(r, a []word.Word) {
	n := m.N
	c := m.C

	sum := word.DWord(c)
	for i := 0; i < n-1; i++ {
		sum += word.DWord(a[i])
		r[i] = word.Word(sum)
		sum >>= word.Bits
	}
	sum += word.DWord(a[n-1]) + word.DWord(word.Word(1)<<(word.Bits-1))
	r[n-1] = word.Word(sum)

	mask := word.Word(sum>>word.Bits) - 1

	sum = word.DWord(r[0]) + word.DWord((-c)&mask)
	r[0] = word.Word(sum)
	sum >>= word.Bits
	for i := 1; i < n-1; i++ {
		sum += word.DWord(r[i]) + word.DWord(mask)
		r[i] = word.Word(sum)
		sum >>= word.Bits
	}
	sum += word.DWord(r[n-1]) + word.DWord((word.Word(1)<<(word.Bits-1)-1)&mask)
	r[n-1] = word.Word(sum)
}

// Cmp reports whether a and b are congruent mod p. It canonicalizes both
// operands in place via Lnr and then OR-folds the per-limb XOR, so the
// comparison itself is constant-time; the caller should treat a and b as
// consumed (overwritten with their canonical form) by this call.
func (m Prime) Cmp(a, b []word.Word) bool {
	m.Lnr(a, a)
	m.Lnr(b, b)
	var diff word.Word
	for i := m.N - 1; i >= 0; i-- {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}

// Is0 reports whether a is exactly zero (already canonical).
func Is0(a []word.Word) bool { return word.IsZero(a) }

// Inv computes r = a^-1 mod p using binary extended Euclid, maintaining
// (u,v,x1,x2) with the invariant a*x1 = u, a*x2 = v (mod p), repeatedly
// halving whichever of u,v is even and subtracting the smaller from the
// larger otherwise. Its branch structure depends on the bit pattern of a;
// callers holding a secret must blind it first by multiplying by a fixed
// mask before calling Inv (see the mont and ted packages).
func (m Prime) Inv(r, a []word.Word) error {
	n := m.N
	ux := make([]word.Word, n)
	vx := make([]word.Word, n)
	x1 := make([]word.Word, n)
	x2 := make([]word.Word, n)

	word.Copy(ux, a)
	m.Set(vx)
	word.SetWord(x1, 1)
	word.SetWord(x2, 0)

	uvlen := n
	tmp := make([]word.Word, n)
	for word.Cmp(ux, vx) >= 0 {
		word.Sub(tmp, ux, vx)
		word.Copy(ux, tmp)
	}
	if word.IsZero(ux) {
		return ErrInversionZero
	}

	for !word.IsOne(ux[:uvlen]) && !word.IsOne(vx[:uvlen]) {
		for ux[0]&1 == 0 {
			word.Shr1(ux[:uvlen], ux[:uvlen])
			m.Hlv(x1, x1)
		}
		for vx[0]&1 == 0 {
			word.Shr1(vx[:uvlen], vx[:uvlen])
			m.Hlv(x2, x2)
		}
		if word.Cmp(ux[:uvlen], vx[:uvlen]) >= 0 {
			word.Sub(ux[:uvlen], ux[:uvlen], vx[:uvlen])
			m.Sub(x1, x1, x2)
		} else {
			word.Sub(vx[:uvlen], vx[:uvlen], ux[:uvlen])
			m.Sub(x2, x2, x1)
		}
		if ux[uvlen-1] == 0 && vx[uvlen-1] == 0 {
			uvlen--
		}
	}

	if word.IsOne(ux) {
		word.Copy(r, x1)
	} else {
		word.Copy(r, x2)
	}
	return nil
}
