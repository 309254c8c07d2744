// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package field

import (
	"math/rand"
	"testing"

	"github.com/scalarmul/eccore/internal/word"
)

// curve25519 is p = 2^255-19 for the 32-bit word kernel (n=8, c=19),
// used throughout as the test field.
var curve25519 = Prime{N: 8, C: 19}

func randomElement(r *rand.Rand) []word.Word {
	n := curve25519.N
	a := make([]word.Word, n)
	for i := range a {
		a[i] = word.Word(r.Uint32())
	}
	a[n-1] &= word.Word(1)<<(word.Bits-1) - 1
	return a
}

func canon(a []word.Word) []word.Word {
	r := make([]word.Word, len(a))
	curve25519.Lnr(r, a)
	return r
}

func eq(a, b []word.Word) bool {
	ca, cb := canon(a), canon(b)
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}

// P1: commutativity of add and mul; sub(a,b) = -sub(b,a).
func TestFieldCommutative(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	n := curve25519.N
	for i := 0; i < 200; i++ {
		a, b := randomElement(r), randomElement(r)

		ab := make([]word.Word, n)
		ba := make([]word.Word, n)
		curve25519.Add(ab, a, b)
		curve25519.Add(ba, b, a)
		if !eq(ab, ba) {
			t.Fatalf("add not commutative: a=%v b=%v", a, b)
		}

		curve25519.Mul(ab, a, b)
		curve25519.Mul(ba, b, a)
		if !eq(ab, ba) {
			t.Fatalf("mul not commutative: a=%v b=%v", a, b)
		}

		sab := make([]word.Word, n)
		sba := make([]word.Word, n)
		curve25519.Sub(sab, a, b)
		curve25519.Sub(sba, b, a)
		curve25519.Cneg(sba, sba, 1)
		if !eq(sab, sba) {
			t.Fatalf("sub(a,b) != -sub(b,a): a=%v b=%v", a, b)
		}
	}
}

// P2: lnr is idempotent and its output is in [0, p).
func TestLnrIdempotent(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	n := curve25519.N
	for i := 0; i < 200; i++ {
		a := randomElement(r)
		c1 := make([]word.Word, n)
		c2 := make([]word.Word, n)
		curve25519.Lnr(c1, a)
		curve25519.Lnr(c2, c1)
		for j := range c1 {
			if c1[j] != c2[j] {
				t.Fatalf("lnr not idempotent: a=%v", a)
			}
		}
		p := make([]word.Word, n)
		curve25519.Set(p)
		less, equal := false, true
		for j := n - 1; j >= 0; j-- {
			if c1[j] < p[j] {
				less = true
				break
			}
			if c1[j] > p[j] {
				t.Fatalf("lnr output >= p: a=%v", a)
			}
			if c1[j] != p[j] {
				equal = false
			}
		}
		if !less && equal {
			t.Fatalf("lnr output equals p: a=%v", a)
		}
	}
}

// P3: mul(a, inv(a)) = 1 for a != 0.
func TestInvCorrect(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	n := curve25519.N
	for i := 0; i < 200; i++ {
		a := randomElement(r)
		if Is0(canon(a)) {
			continue
		}
		inv := make([]word.Word, n)
		if err := curve25519.Inv(inv, a); err != nil {
			t.Fatalf("unexpected inversion error on a=%v: %v", a, err)
		}
		prod := make([]word.Word, n)
		curve25519.Mul(prod, a, inv)
		one := make([]word.Word, n)
		word.SetWord(one, 1)
		if !eq(prod, one) {
			t.Fatalf("a*inv(a) != 1: a=%v", a)
		}
	}
}

func TestInvZero(t *testing.T) {
	n := curve25519.N
	zero := make([]word.Word, n)
	out := make([]word.Word, n)
	if err := curve25519.Inv(out, zero); err != ErrInversionZero {
		t.Fatalf("Inv(0) = %v, want ErrInversionZero", err)
	}
}

// P4: cneg(a,1)+a = 0; cneg(a,0) = a.
func TestCneg(t *testing.T) {
	r := rand.New(rand.NewSource(4))
	n := curve25519.N
	for i := 0; i < 200; i++ {
		a := randomElement(r)

		neg := make([]word.Word, n)
		curve25519.Cneg(neg, a, 1)
		sum := make([]word.Word, n)
		curve25519.Add(sum, neg, a)
		if !Is0(canon(sum)) {
			t.Fatalf("cneg(a,1)+a != 0: a=%v", a)
		}

		same := make([]word.Word, n)
		curve25519.Cneg(same, a, 0)
		if !eq(same, a) {
			t.Fatalf("cneg(a,0) != a: a=%v", a)
		}
	}
}

// P5: hlv(a)+hlv(a) = a for canonical a.
func TestHlv(t *testing.T) {
	r := rand.New(rand.NewSource(5))
	n := curve25519.N
	for i := 0; i < 200; i++ {
		a := canon(randomElement(r))
		h := make([]word.Word, n)
		curve25519.Hlv(h, a)
		sum := make([]word.Word, n)
		curve25519.Add(sum, h, h)
		if !eq(sum, a) {
			t.Fatalf("hlv(a)+hlv(a) != a: a=%v", a)
		}
	}
}

func TestIsp(t *testing.T) {
	n := curve25519.N
	p := make([]word.Word, n)
	curve25519.Set(p)
	if !curve25519.Isp(p) {
		t.Fatal("Isp(p) = false")
	}
	zero := make([]word.Word, n)
	if curve25519.Isp(zero) {
		t.Fatal("Isp(0) = true")
	}
}
