// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package word

import "testing"

func TestAddSubRoundTrip(t *testing.T) {
	n := 8
	a := make([]Word, n)
	b := make([]Word, n)
	for i := range a {
		a[i] = Word(0xDEADBEEF + uint32(i))
		b[i] = Word(0x12345678 + uint32(i)*7)
	}

	sum := make([]Word, n)
	Add(sum, a, b)

	back := make([]Word, n)
	Sub(back, sum, b)

	for i := range back {
		if back[i] != a[i] {
			t.Fatalf("(a+b)-b != a at word %d: got %#x want %#x", i, back[i], a[i])
		}
	}
}

func TestMulMatchesSqr(t *testing.T) {
	n := 4
	a := []Word{1, 2, 3, 4}
	viaMul := make([]Word, 2*n)
	Mul(viaMul, a, a)
	viaSqr := make([]Word, 2*n)
	Sqr(viaSqr, a)

	for i := range viaMul {
		if viaMul[i] != viaSqr[i] {
			t.Fatalf("Mul(a,a) != Sqr(a) at word %d: got %#x want %#x", i, viaSqr[i], viaMul[i])
		}
	}
}

func TestShr1(t *testing.T) {
	a := []Word{0x00000001, 0x00000001}
	r := make([]Word, 2)
	lsb := Shr1(r, a)
	if lsb != 1 {
		t.Fatalf("lsb = %d, want 1", lsb)
	}
	if r[0] != 0x80000000 || r[1] != 0 {
		t.Fatalf("Shr1 result = %#x %#x", r[0], r[1])
	}
}

func TestIsZeroIsOne(t *testing.T) {
	zero := make([]Word, 4)
	if !IsZero(zero) {
		t.Fatal("IsZero(0) = false")
	}
	if IsOne(zero) {
		t.Fatal("IsOne(0) = true")
	}

	one := make([]Word, 4)
	SetWord(one, 1)
	if IsZero(one) {
		t.Fatal("IsZero(1) = true")
	}
	if !IsOne(one) {
		t.Fatal("IsOne(1) = false")
	}
}

func TestCmp(t *testing.T) {
	a := []Word{1, 0, 0, 0}
	b := []Word{2, 0, 0, 0}
	if Cmp(a, b) >= 0 {
		t.Fatal("Cmp(1,2) should be negative")
	}
	if Cmp(b, a) <= 0 {
		t.Fatal("Cmp(2,1) should be positive")
	}
	if Cmp(a, a) != 0 {
		t.Fatal("Cmp(a,a) should be zero")
	}
}

// TestAcceleratedMatchesHasBMI2 exercises the word.Accelerated() query
// that params.Domain surfaces as Domain.Accelerated, and confirms
// MulFunc/SqrFunc still agree with the portable kernels regardless of
// what it reports (no BMI2 kernel is installed in this build).
func TestAcceleratedMatchesHasBMI2(t *testing.T) {
	if Accelerated() != HasBMI2 {
		t.Fatalf("Accelerated() = %v, want HasBMI2 = %v", Accelerated(), HasBMI2)
	}

	n := 4
	a := []Word{1, 2, 3, 4}
	viaFunc := make([]Word, 2*n)
	MulFunc(viaFunc, a, a)
	viaMul := make([]Word, 2*n)
	Mul(viaMul, a, a)
	for i := range viaFunc {
		if viaFunc[i] != viaMul[i] {
			t.Fatalf("MulFunc diverges from Mul at word %d: got %#x want %#x", i, viaFunc[i], viaMul[i])
		}
	}
}

func TestMulSmall(t *testing.T) {
	n := 4
	a := []Word{1, 1, 1, 1}
	r := make([]Word, n+2)
	MulSmall(r, a, 2, 0)
	want := []Word{2, 2, 2, 2, 0, 0}
	for i := range want {
		if r[i] != want[i] {
			t.Fatalf("MulSmall word %d = %#x, want %#x", i, r[i], want[i])
		}
	}
}
