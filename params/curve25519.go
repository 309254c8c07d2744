// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package params bundles the field, Montgomery, and twisted-Edwards curve
// parameters for a concrete scalable-ECC instance into a single immutable
// record, mirroring the ECDPARAM tables of the reference implementation
// (see ecdparam.h: CURVE_P159, CURVE_P191, CURVE_P223, CURVE_P255,
// CURVE20791, CURVE25519).
package params

import (
	"sync"

	"github.com/scalarmul/eccore/internal/field"
	"github.com/scalarmul/eccore/internal/mont"
	"github.com/scalarmul/eccore/internal/ted"
	"github.com/scalarmul/eccore/internal/word"
)

// Domain bundles every constant a protocol-layer operation needs to work
// against one curve: the field, the Montgomery curve (a24), the twisted
// Edwards curve (d), the birational-map constants, the two curves' base
// points, and the fixed-base comb table used by sign/derive.
type Domain struct {
	Words int // n, word-count of a field element
	Bits  int // scalar bit length, n*word.Bits

	// Accelerated reports whether this process is running on hardware
	// word.MulFunc/SqrFunc could be replaced with a BMI2 kernel on; the
	// portable kernels this domain actually runs do not change based on
	// it, so it is informational only (diagnostics, benchmarking).
	Accelerated bool

	Field field.Prime
	Mon   mont.Curve
	Ted   ted.Curve

	MonBaseX  []word.Word
	TedBaseX  []word.Word
	TedBaseY  []word.Word

	// SqrtNegA is sqrt(-(A+2)/B) for B=1 curves (Curve25519-style), used
	// by the birational map from twisted Edwards to Montgomery.
	SqrtNegA []word.Word
	// SqrtM1 is a square root of -1 mod p, used by point decompression.
	SqrtM1 []word.Word

	combOnce  sync.Once
	combTable *ted.CombTable
}

func words(hex ...uint32) []word.Word {
	w := make([]word.Word, len(hex))
	for i, h := range hex {
		w[i] = word.Word(h)
	}
	return w
}

// Curve25519 returns the domain parameters for the curve
// -x^2+y^2=1+d*x^2*y^2 (Edwards25519) and its birationally equivalent
// Montgomery curve y^2=x^3+486662*x^2+x (Curve25519), built over the
// pseudo-Mersenne prime p = 2^255-19 (n=8, c=19 for the 32-bit word
// kernel). Constants are grounded on the teacher's own fe.go/ed25519.go
// values and on RFC 7748 / RFC 8032.
func Curve25519() *Domain {
	const n = 8
	fp := field.Prime{N: n, C: 19}

	d := words(0x135978A3, 0x75EB4DCA, 0x4141D8AB, 0x00700A4D, 0x7779E898, 0x8CC74079, 0x2B6FFE73, 0x52036CEE)
	sqrtm1 := words(0x4A0EA0B0, 0xC4EE1B27, 0xAD2FE478, 0x2F431806, 0x3DFBD7A7, 0x2B4D0099, 0x4FC1DF0B, 0x2B832480)
	// sqrtNegA = sqrt(-(A+2)) mod p for A = 486662, the constant the
	// Mon<->TED birational map multiplies by to recover a TED point's x
	// from a Montgomery point's (u, v).
	sqrtNegA := words(0xFF457E06, 0xCC6E04AA, 0x4B7D1A82, 0xC5A1D3D1, 0x03FC4F7E, 0xD27B08DC, 0x60A006BB, 0x0F26EDF4)

	tedBaseX := words(0x8F25D51A, 0xC9562D60, 0x9525A7B2, 0x692CC760, 0xFDD6DC5C, 0xC0A4E231, 0xCD6E53FE, 0x216936D3)
	tedBaseY := words(0x66666658, 0x66666666, 0x66666666, 0x66666666, 0x66666666, 0x66666666, 0x66666666, 0x66666666)

	// Montgomery base point u = 9.
	monBaseX := make([]word.Word, n)
	word.SetWord(monBaseX, 9)

	// Blinding mask: an arbitrary fixed odd non-zero value, public, used
	// only to decorrelate field.Inv's input-dependent control flow from
	// the secret it is inverting. Any non-zero value works; this one has
	// no special structure.
	mask := make([]word.Word, n)
	word.SetWord(mask, 0xB7E15163)

	d2 := &Domain{
		Words:       n,
		Bits:        n * word.Bits,
		Accelerated: word.Accelerated(),
		Field:       fp,
		Mon:      mont.Curve{P: fp, A24: 121666, Mask: mask},
		Ted:      ted.Curve{P: fp, D: d},
		MonBaseX: monBaseX,
		TedBaseX: tedBaseX,
		TedBaseY: tedBaseY,
		SqrtNegA: sqrtNegA,
		SqrtM1:   sqrtm1,
	}
	return d2
}

// CombTable lazily builds (and memoizes) the fixed-base comb table for
// the domain's twisted-Edwards base point. Building it touches field.Inv
// and is not constant-time, which is acceptable: the base point and the
// resulting table are both public.
func (d *Domain) CombTable() *ted.CombTable {
	d.combOnce.Do(func() {
		g := ted.NewPoint(d.Words)
		d.Ted.SetAffine(g, d.TedBaseX, d.TedBaseY)
		d.combTable = ted.BuildCombTable(d.Ted, g, d.Bits)
	})
	return d.combTable
}
