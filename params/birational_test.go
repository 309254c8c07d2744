// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import (
	"testing"

	"github.com/scalarmul/eccore/internal/word"
)

// eqMod reports whether a and b are congruent mod p, canonicalizing both
// through local copies so the field ops' incompletely-reduced [0, 2p)
// outputs compare correctly.
func eqMod(d *Domain, a, b []word.Word) bool {
	n := d.Words
	ca, cb := make([]word.Word, n), make([]word.Word, n)
	d.Field.Lnr(ca, a)
	d.Field.Lnr(cb, b)
	for i := range ca {
		if ca[i] != cb[i] {
			return false
		}
	}
	return true
}

// TestBirationalRoundTrip checks mon_to_ted(ted_to_mon(P)) = P for the
// twisted-Edwards base point, the property named explicitly by the
// reference specification's Mon<->TED round-trip requirement.
func TestBirationalRoundTrip(t *testing.T) {
	d := Curve25519()

	u, v := d.TedToMonFull(d.TedBaseX, d.TedBaseY)
	x2, y2 := d.MonToTed(u, v)

	if !eqMod(d, x2, d.TedBaseX) || !eqMod(d, y2, d.TedBaseY) {
		t.Fatalf("round trip mismatch: got (%v, %v), want (%v, %v)", x2, y2, d.TedBaseX, d.TedBaseY)
	}
}

// TestTedToMonMatchesMontgomeryBasePoint checks that mapping the twisted
// Edwards base point to Montgomery coordinates recovers u = 9, the
// well-known Curve25519 base point.
func TestTedToMonMatchesMontgomeryBasePoint(t *testing.T) {
	d := Curve25519()
	u := d.TedToMon(d.TedBaseY)
	if !eqMod(d, u, d.MonBaseX) {
		t.Fatalf("TedToMon(base) = %v, want %v", u, d.MonBaseX)
	}
}
