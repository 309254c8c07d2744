// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package params

import "github.com/scalarmul/eccore/internal/word"

// TedToMon maps an affine twisted-Edwards point (x, y) to the affine
// x-coordinate u of its birationally equivalent Montgomery point:
// u = (1+y)/(1-y). This is the half of the map verify's Mon-routed
// k_var * P step needs before handing u to the ladder; it does not
// require x at all, since the Montgomery ladder only ever consumes an
// x-coordinate.
func (d *Domain) TedToMon(y []word.Word) []word.Word {
	n := d.Words
	one := make([]word.Word, n)
	word.SetWord(one, 1)

	num := make([]word.Word, n)
	den := make([]word.Word, n)
	d.Field.Add(num, one, y)
	d.Field.Sub(den, one, y)

	u := make([]word.Word, n)
	if err := d.Field.Inv(den, den); err != nil {
		// y = 1 is the TED neutral element (0, 1), whose image under this
		// map is the point at infinity; callers must not feed it in.
		word.SetWord(u, 0)
		return u
	}
	d.Field.Mul(u, num, den)
	return u
}

// TedToMonFull maps an affine twisted-Edwards point (x, y) to the full
// affine Montgomery point (u, v): u as in TedToMon, and
// v = sqrtNegA * u / x. Used only where the full Montgomery point (not
// just its x-coordinate) is needed, such as the round trip back through
// MonToTed.
func (d *Domain) TedToMonFull(x, y []word.Word) (u, v []word.Word) {
	n := d.Words
	u = d.TedToMon(y)
	v = make([]word.Word, n)

	xInv := make([]word.Word, n)
	if err := d.Field.Inv(xInv, x); err != nil {
		// x = 0 is the TED neutral element, whose Montgomery image is the
		// point at infinity; there is no finite affine v.
		word.SetWord(v, 0)
		return u, v
	}
	d.Field.Mul(v, u, xInv)
	d.Field.Mul(v, v, d.SqrtNegA)
	return u, v
}

// MonToTed maps an affine Montgomery point (u, v) to its birationally
// equivalent affine twisted-Edwards point (x, y):
// x = sqrtNegA * u / v, y = (u-1)/(u+1).
func (d *Domain) MonToTed(u, v []word.Word) (x, y []word.Word) {
	n := d.Words
	one := make([]word.Word, n)
	word.SetWord(one, 1)

	x = make([]word.Word, n)
	y = make([]word.Word, n)

	vInv := make([]word.Word, n)
	if err := d.Field.Inv(vInv, v); err != nil {
		// v = 0 has no twisted-Edwards image under this map.
		return x, y
	}
	d.Field.Mul(x, u, vInv)
	d.Field.Mul(x, x, d.SqrtNegA)

	num := make([]word.Word, n)
	den := make([]word.Word, n)
	d.Field.Sub(num, u, one)
	d.Field.Add(den, u, one)
	if err := d.Field.Inv(den, den); err != nil {
		word.SetWord(y, 0)
		return x, y
	}
	d.Field.Mul(y, num, den)
	return x, y
}
