// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eccore

import "github.com/scalarmul/eccore/internal/word"

// PruneScalar applies the Curve25519 clamping convention (RFC 7748 §5) to
// a raw 32-byte scalar in place: the low 3 bits of the first byte are
// cleared so the scalar is a multiple of the curve's cofactor 8, and the
// high bit of the last byte is cleared while the second-highest bit is
// set so the scalar's bit length is fixed at 255 and the Montgomery
// ladder's leading-bit assumption holds.
func PruneScalar(b *[FieldBytes]byte) {
	b[0] &= 248
	b[31] &= 127
	b[31] |= 64
}

// decodeScalar unpacks a pruned 32-byte scalar into the domain's n-word
// limb representation, for feeding into the ladder/comb routines.
func decodeScalar(n int, b [FieldBytes]byte) []word.Word {
	r := make([]word.Word, n)
	decodeLE(r, b[:])
	return r
}
