// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eccore

import "github.com/scalarmul/eccore/internal/word"

// FieldBytes is the wire size of one field element / scalar for the
// default Curve25519 domain: 255 bits packed into 32 little-endian bytes,
// per RFC 7748 / RFC 8032.
const FieldBytes = 32

// encodeLE packs the n-word little-endian limb array a into a FieldBytes
// little-endian byte string, independent of word.Bits.
func encodeLE(a []word.Word) [FieldBytes]byte {
	var out [FieldBytes]byte
	bitpos := 0
	for _, w := range a {
		v := uint64(w)
		bits := word.Bits
		for bits > 0 {
			byteIdx := bitpos / 8
			shift := uint(bitpos % 8)
			if byteIdx >= FieldBytes {
				break
			}
			out[byteIdx] |= byte(v<<shift) & 0xFF
			take := 8 - int(shift)
			if take > bits {
				take = bits
			}
			v >>= uint(take)
			bitpos += take
			bits -= take
		}
	}
	return out
}

// decodeLE unpacks a FieldBytes little-endian byte string into the n-word
// limb array r, independent of word.Bits. All FieldBytes*8 bits are
// decoded, including the top bit of byte 31; a caller that needs that bit
// cleared clears it itself (as DecompressEdwards does).
func decodeLE(r []word.Word, in []byte) {
	for i := range r {
		r[i] = 0
	}
	for bitpos := 0; bitpos < FieldBytes*8 && bitpos < len(r)*word.Bits; bitpos++ {
		byteIdx := bitpos / 8
		bit := (in[byteIdx] >> uint(bitpos%8)) & 1
		if bit != 0 {
			r[bitpos/word.Bits] |= word.Word(1) << uint(bitpos%word.Bits)
		}
	}
}
