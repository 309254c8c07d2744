// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eccore is a scalable elliptic-curve core: pseudo-Mersenne field
// arithmetic over a parametric word width, a constant-time Montgomery
// ladder for Diffie-Hellman key agreement, and a twisted-Edwards
// fixed-base comb for deterministic signature-key derivation and a
// double-base scan for signature verification.
//
// The default instance is Curve25519/Edwards25519 (params.Curve25519),
// wired through the internal/word, internal/field, internal/mont and
// internal/ted packages, which implement the n-limb word kernels, the
// field layer, and the two curve models respectively. Swapping in a
// different ECDPARAM-equivalent domain (see package params) retargets
// every function in this package without any other change.
package eccore
