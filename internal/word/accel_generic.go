// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !amd64 || purego || word16

package word

// HasBMI2 is always false off the amd64/!purego/!word16 build this
// package's single BMI2 probe (accel_amd64.go) covers.
var HasBMI2 = false

// Accelerated reports whether this build is running on hardware the
// package could, in principle, install an assembly kernel for.
func Accelerated() bool { return HasBMI2 }
