// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build amd64 && !purego && !word16

package word

import "golang.org/x/sys/cpu"

// HasBMI2 reports whether the host supports the BMI2 instruction set
// extension. The portable kernels in this package never branch on it, but
// it is exported so that an architecture-specific accelerator built
// against the same (pointer, length) ABI as Mul/Sqr/MulSmall can decide at
// init time whether to install itself into MulFunc/SqrFunc in place of the
// portable Go kernel. No such accelerator ships with this package:
// hand-written assembly is explicitly out of scope for this core, and
// MulFunc/SqrFunc are left pointing at the portable implementations.
var HasBMI2 = cpu.X86.HasBMI2

// Accelerated reports whether this build is running on hardware the
// package could, in principle, install an assembly kernel for. Callers
// use it only to annotate which code path produced a result (see
// params.Domain.Accelerated); it never changes MulFunc/SqrFunc itself.
func Accelerated() bool { return HasBMI2 }
