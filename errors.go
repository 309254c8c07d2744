// Copyright (c) 2019 George Tankersley. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eccore

// Code is a bit-orable status code returned alongside the error values in
// this package, mirroring the reference implementation's packed
// int-valued error codes so a caller that wants a single integer (for FFI
// or logging) can still get one.
type Code uint

const (
	// NoError indicates success.
	NoError Code = 0
	// InversionZero indicates a field.Inv call was asked to invert zero.
	InversionZero Code = 1
	// InvalidPoint indicates a point failed curve validation or the
	// low-order check.
	InvalidPoint Code = 2
	// InvalidScalar indicates a scalar was zero, or otherwise out of the
	// range an operation requires.
	InvalidScalar Code = 4
)

// Error wraps one of the Code values with a human-readable message. The
// operations in this package return *Error so a caller can switch on Code
// without string-matching, while %v/Error() still gives a readable
// message for logs.
type Error struct {
	Code Code
	msg  string
}

func (e *Error) Error() string { return "eccore: " + e.msg }

func newError(c Code, msg string) *Error { return &Error{Code: c, msg: msg} }
