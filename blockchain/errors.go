// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2024 The Flokicoin developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import "fmt"

// AssertError identifies an error that indicates an internal code
// consistency issue and should therefore be treated as a critical error.
type AssertError string

// Error returns the assertion error as a human-readable string, which
// satisfies the error interface.
func (e AssertError) Error() string {
	return "assertion failed: " + string(e)
}

// MissingHeaderErr indicates a requested height has no header in this
// chain or any of its ancestors.
type MissingHeaderErr struct {
	Height int32
}

func (e *MissingHeaderErr) Error() string {
	return fmt.Sprintf("no header at height %d", e.Height)
}

// MissingHeaderError constructs a MissingHeaderErr for the given height.
func MissingHeaderError(height int32) error {
	return &MissingHeaderErr{Height: height}
}

// InvalidHeaderErr indicates a header failed structural validation: wrong
// byte length, unexpected trailing bytes, or a malformed AuxPoW payload.
type InvalidHeaderErr struct {
	Reason string
}

func (e *InvalidHeaderErr) Error() string {
	return "invalid header: " + e.Reason
}

// InvalidHeaderError constructs an InvalidHeaderErr from a format string.
func InvalidHeaderError(format string, args ...interface{}) error {
	return &InvalidHeaderErr{Reason: fmt.Sprintf(format, args...)}
}

// VerifyErr indicates a structurally sound header failed a consensus
// check: hash mismatch, prev-hash mismatch, bits/target mismatch, or
// insufficient proof of work.
type VerifyErr struct {
	Reason string
}

func (e *VerifyErr) Error() string {
	return "header verification failed: " + e.Reason
}

// VerifyError constructs a VerifyErr from a format string.
func VerifyError(format string, args ...interface{}) error {
	return &VerifyErr{Reason: fmt.Sprintf(format, args...)}
}

// IoErr wraps a disk read/write failure. It is treated as fatal at
// runtime; only the bootstrap path recovers from it by deleting the
// offending file.
type IoErr struct {
	Op  string
	Err error
}

func (e *IoErr) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *IoErr) Unwrap() error { return e.Err }

// IoError wraps err as an IoErr describing the operation op that failed.
func IoError(op string, err error) error {
	return &IoErr{Op: op, Err: err}
}
