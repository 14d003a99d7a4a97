// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigscript

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of parse error.  It satisfies the error
// interface so callers can match on it with errors.Is.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrUnsupportedScript indicates the input's signature script and
	// witness do not match the encoding of any supported script type.
	ErrUnsupportedScript ErrorCode = iota

	// ErrScriptTypeInactive indicates the input uses a script type the
	// network does not support, such as a witness spend on a chain
	// without segwit.
	ErrScriptTypeInactive

	// ErrPrevOutScriptMismatch indicates the output script of the spent
	// output does not commit to the scripts revealed by the input.
	ErrPrevOutScriptMismatch

	// ErrWitnessProgramMismatch indicates the witness program revealed in
	// a p2shP2wsh signature script does not commit to the witness script.
	ErrWitnessProgramMismatch

	// ErrAnnexUnsupported indicates a taproot witness carries an annex.
	ErrAnnexUnsupported

	// ErrSlotCount indicates the number of signature slots is not valid
	// for the script.
	ErrSlotCount

	// numErrorCodes is the maximum error code number used in tests.
	numErrorCodes
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrUnsupportedScript:      "ErrUnsupportedScript",
	ErrScriptTypeInactive:     "ErrScriptTypeInactive",
	ErrPrevOutScriptMismatch:  "ErrPrevOutScriptMismatch",
	ErrWitnessProgramMismatch: "ErrWitnessProgramMismatch",
	ErrAnnexUnsupported:       "ErrAnnexUnsupported",
	ErrSlotCount:              "ErrSlotCount",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error satisfies the error interface.
func (e ErrorCode) Error() string {
	return e.String()
}

// Error identifies an input that could not be parsed.  The caller can use
// type assertions or errors.Is with an ErrorCode to determine the kind of
// failure.  Err holds the underlying cause, if any.
type Error struct {
	ErrorCode   ErrorCode
	Description string
	Err         error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Description, e.Err)
	}
	return e.Description
}

// Unwrap returns the underlying cause.
func (e Error) Unwrap() error {
	return e.Err
}

// Is reports whether the target is the error code of e.
func (e Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.ErrorCode
}

// parseError creates an Error given a set of arguments.
func parseError(c ErrorCode, cause error, format string,
	args ...interface{}) Error {

	return Error{
		ErrorCode:   c,
		Description: fmt.Sprintf(format, args...),
		Err:         cause,
	}
}

// IsErrorCode returns whether or not the provided error is a parse error
// with the provided error code.
func IsErrorCode(err error, c ErrorCode) bool {
	var e Error
	return errors.As(err, &e) && e.ErrorCode == c
}
