// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sighash

import "errors"

var (
	// ErrMissingPrevOut is returned when a spent output needed to build a
	// digest was not supplied.  Segwit, taproot and fork-id digests need
	// the spent output of every input of the transaction.
	ErrMissingPrevOut = errors.New("missing previous output")

	// ErrInvalidHashType is returned when a signature hash type is not
	// valid for the script type on the network.
	ErrInvalidHashType = errors.New("invalid signature hash type")

	// ErrInputIndex is returned when an input index is out of range.
	ErrInputIndex = errors.New("input index out of range")

	// ErrPrevOutCount is returned when more spent outputs than inputs are
	// supplied.
	ErrPrevOutCount = errors.New("previous output count exceeds inputs")
)
