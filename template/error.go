// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package template

import "errors"

var (
	// ErrNotTemplate is returned when script bytes do not exactly match
	// the canonical encoding of any supported template.
	ErrNotTemplate = errors.New("script does not match template")

	// ErrInvalidPubKey is returned when a public key is not a valid
	// encoding of a point on the curve in the form the template requires.
	ErrInvalidPubKey = errors.New("invalid public key")

	// ErrInvalidThreshold is returned when a multisig threshold is outside
	// of [1, number of keys].
	ErrInvalidThreshold = errors.New("invalid multisig threshold")

	// ErrDuplicateKey is returned when the same key appears more than once
	// in a key set.
	ErrDuplicateKey = errors.New("duplicate public key")

	// ErrUnknownScriptType is returned for script types outside of the
	// supported set.
	ErrUnknownScriptType = errors.New("unknown script type")

	// ErrUnknownLeaf is returned when a taproot leaf does not exist in a
	// wallet script tree.
	ErrUnknownLeaf = errors.New("unknown taproot leaf")
)
