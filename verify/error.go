// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import "errors"

var (
	// ErrKeySetMismatch is returned when a caller supplied key set cannot
	// be aligned with the keys of the input: it is empty, holds more keys
	// than the wallet key set of the script type or holds duplicates.
	ErrKeySetMismatch = errors.New("public key set does not match script")

	// ErrNotECDSA is returned when a high-S mutation is requested for a
	// signature that is not an ECDSA signature.
	ErrNotECDSA = errors.New("not an ECDSA signature")

	// ErrHighS is returned when a high-S mutation is requested for a
	// signature whose S value is already above the half order.
	ErrHighS = errors.New("signature S value is already high")

	// ErrSlotIndex is returned when a signature slot does not exist or
	// holds no signature.
	ErrSlotIndex = errors.New("no signature at slot")
)
