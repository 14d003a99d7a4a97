// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigscript

import (
	"encoding/hex"
	"fmt"
)

// SlotState is the kind of value held by a SignatureSlot.
type SlotState uint8

const (
	// SlotAbsent marks a key that did not contribute a signature to a
	// finalized input.
	SlotAbsent SlotState = iota

	// SlotPlaceholder marks a slot that is reserved for a signature which
	// has not been added yet.
	SlotPlaceholder

	// SlotSignature marks a slot holding signature bytes.
	SlotSignature
)

var slotStateStrings = map[SlotState]string{
	SlotAbsent:      "absent",
	SlotPlaceholder: "placeholder",
	SlotSignature:   "signature",
}

// String returns the state name.
func (s SlotState) String() string {
	if str, ok := slotStateStrings[s]; ok {
		return str
	}
	return fmt.Sprintf("Unknown SlotState (%d)", uint8(s))
}

// SignatureSlot is a single signature position of an input.  Only slots in
// the SlotSignature state carry bytes.  The bytes are whatever the input
// holds and may be malformed.
type SignatureSlot struct {
	State SlotState
	Sig   []byte
}

// Signature returns a slot holding the signature bytes.  Empty bytes yield a
// placeholder since an empty push is never a signature.
func Signature(sig []byte) SignatureSlot {
	if len(sig) == 0 {
		return Placeholder()
	}
	return SignatureSlot{State: SlotSignature, Sig: sig}
}

// Placeholder returns an unfilled slot.
func Placeholder() SignatureSlot {
	return SignatureSlot{State: SlotPlaceholder}
}

// Absent returns a slot for a key that did not sign.
func Absent() SignatureSlot {
	return SignatureSlot{State: SlotAbsent}
}

// IsSignature returns whether the slot holds signature bytes.
func (s SignatureSlot) IsSignature() bool {
	return s.State == SlotSignature
}

// IsPlaceholder returns whether the slot is unfilled.
func (s SignatureSlot) IsPlaceholder() bool {
	return s.State == SlotPlaceholder
}

// String returns the slot state along with the signature in hex.
func (s SignatureSlot) String() string {
	if s.State == SlotSignature {
		return hex.EncodeToString(s.Sig)
	}
	return s.State.String()
}
