// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package template

import (
	"fmt"

	"github.com/btcsuite/btcmultisig/network"
)

// ScriptType identifies one of the wallet output encodings understood by the
// engine.  The set is closed; every switch over a ScriptType in this module
// is exhaustive.
type ScriptType uint8

const (
	// P2shP2pk is a single key pay-to-pubkey script wrapped in p2sh.  It is
	// used by recovery outputs.
	P2shP2pk ScriptType = iota

	// P2sh is a 2-of-3 multisig redeem script wrapped in p2sh.
	P2sh

	// P2shP2wsh is a 2-of-3 multisig witness script wrapped in a p2wsh
	// program which is itself wrapped in p2sh.
	P2shP2wsh

	// P2wsh is a 2-of-3 multisig witness script in a native p2wsh output.
	P2wsh

	// P2tr is a taproot output whose script tree holds one 2-of-2 tapscript
	// leaf per pair of wallet keys.
	P2tr

	numScriptTypes
)

// scriptTypeStrings houses the canonical names of each script type.
var scriptTypeStrings = [numScriptTypes]string{
	P2shP2pk:  "p2shP2pk",
	P2sh:      "p2sh",
	P2shP2wsh: "p2shP2wsh",
	P2wsh:     "p2wsh",
	P2tr:      "p2tr",
}

// String returns the canonical name of the script type.
func (t ScriptType) String() string {
	if t >= numScriptTypes {
		return fmt.Sprintf("Unknown ScriptType (%d)", uint8(t))
	}
	return scriptTypeStrings[t]
}

// ParseScriptType returns the script type with the given canonical name.
func ParseScriptType(name string) (ScriptType, error) {
	for i, s := range scriptTypeStrings {
		if s == name {
			return ScriptType(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownScriptType, name)
}

// AllScriptTypes returns every script type in declaration order.
func AllScriptTypes() []ScriptType {
	types := make([]ScriptType, 0, numScriptTypes)
	for t := P2shP2pk; t < numScriptTypes; t++ {
		types = append(types, t)
	}
	return types
}

// KeyCount returns the number of wallet keys committed to by the script
// type.
func (t ScriptType) KeyCount() int {
	if t == P2shP2pk {
		return 1
	}
	return WalletKeyCount
}

// Threshold returns the number of signatures needed to spend the script
// type.
func (t ScriptType) Threshold() int {
	if t == P2shP2pk {
		return 1
	}
	return WalletThreshold
}

// SlotCount returns the number of signature slots a partially signed input
// of the script type carries.  Taproot script path spends carry one slot per
// key of the spent leaf.
func (t ScriptType) SlotCount() int {
	switch t {
	case P2shP2pk:
		return 1
	case P2tr:
		return TapscriptKeyCount
	}
	return WalletKeyCount
}

// IsSegwit returns whether inputs of the script type commit to the BIP143
// signature hash.
func (t ScriptType) IsSegwit() bool {
	return t == P2shP2wsh || t == P2wsh
}

// IsTaproot returns whether inputs of the script type commit to the BIP341
// signature hash.
func (t ScriptType) IsTaproot() bool {
	return t == P2tr
}

// IsSupported returns whether outputs of the script type can be spent on the
// network.
func IsSupported(net *network.Network, t ScriptType) bool {
	switch t {
	case P2shP2pk, P2sh:
		return true
	case P2shP2wsh, P2wsh:
		return net.SegwitActive
	case P2tr:
		return net.TaprootActive
	}
	return false
}
