// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptclass

import "fmt"

// Class is an enumeration of the structural script forms the engine
// recognizes.  The same set of classes is used for output scripts, signature
// scripts and witness stacks.
type Class byte

// Classes of scripts known to the classifier.
const (
	NonStandardTy       Class = iota // None of the recognized forms.
	PubKeyTy                         // Pay pubkey.
	PubKeyHashTy                     // Pay pubkey hash.
	MultiSigTy                       // Multi signature.
	ScriptHashTy                     // Pay to script hash.
	WitnessPubKeyHashTy              // Pay to witness pubkey hash.
	WitnessScriptHashTy              // Pay to witness script hash.
	TaprootTy                        // Pay to taproot.
	NullDataTy                       // Empty data-only (provably prunable).
)

// classToName houses the human-readable strings which describe each class.
var classToName = []string{
	NonStandardTy:       "nonstandard",
	PubKeyTy:            "pubkey",
	PubKeyHashTy:        "pubkeyhash",
	MultiSigTy:          "multisig",
	ScriptHashTy:        "scripthash",
	WitnessPubKeyHashTy: "witnesspubkeyhash",
	WitnessScriptHashTy: "witnessscripthash",
	TaprootTy:           "taproot",
	NullDataTy:          "nulldata",
}

// String implements the Stringer interface by returning the name of the
// class.  If the class is invalid then "Invalid" will be returned.
func (c Class) String() string {
	if int(c) >= len(classToName) {
		return fmt.Sprintf("Invalid (%d)", byte(c))
	}
	return classToName[c]
}

// ParseClass returns the class with the given name.
func ParseClass(name string) (Class, error) {
	for i, s := range classToName {
		if s == name {
			return Class(i), nil
		}
	}
	return NonStandardTy, fmt.Errorf("unknown script class %q", name)
}
