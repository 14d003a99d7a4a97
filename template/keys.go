// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package template

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

const (
	// WalletKeyCount is the number of keys in a wallet key triple.
	WalletKeyCount = 3

	// WalletThreshold is the number of signatures needed to spend a
	// wallet multisig output.
	WalletThreshold = 2

	// TapscriptKeyCount is the number of keys in a taproot leaf script.
	TapscriptKeyCount = 2

	// maxMultiSigKeys is the largest key count allowed by
	// OP_CHECKMULTISIG.
	maxMultiSigKeys = 16
)

// KeyRole identifies the position of a key within a wallet key triple.
type KeyRole uint8

const (
	// KeyUser is the key held by the wallet owner.
	KeyUser KeyRole = iota

	// KeyBackup is the offline recovery key.
	KeyBackup

	// KeyBitGo is the key held by the co-signing service.
	KeyBitGo
)

var keyRoleStrings = [WalletKeyCount]string{
	KeyUser:   "user",
	KeyBackup: "backup",
	KeyBitGo:  "bitgo",
}

// String returns the role name.
func (r KeyRole) String() string {
	if int(r) >= len(keyRoleStrings) {
		return fmt.Sprintf("Unknown KeyRole (%d)", uint8(r))
	}
	return keyRoleStrings[r]
}

// KeyTriple holds the compressed public keys of a wallet indexed by
// KeyRole.  The order is the order the keys appear in multisig scripts.
type KeyTriple [WalletKeyCount][]byte

// Slice returns the keys as a slice in role order.
func (k KeyTriple) Slice() [][]byte {
	return [][]byte{k[KeyUser], k[KeyBackup], k[KeyBitGo]}
}

// Validate ensures all keys are valid, distinct compressed public keys.
func (k KeyTriple) Validate() error {
	return validateKeys(k.Slice())
}

// checkCompressedPubKey ensures the key is a 33 byte compressed encoding of
// a point on the curve.
func checkCompressedPubKey(key []byte) error {
	if len(key) != btcec.PubKeyBytesLenCompressed {
		return fmt.Errorf("%w: length %d", ErrInvalidPubKey, len(key))
	}
	if _, err := btcec.ParsePubKey(key); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPubKey, err)
	}
	return nil
}

// checkXOnlyPubKey ensures the key is a 32 byte BIP340 encoding of a point
// on the curve.
func checkXOnlyPubKey(key []byte) error {
	if len(key) != schnorr.PubKeyBytesLen {
		return fmt.Errorf("%w: x-only length %d", ErrInvalidPubKey,
			len(key))
	}
	if _, err := schnorr.ParsePubKey(key); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPubKey, err)
	}
	return nil
}

// validateKeys ensures the keys are valid, distinct compressed public keys.
func validateKeys(keys [][]byte) error {
	for i, key := range keys {
		if err := checkCompressedPubKey(key); err != nil {
			return fmt.Errorf("key %d: %w", i, err)
		}
		for j := 0; j < i; j++ {
			if bytes.Equal(keys[j], key) {
				return fmt.Errorf("%w: keys %d and %d",
					ErrDuplicateKey, j, i)
			}
		}
	}
	return nil
}

// XOnly returns the BIP340 x-only encoding of a compressed public key.  Keys
// that are already x-only are returned unchanged.
func XOnly(key []byte) []byte {
	if len(key) == btcec.PubKeyBytesLenCompressed {
		return key[1:]
	}
	return key
}

// KeysMatch returns whether two public keys refer to the same point when
// compared the way taproot compares them.  A compressed key matches an
// x-only key with the same x coordinate.
func KeysMatch(a, b []byte) bool {
	if len(a) == len(b) {
		return bytes.Equal(a, b)
	}
	return bytes.Equal(XOnly(a), XOnly(b))
}
