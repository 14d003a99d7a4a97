// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sighash

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcmultisig/network"
	"github.com/btcsuite/btcmultisig/template"
)

const (
	// SigHashForkID is the replay protection flag required by fork-id
	// networks.
	SigHashForkID txscript.SigHashType = 0x40

	// sigHashMask masks off the modifier bits of a hash type.
	sigHashMask = 0x1f
)

// DefaultHashType returns the hash type wallets sign inputs of the script
// type with on the network.
func DefaultHashType(net *network.Network, t template.ScriptType) txscript.SigHashType {
	switch {
	case t.IsTaproot():
		return txscript.SigHashDefault
	case net != nil && net.UsesForkID:
		return txscript.SigHashAll | SigHashForkID
	}
	return txscript.SigHashAll
}

// ValidateHashType ensures the hash type may be used to sign an input of the
// script type on the network.
func ValidateHashType(net *network.Network, t template.ScriptType,
	hashType txscript.SigHashType) error {

	if t.IsTaproot() {
		switch hashType {
		case txscript.SigHashDefault, txscript.SigHashAll,
			txscript.SigHashNone, txscript.SigHashSingle,
			txscript.SigHashAll | txscript.SigHashAnyOneCanPay,
			txscript.SigHashNone | txscript.SigHashAnyOneCanPay,
			txscript.SigHashSingle | txscript.SigHashAnyOneCanPay:

			return nil
		}
		return fmt.Errorf("%w: %#x for taproot", ErrInvalidHashType,
			uint32(hashType))
	}

	if hashType > 0xff {
		return fmt.Errorf("%w: %#x", ErrInvalidHashType, uint32(hashType))
	}
	base := hashType & sigHashMask
	if base < txscript.SigHashAll || base > txscript.SigHashSingle ||
		hashType&^(sigHashMask|SigHashForkID|txscript.SigHashAnyOneCanPay) != 0 {

		return fmt.Errorf("%w: %#x", ErrInvalidHashType, uint32(hashType))
	}

	forkID := hashType&SigHashForkID != 0
	usesForkID := net != nil && net.UsesForkID
	switch {
	case usesForkID && !forkID:
		return fmt.Errorf("%w: %#x lacks SIGHASH_FORKID on %v",
			ErrInvalidHashType, uint32(hashType), net)
	case !usesForkID && forkID:
		return fmt.Errorf("%w: %#x sets SIGHASH_FORKID",
			ErrInvalidHashType, uint32(hashType))
	}
	return nil
}
