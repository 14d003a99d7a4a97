// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package template

import "fmt"

// WalletScripts holds every script involved in spending a wallet output of
// a given script type.  Scripts that do not apply to the type are nil.
type WalletScripts struct {
	// ScriptType is the output encoding.
	ScriptType ScriptType

	// PubScript is the output script.
	PubScript []byte

	// RedeemScript is the script revealed in the signature script of p2sh
	// based types.
	RedeemScript []byte

	// WitnessScript is the script revealed in the witness of p2wsh based
	// types.
	WitnessScript []byte

	// Taproot is the script tree of p2tr outputs.
	Taproot *TaprootScripts
}

// NewWalletScripts returns the scripts of a 2-of-3 wallet output of the
// given multisig script type.  Use NewP2shP2pkScripts for single key outputs.
func NewWalletScripts(t ScriptType, keys KeyTriple) (*WalletScripts, error) {
	scripts := &WalletScripts{ScriptType: t}
	var err error
	switch t {
	case P2sh:
		scripts.RedeemScript, err = MultiSigScript(
			keys.Slice(), WalletThreshold,
		)
		if err != nil {
			return nil, err
		}
		scripts.PubScript, err = P2shOutput(scripts.RedeemScript)

	case P2shP2wsh:
		scripts.WitnessScript, err = MultiSigScript(
			keys.Slice(), WalletThreshold,
		)
		if err != nil {
			return nil, err
		}
		scripts.RedeemScript, err = P2wshOutput(scripts.WitnessScript)
		if err != nil {
			return nil, err
		}
		scripts.PubScript, err = P2shOutput(scripts.RedeemScript)

	case P2wsh:
		scripts.WitnessScript, err = MultiSigScript(
			keys.Slice(), WalletThreshold,
		)
		if err != nil {
			return nil, err
		}
		scripts.PubScript, err = P2wshOutput(scripts.WitnessScript)

	case P2tr:
		scripts.Taproot, err = NewTaprootScripts(keys)
		if err != nil {
			return nil, err
		}
		scripts.PubScript, err = scripts.Taproot.PubScript()

	default:
		return nil, fmt.Errorf("%w: %v is not a multisig type",
			ErrUnknownScriptType, t)
	}
	if err != nil {
		return nil, err
	}
	return scripts, nil
}

// NewP2shP2pkScripts returns the scripts of a single key p2shP2pk output.
func NewP2shP2pkScripts(key []byte) (*WalletScripts, error) {
	redeemScript, err := P2pkScript(key)
	if err != nil {
		return nil, err
	}
	pubScript, err := P2shOutput(redeemScript)
	if err != nil {
		return nil, err
	}
	return &WalletScripts{
		ScriptType:   P2shP2pk,
		PubScript:    pubScript,
		RedeemScript: redeemScript,
	}, nil
}
