// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package template

import (
	"bytes"
	"crypto/sha256"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcmultisig/scriptclass"
)

// MultiSigScript returns a script for a multisig redemption requiring
// threshold of the passed keys.  The keys must be distinct compressed public
// keys and appear in the script in the order given.
func MultiSigScript(keys [][]byte, threshold int) ([]byte, error) {
	if len(keys) == 0 || len(keys) > maxMultiSigKeys {
		return nil, fmt.Errorf("%w: %d keys", ErrInvalidThreshold,
			len(keys))
	}
	if threshold < 1 || threshold > len(keys) {
		return nil, fmt.Errorf("%w: %d of %d", ErrInvalidThreshold,
			threshold, len(keys))
	}
	if err := validateKeys(keys); err != nil {
		return nil, err
	}

	builder := txscript.NewScriptBuilder().AddInt64(int64(threshold))
	for _, key := range keys {
		builder.AddData(key)
	}
	builder.AddInt64(int64(len(keys)))
	builder.AddOp(txscript.OP_CHECKMULTISIG)
	return builder.Script()
}

// ParseMultiSigScript decompiles a multisig script produced by
// MultiSigScript back into its keys and threshold.  Scripts which are valid
// multisig scripts but differ in any byte from the canonical encoding, such
// as those using uncompressed keys or non-minimal pushes, are rejected with
// ErrNotTemplate.
func ParseMultiSigScript(script []byte) ([][]byte, int, error) {
	threshold, keys, ok := scriptclass.ExtractMultiSig(script)
	if !ok {
		return nil, 0, ErrNotTemplate
	}
	canonical, err := MultiSigScript(keys, threshold)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", ErrNotTemplate, err)
	}
	if !bytes.Equal(canonical, script) {
		return nil, 0, fmt.Errorf("%w: non-canonical multisig encoding",
			ErrNotTemplate)
	}

	// Copy the keys so callers never alias the script.
	out := make([][]byte, len(keys))
	for i, key := range keys {
		out[i] = append([]byte(nil), key...)
	}
	return out, threshold, nil
}

// P2pkScript returns a pay-to-pubkey script for the compressed key.
func P2pkScript(key []byte) ([]byte, error) {
	if err := checkCompressedPubKey(key); err != nil {
		return nil, err
	}
	return txscript.NewScriptBuilder().AddData(key).
		AddOp(txscript.OP_CHECKSIG).Script()
}

// ParseP2pkScript decompiles a script produced by P2pkScript back into its
// key.
func ParseP2pkScript(script []byte) ([]byte, error) {
	if len(script) != btcec.PubKeyBytesLenCompressed+2 ||
		script[0] != txscript.OP_DATA_33 ||
		script[len(script)-1] != txscript.OP_CHECKSIG {

		return nil, ErrNotTemplate
	}
	key := append([]byte(nil), script[1:len(script)-1]...)
	if err := checkCompressedPubKey(key); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotTemplate, err)
	}
	return key, nil
}

// tapscriptMultiSigLen is the length of a 2-of-2 tapscript leaf:
//
//	OP_DATA_32 <k1> OP_CHECKSIGVERIFY OP_DATA_32 <k2> OP_CHECKSIG
const tapscriptMultiSigLen = 2*(1+32) + 2

// TapscriptMultiSig returns the 2-of-2 leaf script
//
//	<k1> OP_CHECKSIGVERIFY <k2> OP_CHECKSIG
//
// for the passed keys.  Keys may be given compressed or x-only and are
// committed to in x-only form.
func TapscriptMultiSig(keys [TapscriptKeyCount][]byte) ([]byte, error) {
	k1, k2 := XOnly(keys[0]), XOnly(keys[1])
	for i, key := range [][]byte{k1, k2} {
		if err := checkXOnlyPubKey(key); err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
	}
	if bytes.Equal(k1, k2) {
		return nil, ErrDuplicateKey
	}
	return txscript.NewScriptBuilder().
		AddData(k1).AddOp(txscript.OP_CHECKSIGVERIFY).
		AddData(k2).AddOp(txscript.OP_CHECKSIG).
		Script()
}

// ParseTapscriptMultiSig decompiles a leaf script produced by
// TapscriptMultiSig back into its x-only keys in script order.
func ParseTapscriptMultiSig(script []byte) ([TapscriptKeyCount][]byte, error) {
	var keys [TapscriptKeyCount][]byte
	if len(script) != tapscriptMultiSigLen ||
		script[0] != txscript.OP_DATA_32 ||
		script[33] != txscript.OP_CHECKSIGVERIFY ||
		script[34] != txscript.OP_DATA_32 ||
		script[67] != txscript.OP_CHECKSIG {

		return keys, ErrNotTemplate
	}
	keys[0] = append([]byte(nil), script[1:33]...)
	keys[1] = append([]byte(nil), script[35:67]...)
	for i, key := range keys {
		if err := checkXOnlyPubKey(key); err != nil {
			return keys, fmt.Errorf("%w: key %d: %v", ErrNotTemplate,
				i, err)
		}
	}
	if bytes.Equal(keys[0], keys[1]) {
		return keys, fmt.Errorf("%w: %v", ErrNotTemplate,
			ErrDuplicateKey)
	}
	return keys, nil
}

// P2shOutput returns the pay-to-script-hash output script committing to the
// redeem script.
func P2shOutput(redeemScript []byte) ([]byte, error) {
	return txscript.NewScriptBuilder().AddOp(txscript.OP_HASH160).
		AddData(btcutil.Hash160(redeemScript)).
		AddOp(txscript.OP_EQUAL).Script()
}

// P2wshOutput returns the version 0 witness program committing to the
// witness script.  The same bytes serve as the redeem script of a p2shP2wsh
// output.
func P2wshOutput(witnessScript []byte) ([]byte, error) {
	hash := sha256.Sum256(witnessScript)
	return txscript.NewScriptBuilder().AddOp(txscript.OP_0).
		AddData(hash[:]).Script()
}

// P2trOutput returns the version 1 witness program paying to the taproot
// output key.
func P2trOutput(outputKey *btcec.PublicKey) ([]byte, error) {
	return txscript.PayToTaprootScript(outputKey)
}
