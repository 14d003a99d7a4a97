// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptclass

import (
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
)

const (
	// scriptVersion is the only script version understood by the
	// classifier.
	scriptVersion = 0

	// maxPubKeysPerMultiSig is the maximum number of public keys allowed
	// in a bare multisig script.
	maxPubKeysPerMultiSig = 16

	// taprootAnnexTag is the first byte of an optional annex on a taproot
	// witness stack.
	taprootAnnexTag = 0x50

	// controlBlockBaseSize is the size of a control block without any
	// merkle path elements.
	controlBlockBaseSize = 33

	// controlBlockNodeSize is the size of a single merkle path element.
	controlBlockNodeSize = 32

	// controlBlockMaxNodeCount is the maximum depth of a tapscript tree.
	controlBlockMaxNodeCount = 128

	// taprootLeafMask masks off the output key parity bit of the first
	// control block byte.
	taprootLeafMask = 0xfe
)

// isSmallInt returns whether or not the opcode is considered a small integer,
// which is an OP_0, or OP_1 through OP_16.
func isSmallInt(op byte) bool {
	return op == txscript.OP_0 || (op >= txscript.OP_1 && op <= txscript.OP_16)
}

// asSmallInt returns the passed opcode, which must be true according to
// isSmallInt(), as an integer.
func asSmallInt(op byte) int {
	if op == txscript.OP_0 {
		return 0
	}
	return int(op - (txscript.OP_1 - 1))
}

// IsPubKeyEncoding returns whether or not the passed public key adheres to
// the strict compressed or uncompressed encoding requirements.
func IsPubKeyEncoding(pubKey []byte) bool {
	switch len(pubKey) {
	case 33:
		return pubKey[0] == 0x02 || pubKey[0] == 0x03
	case 65:
		return pubKey[0] == 0x04
	}
	return false
}

// IsCompressedPubKey returns whether the public key is a 33 byte compressed
// encoding.
func IsCompressedPubKey(pubKey []byte) bool {
	return len(pubKey) == 33 && IsPubKeyEncoding(pubKey)
}

// Pushes decodes a push-only script into the data it pushes.  OP_0 decodes
// to an empty, non-nil slice and the small integer opcodes decode to their
// minimal numeric encoding.  The second return value is false when the
// script contains any non-push opcode or fails to parse.
func Pushes(script []byte) ([][]byte, bool) {
	items := make([][]byte, 0, 4)
	tokenizer := txscript.MakeScriptTokenizer(scriptVersion, script)
	for tokenizer.Next() {
		op := tokenizer.Opcode()
		switch {
		case op == txscript.OP_0:
			items = append(items, []byte{})
		case op >= txscript.OP_DATA_1 && op <= txscript.OP_PUSHDATA4:
			data := tokenizer.Data()
			if data == nil {
				data = []byte{}
			}
			items = append(items, data)
		case op == txscript.OP_1NEGATE:
			items = append(items, []byte{0x81})
		case op >= txscript.OP_1 && op <= txscript.OP_16:
			items = append(items, []byte{byte(asSmallInt(op))})
		default:
			return nil, false
		}
	}
	if tokenizer.Err() != nil {
		return nil, false
	}
	return items, true
}

// isPubKeyScript returns whether the script is a pay-to-pubkey script.
func isPubKeyScript(script []byte) bool {
	switch len(script) {
	case 35:
		return script[0] == txscript.OP_DATA_33 &&
			script[34] == txscript.OP_CHECKSIG &&
			IsPubKeyEncoding(script[1:34])
	case 67:
		return script[0] == txscript.OP_DATA_65 &&
			script[66] == txscript.OP_CHECKSIG &&
			IsPubKeyEncoding(script[1:66])
	}
	return false
}

// isPubKeyHashScript returns whether the script is a standard pay-to-pubkey
// hash script of the form:
//
//	OP_DUP OP_HASH160 <20-byte hash> OP_EQUALVERIFY OP_CHECKSIG
func isPubKeyHashScript(script []byte) bool {
	return len(script) == 25 &&
		script[0] == txscript.OP_DUP &&
		script[1] == txscript.OP_HASH160 &&
		script[2] == txscript.OP_DATA_20 &&
		script[23] == txscript.OP_EQUALVERIFY &&
		script[24] == txscript.OP_CHECKSIG
}

// isScriptHashScript returns whether the script is a standard pay-to-script
// hash script of the form:
//
//	OP_HASH160 <20-byte scripthash> OP_EQUAL
func isScriptHashScript(script []byte) bool {
	return len(script) == 23 &&
		script[0] == txscript.OP_HASH160 &&
		script[1] == txscript.OP_DATA_20 &&
		script[22] == txscript.OP_EQUAL
}

// isWitnessPubKeyHashScript returns whether the script is a version 0
// witness program committing to a public key hash.
func isWitnessPubKeyHashScript(script []byte) bool {
	return len(script) == 22 &&
		script[0] == txscript.OP_0 &&
		script[1] == txscript.OP_DATA_20
}

// isWitnessScriptHashScript returns whether the script is a version 0
// witness program committing to a script hash.
func isWitnessScriptHashScript(script []byte) bool {
	return len(script) == 34 &&
		script[0] == txscript.OP_0 &&
		script[1] == txscript.OP_DATA_32
}

// isTaprootScript returns whether the script is a version 1 witness program
// committing to a taproot output key.
func isTaprootScript(script []byte) bool {
	return len(script) == 34 &&
		script[0] == txscript.OP_1 &&
		script[1] == txscript.OP_DATA_32
}

// isNullDataScript returns whether the script is an OP_RETURN followed only by
// data pushes.
func isNullDataScript(script []byte) bool {
	if len(script) == 0 || script[0] != txscript.OP_RETURN {
		return false
	}
	_, ok := Pushes(script[1:])
	return ok
}

// ExtractMultiSig attempts to decode a bare multisig script of the form
//
//	NUM_SIGS PUBKEY PUBKEY PUBKEY ... NUM_PUBKEYS OP_CHECKMULTISIG
//
// returning the number of required signatures and the public keys in script
// order.  The final return value is false if the script is not a multisig
// script.
func ExtractMultiSig(script []byte) (int, [][]byte, bool) {
	// The script can't possibly be a multisig script if it doesn't end with
	// OP_CHECKMULTISIG or have at least two small integer pushes preceding
	// it.  Fail fast to avoid more work below.
	if len(script) < 3 || script[len(script)-1] != txscript.OP_CHECKMULTISIG {
		return 0, nil, false
	}

	// The first opcode must be a small integer specifying the number of
	// signatures required.
	tokenizer := txscript.MakeScriptTokenizer(scriptVersion, script)
	if !tokenizer.Next() || !isSmallInt(tokenizer.Opcode()) {
		return 0, nil, false
	}
	requiredSigs := asSmallInt(tokenizer.Opcode())

	// The next series of opcodes must either push public keys or be a
	// small integer specifying the number of public keys.
	var pubKeys [][]byte
	for tokenizer.Next() {
		data := tokenizer.Data()
		if !IsPubKeyEncoding(data) {
			break
		}
		pubKeys = append(pubKeys, data)
	}
	if tokenizer.Done() {
		return 0, nil, false
	}

	// The next opcode must be a small integer specifying the number of
	// public keys required.
	op := tokenizer.Opcode()
	if !isSmallInt(op) || asSmallInt(op) != len(pubKeys) {
		return 0, nil, false
	}

	// There must only be a single opcode left unparsed which will be
	// OP_CHECKMULTISIG per the check above.
	if int32(len(tokenizer.Script()))-tokenizer.ByteIndex() != 1 {
		return 0, nil, false
	}

	if requiredSigs < 1 || requiredSigs > len(pubKeys) ||
		len(pubKeys) > maxPubKeysPerMultiSig {

		return 0, nil, false
	}
	return requiredSigs, pubKeys, true
}

// ClassifyOutput returns the class of an output (or redeem / witness) script.
// Scripts that match none of the known templates are NonStandardTy.
func ClassifyOutput(script []byte) Class {
	switch {
	case isWitnessPubKeyHashScript(script):
		return WitnessPubKeyHashTy
	case isWitnessScriptHashScript(script):
		return WitnessScriptHashTy
	case isTaprootScript(script):
		return TaprootTy
	case isPubKeyHashScript(script):
		return PubKeyHashTy
	case isScriptHashScript(script):
		return ScriptHashTy
	case isPubKeyScript(script):
		return PubKeyTy
	case isNullDataScript(script):
		return NullDataTy
	}
	if _, _, ok := ExtractMultiSig(script); ok {
		return MultiSigTy
	}
	return NonStandardTy
}

// isPubKeyHashInput returns whether the items are a signature followed by a
// public key.
func isPubKeyHashInput(items [][]byte) bool {
	return len(items) == 2 &&
		IsCanonicalSignature(items[0]) &&
		IsPubKeyEncoding(items[1])
}

// isPubKeyInput returns whether the items hold a single signature.  Partially
// signed inputs may hold a placeholder instead.
func isPubKeyInput(items [][]byte, allowIncomplete bool) bool {
	if len(items) != 1 {
		return false
	}
	return IsCanonicalSignature(items[0]) ||
		(allowIncomplete && IsPlaceholder(items[0]))
}

// isMultiSigInput returns whether the items are the OP_0 dummy element
// followed by signatures.  Partially signed inputs may hold placeholders in
// place of signatures.
func isMultiSigInput(items [][]byte, allowIncomplete bool) bool {
	if len(items) < 2 || !IsPlaceholder(items[0]) {
		return false
	}
	for _, item := range items[1:] {
		if IsCanonicalSignature(item) {
			continue
		}
		if allowIncomplete && IsPlaceholder(item) {
			continue
		}
		return false
	}
	return true
}

// matchesScript returns whether items are a valid (possibly incomplete)
// spend of the passed redeem or witness script.
func matchesScript(items [][]byte, script []byte) bool {
	switch ClassifyOutput(script) {
	case PubKeyTy:
		return isPubKeyInput(items, true)
	case PubKeyHashTy:
		return isPubKeyHashInput(items)
	case MultiSigTy:
		_, pubKeys, _ := ExtractMultiSig(script)
		return isMultiSigInput(items, true) &&
			len(items)-1 <= len(pubKeys)
	}
	return false
}

// isScriptHashInput returns whether the items are a spend of a p2sh output.
// The final item is the redeem script.  Redeem scripts that are themselves
// witness programs carry no further items in the signature script.
func isScriptHashInput(items [][]byte) bool {
	if len(items) == 0 {
		return false
	}
	redeemScript := items[len(items)-1]
	if len(redeemScript) == 0 {
		return false
	}
	rest := items[:len(items)-1]

	switch ClassifyOutput(redeemScript) {
	case WitnessPubKeyHashTy, WitnessScriptHashTy:
		return len(rest) == 0
	}
	return matchesScript(rest, redeemScript)
}

// ClassifyInput returns the class of the output being spent as evidenced by
// a signature script alone.  Incomplete multisig signature scripts that
// carry placeholders are still classified.  Signature scripts that are not
// push only or match no known form are NonStandardTy.
func ClassifyInput(scriptSig []byte) Class {
	items, ok := Pushes(scriptSig)
	if !ok || len(items) == 0 {
		return NonStandardTy
	}

	switch {
	case isPubKeyHashInput(items):
		return PubKeyHashTy
	case isScriptHashInput(items):
		return ScriptHashTy
	case isMultiSigInput(items, true):
		return MultiSigTy
	case isPubKeyInput(items, false):
		return PubKeyTy
	}
	return NonStandardTy
}

// StripAnnex returns the witness without a trailing taproot annex along with
// the annex itself, if any.
func StripAnnex(witness wire.TxWitness) (wire.TxWitness, []byte) {
	if len(witness) >= 2 {
		last := witness[len(witness)-1]
		if len(last) > 0 && last[0] == taprootAnnexTag {
			return witness[:len(witness)-1], last
		}
	}
	return witness, nil
}

// IsControlBlock returns whether the item has the size and leading byte of
// a taproot control block.
func IsControlBlock(item []byte) bool {
	if len(item) < controlBlockBaseSize ||
		len(item) > controlBlockBaseSize+
			controlBlockNodeSize*controlBlockMaxNodeCount {

		return false
	}
	if (len(item)-controlBlockBaseSize)%controlBlockNodeSize != 0 {
		return false
	}
	// Leaf versions are always even and 0x50 would collide with the
	// annex tag.
	leafVersion := item[0] & taprootLeafMask
	return leafVersion != taprootAnnexTag
}

// isTaprootWitness returns whether the witness has the shape of a taproot key
// path spend (a single signature) or script path spend (any items followed
// by a leaf script and control block).
func isTaprootWitness(witness wire.TxWitness) bool {
	stack, _ := StripAnnex(witness)
	switch {
	case len(stack) == 1:
		return IsSchnorrSignature(stack[0])
	case len(stack) >= 2:
		return IsControlBlock(stack[len(stack)-1])
	}
	return false
}

// ClassifyWitness returns the class of the output being spent as evidenced
// by a witness stack alone.  Witness stacks that match no known form are
// NonStandardTy.
func ClassifyWitness(witness wire.TxWitness) Class {
	if len(witness) == 0 {
		return NonStandardTy
	}

	if len(witness) == 2 && IsCanonicalSignature(witness[0]) &&
		IsCompressedPubKey(witness[1]) {

		return WitnessPubKeyHashTy
	}

	witnessScript := witness[len(witness)-1]
	if len(witnessScript) > 0 && matchesScript(
		witness[:len(witness)-1], witnessScript,
	) {
		return WitnessScriptHashTy
	}

	if isTaprootWitness(witness) {
		return TaprootTy
	}
	return NonStandardTy
}
