// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sigscript

import (
	"bytes"
	"errors"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcmultisig/network"
	"github.com/btcsuite/btcmultisig/scriptclass"
	"github.com/btcsuite/btcmultisig/template"
	"github.com/davecgh/go-spew/spew"
)

// ParsedSignatureScript is the structural decoding of a single wallet input.
type ParsedSignatureScript struct {
	// ScriptType is the encoding of the spent output.
	ScriptType template.ScriptType

	// InputClass is the class of the signature script.  It is
	// NonStandardTy when the input has no signature script or a slot
	// holds bytes that are not a canonical signature.
	InputClass scriptclass.Class

	// WitnessClass is the class of the witness.  It is NonStandardTy when
	// the input has no witness.
	WitnessClass scriptclass.Class

	// PubScriptClass is the class of the script the signatures are
	// checked against.  Taproot inputs report TaprootTy.
	PubScriptClass scriptclass.Class

	// PublicKeys are the keys that may sign the input in script order.
	// Multisig and p2pk keys are compressed.  Taproot keys are x-only.
	// Key path spends parsed without the spent output have no keys.
	PublicKeys [][]byte

	// Threshold is the number of signatures needed to spend the input.
	Threshold int

	// Signatures are the signature slots of the input.  When
	// ScriptOrdered is set there is one slot per public key at the key's
	// script position.  Otherwise the slots are the signatures of a
	// finalized input in key order but their key positions are unknown
	// until verified.
	Signatures []SignatureSlot

	// ScriptOrdered reports whether Signatures are aligned to PublicKeys.
	ScriptOrdered bool

	// RedeemScript is the script revealed in the signature script of
	// p2sh based inputs.
	RedeemScript []byte

	// WitnessScript is the script revealed in the witness of p2wsh based
	// inputs.
	WitnessScript []byte

	// PubScript is the script committed to by the signature hash.  It is
	// the redeem script for legacy inputs, the witness script for segwit
	// inputs and the leaf script for taproot script path inputs.  It is
	// nil for taproot key path inputs.
	PubScript []byte

	// KeyPath reports whether a taproot input is a key path spend.
	KeyPath bool

	// ControlBlock is the raw control block of a taproot script path
	// spend.
	ControlBlock []byte

	// LeafVersion is the leaf version of a taproot script path spend.
	LeafVersion txscript.TapscriptLeafVersion
}

// SignatureCount returns the number of slots holding signature bytes.
func (p *ParsedSignatureScript) SignatureCount() int {
	var n int
	for _, slot := range p.Signatures {
		if slot.IsSignature() {
			n++
		}
	}
	return n
}

// PlaceholderCount returns the number of unfilled slots.
func (p *ParsedSignatureScript) PlaceholderCount() int {
	var n int
	for _, slot := range p.Signatures {
		if slot.IsPlaceholder() {
			n++
		}
	}
	return n
}

// IsFinalized returns whether the input holds no placeholders and at least
// threshold signatures.
func (p *ParsedSignatureScript) IsFinalized() bool {
	return p.PlaceholderCount() == 0 && p.SignatureCount() >= p.Threshold
}

// Parse decodes the signature script and witness of a wallet input.
//
// The spent output is optional.  When given, its script must commit to the
// scripts revealed by the input and it supplies the output key of taproot
// key path spends.  A nil network skips the script type activation check.
//
// Inputs that do not match any supported script type are reported with an
// Error.  Signature bytes are never validated here so that malformed
// signatures surface as failed verifications instead of parse errors.
func Parse(txIn *wire.TxIn, prevOut *wire.TxOut,
	net *network.Network) (*ParsedSignatureScript, error) {

	p := &ParsedSignatureScript{
		InputClass:   scriptclass.NonStandardTy,
		WitnessClass: scriptclass.NonStandardTy,
	}
	if len(txIn.SignatureScript) > 0 {
		p.InputClass = scriptclass.ClassifyInput(txIn.SignatureScript)
	}
	if len(txIn.Witness) > 0 {
		p.WitnessClass = scriptclass.ClassifyWitness(txIn.Witness)
	}

	var err error
	hasScriptSig := len(txIn.SignatureScript) > 0
	hasWitness := len(txIn.Witness) > 0
	switch {
	case hasScriptSig && !hasWitness:
		err = p.parseScriptHash(txIn.SignatureScript)
	case hasScriptSig && hasWitness:
		err = p.parseNestedWitness(txIn.SignatureScript, txIn.Witness)
	case hasWitness:
		err = p.parseWitness(txIn.Witness, prevOut)
	default:
		err = parseError(ErrUnsupportedScript, nil,
			"input has neither a signature script nor a witness")
	}
	if err != nil {
		log.Debugf("Unable to parse input %v: %v",
			txIn.PreviousOutPoint, err)
		return nil, err
	}

	if net != nil && !template.IsSupported(net, p.ScriptType) {
		return nil, parseError(ErrScriptTypeInactive, nil,
			"script type %v is not active on %v", p.ScriptType, net)
	}
	if prevOut != nil {
		if err := p.checkPrevOut(prevOut); err != nil {
			return nil, err
		}
	}

	log.Tracef("Parsed input %v: %v", txIn.PreviousOutPoint,
		newLogClosure(func() string {
			return spew.Sdump(p)
		}))
	return p, nil
}

// parseScriptHash decodes the signature script of a p2sh or p2shP2pk input.
func (p *ParsedSignatureScript) parseScriptHash(scriptSig []byte) error {
	items, ok := scriptclass.Pushes(scriptSig)
	if !ok || len(items) == 0 {
		return parseError(ErrUnsupportedScript, nil,
			"signature script is not push only")
	}
	redeemScript := items[len(items)-1]
	slotItems := items[:len(items)-1]
	p.RedeemScript = redeemScript
	p.PubScript = redeemScript

	switch scriptclass.ClassifyOutput(redeemScript) {
	case scriptclass.PubKeyTy:
		key, err := template.ParseP2pkScript(redeemScript)
		if err != nil {
			return parseError(ErrUnsupportedScript, err,
				"invalid p2shP2pk redeem script")
		}
		if len(slotItems) != 1 {
			return parseError(ErrSlotCount, nil,
				"p2shP2pk input has %d signature items",
				len(slotItems))
		}
		p.ScriptType = template.P2shP2pk
		p.PubScriptClass = scriptclass.PubKeyTy
		p.PublicKeys = [][]byte{key}
		p.Threshold = 1
		p.Signatures = []SignatureSlot{Signature(slotItems[0])}
		p.ScriptOrdered = true
		return nil

	case scriptclass.MultiSigTy:
		p.ScriptType = template.P2sh
		return p.parseMultiSig(redeemScript, slotItems)

	case scriptclass.WitnessScriptHashTy:
		return parseError(ErrUnsupportedScript, nil,
			"p2shP2wsh input is missing its witness")
	}
	return parseError(ErrUnsupportedScript, nil,
		"unsupported redeem script class %v",
		scriptclass.ClassifyOutput(redeemScript))
}

// parseNestedWitness decodes a p2shP2wsh input.  The signature script holds
// only the witness program which must commit to the witness script.
func (p *ParsedSignatureScript) parseNestedWitness(scriptSig []byte,
	witness wire.TxWitness) error {

	items, ok := scriptclass.Pushes(scriptSig)
	if !ok || len(items) != 1 {
		return parseError(ErrUnsupportedScript, nil,
			"nested witness signature script must push only the "+
				"witness program")
	}
	program := items[0]
	if scriptclass.ClassifyOutput(program) != scriptclass.WitnessScriptHashTy {
		return parseError(ErrUnsupportedScript, nil,
			"nested redeem script is not a witness script hash "+
				"program")
	}
	p.RedeemScript = program

	if err := p.parseMultiSigWitness(witness); err != nil {
		return err
	}
	expected, err := template.P2wshOutput(p.WitnessScript)
	if err != nil {
		return parseError(ErrUnsupportedScript, err,
			"unable to build witness program")
	}
	if !bytes.Equal(expected, program) {
		return parseError(ErrWitnessProgramMismatch, nil,
			"witness program does not commit to the witness script")
	}
	p.ScriptType = template.P2shP2wsh
	return nil
}

// parseWitness decodes a native witness input, either p2wsh or p2tr.
func (p *ParsedSignatureScript) parseWitness(witness wire.TxWitness,
	prevOut *wire.TxOut) error {

	last := witness[len(witness)-1]
	if len(witness) >= 2 &&
		scriptclass.ClassifyOutput(last) == scriptclass.MultiSigTy {

		p.ScriptType = template.P2wsh
		return p.parseMultiSigWitness(witness)
	}

	p.ScriptType = template.P2tr
	return p.parseTaproot(witness, prevOut)
}

// parseMultiSigWitness decodes the witness stack of a p2wsh based input.
func (p *ParsedSignatureScript) parseMultiSigWitness(
	witness wire.TxWitness) error {

	if len(witness) < 2 {
		return parseError(ErrUnsupportedScript, nil,
			"witness stack has %d items", len(witness))
	}
	witnessScript := witness[len(witness)-1]
	p.WitnessScript = witnessScript
	p.PubScript = witnessScript
	return p.parseMultiSig(witnessScript, witness[:len(witness)-1])
}

// parseMultiSig decodes the multisig script and the items preceding it.  The
// first item is the dummy element consumed by OP_CHECKMULTISIG.
func (p *ParsedSignatureScript) parseMultiSig(script []byte,
	items [][]byte) error {

	keys, threshold, err := template.ParseMultiSigScript(script)
	if err != nil {
		return parseError(ErrUnsupportedScript, err,
			"invalid multisig script")
	}
	if threshold != template.WalletThreshold ||
		len(keys) != template.WalletKeyCount {

		return parseError(ErrUnsupportedScript, nil,
			"multisig script is %d-of-%d", threshold, len(keys))
	}
	p.PubScriptClass = scriptclass.MultiSigTy
	p.PublicKeys = keys
	p.Threshold = threshold

	if len(items) == 0 || len(items[0]) != 0 {
		return parseError(ErrUnsupportedScript, nil,
			"missing OP_CHECKMULTISIG dummy element")
	}
	sigItems := items[1:]
	switch {
	case len(sigItems) == len(keys):
		p.ScriptOrdered = true
	case len(sigItems) >= 1 && len(sigItems) < len(keys):
		p.ScriptOrdered = false
	default:
		return parseError(ErrSlotCount, nil,
			"%d signature items for %d keys", len(sigItems),
			len(keys))
	}

	p.Signatures = make([]SignatureSlot, len(sigItems))
	for i, item := range sigItems {
		p.Signatures[i] = Signature(item)
	}
	return nil
}

// parseTaproot decodes a p2tr key path or script path witness.  Script path
// witnesses hold the signatures in reverse key order followed by the leaf
// script and control block.
func (p *ParsedSignatureScript) parseTaproot(witness wire.TxWitness,
	prevOut *wire.TxOut) error {

	p.PubScriptClass = scriptclass.TaprootTy
	stack, annex := scriptclass.StripAnnex(witness)
	if annex != nil {
		return parseError(ErrAnnexUnsupported, nil,
			"taproot witness carries an annex")
	}

	if len(stack) == 1 {
		sig := stack[0]
		if prevOut == nil && len(sig) != 0 &&
			!scriptclass.IsSchnorrSignature(sig) {

			return parseError(ErrUnsupportedScript, nil,
				"single item witness is not a taproot key "+
					"path spend")
		}
		p.KeyPath = true
		p.Threshold = 1
		p.Signatures = []SignatureSlot{Signature(sig)}
		p.ScriptOrdered = true
		if prevOut != nil &&
			scriptclass.ClassifyOutput(prevOut.PkScript) ==
				scriptclass.TaprootTy {

			key := append([]byte(nil), prevOut.PkScript[2:]...)
			p.PublicKeys = [][]byte{key}
		}
		return nil
	}

	controlBlock := stack[len(stack)-1]
	leafScript := stack[len(stack)-2]
	sigItems := stack[:len(stack)-2]

	cb, err := txscript.ParseControlBlock(controlBlock)
	if err != nil {
		return parseError(ErrUnsupportedScript, err,
			"invalid control block")
	}
	if cb.LeafVersion != txscript.BaseLeafVersion {
		return parseError(ErrUnsupportedScript, nil,
			"unsupported leaf version %#x", uint8(cb.LeafVersion))
	}
	keys, err := template.ParseTapscriptMultiSig(leafScript)
	if err != nil {
		return parseError(ErrUnsupportedScript, err,
			"invalid tapscript leaf")
	}
	if len(sigItems) != len(keys) {
		return parseError(ErrSlotCount, nil,
			"%d signature items for %d leaf keys", len(sigItems),
			len(keys))
	}

	p.PubScript = leafScript
	p.ControlBlock = controlBlock
	p.LeafVersion = cb.LeafVersion
	p.PublicKeys = keys[:]
	p.Threshold = len(keys)
	p.ScriptOrdered = true
	p.Signatures = make([]SignatureSlot, len(keys))
	for i := range keys {
		p.Signatures[i] = Signature(sigItems[len(sigItems)-1-i])
	}
	return nil
}

// checkPrevOut ensures the spent output script commits to the parsed input.
func (p *ParsedSignatureScript) checkPrevOut(prevOut *wire.TxOut) error {
	var (
		expected []byte
		err      error
	)
	switch p.ScriptType {
	case template.P2shP2pk, template.P2sh, template.P2shP2wsh:
		expected, err = template.P2shOutput(p.RedeemScript)

	case template.P2wsh:
		expected, err = template.P2wshOutput(p.WitnessScript)

	case template.P2tr:
		pkScript := prevOut.PkScript
		if scriptclass.ClassifyOutput(pkScript) != scriptclass.TaprootTy {
			return parseError(ErrPrevOutScriptMismatch, nil,
				"spent output is not a taproot output")
		}
		if p.KeyPath {
			return nil
		}
		cb, err := txscript.ParseControlBlock(p.ControlBlock)
		if err != nil {
			return parseError(ErrUnsupportedScript, err,
				"invalid control block")
		}
		err = txscript.VerifyTaprootLeafCommitment(
			cb, pkScript[2:], p.PubScript,
		)
		if err != nil {
			return parseError(ErrPrevOutScriptMismatch, err,
				"spent output does not commit to the leaf script")
		}
		return nil

	default:
		return parseError(ErrUnsupportedScript,
			errors.New("unknown script type"), "%v", p.ScriptType)
	}
	if err != nil {
		return parseError(ErrUnsupportedScript, err,
			"unable to build output script")
	}
	if !bytes.Equal(expected, prevOut.PkScript) {
		return parseError(ErrPrevOutScriptMismatch, nil,
			"spent %v output does not commit to the input scripts",
			p.ScriptType)
	}
	return nil
}
