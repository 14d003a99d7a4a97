// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"fmt"

	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcmultisig/network"
	"github.com/btcsuite/btcmultisig/scriptclass"
	"github.com/btcsuite/btcmultisig/sigscript"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// splitECDSA splits a signature with a trailing hash type byte into its DER
// encoding and hash type.
func splitECDSA(sig []byte) ([]byte, txscript.SigHashType, bool) {
	if len(sig) < 2 {
		return nil, 0, false
	}
	return sig[:len(sig)-1], txscript.SigHashType(sig[len(sig)-1]), true
}

// splitSchnorr splits a BIP340 signature with an optional hash type byte.
// A 64 byte signature uses the default hash type and an explicit default
// hash type byte is invalid.
func splitSchnorr(sig []byte) ([]byte, txscript.SigHashType, bool) {
	switch len(sig) {
	case scriptclass.SchnorrSigLen:
		return sig, txscript.SigHashDefault, true
	case scriptclass.SchnorrSigLen + 1:
		hashType := txscript.SigHashType(sig[scriptclass.SchnorrSigLen])
		if hashType == txscript.SigHashDefault {
			return nil, 0, false
		}
		return sig[:scriptclass.SchnorrSigLen], hashType, true
	}
	return nil, 0, false
}

// sValue returns the S value of a strictly DER encoded signature.
func sValue(der []byte) (*secp256k1.ModNScalar, error) {
	_, sBytes, err := scriptclass.DERComponents(der)
	if err != nil {
		return nil, err
	}
	if len(sBytes) > 33 || (len(sBytes) == 33 && sBytes[0] != 0x00) {
		return nil, fmt.Errorf("S value is larger than 256 bits")
	}
	if len(sBytes) == 33 {
		sBytes = sBytes[1:]
	}
	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(sBytes); overflow {
		return nil, fmt.Errorf("S value is not less than the group order")
	}
	if s.IsZero() {
		return nil, fmt.Errorf("S value is zero")
	}
	return &s, nil
}

// IsLowS returns whether the ECDSA signature, with its trailing hash type
// byte, is strictly DER encoded and has an S value no greater than half the
// group order.
func IsLowS(sig []byte) bool {
	der, _, ok := splitECDSA(sig)
	if !ok {
		return false
	}
	s, err := sValue(der)
	return err == nil && !s.IsOverHalfOrder()
}

// encodeDERInt returns the minimal DER integer encoding of the big-endian
// value.
func encodeDERInt(b []byte) []byte {
	for len(b) > 1 && b[0] == 0x00 && b[1]&0x80 == 0 {
		b = b[1:]
	}
	if b[0]&0x80 != 0 {
		b = append([]byte{0x00}, b...)
	}
	return append([]byte{0x02, byte(len(b))}, b...)
}

// HighS returns the high-S form of a low-S ECDSA signature with a trailing
// hash type byte.  The result is the same signature with S replaced by N-S,
// which still verifies cryptographically but is rejected by chains that
// enforce low-S.
func HighS(sig []byte) ([]byte, error) {
	der, hashType, ok := splitECDSA(sig)
	if !ok {
		return nil, ErrNotECDSA
	}
	r, _, err := scriptclass.DERComponents(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotECDSA, err)
	}
	s, err := sValue(der)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotECDSA, err)
	}
	if s.IsOverHalfOrder() {
		return nil, ErrHighS
	}
	s.Negate()
	sBytes := s.Bytes()

	body := append(encodeDERInt(append([]byte(nil), r...)),
		encodeDERInt(sBytes[:])...)
	out := make([]byte, 0, len(body)+3)
	out = append(out, 0x30, byte(len(body)))
	out = append(out, body...)
	return append(out, byte(hashType)), nil
}

// MutateHighS returns a copy of the transaction whose input has the
// signature at the slot replaced by its high-S form.  The passed
// transaction is not modified.
func MutateHighS(tx *wire.MsgTx, idx, slot int, prevOut *wire.TxOut,
	net *network.Network) (*wire.MsgTx, error) {

	if idx < 0 || idx >= len(tx.TxIn) {
		return nil, fmt.Errorf("input index %d out of range", idx)
	}
	parsed, err := sigscript.Parse(tx.TxIn[idx], prevOut, net)
	if err != nil {
		return nil, err
	}
	if parsed.ScriptType.IsTaproot() {
		return nil, ErrNotECDSA
	}
	if slot < 0 || slot >= len(parsed.Signatures) ||
		!parsed.Signatures[slot].IsSignature() {

		return nil, fmt.Errorf("%w %d", ErrSlotIndex, slot)
	}

	mutated, err := HighS(parsed.Signatures[slot].Sig)
	if err != nil {
		return nil, err
	}
	parsed.Signatures[slot] = sigscript.Signature(mutated)
	scriptSig, witness, err := sigscript.Encode(parsed)
	if err != nil {
		return nil, err
	}

	out := tx.Copy()
	out.TxIn[idx].SignatureScript = scriptSig
	out.TxIn[idx].Witness = witness
	return out, nil
}
