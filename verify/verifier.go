// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcmultisig/network"
	"github.com/btcsuite/btcmultisig/sighash"
	"github.com/btcsuite/btcmultisig/sigscript"
	"github.com/btcsuite/btcmultisig/template"
)

// Verifier checks the signatures of wallet inputs.  A Verifier holds no
// per-transaction state and is safe for concurrent use.
type Verifier struct {
	net      *network.Network
	sigCache *SigCache
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithSigCache makes the verifier consult and fill the signature cache.
func WithSigCache(c *SigCache) Option {
	return func(v *Verifier) {
		v.sigCache = c
	}
}

// New returns a verifier applying the signature rules of the network.
func New(net *network.Network, opts ...Option) *Verifier {
	v := &Verifier{net: net}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Network returns the network of the verifier.
func (v *Verifier) Network() *network.Network {
	return v.net
}

// SignatureVerification is the outcome of verifying one signature of an
// input.
type SignatureVerification struct {
	// Slot is the index of the signature in the parsed signature slots.
	Slot int

	// HashType is the hash type the signature commits to.
	HashType txscript.SigHashType

	// Position is the script position of the key the signature verified
	// against or -1 when it verified against none.
	Position int

	// SignedBy is the key the signature verified against or nil.
	SignedBy []byte
}

// KeyResult is the signature state of one key of an input in script order.
type KeyResult struct {
	// PublicKey is the key as it appears in the script.
	PublicKey []byte

	// Slot is the signature slot aligned to the key.  Keys of finalized
	// inputs that did not sign have an absent slot.
	Slot sigscript.SignatureSlot

	// Verified reports whether the slot holds a signature valid for the
	// key.
	Verified bool
}

// inputCheck holds the scratch state of verifying one input.
type inputCheck struct {
	v       *Verifier
	idx     int
	parsed  *sigscript.ParsedSignatureScript
	builder *sighash.Builder
}

// prepare parses the input and creates the digest builder.  The spent
// outputs are checked up front so a missing output is reported even when
// the input carries no signatures.
func (v *Verifier) prepare(tx *wire.MsgTx, idx int,
	prevOuts []*wire.TxOut) (*inputCheck, error) {

	if idx < 0 || idx >= len(tx.TxIn) {
		return nil, fmt.Errorf("%w: %d", sighash.ErrInputIndex, idx)
	}
	var prevOut *wire.TxOut
	if idx < len(prevOuts) {
		prevOut = prevOuts[idx]
	}
	parsed, err := sigscript.Parse(tx.TxIn[idx], prevOut, v.net)
	if err != nil {
		return nil, err
	}
	builder, err := sighash.NewBuilder(v.net, tx, prevOuts)
	if err != nil {
		return nil, err
	}
	if err := builder.RequirePrevOuts(parsed.ScriptType); err != nil {
		return nil, err
	}
	return &inputCheck{
		v:       v,
		idx:     idx,
		parsed:  parsed,
		builder: builder,
	}, nil
}

// verify returns whether the signature is valid for the key.  Every problem
// with the signature itself yields false.  Only a digest that cannot be
// built for lack of spent outputs is an error.
func (c *inputCheck) verify(sig, key []byte) (bool, error) {
	if c.parsed.ScriptType.IsTaproot() {
		return c.verifySchnorr(sig, key)
	}
	return c.verifyECDSA(sig, key)
}

// digest returns the digest for the hash type.  The boolean is false when
// the hash type is not valid for the input.
func (c *inputCheck) digest(hashType txscript.SigHashType) ([]byte, bool,
	error) {

	digest, err := c.builder.Digest(sighash.Request{
		InputIndex:  c.idx,
		ScriptType:  c.parsed.ScriptType,
		HashType:    hashType,
		Script:      c.parsed.PubScript,
		KeyPath:     c.parsed.KeyPath,
		LeafVersion: c.parsed.LeafVersion,
	})
	switch {
	case errors.Is(err, sighash.ErrMissingPrevOut):
		return nil, false, err
	case err != nil:
		log.Debugf("Input %d: no digest for hash type %#x: %v", c.idx,
			uint32(hashType), err)
		return nil, false, nil
	}
	return digest, true, nil
}

// verifyECDSA checks a DER signature with a trailing hash type byte.
func (c *inputCheck) verifyECDSA(rawSig, key []byte) (bool, error) {
	der, hashType, ok := splitECDSA(rawSig)
	if !ok {
		return false, nil
	}
	s, err := sValue(der)
	if err != nil {
		log.Debugf("Input %d: malformed signature: %v", c.idx, err)
		return false, nil
	}
	if c.v.net != nil && c.v.net.RequireLowS && s.IsOverHalfOrder() {
		log.Debugf("Input %d: signature is not low-S", c.idx)
		return false, nil
	}
	sig, err := ecdsa.ParseDERSignature(der)
	if err != nil {
		return false, nil
	}
	pubKey, err := btcec.ParsePubKey(key)
	if err != nil {
		return false, nil
	}

	digest, ok, err := c.digest(hashType)
	if err != nil || !ok {
		return false, err
	}
	if c.v.sigCache.Exists(digest, rawSig, key) {
		return true, nil
	}
	if !sig.Verify(digest, pubKey) {
		return false, nil
	}
	c.v.sigCache.Add(digest, rawSig, key)
	return true, nil
}

// verifySchnorr checks a BIP340 signature with an optional hash type byte.
func (c *inputCheck) verifySchnorr(rawSig, key []byte) (bool, error) {
	raw, hashType, ok := splitSchnorr(rawSig)
	if !ok {
		return false, nil
	}
	sig, err := schnorr.ParseSignature(raw)
	if err != nil {
		return false, nil
	}
	xOnly := template.XOnly(key)
	pubKey, err := schnorr.ParsePubKey(xOnly)
	if err != nil {
		return false, nil
	}

	digest, ok, err := c.digest(hashType)
	if err != nil || !ok {
		return false, err
	}
	if c.v.sigCache.Exists(digest, rawSig, xOnly) {
		return true, nil
	}
	if !sig.Verify(digest, pubKey) {
		return false, nil
	}
	c.v.sigCache.Add(digest, rawSig, xOnly)
	return true, nil
}

// hashTypeOf returns the hash type byte of a signature without validating
// it.
func hashTypeOf(sig []byte, taproot bool) txscript.SigHashType {
	if taproot {
		_, hashType, _ := splitSchnorr(sig)
		return hashType
	}
	_, hashType, _ := splitECDSA(sig)
	return hashType
}

// verifications verifies every signature of the input.  Signatures of
// script ordered inputs are only checked against the key at their slot.
// Signatures of finalized inputs are matched to the first unclaimed key
// they verify against.
func (c *inputCheck) verifications() ([]SignatureVerification, error) {
	keys := c.parsed.PublicKeys
	taproot := c.parsed.ScriptType.IsTaproot()
	claimed := make([]bool, len(keys))

	var results []SignatureVerification
	for i, slot := range c.parsed.Signatures {
		if !slot.IsSignature() {
			continue
		}
		result := SignatureVerification{
			Slot:     i,
			HashType: hashTypeOf(slot.Sig, taproot),
			Position: -1,
		}

		var candidates []int
		if c.parsed.ScriptOrdered {
			if i < len(keys) {
				candidates = []int{i}
			}
		} else {
			for j := range keys {
				if !claimed[j] {
					candidates = append(candidates, j)
				}
			}
		}

		for _, j := range candidates {
			ok, err := c.verify(slot.Sig, keys[j])
			if err != nil {
				return nil, err
			}
			if ok {
				claimed[j] = true
				result.Position = j
				result.SignedBy = keys[j]
				break
			}
		}
		results = append(results, result)
	}
	return results, nil
}

// resolve returns the script ordered view of the input's keys.
func (c *inputCheck) resolve() ([]KeyResult, error) {
	verifications, err := c.verifications()
	if err != nil {
		return nil, err
	}

	results := make([]KeyResult, len(c.parsed.PublicKeys))
	for j, key := range c.parsed.PublicKeys {
		results[j].PublicKey = key
		results[j].Slot = sigscript.Absent()
		if c.parsed.ScriptOrdered && j < len(c.parsed.Signatures) {
			results[j].Slot = c.parsed.Signatures[j]
		}
	}
	for _, sv := range verifications {
		if sv.Position < 0 {
			continue
		}
		results[sv.Position].Verified = true
		results[sv.Position].Slot = c.parsed.Signatures[sv.Slot]
	}
	return results, nil
}

// Parse returns the parsed signature script of the input.  It is a
// convenience over sigscript.Parse using the verifier's network.
func (v *Verifier) Parse(tx *wire.MsgTx, idx int,
	prevOuts []*wire.TxOut) (*sigscript.ParsedSignatureScript, error) {

	c, err := v.prepare(tx, idx, prevOuts)
	if err != nil {
		return nil, err
	}
	return c.parsed, nil
}

// SignatureVerifications returns the outcome of verifying every signature
// of the input in slot order.  Placeholders are not reported.
func (v *Verifier) SignatureVerifications(tx *wire.MsgTx, idx int,
	prevOuts []*wire.TxOut) ([]SignatureVerification, error) {

	c, err := v.prepare(tx, idx, prevOuts)
	if err != nil {
		return nil, err
	}
	return c.verifications()
}

// ResolveSlots returns one result per key of the input in script order.
// Finalized inputs, whose signatures carry no position, are aligned to
// their keys by verification.
func (v *Verifier) ResolveSlots(tx *wire.MsgTx, idx int,
	prevOuts []*wire.TxOut) ([]KeyResult, error) {

	c, err := v.prepare(tx, idx, prevOuts)
	if err != nil {
		return nil, err
	}
	return c.resolve()
}

// verifyWithKey returns whether any signature of the input is valid for the
// key regardless of its slot.
func (c *inputCheck) verifyWithKey(key []byte) (bool, error) {
	for _, slot := range c.parsed.Signatures {
		if !slot.IsSignature() {
			continue
		}
		ok, err := c.verify(slot.Sig, key)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// verifyAnyKey returns whether any signature of the input is valid for any
// key of the script regardless of its slot.
func (c *inputCheck) verifyAnyKey() (bool, error) {
	for _, key := range c.parsed.PublicKeys {
		ok, err := c.verifyWithKey(key)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}

// VerifySignatureWithPublicKey returns whether any signature of the input
// is valid for the public key.  Placeholders are never verified.
func (v *Verifier) VerifySignatureWithPublicKey(tx *wire.MsgTx, idx int,
	prevOuts []*wire.TxOut, pubKey []byte) (bool, error) {

	if len(pubKey) == 0 {
		return false, fmt.Errorf("%w: empty public key",
			ErrKeySetMismatch)
	}
	c, err := v.prepare(tx, idx, prevOuts)
	if err != nil {
		return false, err
	}
	return c.verifyWithKey(pubKey)
}

// KeySetSize returns the number of keys VerifySignatureWithPublicKeys
// expects for the parsed input: the wallet key set, or the output key of a
// taproot key path spend.
func KeySetSize(p *sigscript.ParsedSignatureScript) int {
	if p.KeyPath {
		return 1
	}
	return p.ScriptType.KeyCount()
}

// VerifySignatureWithPublicKeys returns, for each passed key in the passed
// order, whether any signature of the input is valid for it.  The keys must
// be the complete key set of the input, see KeySetSize, in any order.  A
// partial or oversized set fails with ErrKeySetMismatch; use
// VerifySignatureWithPublicKey to check individual keys.
func (v *Verifier) VerifySignatureWithPublicKeys(tx *wire.MsgTx, idx int,
	prevOuts []*wire.TxOut, pubKeys [][]byte) ([]bool, error) {

	c, err := v.prepare(tx, idx, prevOuts)
	if err != nil {
		return nil, err
	}

	if want := KeySetSize(c.parsed); len(pubKeys) != want {
		return nil, fmt.Errorf("%w: %d keys for %v input, want %d",
			ErrKeySetMismatch, len(pubKeys), c.parsed.ScriptType, want)
	}
	for i, key := range pubKeys {
		if len(key) == 0 {
			return nil, fmt.Errorf("%w: key %d is empty",
				ErrKeySetMismatch, i)
		}
		for j := 0; j < i; j++ {
			if template.KeysMatch(pubKeys[j], key) {
				return nil, fmt.Errorf("%w: keys %d and %d "+
					"are the same", ErrKeySetMismatch, j, i)
			}
		}
	}

	results := make([]bool, len(pubKeys))
	for i, key := range pubKeys {
		results[i], err = c.verifyWithKey(key)
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

// keyPosition returns the script position of the key or -1.
func keyPosition(keys [][]byte, key []byte) int {
	for i, k := range keys {
		if template.KeysMatch(k, key) {
			return i
		}
	}
	return -1
}

// VerifySignature returns whether the input carries a valid signature
// narrowed by the settings:
//
//   - no settings: any signature is valid for any key of the script
//   - WithSignatureIndex(i): the key at script position i signed
//   - WithPublicKey(k): key k signed
//   - both: key k is at script position i and signed
//
// The signature index is ignored for taproot inputs.
func (v *Verifier) VerifySignature(tx *wire.MsgTx, idx int,
	prevOuts []*wire.TxOut, settings ...Setting) (bool, error) {

	var s verifySettings
	for _, setting := range settings {
		setting(&s)
	}

	c, err := v.prepare(tx, idx, prevOuts)
	if err != nil {
		return false, err
	}
	if c.parsed.ScriptType.IsTaproot() && s.hasIndex {
		log.Debugf("Input %d: ignoring signature index %d for %v",
			idx, s.signatureIndex, c.parsed.ScriptType)
		s.hasIndex = false
	}

	if s.publicKey == nil && !s.hasIndex {
		return c.verifyAnyKey()
	}

	position := s.signatureIndex
	if s.publicKey != nil {
		position = keyPosition(c.parsed.PublicKeys, s.publicKey)
		if position < 0 {
			return false, nil
		}
		if s.hasIndex && s.signatureIndex != position {
			return false, nil
		}
	}
	if position < 0 || position >= len(c.parsed.PublicKeys) {
		return false, nil
	}

	results, err := c.resolve()
	if err != nil {
		return false, err
	}
	return results[position].Verified, nil
}
