// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package fixture builds deterministic wallet spends of every supported
// script type in unsigned, half signed and fully signed states.  It is used
// by the tests of the script engine packages.
package fixture

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcmultisig/network"
	"github.com/btcsuite/btcmultisig/sighash"
	"github.com/btcsuite/btcmultisig/sigscript"
	"github.com/btcsuite/btcmultisig/template"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// SignState is how far a spend has progressed through co-signing.
type SignState uint8

const (
	// Unsigned spends carry only placeholders.
	Unsigned SignState = iota

	// HalfSigned spends carry the first signer's signature and
	// placeholders for the rest.
	HalfSigned

	// FullySigned spends carry threshold signatures in finalized form.
	FullySigned
)

// String returns the state name.
func (s SignState) String() string {
	switch s {
	case Unsigned:
		return "unsigned"
	case HalfSigned:
		return "halfsigned"
	case FullySigned:
		return "fullysigned"
	}
	return fmt.Sprintf("Unknown SignState (%d)", uint8(s))
}

// spendInput is the index of the wallet input of every spend.  Input 0
// spends another wallet output so digests commit to more than one input.
const spendInput = 1

// PrivKey returns the deterministic private key of the wallet role.
func PrivKey(role template.KeyRole) *btcec.PrivateKey {
	seed := sha256Tagged("fixture key", []byte(role.String()))
	priv, _ := btcec.PrivKeyFromBytes(seed[:])
	return priv
}

// Keys returns the compressed public keys of the deterministic wallet.
func Keys() template.KeyTriple {
	var keys template.KeyTriple
	for role := range keys {
		keys[role] = PrivKey(template.KeyRole(role)).PubKey().
			SerializeCompressed()
	}
	return keys
}

func sha256Tagged(tag string, msg []byte) chainhash.Hash {
	return *chainhash.TaggedHash([]byte(tag), msg)
}

// Spend is a transaction spending a wallet output at InputIndex.
type Spend struct {
	Net        *network.Network
	ScriptType template.ScriptType
	Scripts    *template.WalletScripts
	Tx         *wire.MsgTx
	PrevOuts   []*wire.TxOut
	InputIndex int

	// Signers are the roles that sign, in signing order.  The taproot
	// leaf is the leaf of the two signers.
	Signers [template.TapscriptKeyCount]template.KeyRole

	// Leaf is the taproot leaf spent.
	Leaf int

	// KeyPath is set for taproot key path spends built by
	// NewKeyPathSpend.
	KeyPath bool

	keyPathPriv *btcec.PrivateKey
}

// PrevOut returns the output spent by the wallet input.
func (s *Spend) PrevOut() *wire.TxOut {
	return s.PrevOuts[s.InputIndex]
}

// TxIn returns the wallet input.
func (s *Spend) TxIn() *wire.TxIn {
	return s.Tx.TxIn[s.InputIndex]
}

// Roles returns the roles of the input's keys in script order.
func (s *Spend) Roles() []template.KeyRole {
	switch {
	case s.ScriptType == template.P2shP2pk, s.KeyPath:
		return []template.KeyRole{template.KeyUser}
	case s.ScriptType == template.P2tr:
		signers, _ := template.LeafSigners(s.Leaf)
		return signers[:]
	}
	return []template.KeyRole{
		template.KeyUser, template.KeyBackup, template.KeyBitGo,
	}
}

// scriptsFor returns the wallet scripts of the script type.
func scriptsFor(t template.ScriptType) (*template.WalletScripts, error) {
	if t == template.P2shP2pk {
		return template.NewP2shP2pkScripts(Keys()[template.KeyUser])
	}
	return template.NewWalletScripts(t, Keys())
}

// newTx returns a two input transaction spending outputs paying to
// pkScript.
func newTx(pkScript []byte) (*wire.MsgTx, []*wire.TxOut) {
	tx := wire.NewMsgTx(2)
	prevOuts := make([]*wire.TxOut, 2)
	for i := range prevOuts {
		hash := chainhash.HashH([]byte(fmt.Sprintf("prevout %d", i)))
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&hash, uint32(i)),
			nil, nil))
		prevOuts[i] = wire.NewTxOut(int64(1e5*(i+1)), pkScript)
	}
	tx.AddTxOut(wire.NewTxOut(2e5, pkScript))
	tx.AddTxOut(wire.NewTxOut(9e4, []byte{txscript.OP_RETURN}))
	return tx, prevOuts
}

// NewSpend returns a spend of a wallet output of the script type signed by
// the signers up to the passed state.  Single key p2shP2pk spends are
// always signed by the user key; HalfSigned and FullySigned are the same
// state for them.
func NewSpend(net *network.Network, t template.ScriptType,
	signers [template.TapscriptKeyCount]template.KeyRole,
	state SignState) (*Spend, error) {

	if signers[0] == signers[1] && t != template.P2shP2pk {
		return nil, errors.New("signers must be distinct")
	}
	scripts, err := scriptsFor(t)
	if err != nil {
		return nil, err
	}
	tx, prevOuts := newTx(scripts.PubScript)
	s := &Spend{
		Net:        net,
		ScriptType: t,
		Scripts:    scripts,
		Tx:         tx,
		PrevOuts:   prevOuts,
		InputIndex: spendInput,
		Signers:    signers,
	}
	if t == template.P2tr {
		s.Leaf, err = scripts.Taproot.LeafIndex(signers[0], signers[1])
		if err != nil {
			return nil, err
		}
	}

	var signing []template.KeyRole
	switch state {
	case HalfSigned:
		signing = signers[:1]
	case FullySigned:
		signing = signers[:]
	}
	if t == template.P2shP2pk && len(signing) > 0 {
		signing = []template.KeyRole{template.KeyUser}
	}

	sigs := make(map[template.KeyRole][]byte, len(signing))
	for _, role := range signing {
		sig, err := s.SignatureFor(role)
		if err != nil {
			return nil, err
		}
		sigs[role] = sig
	}
	if err := s.write(sigs, state == FullySigned); err != nil {
		return nil, err
	}
	return s, nil
}

// signedScript returns the script committed to by signatures of the input.
func (s *Spend) signedScript() []byte {
	switch s.ScriptType {
	case template.P2shP2pk, template.P2sh:
		return s.Scripts.RedeemScript
	case template.P2shP2wsh, template.P2wsh:
		return s.Scripts.WitnessScript
	case template.P2tr:
		if s.KeyPath {
			return nil
		}
		return s.Scripts.Taproot.Leaves[s.Leaf]
	}
	return nil
}

// Digest returns the digest signed by the wallet input signatures.
func (s *Spend) Digest(hashType txscript.SigHashType) ([]byte, error) {
	builder, err := sighash.NewBuilder(s.Net, s.Tx, s.PrevOuts)
	if err != nil {
		return nil, err
	}
	return builder.Digest(sighash.Request{
		InputIndex: s.InputIndex,
		ScriptType: s.ScriptType,
		HashType:   hashType,
		Script:     s.signedScript(),
		KeyPath:    s.KeyPath,
	})
}

// SignatureFor returns the signature of the role over the wallet input with
// the network's default hash type.
func (s *Spend) SignatureFor(role template.KeyRole) ([]byte, error) {
	hashType := sighash.DefaultHashType(s.Net, s.ScriptType)
	digest, err := s.Digest(hashType)
	if err != nil {
		return nil, err
	}

	priv := PrivKey(role)
	if s.KeyPath {
		priv = s.keyPathPriv
	}
	if s.ScriptType.IsTaproot() {
		sig, err := schnorr.Sign(priv, digest)
		if err != nil {
			return nil, err
		}
		raw := sig.Serialize()
		if hashType != txscript.SigHashDefault {
			raw = append(raw, byte(hashType))
		}
		return raw, nil
	}
	sig := ecdsa.Sign(priv, digest)
	return append(sig.Serialize(), byte(hashType)), nil
}

// write encodes the signatures into the wallet input.  Finalized multisig
// inputs carry only the signatures in script order.  Other inputs carry one
// slot per key with placeholders for missing signatures.
func (s *Spend) write(sigs map[template.KeyRole][]byte, finalize bool) error {
	p := &sigscript.ParsedSignatureScript{
		ScriptType:    s.ScriptType,
		RedeemScript:  s.Scripts.RedeemScript,
		WitnessScript: s.Scripts.WitnessScript,
		PubScript:     s.signedScript(),
		KeyPath:       s.KeyPath,
	}
	if s.ScriptType == template.P2tr && !s.KeyPath {
		cb, err := s.Scripts.Taproot.ControlBlock(s.Leaf)
		if err != nil {
			return err
		}
		p.ControlBlock = cb
	}

	multisig := s.ScriptType != template.P2shP2pk &&
		s.ScriptType != template.P2tr
	for _, role := range s.Roles() {
		sig, ok := sigs[role]
		switch {
		case ok:
			p.Signatures = append(p.Signatures,
				sigscript.Signature(sig))
		case finalize && multisig:
			p.Signatures = append(p.Signatures, sigscript.Absent())
		default:
			p.Signatures = append(p.Signatures,
				sigscript.Placeholder())
		}
	}

	scriptSig, witness, err := sigscript.Encode(p)
	if err != nil {
		return err
	}
	txIn := s.TxIn()
	txIn.SignatureScript = scriptSig
	txIn.Witness = witness
	return nil
}

// SetSignature replaces the signature of the role in the wallet input and
// re-encodes it.  It is used to build tampered inputs.
func (s *Spend) SetSignature(role template.KeyRole, sig []byte) error {
	p, err := sigscript.Parse(s.TxIn(), s.PrevOut(), s.Net)
	if err != nil {
		return err
	}
	found := false
	if p.ScriptOrdered {
		for i, r := range s.Roles() {
			if r == role && i < len(p.Signatures) {
				p.Signatures[i] = sigscript.Signature(sig)
				found = true
			}
		}
	} else {
		// Finalized inputs hold the signers' signatures in script
		// order.
		var pos int
		for _, r := range s.Roles() {
			if r != s.Signers[0] && r != s.Signers[1] {
				continue
			}
			if r == role {
				p.Signatures[pos] = sigscript.Signature(sig)
				found = true
			}
			pos++
		}
	}
	if !found {
		return fmt.Errorf("role %v has no slot", role)
	}
	scriptSig, witness, err := sigscript.Encode(p)
	if err != nil {
		return err
	}
	s.TxIn().SignatureScript = scriptSig
	s.TxIn().Witness = witness
	return nil
}

// NewKeyPathSpend returns a spend of a single key taproot output whose
// internal key is the user key and whose script tree is empty.
func NewKeyPathSpend(net *network.Network, signed bool) (*Spend, error) {
	priv := PrivKey(template.KeyUser)
	internalKey := priv.PubKey()
	outputKey := txscript.ComputeTaprootKeyNoScript(internalKey)
	pkScript, err := template.P2trOutput(outputKey)
	if err != nil {
		return nil, err
	}

	tx, prevOuts := newTx(pkScript)
	s := &Spend{
		Net:        net,
		ScriptType: template.P2tr,
		Scripts: &template.WalletScripts{
			ScriptType: template.P2tr,
			PubScript:  pkScript,
		},
		Tx:          tx,
		PrevOuts:    prevOuts,
		InputIndex:  spendInput,
		Signers:     [2]template.KeyRole{template.KeyUser, template.KeyUser},
		KeyPath:     true,
		keyPathPriv: tweakPrivKey(priv),
	}

	sigs := make(map[template.KeyRole][]byte)
	if signed {
		sig, err := s.SignatureFor(template.KeyUser)
		if err != nil {
			return nil, err
		}
		sigs[template.KeyUser] = sig
	}
	if err := s.write(sigs, false); err != nil {
		return nil, err
	}
	return s, nil
}

// tweakPrivKey returns the private key of the output key of a taproot
// output with no script tree.
func tweakPrivKey(priv *btcec.PrivateKey) *btcec.PrivateKey {
	pubBytes := priv.PubKey().SerializeCompressed()
	key := priv.Key
	if pubBytes[0] == secp256k1.PubKeyFormatCompressedOdd {
		key.Negate()
	}
	tweakHash := chainhash.TaggedHash(
		chainhash.TagTapTweak, pubBytes[1:], []byte{},
	)
	var tweak secp256k1.ModNScalar
	tweak.SetByteSlice(tweakHash[:])
	key.Add(&tweak)
	return secp256k1.NewPrivateKey(&key)
}

// Signed returns whether the role signed the spend in the passed state.
func Signed(t template.ScriptType,
	signers [template.TapscriptKeyCount]template.KeyRole,
	state SignState, role template.KeyRole) bool {

	if t == template.P2shP2pk {
		return state != Unsigned && role == template.KeyUser
	}
	switch state {
	case HalfSigned:
		return role == signers[0]
	case FullySigned:
		return role == signers[0] || role == signers[1]
	}
	return false
}

// SignerPairs returns every ordered pair of distinct wallet roles.
func SignerPairs() [][template.TapscriptKeyCount]template.KeyRole {
	roles := []template.KeyRole{
		template.KeyUser, template.KeyBackup, template.KeyBitGo,
	}
	var pairs [][template.TapscriptKeyCount]template.KeyRole
	for _, a := range roles {
		for _, b := range roles {
			if a != b {
				pairs = append(pairs,
					[template.TapscriptKeyCount]template.KeyRole{a, b})
			}
		}
	}
	return pairs
}
