// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package template

import (
	"bytes"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

// numsInternalKeyHex is the BIP341 nothing-up-my-sleeve point
// H = lift_x(sha256(G)).  Using it as the internal key disables the key path
// of wallet taproot outputs built by NewTaprootScripts.
const numsInternalKeyHex = "50929b74c1a04954b78b4b6035e97a5e078a5a0f28ec96d547bfee9ace803ac0"

// numsInternalKey is the parsed form of numsInternalKeyHex.
var numsInternalKey = func() *btcec.PublicKey {
	raw, err := hex.DecodeString(numsInternalKeyHex)
	if err != nil {
		panic(err)
	}
	key, err := schnorr.ParsePubKey(raw)
	if err != nil {
		panic(err)
	}
	return key
}()

// NUMSInternalKey returns the unspendable internal key of wallet taproot
// outputs.
func NUMSInternalKey() *btcec.PublicKey {
	return numsInternalKey
}

// taprootLeafSigners lists the wallet keys of each leaf in tree order.  The
// first two leaves share the deepest branch.  The user and bitgo leaf sits
// one level up since it is the common signing path.
var taprootLeafSigners = [WalletKeyCount][TapscriptKeyCount]KeyRole{
	{KeyUser, KeyBackup},
	{KeyBackup, KeyBitGo},
	{KeyUser, KeyBitGo},
}

// LeafSigners returns the wallet key roles of the leaf at the given index in
// script order.
func LeafSigners(leaf int) ([TapscriptKeyCount]KeyRole, error) {
	if leaf < 0 || leaf >= len(taprootLeafSigners) {
		return [TapscriptKeyCount]KeyRole{}, fmt.Errorf("%w: %d",
			ErrUnknownLeaf, leaf)
	}
	return taprootLeafSigners[leaf], nil
}

// TaprootScripts is the script tree of a wallet taproot output.
type TaprootScripts struct {
	// InternalKey is the untweaked internal key.
	InternalKey *btcec.PublicKey

	// OutputKey is the internal key tweaked with the tree root.
	OutputKey *btcec.PublicKey

	// Leaves are the tapscript leaf scripts indexed by leaf.
	Leaves [WalletKeyCount][]byte

	tree *txscript.IndexedTapScriptTree
}

// NewTaprootScripts builds the script tree committing to one 2-of-2 leaf per
// pair of wallet keys.
func NewTaprootScripts(keys KeyTriple) (*TaprootScripts, error) {
	if err := keys.Validate(); err != nil {
		return nil, err
	}

	t := &TaprootScripts{InternalKey: numsInternalKey}
	tapLeaves := make([]txscript.TapLeaf, 0, len(taprootLeafSigners))
	for i, signers := range taprootLeafSigners {
		script, err := TapscriptMultiSig([TapscriptKeyCount][]byte{
			keys[signers[0]], keys[signers[1]],
		})
		if err != nil {
			return nil, err
		}
		t.Leaves[i] = script
		tapLeaves = append(tapLeaves, txscript.NewBaseTapLeaf(script))
	}

	t.tree = txscript.AssembleTaprootScriptTree(tapLeaves...)
	rootHash := t.tree.RootNode.TapHash()
	t.OutputKey = txscript.ComputeTaprootOutputKey(
		t.InternalKey, rootHash[:],
	)
	return t, nil
}

// RootHash returns the merkle root of the script tree.
func (t *TaprootScripts) RootHash() chainhash.Hash {
	return t.tree.RootNode.TapHash()
}

// PubScript returns the output script paying to the tree.
func (t *TaprootScripts) PubScript() ([]byte, error) {
	return P2trOutput(t.OutputKey)
}

// ControlBlock returns the serialized control block proving the inclusion of
// the leaf in the tree.
func (t *TaprootScripts) ControlBlock(leaf int) ([]byte, error) {
	if leaf < 0 || leaf >= len(t.tree.LeafMerkleProofs) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLeaf, leaf)
	}
	proof := t.tree.LeafMerkleProofs[leaf]
	cb := proof.ToControlBlock(t.InternalKey)
	cb.OutputKeyYIsOdd = t.OutputKey.SerializeCompressed()[0] ==
		secp256k1.PubKeyFormatCompressedOdd
	return cb.ToBytes()
}

// LeafIndex returns the leaf whose keys are exactly the two passed roles in
// either order.
func (t *TaprootScripts) LeafIndex(a, b KeyRole) (int, error) {
	for i, signers := range taprootLeafSigners {
		if (signers[0] == a && signers[1] == b) ||
			(signers[0] == b && signers[1] == a) {

			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %v and %v", ErrUnknownLeaf, a, b)
}

// FindLeaf returns the index of the leaf with the passed script.
func (t *TaprootScripts) FindLeaf(script []byte) (int, bool) {
	for i, leaf := range t.Leaves {
		if bytes.Equal(leaf, script) {
			return i, true
		}
	}
	return 0, false
}
