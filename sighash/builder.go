// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sighash

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcmultisig/network"
	"github.com/btcsuite/btcmultisig/template"
)

// Request describes the digest a signature of an input commits to.
type Request struct {
	// InputIndex is the index of the input being signed.
	InputIndex int

	// ScriptType is the encoding of the spent output.
	ScriptType template.ScriptType

	// HashType is the signature hash type.
	HashType txscript.SigHashType

	// Script is the script code: the redeem script of legacy inputs, the
	// witness script of segwit inputs or the leaf script of taproot
	// script path inputs.  It is unused for taproot key path inputs.
	Script []byte

	// KeyPath selects the taproot key path digest.
	KeyPath bool

	// LeafVersion is the leaf version of a taproot script path spend.
	// The zero value selects the base leaf version.
	LeafVersion txscript.TapscriptLeafVersion
}

// memoKey identifies a computed digest.
type memoKey struct {
	inputIndex int
	scriptType template.ScriptType
	hashType   txscript.SigHashType
	keyPath    bool
	script     chainhash.Hash
}

// Builder computes the signature digests of the inputs of a transaction.
// Digests are memoized so verifying many keys against an input hashes the
// transaction once per distinct request.  A Builder is not safe for
// concurrent use; create one per verification.
type Builder struct {
	net      *network.Network
	tx       *wire.MsgTx
	prevOuts []*wire.TxOut

	fetcher   *txscript.MultiPrevOutFetcher
	sigHashes *txscript.TxSigHashes
	memo      map[memoKey][]byte
}

// NewBuilder returns a digest builder for the transaction.  The spent
// outputs are indexed like the transaction inputs and may be shorter than
// the inputs or hold nil entries when only legacy digests are needed.
func NewBuilder(net *network.Network, tx *wire.MsgTx,
	prevOuts []*wire.TxOut) (*Builder, error) {

	if len(prevOuts) > len(tx.TxIn) {
		return nil, fmt.Errorf("%w: %d outputs for %d inputs",
			ErrPrevOutCount, len(prevOuts), len(tx.TxIn))
	}
	return &Builder{
		net:      net,
		tx:       tx,
		prevOuts: prevOuts,
		memo:     make(map[memoKey][]byte),
	}, nil
}

// PrevOut returns the spent output of the input or ErrMissingPrevOut.
func (b *Builder) PrevOut(idx int) (*wire.TxOut, error) {
	if idx < 0 || idx >= len(b.tx.TxIn) {
		return nil, fmt.Errorf("%w: %d", ErrInputIndex, idx)
	}
	if idx >= len(b.prevOuts) || b.prevOuts[idx] == nil {
		return nil, fmt.Errorf("%w: input %d", ErrMissingPrevOut, idx)
	}
	return b.prevOuts[idx], nil
}

// RequirePrevOuts returns ErrMissingPrevOut when digests of inputs of the
// script type need spent outputs that were not supplied.  Legacy digests
// need none while segwit, taproot and fork-id digests need all of them.
func (b *Builder) RequirePrevOuts(t template.ScriptType) error {
	if !t.IsSegwit() && !t.IsTaproot() &&
		(b.net == nil || !b.net.UsesForkID) {

		return nil
	}
	for i := range b.tx.TxIn {
		if _, err := b.PrevOut(i); err != nil {
			return err
		}
	}
	return nil
}

// midstate returns the cached BIP143 and BIP341 midstate of the
// transaction.  Every spent output is required since the taproot midstate
// commits to all of them.
func (b *Builder) midstate() (*txscript.TxSigHashes,
	*txscript.MultiPrevOutFetcher, error) {

	if b.sigHashes != nil {
		return b.sigHashes, b.fetcher, nil
	}

	fetcher := txscript.NewMultiPrevOutFetcher(nil)
	for i, txIn := range b.tx.TxIn {
		prevOut, err := b.PrevOut(i)
		if err != nil {
			return nil, nil, err
		}
		fetcher.AddPrevOut(txIn.PreviousOutPoint, prevOut)
	}
	b.fetcher = fetcher
	b.sigHashes = txscript.NewTxSigHashes(b.tx, fetcher)
	return b.sigHashes, b.fetcher, nil
}

// Digest returns the digest a signature described by the request commits
// to.
func (b *Builder) Digest(req Request) ([]byte, error) {
	if req.InputIndex < 0 || req.InputIndex >= len(b.tx.TxIn) {
		return nil, fmt.Errorf("%w: %d", ErrInputIndex, req.InputIndex)
	}
	err := ValidateHashType(b.net, req.ScriptType, req.HashType)
	if err != nil {
		return nil, err
	}

	key := memoKey{
		inputIndex: req.InputIndex,
		scriptType: req.ScriptType,
		hashType:   req.HashType,
		keyPath:    req.KeyPath,
		script:     chainhash.HashH(req.Script),
	}
	if digest, ok := b.memo[key]; ok {
		log.Tracef("Digest cache hit for input %d hash type %#x",
			req.InputIndex, uint32(req.HashType))
		return digest, nil
	}

	digest, err := b.calcDigest(req)
	if err != nil {
		return nil, err
	}
	b.memo[key] = digest
	log.Debugf("Computed %v digest for input %d hash type %#x: %x",
		req.ScriptType, req.InputIndex, uint32(req.HashType), digest)
	return digest, nil
}

// calcDigest computes the digest selected by the script type and network.
func (b *Builder) calcDigest(req Request) ([]byte, error) {
	idx := req.InputIndex
	switch {
	case req.ScriptType.IsTaproot():
		sigHashes, fetcher, err := b.midstate()
		if err != nil {
			return nil, err
		}
		if req.KeyPath {
			return txscript.CalcTaprootSignatureHash(
				sigHashes, req.HashType, b.tx, idx, fetcher,
			)
		}
		leafVersion := req.LeafVersion
		if leafVersion == 0 {
			leafVersion = txscript.BaseLeafVersion
		}
		leaf := txscript.NewTapLeaf(leafVersion, req.Script)
		return txscript.CalcTapscriptSignaturehash(
			sigHashes, req.HashType, b.tx, idx, fetcher, leaf,
		)

	case b.net != nil && b.net.UsesForkID:
		// Fork-id chains sign every input with the BIP143 preimage
		// and place the fork id in the upper bits of the hash type.
		sigHashes, _, err := b.midstate()
		if err != nil {
			return nil, err
		}
		prevOut, _ := b.PrevOut(idx)
		hashType := req.HashType | txscript.SigHashType(b.net.ForkID<<8)
		return txscript.CalcWitnessSigHash(
			req.Script, sigHashes, hashType, b.tx, idx,
			prevOut.Value,
		)

	case req.ScriptType.IsSegwit():
		sigHashes, _, err := b.midstate()
		if err != nil {
			return nil, err
		}
		prevOut, _ := b.PrevOut(idx)
		return txscript.CalcWitnessSigHash(
			req.Script, sigHashes, req.HashType, b.tx, idx,
			prevOut.Value,
		)
	}

	return txscript.CalcSignatureHash(req.Script, req.HashType, b.tx, idx)
}
