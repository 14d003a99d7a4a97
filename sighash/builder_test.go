// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package sighash

import (
	"bytes"
	"testing"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/btcsuite/btcd/wire"
	"github.com/btcsuite/btcmultisig/network"
	"github.com/btcsuite/btcmultisig/template"
	"github.com/stretchr/testify/require"
)

// testTx returns a two input transaction spending outputs of the passed
// scripts along with the spent outputs.
func testTx(pkScripts ...[]byte) (*wire.MsgTx, []*wire.TxOut) {
	tx := wire.NewMsgTx(2)
	prevOuts := make([]*wire.TxOut, 0, len(pkScripts))
	for i, pkScript := range pkScripts {
		hash := chainhash.HashH([]byte{byte(i)})
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&hash, uint32(i)),
			nil, nil))
		prevOuts = append(prevOuts, wire.NewTxOut(
			int64(100000*(i+1)), pkScript,
		))
	}
	tx.AddTxOut(wire.NewTxOut(150000, bytes.Repeat([]byte{0x51}, 1)))
	return tx, prevOuts
}

func p2wshScript() []byte {
	return append([]byte{txscript.OP_0, txscript.OP_DATA_32},
		bytes.Repeat([]byte{0x01}, 32)...)
}

func p2trScript() []byte {
	return append([]byte{txscript.OP_1, txscript.OP_DATA_32},
		bytes.Repeat([]byte{0x02}, 32)...)
}

// TestValidateHashType ensures hash types are checked against the script
// type and the fork-id rules of the network.
func TestValidateHashType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		net      *network.Network
		st       template.ScriptType
		hashType txscript.SigHashType
		valid    bool
	}{
		{"all", network.Bitcoin, template.P2sh, txscript.SigHashAll, true},
		{"single acp", network.Bitcoin, template.P2wsh,
			txscript.SigHashSingle | txscript.SigHashAnyOneCanPay, true},
		{"zero legacy", network.Bitcoin, template.P2sh, 0, false},
		{"undefined", network.Bitcoin, template.P2sh, 0x04, false},
		{"forkid on bitcoin", network.Bitcoin, template.P2sh,
			txscript.SigHashAll | SigHashForkID, false},
		{"forkid on bch", network.BitcoinCash, template.P2sh,
			txscript.SigHashAll | SigHashForkID, true},
		{"no forkid on bch", network.BitcoinCash, template.P2sh,
			txscript.SigHashAll, false},
		{"taproot default", network.Bitcoin, template.P2tr,
			txscript.SigHashDefault, true},
		{"taproot acp default", network.Bitcoin, template.P2tr,
			txscript.SigHashAnyOneCanPay, false},
		{"taproot forkid", network.Bitcoin, template.P2tr,
			txscript.SigHashAll | SigHashForkID, false},
		{"wide", network.Bitcoin, template.P2sh, 0x101, false},
	}

	for _, test := range tests {
		err := ValidateHashType(test.net, test.st, test.hashType)
		if test.valid {
			require.NoError(t, err, test.name)
		} else {
			require.ErrorIs(t, err, ErrInvalidHashType, test.name)
		}
	}

	require.Equal(t, txscript.SigHashAll|SigHashForkID,
		DefaultHashType(network.BitcoinGold, template.P2wsh))
	require.Equal(t, txscript.SigHashDefault,
		DefaultHashType(network.Bitcoin, template.P2tr))
	require.Equal(t, txscript.SigHashAll,
		DefaultHashType(network.Litecoin, template.P2sh))
}

// TestLegacyDigest ensures legacy digests need no spent outputs and are
// memoized per request.
func TestLegacyDigest(t *testing.T) {
	t.Parallel()

	script := []byte{txscript.OP_TRUE}
	tx, _ := testTx(nil, nil)
	b, err := NewBuilder(network.Bitcoin, tx, nil)
	require.NoError(t, err)

	req := Request{
		InputIndex: 1,
		ScriptType: template.P2sh,
		HashType:   txscript.SigHashAll,
		Script:     script,
	}
	digest, err := b.Digest(req)
	require.NoError(t, err)

	want, err := txscript.CalcSignatureHash(script, txscript.SigHashAll,
		tx, 1)
	require.NoError(t, err)
	require.Equal(t, want, digest)

	again, err := b.Digest(req)
	require.NoError(t, err)
	require.Equal(t, digest, again)
	require.Len(t, b.memo, 1)

	req.InputIndex = 0
	other, err := b.Digest(req)
	require.NoError(t, err)
	require.NotEqual(t, digest, other)
	require.Len(t, b.memo, 2)

	req.InputIndex = 2
	_, err = b.Digest(req)
	require.ErrorIs(t, err, ErrInputIndex)
}

// TestMissingPrevOut ensures segwit, taproot and fork-id digests fail with
// ErrMissingPrevOut unless every spent output is known.
func TestMissingPrevOut(t *testing.T) {
	t.Parallel()

	tx, prevOuts := testTx(p2wshScript(), p2trScript())
	script := []byte{txscript.OP_TRUE}
	partial := []*wire.TxOut{prevOuts[0], nil}

	tests := []struct {
		name string
		net  *network.Network
		req  Request
	}{{
		name: "segwit",
		net:  network.Bitcoin,
		req: Request{ScriptType: template.P2wsh,
			HashType: txscript.SigHashAll, Script: script},
	}, {
		name: "taproot",
		net:  network.Bitcoin,
		req: Request{InputIndex: 1, ScriptType: template.P2tr,
			HashType: txscript.SigHashDefault, KeyPath: true},
	}, {
		name: "forkid",
		net:  network.BitcoinCash,
		req: Request{ScriptType: template.P2sh,
			HashType: txscript.SigHashAll | SigHashForkID,
			Script:   script},
	}}

	for _, test := range tests {
		b, err := NewBuilder(test.net, tx, partial)
		require.NoError(t, err)
		_, err = b.Digest(test.req)
		require.ErrorIs(t, err, ErrMissingPrevOut, test.name)

		b, err = NewBuilder(test.net, tx, prevOuts)
		require.NoError(t, err)
		digest, err := b.Digest(test.req)
		require.NoError(t, err, test.name)
		require.Len(t, digest, chainhash.HashSize)
	}

	_, err := NewBuilder(network.Bitcoin, tx,
		append(prevOuts, prevOuts[0]))
	require.ErrorIs(t, err, ErrPrevOutCount)
}

// TestForkIDDigest ensures the fork id is committed to by the digest.
func TestForkIDDigest(t *testing.T) {
	t.Parallel()

	script := []byte{txscript.OP_TRUE}
	tx, prevOuts := testTx(p2wshScript(), p2wshScript())
	req := Request{
		ScriptType: template.P2sh,
		HashType:   txscript.SigHashAll | SigHashForkID,
		Script:     script,
	}

	bch, err := NewBuilder(network.BitcoinCash, tx, prevOuts)
	require.NoError(t, err)
	bchDigest, err := bch.Digest(req)
	require.NoError(t, err)

	btg, err := NewBuilder(network.BitcoinGold, tx, prevOuts)
	require.NoError(t, err)
	btgDigest, err := btg.Digest(req)
	require.NoError(t, err)
	require.NotEqual(t, bchDigest, btgDigest)

	// Bitcoin cash uses a fork id of zero so its digest is the BIP143
	// digest with the flag set.
	sigHashes := txscript.NewTxSigHashes(tx,
		txscript.NewMultiPrevOutFetcher(map[wire.OutPoint]*wire.TxOut{
			tx.TxIn[0].PreviousOutPoint: prevOuts[0],
			tx.TxIn[1].PreviousOutPoint: prevOuts[1],
		}))
	want, err := txscript.CalcWitnessSigHash(script, sigHashes,
		req.HashType, tx, 0, prevOuts[0].Value)
	require.NoError(t, err)
	require.Equal(t, want, bchDigest)
}

// TestTaprootDigests ensures key path and script path digests differ and
// that the leaf script is committed to.
func TestTaprootDigests(t *testing.T) {
	t.Parallel()

	tx, prevOuts := testTx(p2trScript(), p2trScript())
	b, err := NewBuilder(network.Bitcoin, tx, prevOuts)
	require.NoError(t, err)

	keyPath, err := b.Digest(Request{
		ScriptType: template.P2tr,
		HashType:   txscript.SigHashDefault,
		KeyPath:    true,
	})
	require.NoError(t, err)

	leafA, err := b.Digest(Request{
		ScriptType: template.P2tr,
		HashType:   txscript.SigHashDefault,
		Script:     []byte{txscript.OP_TRUE},
	})
	require.NoError(t, err)

	leafB, err := b.Digest(Request{
		ScriptType: template.P2tr,
		HashType:   txscript.SigHashDefault,
		Script:     []byte{txscript.OP_2},
	})
	require.NoError(t, err)

	require.NotEqual(t, keyPath, leafA)
	require.NotEqual(t, leafA, leafB)

	all, err := b.Digest(Request{
		ScriptType: template.P2tr,
		HashType:   txscript.SigHashAll,
		KeyPath:    true,
	})
	require.NoError(t, err)
	require.NotEqual(t, keyPath, all)
}
