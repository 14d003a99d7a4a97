// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/btcsuite/btcmultisig/internal/fixture"
	"github.com/btcsuite/btcmultisig/network"
	"github.com/btcsuite/btcmultisig/template"
	"github.com/btcsuite/btcmultisig/verify"
	"github.com/stretchr/testify/require"
)

func TestParsePrevOut(t *testing.T) {
	t.Parallel()

	prevOut, err := parsePrevOut("100000:0014aabb")
	require.NoError(t, err)
	require.Equal(t, int64(100000), prevOut.Value)
	require.Equal(t, []byte{0x00, 0x14, 0xaa, 0xbb}, prevOut.PkScript)

	for _, s := range []string{"100000", "x:00", "1:zz"} {
		_, err := parsePrevOut(s)
		require.Error(t, err, s)
	}
}

func TestParseTx(t *testing.T) {
	t.Parallel()

	s, err := fixture.NewSpend(network.Bitcoin, template.P2wsh,
		[2]template.KeyRole{template.KeyUser, template.KeyBitGo},
		fixture.FullySigned)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.Tx.Serialize(&buf))
	tx, err := parseTx(" " + hex.EncodeToString(buf.Bytes()) + "\n")
	require.NoError(t, err)
	require.Equal(t, s.Tx.TxHash(), tx.TxHash())
	require.Equal(t, s.TxIn().Witness, tx.TxIn[1].Witness)

	_, err = parseTx("0102")
	require.Error(t, err)
}

func TestInputReport(t *testing.T) {
	t.Parallel()

	keys := fixture.Keys()
	s, err := fixture.NewSpend(network.Bitcoin, template.P2shP2wsh,
		[2]template.KeyRole{template.KeyBackup, template.KeyBitGo},
		fixture.HalfSigned)
	require.NoError(t, err)

	cfg := &config{
		SigIndex: -1,
		prevOuts: s.PrevOuts,
		pubKeys:  [][]byte{keys[template.KeyBackup]},
	}
	v := verify.New(network.Bitcoin)

	var out bytes.Buffer
	require.NoError(t, inputReport(&out, cfg, v, s.Tx, s.InputIndex))
	report := out.String()
	require.Contains(t, report, "p2shP2wsh, 1 of 2 signatures, 2 placeholders")
	require.Contains(t, report, fmt.Sprintf("key 1 %x: signature verified=true",
		keys[template.KeyBackup]))
	require.Contains(t, report, fmt.Sprintf("key 2 %x: placeholder verified=false",
		keys[template.KeyBitGo]))
	require.Contains(t, report, "signed=true")
	require.Contains(t, report, "valid=true")

	cfg.pubKeys = [][]byte{keys[template.KeyUser]}
	out.Reset()
	require.NoError(t, inputReport(&out, cfg, v, s.Tx, s.InputIndex))
	require.Contains(t, out.String(), "valid=false")

	cfg.pubKeys = keys.Slice()
	out.Reset()
	require.NoError(t, inputReport(&out, cfg, v, s.Tx, s.InputIndex))
	report = out.String()
	require.Contains(t, report, fmt.Sprintf("pubkey %x signed=false",
		keys[template.KeyUser]))
	require.Contains(t, report, fmt.Sprintf("pubkey %x signed=true",
		keys[template.KeyBackup]))
	require.Contains(t, report, fmt.Sprintf("pubkey %x signed=false",
		keys[template.KeyBitGo]))
	require.Contains(t, report, "valid=true")

	cfg.prevOuts = nil
	require.Error(t, inputReport(&out, cfg, v, s.Tx, s.InputIndex))
}
