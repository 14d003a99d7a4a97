// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package fixture

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"
)

// TestTweakPrivKey ensures the tweaked private key matches the taproot
// output key of its internal key for keys of both y parities.
func TestTweakPrivKey(t *testing.T) {
	t.Parallel()

	var odd, even int
	for i := byte(1); i <= 16; i++ {
		var seed [32]byte
		seed[31] = i
		priv, pub := btcec.PrivKeyFromBytes(seed[:])
		if pub.SerializeCompressed()[0] == 0x03 {
			odd++
		} else {
			even++
		}

		want := txscript.ComputeTaprootKeyNoScript(pub)
		got := tweakPrivKey(priv).PubKey()
		require.Equal(t, schnorr.SerializePubKey(want),
			schnorr.SerializePubKey(got), "seed %d", i)
	}
	require.NotZero(t, odd)
	require.NotZero(t, even)
}
