// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/txscript"
	"github.com/stretchr/testify/require"
)

func testSig(t *testing.T, seed byte) ([]byte, []byte, *btcec.PublicKey) {
	t.Helper()

	priv, _ := btcec.PrivKeyFromBytes(chainhash.DoubleHashB([]byte{seed}))
	digest := chainhash.HashB([]byte{seed, seed})
	sig := ecdsa.Sign(priv, digest)
	return append(sig.Serialize(), byte(txscript.SigHashAll)), digest,
		priv.PubKey()
}

// TestHighS ensures the high-S form of a signature keeps R and the hash type,
// still verifies and is no longer low-S.
func TestHighS(t *testing.T) {
	t.Parallel()

	for seed := byte(0); seed < 16; seed++ {
		sig, digest, pubKey := testSig(t, seed)
		require.True(t, IsLowS(sig))

		high, err := HighS(sig)
		require.NoError(t, err)
		require.False(t, IsLowS(high))
		require.Equal(t, sig[len(sig)-1], high[len(high)-1])

		der, _, ok := splitECDSA(high)
		require.True(t, ok)
		parsed, err := ecdsa.ParseDERSignature(der)
		require.NoError(t, err)
		require.True(t, parsed.Verify(digest, pubKey))

		_, err = HighS(high)
		require.ErrorIs(t, err, ErrHighS)
	}

	_, err := HighS([]byte{0x01})
	require.ErrorIs(t, err, ErrNotECDSA)
	_, err = HighS([]byte{0x30, 0x00, 0x01})
	require.ErrorIs(t, err, ErrNotECDSA)
	require.False(t, IsLowS(nil))
}

func TestEncodeDERInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []byte
		want []byte
	}{
		{[]byte{0x01}, []byte{0x02, 0x01, 0x01}},
		{[]byte{0x00, 0x00, 0x7f}, []byte{0x02, 0x01, 0x7f}},
		{[]byte{0x80}, []byte{0x02, 0x02, 0x00, 0x80}},
		{[]byte{0x00, 0x80}, []byte{0x02, 0x02, 0x00, 0x80}},
		{[]byte{0x00}, []byte{0x02, 0x01, 0x00}},
	}
	for _, test := range tests {
		require.Equal(t, test.want, encodeDERInt(test.in), "%x", test.in)
	}
}

func TestSplitSchnorr(t *testing.T) {
	t.Parallel()

	sig := make([]byte, 64)
	raw, hashType, ok := splitSchnorr(sig)
	require.True(t, ok)
	require.Len(t, raw, 64)
	require.Equal(t, txscript.SigHashDefault, hashType)

	raw, hashType, ok = splitSchnorr(append(sig, byte(txscript.SigHashAll)))
	require.True(t, ok)
	require.Len(t, raw, 64)
	require.Equal(t, txscript.SigHashAll, hashType)

	_, _, ok = splitSchnorr(append(sig, byte(txscript.SigHashDefault)))
	require.False(t, ok)
	_, _, ok = splitSchnorr(sig[:63])
	require.False(t, ok)
}

func TestSigCache(t *testing.T) {
	t.Parallel()

	var nilCache *SigCache
	nilCache.Add([]byte{0x01}, []byte{0x02}, []byte{0x03})
	require.False(t, nilCache.Exists([]byte{0x01}, []byte{0x02},
		[]byte{0x03}))

	cache := NewSigCache(2)
	hash := func(b byte) []byte { return chainhash.HashB([]byte{b}) }
	cache.Add(hash(1), []byte{0x01}, []byte{0xaa})
	cache.Add(hash(2), []byte{0x02}, []byte{0xaa})
	require.True(t, cache.Exists(hash(1), []byte{0x01}, []byte{0xaa}))
	require.False(t, cache.Exists(hash(1), []byte{0x01}, []byte{0xbb}))
	require.False(t, cache.Exists(hash(1), []byte{0x02}, []byte{0xaa}))

	// One of the older entries is evicted to stay within the limit.
	cache.Add(hash(3), []byte{0x03}, []byte{0xaa})
	require.True(t, cache.Exists(hash(3), []byte{0x03}, []byte{0xaa}))
	var kept int
	for i := byte(1); i <= 2; i++ {
		if cache.Exists(hash(i), []byte{i}, []byte{0xaa}) {
			kept++
		}
	}
	require.Equal(t, 1, kept)
}
