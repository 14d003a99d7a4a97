// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package network

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestByName ensures every registered network can be looked up by name and
// that unknown names are rejected.
func TestByName(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for _, net := range All() {
		_, dup := seen[net.Name]
		require.False(t, dup, "duplicate network name %s", net.Name)
		seen[net.Name] = struct{}{}

		got, err := ByName(net.Name)
		require.NoError(t, err)
		require.Same(t, net, got)
	}

	got, err := ByName("BITCOIN")
	require.NoError(t, err)
	require.Same(t, Bitcoin, got)

	_, err = ByName("zcash")
	require.Error(t, err)
}

// TestNetworkRules checks the chain rules the engine relies on.
func TestNetworkRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		net     *Network
		segwit  bool
		taproot bool
		forkID  bool
	}{
		{Bitcoin, true, true, false},
		{BitcoinTestnet, true, true, false},
		{BitcoinCash, false, false, true},
		{BitcoinSV, false, false, true},
		{BitcoinGold, true, false, true},
		{Litecoin, true, false, false},
		{Dogecoin, false, false, false},
		{ECash, false, false, true},
	}

	for _, test := range tests {
		require.Equal(t, test.segwit, test.net.SegwitActive, test.net.Name)
		require.Equal(t, test.taproot, test.net.TaprootActive, test.net.Name)
		require.Equal(t, test.forkID, test.net.UsesForkID, test.net.Name)
		require.True(t, test.net.RequireLowS, test.net.Name)
	}

	require.Equal(t, uint32(79), BitcoinGold.ForkID)
	require.Same(t, Bitcoin, BitcoinTestnet.Main())
	require.Same(t, Dogecoin, DogecoinTestnet.Main())
	require.Same(t, BitcoinTestnet, Bitcoin.Test())
	require.Same(t, ECashTestnet, ECash.Test())
	require.Same(t, LitecoinTestnet, LitecoinTestnet.Test())
	require.Equal(t, "mainnet", Bitcoin.Params.Name)
	require.Equal(t, "bitcoin", Bitcoin.Family.String())
	require.Nil(t, BitcoinCash.Params)
}
