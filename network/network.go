// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package network

import (
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/chaincfg"
)

// Family identifies a chain family sharing script and signature hash rules.
type Family uint8

const (
	// FamilyBitcoin is bitcoin and its test networks.
	FamilyBitcoin Family = iota

	// FamilyBitcoinCash is the bitcoin cash chain.
	FamilyBitcoinCash

	// FamilyBitcoinSV is the bitcoin sv chain.
	FamilyBitcoinSV

	// FamilyBitcoinGold is the bitcoin gold chain.
	FamilyBitcoinGold

	// FamilyLitecoin is the litecoin chain.
	FamilyLitecoin

	// FamilyDogecoin is the dogecoin chain.
	FamilyDogecoin

	// FamilyECash is the ecash chain.
	FamilyECash
)

var familyStrings = map[Family]string{
	FamilyBitcoin:     "bitcoin",
	FamilyBitcoinCash: "bitcoincash",
	FamilyBitcoinSV:   "bitcoinsv",
	FamilyBitcoinGold: "bitcoingold",
	FamilyLitecoin:    "litecoin",
	FamilyDogecoin:    "dogecoin",
	FamilyECash:       "ecash",
}

// String returns the family name.
func (f Family) String() string {
	if s, ok := familyStrings[f]; ok {
		return s
	}
	return fmt.Sprintf("Unknown Family (%d)", uint8(f))
}

// Network holds the chain specific parameters the script engine needs to
// classify inputs and reconstruct signature digests.  Values are never
// modified once registered.
type Network struct {
	// Name is the unique name of the network.
	Name string

	// Family is the chain family the network belongs to.
	Family Family

	// Mainnet is true for production networks.
	Mainnet bool

	// Params are the btcd chain parameters.  Only set for the bitcoin
	// family.
	Params *chaincfg.Params

	// SegwitActive reports whether witness v0 spends are valid.
	SegwitActive bool

	// TaprootActive reports whether witness v1 spends are valid.
	TaprootActive bool

	// UsesForkID reports whether signatures must carry SIGHASH_FORKID and
	// commit to the BIP143 style replay protected digest.
	UsesForkID bool

	// ForkID is the value placed in the upper bits of the hash type when
	// UsesForkID is set.
	ForkID uint32

	// RequireLowS reports whether ECDSA signatures with an S value above
	// the half order are rejected.
	RequireLowS bool
}

// String returns the network name.
func (n *Network) String() string {
	return n.Name
}

// Main returns the production network of the same family.
func (n *Network) Main() *Network {
	for _, net := range registered {
		if net.Family == n.Family && net.Mainnet {
			return net
		}
	}
	return n
}

// Test returns the first registered test network of the same family.
func (n *Network) Test() *Network {
	for _, net := range registered {
		if net.Family == n.Family && !net.Mainnet {
			return net
		}
	}
	return n
}

var (
	// Bitcoin is the bitcoin main network.
	Bitcoin = &Network{
		Name:          "bitcoin",
		Family:        FamilyBitcoin,
		Mainnet:       true,
		Params:        &chaincfg.MainNetParams,
		SegwitActive:  true,
		TaprootActive: true,
		RequireLowS:   true,
	}

	// BitcoinTestnet is the bitcoin test network (version 3).
	BitcoinTestnet = &Network{
		Name:          "testnet",
		Family:        FamilyBitcoin,
		Params:        &chaincfg.TestNet3Params,
		SegwitActive:  true,
		TaprootActive: true,
		RequireLowS:   true,
	}

	// BitcoinRegtest is the bitcoin regression test network.
	BitcoinRegtest = &Network{
		Name:          "regtest",
		Family:        FamilyBitcoin,
		Params:        &chaincfg.RegressionNetParams,
		SegwitActive:  true,
		TaprootActive: true,
		RequireLowS:   true,
	}

	// BitcoinSignet is the default bitcoin signet.
	BitcoinSignet = &Network{
		Name:          "signet",
		Family:        FamilyBitcoin,
		Params:        &chaincfg.SigNetParams,
		SegwitActive:  true,
		TaprootActive: true,
		RequireLowS:   true,
	}

	// BitcoinCash is the bitcoin cash main network.
	BitcoinCash = &Network{
		Name:        "bitcoincash",
		Family:      FamilyBitcoinCash,
		Mainnet:     true,
		UsesForkID:  true,
		RequireLowS: true,
	}

	// BitcoinCashTestnet is the bitcoin cash test network.
	BitcoinCashTestnet = &Network{
		Name:        "bitcoincashTestnet",
		Family:      FamilyBitcoinCash,
		UsesForkID:  true,
		RequireLowS: true,
	}

	// BitcoinSV is the bitcoin sv main network.
	BitcoinSV = &Network{
		Name:        "bitcoinsv",
		Family:      FamilyBitcoinSV,
		Mainnet:     true,
		UsesForkID:  true,
		RequireLowS: true,
	}

	// BitcoinSVTestnet is the bitcoin sv test network.
	BitcoinSVTestnet = &Network{
		Name:        "bitcoinsvTestnet",
		Family:      FamilyBitcoinSV,
		UsesForkID:  true,
		RequireLowS: true,
	}

	// BitcoinGold is the bitcoin gold main network.
	BitcoinGold = &Network{
		Name:         "bitcoingold",
		Family:       FamilyBitcoinGold,
		Mainnet:      true,
		SegwitActive: true,
		UsesForkID:   true,
		ForkID:       79,
		RequireLowS:  true,
	}

	// BitcoinGoldTestnet is the bitcoin gold test network.
	BitcoinGoldTestnet = &Network{
		Name:         "bitcoingoldTestnet",
		Family:       FamilyBitcoinGold,
		SegwitActive: true,
		UsesForkID:   true,
		ForkID:       79,
		RequireLowS:  true,
	}

	// Litecoin is the litecoin main network.
	Litecoin = &Network{
		Name:         "litecoin",
		Family:       FamilyLitecoin,
		Mainnet:      true,
		SegwitActive: true,
		RequireLowS:  true,
	}

	// LitecoinTestnet is the litecoin test network.
	LitecoinTestnet = &Network{
		Name:         "litecoinTest",
		Family:       FamilyLitecoin,
		SegwitActive: true,
		RequireLowS:  true,
	}

	// Dogecoin is the dogecoin main network.
	Dogecoin = &Network{
		Name:        "dogecoin",
		Family:      FamilyDogecoin,
		Mainnet:     true,
		RequireLowS: true,
	}

	// DogecoinTestnet is the dogecoin test network.
	DogecoinTestnet = &Network{
		Name:        "dogecoinTest",
		Family:      FamilyDogecoin,
		RequireLowS: true,
	}

	// ECash is the ecash main network.
	ECash = &Network{
		Name:        "ecash",
		Family:      FamilyECash,
		Mainnet:     true,
		UsesForkID:  true,
		RequireLowS: true,
	}

	// ECashTestnet is the ecash test network.
	ECashTestnet = &Network{
		Name:        "ecashTest",
		Family:      FamilyECash,
		UsesForkID:  true,
		RequireLowS: true,
	}
)

// registered lists every known network in a stable order.
var registered = []*Network{
	Bitcoin, BitcoinTestnet, BitcoinRegtest, BitcoinSignet,
	BitcoinCash, BitcoinCashTestnet,
	BitcoinSV, BitcoinSVTestnet,
	BitcoinGold, BitcoinGoldTestnet,
	Litecoin, LitecoinTestnet,
	Dogecoin, DogecoinTestnet,
	ECash, ECashTestnet,
}

// All returns every registered network.
func All() []*Network {
	nets := make([]*Network, len(registered))
	copy(nets, registered)
	return nets
}

// ByName returns the registered network with the given name.  The lookup is
// case insensitive.
func ByName(name string) (*Network, error) {
	for _, net := range registered {
		if strings.EqualFold(net.Name, name) {
			return net, nil
		}
	}
	return nil, fmt.Errorf("unknown network %q", name)
}
