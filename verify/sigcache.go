// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

import (
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/decred/dcrd/lru"
)

// sigInfo represents an entry in the SigCache.  Entries in the sigcache are
// a 3-tuple: (sigHash, sig, pubKey).
type sigInfo struct {
	sigHash chainhash.Hash
	sig     string
	pubKey  string
}

// SigCache implements a signature verification cache with a least recently
// used eviction policy.  Only valid signatures are added to the cache.
// Co-signing services verify the same partially signed inputs repeatedly as
// each signer adds a signature; the cache lets them skip re-verifying the
// signatures they already checked.
//
// A SigCache is safe for concurrent access and may be shared by verifiers.
type SigCache struct {
	validSigs lru.Cache
}

// NewSigCache creates and initializes a new instance of SigCache.  Its sole
// parameter 'maxEntries' represents the maximum number of entries allowed to
// exist in the SigCache at any particular moment.  The least recently used
// entry is evicted to make room for new entries that would cause the number
// of entries in the cache to exceed the max.
func NewSigCache(maxEntries uint) *SigCache {
	return &SigCache{validSigs: lru.NewCache(maxEntries)}
}

// Exists returns true if an existing entry of 'sig' over 'sigHash' for public
// key 'pubKey' is found within the SigCache.  Otherwise, false is returned.
func (s *SigCache) Exists(sigHash []byte, sig, pubKey []byte) bool {
	if s == nil {
		return false
	}
	return s.validSigs.Contains(newSigInfo(sigHash, sig, pubKey))
}

// Add adds an entry for a signature over 'sigHash' under public key 'pubKey'
// to the signature cache.
func (s *SigCache) Add(sigHash []byte, sig, pubKey []byte) {
	if s == nil {
		return
	}
	s.validSigs.Add(newSigInfo(sigHash, sig, pubKey))
}

func newSigInfo(sigHash []byte, sig, pubKey []byte) sigInfo {
	info := sigInfo{sig: string(sig), pubKey: string(pubKey)}
	copy(info.sigHash[:], sigHash)
	return info
}
