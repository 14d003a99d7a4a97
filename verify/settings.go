// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package verify

// verifySettings narrows the question asked by VerifySignature.
type verifySettings struct {
	publicKey      []byte
	signatureIndex int
	hasIndex       bool
}

// Setting narrows VerifySignature to a key or script position.
type Setting func(*verifySettings)

// WithPublicKey narrows verification to the signature of the key.  The key
// may be compressed or, for taproot inputs, x-only.
func WithPublicKey(pubKey []byte) Setting {
	return func(s *verifySettings) {
		s.publicKey = pubKey
	}
}

// WithSignatureIndex narrows verification to the signature of the key at
// the script position.
func WithSignatureIndex(index int) Setting {
	return func(s *verifySettings) {
		s.signatureIndex = index
		s.hasIndex = true
	}
}
