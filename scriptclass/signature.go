// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package scriptclass

import (
	"errors"
	"fmt"

	"github.com/btcsuite/btcd/txscript"
)

const (
	// minSigLen is the minimum length of a DER encoded signature and is
	// when both R and S are 1 byte each.
	// 0x30 + <1-byte> + 0x02 + 0x01 + <byte> + 0x2 + 0x01 + <byte>
	minSigLen = 8

	// maxSigLen is the maximum length of a DER encoded signature and is
	// when both R and S are 33 bytes each.  It is 33 bytes because a
	// 256-bit integer requires 32 bytes and an additional leading null byte
	// might be required if the high bit is set in the value.
	//
	// 0x30 + <1-byte> + 0x02 + 0x21 + <33 bytes> + 0x2 + 0x21 + <33 bytes>
	maxSigLen = 72

	// SchnorrSigLen is the length of a BIP340 signature without an
	// explicit sighash type.
	SchnorrSigLen = 64

	// sigHashForkID is the replay protection bit used by fork-id chains.
	sigHashForkID = 0x40
)

// ErrMalformedSignature is returned when a signature is not strictly DER
// encoded.
var ErrMalformedSignature = errors.New("malformed signature")

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedSignature,
		fmt.Sprintf(format, args...))
}

// DERComponents checks that sig (without the trailing hash type byte) is a
// strictly DER encoded ECDSA signature as required by BIP66 and returns
// slices of sig holding the big-endian R and S values.
func DERComponents(sig []byte) (r, s []byte, err error) {
	// The format of a DER encoded signature is as follows:
	//
	// 0x30 <total length> 0x02 <length of R> <R> 0x02 <length of S> <S>
	//   - 0x30 is the ASN.1 identifier for a sequence
	//   - Total length is 1 byte and specifies length of all remaining data
	//   - 0x02 is the ASN.1 identifier that specifies an integer follows
	//   - Length of R is 1 byte and specifies how many bytes R occupies
	//   - R is the arbitrary length big-endian encoded number which
	//     represents the R value of the signature.  DER encoding dictates
	//     that the value must be encoded using the minimum possible number
	//     of bytes.  This implies the first byte can only be null if the
	//     highest bit of the next byte is set in order to prevent it from
	//     being interpreted as a negative number.
	//   - 0x02 is once again the ASN.1 integer identifier
	//   - Length of S is 1 byte and specifies how many bytes S occupies
	//   - S is the arbitrary length big-endian encoded number which
	//     represents the S value of the signature.  The encoding rules are
	//     identical as those for R.
	const (
		asn1SequenceID = 0x30
		asn1IntegerID  = 0x02

		sequenceOffset   = 0
		dataLenOffset    = 1
		rTypeOffset      = 2
		rLenOffset       = 3
		rOffset          = 4
		minSigLenWithLen = 6
	)

	sigLen := len(sig)
	if sigLen < minSigLen {
		return nil, nil, malformed("too short: %d < %d", sigLen,
			minSigLen)
	}
	if sigLen > maxSigLen {
		return nil, nil, malformed("too long: %d > %d", sigLen,
			maxSigLen)
	}
	if sig[sequenceOffset] != asn1SequenceID {
		return nil, nil, malformed("wrong type: %#x",
			sig[sequenceOffset])
	}
	if int(sig[dataLenOffset]) != sigLen-2 {
		return nil, nil, malformed("bad length: %d != %d",
			sig[dataLenOffset], sigLen-2)
	}

	// Calculate the offsets of the elements related to S and ensure S is
	// inside the signature.
	rLen := int(sig[rLenOffset])
	sTypeOffset := rOffset + rLen
	sLenOffset := sTypeOffset + 1
	if sTypeOffset >= sigLen {
		return nil, nil, malformed("S type indicator missing")
	}
	if sLenOffset >= sigLen {
		return nil, nil, malformed("S length missing")
	}

	// The lengths of R and S must match the overall length of the
	// signature.
	sOffset := sLenOffset + 1
	sLen := int(sig[sLenOffset])
	if sOffset+sLen != sigLen {
		return nil, nil, malformed("invalid S length")
	}

	// R elements must be ASN.1 integers.
	if sig[rTypeOffset] != asn1IntegerID {
		return nil, nil, malformed("invalid R integer marker: %#x",
			sig[rTypeOffset])
	}

	// Zero-length integers are not allowed for R.
	if rLen == 0 {
		return nil, nil, malformed("R length is zero")
	}

	// R must not be negative.
	if sig[rOffset]&0x80 != 0 {
		return nil, nil, malformed("R is negative")
	}

	// Null bytes at the start of R are not allowed, unless R would
	// otherwise be interpreted as a negative number.
	if rLen > 1 && sig[rOffset] == 0x00 && sig[rOffset+1]&0x80 == 0 {
		return nil, nil, malformed("R value has too much padding")
	}

	// S elements must be ASN.1 integers.
	if sig[sTypeOffset] != asn1IntegerID {
		return nil, nil, malformed("invalid S integer marker: %#x",
			sig[sTypeOffset])
	}

	// Zero-length integers are not allowed for S.
	if sLen == 0 {
		return nil, nil, malformed("S length is zero")
	}

	// S must not be negative.
	if sig[sOffset]&0x80 != 0 {
		return nil, nil, malformed("S is negative")
	}

	// Null bytes at the start of S are not allowed, unless S would
	// otherwise be interpreted as a negative number.
	if sLen > 1 && sig[sOffset] == 0x00 && sig[sOffset+1]&0x80 == 0 {
		return nil, nil, malformed("S value has too much padding")
	}

	return sig[rOffset : rOffset+rLen], sig[sOffset : sOffset+sLen], nil
}

// IsDefinedHashType returns whether the hash type byte of an ECDSA signature
// is one of the defined sighash types, optionally combined with the
// ANYONECANPAY and FORKID bits.
func IsDefinedHashType(hashType byte) bool {
	base := hashType &^ (byte(txscript.SigHashAnyOneCanPay) | sigHashForkID)
	return base >= byte(txscript.SigHashAll) &&
		base <= byte(txscript.SigHashSingle)
}

// IsCanonicalSignature returns whether the passed script item is a strictly
// DER encoded ECDSA signature followed by a defined hash type byte.
func IsCanonicalSignature(item []byte) bool {
	if len(item) < minSigLen+1 {
		return false
	}
	if !IsDefinedHashType(item[len(item)-1]) {
		return false
	}
	_, _, err := DERComponents(item[:len(item)-1])
	return err == nil
}

// IsSchnorrSignature returns whether the passed witness item has the shape
// of a BIP340 signature with an optional explicit hash type.  A 65 byte
// signature with the default hash type is invalid per BIP341.
func IsSchnorrSignature(item []byte) bool {
	switch len(item) {
	case SchnorrSigLen:
		return true
	case SchnorrSigLen + 1:
		hashType := txscript.SigHashType(item[SchnorrSigLen])
		switch hashType {
		case txscript.SigHashAll, txscript.SigHashNone,
			txscript.SigHashSingle,
			txscript.SigHashAll | txscript.SigHashAnyOneCanPay,
			txscript.SigHashNone | txscript.SigHashAnyOneCanPay,
			txscript.SigHashSingle | txscript.SigHashAnyOneCanPay:

			return true
		}
	}
	return false
}

// IsPlaceholder returns whether the item is the empty push used to mark an
// unfilled signature slot.
func IsPlaceholder(item []byte) bool {
	return len(item) == 0
}
