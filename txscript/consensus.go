// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
)

const (
	// LockTimeThreshold is the number below which a lock time is
	// interpreted to be a block number.
	LockTimeThreshold = 5e8 // Tue Nov 5 00:53:20 1985 UTC
)

// Strict DER signature layout:
//
//	0x30 <len> 0x02 <len R> <R> 0x02 <len S> <S>
//
// R and S are big-endian, minimally encoded and non-negative, so a leading
// zero byte is only permitted when the following byte has its high bit set.
const (
	asn1SequenceID = 0x30
	asn1IntegerID  = 0x02

	// minDERSigLen is the length when R and S are a single byte each.
	minDERSigLen = 8

	// maxDERSigLen is the length when R and S are 33 bytes each, which is a
	// 256-bit value plus a padding byte.
	maxDERSigLen = 72

	derDataLenOffset = 1
	derRTypeOffset   = 2
)

// derIntegerKinds are the error kinds reported for a malformed R or S value.
type derIntegerKinds struct {
	name     string
	badID    ErrorKind
	zeroLen  ErrorKind
	negative ErrorKind
	padding  ErrorKind
}

var (
	derRKinds = derIntegerKinds{"R", ErrSigInvalidRIntID, ErrSigZeroRLen,
		ErrSigNegativeR, ErrSigTooMuchRPadding}
	derSKinds = derIntegerKinds{"S", ErrSigInvalidSIntID, ErrSigZeroSLen,
		ErrSigNegativeS, ErrSigTooMuchSPadding}
)

// checkDERInteger validates the ASN.1 integer whose type identifier is at
// typeOffset and returns its value bytes.  The caller must have ensured the
// full integer lies within the signature.
func checkDERInteger(sig []byte, typeOffset int, kinds derIntegerKinds) ([]byte, error) {
	if sig[typeOffset] != asn1IntegerID {
		str := fmt.Sprintf("malformed signature: %s integer marker: %#x != %#x",
			kinds.name, sig[typeOffset], asn1IntegerID)
		return nil, scriptError(kinds.badID, str)
	}

	valLen := int(sig[typeOffset+1])
	val := sig[typeOffset+2 : typeOffset+2+valLen]
	switch {
	case valLen == 0:
		str := fmt.Sprintf("malformed signature: %s length is zero", kinds.name)
		return nil, scriptError(kinds.zeroLen, str)

	case val[0]&0x80 != 0:
		str := fmt.Sprintf("malformed signature: %s is negative", kinds.name)
		return nil, scriptError(kinds.negative, str)

	case valLen > 1 && val[0] == 0x00 && val[1]&0x80 == 0:
		str := fmt.Sprintf("malformed signature: %s value has too much "+
			"padding", kinds.name)
		return nil, scriptError(kinds.padding, str)
	}
	return val, nil
}

// CheckSignatureEncoding returns an error when the passed signature is not a
// strictly DER encoded secp256k1 ECDSA signature with a canonical (low) S
// value.  The signature must not include the hash type byte.
func CheckSignatureEncoding(sig []byte) error {
	sigLen := len(sig)
	switch {
	case sigLen < minDERSigLen:
		str := fmt.Sprintf("malformed signature: too short: %d < %d", sigLen,
			minDERSigLen)
		return scriptError(ErrSigTooShort, str)

	case sigLen > maxDERSigLen:
		str := fmt.Sprintf("malformed signature: too long: %d > %d", sigLen,
			maxDERSigLen)
		return scriptError(ErrSigTooLong, str)

	case sig[0] != asn1SequenceID:
		str := fmt.Sprintf("malformed signature: format has wrong type: %#x",
			sig[0])
		return scriptError(ErrSigInvalidSeqID, str)

	case int(sig[derDataLenOffset]) != sigLen-2:
		str := fmt.Sprintf("malformed signature: bad length: %d != %d",
			sig[derDataLenOffset], sigLen-2)
		return scriptError(ErrSigInvalidDataLen, str)
	}

	// The S type and length bytes follow R and the remainder must be exactly
	// the S value.
	sTypeOffset := derRTypeOffset + 2 + int(sig[derRTypeOffset+1])
	if sTypeOffset >= sigLen {
		return scriptError(ErrSigMissingSTypeID,
			"malformed signature: S type indicator missing")
	}
	if sTypeOffset+1 >= sigLen {
		return scriptError(ErrSigMissingSLen,
			"malformed signature: S length missing")
	}
	if sTypeOffset+2+int(sig[sTypeOffset+1]) != sigLen {
		return scriptError(ErrSigInvalidSLen,
			"malformed signature: invalid S length")
	}

	if _, err := checkDERInteger(sig, derRTypeOffset, derRKinds); err != nil {
		return err
	}
	sBytes, err := checkDERInteger(sig, sTypeOffset, derSKinds)
	if err != nil {
		return err
	}

	// S must be in the lower half of the group order.  The length check
	// guards against SetByteSlice silently truncating.
	for len(sBytes) > 0 && sBytes[0] == 0x00 {
		sBytes = sBytes[1:]
	}
	var s secp256k1.ModNScalar
	switch {
	case len(sBytes) > 32:
		return scriptError(ErrSigHighS,
			"non-canonical signature: S is larger than 256 bits")
	case s.SetByteSlice(sBytes):
		return scriptError(ErrSigHighS,
			"non-canonical signature: S >= group order")
	case s.IsOverHalfOrder():
		return scriptError(ErrSigHighS,
			"non-canonical signature: S > group half order")
	}
	return nil
}

// IsStrictSignatureEncoding returns false if the passed signature does not
// adhere to the strict encoding requirements.
func IsStrictSignatureEncoding(signature []byte) bool {
	return CheckSignatureEncoding(signature) == nil
}

// IsStrictCompressedPubKeyEncoding returns whether or not the passed public
// key is a 33-byte compressed secp256k1 key.
func IsStrictCompressedPubKeyEncoding(pubKey []byte) bool {
	return len(pubKey) == 33 && (pubKey[0] == 0x02 || pubKey[0] == 0x03)
}

// isStrictPubKeyEncoding returns whether the passed public key is either a
// compressed or an uncompressed secp256k1 key.  Hybrid keys are rejected.
func isStrictPubKeyEncoding(pubKey []byte) bool {
	return IsStrictCompressedPubKeyEncoding(pubKey) ||
		(len(pubKey) == 65 && pubKey[0] == 0x04)
}

// CheckPubKeyEncoding returns an error if the passed public key does not
// adhere to the strict encoding requirements.
func CheckPubKeyEncoding(pubKey []byte) error {
	if !isStrictPubKeyEncoding(pubKey) {
		str := fmt.Sprintf("unsupported public key type: %d bytes", len(pubKey))
		return scriptError(ErrPubKeyType, str)
	}
	return nil
}

// CheckHashTypeEncoding returns an error unless the base hash type, with the
// anyone can pay bit removed, is one of SigHashAll through SigHashAllValue.
func CheckHashTypeEncoding(hashType SigHashType) error {
	base := hashType & ^SigHashAnyOneCanPay
	if base < SigHashAll || base > SigHashAllValue {
		str := fmt.Sprintf("invalid hash type 0x%x", hashType)
		return scriptError(ErrInvalidSigHashType, str)
	}
	return nil
}
