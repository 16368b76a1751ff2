// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/decred/dcrd/dcrec"
	"github.com/decred/dcrd/dcrec/edwards/v2"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/schnorr"
)

// SignatureVerifier defines the interface the engine uses to verify
// signatures.  The signature does not include the trailing hash type byte.
//
// Implementations must return an Error for signatures and public keys that
// are not valid encodings so the signature checking opcodes treat them as a
// failed verification.  Any other error aborts script execution.
type SignatureVerifier interface {
	Verify(sigType dcrec.SignatureType, pubKey, sig, hash []byte) (bool, error)
}

// CurveVerifier is a SignatureVerifier backed by the secp256k1 and edwards
// curve implementations.  It supports ECDSA and Schnorr signatures over
// secp256k1 along with Ed25519 signatures.
type CurveVerifier struct{}

// Ensure CurveVerifier implements the SignatureVerifier interface.
var _ SignatureVerifier = CurveVerifier{}

// Verify returns whether the signature is valid for the hash and public key
// according to the signature type.
func (CurveVerifier) Verify(sigType dcrec.SignatureType, pubKey, sig, hash []byte) (bool, error) {
	switch sigType {
	case dcrec.STEcdsaSecp256k1:
		pk, err := secp256k1.ParsePubKey(pubKey)
		if err != nil {
			return false, scriptError(ErrPubKeyType, err.Error())
		}
		signature, err := ecdsa.ParseDERSignature(sig)
		if err != nil {
			return false, scriptError(ErrSigInvalid, err.Error())
		}
		return signature.Verify(hash, pk), nil

	case dcrec.STEd25519:
		pk, err := edwards.ParsePubKey(pubKey)
		if err != nil {
			return false, scriptError(ErrPubKeyType, err.Error())
		}
		signature, err := edwards.ParseSignature(sig)
		if err != nil {
			return false, scriptError(ErrSigInvalid, err.Error())
		}
		return edwards.Verify(pk, hash, signature.R, signature.S), nil

	case dcrec.STSchnorrSecp256k1:
		pk, err := schnorr.ParsePubKey(pubKey)
		if err != nil {
			return false, scriptError(ErrPubKeyType, err.Error())
		}
		signature, err := schnorr.ParseSignature(sig)
		if err != nil {
			return false, scriptError(ErrSigInvalid, err.Error())
		}
		return signature.Verify(hash, pk), nil
	}

	str := fmt.Sprintf("unsupported signature type %v", sigType)
	return false, scriptError(ErrSigTypeUnsupported, str)
}
