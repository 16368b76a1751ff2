// Copyright (c) 2013-2015 The btcsuite developers
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
	"github.com/sefbkn/ndecred-sub000/wire"
)

// RawTxInSignature returns the serialized signature for the input idx of the
// given transaction, with hashType appended to it.  The subscript is the
// public key script being spent and the key is the serialized private key in
// the format of the requested signature type.
func RawTxInSignature(tx *wire.MsgTx, idx int, subScript []byte,
	hashType SigHashType, key []byte, sigType dcrec.SignatureType) ([]byte, error) {

	hash, err := CalcSignatureHash(subScript, hashType, tx, idx)
	if err != nil {
		return nil, err
	}

	var sigBytes []byte
	switch sigType {
	case dcrec.STEcdsaSecp256k1:
		priv := secp256k1.PrivKeyFromBytes(key)
		sig := ecdsa.Sign(priv, hash)
		sigBytes = sig.Serialize()
	case dcrec.STEd25519:
		priv, _ := edwards.PrivKeyFromBytes(key)
		if priv == nil {
			return nil, fmt.Errorf("invalid privkey")
		}
		sig, err := priv.Sign(hash)
		if err != nil {
			return nil, fmt.Errorf("cannot sign tx input: %w", err)
		}
		sigBytes = sig.Serialize()
	case dcrec.STSchnorrSecp256k1:
		priv := secp256k1.PrivKeyFromBytes(key)
		sig, err := schnorr.Sign(priv, hash)
		if err != nil {
			return nil, fmt.Errorf("cannot sign tx input: %w", err)
		}
		sigBytes = sig.Serialize()
	default:
		str := fmt.Sprintf("unknown signature type '%v'", sigType)
		return nil, scriptError(ErrUnsupportedSigType, str)
	}

	return append(sigBytes, byte(hashType)), nil
}

// serializedPubKey returns the serialized public key for the private key in
// the format expected by the signature checking opcodes for the signature
// type.
func serializedPubKey(privKey []byte, sigType dcrec.SignatureType, compress bool) ([]byte, error) {
	switch sigType {
	case dcrec.STEcdsaSecp256k1:
		priv := secp256k1.PrivKeyFromBytes(privKey)
		if compress {
			return priv.PubKey().SerializeCompressed(), nil
		}
		return priv.PubKey().SerializeUncompressed(), nil
	case dcrec.STEd25519:
		_, pub := edwards.PrivKeyFromBytes(privKey)
		if pub == nil {
			return nil, fmt.Errorf("invalid privkey")
		}
		return pub.Serialize(), nil
	case dcrec.STSchnorrSecp256k1:
		priv := secp256k1.PrivKeyFromBytes(privKey)
		return priv.PubKey().SerializeCompressed(), nil
	}

	str := fmt.Sprintf("unsupported signature type '%v'", sigType)
	return nil, scriptError(ErrUnsupportedSigType, str)
}

// SignatureScript creates an input signature script for tx to spend coins sent
// from a previous output to the owner of privKey. tx must include all
// transaction inputs and outputs, however txin scripts are allowed to be filled
// or empty. The returned script is calculated to be used as the idx'th txin
// sigscript for tx. subscript is the PkScript of the previous output being used
// as the idx'th input. privKey is serialized in the respective format for the
// signature type.
func SignatureScript(tx *wire.MsgTx, idx int, subscript []byte, hashType SigHashType,
	privKey []byte, sigType dcrec.SignatureType, compress bool) ([]byte, error) {

	sig, err := RawTxInSignature(tx, idx, subscript, hashType, privKey, sigType)
	if err != nil {
		return nil, err
	}

	pkData, err := serializedPubKey(privKey, sigType, compress)
	if err != nil {
		return nil, err
	}

	return NewScriptBuilder().AddData(sig).AddData(pkData).Script()
}

// PubKeySignatureScript creates an input signature script that spends a
// pay-to-pubkey output.  It only contains the signature.
func PubKeySignatureScript(tx *wire.MsgTx, idx int, subScript []byte,
	hashType SigHashType, privKey []byte, sigType dcrec.SignatureType) ([]byte, error) {

	sig, err := RawTxInSignature(tx, idx, subScript, hashType, privKey, sigType)
	if err != nil {
		return nil, err
	}

	return NewScriptBuilder().AddData(sig).Script()
}

// MultiSigSignatureScript creates an input signature script that spends a
// multisig output with the provided secp256k1 private keys.  The keys must be
// provided in the same order as their public keys appear in the multisig
// script.  The number of required signatures is provided by the multisig
// script itself and there is no dummy element.
func MultiSigSignatureScript(tx *wire.MsgTx, idx int, subScript []byte,
	hashType SigHashType, privKeys [][]byte) ([]byte, error) {

	builder := NewScriptBuilder()
	for _, key := range privKeys {
		sig, err := RawTxInSignature(tx, idx, subScript, hashType, key,
			dcrec.STEcdsaSecp256k1)
		if err != nil {
			return nil, err
		}
		builder.AddData(sig)
	}
	return builder.Script()
}
