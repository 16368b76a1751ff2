// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"encoding/binary"
	"fmt"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/blake256"
	"github.com/sefbkn/ndecred-sub000/wire"
)

// SigHashType represents hash type bits at the end of a signature.
type SigHashType byte

// Hash type bits from the end of a signature.
const (
	SigHashOld          SigHashType = 0x0
	SigHashAll          SigHashType = 0x1
	SigHashNone         SigHashType = 0x2
	SigHashSingle       SigHashType = 0x3
	SigHashAllValue     SigHashType = 0x4
	SigHashAnyOneCanPay SigHashType = 0x80

	// sigHashMask defines the number of bits of the hash type which is used
	// to identify which outputs are signed.
	sigHashMask = 0x1f
)

// String returns the hash type as a human-readable string.
func (t SigHashType) String() string {
	var base string
	switch t & sigHashMask {
	case SigHashOld:
		base = "SigHashOld"
	case SigHashAll:
		base = "SigHashAll"
	case SigHashNone:
		base = "SigHashNone"
	case SigHashSingle:
		base = "SigHashSingle"
	case SigHashAllValue:
		base = "SigHashAllValue"
	default:
		base = fmt.Sprintf("SigHashType(0x%02x)", byte(t&sigHashMask))
	}
	if t&SigHashAnyOneCanPay != 0 {
		return base + "|SigHashAnyOneCanPay"
	}
	return base
}

// hashTxAs returns the BLAKE-256 hash of the transaction serialized with the
// provided serialization type.
func hashTxAs(tx *wire.MsgTx, serType wire.TxSerializeType) (chainhash.Hash, error) {
	hasher := blake256.NewHasher256()
	if err := tx.SerializeAs(hasher, serType); err != nil {
		return chainhash.Hash{}, err
	}
	return hasher.Sum256(), nil
}

// calcSignatureHash computes the signature hash for the specified input of the
// target transaction observing the desired signature hash type.  The script is
// the subscript the input commits to, which typically is the public key script
// being spent with the signatures removed.
func calcSignatureHash(script Script, hashType SigHashType, tx *wire.MsgTx, idx int) (chainhash.Hash, error) {
	if idx < 0 || idx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is negative or >= %d",
			idx, len(tx.TxIn))
		return chainhash.Hash{}, scriptError(ErrInvalidIndex, str)
	}

	// The SigHashSingle signature type signs only the corresponding input
	// and output (the output with the same index number as the input).
	//
	// Since transactions can have more inputs than outputs, this means it
	// is improper to use SigHashSingle on input indices that don't have a
	// corresponding output.
	baseType := hashType & sigHashMask
	if baseType == SigHashSingle && idx >= len(tx.TxOut) {
		str := fmt.Sprintf("attempt to sign single input at index %d "+
			">= %d outputs", idx, len(tx.TxOut))
		return chainhash.Hash{}, scriptError(ErrInvalidSigHashSingleIndex, str)
	}

	signScript, err := script.Bytes()
	if err != nil {
		return chainhash.Hash{}, err
	}

	// Make a deep copy of the transaction so the modifications below do not
	// affect the caller.  Every signature script is cleared except the one
	// for the input being signed, which commits to the subscript instead.
	txCopy := tx.Copy()
	for i := range txCopy.TxIn {
		if i == idx {
			txCopy.TxIn[i].SignatureScript = signScript
		} else {
			txCopy.TxIn[i].SignatureScript = nil
		}
	}

	// Choose the outputs and input sequences that will be committed to based
	// on the signature hash type.
	//
	// SigHashNone commits to no outputs and SigHashSingle commits to the
	// outputs that precede the input being signed.  In both cases, the
	// sequences of all other inputs are replaced by 0.
	switch baseType {
	case SigHashNone:
		txCopy.TxOut = txCopy.TxOut[:0]
		zeroOtherSequences(txCopy, idx)

	case SigHashSingle:
		txCopy.TxOut = txCopy.TxOut[:idx]
		zeroOtherSequences(txCopy, idx)
	}

	// The SigHashAnyOneCanPay flag specifies that the signature will only
	// commit to the input being signed.  Otherwise, it will commit to all
	// inputs.
	if hashType&SigHashAnyOneCanPay != 0 {
		txCopy.TxIn = txCopy.TxIn[idx : idx+1]
	}

	// The prefix hash commits to the non-witness data while the witness hash
	// commits to the signature scripts and, for SigHashAll, the input
	// amounts as well.
	prefixHash, err := hashTxAs(txCopy, wire.TxSerializeNoWitness)
	if err != nil {
		return chainhash.Hash{}, err
	}
	witnessType := wire.TxSerializeWitnessValueSigning
	if baseType != SigHashAll {
		witnessType = wire.TxSerializeWitnessSigning
	}
	witnessHash, err := hashTxAs(txCopy, witnessType)
	if err != nil {
		return chainhash.Hash{}, err
	}

	// The final signature hash (message to sign) is the hash of the
	// serialization of the following fields:
	//
	// 1) the hash type (as little-endian uint32)
	// 2) prefix hash (as produced by hash function)
	// 3) witness hash (as produced by hash function)
	var sigHashBuf [4 + chainhash.HashSize*2]byte
	binary.LittleEndian.PutUint32(sigHashBuf[:], uint32(hashType))
	offset := 4
	offset += copy(sigHashBuf[offset:], prefixHash[:])
	copy(sigHashBuf[offset:], witnessHash[:])
	return chainhash.HashH(sigHashBuf[:]), nil
}

// zeroOtherSequences sets the sequence of every input other than the one at
// idx to 0.
func zeroOtherSequences(tx *wire.MsgTx, idx int) {
	for i := range tx.TxIn {
		if i != idx {
			tx.TxIn[i].Sequence = 0
		}
	}
}

// CalcSignatureHash computes the signature hash for the specified input of the
// target transaction observing the desired signature hash type.  The script
// must fully parse.
func CalcSignatureHash(script []byte, hashType SigHashType, tx *wire.MsgTx, idx int) ([]byte, error) {
	pops, err := ParseScript(script)
	if err != nil {
		return nil, err
	}
	hash, err := calcSignatureHash(pops, hashType, tx, idx)
	if err != nil {
		return nil, err
	}
	return hash[:], nil
}
