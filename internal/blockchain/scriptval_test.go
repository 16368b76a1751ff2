// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/blake256"
	"github.com/decred/dcrd/crypto/ripemd160"
	"github.com/decred/dcrd/dcrec"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/sefbkn/ndecred-sub000/txscript"
	"github.com/sefbkn/ndecred-sub000/wire"
)

// testPrivKey is the private key used to sign the inputs of the test
// transactions.
var testPrivKey = hexToBytes("22a47fa09a223f2aa079edf85a7c2d4f8720ee63e502" +
	"ee2869afab7de234b80c")

// hexToBytes converts the passed hex string into bytes and will panic if there
// is an error.  This is only provided for the hard-coded constants so errors in
// the source code can be detected.  It will only (and must only) be called with
// hard-coded values.
func hexToBytes(s string) []byte {
	b, err := hex.DecodeString(s)
	if err != nil {
		panic("invalid hex in source file: " + s)
	}
	return b
}

// testP2PKHScript returns a pay-to-pubkey-hash script that pays to the
// compressed public key of testPrivKey.
func testP2PKHScript(t *testing.T) []byte {
	t.Helper()

	pubKey := secp256k1.PrivKeyFromBytes(testPrivKey).PubKey()
	blakeHash := blake256.Sum256(pubKey.SerializeCompressed())
	hasher := ripemd160.New()
	hasher.Write(blakeHash[:])
	pkScript, err := txscript.PayToPubKeyHashScript(hasher.Sum(nil))
	if err != nil {
		t.Fatalf("unable to create pkScript: %v", err)
	}
	return pkScript
}

// newSpendingTx returns a transaction with the given number of inputs that each
// spend a distinct output paying to pkScript.  The scripts of the outputs are
// added to prevScripts and every input is signed.
func newSpendingTx(t *testing.T, seed byte, numInputs int, pkScript []byte, prevScripts PrevScriptMap) *wire.MsgTx {
	t.Helper()

	tx := wire.NewMsgTx()
	for i := 0; i < numInputs; i++ {
		prevHash := chainhash.Hash{seed, byte(i)}
		prevOut := wire.NewOutPoint(&prevHash, uint32(i), wire.TxTreeRegular)
		tx.AddTxIn(wire.NewTxIn(prevOut, 1e8, nil))
		prevScripts[*prevOut] = pkScript
	}
	tx.AddTxOut(wire.NewTxOut(int64(numInputs)*1e8-1e5, pkScript))

	for i := range tx.TxIn {
		sigScript, err := txscript.SignatureScript(tx, i, pkScript,
			txscript.SigHashAll, testPrivKey, dcrec.STEcdsaSecp256k1, true)
		if err != nil {
			t.Fatalf("unable to sign input %d: %v", i, err)
		}
		tx.TxIn[i].SignatureScript = sigScript
	}
	return tx
}

// TestValidateTransactionScripts ensures transaction inputs are validated
// against the scripts of the outputs they reference and that failures are
// reported with the expected error kinds.
func TestValidateTransactionScripts(t *testing.T) {
	t.Parallel()

	pkScript := testP2PKHScript(t)

	tests := []struct {
		name    string
		mutate  func(tx *wire.MsgTx, prevScripts PrevScriptMap)
		wantErr error
		rawErr  error
	}{{
		name:   "all inputs validly signed",
		mutate: func(*wire.MsgTx, PrevScriptMap) {},
	}, {
		name: "output modified after signing",
		mutate: func(tx *wire.MsgTx, _ PrevScriptMap) {
			tx.TxOut[0].Value--
		},
		wantErr: ErrScriptValidation,
	}, {
		name: "missing previous output",
		mutate: func(tx *wire.MsgTx, prevScripts PrevScriptMap) {
			delete(prevScripts, tx.TxIn[2].PreviousOutPoint)
		},
		wantErr: ErrMissingTxOut,
	}, {
		name: "malformed previous output script",
		mutate: func(tx *wire.MsgTx, prevScripts PrevScriptMap) {
			prevOut := tx.TxIn[1].PreviousOutPoint
			prevScripts[prevOut] = []byte{txscript.OP_DATA_2, 0x01}
		},
		wantErr: ErrScriptMalformed,
		rawErr:  txscript.ErrMalformedPush,
	}, {
		name: "previous output script evaluates to false",
		mutate: func(tx *wire.MsgTx, prevScripts PrevScriptMap) {
			prevOut := tx.TxIn[0].PreviousOutPoint
			prevScripts[prevOut] = []byte{txscript.OP_DROP, txscript.OP_DROP,
				txscript.OP_FALSE}
		},
		wantErr: ErrScriptValidation,
		rawErr:  txscript.ErrEvalFalse,
	}, {
		name: "truncated signature script",
		mutate: func(tx *wire.MsgTx, _ PrevScriptMap) {
			sigScript := tx.TxIn[3].SignatureScript
			tx.TxIn[3].SignatureScript = sigScript[:len(sigScript)-1]
		},
		wantErr: ErrScriptMalformed,
		rawErr:  txscript.ErrMalformedPush,
	}}

	for _, test := range tests {
		prevScripts := make(PrevScriptMap)
		tx := newSpendingTx(t, 1, 4, pkScript, prevScripts)
		test.mutate(tx, prevScripts)

		err := ValidateTransactionScripts(tx, prevScripts,
			txscript.StandardVerifyFlags, nil)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%q: mismatched err -- got %v, want %v", test.name, err,
				test.wantErr)
			continue
		}
		if test.rawErr == nil {
			continue
		}
		var rerr RuleError
		if !errors.As(err, &rerr) {
			t.Errorf("%q: error is not a RuleError: %T", test.name, err)
			continue
		}
		if !errors.Is(rerr.RawErr, test.rawErr) {
			t.Errorf("%q: mismatched raw err -- got %v, want %v", test.name,
				rerr.RawErr, test.rawErr)
		}
	}
}

// TestValidateTransactionsScripts ensures the inputs of many transactions are
// validated together, populating the signature cache, and that a single bad
// input among them causes a failure.
func TestValidateTransactionsScripts(t *testing.T) {
	t.Parallel()

	pkScript := testP2PKHScript(t)
	prevScripts := make(PrevScriptMap)
	const numTxns = 10
	txns := make([]*wire.MsgTx, 0, numTxns)
	for i := 0; i < numTxns; i++ {
		txns = append(txns, newSpendingTx(t, byte(i), 3, pkScript, prevScripts))
	}

	sigCache, err := txscript.NewSigCache(100)
	if err != nil {
		t.Fatalf("unable to create sig cache: %v", err)
	}
	err = ValidateTransactionsScripts(context.Background(), txns, prevScripts,
		txscript.StandardVerifyFlags, sigCache)
	if err != nil {
		t.Fatalf("unexpected validation failure: %v", err)
	}
	if sigCache.Len() != numTxns*3 {
		t.Fatalf("unexpected sig cache size -- got %d, want %d",
			sigCache.Len(), numTxns*3)
	}

	// Validation must succeed again with all signatures cached.
	err = ValidateTransactionsScripts(context.Background(), txns, prevScripts,
		txscript.StandardVerifyFlags, sigCache)
	if err != nil {
		t.Fatalf("unexpected validation failure with cached sigs: %v", err)
	}

	// Break the signature of a single input in the middle of the set.
	sigScript := txns[numTxns/2].TxIn[1].SignatureScript
	badSigScript := make([]byte, len(sigScript))
	copy(badSigScript, sigScript)
	badSigScript[10] ^= 0x01
	txns[numTxns/2].TxIn[1].SignatureScript = badSigScript
	err = ValidateTransactionsScripts(context.Background(), txns, prevScripts,
		txscript.StandardVerifyFlags, nil)
	if !errors.Is(err, ErrScriptValidation) {
		t.Fatalf("mismatched err -- got %v, want %v", err, ErrScriptValidation)
	}
}

// TestValidateCoinbaseAndEmpty ensures coinbase transactions and an empty set
// of transactions do not require any previous output scripts.
func TestValidateCoinbaseAndEmpty(t *testing.T) {
	t.Parallel()

	coinbase := wire.NewMsgTx()
	prevOut := wire.NewOutPoint(&chainhash.Hash{}, wire.MaxPrevOutIndex,
		wire.TxTreeRegular)
	coinbase.AddTxIn(wire.NewTxIn(prevOut, 0, []byte{0x00, 0x00}))
	coinbase.AddTxOut(wire.NewTxOut(1e8, []byte{txscript.OP_TRUE}))

	err := ValidateTransactionScripts(coinbase, PrevScriptMap{},
		txscript.StandardVerifyFlags, nil)
	if err != nil {
		t.Fatalf("unexpected error validating coinbase: %v", err)
	}

	err = ValidateTransactionsScripts(context.Background(), nil,
		PrevScriptMap{}, txscript.StandardVerifyFlags, nil)
	if err != nil {
		t.Fatalf("unexpected error validating empty set: %v", err)
	}
}
