// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"errors"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/dcrd/chaincfg/chainhash"
)

// testTx returns a transaction with two inputs and a single output that has
// every witness field populated so that all serialization types produce
// distinct output.
func testTx() *MsgTx {
	var prevHash chainhash.Hash
	for i := range prevHash {
		prevHash[i] = byte(i)
	}
	var otherHash chainhash.Hash
	for i := range otherHash {
		otherHash[i] = 0xff
	}

	pkScript := make([]byte, 25)
	copy(pkScript, []byte{0x76, 0xa9, 0x14})
	copy(pkScript[23:], []byte{0x88, 0xac})

	return &MsgTx{
		SerType: TxSerializeFull,
		Version: 1,
		TxIn: []*TxIn{{
			PreviousOutPoint: OutPoint{Hash: prevHash, Index: 1,
				Tree: TxTreeRegular},
			Sequence:        0xfffffffe,
			ValueIn:         100000000,
			BlockHeight:     12,
			BlockIndex:      3,
			SignatureScript: []byte{0x51, 0x52},
		}, {
			PreviousOutPoint: OutPoint{Hash: otherHash, Index: 0,
				Tree: TxTreeStake},
			Sequence:    5,
			ValueIn:     NullValueIn,
			BlockHeight: NullBlockHeight,
			BlockIndex:  NullBlockIndex,
		}},
		TxOut: []*TxOut{{
			Value:    99990000,
			Version:  0,
			PkScript: pkScript,
		}},
		LockTime: 0x12345,
		Expiry:   100,
	}
}

// TestTxSerializeTypes ensures every serialization type produces the expected
// bytes and the expected serialize size.
func TestTxSerializeTypes(t *testing.T) {
	t.Parallel()

	const prefix = "02000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e" +
		"1f0100000000feffffffffffffffffffffffffffffffffffffffffffffffffff" +
		"ffffffffffffffffffff00000000010500000001f0b9f5050000000000001976" +
		"a914000000000000000000000000000000000000000088ac4523010064000000"
	const witness = "0200e1f505000000000c00000003000000025152ffffffffffffffff" +
		"00000000ffffffff00"

	tests := []struct {
		name    string
		serType TxSerializeType
		want    []byte
	}{{
		name:    "full",
		serType: TxSerializeFull,
		want:    hexToBytes("01000000" + prefix + witness),
	}, {
		name:    "no witness",
		serType: TxSerializeNoWitness,
		want:    hexToBytes("01000100" + prefix),
	}, {
		name:    "only witness",
		serType: TxSerializeOnlyWitness,
		want:    hexToBytes("01000200" + witness),
	}, {
		name:    "witness signing",
		serType: TxSerializeWitnessSigning,
		want:    hexToBytes("010003000202515200"),
	}, {
		name:    "witness value signing",
		serType: TxSerializeWitnessValueSigning,
		want:    hexToBytes("010004000200e1f50500000000025152ffffffffffffffff00"),
	}}

	tx := testTx()
	for _, test := range tests {
		var buf bytes.Buffer
		if err := tx.SerializeAs(&buf, test.serType); err != nil {
			t.Errorf("%q: unexpected serialize error: %v", test.name, err)
			continue
		}
		if !bytes.Equal(buf.Bytes(), test.want) {
			t.Errorf("%q: mismatched serialization\ngot: %x\nwant: %x",
				test.name, buf.Bytes(), test.want)
			continue
		}

		// Ensure the original serialization type was not modified.
		if tx.SerType != TxSerializeFull {
			t.Errorf("%q: serialization type was modified to %v", test.name,
				tx.SerType)
			continue
		}

		txCopy := *tx
		txCopy.SerType = test.serType
		if got := txCopy.SerializeSize(); got != len(test.want) {
			t.Errorf("%q: mismatched serialize size -- got %d, want %d",
				test.name, got, len(test.want))
			continue
		}
	}
}

// TestTxRoundTrip ensures the serialization types that can be decoded
// deserialize back to the original transaction data.
func TestTxRoundTrip(t *testing.T) {
	t.Parallel()

	tx := testTx()
	serialized, err := tx.Bytes()
	if err != nil {
		t.Fatalf("unexpected serialize error: %v", err)
	}

	var decoded MsgTx
	if err := decoded.FromBytes(serialized); err != nil {
		t.Fatalf("unexpected deserialize error: %v", err)
	}
	reserialized, err := decoded.Bytes()
	if err != nil {
		t.Fatalf("unexpected serialize error: %v", err)
	}
	if !bytes.Equal(serialized, reserialized) {
		t.Fatalf("mismatched round trip\ngot: %x\nwant: %x", reserialized,
			serialized)
	}
	if decoded.TxIn[1].PreviousOutPoint.Tree != TxTreeStake {
		t.Fatalf("unexpected tree: %s", spew.Sdump(decoded.TxIn[1]))
	}

	// Decoding the prefix only must yield the same transaction hash.
	prefixBytes, err := tx.BytesPrefix()
	if err != nil {
		t.Fatalf("unexpected serialize error: %v", err)
	}
	var prefixOnly MsgTx
	if err := prefixOnly.FromBytes(prefixBytes); err != nil {
		t.Fatalf("unexpected deserialize error: %v", err)
	}
	if prefixOnly.TxHash() != tx.TxHash() {
		t.Fatalf("mismatched prefix hash -- got %v, want %v",
			prefixOnly.TxHash(), tx.TxHash())
	}

	// The signing serializations are not decodable.
	var signing MsgTx
	err = signing.FromBytes(hexToBytes("010003000202515200"))
	if !errors.Is(err, ErrUnknownTxType) {
		t.Fatalf("unexpected error -- got %v, want %v", err, ErrUnknownTxType)
	}
}

// TestTxHashes ensures the transaction hashes are calculated correctly for a
// known mainnet coinbase transaction.
func TestTxHashes(t *testing.T) {
	t.Parallel()

	// Coinbase transaction from mainnet block 2.
	txBytes := hexToBytes("010000000100000000000000000000000000000000000000" +
		"00000000000000000000000000ffffffff00ffffffff03fa1a98120000000000" +
		"0017a914f5916158e3e2c4551c1796708db8367207ed13bb8700000000000000" +
		"000000266a240200000000000000000000000000000000000000000000000000" +
		"0000ffa310d9a6a9588edea1906f0000000000001976a9148ffe7a49ecf0f485" +
		"8e7a52155302177398d2296988ac000000000000000001d8bc28820000000000" +
		"000000ffffffff0800002f646372642f")
	wantHash := "ba8d2fcb5c705a1e5cbeda0db9dd30a521e360efd3aef75e862b2b69e0a673af"
	wantFullHash := "c867d085c96604812854399bf6df63d35d857484fedfd147759ed94c3cdeca35"

	var tx MsgTx
	if err := tx.FromBytes(txBytes); err != nil {
		t.Fatalf("unexpected deserialize error: %v", err)
	}
	if got := tx.TxHash().String(); got != wantHash {
		t.Errorf("mismatched tx hash -- got %s, want %s", got, wantHash)
	}
	if got := tx.TxHashFull().String(); got != wantFullHash {
		t.Errorf("mismatched full tx hash -- got %s, want %s", got,
			wantFullHash)
	}
	if got := tx.SerializeSize(); got != len(txBytes) {
		t.Errorf("mismatched serialize size -- got %d, want %d", got,
			len(txBytes))
	}
}

// TestTxCopy ensures a copied transaction shares no mutable state with the
// original.
func TestTxCopy(t *testing.T) {
	t.Parallel()

	tx := testTx()
	origBytes, err := tx.Bytes()
	if err != nil {
		t.Fatalf("unexpected serialize error: %v", err)
	}

	txCopy := tx.Copy()
	copyBytes, err := txCopy.Bytes()
	if err != nil {
		t.Fatalf("unexpected serialize error: %v", err)
	}
	if !bytes.Equal(origBytes, copyBytes) {
		t.Fatalf("copy does not match original\ngot: %x\nwant: %x",
			copyBytes, origBytes)
	}

	// Mutate every field of the copy and ensure the original is unchanged.
	txCopy.TxIn[0].SignatureScript[0] = 0x00
	txCopy.TxIn[0].Sequence = 0
	txCopy.TxIn[0].PreviousOutPoint.Hash[0] = 0xaa
	txCopy.TxOut[0].PkScript[0] = 0x00
	txCopy.TxOut[0].Value = 0
	txCopy.TxIn = txCopy.TxIn[:1]
	txCopy.TxOut = nil

	afterBytes, err := tx.Bytes()
	if err != nil {
		t.Fatalf("unexpected serialize error: %v", err)
	}
	if !bytes.Equal(origBytes, afterBytes) {
		t.Fatalf("original modified through copy\ngot: %x\nwant: %x",
			afterBytes, origBytes)
	}
}

// TestTxSerializeUnknownType ensures attempting to serialize a transaction
// with an unknown serialization type returns the expected error.
func TestTxSerializeUnknownType(t *testing.T) {
	t.Parallel()

	tx := testTx()
	tx.SerType = 99
	var buf bytes.Buffer
	err := tx.Serialize(&buf)
	if !errors.Is(err, ErrUnknownTxType) {
		t.Fatalf("unexpected error -- got %v, want %v", err, ErrUnknownTxType)
	}
	if tx.SerializeSize() != 0 {
		t.Fatalf("unexpected serialize size for unknown type: %d",
			tx.SerializeSize())
	}
}
