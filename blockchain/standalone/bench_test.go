// Copyright (c) 2019-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"encoding/binary"
	"strconv"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/sefbkn/ndecred-sub000/wire"
)

// benchLeafCounts are the tree sizes the merkle benchmarks run against.
var benchLeafCounts = []int{20, 1000, 4000, 16000}

// benchLeaves returns numLeaves distinct leaf hashes.
func benchLeaves(numLeaves int) []chainhash.Hash {
	leaves := make([]chainhash.Hash, numLeaves)
	for i := range leaves {
		binary.LittleEndian.PutUint32(leaves[i][:], uint32(i))
	}
	return leaves
}

// BenchmarkCalcMerkleRoot benchmarks both the mutating and the non-mutating
// merkle root calculation for several tree sizes.
func BenchmarkCalcMerkleRoot(b *testing.B) {
	for _, numLeaves := range benchLeafCounts {
		leaves := benchLeaves(numLeaves)
		b.Run("inplace/"+strconv.Itoa(numLeaves), func(b *testing.B) {
			scratch := make([]chainhash.Hash, len(leaves))
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				copy(scratch, leaves)
				_ = CalcMerkleRootInPlace(scratch)
			}
		})
		b.Run("copy/"+strconv.Itoa(numLeaves), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_ = CalcMerkleRoot(leaves)
			}
		})
	}
}

// BenchmarkCalcTxTreeMerkleRoot benchmarks computing the merkle root of a
// tree of transactions, which includes hashing each transaction.
func BenchmarkCalcTxTreeMerkleRoot(b *testing.B) {
	txns := make([]*wire.MsgTx, 500)
	for i := range txns {
		prevHash := chainhash.Hash{byte(i), byte(i >> 8)}
		tx := wire.NewMsgTx()
		tx.AddTxIn(wire.NewTxIn(wire.NewOutPoint(&prevHash, 0,
			wire.TxTreeRegular), 1e8, []byte{0x51}))
		tx.AddTxOut(wire.NewTxOut(1e8-1e4, []byte{0x51}))
		txns[i] = tx
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = CalcTxTreeMerkleRoot(txns)
	}
}
