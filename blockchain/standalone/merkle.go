// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package standalone

import (
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/sefbkn/ndecred-sub000/wire"
)

// combineHashes returns the hash of the concatenation of the two passed
// hashes.
func combineHashes(left, right *chainhash.Hash) chainhash.Hash {
	var buf [chainhash.HashSize * 2]byte
	copy(buf[:chainhash.HashSize], left[:])
	copy(buf[chainhash.HashSize:], right[:])
	return chainhash.HashH(buf[:])
}

// CalcMerkleRootInPlace is an in-place version of CalcMerkleRoot that reuses
// the backing array of the provided slice to perform the calculation thereby
// preventing extra allocations.  It is the caller's responsibility to ensure
// it is safe to mutate the entries in the provided slice.
//
// The function internally appends an additional entry in the case the number
// of provided leaves is odd, so the caller may wish to pre-allocate space for
// one additional element in the backing array in that case to ensure it
// doesn't need to be reallocated to expand it.
//
// For example:
//
//	allocLen := len(txns) + len(txns)&1
//	leaves := make([]chainhash.Hash, len(txns), allocLen)
//	for i, tx := range txns {
//		leaves[i] = tx.TxHashFull()
//	}
//	merkleRoot := CalcMerkleRootInPlace(leaves)
//
// See CalcMerkleRoot for more details on how the merkle root is calculated.
func CalcMerkleRootInPlace(leaves []chainhash.Hash) chainhash.Hash {
	if len(leaves) == 0 {
		// All zero.
		return chainhash.Hash{}
	}

	// The following algorithm works by replacing the leftmost entries in the
	// slice with the concatenations of each subsequent set of 2 hashes and
	// shrinking the slice by half to account for the fact that each level of
	// the tree is half the size of the previous one.  In the case a level is
	// unbalanced (there is no final right child), the final node is duplicated
	// so it ultimately is concatenated with itself.
	for len(leaves) > 1 {
		// When there is no right child, the parent is generated by hashing the
		// concatenation of the left child with itself.
		if len(leaves)&1 != 0 {
			leaves = append(leaves, leaves[len(leaves)-1])
		}

		// Set the parent node to the hash of the concatenation of the left
		// and right children.
		for i := 0; i < len(leaves)/2; i++ {
			leaves[i] = combineHashes(&leaves[i*2], &leaves[i*2+1])
		}
		leaves = leaves[:len(leaves)/2]
	}
	return leaves[0]
}

// CalcMerkleRoot treats the provided slice of hashes as leaves of a merkle tree
// and returns the resulting merkle root.
//
// A merkle tree is a tree in which every non-leaf node is the hash of its
// children nodes.  A diagram depicting how this works for Decred transactions
// where h(x) is a blake256 hash follows:
//
//	         root = h1234 = h(h12 + h34)
//	        /                           \
//	  h12 = h(h1 + h2)            h34 = h(h3 + h4)
//	   /            \              /            \
//	h1 = h(tx1)  h2 = h(tx2)    h3 = h(tx3)  h4 = h(tx4)
//
// The number of inputs is not always a power of two.  In that case, parent
// nodes with only a single left node are calculated by concatenating the left
// node with itself before hashing.
func CalcMerkleRoot(leaves []chainhash.Hash) chainhash.Hash {
	allocLen := len(leaves) + len(leaves)&1
	dup := make([]chainhash.Hash, len(leaves), allocLen)
	copy(dup, leaves)
	return CalcMerkleRootInPlace(dup)
}

// CalcTxTreeMerkleRoot calculates and returns the merkle root for the provided
// transactions.  The full (including witness data) hashes for the transactions
// are used as required for merkle roots.
//
// See CalcMerkleRoot for a description of how the merkle root is calculated.
func CalcTxTreeMerkleRoot(transactions []*wire.MsgTx) chainhash.Hash {
	if len(transactions) == 0 {
		// All zero.
		return chainhash.Hash{}
	}

	// Reserve space for the duplicated final leaf of an odd level.
	allocLen := len(transactions) + len(transactions)&1
	leaves := make([]chainhash.Hash, 0, allocLen)
	for _, tx := range transactions {
		leaves = append(leaves, tx.TxHashFull())
	}
	return CalcMerkleRootInPlace(leaves)
}
