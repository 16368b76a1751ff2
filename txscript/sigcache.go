// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dchest/siphash"
	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/container/lru"
	"github.com/decred/dcrd/crypto/rand"
	"github.com/sefbkn/ndecred-sub000/wire"
)

// shortTxHashKeySize is the size of the key used to generate short
// transaction hashes for the signature cache entries.
const shortTxHashKeySize = 16

// sigCacheEntry represents an entry in the SigCache.  Entries within the
// SigCache are keyed according to the sigHash of the signature.  In the
// scenario of a cache-hit (according to the sigHash), an additional comparison
// of the signature, and public key will be executed in order to ensure a
// complete match.  In the occasionally case that two sigHashes collide, the
// newer sigHash will simply overwrite the existing entry.
//
// The short transaction hash identifies the transaction that contains the
// signature so entries can be evicted once the transaction is mined.
type sigCacheEntry struct {
	sig         []byte
	pubKey      []byte
	shortTxHash uint64
}

// SigCache implements an LRU signature verification cache with entries that
// are evicted once the transactions that contain them are no longer relevant.
// The cache is useful because transaction scripts are often executed more
// than once from various contexts (e.g. new block templates, when
// transactions are first seen prior to being mined, part of full block
// verification, etc) and verifying signatures is expensive.
//
// The cache only stores secp256k1 ECDSA signatures that were verified to be
// valid.  Entries carry no signature type, so the engine never consults it
// for the alternative signature types.  It is safe for concurrent access.
type SigCache struct {
	validSigs      *lru.Map[chainhash.Hash, sigCacheEntry]
	maxEntries     uint
	shortTxHashKey [shortTxHashKeySize]byte
}

// NewSigCache creates and initializes a new instance of SigCache.  Its sole
// parameter 'maxEntries' represents the maximum number of entries allowed to
// exist in the SigCache at any particular moment.  Once the limit is reached,
// the least recently used entry is evicted to make room.
//
// A cache with zero max entries never stores anything.
func NewSigCache(maxEntries uint) (*SigCache, error) {
	if uint64(maxEntries) > math.MaxUint32 {
		str := fmt.Sprintf("signature cache size %d exceeds the max of %d",
			maxEntries, uint32(math.MaxUint32))
		return nil, scriptError(ErrSigCacheTooBig, str)
	}

	sigCache := &SigCache{maxEntries: maxEntries}
	if maxEntries > 0 {
		sigCache.validSigs = lru.NewMap[chainhash.Hash, sigCacheEntry](
			uint32(maxEntries))
	}
	rand.Read(sigCache.shortTxHashKey[:])
	return sigCache, nil
}

// Exists returns true if an existing entry of 'sig' over 'sigHash' for public
// key 'pubKey' is found within the SigCache.  Otherwise, false is returned.
//
// NOTE: This function is safe for concurrent access.  Readers won't be blocked
// unless there exists a writer, adding an entry to the SigCache.
func (s *SigCache) Exists(sigHash chainhash.Hash, sig, pubKey []byte) bool {
	if s.validSigs == nil {
		return false
	}

	entry, ok := s.validSigs.Get(sigHash)
	return ok && bytes.Equal(entry.pubKey, pubKey) && bytes.Equal(entry.sig, sig)
}

// Add adds an entry for a signature over 'sigHash' under public key 'pubKey'
// to the signature cache.  The transaction that contains the signature is
// tracked so the entry can later be evicted by EvictEntries.
//
// NOTE: This function is safe for concurrent access.  Writers will block
// simultaneous readers until function execution has concluded.
func (s *SigCache) Add(sigHash chainhash.Hash, sig, pubKey []byte, tx *wire.MsgTx) {
	if s.validSigs == nil {
		return
	}

	// The cache retains the entry beyond the lifetime of the caller's
	// buffers, so copy them.
	entry := sigCacheEntry{
		sig:         append([]byte(nil), sig...),
		pubKey:      append([]byte(nil), pubKey...),
		shortTxHash: shortTxHash(tx, s.shortTxHashKey),
	}
	s.validSigs.Put(sigHash, entry)
}

// Len returns the number of entries in the cache.
func (s *SigCache) Len() int {
	if s.validSigs == nil {
		return 0
	}
	return int(s.validSigs.Len())
}

// shortTxHash generates a short hash from the provided transaction and key.
// The short hash is generated by hashing the transaction hash with siphash
// using the provided key.
func shortTxHash(tx *wire.MsgTx, key [shortTxHashKeySize]byte) uint64 {
	k0 := binary.LittleEndian.Uint64(key[0:8])
	k1 := binary.LittleEndian.Uint64(key[8:16])
	txHash := tx.TxHash()
	return siphash.Hash(k0, k1, txHash[:])
}

// EvictEntries removes all entries from the SigCache that correspond to the
// provided transactions.  This is useful for removing entries that will never
// be accessed again once the transactions are included in a block.
//
// NOTE: This function is safe for concurrent access.
func (s *SigCache) EvictEntries(txs []*wire.MsgTx) {
	if s.validSigs == nil || len(txs) == 0 {
		return
	}

	// Create a set of short tx hashes for the transactions.
	shortTxHashes := make(map[uint64]struct{}, len(txs))
	for _, tx := range txs {
		shortTxHashes[shortTxHash(tx, s.shortTxHashKey)] = struct{}{}
	}

	// Remove all entries that reference any of the provided transactions.
	for _, sigHash := range s.validSigs.Keys() {
		entry, ok := s.validSigs.Peek(sigHash)
		if !ok {
			continue
		}
		if _, ok := shortTxHashes[entry.shortTxHash]; ok {
			s.validSigs.Delete(sigHash)
		}
	}
}
