// Copyright (c) 2015-2016 The btcsuite developers
// Copyright (c) 2016-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/rand"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/sefbkn/ndecred-sub000/wire"
)

// genRandomSig returns a random message, a signature of the message under the
// public key and the public key. This function is used to generate randomized
// test data.
func genRandomSig(t *testing.T) (chainhash.Hash, []byte, []byte) {
	t.Helper()

	privKey, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		t.Fatalf("error generating private key: %v", err)
	}
	pub := privKey.PubKey()

	var msgHash chainhash.Hash
	rand.Read(msgHash[:])

	sig := ecdsa.Sign(privKey, msgHash[:])
	return msgHash, sig.Serialize(), pub.SerializeCompressed()
}

// newSigCacheTestTx returns a distinct transaction for the provided index.
func newSigCacheTestTx(idx uint32) *wire.MsgTx {
	tx := newTestTx(nil)
	tx.TxIn[0].PreviousOutPoint.Index = idx
	return tx
}

// TestSigCacheAddExists tests the ability to add, and later check the
// existence of a signature triplet in the signature cache.
func TestSigCacheAddExists(t *testing.T) {
	t.Parallel()

	sigCache, err := NewSigCache(200)
	if err != nil {
		t.Fatalf("error creating sig cache: %v", err)
	}

	// Generate a random sigCache entry triplet.
	msg1, sig1, key1 := genRandomSig(t)

	// Add the triplet to the signature cache.
	sigCache.Add(msg1, sig1, key1, newSigCacheTestTx(0))

	// The previously added triplet should now be found within the sigcache.
	if !sigCache.Exists(msg1, sig1, key1) {
		t.Errorf("previously added item not found in signature cache")
	}

	// A different public key or signature for the same hash must not match.
	_, sig2, key2 := genRandomSig(t)
	if sigCache.Exists(msg1, sig1, key2) {
		t.Errorf("entry with mismatched public key found in signature cache")
	}
	if sigCache.Exists(msg1, sig2, key1) {
		t.Errorf("entry with mismatched signature found in signature cache")
	}
}

// TestSigCacheAddEvictEntry tests the eviction case where a new signature
// triplet is added to a full signature cache which should trigger the
// eviction of the least recently used entry.
func TestSigCacheAddEvictEntry(t *testing.T) {
	t.Parallel()

	// Create a sigcache that can hold up to 100 entries.
	const sigCacheSize = 100
	sigCache, err := NewSigCache(sigCacheSize)
	if err != nil {
		t.Fatalf("error creating sig cache: %v", err)
	}

	// Fill the sigcache up with some random sig triplets.
	type triplet struct {
		msg    chainhash.Hash
		sig    []byte
		pubKey []byte
	}
	entries := make([]triplet, 0, sigCacheSize)
	for i := uint32(0); i < sigCacheSize; i++ {
		msg, sig, key := genRandomSig(t)
		sigCache.Add(msg, sig, key, newSigCacheTestTx(i))
		entries = append(entries, triplet{msg, sig, key})
	}

	// The sigcache should now have sigCacheSize entries within it.
	if sigCache.Len() != sigCacheSize {
		t.Fatalf("sigcache should now have %v entries, instead it has %v",
			sigCacheSize, sigCache.Len())
	}

	// Touch the oldest entry so the second oldest becomes the least
	// recently used one.
	if !sigCache.Exists(entries[0].msg, entries[0].sig, entries[0].pubKey) {
		t.Fatal("oldest entry not found in signature cache")
	}

	// Add a new entry, this should cause eviction of the least recently
	// used entry.
	msgNew, sigNew, keyNew := genRandomSig(t)
	sigCache.Add(msgNew, sigNew, keyNew, newSigCacheTestTx(sigCacheSize))

	// The sigcache should still have sigCacheSize entries.
	if sigCache.Len() != sigCacheSize {
		t.Fatalf("sigcache should now have %v entries, instead it has %v",
			sigCacheSize, sigCache.Len())
	}

	// The entry added above should be found within the sigcache while the
	// least recently used one should have been evicted.
	if !sigCache.Exists(msgNew, sigNew, keyNew) {
		t.Fatalf("previously added item not found in signature cache")
	}
	if !sigCache.Exists(entries[0].msg, entries[0].sig, entries[0].pubKey) {
		t.Fatal("recently used entry was evicted from signature cache")
	}
	if sigCache.Exists(entries[1].msg, entries[1].sig, entries[1].pubKey) {
		t.Fatal("least recently used entry was not evicted")
	}
}

// TestSigCacheAddMaxEntriesZero tests that if a sigCache is created with a
// max size <= 0, then no entries are added to the sigcache at all.
func TestSigCacheAddMaxEntriesZero(t *testing.T) {
	t.Parallel()

	// Create a sigcache that can hold up to 0 entries.
	sigCache, err := NewSigCache(0)
	if err != nil {
		t.Fatalf("error creating sig cache: %v", err)
	}

	// Generate a random sigCache entry triplet.
	msg1, sig1, key1 := genRandomSig(t)

	// Add the triplet to the signature cache.
	sigCache.Add(msg1, sig1, key1, newSigCacheTestTx(0))

	// The generated triplet should not be found.
	if sigCache.Exists(msg1, sig1, key1) {
		t.Errorf("previously added signature found in sigcache, but " +
			"shouldn't have been")
	}

	// There shouldn't be any entries in the sigCache.
	if sigCache.Len() != 0 {
		t.Errorf("%v items found in sigcache, no items should have "+
			"been added", sigCache.Len())
	}

	// Evicting from an empty cache is a no-op.
	sigCache.EvictEntries([]*wire.MsgTx{newSigCacheTestTx(0)})
}

// TestSigCacheEvictEntries ensures that evicting entries by transaction
// removes exactly the entries added for those transactions.
func TestSigCacheEvictEntries(t *testing.T) {
	t.Parallel()

	sigCache, err := NewSigCache(100)
	if err != nil {
		t.Fatalf("error creating sig cache: %v", err)
	}

	// Add two entries for each of three transactions.
	type triplet struct {
		msg    chainhash.Hash
		sig    []byte
		pubKey []byte
	}
	txs := []*wire.MsgTx{newSigCacheTestTx(0), newSigCacheTestTx(1),
		newSigCacheTestTx(2)}
	entries := make(map[int][]triplet)
	for txIdx, tx := range txs {
		for i := 0; i < 2; i++ {
			msg, sig, key := genRandomSig(t)
			sigCache.Add(msg, sig, key, tx)
			entries[txIdx] = append(entries[txIdx], triplet{msg, sig, key})
		}
	}
	if sigCache.Len() != 6 {
		t.Fatalf("unexpected number of entries -- got %d, want 6",
			sigCache.Len())
	}

	// Evict the entries for the first and last transactions.
	sigCache.EvictEntries([]*wire.MsgTx{txs[0], txs[2]})
	if sigCache.Len() != 2 {
		t.Fatalf("unexpected number of entries after eviction -- got %d, "+
			"want 2", sigCache.Len())
	}
	for txIdx, txEntries := range entries {
		wantExists := txIdx == 1
		for _, entry := range txEntries {
			exists := sigCache.Exists(entry.msg, entry.sig, entry.pubKey)
			if exists != wantExists {
				t.Fatalf("tx %d: unexpected existence -- got %v, want %v",
					txIdx, exists, wantExists)
			}
		}
	}

	// Evicting with no transactions is a no-op.
	sigCache.EvictEntries(nil)
	if sigCache.Len() != 2 {
		t.Fatalf("unexpected number of entries -- got %d, want 2",
			sigCache.Len())
	}
}

// TestSigCacheCopiesEntries ensures modifying the buffers passed to Add does
// not affect the cached entry.
func TestSigCacheCopiesEntries(t *testing.T) {
	t.Parallel()

	sigCache, err := NewSigCache(10)
	if err != nil {
		t.Fatalf("error creating sig cache: %v", err)
	}

	msg, sig, key := genRandomSig(t)
	sigCopy := append([]byte(nil), sig...)
	keyCopy := append([]byte(nil), key...)
	sigCache.Add(msg, sig, key, newSigCacheTestTx(0))
	sig[4] ^= 0xff
	key[1] ^= 0xff

	if !sigCache.Exists(msg, sigCopy, keyCopy) {
		t.Fatal("cached entry changed with the caller's buffers")
	}
}

// TestNewSigCacheTooBig ensures requesting a cache larger than it is able to
// hold is rejected with ErrSigCacheTooBig.
func TestNewSigCacheTooBig(t *testing.T) {
	t.Parallel()

	if strconv.IntSize < 64 {
		t.Skip("max entries can not exceed the limit on 32-bit platforms")
	}
	maxEntries := uint(math.MaxUint32)
	maxEntries++
	_, err := NewSigCache(maxEntries)
	if !errors.Is(err, ErrSigCacheTooBig) {
		t.Fatalf("unexpected error -- got %v, want %v", err,
			ErrSigCacheTooBig)
	}
}
