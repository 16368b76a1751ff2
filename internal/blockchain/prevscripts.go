// Copyright (c) 2021-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/sefbkn/ndecred-sub000/blockchain/standalone"
	"github.com/sefbkn/ndecred-sub000/wire"
	"github.com/syndtr/goleveldb/leveldb"
	ldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const (
	// currentPrevScriptDatabaseVersion indicates the current previous output
	// script database version.
	currentPrevScriptDatabaseVersion = 1

	// prevScriptDbName is the name of the previous output script database.
	prevScriptDbName = "prevscriptdb"
)

// byteOrder is the preferred byte order used for serializing numeric fields
// for storage in the database.
var byteOrder = binary.LittleEndian

// PrevScriptMap houses previous output scripts in memory keyed by the
// outpoint they are referenced by.  It implements the PrevScripter interface.
type PrevScriptMap map[wire.OutPoint][]byte

// PrevScript returns the script for the provided outpoint along with whether
// or not it exists.
func (m PrevScriptMap) PrevScript(prevOut *wire.OutPoint) ([]byte, bool) {
	script, ok := m[*prevOut]
	return script, ok
}

// AddTxOuts adds the scripts of all outputs of the passed transaction to the
// map.
func (m PrevScriptMap) AddTxOuts(tx *wire.MsgTx) {
	txHash := tx.TxHash()
	for txOutIdx, txOut := range tx.TxOut {
		prevOut := wire.OutPoint{Hash: txHash, Index: uint32(txOutIdx),
			Tree: wire.TxTreeRegular}
		m[prevOut] = txOut.PkScript
	}
}

// -----------------------------------------------------------------------------
// prevScriptKeySet represents a top level key set in the previous output script
// database.  All keys start with a serialized prefix consisting of the key set
// and version of that key set as follows:
//
//	<key set><version>
//
//	Key        Value    Size      Description
//	key set    uint8    1 byte    The key set identifier, as defined below
//	version    uint8    1 byte    The version of the key set
//
// -----------------------------------------------------------------------------
type prevScriptKeySet uint8

// These constants define the available key sets.
const (
	prevScriptKeySetDbInfo prevScriptKeySet = iota + 1 // 1
	prevScriptKeySetOutputs                            // 2
)

// prevScriptKeySetVersions defines the current version for each key set.  The
// database info key set is not versioned so that older software is always able
// to detect newer databases.
var prevScriptKeySetVersions = map[prevScriptKeySet]uint8{
	prevScriptKeySetDbInfo:  0,
	prevScriptKeySetOutputs: 1,
}

var (
	// prevScriptPrefixDbInfo is the prefix for all keys in the database info
	// key set.
	prevScriptPrefixDbInfo = []byte{byte(prevScriptKeySetDbInfo),
		prevScriptKeySetVersions[prevScriptKeySetDbInfo]}

	// prevScriptPrefixOutputs is the prefix for all keys in the previous
	// output key set.
	prevScriptPrefixOutputs = []byte{byte(prevScriptKeySetOutputs),
		prevScriptKeySetVersions[prevScriptKeySetOutputs]}

	// prevScriptDbInfoVersionKey is the database key used to house the
	// database version.
	prevScriptDbInfoVersionKey = prefixedKey(prevScriptPrefixDbInfo,
		[]byte("version"))

	// prevScriptDbInfoCreatedKey is the database key used to house the date
	// the database was created.
	prevScriptDbInfoCreatedKey = prefixedKey(prevScriptPrefixDbInfo,
		[]byte("created"))
)

// prefixedKey returns a new byte slice that consists of the provided prefix
// appended with the provided key.
func prefixedKey(prefix []byte, key []byte) []byte {
	lenPrefix := len(prefix)
	prefixedKey := make([]byte, lenPrefix+len(key))
	_ = copy(prefixedKey, prefix)
	_ = copy(prefixedKey[lenPrefix:], key)
	return prefixedKey
}

// -----------------------------------------------------------------------------
// Previous outputs are keyed by the outpoint that references them:
//
//	<prefix><hash><index><tree>
//
//	Field      Type             Size
//	prefix     []byte           2 bytes
//	hash       chainhash.Hash   32 bytes
//	index      uint32           4 bytes (big endian so keys sort by index)
//	tree       int8             1 byte
//
// The value is the serialized output:
//
//	Field      Type     Size
//	value      int64    8 bytes
//	version    uint16   2 bytes
//	pkScript   []byte   variable
// -----------------------------------------------------------------------------

// prevOutKeySize is the size of a serialized previous output key.
const prevOutKeySize = 2 + chainhash.HashSize + 4 + 1

// prevOutKey returns the database key for the provided outpoint.
func prevOutKey(outpoint *wire.OutPoint) []byte {
	key := make([]byte, prevOutKeySize)
	offset := copy(key, prevScriptPrefixOutputs)
	offset += copy(key[offset:], outpoint.Hash[:])
	binary.BigEndian.PutUint32(key[offset:], outpoint.Index)
	key[offset+4] = byte(outpoint.Tree)
	return key
}

// decodePrevOutKey decodes the passed database key into an outpoint.
func decodePrevOutKey(key []byte) (*wire.OutPoint, error) {
	if len(key) != prevOutKeySize {
		str := fmt.Sprintf("unexpected previous output key length %d",
			len(key))
		return nil, contextError(ErrPrevScriptBackendCorruption, str)
	}
	var outpoint wire.OutPoint
	offset := len(prevScriptPrefixOutputs)
	copy(outpoint.Hash[:], key[offset:offset+chainhash.HashSize])
	offset += chainhash.HashSize
	outpoint.Index = binary.BigEndian.Uint32(key[offset:])
	outpoint.Tree = int8(key[offset+4])
	return &outpoint, nil
}

// serializePrevOut returns the database value for the provided output.
func serializePrevOut(txOut *wire.TxOut) []byte {
	serialized := make([]byte, 10+len(txOut.PkScript))
	byteOrder.PutUint64(serialized, uint64(txOut.Value))
	byteOrder.PutUint16(serialized[8:], txOut.Version)
	copy(serialized[10:], txOut.PkScript)
	return serialized
}

// deserializePrevOut decodes a database value into an output.
func deserializePrevOut(serialized []byte) (*wire.TxOut, error) {
	if len(serialized) < 10 {
		str := fmt.Sprintf("unexpected previous output length %d",
			len(serialized))
		return nil, contextError(ErrPrevScriptBackendCorruption, str)
	}
	return &wire.TxOut{
		Value:    int64(byteOrder.Uint64(serialized)),
		Version:  byteOrder.Uint16(serialized[8:]),
		PkScript: serialized[10:],
	}, nil
}

// convertLdbErr converts the passed leveldb error into a context error with an
// equivalent error kind and the passed description.  It also sets the passed
// error as the underlying error and adds its error string to the description.
func convertLdbErr(ldbErr error, desc string) ContextError {
	var kind = ErrPrevScriptBackend
	switch {
	case ldberrors.IsCorrupted(ldbErr):
		kind = ErrPrevScriptBackendCorruption

	case errors.Is(ldbErr, leveldb.ErrClosed):
		kind = ErrPrevScriptBackendNotOpen

	case errors.Is(ldbErr, leveldb.ErrSnapshotReleased),
		errors.Is(ldbErr, leveldb.ErrIterReleased):
		kind = ErrPrevScriptBackendTxClosed
	}

	desc = fmt.Sprintf("%s: %v", desc, ldbErr)
	err := contextError(kind, desc)
	err.RawErr = ldbErr
	return err
}

// fileExists reports whether the named file or directory exists.
func fileExists(name string) bool {
	if _, err := os.Stat(name); err != nil {
		if os.IsNotExist(err) {
			return false
		}
	}
	return true
}

// LoadPrevScriptDB loads (or creates when needed) the previous output script
// database under the provided data directory and returns a handle to it.
func LoadPrevScriptDB(dataDir string) (*leveldb.DB, error) {
	dbPath := filepath.Join(dataDir, prevScriptDbName)

	// Ensure the full path to the database exists.
	dbExists := fileExists(dbPath)
	if !dbExists {
		// The error can be ignored here since the call to leveldb.OpenFile
		// will fail if the directory couldn't be created.
		_ = os.MkdirAll(dataDir, 0700)
	}

	log.Infof("Loading previous output script database from '%s'", dbPath)
	opts := opt.Options{
		ErrorIfExist: !dbExists,
		Strict:       opt.DefaultStrict,
		Compression:  opt.NoCompression,
		Filter:       filter.NewBloomFilter(10),
	}
	db, err := leveldb.OpenFile(dbPath, &opts)
	if err != nil {
		return nil, convertLdbErr(err, "failed to open previous output "+
			"script database")
	}

	log.Info("Previous output script database loaded")
	return db, nil
}

// PrevScriptDB is a persistent store of previous outputs backed by leveldb.  It
// implements the PrevScripter interface so it may be used directly as the
// source of previous output scripts when validating transactions.
//
// All methods are safe for concurrent access.
type PrevScriptDB struct {
	db *leveldb.DB
}

// Ensure PrevScriptDB implements the PrevScripter interface.
var _ PrevScripter = (*PrevScriptDB)(nil)

// NewPrevScriptDB returns a new previous output store that uses the provided
// leveldb database for its underlying storage.  InitInfo should be called
// before the store is used.
func NewPrevScriptDB(db *leveldb.DB) *PrevScriptDB {
	return &PrevScriptDB{db: db}
}

// get returns the value for the given key or nil when it does not exist.
func (p *PrevScriptDB) get(key []byte) ([]byte, error) {
	serialized, err := p.db.Get(key, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, nil
		}
		str := fmt.Sprintf("failed to get key %x from leveldb", key)
		return nil, convertLdbErr(err, str)
	}
	return serialized, nil
}

// update invokes the passed function in the context of a leveldb transaction.
// Any errors returned from the function cause the transaction to be discarded.
// Otherwise, the transaction is committed.
func (p *PrevScriptDB) update(fn func(tx *leveldb.Transaction) error) error {
	ldbTx, err := p.db.OpenTransaction()
	if err != nil {
		return convertLdbErr(err, "failed to open leveldb transaction")
	}

	if err := fn(ldbTx); err != nil {
		ldbTx.Discard()
		return err
	}

	if err := ldbTx.Commit(); err != nil {
		ldbTx.Discard()
		return convertLdbErr(err, "failed to commit leveldb transaction")
	}
	return nil
}

// InitInfo creates the versioning information for a new database or ensures
// the version of an existing one is supported.
func (p *PrevScriptDB) InitInfo() error {
	versionBytes, err := p.get(prevScriptDbInfoVersionKey)
	if err != nil {
		return err
	}
	if versionBytes != nil {
		if len(versionBytes) != 4 {
			return contextError(ErrPrevScriptBackendCorruption,
				"malformed database version")
		}
		version := byteOrder.Uint32(versionBytes)
		if version > currentPrevScriptDatabaseVersion {
			str := fmt.Sprintf("the previous output script database is no "+
				"longer compatible with this version of the software "+
				"(%d > %d)", version, currentPrevScriptDatabaseVersion)
			return contextError(ErrPrevScriptBackendTooNew, str)
		}
		return nil
	}

	return p.update(func(tx *leveldb.Transaction) error {
		var version [4]byte
		byteOrder.PutUint32(version[:], currentPrevScriptDatabaseVersion)
		if err := tx.Put(prevScriptDbInfoVersionKey, version[:], nil); err != nil {
			return convertLdbErr(err, "failed to store database version")
		}
		var created [8]byte
		byteOrder.PutUint64(created[:], uint64(time.Now().Unix()))
		if err := tx.Put(prevScriptDbInfoCreatedKey, created[:], nil); err != nil {
			return convertLdbErr(err, "failed to store database creation time")
		}
		return nil
	})
}

// FetchPrevOut returns the output referenced by the provided outpoint.  Nil is
// returned for both the output and the error when it does not exist.
func (p *PrevScriptDB) FetchPrevOut(outpoint *wire.OutPoint) (*wire.TxOut, error) {
	serialized, err := p.get(prevOutKey(outpoint))
	if err != nil || serialized == nil {
		return nil, err
	}
	return deserializePrevOut(serialized)
}

// PrevScript returns the public key script of the output referenced by the
// provided outpoint along with whether or not it exists.  Backend failures are
// logged and reported as a missing output.
func (p *PrevScriptDB) PrevScript(outpoint *wire.OutPoint) ([]byte, bool) {
	txOut, err := p.FetchPrevOut(outpoint)
	if err != nil {
		log.Errorf("Unable to fetch previous output %v: %v", outpoint, err)
		return nil, false
	}
	if txOut == nil {
		return nil, false
	}
	return txOut.PkScript, true
}

// PutPrevOut stores the passed output as referenced by the provided outpoint.
func (p *PrevScriptDB) PutPrevOut(outpoint *wire.OutPoint, txOut *wire.TxOut) error {
	return p.update(func(tx *leveldb.Transaction) error {
		err := tx.Put(prevOutKey(outpoint), serializePrevOut(txOut), nil)
		if err != nil {
			str := fmt.Sprintf("failed to store previous output %v", outpoint)
			return convertLdbErr(err, str)
		}
		return nil
	})
}

// ConnectTransaction atomically removes the outputs spent by the passed
// transaction and adds all of its outputs.  Coinbase inputs do not spend
// anything.
func (p *PrevScriptDB) ConnectTransaction(msgTx *wire.MsgTx) error {
	txHash := msgTx.TxHash()
	return p.update(func(tx *leveldb.Transaction) error {
		if !standalone.IsCoinBaseTx(msgTx) {
			for _, txIn := range msgTx.TxIn {
				err := tx.Delete(prevOutKey(&txIn.PreviousOutPoint), nil)
				if err != nil {
					str := fmt.Sprintf("failed to remove spent output %v",
						txIn.PreviousOutPoint)
					return convertLdbErr(err, str)
				}
			}
		}

		for txOutIdx, txOut := range msgTx.TxOut {
			outpoint := wire.OutPoint{Hash: txHash, Index: uint32(txOutIdx),
				Tree: wire.TxTreeRegular}
			err := tx.Put(prevOutKey(&outpoint), serializePrevOut(txOut), nil)
			if err != nil {
				str := fmt.Sprintf("failed to store output %v", outpoint)
				return convertLdbErr(err, str)
			}
		}
		return nil
	})
}

// ForEachPrevOut invokes the passed function for every stored output.
// Iteration stops at the first error returned by the function.
func (p *PrevScriptDB) ForEachPrevOut(fn func(outpoint *wire.OutPoint, txOut *wire.TxOut) error) error {
	iter := p.db.NewIterator(util.BytesPrefix(prevScriptPrefixOutputs), nil)
	defer iter.Release()
	for iter.Next() {
		outpoint, err := decodePrevOutKey(iter.Key())
		if err != nil {
			return err
		}

		// The iterator value is only valid until the next call to Next.
		value := make([]byte, len(iter.Value()))
		copy(value, iter.Value())
		txOut, err := deserializePrevOut(value)
		if err != nil {
			return err
		}
		if err := fn(outpoint, txOut); err != nil {
			return err
		}
	}
	if err := iter.Error(); err != nil {
		return convertLdbErr(err, "failed to iterate previous outputs")
	}
	return nil
}

// Count returns the number of stored outputs.
func (p *PrevScriptDB) Count() (int64, error) {
	var count int64
	err := p.ForEachPrevOut(func(*wire.OutPoint, *wire.TxOut) error {
		count++
		return nil
	})
	return count, err
}

// Close closes the underlying database.
func (p *PrevScriptDB) Close() error {
	if err := p.db.Close(); err != nil {
		return convertLdbErr(err, "failed to close previous output script "+
			"database")
	}
	return nil
}
