// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/decred/dcrd/chaincfg/chainhash"
	"github.com/decred/dcrd/crypto/blake256"
)

const (
	// TxVersion is the initial transaction version.
	TxVersion uint16 = 1

	// TxVersionSeqLock is the transaction version that enables sequence
	// locks.
	TxVersionSeqLock uint16 = 2

	// MaxTxInSequenceNum is the maximum sequence number the sequence field
	// of a transaction input can be.
	MaxTxInSequenceNum uint32 = 0xffffffff

	// MaxPrevOutIndex is the maximum index the index field of a previous
	// outpoint can be.
	MaxPrevOutIndex uint32 = 0xffffffff

	// NoExpiryValue is the value of expiry that indicates the transaction
	// has no expiry.
	NoExpiryValue uint32 = 0

	// NullValueIn is a null value for an input witness.
	NullValueIn int64 = -1

	// NullBlockHeight is the null value for an input witness. It references
	// the genesis block.
	NullBlockHeight uint32 = 0x00000000

	// NullBlockIndex is the null transaction index in a block for an input
	// witness.
	NullBlockIndex uint32 = 0xffffffff

	// DefaultPkScriptVersion is the default pkScript version, referring to
	// extended Decred script.
	DefaultPkScriptVersion uint16 = 0x0000

	// TxTreeRegular is the value for a normal transaction tree for a
	// transaction's location in a block.
	TxTreeRegular int8 = 0

	// TxTreeStake is the value for a stake transaction tree for a
	// transaction's location in a block.
	TxTreeStake int8 = 1

	// SequenceLockTimeDisabled is a flag that if set on a transaction
	// input's sequence number, the sequence number will not be interpreted
	// as a relative locktime.
	SequenceLockTimeDisabled = 1 << 31

	// SequenceLockTimeIsSeconds is a flag that if set on a transaction
	// input's sequence number, the relative locktime has units of 512
	// seconds.
	SequenceLockTimeIsSeconds = 1 << 22

	// SequenceLockTimeMask is a mask that extracts the relative locktime
	// when masked against the transaction input sequence number.
	SequenceLockTimeMask = 0x0000ffff
)

const (
	// minTxInPayload is the minimum payload size for a transaction input.
	// PreviousOutPoint.Hash + PreviousOutPoint.Index 4 bytes +
	// PreviousOutPoint.Tree 1 byte + Sequence 4 bytes.
	minTxInPayload = 9 + chainhash.HashSize

	// maxTxInPerMessage is the maximum number of transactions inputs that
	// a transaction which fits into a message could possibly have.
	maxTxInPerMessage = (MaxMessagePayload / minTxInPayload) + 1

	// minTxOutPayload is the minimum payload size for a transaction output.
	// Value 8 bytes + Version 2 bytes + Varint for PkScript length 1 byte.
	minTxOutPayload = 11

	// maxTxOutPerMessage is the maximum number of transactions outputs that
	// a transaction which fits into a message could possibly have.
	maxTxOutPerMessage = (MaxMessagePayload / minTxOutPayload) + 1
)

// TxSerializeType represents the serialized type of a transaction.
type TxSerializeType uint16

const (
	// TxSerializeFull indicates a transaction be serialized with the prefix
	// and all witness data.
	TxSerializeFull TxSerializeType = iota

	// TxSerializeNoWitness indicates a transaction be serialized with only
	// the prefix.
	TxSerializeNoWitness

	// TxSerializeOnlyWitness indicates a transaction be serialized with
	// only the witness data.
	TxSerializeOnlyWitness

	// TxSerializeWitnessSigning indicates a transaction be serialized with
	// only the witness scripts.
	TxSerializeWitnessSigning

	// TxSerializeWitnessValueSigning indicates a transaction be serialized
	// with only the witness input values and scripts.
	TxSerializeWitnessValueSigning
)

// txSerializeTypeStrings is a map of serialization types back to their
// constant names for pretty printing.
var txSerializeTypeStrings = map[TxSerializeType]string{
	TxSerializeFull:                "TxSerializeFull",
	TxSerializeNoWitness:           "TxSerializeNoWitness",
	TxSerializeOnlyWitness:         "TxSerializeOnlyWitness",
	TxSerializeWitnessSigning:      "TxSerializeWitnessSigning",
	TxSerializeWitnessValueSigning: "TxSerializeWitnessValueSigning",
}

// String returns the TxSerializeType in human-readable form.
func (t TxSerializeType) String() string {
	if s, ok := txSerializeTypeStrings[t]; ok {
		return s
	}
	return fmt.Sprintf("Unknown TxSerializeType (%d)", uint16(t))
}

// OutPoint defines a Decred data type that is used to track previous
// transaction outputs.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
	Tree  int8
}

// NewOutPoint returns a new Decred transaction outpoint point with the
// provided hash and index.
func NewOutPoint(hash *chainhash.Hash, index uint32, tree int8) *OutPoint {
	return &OutPoint{
		Hash:  *hash,
		Index: index,
		Tree:  tree,
	}
}

// String returns the OutPoint in the human-readable form "hash:index".
func (o OutPoint) String() string {
	// Allocate enough for hash string, colon, and 10 digits.
	buf := make([]byte, 2*chainhash.HashSize+1, 2*chainhash.HashSize+1+10)
	copy(buf, o.Hash.String())
	buf[2*chainhash.HashSize] = ':'
	buf = strconv.AppendUint(buf, uint64(o.Index), 10)
	return string(buf)
}

// TxIn defines a Decred transaction input.
type TxIn struct {
	// Non-witness
	PreviousOutPoint OutPoint
	Sequence         uint32

	// Witness
	ValueIn         int64
	BlockHeight     uint32
	BlockIndex      uint32
	SignatureScript []byte
}

// SerializeSizePrefix returns the number of bytes it would take to serialize
// the transaction input for a prefix.
func (t *TxIn) SerializeSizePrefix() int {
	// Outpoint Hash 32 bytes + Outpoint Index 4 bytes + Outpoint Tree 1 byte +
	// Sequence 4 bytes.
	return 41
}

// SerializeSizeWitness returns the number of bytes it would take to serialize
// the transaction input for a witness.
func (t *TxIn) SerializeSizeWitness() int {
	// ValueIn (8 bytes) + BlockHeight (4 bytes) + BlockIndex (4 bytes) +
	// serialized varint size for the length of SignatureScript +
	// SignatureScript bytes.
	return 8 + 4 + 4 + VarIntSerializeSize(uint64(len(t.SignatureScript))) +
		len(t.SignatureScript)
}

// NewTxIn returns a new Decred transaction input with the provided
// previous outpoint point and signature script with a default sequence of
// MaxTxInSequenceNum.
func NewTxIn(prevOut *OutPoint, valueIn int64, signatureScript []byte) *TxIn {
	return &TxIn{
		PreviousOutPoint: *prevOut,
		Sequence:         MaxTxInSequenceNum,
		SignatureScript:  signatureScript,
		ValueIn:          valueIn,
		BlockHeight:      NullBlockHeight,
		BlockIndex:       NullBlockIndex,
	}
}

// TxOut defines a Decred transaction output.
type TxOut struct {
	Value    int64
	Version  uint16
	PkScript []byte
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction output.
func (t *TxOut) SerializeSize() int {
	// Value 8 bytes + Version 2 bytes + serialized varint size for
	// the length of PkScript + PkScript bytes.
	return 8 + 2 + VarIntSerializeSize(uint64(len(t.PkScript))) + len(t.PkScript)
}

// NewTxOut returns a new Decred transaction output with the provided
// transaction value and public key script.
func NewTxOut(value int64, pkScript []byte) *TxOut {
	return &TxOut{
		Value:    value,
		Version:  DefaultPkScriptVersion,
		PkScript: pkScript,
	}
}

// MsgTx implements the Decred transaction encoding.  It is used to deliver
// transaction information to the script engine and to compute the data that
// is covered by signatures.
//
// Use the AddTxIn and AddTxOut functions to build up the list of transaction
// inputs and outputs.
type MsgTx struct {
	SerType  TxSerializeType
	Version  uint16
	TxIn     []*TxIn
	TxOut    []*TxOut
	LockTime uint32
	Expiry   uint32
}

// AddTxIn adds a transaction input to the message.
func (msg *MsgTx) AddTxIn(ti *TxIn) {
	msg.TxIn = append(msg.TxIn, ti)
}

// AddTxOut adds a transaction output to the message.
func (msg *MsgTx) AddTxOut(to *TxOut) {
	msg.TxOut = append(msg.TxOut, to)
}

// SerializeAs encodes the transaction to w under the provided serialization
// type without modifying the serialization type of the original transaction.
func (msg *MsgTx) SerializeAs(w io.Writer, serType TxSerializeType) error {
	// Shallow copy so the serialization type can be changed without
	// modifying the original transaction.
	mtxCopy := *msg
	mtxCopy.SerType = serType
	return mtxCopy.Serialize(w)
}

// serialize returns the serialization of the transaction for the provided
// serialization type without modifying the original transaction.
func (msg *MsgTx) serialize(serType TxSerializeType) ([]byte, error) {
	mtxCopy := *msg
	mtxCopy.SerType = serType
	buf := bytes.NewBuffer(make([]byte, 0, mtxCopy.SerializeSize()))
	if err := mtxCopy.Serialize(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// hashAs returns the BLAKE-256 hash of the serialization of the transaction
// for the provided serialization type.  The serialization is streamed
// directly into the hasher.
func (msg *MsgTx) hashAs(serType TxSerializeType) chainhash.Hash {
	hasher := blake256.NewHasher256()
	// Writes to the hasher never fail and every serialization type used
	// here is known, so the error can never be non-nil.
	_ = msg.SerializeAs(hasher, serType)
	return hasher.Sum256()
}

// TxHash generates the hash for the transaction prefix.  Since it does not
// contain any witness data, it is not malleable and therefore is stable for
// use in unconfirmed transaction chains.
func (msg *MsgTx) TxHash() chainhash.Hash {
	return msg.hashAs(TxSerializeNoWitness)
}

// TxHashWitness generates the hash for the transaction witness.
func (msg *MsgTx) TxHashWitness() chainhash.Hash {
	return msg.hashAs(TxSerializeOnlyWitness)
}

// TxHashFull generates the hash for the transaction prefix || witness. It
// first obtains the hashes for both the transaction prefix and witness, then
// concatenates them and hashes the result.
func (msg *MsgTx) TxHashFull() chainhash.Hash {
	// Note that the inputs to the hashes, the serialized prefix and
	// witness, have different serialized versions because the serialized
	// encoding of the version includes the real transaction version in the
	// lower 16 bits and the transaction serialization type in the upper 16
	// bits.
	prefixHash := msg.TxHash()
	witnessHash := msg.TxHashWitness()

	hasher := blake256.NewHasher256()
	hasher.WriteBytes(prefixHash[:])
	hasher.WriteBytes(witnessHash[:])
	return hasher.Sum256()
}

// Copy creates a deep copy of a transaction so that the original does not get
// modified when the copy is manipulated.
func (msg *MsgTx) Copy() *MsgTx {
	// Create new tx and start by copying primitive values and making space
	// for the transaction inputs and outputs.
	newTx := MsgTx{
		SerType:  msg.SerType,
		Version:  msg.Version,
		TxIn:     make([]*TxIn, 0, len(msg.TxIn)),
		TxOut:    make([]*TxOut, 0, len(msg.TxOut)),
		LockTime: msg.LockTime,
		Expiry:   msg.Expiry,
	}

	// Deep copy the old TxIn data.
	for _, oldTxIn := range msg.TxIn {
		var newScript []byte
		if len(oldTxIn.SignatureScript) > 0 {
			newScript = make([]byte, len(oldTxIn.SignatureScript))
			copy(newScript, oldTxIn.SignatureScript)
		}

		newTxIn := TxIn{
			PreviousOutPoint: oldTxIn.PreviousOutPoint,
			Sequence:         oldTxIn.Sequence,
			ValueIn:          oldTxIn.ValueIn,
			BlockHeight:      oldTxIn.BlockHeight,
			BlockIndex:       oldTxIn.BlockIndex,
			SignatureScript:  newScript,
		}
		newTx.TxIn = append(newTx.TxIn, &newTxIn)
	}

	// Deep copy the old TxOut data.
	for _, oldTxOut := range msg.TxOut {
		var newScript []byte
		if len(oldTxOut.PkScript) > 0 {
			newScript = make([]byte, len(oldTxOut.PkScript))
			copy(newScript, oldTxOut.PkScript)
		}

		newTxOut := TxOut{
			Value:    oldTxOut.Value,
			Version:  oldTxOut.Version,
			PkScript: newScript,
		}
		newTx.TxOut = append(newTx.TxOut, &newTxOut)
	}

	return &newTx
}

// readOutPoint reads the next sequence of bytes from r as an OutPoint.
func readOutPoint(r io.Reader, op *OutPoint) error {
	_, err := io.ReadFull(r, op.Hash[:])
	if err != nil {
		return err
	}
	if err := readUint32LE(r, &op.Index); err != nil {
		return err
	}
	var tree uint8
	if err := readUint8(r, &tree); err != nil {
		return err
	}
	op.Tree = int8(tree)
	return nil
}

// writeOutPoint encodes op to the Decred protocol encoding for an OutPoint to
// w.
func writeOutPoint(w io.Writer, op *OutPoint) error {
	if _, err := w.Write(op.Hash[:]); err != nil {
		return err
	}
	if err := writeUint32LE(w, op.Index); err != nil {
		return err
	}
	return writeUint8(w, uint8(op.Tree))
}

// decodePrefix decodes a transaction prefix from r into the receiver.
func (msg *MsgTx) decodePrefix(r io.Reader, pver uint32) error {
	const op = "MsgTx.decodePrefix"
	count, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}

	// Prevent more input transactions than could possibly fit into a
	// message.  It would be possible to cause memory exhaustion and panics
	// without a sane upper bound on this count.
	if count > uint64(maxTxInPerMessage) {
		str := fmt.Sprintf("too many input transactions to fit into max "+
			"message size [count %d, max %d]", count, maxTxInPerMessage)
		return messageError(op, ErrTooManyTxs, str)
	}

	txIns := make([]TxIn, count)
	msg.TxIn = make([]*TxIn, count)
	for i := uint64(0); i < count; i++ {
		ti := &txIns[i]
		msg.TxIn[i] = ti
		if err := readOutPoint(r, &ti.PreviousOutPoint); err != nil {
			return err
		}
		if err := readUint32LE(r, &ti.Sequence); err != nil {
			return err
		}
	}

	count, err = ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	if count > uint64(maxTxOutPerMessage) {
		str := fmt.Sprintf("too many output transactions to fit into "+
			"max message size [count %d, max %d]", count, maxTxOutPerMessage)
		return messageError(op, ErrTooManyTxs, str)
	}

	txOuts := make([]TxOut, count)
	msg.TxOut = make([]*TxOut, count)
	for i := uint64(0); i < count; i++ {
		to := &txOuts[i]
		msg.TxOut[i] = to
		var value uint64
		if err := readUint64LE(r, &value); err != nil {
			return err
		}
		to.Value = int64(value)
		if err := readUint16LE(r, &to.Version); err != nil {
			return err
		}
		to.PkScript, err = ReadVarBytes(r, pver, MaxMessagePayload,
			"transaction output public key script")
		if err != nil {
			return err
		}
	}

	if err := readUint32LE(r, &msg.LockTime); err != nil {
		return err
	}
	return readUint32LE(r, &msg.Expiry)
}

// readTxInWitness reads the witness portion of a transaction input.
func readTxInWitness(r io.Reader, pver uint32, ti *TxIn) error {
	var valueIn uint64
	if err := readUint64LE(r, &valueIn); err != nil {
		return err
	}
	ti.ValueIn = int64(valueIn)
	if err := readUint32LE(r, &ti.BlockHeight); err != nil {
		return err
	}
	if err := readUint32LE(r, &ti.BlockIndex); err != nil {
		return err
	}

	var err error
	ti.SignatureScript, err = ReadVarBytes(r, pver, MaxMessagePayload,
		"transaction input signature script")
	return err
}

// decodeWitness decodes the witness portion of a transaction from r.  When
// isFull is set, the witness data is merged into the inputs already decoded
// from the prefix.
func (msg *MsgTx) decodeWitness(r io.Reader, pver uint32, isFull bool) error {
	const op = "MsgTx.decodeWitness"
	count, err := ReadVarInt(r, pver)
	if err != nil {
		return err
	}
	if count > uint64(maxTxInPerMessage) {
		str := fmt.Sprintf("too many input transactions to fit into "+
			"max message size [count %d, max %d]", count, maxTxInPerMessage)
		return messageError(op, ErrTooManyTxs, str)
	}

	if !isFull {
		txIns := make([]TxIn, count)
		msg.TxIn = make([]*TxIn, count)
		for i := uint64(0); i < count; i++ {
			ti := &txIns[i]
			msg.TxIn[i] = ti
			if err := readTxInWitness(r, pver, ti); err != nil {
				return err
			}
		}
		msg.TxOut = make([]*TxOut, 0)
		return nil
	}

	// Don't allow the deserializer to panic by accessing memory that
	// doesn't exist.
	if int(count) != len(msg.TxIn) {
		str := fmt.Sprintf("non equal witness and prefix txin quantities "+
			"(witness %v, prefix %v)", count, len(msg.TxIn))
		return messageError(op, ErrMismatchedWitnessCount, str)
	}
	for i := uint64(0); i < count; i++ {
		if err := readTxInWitness(r, pver, msg.TxIn[i]); err != nil {
			return err
		}
	}
	return nil
}

// BtcDecode decodes r using the Decred protocol encoding into the receiver.
// Only the full, prefix-only and witness-only serialization types can be
// decoded since the signing serializations are not reversible.
func (msg *MsgTx) BtcDecode(r io.Reader, pver uint32) error {
	const op = "MsgTx.BtcDecode"

	// The serialized encoding of the version includes the real transaction
	// version in the lower 16 bits and the transaction serialization type
	// in the upper 16 bits.
	var version uint32
	if err := readUint32LE(r, &version); err != nil {
		return err
	}
	msg.Version = uint16(version & 0xffff)
	msg.SerType = TxSerializeType(version >> 16)

	switch msg.SerType {
	case TxSerializeNoWitness:
		return msg.decodePrefix(r, pver)

	case TxSerializeOnlyWitness:
		return msg.decodeWitness(r, pver, false)

	case TxSerializeFull:
		if err := msg.decodePrefix(r, pver); err != nil {
			return err
		}
		return msg.decodeWitness(r, pver, true)
	}

	str := fmt.Sprintf("unsupported transaction type %v", msg.SerType)
	return messageError(op, ErrUnknownTxType, str)
}

// Deserialize decodes a transaction from r into the receiver.
func (msg *MsgTx) Deserialize(r io.Reader) error {
	return msg.BtcDecode(r, ProtocolVersion)
}

// FromBytes deserializes a transaction byte slice.
func (msg *MsgTx) FromBytes(b []byte) error {
	r := bytes.NewReader(b)
	return msg.Deserialize(r)
}

// encodePrefix encodes a transaction prefix into a writer.
func (msg *MsgTx) encodePrefix(w io.Writer, pver uint32) error {
	err := WriteVarInt(w, pver, uint64(len(msg.TxIn)))
	if err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeOutPoint(w, &ti.PreviousOutPoint); err != nil {
			return err
		}
		if err := writeUint32LE(w, ti.Sequence); err != nil {
			return err
		}
	}

	err = WriteVarInt(w, pver, uint64(len(msg.TxOut)))
	if err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeUint64LE(w, uint64(to.Value)); err != nil {
			return err
		}
		if err := writeUint16LE(w, to.Version); err != nil {
			return err
		}
		if err := WriteVarBytes(w, pver, to.PkScript); err != nil {
			return err
		}
	}

	if err := writeUint32LE(w, msg.LockTime); err != nil {
		return err
	}
	return writeUint32LE(w, msg.Expiry)
}

// encodeWitness encodes a transaction witness into a writer.
func (msg *MsgTx) encodeWitness(w io.Writer, pver uint32) error {
	err := WriteVarInt(w, pver, uint64(len(msg.TxIn)))
	if err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeUint64LE(w, uint64(ti.ValueIn)); err != nil {
			return err
		}
		if err := writeUint32LE(w, ti.BlockHeight); err != nil {
			return err
		}
		if err := writeUint32LE(w, ti.BlockIndex); err != nil {
			return err
		}
		if err := WriteVarBytes(w, pver, ti.SignatureScript); err != nil {
			return err
		}
	}
	return nil
}

// encodeWitnessSigning encodes a transaction witness into a writer for
// signing.  Only the signature scripts are included.
func (msg *MsgTx) encodeWitnessSigning(w io.Writer, pver uint32) error {
	err := WriteVarInt(w, pver, uint64(len(msg.TxIn)))
	if err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := WriteVarBytes(w, pver, ti.SignatureScript); err != nil {
			return err
		}
	}
	return nil
}

// encodeWitnessValueSigning encodes a transaction witness into a writer for
// signing, with the input values committed to alongside the signature
// scripts.
func (msg *MsgTx) encodeWitnessValueSigning(w io.Writer, pver uint32) error {
	err := WriteVarInt(w, pver, uint64(len(msg.TxIn)))
	if err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if err := writeUint64LE(w, uint64(ti.ValueIn)); err != nil {
			return err
		}
		if err := WriteVarBytes(w, pver, ti.SignatureScript); err != nil {
			return err
		}
	}
	return nil
}

// BtcEncode encodes the receiver to w using the Decred protocol encoding for
// the serialization type of the transaction.
func (msg *MsgTx) BtcEncode(w io.Writer, pver uint32) error {
	// The serialized encoding of the version includes the real transaction
	// version in the lower 16 bits and the transaction serialization type
	// in the upper 16 bits.
	serializedVersion := uint32(msg.Version) | uint32(msg.SerType)<<16
	if err := writeUint32LE(w, serializedVersion); err != nil {
		return err
	}

	switch msg.SerType {
	case TxSerializeNoWitness:
		return msg.encodePrefix(w, pver)

	case TxSerializeOnlyWitness:
		return msg.encodeWitness(w, pver)

	case TxSerializeWitnessSigning:
		return msg.encodeWitnessSigning(w, pver)

	case TxSerializeWitnessValueSigning:
		return msg.encodeWitnessValueSigning(w, pver)

	case TxSerializeFull:
		if err := msg.encodePrefix(w, pver); err != nil {
			return err
		}
		return msg.encodeWitness(w, pver)
	}

	str := fmt.Sprintf("unsupported transaction type %v", msg.SerType)
	return messageError("MsgTx.BtcEncode", ErrUnknownTxType, str)
}

// Serialize encodes the transaction to w using the serialization type of the
// transaction.
func (msg *MsgTx) Serialize(w io.Writer) error {
	return msg.BtcEncode(w, ProtocolVersion)
}

// Bytes returns the serialized form of the transaction in bytes.
func (msg *MsgTx) Bytes() ([]byte, error) {
	return msg.serialize(msg.SerType)
}

// BytesPrefix returns the serialized form of the transaction prefix in bytes.
func (msg *MsgTx) BytesPrefix() ([]byte, error) {
	return msg.serialize(TxSerializeNoWitness)
}

// BytesWitness returns the serialized form of the transaction witness in
// bytes.
func (msg *MsgTx) BytesWitness() ([]byte, error) {
	return msg.serialize(TxSerializeOnlyWitness)
}

// SerializeSize returns the number of bytes it would take to serialize the
// transaction.  Unknown serialization types return 0.
func (msg *MsgTx) SerializeSize() int {
	numTxIns := uint64(len(msg.TxIn))
	n := 0
	switch msg.SerType {
	case TxSerializeNoWitness:
		// Version 4 bytes + LockTime 4 bytes + Expiry 4 bytes +
		// Serialized varint size for the number of transaction
		// inputs and outputs.
		n = 12 + VarIntSerializeSize(numTxIns) +
			VarIntSerializeSize(uint64(len(msg.TxOut)))
		for _, txIn := range msg.TxIn {
			n += txIn.SerializeSizePrefix()
		}
		for _, txOut := range msg.TxOut {
			n += txOut.SerializeSize()
		}

	case TxSerializeOnlyWitness:
		n = 4 + VarIntSerializeSize(numTxIns)
		for _, txIn := range msg.TxIn {
			n += txIn.SerializeSizeWitness()
		}

	case TxSerializeWitnessSigning:
		n = 4 + VarIntSerializeSize(numTxIns)
		for _, txIn := range msg.TxIn {
			scriptLen := uint64(len(txIn.SignatureScript))
			n += VarIntSerializeSize(scriptLen) + int(scriptLen)
		}

	case TxSerializeWitnessValueSigning:
		n = 4 + VarIntSerializeSize(numTxIns)
		for _, txIn := range msg.TxIn {
			scriptLen := uint64(len(txIn.SignatureScript))
			n += 8 + VarIntSerializeSize(scriptLen) + int(scriptLen)
		}

	case TxSerializeFull:
		// The number of inputs is added twice because it's encoded once
		// in both the witness and the prefix.
		n = 12 + 2*VarIntSerializeSize(numTxIns) +
			VarIntSerializeSize(uint64(len(msg.TxOut)))
		for _, txIn := range msg.TxIn {
			n += txIn.SerializeSizePrefix() + txIn.SerializeSizeWitness()
		}
		for _, txOut := range msg.TxOut {
			n += txOut.SerializeSize()
		}
	}

	return n
}

// NewMsgTx returns a new Decred tx message that conforms to the Message
// interface.  The return instance has a default version of TxVersion and there
// are no transaction inputs or outputs.  Also, the lock time is set to zero
// to indicate the transaction is valid immediately as opposed to some time in
// future.
func NewMsgTx() *MsgTx {
	return &MsgTx{
		SerType: TxSerializeFull,
		Version: TxVersion,
		TxIn:    make([]*TxIn, 0, 8),
		TxOut:   make([]*TxOut, 0, 8),
	}
}
