// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"fmt"

	"github.com/decred/dcrd/dcrec"
)

const (
	// MaxDataCarrierSize is the maximum number of bytes allowed in pushed
	// data to be considered a nulldata transaction.
	MaxDataCarrierSize = 256
)

// ScriptClass is an enumeration for the list of standard types of script.
type ScriptClass byte

// Classes of script payment known about in the blockchain.
const (
	NonStandardTy   ScriptClass = iota // None of the recognized forms.
	PubKeyTy                           // Pay pubkey.
	PubKeyHashTy                       // Pay pubkey hash.
	ScriptHashTy                       // Pay to script hash.
	MultiSigTy                         // Multi signature.
	NullDataTy                         // Empty data-only (provably prunable).
	PubKeyAltTy                        // Alternative signature pubkey.
	PubKeyHashAltTy                    // Alternative signature pubkey hash.
)

// scriptClassToName houses the human-readable strings which describe each
// script class.
var scriptClassToName = []string{
	NonStandardTy:   "nonstandard",
	PubKeyTy:        "pubkey",
	PubKeyHashTy:    "pubkeyhash",
	ScriptHashTy:    "scripthash",
	MultiSigTy:      "multisig",
	NullDataTy:      "nulldata",
	PubKeyAltTy:     "pubkeyalt",
	PubKeyHashAltTy: "pubkeyhashalt",
}

// String implements the Stringer interface by returning the name of
// the enum script class. If the enum is invalid then "Invalid" will be
// returned.
func (t ScriptClass) String() string {
	if int(t) >= len(scriptClassToName) {
		return "Invalid"
	}
	return scriptClassToName[t]
}

// isPushOfLen returns whether the parsed opcode is a data push of exactly the
// given number of bytes.
func isPushOfLen(pop *ParsedOpcode, dataLen int) bool {
	return pop.isPush() && len(pop.data) == dataLen
}

// isStrictPubKeyPush returns whether the parsed opcode pushes a compressed or
// uncompressed secp256k1 public key.
func isStrictPubKeyPush(pop *ParsedOpcode) bool {
	return pop.isPush() && isStrictPubKeyEncoding(pop.data)
}

// isPubKeyScript returns whether the script is a standard pay-to-pubkey script
// of the form: <pubkey> OP_CHECKSIG.
func isPubKeyScript(pops Script) bool {
	return len(pops) == 2 && isStrictPubKeyPush(&pops[0]) &&
		pops[1].opcode.value == OP_CHECKSIG
}

// isPubKeyHashScript returns whether the script is a standard
// pay-to-pubkey-hash script of the form:
// OP_DUP OP_HASH160 <20-byte hash> OP_EQUALVERIFY OP_CHECKSIG.
func isPubKeyHashScript(pops Script) bool {
	return len(pops) == 5 &&
		pops[0].opcode.value == OP_DUP &&
		pops[1].opcode.value == OP_HASH160 &&
		isPushOfLen(&pops[2], 20) &&
		pops[3].opcode.value == OP_EQUALVERIFY &&
		pops[4].opcode.value == OP_CHECKSIG
}

// isStandardAltSignatureType returns whether the opcode is a small integer
// that represents one of the signature types accepted by OP_CHECKSIGALT.
func isStandardAltSignatureType(op byte) bool {
	if !isSmallInt(op) {
		return false
	}

	sigType := dcrec.SignatureType(asSmallInt(op))
	return sigType == dcrec.STEd25519 || sigType == dcrec.STSchnorrSecp256k1
}

// isPubKeyAltScript returns whether the script is an alternative signature
// type pay-to-pubkey script of the form: <pubkey> <sigtype> OP_CHECKSIGALT.
func isPubKeyAltScript(pops Script) bool {
	return len(pops) == 3 && pops[0].isPush() && len(pops[0].data) > 0 &&
		isStandardAltSignatureType(pops[1].opcode.value) &&
		pops[2].opcode.value == OP_CHECKSIGALT
}

// isPubKeyHashAltScript returns whether the script is an alternative
// signature type pay-to-pubkey-hash script of the form:
// OP_DUP OP_HASH160 <20-byte hash> OP_EQUALVERIFY <sigtype> OP_CHECKSIGALT.
func isPubKeyHashAltScript(pops Script) bool {
	return len(pops) == 6 &&
		pops[0].opcode.value == OP_DUP &&
		pops[1].opcode.value == OP_HASH160 &&
		isPushOfLen(&pops[2], 20) &&
		pops[3].opcode.value == OP_EQUALVERIFY &&
		isStandardAltSignatureType(pops[4].opcode.value) &&
		pops[5].opcode.value == OP_CHECKSIGALT
}

// isScriptHashScript returns whether the script is a pay-to-script-hash
// script of the form: OP_HASH160 <20-byte hash> OP_EQUAL.
func isScriptHashScript(pops Script) bool {
	return len(pops) == 3 &&
		pops[0].opcode.value == OP_HASH160 &&
		isPushOfLen(&pops[1], 20) &&
		pops[2].opcode.value == OP_EQUAL
}

// multiSigDetails houses details extracted from a standard multisig script.
type multiSigDetails struct {
	requiredSigs int
	numPubKeys   int
	pubKeys      [][]byte
	valid        bool
}

// extractMultisigScriptDetails attempts to extract details from the passed
// script if it is a standard multisig script of the form:
// <m> <pubkey 1> ... <pubkey n> <n> OP_CHECKMULTISIG.  The returned details
// struct will have the valid flag set to false otherwise.
func extractMultisigScriptDetails(pops Script, extractPubKeys bool) multiSigDetails {
	// A multi-signature script must have at least the required signatures,
	// one public key, the number of public keys, and the check opcode.
	if len(pops) < 4 {
		return multiSigDetails{}
	}

	// The first opcode must be a small integer specifying the number of
	// signatures required.
	if !isSmallInt(pops[0].opcode.value) {
		return multiSigDetails{}
	}
	requiredSigs := asSmallInt(pops[0].opcode.value)

	// The final opcode must be OP_CHECKMULTISIG preceded by a small integer
	// specifying the number of public keys.
	last := len(pops) - 1
	if pops[last].opcode.value != OP_CHECKMULTISIG {
		return multiSigDetails{}
	}
	if !isSmallInt(pops[last-1].opcode.value) {
		return multiSigDetails{}
	}
	numPubKeys := asSmallInt(pops[last-1].opcode.value)

	// The number of public keys pushed must match the declared count and the
	// required signatures may not exceed it.
	keyPops := pops[1 : last-1]
	if len(keyPops) != numPubKeys || numPubKeys < requiredSigs ||
		requiredSigs == 0 {

		return multiSigDetails{}
	}

	var pubKeys [][]byte
	if extractPubKeys {
		pubKeys = make([][]byte, 0, numPubKeys)
	}
	for i := range keyPops {
		if !isStrictPubKeyPush(&keyPops[i]) {
			return multiSigDetails{}
		}
		if extractPubKeys {
			pubKeys = append(pubKeys, keyPops[i].data)
		}
	}

	return multiSigDetails{
		requiredSigs: requiredSigs,
		numPubKeys:   numPubKeys,
		pubKeys:      pubKeys,
		valid:        true,
	}
}

// isMultisigScript returns whether or not the passed script is a standard
// multisig script.
func isMultisigScript(pops Script) bool {
	return extractMultisigScriptDetails(pops, false).valid
}

// isNullDataScript returns whether or not the passed script is a standard
// null data script of the form OP_RETURN [small int or single canonical push
// of at most MaxDataCarrierSize bytes].
func isNullDataScript(pops Script) bool {
	switch {
	case len(pops) == 1:
		return pops[0].opcode.value == OP_RETURN
	case len(pops) == 2:
		if pops[0].opcode.value != OP_RETURN {
			return false
		}
		pop := &pops[1]
		if isSmallInt(pop.opcode.value) {
			return true
		}
		return pop.isPush() && pop.canonicalPush() &&
			len(pop.data) <= MaxDataCarrierSize
	}
	return false
}

// typeOfScript returns the type of the parsed script.
func typeOfScript(pops Script) ScriptClass {
	switch {
	case isPubKeyScript(pops):
		return PubKeyTy
	case isPubKeyAltScript(pops):
		return PubKeyAltTy
	case isPubKeyHashScript(pops):
		return PubKeyHashTy
	case isPubKeyHashAltScript(pops):
		return PubKeyHashAltTy
	case isScriptHashScript(pops):
		return ScriptHashTy
	case isMultisigScript(pops):
		return MultiSigTy
	case isNullDataScript(pops):
		return NullDataTy
	}
	return NonStandardTy
}

// GetScriptClass returns the class of the script passed.
//
// NonStandardTy will be returned when the script does not parse.
func GetScriptClass(script []byte) ScriptClass {
	pops, err := ParseScript(script)
	if err != nil {
		return NonStandardTy
	}
	return typeOfScript(pops)
}

// IsMultisigScript returns whether or not the passed script is a standard
// multisignature script.
func IsMultisigScript(script []byte) bool {
	pops, err := ParseScript(script)
	if err != nil {
		return false
	}
	return isMultisigScript(pops)
}

// CalcMultiSigStats returns the number of public keys and signatures from
// a multi-signature transaction script.  The passed script MUST already be
// known to be a multi-signature script.
func CalcMultiSigStats(script []byte) (int, int, error) {
	pops, err := ParseScript(script)
	if err != nil {
		return 0, 0, err
	}
	details := extractMultisigScriptDetails(pops, false)
	if !details.valid {
		str := fmt.Sprintf("script %x is not a multisignature script", script)
		return 0, 0, scriptError(ErrNotMultisigScript, str)
	}
	return details.numPubKeys, details.requiredSigs, nil
}

// MultiSigPubKeys returns the public keys committed to by a standard
// multisignature script in the order they appear in the script.
func MultiSigPubKeys(script []byte) ([][]byte, error) {
	pops, err := ParseScript(script)
	if err != nil {
		return nil, err
	}
	details := extractMultisigScriptDetails(pops, true)
	if !details.valid {
		str := fmt.Sprintf("script %x is not a multisignature script", script)
		return nil, scriptError(ErrNotMultisigScript, str)
	}
	return details.pubKeys, nil
}

// ExtractPkScriptAltSigType returns the signature scheme to use for an
// alternative check signature script.
func ExtractPkScriptAltSigType(pkScript []byte) (dcrec.SignatureType, error) {
	pops, err := ParseScript(pkScript)
	if err != nil {
		return 0, err
	}

	var sigTypeOp byte
	switch {
	case isPubKeyAltScript(pops):
		sigTypeOp = pops[1].opcode.value
	case isPubKeyHashAltScript(pops):
		sigTypeOp = pops[4].opcode.value
	default:
		return 0, scriptError(ErrSigTypeUnsupported,
			"script is not an alternative signature type script")
	}
	return dcrec.SignatureType(asSmallInt(sigTypeOp)), nil
}

// PushedData returns an array of byte slices containing any pushed data found
// in the passed script.  This includes OP_0, but not OP_1 - OP_16.
func PushedData(script []byte) ([][]byte, error) {
	pops, err := ParseScript(script)
	if err != nil {
		return nil, err
	}

	var data [][]byte
	for i := range pops {
		switch {
		case pops[i].opcode.value == OP_0:
			data = append(data, nil)
		case pops[i].opcode.value <= OP_PUSHDATA4:
			data = append(data, pops[i].data)
		}
	}
	return data, nil
}

// PayToPubKeyHashScript creates a new script to pay a transaction output to a
// 20-byte pubkey hash.
func PayToPubKeyHashScript(pubKeyHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
		AddData(pubKeyHash).AddOp(OP_EQUALVERIFY).AddOp(OP_CHECKSIG).
		Script()
}

// PayToPubKeyHashAltScript creates a new script to pay a transaction output
// to a 20-byte pubkey hash of an alternative signature type public key.
func PayToPubKeyHashAltScript(pubKeyHash []byte, sigType dcrec.SignatureType) ([]byte, error) {
	if sigType != dcrec.STEd25519 && sigType != dcrec.STSchnorrSecp256k1 {
		str := fmt.Sprintf("unsupported alternative signature type %v", sigType)
		return nil, scriptError(ErrUnsupportedSigType, str)
	}
	return NewScriptBuilder().AddOp(OP_DUP).AddOp(OP_HASH160).
		AddData(pubKeyHash).AddOp(OP_EQUALVERIFY).AddInt64(int64(sigType)).
		AddOp(OP_CHECKSIGALT).Script()
}

// PayToScriptHashScript creates a new script to pay a transaction output to a
// script hash.
func PayToScriptHashScript(scriptHash []byte) ([]byte, error) {
	return NewScriptBuilder().AddOp(OP_HASH160).AddData(scriptHash).
		AddOp(OP_EQUAL).Script()
}

// PayToPubKeyScript creates a new script to pay a transaction output to a
// serialized secp256k1 public key.
func PayToPubKeyScript(serializedPubKey []byte) ([]byte, error) {
	return NewScriptBuilder().AddData(serializedPubKey).
		AddOp(OP_CHECKSIG).Script()
}

// PayToPubKeyAltScript creates a new script to pay a transaction output to a
// serialized public key of an alternative signature type.
func PayToPubKeyAltScript(serializedPubKey []byte, sigType dcrec.SignatureType) ([]byte, error) {
	if sigType != dcrec.STEd25519 && sigType != dcrec.STSchnorrSecp256k1 {
		str := fmt.Sprintf("unsupported alternative signature type %v", sigType)
		return nil, scriptError(ErrUnsupportedSigType, str)
	}
	return NewScriptBuilder().AddData(serializedPubKey).
		AddInt64(int64(sigType)).AddOp(OP_CHECKSIGALT).Script()
}

// MultiSigScript returns a valid script for a multisignature redemption where
// nRequired of the keys in pubKeys are required to have signed the transaction
// for success.  An Error with kind ErrTooManyRequiredSigs will be returned if
// nRequired is larger than the number of keys provided.
func MultiSigScript(pubKeys [][]byte, nRequired int) ([]byte, error) {
	if len(pubKeys) < nRequired {
		str := fmt.Sprintf("unable to generate multisig script with "+
			"%d required signatures when there are only %d public "+
			"keys available", nRequired, len(pubKeys))
		return nil, scriptError(ErrTooManyRequiredSigs, str)
	}
	if len(pubKeys) > MaxPubKeysPerMultiSig {
		str := fmt.Sprintf("unable to generate multisig script with %d "+
			"public keys which exceeds the max of %d", len(pubKeys),
			MaxPubKeysPerMultiSig)
		return nil, scriptError(ErrInvalidPubKeyCount, str)
	}

	builder := NewScriptBuilder().AddInt64(int64(nRequired))
	for _, key := range pubKeys {
		builder.AddData(key)
	}
	builder.AddInt64(int64(len(pubKeys)))
	builder.AddOp(OP_CHECKMULTISIG)

	return builder.Script()
}

// NullDataScript creates a provably-prunable script containing OP_RETURN
// followed by the passed data.  An Error with kind ErrTooMuchNullData will be
// returned if the length of the passed data exceeds MaxDataCarrierSize.
func NullDataScript(data []byte) ([]byte, error) {
	if len(data) > MaxDataCarrierSize {
		str := fmt.Sprintf("data size %d is larger than max "+
			"allowed size %d", len(data), MaxDataCarrierSize)
		return nil, scriptError(ErrTooMuchNullData, str)
	}

	return NewScriptBuilder().AddOp(OP_RETURN).AddData(data).Script()
}
