// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"github.com/decred/dcrd/dcrec"
)

var (
	// testCompressedKey and testUncompressedKey are well-formed public keys
	// for use in the standard script tests.
	testCompressedKey = hexToBytes("02192d74d0cb94344c9569c2e77901573d8d790" +
		"3c3ebec3a957724895dca52c6b4")
	testUncompressedKey = hexToBytes("0411db93e1dcdb8a016b49840f8c53bc1eb68" +
		"a382e97b1482ecad7b148a6909a5cb2e0eaddfb84ccf9744464f82e160bfa9b8b64" +
		"f9d4c03f999b8643f656b412a3")
)

// TestGetScriptClass ensures all of the standard script forms are classified
// as expected.
func TestGetScriptClass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		class  ScriptClass
	}{
		{"pubkey compressed",
			"DATA_33 0x02192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724" +
				"895dca52c6b4 CHECKSIG", PubKeyTy},
		{"pubkey uncompressed",
			"DATA_65 0x0411db93e1dcdb8a016b49840f8c53bc1eb68a382e97b1482ecad7b" +
				"148a6909a5cb2e0eaddfb84ccf9744464f82e160bfa9b8b64f9d4c03f999b" +
				"8643f656b412a3 CHECKSIG", PubKeyTy},
		{"pubkey hybrid is nonstandard",
			"DATA_65 0x0611db93e1dcdb8a016b49840f8c53bc1eb68a382e97b1482ecad7b" +
				"148a6909a5cb2e0eaddfb84ccf9744464f82e160bfa9b8b64f9d4c03f999b" +
				"8643f656b412a3 CHECKSIG", NonStandardTy},
		{"pubkey alt ed25519", "DATA_32 0x01{32} 1 CHECKSIGALT", PubKeyAltTy},
		{"pubkey alt schnorr",
			"DATA_33 0x02192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724" +
				"895dca52c6b4 2 CHECKSIGALT", PubKeyAltTy},
		{"pubkey alt unknown type", "DATA_32 0x01{32} 3 CHECKSIGALT",
			NonStandardTy},
		{"pubkey hash",
			"DUP HASH160 DATA_20 0x01{20} EQUALVERIFY CHECKSIG", PubKeyHashTy},
		{"pubkey hash wrong length",
			"DUP HASH160 DATA_19 0x01{19} EQUALVERIFY CHECKSIG", NonStandardTy},
		{"pubkey hash alt",
			"DUP HASH160 DATA_20 0x01{20} EQUALVERIFY 1 CHECKSIGALT",
			PubKeyHashAltTy},
		{"pubkey hash alt secp256k1 type",
			"DUP HASH160 DATA_20 0x01{20} EQUALVERIFY 0 CHECKSIGALT",
			NonStandardTy},
		{"script hash", "HASH160 DATA_20 0x01{20} EQUAL", ScriptHashTy},
		{"script hash extra opcode", "HASH160 DATA_20 0x01{20} EQUAL NOP",
			NonStandardTy},
		{"multisig 1-of-1",
			"1 DATA_33 0x02192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a95772" +
				"4895dca52c6b4 1 CHECKMULTISIG", MultiSigTy},
		{"multisig count mismatch",
			"1 DATA_33 0x02192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a95772" +
				"4895dca52c6b4 2 CHECKMULTISIG", NonStandardTy},
		{"multisig zero required",
			"0 DATA_33 0x02192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a95772" +
				"4895dca52c6b4 1 CHECKMULTISIG", NonStandardTy},
		{"multisig bad key",
			"1 DATA_32 0x02{32} 1 CHECKMULTISIG", NonStandardTy},
		{"nulldata empty", "RETURN", NullDataTy},
		{"nulldata small int", "RETURN 16", NullDataTy},
		{"nulldata push", "RETURN DATA_8 0x0102030405060708", NullDataTy},
		{"nulldata max size", "RETURN PUSHDATA2 0x0001 0x01{256}", NullDataTy},
		{"nulldata too large", "RETURN PUSHDATA2 0x0101 0x01{257}",
			NonStandardTy},
		{"nulldata non-canonical", "RETURN PUSHDATA1 0x08 0x0102030405060708",
			NonStandardTy},
		{"nulldata two pushes", "RETURN DATA_1 0x20 DATA_1 0x20",
			NonStandardTy},
		{"malformed", "DATA_5 0x01020304", NonStandardTy},
		{"empty", "", NonStandardTy},
		{"nonstandard", "TRUE", NonStandardTy},
	}

	for _, test := range tests {
		script := mustParseShortForm(test.script)
		class := GetScriptClass(script)
		if class != test.class {
			t.Errorf("%q: unexpected class -- got %v, want %v", test.name,
				class, test.class)
			continue
		}
	}
}

// TestMultiSigDetails ensures the multisig helpers report the expected
// details for standard and nonstandard scripts.
func TestMultiSigDetails(t *testing.T) {
	t.Parallel()

	script, err := MultiSigScript([][]byte{testCompressedKey,
		testUncompressedKey}, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !IsMultisigScript(script) {
		t.Fatal("multisig script not detected")
	}

	numPubKeys, numSigs, err := CalcMultiSigStats(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if numPubKeys != 2 || numSigs != 1 {
		t.Fatalf("unexpected stats -- got %d/%d, want 2/1", numPubKeys,
			numSigs)
	}

	pubKeys, err := MultiSigPubKeys(script)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := [][]byte{testCompressedKey, testUncompressedKey}
	if !reflect.DeepEqual(pubKeys, want) {
		t.Fatalf("unexpected pubkeys -- got %x, want %x", pubKeys, want)
	}

	// Scripts that are not multisig must be rejected.
	p2pkh := mustParseShortForm("DUP HASH160 DATA_20 0x01{20} EQUALVERIFY " +
		"CHECKSIG")
	if IsMultisigScript(p2pkh) {
		t.Fatal("pay-to-pubkey-hash script detected as multisig")
	}
	if _, _, err := CalcMultiSigStats(p2pkh); !errors.Is(err, ErrNotMultisigScript) {
		t.Fatalf("unexpected error -- got %v, want %v", err,
			ErrNotMultisigScript)
	}
	if _, err := MultiSigPubKeys(p2pkh); !errors.Is(err, ErrNotMultisigScript) {
		t.Fatalf("unexpected error -- got %v, want %v", err,
			ErrNotMultisigScript)
	}

	// Malformed scripts report the parse failure.
	malformed := hexToBytes("4c")
	if IsMultisigScript(malformed) {
		t.Fatal("malformed script detected as multisig")
	}
	if _, _, err := CalcMultiSigStats(malformed); !errors.Is(err, ErrMalformedPush) {
		t.Fatalf("unexpected error -- got %v, want %v", err,
			ErrMalformedPush)
	}
}

// TestMultiSigScript ensures the multisig script builder produces the
// expected scripts and rejects invalid parameters.
func TestMultiSigScript(t *testing.T) {
	t.Parallel()

	tooManyKeys := make([][]byte, MaxPubKeysPerMultiSig+1)
	for i := range tooManyKeys {
		tooManyKeys[i] = testCompressedKey
	}

	tests := []struct {
		name      string
		keys      [][]byte
		nRequired int
		expected  string
		err       error
	}{{
		name:      "1 of 2",
		keys:      [][]byte{testCompressedKey, testUncompressedKey},
		nRequired: 1,
		expected: "1 DATA_33 0x02192d74d0cb94344c9569c2e77901573d8d7903c3eb" +
			"ec3a957724895dca52c6b4 DATA_65 0x0411db93e1dcdb8a016b49840f8c53" +
			"bc1eb68a382e97b1482ecad7b148a6909a5cb2e0eaddfb84ccf9744464f82e1" +
			"60bfa9b8b64f9d4c03f999b8643f656b412a3 2 CHECKMULTISIG",
	}, {
		name:      "2 of 2",
		keys:      [][]byte{testCompressedKey, testUncompressedKey},
		nRequired: 2,
		expected: "2 DATA_33 0x02192d74d0cb94344c9569c2e77901573d8d7903c3eb" +
			"ec3a957724895dca52c6b4 DATA_65 0x0411db93e1dcdb8a016b49840f8c53" +
			"bc1eb68a382e97b1482ecad7b148a6909a5cb2e0eaddfb84ccf9744464f82e1" +
			"60bfa9b8b64f9d4c03f999b8643f656b412a3 2 CHECKMULTISIG",
	}, {
		name:      "too many required",
		keys:      [][]byte{testCompressedKey},
		nRequired: 2,
		err:       ErrTooManyRequiredSigs,
	}, {
		name:      "too many keys",
		keys:      tooManyKeys,
		nRequired: 1,
		err:       ErrInvalidPubKeyCount,
	}}

	for _, test := range tests {
		script, err := MultiSigScript(test.keys, test.nRequired)
		if !errors.Is(err, test.err) {
			t.Errorf("%q: unexpected error -- got %v, want %v", test.name,
				err, test.err)
			continue
		}
		if test.err != nil {
			continue
		}

		expected := mustParseShortForm(test.expected)
		if !bytes.Equal(script, expected) {
			t.Errorf("%q: unexpected script -- got %x, want %x", test.name,
				script, expected)
			continue
		}
	}
}

// TestPayToScripts ensures the standard script builders produce scripts of
// the expected form and class.
func TestPayToScripts(t *testing.T) {
	t.Parallel()

	hash := bytes.Repeat([]byte{0x01}, 20)
	edKey := bytes.Repeat([]byte{0x01}, 32)

	tests := []struct {
		name     string
		build    func() ([]byte, error)
		expected string
		class    ScriptClass
		err      error
	}{{
		name:     "pay to pubkey hash",
		build:    func() ([]byte, error) { return PayToPubKeyHashScript(hash) },
		expected: "DUP HASH160 DATA_20 0x01{20} EQUALVERIFY CHECKSIG",
		class:    PubKeyHashTy,
	}, {
		name: "pay to pubkey hash ed25519",
		build: func() ([]byte, error) {
			return PayToPubKeyHashAltScript(hash, dcrec.STEd25519)
		},
		expected: "DUP HASH160 DATA_20 0x01{20} EQUALVERIFY 1 CHECKSIGALT",
		class:    PubKeyHashAltTy,
	}, {
		name: "pay to pubkey hash schnorr",
		build: func() ([]byte, error) {
			return PayToPubKeyHashAltScript(hash, dcrec.STSchnorrSecp256k1)
		},
		expected: "DUP HASH160 DATA_20 0x01{20} EQUALVERIFY 2 CHECKSIGALT",
		class:    PubKeyHashAltTy,
	}, {
		name: "pay to pubkey hash alt ecdsa",
		build: func() ([]byte, error) {
			return PayToPubKeyHashAltScript(hash, dcrec.STEcdsaSecp256k1)
		},
		err: ErrUnsupportedSigType,
	}, {
		name:     "pay to script hash",
		build:    func() ([]byte, error) { return PayToScriptHashScript(hash) },
		expected: "HASH160 DATA_20 0x01{20} EQUAL",
		class:    ScriptHashTy,
	}, {
		name: "pay to pubkey",
		build: func() ([]byte, error) {
			return PayToPubKeyScript(testCompressedKey)
		},
		expected: "DATA_33 0x02192d74d0cb94344c9569c2e77901573d8d7903c3ebec3" +
			"a957724895dca52c6b4 CHECKSIG",
		class: PubKeyTy,
	}, {
		name: "pay to pubkey ed25519",
		build: func() ([]byte, error) {
			return PayToPubKeyAltScript(edKey, dcrec.STEd25519)
		},
		expected: "DATA_32 0x01{32} 1 CHECKSIGALT",
		class:    PubKeyAltTy,
	}, {
		name: "pay to pubkey alt unknown type",
		build: func() ([]byte, error) {
			return PayToPubKeyAltScript(edKey, dcrec.SignatureType(5))
		},
		err: ErrUnsupportedSigType,
	}, {
		name:     "null data",
		build:    func() ([]byte, error) { return NullDataScript([]byte("data")) },
		expected: "RETURN 'data'",
		class:    NullDataTy,
	}, {
		name:     "null data small int",
		build:    func() ([]byte, error) { return NullDataScript([]byte{0x05}) },
		expected: "RETURN 5",
		class:    NullDataTy,
	}, {
		name: "null data too large",
		build: func() ([]byte, error) {
			return NullDataScript(make([]byte, MaxDataCarrierSize+1))
		},
		err: ErrTooMuchNullData,
	}}

	for _, test := range tests {
		script, err := test.build()
		if !errors.Is(err, test.err) {
			t.Errorf("%q: unexpected error -- got %v, want %v", test.name,
				err, test.err)
			continue
		}
		if test.err != nil {
			continue
		}

		expected := mustParseShortForm(test.expected)
		if !bytes.Equal(script, expected) {
			t.Errorf("%q: unexpected script -- got %x, want %x", test.name,
				script, expected)
			continue
		}
		if class := GetScriptClass(script); class != test.class {
			t.Errorf("%q: unexpected class -- got %v, want %v", test.name,
				class, test.class)
			continue
		}
	}
}

// TestExtractPkScriptAltSigType ensures the signature type is extracted from
// alternative signature scripts and other scripts are rejected.
func TestExtractPkScriptAltSigType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  string
		sigType dcrec.SignatureType
		err     error
	}{
		{"pubkey ed25519", "DATA_32 0x01{32} 1 CHECKSIGALT", dcrec.STEd25519,
			nil},
		{"pubkey schnorr",
			"DATA_33 0x02192d74d0cb94344c9569c2e77901573d8d7903c3ebec3a957724" +
				"895dca52c6b4 2 CHECKSIGALT", dcrec.STSchnorrSecp256k1, nil},
		{"pubkey hash schnorr",
			"DUP HASH160 DATA_20 0x01{20} EQUALVERIFY 2 CHECKSIGALT",
			dcrec.STSchnorrSecp256k1, nil},
		{"pubkey hash", "DUP HASH160 DATA_20 0x01{20} EQUALVERIFY CHECKSIG", 0,
			ErrSigTypeUnsupported},
		{"malformed", "DATA_2 0x01", 0, ErrMalformedPush},
	}

	for _, test := range tests {
		script := mustParseShortForm(test.script)
		sigType, err := ExtractPkScriptAltSigType(script)
		if !errors.Is(err, test.err) {
			t.Errorf("%q: unexpected error -- got %v, want %v", test.name,
				err, test.err)
			continue
		}
		if sigType != test.sigType {
			t.Errorf("%q: unexpected sig type -- got %v, want %v", test.name,
				sigType, test.sigType)
			continue
		}
	}
}

// TestPushedData ensures the data pushed by scripts is extracted as expected.
func TestPushedData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script string
		out    [][]byte
		err    error
	}{
		{"small ints and zero", "0 IF 0 ELSE 2 ENDIF", [][]byte{nil, nil}, nil},
		{"data pushes",
			"16777216 10000000",
			[][]byte{{0x00, 0x00, 0x00, 0x01}, {0x80, 0x96, 0x98, 0x00}}, nil},
		{"pushes around opcodes",
			"DUP HASH160 '17VZNX1SN5NtKa8UQFxwQbFeFc3iqRYhem' EQUALVERIFY " +
				"'sig'",
			[][]byte{[]byte("17VZNX1SN5NtKa8UQFxwQbFeFc3iqRYhem"),
				[]byte("sig")}, nil},
		{"pushdata forms",
			"PUSHDATA4 0x00000000 PUSHDATA1 0x01 0x07 0",
			[][]byte{{}, {0x07}, nil}, nil},
		{"no pushes", "NOP CHECKSIG", nil, nil},
		{"malformed", "PUSHDATA2 0x02", nil, ErrMalformedPush},
	}

	for _, test := range tests {
		script := mustParseShortForm(test.script)
		data, err := PushedData(script)
		if !errors.Is(err, test.err) {
			t.Errorf("%q: unexpected error -- got %v, want %v", test.name,
				err, test.err)
			continue
		}
		if len(data) != len(test.out) {
			t.Errorf("%q: unexpected number of pushes -- got %d, want %d",
				test.name, len(data), len(test.out))
			continue
		}
		for i := range data {
			if !bytes.Equal(data[i], test.out[i]) {
				t.Errorf("%q: unexpected push %d -- got %x, want %x",
					test.name, i, data[i], test.out[i])
				break
			}
		}
	}
}

// TestScriptClassStringer tests the stringized output for the ScriptClass
// type.
func TestScriptClassStringer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   ScriptClass
		want string
	}{
		{NonStandardTy, "nonstandard"},
		{PubKeyTy, "pubkey"},
		{PubKeyHashTy, "pubkeyhash"},
		{ScriptHashTy, "scripthash"},
		{MultiSigTy, "multisig"},
		{NullDataTy, "nulldata"},
		{PubKeyAltTy, "pubkeyalt"},
		{PubKeyHashAltTy, "pubkeyhashalt"},
		{0xff, "Invalid"},
	}

	for _, test := range tests {
		result := test.in.String()
		if result != test.want {
			t.Errorf("String: unexpected result -- got %v, want %v", result,
				test.want)
			continue
		}
	}
}
