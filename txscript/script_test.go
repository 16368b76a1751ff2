// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"errors"
	"testing"
)

// TestParseScriptRoundTrip ensures that parsing a script and serializing the
// result reproduces the original bytes exactly, including pushes that are not
// canonical.
func TestParseScriptRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
	}{
		{"empty", nil},
		{"small ints", mustParseShortForm("0 1 2 16 -1")},
		{"p2pkh", mustParseShortForm("DUP HASH160 DATA_20 0x" +
			"0102030405060708090a0b0c0d0e0f1011121314 EQUALVERIFY CHECKSIG")},
		{"non-canonical data_1 small int", hexToBytes("0105")},
		{"non-canonical pushdata1", hexToBytes("4c0101")},
		{"non-canonical pushdata2", hexToBytes("4d0100ff")},
		{"non-canonical pushdata4", hexToBytes("4e01000000ff")},
		{"empty pushdata1", hexToBytes("4c00")},
		{"conditionals", mustParseShortForm("1 IF 2 ELSE 3 ENDIF")},
		{"disabled and reserved", hexToBytes("8dab5065ff")},
		{"long push", mustParseShortForm("'a'{300} DROP")},
	}

	for _, test := range tests {
		pops, err := ParseScript(test.script)
		if err != nil {
			t.Errorf("%s: unexpected parse error: %v", test.name, err)
			continue
		}
		got, err := pops.Bytes()
		if err != nil {
			t.Errorf("%s: unexpected serialize error: %v", test.name, err)
			continue
		}
		if !bytes.Equal(got, test.script) {
			t.Errorf("%s: mismatched bytes -- got %x, want %x", test.name,
				got, test.script)
		}
	}
}

// TestParseScriptMalformed ensures scripts with pushes that run past the end
// of the script are rejected with a malformed push error.
func TestParseScriptMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  []byte
		numPops int
	}{
		{"data_1 missing data", hexToBytes("01"), 0},
		{"data_2 short data", hexToBytes("0201"), 0},
		{"data_75 short data after valid op", hexToBytes("764b01"), 1},
		{"pushdata1 missing length", hexToBytes("4c"), 0},
		{"pushdata1 short data", hexToBytes("4c0201"), 0},
		{"pushdata2 missing length", hexToBytes("4d01"), 0},
		{"pushdata2 short data", hexToBytes("4d020001"), 0},
		{"pushdata4 missing length", hexToBytes("4e010000"), 0},
		{"pushdata4 short data", hexToBytes("4e0200000001"), 0},
		{"pushdata4 negative length", hexToBytes("4effffffff"), 0},
	}

	for _, test := range tests {
		pops, err := ParseScript(test.script)
		if !errors.Is(err, ErrMalformedPush) {
			t.Errorf("%s: unexpected error -- got %v, want %v", test.name,
				err, ErrMalformedPush)
			continue
		}
		if len(pops) != test.numPops {
			t.Errorf("%s: unexpected number of parsed opcodes -- got %d, "+
				"want %d", test.name, len(pops), test.numPops)
		}
	}
}

// TestParseScriptSmallInts ensures the small integer opcodes carry their value
// as synthesized data that is not serialized.
func TestParseScriptSmallInts(t *testing.T) {
	t.Parallel()

	pops, err := ParseScript([]byte{OP_0, OP_1, OP_16, OP_1NEGATE})
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	wantData := [][]byte{nil, {1}, {16}, nil}
	for i, pop := range pops {
		if !bytes.Equal(pop.Data(), wantData[i]) {
			t.Fatalf("opcode %d (%s): unexpected data -- got %x, want %x", i,
				pop.Name(), pop.Data(), wantData[i])
		}
	}

	got, err := pops.Bytes()
	if err != nil {
		t.Fatalf("unexpected serialize error: %v", err)
	}
	if want := []byte{OP_0, OP_1, OP_16, OP_1NEGATE}; !bytes.Equal(got, want) {
		t.Fatalf("mismatched bytes -- got %x, want %x", got, want)
	}
}

// TestNewParsedOpcode ensures constructing parsed opcodes enforces both the
// payload length implied by the opcode and canonical pushes.
func TestNewParsedOpcode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		op       byte
		data     []byte
		err      error
		wantData []byte
	}{{
		name: "OP_0 no data",
		op:   OP_0,
	}, {
		name:     "OP_5 synthesizes payload",
		op:       OP_5,
		wantData: []byte{5},
	}, {
		name:     "OP_5 with its own payload",
		op:       OP_5,
		data:     []byte{5},
		wantData: []byte{5},
	}, {
		name: "OP_5 with wrong payload",
		op:   OP_5,
		data: []byte{6},
		err:  ErrMalformedPush,
	}, {
		name: "OP_DUP with payload",
		op:   OP_DUP,
		data: []byte{1},
		err:  ErrMalformedPush,
	}, {
		name:     "OP_DATA_2 canonical",
		op:       OP_DATA_2,
		data:     []byte{1, 2},
		wantData: []byte{1, 2},
	}, {
		name: "OP_DATA_2 short payload",
		op:   OP_DATA_2,
		data: []byte{1},
		err:  ErrMalformedPush,
	}, {
		name: "OP_DATA_1 small int",
		op:   OP_DATA_1,
		data: []byte{16},
		err:  ErrMinimalData,
	}, {
		name: "OP_DATA_1 negative one",
		op:   OP_DATA_1,
		data: []byte{0x81},
		err:  ErrMinimalData,
	}, {
		name: "OP_PUSHDATA1 with small push",
		op:   OP_PUSHDATA1,
		data: bytes.Repeat([]byte{0x49}, 75),
		err:  ErrMinimalData,
	}, {
		name:     "OP_PUSHDATA1 canonical",
		op:       OP_PUSHDATA1,
		data:     bytes.Repeat([]byte{0x49}, 76),
		wantData: bytes.Repeat([]byte{0x49}, 76),
	}, {
		name: "OP_PUSHDATA1 too long",
		op:   OP_PUSHDATA1,
		data: bytes.Repeat([]byte{0x49}, 256),
		err:  ErrMalformedPush,
	}, {
		name: "OP_PUSHDATA2 with pushdata1 sized push",
		op:   OP_PUSHDATA2,
		data: bytes.Repeat([]byte{0x49}, 255),
		err:  ErrMinimalData,
	}, {
		name: "OP_PUSHDATA4 empty",
		op:   OP_PUSHDATA4,
		err:  ErrMinimalData,
	}}

	for _, test := range tests {
		pop, err := NewParsedOpcode(test.op, test.data)
		if !errors.Is(err, test.err) {
			t.Errorf("%s: unexpected error -- got %v, want %v", test.name,
				err, test.err)
			continue
		}
		if err != nil {
			continue
		}
		if pop.Opcode() != test.op {
			t.Errorf("%s: unexpected opcode -- got %d, want %d", test.name,
				pop.Opcode(), test.op)
		}
		if !bytes.Equal(pop.Data(), test.wantData) {
			t.Errorf("%s: unexpected data -- got %x, want %x", test.name,
				pop.Data(), test.wantData)
		}
	}
}

// TestHasCanonicalPush ensures the pushes produced by the script builder are
// all canonical.
func TestHasCanonicalPush(t *testing.T) {
	t.Parallel()

	checkCanonical := func(desc string, script []byte) {
		t.Helper()
		if !IsPushOnlyScript(script) {
			t.Errorf("IsPushOnlyScript: %s failed: %x", desc, script)
			return
		}
		pops, err := ParseScript(script)
		if err != nil {
			t.Errorf("ParseScript: %s unexpected error: %v", desc, err)
			return
		}
		for i := range pops {
			if !pops[i].canonicalPush() {
				t.Errorf("canonicalPush: %s failed: %x", desc, script)
				return
			}
			if err := pops[i].checkMinimalDataPush(); err != nil {
				t.Errorf("checkMinimalDataPush: %s failed: %v", desc, err)
				return
			}
		}
	}

	for i := 0; i < 65535; i += 7 {
		script, err := NewScriptBuilder().AddInt64(int64(i)).Script()
		if err != nil {
			t.Fatalf("Script: int %d unexpected error: %v", i, err)
		}
		checkCanonical("int", script)
	}
	for i := 0; i <= MaxScriptElementSize; i++ {
		data := bytes.Repeat([]byte{0x49}, i)
		script, err := NewScriptBuilder().AddData(data).Script()
		if err != nil {
			t.Fatalf("Script: data len %d unexpected error: %v", i, err)
		}
		checkCanonical("data", script)
	}
}

// TestWithoutData ensures removing data pushes from a script only removes
// canonical pushes of matching data.
func TestWithoutData(t *testing.T) {
	t.Parallel()

	sig := bytes.Repeat([]byte{0x30}, 72)
	tests := []struct {
		name   string
		before []byte
		remove [][]byte
		after  []byte
	}{{
		name:   "nothing to remove",
		before: mustParseShortForm("NOP CHECKSIG"),
		remove: [][]byte{sig},
		after:  mustParseShortForm("NOP CHECKSIG"),
	}, {
		name:   "canonical push removed",
		before: append(append([]byte{OP_DATA_72}, sig...), OP_CHECKSIG),
		remove: [][]byte{sig},
		after:  []byte{OP_CHECKSIG},
	}, {
		name:   "every occurrence removed",
		before: mustParseShortForm("'abc' 'def' 'abc' DROP"),
		remove: [][]byte{[]byte("abc")},
		after:  mustParseShortForm("'def' DROP"),
	}, {
		name:   "multiple values removed",
		before: mustParseShortForm("'abc' 'def' 'ghi' DROP"),
		remove: [][]byte{[]byte("abc"), []byte("ghi")},
		after:  mustParseShortForm("'def' DROP"),
	}, {
		name:   "non-canonical pushdata1 kept",
		before: hexToBytes("4c03616263ac"),
		remove: [][]byte{[]byte("abc")},
		after:  hexToBytes("4c03616263ac"),
	}, {
		name:   "small int opcode kept",
		before: mustParseShortForm("5 CHECKSIG"),
		remove: [][]byte{{5}},
		after:  mustParseShortForm("5 CHECKSIG"),
	}}

	for _, test := range tests {
		pops, err := ParseScript(test.before)
		if err != nil {
			t.Errorf("%s: unexpected parse error: %v", test.name, err)
			continue
		}
		got, err := pops.WithoutData(test.remove...).Bytes()
		if err != nil {
			t.Errorf("%s: unexpected serialize error: %v", test.name, err)
			continue
		}
		if !bytes.Equal(got, test.after) {
			t.Errorf("%s: mismatched script -- got %x, want %x", test.name,
				got, test.after)
		}
	}
}

// TestDisasmString ensures the one-line disassembly works as expected.
func TestDisasmString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		script  []byte
		want    string
		wantErr error
	}{{
		name: "p2pkh",
		script: mustParseShortForm("DUP HASH160 DATA_20 " +
			"0x0102030405060708090a0b0c0d0e0f1011121314 EQUALVERIFY CHECKSIG"),
		want: "OP_DUP OP_HASH160 0102030405060708090a0b0c0d0e0f1011121314 " +
			"OP_EQUALVERIFY OP_CHECKSIG",
	}, {
		name:   "small ints",
		script: mustParseShortForm("0 1 16 -1 ADD"),
		want:   "0 1 16 -1 OP_ADD",
	}, {
		name:   "empty",
		script: nil,
		want:   "",
	}, {
		name:    "malformed",
		script:  hexToBytes("7602"),
		want:    "OP_DUP [error]",
		wantErr: ErrMalformedPush,
	}, {
		name:    "malformed only",
		script:  hexToBytes("02"),
		want:    "[error]",
		wantErr: ErrMalformedPush,
	}}

	for _, test := range tests {
		got, err := DisasmString(test.script)
		if !errors.Is(err, test.wantErr) {
			t.Errorf("%s: unexpected error -- got %v, want %v", test.name,
				err, test.wantErr)
			continue
		}
		if got != test.want {
			t.Errorf("%s: unexpected disassembly -- got %q, want %q",
				test.name, got, test.want)
		}
	}
}

// TestIsPushOnlyScript ensures the IsPushOnlyScript function returns the
// expected results.
func TestIsPushOnlyScript(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		script []byte
		want   bool
	}{
		{"empty", nil, true},
		{"pushes", mustParseShortForm("0 1 'abc' 16 -1"), true},
		{"reserved counts as push", []byte{OP_RESERVED}, true},
		{"non-push", mustParseShortForm("1 DUP"), false},
		{"malformed", hexToBytes("4c02"), false},
	}

	for _, test := range tests {
		if got := IsPushOnlyScript(test.script); got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

// TestGetSigOpCount ensures the signature operation counts are as expected.
func TestGetSigOpCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		script      []byte
		want        int
		wantPrecise int
	}{
		{"none", mustParseShortForm("1 DUP"), 0, 0},
		{"checksig", mustParseShortForm("DUP CHECKSIG CHECKSIGVERIFY"), 2, 2},
		{"checksigalt", mustParseShortForm("2 CHECKSIGALT 1 " +
			"CHECKSIGALTVERIFY"), 2, 2},
		{"multisig 2 keys", mustParseShortForm("1 'a' 'b' 2 CHECKMULTISIG"),
			20, 2},
		{"multisig zero keys", mustParseShortForm("0 0 CHECKMULTISIGVERIFY"),
			20, 20},
		{"malformed after checksig", hexToBytes("ac4c02"), 1, 1},
	}

	for _, test := range tests {
		if got := GetSigOpCount(test.script); got != test.want {
			t.Errorf("%s: GetSigOpCount got %d, want %d", test.name, got,
				test.want)
		}
		got := GetPreciseSigOpCount(test.script)
		if got != test.wantPrecise {
			t.Errorf("%s: GetPreciseSigOpCount got %d, want %d", test.name,
				got, test.wantPrecise)
		}
	}
}

// TestIsUnspendable ensures the IsUnspendable function returns the expected
// results.
func TestIsUnspendable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		amount   int64
		pkScript []byte
		want     bool
	}{{
		name:     "op_return",
		amount:   100,
		pkScript: mustParseShortForm("RETURN 'data'"),
		want:     true,
	}, {
		name:     "zero amount",
		amount:   0,
		pkScript: mustParseShortForm("1"),
		want:     true,
	}, {
		name:     "malformed",
		amount:   100,
		pkScript: hexToBytes("4c02"),
		want:     true,
	}, {
		name:   "p2pkh",
		amount: 100,
		pkScript: mustParseShortForm("DUP HASH160 DATA_20 " +
			"0x0102030405060708090a0b0c0d0e0f1011121314 EQUALVERIFY CHECKSIG"),
		want: false,
	}}

	for _, test := range tests {
		got := IsUnspendable(test.amount, test.pkScript)
		if got != test.want {
			t.Errorf("%s: got %v, want %v", test.name, got, test.want)
		}
	}
}

// TestSmallInts ensures the exported small integer helpers work as expected.
func TestSmallInts(t *testing.T) {
	t.Parallel()

	for op := 0; op < 256; op++ {
		want := op == OP_0 || (op >= OP_1 && op <= OP_16)
		if got := IsSmallInt(byte(op)); got != want {
			t.Fatalf("IsSmallInt(%d): got %v, want %v", op, got, want)
		}
		if !want {
			continue
		}
		wantVal := 0
		if op != OP_0 {
			wantVal = op - OP_1 + 1
		}
		if got := AsSmallInt(byte(op)); got != wantVal {
			t.Fatalf("AsSmallInt(%d): got %d, want %d", op, got, wantVal)
		}
	}
}
