// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"
)

// These are the constants specified for maximums in individual scripts.
const (
	MaxOpsPerScript       = 255 // Max number of non-push operations.
	MaxPubKeysPerMultiSig = 20  // Multisig can't have more sigs than this.
	MaxScriptElementSize  = 520 // Max bytes pushable to the stack.
)

// ParsedOpcode represents an opcode that has been parsed from a script along
// with any data associated with it.
//
// The small integer opcodes OP_1 through OP_16 carry a synthesized single byte
// payload holding the value they represent.  That payload is never serialized.
type ParsedOpcode struct {
	opcode *opcode
	data   []byte
}

// Opcode returns the numeric value of the opcode.
func (pop *ParsedOpcode) Opcode() byte {
	return pop.opcode.value
}

// Name returns the human-readable name of the opcode.
func (pop *ParsedOpcode) Name() string {
	return pop.opcode.name
}

// Data returns the payload associated with the opcode, if any.
func (pop *ParsedOpcode) Data() []byte {
	return pop.data
}

// isDisabled returns whether or not the opcode is disabled and thus is always
// bad to see in the instruction stream (even if turned off by a conditional).
func (pop *ParsedOpcode) isDisabled() bool {
	switch pop.opcode.value {
	case OP_2MUL, OP_2DIV, OP_CODESEPARATOR:
		return true
	}
	return false
}

// alwaysIllegal returns whether or not the opcode is always illegal when passed
// over by the program counter even if in a non-executed branch (it isn't a
// coincidence that they are conditionals).
func (pop *ParsedOpcode) alwaysIllegal() bool {
	switch pop.opcode.value {
	case OP_VERIF, OP_VERNOTIF:
		return true
	}
	return false
}

// isConditional returns whether or not the opcode is a conditional opcode
// which changes the branch stack when executed.
func (pop *ParsedOpcode) isConditional() bool {
	switch pop.opcode.value {
	case OP_IF, OP_NOTIF, OP_ELSE, OP_ENDIF:
		return true
	}
	return false
}

// isPush returns whether or not the opcode is one of the opcodes that push
// their payload, in the form it is encoded, onto the data stack.
func (pop *ParsedOpcode) isPush() bool {
	return pop.opcode.value <= OP_PUSHDATA4
}

// checkMinimalDataPush returns whether or not the opcode is the smallest
// possible way to represent its data.  For example, the value 15 could be
// pushed with OP_DATA_1 15 (among other variations); however, OP_15 is a single
// opcode that represents the same value and is only a single byte versus two
// bytes.
func (pop *ParsedOpcode) checkMinimalDataPush() error {
	return checkMinimalDataPush(pop.opcode, pop.data)
}

// checkMinimalDataPush returns an error when the provided push opcode is not
// the smallest possible way to push the given data.
func checkMinimalDataPush(op *opcode, data []byte) error {
	opcode := op.value
	dataLen := len(data)
	switch {
	case dataLen == 0 && opcode != OP_0:
		str := fmt.Sprintf("zero length data push is encoded with opcode %s "+
			"instead of OP_0", op.name)
		return scriptError(ErrMinimalData, str)
	case dataLen == 1 && data[0] >= 1 && data[0] <= 16:
		if opcode != OP_1+data[0]-1 {
			// Should have used OP_1 .. OP_16
			str := fmt.Sprintf("data push of the value %d encoded with opcode "+
				"%s instead of OP_%d", data[0], op.name, data[0])
			return scriptError(ErrMinimalData, str)
		}
	case dataLen == 1 && data[0] == 0x81:
		if opcode != OP_1NEGATE {
			str := fmt.Sprintf("data push of the value -1 encoded with opcode "+
				"%s instead of OP_1NEGATE", op.name)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 75:
		if int(opcode) != dataLen {
			// Should have used a direct push
			str := fmt.Sprintf("data push of %d bytes encoded with opcode %s "+
				"instead of OP_DATA_%d", dataLen, op.name, dataLen)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 255:
		if opcode != OP_PUSHDATA1 {
			str := fmt.Sprintf("data push of %d bytes encoded with opcode %s "+
				"instead of OP_PUSHDATA1", dataLen, op.name)
			return scriptError(ErrMinimalData, str)
		}
	case dataLen <= 65535:
		if opcode != OP_PUSHDATA2 {
			str := fmt.Sprintf("data push of %d bytes encoded with opcode %s "+
				"instead of OP_PUSHDATA2", dataLen, op.name)
			return scriptError(ErrMinimalData, str)
		}
	}
	return nil
}

// canonicalPush returns true if the opcode is either not a push instruction or
// the push instruction contained wherein matches the canonical form of using
// the smallest instruction to do the job.  False otherwise.
func (pop *ParsedOpcode) canonicalPush() bool {
	opcode := pop.opcode.value
	data := pop.data
	dataLen := len(pop.data)
	if opcode > OP_16 {
		return true
	}

	if opcode < OP_PUSHDATA1 && opcode > OP_0 && (dataLen == 1 && data[0] <= 16) {
		return false
	}
	if opcode == OP_PUSHDATA1 && dataLen < OP_PUSHDATA1 {
		return false
	}
	if opcode == OP_PUSHDATA2 && dataLen <= 0xff {
		return false
	}
	if opcode == OP_PUSHDATA4 && dataLen <= 0xffff {
		return false
	}
	return true
}

// bytes returns the serialized form of the opcode and its payload.
func (pop *ParsedOpcode) bytes() ([]byte, error) {
	op := pop.opcode
	var retbytes []byte
	if op.length > 0 {
		retbytes = make([]byte, 1, op.length)
	} else {
		retbytes = make([]byte, 1, 1-op.length+len(pop.data))
	}
	retbytes[0] = op.value

	switch {
	// The small integers represent the data themselves.
	case op.length == 1:
		return retbytes, nil

	case op.length > 1:
		if len(pop.data) != op.length-1 {
			str := fmt.Sprintf("internal consistency error - parsed opcode "+
				"%s has data length %d when %d was expected", op.name,
				len(pop.data), op.length-1)
			return nil, scriptError(ErrMalformedPush, str)
		}

	case op.length == -1:
		retbytes = append(retbytes, byte(len(pop.data)))
	case op.length == -2:
		retbytes = binary.LittleEndian.AppendUint16(retbytes,
			uint16(len(pop.data)))
	case op.length == -4:
		retbytes = binary.LittleEndian.AppendUint32(retbytes,
			uint32(len(pop.data)))
	}

	return append(retbytes, pop.data...), nil
}

// NewParsedOpcode returns a parsed opcode for the provided opcode value and
// payload.  Unlike parsing raw scripts, the payload must be pushed with the
// smallest possible opcode and an ErrMinimalData error is returned otherwise.
//
// The small integer opcodes accept either no payload or the single byte value
// they represent.
func NewParsedOpcode(op byte, data []byte) (ParsedOpcode, error) {
	pop := ParsedOpcode{opcode: &opcodeArray[op]}
	length := pop.opcode.length
	switch {
	case isSmallInt(op) && op != OP_0:
		n := op - (OP_1 - 1)
		if len(data) != 0 && !bytes.Equal(data, []byte{n}) {
			str := fmt.Sprintf("opcode %s can not carry payload %x",
				pop.opcode.name, data)
			return ParsedOpcode{}, scriptError(ErrMalformedPush, str)
		}
		pop.data = []byte{n}
		return pop, nil

	case length == 1:
		if len(data) != 0 {
			str := fmt.Sprintf("opcode %s can not carry a payload",
				pop.opcode.name)
			return ParsedOpcode{}, scriptError(ErrMalformedPush, str)
		}
		return pop, nil

	case length > 1:
		if len(data) != length-1 {
			str := fmt.Sprintf("opcode %s requires %d bytes of payload, "+
				"but %d were provided", pop.opcode.name, length-1, len(data))
			return ParsedOpcode{}, scriptError(ErrMalformedPush, str)
		}

	case length < 0:
		maxLen := uint64(1)<<(8*uint(-length)) - 1
		if uint64(len(data)) > maxLen {
			str := fmt.Sprintf("opcode %s can not push %d bytes",
				pop.opcode.name, len(data))
			return ParsedOpcode{}, scriptError(ErrMalformedPush, str)
		}
	}

	if err := checkMinimalDataPush(pop.opcode, data); err != nil {
		return ParsedOpcode{}, err
	}
	pop.data = data
	return pop, nil
}

// Script is a sequence of parsed opcodes.
type Script []ParsedOpcode

// ParseScript parses the provided raw script into its opcodes.  When there are
// parse errors, it returns the opcodes parsed up to the point of failure along
// with the error.
//
// Pushes are not required to be canonical here since that is a policy enforced
// at execution time.
func ParseScript(script []byte) (Script, error) {
	retScript := make(Script, 0, len(script))
	for i := 0; i < len(script); {
		instr := script[i]
		op := &opcodeArray[instr]
		pop := ParsedOpcode{opcode: op}

		// Parse data out of instruction.
		switch {
		// No additional data.  The small integers carry the value they
		// represent as synthesized data.
		case op.length == 1:
			if instr >= OP_1 && instr <= OP_16 {
				pop.data = []byte{instr - (OP_1 - 1)}
			}
			i++

		// Data pushes of specific lengths -- OP_DATA_[1-75].
		case op.length > 1:
			if len(script[i:]) < op.length {
				str := fmt.Sprintf("opcode %s requires %d bytes, but script "+
					"only has %d remaining", op.name, op.length,
					len(script[i:]))
				return retScript, scriptError(ErrMalformedPush, str)
			}

			// Slice out the data.
			pop.data = script[i+1 : i+op.length]
			i += op.length

		// Data pushes with parsed lengths -- OP_PUSHDATA{1,2,4}.
		case op.length < 0:
			var l uint32
			off := i + 1

			if len(script[off:]) < -op.length {
				str := fmt.Sprintf("opcode %s requires %d bytes, but script "+
					"only has %d remaining", op.name, -op.length,
					len(script[off:]))
				return retScript, scriptError(ErrMalformedPush, str)
			}

			// Next -length bytes are little endian length of data.
			switch op.length {
			case -1:
				l = uint32(script[off])
			case -2:
				l = uint32(binary.LittleEndian.Uint16(script[off:]))
			case -4:
				l = binary.LittleEndian.Uint32(script[off:])
			}

			// Move offset to beginning of the data.
			off += -op.length

			// Disallow entries that do not fit script or were sign extended.
			if int32(l) < 0 || int(l) > len(script[off:]) {
				str := fmt.Sprintf("opcode %s pushes %d bytes, but script "+
					"only has %d remaining", op.name, int32(l),
					len(script[off:]))
				return retScript, scriptError(ErrMalformedPush, str)
			}

			pop.data = script[off : off+int(l)]
			i += 1 - op.length + int(l)
		}

		retScript = append(retScript, pop)
	}

	return retScript, nil
}

// Bytes returns the serialized script.  Parsing the result yields the same
// opcodes.
func (s Script) Bytes() ([]byte, error) {
	script := make([]byte, 0, len(s))
	for i := range s {
		b, err := s[i].bytes()
		if err != nil {
			return nil, err
		}
		script = append(script, b...)
	}
	return script, nil
}

// WithoutData returns a copy of the script minus any canonical data pushes
// whose payload matches one of the passed values.
func (s Script) WithoutData(values ...[]byte) Script {
	retScript := make(Script, 0, len(s))
	for i := range s {
		pop := &s[i]
		if pop.isPush() && pop.canonicalPush() && matchesAny(pop.data, values) {
			continue
		}
		retScript = append(retScript, *pop)
	}
	return retScript
}

// matchesAny returns whether data equals any of the provided values.
func matchesAny(data []byte, values [][]byte) bool {
	for _, v := range values {
		if bytes.Equal(data, v) {
			return true
		}
	}
	return false
}

// String returns the one-line disassembly of the script.
func (s Script) String() string {
	var disbuf strings.Builder
	for i := range s {
		if i != 0 {
			disbuf.WriteByte(' ')
		}
		disasmOpcode(&disbuf, s[i].opcode, s[i].data, true)
	}
	return disbuf.String()
}

// DisasmString formats a disassembled script for one line printing.  When the
// script fails to parse, the returned string will contain the disassembled
// script up to the point the failure occurred along with the string '[error]'
// appended.  In addition, the reason the script failed to parse is returned
// if the caller wants more information about the failure.
func DisasmString(script []byte) (string, error) {
	pops, err := ParseScript(script)
	disasm := pops.String()
	if err != nil {
		if len(pops) != 0 {
			disasm += " "
		}
		disasm += "[error]"
	}
	return disasm, err
}

// isSmallInt returns whether or not the opcode is considered a small integer,
// which is an OP_0, or OP_1 through OP_16.
func isSmallInt(op byte) bool {
	return op == OP_0 || (op >= OP_1 && op <= OP_16)
}

// IsSmallInt returns whether or not the opcode is considered a small integer,
// which is an OP_0, or OP_1 through OP_16.
func IsSmallInt(op byte) bool {
	return isSmallInt(op)
}

// asSmallInt returns the passed opcode, which must be true according to
// isSmallInt(), as an integer.
func asSmallInt(op byte) int {
	if op == OP_0 {
		return 0
	}

	return int(op - (OP_1 - 1))
}

// AsSmallInt returns the passed opcode, which must be true according to
// IsSmallInt(), as an integer.
func AsSmallInt(op byte) int {
	return asSmallInt(op)
}

// isPushOnly returns true if the parsed script only pushes data, false
// otherwise.
func (s Script) isPushOnly() bool {
	for i := range s {
		// All opcodes up to OP_16 are data push instructions.
		// NOTE: This does consider OP_RESERVED to be a data push
		// instruction, but execution of OP_RESERVED will fail anyway and
		// matches the behavior required by consensus.
		if s[i].opcode.value > OP_16 {
			return false
		}
	}
	return true
}

// IsPushOnlyScript returns whether or not the passed script only pushes data
// according to the consensus definition of pushing data.  Scripts that fail to
// parse are not push only.
func IsPushOnlyScript(script []byte) bool {
	pops, err := ParseScript(script)
	if err != nil {
		return false
	}
	return pops.isPushOnly()
}

// countSigOps returns the number of signature operations in the provided
// parsed script.  The precise flag attempts to accurately count the number of
// operations for a multisig operation versus using the maximum allowed.
func countSigOps(pops Script, precise bool) int {
	numSigOps := 0
	prevOp := byte(OP_INVALIDOPCODE)
	for i := range pops {
		switch pops[i].opcode.value {
		case OP_CHECKSIG, OP_CHECKSIGVERIFY, OP_CHECKSIGALT,
			OP_CHECKSIGALTVERIFY:

			numSigOps++

		case OP_CHECKMULTISIG, OP_CHECKMULTISIGVERIFY:
			// Note that OP_0 is treated as the max number of sigops here in
			// precise mode despite it being a valid small integer in order to
			// highly discourage multisigs with zero pubkeys.
			if precise && prevOp >= OP_1 && prevOp <= OP_16 {
				numSigOps += asSmallInt(prevOp)
			} else {
				numSigOps += MaxPubKeysPerMultiSig
			}
		}

		prevOp = pops[i].opcode.value
	}

	return numSigOps
}

// GetSigOpCount provides a quick count of the number of signature operations
// in a script.  A CHECKSIG operation counts for 1, and a CHECKMULTISIG for 20.
// If the script fails to parse, then the count up to the point of failure is
// returned.
func GetSigOpCount(script []byte) int {
	pops, _ := ParseScript(script)
	return countSigOps(pops, false)
}

// GetPreciseSigOpCount returns the number of signature operations in the
// provided script, counting multisig operations preceded by a small integer
// as that many operations.
func GetPreciseSigOpCount(script []byte) int {
	pops, _ := ParseScript(script)
	return countSigOps(pops, true)
}

// IsUnspendable returns whether the passed public key script is unspendable, or
// guaranteed to fail at execution.  This allows inputs to be pruned instantly
// when entering the UTXO set.  All zero value outputs are unspendable.
func IsUnspendable(amount int64, pkScript []byte) bool {
	if amount == 0 {
		return true
	}

	pops, err := ParseScript(pkScript)
	if err != nil {
		return true
	}

	return len(pops) > 0 && pops[0].opcode.value == OP_RETURN
}
