// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/decred/dcrd/dcrec"
	"github.com/decred/slog"
	"github.com/sefbkn/ndecred-sub000/wire"
)

// ScriptFlags is a bitmask defining additional operations or tests that will be
// done when executing a script pair.
type ScriptFlags uint32

const (
	// ScriptDiscourageUpgradableNops defines whether to verify that
	// currently unused opcodes in the NOP and UNKNOWN families are reserved
	// for future upgrades.  This flag must not be used for consensus
	// critical code nor applied to blocks as this flag is only for stricter
	// standard transaction checks.  This flag is only applied when the
	// above opcodes are executed.
	ScriptDiscourageUpgradableNops ScriptFlags = 1 << iota

	// ScriptVerifyCleanStack defines that the stack must contain only
	// one stack element after evaluation and that the element must be
	// true if interpreted as a boolean.
	ScriptVerifyCleanStack

	// ScriptVerifySigPushOnly defines that signature scripts must contain
	// only pushed data.
	ScriptVerifySigPushOnly

	// ScriptEnableSHA256 defines whether to treat opcode 192 (previously
	// OP_UNKNOWN192) as the OP_SHA256 opcode which consumes the top item of
	// the data stack and replaces it with the sha256 of it.
	ScriptEnableSHA256

	// ScriptVerifyLowS defines that signatures are required to comply with
	// the DER format and whose S value is <= order / 2.
	ScriptVerifyLowS

	// ScriptVerifyMinimalData defines that signatures must use the smallest
	// push operator and numbers must be encoded with the minimal number of
	// bytes.
	ScriptVerifyMinimalData

	// ScriptVerifyStrictEncoding defines that signature scripts and
	// public keys must follow the strict encoding requirements.
	ScriptVerifyStrictEncoding

	// StandardVerifyFlags are the script flags which are used when
	// executing transaction scripts to enforce additional checks which
	// are required for the script to be considered standard.
	StandardVerifyFlags = ScriptDiscourageUpgradableNops |
		ScriptVerifyCleanStack |
		ScriptVerifySigPushOnly |
		ScriptEnableSHA256 |
		ScriptVerifyLowS |
		ScriptVerifyMinimalData |
		ScriptVerifyStrictEncoding
)

const (
	// MaxStackSize is the maximum combined height of stack and alt stack
	// during execution.
	MaxStackSize = 1024

	// MaxScriptSize is the maximum allowed length of a raw script.
	MaxScriptSize = 16384
)

// Config houses the parameters an Engine executes with.  Zero values for the
// limits select the consensus defaults and a nil Verifier selects the curve
// based verifier provided by this package.
type Config struct {
	// Flags specifies the additional flags which modify the execution
	// behavior of the engine.
	Flags ScriptFlags

	// MaxOpsPerScript is the maximum number of non-push operations allowed
	// in each of the scripts.
	MaxOpsPerScript int

	// MaxScriptElementSize is the maximum number of bytes of a single stack
	// element.
	MaxScriptElementSize int

	// MaxStackSize is the maximum combined number of items on the data and
	// alternate stacks.
	MaxStackSize int

	// SigCache caches the results of signature verifications.  It may be
	// nil.
	SigCache *SigCache

	// Verifier performs the signature verification for the signature
	// checking opcodes.
	Verifier SignatureVerifier
}

// withDefaults returns a copy of the config with all unset fields populated.
func (cfg Config) withDefaults() Config {
	if cfg.MaxOpsPerScript == 0 {
		cfg.MaxOpsPerScript = MaxOpsPerScript
	}
	if cfg.MaxScriptElementSize == 0 {
		cfg.MaxScriptElementSize = MaxScriptElementSize
	}
	if cfg.MaxStackSize == 0 {
		cfg.MaxStackSize = MaxStackSize
	}
	if cfg.Verifier == nil {
		cfg.Verifier = CurveVerifier{}
	}
	return cfg
}

// flowResult describes how execution continues after an opcode was
// dispatched.
type flowResult uint8

const (
	// flowContinue indicates execution proceeds with the next opcode.
	flowContinue flowResult = iota

	// flowStopScript indicates the remainder of the current script is not
	// executed.
	flowStopScript
)

// Engine is the virtual machine that executes scripts.
//
// An engine is bound to a single transaction input and executes exactly once.
type Engine struct {
	// The following fields are set when the engine is created and must not be
	// changed afterwards.  The entries of the signature cache are mutated
	// during execution, however, the cache pointer itself is not changed.
	//
	// cfg houses the flags, limits, signature cache and verifier.
	//
	// tx identifies the transaction that contains the input which in turn
	// contains the signature script being executed.
	//
	// txIdx identifies the input index within the transaction that contains
	// the signature script being executed.
	//
	// scripts houses the parsed signature script and public key script.
	cfg     Config
	tx      wire.MsgTx
	txIdx   int
	scripts []Script

	// The following fields handle keeping track of the current execution state
	// of the engine.
	//
	// scriptIdx tracks the index into the scripts array for the current program
	// counter.
	//
	// opcodeIdx tracks the number of the opcode within the current script for
	// the current program counter.
	//
	// dstack is the primary data stack the various opcodes push and pop data
	// to and from during execution.
	//
	// astack is the alternate data stack the various opcodes push and pop data
	// to and from during execution.
	//
	// branches tracks the conditional execution state.
	//
	// numOps tracks the total number of non-push operations in a script and is
	// primarily used to enforce maximum limits.
	scriptIdx int
	opcodeIdx int
	dstack    stack
	astack    stack
	branches  branchStack
	numOps    int

	// mtx guards against concurrent runs while ran prevents executing more
	// than once.
	mtx sync.Mutex
	ran bool
}

// hasFlag returns whether the script engine instance has the passed flag set.
func (vm *Engine) hasFlag(flag ScriptFlags) bool {
	return vm.cfg.Flags&flag == flag
}

// isBranchExecuting returns whether or not the current conditional branch is
// actively executing.  For example, when the data stack has an OP_FALSE on it
// and an OP_IF is encountered, the branch is inactive until an OP_ELSE or
// OP_ENDIF is encountered.  It properly handles nested conditionals.
func (vm *Engine) isBranchExecuting() bool {
	return vm.branches.Peek() == OpCondTrue
}

// currentScript returns the script that is currently being executed.
func (vm *Engine) currentScript() Script {
	return vm.scripts[vm.scriptIdx]
}

// executeOpcode performs execution on the passed opcode.  It takes into account
// whether or not it is hidden by conditionals, but some rules still must be
// tested in this case.
func (vm *Engine) executeOpcode(pop *ParsedOpcode) (flowResult, error) {
	op := pop.opcode

	// Disabled opcodes are fail on program counter.
	if pop.isDisabled() {
		str := fmt.Sprintf("attempt to execute disabled opcode %s", op.name)
		return flowContinue, scriptError(ErrDisabledOpcode, str)
	}

	// Always-illegal opcodes are fail on program counter.
	if pop.alwaysIllegal() {
		str := fmt.Sprintf("attempt to execute reserved opcode %s", op.name)
		return flowContinue, scriptError(ErrReservedOpcode, str)
	}

	// Note that this includes OP_RESERVED which counts as a push operation.
	if op.value > OP_16 {
		vm.numOps++
		if vm.numOps > vm.cfg.MaxOpsPerScript {
			str := fmt.Sprintf("exceeded max operation limit of %d",
				vm.cfg.MaxOpsPerScript)
			return flowContinue, scriptError(ErrTooManyOperations, str)
		}
	} else if len(pop.data) > vm.cfg.MaxScriptElementSize {
		str := fmt.Sprintf("element size %d exceeds max allowed size %d",
			len(pop.data), vm.cfg.MaxScriptElementSize)
		return flowContinue, scriptError(ErrElementTooBig, str)
	}

	// Nothing left to do when this is not a conditional opcode and it is
	// not in an executing branch.
	if !vm.isBranchExecuting() && !pop.isConditional() {
		return flowContinue, nil
	}

	// Ensure all executed data push opcodes use the minimal encoding when
	// the minimal data verification flag is set.
	if vm.hasFlag(ScriptVerifyMinimalData) && vm.isBranchExecuting() &&
		pop.isPush() {

		if err := pop.checkMinimalDataPush(); err != nil {
			return flowContinue, err
		}
	}

	if err := op.opfunc(op, pop.data, vm); err != nil {
		return flowContinue, err
	}
	if op.endsScript() {
		return flowStopScript, nil
	}
	return flowContinue, nil
}

// executionError wraps the provided error with the current position and a
// snapshot of the stacks.  The opcode may be nil when the failure is not tied
// to a specific opcode.
func (vm *Engine) executionError(pop *ParsedOpcode, err error) error {
	execErr := &ExecutionError{
		ScriptIdx: vm.scriptIdx,
		OpcodeIdx: vm.opcodeIdx,
		Stack:     vm.GetStack(),
		AltStack:  vm.GetAltStack(),
		Err:       err,
	}
	if pop != nil {
		execErr.Opcode = pop.opcode.name
		execErr.Data = pop.data
	}
	return execErr
}

// disasmPC returns the string for the disassembly of the opcode at the current
// program counter.
func (vm *Engine) disasmPC(pop *ParsedOpcode) string {
	var buf strings.Builder
	disasmOpcode(&buf, pop.opcode, pop.data, false)
	return fmt.Sprintf("%02x:%04x: %s", vm.scriptIdx, vm.opcodeIdx,
		buf.String())
}

// stacksString returns the non-empty stacks in a human-readable form.
func (vm *Engine) stacksString() string {
	var buf strings.Builder
	if vm.dstack.Depth() != 0 {
		buf.WriteString("Stack:\n")
		buf.WriteString(vm.dstack.String())
	}
	if vm.astack.Depth() != 0 {
		buf.WriteString("AltStack:\n")
		buf.WriteString(vm.astack.String())
	}
	return buf.String()
}

// executeScript executes every opcode of the script at the current script
// index.
func (vm *Engine) executeScript() error {
	script := vm.currentScript()

	// The number of operations is per script.
	vm.numOps = 0

	for vm.opcodeIdx = 0; vm.opcodeIdx < len(script); vm.opcodeIdx++ {
		pop := &script[vm.opcodeIdx]
		if log.Level() <= slog.LevelTrace {
			log.Tracef("stepping %v", vm.disasmPC(pop))
		}

		flow, err := vm.executeOpcode(pop)
		if err != nil {
			return vm.executionError(pop, err)
		}

		// The number of elements in the combination of the data and alt
		// stacks must not exceed the maximum number of stack elements
		// allowed.
		combinedStackSize := int(vm.dstack.Depth() + vm.astack.Depth())
		if combinedStackSize > vm.cfg.MaxStackSize {
			str := fmt.Sprintf("combined stack size %d > max allowed %d",
				combinedStackSize, vm.cfg.MaxStackSize)
			return vm.executionError(pop, scriptError(ErrStackOverflow, str))
		}

		if log.Level() <= slog.LevelTrace {
			log.Tracef("%v", newLogClosure(vm.stacksString))
		}

		// Conditionals left open here remain open and fail the balance
		// check once every script has run.
		if flow == flowStopScript {
			break
		}
	}

	// Alt stack doesn't persist between scripts.
	vm.astack.stk = nil
	return nil
}

// Run executes the signature script followed by the public key script.  Any
// failure is returned as an *ExecutionError that identifies the failing opcode
// and wraps the underlying Error.
//
// Run does not interpret the final stack.  Use CheckErrorCondition afterwards,
// or Execute, to determine whether the scripts succeeded.
//
// An engine may only be run once.  Calling Run while another call is in
// progress returns ErrEngineBusy and calling it again afterwards returns
// ErrEngineAlreadyRun.
func (vm *Engine) Run() error {
	if !vm.mtx.TryLock() {
		return scriptError(ErrEngineBusy, "engine is already running")
	}
	defer vm.mtx.Unlock()

	if vm.ran {
		return scriptError(ErrEngineAlreadyRun, "engine has already run")
	}
	vm.ran = true

	for vm.scriptIdx = 0; vm.scriptIdx < len(vm.scripts); vm.scriptIdx++ {
		if err := vm.executeScript(); err != nil {
			return err
		}
	}

	// Every conditional must have been closed by the end of the final
	// script.
	if vm.branches.Depth() != 1 {
		vm.scriptIdx = len(vm.scripts) - 1
		return vm.executionError(nil, scriptError(ErrUnbalancedConditional,
			"end of script reached in conditional execution"))
	}

	return nil
}

// Execute will execute all scripts in the script engine and return either nil
// for successful validation or an error if one occurred.
func (vm *Engine) Execute() error {
	if err := vm.Run(); err != nil {
		return err
	}
	return vm.CheckErrorCondition(true)
}

// CheckErrorCondition returns nil if the running script has ended and was
// successful, leaving a true boolean on the stack.  An error otherwise,
// including if the script has not finished.
func (vm *Engine) CheckErrorCondition(finalScript bool) error {
	vm.mtx.Lock()
	defer vm.mtx.Unlock()

	// Check execution is actually done.
	if !vm.ran || vm.scriptIdx < len(vm.scripts) {
		return scriptError(ErrScriptUnfinished,
			"error check when script unfinished")
	}

	// The final script must end with exactly one data stack item when the
	// verify clean stack flag is set.  Otherwise, there must be at least one
	// data stack item in order to interpret it as a boolean.
	if finalScript && vm.hasFlag(ScriptVerifyCleanStack) &&
		vm.dstack.Depth() != 1 {

		str := fmt.Sprintf("stack must contain exactly one item (contains %d)",
			vm.dstack.Depth())
		return scriptError(ErrCleanStack, str)
	} else if vm.dstack.Depth() < 1 {
		return scriptError(ErrEmptyStack,
			"stack empty at end of script execution")
	}

	v, err := vm.dstack.PeekBool(0)
	if err != nil {
		return err
	}
	if !v {
		// Log interesting data.
		if log.Level() <= slog.LevelTrace {
			var buf strings.Builder
			buf.WriteString("scripts failed:\n")
			for i := range vm.scripts {
				dis, _ := vm.DisasmScript(i)
				buf.WriteString(fmt.Sprintf("script%d:\n", i))
				buf.WriteString(dis)
			}
			log.Trace(buf.String())
		}
		return scriptError(ErrEvalFalse,
			"false stack entry at end of script execution")
	}
	return nil
}

// DisasmScript returns the disassembly string for the script at the requested
// offset index.  Index 0 is the signature script and 1 is the public key
// script.
func (vm *Engine) DisasmScript(idx int) (string, error) {
	if idx < 0 || idx >= len(vm.scripts) {
		str := fmt.Sprintf("script index %d >= total scripts %d", idx,
			len(vm.scripts))
		return "", scriptError(ErrInvalidIndex, str)
	}

	var disbuf strings.Builder
	for opcodeIdx, pop := range vm.scripts[idx] {
		disbuf.WriteString(fmt.Sprintf("%02x:%04x: ", idx, opcodeIdx))
		disasmOpcode(&disbuf, pop.opcode, pop.data, false)
		disbuf.WriteByte('\n')
	}
	return disbuf.String(), nil
}

// getStack returns the contents of stack as a byte array bottom up.
func getStack(stack *stack) [][]byte {
	array := make([][]byte, stack.Depth())
	for i := range array {
		// PeekByteArray can't fail due to overflow, already checked
		array[len(array)-i-1], _ = stack.PeekByteArray(int32(i))
	}
	return array
}

// setStack sets the stack to the contents of the array where the last item in
// the array is the top item in the stack.
func setStack(stack *stack, data [][]byte) {
	stack.stk = stack.stk[:0]
	stack.stk = append(stack.stk, data...)
}

// GetStack returns the contents of the primary stack as an array. where the
// last item in the array is the top of the stack.
func (vm *Engine) GetStack() [][]byte {
	return getStack(&vm.dstack)
}

// SetStack sets the contents of the primary stack to the contents of the
// provided array where the last item in the array will be the top of the stack.
func (vm *Engine) SetStack(data [][]byte) {
	setStack(&vm.dstack, data)
}

// GetAltStack returns the contents of the alternate stack as an array where the
// last item in the array is the top of the stack.
func (vm *Engine) GetAltStack() [][]byte {
	return getStack(&vm.astack)
}

// SetAltStack sets the contents of the alternate stack to the contents of the
// provided array where the last item in the array will be the top of the stack.
func (vm *Engine) SetAltStack(data [][]byte) {
	setStack(&vm.astack, data)
}

// checkSignature verifies the provided signature, with its trailing hash type
// byte, against the public key and the signature hash of the provided script.
//
// Any failure of the Error type, such as invalid encodings or a signature that
// fails to parse, results in false rather than an error.  Only unexpected
// failures are returned.
func (vm *Engine) checkSignature(sigType dcrec.SignatureType, fullSig, pubKey []byte, subScript Script) (bool, error) {
	// Empty signatures always fail.
	if len(fullSig) == 0 {
		return false, nil
	}

	valid, err := vm.verifySignature(sigType, fullSig, pubKey, subScript)
	if err != nil {
		var sErr Error
		if errors.As(err, &sErr) {
			log.Tracef("signature check failed: %v", err)
			return false, nil
		}
		return false, err
	}
	return valid, nil
}

// verifySignature implements the encoding checks, signature hash calculation,
// signature cache lookup and verification for checkSignature.
func (vm *Engine) verifySignature(sigType dcrec.SignatureType, fullSig, pubKey []byte, subScript Script) (bool, error) {
	// Trim off hashtype from the signature string and check if the
	// signature and pubkey conform to the strict encoding requirements
	// depending on the flags.
	hashType := SigHashType(fullSig[len(fullSig)-1])
	sig := fullSig[:len(fullSig)-1]
	strictEncoding := vm.hasFlag(ScriptVerifyStrictEncoding)
	if strictEncoding {
		if err := CheckHashTypeEncoding(hashType); err != nil {
			return false, err
		}
	}
	if sigType == dcrec.STEcdsaSecp256k1 {
		switch {
		case strictEncoding:
			if err := CheckSignatureEncoding(sig); err != nil {
				return false, err
			}
			if err := CheckPubKeyEncoding(pubKey); err != nil {
				return false, err
			}

		case vm.hasFlag(ScriptVerifyLowS):
			err := CheckSignatureEncoding(sig)
			if errors.Is(err, ErrSigHighS) {
				return false, err
			}
		}
	}

	hash, err := calcSignatureHash(subScript, hashType, &vm.tx, vm.txIdx)
	if err != nil {
		return false, err
	}

	// Cache entries do not record the signature type, so only ECDSA
	// signatures use the cache.
	var sigCache *SigCache
	if sigType == dcrec.STEcdsaSecp256k1 {
		sigCache = vm.cfg.SigCache
	}
	if sigCache != nil && sigCache.Exists(hash, sig, pubKey) {
		return true, nil
	}

	valid, err := vm.cfg.Verifier.Verify(sigType, pubKey, sig, hash[:])
	if err != nil {
		return false, err
	}
	if valid && sigCache != nil {
		sigCache.Add(hash, sig, pubKey, &vm.tx)
	}
	return valid, nil
}

// NewEngine returns a new script engine for the provided public key script,
// transaction, and input index.  The flags modify the behavior of the script
// engine according to the description provided by each flag.
func NewEngine(scriptPubKey []byte, tx *wire.MsgTx, txIdx int, flags ScriptFlags, sigCache *SigCache) (*Engine, error) {
	return NewEngineWithConfig(scriptPubKey, tx, txIdx, &Config{
		Flags:    flags,
		SigCache: sigCache,
	})
}

// NewEngineWithConfig returns a new script engine for the provided public key
// script, transaction, and input index that executes according to the provided
// configuration.
func NewEngineWithConfig(scriptPubKey []byte, tx *wire.MsgTx, txIdx int, cfg *Config) (*Engine, error) {
	// The provided transaction input index must refer to a valid input.
	if txIdx < 0 || txIdx >= len(tx.TxIn) {
		str := fmt.Sprintf("transaction input index %d is negative or "+
			">= %d", txIdx, len(tx.TxIn))
		return nil, scriptError(ErrInvalidIndex, str)
	}
	scriptSig := tx.TxIn[txIdx].SignatureScript

	vm := Engine{cfg: cfg.withDefaults(), txIdx: txIdx}

	// The engine stores the scripts using a slice.  This allows multiple
	// scripts to be executed in sequence.
	rawScripts := [][]byte{scriptSig, scriptPubKey}
	vm.scripts = make([]Script, 0, len(rawScripts))
	for _, scr := range rawScripts {
		if len(scr) > MaxScriptSize {
			str := fmt.Sprintf("script size %d is larger than max allowed "+
				"size %d", len(scr), MaxScriptSize)
			return nil, scriptError(ErrScriptTooBig, str)
		}

		// Ensure the scripts can be fully parsed up front.  Without this,
		// it would be possible for malicious actors to intentionally craft
		// scripts that involve a bunch of relatively expensive operations
		// before a malformed opcode.
		pops, err := ParseScript(scr)
		if err != nil {
			return nil, err
		}
		vm.scripts = append(vm.scripts, pops)
	}

	// The signature script must only contain data pushes when the associated
	// flag is set.
	if vm.hasFlag(ScriptVerifySigPushOnly) && !vm.scripts[0].isPushOnly() {
		return nil, scriptError(ErrNotPushOnly,
			"signature script is not push only")
	}

	verifyMinimalData := vm.hasFlag(ScriptVerifyMinimalData)
	vm.dstack = stack{
		maxElementSize:    vm.cfg.MaxScriptElementSize,
		verifyMinimalData: verifyMinimalData,
	}
	vm.astack = stack{
		maxElementSize:    vm.cfg.MaxScriptElementSize,
		verifyMinimalData: verifyMinimalData,
	}
	vm.branches = newBranchStack()
	vm.tx = *tx

	return &vm, nil
}
