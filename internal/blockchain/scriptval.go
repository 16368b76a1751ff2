// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sefbkn/ndecred-sub000/blockchain/standalone"
	"github.com/sefbkn/ndecred-sub000/txscript"
	"github.com/sefbkn/ndecred-sub000/wire"
)

// PrevScripter defines an interface that provides access to the public key
// scripts of previous outputs keyed by an outpoint.  The boolean return
// indicates whether or not the script for the provided outpoint was found.
type PrevScripter interface {
	PrevScript(*wire.OutPoint) ([]byte, bool)
}

// txValidateItem holds a transaction along with which input to validate.
type txValidateItem struct {
	txInIndex int
	txIn      *wire.TxIn
	tx        *wire.MsgTx
	txHash    string
}

// txValidator provides a type which asynchronously validates transaction
// inputs.  It provides several channels for communication and a processing
// function that is intended to be in run multiple goroutines.
type txValidator struct {
	validateChan chan *txValidateItem
	resultChan   chan error
	prevScripts  PrevScripter
	flags        txscript.ScriptFlags
	sigCache     *txscript.SigCache
}

// sendResult sends the result of a script pair validation on the internal
// result channel while respecting the context.  The allows orderly
// shutdown when the validation process is aborted early due to a validation
// error in one of the other goroutines.
func (v *txValidator) sendResult(ctx context.Context, result error) {
	select {
	case v.resultChan <- result:
	case <-ctx.Done():
	}
}

// validateItem creates an engine for the script pair of the provided item
// and executes it.
func (v *txValidator) validateItem(txVI *txValidateItem) error {
	// Ensure the referenced previous output script is available.
	txIn := txVI.txIn
	prevOut := &txIn.PreviousOutPoint
	pkScript, ok := v.prevScripts.PrevScript(prevOut)
	if !ok {
		str := fmt.Sprintf("unable to find unspent output %v referenced "+
			"from transaction %s:%d", *prevOut, txVI.txHash, txVI.txInIndex)
		return ruleError(ErrMissingTxOut, str)
	}

	// Create a new script engine for the script pair.
	sigScript := txIn.SignatureScript
	vm, err := txscript.NewEngine(pkScript, txVI.tx, txVI.txInIndex, v.flags,
		v.sigCache)
	if err != nil {
		str := fmt.Sprintf("failed to parse input %s:%d which references "+
			"output %v - %v (input script bytes %x, prev output script "+
			"bytes %x)", txVI.txHash, txVI.txInIndex, *prevOut, err,
			sigScript, pkScript)
		return RuleError{Err: ErrScriptMalformed, Description: str,
			RawErr: err}
	}

	// Execute the script pair.
	if err := vm.Execute(); err != nil {
		str := fmt.Sprintf("failed to validate input %s:%d which references "+
			"output %v - %v (input script bytes %x, prev output script "+
			"bytes %x)", txVI.txHash, txVI.txInIndex, *prevOut, err,
			sigScript, pkScript)
		return RuleError{Err: ErrScriptValidation, Description: str,
			RawErr: err}
	}

	log.Tracef("Validated input %s:%d", txVI.txHash, txVI.txInIndex)
	return nil
}

// validateHandler consumes items to validate from the internal validate channel
// and returns the result of the validation on the internal result channel. It
// must be run as a goroutine.
func (v *txValidator) validateHandler(ctx context.Context) {
out:
	for {
		select {
		case <-ctx.Done():
			break out

		case txVI := <-v.validateChan:
			err := v.validateItem(txVI)
			v.sendResult(ctx, err)
			if err != nil {
				break out
			}
		}
	}
}

// Validate validates the scripts for all of the passed transaction inputs using
// multiple goroutines.
func (v *txValidator) Validate(ctx context.Context, items []*txValidateItem) error {
	if len(items) == 0 {
		return nil
	}

	// Limit the number of goroutines to do script validation based on the
	// number of processor cores.  This help ensure the system stays
	// reasonably responsive under heavy load.
	maxGoRoutines := runtime.NumCPU() * 3
	if maxGoRoutines <= 0 {
		maxGoRoutines = 1
	}
	if maxGoRoutines > len(items) {
		maxGoRoutines = len(items)
	}

	// Start up validation handlers that are used to asynchronously
	// validate each transaction input.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	for i := 0; i < maxGoRoutines; i++ {
		go v.validateHandler(ctx)
	}

	// Validate each of the inputs.  The context is canceled when any
	// errors occur so all processing goroutines exit regardless of which
	// input had the validation error.
	numInputs := len(items)
	currentItem := 0
	processedItems := 0
	for processedItems < numInputs {
		// Only send items while there are still items that need to
		// be processed.  The select statement will never select a nil
		// channel.
		var validateChan chan *txValidateItem
		var item *txValidateItem
		if currentItem < numInputs {
			validateChan = v.validateChan
			item = items[currentItem]
		}

		select {
		case validateChan <- item:
			currentItem++

		case err := <-v.resultChan:
			processedItems++
			if err != nil {
				return err
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return nil
}

// newTxValidator returns a new instance of txValidator to be used for
// validating transaction scripts asynchronously.
func newTxValidator(prevScripts PrevScripter, flags txscript.ScriptFlags, sigCache *txscript.SigCache) *txValidator {
	return &txValidator{
		validateChan: make(chan *txValidateItem),
		resultChan:   make(chan error),
		prevScripts:  prevScripts,
		sigCache:     sigCache,
		flags:        flags,
	}
}

// collectValidateItems appends an item for every input of the transaction
// that spends a previous output.  Coinbase transactions have no inputs to
// validate.
func collectValidateItems(items []*txValidateItem, tx *wire.MsgTx) []*txValidateItem {
	if standalone.IsCoinBaseTx(tx) {
		return items
	}

	txHash := tx.TxHash().String()
	for txInIdx, txIn := range tx.TxIn {
		items = append(items, &txValidateItem{
			txInIndex: txInIdx,
			txIn:      txIn,
			tx:        tx,
			txHash:    txHash,
		})
	}
	return items
}

// ValidateTransactionScripts validates the scripts for the passed transaction
// using multiple goroutines.  The first failing input aborts the validation of
// the remaining inputs and its error is returned.
func ValidateTransactionScripts(tx *wire.MsgTx, prevScripts PrevScripter,
	flags txscript.ScriptFlags, sigCache *txscript.SigCache) error {

	return ValidateTransactionsScripts(context.Background(),
		[]*wire.MsgTx{tx}, prevScripts, flags, sigCache)
}

// ValidateTransactionsScripts executes and validates the scripts for all
// inputs of the passed transactions using multiple goroutines.  Validation is
// aborted when the provided context is canceled.
func ValidateTransactionsScripts(ctx context.Context, txs []*wire.MsgTx,
	prevScripts PrevScripter, flags txscript.ScriptFlags,
	sigCache *txscript.SigCache) error {

	// Collect all of the transaction inputs and required information for
	// validation for all transactions into a single slice.
	numInputs := 0
	for _, tx := range txs {
		numInputs += len(tx.TxIn)
	}
	txValItems := make([]*txValidateItem, 0, numInputs)
	for _, tx := range txs {
		txValItems = collectValidateItems(txValItems, tx)
	}

	// Validate all of the inputs.
	validator := newTxValidator(prevScripts, flags, sigCache)
	if err := validator.Validate(ctx, txValItems); err != nil {
		return err
	}

	log.Debugf("Validated %d input(s) of %d transaction(s)", len(txValItems),
		len(txs))
	return nil
}
