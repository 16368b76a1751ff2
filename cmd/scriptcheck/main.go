// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/dcrd/chaincfg/chainhash"
	flags "github.com/jessevdk/go-flags"
	"github.com/sefbkn/ndecred-sub000/blockchain/standalone"
	"github.com/sefbkn/ndecred-sub000/internal/blockchain"
	"github.com/sefbkn/ndecred-sub000/txscript"
	"github.com/sefbkn/ndecred-sub000/wire"
)

const usageText = `[OPTIONS] <command> <args...>

Commands:
  validate <txhex> [<txhash>:<index>:<tree>=<pkscripthex> ...]
      Check the transaction is sane and execute the scripts of its inputs
      against the provided previous output scripts.
  disasm <scripthex>
      Disassemble a script.
  importtx <txhex>
      Spend the outputs referenced by the transaction inputs and add its
      outputs to the previous output script database.
  putprevout <txhash>:<index>:<tree> <value> <pkscripthex>
      Add a single previous output to the database.
  countprevouts
      Show the number of outputs in the database.`

// parseOutPoint parses an outpoint in the form <txhash>:<index>:<tree>.  The
// tree may be omitted in which case it defaults to the regular tree.
func parseOutPoint(s string) (*wire.OutPoint, error) {
	fields := strings.Split(s, ":")
	if len(fields) != 2 && len(fields) != 3 {
		return nil, fmt.Errorf("outpoint %q is not of the form "+
			"<txhash>:<index>:<tree>", s)
	}
	hash, err := chainhash.NewHashFromStr(fields[0])
	if err != nil {
		return nil, fmt.Errorf("invalid outpoint hash %q: %w", fields[0], err)
	}
	index, err := strconv.ParseUint(fields[1], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid outpoint index %q: %w", fields[1], err)
	}
	tree := wire.TxTreeRegular
	if len(fields) == 3 {
		t, err := strconv.ParseInt(fields[2], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid outpoint tree %q: %w", fields[2],
				err)
		}
		tree = int8(t)
	}
	return wire.NewOutPoint(hash, uint32(index), tree), nil
}

// parsePrevScript parses a previous output script argument in the form
// <outpoint>=<pkscripthex>.
func parsePrevScript(s string) (*wire.OutPoint, []byte, error) {
	outpointStr, scriptHex, ok := strings.Cut(s, "=")
	if !ok {
		return nil, nil, fmt.Errorf("previous output %q is not of the form "+
			"<outpoint>=<pkscripthex>", s)
	}
	outpoint, err := parseOutPoint(outpointStr)
	if err != nil {
		return nil, nil, err
	}
	script, err := hex.DecodeString(scriptHex)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid script hex for %v: %w", outpoint,
			err)
	}
	return outpoint, script, nil
}

// decodeTx decodes a hex-encoded serialized transaction.
func decodeTx(txHex string) (*wire.MsgTx, error) {
	serialized, err := hex.DecodeString(txHex)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction hex: %w", err)
	}
	var tx wire.MsgTx
	if err := tx.FromBytes(serialized); err != nil {
		return nil, fmt.Errorf("unable to decode transaction: %w", err)
	}
	return &tx, nil
}

// layeredPrevScripts provides previous output scripts from the scripts
// provided on the command line and falls back to the database when one is
// available.
type layeredPrevScripts struct {
	provided blockchain.PrevScriptMap
	db       *blockchain.PrevScriptDB
}

// PrevScript returns the script for the provided outpoint.  It is part of the
// blockchain.PrevScripter interface.
func (p *layeredPrevScripts) PrevScript(prevOut *wire.OutPoint) ([]byte, bool) {
	if script, ok := p.provided.PrevScript(prevOut); ok {
		return script, true
	}
	if p.db == nil {
		return nil, false
	}
	return p.db.PrevScript(prevOut)
}

// openPrevScriptDB loads and initializes the previous output script database
// in the configured data directory.
func openPrevScriptDB(cfg *config) (*blockchain.PrevScriptDB, error) {
	db, err := blockchain.LoadPrevScriptDB(cfg.DataDir)
	if err != nil {
		return nil, err
	}
	prevScriptDB := blockchain.NewPrevScriptDB(db)
	if err := prevScriptDB.InitInfo(); err != nil {
		prevScriptDB.Close()
		return nil, err
	}
	return prevScriptDB, nil
}

// scriptFlags returns the script flags to execute with per the configuration.
func scriptFlags(cfg *config) txscript.ScriptFlags {
	if cfg.Consensus {
		return 0
	}
	return txscript.StandardVerifyFlags
}

// newInputEngine returns a script engine for the configured input of the
// provided transaction.
func newInputEngine(tx *wire.MsgTx, prevScripts blockchain.PrevScripter, cfg *config, sigCache *txscript.SigCache) (*txscript.Engine, error) {
	txIn := tx.TxIn[cfg.Input]
	pkScript, ok := prevScripts.PrevScript(&txIn.PreviousOutPoint)
	if !ok {
		return nil, fmt.Errorf("no script for previous output %v",
			txIn.PreviousOutPoint)
	}
	return txscript.NewEngine(pkScript, tx, cfg.Input, scriptFlags(cfg),
		sigCache)
}

// traceInput executes the scripts of a single input and dumps the resulting
// stacks.  Every executed opcode is logged by the script subsystem at the
// trace level.
func traceInput(w io.Writer, tx *wire.MsgTx, prevScripts blockchain.PrevScripter, cfg *config) error {
	vm, err := newInputEngine(tx, prevScripts, cfg, nil)
	if err != nil {
		return err
	}
	err = vm.Execute()
	var execErr *txscript.ExecutionError
	if errors.As(err, &execErr) {
		fmt.Fprintf(w, "Data stack at failure:\n%s", spew.Sdump(execErr.Stack))
		fmt.Fprintf(w, "Alternate stack at failure:\n%s",
			spew.Sdump(execErr.AltStack))
		return err
	}

	fmt.Fprintf(w, "Final data stack:\n%s", spew.Sdump(vm.GetStack()))
	return err
}

// validateCmd checks the sanity of the provided transaction and validates the
// scripts of its inputs.
func validateCmd(w io.Writer, cfg *config, args []string) error {
	if len(args) < 1 {
		return errors.New("validate requires a transaction")
	}
	tx, err := decodeTx(args[0])
	if err != nil {
		return err
	}
	if err := standalone.CheckTransactionSanity(tx, wire.MaxMessagePayload); err != nil {
		return err
	}
	if cfg.Input >= len(tx.TxIn) {
		return fmt.Errorf("input index %d is out of range (%d inputs)",
			cfg.Input, len(tx.TxIn))
	}

	prevScripts := &layeredPrevScripts{provided: make(blockchain.PrevScriptMap)}
	for _, arg := range args[1:] {
		outpoint, script, err := parsePrevScript(arg)
		if err != nil {
			return err
		}
		prevScripts.provided[*outpoint] = script
	}
	if cfg.UseDB {
		prevScriptDB, err := openPrevScriptDB(cfg)
		if err != nil {
			return err
		}
		defer prevScriptDB.Close()
		prevScripts.db = prevScriptDB
	}

	txHash := tx.TxHash()
	if cfg.Trace {
		if err := traceInput(w, tx, prevScripts, cfg); err != nil {
			return err
		}
		fmt.Fprintf(w, "Input %d of transaction %v is valid\n", cfg.Input,
			txHash)
		return nil
	}

	sigCache, err := txscript.NewSigCache(cfg.SigCacheMaxSize)
	if err != nil {
		return err
	}
	if cfg.Input >= 0 {
		vm, err := newInputEngine(tx, prevScripts, cfg, sigCache)
		if err != nil {
			return err
		}
		if err := vm.Execute(); err != nil {
			return err
		}
		fmt.Fprintf(w, "Input %d of transaction %v is valid\n", cfg.Input,
			txHash)
		return nil
	}

	err = blockchain.ValidateTransactionScripts(tx, prevScripts,
		scriptFlags(cfg), sigCache)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Transaction %v is valid\n", txHash)
	return nil
}

// disasmCmd prints the disassembly of the provided script.
func disasmCmd(w io.Writer, args []string) error {
	if len(args) != 1 {
		return errors.New("disasm requires a single script")
	}
	script, err := hex.DecodeString(args[0])
	if err != nil {
		return fmt.Errorf("invalid script hex: %w", err)
	}
	disasm, err := txscript.DisasmString(script)
	if err != nil {
		// The disassembly up to the failure is still returned.
		fmt.Fprintln(w, disasm)
		return err
	}
	fmt.Fprintln(w, disasm)
	fmt.Fprintf(w, "Script class: %v\n", txscript.GetScriptClass(script))
	return nil
}

// importTxCmd connects the provided transaction to the previous output script
// database.
func importTxCmd(w io.Writer, cfg *config, args []string) error {
	if len(args) != 1 {
		return errors.New("importtx requires a single transaction")
	}
	tx, err := decodeTx(args[0])
	if err != nil {
		return err
	}
	prevScriptDB, err := openPrevScriptDB(cfg)
	if err != nil {
		return err
	}
	defer prevScriptDB.Close()

	if err := prevScriptDB.ConnectTransaction(tx); err != nil {
		return err
	}
	schkLog.Infof("Imported %d output(s) of transaction %v", len(tx.TxOut),
		tx.TxHash())
	fmt.Fprintf(w, "Imported transaction %v\n", tx.TxHash())
	return nil
}

// putPrevOutCmd adds a single previous output to the database.
func putPrevOutCmd(w io.Writer, cfg *config, args []string) error {
	if len(args) != 3 {
		return errors.New("putprevout requires an outpoint, a value, and " +
			"a script")
	}
	outpoint, err := parseOutPoint(args[0])
	if err != nil {
		return err
	}
	value, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid value %q: %w", args[1], err)
	}
	script, err := hex.DecodeString(args[2])
	if err != nil {
		return fmt.Errorf("invalid script hex: %w", err)
	}
	prevScriptDB, err := openPrevScriptDB(cfg)
	if err != nil {
		return err
	}
	defer prevScriptDB.Close()

	txOut := wire.NewTxOut(value, script)
	if err := prevScriptDB.PutPrevOut(outpoint, txOut); err != nil {
		return err
	}
	fmt.Fprintf(w, "Stored previous output %v\n", outpoint)
	return nil
}

// countPrevOutsCmd prints the number of outputs in the database.
func countPrevOutsCmd(w io.Writer, cfg *config) error {
	prevScriptDB, err := openPrevScriptDB(cfg)
	if err != nil {
		return err
	}
	defer prevScriptDB.Close()

	count, err := prevScriptDB.Count()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%d\n", count)
	return nil
}

// runCommand dispatches the provided positional arguments to the command
// they name.
func runCommand(w io.Writer, cfg *config, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command specified\n\nUsage:\n  scriptcheck %s",
			usageText)
	}

	cmd, cmdArgs := args[0], args[1:]
	switch cmd {
	case "validate":
		return validateCmd(w, cfg, cmdArgs)
	case "disasm":
		return disasmCmd(w, cmdArgs)
	case "importtx":
		return importTxCmd(w, cfg, cmdArgs)
	case "putprevout":
		return putPrevOutCmd(w, cfg, cmdArgs)
	case "countprevouts":
		return countPrevOutsCmd(w, cfg)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

// run loads the configuration and runs the requested command.
func run() error {
	cfg, args, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	defer func() {
		if logRotator != nil {
			logRotator.Close()
		}
	}()

	return runCommand(os.Stdout, cfg, args)
}

func main() {
	if err := run(); err != nil {
		var e *flags.Error
		if errors.As(err, &e) && e.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
