// Copyright (c) 2013-2017 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package txscript implements the Decred transaction script language.

This package provides data structures and functions to parse and execute
Decred transaction scripts.

# Script Overview

Decred transaction scripts are written in a stack-based, FORTH-like language.

The Decred script language consists of a number of opcodes which fall into
several categories such as pushing and popping data to and from the stack,
performing basic and bitwise arithmetic, conditional branching, comparing
hashes, and checking cryptographic signatures.  Scripts are processed from left
to right and intentionally do not provide loops.

The vast majority of Decred scripts at the time of this writing are of several
standard forms which consist of a spender providing a public key and a
signature which proves the spender owns the associated private key.  This
information is used to prove the spender is authorized to perform the
transaction.

One benefit of using a scripting language is added flexibility in specifying
what conditions must be met in order to spend decreds.

# Execution

An Engine is created for a single transaction input from the public key script
of the output being spent, the spending transaction, and the index of the input
within it.  The signature script of that input is executed first and the public
key script is executed afterwards against the resulting data stack.  Each
engine may only be run once.

Behavior that is not required by consensus, such as requiring minimal data
pushes, a clean stack, or low S signatures, is enabled through ScriptFlags.
StandardVerifyFlags enables all of them.

Signature verification is delegated to a SignatureVerifier.  The default
CurveVerifier checks ECDSA and Schnorr signatures over secp256k1 and Ed25519
signatures.  A SigCache may be supplied to skip verification of signatures
that have already been proven valid.

# Errors

Errors returned by this package are of type txscript.Error.  This allows the
caller to programmatically determine the specific error by examining the Err
field of the type asserted txscript.Error while still providing rich error
messages with contextual information.  Failures that occur while
executing a script are additionally wrapped in an ExecutionError which reports
the failing script and opcode along with snapshots of both stacks.  Use
errors.Is to test for a specific ErrorKind.  See the ErrorKind documentation
for a full list.
*/
package txscript
