// Copyright (c) 2014-2016 The btcsuite developers
// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package blockchain

// ErrorKind identifies a kind of error.  It has full support for errors.Is and
// errors.As, so the caller can directly check against an error kind when
// determining the reason for an error.
type ErrorKind string

// These constants are used to identify a specific RuleError or ContextError.
const (
	// ErrMissingTxOut indicates a transaction output referenced by an input
	// either does not exist or has already been spent.
	ErrMissingTxOut = ErrorKind("ErrMissingTxOut")

	// ErrScriptMalformed indicates a transaction script is malformed in
	// some way.  For example, it might be longer than the maximum allowed
	// length or fail to parse.
	ErrScriptMalformed = ErrorKind("ErrScriptMalformed")

	// ErrScriptValidation indicates the result of executing transaction
	// script failed.  The error covers any failure when executing scripts
	// such signature verification failures and execution past the end of
	// the stack.
	ErrScriptValidation = ErrorKind("ErrScriptValidation")

	// ErrPrevScriptBackend indicates that a general error was encountered
	// when accessing the previous output script backend.
	ErrPrevScriptBackend = ErrorKind("ErrPrevScriptBackend")

	// ErrPrevScriptBackendCorruption indicates that underlying data being
	// accessed in the previous output script backend is corrupted.
	ErrPrevScriptBackendCorruption = ErrorKind("ErrPrevScriptBackendCorruption")

	// ErrPrevScriptBackendNotOpen indicates that the previous output script
	// backend was accessed before it was opened or after it was closed.
	ErrPrevScriptBackendNotOpen = ErrorKind("ErrPrevScriptBackendNotOpen")

	// ErrPrevScriptBackendTxClosed indicates an attempt was made to commit
	// or rollback a backend transaction that has already had one of those
	// operations performed.
	ErrPrevScriptBackendTxClosed = ErrorKind("ErrPrevScriptBackendTxClosed")

	// ErrPrevScriptBackendTooNew indicates the previous output script
	// database was created by a newer version of the software.
	ErrPrevScriptBackendTooNew = ErrorKind("ErrPrevScriptBackendTooNew")
)

// Error satisfies the error interface and prints human-readable errors.
func (e ErrorKind) Error() string {
	return string(e)
}

// ContextError wraps an error with additional context.  It has full support for
// errors.Is and errors.As, so the caller can ascertain the specific wrapped
// error.
//
// RawErr contains the original error in the case where an error has been
// converted.
type ContextError struct {
	Err         error
	Description string
	RawErr      error
}

// Error satisfies the error interface and prints human-readable errors.
func (e ContextError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e ContextError) Unwrap() error {
	return e.Err
}

// contextError creates a ContextError given a set of arguments.
func contextError(kind ErrorKind, desc string) ContextError {
	return ContextError{Err: kind, Description: desc}
}

// RuleError identifies a rule violation.  It is used to indicate that
// processing of a transaction failed due to one of the validation rules.  It
// has full support for errors.Is and errors.As, so the caller can ascertain
// the specific reason for the rule violation.
//
// RawErr contains the underlying script error, if any, that caused the rule
// violation.
type RuleError struct {
	Err         error
	Description string
	RawErr      error
}

// Error satisfies the error interface and prints human-readable errors.
func (e RuleError) Error() string {
	return e.Description
}

// Unwrap returns the underlying wrapped error.
func (e RuleError) Unwrap() error {
	return e.Err
}

// ruleError creates a RuleError given a set of arguments.
func ruleError(kind ErrorKind, desc string) RuleError {
	return RuleError{Err: kind, Description: desc}
}
