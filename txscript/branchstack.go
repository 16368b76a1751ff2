// Copyright (c) 2015-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import "fmt"

// BranchOption describes the execution state of a conditional branch.
type BranchOption uint8

// Conditional execution states.
const (
	// OpCondFalse marks a branch that is not being executed because its
	// condition evaluated to false.  A later OP_ELSE enables it.
	OpCondFalse BranchOption = iota

	// OpCondTrue marks a branch that is being executed.
	OpCondTrue

	// OpCondSkip marks a branch nested inside a branch that is not being
	// executed.  Nothing inside it ever executes.
	OpCondSkip
)

// branchOptionStrings maps branch options to their human-readable names.
var branchOptionStrings = [...]string{
	OpCondFalse: "OpCondFalse",
	OpCondTrue:  "OpCondTrue",
	OpCondSkip:  "OpCondSkip",
}

// String returns the BranchOption as a human-readable name.
func (b BranchOption) String() string {
	if int(b) < len(branchOptionStrings) {
		return branchOptionStrings[b]
	}
	return fmt.Sprintf("Unknown BranchOption (%d)", uint8(b))
}

// branchStack tracks the state of nested conditional execution.  The bottom
// entry is a permanent OpCondTrue sentinel that represents the unconditional
// top level of a script, so the stack is never empty and a balanced script
// always ends with a depth of one.
type branchStack struct {
	conds []BranchOption
}

// newBranchStack returns a branch stack that only holds the sentinel.
func newBranchStack() branchStack {
	return branchStack{conds: []BranchOption{OpCondTrue}}
}

// Push adds a new branch state to the top of the stack.
func (b *branchStack) Push(cond BranchOption) {
	b.conds = append(b.conds, cond)
}

// Discard removes the top branch state.  An error is returned when only the
// sentinel remains since that means there is no conditional to terminate.
func (b *branchStack) Discard() error {
	if len(b.conds) <= 1 {
		return scriptError(ErrUnbalancedConditional,
			"encountered conditional terminator with no matching "+
				"opcode to begin conditional execution")
	}
	b.conds = b.conds[:len(b.conds)-1]
	return nil
}

// Replace swaps the top branch state for the provided one.  It has the same
// failure conditions as Discard.
func (b *branchStack) Replace(cond BranchOption) error {
	if err := b.Discard(); err != nil {
		return err
	}
	b.Push(cond)
	return nil
}

// Peek returns the current branch state without removing it.
func (b *branchStack) Peek() BranchOption {
	return b.conds[len(b.conds)-1]
}

// Depth returns the number of entries including the sentinel.
func (b *branchStack) Depth() int {
	return len(b.conds)
}
