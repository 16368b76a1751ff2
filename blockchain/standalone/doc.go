// Copyright (c) 2019-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

/*
Package standalone provides standalone functions useful for working with
transactions independently of any chain state.

It is ideal for applications that need to check basic properties of
transactions before handing them to the script engine, and for tools that need
to commit to a set of transactions with a merkle root.

# Function categories

The provided functions fall into the following categories:

  - Merkle root calculation
  - Coinbase transaction identification
  - Transaction sanity checking

# Merkle root calculation

  - Calculation from individual leaf hashes
  - Calculation from a slice of transactions

# Errors

Errors returned by this package are of type standalone.RuleError.  This allows
the caller to differentiate between errors further up the call stack through
type assertions.  In addition, callers can programmatically determine the
specific rule violation by using errors.Is with one of the ErrorKind
constants.
*/
package standalone
