// Copyright (c) 2017 The btcsuite developers
// Copyright (c) 2015-2020 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package wire

import (
	"errors"
	"io"
	"testing"
)

// TestErrorKindStringer tests the stringized output for the ErrorKind type.
func TestErrorKindStringer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   ErrorKind
		want string
	}{
		{ErrNonCanonicalVarInt, "ErrNonCanonicalVarInt"},
		{ErrVarBytesTooLong, "ErrVarBytesTooLong"},
		{ErrTooManyTxs, "ErrTooManyTxs"},
		{ErrMismatchedWitnessCount, "ErrMismatchedWitnessCount"},
		{ErrUnknownTxType, "ErrUnknownTxType"},
	}

	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("#%d: got: %s want: %s", i, result, test.want)
			continue
		}
	}
}

// TestMessageError tests the error output for the MessageError type.
func TestMessageError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   MessageError
		want string
	}{{
		MessageError{Description: "some error"},
		"some error",
	}, {
		MessageError{Func: "foo", Err: ErrNonCanonicalVarInt,
			Description: "human-readable error"},
		"human-readable error",
	}}

	for i, test := range tests {
		result := test.in.Error()
		if result != test.want {
			t.Errorf("#%d: got: %s want: %s", i, result, test.want)
			continue
		}
	}
}

// TestErrorKindIsAs ensures both ErrorKind and MessageError can be identified
// as being a specific error kind via errors.Is and unwrapped via errors.As.
func TestErrorKindIsAs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
		wantAs    ErrorKind
	}{{
		name:      "ErrTooManyTxs == ErrTooManyTxs",
		err:       ErrTooManyTxs,
		target:    ErrTooManyTxs,
		wantMatch: true,
		wantAs:    ErrTooManyTxs,
	}, {
		name:      "MessageError.ErrUnknownTxType == ErrUnknownTxType",
		err:       messageError("", ErrUnknownTxType, ""),
		target:    ErrUnknownTxType,
		wantMatch: true,
		wantAs:    ErrUnknownTxType,
	}, {
		name:      "ErrVarBytesTooLong != ErrNonCanonicalVarInt",
		err:       ErrVarBytesTooLong,
		target:    ErrNonCanonicalVarInt,
		wantMatch: false,
		wantAs:    ErrVarBytesTooLong,
	}, {
		name:      "MessageError.ErrVarBytesTooLong != io.EOF",
		err:       messageError("", ErrVarBytesTooLong, ""),
		target:    io.EOF,
		wantMatch: false,
		wantAs:    ErrVarBytesTooLong,
	}}

	for _, test := range tests {
		result := errors.Is(test.err, test.target)
		if result != test.wantMatch {
			t.Errorf("%s: incorrect error identification -- got %v, want %v",
				test.name, result, test.wantMatch)
			continue
		}

		var kind ErrorKind
		if !errors.As(test.err, &kind) {
			t.Errorf("%s: unable to unwrap to error kind", test.name)
			continue
		}
		if kind != test.wantAs {
			t.Errorf("%s: unexpected unwrapped error kind -- got %v, want %v",
				test.name, kind, test.wantAs)
			continue
		}
	}
}
