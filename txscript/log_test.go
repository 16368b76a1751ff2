// Copyright (c) 2024-2025 The Decred developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/decred/slog"
)

// testLog is a log writer that forwards everything written to it to the test
// log while also retaining a copy for inspection.
type testLog struct {
	*testing.T

	mtx sync.Mutex
	buf bytes.Buffer
}

func (t *testLog) Write(b []byte) (int, error) {
	t.Logf("%s", b)
	t.mtx.Lock()
	t.buf.Write(b)
	t.mtx.Unlock()
	return len(b), nil
}

func (t *testLog) String() string {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.buf.String()
}

// useTestLogger sets the package logger to a backend that writes trace-level
// logs to the returned test log.  The logger is set back to Disabled when the
// test finishes.
//
// Due to the use of a package-level logger, tests that call this must not be
// run in parallel.
func useTestLogger(t *testing.T) *testLog {
	tl := &testLog{T: t}
	backend := slog.NewBackend(tl)
	l := backend.Logger("SCRP")
	l.SetLevel(slog.LevelTrace)
	UseLogger(l)
	t.Cleanup(func() {
		UseLogger(slog.Disabled)
	})
	return tl
}

// TestTraceLogging ensures the engine logs every executed opcode along with
// the stacks and the disassembly of the scripts when they evaluate to false.
func TestTraceLogging(t *testing.T) {
	tl := useTestLogger(t)

	pkScript := mustParseShortForm("DUP DROP 0")
	tx := newTestTx(mustParseShortForm("1 2"))
	vm, err := NewEngine(pkScript, tx, 0, 0, nil)
	if err != nil {
		t.Fatalf("unexpected error creating engine: %v", err)
	}
	err = vm.Execute()
	if !errors.Is(err, ErrEvalFalse) {
		t.Fatalf("mismatched err -- got %v, want %v (stack %s)", err,
			ErrEvalFalse, spew.Sdump(vm.GetStack()))
	}

	logged := tl.String()
	for _, want := range []string{"stepping", "OP_DUP", "OP_DROP",
		"scripts failed"} {

		if !strings.Contains(logged, want) {
			t.Errorf("trace log does not contain %q", want)
		}
	}
}
