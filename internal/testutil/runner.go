// Package testutil holds deterministic stand-ins used by package tests.
package testutil

import (
	"context"
	"slices"
	"sync"
)

// RunnerCall records one invocation seen by FakeRunner.
type RunnerCall struct {
	Path  string
	Args  []string
	Stdin string
}

// FakeRunner satisfies probe.Runner without launching processes.
//
// Exit codes are looked up by compiler path; paths listed in Errors fail to
// launch with the given error. Unknown paths exit with Default.
//
// Thread-safety: all methods are safe for concurrent use via internal mutex.
type FakeRunner struct {
	Exit    map[string]int
	Errors  map[string]error
	Default int

	mu    sync.Mutex
	calls []RunnerCall
}

// NewFakeRunner returns a FakeRunner whose unknown compilers exit with status 1.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Exit:    make(map[string]int),
		Errors:  make(map[string]error),
		Default: 1,
	}
}

// Run implements probe.Runner.
func (r *FakeRunner) Run(_ context.Context, path string, args []string, stdin []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, RunnerCall{Path: path, Args: slices.Clone(args), Stdin: string(stdin)})
	if err, ok := r.Errors[path]; ok {
		return -1, err
	}
	if code, ok := r.Exit[path]; ok {
		return code, nil
	}
	return r.Default, nil
}

// Calls returns the invocations seen so far.
func (r *FakeRunner) Calls() []RunnerCall {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.calls)
}
