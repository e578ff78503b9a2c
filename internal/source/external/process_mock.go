package external

import (
	"bytes"
	"context"
	"errors"
	"io"
)

// RunCall records one invocation of a MockProcessRunner.
type RunCall struct {
	Path  string
	Args  []string
	Stdin []byte
}

// MockProcessRunner is a ProcessRunner for tests. It records every call and
// answers with RunFunc, or with an empty JSON object when RunFunc is nil.
type MockProcessRunner struct {
	RunFunc func(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)

	// Hang blocks every call until the context is cancelled.
	Hang bool

	Calls []RunCall
}

// Run implements ProcessRunner.
func (m *MockProcessRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	call := RunCall{Path: path, Args: args}
	if stdin != nil {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, nil, err
		}
		call.Stdin = data
	}
	m.Calls = append(m.Calls, call)

	if m.Hang {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	if m.RunFunc != nil {
		var in io.Reader
		if call.Stdin != nil {
			in = bytes.NewReader(call.Stdin)
		}
		return m.RunFunc(ctx, path, args, in)
	}
	return []byte("{}"), nil, nil
}

// LastCall returns the most recent call, or the zero value if there was none.
func (m *MockProcessRunner) LastCall() RunCall {
	if len(m.Calls) == 0 {
		return RunCall{}
	}
	return m.Calls[len(m.Calls)-1]
}

// NewHangingMockProcessRunner returns a mock that simulates a plugin that never answers.
func NewHangingMockProcessRunner() *MockProcessRunner {
	return &MockProcessRunner{Hang: true}
}

// NewErrorMockProcessRunner returns a mock that fails with errMsg on stderr.
func NewErrorMockProcessRunner(errMsg string) *MockProcessRunner {
	return &MockProcessRunner{
		RunFunc: func(context.Context, string, []string, io.Reader) ([]byte, []byte, error) {
			return nil, []byte(errMsg), errors.New(errMsg)
		},
	}
}
