package external

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"time"
)

// ProcessRunner starts a plugin process and collects its output.
type ProcessRunner interface {
	// Run executes path with args, feeding stdin, and returns everything the
	// process wrote. A non-zero exit is an error; output is still returned.
	Run(ctx context.Context, path string, args []string, stdin io.Reader) (stdout, stderr []byte, err error)
}

// ExecRunner runs plugins as child processes.
type ExecRunner struct {
	// Env is appended to the parent environment.
	Env []string

	// WaitDelay bounds how long Run waits for output after ctx ends, in case
	// the plugin left children holding its pipes.
	WaitDelay time.Duration
}

// NewExecRunner returns a runner that tells plugins they were started by
// recolour through RECOLOUR_PLUGIN_HOST.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{
		Env:       []string{"RECOLOUR_PLUGIN_HOST=1"},
		WaitDelay: 2 * time.Second,
	}
}

// Run implements ProcessRunner.
func (r *ExecRunner) Run(ctx context.Context, path string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, path, args...) // #nosec G204 - plugin path is chosen by the user
	cmd.Stdin = stdin
	cmd.Env = append(os.Environ(), r.Env...)
	cmd.WaitDelay = r.WaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	return stdout.Bytes(), stderr.Bytes(), err
}
