package preflight

import (
	"bytes"
	"context"
	"os/exec"
	"time"
)

// DefaultWaitDelay bounds how long Run waits for output pipes to close
// after the process is killed. Grandchildren such as the node process
// spawned by npx can otherwise keep stdout open past the timeout.
const DefaultWaitDelay = 2 * time.Second

// Runner executes an external command in dir and returns its captured stdout.
// A non-nil error may accompany valid output, for example *exec.ExitError.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	// WaitDelay overrides DefaultWaitDelay when positive.
	WaitDelay time.Duration
}

// Run implements Runner. The process is killed when ctx is done.
func (r ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.WaitDelay = DefaultWaitDelay
	if r.WaitDelay > 0 {
		cmd.WaitDelay = r.WaitDelay
	}

	err := cmd.Run()
	return stdout.String(), err
}
