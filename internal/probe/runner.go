package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Runner launches a compiler with stdin and reports its exit status.
// A non-nil error means the process could not be launched or awaited;
// a process that ran and failed reports a nonzero exit code and nil error.
type Runner interface {
	Run(ctx context.Context, path string, args []string, stdin []byte) (exitCode int, err error)
}

// defaultWaitDelay bounds how long Wait drains output after the child exits.
const defaultWaitDelay = 5 * time.Second

// ExecRunner runs probes as child processes.
//
// The child gets its own process group, which is killed once the child has
// been reaped so compiler subprocesses never outlive the probe. Both output
// streams are captured and dropped. No timeout is applied to the child.
//
// The child inherits the harness environment.
type ExecRunner struct {
	WaitDelay time.Duration // zero uses defaultWaitDelay
}

// Run implements Runner.
func (r ExecRunner) Run(ctx context.Context, path string, args []string, stdin []byte) (int, error) {
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdin = bytes.NewReader(stdin)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.WaitDelay = r.WaitDelay
	if cmd.WaitDelay == 0 {
		cmd.WaitDelay = defaultWaitDelay
	}
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("start %s: %w", path, err)
	}
	err := cmd.Wait()
	killProcessGroup(cmd)

	if errors.Is(err, exec.ErrWaitDelay) {
		return cmd.ProcessState.ExitCode(), nil
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("wait %s: %w", path, err)
	}
	return 0, nil
}
