package harness

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// ErrTimeout indicates the program under test outlived Executor.Timeout.
var ErrTimeout = errors.New("program did not exit before the timeout")

// waitDelay bounds how long Wait keeps reading output after a timeout kill,
// in case the program left children holding its pipes open.
const waitDelay = time.Second

// Executor runs the program under test as a child process.
type Executor struct {
	// Timeout kills the child after this long. Zero waits indefinitely.
	Timeout time.Duration
}

// Execute runs argv[0] with argv[1:] as arguments, feeds it stdin and
// blocks until it exits. A non-zero exit is not an error; failing to start
// the program, cancellation and timeouts are.
func (e *Executor) Execute(ctx context.Context, argv []string, stdin []byte) (*Invocation, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}

	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if e.Timeout > 0 {
		cmd.WaitDelay = waitDelay
	}
	cmd.Stdin = bytes.NewReader(stdin)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) && e.Timeout > 0 {
				return nil, fmt.Errorf("%w: %s after %s", ErrTimeout, argv[0], e.Timeout)
			}
			return nil, fmt.Errorf("running %s: %w", argv[0], ctxErr)
		}
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to run %s: %w", argv[0], err)
		}
	}

	return &Invocation{
		ExitCode: exitCode(cmd.ProcessState),
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		Duration: elapsed,
	}, nil
}
