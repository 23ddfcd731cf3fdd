// Package shell runs operator-defined commands with an enforced timeout.
package shell

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout is returned when a command exceeds its deadline.
var ErrTimeout = errors.New("command timed out")

// Output is the captured outcome of one command run.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Text returns stdout if the command produced any, otherwise stderr,
// trimmed either way.
func (o Output) Text() string {
	if s := strings.TrimSpace(o.Stdout); s != "" {
		return s
	}
	return strings.TrimSpace(o.Stderr)
}

// Run executes a shell line with the given timeout. A non-zero exit status
// is not an error: the caller inspects ExitCode. Only start failures and
// deadline hits error out.
func Run(ctx context.Context, command string, timeout time.Duration) (Output, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "/bin/sh", "-c", command)
	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{Stdout: stdout.String(), Stderr: stderr.String()}

	if ctx.Err() == context.DeadlineExceeded {
		return out, ErrTimeout
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out, nil
	}
	if err != nil {
		return out, err
	}
	return out, nil
}
