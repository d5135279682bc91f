package process

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

type (
	// Invocation describes one run of an external binary.
	Invocation struct {
		Binary string
		Args   []string
		Dir    string
		Env    []string
		// Input is written to the child's stdin and stdin is then closed. When empty the
		// child inherits the parent's stdin so it can prompt interactively.
		Input string
		// EchoStderr mirrors the child's stderr to the parent's stderr while capturing it.
		EchoStderr bool
	}

	Result struct {
		Stdout   []byte
		Stderr   []byte
		ExitCode int
	}

	Runner interface {
		Run(ctx context.Context, inv Invocation) (Result, error)
	}

	// ExecRunner runs invocations with os/exec.
	ExecRunner struct {
		stdin  io.Reader
		stderr io.Writer
	}
)

// NewExecRunner creates a runner bound to the process' standard streams.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{stdin: os.Stdin, stderr: os.Stderr}
}

// Run executes the invocation and waits for it to finish. A non-zero exit status is not an
// error: chain binaries report failures on stderr and in their JSON output, and callers decide.
// Only failures to start or wait for the process are returned as errors.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Result, error) {
	cmd := exec.CommandContext(ctx, inv.Binary, inv.Args...)
	cmd.Dir = inv.Dir
	if len(inv.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Env...)
	}

	if inv.Input != "" {
		cmd.Stdin = strings.NewReader(inv.Input)
	} else {
		cmd.Stdin = r.stdin
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if inv.EchoStderr {
		cmd.Stderr = io.MultiWriter(&stderr, r.stderr)
	} else {
		cmd.Stderr = &stderr
	}

	err := cmd.Run()
	result := Result{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return result, fmt.Errorf("%s interrupted: %w", inv.Binary, ctxErr)
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result, nil
		}
		return result, fmt.Errorf("failed to run %s: %w", inv.Binary, err)
	}

	return result, nil
}

// String renders the invocation for logs.
func (inv Invocation) String() string {
	return strings.TrimSpace(inv.Binary + " " + strings.Join(inv.Args, " "))
}
