package process

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh is not available")
	}
}

func TestExecRunnerCapturesStreams(t *testing.T) {
	requireShell(t)

	runner := &ExecRunner{stdin: strings.NewReader(""), stderr: &bytes.Buffer{}}
	result, err := runner.Run(context.Background(), Invocation{
		Binary: "sh",
		Args:   []string{"-c", "echo out; echo err 1>&2"},
	})
	require.NoError(t, err)
	assert.Equal(t, "out\n", string(result.Stdout))
	assert.Equal(t, "err\n", string(result.Stderr))
	assert.Zero(t, result.ExitCode)
}

func TestExecRunnerWritesInput(t *testing.T) {
	requireShell(t)

	runner := &ExecRunner{stdin: strings.NewReader("inherited"), stderr: &bytes.Buffer{}}
	result, err := runner.Run(context.Background(), Invocation{
		Binary: "sh",
		Args:   []string{"-c", "cat"},
		Input:  "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "secret", string(result.Stdout))

	result, err = runner.Run(context.Background(), Invocation{Binary: "sh", Args: []string{"-c", "cat"}})
	require.NoError(t, err)
	assert.Equal(t, "inherited", string(result.Stdout))
}

func TestExecRunnerEchoesStderr(t *testing.T) {
	requireShell(t)

	var echoed bytes.Buffer
	runner := &ExecRunner{stdin: strings.NewReader(""), stderr: &echoed}
	result, err := runner.Run(context.Background(), Invocation{
		Binary:     "sh",
		Args:       []string{"-c", "echo prompt 1>&2"},
		EchoStderr: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "prompt\n", string(result.Stderr))
	assert.Equal(t, "prompt\n", echoed.String())
}

func TestExecRunnerNonZeroExitIsNotAnError(t *testing.T) {
	requireShell(t)

	runner := &ExecRunner{stdin: strings.NewReader(""), stderr: &bytes.Buffer{}}
	result, err := runner.Run(context.Background(), Invocation{Binary: "sh", Args: []string{"-c", "exit 3"}})
	require.NoError(t, err)
	assert.Equal(t, 3, result.ExitCode)
}

func TestExecRunnerMissingBinary(t *testing.T) {
	runner := &ExecRunner{stdin: strings.NewReader(""), stderr: &bytes.Buffer{}}
	_, err := runner.Run(context.Background(), Invocation{Binary: "warp-definitely-missing-binary"})
	require.ErrorContains(t, err, "failed to run warp-definitely-missing-binary")
}

func TestInvocationString(t *testing.T) {
	inv := Invocation{Binary: "archwayd", Args: []string{"q", "tx", "ABC"}}
	assert.Equal(t, "archwayd q tx ABC", inv.String())
}
