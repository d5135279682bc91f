package build

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/infra/docker"
	"github.com/archway-warp/warp-cli/internal/infra/process"
	"github.com/archway-warp/warp-cli/internal/ux"
)

type recordingRunner struct {
	calls    []process.Invocation
	exitCode int
}

func (r *recordingRunner) Run(_ context.Context, inv process.Invocation) (process.Result, error) {
	r.calls = append(r.calls, inv)
	return process.Result{ExitCode: r.exitCode}, nil
}

type recordingContainers struct {
	pulled []string
	specs  []docker.ContainerSpec
}

func (r *recordingContainers) EnsureImage(_ context.Context, image string) error {
	r.pulled = append(r.pulled, image)
	return nil
}

func (r *recordingContainers) RunContainer(_ context.Context, spec docker.ContainerSpec) (string, error) {
	r.specs = append(r.specs, spec)
	return "id", nil
}

func newTestBuilder(runner process.Runner, containers ContainerRunner) *Builder {
	return NewBuilder(runner, containers, ux.NewPrinter(io.Discard))
}

func TestPlainBuild(t *testing.T) {
	runner := &recordingRunner{}
	root := t.TempDir()

	require.NoError(t, newTestBuilder(runner, nil).Build(context.Background(), root, false, configs.Tooling{}))

	require.Len(t, runner.calls, 1)
	inv := runner.calls[0]
	assert.Equal(t, "cargo", inv.Binary)
	assert.Equal(t, []string{"build", "--target", "wasm32-unknown-unknown"}, inv.Args)
	assert.Equal(t, []string{"RUSTFLAGS=-C link-arg=-s"}, inv.Env)
	assert.Equal(t, root, inv.Dir)
}

func TestBuildFailureExitCode(t *testing.T) {
	runner := &recordingRunner{exitCode: 101}

	err := newTestBuilder(runner, nil).Build(context.Background(), t.TempDir(), false, configs.Tooling{})
	require.ErrorContains(t, err, "exited with code 101")
}

func TestOptimizoorRenamesArtifacts(t *testing.T) {
	root := t.TempDir()
	artifacts := filepath.Join(root, "artifacts")
	require.NoError(t, os.MkdirAll(artifacts, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(artifacts, "counter-x86_64.wasm"), []byte("wasm"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(artifacts, "checksums.txt"), nil, 0644))

	runner := &recordingRunner{}
	tooling := configs.Tooling{OptimizerBackend: configs.OptimizerCwOptimizoor}
	require.NoError(t, newTestBuilder(runner, nil).Build(context.Background(), root, true, tooling))

	assert.Equal(t, []string{"cw-optimizoor", "."}, runner.calls[0].Args)
	assert.FileExists(t, filepath.Join(artifacts, "counter.wasm"))
	assert.NoFileExists(t, filepath.Join(artifacts, "counter-x86_64.wasm"))
	assert.FileExists(t, filepath.Join(artifacts, "checksums.txt"))
}

func TestWorkspaceOptimizerRunsContainer(t *testing.T) {
	containers := &recordingContainers{}
	root := filepath.Join(t.TempDir(), "myproject")

	require.NoError(t, newTestBuilder(&recordingRunner{}, containers).Build(context.Background(), root, true, configs.Tooling{}))

	assert.Equal(t, []string{"cosmwasm/workspace-optimizer:0.12.10"}, containers.pulled)
	require.Len(t, containers.specs, 1)
	spec := containers.specs[0]
	assert.True(t, spec.AutoRemove)
	assert.False(t, spec.Detach)
	assert.Equal(t, []docker.Mount{
		docker.BindMount(root, "/code"),
		docker.VolumeMount("myproject_cache", "/code/target"),
		docker.VolumeMount("registry_cache", "/usr/local/cargo/registry"),
	}, spec.Mounts)
}

func TestWorkspaceOptimizerNeedsDocker(t *testing.T) {
	err := newTestBuilder(&recordingRunner{}, nil).Build(context.Background(), t.TempDir(), true, configs.Tooling{})
	require.ErrorContains(t, err, "requires docker")
}
