package build

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/infra/docker"
	"github.com/archway-warp/warp-cli/internal/infra/process"
	"github.com/archway-warp/warp-cli/internal/logger"
	"github.com/archway-warp/warp-cli/internal/ux"
)

const (
	wasmTarget      = "wasm32-unknown-unknown"
	artifactsDir    = "artifacts"
	optimizoorArch  = "-x86_64"
	registryVolume  = "registry_cache"
	codeMountTarget = "/code"
)

// ContainerRunner is the subset of the Docker client the optimizer needs.
type ContainerRunner interface {
	EnsureImage(ctx context.Context, image string) error
	RunContainer(ctx context.Context, spec docker.ContainerSpec) (string, error)
}

type Builder struct {
	runner     process.Runner
	containers ContainerRunner
	printer    *ux.Printer
	logger     *slog.Logger
}

// NewBuilder creates a builder. containers may be nil when the docker optimizer is not used.
func NewBuilder(runner process.Runner, containers ContainerRunner, printer *ux.Printer) *Builder {
	return &Builder{
		runner:     runner,
		containers: containers,
		printer:    printer,
		logger:     logger.Named("builder"),
	}
}

// Build compiles the workspace at root, optionally through the configured optimizer backend.
func (b *Builder) Build(ctx context.Context, root string, optimized bool, tooling configs.Tooling) error {
	if !optimized {
		b.printer.Header("Building contracts...")
		return b.cargo(ctx, root, []string{"RUSTFLAGS=-C link-arg=-s"}, "build", "--target", wasmTarget)
	}

	b.printer.Header("Building optimized contracts...")
	switch tooling.OptimizerBackend {
	case configs.OptimizerCwOptimizoor:
		if err := b.cargo(ctx, root, nil, "cw-optimizoor", "."); err != nil {
			return err
		}
		return renameOptimizoorArtifacts(filepath.Join(root, artifactsDir))
	default:
		return b.workspaceOptimizer(ctx, root, tooling.OptimizerImageOrDefault())
	}
}

func (b *Builder) cargo(ctx context.Context, root string, env []string, args ...string) error {
	inv := process.Invocation{Binary: "cargo", Args: args, Dir: root, Env: env, EchoStderr: true}
	b.logger.Debug("Running cargo", "cmd", inv.String())

	result, err := b.runner.Run(ctx, inv)
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return fmt.Errorf("'%s' exited with code %d", inv.String(), result.ExitCode)
	}
	return nil
}

func (b *Builder) workspaceOptimizer(ctx context.Context, root, image string) error {
	if b.containers == nil {
		return fmt.Errorf("the default optimizer backend requires docker")
	}

	if err := b.containers.EnsureImage(ctx, image); err != nil {
		return err
	}

	_, err := b.containers.RunContainer(ctx, OptimizerSpec(root, image))
	if err != nil {
		return fmt.Errorf("workspace optimizer failed: %w", err)
	}
	return nil
}

// OptimizerSpec mounts the workspace as /code and keeps target and the cargo registry in
// named volumes so later builds are incremental.
func OptimizerSpec(root, image string) docker.ContainerSpec {
	return docker.ContainerSpec{
		Image: image,
		Mounts: []docker.Mount{
			docker.BindMount(root, codeMountTarget),
			docker.VolumeMount(filepath.Base(root)+"_cache", codeMountTarget+"/target"),
			docker.VolumeMount(registryVolume, "/usr/local/cargo/registry"),
		},
		AutoRemove: true,
	}
}

// renameOptimizoorArtifacts strips the architecture suffix cw-optimizoor appends.
func renameOptimizoorArtifacts(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to list artifacts: %w", err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.Contains(name, optimizoorArch) {
			continue
		}
		from := filepath.Join(dir, name)
		to := filepath.Join(dir, strings.ReplaceAll(name, optimizoorArch, ""))
		if err := os.Rename(from, to); err != nil {
			return fmt.Errorf("failed to rename artifact '%s': %w", name, err)
		}
	}
	return nil
}
