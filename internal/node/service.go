package node

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/chain"
	"github.com/archway-warp/warp-cli/internal/infra/docker"
	"github.com/archway-warp/warp-cli/internal/logger"
	"github.com/archway-warp/warp-cli/internal/ux"
)

const codeMountTarget = "/root/code"

var defaultPorts = []string{"9091:9091", "26657:26657", "26656:26656", "1317:1317", "5000:5000"}

// Engine is the container runtime used to host the local node.
type Engine interface {
	EnsureImage(ctx context.Context, image string) error
	BuildImage(ctx context.Context, dockerfilePath, contextPath, tag string) error
	RunContainer(ctx context.Context, spec docker.ContainerSpec) (string, error)
	StartContainer(ctx context.Context, name string) error
	StopContainer(ctx context.Context, name string) error
	RemoveContainer(ctx context.Context, name string) error
	Logs(ctx context.Context, name string, tail int, w io.Writer) error
}

type StartOptions struct {
	Container  string
	Detached   bool
	Persistent bool
	// RestartOnConflict starts an existing container of the same name instead of failing.
	RestartOnConflict bool
}

type Service struct {
	engine  Engine
	printer *ux.Printer
	logger  *slog.Logger
}

func NewService(engine Engine, printer *ux.Printer) *Service {
	return &Service{engine: engine, printer: printer, logger: logger.Named("node")}
}

// Image resolves the node image: a locally built one when a Dockerfile is configured, the
// configured image otherwise, and the profile default last.
func Image(profile chain.Profile, tests configs.Tests) string {
	switch {
	case tests.NodeDockerfile != "":
		return fmt.Sprintf("warp-node-%s:local", profile.Kind)
	case tests.NodeImage != "":
		return tests.NodeImage
	default:
		return profile.NodeImage
	}
}

// Spec describes the node container for root.
func Spec(root string, profile chain.Profile, tests configs.Tests, opts StartOptions) docker.ContainerSpec {
	name := opts.Container
	if name == "" {
		name = tests.TestContainerName
	}

	spec := docker.ContainerSpec{
		Name:       name,
		Image:      Image(profile, tests),
		Ports:      defaultPorts,
		Mounts:     []docker.Mount{docker.BindMount(root, codeMountTarget)},
		AutoRemove: !opts.Persistent,
		Detach:     opts.Detached,
	}
	if profile.Kind == chain.KindSecret {
		spec.Env = []string{"FAST_BLOCKS=true"}
	}
	return spec
}

// Start prepares the node image and runs the node container.
func (s *Service) Start(ctx context.Context, root string, profile chain.Profile, tests configs.Tests, opts StartOptions) error {
	spec := Spec(root, profile, tests, opts)

	if tests.NodeDockerfile != "" {
		s.printer.Step("Building node image %s from %s", spec.Image, tests.NodeDockerfile)
		if err := s.engine.BuildImage(ctx, tests.NodeDockerfile, root, spec.Image); err != nil {
			return fmt.Errorf("failed to build node image: %w", err)
		}
	} else if err := s.engine.EnsureImage(ctx, spec.Image); err != nil {
		return fmt.Errorf("failed to prepare node image: %w", err)
	}

	s.printer.Step("Starting %s node '%s' (%s)", profile.Kind, spec.Name, spec.Image)
	_, err := s.engine.RunContainer(ctx, spec)
	if err == nil {
		return nil
	}

	if errors.Is(err, docker.ErrContainerConflict) && opts.RestartOnConflict {
		s.logger.Info("node container exists, starting it with its previous state", "container", spec.Name)
		return s.engine.StartContainer(ctx, spec.Name)
	}
	return err
}

// Stop stops the node container and removes it unless it is persistent.
func (s *Service) Stop(ctx context.Context, name string, persistent bool) error {
	if err := s.engine.StopContainer(ctx, name); err != nil {
		return err
	}
	if persistent {
		return nil
	}
	return s.engine.RemoveContainer(ctx, name)
}

// Logs writes the last tail lines of the node's output to w.
func (s *Service) Logs(ctx context.Context, name string, tail int, w io.Writer) error {
	return s.engine.Logs(ctx, name, tail, w)
}
