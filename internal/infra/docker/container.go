package docker

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
)

type ContainerSpec struct {
	Name    string
	Image   string
	Cmd     []string
	Env     []string
	WorkDir string
	// Ports uses the `docker run -p` syntax, e.g. "26657:26657".
	Ports  []string
	Mounts []Mount
	// AutoRemove deletes the container once it stops.
	AutoRemove bool
	// Detach returns as soon as the container started. Otherwise its output is streamed and
	// RunContainer waits for it to exit.
	Detach bool
}

// BindMount mounts a host directory into the container.
func BindMount(source, target string) mount.Mount {
	return mount.Mount{Type: mount.TypeBind, Source: source, Target: target}
}

// VolumeMount mounts a named volume into the container.
func VolumeMount(volume, target string) mount.Mount {
	return mount.Mount{Type: mount.TypeVolume, Source: volume, Target: target}
}

func portBindings(specs []string) (nat.PortSet, nat.PortMap, error) {
	if len(specs) == 0 {
		return nil, nil, nil
	}
	exposed, bindings, err := nat.ParsePortSpecs(specs)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid port mapping %s: %w", strings.Join(specs, ","), err)
	}
	return exposed, bindings, nil
}

// RunContainer creates and starts a container. A name clash is reported as ErrContainerConflict.
func (c *Client) RunContainer(ctx context.Context, spec ContainerSpec) (string, error) {
	exposed, bindings, err := portBindings(spec.Ports)
	if err != nil {
		return "", err
	}

	config := &container.Config{
		Image:        spec.Image,
		Cmd:          spec.Cmd,
		Env:          spec.Env,
		WorkingDir:   spec.WorkDir,
		ExposedPorts: exposed,
		AttachStdout: !spec.Detach,
		AttachStderr: !spec.Detach,
	}
	hostConfig := &container.HostConfig{
		AutoRemove:   spec.AutoRemove,
		PortBindings: bindings,
		Mounts:       spec.Mounts,
	}

	resp, err := c.cli.ContainerCreate(ctx, config, hostConfig, nil, nil, spec.Name)
	if err != nil {
		if errdefs.IsConflict(err) {
			return "", fmt.Errorf("%w: '%s'", ErrContainerConflict, spec.Name)
		}
		return "", fmt.Errorf("failed to create container: %w", err)
	}
	id := resp.ID
	c.logger.Debug("container created", "id", id, "name", spec.Name, "image", spec.Image)

	if spec.Detach {
		if err := c.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
			return "", fmt.Errorf("failed to start container: %w", err)
		}
		return id, nil
	}

	attach, err := c.cli.ContainerAttach(ctx, id, container.AttachOptions{Stream: true, Stdout: true, Stderr: true})
	if err != nil {
		return "", fmt.Errorf("failed to attach to container: %w", err)
	}
	defer attach.Close()

	go func() {
		_, _ = stdcopy.StdCopy(os.Stdout, os.Stderr, attach.Reader)
	}()

	if err := c.cli.ContainerStart(ctx, id, container.StartOptions{}); err != nil {
		return "", fmt.Errorf("failed to start container: %w", err)
	}

	statusCh, errCh := c.cli.ContainerWait(ctx, id, container.WaitConditionNotRunning)
	select {
	case err := <-errCh:
		if err != nil {
			if ctx.Err() != nil {
				c.stopOnCancel(id)
				return id, fmt.Errorf("container %s interrupted: %w", spec.Image, ctx.Err())
			}
			return id, fmt.Errorf("error waiting for container: %w", err)
		}
	case status := <-statusCh:
		if status.StatusCode != 0 {
			return id, fmt.Errorf("container %s exited with code %d", spec.Image, status.StatusCode)
		}
	}

	return id, nil
}

func (c *Client) stopOnCancel(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := c.cli.ContainerStop(ctx, id, container.StopOptions{}); err != nil {
		c.logger.Warn("failed to stop container", "id", id, "err", err)
	}
}

func (c *Client) StartContainer(ctx context.Context, name string) error {
	if err := c.cli.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		return fmt.Errorf("failed to start container '%s': %w", name, err)
	}
	return nil
}

func (c *Client) StopContainer(ctx context.Context, name string) error {
	if err := c.cli.ContainerStop(ctx, name, container.StopOptions{}); err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to stop container '%s': %w", name, err)
	}
	return nil
}

func (c *Client) RemoveContainer(ctx context.Context, name string) error {
	if err := c.cli.ContainerRemove(ctx, name, container.RemoveOptions{Force: true}); err != nil {
		if errdefs.IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("failed to remove container '%s': %w", name, err)
	}
	return nil
}

// Logs copies the last lines of a container's output to w.
func (c *Client) Logs(ctx context.Context, name string, tail int, w io.Writer) error {
	rc, err := c.cli.ContainerLogs(ctx, name, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       fmt.Sprint(tail),
	})
	if err != nil {
		return fmt.Errorf("failed to read logs of '%s': %w", name, err)
	}
	defer rc.Close()

	_, err = stdcopy.StdCopy(w, w, rc)
	return err
}

// Mount is a container mount point.
type Mount = mount.Mount
