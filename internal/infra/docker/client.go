package docker

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/containerd/errdefs"
	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/moby/go-archive"

	"github.com/archway-warp/warp-cli/internal/logger"
)

// ErrContainerConflict is returned when a container with the requested name already exists.
var ErrContainerConflict = errors.New("container already exists")

type Client struct {
	cli    *client.Client
	logger *slog.Logger
}

// New creates a Docker client from the environment (DOCKER_HOST and friends).
func New() (*Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}

	return &Client{cli: cli, logger: logger.Named("docker_client")}, nil
}

func (c *Client) Close() error {
	return c.cli.Close()
}

// ImageExists checks if a Docker image exists locally.
func (c *Client) ImageExists(ctx context.Context, imageName string) (bool, error) {
	if _, err := c.cli.ImageInspect(ctx, imageName); err != nil {
		if errdefs.IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsureImage pulls imageName unless it is already present.
func (c *Client) EnsureImage(ctx context.Context, imageName string) error {
	exists, err := c.ImageExists(ctx, imageName)
	if err != nil {
		return fmt.Errorf("failed to inspect image '%s': %w", imageName, err)
	}
	if exists {
		c.logger.Debug("image present locally", "image", imageName)
		return nil
	}
	return c.PullImage(ctx, imageName)
}

func (c *Client) PullImage(ctx context.Context, imageName string) error {
	c.logger.Info("pulling docker image", "image", imageName)

	resp, err := c.cli.ImagePull(ctx, imageName, image.PullOptions{})
	if err != nil {
		return fmt.Errorf("failed to pull image: %w", err)
	}
	defer resp.Close()

	if err := c.drainProgress(resp, "pull"); err != nil {
		return err
	}

	c.logger.Info("docker image pulled", "image", imageName)
	return nil
}

// BuildImage builds tag from the Dockerfile at dockerfilePath, relative to contextPath.
func (c *Client) BuildImage(ctx context.Context, dockerfilePath, contextPath, tag string) error {
	buildContext, err := archive.TarWithOptions(contextPath, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to create build context: %w", err)
	}
	defer buildContext.Close()

	resp, err := c.cli.ImageBuild(ctx, buildContext, build.ImageBuildOptions{
		Tags:       []string{tag},
		Dockerfile: dockerfilePath,
		Remove:     true,
	})
	if err != nil {
		return fmt.Errorf("failed to build image: %w", err)
	}
	defer resp.Body.Close()

	if err := c.drainProgress(resp.Body, "build"); err != nil {
		return err
	}

	c.logger.Info("docker image built", "tag", tag)
	return nil
}

// drainProgress consumes a JSON progress stream and returns the last reported error.
func (c *Client) drainProgress(r io.Reader, op string) error {
	scanner := bufio.NewScanner(r)
	var streamErr error
	for scanner.Scan() {
		line := scanner.Bytes()
		c.logger.Debug(string(line))

		var msg struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(line, &msg); err == nil && msg.Error != "" {
			streamErr = fmt.Errorf("%s failed: %s", op, msg.Error)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading %s output: %w", op, err)
	}
	return streamErr
}
