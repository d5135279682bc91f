package git

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"

	"github.com/archway-warp/warp-cli/internal/logger"
)

// ErrDestinationExists is returned when the clone target is a non-empty directory.
var ErrDestinationExists = errors.New("destination already exists and is not empty")

// Repository represents a template repository to clone.
type Repository struct {
	Name string
	URL  string
}

// Cloner fetches template repositories.
type Cloner interface {
	Clone(ctx context.Context, dest string, repo Repository) error
}

// GoGitCloner clones with go-git, so no git binary is required.
type GoGitCloner struct {
	progress io.Writer
	depth    int
	logger   *slog.Logger
}

// NewCloner creates a cloner reporting progress to progress. Pass nil to keep it quiet.
func NewCloner(progress io.Writer) *GoGitCloner {
	return &GoGitCloner{progress: progress, depth: 1, logger: logger.Named("git_cloner")}
}

// Clone clones repo into dest, shallow unless depth is zero.
func (c *GoGitCloner) Clone(ctx context.Context, dest string, repo Repository) error {
	if entries, err := os.ReadDir(dest); err == nil && len(entries) > 0 {
		return fmt.Errorf("%w: '%s'", ErrDestinationExists, dest)
	}

	c.logger.Info("cloning repository", "name", repo.Name, "url", repo.URL, "dest", dest)

	_, err := git.PlainCloneContext(ctx, dest, false, &git.CloneOptions{
		URL:      repo.URL,
		Depth:    c.depth,
		Progress: c.progress,
	})
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w", repo.URL, err)
	}

	c.logger.Info("repository cloned", "name", repo.Name)
	return nil
}
