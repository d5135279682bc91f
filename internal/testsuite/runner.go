package testsuite

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/chain"
	"github.com/archway-warp/warp-cli/internal/infra/process"
	"github.com/archway-warp/warp-cli/internal/logger"
	"github.com/archway-warp/warp-cli/internal/node"
	"github.com/archway-warp/warp-cli/internal/ux"
)

// nodeLogTail is how many node log lines are shown when the suite fails.
const nodeLogTail = 50

type (
	Node interface {
		Start(ctx context.Context, root string, profile chain.Profile, tests configs.Tests, opts node.StartOptions) error
		Stop(ctx context.Context, name string, persistent bool) error
		Logs(ctx context.Context, name string, tail int, w io.Writer) error
	}

	Builder func(ctx context.Context, root string) error

	Sleeper func(ctx context.Context, d time.Duration) error

	Options struct {
		Rebuild         bool
		SkipEnvironment bool
	}

	Runner struct {
		node    Node
		build   Builder
		procs   process.Runner
		sleep   Sleeper
		printer *ux.Printer
		logger  *slog.Logger
	}
)

func NewRunner(n Node, build Builder, procs process.Runner, sleep Sleeper, printer *ux.Printer) *Runner {
	return &Runner{
		node:    n,
		build:   build,
		procs:   procs,
		sleep:   sleep,
		printer: printer,
		logger:  logger.Named("testsuite"),
	}
}

// Run optionally rebuilds, brings up a detached node, runs the TypeScript suite under
// tests/ and tears the node down again.
func (r *Runner) Run(ctx context.Context, root string, cfg configs.Config, opts Options) (err error) {
	if opts.Rebuild {
		if err := r.build(ctx, root); err != nil {
			return fmt.Errorf("failed to rebuild contracts: %w", err)
		}
	}

	if !opts.SkipEnvironment {
		profile, err := chain.LookupProfile(cfg.Network.Profile)
		if err != nil {
			return err
		}

		startOpts := node.StartOptions{
			Container:         cfg.Tests.TestContainerName,
			Detached:          true,
			Persistent:        cfg.Tests.PersistImage,
			RestartOnConflict: true,
		}
		if err := r.node.Start(ctx, root, profile, cfg.Tests, startOpts); err != nil {
			return fmt.Errorf("failed to start test node: %w", err)
		}
		defer func() {
			if stopErr := r.node.Stop(context.WithoutCancel(ctx), cfg.Tests.TestContainerName, cfg.Tests.PersistImage); stopErr != nil {
				r.logger.Warn("failed to clean up test node", "container", cfg.Tests.TestContainerName, "err", stopErr)
				if err == nil {
					err = stopErr
				}
			}
		}()

		r.printer.Println("Waiting for the node to start producing blocks...")
		if err := r.sleep(ctx, time.Duration(cfg.Tests.NodeSetupTime)*time.Second); err != nil {
			return err
		}
	}

	if err := r.mocha(ctx, root); err != nil {
		if !opts.SkipEnvironment {
			r.printer.Header("Last %d lines of the node output:", nodeLogTail)
			if logErr := r.node.Logs(context.WithoutCancel(ctx), cfg.Tests.TestContainerName, nodeLogTail, r.printer.Writer()); logErr != nil {
				r.logger.Warn("failed to read node logs", "container", cfg.Tests.TestContainerName, "err", logErr)
			}
		}
		return err
	}
	return nil
}

func (r *Runner) mocha(ctx context.Context, root string) error {
	testsDir := filepath.Join(root, "tests")
	inv := process.Invocation{
		Binary: "yarn",
		Args: []string{
			"run", "ts-mocha",
			"-p", filepath.Join(testsDir, "tsconfig.json"),
			"-t", "100000",
			filepath.Join(testsDir, "src", "**", "*.test.ts"),
		},
		Dir:        testsDir,
		EchoStderr: true,
	}
	r.logger.Debug("Running test suite", "cmd", inv.String())

	result, err := r.procs.Run(ctx, inv)
	if err != nil {
		return err
	}
	_, _ = r.printer.Writer().Write(result.Stdout)
	if result.ExitCode != 0 {
		return fmt.Errorf("test suite failed with exit code %d", result.ExitCode)
	}
	return nil
}
