package testsuite

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/build"
	"github.com/archway-warp/warp-cli/internal/deploy"
	"github.com/archway-warp/warp-cli/internal/infra/docker"
	"github.com/archway-warp/warp-cli/internal/infra/process"
	"github.com/archway-warp/warp-cli/internal/node"
	"github.com/archway-warp/warp-cli/internal/ux"
)

var opts Options

var CMD = &cobra.Command{
	Use:   "test",
	Short: "Run the workspace test suite against a local node",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := configs.RequireProject()
		if err != nil {
			return err
		}
		cfg := configs.Values
		printer := ux.Stdout()

		var n Node
		if !opts.SkipEnvironment {
			engine, err := docker.New()
			if err != nil {
				return err
			}
			defer engine.Close()
			n = node.NewService(engine, printer)
		}

		rebuild := func(ctx context.Context, root string) error {
			return build.Run(ctx, root, true, cfg.Tooling)
		}

		return NewRunner(n, rebuild, process.NewExecRunner(), deploy.SystemClock{}.Sleep, printer).
			Run(cmd.Context(), root, cfg, opts)
	},
}

func init() {
	CMD.Flags().BoolVarP(&opts.Rebuild, "rebuild", "r", false, "Rebuild the contracts before running tests")
	CMD.Flags().BoolVarP(&opts.SkipEnvironment, "skip-environment", "s", false, "Don't start a local node for this session")
}
