package build

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/infra/docker"
	"github.com/archway-warp/warp-cli/internal/infra/process"
	"github.com/archway-warp/warp-cli/internal/ux"
)

var optimized bool

var CMD = &cobra.Command{
	Use:   "build",
	Short: "Build the contracts of the workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := configs.RequireProject()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), root, optimized, configs.Values.Tooling)
	},
}

func init() {
	CMD.Flags().BoolVarP(&optimized, "optimized", "o", false, "Build for production with the configured optimizer backend")
}

// Run builds root, opening a Docker connection only when the optimizer image is needed.
func Run(ctx context.Context, root string, optimized bool, tooling configs.Tooling) error {
	if err := tooling.Validate(); err != nil {
		return err
	}

	var containers ContainerRunner
	if optimized && tooling.OptimizerBackend != configs.OptimizerCwOptimizoor {
		client, err := docker.New()
		if err != nil {
			return err
		}
		defer client.Close()
		containers = client
	}

	return NewBuilder(process.NewExecRunner(), containers, ux.Stdout()).Build(ctx, root, optimized, tooling)
}
