package node

import (
	"github.com/spf13/cobra"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/chain"
	"github.com/archway-warp/warp-cli/internal/infra/docker"
	"github.com/archway-warp/warp-cli/internal/ux"
)

var startOpts StartOptions

var CMD = &cobra.Command{
	Use:   "node",
	Short: "Run a local node for the configured chain profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := configs.RequireProject()
		if err != nil {
			return err
		}

		profile, err := chain.LookupProfile(configs.Values.Network.Profile)
		if err != nil {
			return err
		}

		engine, err := docker.New()
		if err != nil {
			return err
		}
		defer engine.Close()

		return NewService(engine, ux.Stdout()).Start(cmd.Context(), root, profile, configs.Values.Tests, startOpts)
	},
}

func init() {
	CMD.Flags().BoolVarP(&startOpts.Detached, "detached", "d", false, "Run the node in the background")
	CMD.Flags().StringVarP(&startOpts.Container, "container", "c", "", "Container name (defaults to tests.test_container_name)")
	CMD.Flags().BoolVarP(&startOpts.Persistent, "persistent", "p", false, "Keep the container after it stops")
}
