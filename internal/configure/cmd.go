package configure

import (
	"github.com/spf13/cobra"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/infra/filesystem/toml"
	"github.com/archway-warp/warp-cli/internal/ux"
)

var (
	network          string
	optimizerBackend string
)

var CMD = &cobra.Command{
	Use:   "config",
	Short: "Read or change the Warp.toml of the current project",
}

var setCMD = &cobra.Command{
	Use:   "set",
	Short: "Switch the network preset or the optimizer backend",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, sel, err := selection()
		if err != nil {
			return err
		}

		cfg, err := Set(configs.Values, sel)
		if err != nil {
			return err
		}
		if err := configs.Save(toml.NewWriter(), root, cfg); err != nil {
			return err
		}
		configs.Values = cfg

		printEntries(Get(cfg, sel))
		return nil
	},
}

var getCMD = &cobra.Command{
	Use:   "get",
	Short: "Print the current network and tooling settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, sel, err := selection()
		if err != nil {
			return err
		}
		printEntries(Get(configs.Values, sel))
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{setCMD, getCMD} {
		c.Flags().StringVarP(&network, "network", "n", "", "Network preset (mainnet, testnet or local)")
		c.Flags().StringVarP(&optimizerBackend, "optimizer-backend", "o", "", "Contract optimizer (default or cw-optimizoor)")
	}
	CMD.AddCommand(setCMD, getCMD)
}

func selection() (string, Selection, error) {
	root, err := configs.RequireProject()
	if err != nil {
		return "", Selection{}, err
	}
	sel, err := ParseSelection(network, optimizerBackend)
	return root, sel, err
}

func printEntries(entries []Entry) {
	printer := ux.Stdout()
	for _, entry := range entries {
		printer.Step("%s: %s", entry.Name, entry.Value)
	}
}
