package wasm

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/chain"
	"github.com/archway-warp/warp-cli/internal/deploy/ledger"
	"github.com/archway-warp/warp-cli/internal/infra/filesystem/toml"
	"github.com/archway-warp/warp-cli/internal/infra/process"
	"github.com/archway-warp/warp-cli/internal/prompt"
	"github.com/archway-warp/warp-cli/internal/ux"
)

var (
	from   string
	funds  string
	output string
)

var CMD = &cobra.Command{
	Use:   "wasm",
	Short: "Interact with contracts deployed by warp deploy",
}

var executeCMD = &cobra.Command{
	Use:   "execute <step-id> <json>",
	Short: "Execute a message on a deployed contract",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		sender := from
		if sender == "" {
			sender = configs.Values.Autodeploy.AccountID
		}
		if sender == "" {
			return errors.New("no sender: pass --from or set autodeploy.account_id")
		}

		password, err := prompt.Password()
		if err != nil {
			return err
		}

		printer := ux.Stdout()
		printer.Step("Executing on '%s'...", args[0])
		tx, err := svc.Execute(cmd.Context(), args[0], args[1], ExecuteOptions{From: sender, Funds: funds, Password: password})
		if err != nil {
			return err
		}
		printer.Done("tx %s", tx.TxHash)
		return nil
	},
}

var queryCMD = &cobra.Command{
	Use:   "query <step-id> <json>",
	Short: "Run a smart query against a deployed contract",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseOutputFormat(output)
		if err != nil {
			return err
		}
		svc, err := newService()
		if err != nil {
			return err
		}

		raw, err := svc.Query(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		out, err := Render(raw, format)
		if err != nil {
			return err
		}
		_, err = ux.Stdout().Writer().Write(out)
		return err
	},
}

func init() {
	executeCMD.Flags().StringVar(&from, "from", "", "Key name of the sender (defaults to autodeploy.account_id)")
	executeCMD.Flags().StringVar(&funds, "funds", "", "Coins sent along with the message, e.g. 1000uconst")
	queryCMD.Flags().StringVarP(&output, "output", "o", string(OutputJSON), "Output format (json or yaml)")

	CMD.AddCommand(executeCMD, queryCMD)
}

func newService() (*Service, error) {
	root, err := configs.RequireProject()
	if err != nil {
		return nil, err
	}

	cfg := configs.Values
	if err := cfg.Network.Validate(); err != nil {
		return nil, err
	}
	profile, err := chain.LookupProfile(cfg.Network.Profile)
	if err != nil {
		return nil, err
	}

	client := chain.NewCLIClient(profile, cfg.Network, process.NewExecRunner(), chain.WithWorkDir(root))
	store := ledger.NewStore(root, toml.NewReader(), toml.NewWriter())
	return NewService(client, store, cfg.Network.ChainID), nil
}
