package deploy

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/build"
	"github.com/archway-warp/warp-cli/internal/chain"
	"github.com/archway-warp/warp-cli/internal/deploy/ledger"
	"github.com/archway-warp/warp-cli/internal/infra/filesystem/toml"
	"github.com/archway-warp/warp-cli/internal/infra/process"
	"github.com/archway-warp/warp-cli/internal/prompt"
	"github.com/archway-warp/warp-cli/internal/ux"
)

var rebuild bool

var CMD = &cobra.Command{
	Use:   "deploy",
	Short: "Store, instantiate or migrate every contract listed under [autodeploy]",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := configs.RequireProject()
		if err != nil {
			return err
		}

		cfg := configs.Values
		slog.Debug("validating deployment config", slog.Any("network", cfg.Network), slog.Int("steps", len(cfg.Autodeploy.Steps)))
		if err := cfg.Network.Validate(); err != nil {
			return err
		}
		if err := cfg.Autodeploy.Validate(); err != nil {
			return err
		}

		profile, err := chain.LookupProfile(cfg.Network.Profile)
		if err != nil {
			return err
		}

		if rebuild {
			if err := build.Run(cmd.Context(), root, true, cfg.Tooling); err != nil {
				return fmt.Errorf("failed to rebuild contracts: %w", err)
			}
		}

		store := ledger.NewStore(root, toml.NewReader(), toml.NewWriter())
		unlock, err := store.Lock()
		if err != nil {
			return err
		}
		defer func() {
			if err := unlock(); err != nil {
				slog.Warn("failed to release ledger lock", "err", err)
			}
		}()

		password, err := prompt.Password()
		if err != nil {
			return err
		}

		printer := ux.Stdout()
		client := chain.NewCLIClient(profile, cfg.Network, process.NewExecRunner(), chain.WithWorkDir(root))
		orchestrator := NewOrchestrator(client, store, SystemClock{}, printer)

		report, err := orchestrator.Run(cmd.Context(), cfg.Autodeploy.Steps, Options{
			ChainID:          cfg.Network.ChainID,
			AccountID:        cfg.Autodeploy.AccountID,
			MakeLabelsUnique: cfg.Autodeploy.MakeLabelsUnique,
			StrictTemplates:  cfg.Autodeploy.StrictTemplates,
			SettleDelay:      DefaultSettleDelay,
			Password:         password,
		})
		if err != nil {
			return err
		}
		slog.Debug("deployment ledger updated", "path", store.Path(), "chain_id", cfg.Network.ChainID)

		if len(report.Outcomes) == 0 {
			printer.Println("Nothing to deploy.")
			return nil
		}
		return printer.Table([]string{"Step", "Code ID", "Address", "Action"}, report.Rows())
	},
}
