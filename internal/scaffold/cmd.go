package scaffold

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/chain"
	"github.com/archway-warp/warp-cli/internal/infra/filesystem/toml"
	"github.com/archway-warp/warp-cli/internal/infra/git"
	"github.com/archway-warp/warp-cli/internal/infra/process"
	"github.com/archway-warp/warp-cli/internal/ux"
)

var (
	initProfile string
	newLabel    string
)

func newService(printer *ux.Printer) *Service {
	return NewService(git.NewCloner(nil), toml.NewWriter(), process.NewExecRunner(), printer)
}

var InitCMD = &cobra.Command{
	Use:   "init <name>",
	Short: "Create a new Warp workspace from the profile's template",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, err := configs.ParseProfileName(initProfile)
		if err != nil {
			return err
		}
		profile, err := chain.LookupProfile(name)
		if err != nil {
			return err
		}

		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir := filepath.Join(cwd, args[0])

		printer := ux.Stdout()
		if err := newService(printer).InitWorkspace(cmd.Context(), dir, profile); err != nil {
			return err
		}
		printer.Done("workspace created in %s", dir)
		return nil
	},
}

var NewCMD = &cobra.Command{
	Use:   "new <name>",
	Short: "Add a new contract to the workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := configs.RequireProject()
		if err != nil {
			return err
		}
		profile, err := chain.LookupProfile(configs.Values.Network.Profile)
		if err != nil {
			return err
		}

		printer := ux.Stdout()
		step, err := newService(printer).NewContract(cmd.Context(), root, configs.Values, profile, args[0], newLabel)
		if err != nil {
			return err
		}
		printer.Done("contract '%s' added, reference it as $%s", step.Contract, step.ID)
		return nil
	},
}

var FrontendCMD = &cobra.Command{
	Use:   "frontend",
	Short: "Add the profile's frontend template to the workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := configs.RequireProject()
		if err != nil {
			return err
		}
		profile, err := chain.LookupProfile(configs.Values.Network.Profile)
		if err != nil {
			return fmt.Errorf("failed to resolve chain profile: %w", err)
		}
		return newService(ux.Stdout()).InitFrontend(cmd.Context(), root, profile)
	},
}

func init() {
	InitCMD.Flags().StringVar(&initProfile, "profile", string(configs.ProfileArchway), "Chain profile: archway, secret or xion")
	NewCMD.Flags().StringVarP(&newLabel, "label", "l", "", "Instantiation label (defaults to the contract name)")
}
