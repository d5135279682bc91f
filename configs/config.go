package configs

import (
	"errors"
	"fmt"
	"strings"
)

var Values Config

type (
	ProfileName      string
	OptimizerBackend string
	NetworkPreset    string

	Config struct {
		Network         Network    `mapstructure:"network" toml:"network"`
		Tests           Tests      `mapstructure:"tests" toml:"tests"`
		Tooling         Tooling    `mapstructure:"tooling" toml:"tooling"`
		Autodeploy      Autodeploy `mapstructure:"autodeploy" toml:"autodeploy"`
		ExitZeroOnError bool       `mapstructure:"exit_zero_on_error" toml:"exit_zero_on_error,omitempty"`
	}

	Network struct {
		Profile       ProfileName `mapstructure:"profile" toml:"profile"`
		ChainID       string      `mapstructure:"chain_id" toml:"chain_id"`
		RPCURL        string      `mapstructure:"rpc_url" toml:"rpc_url"`
		Denom         string      `mapstructure:"denom" toml:"denom"`
		GasPrices     string      `mapstructure:"gas_prices" toml:"gas_prices,omitempty"`
		BroadcastMode string      `mapstructure:"broadcast_mode" toml:"broadcast_mode,omitempty"`
	}

	Tests struct {
		NodeSetupTime     uint16 `mapstructure:"node_setup_time" toml:"node_setup_time"`
		TestContainerName string `mapstructure:"test_container_name" toml:"test_container_name"`
		PersistImage      bool   `mapstructure:"persist_image" toml:"persist_image"`
		NodeImage         string `mapstructure:"node_image" toml:"node_image,omitempty"`
		NodeDockerfile    string `mapstructure:"node_dockerfile" toml:"node_dockerfile,omitempty"`
	}

	Tooling struct {
		OptimizerBackend OptimizerBackend `mapstructure:"optimizer_backend" toml:"optimizer_backend"`
		OptimizerImage   string           `mapstructure:"optimizer_image" toml:"optimizer_image,omitempty"`
	}

	Autodeploy struct {
		AccountID        string       `mapstructure:"account_id" toml:"account_id"`
		MakeLabelsUnique bool         `mapstructure:"make_labels_unique" toml:"make_labels_unique"`
		StrictTemplates  bool         `mapstructure:"strict_templates" toml:"strict_templates,omitempty"`
		Steps            []DeployStep `mapstructure:"steps" toml:"steps"`
	}

	// DeployStep is one entry of the autodeploy manifest.
	DeployStep struct {
		ID         string `mapstructure:"id" toml:"id"`
		Contract   string `mapstructure:"contract" toml:"contract"`
		Label      string `mapstructure:"label" toml:"label"`
		StoreOnly  bool   `mapstructure:"store_only" toml:"store_only"`
		InitMsg    string `mapstructure:"init_msg" toml:"init_msg"`
		MigrateMsg string `mapstructure:"migrate_msg" toml:"migrate_msg,omitempty"`
		Coins      string `mapstructure:"coins" toml:"coins,omitempty"`
	}
)

const (
	ProfileArchway ProfileName = "archway"
	ProfileSecret  ProfileName = "scrt"
	ProfileXion    ProfileName = "xion"

	OptimizerDefault      OptimizerBackend = "default"
	OptimizerCwOptimizoor OptimizerBackend = "cw-optimizoor"

	PresetMainnet NetworkPreset = "mainnet"
	PresetTestnet NetworkPreset = "testnet"
	PresetLocal   NetworkPreset = "local"

	defaultMigrateMsg = "{}"
)

// MigrateMessage returns the migrate message template, defaulting to an empty JSON object.
func (s DeployStep) MigrateMessage() string {
	if strings.TrimSpace(s.MigrateMsg) == "" {
		return defaultMigrateMsg
	}
	return s.MigrateMsg
}

func (n *Network) Validate() error {
	var errs []error

	switch n.Profile {
	case ProfileArchway, ProfileSecret, ProfileXion:
	case "":
		errs = append(errs, errors.New("network.profile is required"))
	default:
		errs = append(errs, fmt.Errorf("network.profile must be one of '%s', '%s' or '%s', got '%s'",
			ProfileArchway, ProfileSecret, ProfileXion, n.Profile))
	}
	if n.ChainID == "" {
		errs = append(errs, errors.New("network.chain_id is required"))
	}
	if n.RPCURL == "" {
		errs = append(errs, errors.New("network.rpc_url is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("network configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func (a *Autodeploy) Validate() error {
	var errs []error

	if a.AccountID == "" {
		errs = append(errs, errors.New("autodeploy.account_id is required"))
	}

	seen := make(map[string]int, len(a.Steps))
	for i, step := range a.Steps {
		if step.ID == "" {
			errs = append(errs, fmt.Errorf("autodeploy.steps[%d].id is required", i))
		} else if first, ok := seen[step.ID]; ok {
			errs = append(errs, fmt.Errorf("autodeploy.steps[%d].id '%s' duplicates autodeploy.steps[%d]", i, step.ID, first))
		} else {
			seen[step.ID] = i
		}
		if step.Contract == "" {
			errs = append(errs, fmt.Errorf("autodeploy.steps[%d].contract is required", i))
		}
		if !step.StoreOnly && step.Label == "" {
			errs = append(errs, fmt.Errorf("autodeploy.steps[%d].label is required", i))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("autodeploy configuration validation failed: %w", errors.Join(errs...))
	}

	return nil
}

func (t *Tooling) Validate() error {
	switch t.OptimizerBackend {
	case "", OptimizerDefault, OptimizerCwOptimizoor:
		return nil
	default:
		return fmt.Errorf("tooling.optimizer_backend must be either '%s' or '%s'", OptimizerDefault, OptimizerCwOptimizoor)
	}
}

// ParseProfileName accepts a profile name as typed on the command line, including "secret"
// for the Secret Network profile.
func ParseProfileName(value string) (ProfileName, error) {
	switch name := ProfileName(strings.ToLower(strings.TrimSpace(value))); name {
	case ProfileArchway, ProfileSecret, ProfileXion:
		return name, nil
	case "secret":
		return ProfileSecret, nil
	default:
		return "", fmt.Errorf("unknown chain profile '%s': expected archway, secret or xion", value)
	}
}
