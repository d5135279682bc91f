package configure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/archway-warp/warp-cli/configs"
)

var ErrNothingToSet = errors.New("nothing to set: pass --network or --optimizer-backend")

// Selection names the settings a config invocation touches. Empty fields are left alone.
type Selection struct {
	Network          configs.NetworkPreset
	OptimizerBackend configs.OptimizerBackend
}

// Entry is one printed setting.
type Entry struct {
	Name  string
	Value string
}

func (s Selection) empty() bool {
	return s.Network == "" && s.OptimizerBackend == ""
}

// ParseSelection validates raw flag values.
func ParseSelection(network, backend string) (Selection, error) {
	var sel Selection

	switch preset := configs.NetworkPreset(strings.ToLower(strings.TrimSpace(network))); preset {
	case "":
	case configs.PresetMainnet, configs.PresetTestnet, configs.PresetLocal:
		sel.Network = preset
	default:
		return sel, fmt.Errorf("network must be one of '%s', '%s' or '%s', got '%s'",
			configs.PresetMainnet, configs.PresetTestnet, configs.PresetLocal, network)
	}

	tooling := configs.Tooling{OptimizerBackend: configs.OptimizerBackend(strings.TrimSpace(backend))}
	if err := tooling.Validate(); err != nil {
		return sel, err
	}
	sel.OptimizerBackend = tooling.OptimizerBackend

	return sel, nil
}

// Set applies sel to cfg. The network preset is resolved for the project's chain profile.
func Set(cfg configs.Config, sel Selection) (configs.Config, error) {
	if sel.empty() {
		return cfg, ErrNothingToSet
	}

	if sel.OptimizerBackend != "" {
		cfg.Tooling.OptimizerBackend = sel.OptimizerBackend
	}
	if sel.Network != "" {
		network, err := configs.PresetNetwork(cfg.Network.Profile, sel.Network)
		if err != nil {
			return cfg, err
		}
		if cfg.Network.BroadcastMode != "" {
			network.BroadcastMode = cfg.Network.BroadcastMode
		}
		cfg.Network = network
	}

	return cfg, nil
}

// Get lists the settings selected by sel, or all of them when sel is empty.
func Get(cfg configs.Config, sel Selection) []Entry {
	all := sel.empty()

	var entries []Entry
	if all || sel.OptimizerBackend != "" {
		backend := cfg.Tooling.OptimizerBackend
		if backend == "" {
			backend = configs.OptimizerDefault
		}
		entries = append(entries, Entry{Name: "Optimizer Backend", Value: string(backend)})
	}
	if all || sel.Network != "" {
		entries = append(entries,
			Entry{Name: "Profile", Value: string(cfg.Network.Profile)},
			Entry{Name: "Chain ID", Value: cfg.Network.ChainID},
			Entry{Name: "RPC URL", Value: cfg.Network.RPCURL},
			Entry{Name: "Denom", Value: cfg.Network.Denom},
		)
		if cfg.Network.GasPrices != "" {
			entries = append(entries, Entry{Name: "Gas Prices", Value: cfg.Network.GasPrices})
		}
	}
	return entries
}
