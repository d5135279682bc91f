package chain

import (
	"fmt"
	"time"

	"github.com/archway-warp/warp-cli/configs"
)

// Kind is the closed set of supported chain families.
type Kind int

const (
	KindArchway Kind = iota
	KindSecret
	KindXion
)

func (k Kind) String() string {
	switch k {
	case KindArchway:
		return "archway"
	case KindSecret:
		return "secret"
	case KindXion:
		return "xion"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Profile captures how a chain family's binary is driven.
type Profile struct {
	Kind             Kind
	Name             configs.ProfileName
	Binary           string
	WasmModule       string
	DefaultGasPrices string
	NodeImage        string
	WorkspaceRepo    string
	ContractRepo     string
	FrontendRepo     string
	Retry            RetryPolicy
}

const (
	storeGasAdjustment = "2"
	txGasAdjustment    = "1.4"
)

var profiles = map[configs.ProfileName]Profile{
	configs.ProfileArchway: {
		Kind:          KindArchway,
		Name:          configs.ProfileArchway,
		Binary:        "archwayd",
		WasmModule:    "wasm",
		NodeImage:     "ghcr.io/archway-network/archwayd:v7.0.0",
		WorkspaceRepo: "https://github.com/archway-warp/warp-template.git",
		ContractRepo:  "https://github.com/archway-warp/contract-template.git",
		FrontendRepo:  "https://github.com/archway-warp/frontend-template.git",
		Retry:         RetryPolicy{MaxAttempts: 10, Delay: 1600 * time.Millisecond},
	},
	configs.ProfileSecret: {
		Kind:             KindSecret,
		Name:             configs.ProfileSecret,
		Binary:           "secretcli",
		WasmModule:       "compute",
		DefaultGasPrices: "0.0125uscrt",
		NodeImage:        "ghcr.io/scrtlabs/localsecret:v1.12.1",
		WorkspaceRepo:    "https://github.com/secret-warp/warp-template.git",
		ContractRepo:     "https://github.com/secret-warp/contract-template.git",
		FrontendRepo:     "https://github.com/secret-warp/frontend-template.git",
		Retry:            RetryPolicy{MaxAttempts: 10, Delay: 1958 * time.Millisecond},
	},
	configs.ProfileXion: {
		Kind:             KindXion,
		Name:             configs.ProfileXion,
		Binary:           "xiond",
		WasmModule:       "wasm",
		DefaultGasPrices: "0.00025uxion",
		NodeImage:        "ghcr.io/burnt-labs/xion/xion:latest",
		WorkspaceRepo:    "https://github.com/xion-warp/warp-template.git",
		ContractRepo:     "https://github.com/xion-warp/contract-template.git",
		FrontendRepo:     "https://github.com/xion-warp/frontend-template.git",
		Retry:            RetryPolicy{MaxAttempts: 10, Delay: 1600 * time.Millisecond},
	},
}

// LookupProfile returns the profile registered for name.
func LookupProfile(name configs.ProfileName) (Profile, error) {
	profile, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("unsupported chain profile '%s'", name)
	}
	return profile, nil
}

func (p Profile) gasPrices(network configs.Network) string {
	if network.GasPrices != "" {
		return network.GasPrices
	}
	return p.DefaultGasPrices
}

// commonArgs returns the output flags every invocation carries followed by the network
// flags when withNetwork is set.
func commonArgs(p Profile, network configs.Network, withNetwork bool) []string {
	args := []string{"--output", "json"}
	if !withNetwork {
		return args
	}

	if p.Kind == KindSecret {
		return append(args, "--node", network.RPCURL, "--chain-id", network.ChainID)
	}
	return append(args, "--chain-id", network.ChainID, "--node", network.RPCURL)
}

// txArgs returns the broadcast flags shared by every transaction. gasPrices is resolved by the
// caller since Archway derives it from an on-chain fee estimate.
func txArgs(p Profile, network configs.Network, store bool, gasPrices string) []string {
	args := []string{"-y", "-b", network.BroadcastModeOrDefault()}

	switch p.Kind {
	case KindSecret:
		if store {
			args = append(args, "--gas", "auto", "--gas-adjustment", storeGasAdjustment, "--gas-prices", gasPrices)
		}
	default:
		adjustment := txGasAdjustment
		if store {
			adjustment = storeGasAdjustment
		}
		args = append(args, "--gas", "auto", "--gas-adjustment", adjustment, "--gas-prices", gasPrices)
	}

	return args
}

func smartQueryArgs(p Profile, contractAddress, query string) []string {
	if p.Kind == KindSecret {
		return []string{"q", p.WasmModule, "query", contractAddress, query}
	}
	return []string{"q", p.WasmModule, "contract-state", "smart", contractAddress, query}
}
