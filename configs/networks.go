package configs

import "fmt"

// networkPresets holds the well-known endpoints for every chain profile.
var networkPresets = map[ProfileName]map[NetworkPreset]Network{
	ProfileArchway: {
		PresetMainnet: {ChainID: "archway-1", RPCURL: "https://rpc.mainnet.archway.io:443", Denom: "aarch"},
		PresetTestnet: {ChainID: "constantine-3", RPCURL: "https://rpc.constantine.archway.tech:443", Denom: "aconst"},
		PresetLocal:   {ChainID: "localnet", RPCURL: "http://localhost:26657", Denom: "aarch"},
	},
	ProfileSecret: {
		PresetMainnet: {ChainID: "secret-4", RPCURL: "https://secretnetwork-rpc.lavenderfive.com:443", Denom: "uscrt", GasPrices: "0.0125uscrt"},
		PresetTestnet: {ChainID: "pulsar-3", RPCURL: "https://rpc.pulsar-3.secretsaturn.net", Denom: "uscrt", GasPrices: "0.0125uscrt"},
		PresetLocal:   {ChainID: "secretdev-1", RPCURL: "http://localhost:26657", Denom: "uscrt", GasPrices: "0.0125uscrt"},
	},
	ProfileXion: {
		PresetTestnet: {ChainID: "xion-testnet-1", RPCURL: "https://rpc.xion-testnet-1.burnt.com:443", Denom: "uxion", GasPrices: "0.001uxion"},
		PresetLocal:   {ChainID: "xion-local-testnet-1", RPCURL: "http://localhost:26657", Denom: "uxion", GasPrices: "0.00025uxion"},
	},
}

// PresetNetwork returns the network parameters of a preset for the given profile.
func PresetNetwork(profile ProfileName, preset NetworkPreset) (Network, error) {
	presets, ok := networkPresets[profile]
	if !ok {
		return Network{}, fmt.Errorf("unknown chain profile '%s'", profile)
	}

	network, ok := presets[preset]
	if !ok {
		return Network{}, fmt.Errorf("network preset '%s' is not supported by profile '%s'", preset, profile)
	}

	network.Profile = profile
	network.BroadcastMode = defaultBroadcastMode
	return network, nil
}
