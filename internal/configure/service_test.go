package configure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archway-warp/warp-cli/configs"
)

func TestParseSelection(t *testing.T) {
	sel, err := ParseSelection("Mainnet", "cw-optimizoor")
	require.NoError(t, err)
	assert.Equal(t, Selection{Network: configs.PresetMainnet, OptimizerBackend: configs.OptimizerCwOptimizoor}, sel)

	_, err = ParseSelection("titus", "")
	require.ErrorContains(t, err, "network must be one of")

	_, err = ParseSelection("", "rust-optimizer")
	require.ErrorContains(t, err, "tooling.optimizer_backend")
}

func TestSetNetworkKeepsProfile(t *testing.T) {
	cfg := configs.MustDefaultConfig()
	cfg.Network.Profile = configs.ProfileSecret
	cfg.Autodeploy.AccountID = "deployer"

	updated, err := Set(cfg, Selection{Network: configs.PresetMainnet})
	require.NoError(t, err)

	assert.Equal(t, configs.ProfileSecret, updated.Network.Profile)
	assert.Equal(t, "secret-4", updated.Network.ChainID)
	assert.Equal(t, "deployer", updated.Autodeploy.AccountID)
	assert.Equal(t, cfg.Tooling, updated.Tooling)
}

func TestSetKeepsBroadcastMode(t *testing.T) {
	cfg := configs.MustDefaultConfig()
	cfg.Network.BroadcastMode = "async"

	updated, err := Set(cfg, Selection{Network: configs.PresetLocal})
	require.NoError(t, err)
	assert.Equal(t, "localnet", updated.Network.ChainID)
	assert.Equal(t, "async", updated.Network.BroadcastMode)
}

func TestSetUnsupportedPreset(t *testing.T) {
	cfg := configs.MustDefaultConfig()
	cfg.Network.Profile = configs.ProfileXion

	_, err := Set(cfg, Selection{Network: configs.PresetMainnet})
	require.ErrorContains(t, err, "not supported")
}

func TestSetRequiresSelection(t *testing.T) {
	_, err := Set(configs.MustDefaultConfig(), Selection{})
	require.ErrorIs(t, err, ErrNothingToSet)
}

func TestSetOptimizerBackend(t *testing.T) {
	cfg := configs.MustDefaultConfig()

	updated, err := Set(cfg, Selection{OptimizerBackend: configs.OptimizerCwOptimizoor})
	require.NoError(t, err)
	assert.Equal(t, configs.OptimizerCwOptimizoor, updated.Tooling.OptimizerBackend)
	assert.Equal(t, cfg.Network, updated.Network)
}

func TestGet(t *testing.T) {
	cfg := configs.MustDefaultConfig()

	assert.Equal(t, []Entry{{Name: "Optimizer Backend", Value: "default"}}, Get(cfg, Selection{OptimizerBackend: configs.OptimizerDefault}))

	all := Get(cfg, Selection{})
	require.Len(t, all, 5)
	assert.Equal(t, Entry{Name: "Chain ID", Value: "constantine-3"}, all[2])
}
