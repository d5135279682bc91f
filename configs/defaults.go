package configs

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

const (
	defaultOptimizerImage = "cosmwasm/workspace-optimizer:0.12.10"
	defaultBroadcastMode  = "sync"
)

var (
	//go:embed Warp.example.toml
	defaultConfigTOML string

	defaultConfigOnce sync.Once
	defaultConfig     Config
	defaultConfigErr  error
)

// DefaultConfig returns the parsed configuration from the embedded Warp.example.toml.
func DefaultConfig() (Config, error) {
	defaultConfigOnce.Do(func() {
		v := viper.New()
		v.SetConfigType("toml")
		if err := v.ReadConfig(strings.NewReader(defaultConfigTOML)); err != nil {
			defaultConfigErr = fmt.Errorf("failed to read embedded Warp.example.toml: %w", err)
			return
		}

		if err := v.Unmarshal(&defaultConfig); err != nil {
			defaultConfigErr = fmt.Errorf("failed to decode embedded Warp.example.toml: %w", err)
			return
		}
	})

	if defaultConfigErr != nil {
		return Config{}, defaultConfigErr
	}

	cfg := defaultConfig
	cfg.Autodeploy.Steps = append([]DeployStep(nil), defaultConfig.Autodeploy.Steps...)
	return cfg, nil
}

// MustDefaultConfig returns embedded defaults or panics if they cannot be loaded.
func MustDefaultConfig() Config {
	cfg, err := DefaultConfig()
	if err != nil {
		panic(err)
	}
	return cfg
}

// OptimizerImageOrDefault returns the configured workspace-optimizer image.
func (t Tooling) OptimizerImageOrDefault() string {
	if t.OptimizerImage == "" {
		return defaultOptimizerImage
	}
	return t.OptimizerImage
}

// BroadcastModeOrDefault returns the configured broadcast mode, "sync" when unset.
func (n Network) BroadcastModeOrDefault() string {
	if n.BroadcastMode == "" {
		return defaultBroadcastMode
	}
	return n.BroadcastMode
}
