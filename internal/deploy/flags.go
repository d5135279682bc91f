package deploy

import (
	"github.com/spf13/viper"
)

type (
	flagType interface {
		string | bool
	}

	// flagDef is a command-line flag bound to a Warp.toml key.
	flagDef[T flagType] struct {
		name         string
		viperKey     string
		defaultValue T
		description  string
	}
)

var (
	stringFlags = []flagDef[string]{
		{"account", "autodeploy.account_id", "", "Key name of the deploying account"},
		{"broadcast-mode", "network.broadcast_mode", "", "Broadcast mode passed to the chain binary (sync or async)"},
	}

	boolFlags = []flagDef[bool]{
		{"strict-templates", "autodeploy.strict_templates", false, "Only substitute $id and #id references at identifier boundaries"},
		{"unique-labels", "autodeploy.make_labels_unique", true, "Append a timestamp to instantiation labels"},
	}
)

func init() {
	if err := declareFlags(stringFlags); err != nil {
		panic(err)
	}
	if err := declareFlags(boolFlags); err != nil {
		panic(err)
	}
	CMD.Flags().BoolVarP(&rebuild, "rebuild", "r", false, "Build optimized contracts before deploying")
}

func declareFlags[T flagType](flags []flagDef[T]) error {
	for _, flag := range flags {
		if err := declareFlag(flag.name, flag.viperKey, flag.defaultValue, flag.description); err != nil {
			return err
		}
	}
	return nil
}

func declareFlag[T flagType](flagName, viperKey string, defaultValue T, description string) error {
	switch v := any(defaultValue).(type) {
	case string:
		CMD.Flags().String(flagName, v, description)
	case bool:
		CMD.Flags().Bool(flagName, v, description)
	}
	return viper.BindPFlag(viperKey, CMD.Flags().Lookup(flagName))
}
