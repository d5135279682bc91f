package configs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/archway-warp/warp-cli/internal/infra/filesystem"
	"github.com/spf13/viper"
)

// ProjectFileName is the manifest that marks the root of a Warp workspace.
const ProjectFileName = "Warp.toml"

var (
	ErrProjectNotFound      = errors.New("project file can't be found. You have to navigate to a valid Warp project directory")
	ErrProjectAlreadyExists = errors.New("another Warp project already exists")
)

// ProjectRoot is the directory holding Warp.toml, set once the project config is loaded.
var ProjectRoot string

// FindProjectRoot walks up from startDir until it finds a directory containing Warp.toml.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory '%s': %w", startDir, err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, ProjectFileName)); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrProjectNotFound
		}
		dir = parent
	}
}

// Load decodes the Warp.toml found in root through the given viper instance.
// Keys already bound to flags on v take precedence over file values.
func Load(v *viper.Viper, root string) (Config, error) {
	var cfg Config

	v.SetConfigFile(filepath.Join(root, ProjectFileName))
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("failed to read %s: %w", ProjectFileName, err)
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode %s: %w", ProjectFileName, err)
	}

	return cfg, nil
}

// RequireProject fails when no Warp project was found for the current invocation.
func RequireProject() (string, error) {
	if ProjectRoot == "" {
		return "", ErrProjectNotFound
	}
	return ProjectRoot, nil
}

// Save writes cfg to the Warp.toml in root.
func Save(writer filesystem.Writer, root string, cfg Config) error {
	if err := writer.WriteTOML(filepath.Join(root, ProjectFileName), cfg); err != nil {
		return fmt.Errorf("failed to save %s: %w", ProjectFileName, err)
	}
	return nil
}

// Create writes a fresh Warp.toml into root, refusing to overwrite an existing project.
func Create(writer filesystem.Writer, root string, cfg Config) error {
	path := filepath.Join(root, ProjectFileName)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w at '%s'", ErrProjectAlreadyExists, path)
	}
	return Save(writer, root, cfg)
}
