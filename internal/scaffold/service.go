package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/chain"
	"github.com/archway-warp/warp-cli/internal/infra/filesystem"
	"github.com/archway-warp/warp-cli/internal/infra/git"
	"github.com/archway-warp/warp-cli/internal/infra/process"
	"github.com/archway-warp/warp-cli/internal/logger"
	"github.com/archway-warp/warp-cli/internal/ux"
)

const (
	contractNamePlaceholder = "<CONTRACT_NAME>"
	defaultInitMsg          = `{ "owner": "$account_id", "message": "" }`
)

type Service struct {
	cloner  git.Cloner
	writer  filesystem.Writer
	runner  process.Runner
	printer *ux.Printer
	logger  *slog.Logger
}

func NewService(cloner git.Cloner, writer filesystem.Writer, runner process.Runner, printer *ux.Printer) *Service {
	return &Service{
		cloner:  cloner,
		writer:  writer,
		runner:  runner,
		printer: printer,
		logger:  logger.Named("scaffold"),
	}
}

// InitWorkspace clones the profile's workspace template into dir and makes sure it has a
// Warp.toml configured for the profile's testnet.
func (s *Service) InitWorkspace(ctx context.Context, dir string, profile chain.Profile) error {
	if _, err := os.Stat(filepath.Join(dir, configs.ProjectFileName)); err == nil {
		return fmt.Errorf("%w at '%s'", configs.ErrProjectAlreadyExists, dir)
	}

	s.printer.Header("Initializing new workspace...")
	if err := s.cloner.Clone(ctx, dir, git.Repository{Name: "workspace", URL: profile.WorkspaceRepo}); err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(dir, configs.ProjectFileName)); err == nil {
		return nil
	}

	cfg, err := configs.DefaultConfig()
	if err != nil {
		return err
	}
	network, err := configs.PresetNetwork(profile.Name, configs.PresetTestnet)
	if err != nil {
		return err
	}
	cfg.Network = network

	return configs.Create(s.writer, dir, cfg)
}

// NewContract adds contracts/<name> from the contract template and registers an autodeploy
// step for it in Warp.toml.
func (s *Service) NewContract(ctx context.Context, root string, cfg configs.Config, profile chain.Profile, name, label string) (configs.DeployStep, error) {
	crate, err := SanitizeName(name)
	if err != nil {
		return configs.DeployStep{}, err
	}
	for _, step := range cfg.Autodeploy.Steps {
		if step.ID == "_"+crate {
			return configs.DeployStep{}, fmt.Errorf("contract '%s' is already part of the workspace", crate)
		}
	}

	contractDir := filepath.Join(root, "contracts", crate)
	s.printer.Println("[1/2] Downloading contract files...")
	if err := s.cloner.Clone(ctx, contractDir, git.Repository{Name: crate, URL: profile.ContractRepo}); err != nil {
		return configs.DeployStep{}, err
	}

	if err := os.RemoveAll(filepath.Join(contractDir, ".git")); err != nil {
		return configs.DeployStep{}, fmt.Errorf("failed to remove template history: %w", err)
	}
	if err := os.Remove(filepath.Join(contractDir, "README.md")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return configs.DeployStep{}, fmt.Errorf("failed to remove template readme: %w", err)
	}
	for _, rel := range []string{"Cargo.toml", filepath.Join("src", "contract.rs"), filepath.Join("src", "bin", "schema.rs")} {
		if err := replaceInFile(filepath.Join(contractDir, rel), contractNamePlaceholder, crate); err != nil {
			return configs.DeployStep{}, err
		}
	}
	if err := s.addSharedMessages(root, crate); err != nil {
		return configs.DeployStep{}, err
	}

	if label == "" {
		label = name
	}
	step := configs.DeployStep{
		ID:         "_" + crate,
		Contract:   fmt.Sprintf("artifacts/%s.wasm", crate),
		Label:      label,
		InitMsg:    defaultInitMsg,
		MigrateMsg: "{}",
	}
	cfg.Autodeploy.Steps = append(cfg.Autodeploy.Steps, step)
	if err := configs.Save(s.writer, root, cfg); err != nil {
		return configs.DeployStep{}, err
	}

	s.printer.Println("[2/2] Building the workspace...")
	if s.runner != nil {
		result, err := s.runner.Run(ctx, process.Invocation{Binary: "cargo", Args: []string{"build"}, Dir: root, EchoStderr: true})
		if err != nil {
			return step, err
		}
		if result.ExitCode != 0 {
			return step, fmt.Errorf("cargo build exited with code %d", result.ExitCode)
		}
	}

	return step, nil
}

// addSharedMessages seeds the message module in packages/shared when the workspace has one.
func (s *Service) addSharedMessages(root, crate string) error {
	shared := filepath.Join(root, "packages", "shared", "src")
	libPath := filepath.Join(shared, "lib.rs")
	if _, err := os.Stat(libPath); err != nil {
		s.logger.Debug("workspace has no shared package", "path", libPath)
		return nil
	}

	moduleDir := filepath.Join(shared, crate)
	if err := s.writer.WriteBytes(filepath.Join(moduleDir, "msg.rs"), []byte(sharedMsgFile)); err != nil {
		return fmt.Errorf("failed to write shared messages: %w", err)
	}
	if err := s.writer.WriteBytes(filepath.Join(moduleDir, "mod.rs"), []byte("pub mod msg;\n")); err != nil {
		return fmt.Errorf("failed to write shared module: %w", err)
	}

	lib, err := os.OpenFile(libPath, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open '%s': %w", libPath, err)
	}
	defer lib.Close()
	if _, err := fmt.Fprintf(lib, "pub mod %s;\n", crate); err != nil {
		return fmt.Errorf("failed to register shared module: %w", err)
	}
	return nil
}

// InitFrontend clones the profile's frontend template into <root>/frontend.
func (s *Service) InitFrontend(ctx context.Context, root string, profile chain.Profile) error {
	s.printer.Header("Initializing frontend... this may take a moment")
	return s.cloner.Clone(ctx, filepath.Join(root, "frontend"), git.Repository{Name: "frontend", URL: profile.FrontendRepo})
}

func replaceInFile(path, old, replacement string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read '%s': %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat '%s': %w", path, err)
	}

	updated := strings.ReplaceAll(string(data), old, replacement)
	if err := os.WriteFile(path, []byte(updated), info.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	return nil
}
