package scaffold

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/chain"
	"github.com/archway-warp/warp-cli/internal/infra/filesystem/toml"
	"github.com/archway-warp/warp-cli/internal/infra/git"
	"github.com/archway-warp/warp-cli/internal/infra/process"
	"github.com/archway-warp/warp-cli/internal/ux"
)

// templateCloner materialises files instead of hitting the network.
type templateCloner struct {
	files  map[string]string
	clones []git.Repository
}

func (c *templateCloner) Clone(_ context.Context, dest string, repo git.Repository) error {
	c.clones = append(c.clones, repo)
	for rel, content := range c.files {
		path := filepath.Join(dest, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}

type cargoRunner struct {
	calls []process.Invocation
}

func (r *cargoRunner) Run(_ context.Context, inv process.Invocation) (process.Result, error) {
	r.calls = append(r.calls, inv)
	return process.Result{}, nil
}

func lookup(t *testing.T, name configs.ProfileName) chain.Profile {
	t.Helper()
	profile, err := chain.LookupProfile(name)
	require.NoError(t, err)
	return profile
}

func TestInitWorkspaceWritesDefaultManifest(t *testing.T) {
	cloner := &templateCloner{files: map[string]string{"Cargo.toml": "[workspace]\n"}}
	svc := NewService(cloner, toml.NewWriter(), nil, ux.NewPrinter(io.Discard))
	dir := filepath.Join(t.TempDir(), "dapp")

	require.NoError(t, svc.InitWorkspace(context.Background(), dir, lookup(t, configs.ProfileSecret)))

	assert.Equal(t, "https://github.com/secret-warp/warp-template.git", cloner.clones[0].URL)
	cfg, err := configs.Load(viper.New(), dir)
	require.NoError(t, err)
	assert.Equal(t, configs.ProfileSecret, cfg.Network.Profile)
	assert.Equal(t, "pulsar-3", cfg.Network.ChainID)
}

func TestInitWorkspaceKeepsTemplateManifest(t *testing.T) {
	cloner := &templateCloner{files: map[string]string{configs.ProjectFileName: "[network]\nprofile = \"xion\"\n"}}
	svc := NewService(cloner, toml.NewWriter(), nil, ux.NewPrinter(io.Discard))
	dir := filepath.Join(t.TempDir(), "dapp")

	require.NoError(t, svc.InitWorkspace(context.Background(), dir, lookup(t, configs.ProfileXion)))

	raw, err := os.ReadFile(filepath.Join(dir, configs.ProjectFileName))
	require.NoError(t, err)
	assert.Equal(t, "[network]\nprofile = \"xion\"\n", string(raw))
}

func TestInitWorkspaceRefusesExistingProject(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configs.ProjectFileName), nil, 0644))

	svc := NewService(&templateCloner{}, toml.NewWriter(), nil, ux.NewPrinter(io.Discard))
	err := svc.InitWorkspace(context.Background(), dir, lookup(t, configs.ProfileArchway))
	require.ErrorIs(t, err, configs.ErrProjectAlreadyExists)
}

func TestNewContract(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "packages", "shared", "src"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "packages", "shared", "src", "lib.rs"), []byte("pub mod common;\n"), 0644))

	cloner := &templateCloner{files: map[string]string{
		"README.md":       "template",
		".git/HEAD":       "ref: refs/heads/main",
		"Cargo.toml":      "[package]\nname = \"<CONTRACT_NAME>\"\n",
		"src/contract.rs": "const CONTRACT_NAME: &str = \"<CONTRACT_NAME>\";\n",
	}}
	runner := &cargoRunner{}
	svc := NewService(cloner, toml.NewWriter(), runner, ux.NewPrinter(io.Discard))

	cfg := configs.MustDefaultConfig()
	cfg.Autodeploy.AccountID = "deployer"
	step, err := svc.NewContract(context.Background(), root, cfg, lookup(t, configs.ProfileArchway), "My-Token", "")
	require.NoError(t, err)

	assert.Equal(t, configs.DeployStep{
		ID:         "_my_token",
		Contract:   "artifacts/my_token.wasm",
		Label:      "My-Token",
		InitMsg:    `{ "owner": "$account_id", "message": "" }`,
		MigrateMsg: "{}",
	}, step)

	contractDir := filepath.Join(root, "contracts", "my_token")
	assert.NoDirExists(t, filepath.Join(contractDir, ".git"))
	assert.NoFileExists(t, filepath.Join(contractDir, "README.md"))
	cargo, err := os.ReadFile(filepath.Join(contractDir, "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(cargo), `name = "my_token"`)

	lib, err := os.ReadFile(filepath.Join(root, "packages", "shared", "src", "lib.rs"))
	require.NoError(t, err)
	assert.Equal(t, "pub mod common;\npub mod my_token;\n", string(lib))
	assert.FileExists(t, filepath.Join(root, "packages", "shared", "src", "my_token", "msg.rs"))

	saved, err := configs.Load(viper.New(), root)
	require.NoError(t, err)
	require.Len(t, saved.Autodeploy.Steps, 1)
	assert.Equal(t, step, saved.Autodeploy.Steps[0])

	require.Len(t, runner.calls, 1)
	assert.Equal(t, []string{"build"}, runner.calls[0].Args)
}

func TestNewContractRejectsDuplicate(t *testing.T) {
	cfg := configs.MustDefaultConfig()
	cfg.Autodeploy.Steps = []configs.DeployStep{{ID: "_counter"}}

	svc := NewService(&templateCloner{}, toml.NewWriter(), nil, ux.NewPrinter(io.Discard))
	_, err := svc.NewContract(context.Background(), t.TempDir(), cfg, lookup(t, configs.ProfileArchway), "counter", "")
	require.ErrorContains(t, err, "already part of the workspace")
}

func TestInitFrontend(t *testing.T) {
	cloner := &templateCloner{}
	root := t.TempDir()
	svc := NewService(cloner, toml.NewWriter(), nil, ux.NewPrinter(io.Discard))

	require.NoError(t, svc.InitFrontend(context.Background(), root, lookup(t, configs.ProfileXion)))
	assert.Equal(t, "https://github.com/xion-warp/frontend-template.git", cloner.clones[0].URL)
}
