package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/archway-warp/warp-cli/configs"
	"github.com/archway-warp/warp-cli/internal/infra/process"
	"github.com/archway-warp/warp-cli/internal/logger"
)

// ProcessError wraps a failure to run a chain binary at all.
type ProcessError struct {
	Command string
	Err     error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("failed to execute '%s': %v", e.Command, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}

// CLIClient implements Client by shelling out to the profile's chain binary.
type CLIClient struct {
	profile Profile
	network configs.Network
	runner  process.Runner
	workDir string
	timer   Timer
	logger  *slog.Logger
}

type Option func(*CLIClient)

// WithWorkDir sets the directory contract artifacts are resolved against.
func WithWorkDir(dir string) Option {
	return func(c *CLIClient) {
		c.workDir = dir
	}
}

// WithTimer replaces the timer used between transaction query attempts.
func WithTimer(timer Timer) Option {
	return func(c *CLIClient) {
		c.timer = timer
	}
}

func NewCLIClient(profile Profile, network configs.Network, runner process.Runner, opts ...Option) *CLIClient {
	c := &CLIClient{
		profile: profile,
		network: network,
		runner:  runner,
		logger:  logger.Named("chain_client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CLIClient) KeyInfo(ctx context.Context, accountID, password string) (KeyInfo, error) {
	args := append([]string{"keys", "show", accountID}, commonArgs(c.profile, c.network, false)...)
	result, err := c.run(ctx, args, password, "")
	if err != nil {
		return KeyInfo{}, err
	}

	var info KeyInfo
	if err := json.Unmarshal(result.Stdout, &info); err != nil {
		return KeyInfo{}, c.outputError("key info", result, err)
	}
	return info, nil
}

func (c *CLIClient) StoreContract(ctx context.Context, artifactPath, from, password string) (TxResult, error) {
	gasPrices, err := c.gasPrices(ctx)
	if err != nil {
		return TxResult{}, fmt.Errorf("failed to determine gas prices: %w", err)
	}

	args := []string{"tx", c.profile.WasmModule, "store", artifactPath, "--from", from}
	args = append(args, commonArgs(c.profile, c.network, true)...)
	args = append(args, txArgs(c.profile, c.network, true, gasPrices)...)

	return c.broadcast(ctx, args, password, c.workDir)
}

func (c *CLIClient) InstantiateContract(ctx context.Context, req InstantiateRequest, password string) (TxResult, error) {
	gasPrices, err := c.gasPrices(ctx)
	if err != nil {
		return TxResult{}, fmt.Errorf("failed to determine gas prices: %w", err)
	}

	args := []string{"tx", c.profile.WasmModule, "instantiate", req.CodeID, req.Msg, "--from", req.From, "--label", req.Label}
	if req.Coins != "" {
		args = append(args, "--amount", req.Coins)
	}
	args = append(args, "--admin", req.Admin)
	args = append(args, commonArgs(c.profile, c.network, true)...)
	args = append(args, txArgs(c.profile, c.network, false, gasPrices)...)

	tx, err := c.broadcast(ctx, args, password, "")
	if err == nil || c.profile.Kind != KindSecret {
		return tx, err
	}

	// Secret encrypts instantiate errors, so the raw log is replaced by the decrypted compute view.
	var failed *TxFailedError
	if errors.As(err, &failed) && failed.TxHash != "" {
		failed.RawLog = c.computeTxLog(ctx, failed.TxHash, failed.RawLog)
	}
	return tx, err
}

func (c *CLIClient) ExecuteContract(ctx context.Context, req ExecuteRequest, password string) (TxResult, error) {
	gasPrices, err := c.gasPrices(ctx)
	if err != nil {
		return TxResult{}, fmt.Errorf("failed to determine gas prices: %w", err)
	}

	args := []string{"tx", c.profile.WasmModule, "execute", req.ContractAddress, req.Msg, "--from", req.From}
	if req.Coins != "" {
		args = append(args, "--amount", req.Coins)
	}
	args = append(args, commonArgs(c.profile, c.network, true)...)
	args = append(args, txArgs(c.profile, c.network, false, gasPrices)...)

	return c.broadcast(ctx, args, password, "")
}

func (c *CLIClient) MigrateContract(ctx context.Context, req MigrateRequest, password string) (TxResult, error) {
	gasPrices, err := c.gasPrices(ctx)
	if err != nil {
		return TxResult{}, fmt.Errorf("failed to determine gas prices: %w", err)
	}

	args := []string{"tx", c.profile.WasmModule, "migrate", req.ContractAddress, req.CodeID, req.Msg, "--from", req.From}
	args = append(args, commonArgs(c.profile, c.network, true)...)
	args = append(args, txArgs(c.profile, c.network, false, gasPrices)...)

	return c.broadcast(ctx, args, password, "")
}

func (c *CLIClient) QueryContractSmart(ctx context.Context, contractAddress, query string) (json.RawMessage, error) {
	args := append(smartQueryArgs(c.profile, contractAddress, query), commonArgs(c.profile, c.network, true)...)
	result, err := c.query(ctx, args)
	if err != nil {
		return nil, err
	}

	if stderr := strings.TrimSpace(string(result.Stderr)); stderr != "" {
		return nil, &CLIError{Binary: c.profile.Binary, Stderr: stderr}
	}
	if !json.Valid(result.Stdout) {
		return nil, fmt.Errorf("%s returned a non-JSON query response", c.profile.Binary)
	}

	return json.RawMessage(bytes.TrimSpace(result.Stdout)), nil
}

// QueryTx polls `q tx` while the node reports an error on stderr, up to the profile's retry
// policy. The stdout of the final attempt is decoded whatever its stderr said.
func (c *CLIClient) QueryTx(ctx context.Context, txHash string) (TxResult, error) {
	args := append([]string{"q", "tx", txHash}, commonArgs(c.profile, c.network, true)...)

	var last process.Result
	onRetry := func(attempt uint, err error) {
		c.logger.Debug("Transaction not indexed yet, retrying", "tx", txHash, "attempt", attempt+1)
	}

	err := retryDo(ctx, c.profile.Retry, c.timer, onRetry, func() error {
		result, err := c.query(ctx, args)
		if err != nil {
			return err
		}
		last = result
		if len(bytes.TrimSpace(result.Stderr)) > 0 {
			return errTxPending
		}
		return nil
	})
	if err != nil && !errors.Is(err, errTxPending) {
		return TxResult{}, err
	}

	c.logger.Debug("Transaction queried", "tx", txHash, "bytes", len(last.Stdout))

	var tx TxResult
	if err := json.Unmarshal(last.Stdout, &tx); err != nil {
		return TxResult{}, c.outputError("transaction "+txHash, last, err)
	}
	return tx, txFailure(tx)
}

func (c *CLIClient) broadcast(ctx context.Context, args []string, password, dir string) (TxResult, error) {
	result, err := c.run(ctx, args, password, dir)
	if err != nil {
		return TxResult{}, err
	}

	var tx TxResult
	if err := json.Unmarshal(result.Stdout, &tx); err != nil {
		return TxResult{}, c.outputError("broadcast", result, err)
	}
	if err := txFailure(tx); err != nil {
		return tx, err
	}

	return c.QueryTx(ctx, tx.TxHash)
}

func (c *CLIClient) computeTxLog(ctx context.Context, txHash, fallback string) string {
	args := append([]string{"q", c.profile.WasmModule, "tx", txHash}, commonArgs(c.profile, c.network, true)...)
	result, err := c.query(ctx, args)
	if err != nil || len(bytes.TrimSpace(result.Stdout)) == 0 {
		return fallback
	}
	return string(bytes.TrimSpace(result.Stdout))
}

// run executes a command that may prompt for the keyring password. Without a password the
// binary talks to the terminal directly.
func (c *CLIClient) run(ctx context.Context, args []string, password, dir string) (process.Result, error) {
	inv := process.Invocation{
		Binary:     c.profile.Binary,
		Args:       args,
		Dir:        dir,
		EchoStderr: password == "",
	}
	if password != "" {
		inv.Input = password + "\n"
	}
	return c.exec(ctx, inv)
}

func (c *CLIClient) query(ctx context.Context, args []string) (process.Result, error) {
	return c.exec(ctx, process.Invocation{Binary: c.profile.Binary, Args: args})
}

func (c *CLIClient) exec(ctx context.Context, inv process.Invocation) (process.Result, error) {
	c.logger.Debug("Running chain binary", "cmd", inv.String())

	result, err := c.runner.Run(ctx, inv)
	if err != nil {
		return result, &ProcessError{Command: inv.String(), Err: err}
	}
	return result, nil
}

// outputError reports undecodable output, preferring the binary's own stderr when it has one.
func (c *CLIClient) outputError(what string, result process.Result, err error) error {
	if stderr := strings.TrimSpace(string(result.Stderr)); stderr != "" {
		return fmt.Errorf("failed to decode %s: %w", what, &CLIError{Binary: c.profile.Binary, Stderr: stderr})
	}
	return fmt.Errorf("failed to decode %s: %w", what, err)
}
