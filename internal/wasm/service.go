package wasm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/archway-warp/warp-cli/internal/chain"
	"github.com/archway-warp/warp-cli/internal/deploy/ledger"
	"github.com/archway-warp/warp-cli/internal/logger"
)

var ErrContractNotDeployed = errors.New("contract is not deployed on this network")

type (
	OutputFormat string

	LedgerLoader interface {
		Load() (*ledger.Ledger, error)
	}

	// ExecuteOptions carries the sender and attached funds of an execute call.
	ExecuteOptions struct {
		From     string
		Funds    string
		Password string
	}
)

const (
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// ParseOutputFormat accepts json or yaml.
func ParseOutputFormat(value string) (OutputFormat, error) {
	switch format := OutputFormat(strings.ToLower(strings.TrimSpace(value))); format {
	case OutputJSON, OutputYAML:
		return format, nil
	default:
		return "", fmt.Errorf("output must be either '%s' or '%s', got '%s'", OutputJSON, OutputYAML, value)
	}
}

// Service talks to contracts recorded in the deployment ledger.
type Service struct {
	client  chain.Client
	store   LedgerLoader
	chainID string
	logger  *slog.Logger
}

func NewService(client chain.Client, store LedgerLoader, chainID string) *Service {
	return &Service{
		client:  client,
		store:   store,
		chainID: chainID,
		logger:  logger.Named("wasm"),
	}
}

// Address resolves the contract address deployed for stepID on the configured chain.
func (s *Service) Address(stepID string) (string, error) {
	l, err := s.store.Load()
	if err != nil {
		return "", err
	}

	address, ok := l.Lookup(s.chainID, stepID)
	if !ok || address == "" {
		return "", fmt.Errorf("%w: step '%s' on chain '%s'", ErrContractNotDeployed, stepID, s.chainID)
	}
	return address, nil
}

func (s *Service) Execute(ctx context.Context, stepID, msg string, opts ExecuteOptions) (chain.TxResult, error) {
	if err := validateJSON(msg); err != nil {
		return chain.TxResult{}, err
	}
	address, err := s.Address(stepID)
	if err != nil {
		return chain.TxResult{}, err
	}

	s.logger.Debug("Executing contract", "step", stepID, "address", address, "from", opts.From)
	return s.client.ExecuteContract(ctx, chain.ExecuteRequest{
		ContractAddress: address,
		Msg:             msg,
		From:            opts.From,
		Coins:           opts.Funds,
	}, opts.Password)
}

func (s *Service) Query(ctx context.Context, stepID, query string) (json.RawMessage, error) {
	if err := validateJSON(query); err != nil {
		return nil, err
	}
	address, err := s.Address(stepID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("Querying contract", "step", stepID, "address", address)
	return s.client.QueryContractSmart(ctx, address, query)
}

// Render formats a query response for the terminal.
func Render(raw json.RawMessage, format OutputFormat) ([]byte, error) {
	switch format {
	case OutputYAML:
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("failed to decode query response: %w", err)
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query response: %w", err)
		}
		return out, nil
	default:
		var buf bytes.Buffer
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return nil, fmt.Errorf("failed to format query response: %w", err)
		}
		buf.WriteByte('\n')
		return buf.Bytes(), nil
	}
}

func validateJSON(msg string) error {
	if !json.Valid([]byte(msg)) {
		return fmt.Errorf("message is not valid JSON: %s", msg)
	}
	return nil
}
