package chain

import (
	"context"
	"encoding/json"
)

// Client is the capability the deployment engine needs from a chain.
//
// password is the keyring password. When empty the chain binary inherits stdin and may
// prompt for it itself.
type Client interface {
	KeyInfo(ctx context.Context, accountID, password string) (KeyInfo, error)
	StoreContract(ctx context.Context, artifactPath, from, password string) (TxResult, error)
	InstantiateContract(ctx context.Context, req InstantiateRequest, password string) (TxResult, error)
	ExecuteContract(ctx context.Context, req ExecuteRequest, password string) (TxResult, error)
	MigrateContract(ctx context.Context, req MigrateRequest, password string) (TxResult, error)
	QueryContractSmart(ctx context.Context, contractAddress, query string) (json.RawMessage, error)
	QueryTx(ctx context.Context, txHash string) (TxResult, error)
}

type (
	InstantiateRequest struct {
		CodeID string
		From   string
		Admin  string
		Label  string
		Msg    string
		Coins  string
	}

	ExecuteRequest struct {
		ContractAddress string
		Msg             string
		From            string
		Coins           string
	}

	MigrateRequest struct {
		ContractAddress string
		CodeID          string
		From            string
		Msg             string
	}
)
