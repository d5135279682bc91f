package chain

import "fmt"

type (
	// TxResult is the JSON document chain binaries print for a broadcast or queried transaction.
	TxResult struct {
		Height    string  `json:"height"`
		TxHash    string  `json:"txhash"`
		Codespace string  `json:"codespace"`
		Code      int64   `json:"code"`
		Data      string  `json:"data"`
		RawLog    string  `json:"raw_log"`
		Logs      []Log   `json:"logs"`
		Info      string  `json:"info"`
		GasWanted string  `json:"gas_wanted"`
		GasUsed   string  `json:"gas_used"`
		Timestamp string  `json:"timestamp"`
		Events    []Event `json:"events"`
	}

	Log struct {
		MsgIndex int64   `json:"msg_index"`
		Log      string  `json:"log"`
		Events   []Event `json:"events"`
	}

	Event struct {
		Type       string      `json:"type"`
		Attributes []Attribute `json:"attributes"`
	}

	Attribute struct {
		Key   string `json:"key"`
		Value string `json:"value"`
		Index bool   `json:"index,omitempty"`
	}

	// KeyInfo is the output of `keys show`.
	KeyInfo struct {
		Name    string `json:"name"`
		Type    string `json:"type"`
		Address string `json:"address"`
		PubKey  string `json:"pubkey"`
	}
)

// Succeeded reports whether the chain accepted the transaction.
func (t TxResult) Succeeded() bool {
	return t.Code == 0
}

// TxFailedError is returned when the chain reports a non-zero result code.
type TxFailedError struct {
	TxHash string
	Code   int64
	RawLog string
}

func (e *TxFailedError) Error() string {
	return fmt.Sprintf("transaction %s failed with code %d: %s", e.TxHash, e.Code, e.RawLog)
}

func txFailure(tx TxResult) error {
	if tx.Succeeded() {
		return nil
	}
	return &TxFailedError{TxHash: tx.TxHash, Code: tx.Code, RawLog: tx.RawLog}
}

// CLIError carries the stderr of a chain binary that produced no usable output.
type CLIError struct {
	Binary string
	Stderr string
}

func (e *CLIError) Error() string {
	return fmt.Sprintf("%s reported an error: %s", e.Binary, e.Stderr)
}
