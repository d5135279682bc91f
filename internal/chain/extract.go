package chain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedTx is returned when a transaction result lacks the log layout the extractors rely on.
var ErrMalformedTx = errors.New("transaction result does not have the expected log layout")

const addressAttributeKey = "address"

// ExtractCodeID returns the code id of a store transaction: the value of the last attribute
// of the last event of the last log.
func ExtractCodeID(tx TxResult) (string, error) {
	if len(tx.Logs) == 0 {
		return "", fmt.Errorf("%w: tx %s has no logs", ErrMalformedTx, tx.TxHash)
	}
	log := tx.Logs[len(tx.Logs)-1]

	if len(log.Events) == 0 {
		return "", fmt.Errorf("%w: last log of tx %s has no events", ErrMalformedTx, tx.TxHash)
	}
	event := log.Events[len(log.Events)-1]

	if len(event.Attributes) == 0 {
		return "", fmt.Errorf("%w: event '%s' of tx %s has no attributes", ErrMalformedTx, event.Type, tx.TxHash)
	}

	return event.Attributes[len(event.Attributes)-1].Value, nil
}

// ExtractContractAddress returns the address of an instantiated contract: the value of the
// first attribute whose key contains "address" in the first event of the first log.
func ExtractContractAddress(tx TxResult) (string, error) {
	if len(tx.Logs) == 0 {
		return "", fmt.Errorf("%w: tx %s has no logs", ErrMalformedTx, tx.TxHash)
	}
	log := tx.Logs[0]

	if len(log.Events) == 0 {
		return "", fmt.Errorf("%w: first log of tx %s has no events", ErrMalformedTx, tx.TxHash)
	}
	event := log.Events[0]

	for _, attr := range event.Attributes {
		if strings.Contains(attr.Key, addressAttributeKey) {
			return attr.Value, nil
		}
	}

	return "", fmt.Errorf("%w: event '%s' of tx %s has no address attribute", ErrMalformedTx, event.Type, tx.TxHash)
}
