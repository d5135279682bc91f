package chain

import (
	"context"
	"encoding/json"
	"fmt"
)

type (
	coin struct {
		Denom  string `json:"denom"`
		Amount string `json:"amount"`
	}

	// estimateFeesResponse is the output of `archwayd q rewards estimate-fees`.
	estimateFeesResponse struct {
		GasUnitPrice coin   `json:"gas_unit_price"`
		EstimatedFee []coin `json:"estimated_fee"`
	}
)

func (r estimateFeesResponse) gasPrice() string {
	return r.GasUnitPrice.Amount + r.GasUnitPrice.Denom
}

// gasPrices returns the configured gas price or, for Archway, the minimum price reported by the
// rewards module.
func (c *CLIClient) gasPrices(ctx context.Context) (string, error) {
	if price := c.profile.gasPrices(c.network); price != "" || c.profile.Kind != KindArchway {
		return price, nil
	}

	args := append([]string{"q", "rewards", "estimate-fees", "1"}, commonArgs(c.profile, c.network, true)...)
	result, err := c.query(ctx, args)
	if err != nil {
		return "", err
	}

	var fees estimateFeesResponse
	if err := json.Unmarshal(result.Stdout, &fees); err != nil {
		return "", c.outputError("fee estimate", result, err)
	}
	if fees.GasUnitPrice.Amount == "" || fees.GasUnitPrice.Denom == "" {
		return "", fmt.Errorf("fee estimate returned no gas unit price")
	}

	return fees.gasPrice(), nil
}
