package botapi

import (
	"context"
	"net/http"
)

// TokenBalance is one token position inside an account/exchange bucket.
type TokenBalance struct {
	Token   string  `json:"token"`
	Units   float64 `json:"units"`
	Balance float64 `json:"balance"`
	Price   float64 `json:"price"`
	Value   float64 `json:"value"`
}

// PortfolioState returns balances keyed by account then exchange.
func (c *Client) PortfolioState(ctx context.Context) (map[string]map[string][]TokenBalance, error) {
	out := make(map[string]map[string][]TokenBalance)
	if err := c.doJSON(ctx, http.MethodGet, "/portfolio/state", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PortfolioHistory returns recorded portfolio states, newest last.
func (c *Client) PortfolioHistory(ctx context.Context) ([]PortfolioSnapshot, error) {
	var out struct {
		Data []PortfolioSnapshot `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/portfolio/history", map[string]interface{}{}, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// PortfolioSnapshot is one historical portfolio record.
type PortfolioSnapshot struct {
	Timestamp float64                              `json:"timestamp"`
	State     map[string]map[string][]TokenBalance `json:"state"`
}

// PortfolioValue returns the total portfolio value in quote currency.
func (c *Client) PortfolioValue(ctx context.Context) (float64, error) {
	var out float64
	if err := c.doJSON(ctx, http.MethodGet, "/portfolio/total-value", nil, &out); err != nil {
		return 0, err
	}
	return out, nil
}

// PortfolioDistribution returns each token's share of the portfolio in
// percent.
func (c *Client) PortfolioDistribution(ctx context.Context) (map[string]float64, error) {
	out := make(map[string]float64)
	if err := c.doJSON(ctx, http.MethodGet, "/portfolio/distribution", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
