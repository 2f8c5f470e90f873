package botapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Connectors returns the venue identifiers the API currently exposes.
func (c *Client) Connectors(ctx context.Context) ([]string, error) {
	var out struct {
		Connectors []string `json:"connectors"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/connectors/available", nil, &out); err != nil {
		return nil, err
	}
	return out.Connectors, nil
}

// TradingPairs returns the tradable pair strings for one connector.
func (c *Client) TradingPairs(ctx context.Context, connector string) ([]string, error) {
	payload := map[string]string{"connector": connector}
	var out struct {
		TradingPairs []string `json:"trading_pairs"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/connectors/trading-pairs", payload, &out); err != nil {
		return nil, err
	}
	return out.TradingPairs, nil
}

// Prices fetches current prices for the given pairs on one connector.
// Values stay raw at this boundary: a venue may answer with a bare
// number or a price object, and normalization happens downstream. A
// document carrying an "error" key counts as a venue failure.
func (c *Client) Prices(ctx context.Context, connector string, tradingPairs []string) (map[string]json.RawMessage, error) {
	payload := map[string]interface{}{
		"connector":     connector,
		"trading_pairs": tradingPairs,
	}
	out := make(map[string]json.RawMessage)
	if err := c.doJSON(ctx, http.MethodPost, "/market-data/prices", payload, &out); err != nil {
		return nil, err
	}
	if raw, ok := out["error"]; ok {
		var msg string
		_ = json.Unmarshal(raw, &msg)
		return nil, fmt.Errorf("venue error: %s", msg)
	}
	return out, nil
}
