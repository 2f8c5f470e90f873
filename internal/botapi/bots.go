package botapi

import (
	"context"
	"encoding/json"
	"net/http"
)

// ServerInfo is the API root document.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Ping fetches the API root, proving the server is reachable and
// credentials are accepted.
func (c *Client) Ping(ctx context.Context) (ServerInfo, error) {
	var out ServerInfo
	if err := c.doJSON(ctx, http.MethodGet, "/", nil, &out); err != nil {
		return ServerInfo{}, err
	}
	return out, nil
}

// BotInfo describes one running bot instance.
type BotInfo struct {
	Controllers    map[string]json.RawMessage `json:"controllers"`
	GlobalPnlQuote float64                    `json:"global_pnl_quote"`
}

// BotStatus returns running bots keyed by bot id.
func (c *Client) BotStatus(ctx context.Context) (map[string]BotInfo, error) {
	var out struct {
		Bots map[string]BotInfo `json:"bots"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/bot-orchestration/status", nil, &out); err != nil {
		return nil, err
	}
	return out.Bots, nil
}

// Executor is a liquidity-provisioning or trading executor record.
type Executor struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// ActiveExecutors searches executors and keeps those not yet closed or
// failed.
func (c *Client) ActiveExecutors(ctx context.Context) ([]Executor, error) {
	var out struct {
		Data []Executor `json:"data"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/executors/search", map[string]interface{}{}, &out); err != nil {
		return nil, err
	}
	active := out.Data[:0]
	for _, e := range out.Data {
		if e.Status != "CLOSED" && e.Status != "FAILED" {
			active = append(active, e)
		}
	}
	return active, nil
}
