// Package botapi is a thin authenticated client for the trading-bot
// control API. Every operation is a stateless JSON request/response;
// callers decide what a failure means.
package botapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"arbscan/config"
	"arbscan/logger"
)

const userAgent = "arbscan/1.0"

// Client issues Basic-auth JSON requests against the bot API.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Log
}

// NewClient builds a client from the resolved API configuration.
func NewClient(cfg config.APIConfig) *Client {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5
	}
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		baseURL:    cfg.URL,
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		log:        logger.GetLogger(),
	}
}

// doJSON performs one authenticated request. The per-call deadline is
// carried by ctx; the http.Client timeout only backstops it.
func (c *Client) doJSON(ctx context.Context, method, path string, payload, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	logger.LogPerformanceEntry(c.log.WithComponent("botapi"), "botapi", "api_request", time.Since(start), logger.Fields{
		"method": method,
		"path":   path,
	})

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(msg))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response body: %w", err)
	}
	return nil
}
