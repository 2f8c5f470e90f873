package venues

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	bybit "github.com/bybit-exchange/bybit.go.api"

	"arbscan/config"
	"arbscan/internal/models"
	"arbscan/logger"
)

// BybitVenue is the connector name the direct Bybit source answers to.
const BybitVenue = "bybit_direct"

// bybitSource reads public spot tickers from Bybit's unified trading
// API. The SDK returns loosely typed results, so responses are
// re-decoded into the structs below before use.
type bybitSource struct {
	client *bybit.Client
	log    *logger.Log
}

// NewBybitSource creates the direct Bybit venue.
func NewBybitSource(cfg config.DirectVenueConfig) Source {
	opts := []bybit.ClientOption{}
	if cfg.URL != "" {
		opts = append(opts, bybit.WithBaseURL(cfg.URL))
	}
	return &bybitSource{
		client: bybit.NewBybitHttpClient("", "", opts...),
		log:    logger.GetLogger(),
	}
}

func (s *bybitSource) Name() string { return BybitVenue }

type bybitInstrumentList struct {
	List []struct {
		Symbol    string `json:"symbol"`
		BaseCoin  string `json:"baseCoin"`
		QuoteCoin string `json:"quoteCoin"`
		Status    string `json:"status"`
	} `json:"list"`
}

type bybitTickerList struct {
	List []struct {
		Symbol    string `json:"symbol"`
		Bid1Price string `json:"bid1Price"`
		Ask1Price string `json:"ask1Price"`
		LastPrice string `json:"lastPrice"`
	} `json:"list"`
}

// TradingPairs lists trading spot instruments in BASE-QUOTE form.
func (s *bybitSource) TradingPairs(ctx context.Context) ([]string, error) {
	params := map[string]interface{}{"category": "spot"}
	resp, err := s.client.NewUtaBybitServiceWithParams(params).GetInstrumentInfo(ctx)
	if err != nil {
		return nil, fmt.Errorf("bybit instruments info: %w", err)
	}

	var instruments bybitInstrumentList
	if err := decodeResult(resp.Result, &instruments); err != nil {
		return nil, fmt.Errorf("bybit instruments info: %w", err)
	}

	pairs := make([]string, 0, len(instruments.List))
	for _, inst := range instruments.List {
		if inst.Status != "Trading" {
			continue
		}
		pairs = append(pairs, inst.BaseCoin+"-"+inst.QuoteCoin)
	}
	return pairs, nil
}

// Prices derives a mid price per requested pair from the spot ticker
// table. Falls back to the last trade price when one side of the book
// is empty.
func (s *bybitSource) Prices(ctx context.Context, tradingPairs []string) (map[string]models.PricePoint, error) {
	params := map[string]interface{}{"category": "spot"}
	resp, err := s.client.NewUtaBybitServiceWithParams(params).GetMarketTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("bybit market tickers: %w", err)
	}

	var tickers bybitTickerList
	if err := decodeResult(resp.Result, &tickers); err != nil {
		return nil, fmt.Errorf("bybit market tickers: %w", err)
	}

	wanted := make(map[string]string, len(tradingPairs))
	for _, pair := range tradingPairs {
		wanted[toBybitSymbol(pair)] = pair
	}

	out := make(map[string]models.PricePoint, len(tradingPairs))
	for _, t := range tickers.List {
		pair, ok := wanted[t.Symbol]
		if !ok {
			continue
		}
		bid, _ := strconv.ParseFloat(t.Bid1Price, 64)
		ask, _ := strconv.ParseFloat(t.Ask1Price, 64)
		last, _ := strconv.ParseFloat(t.LastPrice, 64)

		pp := models.PricePoint{}
		switch {
		case bid > 0 && ask > 0:
			b, a := bid, ask
			pp = models.PricePoint{Price: (bid + ask) / 2, Bid: &b, Ask: &a}
		case last > 0:
			pp = models.PricePoint{Price: last}
		default:
			continue
		}
		out[pair] = pp
	}
	return out, nil
}

// decodeResult round-trips the SDK's interface{} result through JSON
// into a typed struct.
func decodeResult(result interface{}, out interface{}) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	return json.Unmarshal(payload, out)
}

// toBybitSymbol strips the separator: BTC-USDT -> BTCUSDT.
func toBybitSymbol(pair string) string {
	pair = strings.ReplaceAll(pair, "-", "")
	return strings.ToUpper(strings.ReplaceAll(pair, "/", ""))
}
