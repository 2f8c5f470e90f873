package venues

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	binance "github.com/adshao/go-binance/v2"

	"arbscan/config"
	"arbscan/internal/models"
	"arbscan/logger"
)

// BinanceVenue is the connector name the direct Binance source answers to.
const BinanceVenue = "binance_direct"

// binanceSource reads public spot market data straight from Binance,
// bypassing the bot API. No credentials are needed for these endpoints.
type binanceSource struct {
	client *binance.Client
	log    *logger.Log
}

// NewBinanceSource creates the direct Binance venue.
func NewBinanceSource(cfg config.DirectVenueConfig) Source {
	client := binance.NewClient("", "")
	if cfg.URL != "" {
		client.BaseURL = cfg.URL
	}
	return &binanceSource{client: client, log: logger.GetLogger()}
}

func (s *binanceSource) Name() string { return BinanceVenue }

// TradingPairs lists spot symbols currently trading, reported in the
// BASE-QUOTE form the pair matcher expects.
func (s *binanceSource) TradingPairs(ctx context.Context) ([]string, error) {
	info, err := s.client.NewExchangeInfoService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance exchange info: %w", err)
	}

	pairs := make([]string, 0, len(info.Symbols))
	for _, sym := range info.Symbols {
		if sym.Status != "TRADING" {
			continue
		}
		pairs = append(pairs, sym.BaseAsset+"-"+sym.QuoteAsset)
	}
	return pairs, nil
}

// Prices derives a mid price from the spot book tickers. One call
// fetches the whole book-ticker table; only requested pairs survive.
func (s *binanceSource) Prices(ctx context.Context, tradingPairs []string) (map[string]models.PricePoint, error) {
	tickers, err := s.client.NewListBookTickersService().Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("binance book tickers: %w", err)
	}

	wanted := make(map[string]string, len(tradingPairs))
	for _, pair := range tradingPairs {
		wanted[toBinanceSymbol(pair)] = pair
	}

	out := make(map[string]models.PricePoint, len(tradingPairs))
	for _, t := range tickers {
		pair, ok := wanted[t.Symbol]
		if !ok {
			continue
		}
		bid, errB := strconv.ParseFloat(t.BidPrice, 64)
		ask, errA := strconv.ParseFloat(t.AskPrice, 64)
		if errB != nil || errA != nil || bid <= 0 || ask <= 0 {
			continue
		}
		b, a := bid, ask
		out[pair] = models.PricePoint{Price: (bid + ask) / 2, Bid: &b, Ask: &a}
	}
	return out, nil
}

// toBinanceSymbol strips the separator: BTC-USDT -> BTCUSDT.
func toBinanceSymbol(pair string) string {
	pair = strings.ReplaceAll(pair, "-", "")
	return strings.ToUpper(strings.ReplaceAll(pair, "/", ""))
}
