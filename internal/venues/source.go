// Package venues abstracts where price data comes from. The scan
// pipeline only sees the Source interface; behind it sit the bot API's
// connectors and optional direct exchange connections.
package venues

import (
	"context"
	"encoding/json"

	"arbscan/config"
	"arbscan/internal/botapi"
	"arbscan/internal/models"
)

// Source is one venue the scanner can ask for tradable pairs and
// current prices. Implementations must be safe for use from a single
// worker at a time; the scanner never shares one call across workers.
type Source interface {
	Name() string
	TradingPairs(ctx context.Context) ([]string, error)
	Prices(ctx context.Context, tradingPairs []string) (map[string]models.PricePoint, error)
}

// apiSource adapts one bot-API connector to the Source interface.
type apiSource struct {
	name   string
	client *botapi.Client
}

// NewAPISource wraps a bot-API connector as a Source.
func NewAPISource(client *botapi.Client, connector string) Source {
	return &apiSource{name: connector, client: client}
}

func (s *apiSource) Name() string { return s.name }

func (s *apiSource) TradingPairs(ctx context.Context) ([]string, error) {
	return s.client.TradingPairs(ctx, s.name)
}

// Prices fetches and normalizes the connector's price document. Shape
// tolerance lives here: entries that fail normalization are dropped at
// this boundary rather than leaking raw JSON into the pipeline.
func (s *apiSource) Prices(ctx context.Context, tradingPairs []string) (map[string]models.PricePoint, error) {
	raw, err := s.client.Prices(ctx, s.name, tradingPairs)
	if err != nil {
		return nil, err
	}
	return normalize(raw), nil
}

func normalize(raw map[string]json.RawMessage) map[string]models.PricePoint {
	out := make(map[string]models.PricePoint, len(raw))
	for pair, value := range raw {
		if pp, ok := models.DecodePrice(value); ok {
			out[pair] = pp
		}
	}
	return out
}

// Assemble builds the full source set for one run: one Source per
// connector name, plus any enabled direct exchange venues. Direct
// venues are skipped when an explicit connector list was given that
// does not mention them.
func Assemble(client *botapi.Client, connectors []string, direct config.DirectConfig, explicit bool) []Source {
	sources := make([]Source, 0, len(connectors)+2)

	requested := make(map[string]bool, len(connectors))
	for _, c := range connectors {
		requested[c] = true
	}

	for _, c := range connectors {
		switch c {
		case BinanceVenue, BybitVenue:
			// handled below so a direct venue is never double-registered
		default:
			sources = append(sources, NewAPISource(client, c))
		}
	}

	// Naming a direct venue in --connectors enables it for this run even
	// when the config leaves it off.
	if (explicit && requested[BinanceVenue]) || (!explicit && direct.Binance.Enabled) {
		sources = append(sources, NewBinanceSource(direct.Binance))
	}
	if (explicit && requested[BybitVenue]) || (!explicit && direct.Bybit.Enabled) {
		sources = append(sources, NewBybitSource(direct.Bybit))
	}

	return sources
}
