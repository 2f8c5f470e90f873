// Package scan runs the arbitrage discovery pipeline: resolve matched
// pairs per venue, collect quotes concurrently, reject outliers, then
// enumerate and rank buy/sell spreads.
package scan

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"arbscan/config"
	"arbscan/internal/models"
	"arbscan/internal/pairs"
	"arbscan/internal/venues"
	"arbscan/logger"
)

// Fatal errors: the query is unanswerable with current inputs. All
// other failures are per-venue and absorbed by exclusion.
var (
	ErrNoVenues = errors.New("no connectors available")
	ErrNoPairs  = errors.New("no trading pairs matched the requested tokens")
	ErrNoPrices = errors.New("no prices retrieved from any connector")
)

// Scanner executes one scan run. It holds no state across runs.
type Scanner struct {
	cfg     *config.Config
	sources []venues.Source
	base    pairs.AliasSet
	quote   pairs.AliasSet
	log     *logger.Log
}

// New builds a Scanner over the given venue sources and alias sets.
func New(cfg *config.Config, sources []venues.Source, base, quote pairs.AliasSet) *Scanner {
	return &Scanner{
		cfg:     cfg,
		sources: sources,
		base:    base,
		quote:   quote,
		log:     logger.GetLogger(),
	}
}

// Run executes the four pipeline stages in order. Stages never overlap:
// all pair resolution completes before the first price fetch starts.
func (s *Scanner) Run(ctx context.Context) (*models.Report, error) {
	log := s.log.WithComponent("scanner")

	if len(s.sources) == 0 {
		return nil, ErrNoVenues
	}

	log.WithFields(logger.Fields{
		"connectors":   len(s.sources),
		"base_tokens":  s.base.Tokens(),
		"quote_tokens": s.quote.Tokens(),
	}).Info("scanning connectors")

	resolved := s.resolvePairs(ctx)
	if len(resolved) == 0 {
		return nil, ErrNoPairs
	}
	log.WithFields(logger.Fields{"connectors_with_pairs": len(resolved)}).Info("pair resolution complete")

	quotes := s.collectQuotes(ctx, resolved)
	if len(quotes) == 0 {
		return nil, ErrNoPrices
	}

	sort.SliceStable(quotes, func(i, j int) bool { return quotes[i].Price < quotes[j].Price })

	kept, outliers := filterOutliers(quotes, s.cfg.Scan.OutlierDeviation)
	opportunities := enumerateOpportunities(kept, s.cfg.Scan.MinSpread)

	report := &models.Report{
		RunID:         uuid.New().String(),
		GeneratedAt:   time.Now().UTC(),
		BaseTokens:    s.base.Tokens(),
		QuoteTokens:   s.quote.Tokens(),
		MinSpread:     s.cfg.Scan.MinSpread,
		Prices:        kept,
		Outliers:      outliers,
		Opportunities: opportunities,
	}

	log.LogMetric("scanner", "quotes_collected", len(quotes), "counter", logger.Fields{"run_id": report.RunID})
	log.LogMetric("scanner", "outliers_excluded", len(outliers), "counter", logger.Fields{"run_id": report.RunID})
	log.LogMetric("scanner", "opportunities_found", len(opportunities), "counter", logger.Fields{"run_id": report.RunID})

	return report, nil
}

// workers caps the pool size at the number of jobs.
func (s *Scanner) workers(jobs int) int {
	n := s.cfg.Scan.MaxWorkers
	if jobs < n {
		n = jobs
	}
	if n < 1 {
		n = 1
	}
	return n
}
