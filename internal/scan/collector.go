package scan

import (
	"context"
	"sync"

	"arbscan/internal/models"
	"arbscan/logger"
)

// collectQuotes fans out one price fetch per resolved venue. A venue
// that errors contributes zero quotes and the run continues; the
// discard is deliberate, not an oversight (freshness over
// completeness, no retries). Quotes for pairs the venue was never
// asked about are dropped, as are non-positive prices.
func (s *Scanner) collectQuotes(ctx context.Context, resolved []resolution) []models.Quote {
	log := s.log.WithComponent("collector")

	jobs := make(chan resolution)
	var (
		mu     sync.Mutex
		quotes []models.Quote
		wg     sync.WaitGroup
	)

	for i := 0; i < s.workers(len(resolved)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for res := range jobs {
				callCtx, cancel := context.WithTimeout(ctx, s.cfg.API.PricesTimeout())
				points, err := res.source.Prices(callCtx, res.matched)
				cancel()
				if err != nil {
					log.WithFields(logger.Fields{"connector": res.source.Name()}).WithError(err).Warn("error fetching prices")
					continue
				}

				requested := make(map[string]bool, len(res.matched))
				for _, p := range res.matched {
					requested[p] = true
				}

				var venueQuotes []models.Quote
				for pair, pp := range points {
					// Guards against venues echoing pairs that were never requested.
					if !requested[pair] {
						continue
					}
					if pp.Price <= 0 {
						continue
					}
					venueQuotes = append(venueQuotes, models.Quote{
						Venue: res.source.Name(),
						Pair:  pair,
						Price: pp.Price,
						Bid:   pp.Bid,
						Ask:   pp.Ask,
					})
				}
				if len(venueQuotes) == 0 {
					continue
				}

				mu.Lock()
				quotes = append(quotes, venueQuotes...)
				mu.Unlock()
			}
		}()
	}

	for _, res := range resolved {
		jobs <- res
	}
	close(jobs)
	wg.Wait()

	return quotes
}
