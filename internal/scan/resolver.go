package scan

import (
	"context"
	"sort"
	"sync"

	"arbscan/internal/pairs"
	"arbscan/internal/venues"
	"arbscan/logger"
)

// resolution is one venue together with the pairs that matched the
// requested alias sets.
type resolution struct {
	source  venues.Source
	matched []string
}

// resolvePairs fans out the per-venue pair listings over a bounded
// worker pool. A failing or empty venue is excluded, never fatal; each
// fetch carries its own timeout so one slow venue cannot starve the
// rest. Results are sorted by venue name so downstream stages see a
// deterministic order.
func (s *Scanner) resolvePairs(ctx context.Context) []resolution {
	log := s.log.WithComponent("resolver")

	jobs := make(chan venues.Source)
	var (
		mu       sync.Mutex
		resolved []resolution
		wg       sync.WaitGroup
	)

	for i := 0; i < s.workers(len(s.sources)); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range jobs {
				callCtx, cancel := context.WithTimeout(ctx, s.cfg.API.PairsTimeout())
				allPairs, err := src.TradingPairs(callCtx)
				cancel()
				if err != nil {
					log.WithFields(logger.Fields{"connector": src.Name()}).WithError(err).Warn("error fetching pairs")
					continue
				}

				matched := pairs.Match(allPairs, s.base, s.quote)
				if len(matched) == 0 {
					continue
				}

				mu.Lock()
				resolved = append(resolved, resolution{source: src, matched: matched})
				mu.Unlock()
			}
		}()
	}

	for _, src := range s.sources {
		jobs <- src
	}
	close(jobs)
	wg.Wait()

	sort.Slice(resolved, func(i, j int) bool {
		return resolved[i].source.Name() < resolved[j].source.Name()
	})
	return resolved
}
