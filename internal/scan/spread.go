package scan

import (
	"sort"

	"arbscan/internal/models"
)

// enumerateOpportunities walks every ordered (buy, sell) pair over the
// price-ascending filtered quote list. Because j > i on a sorted list,
// every candidate spread is non-negative before thresholding. The
// min-spread bound is inclusive. The result is ranked by spread
// descending; ties keep enumeration order.
func enumerateOpportunities(sorted []models.Quote, minSpread float64) []models.Opportunity {
	var opportunities []models.Opportunity

	for i := 0; i < len(sorted); i++ {
		buy := sorted[i]
		for j := i + 1; j < len(sorted); j++ {
			sell := sorted[j]
			spreadPct := (sell.Price - buy.Price) / buy.Price * 100
			if spreadPct < minSpread {
				continue
			}
			opportunities = append(opportunities, models.Opportunity{
				BuyVenue:  buy.Venue,
				BuyPair:   buy.Pair,
				BuyPrice:  buy.Price,
				SellVenue: sell.Venue,
				SellPair:  sell.Pair,
				SellPrice: sell.Price,
				SpreadPct: spreadPct,
				SpreadAbs: sell.Price - buy.Price,
			})
		}
	}

	sort.SliceStable(opportunities, func(i, j int) bool {
		return opportunities[i].SpreadPct > opportunities[j].SpreadPct
	})
	return opportunities
}
