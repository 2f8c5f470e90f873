package scan

import (
	"math"

	"arbscan/internal/models"
)

// minQuotesForFilter is the smallest quote set the outlier rule applies
// to; below it every quote is kept.
const minQuotesForFilter = 3

// filterOutliers splits a price-ascending quote list into retained
// quotes and outliers. The reference median is the element at index
// n/2, i.e. the upper median for even-length lists. That choice is
// load-bearing: callers and tests depend on it, so changing it to an
// averaged median would silently shift which quotes survive.
func filterOutliers(sorted []models.Quote, maxDeviation float64) (kept, outliers []models.Quote) {
	if len(sorted) < minQuotesForFilter {
		return sorted, nil
	}

	median := sorted[len(sorted)/2].Price
	for _, q := range sorted {
		if math.Abs(q.Price-median)/median <= maxDeviation {
			kept = append(kept, q)
		} else {
			outliers = append(outliers, q)
		}
	}
	return kept, outliers
}
