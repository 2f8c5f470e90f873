package scan

import (
	"testing"

	"arbscan/internal/models"
)

func quotes(prices ...float64) []models.Quote {
	out := make([]models.Quote, len(prices))
	for i, p := range prices {
		out[i] = models.Quote{Venue: "venue", Pair: "BTC-USDT", Price: p}
	}
	return out
}

func pricesOf(qs []models.Quote) []float64 {
	out := make([]float64, len(qs))
	for i, q := range qs {
		out[i] = q.Price
	}
	return out
}

func TestFilterOutliers(t *testing.T) {
	tests := []struct {
		name         string
		sorted       []float64
		wantKept     []float64
		wantOutliers []float64
	}{
		{
			name:         "bad feed excluded",
			sorted:       []float64{100, 101, 102, 1000},
			wantKept:     []float64{100, 101, 102},
			wantOutliers: []float64{1000},
		},
		{
			name:     "all within band",
			sorted:   []float64{100, 105, 110},
			wantKept: []float64{100, 105, 110},
		},
		{
			name:     "two quotes never filtered",
			sorted:   []float64{50, 5000},
			wantKept: []float64{50, 5000},
		},
		{
			name:     "single quote kept",
			sorted:   []float64{100},
			wantKept: []float64{100},
		},
		{
			name:     "empty",
			sorted:   nil,
			wantKept: nil,
		},
		{
			// median of an even-length list is the upper middle element
			name:         "even length uses upper median",
			sorted:       []float64{80, 100, 102, 104},
			wantKept:     []float64{100, 102, 104},
			wantOutliers: []float64{80},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kept, outliers := filterOutliers(quotes(tt.sorted...), 0.20)

			if got := pricesOf(kept); !equalFloats(got, tt.wantKept) {
				t.Errorf("kept = %v, want %v", got, tt.wantKept)
			}
			if got := pricesOf(outliers); !equalFloats(got, tt.wantOutliers) {
				t.Errorf("outliers = %v, want %v", got, tt.wantOutliers)
			}
		})
	}
}

func TestFilterOutliersBoundaryInclusive(t *testing.T) {
	// 120 sits exactly on the 20% band around median 100 and survives.
	kept, outliers := filterOutliers(quotes(100, 100, 100, 120), 0.20)
	if len(kept) != 4 || len(outliers) != 0 {
		t.Errorf("kept %d outliers %d, want 4 and 0", len(kept), len(outliers))
	}
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
