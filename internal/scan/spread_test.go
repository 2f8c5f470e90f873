package scan

import (
	"math"
	"testing"

	"arbscan/internal/models"
)

func TestEnumerateOpportunities(t *testing.T) {
	sorted := []models.Quote{
		{Venue: "a", Pair: "BTC-USDT", Price: 100},
		{Venue: "b", Pair: "BTC-USDC", Price: 105},
	}

	opps := enumerateOpportunities(sorted, 0)
	if len(opps) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(opps))
	}

	opp := opps[0]
	if opp.BuyVenue != "a" || opp.SellVenue != "b" {
		t.Errorf("buy/sell = %s/%s, want a/b", opp.BuyVenue, opp.SellVenue)
	}
	if math.Abs(opp.SpreadPct-5.0) > 1e-9 {
		t.Errorf("SpreadPct = %v, want 5.0", opp.SpreadPct)
	}
	if math.Abs(opp.SpreadAbs-5.0) > 1e-9 {
		t.Errorf("SpreadAbs = %v, want 5.0", opp.SpreadAbs)
	}
}

func TestEnumerateOpportunitiesRanking(t *testing.T) {
	sorted := []models.Quote{
		{Venue: "a", Price: 100},
		{Venue: "b", Price: 102},
		{Venue: "c", Price: 110},
	}

	opps := enumerateOpportunities(sorted, 0)
	if len(opps) != 3 {
		t.Fatalf("got %d opportunities, want 3", len(opps))
	}
	for i := 1; i < len(opps); i++ {
		if opps[i].SpreadPct > opps[i-1].SpreadPct {
			t.Errorf("ranking not descending at %d: %v > %v", i, opps[i].SpreadPct, opps[i-1].SpreadPct)
		}
	}
	// a->c (10%) must outrank c-relative pairings.
	if opps[0].BuyVenue != "a" || opps[0].SellVenue != "c" {
		t.Errorf("top = %s->%s, want a->c", opps[0].BuyVenue, opps[0].SellVenue)
	}
}

func TestEnumerateOpportunitiesThresholdInclusive(t *testing.T) {
	sorted := []models.Quote{
		{Venue: "a", Price: 100},
		{Venue: "b", Price: 102},
	}

	if opps := enumerateOpportunities(sorted, 2.0); len(opps) != 1 {
		t.Errorf("spread exactly at threshold: got %d opportunities, want 1", len(opps))
	}
	if opps := enumerateOpportunities(sorted, 2.0001); len(opps) != 0 {
		t.Errorf("spread below threshold: got %d opportunities, want 0", len(opps))
	}
}

func TestEnumerateOpportunitiesDegenerate(t *testing.T) {
	if opps := enumerateOpportunities(nil, 0); len(opps) != 0 {
		t.Errorf("empty input: got %d opportunities", len(opps))
	}
	single := []models.Quote{{Venue: "a", Price: 100}}
	if opps := enumerateOpportunities(single, 0); len(opps) != 0 {
		t.Errorf("single quote: got %d opportunities", len(opps))
	}
	equal := []models.Quote{{Venue: "a", Price: 100}, {Venue: "b", Price: 100}}
	opps := enumerateOpportunities(equal, 0)
	if len(opps) != 1 || opps[0].SpreadPct != 0 {
		t.Errorf("equal prices with zero min spread: got %+v", opps)
	}
}
