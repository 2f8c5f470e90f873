package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"arbscan/internal/models"
)

func TestFormatPrice(t *testing.T) {
	tests := []struct {
		price float64
		want  string
	}{
		{50000, "$50,000.00"},
		{1234567.891, "$1,234,567.89"},
		{1000, "$1,000.00"},
		{999.9999, "$999.9999"},
		{1, "$1.0000"},
		{0.5, "$0.50000000"},
		{0.00001234, "$0.00001234"},
	}

	for _, tt := range tests {
		if got := FormatPrice(tt.price); got != tt.want {
			t.Errorf("FormatPrice(%v) = %q, want %q", tt.price, got, tt.want)
		}
	}
}

func sampleReport() *models.Report {
	return &models.Report{
		RunID:       "run-1",
		GeneratedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		BaseTokens:  []string{"BTC", "WBTC"},
		QuoteTokens: []string{"USDC", "USDT"},
		MinSpread:   0.5,
		Prices: []models.Quote{
			{Venue: "exchange_x", Pair: "BTC-USDT", Price: 50000},
			{Venue: "exchange_y", Pair: "BTC-USDC", Price: 50500},
		},
		Outliers: []models.Quote{
			{Venue: "exchange_z", Pair: "BTC-USDT", Price: 90000},
		},
		Opportunities: []models.Opportunity{
			{BuyVenue: "exchange_x", BuyPair: "BTC-USDT", BuyPrice: 50000,
				SellVenue: "exchange_y", SellPair: "BTC-USDC", SellPrice: 50500,
				SpreadPct: 1.0, SpreadAbs: 500},
		},
	}
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	WriteText(&buf, sampleReport(), 0)
	out := buf.String()

	for _, want := range []string{
		"BTC/WBTC vs USDC/USDT",
		"exchange_x",
		"$50,000.00",
		"Excluded as outliers:",
		"exchange_z",
		"Spread: 1.000%",
		"Total: 3 prices from 3 connectors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q\n%s", want, out)
		}
	}
}

func TestWriteTextNoOpportunities(t *testing.T) {
	rep := sampleReport()
	rep.Opportunities = nil

	var buf bytes.Buffer
	WriteText(&buf, rep, 0)
	if !strings.Contains(buf.String(), "No opportunities found with spread >= 0.5%") {
		t.Errorf("missing empty-result line:\n%s", buf.String())
	}
}

func TestWriteJSONTruncates(t *testing.T) {
	rep := sampleReport()
	for i := 0; i < 30; i++ {
		rep.Opportunities = append(rep.Opportunities, models.Opportunity{SpreadPct: 0.6})
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, rep, 0); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}

	var decoded models.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Opportunities) != JSONTopN {
		t.Errorf("got %d opportunities, want %d", len(decoded.Opportunities), JSONTopN)
	}
	// Truncation must not touch the caller's report.
	if len(rep.Opportunities) != 31 {
		t.Errorf("caller's report mutated: %d opportunities", len(rep.Opportunities))
	}
	if decoded.RunID != "run-1" || len(decoded.Prices) != 2 {
		t.Errorf("document fields lost: %+v", decoded)
	}
}

func TestWriteJSONCustomTop(t *testing.T) {
	rep := sampleReport()
	for i := 0; i < 10; i++ {
		rep.Opportunities = append(rep.Opportunities, models.Opportunity{SpreadPct: 0.6})
	}

	var buf bytes.Buffer
	if err := WriteJSON(&buf, rep, 3); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	var decoded models.Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded.Opportunities) != 3 {
		t.Errorf("got %d opportunities, want 3", len(decoded.Opportunities))
	}
}
