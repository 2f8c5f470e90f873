// Package report renders a scan result as a JSON document or a
// human-readable text summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"arbscan/internal/models"
)

// Default truncation depths. The full ranked list is always computed;
// only presentation is cut.
const (
	JSONTopN = 20
	TextTopN = 10
)

// WriteJSON writes the machine-readable document. top <= 0 selects the
// default truncation depth.
func WriteJSON(w io.Writer, rep *models.Report, top int) error {
	if top <= 0 {
		top = JSONTopN
	}

	doc := *rep
	if len(doc.Opportunities) > top {
		doc.Opportunities = doc.Opportunities[:top]
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(&doc)
}

// WriteText writes the human-readable summary. top <= 0 selects the
// default truncation depth.
func WriteText(w io.Writer, rep *models.Report, top int) {
	if top <= 0 {
		top = TextTopN
	}

	fmt.Fprintf(w, "\nArbitrage Opportunities: %s vs %s\n",
		strings.Join(rep.BaseTokens, "/"), strings.Join(rep.QuoteTokens, "/"))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	fmt.Fprintln(w, "\nPrices Found:")
	for _, q := range rep.Prices {
		fmt.Fprintf(w, "  %-20s %-15s %s\n", q.Venue, q.Pair, FormatPrice(q.Price))
	}

	if len(rep.Outliers) > 0 {
		fmt.Fprintln(w, "\nExcluded as outliers:")
		for _, q := range rep.Outliers {
			fmt.Fprintf(w, "  %-20s %-15s %s\n", q.Venue, q.Pair, FormatPrice(q.Price))
		}
	}

	if len(rep.Opportunities) > 0 {
		fmt.Fprintf(w, "\nBest Opportunities (min spread: %g%%):\n", rep.MinSpread)
		shown := rep.Opportunities
		if len(shown) > top {
			shown = shown[:top]
		}
		for _, opp := range shown {
			fmt.Fprintf(w, "\n  Buy  %-15s %-12s @ %s\n", opp.BuyVenue, opp.BuyPair, FormatPrice(opp.BuyPrice))
			fmt.Fprintf(w, "  Sell %-15s %-12s @ %s\n", opp.SellVenue, opp.SellPair, FormatPrice(opp.SellPrice))
			fmt.Fprintf(w, "  Spread: %.3f%% (%s)\n", opp.SpreadPct, FormatPrice(opp.SpreadAbs))
		}
	} else {
		fmt.Fprintf(w, "\nNo opportunities found with spread >= %g%%\n", rep.MinSpread)
	}

	venueSet := make(map[string]struct{})
	for _, q := range rep.Prices {
		venueSet[q.Venue] = struct{}{}
	}
	for _, q := range rep.Outliers {
		venueSet[q.Venue] = struct{}{}
	}
	fmt.Fprintf(w, "\nTotal: %d prices from %d connectors\n",
		len(rep.Prices)+len(rep.Outliers), len(venueSet))
}

// FormatPrice renders a price with precision scaled to its magnitude.
func FormatPrice(price float64) string {
	switch {
	case price >= 1000:
		return "$" + groupThousands(fmt.Sprintf("%.2f", price))
	case price >= 1:
		return fmt.Sprintf("$%.4f", price)
	default:
		return fmt.Sprintf("$%.8f", price)
	}
}

// groupThousands inserts commas into the integer part of a fixed-point
// decimal string.
func groupThousands(s string) string {
	intPart, fracPart, _ := strings.Cut(s, ".")
	var b strings.Builder
	n := len(intPart)
	for i, r := range intPart {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if fracPart != "" {
		b.WriteByte('.')
		b.WriteString(fracPart)
	}
	return b.String()
}
