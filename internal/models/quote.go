package models

import (
	"encoding/json"
	"time"
)

// Quote is one venue's current price for one matched trading pair.
// Bid and Ask are present only when the venue reported a positive
// best bid/ask alongside the price.
type Quote struct {
	Venue string   `json:"connector"`
	Pair  string   `json:"pair"`
	Price float64  `json:"price"`
	Bid   *float64 `json:"bid"`
	Ask   *float64 `json:"ask"`
}

// Opportunity is a ranked buy-low/sell-high pairing of two quotes.
// SpreadPct is expressed as a percentage of the buy price.
type Opportunity struct {
	BuyVenue  string  `json:"buy_connector"`
	BuyPair   string  `json:"buy_pair"`
	BuyPrice  float64 `json:"buy_price"`
	SellVenue string  `json:"sell_connector"`
	SellPair  string  `json:"sell_pair"`
	SellPrice float64 `json:"sell_price"`
	SpreadPct float64 `json:"spread_pct"`
	SpreadAbs float64 `json:"spread_abs"`
}

// Report is the full result of one scan run. Prices holds the quotes
// that survived outlier filtering sorted ascending by price; Outliers
// holds the excluded quotes for transparency.
type Report struct {
	RunID         string        `json:"run_id"`
	GeneratedAt   time.Time     `json:"generated_at"`
	BaseTokens    []string      `json:"base_tokens"`
	QuoteTokens   []string      `json:"quote_tokens"`
	MinSpread     float64       `json:"min_spread"`
	Prices        []Quote       `json:"prices"`
	Outliers      []Quote       `json:"outliers"`
	Opportunities []Opportunity `json:"opportunities"`
}

// PricePoint is the canonical shape a venue price response normalizes
// into before it becomes a Quote.
type PricePoint struct {
	Price float64
	Bid   *float64
	Ask   *float64
}

// priceObject mirrors the object form some venues return instead of a
// bare number.
type priceObject struct {
	MidPrice *float64 `json:"mid_price"`
	Price    *float64 `json:"price"`
	BestBid  *float64 `json:"best_bid"`
	BestAsk  *float64 `json:"best_ask"`
}

// DecodePrice normalizes a raw price value into a PricePoint. A value
// may be a bare number or an object carrying mid_price/price (preferred
// in that order) plus optional best_bid/best_ask. Returns false for
// anything without a positive price.
func DecodePrice(raw json.RawMessage) (PricePoint, bool) {
	var scalar float64
	if err := json.Unmarshal(raw, &scalar); err == nil {
		if scalar <= 0 {
			return PricePoint{}, false
		}
		return PricePoint{Price: scalar}, true
	}

	var obj priceObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return PricePoint{}, false
	}

	// mid_price wins whenever it is set and non-zero, even if negative;
	// the positivity check below then discards the whole entry.
	var price float64
	switch {
	case obj.MidPrice != nil && *obj.MidPrice != 0:
		price = *obj.MidPrice
	case obj.Price != nil && *obj.Price != 0:
		price = *obj.Price
	}
	if price <= 0 {
		return PricePoint{}, false
	}

	pp := PricePoint{Price: price}
	if obj.BestBid != nil && *obj.BestBid > 0 {
		pp.Bid = obj.BestBid
	}
	if obj.BestAsk != nil && *obj.BestAsk > 0 {
		pp.Ask = obj.BestAsk
	}
	return pp, true
}
