// Package pairs handles trading-pair parsing and base/quote alias
// matching across venues that disagree on symbol formats.
package pairs

import (
	"sort"
	"strings"
)

// AliasSet is a group of ticker symbols the user treats as fungible,
// e.g. {BTC, WBTC}. Members are stored uppercase.
type AliasSet map[string]struct{}

// NewAliasSet builds an AliasSet from raw user input. Whitespace is
// trimmed, empty entries dropped, comparison is case-insensitive.
func NewAliasSet(tokens []string) AliasSet {
	set := make(AliasSet, len(tokens))
	for _, t := range tokens {
		t = strings.ToUpper(strings.TrimSpace(t))
		if t != "" {
			set[t] = struct{}{}
		}
	}
	return set
}

// Contains reports whether sym belongs to the set. Matching ignores case.
func (s AliasSet) Contains(sym string) bool {
	_, ok := s[strings.ToUpper(sym)]
	return ok
}

// Tokens returns the set members sorted for deterministic output.
func (s AliasSet) Tokens() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Split parses a pair string of the form BASE-QUOTE or BASE/QUOTE,
// splitting on the first separator found. Strings with neither
// separator are invalid and reported via ok=false.
func Split(pair string) (base, quote string, ok bool) {
	upper := strings.ToUpper(pair)
	if i := strings.Index(upper, "-"); i >= 0 {
		return upper[:i], upper[i+1:], true
	}
	if i := strings.Index(upper, "/"); i >= 0 {
		return upper[:i], upper[i+1:], true
	}
	return "", "", false
}

// Match filters tradingPairs down to those whose base belongs to the
// base alias set and quote to the quote alias set. Unparseable pair
// strings are skipped, not errors. The original pair spelling is kept.
func Match(tradingPairs []string, base, quote AliasSet) []string {
	var matches []string
	for _, pair := range tradingPairs {
		b, q, ok := Split(pair)
		if !ok {
			continue
		}
		if base.Contains(b) && quote.Contains(q) {
			matches = append(matches, pair)
		}
	}
	return matches
}
