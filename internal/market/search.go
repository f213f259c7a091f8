package market

import (
	"strings"

	"StockPulse/internal/model"
)

// Filter returns the stocks whose symbol or name contains query, ignoring
// case. An empty query matches everything. Order is preserved.
func Filter(stocks []model.Stock, query string) []model.Stock {
	if query == "" {
		return stocks
	}
	q := strings.ToLower(query)
	out := make([]model.Stock, 0, len(stocks))
	for _, s := range stocks {
		if strings.Contains(strings.ToLower(s.Symbol), q) || strings.Contains(strings.ToLower(s.Name), q) {
			out = append(out, s)
		}
	}
	return out
}

// Summary counts the day's movers.
type Summary struct {
	Gainers int  `json:"gainers"`
	Losers  int  `json:"losers"`
	Open    bool `json:"open"`
}

// Summarize counts gainers and losers. Unchanged stocks count as neither.
func Summarize(stocks []model.Stock) Summary {
	var s Summary
	for _, st := range stocks {
		switch {
		case st.Change > 0:
			s.Gainers++
		case st.Change < 0:
			s.Losers++
		}
	}
	return s
}

// Find returns the stock with the given symbol, ignoring case.
func Find(stocks []model.Stock, symbol string) (model.Stock, bool) {
	for _, s := range stocks {
		if strings.EqualFold(s.Symbol, symbol) {
			return s, true
		}
	}
	return model.Stock{}, false
}
