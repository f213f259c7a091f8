package portfolio

import (
	"StockPulse/internal/model"

	"github.com/shopspring/decimal"
)

// Summary is the portfolio header: total value and unrealized gain.
type Summary struct {
	TotalValue  float64 `json:"totalValue"`
	TotalGain   float64 `json:"totalGain"`
	GainPercent float64 `json:"gainPercent"`
}

// Summarize sums holdings. GainPercent is measured against the cost basis
// (value minus gain) and is 0 when the basis is 0.
func Summarize(holdings []model.Holding) Summary {
	value, gain := decimal.Zero, decimal.Zero
	for _, h := range holdings {
		value = value.Add(decimal.NewFromFloat(h.TotalValue))
		gain = gain.Add(decimal.NewFromFloat(h.Gain))
	}

	s := Summary{
		TotalValue: value.InexactFloat64(),
		TotalGain:  gain.InexactFloat64(),
	}
	if basis := value.Sub(gain); !basis.IsZero() {
		s.GainPercent = gain.Div(basis).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}
	return s
}

// Gaining reports whether the portfolio is at or above its cost basis.
func (s Summary) Gaining() bool { return s.TotalGain >= 0 }
