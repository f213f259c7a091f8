package model

import "time"

// Stock is one instrument of the catalog. It is read-only input to the chart.
type Stock struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        int64   `json:"volume"`
	MarketCap     string  `json:"marketCap"`
	High52Week    float64 `json:"high52Week"`
	Low52Week     float64 `json:"low52Week"`
	PE            float64 `json:"pe"`
	Sector        string  `json:"sector"`
}

// Gaining reports whether the stock is flat or up on the day.
func (s Stock) Gaining() bool { return s.Change >= 0 }

// Candle represents a single daily candlestick bar.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// Up reports whether the candle closed at or above its open.
func (c Candle) Up() bool { return c.Close >= c.Open }

// Series is an ordered run of candles, oldest first. A Series is never
// mutated after it is produced; a new selection replaces it wholesale.
type Series []Candle

// Last returns the newest candle, or false for an empty series.
func (s Series) Last() (Candle, bool) {
	if len(s) == 0 {
		return Candle{}, false
	}
	return s[len(s)-1], true
}

// Closes extracts the closing prices in order.
func (s Series) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, c := range s {
		closes[i] = c.Close
	}
	return closes
}
