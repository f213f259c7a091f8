package market

import (
	"errors"
	"fmt"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"

	"github.com/rs/zerolog/log"
)

// Indicators holds the series-derived figures shown next to the chart.
type Indicators struct {
	PeriodHigh float64 `json:"periodHigh"`
	PeriodLow  float64 `json:"periodLow"`
	SMA20      float64 `json:"sma20"`
	RSI14      float64 `json:"rsi14"`
	Position   float64 `json:"position"` // 0.0 ~ 1.0 within the period range
}

// Snapshot is everything the dashboard needs after a selection.
type Snapshot struct {
	Stock      model.Stock
	Series     model.Series
	Indicators Indicators
}

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Days    int
}

// NewCollector creates a new Collector. Non-positive days fall back to DefaultDays.
func NewCollector(fetcher Fetcher, days int) *Collector {
	if days <= 0 {
		days = DefaultDays
	}
	return &Collector{Fetcher: fetcher, Days: days}
}

// Stocks returns the catalog filtered by query.
func (c *Collector) Stocks(query string) ([]model.Stock, error) {
	stocks, err := c.Fetcher.FetchStocks()
	if err != nil {
		return nil, fmt.Errorf("fetch stocks: %w", err)
	}
	return Filter(stocks, query), nil
}

// Collect fetches a fresh series for symbol and computes its indicators.
func (c *Collector) Collect(symbol string) (*Snapshot, error) {
	stocks, err := c.Fetcher.FetchStocks()
	if err != nil {
		return nil, fmt.Errorf("fetch stocks: %w", err)
	}
	stock, ok := Find(stocks, symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	series, err := c.Fetcher.FetchDailyBars(stock.Symbol, c.Days)
	if err != nil {
		return nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	return &Snapshot{Stock: stock, Series: series, Indicators: Compute(stock.Price, series)}, nil
}

// Compute derives indicators from series, falling back to neutral values
// when the series is too short.
func Compute(price float64, series model.Series) Indicators {
	ind := Indicators{}

	if h, l, err := calculator.CalculateRange(series); err != nil {
		log.Warn().Err(err).Msg("range calculation failed, using current price")
		ind.PeriodHigh = price
		ind.PeriodLow = price
	} else {
		ind.PeriodHigh = h
		ind.PeriodLow = l
	}

	if ma, err := calculator.CalculateCloseSMA(series, 20); err != nil {
		log.Debug().Err(err).Msg("SMA20 unavailable, using current price")
		ind.SMA20 = price
	} else {
		ind.SMA20 = ma
	}

	if rsi, err := calculator.CalculateRSI(series, 14); err != nil {
		ev := log.Warn()
		if errors.Is(err, calculator.ErrInsufficientData) {
			ev = log.Debug()
		}
		ev.Err(err).Msg("RSI14 unavailable, using neutral 50")
		ind.RSI14 = 50
	} else {
		ind.RSI14 = rsi
	}

	current := price
	if last, ok := series.Last(); ok {
		current = last.Close
	}
	if pos, err := calculator.CalculatePosition(current, ind.PeriodHigh, ind.PeriodLow); err != nil {
		log.Warn().Err(err).Msg("position calculation failed")
		ind.Position = 0.5
	} else {
		ind.Position = pos
	}

	return ind
}
