package market

import (
	"errors"

	"StockPulse/internal/model"
)

// ErrUnknownSymbol is returned when a symbol is not in the catalog.
var ErrUnknownSymbol = errors.New("unknown symbol")

// Fetcher defines the interface for fetching dashboard data.
type Fetcher interface {
	FetchStocks() ([]model.Stock, error)
	FetchDailyBars(symbol string, days int) (model.Series, error)
	FetchHoldings() ([]model.Holding, error)
	Name() string
}
