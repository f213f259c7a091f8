package market

import (
	"fmt"

	"StockPulse/internal/model"
)

// MockFetcher serves the static catalog and synthesizes price history.
type MockFetcher struct {
	Stocks    []model.Stock
	Portfolio []model.Holding
	Generator *Generator
}

// NewMockFetcher creates a MockFetcher over the built-in catalog.
func NewMockFetcher(gen *Generator) *MockFetcher {
	return &MockFetcher{
		Stocks:    Catalog(),
		Portfolio: Holdings(),
		Generator: gen,
	}
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchStocks() ([]model.Stock, error) {
	out := make([]model.Stock, len(m.Stocks))
	copy(out, m.Stocks)
	return out, nil
}

func (m *MockFetcher) FetchHoldings() ([]model.Holding, error) {
	out := make([]model.Holding, len(m.Portfolio))
	copy(out, m.Portfolio)
	return out, nil
}

func (m *MockFetcher) FetchDailyBars(symbol string, days int) (model.Series, error) {
	stock, ok := Find(m.Stocks, symbol)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSymbol, symbol)
	}
	return m.Generator.Generate(stock.Price, days), nil
}
