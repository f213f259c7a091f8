package recorder

import "StockPulse/internal/model"

// DefaultDSN keeps the blotter in a process-local in-memory database.
const DefaultDSN = "file:stockpulse?mode=memory&cache=shared"

// Recorder keeps the blotter of accepted mock trades.
type Recorder interface {
	RecordTrade(t *model.Trade) error
	// RecentTrades returns up to limit trades, newest first.
	RecentTrades(limit int) ([]model.Trade, error)
	Close() error
}
