package model

import "time"

// TradeType is the side of an order.
type TradeType string

const (
	TradeBuy  TradeType = "buy"
	TradeSell TradeType = "sell"
)

// OrderType selects how the order price is determined.
type OrderType string

const (
	OrderMarket OrderType = "market"
	OrderLimit  OrderType = "limit"
)

// Holding is one position of the mock portfolio.
type Holding struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Shares       float64 `json:"shares"`
	AvgPrice     float64 `json:"avgPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	TotalValue   float64 `json:"totalValue"`
	Gain         float64 `json:"gain"`
	GainPercent  float64 `json:"gainPercent"`
}

// Trade is an accepted mock order. Nothing executes it.
type Trade struct {
	ID        string    `json:"id"`
	Symbol    string    `json:"symbol"`
	Type      TradeType `json:"type"`
	OrderType OrderType `json:"orderType"`
	Shares    float64   `json:"shares"`
	Price     float64   `json:"price"`
	Total     float64   `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}
