package portfolio

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"StockPulse/internal/model"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var ErrInsufficientShares = errors.New("not enough shares to sell")

// Book holds the mock portfolio with concurrency safety.
type Book struct {
	mu       sync.Mutex
	holdings []model.Holding
}

// NewBook creates a Book over a copy of holdings.
func NewBook(holdings []model.Holding) *Book {
	b := &Book{holdings: make([]model.Holding, len(holdings))}
	copy(b.holdings, holdings)
	return b
}

// Holdings returns a copy of the current positions.
func (b *Book) Holdings() []model.Holding {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]model.Holding, len(b.holdings))
	copy(out, b.holdings)
	return out
}

// Summary totals the current positions.
func (b *Book) Summary() Summary {
	return Summarize(b.Holdings())
}

// CanApply reports whether a trade of shares on side could be booked. Only
// sells can fail: the position must hold at least shares.
func (b *Book) CanApply(symbol string, side model.TradeType, shares float64) error {
	if side != model.TradeSell {
		return nil
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.sellable(symbol, decimal.NewFromFloat(shares))
	return err
}

// sellable returns the index of the position that can cover shares. Callers
// hold mu.
func (b *Book) sellable(symbol string, shares decimal.Decimal) (int, error) {
	idx := b.find(symbol)
	if idx < 0 {
		return -1, fmt.Errorf("%w: no %s position", ErrInsufficientShares, symbol)
	}
	h := b.holdings[idx]
	if decimal.NewFromFloat(h.Shares).LessThan(shares) {
		return -1, fmt.Errorf("%w: holding %v %s", ErrInsufficientShares, h.Shares, h.Symbol)
	}
	return idx, nil
}

func (b *Book) find(symbol string) int {
	for i, h := range b.holdings {
		if strings.EqualFold(h.Symbol, symbol) {
			return i
		}
	}
	return -1
}

// Apply books an accepted trade against the positions and marks the touched
// holding to quote. Buys average into an existing holding or open a new one;
// sells reduce it and close it at zero. A quote without a price falls back to
// the trade price.
func (b *Book) Apply(t model.Trade, quote model.Stock) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	mark := quote.Price
	if mark <= 0 {
		mark = t.Price
	}
	shares := decimal.NewFromFloat(t.Shares)
	price := decimal.NewFromFloat(t.Price)

	switch t.Type {
	case model.TradeBuy:
		idx := b.find(t.Symbol)
		if idx < 0 {
			b.holdings = append(b.holdings, revalue(model.Holding{
				Symbol:       t.Symbol,
				Name:         quote.Name,
				Shares:       t.Shares,
				AvgPrice:     t.Price,
				CurrentPrice: mark,
			}))
			break
		}
		h := b.holdings[idx]
		held := decimal.NewFromFloat(h.Shares)
		cost := held.Mul(decimal.NewFromFloat(h.AvgPrice)).Add(shares.Mul(price))
		total := held.Add(shares)
		h.Shares = total.InexactFloat64()
		h.AvgPrice = cost.Div(total).Round(2).InexactFloat64()
		h.CurrentPrice = mark
		b.holdings[idx] = revalue(h)

	case model.TradeSell:
		idx, err := b.sellable(t.Symbol, shares)
		if err != nil {
			return err
		}
		h := b.holdings[idx]
		left := decimal.NewFromFloat(h.Shares).Sub(shares)
		if left.IsZero() {
			b.holdings = append(b.holdings[:idx], b.holdings[idx+1:]...)
			break
		}
		h.Shares = left.InexactFloat64()
		h.CurrentPrice = mark
		b.holdings[idx] = revalue(h)

	default:
		return fmt.Errorf("unknown trade type %q", t.Type)
	}

	log.Debug().Str("symbol", t.Symbol).Str("type", string(t.Type)).Float64("shares", t.Shares).Msg("portfolio updated")
	return nil
}

// revalue recomputes the derived fields of h from its shares and prices.
func revalue(h model.Holding) model.Holding {
	shares := decimal.NewFromFloat(h.Shares)
	current := decimal.NewFromFloat(h.CurrentPrice)
	cost := shares.Mul(decimal.NewFromFloat(h.AvgPrice))
	value := shares.Mul(current)
	gain := value.Sub(cost)

	h.TotalValue = value.Round(2).InexactFloat64()
	h.Gain = gain.Round(2).InexactFloat64()
	h.GainPercent = 0
	if !cost.IsZero() {
		h.GainPercent = gain.Div(cost).Mul(decimal.NewFromInt(100)).Round(2).InexactFloat64()
	}
	return h
}
