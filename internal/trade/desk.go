package trade

import (
	"fmt"
	"sync"
	"time"

	"StockPulse/internal/model"
	"StockPulse/internal/recorder"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Desk accepts tickets, books them in the blotter and notifies the owner.
type Desk struct {
	mu  sync.Mutex
	rec recorder.Recorder
	now func() time.Time

	// Check vets a parsed order against the book before anything is
	// recorded. A failure rejects the order with ErrInsufficientShares.
	Check func(Order) error
	// OnTrade is called for every accepted trade.
	OnTrade func(model.Trade)
}

// NewDesk creates a Desk that records into rec. A nil rec records nothing.
func NewDesk(rec recorder.Recorder, onTrade func(model.Trade)) *Desk {
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Desk{rec: rec, now: time.Now, OnTrade: onTrade}
}

// Submit validates the ticket and books the trade. On rejection nothing is
// recorded and OnTrade is not called. Submissions are serialized so a check
// and the booking that follows it see the same book.
func (d *Desk) Submit(stock *model.Stock, ticket Ticket, side model.TradeType) (model.Trade, error) {
	order, err := ticket.Order(stock, side)
	if err != nil {
		log.Debug().Err(err).Str("side", string(side)).Msg("ticket rejected")
		return model.Trade{}, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Check != nil {
		if err := d.Check(order); err != nil {
			log.Debug().Err(err).Str("symbol", order.Symbol).Msg("order refused by book")
			return model.Trade{}, fmt.Errorf("%w: %w", ErrInsufficientShares, err)
		}
	}

	t := model.Trade{
		ID:        uuid.NewString(),
		Symbol:    order.Symbol,
		Type:      order.Side,
		OrderType: order.OrderType,
		Shares:    order.Shares,
		Price:     order.Price,
		Total:     order.Total().InexactFloat64(),
		Timestamp: d.now(),
	}
	if err := d.rec.RecordTrade(&t); err != nil {
		return model.Trade{}, fmt.Errorf("record trade: %w", err)
	}

	log.Info().
		Str("id", t.ID).
		Str("symbol", t.Symbol).
		Str("side", string(t.Type)).
		Float64("shares", t.Shares).
		Float64("price", t.Price).
		Msg("trade accepted")

	if d.OnTrade != nil {
		d.OnTrade(t)
	}
	return t, nil
}

// Recent lists the latest accepted trades, newest first.
func (d *Desk) Recent(limit int) ([]model.Trade, error) {
	return d.rec.RecentTrades(limit)
}
