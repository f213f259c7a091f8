package dashboard

import (
	"fmt"
	"math"
	"strings"

	"StockPulse/internal/chart"
	"StockPulse/internal/market"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/trade"

	"github.com/rs/zerolog/log"
)

// Change reports which parts of the view an event touched.
type Change uint8

const (
	ChangedLayout Change = 1 << iota
	ChangedTooltip
	ChangedStocks
	ChangedTicket
	ChangedTheme
	ChangedStatus
	ChangedToasts

	NoChange Change = 0
)

func (c Change) Has(other Change) bool { return c&other != 0 }

// Config holds the initial view settings.
type Config struct {
	Geometry  chart.Geometry
	MinHeight float64
	Dark      bool
}

// Dashboard owns the state of one dashboard session. Events are applied
// synchronously and a Dashboard must only be used from one goroutine.
type Dashboard struct {
	collector *market.Collector
	desk      *trade.Desk
	toaster   *notifier.Toaster

	all      []model.Stock
	query    string
	visible  []model.Stock
	selected int // index into all, -1 when nothing is selected

	series     model.Series
	indicators market.Indicators
	geometry   chart.Geometry
	minHeight  float64
	layout     chart.Result
	hits       *chart.HitIndex
	tooltip    chart.Tooltip

	dark       bool
	ticket     trade.Ticket
	marketOpen bool
}

// New creates a Dashboard with the first catalog stock selected.
func New(col *market.Collector, desk *trade.Desk, toaster *notifier.Toaster, cfg Config) (*Dashboard, error) {
	if toaster == nil {
		toaster = notifier.NewToaster(0, 0)
	}
	stocks, err := col.Stocks("")
	if err != nil {
		return nil, err
	}
	if cfg.MinHeight <= 0 {
		cfg.MinHeight = chart.MinHeight
	}

	d := &Dashboard{
		collector: col,
		desk:      desk,
		toaster:   toaster,
		all:       stocks,
		visible:   stocks,
		selected:  -1,
		geometry:  cfg.Geometry,
		minHeight: cfg.MinHeight,
		dark:      cfg.Dark,
		ticket:    trade.Ticket{Kind: model.OrderMarket},
	}
	d.hits = chart.NewHitIndex(&d.layout)

	if len(stocks) > 0 {
		if _, err := d.Select(stocks[0].Symbol); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Select regenerates the series for symbol and lays the chart out again.
func (d *Dashboard) Select(symbol string) (Change, error) {
	idx := -1
	for i, s := range d.all {
		if strings.EqualFold(s.Symbol, symbol) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return NoChange, fmt.Errorf("%w: %s", market.ErrUnknownSymbol, symbol)
	}

	snap, err := d.collector.Collect(d.all[idx].Symbol)
	if err != nil {
		return NoChange, fmt.Errorf("select %s: %w", symbol, err)
	}
	d.selected = idx
	d.series = snap.Series
	d.indicators = snap.Indicators
	d.relayout()

	log.Debug().Str("symbol", symbol).Int("candles", len(d.series)).Msg("stock selected")
	return ChangedLayout | ChangedTooltip | ChangedTicket, nil
}

// Search filters the stock list. The selection is kept even when it no
// longer matches.
func (d *Dashboard) Search(query string) Change {
	d.query = query
	d.visible = market.Filter(d.all, query)
	return ChangedStocks
}

// Resize sets the chart viewport. A non-positive height is derived from the
// width. Heights below the minimum are raised to it.
func (d *Dashboard) Resize(width, height float64) Change {
	if height <= 0 {
		height = chart.FitViewport(width).Height
	}
	height = math.Max(height, d.minHeight)
	if width == d.geometry.Width && height == d.geometry.Height {
		return NoChange
	}
	d.geometry.Width = width
	d.geometry.Height = height
	d.relayout()
	return ChangedLayout | ChangedTooltip
}

// PointerMove updates the tooltip for a pointer at (x, y) in container
// coordinates.
func (d *Dashboard) PointerMove(x, y float64) Change {
	return d.setTooltip(d.hits.Hit(x, y))
}

// PointerArea updates the tooltip for a pointer covering rect.
func (d *Dashboard) PointerArea(rect chart.Rect) Change {
	return d.setTooltip(d.hits.HitArea(rect))
}

// PointerLeave hides the tooltip.
func (d *Dashboard) PointerLeave() Change {
	d.tooltip = chart.Tooltip{}
	return ChangedTooltip
}

func (d *Dashboard) ToggleTheme() Change {
	d.dark = !d.dark
	return ChangedTheme
}

// SetTicket replaces the order form state.
func (d *Dashboard) SetTicket(t trade.Ticket) Change {
	if t.Kind == "" {
		t.Kind = model.OrderMarket
	}
	d.ticket = t
	return ChangedTicket
}

func (d *Dashboard) SetMarketStatus(open bool) Change {
	if d.marketOpen == open {
		return NoChange
	}
	d.marketOpen = open
	return ChangedStatus
}

// Submit sends the ticket to the desk. Rejections and successes both raise a
// toast. On success the ticket fields are cleared.
func (d *Dashboard) Submit(side model.TradeType) (model.Trade, Change, error) {
	var stock *model.Stock
	if s, ok := d.Selected(); ok {
		stock = &s
	}

	t, err := d.desk.Submit(stock, d.ticket, side)
	if err != nil {
		msg := "Trade failed"
		if trade.Rejected(err) {
			msg = trade.Message(err)
		} else {
			log.Error().Err(err).Msg("trade submission failed")
		}
		d.toaster.Error(msg)
		return model.Trade{}, ChangedToasts, err
	}

	d.toaster.Notify(notifier.FormatTradeConfirmation(&t))
	d.ticket.Shares = ""
	d.ticket.LimitPrice = ""
	return t, ChangedToasts | ChangedTicket, nil
}

func (d *Dashboard) relayout() {
	d.layout = chart.Layout(d.series, d.geometry)
	d.hits = chart.NewHitIndex(&d.layout)
	d.tooltip = chart.Tooltip{}
}

func (d *Dashboard) setTooltip(t chart.Tooltip) Change {
	if t.Visible == d.tooltip.Visible && t.Index == d.tooltip.Index && t.X == d.tooltip.X && t.Y == d.tooltip.Y {
		return NoChange
	}
	d.tooltip = t
	return ChangedTooltip
}
