package dashboard

import (
	"StockPulse/internal/chart"
	"StockPulse/internal/market"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/trade"

	"github.com/shopspring/decimal"
)

// Stocks is the filtered stock list.
func (d *Dashboard) Stocks() []model.Stock { return d.visible }

func (d *Dashboard) Query() string { return d.query }

// Selected returns the selected stock, if any.
func (d *Dashboard) Selected() (model.Stock, bool) {
	if d.selected < 0 || d.selected >= len(d.all) {
		return model.Stock{}, false
	}
	return d.all[d.selected], true
}

func (d *Dashboard) Series() model.Series { return d.series }

func (d *Dashboard) Indicators() market.Indicators { return d.indicators }

// Layout is the current chart layout. It stays valid until the next event
// that reports ChangedLayout.
func (d *Dashboard) Layout() *chart.Result { return &d.layout }

func (d *Dashboard) Geometry() chart.Geometry { return d.geometry }

func (d *Dashboard) Tooltip() chart.Tooltip { return d.tooltip }

func (d *Dashboard) Dark() bool { return d.dark }

func (d *Dashboard) Theme() chart.Theme { return chart.ThemeFor(d.dark) }

func (d *Dashboard) Ticket() trade.Ticket { return d.ticket }

// Estimate is the value of the order currently on the ticket.
func (d *Dashboard) Estimate() decimal.Decimal {
	s, ok := d.Selected()
	if !ok {
		return decimal.Zero
	}
	return d.ticket.Estimate(&s)
}

func (d *Dashboard) MarketOpen() bool { return d.marketOpen }

// Summary counts gainers and losers over the whole catalog.
func (d *Dashboard) Summary() market.Summary {
	s := market.Summarize(d.all)
	s.Open = d.marketOpen
	return s
}

// KeyStats is the key statistics panel of the selected stock.
func (d *Dashboard) KeyStats() []notifier.StatRow {
	s, ok := d.Selected()
	if !ok {
		return nil
	}
	return notifier.FormatKeyStats(&s)
}

func (d *Dashboard) Toasts() []notifier.Toast { return d.toaster.Active() }

// SVG renders the current chart in the current theme.
func (d *Dashboard) SVG() string { return chart.RenderSVG(d.layout, d.Theme()) }
