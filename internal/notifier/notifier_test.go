package notifier

import (
	"strings"
	"testing"
	"time"

	"StockPulse/internal/market"
	"StockPulse/internal/model"
	"StockPulse/internal/portfolio"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$35,776.95", Money(35776.95))
	assert.Equal(t, "$8,921.00", Money(8921))
	assert.Equal(t, "-$202.80", Money(-202.8))
	assert.Equal(t, "+$3,494.40", SignedMoney(3494.4))
	assert.Equal(t, "-$202.80", SignedMoney(-202.8))
	assert.Equal(t, "+10.82%", SignedPercent(10.8244))
	assert.Equal(t, "-4.55%", SignedPercent(-4.55))
}

func TestMillions(t *testing.T) {
	assert.Equal(t, "52.34M", Millions(52_340_000, 2))
	assert.Equal(t, "52.3M", Millions(52_340_000, 1))
}

func TestFormatTradeConfirmation(t *testing.T) {
	toast := FormatTradeConfirmation(&model.Trade{Symbol: "AAPL", Type: model.TradeBuy, Shares: 10, Price: 178.42, Total: 1784.2})
	assert.Equal(t, KindSuccess, toast.Kind)
	assert.Equal(t, "Bought 10 shares of AAPL at $178.42", toast.Title)
	assert.Equal(t, "Total: $1784.20", toast.Description)

	toast = FormatTradeConfirmation(&model.Trade{Symbol: "TSLA", Type: model.TradeSell, Shares: 2.5, Price: 248.5, Total: 621.25})
	assert.Equal(t, "Sold 2.5 shares of TSLA at $248.50", toast.Title)
}

func TestFormatKeyStats(t *testing.T) {
	stock, ok := market.Find(market.Catalog(), "AAPL")
	require.True(t, ok)
	rows := FormatKeyStats(&stock)
	require.Len(t, rows, 6)
	labels := make([]string, len(rows))
	for i, r := range rows {
		labels[i] = r.Label
	}
	assert.Equal(t, []string{"Market Cap", "P/E Ratio", "52W High", "52W Low", "Volume", "Sector"}, labels)
	assert.True(t, strings.HasSuffix(rows[4].Value, "M"))
	assert.True(t, strings.HasPrefix(rows[2].Value, "$"))
}

func TestFormatTooltip(t *testing.T) {
	c := &model.Candle{
		Date: time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		Open: 100, High: 105.5, Low: 99.25, Close: 104,
		Volume: 23_450_000,
	}
	lines := FormatTooltip(c)
	assert.Equal(t, "October 19, 2026", lines[0])
	assert.Equal(t, "Open:   $100.00", lines[1])
	assert.Equal(t, "Volume: 23.45M", lines[5])

	line := FormatTooltipLine(c)
	assert.Contains(t, line, "High: $105.50")
	assert.True(t, strings.HasPrefix(line, "October 19, 2026  Open: $100.00"))
}

func TestFormatPortfolio(t *testing.T) {
	hs := market.Holdings()
	out := FormatPortfolio(hs, portfolio.Summarize(hs))
	assert.Contains(t, out, "$35,776.95")
	assert.Contains(t, out, "+$3,494.40 (+10.82%)")
	assert.Contains(t, out, "NVDA   15 shares @ $720.45")
}

func TestToaster(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	ts := NewToaster(time.Second, 2)
	ts.now = func() time.Time { return now }

	ts.Error("first")
	ts.Notify(Toast{Kind: KindInfo, Title: "second"})
	ts.Notify(Toast{Kind: KindSuccess, Title: "third"})

	active := ts.Active()
	require.Len(t, active, 2, "oldest toast is dropped past the cap")
	assert.Equal(t, "second", active[0].Title)
	assert.Equal(t, "third", active[1].Title)

	now = now.Add(2 * time.Second)
	assert.Empty(t, ts.Active(), "toasts expire")

	ts.Error("again")
	ts.Clear()
	assert.Empty(t, ts.Active())
}

func TestToaster_Defaults(t *testing.T) {
	ts := NewToaster(0, 0)
	assert.Equal(t, DefaultTTL, ts.ttl)
	assert.Equal(t, 3, ts.max)
}
