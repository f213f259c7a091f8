package notifier

import (
	"fmt"
	"strconv"
	"strings"

	"StockPulse/internal/model"
	"StockPulse/internal/portfolio"

	"github.com/dustin/go-humanize"
)

// Money formats v as dollars with thousands separators and two decimals.
func Money(v float64) string {
	if v < 0 {
		return "-$" + humanize.FormatFloat("#,###.##", -v)
	}
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// SignedMoney is Money with an explicit plus sign for non-negative values.
func SignedMoney(v float64) string {
	if v >= 0 {
		return "+" + Money(v)
	}
	return Money(v)
}

// SignedPercent formats v as a percentage with an explicit plus sign for
// non-negative values.
func SignedPercent(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%%", v)
	}
	return fmt.Sprintf("%.2f%%", v)
}

// Millions formats a share volume in millions with the given precision.
func Millions(v int64, prec int) string {
	return fmt.Sprintf("%.*fM", prec, float64(v)/1e6)
}

// Shares prints a share count without trailing zeros.
func Shares(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// StatRow is one labelled value of the key statistics panel.
type StatRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// FormatKeyStats lists the key statistics of a stock.
func FormatKeyStats(s *model.Stock) []StatRow {
	return []StatRow{
		{Label: "Market Cap", Value: s.MarketCap},
		{Label: "P/E Ratio", Value: fmt.Sprintf("%.2f", s.PE)},
		{Label: "52W High", Value: fmt.Sprintf("$%.2f", s.High52Week)},
		{Label: "52W Low", Value: fmt.Sprintf("$%.2f", s.Low52Week)},
		{Label: "Volume", Value: Millions(s.Volume, 2)},
		{Label: "Sector", Value: s.Sector},
	}
}

// FormatTooltip renders the hover card of a candle, one line per field.
func FormatTooltip(c *model.Candle) []string {
	return []string{
		c.Date.Format("January 02, 2006"),
		fmt.Sprintf("Open:   $%.2f", c.Open),
		fmt.Sprintf("High:   $%.2f", c.High),
		fmt.Sprintf("Low:    $%.2f", c.Low),
		fmt.Sprintf("Close:  $%.2f", c.Close),
		fmt.Sprintf("Volume: %s", Millions(c.Volume, 2)),
	}
}

// FormatTooltipLine is FormatTooltip on a single line.
func FormatTooltipLine(c *model.Candle) string {
	lines := FormatTooltip(c)
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.Join(strings.Fields(lines[i]), " ")
	}
	return strings.Join(lines, "  ")
}

// FormatTradeConfirmation builds the success toast of an accepted trade.
func FormatTradeConfirmation(t *model.Trade) Toast {
	verb := "Bought"
	if t.Type == model.TradeSell {
		verb = "Sold"
	}
	return Toast{
		Kind:        KindSuccess,
		Title:       fmt.Sprintf("%s %s shares of %s at $%.2f", verb, Shares(t.Shares), t.Symbol, t.Price),
		Description: fmt.Sprintf("Total: $%.2f", t.Total),
	}
}

// FormatPortfolio renders the portfolio header and holdings as text.
func FormatPortfolio(holdings []model.Holding, s portfolio.Summary) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Portfolio Value  %s\n", Money(s.TotalValue)))
	b.WriteString(fmt.Sprintf("Total Gain       %s (%s)\n\n", SignedMoney(s.TotalGain), SignedPercent(s.GainPercent)))
	for _, h := range holdings {
		b.WriteString(fmt.Sprintf("%-6s %s shares @ $%.2f  %12s  %s\n",
			h.Symbol, Shares(h.Shares), h.AvgPrice, Money(h.TotalValue), SignedPercent(h.GainPercent)))
	}
	return b.String()
}
