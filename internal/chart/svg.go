package chart

import (
	"fmt"
	"strings"
)

// Theme holds the colors used by RenderSVG.
type Theme struct {
	Background string
	Grid       string
	Text       string
	Up         string
	Down       string
}

var (
	DarkTheme = Theme{
		Background: "#0b0f17",
		Grid:       "#1f2937",
		Text:       "#94a3b8",
		Up:         "#22c55e",
		Down:       "#ef4444",
	}
	LightTheme = Theme{
		Background: "#ffffff",
		Grid:       "#e5e7eb",
		Text:       "#64748b",
		Up:         "#16a34a",
		Down:       "#dc2626",
	}
)

// ThemeFor picks the dark or light palette.
func ThemeFor(dark bool) Theme {
	if dark {
		return DarkTheme
	}
	return LightTheme
}

func (t Theme) candle(up bool) string {
	if up {
		return t.Up
	}
	return t.Down
}

// RenderSVG draws r as a standalone SVG document. An empty result yields an
// SVG with only the background.
func RenderSVG(r Result, theme Theme) string {
	g := r.Geometry
	var b strings.Builder

	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(g.Width), num(g.Height), num(g.Width), num(g.Height))
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s"/>`, theme.Background)
	if r.Empty {
		b.WriteString(`</svg>`)
		return b.String()
	}

	innerW, innerH := g.InnerWidth(), g.InnerHeight()
	fmt.Fprintf(&b, `<g transform="translate(%s,%s)">`, num(g.Margins.Left), num(g.Margins.Top))

	b.WriteString(`<g class="grid">`)
	for _, t := range r.PriceTicks {
		fmt.Fprintf(&b, `<line x1="0" x2="%s" y1="%s" y2="%s" stroke="%s" stroke-width="1" stroke-dasharray="3,3"/>`,
			num(innerW), num(t.Pos), num(t.Pos), theme.Grid)
	}
	b.WriteString(`</g>`)

	fmt.Fprintf(&b, `<g class="y-axis" transform="translate(%s,0)" font-size="11" font-family="JetBrains Mono, monospace" fill="%s">`,
		num(innerW), theme.Text)
	for _, t := range r.PriceTicks {
		fmt.Fprintf(&b, `<line x1="0" x2="6" y1="%s" y2="%s" stroke="%s"/>`, num(t.Pos), num(t.Pos), theme.Grid)
		fmt.Fprintf(&b, `<text x="9" y="%s" dy="0.32em">%s</text>`, num(t.Pos), t.Label)
	}
	b.WriteString(`</g>`)

	fmt.Fprintf(&b, `<g class="x-axis" transform="translate(0,%s)" font-size="10" text-anchor="middle" fill="%s">`,
		num(innerH), theme.Text)
	for _, t := range r.DateTicks {
		fmt.Fprintf(&b, `<text x="%s" y="20">%s</text>`, num(t.Pos), t.Label)
	}
	b.WriteString(`</g>`)

	b.WriteString(`<g class="candles">`)
	for _, c := range r.Candles {
		fmt.Fprintf(&b, `<line class="wick" x1="%s" x2="%s" y1="%s" y2="%s" stroke="%s" stroke-width="1"/>`,
			num(c.WickX), num(c.WickX), num(c.WickTop), num(c.WickBottom), theme.candle(c.Up))
	}
	for _, c := range r.Candles {
		fmt.Fprintf(&b, `<rect class="candle" data-index="%d" x="%s" y="%s" width="%s" height="%s" rx="1" fill="%s"/>`,
			c.Index, num(c.X), num(c.BodyY), num(c.Width), num(c.BodyHeight), theme.candle(c.Up))
	}
	b.WriteString(`</g>`)

	b.WriteString(`<g class="volume">`)
	for _, c := range r.Candles {
		fmt.Fprintf(&b, `<rect class="volume-bar" x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="0.3"/>`,
			num(c.X), num(c.VolumeY), num(c.Width), num(c.VolumeHeight), theme.candle(c.Up))
	}
	b.WriteString(`</g>`)

	b.WriteString(`</g></svg>`)
	return b.String()
}

func num(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
