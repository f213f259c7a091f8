package tui

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"StockPulse/internal/chart"
	"StockPulse/internal/dashboard"
	"StockPulse/internal/market"
	"StockPulse/internal/model"
	"StockPulse/internal/portfolio"
	"StockPulse/internal/recorder"
	"StockPulse/internal/trade"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	now := func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	gen := market.NewGenerator(rand.New(rand.NewSource(8)), now)
	col := market.NewCollector(market.NewMockFetcher(gen), 30)

	rec, err := recorder.NewSQLiteRecorder(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	book := portfolio.NewBook(market.Holdings())
	desk := trade.NewDesk(rec, nil)
	d, err := dashboard.New(col, desk, nil, dashboard.Config{
		Geometry:  CellGeometry(80, 23),
		MinHeight: MinHeight(),
		Dark:      true,
	})
	require.NoError(t, err)

	m := New(d, desk, book, Config{ChartRows: 20, TradeLimit: 5})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 131, Height: 50})
	return next.(Model)
}

func update(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func keys(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestSpan(t *testing.T) {
	first, last := span(20.8, 26)
	assert.Equal(t, 20, first)
	assert.Equal(t, 25, last)

	first, last = span(3.2, 3.4)
	assert.Equal(t, 3, first)
	assert.Equal(t, 3, last)
}

func TestDrawChart(t *testing.T) {
	s := model.Series{
		{Date: time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC), Open: 10, High: 12, Low: 9, Close: 11, Volume: 100},
		{Date: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC), Open: 11, High: 11.5, Low: 8, Close: 9, Volume: 50},
	}
	r := chart.Layout(s, CellGeometry(40, 15))
	cv := drawChart(&r, chart.Tooltip{})
	lines := cv.lines(nil)

	require.Len(t, lines, 15)
	joined := strings.Join(lines, "\n")
	assert.Contains(t, joined, "█")
	assert.Contains(t, joined, "│")
	assert.Contains(t, joined, "░")
	assert.Contains(t, joined, "Oct 16")
	assert.Contains(t, joined, r.PriceTicks[0].Label)
	for _, l := range lines {
		assert.Equal(t, 40, len([]rune(l)))
	}

	empty := chart.Layout(nil, CellGeometry(40, 15))
	assert.Contains(t, strings.Join(drawChart(&empty, chart.Tooltip{}).lines(nil), "\n"), "no data")
}

func TestWindowSizeResizesChart(t *testing.T) {
	m := newTestModel(t)
	geo := m.dash.Geometry()
	assert.Equal(t, 100.0, geo.Width)
	assert.Equal(t, 23.0, geo.Height)
	assert.Equal(t, cellMargins, geo.Margins)
}

func TestMouseHover(t *testing.T) {
	m := newTestModel(t)
	r := m.dash.Layout()
	c := r.Candles[5]

	col := chartLeft + int(r.Geometry.Margins.Left+c.WickX)
	row := chartTop + int(r.Geometry.Margins.Top+c.BodyY)
	m = update(t, m, tea.MouseMsg{X: col, Y: row, Action: tea.MouseActionMotion})

	tip := m.dash.Tooltip()
	require.True(t, tip.Visible)
	assert.Same(t, &m.dash.Series()[tip.Index], tip.Candle)
	assert.Contains(t, m.View(), "Open: $")

	m = update(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	assert.False(t, m.dash.Tooltip().Visible)
}

func TestMouseClickSelects(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.MouseMsg{X: 3, Y: listTop + 4, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	s, _ := m.dash.Selected()
	assert.Equal(t, "NVDA", s.Symbol)
}

func TestKeys_SelectAndSearch(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyEnter})
	s, _ := m.dash.Selected()
	assert.Equal(t, "MSFT", s.Symbol)

	m = update(t, m, keys("/"), keys("m"), keys("e"), keys("t"), keys("a"))
	require.Len(t, m.dash.Stocks(), 1)
	assert.Equal(t, "META", m.dash.Stocks()[0].Symbol)
	assert.Zero(t, m.cursor)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc}, tea.KeyMsg{Type: tea.KeyEnter})
	s, _ = m.dash.Selected()
	assert.Equal(t, "META", s.Symbol)
}

func TestKeys_Trade(t *testing.T) {
	m := newTestModel(t)

	m = update(t, m, keys("b"))
	toasts := m.dash.Toasts()
	require.NotEmpty(t, toasts)
	assert.Equal(t, "Please enter a valid number of shares", toasts[len(toasts)-1].Title)
	assert.Empty(t, m.blotter)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab}, keys("5"), tea.KeyMsg{Type: tea.KeyEnter}, keys("s"))
	require.Len(t, m.blotter, 1)
	assert.Equal(t, model.TradeSell, m.blotter[0].Type)
	assert.Equal(t, 5.0, m.blotter[0].Shares)
	assert.Empty(t, m.shares.Value(), "ticket is cleared after a trade")
	assert.Contains(t, m.View(), "Sold 5 shares of AAPL")
}

func TestKeys_ThemeAndOrderKind(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, keys("t"), keys("m"))
	assert.False(t, m.dash.Dark())
	assert.Equal(t, model.OrderLimit, m.dash.Ticket().Kind)
}

func TestStatusMsg(t *testing.T) {
	m := newTestModel(t)
	m = update(t, m, StatusMsg{Open: true})
	assert.True(t, m.dash.Summary().Open)
	assert.Contains(t, m.View(), "Open")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(keys("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
