// Package tui renders the dashboard in a terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/chart"
	"StockPulse/internal/dashboard"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/portfolio"
	"StockPulse/internal/trade"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog/log"
)

const (
	listWidth   = 30
	headerRows  = 1
	chartTop    = headerRows + 1 // tooltip line sits above the chart
	listTop     = headerRows + 1 // first stock row, below the search box
	chartLeft   = listWidth + 1
	minChartW   = 40
	minChartRow = 8
)

// Margins of the terminal chart, in cells.
var cellMargins = chart.Margins{Top: 1, Right: 10, Bottom: 2, Left: 1}

// StatusMsg carries a market bell from the session clock.
type StatusMsg struct {
	Open bool
}

type tickMsg time.Time

type focus int

const (
	focusList focus = iota
	focusSearch
	focusShares
	focusLimit
)

// Config holds terminal layout settings.
type Config struct {
	ChartRows  int
	TradeLimit int
}

// CellGeometry is a chart viewport measured in terminal cells.
func CellGeometry(cols, rows int) chart.Geometry {
	return chart.Geometry{
		Width:         float64(cols),
		Height:        float64(rows),
		Margins:       cellMargins,
		TooltipOffset: 1,
	}
}

// MinHeight is the smallest chart height in rows, margins included.
func MinHeight() float64 {
	return minChartRow + cellMargins.Top + cellMargins.Bottom
}

// Model is the bubbletea model of the terminal dashboard.
type Model struct {
	dash *dashboard.Dashboard
	desk *trade.Desk
	book *portfolio.Book
	cfg  Config

	search textinput.Model
	shares textinput.Model
	limit  textinput.Model
	focus  focus
	cursor int

	width, height int
	ready         bool

	showHelp bool
	help     string
	blotter  []model.Trade
	pal      palette
}

// New creates the terminal model over d.
func New(d *dashboard.Dashboard, desk *trade.Desk, book *portfolio.Book, cfg Config) Model {
	if cfg.ChartRows < minChartRow {
		cfg.ChartRows = minChartRow
	}
	if cfg.TradeLimit <= 0 {
		cfg.TradeLimit = 5
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search stocks..."
	search.Width = listWidth - 4

	shares := textinput.New()
	shares.Prompt = "Shares: "
	shares.Placeholder = "0"
	shares.CharLimit = 12
	shares.Width = 12

	limit := textinput.New()
	limit.Prompt = "Limit $"
	limit.CharLimit = 12
	limit.Width = 12

	m := Model{
		dash:   d,
		desk:   desk,
		book:   book,
		cfg:    cfg,
		search: search,
		shares: shares,
		limit:  limit,
		pal:    newPalette(d.Dark()),
	}
	m.refreshBlotter()
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ready = true
		m.resizeChart()
		return m, nil

	case StatusMsg:
		m.dash.SetMarketStatus(msg.Open)
		return m, nil

	case tickMsg:
		// Drops expired toasts.
		m.dash.Toasts()
		return m, tick()

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) resizeChart() {
	cols := m.width - chartLeft
	if cols < minChartW {
		cols = minChartW
	}
	rows := m.cfg.ChartRows + int(cellMargins.Top+cellMargins.Bottom)
	m.dash.Resize(float64(cols), float64(rows))
}

func (m Model) handleMouse(msg tea.MouseMsg) Model {
	geo := m.dash.Geometry()
	x, y := msg.X-chartLeft, msg.Y-chartTop
	inChart := x >= 0 && y >= 0 && float64(x) < geo.Width && float64(y) < geo.Height

	switch msg.Action {
	case tea.MouseActionMotion:
		if inChart {
			m.dash.PointerArea(chart.Rect{X: float64(x), Y: float64(y), W: 1, H: 1})
		} else if m.dash.Tooltip().Visible {
			m.dash.PointerLeave()
		}
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || msg.X >= listWidth {
			break
		}
		if i := msg.Y - listTop; i >= 0 && i < len(m.dash.Stocks()) {
			m.cursor = i
			m.selectCursor()
		}
	}
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.focus {
	case focusSearch:
		switch key {
		case "esc", "enter":
			m.setFocus(focusList)
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.dash.Search(m.search.Value())
		m.clampCursor()
		return m, cmd

	case focusShares, focusLimit:
		switch key {
		case "esc", "enter":
			m.setFocus(focusList)
			return m, nil
		case "tab":
			m.cycleFocus()
			return m, nil
		}
		var cmd tea.Cmd
		if m.focus == focusShares {
			m.shares, cmd = m.shares.Update(msg)
		} else {
			m.limit, cmd = m.limit.Update(msg)
		}
		m.syncTicket()
		return m, cmd
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = true
		m.renderHelp()
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.dash.Stocks())-1 {
			m.cursor++
		}
	case "enter":
		m.selectCursor()
	case "/":
		m.setFocus(focusSearch)
	case "tab":
		m.cycleFocus()
	case "m":
		t := m.dash.Ticket()
		if t.Kind == model.OrderLimit {
			t.Kind = model.OrderMarket
		} else {
			t.Kind = model.OrderLimit
		}
		m.dash.SetTicket(t)
	case "t":
		m.dash.ToggleTheme()
		m.pal = newPalette(m.dash.Dark())
	case "b":
		m.submit(model.TradeBuy)
	case "s":
		m.submit(model.TradeSell)
	}
	return m, nil
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.search.Blur()
	m.shares.Blur()
	m.limit.Blur()
	switch f {
	case focusSearch:
		m.search.Focus()
	case focusShares:
		m.shares.Focus()
	case focusLimit:
		m.limit.Focus()
	}
}

// cycleFocus moves list → shares → limit (limit orders only) → list.
func (m *Model) cycleFocus() {
	switch m.focus {
	case focusList:
		m.setFocus(focusShares)
	case focusShares:
		if m.dash.Ticket().Kind == model.OrderLimit {
			m.setFocus(focusLimit)
		} else {
			m.setFocus(focusList)
		}
	default:
		m.setFocus(focusList)
	}
}

func (m *Model) syncTicket() {
	t := m.dash.Ticket()
	t.Shares = m.shares.Value()
	t.LimitPrice = m.limit.Value()
	m.dash.SetTicket(t)
}

func (m *Model) clampCursor() {
	if n := len(m.dash.Stocks()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) selectCursor() {
	stocks := m.dash.Stocks()
	if m.cursor < 0 || m.cursor >= len(stocks) {
		return
	}
	if _, err := m.dash.Select(stocks[m.cursor].Symbol); err != nil {
		log.Error().Err(err).Msg("select failed")
	}
}

func (m *Model) submit(side model.TradeType) {
	if _, _, err := m.dash.Submit(side); err != nil {
		return
	}
	m.shares.Reset()
	m.limit.Reset()
	m.refreshBlotter()
}

func (m *Model) refreshBlotter() {
	if m.desk == nil {
		return
	}
	trades, err := m.desk.Recent(m.cfg.TradeLimit)
	if err != nil {
		log.Warn().Err(err).Msg("load recent trades")
		return
	}
	m.blotter = trades
}

const helpMarkdown = `# StockPulse

| Key | Action |
|-----|--------|
| ↑/↓, j/k | move in the stock list |
| enter | chart the highlighted stock |
| / | search by symbol or name |
| tab | edit shares, then limit price |
| m | switch market / limit order |
| b / s | buy / sell with the current ticket |
| t | toggle dark / light theme |
| q | quit |

Hover the chart with the mouse to inspect a candle.
`

func (m *Model) renderHelp() {
	style := "dark"
	if !m.dash.Dark() {
		style = "light"
	}
	out, err := glamour.Render(helpMarkdown, style)
	if err != nil {
		log.Warn().Err(err).Msg("render help")
		out = helpMarkdown
	}
	m.help = out
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	if m.showHelp {
		return m.help + m.pal.dim.Render("press any key to close")
	}

	left := lipgloss.NewStyle().Width(listWidth).Render(m.viewList())
	right := m.viewMain()
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)

	return lipgloss.JoinVertical(lipgloss.Left, m.viewHeader(), body, m.viewFooter())
}

func (m Model) viewHeader() string {
	sum := m.dash.Summary()
	status := m.pal.down.Render("● Closed")
	if sum.Open {
		status = m.pal.up.Render("● Open")
	}

	var pf string
	if m.book != nil {
		s := m.book.Summary()
		pf = fmt.Sprintf("Portfolio %s %s",
			notifier.Money(s.TotalValue),
			m.pal.change(s.TotalGain).Render(fmt.Sprintf("%s (%s)", notifier.SignedMoney(s.TotalGain), notifier.SignedPercent(s.GainPercent))))
	}

	return lipgloss.JoinHorizontal(lipgloss.Left,
		m.pal.title.Render("StockPulse"),
		m.pal.status.Render(fmt.Sprintf("Market %s", status)),
		m.pal.status.Render(fmt.Sprintf("%s %s",
			m.pal.up.Render(fmt.Sprintf("▲ %d", sum.Gainers)),
			m.pal.down.Render(fmt.Sprintf("▼ %d", sum.Losers)))),
		m.pal.status.Render(pf),
	)
}

func (m Model) viewList() string {
	var b strings.Builder
	b.WriteString(m.search.View())
	b.WriteString("\n")

	sel, _ := m.dash.Selected()
	stocks := m.dash.Stocks()
	if len(stocks) == 0 {
		b.WriteString(m.pal.dim.Render("  no matches"))
	}
	for i, s := range stocks {
		line := fmt.Sprintf("%-6s %9.2f %s", s.Symbol, s.Price,
			m.pal.change(s.Change).Render(fmt.Sprintf("%+6.2f%%", s.ChangePercent)))
		if s.Symbol == sel.Symbol {
			line = m.pal.selected.Render("▌") + line
		} else {
			line = " " + line
		}
		if i == m.cursor && m.focus == focusList {
			line = m.pal.cursor.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewMain() string {
	var b strings.Builder

	tip := m.dash.Tooltip()
	b.WriteString(m.viewTooltip(tip))
	b.WriteString("\n")

	cv := drawChart(m.dash.Layout(), tip)
	b.WriteString(strings.Join(cv.lines(m.styleFor), "\n"))
	b.WriteString("\n")

	b.WriteString(m.viewStats())
	b.WriteString("\n")
	b.WriteString(m.viewTicket())
	return b.String()
}

// viewTooltip centers the hovered candle's summary on the anchor column.
func (m Model) viewTooltip(tip chart.Tooltip) string {
	if !tip.Visible || tip.Candle == nil {
		return m.pal.dim.Render("hover a candle for details")
	}
	text := notifier.FormatTooltipLine(tip.Candle)
	width := int(m.dash.Geometry().Width)
	x := int(tip.X) - len(text)/2
	if x+len(text) > width {
		x = width - len(text)
	}
	if x < 0 {
		x = 0
	}
	return strings.Repeat(" ", x) + m.pal.tooltip.Render(text)
}

func (m Model) viewStats() string {
	sel, ok := m.dash.Selected()
	if !ok {
		return ""
	}
	ind := m.dash.Indicators()

	title := fmt.Sprintf("%s %s  $%.2f %s",
		m.pal.selected.Render(sel.Symbol), sel.Name, sel.Price,
		m.pal.change(sel.Change).Render(fmt.Sprintf("%+.2f (%+.2f%%)", sel.Change, sel.ChangePercent)))

	var parts []string
	for _, r := range m.dash.KeyStats() {
		parts = append(parts, fmt.Sprintf("%s %s", m.pal.dim.Render(r.Label), r.Value))
	}
	parts = append(parts,
		fmt.Sprintf("%s $%.2f/$%.2f", m.pal.dim.Render("Range"), ind.PeriodLow, ind.PeriodHigh),
		fmt.Sprintf("%s $%.2f", m.pal.dim.Render("SMA20"), ind.SMA20),
		fmt.Sprintf("%s %.1f", m.pal.dim.Render("RSI14"), ind.RSI14),
	)
	return title + "\n" + strings.Join(parts, "  ")
}

func (m Model) viewTicket() string {
	t := m.dash.Ticket()
	kind := "[Market]  Limit "
	if t.Kind == model.OrderLimit {
		kind = " Market  [Limit]"
	}
	fields := []string{kind, m.shares.View()}
	if t.Kind == model.OrderLimit {
		fields = append(fields, m.limit.View())
	}
	fields = append(fields, fmt.Sprintf("Est. %s", notifier.Money(m.dash.Estimate().InexactFloat64())))
	fields = append(fields, m.pal.dim.Render("b buy · s sell · ? help"))
	return m.pal.panel.Render(strings.Join(fields, "   "))
}

func (m Model) viewFooter() string {
	var lines []string
	for _, t := range m.dash.Toasts() {
		st := m.pal.success
		if t.Kind == notifier.KindError {
			st = m.pal.errorMsg
		}
		line := st.Render(t.Title)
		if t.Description != "" {
			line += " " + m.pal.dim.Render(t.Description)
		}
		lines = append(lines, line)
	}
	if len(m.blotter) > 0 {
		lines = append(lines, m.pal.dim.Render("Recent trades"))
		for _, t := range m.blotter {
			lines = append(lines, fmt.Sprintf("  %s %-4s %-6s %s @ $%.2f  %s",
				t.Timestamp.Format("15:04:05"), strings.ToUpper(string(t.Type)), t.Symbol,
				notifier.Shares(t.Shares), t.Price, notifier.Money(t.Total)))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) styleFor(k cellKind) lipgloss.Style {
	switch k {
	case kindUp:
		return m.pal.up
	case kindDown:
		return m.pal.down
	case kindUpVol:
		return m.pal.upVol
	case kindDownVol:
		return m.pal.downVol
	case kindGrid:
		return m.pal.grid
	case kindMarker:
		return m.pal.marker
	default:
		return m.pal.dim
	}
}
