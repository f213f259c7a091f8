package server

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"StockPulse/internal/chart"
	"StockPulse/internal/dashboard"
	"StockPulse/internal/market"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/trade"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	writeWait    = 5 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 15 * time.Second
	maxReadSize  = 1 << 20
	outBuffer    = 32
)

// clientMessage is an event sent by the browser.
type clientMessage struct {
	Type   string          `json:"type"`
	Symbol string          `json:"symbol,omitempty"`
	Query  string          `json:"query,omitempty"`
	Width  float64         `json:"width,omitempty"`
	Height float64         `json:"height,omitempty"`
	X      float64         `json:"x,omitempty"`
	Y      float64         `json:"y,omitempty"`
	Side   model.TradeType `json:"side,omitempty"`
	Ticket *trade.Ticket   `json:"ticket,omitempty"`
}

// serverMessage wraps every outgoing payload with its type.
type serverMessage struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type candleRect struct {
	Index      int     `json:"index"`
	X          float64 `json:"x"`
	Width      float64 `json:"width"`
	BodyY      float64 `json:"bodyY"`
	BodyHeight float64 `json:"bodyHeight"`
	Up         bool    `json:"up"`
}

type layoutPayload struct {
	Symbol     string             `json:"symbol"`
	SVG        string             `json:"svg"`
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Margins    chart.Margins      `json:"margins"`
	Dark       bool               `json:"dark"`
	PriceTicks []chart.Tick       `json:"priceTicks"`
	DateTicks  []chart.Tick       `json:"dateTicks"`
	Candles    []candleRect       `json:"candles"`
	Stats      []notifier.StatRow `json:"stats"`
	Indicators market.Indicators  `json:"indicators"`
}

type tooltipPayload struct {
	Visible bool          `json:"visible"`
	X       float64       `json:"x"`
	Y       float64       `json:"y"`
	Index   int           `json:"index"`
	Candle  *model.Candle `json:"candle,omitempty"`
	Lines   []string      `json:"lines,omitempty"`
}

type stocksPayload struct {
	Query  string        `json:"query"`
	Stocks []model.Stock `json:"stocks"`
}

type ticketPayload struct {
	Ticket   trade.Ticket `json:"ticket"`
	Estimate string       `json:"estimate"`
}

// wsSession is one browser tab. Each tab owns a dashboard; events from the
// read loop and market bells are serialized by mu.
type wsSession struct {
	conn *websocket.Conn
	out  chan serverMessage
	done chan struct{}
	once sync.Once

	mu   sync.Mutex
	dash *dashboard.Dashboard
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	dash, err := dashboard.New(s.deps.Collector, s.deps.Desk, notifier.NewToaster(0, 0), dashboard.Config{
		Geometry:  s.geometry(0, 0),
		MinHeight: s.deps.Chart.MinHeight,
		Dark:      s.deps.Dark,
	})
	if err != nil {
		log.Error().Err(err).Msg("create dashboard")
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "dashboard unavailable"),
			time.Now().Add(writeWait))
		conn.Close()
		return
	}
	dash.SetMarketStatus(s.MarketOpen())

	ws := &wsSession{
		conn: conn,
		out:  make(chan serverMessage, outBuffer),
		done: make(chan struct{}),
		dash: dash,
	}
	s.register(ws)
	defer s.unregister(ws)

	log.Info().Str("remote", r.RemoteAddr).Msg("websocket session opened")
	go ws.writeLoop()

	ws.mu.Lock()
	ws.emit(dashboard.ChangedLayout | dashboard.ChangedTooltip | dashboard.ChangedStocks |
		dashboard.ChangedTicket | dashboard.ChangedStatus)
	ws.mu.Unlock()

	ws.readLoop()
	ws.close()
	log.Info().Str("remote", r.RemoteAddr).Msg("websocket session closed")
}

func (ws *wsSession) readLoop() {
	ws.conn.SetReadLimit(maxReadSize)
	ws.conn.SetReadDeadline(time.Now().Add(pongWait))
	ws.conn.SetPongHandler(func(string) error {
		return ws.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var msg clientMessage
		if err := ws.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Msg("websocket read failed")
			}
			return
		}
		ws.mu.Lock()
		ws.handle(msg)
		ws.mu.Unlock()
	}
}

func (ws *wsSession) writeLoop() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case msg := <-ws.out:
			ws.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.conn.WriteJSON(msg); err != nil {
				log.Debug().Err(err).Msg("websocket write failed")
				ws.close()
				return
			}
		case <-ticker.C:
			if err := ws.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				ws.close()
				return
			}
		case <-ws.done:
			return
		}
	}
}

func (ws *wsSession) close() {
	ws.once.Do(func() {
		close(ws.done)
		ws.conn.Close()
	})
}

// handle applies one client event. Callers hold mu.
func (ws *wsSession) handle(msg clientMessage) {
	var change dashboard.Change
	switch msg.Type {
	case "select":
		c, err := ws.dash.Select(msg.Symbol)
		if err != nil {
			ws.sendError(err)
			return
		}
		change = c
	case "search":
		change = ws.dash.Search(msg.Query)
	case "resize":
		change = ws.dash.Resize(msg.Width, msg.Height)
	case "pointer":
		change = ws.dash.PointerMove(msg.X, msg.Y)
	case "leave":
		change = ws.dash.PointerLeave()
	case "theme":
		change = ws.dash.ToggleTheme()
	case "ticket":
		if msg.Ticket == nil {
			ws.sendError(errors.New("ticket message without ticket"))
			return
		}
		change = ws.dash.SetTicket(*msg.Ticket)
	case "submit":
		if msg.Ticket != nil {
			ws.dash.SetTicket(*msg.Ticket)
		}
		_, c, _ := ws.dash.Submit(msg.Side)
		change = c
	default:
		ws.sendError(errors.New("unknown message type " + msg.Type))
		return
	}
	ws.emit(change)
}

// notifyMarket applies a session bell without blocking the broadcaster.
func (ws *wsSession) notifyMarket(open bool) {
	go func() {
		ws.mu.Lock()
		defer ws.mu.Unlock()
		ws.emit(ws.dash.SetMarketStatus(open))
	}()
}

// emit queues one message per changed part of the view. Callers hold mu.
func (ws *wsSession) emit(change dashboard.Change) {
	d := ws.dash
	if change.Has(dashboard.ChangedLayout) || change.Has(dashboard.ChangedTheme) {
		ws.send("layout", ws.layoutPayload())
	}
	if change.Has(dashboard.ChangedTooltip) {
		ws.send("tooltip", tooltipFor(d.Tooltip()))
	}
	if change.Has(dashboard.ChangedStocks) {
		ws.send("stocks", stocksPayload{Query: d.Query(), Stocks: d.Stocks()})
	}
	if change.Has(dashboard.ChangedTicket) {
		ws.send("ticket", ticketPayload{Ticket: d.Ticket(), Estimate: d.Estimate().StringFixed(2)})
	}
	if change.Has(dashboard.ChangedStatus) {
		ws.send("market", d.Summary())
	}
	if change.Has(dashboard.ChangedToasts) {
		if toasts := d.Toasts(); len(toasts) > 0 {
			ws.send("toast", toasts[len(toasts)-1])
		}
	}
}

func (ws *wsSession) layoutPayload() layoutPayload {
	d := ws.dash
	r := d.Layout()
	p := layoutPayload{
		SVG:        d.SVG(),
		Width:      r.Geometry.Width,
		Height:     r.Geometry.Height,
		Margins:    r.Geometry.Margins,
		Dark:       d.Dark(),
		PriceTicks: r.PriceTicks,
		DateTicks:  r.DateTicks,
		Candles:    make([]candleRect, len(r.Candles)),
		Stats:      d.KeyStats(),
		Indicators: d.Indicators(),
	}
	if s, ok := d.Selected(); ok {
		p.Symbol = s.Symbol
	}
	for i, c := range r.Candles {
		p.Candles[i] = candleRect{Index: c.Index, X: c.X, Width: c.Width, BodyY: c.BodyY, BodyHeight: c.BodyHeight, Up: c.Up}
	}
	return p
}

func tooltipFor(t chart.Tooltip) tooltipPayload {
	p := tooltipPayload{Visible: t.Visible, X: t.X, Y: t.Y, Index: t.Index}
	if t.Visible && t.Candle != nil {
		c := *t.Candle
		p.Candle = &c
		p.Lines = notifier.FormatTooltip(t.Candle)
	}
	return p
}

type errorPayload struct {
	Message string `json:"message"`
}

func (ws *wsSession) sendError(err error) {
	ws.send("error", errorPayload{Message: err.Error()})
}

// send drops the message when the client is too slow to keep up.
func (ws *wsSession) send(kind string, data any) {
	select {
	case ws.out <- serverMessage{Type: kind, Data: data}:
	case <-ws.done:
	default:
		log.Warn().Str("type", kind).Msg("websocket client lagging, message dropped")
	}
}
