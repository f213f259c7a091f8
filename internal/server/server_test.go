package server

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockPulse/internal/market"
	"StockPulse/internal/model"
	"StockPulse/internal/portfolio"
	"StockPulse/internal/recorder"
	"StockPulse/internal/trade"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*Server, *portfolio.Book) {
	t.Helper()
	now := func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	col := market.NewCollector(market.NewMockFetcher(market.NewGenerator(rand.New(rand.NewSource(7)), now)), market.DefaultDays)

	rec, err := recorder.NewSQLiteRecorder("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	book := portfolio.NewBook(market.Holdings())
	desk := trade.NewDesk(rec, func(tr model.Trade) {
		quote, _ := market.Find(market.Catalog(), tr.Symbol)
		require.NoError(t, book.Apply(tr, quote))
	})
	desk.Check = func(o trade.Order) error { return book.CanApply(o.Symbol, o.Side, o.Shares) }

	return New(Deps{Collector: col, Desk: desk, Book: book, Dark: true}), book
}

func do(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestIndex(t *testing.T) {
	s, _ := newTestServer(t)
	w := do(t, s, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>StockPulse</title>")

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/missing", "").Code)
}

func TestStocksAndMarket(t *testing.T) {
	s, _ := newTestServer(t)

	stocks := decode[[]model.Stock](t, do(t, s, http.MethodGet, "/api/stocks?q=apple", ""))
	require.Len(t, stocks, 1)
	assert.Equal(t, "AAPL", stocks[0].Symbol)

	all := decode[[]model.Stock](t, do(t, s, http.MethodGet, "/api/stocks", ""))
	assert.Len(t, all, 8)

	m := decode[marketResponse](t, do(t, s, http.MethodGet, "/api/market", ""))
	assert.Equal(t, 5, m.Gainers)
	assert.Equal(t, 3, m.Losers)
	assert.False(t, m.Open)
	assert.Equal(t, "Closed", m.Status)
}

func TestCandles(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name   string
		target string
		code   int
		count  int
	}{
		{name: "default days", target: "/api/stocks/AAPL/candles", code: http.StatusOK, count: market.DefaultDays + 1},
		{name: "explicit days", target: "/api/stocks/msft/candles?days=10", code: http.StatusOK, count: 11},
		{name: "bad days", target: "/api/stocks/AAPL/candles?days=abc", code: http.StatusBadRequest},
		{name: "zero days", target: "/api/stocks/AAPL/candles?days=0", code: http.StatusBadRequest},
		{name: "unknown symbol", target: "/api/stocks/XYZ/candles", code: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodGet, tt.target, "")
			require.Equal(t, tt.code, w.Code, w.Body.String())
			if tt.code == http.StatusOK {
				assert.Len(t, decode[model.Series](t, w), tt.count)
			}
		})
	}
}

func TestStats(t *testing.T) {
	s, _ := newTestServer(t)

	st := decode[statsResponse](t, do(t, s, http.MethodGet, "/api/stocks/nvda/stats", ""))
	assert.Equal(t, "NVDA", st.Stock.Symbol)
	assert.Len(t, st.Stats, 6)
	assert.GreaterOrEqual(t, st.Indicators.PeriodHigh, st.Indicators.PeriodLow)

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/stocks/XYZ/stats", "").Code)
}

func TestChartSVG(t *testing.T) {
	s, _ := newTestServer(t)

	w := do(t, s, http.MethodGet, "/api/chart/AAPL.svg?width=800&theme=light", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "<svg"))
	assert.Contains(t, body, `width="800"`)
	assert.Contains(t, body, `height="360"`)
	assert.Equal(t, market.DefaultDays+1, strings.Count(body, `class="candle"`))

	small := do(t, s, http.MethodGet, "/api/chart/AAPL.svg?width=400&height=100", "")
	assert.Contains(t, small.Body.String(), `height="300"`, "height is raised to the minimum")

	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/chart/AAPL", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/api/chart/XYZ.svg", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/chart/AAPL.svg?width=-1", "").Code)
}

func TestSubmitTrade(t *testing.T) {
	s, book := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/trades", `{"symbol":"aapl","side":"buy","orderType":"market","shares":10}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	res := decode[tradeResponse](t, w)
	assert.Equal(t, "AAPL", res.Trade.Symbol)
	assert.Equal(t, 178.42, res.Trade.Price)
	assert.Equal(t, 1784.2, res.Trade.Total)
	assert.Equal(t, "Bought 10 shares of AAPL at $178.42", res.Toast.Title)
	assert.Equal(t, 60.0, book.Holdings()[0].Shares)

	w = do(t, s, http.MethodPost, "/api/trades", `{"symbol":"MSFT","side":"sell","orderType":"limit","shares":"5","limitPrice":"400"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, 400.0, decode[tradeResponse](t, w).Trade.Price)

	trades := decode[[]model.Trade](t, do(t, s, http.MethodGet, "/api/trades", ""))
	require.Len(t, trades, 2)
	assert.Equal(t, "MSFT", trades[0].Symbol, "newest first")

	limited := decode[[]model.Trade](t, do(t, s, http.MethodGet, "/api/trades?limit=1", ""))
	assert.Len(t, limited, 1)
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodGet, "/api/trades?limit=0", "").Code)

	p := decode[portfolioResponse](t, do(t, s, http.MethodGet, "/api/portfolio", ""))
	assert.Len(t, p.Holdings, 4)
	assert.Equal(t, portfolio.Summarize(p.Holdings), p.Summary)
}

func TestSubmitTrade_Rejected(t *testing.T) {
	s, _ := newTestServer(t)

	tests := []struct {
		name string
		body string
		code int
		msg  string
	}{
		{name: "negative shares", body: `{"symbol":"AAPL","side":"buy","shares":"-3"}`, code: http.StatusUnprocessableEntity, msg: "Please enter a valid number of shares"},
		{name: "missing limit", body: `{"symbol":"AAPL","side":"buy","orderType":"limit","shares":1}`, code: http.StatusUnprocessableEntity, msg: "Please enter a limit price"},
		{name: "oversell", body: `{"symbol":"NVDA","side":"sell","shares":1000}`, code: http.StatusUnprocessableEntity, msg: "Not enough shares to sell"},
		{name: "unknown symbol", body: `{"symbol":"XYZ","side":"buy","shares":1}`, code: http.StatusNotFound, msg: "unknown symbol: XYZ"},
		{name: "missing symbol", body: `{"side":"buy","shares":1}`, code: http.StatusNotFound, msg: "unknown symbol: "},
		{name: "bad side", body: `{"symbol":"AAPL","side":"hold","shares":1}`, code: http.StatusBadRequest, msg: "side must be buy or sell"},
		{name: "bad body", body: `{`, code: http.StatusBadRequest, msg: "invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, "/api/trades", tt.body)
			require.Equal(t, tt.code, w.Code, w.Body.String())
			assert.Equal(t, tt.msg, decode[errorResponse](t, w).Error)
		})
	}

	trades := decode[[]model.Trade](t, do(t, s, http.MethodGet, "/api/trades", ""))
	assert.Empty(t, trades)
}

type envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func readUntil(t *testing.T, conn *websocket.Conn, kind string) envelope {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		var env envelope
		require.NoError(t, conn.ReadJSON(&env))
		if env.Type == kind {
			return env
		}
	}
}

func TestWebsocketSession(t *testing.T) {
	s, _ := newTestServer(t)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer conn.Close()

	var layout layoutPayload
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "layout").Data, &layout))
	assert.Equal(t, "AAPL", layout.Symbol)
	assert.Equal(t, 960.0, layout.Width)
	require.Len(t, layout.Candles, market.DefaultDays+1)
	readUntil(t, conn, "market")

	c := layout.Candles[4]
	x := layout.Margins.Left + c.X + c.Width/2
	y := layout.Margins.Top + c.BodyY + c.BodyHeight/2
	require.NoError(t, conn.WriteJSON(clientMessage{Type: "pointer", X: x, Y: y}))

	var tip tooltipPayload
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "tooltip").Data, &tip))
	assert.True(t, tip.Visible)
	assert.Equal(t, 4, tip.Index)
	assert.InDelta(t, x, tip.X, 1e-9)
	assert.NotEmpty(t, tip.Lines)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "select", Symbol: "nvda"}))
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "layout").Data, &layout))
	assert.Equal(t, "NVDA", layout.Symbol)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "submit", Side: model.TradeBuy, Ticket: &trade.Ticket{Kind: model.OrderMarket, Shares: "abc"}}))
	var toast struct {
		Kind  string `json:"kind"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "toast").Data, &toast))
	assert.Equal(t, "error", toast.Kind)
	assert.Equal(t, "Please enter a valid number of shares", toast.Title)

	require.NoError(t, conn.WriteJSON(clientMessage{Type: "bogus"}))
	readUntil(t, conn, "error")

	s.Broadcast(true)
	var m marketResponse
	require.NoError(t, json.Unmarshal(readUntil(t, conn, "market").Data, &m))
	assert.True(t, m.Open)
}
