package server

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"StockPulse/internal/chart"
	"StockPulse/internal/market"
	"StockPulse/internal/model"
	"StockPulse/internal/notifier"
	"StockPulse/internal/portfolio"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/trade"

	"github.com/rs/zerolog/log"
)

//go:embed static/index.html
var static embed.FS

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeLookupError maps unknown symbols to 404 and everything else to 500.
func writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, market.ErrUnknownSymbol) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	log.Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal error")
}

// intParam parses an optional positive integer query parameter.
func intParam(r *http.Request, name string, def, max int) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, errors.New(name + " must be a positive integer")
	}
	if n > max {
		n = max
	}
	return n, nil
}

func floatParam(r *http.Request, name string) (float64, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, errors.New(name + " must be a non-negative number")
	}
	return f, nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "page missing")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) handleStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := s.deps.Collector.Stocks(r.URL.Query().Get("q"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stocks)
}

func (s *Server) marketSummary() (market.Summary, error) {
	stocks, err := s.deps.Collector.Stocks("")
	if err != nil {
		return market.Summary{}, err
	}
	sum := market.Summarize(stocks)
	sum.Open = s.MarketOpen()
	return sum, nil
}

type marketResponse struct {
	market.Summary
	Status string `json:"status"`
}

func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	sum, err := s.marketSummary()
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, marketResponse{Summary: sum, Status: scheduler.StatusText(sum.Open)})
}

func (s *Server) handleCandles(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", s.deps.Collector.Days, maxDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	series, err := s.deps.Collector.Fetcher.FetchDailyBars(r.PathValue("symbol"), days)
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, series)
}

type statsResponse struct {
	Stock      model.Stock        `json:"stock"`
	Stats      []notifier.StatRow `json:"stats"`
	Indicators market.Indicators  `json:"indicators"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	snap, err := s.deps.Collector.Collect(r.PathValue("symbol"))
	if err != nil {
		writeLookupError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		Stock:      snap.Stock,
		Stats:      notifier.FormatKeyStats(&snap.Stock),
		Indicators: snap.Indicators,
	})
}

// geometry fits the configured chart to the requested size. Missing
// dimensions fall back to the configured width and the fitted height.
func (s *Server) geometry(width, height float64) chart.Geometry {
	if width <= 0 {
		width = s.deps.Chart.Width
	}
	geo := chart.FitViewport(width)
	if height > 0 {
		geo.Height = height
	}
	minH := s.deps.Chart.MinHeight
	if minH <= 0 {
		minH = chart.MinHeight
	}
	if geo.Height < minH {
		geo.Height = minH
	}
	if s.deps.Chart.TooltipOffset > 0 {
		geo.TooltipOffset = s.deps.Chart.TooltipOffset
	}
	return geo
}

func (s *Server) handleChartSVG(w http.ResponseWriter, r *http.Request) {
	symbol, ok := strings.CutSuffix(r.PathValue("file"), ".svg")
	if !ok || symbol == "" {
		http.NotFound(w, r)
		return
	}
	width, err := floatParam(r, "width")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	height, err := floatParam(r, "height")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.deps.Collector.Collect(symbol)
	if err != nil {
		writeLookupError(w, err)
		return
	}

	dark := s.deps.Dark
	if t := r.URL.Query().Get("theme"); t != "" {
		dark = t != "light"
	}
	layout := chart.Layout(snap.Series, s.geometry(width, height))

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(chart.RenderSVG(layout, chart.ThemeFor(dark))))
}

// flexString accepts a JSON string or number and keeps its text.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if string(b) == "null" {
		*f = ""
		return nil
	}
	*f = flexString(b)
	return nil
}

type tradeRequest struct {
	Symbol     string          `json:"symbol"`
	Side       model.TradeType `json:"side"`
	OrderType  model.OrderType `json:"orderType"`
	Shares     flexString      `json:"shares"`
	LimitPrice flexString      `json:"limitPrice"`
}

type tradeResponse struct {
	Trade model.Trade    `json:"trade"`
	Toast notifier.Toast `json:"toast"`
}

func (s *Server) handleSubmitTrade(w http.ResponseWriter, r *http.Request) {
	var req tradeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Side != model.TradeBuy && req.Side != model.TradeSell {
		writeError(w, http.StatusBadRequest, "side must be buy or sell")
		return
	}

	stocks, err := s.deps.Collector.Fetcher.FetchStocks()
	if err != nil {
		writeLookupError(w, err)
		return
	}
	stock, ok := market.Find(stocks, req.Symbol)
	if !ok {
		writeLookupError(w, fmt.Errorf("%w: %s", market.ErrUnknownSymbol, req.Symbol))
		return
	}

	ticket := trade.Ticket{Kind: req.OrderType, Shares: string(req.Shares), LimitPrice: string(req.LimitPrice)}
	t, err := s.deps.Desk.Submit(&stock, ticket, req.Side)
	if err != nil {
		if trade.Rejected(err) {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: trade.Message(err)})
			return
		}
		log.Error().Err(err).Msg("submit trade")
		writeError(w, http.StatusInternalServerError, "trade failed")
		return
	}
	writeJSON(w, http.StatusCreated, tradeResponse{Trade: t, Toast: notifier.FormatTradeConfirmation(&t)})
}

func (s *Server) handleTrades(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultTradeLimit, maxTradeLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	trades, err := s.deps.Desk.Recent(limit)
	if err != nil {
		log.Error().Err(err).Msg("list trades")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if trades == nil {
		trades = []model.Trade{}
	}
	writeJSON(w, http.StatusOK, trades)
}

type portfolioResponse struct {
	Holdings []model.Holding   `json:"holdings"`
	Summary  portfolio.Summary `json:"summary"`
}

func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	holdings := s.deps.Book.Holdings()
	writeJSON(w, http.StatusOK, portfolioResponse{Holdings: holdings, Summary: portfolio.Summarize(holdings)})
}
