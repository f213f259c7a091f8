// Package server serves the dashboard over HTTP and websockets.
package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"StockPulse/internal/market"
	"StockPulse/internal/portfolio"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/trade"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	defaultTradeLimit = 20
	maxTradeLimit     = 500
	maxDays           = 3650
	shutdownTimeout   = 5 * time.Second
)

// ChartConfig sizes the charts served by the dashboard.
type ChartConfig struct {
	Width         float64
	MinHeight     float64
	TooltipOffset float64
}

// Deps are the shared components behind the HTTP surface.
type Deps struct {
	Collector *market.Collector
	Desk      *trade.Desk
	Book      *portfolio.Book
	// Session may be nil, in which case the market reports closed.
	Session *scheduler.Session
	Chart   ChartConfig
	Dark    bool
}

// Server is the HTTP dashboard.
type Server struct {
	deps     Deps
	mux      *http.ServeMux
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*wsSession]struct{}
}

// New creates a Server and registers its routes.
func New(deps Deps) *Server {
	if deps.Chart.Width <= 0 {
		deps.Chart.Width = 960
	}
	s := &Server{
		deps: deps,
		mux:  http.NewServeMux(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:   1024,
			WriteBufferSize:  16 * 1024,
			HandshakeTimeout: 10 * time.Second,
		},
		sessions: make(map[*wsSession]struct{}),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.HandleFunc("GET /api/stocks", s.handleStocks)
	s.mux.HandleFunc("GET /api/market", s.handleMarket)
	s.mux.HandleFunc("GET /api/stocks/{symbol}/candles", s.handleCandles)
	s.mux.HandleFunc("GET /api/stocks/{symbol}/stats", s.handleStats)
	s.mux.HandleFunc("GET /api/chart/{file}", s.handleChartSVG)
	s.mux.HandleFunc("POST /api/trades", s.handleSubmitTrade)
	s.mux.HandleFunc("GET /api/trades", s.handleTrades)
	s.mux.HandleFunc("GET /api/portfolio", s.handlePortfolio)
	s.mux.HandleFunc("GET /ws", s.handleWS)
}

// Handler returns the root handler with request logging.
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// MarketOpen reports the session clock status.
func (s *Server) MarketOpen() bool {
	if s.deps.Session == nil {
		return false
	}
	return s.deps.Session.Open()
}

// Broadcast forwards a market bell to every connected websocket.
func (s *Server) Broadcast(open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ws := range s.sessions {
		ws.notifyMarket(open)
	}
}

func (s *Server) register(ws *wsSession) {
	s.mu.Lock()
	s.sessions[ws] = struct{}{}
	s.mu.Unlock()
}

func (s *Server) unregister(ws *wsSession) {
	s.mu.Lock()
	delete(s.sessions, ws)
	s.mu.Unlock()
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("http dashboard listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down http dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Hijack passes through to the underlying writer so websocket upgrades work.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
