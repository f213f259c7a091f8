package main

import (
	"StockPulse/internal/config"
	"StockPulse/internal/market"
	"StockPulse/internal/model"
	"StockPulse/internal/portfolio"
	"StockPulse/internal/recorder"
	"StockPulse/internal/scheduler"
	"StockPulse/internal/trade"

	"github.com/rs/zerolog/log"
)

// app wires the components shared by every front end.
type app struct {
	collector *market.Collector
	book      *portfolio.Book
	desk      *trade.Desk
	session   *scheduler.Session
	rec       recorder.Recorder
}

func newApp(cfg *config.Config) (*app, error) {
	fetcher := market.NewMockFetcher(market.NewSeededGenerator(cfg.Generator.Seed))
	col := market.NewCollector(fetcher, cfg.Generator.Days)
	log.Info().Str("source", fetcher.Name()).Int("days", col.Days).Msg("market data ready")

	var rec recorder.Recorder
	if cfg.Database.SQLiteDSN != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLiteDSN)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	holdings, err := fetcher.FetchHoldings()
	if err != nil {
		return nil, err
	}
	book := portfolio.NewBook(holdings)
	stocks, _ := fetcher.FetchStocks()

	desk := newBookedDesk(rec, book, stocks)

	session, err := scheduler.NewSession(cfg.Market.Timezone, cfg.Market.OpenCron, cfg.Market.CloseCron, nil)
	if err != nil {
		rec.Close()
		return nil, err
	}

	return &app{collector: col, book: book, desk: desk, session: session, rec: rec}, nil
}

// newBookedDesk returns a desk that refuses sells the book cannot cover and
// books every accepted trade at the catalog quote.
func newBookedDesk(rec recorder.Recorder, book *portfolio.Book, stocks []model.Stock) *trade.Desk {
	desk := trade.NewDesk(rec, func(t model.Trade) {
		quote, _ := market.Find(stocks, t.Symbol)
		if err := book.Apply(t, quote); err != nil {
			log.Error().Err(err).Str("id", t.ID).Msg("trade not applied to portfolio")
		}
	})
	desk.Check = func(o trade.Order) error {
		return book.CanApply(o.Symbol, o.Side, o.Shares)
	}
	return desk
}

// start begins tracking the market session bells.
func (a *app) start() error {
	if err := a.session.RegisterAll(); err != nil {
		return err
	}
	a.session.Start()
	return nil
}

func (a *app) close() {
	a.session.Stop()
	if err := a.rec.Close(); err != nil {
		log.Warn().Err(err).Msg("close recorder")
	}
}
