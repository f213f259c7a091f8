package recorder

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"StockPulse/internal/model"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder stores the blotter in a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dsn string) (*SQLiteRecorder, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A shared in-memory database lives as long as one connection does.
	db.SetMaxOpenConns(1)

	if !strings.Contains(dsn, "mode=memory") && !strings.Contains(dsn, ":memory:") {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("set WAL mode: %w", err)
		}
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("dsn", dsn).Msg("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			trade_id   TEXT NOT NULL UNIQUE,
			timestamp  INTEGER NOT NULL,
			symbol     TEXT NOT NULL,
			side       TEXT NOT NULL,
			order_type TEXT NOT NULL,
			shares     REAL,
			price      REAL,
			total      REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades(timestamp)`,
	}
	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordTrade(t *model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO trades
		(trade_id, timestamp, symbol, side, order_type, shares, price, total)
		VALUES (?,?,?,?,?,?,?,?)`,
		t.ID, t.Timestamp.UnixNano(), t.Symbol, string(t.Type), string(t.OrderType),
		t.Shares, t.Price, t.Total,
	)
	if err != nil {
		return fmt.Errorf("insert trade %s: %w", t.ID, err)
	}
	return nil
}

func (r *SQLiteRecorder) RecentTrades(limit int) ([]model.Trade, error) {
	if limit <= 0 {
		return nil, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT trade_id, timestamp, symbol, side, order_type, shares, price, total
		FROM trades ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query trades: %w", err)
	}
	defer rows.Close()

	var trades []model.Trade
	for rows.Next() {
		var (
			t          model.Trade
			ts         int64
			side, kind string
		)
		if err := rows.Scan(&t.ID, &ts, &t.Symbol, &side, &kind, &t.Shares, &t.Price, &t.Total); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.Timestamp = time.Unix(0, ts)
		t.Type = model.TradeType(side)
		t.OrderType = model.OrderType(kind)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	log.Info().Msg("closing sqlite recorder")
	return r.db.Close()
}
