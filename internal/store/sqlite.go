package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"MarketForecast/internal/model"
)

// SQLiteStore persists price histories to a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	mu  sync.Mutex
	log zerolog.Logger
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string, log zerolog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db, log: log}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("sqlite price store opened")
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS price_series (
			symbol     TEXT PRIMARY KEY,
			source     TEXT,
			fetched_at INTEGER NOT NULL,
			points     INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS price_bars (
			symbol    TEXT NOT NULL,
			seq       INTEGER NOT NULL,
			timestamp INTEGER,
			open      REAL,
			high      REAL,
			low       REAL,
			close     REAL NOT NULL,
			volume    REAL,
			PRIMARY KEY (symbol, seq)
		)`,
	}

	for _, st := range stmts {
		if _, err := s.db.Exec(st); err != nil {
			return fmt.Errorf("exec %q: %w", st[:40], err)
		}
	}
	return nil
}

// SaveSeries replaces the cached history of series.Symbol.
func (s *SQLiteStore) SaveSeries(series *model.PriceSeries) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM price_bars WHERE symbol = ?`, series.Symbol); err != nil {
		return fmt.Errorf("clear bars: %w", err)
	}
	stmt, err := tx.Prepare(`INSERT INTO price_bars
		(symbol, seq, timestamp, open, high, low, close, volume)
		VALUES (?,?,?,?,?,?,?,?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, b := range series.Bars {
		var ts int64
		if !b.Time.IsZero() {
			ts = b.Time.Unix()
		}
		if _, err := stmt.Exec(series.Symbol, i, ts, b.Open, b.High, b.Low, b.Close, b.Volume); err != nil {
			return fmt.Errorf("insert bar %d: %w", i, err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO price_series (symbol, source, fetched_at, points)
		VALUES (?,?,?,?)
		ON CONFLICT(symbol) DO UPDATE SET source = excluded.source,
			fetched_at = excluded.fetched_at, points = excluded.points`,
		series.Symbol, series.Source, series.FetchedAt.Unix(), len(series.Bars),
	); err != nil {
		return fmt.Errorf("upsert series: %w", err)
	}
	return tx.Commit()
}

// LoadSeries returns the cached history of symbol in chronological order.
func (s *SQLiteStore) LoadSeries(symbol string) (*model.PriceSeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	series := &model.PriceSeries{Symbol: symbol}
	var fetchedAt int64
	err := s.db.QueryRow(`SELECT source, fetched_at FROM price_series WHERE symbol = ?`, symbol).
		Scan(&series.Source, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotCached, symbol)
	}
	if err != nil {
		return nil, fmt.Errorf("query series: %w", err)
	}
	series.FetchedAt = time.Unix(fetchedAt, 0)

	rows, err := s.db.Query(`SELECT timestamp, open, high, low, close, volume
		FROM price_bars WHERE symbol = ? ORDER BY seq`, symbol)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var b model.OHLCV
		var ts int64
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		if ts != 0 {
			b.Time = time.Unix(ts, 0)
		}
		series.Bars = append(series.Bars, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars: %w", err)
	}
	return series, nil
}

func (s *SQLiteStore) Close() error {
	s.log.Info().Msg("closing sqlite price store")
	return s.db.Close()
}
