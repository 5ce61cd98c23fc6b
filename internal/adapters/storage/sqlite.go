package storage

// sqlite.go persists the audit trail: every fill and a one-row summary per
// cycle. Write-only history, nothing is read back into bot state; prune on
// startup keeps the file small.

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

const schema = `
-- One row per realized fill
CREATE TABLE IF NOT EXISTS fills (
    id        INTEGER PRIMARY KEY AUTOINCREMENT,
    filled_at DATETIME NOT NULL,
    outcome   TEXT     NOT NULL,
    side      TEXT     NOT NULL,
    size      REAL     NOT NULL,
    price     REAL     NOT NULL,
    best_bid  REAL     NOT NULL DEFAULT 0,
    best_ask  REAL     NOT NULL DEFAULT 0,
    fair_prob REAL     NOT NULL DEFAULT 0
);

-- One row per quoting cycle
CREATE TABLE IF NOT EXISTS cycles (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    cycled_at      DATETIME NOT NULL,
    fair_prob      REAL     NOT NULL DEFAULT 0,
    best_bid       REAL     NOT NULL DEFAULT 0,
    best_ask       REAL     NOT NULL DEFAULT 0,
    cash           REAL     NOT NULL DEFAULT 0,
    position_value REAL     NOT NULL DEFAULT 0,
    pnl            REAL     NOT NULL DEFAULT 0,
    fills          INTEGER  NOT NULL DEFAULT 0,
    pending        INTEGER  NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_fills_at  ON fills(filled_at DESC);
CREATE INDEX IF NOT EXISTS idx_cycles_at ON cycles(cycled_at DESC);
`

const (
	retentionFills  = 30 * 24 * time.Hour
	retentionCycles = 7 * 24 * time.Hour
)

// SQLiteStorage implements ports.AuditStorage using SQLite (pure Go, no
// CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens (or creates) the database at the given path,
// applies the schema and prunes old rows.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveFills appends the cycle's realized fills.
func (s *SQLiteStorage) SaveFills(ctx context.Context, fills []domain.FillLog) error {
	if len(fills) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage.SaveFills: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO fills (filled_at, outcome, side, size, price, best_bid, best_ask, fair_prob)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("storage.SaveFills: prepare: %w", err)
	}
	defer stmt.Close()

	for _, f := range fills {
		if _, err := stmt.ExecContext(ctx,
			f.Time.UTC(), string(f.Outcome), string(f.Side),
			f.Size, f.Price, f.BestBid, f.BestAsk, f.FairProb,
		); err != nil {
			return fmt.Errorf("storage.SaveFills: insert: %w", err)
		}
	}
	return tx.Commit()
}

// SaveCycle appends a one-row summary of the cycle.
func (s *SQLiteStorage) SaveCycle(ctx context.Context, rec domain.CycleRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cycles (cycled_at, fair_prob, best_bid, best_ask, cash, position_value, pnl, fills, pending)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Time.UTC(), rec.FairProb, rec.BestBid, rec.BestAsk,
		rec.Cash, rec.PositionValue, rec.PnL, rec.Fills, rec.PendingCount,
	)
	if err != nil {
		return fmt.Errorf("storage.SaveCycle: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	now := time.Now().UTC()
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM fills WHERE filled_at < ?`, now.Add(-retentionFills),
	); err != nil {
		slog.Warn("pruning fills failed", "err", err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM cycles WHERE cycled_at < ?`, now.Add(-retentionCycles),
	); err != nil {
		slog.Warn("pruning cycles failed", "err", err)
	}
}
