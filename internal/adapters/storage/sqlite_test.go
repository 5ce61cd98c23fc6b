package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveFills_Roundtrip(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now().UTC().Truncate(time.Second)

	fills := []domain.FillLog{
		{Time: now, Outcome: domain.OutcomeYes, Side: domain.SideBuy, Size: 10.2, Price: 0.49, BestBid: 0.48, BestAsk: 0.52, FairProb: 0.51},
		{Time: now, Outcome: domain.OutcomeNo, Side: domain.SideSell, Size: 7, Price: 0.46, BestBid: 0.48, BestAsk: 0.52, FairProb: 0.51},
	}
	require.NoError(t, s.SaveFills(context.Background(), fills))

	rows, err := s.db.Query(`SELECT outcome, side, size, price FROM fills ORDER BY id`)
	require.NoError(t, err)
	defer rows.Close()

	var got []domain.FillLog
	for rows.Next() {
		var f domain.FillLog
		require.NoError(t, rows.Scan(&f.Outcome, &f.Side, &f.Size, &f.Price))
		got = append(got, f)
	}
	require.NoError(t, rows.Err())
	require.Len(t, got, 2)
	assert.Equal(t, domain.OutcomeYes, got[0].Outcome)
	assert.Equal(t, domain.SideBuy, got[0].Side)
	assert.Equal(t, 10.2, got[0].Size)
	assert.Equal(t, domain.SideSell, got[1].Side)
	assert.Equal(t, 0.46, got[1].Price)
}

func TestSaveFills_EmptyIsNoop(t *testing.T) {
	s := newTestStorage(t)
	require.NoError(t, s.SaveFills(context.Background(), nil))

	var n int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM fills`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestSaveCycle(t *testing.T) {
	s := newTestStorage(t)

	rec := domain.CycleRecord{
		Time:          time.Now().UTC(),
		FairProb:      0.52,
		BestBid:       0.48,
		BestAsk:       0.53,
		Cash:          4.9,
		PositionValue: 5.1,
		PnL:           0.0,
		Fills:         1,
		PendingCount:  2,
	}
	require.NoError(t, s.SaveCycle(context.Background(), rec))

	var pnl float64
	var pending int
	require.NoError(t, s.db.QueryRow(`SELECT pnl, pending FROM cycles`).Scan(&pnl, &pending))
	assert.Equal(t, 0.0, pnl)
	assert.Equal(t, 2, pending)
}

func TestPruneOld_DropsExpiredRows(t *testing.T) {
	s := newTestStorage(t)
	now := time.Now().UTC()

	_, err := s.db.Exec(
		`INSERT INTO fills (filled_at, outcome, side, size, price) VALUES (?, 'YES', 'BUY', 1, 0.5)`,
		now.Add(-retentionFills-time.Hour))
	require.NoError(t, err)
	_, err = s.db.Exec(`INSERT INTO cycles (cycled_at) VALUES (?)`, now.Add(-retentionCycles-time.Hour))
	require.NoError(t, err)
	require.NoError(t, s.SaveCycle(context.Background(), domain.CycleRecord{Time: now}))

	s.pruneOld(context.Background())

	var fills, cycles int
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM fills`).Scan(&fills))
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM cycles`).Scan(&cycles))
	assert.Equal(t, 0, fills)
	assert.Equal(t, 1, cycles)
}
