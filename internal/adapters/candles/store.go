package candles

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/alejandrodnm/updownbot/internal/domain"
	"github.com/alejandrodnm/updownbot/internal/ports"
)

// Binance closes the 1-minute candle shortly after the boundary, so each
// update waits this long past the minute before fetching.
const boundaryDelay = time.Second

const fetchLimit = 1000

type row struct {
	openTime  time.Time
	close     float64
	logReturn float64
}

// Store maintains a sliding window of 1-minute log returns in a CSV file
// and serves them to the probability model. It implements
// ports.ReturnsProvider.
type Store struct {
	mu         sync.Mutex
	path       string
	windowSize int
	source     ports.CandleProvider
	rows       []row
}

// NewStore creates a Store backed by the CSV file at path. Existing rows
// are loaded; call Backfill to seed an empty file.
func NewStore(path string, windowSize int, source ports.CandleProvider) (*Store, error) {
	s := &Store{path: path, windowSize: windowSize, source: source}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("candles.NewStore: %w", err)
	}
	return s, nil
}

// Returns yields a copy of the current log-return window, oldest first.
func (s *Store) Returns() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]float64, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.logReturn
	}
	return out
}

// Len returns the number of stored returns.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rows)
}

// Backfill seeds the window with historical candles when the file is empty
// or shorter than the window.
func (s *Store) Backfill(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.backfill(ctx)
}

func (s *Store) backfill(ctx context.Context) error {
	if len(s.rows) >= s.windowSize {
		return nil
	}
	slog.Info("backfilling candle history", "window", s.windowSize, "have", len(s.rows))

	// The window needs one extra candle: the first return consumes two
	// closes.
	var since time.Time
	klines, err := s.source.Klines(ctx, since, fetchLimit)
	if err != nil {
		return fmt.Errorf("candles.Backfill: %w", err)
	}
	for len(klines) > 0 && len(klines) < s.windowSize+1 {
		first := klines[0].OpenTime
		older, err := s.source.Klines(ctx, first.Add(-time.Duration(fetchLimit+1)*time.Minute), fetchLimit)
		if err != nil {
			return fmt.Errorf("candles.Backfill: %w", err)
		}
		older = trimBefore(older, first)
		if len(older) == 0 {
			break
		}
		klines = append(older, klines...)
	}

	s.rows = computeReturns(nil, klines)
	s.prune()
	if err := s.flush(); err != nil {
		return fmt.Errorf("candles.Backfill: %w", err)
	}
	slog.Info("backfill complete", "returns", len(s.rows))
	return nil
}

// Update fetches candles newer than the last stored one, appends their log
// returns and rewrites the file.
func (s *Store) Update(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rows) == 0 {
		return s.backfill(ctx)
	}

	last := s.rows[len(s.rows)-1]
	klines, err := s.source.Klines(ctx, last.openTime, fetchLimit)
	if err != nil {
		return fmt.Errorf("candles.Update: %w", err)
	}
	if len(klines) == 0 {
		return nil
	}

	s.rows = append(s.rows, computeReturns(&last, klines)...)
	s.prune()
	if err := s.flush(); err != nil {
		return fmt.Errorf("candles.Update: %w", err)
	}
	return nil
}

// Run updates the window once per minute, aligned to candle boundaries,
// until the context is canceled. onUpdate runs after each successful update.
func (s *Store) Run(ctx context.Context, onUpdate func()) {
	for {
		wait := time.Until(time.Now().Truncate(time.Minute).Add(time.Minute + boundaryDelay))
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}

		if err := s.Update(ctx); err != nil {
			slog.Warn("candle update failed", "err", err)
			continue
		}
		if onUpdate != nil {
			onUpdate()
		}
	}
}

// computeReturns builds rows from consecutive closes. prev supplies the
// close preceding the first kline; nil drops the first kline into the
// baseline instead.
func computeReturns(prev *row, klines []domain.Kline) []row {
	rows := make([]row, 0, len(klines))
	var lastClose float64
	if prev != nil {
		lastClose = prev.close
	}
	for _, k := range klines {
		if lastClose > 0 {
			rows = append(rows, row{
				openTime:  k.OpenTime,
				close:     k.Close,
				logReturn: math.Log(k.Close / lastClose),
			})
		}
		lastClose = k.Close
	}
	return rows
}

func trimBefore(klines []domain.Kline, cutoff time.Time) []domain.Kline {
	out := klines[:0]
	for _, k := range klines {
		if k.OpenTime.Before(cutoff) {
			out = append(out, k)
		}
	}
	return out
}

func (s *Store) prune() {
	sort.Slice(s.rows, func(i, j int) bool { return s.rows[i].openTime.Before(s.rows[j].openTime) })
	if len(s.rows) > s.windowSize {
		s.rows = s.rows[len(s.rows)-s.windowSize:]
	}
}

func (s *Store) load() error {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	for i, rec := range records {
		if i == 0 {
			continue // header
		}
		if len(rec) != 3 {
			return fmt.Errorf("%s: row %d has %d fields", s.path, i, len(rec))
		}
		openTime, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return fmt.Errorf("%s: row %d open_time: %w", s.path, i, err)
		}
		closePrice, err := strconv.ParseFloat(rec[1], 64)
		if err != nil {
			return fmt.Errorf("%s: row %d close: %w", s.path, i, err)
		}
		logReturn, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return fmt.Errorf("%s: row %d log_return: %w", s.path, i, err)
		}
		s.rows = append(s.rows, row{openTime: openTime, close: closePrice, logReturn: logReturn})
	}
	s.prune()
	return nil
}

// flush rewrites the whole file. Writes go through a temp file and rename
// so a crash never leaves a truncated window behind.
func (s *Store) flush() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "returns-*.csv")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write([]string{"open_time", "close", "log_return"}); err != nil {
		tmp.Close()
		return err
	}
	for _, r := range s.rows {
		rec := []string{
			r.openTime.UTC().Format(time.RFC3339),
			strconv.FormatFloat(r.close, 'f', -1, 64),
			strconv.FormatFloat(r.logReturn, 'g', -1, 64),
		}
		if err := w.Write(rec); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
