package ports

import (
	"context"
	"time"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// PriceProvider serves spot prices of the underlying asset.
type PriceProvider interface {
	// LatestPrice returns the current spot price.
	LatestPrice(ctx context.Context) (float64, error)

	// OpenPrice returns the open of the current 1h candle, the settlement
	// target of the running hourly market.
	OpenPrice(ctx context.Context) (float64, error)
}

// CandleProvider serves closed 1m candles for the log-return window.
type CandleProvider interface {
	// Klines returns up to limit 1m candles starting strictly after since.
	// A zero since fetches the most recent candles.
	Klines(ctx context.Context, since time.Time, limit int) ([]domain.Kline, error)
}

// EventProvider resolves the currently running hourly market.
type EventProvider interface {
	// CurrentSession finds the hourly up-or-down event for the asset and
	// returns it as a Session with both token IDs resolved.
	CurrentSession(ctx context.Context, asset domain.Asset) (domain.Session, error)
}

// BookProvider fetches the YES-side order book of a market.
type BookProvider interface {
	FetchOrderBook(ctx context.Context, tokenID string) (domain.OrderBook, error)
}

// ReturnsProvider serves the maintained window of historical 1m log returns.
type ReturnsProvider interface {
	Returns() []float64
}

// ProbabilityModel estimates the chance that the asset closes above the
// target price within the horizon. May take non-trivial time; called
// synchronously once per cycle.
type ProbabilityModel interface {
	FairProbability(ctx context.Context, returns []float64, currentPrice, targetPrice float64, horizonMinutes, numSimulations int) (float64, error)
}
