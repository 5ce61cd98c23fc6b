package domain

import "time"

// Kline is one closed candle from the price feed; only the close is needed
// to maintain the log-return window.
type Kline struct {
	OpenTime time.Time
	Close    float64
}
