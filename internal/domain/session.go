package domain

import (
	"math"
	"time"
)

// Asset is the underlying an hourly up-or-down market settles on.
type Asset string

const (
	AssetBitcoin  Asset = "bitcoin"
	AssetEthereum Asset = "ethereum"
	AssetSolana   Asset = "solana"
	AssetXRP      Asset = "xrp"
)

// Session is one hourly market: the event being quoted, the price the hour
// opened at (the settlement target) and when the market closes. A new
// session is created at start and on every rollover.
type Session struct {
	EventSlug   string
	Question    string
	ConditionID string
	YesTokenID  string
	NoTokenID   string
	OpenPrice   float64
	CloseAt     time.Time
}

// Expired reports whether the session's close timestamp has been reached.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.CloseAt)
}

// HorizonMinutes returns the simulation horizon until close, at least 1.
func (s Session) HorizonMinutes(now time.Time) int {
	mins := s.CloseAt.Sub(now).Minutes()
	if mins < 1 {
		return 1
	}
	return int(math.Round(mins))
}

// NextHourClose returns the upcoming full-hour boundary, which is when the
// current hourly market settles.
func NextHourClose(now time.Time) time.Time {
	return now.Truncate(time.Hour).Add(time.Hour)
}
