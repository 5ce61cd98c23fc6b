package engine

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// Quotes is the two-sided quoting decision for one cycle.
//
// NoBid/NoAsk mean the fair value minus/plus the risk margin left the (0,1)
// band, so that side must not quote at all. SnipingBid/SnipingAsk mean the
// book already prices in more edge than the margin demands: the right move
// is to cross into the resting order instead of quoting passively.
type Quotes struct {
	Bid        float64
	Ask        float64
	NoBid      bool
	NoAsk      bool
	SnipingBid bool
	SnipingAsk bool
}

// GenerateQuotes turns the fair probability and the current best prices into
// a two-sided quote on the tick lattice.
//
// The bid never improves the book by more than one tick (min with
// bestBid+tick) and the ask mirrors that on the way down. Empty book sides
// arrive as the 0/1 sentinels and fall through the same arithmetic.
func GenerateQuotes(pFair, riskThreshold float64, book domain.OrderBook, grid domain.Grid) (Quotes, error) {
	if math.IsNaN(pFair) || math.IsInf(pFair, 0) {
		return Quotes{}, fmt.Errorf("engine.GenerateQuotes: fair probability not finite: %v", pFair)
	}

	bestBid, bestAsk := normalizedBest(book, grid)

	var q Quotes

	bid := pFair - riskThreshold
	if bid < 0 {
		q.NoBid = true
		q.Bid = grid.Clamp(0)
	} else {
		bid = grid.FloorToTick(bid)
		q.Bid = grid.RoundToTick(math.Min(bid, bestBid+grid.Tick))
	}

	ask := pFair + riskThreshold
	if ask > 1 {
		q.NoAsk = true
		q.Ask = grid.Clamp(1)
	} else {
		ask = grid.CeilToTick(ask)
		q.Ask = grid.RoundToTick(math.Max(ask, bestAsk-grid.Tick))
	}

	q.SnipingBid = bestBid-riskThreshold > pFair
	q.SnipingAsk = bestAsk+riskThreshold < pFair
	if q.SnipingBid && q.SnipingAsk {
		// Cannot hold with a positive margin on an uncrossed book.
		slog.Warn("invariant violation: snipe flags set on both sides",
			"best_bid", bestBid,
			"best_ask", bestAsk,
			"p_fair", pFair,
			"risk_threshold", riskThreshold,
		)
	}

	return q, nil
}

// normalizedBest returns the book's best prices snapped to the lattice.
// The 0/1 sentinels of an empty side pass through unrounded.
func normalizedBest(book domain.OrderBook, grid domain.Grid) (bestBid, bestAsk float64) {
	bestBid, bestAsk = 0, 1
	if len(book.Bids) > 0 {
		bestBid = grid.RoundToTick(book.Bids[0].Price)
	}
	if len(book.Asks) > 0 {
		bestAsk = grid.RoundToTick(book.Asks[0].Price)
	}
	return bestBid, bestAsk
}
