package engine

import (
	"math"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// BuildPlan turns inventory, capacity and the cycle's quotes into the
// desired order list: up to four quotes in a fixed order, unwind YES,
// unwind NO, open YES, open NO.
//
// Unwinds sell the whole held size at our passive quote; in snipe mode they
// cross into the opposing best level instead, capped by that level's resting
// size so we never sell more than the book can absorb at the price. Opens
// spend the whole remaining capacity at the passive quote; a snipe flips
// them to the aggressive price with the same liquidity cap.
//
// NO prices are always complements of the YES quotes. Sizes below the
// market's minimum are filtered later, during reconciliation.
func BuildPlan(pos domain.Position, maxInventory float64, q Quotes, book domain.OrderBook, grid domain.Grid) []domain.Quote {
	bestBid, bestAsk := normalizedBest(book, grid)
	bestBidSize := domain.RoundSize(book.BestBidSize())
	bestAskSize := domain.RoundSize(book.BestAskSize())

	longLeft := maxInventory - pos.Longs
	shortLeft := maxInventory - pos.Shorts

	plan := make([]domain.Quote, 0, 4)

	// Unwind existing inventory first.
	if pos.YesShares >= book.MinOrderSize {
		price := q.Ask
		size := domain.RoundSize(pos.YesShares)
		if q.SnipingBid {
			price = bestBid
			size = math.Min(bestBidSize, size)
		}
		plan = append(plan, domain.Quote{Outcome: domain.OutcomeYes, Side: domain.SideSell, Price: price, Size: size})
	}
	if pos.NoShares >= book.MinOrderSize {
		price := grid.RoundToTick(1 - q.Bid)
		size := domain.RoundSize(pos.NoShares)
		if q.SnipingAsk {
			price = grid.RoundToTick(1 - bestAsk)
			size = math.Min(bestAskSize, size)
		}
		plan = append(plan, domain.Quote{Outcome: domain.OutcomeNo, Side: domain.SideSell, Price: price, Size: size})
	}

	// Open new inventory with the remaining capacity.
	if longLeft >= 1 && !q.NoBid {
		price := q.Bid
		size := domain.RoundSize(longLeft / q.Bid)
		if q.SnipingAsk {
			price = bestAsk
			size = math.Min(domain.RoundSize(longLeft/bestAsk), bestAskSize)
		}
		plan = append(plan, domain.Quote{Outcome: domain.OutcomeYes, Side: domain.SideBuy, Price: price, Size: size})
	}
	if shortLeft >= 1 && !q.NoAsk {
		price := grid.RoundToTick(1 - q.Ask)
		size := domain.RoundSize(shortLeft / price)
		if q.SnipingBid {
			price = grid.RoundToTick(1 - bestBid)
			size = math.Min(domain.RoundSize(shortLeft/price), bestBidSize)
		}
		plan = append(plan, domain.Quote{Outcome: domain.OutcomeNo, Side: domain.SideBuy, Price: price, Size: size})
	}

	return plan
}
