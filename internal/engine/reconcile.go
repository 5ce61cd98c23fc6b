package engine

import (
	"log/slog"
	"math"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// priceTolerance absorbs float noise when comparing order prices against
// book levels. Tick sizes are 0.01 or 0.001, so 1e-6 is far below any
// meaningful price difference.
const priceTolerance = 1e-6

func closeTo(a, b float64) bool {
	return math.Abs(a-b) <= priceTolerance
}

// OrderState is the relationship between one order and the current book.
type OrderState int

const (
	// OrderResting means the order sits in the book without matching.
	OrderResting OrderState = iota
	// OrderFilled means the book moved strictly past a resting order's
	// price, so it must have traded.
	OrderFilled
	// OrderMarketable means the order matches or beats the opposing best
	// level and would trade on submission.
	OrderMarketable
)

// Classify decides what the book says about an order. The resting flag marks
// orders that were already on the book last cycle: only those can be filled,
// a fresh order that the book has moved past is simply marketable.
//
// NO orders are classified against the complement view of the YES book:
// the NO bid is 1 minus the YES ask and the NO ask is 1 minus the YES bid.
func Classify(q domain.Quote, book domain.OrderBook, resting bool) OrderState {
	bestBid := book.BestBid()
	bestAsk := book.BestAsk()

	var sameSide, opposite float64
	switch {
	case q.Outcome == domain.OutcomeYes && q.Side == domain.SideBuy:
		sameSide, opposite = bestBid, bestAsk
	case q.Outcome == domain.OutcomeYes && q.Side == domain.SideSell:
		sameSide, opposite = bestAsk, bestBid
	case q.Outcome == domain.OutcomeNo && q.Side == domain.SideBuy:
		sameSide, opposite = book.NoBestBid(), book.NoBestAsk()
	default: // NO sell
		sameSide, opposite = book.NoBestAsk(), book.NoBestBid()
	}

	if resting {
		// A resting buy above the current best bid (or sell below the
		// best ask) can only mean the level traded through.
		if q.Side == domain.SideBuy && sameSide < q.Price && !closeTo(sameSide, q.Price) {
			return OrderFilled
		}
		if q.Side == domain.SideSell && sameSide > q.Price && !closeTo(sameSide, q.Price) {
			return OrderFilled
		}
	}

	if q.Side == domain.SideBuy && (q.Price > opposite || closeTo(q.Price, opposite)) {
		return OrderMarketable
	}
	if q.Side == domain.SideSell && (q.Price < opposite || closeTo(q.Price, opposite)) {
		return OrderMarketable
	}

	return OrderResting
}

// Reconciler settles pending orders against fresh books and dedups new
// plans against what is already resting.
type Reconciler struct {
	minOrderSize float64
}

func NewReconciler(minOrderSize float64) Reconciler {
	return Reconciler{minOrderSize: minOrderSize}
}

// Settle partitions the pending orders into those still resting and those
// the book moved past, which are treated as filled at their limit price.
func (r Reconciler) Settle(pending []domain.Order, book domain.OrderBook) (kept, filled []domain.Order) {
	for _, o := range pending {
		if Classify(o.Quote, book, true) == OrderFilled {
			filled = append(filled, o)
		} else {
			kept = append(kept, o)
		}
	}
	return kept, filled
}

// Dedup reconciles the new plan against orders already resting on the book.
//
// A resting order that matches a plan entry on outcome, side and price is
// kept untouched and the plan entry shrinks by the resting size; if nothing
// remains above the market minimum the entry is dropped. Resting orders with
// no matching plan entry are superseded and returned for cancellation.
func (r Reconciler) Dedup(plan []domain.Quote, pending []domain.Order) (surviving []domain.Quote, kept, canceled []domain.Order) {
	matched := make([]bool, len(pending))

	for _, q := range plan {
		remaining := q.Size
		for i, o := range pending {
			if matched[i] {
				continue
			}
			if o.Outcome != q.Outcome || o.Side != q.Side || !closeTo(o.Price, q.Price) {
				continue
			}
			matched[i] = true
			kept = append(kept, o)
			// RoundSize floors negatives to 0, so check the raw remainder
			// before rounding clamps the violation away.
			raw := remaining - o.Size
			if raw < 0 && !closeTo(raw, 0) {
				slog.Warn("invariant violation: resting size exceeds plan size",
					"outcome", o.Outcome,
					"side", o.Side,
					"price", o.Price,
					"resting_size", o.Size,
					"plan_size", q.Size,
				)
			}
			remaining = domain.RoundSize(raw)
		}
		if remaining >= r.minOrderSize && remaining > 0 {
			q.Size = remaining
			surviving = append(surviving, q)
		}
	}

	for i, o := range pending {
		if !matched[i] {
			canceled = append(canceled, o)
		}
	}
	return surviving, kept, canceled
}
