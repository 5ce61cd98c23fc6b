package engine

import (
	"math"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// ApplyFill books one executed quote into the position. Buys spend cash and
// add shares, sells do the reverse. Longs and Shorts carry the net notional
// committed per outcome and bound how much new inventory the plan may open.
func ApplyFill(pos *domain.Position, q domain.Quote) {
	value := q.Value()
	switch q.Side {
	case domain.SideBuy:
		pos.Cash -= value
		if q.Outcome == domain.OutcomeYes {
			pos.YesShares += q.Size
			pos.Longs += value
		} else {
			pos.NoShares += q.Size
			pos.Shorts += value
		}
	case domain.SideSell:
		pos.Cash += value
		if q.Outcome == domain.OutcomeYes {
			pos.YesShares -= q.Size
			pos.Longs -= value
		} else {
			pos.NoShares -= q.Size
			pos.Shorts -= value
		}
	}
}

// PendingExposure sums the notional of unfilled orders per outcome. Buys add
// exposure and sells subtract, so a symmetric unwind plus re-open nets out.
func PendingExposure(pending []domain.Order) (longs, shorts float64) {
	for _, o := range pending {
		value := o.Value()
		if o.Side == domain.SideSell {
			value = -value
		}
		if o.Outcome == domain.OutcomeYes {
			longs += value
		} else {
			shorts += value
		}
	}
	return longs, shorts
}

// MarkToMarket values the held shares by walking the book depth on the side
// we would sell into. YES shares consume bid levels top down; NO shares
// consume ask levels priced at their complement. Positions below the market
// minimum are unsellable and valued at zero, and depth beyond the book
// yields nothing.
func MarkToMarket(pos domain.Position, book domain.OrderBook, minOrderSize float64) float64 {
	var value float64
	if pos.YesShares >= minOrderSize {
		value += sellValue(pos.YesShares, book.Bids, false)
	}
	if pos.NoShares >= minOrderSize {
		value += sellValue(pos.NoShares, book.Asks, true)
	}
	return value
}

func sellValue(shares float64, levels []domain.BookEntry, complement bool) float64 {
	remaining := shares
	var value float64
	for _, lvl := range levels {
		if remaining < 0.01 {
			break
		}
		price := lvl.Price
		if complement {
			price = 1 - price
		}
		take := math.Min(remaining, lvl.Size)
		value += take * price
		remaining -= take
	}
	return value
}

// Rollover clears the share inventory at the hourly session boundary. The
// expired market resolves the shares to their settlement value out of band;
// cash and the committed notional counters carry across sessions untouched.
func Rollover(pos *domain.Position) {
	pos.YesShares = 0
	pos.NoShares = 0
}
