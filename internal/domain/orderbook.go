package domain

// OrderBook is the YES-side book of a binary market. The NO side has no book
// of its own: NO prices are derived as complements of the YES book so the two
// views can never drift apart.
type OrderBook struct {
	TokenID      string
	Bids         []BookEntry // ordered best (highest) first
	Asks         []BookEntry // ordered best (lowest) first
	TickSize     float64
	MinOrderSize float64
}

// BookEntry is one price level.
type BookEntry struct {
	Price float64
	Size  float64
}

// BestBid returns the highest bid, or the 0 sentinel for an empty side.
func (ob OrderBook) BestBid() float64 {
	if len(ob.Bids) == 0 {
		return 0
	}
	return ob.Bids[0].Price
}

// BestAsk returns the lowest ask, or the 1 sentinel for an empty side.
func (ob OrderBook) BestAsk() float64 {
	if len(ob.Asks) == 0 {
		return 1
	}
	return ob.Asks[0].Price
}

// BestBidSize returns the size resting at the best bid, 0 if none.
func (ob OrderBook) BestBidSize() float64 {
	if len(ob.Bids) == 0 {
		return 0
	}
	return ob.Bids[0].Size
}

// BestAskSize returns the size resting at the best ask, 0 if none.
func (ob OrderBook) BestAskSize() float64 {
	if len(ob.Asks) == 0 {
		return 0
	}
	return ob.Asks[0].Size
}

// NoBestBid is the best bid of the derived NO view: someone asking YES at p
// is bidding NO at 1-p.
func (ob OrderBook) NoBestBid() float64 {
	return 1 - ob.BestAsk()
}

// NoBestAsk is the best ask of the derived NO view.
func (ob OrderBook) NoBestAsk() float64 {
	return 1 - ob.BestBid()
}

// Midpoint between best bid and ask. 0 when either side is empty.
func (ob OrderBook) Midpoint() float64 {
	if len(ob.Bids) == 0 || len(ob.Asks) == 0 {
		return 0
	}
	return (ob.BestBid() + ob.BestAsk()) / 2
}

// Spread (ask - bid). 0 when either side is empty.
func (ob OrderBook) Spread() float64 {
	if len(ob.Bids) == 0 || len(ob.Asks) == 0 {
		return 0
	}
	return ob.BestAsk() - ob.BestBid()
}
