package domain

import "time"

// Outcome of the binary contract a quote refers to.
type Outcome string

const (
	OutcomeYes Outcome = "YES"
	OutcomeNo  Outcome = "NO"
)

// Side of an order.
type Side string

const (
	SideBuy  Side = "BUY"
	SideSell Side = "SELL"
)

// Quote is one desired order: outcome, side, a lattice price and a size
// rounded to 2 decimals.
type Quote struct {
	Outcome Outcome
	Side    Side
	Price   float64
	Size    float64
}

// Value is the notional of the quote in USDC.
func (q Quote) Value() float64 {
	return q.Price * q.Size
}

// Order is a Quote with an identity: either a synthetic UUID (simulation) or
// the exchange-assigned order ID (live).
type Order struct {
	Quote
	ID       string
	PlacedAt time.Time
}

// FillLog records a realized fill for audit: the order, the book's best
// prices and the model's fair probability at fill time. Append-only.
type FillLog struct {
	Time     time.Time
	Outcome  Outcome
	Side     Side
	Size     float64
	Price    float64
	BestBid  float64
	BestAsk  float64
	FairProb float64
}

// CycleRecord is the per-cycle summary persisted for audit and shown on the
// console.
type CycleRecord struct {
	Time          time.Time
	FairProb      float64
	BestBid       float64
	BestAsk       float64
	Cash          float64
	PositionValue float64
	PnL           float64
	Fills         int
	PendingCount  int
}
