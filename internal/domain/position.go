package domain

// Position is the per-session inventory state. Longs/Shorts accumulate the
// notional spent on YES/NO inventory and bound how much new exposure the
// planner may open. PendingLongs/PendingShorts track resting-but-unfilled
// exposure and are recomputed every cycle from the pending order set.
//
// Only realized fills mutate a Position; pending orders never do.
type Position struct {
	YesShares     float64
	NoShares      float64
	Cash          float64
	Longs         float64
	Shorts        float64
	PendingLongs  float64
	PendingShorts float64
}
