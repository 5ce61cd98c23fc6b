package domain

import (
	"fmt"
	"math"
)

// Grid is the tick lattice all tradable prices live on: multiples of Tick
// inside [Tick, 1-Tick]. Prices of exactly 0 or 1 are never tradable.
type Grid struct {
	Tick float64
}

// NewGrid validates the tick size reported by the market. A tick outside
// (0, 0.5) leaves no room for a two-sided market and is a configuration
// error, fatal at session start.
func NewGrid(tick float64) (Grid, error) {
	if tick <= 0 || tick >= 0.5 {
		return Grid{}, fmt.Errorf("domain.NewGrid: tick size %v outside (0, 0.5)", tick)
	}
	return Grid{Tick: tick}, nil
}

// Clamp restricts x to the tradable band [Tick, 1-Tick].
func (g Grid) Clamp(x float64) float64 {
	return math.Max(g.Tick, math.Min(x, 1-g.Tick))
}

// RoundToTick snaps x to the nearest lattice point, then clamps.
// Idempotent: applying it twice gives the same result.
func (g Grid) RoundToTick(x float64) float64 {
	a := 1 / g.Tick
	return g.Clamp(math.Round(x*a) / a)
}

// FloorToTick snaps x down to the lattice, then clamps.
func (g Grid) FloorToTick(x float64) float64 {
	a := 1 / g.Tick
	return g.Clamp(math.Floor(x*a) / a)
}

// CeilToTick snaps x up to the lattice, then clamps.
func (g Grid) CeilToTick(x float64) float64 {
	a := 1 / g.Tick
	return g.Clamp(math.Ceil(x*a) / a)
}

// RoundSize rounds a share size to 2 decimals, flooring negatives to 0.
func RoundSize(x float64) float64 {
	return math.Max(math.Round(x*100)/100, 0)
}
