package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGrid_RejectsBadTicks(t *testing.T) {
	_, err := NewGrid(0)
	assert.Error(t, err)
	_, err = NewGrid(-0.01)
	assert.Error(t, err)
	_, err = NewGrid(0.5)
	assert.Error(t, err)
	_, err = NewGrid(0.7)
	assert.Error(t, err)
}

func TestNewGrid_AcceptsMarketTicks(t *testing.T) {
	g, err := NewGrid(0.01)
	require.NoError(t, err)
	assert.Equal(t, 0.01, g.Tick)

	_, err = NewGrid(0.001)
	assert.NoError(t, err)
}

func TestGrid_Clamp(t *testing.T) {
	g, _ := NewGrid(0.01)
	assert.InDelta(t, 0.01, g.Clamp(0), 1e-12)
	assert.InDelta(t, 0.01, g.Clamp(-3), 1e-12)
	assert.InDelta(t, 0.99, g.Clamp(1), 1e-12)
	assert.InDelta(t, 0.99, g.Clamp(2.5), 1e-12)
	assert.InDelta(t, 0.47, g.Clamp(0.47), 1e-12)
}

func TestGrid_RoundToTick(t *testing.T) {
	g, _ := NewGrid(0.01)
	assert.InDelta(t, 0.47, g.RoundToTick(0.474), 1e-12)
	assert.InDelta(t, 0.48, g.RoundToTick(0.476), 1e-12)
	assert.InDelta(t, 0.99, g.RoundToTick(1.2), 1e-12)
	assert.InDelta(t, 0.01, g.RoundToTick(-0.2), 1e-12)
}

func TestGrid_RoundToTick_Idempotent(t *testing.T) {
	g, _ := NewGrid(0.001)
	for _, x := range []float64{0.0004, 0.0015, 0.3337, 0.5, 0.9994, 1.7} {
		once := g.RoundToTick(x)
		assert.InDelta(t, once, g.RoundToTick(once), 1e-12, "x=%v", x)
	}
}

func TestGrid_FloorCeil(t *testing.T) {
	g, _ := NewGrid(0.01)
	assert.InDelta(t, 0.49, g.FloorToTick(0.494), 1e-12)
	assert.InDelta(t, 0.51, g.CeilToTick(0.506), 1e-12)
	// already on the lattice stays put
	assert.InDelta(t, 0.5, g.FloorToTick(0.5), 1e-12)
	assert.InDelta(t, 0.5, g.CeilToTick(0.5), 1e-12)
}

func TestRoundSize(t *testing.T) {
	assert.InDelta(t, 10.35, RoundSize(10.346), 1e-12)
	assert.InDelta(t, 10.34, RoundSize(10.344), 1e-12)
	assert.Equal(t, 0.0, RoundSize(-0.5))
	assert.Equal(t, 0.0, RoundSize(0))
}
