package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

func TestBuildPlan_OpensBothSidesWhenFlat(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.48, 120, 0.52, 80)
	q := Quotes{Bid: 0.49, Ask: 0.51}

	plan := BuildPlan(domain.Position{}, 5, q, book, g)
	require.Len(t, plan, 2)

	assert.Equal(t, domain.OutcomeYes, plan[0].Outcome)
	assert.Equal(t, domain.SideBuy, plan[0].Side)
	assert.InDelta(t, 0.49, plan[0].Price, 1e-9)
	assert.InDelta(t, 10.2, plan[0].Size, 1e-9) // 5 / 0.49

	assert.Equal(t, domain.OutcomeNo, plan[1].Outcome)
	assert.Equal(t, domain.SideBuy, plan[1].Side)
	assert.InDelta(t, 0.49, plan[1].Price, 1e-9) // 1 - 0.51
	assert.InDelta(t, 10.2, plan[1].Size, 1e-9)
}

func TestBuildPlan_UnwindsBeforeOpening(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.48, 120, 0.52, 80)
	q := Quotes{Bid: 0.49, Ask: 0.51}
	pos := domain.Position{YesShares: 10, NoShares: 8, Longs: 5, Shorts: 5}

	plan := BuildPlan(pos, 5, q, book, g)
	require.Len(t, plan, 2)

	assert.Equal(t, domain.OutcomeYes, plan[0].Outcome)
	assert.Equal(t, domain.SideSell, plan[0].Side)
	assert.InDelta(t, 0.51, plan[0].Price, 1e-9)
	assert.InDelta(t, 10.0, plan[0].Size, 1e-9)

	assert.Equal(t, domain.OutcomeNo, plan[1].Outcome)
	assert.Equal(t, domain.SideSell, plan[1].Side)
	assert.InDelta(t, 0.51, plan[1].Price, 1e-9) // 1 - 0.49
	assert.InDelta(t, 8.0, plan[1].Size, 1e-9)
}

func TestBuildPlan_SkipsDustInventory(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.48, 120, 0.52, 80)
	q := Quotes{Bid: 0.49, Ask: 0.51}
	// Below the market minimum of 5 shares: unsellable, no unwind orders.
	pos := domain.Position{YesShares: 3, NoShares: 4.9, Longs: 5, Shorts: 5}

	plan := BuildPlan(pos, 5, q, book, g)
	assert.Empty(t, plan)
}

func TestBuildPlan_CapacityExhausted(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.48, 120, 0.52, 80)
	q := Quotes{Bid: 0.49, Ask: 0.51}
	// Less than $1 of capacity left on both sides.
	pos := domain.Position{Longs: 4.5, Shorts: 4.2}

	plan := BuildPlan(pos, 5, q, book, g)
	assert.Empty(t, plan)
}

func TestBuildPlan_NoBidSuppressesYesOpen(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.01, 120, 0.03, 80)
	q := Quotes{Bid: 0.01, Ask: 0.02, NoBid: true}

	plan := BuildPlan(domain.Position{}, 5, q, book, g)
	require.Len(t, plan, 1)
	assert.Equal(t, domain.OutcomeNo, plan[0].Outcome)
	assert.Equal(t, domain.SideBuy, plan[0].Side)
}

func TestBuildPlan_SnipeBidCrossesUnwind(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.60, 7, 0.62, 80)
	q := Quotes{Bid: 0.55, Ask: 0.61, SnipingBid: true}
	pos := domain.Position{YesShares: 20, Longs: 5, Shorts: 5}

	plan := BuildPlan(pos, 5, q, book, g)
	require.Len(t, plan, 1)

	// Sell into the rich bid, capped by its resting size.
	assert.Equal(t, domain.SideSell, plan[0].Side)
	assert.Equal(t, domain.OutcomeYes, plan[0].Outcome)
	assert.InDelta(t, 0.60, plan[0].Price, 1e-9)
	assert.InDelta(t, 7.0, plan[0].Size, 1e-9)
}

func TestBuildPlan_SnipeAskCrossesYesOpen(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.38, 120, 0.40, 9)
	q := Quotes{Bid: 0.44, Ask: 0.46, SnipingAsk: true}

	plan := BuildPlan(domain.Position{}, 5, q, book, g)
	require.Len(t, plan, 2)

	// Lift the cheap ask instead of quoting passively.
	assert.Equal(t, domain.OutcomeYes, plan[0].Outcome)
	assert.Equal(t, domain.SideBuy, plan[0].Side)
	assert.InDelta(t, 0.40, plan[0].Price, 1e-9)
	assert.InDelta(t, 9.0, plan[0].Size, 1e-9) // 5/0.40 = 12.5, capped at 9

	// NO open keeps its passive complement price.
	assert.Equal(t, domain.OutcomeNo, plan[1].Outcome)
	assert.InDelta(t, 0.54, plan[1].Price, 1e-9)
}
