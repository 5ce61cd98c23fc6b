package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderBook_EmptySentinels(t *testing.T) {
	var ob OrderBook
	assert.Equal(t, 0.0, ob.BestBid())
	assert.Equal(t, 1.0, ob.BestAsk())
	assert.Equal(t, 0.0, ob.BestBidSize())
	assert.Equal(t, 0.0, ob.BestAskSize())
	assert.Equal(t, 0.0, ob.Midpoint())
	assert.Equal(t, 0.0, ob.Spread())
}

func TestOrderBook_BestLevels(t *testing.T) {
	ob := OrderBook{
		Bids: []BookEntry{{Price: 0.48, Size: 120}, {Price: 0.47, Size: 300}},
		Asks: []BookEntry{{Price: 0.52, Size: 80}, {Price: 0.55, Size: 40}},
	}
	assert.Equal(t, 0.48, ob.BestBid())
	assert.Equal(t, 0.52, ob.BestAsk())
	assert.Equal(t, 120.0, ob.BestBidSize())
	assert.Equal(t, 80.0, ob.BestAskSize())
	assert.InDelta(t, 0.50, ob.Midpoint(), 1e-12)
	assert.InDelta(t, 0.04, ob.Spread(), 1e-12)
}

func TestOrderBook_NoSideIsComplement(t *testing.T) {
	ob := OrderBook{
		Bids: []BookEntry{{Price: 0.48, Size: 120}},
		Asks: []BookEntry{{Price: 0.52, Size: 80}},
	}
	assert.InDelta(t, 0.48, ob.NoBestBid(), 1e-12)
	assert.InDelta(t, 0.52, ob.NoBestAsk(), 1e-12)

	// Empty YES book: NO side inherits the sentinels.
	var empty OrderBook
	assert.Equal(t, 0.0, empty.NoBestBid())
	assert.Equal(t, 1.0, empty.NoBestAsk())
}
