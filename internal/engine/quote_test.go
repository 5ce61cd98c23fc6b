package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

func testGrid(t *testing.T, tick float64) domain.Grid {
	t.Helper()
	g, err := domain.NewGrid(tick)
	require.NoError(t, err)
	return g
}

func testBook(bid, bidSize, ask, askSize float64) domain.OrderBook {
	book := domain.OrderBook{TickSize: 0.01, MinOrderSize: 5}
	if bid > 0 {
		book.Bids = []domain.BookEntry{{Price: bid, Size: bidSize}}
	}
	if ask < 1 {
		book.Asks = []domain.BookEntry{{Price: ask, Size: askSize}}
	}
	return book
}

func TestGenerateQuotes_TwoSided(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.48, 100, 0.55, 100)

	q, err := GenerateQuotes(0.50, 0.005, book, g)
	require.NoError(t, err)

	// Bid improves the book by one tick; ask stays one tick inside the
	// resting ask rather than quoting the model's tighter level.
	assert.InDelta(t, 0.49, q.Bid, 1e-9)
	assert.InDelta(t, 0.54, q.Ask, 1e-9)
	assert.False(t, q.NoBid)
	assert.False(t, q.NoAsk)
	assert.False(t, q.SnipingBid)
	assert.False(t, q.SnipingAsk)
}

func TestGenerateQuotes_BidNeverCrossesAsk(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.48, 100, 0.52, 100)

	for p := 0.05; p < 0.96; p += 0.05 {
		q, err := GenerateQuotes(p, 0.01, book, g)
		require.NoError(t, err)
		if !q.NoBid && !q.NoAsk {
			assert.LessOrEqual(t, q.Bid, q.Ask, "p=%v", p)
		}
	}
}

func TestGenerateQuotes_EmptyBook(t *testing.T) {
	g := testGrid(t, 0.01)
	book := domain.OrderBook{TickSize: 0.01, MinOrderSize: 5}

	q, err := GenerateQuotes(0.50, 0.005, book, g)
	require.NoError(t, err)

	// Sentinels pin the bid to the floor and the ask to the ceiling.
	assert.InDelta(t, 0.01, q.Bid, 1e-9)
	assert.InDelta(t, 0.99, q.Ask, 1e-9)
	assert.False(t, q.SnipingBid)
	assert.False(t, q.SnipingAsk)
}

func TestGenerateQuotes_NoBidNearZero(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.01, 50, 0.03, 50)

	q, err := GenerateQuotes(0.003, 0.005, book, g)
	require.NoError(t, err)

	assert.True(t, q.NoBid)
	assert.InDelta(t, 0.01, q.Bid, 1e-9)
	assert.False(t, q.NoAsk)
}

func TestGenerateQuotes_NoAskNearOne(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.97, 50, 0.99, 50)

	q, err := GenerateQuotes(0.998, 0.005, book, g)
	require.NoError(t, err)

	assert.True(t, q.NoAsk)
	assert.InDelta(t, 0.99, q.Ask, 1e-9)
	assert.False(t, q.NoBid)
}

func TestGenerateQuotes_SnipeBid(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.60, 40, 0.62, 40)

	q, err := GenerateQuotes(0.50, 0.005, book, g)
	require.NoError(t, err)

	assert.True(t, q.SnipingBid)
	assert.False(t, q.SnipingAsk)
}

func TestGenerateQuotes_SnipeAsk(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.38, 40, 0.40, 40)

	q, err := GenerateQuotes(0.50, 0.005, book, g)
	require.NoError(t, err)

	assert.False(t, q.SnipingBid)
	assert.True(t, q.SnipingAsk)
}

func TestGenerateQuotes_CrossedBookSetsBothSnipes(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.60, 40, 0.40, 40)

	// Both flags set only happens on a crossed book; the call still
	// returns usable quotes.
	q, err := GenerateQuotes(0.50, 0.005, book, g)
	require.NoError(t, err)
	assert.True(t, q.SnipingBid)
	assert.True(t, q.SnipingAsk)
}

func TestGenerateQuotes_NonFiniteProbability(t *testing.T) {
	g := testGrid(t, 0.01)
	book := testBook(0.48, 100, 0.55, 100)

	_, err := GenerateQuotes(math.NaN(), 0.005, book, g)
	assert.Error(t, err)

	_, err = GenerateQuotes(math.Inf(1), 0.005, book, g)
	assert.Error(t, err)
}
