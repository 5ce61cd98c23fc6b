package polymarket_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alejandrodnm/updownbot/internal/adapters/polymarket"
	"github.com/alejandrodnm/updownbot/internal/domain"
)

func TestEventSlug(t *testing.T) {
	// 19:30 UTC on Aug 31 is 15:30 Eastern (EDT).
	at := time.Date(2025, 8, 31, 19, 30, 0, 0, time.UTC)
	assert.Equal(t, "bitcoin-up-or-down-august-31-3pm-et", polymarket.EventSlug(domain.AssetBitcoin, at))

	// Noon and midnight render as 12pm / 12am.
	noon := time.Date(2025, 8, 31, 16, 5, 0, 0, time.UTC)
	assert.Equal(t, "ethereum-up-or-down-august-31-12pm-et", polymarket.EventSlug(domain.AssetEthereum, noon))

	midnight := time.Date(2025, 8, 31, 4, 5, 0, 0, time.UTC)
	assert.Equal(t, "xrp-up-or-down-august-31-12am-et", polymarket.EventSlug(domain.AssetXRP, midnight))

	// Winter dates fall back to EST (UTC-5).
	winter := time.Date(2025, 1, 15, 3, 10, 0, 0, time.UTC)
	assert.Equal(t, "solana-up-or-down-january-14-10pm-et", polymarket.EventSlug(domain.AssetSolana, winter))
}

func TestCurrentSession_Success(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/gamma_event.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasPrefix(r.URL.Path, "/events/slug/bitcoin-up-or-down-"), "path %s", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	client := polymarket.NewClient("", srv.URL)
	events := polymarket.NewEvents(client)

	session, err := events.CurrentSession(context.Background(), domain.AssetBitcoin)
	require.NoError(t, err)

	assert.Equal(t, "bitcoin-up-or-down-august-31-3pm-et", session.EventSlug)
	assert.Equal(t, "0xcond123", session.ConditionID)
	assert.Equal(t, "111111", session.YesTokenID) // "Up" outcome
	assert.Equal(t, "222222", session.NoTokenID)  // "Down" outcome
	// Close is the next full hour from now.
	assert.True(t, session.CloseAt.After(time.Now()))
	assert.Equal(t, 0, session.CloseAt.Minute())
	assert.Equal(t, 0, session.CloseAt.Second())
}

func TestCurrentSession_NoMarkets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"slug": "empty", "markets": []}`))
	}))
	defer srv.Close()

	events := polymarket.NewEvents(polymarket.NewClient("", srv.URL))
	_, err := events.CurrentSession(context.Background(), domain.AssetBitcoin)
	assert.ErrorContains(t, err, "no markets")
}

func TestFetchOrderBook_Success(t *testing.T) {
	data, err := os.ReadFile("../../../testdata/fixtures/clob_books.json")
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/books", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Header().Set("Content-Type", "application/json")
		w.Write(data)
	}))
	defer srv.Close()

	books := polymarket.NewBooks(polymarket.NewClient(srv.URL, ""))
	book, err := books.FetchOrderBook(context.Background(), "111111")
	require.NoError(t, err)

	assert.Equal(t, "111111", book.TokenID)
	assert.Equal(t, 0.01, book.TickSize)
	assert.Equal(t, 5.0, book.MinOrderSize)

	// Bids sorted best first, asks cheapest first, regardless of API order.
	require.Len(t, book.Bids, 3)
	assert.Equal(t, 0.48, book.BestBid())
	assert.Equal(t, 120.0, book.BestBidSize())
	require.Len(t, book.Asks, 2)
	assert.Equal(t, 0.52, book.BestAsk())
	assert.Equal(t, 80.0, book.BestAskSize())
}

func TestFetchOrderBook_EmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	books := polymarket.NewBooks(polymarket.NewClient(srv.URL, ""))
	_, err := books.FetchOrderBook(context.Background(), "111111")
	assert.ErrorContains(t, err, "empty response")
}
