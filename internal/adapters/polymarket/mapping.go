package polymarket

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// mapBook converts a CLOB book DTO into the domain order book, with bids
// sorted best first and asks cheapest first.
func mapBook(b clobBook) (domain.OrderBook, error) {
	tickSize, err := strconv.ParseFloat(b.TickSize, 64)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("parse tick_size %q: %w", b.TickSize, err)
	}
	minOrderSize, err := strconv.ParseFloat(b.MinOrderSize, 64)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("parse min_order_size %q: %w", b.MinOrderSize, err)
	}

	bids, err := mapLevels(b.Bids)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("parse bids: %w", err)
	}
	asks, err := mapLevels(b.Asks)
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("parse asks: %w", err)
	}

	sort.Slice(bids, func(i, j int) bool { return bids[i].Price > bids[j].Price })
	sort.Slice(asks, func(i, j int) bool { return asks[i].Price < asks[j].Price })

	return domain.OrderBook{
		TokenID:      b.AssetID,
		Bids:         bids,
		Asks:         asks,
		TickSize:     tickSize,
		MinOrderSize: minOrderSize,
	}, nil
}

func mapLevels(levels []bookLevel) ([]domain.BookEntry, error) {
	out := make([]domain.BookEntry, 0, len(levels))
	for _, lvl := range levels {
		price, err := strconv.ParseFloat(lvl.Price, 64)
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", lvl.Price, err)
		}
		size, err := strconv.ParseFloat(lvl.Size, 64)
		if err != nil {
			return nil, fmt.Errorf("size %q: %w", lvl.Size, err)
		}
		out = append(out, domain.BookEntry{Price: price, Size: size})
	}
	return out, nil
}

// marketTokens extracts the YES and NO token IDs from a Gamma market.
// Up-or-down markets label outcomes "Up"/"Down"; older markets use
// "Yes"/"No". Both fields are JSON arrays encoded as strings.
func marketTokens(m gammaMarket) (yesTokenID, noTokenID string, err error) {
	var tokenIDs, outcomes []string
	if err := json.Unmarshal([]byte(m.ClobTokenIDs), &tokenIDs); err != nil {
		return "", "", fmt.Errorf("parse clobTokenIds: %w", err)
	}
	if err := json.Unmarshal([]byte(m.Outcomes), &outcomes); err != nil {
		return "", "", fmt.Errorf("parse outcomes: %w", err)
	}
	if len(tokenIDs) != len(outcomes) {
		return "", "", fmt.Errorf("%d tokens for %d outcomes", len(tokenIDs), len(outcomes))
	}

	for i, outcome := range outcomes {
		switch strings.ToLower(outcome) {
		case "up", "yes":
			yesTokenID = tokenIDs[i]
		case "down", "no":
			noTokenID = tokenIDs[i]
		}
	}
	if yesTokenID == "" || noTokenID == "" {
		return "", "", fmt.Errorf("missing outcome tokens in %v", outcomes)
	}
	return yesTokenID, noTokenID, nil
}

// mapOutcome converts an API outcome label to the domain outcome.
func mapOutcome(s string) domain.Outcome {
	switch strings.ToLower(s) {
	case "down", "no":
		return domain.OutcomeNo
	default:
		return domain.OutcomeYes
	}
}

func parsePrice(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("price %q: %w", s, err)
	}
	return f, nil
}

// mapTrades extracts the wallet's fills from the trade history. A trade the
// wallet took carries the fill at the top level; other trades may hold the
// wallet's matched maker orders.
func mapTrades(trades []clobTrade, wallet string) ([]domain.Quote, error) {
	var quotes []domain.Quote
	for _, t := range trades {
		outcome := mapOutcome(t.Outcome)

		if t.MakerAddress == wallet {
			size, err := parsePrice(t.Size)
			if err != nil {
				return nil, fmt.Errorf("size: %w", err)
			}
			price, err := parsePrice(t.Price)
			if err != nil {
				return nil, err
			}
			quotes = append(quotes, domain.Quote{
				Outcome: outcome,
				Side:    domain.Side(t.Side),
				Price:   price,
				Size:    domain.RoundSize(size),
			})
			continue
		}

		for _, maker := range t.MakerOrders {
			if maker.MakerAddress != wallet {
				continue
			}
			size, err := parsePrice(maker.MatchedAmount)
			if err != nil {
				return nil, fmt.Errorf("matched_amount: %w", err)
			}
			price, err := parsePrice(maker.Price)
			if err != nil {
				return nil, err
			}
			quotes = append(quotes, domain.Quote{
				Outcome: outcome,
				Side:    domain.Side(maker.Side),
				Price:   price,
				Size:    domain.RoundSize(size),
			})
		}
	}
	return quotes, nil
}
