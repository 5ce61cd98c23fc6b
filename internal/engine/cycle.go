package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// CycleState is everything the quoting loop carries between cycles.
type CycleState struct {
	Position domain.Position
	Pending  []domain.Order
}

// CycleConfig holds the per-cycle tuning knobs.
type CycleConfig struct {
	// MaxInventory caps the notional committed per outcome, in USDC.
	MaxInventory float64
	// RiskThreshold is the half-spread margin around the fair probability.
	RiskThreshold float64
}

// CycleOutput is one cycle's full decision: the updated state, the fills
// realized against the fresh book, and the order flow for a live executor.
type CycleOutput struct {
	State       CycleState
	Logs        []domain.FillLog
	Submissions []domain.Order
	Cancels     []domain.Order
	Quotes      Quotes
}

// RunCycle advances the quoting state machine by one step against a fresh
// order book and fair probability.
//
// Pending orders settle first so the plan sees post-fill inventory. Then
// quotes are generated, the plan built and deduplicated against what still
// rests, and finally new orders either fill immediately (marketable against
// the book) or join the pending set. A non-finite fair probability suppresses
// quoting for the cycle but still settles fills, so stale pending orders
// never linger through a model hiccup.
func RunCycle(state CycleState, book domain.OrderBook, pFair float64, cfg CycleConfig, now time.Time) (CycleOutput, error) {
	grid, err := domain.NewGrid(book.TickSize)
	if err != nil {
		return CycleOutput{}, fmt.Errorf("engine.RunCycle: %w", err)
	}
	rec := NewReconciler(book.MinOrderSize)

	out := CycleOutput{State: state}
	pos := &out.State.Position

	// Settle pending orders the book moved through.
	kept, filled := rec.Settle(out.State.Pending, book)
	for _, o := range filled {
		ApplyFill(pos, o.Quote)
		out.Logs = append(out.Logs, fillLog(o.Quote, book, pFair, now))
	}

	quotes, err := GenerateQuotes(pFair, cfg.RiskThreshold, book, grid)
	if err != nil {
		slog.Error("skipping quote generation", "error", fmt.Sprintf("%v", err))
		out.State.Pending = kept
		out.State.Position.PendingLongs, out.State.Position.PendingShorts = PendingExposure(kept)
		return out, nil
	}
	out.Quotes = quotes

	plan := BuildPlan(*pos, cfg.MaxInventory, quotes, book, grid)
	surviving, keptPending, canceled := rec.Dedup(plan, kept)
	out.Cancels = canceled

	var pending []domain.Order
	for _, q := range surviving {
		o := domain.Order{Quote: q, ID: uuid.New().String(), PlacedAt: now}
		if Classify(q, book, false) == OrderMarketable {
			ApplyFill(pos, q)
			out.Logs = append(out.Logs, fillLog(q, book, pFair, now))
			continue
		}
		out.Submissions = append(out.Submissions, o)
		pending = append(pending, o)
	}
	// Kept resting orders can still turn marketable when the book crosses
	// onto their level without trading through it.
	for _, o := range keptPending {
		if Classify(o.Quote, book, false) == OrderMarketable {
			ApplyFill(pos, o.Quote)
			out.Logs = append(out.Logs, fillLog(o.Quote, book, pFair, now))
			continue
		}
		pending = append(pending, o)
	}

	out.State.Pending = pending
	pos.PendingLongs, pos.PendingShorts = PendingExposure(pending)
	return out, nil
}

func fillLog(q domain.Quote, book domain.OrderBook, pFair float64, now time.Time) domain.FillLog {
	return domain.FillLog{
		Time:     now,
		Outcome:  q.Outcome,
		Side:     q.Side,
		Size:     q.Size,
		Price:    q.Price,
		BestBid:  book.BestBid(),
		BestAsk:  book.BestAsk(),
		FairProb: pFair,
	}
}
