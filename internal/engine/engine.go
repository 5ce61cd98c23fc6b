package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/updownbot/internal/domain"
	"github.com/alejandrodnm/updownbot/internal/ports"
)

const defaultRolloverDelay = 60 * time.Second

// Config holds the engine-level settings.
type Config struct {
	Asset              domain.Asset
	PortfolioSize      float64
	MaxPositionPercent float64
	RiskThreshold      float64
	NumSimulations     int
	LoopDelay          time.Duration
	RolloverDelay      time.Duration
	Live               bool
}

// MaxInventory is the notional cap per outcome derived from the portfolio.
func (c Config) MaxInventory() float64 {
	return c.PortfolioSize * c.MaxPositionPercent
}

// Engine drives the quoting loop for one asset's hourly up-or-down market.
type Engine struct {
	prices   ports.PriceProvider
	events   ports.EventProvider
	books    ports.BookProvider
	returns  ports.ReturnsProvider
	model    ports.ProbabilityModel
	executor ports.OrderExecutor
	store    ports.AuditStorage
	notifier ports.Notifier
	cfg      Config

	session domain.Session
	state   CycleState
}

// New creates the engine. Executor, store and notifier may be nil; a nil
// executor forces simulated execution regardless of cfg.Live.
func New(
	prices ports.PriceProvider,
	events ports.EventProvider,
	books ports.BookProvider,
	returns ports.ReturnsProvider,
	model ports.ProbabilityModel,
	executor ports.OrderExecutor,
	store ports.AuditStorage,
	notifier ports.Notifier,
	cfg Config,
) *Engine {
	if cfg.RolloverDelay <= 0 {
		cfg.RolloverDelay = defaultRolloverDelay
	}
	if executor == nil {
		cfg.Live = false
	}
	return &Engine{
		prices:   prices,
		events:   events,
		books:    books,
		returns:  returns,
		model:    model,
		executor: executor,
		store:    store,
		notifier: notifier,
		cfg:      cfg,
		state: CycleState{
			Position: domain.Position{Cash: cfg.PortfolioSize},
		},
	}
}

// CycleResult contains everything produced by one quoting cycle.
type CycleResult struct {
	Record  domain.CycleRecord
	Fills   []domain.FillLog
	Placed  int
	Cancels int
}

// Bootstrap resolves the initial hourly session. Run calls it implicitly;
// single-cycle callers use it before RunOnce.
func (e *Engine) Bootstrap(ctx context.Context) error {
	return e.rollover(ctx, false)
}

// Run executes quoting cycles until the context is canceled, rolling over to
// the next hourly session whenever the current one expires.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.Bootstrap(ctx); err != nil {
		return fmt.Errorf("engine.Run: initial session: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if e.session.Expired(time.Now()) {
			if err := e.rollover(ctx, true); err != nil {
				return fmt.Errorf("engine.Run: rollover: %w", err)
			}
			continue
		}

		if _, err := e.RunOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			slog.Error("cycle failed", "err", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.cfg.LoopDelay):
		}
	}
}

// rollover waits out the settlement window, fetches the next hourly session
// and clears the share inventory. Resolution proceeds off-exchange so cash
// carries over as-is.
func (e *Engine) rollover(ctx context.Context, wait bool) error {
	if wait {
		slog.Info("session expired, switching to next hourly market",
			"slug", e.session.EventSlug,
			"wait", e.cfg.RolloverDelay.String(),
		)
		if e.cfg.Live {
			if err := e.executor.CancelAll(ctx); err != nil {
				slog.Warn("canceling open orders failed", "err", err)
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(e.cfg.RolloverDelay):
		}
	}

	session, err := e.events.CurrentSession(ctx, e.cfg.Asset)
	if err != nil {
		return fmt.Errorf("fetch session: %w", err)
	}
	openPrice, err := e.prices.OpenPrice(ctx)
	if err != nil {
		return fmt.Errorf("fetch open price: %w", err)
	}
	session.OpenPrice = openPrice

	e.session = session
	Rollover(&e.state.Position)
	e.state.Pending = nil

	slog.Info("session started",
		"slug", session.EventSlug,
		"question", session.Question,
		"open_price", fmt.Sprintf("%.2f", session.OpenPrice),
		"close_at", session.CloseAt.Format(time.RFC3339),
	)
	return nil
}

// RunOnce executes a single quoting cycle: fetch market data concurrently,
// price the market, advance the quoting state machine and flush the results
// to the executor, storage and notifier.
func (e *Engine) RunOnce(ctx context.Context) (*CycleResult, error) {
	now := time.Now()

	var (
		spot float64
		book domain.OrderBook
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		spot, err = e.prices.LatestPrice(gctx)
		if err != nil {
			return fmt.Errorf("latest price: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		book, err = e.books.FetchOrderBook(gctx, e.session.YesTokenID)
		if err != nil {
			return fmt.Errorf("order book: %w", err)
		}
		return nil
	})
	if e.cfg.Live {
		g.Go(func() error {
			open, err := e.executor.GetOpenOrders(gctx, e.session.ConditionID)
			if err != nil {
				return fmt.Errorf("open orders: %w", err)
			}
			slog.Debug("open orders on exchange", "count", len(open))
			return nil
		})
		g.Go(func() error {
			trades, err := e.executor.MyTrades(gctx, e.session.ConditionID)
			if err != nil {
				return fmt.Errorf("trade history: %w", err)
			}
			slog.Debug("trade history", "count", len(trades))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("engine.RunOnce: %w", err)
	}

	horizon := e.session.HorizonMinutes(now)
	pFair, err := e.model.FairProbability(ctx, e.returns.Returns(), spot, e.session.OpenPrice, horizon, e.cfg.NumSimulations)
	if err != nil {
		return nil, fmt.Errorf("engine.RunOnce: fair probability: %w", err)
	}

	out, err := RunCycle(e.state, book, pFair, CycleConfig{
		MaxInventory:  e.cfg.MaxInventory(),
		RiskThreshold: e.cfg.RiskThreshold,
	}, now)
	if err != nil {
		return nil, fmt.Errorf("engine.RunOnce: %w", err)
	}

	if e.cfg.Live {
		e.executeLive(ctx, &out)
	}
	e.state = out.State

	pos := e.state.Position
	positionValue := MarkToMarket(pos, book, book.MinOrderSize)
	rec := domain.CycleRecord{
		Time:          now,
		FairProb:      pFair,
		BestBid:       book.BestBid(),
		BestAsk:       book.BestAsk(),
		Cash:          pos.Cash,
		PositionValue: positionValue,
		PnL:           pos.Cash + positionValue - e.cfg.PortfolioSize,
		Fills:         len(out.Logs),
		PendingCount:  len(e.state.Pending),
	}

	e.persist(ctx, rec, out.Logs)
	if e.notifier != nil {
		if err := e.notifier.NotifyCycle(ctx, rec, out.Logs); err != nil {
			slog.Warn("notifier failed", "err", err)
		}
	}

	return &CycleResult{
		Record:  rec,
		Fills:   out.Logs,
		Placed:  len(out.Submissions),
		Cancels: len(out.Cancels),
	}, nil
}

// executeLive flushes the cycle's order flow to the exchange. A failed
// placement drops the order from the pending set so the simulated book state
// never diverges from what actually rests on the exchange.
func (e *Engine) executeLive(ctx context.Context, out *CycleOutput) {
	for _, o := range out.Cancels {
		if err := e.executor.CancelOrder(ctx, o.ID); err != nil {
			slog.Warn("cancel failed", "order_id", o.ID, "err", err)
		}
	}

	for _, o := range out.Submissions {
		tokenID := e.session.YesTokenID
		if o.Outcome == domain.OutcomeNo {
			tokenID = e.session.NoTokenID
		}
		exchangeID, err := e.executor.PlaceOrder(ctx, tokenID, o.Quote)
		if err != nil {
			slog.Warn("placement failed",
				"outcome", o.Outcome,
				"side", o.Side,
				"price", o.Price,
				"size", o.Size,
				"err", err,
			)
			out.State.Pending = removePending(out.State.Pending, o.ID)
			continue
		}
		renamePending(out.State.Pending, o.ID, exchangeID)
		slog.Info("placed order",
			"outcome", o.Outcome,
			"side", o.Side,
			"price", o.Price,
			"size", o.Size,
			"value", fmt.Sprintf("$%.2f", o.Value()),
		)
	}

	longs, shorts := PendingExposure(out.State.Pending)
	out.State.Position.PendingLongs = longs
	out.State.Position.PendingShorts = shorts
}

func (e *Engine) persist(ctx context.Context, rec domain.CycleRecord, fills []domain.FillLog) {
	if e.store == nil {
		return
	}
	if len(fills) > 0 {
		if err := e.store.SaveFills(ctx, fills); err != nil {
			slog.Warn("saving fills failed", "err", err)
		}
	}
	if err := e.store.SaveCycle(ctx, rec); err != nil {
		slog.Warn("saving cycle failed", "err", err)
	}
}

func removePending(pending []domain.Order, id string) []domain.Order {
	out := pending[:0]
	for _, o := range pending {
		if o.ID != id {
			out = append(out, o)
		}
	}
	return out
}

func renamePending(pending []domain.Order, id, exchangeID string) {
	for i := range pending {
		if pending[i].ID == id {
			pending[i].ID = exchangeID
			return
		}
	}
}
