package ports

import (
	"context"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// OrderExecutor places and cancels real orders on the exchange.
type OrderExecutor interface {
	// PlaceOrder signs and submits a limit order, returning the
	// exchange-assigned order ID.
	PlaceOrder(ctx context.Context, tokenID string, q domain.Quote) (string, error)

	// CancelOrder cancels a specific order by its exchange order ID.
	CancelOrder(ctx context.Context, orderID string) error

	// CancelAll cancels all open orders for this wallet.
	CancelAll(ctx context.Context) error

	// GetOpenOrders returns the orders currently resting on the exchange
	// for the given market.
	GetOpenOrders(ctx context.Context, conditionID string) ([]domain.Order, error)

	// MyTrades returns this wallet's trades in the given market, newest
	// first.
	MyTrades(ctx context.Context, conditionID string) ([]domain.Quote, error)
}
