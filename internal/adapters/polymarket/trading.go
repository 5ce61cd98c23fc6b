package polymarket

// trading.go implements ports.OrderExecutor against the CLOB API. Orders are
// placed as GTC limit orders.

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// clobOrderRequest is the JSON body sent to POST /order.
type clobOrderRequest struct {
	Order     clobOrderBody `json:"order"`
	Owner     string        `json:"owner"`
	OrderType string        `json:"orderType"`
}

type clobOrderBody struct {
	Salt          json.Number `json:"salt"`
	Maker         string      `json:"maker"`
	Signer        string      `json:"signer"`
	Taker         string      `json:"taker"`
	TokenID       string      `json:"tokenId"`
	MakerAmount   string      `json:"makerAmount"`
	TakerAmount   string      `json:"takerAmount"`
	Expiration    string      `json:"expiration"`
	Nonce         string      `json:"nonce"`
	FeeRateBps    string      `json:"feeRateBps"`
	Side          string      `json:"side"`
	SignatureType int         `json:"signatureType"`
	Signature     string      `json:"signature"`
}

// Executor places and cancels real orders through an AuthClient.
type Executor struct {
	auth *AuthClient
}

func NewExecutor(auth *AuthClient) *Executor {
	return &Executor{auth: auth}
}

// PlaceOrder signs and submits a GTC limit order, returning the CLOB order
// ID.
func (ex *Executor) PlaceOrder(ctx context.Context, tokenID string, q domain.Quote) (string, error) {
	if err := ex.auth.EnsureCreds(ctx); err != nil {
		return "", fmt.Errorf("place order: creds: %w", err)
	}

	signed, err := ex.auth.buildSignedOrder(tokenID, q)
	if err != nil {
		return "", fmt.Errorf("place order: sign: %w", err)
	}

	body := clobOrderRequest{
		Order: clobOrderBody{
			Salt:          json.Number(signed.Order.Salt.String()),
			Maker:         signed.Order.Maker.Hex(),
			Signer:        signed.Order.Signer.Hex(),
			Taker:         signed.Order.Taker.Hex(),
			TokenID:       tokenID,
			MakerAmount:   signed.Order.MakerAmount.String(),
			TakerAmount:   signed.Order.TakerAmount.String(),
			Expiration:    signed.Order.Expiration.String(),
			Nonce:         signed.Order.Nonce.String(),
			FeeRateBps:    signed.Order.FeeRateBps.String(),
			Side:          string(q.Side),
			SignatureType: int(signed.Order.SignatureType.Int64()),
			Signature:     "0x" + hex.EncodeToString(signed.Signature),
		},
		Owner:     ex.auth.creds.APIKey,
		OrderType: "GTC",
	}

	var resp clobOrderResponse
	if err := ex.auth.doL2(ctx, http.MethodPost, "/order", body, &resp); err != nil {
		return "", fmt.Errorf("place order: post: %w", err)
	}
	if !resp.Success || resp.ErrorMsg != "" {
		return "", fmt.Errorf("place order: clob error: %s", resp.ErrorMsg)
	}
	return resp.OrderID, nil
}

// CancelOrder cancels a single order by its CLOB order ID.
func (ex *Executor) CancelOrder(ctx context.Context, orderID string) error {
	if err := ex.auth.EnsureCreds(ctx); err != nil {
		return fmt.Errorf("cancel order: creds: %w", err)
	}
	if err := ex.auth.doL2(ctx, http.MethodDelete, "/order/"+orderID, nil, nil); err != nil {
		return fmt.Errorf("cancel order %s: %w", orderID, err)
	}
	return nil
}

// CancelAll cancels all open orders for this wallet.
func (ex *Executor) CancelAll(ctx context.Context) error {
	if err := ex.auth.EnsureCreds(ctx); err != nil {
		return fmt.Errorf("cancel all: creds: %w", err)
	}
	if err := ex.auth.doL2(ctx, http.MethodDelete, "/orders", nil, nil); err != nil {
		return fmt.Errorf("cancel all: %w", err)
	}
	return nil
}

// GetOpenOrders returns the wallet's open orders for a market.
func (ex *Executor) GetOpenOrders(ctx context.Context, conditionID string) ([]domain.Order, error) {
	if err := ex.auth.EnsureCreds(ctx); err != nil {
		return nil, fmt.Errorf("get orders: creds: %w", err)
	}

	path := "/data/orders?" + url.Values{"market": {conditionID}}.Encode()
	var resp clobPagedOrders
	if err := ex.auth.doL2(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(resp.Data))
	for _, o := range resp.Data {
		original, err := parsePrice(o.OriginalSize)
		if err != nil {
			return nil, fmt.Errorf("get orders: original_size: %w", err)
		}
		matched, err := parsePrice(o.SizeMatched)
		if err != nil {
			return nil, fmt.Errorf("get orders: size_matched: %w", err)
		}
		price, err := parsePrice(o.Price)
		if err != nil {
			return nil, fmt.Errorf("get orders: %w", err)
		}
		orders = append(orders, domain.Order{
			Quote: domain.Quote{
				Outcome: mapOutcome(o.Outcome),
				Side:    domain.Side(o.Side),
				Price:   price,
				Size:    domain.RoundSize(original - matched),
			},
			ID:       o.ID,
			PlacedAt: time.Unix(o.CreatedAt, 0).UTC(),
		})
	}
	return orders, nil
}

// MyTrades returns the wallet's fills in a market: trades taken by the
// wallet directly plus its matched maker orders inside other takers' trades.
func (ex *Executor) MyTrades(ctx context.Context, conditionID string) ([]domain.Quote, error) {
	if err := ex.auth.EnsureCreds(ctx); err != nil {
		return nil, fmt.Errorf("get trades: creds: %w", err)
	}

	path := "/data/trades?" + url.Values{"market": {conditionID}}.Encode()
	var resp clobPagedTrades
	if err := ex.auth.doL2(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, fmt.Errorf("get trades: %w", err)
	}

	quotes, err := mapTrades(resp.Data, ex.auth.Address())
	if err != nil {
		return nil, fmt.Errorf("get trades: %w", err)
	}
	return quotes, nil
}
