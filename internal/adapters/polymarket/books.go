package polymarket

import (
	"context"
	"fmt"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// Books fetches order books from the CLOB. It implements ports.BookProvider.
type Books struct {
	client *Client
}

func NewBooks(client *Client) *Books {
	return &Books{client: client}
}

// FetchOrderBook returns the YES-side book for a token. The /books endpoint
// takes a batch of token IDs and answers in the same order.
func (b *Books) FetchOrderBook(ctx context.Context, tokenID string) (domain.OrderBook, error) {
	payload := []map[string]string{{"token_id": tokenID}}

	var books []clobBook
	url := fmt.Sprintf("%s/books", b.client.clobBase)
	if err := b.client.post(ctx, b.client.booksLimiter, url, payload, &books); err != nil {
		return domain.OrderBook{}, fmt.Errorf("polymarket.FetchOrderBook: %w", err)
	}
	if len(books) == 0 {
		return domain.OrderBook{}, fmt.Errorf("polymarket.FetchOrderBook: empty response for token %s", tokenID)
	}

	book, err := mapBook(books[0])
	if err != nil {
		return domain.OrderBook{}, fmt.Errorf("polymarket.FetchOrderBook: %w", err)
	}
	return book, nil
}
