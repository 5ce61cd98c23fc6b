package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

const (
	defaultBase = "https://api.binance.com"

	// Binance allows 6000 request weight per minute; the bot polls a
	// handful of cheap endpoints so a conservative limiter is plenty.
	requestsPerSec = 10

	maxRetries    = 3
	baseRetryWait = 500 * time.Millisecond
)

var symbols = map[domain.Asset]string{
	domain.AssetBitcoin:  "BTCUSDT",
	domain.AssetEthereum: "ETHUSDT",
	domain.AssetSolana:   "SOLUSDT",
	domain.AssetXRP:      "XRPUSDT",
}

// Client fetches spot prices and candles from the Binance public API.
// It implements ports.PriceProvider and ports.CandleProvider.
type Client struct {
	http    *http.Client
	base    string
	symbol  string
	limiter *rate.Limiter
}

// NewClient creates a Client for the given asset. An empty base uses the
// production API.
func NewClient(base string, asset domain.Asset) (*Client, error) {
	symbol, ok := symbols[asset]
	if !ok {
		return nil, fmt.Errorf("binance.NewClient: no symbol for asset %q", asset)
	}
	if base == "" {
		base = defaultBase
	}
	return &Client{
		http:    &http.Client{Timeout: 10 * time.Second},
		base:    base,
		symbol:  symbol,
		limiter: rate.NewLimiter(requestsPerSec, 5),
	}, nil
}

// LatestPrice returns the last traded spot price.
func (c *Client) LatestPrice(ctx context.Context) (float64, error) {
	var out struct {
		Price string `json:"price"`
	}
	u := fmt.Sprintf("%s/api/v3/ticker/price?symbol=%s", c.base, c.symbol)
	if err := c.get(ctx, u, &out); err != nil {
		return 0, fmt.Errorf("binance.LatestPrice: %w", err)
	}
	price, err := strconv.ParseFloat(out.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("binance.LatestPrice: parse %q: %w", out.Price, err)
	}
	return price, nil
}

// OpenPrice returns the open of the current hourly candle.
func (c *Client) OpenPrice(ctx context.Context) (float64, error) {
	rows, err := c.klines(ctx, "1h", 0, 1)
	if err != nil {
		return 0, fmt.Errorf("binance.OpenPrice: %w", err)
	}
	if len(rows) == 0 {
		return 0, fmt.Errorf("binance.OpenPrice: empty klines response")
	}
	return rows[0].open, nil
}

// Klines returns closed 1-minute candles starting after since. A zero since
// fetches the most recent limit candles.
func (c *Client) Klines(ctx context.Context, since time.Time, limit int) ([]domain.Kline, error) {
	var start int64
	if !since.IsZero() {
		start = since.UnixMilli() + 1
	}
	rows, err := c.klines(ctx, "1m", start, limit)
	if err != nil {
		return nil, fmt.Errorf("binance.Klines: %w", err)
	}

	out := make([]domain.Kline, 0, len(rows))
	for _, r := range rows {
		// The last row is the still-open candle.
		if time.Now().UnixMilli() < r.closeTime {
			continue
		}
		out = append(out, domain.Kline{
			OpenTime: time.UnixMilli(r.openTime).UTC(),
			Close:    r.close,
		})
	}
	return out, nil
}

type klineRow struct {
	openTime  int64
	closeTime int64
	open      float64
	close     float64
}

func (c *Client) klines(ctx context.Context, interval string, startMillis int64, limit int) ([]klineRow, error) {
	q := url.Values{}
	q.Set("symbol", c.symbol)
	q.Set("interval", interval)
	if startMillis > 0 {
		q.Set("startTime", strconv.FormatInt(startMillis, 10))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	// Rows are arrays of mixed numbers and strings:
	// [openTime, open, high, low, close, volume, closeTime, ...]
	var raw [][]json.RawMessage
	u := fmt.Sprintf("%s/api/v3/klines?%s", c.base, q.Encode())
	if err := c.get(ctx, u, &raw); err != nil {
		return nil, err
	}

	rows := make([]klineRow, 0, len(raw))
	for _, r := range raw {
		if len(r) < 7 {
			return nil, fmt.Errorf("malformed kline row with %d fields", len(r))
		}
		var row klineRow
		if err := json.Unmarshal(r[0], &row.openTime); err != nil {
			return nil, fmt.Errorf("parse kline open time: %w", err)
		}
		if err := json.Unmarshal(r[6], &row.closeTime); err != nil {
			return nil, fmt.Errorf("parse kline close time: %w", err)
		}
		var err error
		if row.open, err = parseFloatField(r[1]); err != nil {
			return nil, fmt.Errorf("parse kline open: %w", err)
		}
		if row.close, err = parseFloatField(r[4]); err != nil {
			return nil, fmt.Errorf("parse kline close: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseFloatField(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.ParseFloat(s, 64)
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			if attempt == maxRetries {
				return fmt.Errorf("request failed after %d retries: %w", maxRetries, err)
			}
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			resp.Body.Close()
			if attempt == maxRetries {
				return fmt.Errorf("status %d after %d retries", resp.StatusCode, maxRetries)
			}
			slog.Warn("binance request retrying", "status", resp.StatusCode, "attempt", attempt+1)
			c.sleep(ctx, attempt)
			continue
		}

		if resp.StatusCode >= 400 {
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			return fmt.Errorf("client error %d: %s", resp.StatusCode, string(body))
		}

		err = json.NewDecoder(resp.Body).Decode(out)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}
	return fmt.Errorf("exhausted %d retries", maxRetries)
}

func (c *Client) sleep(ctx context.Context, attempt int) {
	wait := time.Duration(math.Pow(2, float64(attempt))) * baseRetryWait
	select {
	case <-time.After(wait):
	case <-ctx.Done():
	}
}
