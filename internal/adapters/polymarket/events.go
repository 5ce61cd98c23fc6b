package polymarket

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// Eastern is the exchange's reference timezone: hourly up-or-down event
// slugs are named after the Eastern wall-clock hour.
var eastern = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("load timezone " + name + ": " + err.Error())
	}
	return loc
}

// Events resolves the current hourly up-or-down session from the Gamma API.
// It implements ports.EventProvider.
type Events struct {
	client *Client
	now    func() time.Time
}

func NewEvents(client *Client) *Events {
	return &Events{client: client, now: time.Now}
}

// CurrentSession fetches the event for the current Eastern hour and extracts
// the market's condition and outcome tokens.
func (e *Events) CurrentSession(ctx context.Context, asset domain.Asset) (domain.Session, error) {
	now := e.now()
	slug := EventSlug(asset, now)

	var event gammaEvent
	url := fmt.Sprintf("%s/events/slug/%s", e.client.gammaBase, slug)
	if err := e.client.get(ctx, e.client.gammaLimiter, url, &event); err != nil {
		return domain.Session{}, fmt.Errorf("polymarket.CurrentSession: fetch %s: %w", slug, err)
	}
	if len(event.Markets) == 0 {
		return domain.Session{}, fmt.Errorf("polymarket.CurrentSession: event %s has no markets", slug)
	}

	market := event.Markets[0]
	yesTokenID, noTokenID, err := marketTokens(market)
	if err != nil {
		return domain.Session{}, fmt.Errorf("polymarket.CurrentSession: event %s: %w", slug, err)
	}

	return domain.Session{
		EventSlug:   event.Slug,
		Question:    market.Question,
		ConditionID: market.ConditionID,
		YesTokenID:  yesTokenID,
		NoTokenID:   noTokenID,
		CloseAt:     domain.NextHourClose(now),
	}, nil
}

// EventSlug builds the Gamma slug for the asset's hourly market covering the
// given instant, e.g. "bitcoin-up-or-down-august-31-3pm-et".
func EventSlug(asset domain.Asset, t time.Time) string {
	et := t.In(eastern)

	suffix := "am"
	if et.Hour() >= 12 {
		suffix = "pm"
	}
	hour12 := et.Hour() % 12
	if hour12 == 0 {
		hour12 = 12
	}

	month := strings.ToLower(et.Month().String())
	return fmt.Sprintf("%s-up-or-down-%s-%d-%d%s-et",
		asset, month, et.Day(), hour12, suffix)
}
