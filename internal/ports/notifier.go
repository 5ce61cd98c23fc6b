package ports

import (
	"context"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// Notifier presents each cycle's outcome to the user.
type Notifier interface {
	// NotifyCycle shows the cycle summary and any fills realized this cycle.
	NotifyCycle(ctx context.Context, rec domain.CycleRecord, fills []domain.FillLog) error
}
