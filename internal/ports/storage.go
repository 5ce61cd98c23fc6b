package ports

import (
	"context"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// AuditStorage persists the fill log and per-cycle summaries. Write-only
// history: nothing is read back into bot state across restarts.
type AuditStorage interface {
	SaveFills(ctx context.Context, fills []domain.FillLog) error
	SaveCycle(ctx context.Context, rec domain.CycleRecord) error
	Close() error
}
