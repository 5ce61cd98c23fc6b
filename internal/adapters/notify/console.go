package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"

	"github.com/alejandrodnm/updownbot/internal/domain"
)

// Console implements ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole creates a notifier that writes to stdout. With table enabled,
// cycles with fills print a fills table instead of a one-liner.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter creates a notifier for tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// NotifyCycle prints the cycle summary and any fills.
func (c *Console) NotifyCycle(_ context.Context, rec domain.CycleRecord, fills []domain.FillLog) error {
	c.printCompact(rec)
	if c.table && len(fills) > 0 {
		c.printFills(fills)
	}
	return nil
}

// printCompact prints the essentials in one line.
func (c *Console) printCompact(rec domain.CycleRecord) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] p=%.3f bid/ask %.2f/%.2f", rec.Time.Format("15:04:05"), rec.FairProb, rec.BestBid, rec.BestAsk)
	fmt.Fprintf(&sb, " | cash $%.2f pos $%.2f pnl $%.2f", rec.Cash, rec.PositionValue, rec.PnL)
	if rec.Fills > 0 {
		fmt.Fprintf(&sb, " | fills:%d", rec.Fills)
	}
	fmt.Fprintf(&sb, " | pending:%d", rec.PendingCount)
	fmt.Fprintln(c.out, sb.String())
}

// printFills prints the cycle's fills as a table.
func (c *Console) printFills(fills []domain.FillLog) {
	table := tablewriter.NewWriter(c.out)
	table.Header("Time", "Side", "Outcome", "Size", "Price", "Value", "Bid", "Ask", "p")

	for _, f := range fills {
		table.Append(
			f.Time.Format(time.TimeOnly),
			string(f.Side),
			string(f.Outcome),
			fmt.Sprintf("%.2f", f.Size),
			fmt.Sprintf("%.3f", f.Price),
			fmt.Sprintf("$%.2f", f.Size*f.Price),
			fmt.Sprintf("%.3f", f.BestBid),
			fmt.Sprintf("%.3f", f.BestAsk),
			fmt.Sprintf("%.3f", f.FairProb),
		)
	}

	table.Render()
}
