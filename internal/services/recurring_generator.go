package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finledger/internal/core"
	"finledger/internal/storage"
)

// RecurringGenerator materializes the next occurrence of every expense
// carrying a recurrence tag. It runs on a fixed interval (24h in
// production) from a background goroutine sharing the API's pool.
type RecurringGenerator struct {
	storage *storage.SQLiteRepository
}

func NewRecurringGenerator(storage *storage.SQLiteRepository) *RecurringGenerator {
	return &RecurringGenerator{storage: storage}
}

// Run performs one generation pass. For each recurring-tagged expense the
// next occurrence is the purchase date plus 1 day (daily), 7 days
// (weekly), or 30 days (monthly — a fixed offset, not calendar-month
// arithmetic). All inserts of a pass share one transaction committed
// after the loop; a failure rolls the whole pass back.
//
// There is no idempotency guard: re-running a pass without the source
// records advancing inserts duplicates again.
func (g *RecurringGenerator) Run(ctx context.Context, now time.Time) (int, error) {
	if g.storage == nil {
		return 0, fmt.Errorf("generator not properly initialized")
	}

	tagged, err := g.storage.ListRecurringTagged(ctx)
	if err != nil {
		return 0, fmt.Errorf("list recurring expenses: %w", err)
	}

	slog.InfoContext(ctx, "Generating recurring expenses",
		"total_tagged", len(tagged),
		"run_date", now.Format("2006-01-02"))

	batch := make([]core.Expense, 0, len(tagged))
	for _, e := range tagged {
		next := e.Recurrence.Next(e.DatePurchase)
		if !e.RecurrenceEnd.IsZero() && next.After(e.RecurrenceEnd) {
			slog.DebugContext(ctx, "Recurrence ended, skipping",
				"expense_id", e.ID,
				"next_date", next.Format("2006-01-02"),
				"recurrence_end", e.RecurrenceEnd.Format("2006-01-02"))
			continue
		}

		dup := e
		dup.ID = 0
		dup.DatePurchase = next
		batch = append(batch, dup)
	}

	if len(batch) == 0 {
		slog.InfoContext(ctx, "Recurring generation complete", "created", 0)
		return 0, nil
	}

	if err := g.storage.InsertExpensesBatch(ctx, batch); err != nil {
		return 0, fmt.Errorf("insert generated expenses: %w", err)
	}

	slog.InfoContext(ctx, "Recurring generation complete",
		"created", len(batch),
		"total_checked", len(tagged))

	return len(batch), nil
}

// Start runs generation passes on the given interval until ctx is
// cancelled. A failed pass is logged and abandoned until the next tick —
// no retry or backoff.
func (g *RecurringGenerator) Start(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			if count, err := g.Run(ctx, now); err != nil {
				slog.ErrorContext(ctx, "Recurring generation failed", "error", err)
			} else {
				slog.InfoContext(ctx, "Recurring generation tick finished",
					"expenses_created", count,
					"next_run", now.Add(interval).Format("2006-01-02 15:04:05"))
			}
		}
	}
}
