package services

import (
	"context"
	"fmt"
	"log/slog"

	"finledger/internal/amqp"
	"finledger/internal/core"
	"finledger/internal/storage"
)

// LargeExpenseThresholdCents is the fixed threshold at or above which an
// expense produces a large_expense notification.
const LargeExpenseThresholdCents int64 = 100_000 // $1000.00

const NotificationTypeLargeExpense = "large_expense"

// ExpenseService orchestrates expense persistence and its side effects:
// the large-expense notification row and the AMQP notification event.
type ExpenseService struct {
	storage    *storage.SQLiteRepository
	amqpClient *amqp.Client
}

func NewExpenseService(storage *storage.SQLiteRepository, amqpClient *amqp.Client) *ExpenseService {
	return &ExpenseService{
		storage:    storage,
		amqpClient: amqpClient,
	}
}

// CreateExpense persists an expense and, when the amount meets the
// threshold, records a notification. Every qualifying expense produces
// its own notification; there is no de-duplication across identical
// expenses.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (*core.Expense, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}

	saved, err := s.storage.CreateExpense(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("save expense: %w", err)
	}

	s.checkLargeExpense(ctx, saved)

	return saved, nil
}

// UpdateExpense replaces an expense's mutable fields. Edits do not
// re-trigger the notification check; only creation does.
func (s *ExpenseService) UpdateExpense(ctx context.Context, e core.Expense) error {
	if err := e.Validate(); err != nil {
		return err
	}
	return s.storage.UpdateExpense(ctx, e)
}

func (s *ExpenseService) DeleteExpense(ctx context.Context, userID, id int64) error {
	return s.storage.DeleteExpense(ctx, userID, id)
}

// checkLargeExpense runs synchronously after persist. A failure to record
// or publish the notification is logged but never fails the expense.
func (s *ExpenseService) checkLargeExpense(ctx context.Context, e *core.Expense) {
	if e.Amount.Cents < LargeExpenseThresholdCents {
		return
	}

	message := fmt.Sprintf("Large expense recorded: $%.2f on %s",
		e.Amount.Float(), e.DatePurchase.Format("2006-01-02"))

	n, err := s.storage.CreateNotification(ctx, e.UserID, message, NotificationTypeLargeExpense)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to record large-expense notification",
			"expense_id", e.ID,
			"user_id", e.UserID,
			"error", err)
		return
	}

	slog.InfoContext(ctx, "Large expense notification created",
		"notification_id", n.ID,
		"expense_id", e.ID,
		"user_id", e.UserID,
		"amount_cents", e.Amount.Cents)

	if s.amqpClient == nil {
		return
	}
	msg := amqp.NewNotificationMessage(n.ID, n.UserID, n.Type, n.Message)
	if err := s.amqpClient.PublishNotification(ctx, msg); err != nil {
		// Delivery consumers miss this one; the notification row is
		// still visible through the API.
		slog.ErrorContext(ctx, "Failed to publish notification event",
			"notification_id", n.ID,
			"error", err)
	}
}

// Close closes both storage and AMQP connections.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}
