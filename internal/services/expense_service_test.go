package services

import (
	"context"
	"strings"
	"testing"

	"finledger/internal/core"
)

func TestCreateExpenseLargeTriggersNotification(t *testing.T) {
	repo, user, cat := newTestRepo(t)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	_, err := svc.CreateExpense(ctx, core.Expense{
		Type:         "Electronics",
		Description:  "new laptop",
		DatePurchase: date(2025, 3, 1),
		Amount:       core.Money{Cents: 120_000},
		UserID:       user.ID,
		CategoryID:   cat.ID,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	notifs, err := repo.ListNotifications(ctx, user.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifs) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(notifs))
	}
	n := notifs[0]
	if n.Type != NotificationTypeLargeExpense {
		t.Fatalf("type: got %q", n.Type)
	}
	if n.Read {
		t.Fatal("notification should start unread")
	}
	if !strings.Contains(n.Message, "$1200.00") || !strings.Contains(n.Message, "2025-03-01") {
		t.Fatalf("message missing amount or date: %q", n.Message)
	}
}

func TestCreateExpenseAtThreshold(t *testing.T) {
	repo, user, cat := newTestRepo(t)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	// exactly $1000.00 qualifies
	_, err := svc.CreateExpense(ctx, core.Expense{
		Type:         "Travel",
		Description:  "flight",
		DatePurchase: date(2025, 3, 2),
		Amount:       core.Money{Cents: LargeExpenseThresholdCents},
		UserID:       user.ID,
		CategoryID:   cat.ID,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	notifs, err := repo.ListNotifications(ctx, user.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifs) != 1 {
		t.Fatalf("expected one notification at threshold, got %d", len(notifs))
	}
}

func TestCreateExpenseBelowThresholdNoNotification(t *testing.T) {
	repo, user, cat := newTestRepo(t)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	_, err := svc.CreateExpense(ctx, core.Expense{
		Type:         "Food",
		Description:  "groceries",
		DatePurchase: date(2025, 3, 3),
		Amount:       core.Money{Cents: 99_999},
		UserID:       user.ID,
		CategoryID:   cat.ID,
	})
	if err != nil {
		t.Fatalf("create expense: %v", err)
	}

	notifs, err := repo.ListNotifications(ctx, user.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(notifs) != 0 {
		t.Fatalf("expected no notification, got %d", len(notifs))
	}
}

func TestRepeatedLargeExpensesEachNotify(t *testing.T) {
	repo, user, cat := newTestRepo(t)
	svc := NewExpenseService(repo, nil)
	ctx := context.Background()

	e := core.Expense{
		Type:         "Rent",
		Description:  "monthly rent",
		DatePurchase: date(2025, 3, 1),
		Amount:       core.Money{Cents: 150_000},
		UserID:       user.ID,
		CategoryID:   cat.ID,
	}
	for i := 0; i < 3; i++ {
		if _, err := svc.CreateExpense(ctx, e); err != nil {
			t.Fatalf("create expense %d: %v", i, err)
		}
	}

	notifs, err := repo.ListNotifications(ctx, user.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	// no de-duplication across identical expenses
	if len(notifs) != 3 {
		t.Fatalf("expected three notifications, got %d", len(notifs))
	}
}

func TestCreateExpenseInvalid(t *testing.T) {
	repo, user, cat := newTestRepo(t)
	svc := NewExpenseService(repo, nil)

	_, err := svc.CreateExpense(context.Background(), core.Expense{
		Type:         "Food",
		Description:  "",
		DatePurchase: date(2025, 3, 1),
		Amount:       core.Money{Cents: 100},
		UserID:       user.ID,
		CategoryID:   cat.ID,
	})
	if err != core.ErrEmptyDescription {
		t.Fatalf("got %v want %v", err, core.ErrEmptyDescription)
	}
}
