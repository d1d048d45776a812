package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Daily   Recurrence = "daily"
	Weekly  Recurrence = "weekly"
	Monthly Recurrence = "monthly"
)

type (
	// Recurrence is the tag that causes an expense to be regenerated
	// periodically by the background generator.
	Recurrence string

	User struct {
		ID           int64
		Username     string
		Email        string
		PasswordHash string
		CreatedAt    time.Time
	}

	Category struct {
		ID   int64
		Name string
	}

	Expense struct {
		ID            int64
		Type          string
		Description   string
		DatePurchase  time.Time
		Amount        Money
		UserID        int64
		CategoryID    int64
		Recurrence    Recurrence // empty when the expense does not repeat
		RecurrenceEnd time.Time  // zero when open-ended
	}

	RecurringExpense struct {
		ID          int64
		Amount      Money
		Type        string
		Description string
		Interval    Recurrence
		StartDate   time.Time
		EndDate     time.Time // zero when open-ended
		UserID      int64
		CategoryID  int64
	}

	Notification struct {
		ID        int64
		UserID    int64
		Message   string
		Type      string
		CreatedAt time.Time
		Read      bool
	}
)

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrNegativeAmount    = errors.New("amount cannot be negative")
	ErrEmptyDescription  = errors.New("empty description")
	ErrEmptyType         = errors.New("empty expense type")
	ErrInvalidDate       = errors.New("invalid date")
	ErrInvalidRecurrence = errors.New("invalid recurrence")
	ErrEndBeforeStart    = errors.New("end date must not be before start date")
	ErrDescriptionLong   = errors.New("description too long (max 200 characters)")
	ErrEndWithoutRule    = errors.New("recurrence end date set without recurrence")
)

// Valid reports whether r is one of the enumerated recurrence tags.
// The empty string is not valid; callers treat it as "no recurrence".
func (r Recurrence) Valid() bool {
	switch r {
	case Daily, Weekly, Monthly:
		return true
	}
	return false
}

// Next returns the date of the following occurrence. Monthly uses a fixed
// 30-day offset rather than calendar-month arithmetic, matching the
// historical behavior of the generator.
func (r Recurrence) Next(from time.Time) time.Time {
	switch r {
	case Daily:
		return from.AddDate(0, 0, 1)
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Monthly:
		return from.AddDate(0, 0, 30)
	}
	return from
}

func (e Expense) Validate() error {
	if e.DatePurchase.IsZero() {
		return ErrInvalidDate
	}
	if len(strings.TrimSpace(e.Type)) == 0 {
		return ErrEmptyType
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(e.Description) > 200 {
		return ErrDescriptionLong
	}
	if e.Amount.Cents < 0 {
		return ErrNegativeAmount
	}
	if e.Recurrence != "" {
		if !e.Recurrence.Valid() {
			return ErrInvalidRecurrence
		}
		if !e.RecurrenceEnd.IsZero() && e.RecurrenceEnd.Before(e.DatePurchase) {
			return ErrEndBeforeStart
		}
	} else if !e.RecurrenceEnd.IsZero() {
		return ErrEndWithoutRule
	}
	return nil
}

func (re RecurringExpense) Validate() error {
	if re.StartDate.IsZero() {
		return fmt.Errorf("invalid start date: %w", ErrInvalidDate)
	}
	if !re.EndDate.IsZero() && re.EndDate.Before(re.StartDate) {
		return ErrEndBeforeStart
	}
	if !re.Interval.Valid() {
		return ErrInvalidRecurrence
	}
	if len(strings.TrimSpace(re.Type)) == 0 {
		return ErrEmptyType
	}
	if len(strings.TrimSpace(re.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(re.Description) > 200 {
		return ErrDescriptionLong
	}
	if re.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
