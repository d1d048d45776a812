package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"finledger/internal/core"
	"finledger/internal/storage"
)

// bindError flattens validator failures into a client-safe message.
func bindError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		parts := make([]string, len(verrs))
		for i, fe := range verrs {
			parts[i] = strings.ToLower(fe.Field()) + " failed " + fe.Tag() + " validation"
		}
		return strings.Join(parts, "; ")
	}
	return "malformed JSON body"
}

const dateLayout = "2006-01-02"

// parseDate parses a YYYY-MM-DD value as UTC midnight so stored dates
// compare consistently.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

// pathID parses the :id path parameter.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// respondStorageError maps repository sentinels to the API error
// taxonomy: 404 for missing rows, 409 for uniqueness conflicts, and a
// generic 500 for anything unexpected. Internals are logged, never
// returned to the client.
func respondStorageError(c *gin.Context, err error, resource string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": resource + " not found"})
	case errors.Is(err, storage.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": resource + " already exists"})
	case errors.Is(err, storage.ErrInUse):
		c.JSON(http.StatusConflict, gin.H{"error": resource + " is still in use"})
	default:
		slog.ErrorContext(c.Request.Context(), "Storage operation failed",
			"resource", resource,
			"error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// summaryKey is the cache key for one user's month.
func summaryKey(userID int64, year, month int) string {
	return fmt.Sprintf("%d-%04d-%02d", userID, year, month)
}

// invalidateSummary drops the cached summary covering the given date.
func (s *Server) invalidateSummary(userID int64, date time.Time) {
	s.summaryCache.Delete(summaryKey(userID, date.Year(), int(date.Month())))
}

type expenseJSON struct {
	ID            int64   `json:"id"`
	Type          string  `json:"type_expense"`
	Description   string  `json:"description"`
	DatePurchase  string  `json:"date_purchase"`
	Amount        float64 `json:"amount"`
	CategoryID    int64   `json:"category_id"`
	Recurrence    string  `json:"recurrence,omitempty"`
	RecurrenceEnd string  `json:"recurrence_end,omitempty"`
}

func toExpenseJSON(e core.Expense) expenseJSON {
	out := expenseJSON{
		ID:           e.ID,
		Type:         e.Type,
		Description:  e.Description,
		DatePurchase: e.DatePurchase.Format(dateLayout),
		Amount:       e.Amount.Float(),
		CategoryID:   e.CategoryID,
		Recurrence:   string(e.Recurrence),
	}
	if !e.RecurrenceEnd.IsZero() {
		out.RecurrenceEnd = e.RecurrenceEnd.Format(dateLayout)
	}
	return out
}

func toExpenseList(expenses []core.Expense) []expenseJSON {
	out := make([]expenseJSON, len(expenses))
	for i, e := range expenses {
		out[i] = toExpenseJSON(e)
	}
	return out
}
