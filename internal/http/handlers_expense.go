package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finledger/internal/core"
	"finledger/internal/storage"
)

type expenseRequest struct {
	Type          string  `json:"type_expense" binding:"required,max=50"`
	Description   string  `json:"description" binding:"required,max=200"`
	DatePurchase  string  `json:"date_purchase" binding:"required"`
	Amount        float64 `json:"amount" binding:"gte=0"`
	Category      string  `json:"category" binding:"required,max=50"`
	Recurrence    string  `json:"recurrence" binding:"omitempty,oneof=daily weekly monthly"`
	RecurrenceEnd string  `json:"recurrence_end"`
}

// toExpense resolves the category name and converts the wire payload
// into a domain expense owned by userID.
func (s *Server) toExpense(c *gin.Context, req expenseRequest, userID int64) (core.Expense, bool) {
	date, err := parseDate(req.DatePurchase)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return core.Expense{}, false
	}

	e := core.Expense{
		Type:         req.Type,
		Description:  req.Description,
		DatePurchase: date,
		Amount:       core.Money{Cents: core.CentsFromFloat(req.Amount)},
		UserID:       userID,
		Recurrence:   core.Recurrence(req.Recurrence),
	}

	if req.RecurrenceEnd != "" {
		end, err := parseDate(req.RecurrenceEnd)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return core.Expense{}, false
		}
		e.RecurrenceEnd = end
	}

	category, err := s.store.GetCategoryByName(c.Request.Context(), req.Category)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return core.Expense{}, false
		}
		respondStorageError(c, err, "category")
		return core.Expense{}, false
	}
	e.CategoryID = category.ID

	return e, true
}

func (s *Server) handleCreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense payload: " + bindError(err)})
		return
	}

	userID := currentUserID(c)
	e, ok := s.toExpense(c, req, userID)
	if !ok {
		return
	}

	created, err := s.expenses.CreateExpense(c.Request.Context(), e)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondStorageError(c, err, "expense")
		return
	}

	s.invalidateSummary(userID, created.DatePurchase)
	c.JSON(http.StatusCreated, toExpenseJSON(*created))
}

func (s *Server) handleUpdateExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid expense payload: " + bindError(err)})
		return
	}

	userID := currentUserID(c)

	// fetch first so the cache entry for the old month gets dropped too
	prev, err := s.store.GetExpense(c.Request.Context(), userID, id)
	if err != nil {
		respondStorageError(c, err, "expense")
		return
	}

	e, ok := s.toExpense(c, req, userID)
	if !ok {
		return
	}
	e.ID = id

	if err := s.expenses.UpdateExpense(c.Request.Context(), e); err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondStorageError(c, err, "expense")
		return
	}

	s.invalidateSummary(userID, prev.DatePurchase)
	s.invalidateSummary(userID, e.DatePurchase)
	c.JSON(http.StatusOK, toExpenseJSON(e))
}

func (s *Server) handleDeleteExpense(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	userID := currentUserID(c)

	prev, err := s.store.GetExpense(c.Request.Context(), userID, id)
	if err != nil {
		respondStorageError(c, err, "expense")
		return
	}

	if err := s.expenses.DeleteExpense(c.Request.Context(), userID, id); err != nil {
		respondStorageError(c, err, "expense")
		return
	}

	s.invalidateSummary(userID, prev.DatePurchase)
	c.JSON(http.StatusOK, gin.H{"message": "expense deleted"})
}

func (s *Server) handleFilterExpenses(c *gin.Context) {
	filter, ok := s.parseExpenseFilter(c)
	if !ok {
		return
	}

	expenses, err := s.store.FilterExpenses(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		respondStorageError(c, err, "expense")
		return
	}

	c.JSON(http.StatusOK, gin.H{"expenses": toExpenseList(expenses)})
}

// parseExpenseFilter reads the filter query parameters shared by
// /filter_expenses and the export endpoints. sort_by must match the
// sortable-column whitelist; anything else is a 400, never raw SQL.
func (s *Server) parseExpenseFilter(c *gin.Context) (storage.ExpenseFilter, bool) {
	var f storage.ExpenseFilter

	f.Type = c.Query("type_expense")

	if v := c.Query("min_amount"); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid min_amount"})
			return f, false
		}
		f.MinAmount = &cents
	}
	if v := c.Query("max_amount"); v != "" {
		cents, err := core.ParseDecimalToCents(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_amount"})
			return f, false
		}
		f.MaxAmount = &cents
	}

	if v := c.Query("start_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date: " + err.Error()})
			return f, false
		}
		f.StartDate = t
	}
	if v := c.Query("end_date"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date: " + err.Error()})
			return f, false
		}
		f.EndDate = t
	}

	column, ok := storage.SortColumn(c.Query("sort_by"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sort_by; allowed: date_purchase, amount, type_expense, description"})
		return f, false
	}
	f.SortBy = column

	switch order := c.Query("order"); order {
	case "", "asc":
	case "desc":
		f.Descending = true
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order; allowed: asc, desc"})
		return f, false
	}

	return f, true
}

// isValidationError distinguishes domain validation failures from
// storage errors so they map to 400 instead of 500.
func isValidationError(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrNegativeAmount) ||
		errors.Is(err, core.ErrEmptyDescription) ||
		errors.Is(err, core.ErrEmptyType) ||
		errors.Is(err, core.ErrInvalidDate) ||
		errors.Is(err, core.ErrInvalidRecurrence) ||
		errors.Is(err, core.ErrEndBeforeStart) ||
		errors.Is(err, core.ErrDescriptionLong) ||
		errors.Is(err, core.ErrEndWithoutRule)
}
