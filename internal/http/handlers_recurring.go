package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"finledger/internal/core"
	"finledger/internal/storage"
)

type recurringRequest struct {
	Type        string  `json:"type_expense" binding:"required,max=50"`
	Description string  `json:"description" binding:"required,max=200"`
	Amount      float64 `json:"amount" binding:"gt=0"`
	Interval    string  `json:"interval" binding:"required,oneof=daily weekly monthly"`
	StartDate   string  `json:"start_date" binding:"required"`
	EndDate     string  `json:"end_date"`
	Category    string  `json:"category" binding:"required,max=50"`
}

type recurringJSON struct {
	ID          int64   `json:"id"`
	Type        string  `json:"type_expense"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Interval    string  `json:"interval"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date,omitempty"`
	CategoryID  int64   `json:"category_id"`
}

func toRecurringJSON(re core.RecurringExpense) recurringJSON {
	out := recurringJSON{
		ID:          re.ID,
		Type:        re.Type,
		Description: re.Description,
		Amount:      re.Amount.Float(),
		Interval:    string(re.Interval),
		StartDate:   re.StartDate.Format(dateLayout),
		CategoryID:  re.CategoryID,
	}
	if !re.EndDate.IsZero() {
		out.EndDate = re.EndDate.Format(dateLayout)
	}
	return out
}

func (s *Server) handleCreateRecurring(c *gin.Context) {
	var req recurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recurring expense payload: " + bindError(err)})
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	re := core.RecurringExpense{
		Type:        req.Type,
		Description: req.Description,
		Amount:      core.Money{Cents: core.CentsFromFloat(req.Amount)},
		Interval:    core.Recurrence(req.Interval),
		StartDate:   start,
		UserID:      currentUserID(c),
	}

	if req.EndDate != "" {
		end, err := parseDate(req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		re.EndDate = end
	}

	category, err := s.store.GetCategoryByName(c.Request.Context(), req.Category)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
			return
		}
		respondStorageError(c, err, "category")
		return
	}
	re.CategoryID = category.ID

	if err := re.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := s.store.CreateRecurringExpense(c.Request.Context(), re)
	if err != nil {
		respondStorageError(c, err, "recurring expense")
		return
	}

	c.JSON(http.StatusCreated, toRecurringJSON(*created))
}

func (s *Server) handleListRecurring(c *gin.Context) {
	list, err := s.store.ListRecurringExpenses(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondStorageError(c, err, "recurring expense")
		return
	}

	out := make([]recurringJSON, len(list))
	for i, re := range list {
		out[i] = toRecurringJSON(re)
	}
	c.JSON(http.StatusOK, gin.H{"recurring_expenses": out})
}

func (s *Server) handleDeleteRecurring(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.store.DeleteRecurringExpense(c.Request.Context(), currentUserID(c), id); err != nil {
		respondStorageError(c, err, "recurring expense")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "recurring expense deleted"})
}
