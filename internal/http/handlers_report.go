package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"finledger/internal/export"
)

// handleMonthlySummary returns per-type totals for one calendar month,
// defaulting to the current one. Results are cached per user and month
// until an expense mutation invalidates them.
func (s *Server) handleMonthlySummary(c *gin.Context) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1970 || y > 9999 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}
		year = y
	}
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		month = m
	}

	userID := currentUserID(c)
	key := summaryKey(userID, year, month)

	summary, hit := s.summaryCache.Get(key)
	if !hit {
		var err error
		summary, err = s.store.MonthlySummary(c.Request.Context(), userID, year, month)
		if err != nil {
			respondStorageError(c, err, "summary")
			return
		}
		s.summaryCache.Set(key, summary)
	}

	byType := make([]gin.H, len(summary.ByType))
	var total float64
	for i, tt := range summary.ByType {
		byType[i] = gin.H{"type_expense": tt.Type, "total": tt.Total.Float()}
		total += tt.Total.Float()
	}

	c.JSON(http.StatusOK, gin.H{
		"year":    summary.Year,
		"month":   summary.Month,
		"by_type": byType,
		"total":   total,
	})
}

// Export endpoints reuse the /filter_expenses query parameters so a
// filtered view can be downloaded as-is.

func (s *Server) handleExportCSV(c *gin.Context) {
	filter, ok := s.parseExpenseFilter(c)
	if !ok {
		return
	}

	expenses, err := s.store.FilterExpenses(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		respondStorageError(c, err, "expense")
		return
	}

	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, expenses); err != nil {
		slog.ErrorContext(c.Request.Context(), "CSV export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="expenses.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) handleExportPDF(c *gin.Context) {
	filter, ok := s.parseExpenseFilter(c)
	if !ok {
		return
	}

	expenses, err := s.store.FilterExpenses(c.Request.Context(), currentUserID(c), filter)
	if err != nil {
		respondStorageError(c, err, "expense")
		return
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, expenses); err != nil {
		slog.ErrorContext(c.Request.Context(), "PDF export failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "expenses.pdf"))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}
