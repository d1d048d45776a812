// Package http exposes the JSON API: registration, authentication,
// expense CRUD with filtering, reports, exports, and notifications.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"finledger/internal/auth"
	"finledger/internal/cache"
	"finledger/internal/core"
	"finledger/internal/middleware/ratelimit"
	"finledger/internal/middleware/trace"
	"finledger/internal/services"
	"finledger/internal/storage"
)

type Server struct {
	http.Server

	store    *storage.SQLiteRepository
	tokens   *auth.TokenService
	expenses *services.ExpenseService
	limiter  *ratelimit.Limiter

	// per-user monthly summaries, invalidated on expense mutation
	summaryCache *cache.LRUCache[core.MonthlySummary]
}

func NewServer(addr string, store *storage.SQLiteRepository, tokens *auth.TokenService, expenses *services.ExpenseService, rateLimitPerMinute int) *Server {
	s := &Server{
		store:        store,
		tokens:       tokens,
		expenses:     expenses,
		limiter:      ratelimit.NewLimiter(rateLimitPerMinute),
		summaryCache: cache.NewLRUCache[core.MonthlySummary](512, 5*time.Minute),
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), trace.Middleware(), s.limiter.Middleware())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	engine.POST("/register", s.handleRegister)
	engine.POST("/login", s.handleLogin)

	authed := engine.Group("/", s.requireAuth())
	{
		authed.POST("/logout", s.handleLogout)
		authed.GET("/protected", s.handleProtected)
		authed.GET("/profile", s.handleGetProfile)
		authed.PUT("/profile", s.handleUpdateProfile)

		authed.POST("/expenses", s.handleCreateExpense)
		authed.PUT("/expenses/:id", s.handleUpdateExpense)
		authed.DELETE("/expenses/:id", s.handleDeleteExpense)
		authed.GET("/filter_expenses", s.handleFilterExpenses)

		authed.POST("/categories", s.handleCreateCategory)
		authed.GET("/categories", s.handleListCategories)
		authed.DELETE("/categories/:id", s.handleDeleteCategory)

		authed.POST("/recurring_expenses", s.handleCreateRecurring)
		authed.GET("/recurring_expenses", s.handleListRecurring)
		authed.DELETE("/recurring_expenses/:id", s.handleDeleteRecurring)

		authed.GET("/report/monthly_summary", s.handleMonthlySummary)
		authed.GET("/export/csv", s.handleExportCSV)
		authed.GET("/export/pdf", s.handleExportPDF)

		authed.GET("/notifications", s.handleListNotifications)
		authed.PATCH("/notifications/:id/read", s.handleMarkNotificationRead)
		authed.DELETE("/notifications/:id", s.handleDeleteNotification)
	}

	s.Addr = addr
	s.Handler = engine
	s.ReadTimeout = 10 * time.Second
	s.WriteTimeout = 30 * time.Second
	s.IdleTimeout = 60 * time.Second
	s.MaxHeaderBytes = 1 << 16 // 64KB

	return s
}

// Shutdown stops the listener and the rate limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.Stop()
	return s.Server.Shutdown(ctx)
}
