package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"finledger/internal/auth"
)

type registerRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email,max=120"`
	Password string `json:"password" binding:"required,min=6,max=128"`
}

func (s *Server) handleRegister(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid registration payload: " + bindError(err)})
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Password hashing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	user, err := s.store.CreateUser(c.Request.Context(), req.Username, req.Email, hash)
	if err != nil {
		respondStorageError(c, err, "user")
		return
	}

	slog.InfoContext(c.Request.Context(), "User registered",
		"user_id", user.ID,
		"username", user.Username)

	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully", "id": user.ID})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	user, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		// same response for unknown email and wrong password
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
		return
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		slog.ErrorContext(c.Request.Context(), "Token generation failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	slog.InfoContext(c.Request.Context(), "User logged in", "user_id", user.ID)
	c.JSON(http.StatusOK, gin.H{"access_token": token})
}

func (s *Server) handleLogout(c *gin.Context) {
	claims := currentClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if err := s.store.RevokeToken(c.Request.Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		respondStorageError(c, err, "token")
		return
	}

	slog.InfoContext(c.Request.Context(), "Token revoked", "user_id", claims.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "successfully logged out"})
}

func (s *Server) handleProtected(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Welcome, user %d", currentUserID(c))})
}

func (s *Server) handleGetProfile(c *gin.Context) {
	user, err := s.store.GetUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondStorageError(c, err, "user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         user.ID,
		"username":   user.Username,
		"email":      user.Email,
		"created_at": user.CreatedAt,
	})
}

type updateProfileRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email,max=120"`
}

func (s *Server) handleUpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile payload: " + bindError(err)})
		return
	}

	if err := s.store.UpdateUserProfile(c.Request.Context(), currentUserID(c), req.Username, req.Email); err != nil {
		respondStorageError(c, err, "user")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "profile updated"})
}
