package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

func (s *Server) handleCreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category payload: " + bindError(err)})
		return
	}

	category, err := s.store.CreateCategory(c.Request.Context(), req.Name)
	if err != nil {
		respondStorageError(c, err, "category")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": category.ID, "name": category.Name})
}

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.store.ListCategories(c.Request.Context())
	if err != nil {
		respondStorageError(c, err, "category")
		return
	}

	out := make([]gin.H, len(categories))
	for i, cat := range categories {
		out[i] = gin.H{"id": cat.ID, "name": cat.Name}
	}
	c.JSON(http.StatusOK, gin.H{"categories": out})
}

func (s *Server) handleDeleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.store.DeleteCategory(c.Request.Context(), id); err != nil {
		respondStorageError(c, err, "category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "category deleted"})
}
