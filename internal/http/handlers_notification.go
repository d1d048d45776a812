package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleListNotifications(c *gin.Context) {
	notifications, err := s.store.ListNotifications(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondStorageError(c, err, "notification")
		return
	}

	out := make([]gin.H, len(notifications))
	for i, n := range notifications {
		out[i] = gin.H{
			"id":         n.ID,
			"message":    n.Message,
			"type":       n.Type,
			"created_at": n.CreatedAt,
			"is_read":    n.Read,
		}
	}
	c.JSON(http.StatusOK, gin.H{"notifications": out})
}

func (s *Server) handleMarkNotificationRead(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.store.MarkNotificationRead(c.Request.Context(), currentUserID(c), id); err != nil {
		respondStorageError(c, err, "notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

func (s *Server) handleDeleteNotification(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := s.store.DeleteNotification(c.Request.Context(), currentUserID(c), id); err != nil {
		respondStorageError(c, err, "notification")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}
