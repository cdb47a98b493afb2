package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) listNotifications(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true" || c.Query("unread") == "1"
	items, err := s.notificationSvc.List(c.Request.Context(), currentOrg(c).ID, currentUser(c).Email, unreadOnly)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": items})
}

func (s *Server) markNotificationRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := s.notificationSvc.MarkRead(c.Request.Context(), currentOrg(c).ID, id, currentUser(c).Email); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
