package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) getMe(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID.String(),
			"email": user.Email,
			"name":  user.Name,
		},
	})
}
