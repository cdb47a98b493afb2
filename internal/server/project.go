package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	projectdomain "github.com/fieldops-app/fieldops/internal/project/domain"
	"github.com/gin-gonic/gin"
)

func parseID(c *gin.Context, name string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param(name))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return 0, false
	}
	return id, true
}

func (s *Server) createProject(c *gin.Context) {
	var req projectdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	p, err := s.projectSvc.Create(c.Request.Context(), currentUser(c).Email, currentRole(c), currentOrg(c).ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (s *Server) getProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := s.projectSvc.Get(c.Request.Context(), currentOrg(c).ID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": p})
}

func (s *Server) updateProject(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req projectdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	p, err := s.projectSvc.Update(c.Request.Context(), currentRole(c), currentOrg(c).ID, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": p})
}

func (s *Server) listProjects(c *gin.Context) {
	projects, err := s.projectSvc.List(c.Request.Context(), currentOrg(c).ID, c.Query("status"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": projects})
}
