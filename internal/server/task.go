package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	taskdomain "github.com/fieldops-app/fieldops/internal/task/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) createTask(c *gin.Context) {
	var req taskdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	t, err := s.taskSvc.Create(c.Request.Context(), currentUser(c).Email, currentRole(c), currentOrg(c).ID, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "task": t})
}

func (s *Server) getTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	t, err := s.taskSvc.Get(c.Request.Context(), currentOrg(c).ID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": t})
}

func (s *Server) updateTask(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req taskdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	t, err := s.taskSvc.Update(c.Request.Context(), currentUser(c).Email, currentRole(c), currentOrg(c).ID, id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "task": t})
}

func (s *Server) listTasks(c *gin.Context) {
	filter := taskdomain.ListFilter{
		Status:        c.Query("status"),
		AssigneeEmail: strings.ToLower(strings.TrimSpace(c.Query("assignee"))),
	}
	if raw := c.Query("projectId"); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		filter.ProjectID = id
	}

	tasks, err := s.taskSvc.List(c.Request.Context(), currentOrg(c).ID, filter)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}
