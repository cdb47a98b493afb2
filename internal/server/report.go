package server

import (
	"io"
	"net/http"

	"github.com/bwmarrin/snowflake"
	reportdomain "github.com/fieldops-app/fieldops/internal/report/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) createReport(c *gin.Context) {
	file, _, err := c.Request.FormFile("photo")
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	defer file.Close()

	org := currentOrg(c)
	rep, err := s.reportSvc.Create(c.Request.Context(), currentUser(c).Email, org.ID, org.Name, reportdomain.CreateRequest{
		ProjectID: c.PostForm("projectId"),
		TaskID:    c.PostForm("taskId"),
		Caption:   c.PostForm("caption"),
	}, file)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "report": rep})
}

func (s *Server) listReports(c *gin.Context) {
	var projectID snowflake.ID
	if raw := c.Query("projectId"); raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			AbortWithError(c, ErrInvalidRequest)
			return
		}
		projectID = id
	}

	reports, err := s.reportSvc.List(c.Request.Context(), currentOrg(c).ID, projectID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (s *Server) getReportPhoto(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	rc, err := s.reportSvc.OpenStamped(c.Request.Context(), currentOrg(c).ID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer rc.Close()

	c.Header("Content-Type", "image/jpeg")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, rc)
}
