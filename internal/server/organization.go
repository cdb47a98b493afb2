package server

import (
	"net/http"

	organizationdomain "github.com/fieldops-app/fieldops/internal/organization/domain"
	"github.com/gin-gonic/gin"
)

type createOrgRequest struct {
	Name string `json:"name"`
	Slug string `json:"orgSlug"`
}

func (s *Server) createOrganization(c *gin.Context) {
	var req createOrgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user := currentUser(c)
	resp, err := s.organizationSvc.Create(c.Request.Context(), user.Email, user.Name, organizationdomain.CreateRequest{
		Name: req.Name,
		Slug: req.Slug,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true, "org": resp})
}

func (s *Server) listOrganizations(c *gin.Context) {
	orgs, err := s.organizationSvc.ListByUser(c.Request.Context(), currentUser(c).Email)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orgs": orgs})
}

func (s *Server) getOrganization(c *gin.Context) {
	org := currentOrg(c)
	c.JSON(http.StatusOK, gin.H{
		"org": gin.H{
			"_id":       org.ID.String(),
			"name":      org.Name,
			"orgSlug":   org.Slug,
			"role":      currentRole(c),
			"createdAt": org.CreatedAt,
		},
	})
}
