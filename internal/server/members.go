package server

import (
	"net/http"

	membershipdomain "github.com/fieldops-app/fieldops/internal/membership/domain"
	"github.com/gin-gonic/gin"
)

type inviteRequest struct {
	UserEmail string `json:"userEmail"`
	Role      string `json:"role"`
}

func (s *Server) inviteMember(c *gin.Context) {
	var req inviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	result, err := s.membershipSvc.Invite(c.Request.Context(), currentUser(c).Email, membershipOrg(c), membershipdomain.InviteRequest{
		UserEmail: req.UserEmail,
		Role:      req.Role,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"inviteUrl": result.InviteURL,
		"expiresAt": result.ExpiresAt,
		"role":      result.Role,
	})
}

type inviteTokenRequest struct {
	Token string `json:"token"`
}

func (s *Server) acceptInvite(c *gin.Context) {
	var req inviteTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.membershipSvc.Accept(c.Request.Context(), currentUser(c).Email, membershipOrg(c), req.Token); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) declineInvite(c *gin.Context) {
	var req inviteTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	if err := s.membershipSvc.Decline(c.Request.Context(), membershipOrg(c), req.Token); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (s *Server) activateMember(c *gin.Context) {
	alreadyActive, err := s.membershipSvc.Activate(c.Request.Context(), currentUser(c).Email, membershipOrg(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := gin.H{"ok": true}
	if alreadyActive {
		resp["alreadyActive"] = true
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listMembers(c *gin.Context) {
	members, err := s.membershipSvc.List(c.Request.Context(), currentUser(c).Email, membershipOrg(c), membershipdomain.ListFilter{
		Role:   c.Query("role"),
		Status: c.Query("status"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

type addMemberRequest struct {
	UserEmail string `json:"userEmail"`
	UserName  string `json:"userName"`
	Role      string `json:"role"`
}

func (s *Server) addMember(c *gin.Context) {
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	member, err := s.membershipSvc.DirectAdd(c.Request.Context(), currentUser(c).Email, membershipOrg(c), membershipdomain.AddRequest{
		UserEmail: req.UserEmail,
		UserName:  req.UserName,
		Role:      req.Role,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "member": member})
}
