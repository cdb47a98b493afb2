package server

import (
	"errors"
	"net/http"
	"time"

	subscriptiondomain "github.com/fieldops-app/fieldops/internal/subscription/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) getSubscription(c *gin.Context) {
	sub, err := s.subscriptionSvc.GetByOrg(c.Request.Context(), currentOrg(c).ID)
	if err != nil && !errors.Is(err, subscriptiondomain.ErrNotFound) {
		AbortWithError(c, err)
		return
	}
	if sub == nil {
		// An org without a subscription row still answers with the effective
		// defaults the seat checks run on.
		seats, serr := s.subscriptionSvc.SeatLimit(c.Request.Context(), currentOrg(c).ID)
		if serr != nil {
			AbortWithError(c, serr)
			return
		}
		projects, perr := s.subscriptionSvc.ProjectsLimit(c.Request.Context(), currentOrg(c).ID)
		if perr != nil {
			AbortWithError(c, perr)
			return
		}
		c.JSON(http.StatusOK, gin.H{"subscription": gin.H{
			"plan":           "free",
			"status":         subscriptiondomain.StatusInactive,
			"seats":          seats,
			"projects_limit": projects,
		}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscription": sub})
}

type updateSubscriptionRequest struct {
	Plan        string     `json:"plan"`
	Status      string     `json:"status"`
	Seats       *int       `json:"seats"`
	Projects    *int       `json:"projectsLimit"`
	PeriodStart *time.Time `json:"periodStart"`
	PeriodEnd   *time.Time `json:"periodEnd"`
	Note        *string    `json:"note"`
}

func (s *Server) updateSubscription(c *gin.Context) {
	var req updateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	sub, err := s.subscriptionSvc.Update(c.Request.Context(), currentOrg(c).ID, subscriptiondomain.UpdateRequest{
		Plan:           req.Plan,
		Status:         req.Status,
		Seats:          req.Seats,
		ProjectsLimit:  req.Projects,
		PeriodStart:    req.PeriodStart,
		PeriodEnd:      req.PeriodEnd,
		Note:           req.Note,
		UpdatedByEmail: currentUser(c).Email,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "subscription": sub})
}
