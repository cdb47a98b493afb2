package server

import (
	"errors"
	"fmt"
	"net/http"

	basestationdomain "github.com/fieldops-app/fieldops/internal/basestation/domain"
	identitydomain "github.com/fieldops-app/fieldops/internal/identity/domain"
	membershipdomain "github.com/fieldops-app/fieldops/internal/membership/domain"
	notificationdomain "github.com/fieldops-app/fieldops/internal/notification/domain"
	organizationdomain "github.com/fieldops-app/fieldops/internal/organization/domain"
	projectdomain "github.com/fieldops-app/fieldops/internal/project/domain"
	reportdomain "github.com/fieldops-app/fieldops/internal/report/domain"
	subscriptiondomain "github.com/fieldops-app/fieldops/internal/subscription/domain"
	taskdomain "github.com/fieldops-app/fieldops/internal/task/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ErrInvalidRequest covers malformed bodies and query parameters.
var ErrInvalidRequest = errors.New("invalid_request")

// ErrorHandlingMiddleware turns the last error recorded on the context into
// the JSON error body. Every failure renders as {"error": string}.
func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}
		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, msg := mapError(lastErr.Err)
		c.AbortWithStatusJSON(status, gin.H{"error": msg})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func mapError(err error) (int, string) {
	var seatErr *membershipdomain.SeatLimitError
	if errors.As(err, &seatErr) {
		return http.StatusPaymentRequired,
			fmt.Sprintf("Достигнут лимит мест: %d/%d", seatErr.Used, seatErr.Limit)
	}
	var projErr *projectdomain.LimitError
	if errors.As(err, &projErr) {
		return http.StatusPaymentRequired,
			fmt.Sprintf("Достигнут лимит проектов: %d/%d", projErr.Used, projErr.Limit)
	}

	switch {
	case errors.Is(err, identitydomain.ErrInvalidToken),
		errors.Is(err, identitydomain.ErrInvalidTicket):
		return http.StatusUnauthorized, "unauthorized"

	case errors.Is(err, membershipdomain.ErrForbidden),
		errors.Is(err, membershipdomain.ErrNotMember),
		errors.Is(err, projectdomain.ErrForbidden),
		errors.Is(err, taskdomain.ErrForbidden),
		errors.Is(err, basestationdomain.ErrForbidden):
		return http.StatusForbidden, "Недостаточно прав"

	case errors.Is(err, organizationdomain.ErrSlugTaken):
		return http.StatusConflict, err.Error()

	case errors.Is(err, organizationdomain.ErrOrgNotFound),
		errors.Is(err, identitydomain.ErrUserNotFound),
		errors.Is(err, subscriptiondomain.ErrNotFound),
		errors.Is(err, projectdomain.ErrProjectNotFound),
		errors.Is(err, taskdomain.ErrTaskNotFound),
		errors.Is(err, reportdomain.ErrReportNotFound),
		errors.Is(err, notificationdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, membershipdomain.ErrRateLimited):
		return http.StatusTooManyRequests, err.Error()

	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, organizationdomain.ErrInvalidName),
		errors.Is(err, organizationdomain.ErrInvalidSlug),
		errors.Is(err, membershipdomain.ErrInvalidEmail),
		errors.Is(err, membershipdomain.ErrEmailNotRegistered),
		errors.Is(err, membershipdomain.ErrInvalidRole),
		errors.Is(err, membershipdomain.ErrInvalidStatus),
		// A token that no longer matches anything is indistinguishable from a
		// malformed one, so it reads as a bad request rather than a missing
		// resource.
		errors.Is(err, membershipdomain.ErrInviteNotFound),
		errors.Is(err, subscriptiondomain.ErrInvalidPlan),
		errors.Is(err, subscriptiondomain.ErrInvalidStatus),
		errors.Is(err, subscriptiondomain.ErrInvalidSeats),
		errors.Is(err, subscriptiondomain.ErrInvalidLimit),
		errors.Is(err, subscriptiondomain.ErrInvalidPeriod),
		errors.Is(err, projectdomain.ErrInvalidName),
		errors.Is(err, projectdomain.ErrInvalidStatus),
		errors.Is(err, taskdomain.ErrInvalidTitle),
		errors.Is(err, taskdomain.ErrInvalidStatus),
		errors.Is(err, taskdomain.ErrInvalidProject),
		errors.Is(err, reportdomain.ErrInvalidImage),
		errors.Is(err, reportdomain.ErrInvalidProject),
		errors.Is(err, reportdomain.ErrInvalidTask),
		errors.Is(err, basestationdomain.ErrInvalidKML),
		errors.Is(err, basestationdomain.ErrNoPlacemarks),
		errors.Is(err, notificationdomain.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	}

	return http.StatusInternalServerError, "internal_error"
}
