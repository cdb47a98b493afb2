package server

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	membershipdomain "github.com/fieldops-app/fieldops/internal/membership/domain"
	organizationdomain "github.com/fieldops-app/fieldops/internal/organization/domain"
	projectdomain "github.com/fieldops-app/fieldops/internal/project/domain"
	"github.com/gin-gonic/gin"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{
			name:   "seat limit carries counts",
			err:    &membershipdomain.SeatLimitError{Used: 5, Limit: 5},
			status: http.StatusPaymentRequired,
			msg:    "Достигнут лимит мест: 5/5",
		},
		{
			name:   "project limit carries counts",
			err:    &projectdomain.LimitError{Used: 10, Limit: 10},
			status: http.StatusPaymentRequired,
			msg:    "Достигнут лимит проектов: 10/10",
		},
		{
			name:   "forbidden",
			err:    membershipdomain.ErrForbidden,
			status: http.StatusForbidden,
			msg:    "Недостаточно прав",
		},
		{
			name:   "non-member reads as forbidden",
			err:    membershipdomain.ErrNotMember,
			status: http.StatusForbidden,
			msg:    "Недостаточно прав",
		},
		{
			name:   "slug conflict",
			err:    organizationdomain.ErrSlugTaken,
			status: http.StatusConflict,
			msg:    "org_slug_taken",
		},
		{
			name:   "stale invite token reads as bad request",
			err:    membershipdomain.ErrInviteNotFound,
			status: http.StatusBadRequest,
			msg:    "invite_not_found",
		},
		{
			name:   "invalid member status filter",
			err:    membershipdomain.ErrInvalidStatus,
			status: http.StatusBadRequest,
			msg:    "invalid_member_status",
		},
		{
			name:   "unknown errors hide details",
			err:    errors.New("pq: connection reset"),
			status: http.StatusInternalServerError,
			msg:    "internal_error",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, msg := mapError(tc.err)
			if status != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, status)
			}
			if msg != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, msg)
			}
		})
	}
}

func TestErrorHandlingMiddlewareRendersBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	r.GET("/boom", func(c *gin.Context) {
		AbortWithError(c, &membershipdomain.SeatLimitError{Used: 3, Limit: 3})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusPaymentRequired {
		t.Fatalf("expected 402, got %d", w.Code)
	}
	want := `{"error":"Достигнут лимит мест: 3/3"}`
	if w.Body.String() != want {
		t.Fatalf("expected %s, got %s", want, w.Body.String())
	}
}
