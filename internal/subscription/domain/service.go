package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	GetByOrg(ctx context.Context, orgID snowflake.ID) (*Response, error)
	Update(ctx context.Context, orgID snowflake.ID, req UpdateRequest) (*Response, error)
	// SeatLimit resolves the effective seat ceiling for an organization,
	// falling back to the default when the subscription is absent or inactive.
	SeatLimit(ctx context.Context, orgID snowflake.ID) (int, error)
	// ProjectsLimit resolves the effective project ceiling the same way.
	ProjectsLimit(ctx context.Context, orgID snowflake.ID) (int, error)
}

type UpdateRequest struct {
	Plan           string
	Status         string
	Seats          *int
	ProjectsLimit  *int
	PeriodStart    *time.Time
	PeriodEnd      *time.Time
	Note           *string
	UpdatedByEmail string
}

type Response struct {
	ID            string     `json:"id"`
	OrgID         string     `json:"org_id"`
	Plan          string     `json:"plan"`
	Status        string     `json:"status"`
	Seats         int        `json:"seats"`
	ProjectsLimit int        `json:"projects_limit"`
	PeriodStart   *time.Time `json:"period_start,omitempty"`
	PeriodEnd     *time.Time `json:"period_end,omitempty"`
	Note          string     `json:"note,omitempty"`
}

var (
	ErrNotFound      = errors.New("subscription_not_found")
	ErrInvalidPlan   = errors.New("invalid_plan")
	ErrInvalidStatus = errors.New("invalid_status")
	ErrInvalidSeats  = errors.New("invalid_seats")
	ErrInvalidLimit  = errors.New("invalid_projects_limit")
	ErrInvalidPeriod = errors.New("invalid_period")
)
