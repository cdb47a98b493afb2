package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Org carries the organization identity a membership operation is scoped to.
// The server layer resolves it from the URL slug.
type Org struct {
	ID   snowflake.ID
	Slug string
}

type Service interface {
	Invite(ctx context.Context, callerEmail string, org Org, req InviteRequest) (*InviteResult, error)
	Accept(ctx context.Context, callerEmail string, org Org, token string) error
	Decline(ctx context.Context, org Org, token string) error
	Activate(ctx context.Context, callerEmail string, org Org) (alreadyActive bool, err error)
	DirectAdd(ctx context.Context, callerEmail string, org Org, req AddRequest) (*MemberResponse, error)
	List(ctx context.Context, callerEmail string, org Org, filter ListFilter) ([]MemberResponse, error)
	EnsureSeatAvailable(ctx context.Context, orgID snowflake.ID) (SeatAvailability, error)
	// RoleOf returns the caller's role in the org, or ErrNotMember.
	RoleOf(ctx context.Context, orgID snowflake.ID, email string) (string, error)
}

type InviteRequest struct {
	UserEmail string
	Role      string
}

type InviteResult struct {
	InviteURL string    `json:"inviteUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
	Role      string    `json:"role"`
}

type AddRequest struct {
	UserEmail string
	UserName  string
	Role      string
}

type ListFilter struct {
	Role   string
	Status string
}

type MemberResponse struct {
	ID        string    `json:"id"`
	UserEmail string    `json:"userEmail"`
	UserName  string    `json:"userName,omitempty"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// SeatAvailability is the result of the read-then-decide seat check.
type SeatAvailability struct {
	OK    bool `json:"ok"`
	Limit int  `json:"limit"`
	Used  int  `json:"used"`
}

// SeatLimitError reports seat exhaustion with the counts the client message
// needs.
type SeatLimitError struct {
	Used  int
	Limit int
}

func (e *SeatLimitError) Error() string {
	return fmt.Sprintf("seat_limit_exceeded: %d/%d", e.Used, e.Limit)
}

var (
	ErrNotMember          = errors.New("not_a_member")
	ErrForbidden          = errors.New("insufficient_role")
	ErrInvalidEmail       = errors.New("invalid_email")
	ErrEmailNotRegistered = errors.New("email_not_registered")
	ErrInvalidRole        = errors.New("invalid_role")
	ErrInvalidStatus      = errors.New("invalid_member_status")
	// ErrInviteNotFound covers wrong token, expired token and wrong account
	// alike; callers are told no more than "invalid for this account".
	ErrInviteNotFound = errors.New("invite_not_found")
	ErrRateLimited    = errors.New("invite_rate_limited")
)
