package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	// Resolve verifies a bearer token from the auth provider and returns the
	// local user, creating the record on first sight.
	Resolve(ctx context.Context, rawToken string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// IssueSocketTicket signs a short-lived ticket authorizing one websocket
	// connection for the user.
	IssueSocketTicket(user *User) (string, time.Time, error)
	// VerifySocketTicket returns the email the ticket was issued for.
	VerifySocketTicket(rawTicket string) (string, error)
}

var (
	ErrInvalidToken  = errors.New("invalid_token")
	ErrUserNotFound  = errors.New("user_not_found")
	ErrInvalidTicket = errors.New("invalid_ticket")
)
