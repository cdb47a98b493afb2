package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Notify persists the notification and pushes it to connected sockets of
	// the recipient.
	Notify(ctx context.Context, req CreateRequest) error
	List(ctx context.Context, orgID snowflake.ID, recipientEmail string, unreadOnly bool) ([]Response, error)
	MarkRead(ctx context.Context, orgID, id snowflake.ID, recipientEmail string) error
}

type CreateRequest struct {
	OrgID          snowflake.ID
	RecipientEmail string
	Kind           string
	Title          string
	Body           string
}

type Response struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	Kind      string    `json:"kind"`
	Title     string    `json:"title"`
	Body      string    `json:"body,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrNotFound       = errors.New("notification_not_found")
	ErrInvalidRequest = errors.New("invalid_notification")
)
