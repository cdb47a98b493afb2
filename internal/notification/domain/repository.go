package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Repository interface {
	Insert(ctx context.Context, n Notification) error
	List(ctx context.Context, orgID snowflake.ID, recipientEmail string, unreadOnly bool) ([]Notification, error)
	MarkRead(ctx context.Context, orgID, id snowflake.ID, recipientEmail string) (bool, error)
}
