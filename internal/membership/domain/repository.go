package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, orgID snowflake.ID, email string) (*Membership, error)
	Insert(ctx context.Context, m Membership) error
	// SetInvite refreshes token, expiry, role and invited-by on an existing row
	// and moves it to the invited status. CreatedAt is left untouched.
	SetInvite(ctx context.Context, id snowflake.ID, role, invitedBy, token string, expiresAt time.Time) error
	// FindInvited matches an unexpired invited row by token.
	FindInvited(ctx context.Context, orgID snowflake.ID, token string, now time.Time) (*Membership, error)
	CountActive(ctx context.Context, orgID snowflake.ID) (int, error)
	// ActivateIfSeatAvailable flips the row to active and clears the invite
	// fields in a single conditional statement that only succeeds while the
	// active count is below limit. Returns false when the seat was not granted.
	ActivateIfSeatAvailable(ctx context.Context, id, orgID snowflake.ID, limit int) (bool, error)
	Delete(ctx context.Context, id snowflake.ID) error
	List(ctx context.Context, orgID snowflake.ID, filter ListFilter) ([]Membership, error)
}
