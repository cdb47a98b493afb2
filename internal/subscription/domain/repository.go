package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, sub Subscription) error
	GetByOrgID(ctx context.Context, orgID snowflake.ID) (*Subscription, error)
	Update(ctx context.Context, sub Subscription) error
}
