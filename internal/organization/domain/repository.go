package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type OrgMembershipItem struct {
	ID        snowflake.ID
	Name      string
	Slug      string
	Role      string
	CreatedAt time.Time
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, org Organization) error
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	ListByUserEmail(ctx context.Context, email string) ([]OrgMembershipItem, error)
}
