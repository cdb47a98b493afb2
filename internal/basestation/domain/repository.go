package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, st BaseStation) error
	Update(ctx context.Context, st BaseStation) error
	// FindByCoords looks up a station by its rounded coordinate key.
	FindByCoords(ctx context.Context, orgID snowflake.ID, latKey, lonKey float64) (*BaseStation, error)
	List(ctx context.Context, orgID snowflake.ID) ([]BaseStation, error)
}
