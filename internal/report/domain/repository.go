package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, r Report) error
	Get(ctx context.Context, orgID, id snowflake.ID) (*Report, error)
	List(ctx context.Context, orgID snowflake.ID, projectID snowflake.ID) ([]Report, error)
}
