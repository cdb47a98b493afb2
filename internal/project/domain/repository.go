package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, p Project) error
	Get(ctx context.Context, orgID, id snowflake.ID) (*Project, error)
	Update(ctx context.Context, p Project) error
	List(ctx context.Context, orgID snowflake.ID, status string) ([]Project, error)
	CountByOrg(ctx context.Context, orgID snowflake.ID) (int64, error)
}
