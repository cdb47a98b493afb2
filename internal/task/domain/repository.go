package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository

	Create(ctx context.Context, t Task) error
	Get(ctx context.Context, orgID, id snowflake.ID) (*Task, error)
	Update(ctx context.Context, t Task) error
	List(ctx context.Context, orgID snowflake.ID, filter ListFilter) ([]Task, error)
}

// ListFilter narrows a task listing; zero values mean "any".
type ListFilter struct {
	ProjectID     snowflake.ID
	Status        string
	AssigneeEmail string
}
