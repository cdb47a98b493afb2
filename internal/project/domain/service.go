package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, callerEmail, callerRole string, orgID snowflake.ID, req CreateRequest) (*Project, error)
	Get(ctx context.Context, orgID, id snowflake.ID) (*Project, error)
	Update(ctx context.Context, callerRole string, orgID, id snowflake.ID, req UpdateRequest) (*Project, error)
	List(ctx context.Context, orgID snowflake.ID, status string) ([]Project, error)
}

type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateRequest carries partial updates; nil fields are left untouched.
type UpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// LimitError reports project-quota exhaustion with the counts the client
// message needs.
type LimitError struct {
	Used  int
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("projects_limit_exceeded: %d/%d", e.Used, e.Limit)
}

var (
	ErrProjectNotFound = errors.New("project_not_found")
	ErrInvalidName     = errors.New("invalid_project_name")
	ErrInvalidStatus   = errors.New("invalid_project_status")
	ErrForbidden       = errors.New("insufficient_role")
)
