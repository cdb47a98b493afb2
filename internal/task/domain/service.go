package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, callerEmail, callerRole string, orgID snowflake.ID, req CreateRequest) (*Task, error)
	Get(ctx context.Context, orgID, id snowflake.ID) (*Task, error)
	Update(ctx context.Context, callerEmail, callerRole string, orgID, id snowflake.ID, req UpdateRequest) (*Task, error)
	List(ctx context.Context, orgID snowflake.ID, filter ListFilter) ([]Task, error)
}

type CreateRequest struct {
	ProjectID     string     `json:"projectId"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	AssigneeEmail string     `json:"assigneeEmail"`
	DueAt         *time.Time `json:"dueAt"`
}

// UpdateRequest carries partial updates; nil fields are left untouched.
// Executors may only move the status of tasks assigned to them.
type UpdateRequest struct {
	Title         *string    `json:"title"`
	Description   *string    `json:"description"`
	Status        *string    `json:"status"`
	AssigneeEmail *string    `json:"assigneeEmail"`
	DueAt         *time.Time `json:"dueAt"`
}

var (
	ErrTaskNotFound   = errors.New("task_not_found")
	ErrInvalidTitle   = errors.New("invalid_task_title")
	ErrInvalidStatus  = errors.New("invalid_task_status")
	ErrInvalidProject = errors.New("invalid_task_project")
	ErrForbidden      = errors.New("insufficient_role")
)
