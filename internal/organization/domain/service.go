package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Create(ctx context.Context, creatorEmail, creatorName string, req CreateRequest) (*Response, error)
	ListByUser(ctx context.Context, email string) ([]ListItem, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
}

type CreateRequest struct {
	Name string
	// Slug is optional; when empty one is derived from the name.
	Slug string
}

type Response struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	OrgSlug string `json:"orgSlug"`
}

type ListItem struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	OrgSlug   string    `json:"orgSlug"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrInvalidName = errors.New("invalid_org_name")
	ErrInvalidSlug = errors.New("invalid_org_slug")
	ErrSlugTaken   = errors.New("org_slug_taken")
	ErrOrgNotFound = errors.New("org_not_found")
)
