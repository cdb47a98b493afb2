package domain

import (
	"context"
	"errors"
	"io"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create decodes the uploaded JPEG, reads its EXIF, stamps a caption
	// strip onto a copy and stores both objects.
	Create(ctx context.Context, callerEmail string, orgID snowflake.ID, orgName string, req CreateRequest, photo io.Reader) (*Report, error)
	Get(ctx context.Context, orgID, id snowflake.ID) (*Report, error)
	List(ctx context.Context, orgID snowflake.ID, projectID snowflake.ID) ([]Report, error)
	// OpenStamped streams the stamped copy of a report photo.
	OpenStamped(ctx context.Context, orgID, id snowflake.ID) (io.ReadCloser, error)
}

type CreateRequest struct {
	ProjectID string
	TaskID    string
	Caption   string
}

var (
	ErrReportNotFound = errors.New("report_not_found")
	ErrInvalidImage   = errors.New("invalid_image")
	ErrInvalidProject = errors.New("invalid_report_project")
	ErrInvalidTask    = errors.New("invalid_report_task")
)
