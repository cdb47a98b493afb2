package domain

import (
	"context"
	"errors"
	"io"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Import parses a KMZ or KML upload and upserts its placemarks as base
	// stations. Existing stations at the same rounded coordinates get their
	// name and description refreshed.
	Import(ctx context.Context, callerRole string, orgID snowflake.ID, filename string, src io.ReaderAt, size int64) (*ImportResult, error)
	List(ctx context.Context, orgID snowflake.ID) ([]BaseStation, error)
}

// ImportResult counts what the upload did.
type ImportResult struct {
	Imported int `json:"imported"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
}

var (
	ErrForbidden    = errors.New("insufficient_role")
	ErrInvalidKML   = errors.New("invalid_kml")
	ErrNoPlacemarks = errors.New("no_placemarks")
)
