package service

import (
	"context"
	"io"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/basestation/domain"
	"github.com/fieldops-app/fieldops/internal/basestation/kml"
	membershipdomain "github.com/fieldops-app/fieldops/internal/membership/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type service struct {
	db     *gorm.DB
	repo   domain.Repository
	genID  *snowflake.Node
	logger *zap.Logger
}

func NewService(db *gorm.DB, repo domain.Repository, genID *snowflake.Node, logger *zap.Logger) domain.Service {
	return &service{db: db, repo: repo, genID: genID, logger: logger}
}

type coordKey struct {
	lat, lon float64
}

func (s *service) Import(ctx context.Context, callerRole string, orgID snowflake.ID, filename string, src io.ReaderAt, size int64) (*domain.ImportResult, error) {
	if !membershipdomain.CanManageWork(callerRole) {
		return nil, domain.ErrForbidden
	}

	marks, err := kml.Parse(src, size)
	if err != nil {
		return nil, domain.ErrInvalidKML
	}
	if len(marks) == 0 {
		return nil, domain.ErrNoPlacemarks
	}

	var result domain.ImportResult
	now := time.Now().UTC()
	seen := make(map[coordKey]bool, len(marks))

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, m := range marks {
			key := coordKey{
				lat: domain.RoundCoord(m.Lat),
				lon: domain.RoundCoord(m.Lon),
			}
			// Duplicate coordinates within one upload: first wins.
			if seen[key] {
				result.Skipped++
				continue
			}
			seen[key] = true

			existing, err := repo.FindByCoords(ctx, orgID, key.lat, key.lon)
			if err != nil {
				return err
			}
			if existing != nil {
				existing.Name = m.Name
				existing.Description = m.Description
				existing.Altitude = m.Altitude
				existing.UpdatedAt = now
				if err := repo.Update(ctx, *existing); err != nil {
					return err
				}
				result.Updated++
				continue
			}

			st := domain.BaseStation{
				ID:          s.genID.Generate(),
				OrgID:       orgID,
				Name:        m.Name,
				Lat:         m.Lat,
				Lon:         m.Lon,
				LatKey:      key.lat,
				LonKey:      key.lon,
				Altitude:    m.Altitude,
				Description: m.Description,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if err := repo.Create(ctx, st); err != nil {
				return err
			}
			result.Imported++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("base station import",
		zap.String("org_id", orgID.String()),
		zap.String("file", filename),
		zap.Int("imported", result.Imported),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
	)
	return &result, nil
}

func (s *service) List(ctx context.Context, orgID snowflake.ID) ([]domain.BaseStation, error) {
	return s.repo.List(ctx, orgID)
}
