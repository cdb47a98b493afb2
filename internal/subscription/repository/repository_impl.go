package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/subscription/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, sub domain.Subscription) error {
	return r.db.WithContext(ctx).Create(&sub).Error
}

func (r *repository) GetByOrgID(ctx context.Context, orgID snowflake.ID) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := r.db.WithContext(ctx).First(&sub, "org_id = ?", orgID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *repository) Update(ctx context.Context, sub domain.Subscription) error {
	return r.db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("id = ?", sub.ID).
		Updates(map[string]any{
			"plan":             sub.Plan,
			"status":           sub.Status,
			"seats":            sub.Seats,
			"projects_limit":   sub.ProjectsLimit,
			"period_start":     sub.PeriodStart,
			"period_end":       sub.PeriodEnd,
			"note":             sub.Note,
			"updated_by_email": sub.UpdatedByEmail,
			"updated_at":       sub.UpdatedAt,
		}).Error
}
