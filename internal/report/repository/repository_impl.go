package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/report/domain"
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

func (r *repository) Create(ctx context.Context, rep domain.Report) error {
	return r.db.WithContext(ctx).Create(&rep).Error
}

func (r *repository) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Report, error) {
	var rep domain.Report
	err := r.db.WithContext(ctx).
		First(&rep, "org_id = ? AND id = ?", orgID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}
	return &rep, nil
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, projectID snowflake.ID) ([]domain.Report, error) {
	q := r.db.WithContext(ctx).Where("org_id = ?", orgID)
	if projectID != 0 {
		q = q.Where("project_id = ?", projectID)
	}

	var reports []domain.Report
	if err := q.Order("created_at DESC").Find(&reports).Error; err != nil {
		return nil, err
	}
	return reports, nil
}
