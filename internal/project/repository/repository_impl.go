package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/project/domain"
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

func (r *repository) Create(ctx context.Context, p domain.Project) error {
	return r.db.WithContext(ctx).Create(&p).Error
}

func (r *repository) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).
		First(&p, "org_id = ? AND id = ?", orgID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProjectNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, p domain.Project) error {
	return r.db.WithContext(ctx).Save(&p).Error
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, status string) ([]domain.Project, error) {
	q := r.db.WithContext(ctx).Where("org_id = ?", orgID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var projects []domain.Project
	if err := q.Order("created_at ASC").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *repository) CountByOrg(ctx context.Context, orgID snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	return count, err
}
