package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/task/domain"
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

func (r *repository) Create(ctx context.Context, t domain.Task) error {
	return r.db.WithContext(ctx).Create(&t).Error
}

func (r *repository) Get(ctx context.Context, orgID, id snowflake.ID) (*domain.Task, error) {
	var t domain.Task
	err := r.db.WithContext(ctx).
		First(&t, "org_id = ? AND id = ?", orgID, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *repository) Update(ctx context.Context, t domain.Task) error {
	return r.db.WithContext(ctx).Save(&t).Error
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, filter domain.ListFilter) ([]domain.Task, error) {
	q := r.db.WithContext(ctx).Where("org_id = ?", orgID)
	if filter.ProjectID != 0 {
		q = q.Where("project_id = ?", filter.ProjectID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.AssigneeEmail != "" {
		q = q.Where("assignee_email = ?", filter.AssigneeEmail)
	}

	var tasks []domain.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
