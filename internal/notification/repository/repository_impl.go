package repository

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/notification/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) Insert(ctx context.Context, n domain.Notification) error {
	return r.db.WithContext(ctx).Create(&n).Error
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, recipientEmail string, unreadOnly bool) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).
		Where("org_id = ? AND recipient_email = ?", orgID, strings.ToLower(recipientEmail))
	if unreadOnly {
		q = q.Where("read = ?", false)
	}

	var items []domain.Notification
	if err := q.Order("created_at DESC").Limit(100).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) MarkRead(ctx context.Context, orgID, id snowflake.ID, recipientEmail string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND org_id = ? AND recipient_email = ?", id, orgID, strings.ToLower(recipientEmail)).
		Update("read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
