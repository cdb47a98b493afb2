package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/membership/domain"
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

func (r *repository) Get(ctx context.Context, orgID snowflake.ID, email string) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.WithContext(ctx).
		First(&m, "org_id = ? AND user_email = ?", orgID, strings.ToLower(email)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotMember
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) Insert(ctx context.Context, m domain.Membership) error {
	return r.db.WithContext(ctx).Create(&m).Error
}

func (r *repository) SetInvite(ctx context.Context, id snowflake.ID, role, invitedBy, token string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":            domain.StatusInvited,
			"role":              role,
			"invite_token":      token,
			"invite_expires_at": expiresAt,
			"invited_by_email":  invitedBy,
		}).Error
}

func (r *repository) FindInvited(ctx context.Context, orgID snowflake.ID, token string, now time.Time) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.WithContext(ctx).
		Where("org_id = ? AND status = ? AND invite_token = ? AND invite_expires_at > ?",
			orgID, domain.StatusInvited, token, now).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrInviteNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) CountActive(ctx context.Context, orgID snowflake.ID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Membership{}).
		Where("org_id = ? AND status = ?", orgID, domain.StatusActive).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *repository) ActivateIfSeatAvailable(ctx context.Context, id, orgID snowflake.ID, limit int) (bool, error) {
	// The derived-table wrapper keeps the self-referencing subquery legal on
	// MySQL as well as postgres/sqlite.
	res := r.db.WithContext(ctx).Exec(
		`UPDATE memberships
		 SET status = ?, invite_token = NULL, invite_expires_at = NULL
		 WHERE id = ?
		   AND (SELECT cnt FROM (
		         SELECT COUNT(*) AS cnt FROM memberships
		         WHERE org_id = ? AND status = ?
		       ) AS active_now) < ?`,
		domain.StatusActive, id, orgID, domain.StatusActive, limit,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&domain.Membership{}, "id = ?", id).Error
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID, filter domain.ListFilter) ([]domain.Membership, error) {
	q := r.db.WithContext(ctx).Where("org_id = ?", orgID)
	if filter.Role != "" {
		q = q.Where("role = ?", filter.Role)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}

	var members []domain.Membership
	if err := q.Order("created_at ASC").Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}
