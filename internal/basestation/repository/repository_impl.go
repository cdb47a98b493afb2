package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/fieldops-app/fieldops/internal/basestation/domain"
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

func (r *repository) Create(ctx context.Context, st domain.BaseStation) error {
	return r.db.WithContext(ctx).Create(&st).Error
}

func (r *repository) Update(ctx context.Context, st domain.BaseStation) error {
	return r.db.WithContext(ctx).Save(&st).Error
}

func (r *repository) FindByCoords(ctx context.Context, orgID snowflake.ID, latKey, lonKey float64) (*domain.BaseStation, error) {
	var st domain.BaseStation
	err := r.db.WithContext(ctx).
		First(&st, "org_id = ? AND lat_key = ? AND lon_key = ?", orgID, latKey, lonKey).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

func (r *repository) List(ctx context.Context, orgID snowflake.ID) ([]domain.BaseStation, error) {
	var stations []domain.BaseStation
	err := r.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("name ASC").
		Find(&stations).Error
	if err != nil {
		return nil, err
	}
	return stations, nil
}
