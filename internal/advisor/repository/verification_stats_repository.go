package repository

import (
	"context"
	"errors"

	"golang-stock-advisor/internal/entity"

	"gorm.io/gorm"
)

type VerificationStatsRepository interface {
	Create(ctx context.Context, stats *entity.VerificationStats) error
	// FindLatest returns nil without error when no snapshot exists yet.
	FindLatest(ctx context.Context) (*entity.VerificationStats, error)
}

type verificationStatsRepository struct {
	db *gorm.DB
}

func NewVerificationStatsRepository(db *gorm.DB) VerificationStatsRepository {
	return &verificationStatsRepository{db: db}
}

func (r *verificationStatsRepository) Create(ctx context.Context, stats *entity.VerificationStats) error {
	return r.db.WithContext(ctx).Create(stats).Error
}

func (r *verificationStatsRepository) FindLatest(ctx context.Context) (*entity.VerificationStats, error) {
	var stats entity.VerificationStats
	err := r.db.WithContext(ctx).Order("calculated_at DESC, id DESC").First(&stats).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
