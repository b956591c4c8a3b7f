package repository

import (
	"context"
	"errors"

	"golang-stock-advisor/internal/entity"

	"gorm.io/gorm"
)

type DrawdownSignalRepository interface {
	Create(ctx context.Context, signal *entity.DrawdownSignal) error
	FindLatestNotified(ctx context.Context, ticker, kind string) (*entity.DrawdownSignal, error)
}

type drawdownSignalRepository struct {
	db *gorm.DB
}

func NewDrawdownSignalRepository(db *gorm.DB) DrawdownSignalRepository {
	return &drawdownSignalRepository{db: db}
}

func (s *drawdownSignalRepository) Create(ctx context.Context, signal *entity.DrawdownSignal) error {
	return s.db.WithContext(ctx).Create(signal).Error
}

// FindLatestNotified returns nil without error when no signal of kind was ever sent.
func (s *drawdownSignalRepository) FindLatestNotified(ctx context.Context, ticker, kind string) (*entity.DrawdownSignal, error) {
	var signal entity.DrawdownSignal
	err := s.db.WithContext(ctx).
		Where("ticker = ? AND kind = ? AND notified", ticker, kind).
		Order("created_at DESC, id DESC").First(&signal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &signal, nil
}
