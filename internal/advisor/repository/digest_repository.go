package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DigestRepository persists daily digests and the predictions they emit.
type DigestRepository interface {
	FindByDate(ctx context.Context, date time.Time) (*entity.Digest, error)
	FindLatest(ctx context.Context) (*entity.Digest, error)
	// Save stores the digest and its predictions in one transaction. With
	// overwrite an existing digest for the same date is replaced; predictions
	// already logged for (date, ticker) are kept as they are.
	Save(ctx context.Context, digest *entity.Digest, predictions []entity.Prediction, overwrite bool) error
}

type digestRepository struct {
	db *gorm.DB
}

// NewDigestRepository creates a new GORM-based digest repository.
func NewDigestRepository(db *gorm.DB) DigestRepository {
	return &digestRepository{db: db}
}

func (r *digestRepository) FindByDate(ctx context.Context, date time.Time) (*entity.Digest, error) {
	var digest entity.Digest
	err := r.db.WithContext(ctx).Where("date = ?", date).First(&digest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &digest, nil
}

func (r *digestRepository) FindLatest(ctx context.Context) (*entity.Digest, error) {
	var digest entity.Digest
	err := r.db.WithContext(ctx).Order("date DESC").First(&digest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &digest, nil
}

func (r *digestRepository) Save(ctx context.Context, digest *entity.Digest, predictions []entity.Prediction, overwrite bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if overwrite {
			q = q.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "date"}},
				DoUpdates: clause.AssignmentColumns([]string{"generated_at", "budget", "buy", "sell", "message", "universe_size", "data_gaps", "updated_at"}),
			})
		}
		if err := q.Create(digest).Error; err != nil {
			return fmt.Errorf("failed to save digest: %w", err)
		}

		if len(predictions) == 0 {
			return nil
		}
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "prediction_date"}, {Name: "ticker"}},
			DoNothing: true,
		}).Create(&predictions).Error
		if err != nil {
			return fmt.Errorf("failed to log predictions: %w", err)
		}
		return nil
	})
}
