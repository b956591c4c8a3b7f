package repository

import (
	"context"
	"fmt"
	"time"

	"golang-stock-advisor/internal/entity"

	"gorm.io/gorm"
)

// PredictionRepository reads predictions and resolves their horizons.
type PredictionRepository interface {
	// ListPending returns predictions with at least one unresolved horizon
	// made on or before asOf.
	ListPending(ctx context.Context, asOf time.Time) ([]entity.Prediction, error)
	ListAll(ctx context.Context) ([]entity.Prediction, error)
	ListRecent(ctx context.Context, limit int) ([]entity.Prediction, error)
	// ResolveHorizon writes the outcome only if the horizon is still open.
	// It reports whether this call resolved it.
	ResolveHorizon(ctx context.Context, id uint, h entity.Horizon, outcome entity.HorizonOutcome) (bool, error)
}

type predictionRepository struct {
	db *gorm.DB
}

// NewPredictionRepository creates a new GORM-based prediction repository.
func NewPredictionRepository(db *gorm.DB) PredictionRepository {
	return &predictionRepository{db: db}
}

func (r *predictionRepository) ListPending(ctx context.Context, asOf time.Time) ([]entity.Prediction, error) {
	var predictions []entity.Prediction
	err := r.db.WithContext(ctx).
		Where("(verified_1d = ? OR verified_7d = ? OR verified_30d = ?) AND prediction_date <= ?", false, false, false, asOf).
		Order("prediction_date ASC, id ASC").
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *predictionRepository) ListAll(ctx context.Context) ([]entity.Prediction, error) {
	var predictions []entity.Prediction
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&predictions).Error; err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *predictionRepository) ListRecent(ctx context.Context, limit int) ([]entity.Prediction, error) {
	var predictions []entity.Prediction
	err := r.db.WithContext(ctx).
		Order("prediction_date DESC, id DESC").
		Limit(limit).
		Find(&predictions).Error
	if err != nil {
		return nil, err
	}
	return predictions, nil
}

func (r *predictionRepository) ResolveHorizon(ctx context.Context, id uint, h entity.Horizon, outcome entity.HorizonOutcome) (bool, error) {
	suffix := h.String()
	verifiedCol := "verified_" + suffix
	result := r.db.WithContext(ctx).
		Model(&entity.Prediction{}).
		Where("id = ? AND "+verifiedCol+" = ?", id, false).
		Updates(map[string]interface{}{
			"price_after_" + suffix: outcome.PriceAfter,
			verifiedCol:             true,
			"correct_" + suffix:     outcome.Correct,
			"return_" + suffix:      outcome.Return,
			"updated_at":            time.Now(),
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to resolve %s horizon of prediction %d: %w", suffix, id, result.Error)
	}
	return result.RowsAffected == 1, nil
}
