package repository

import (
	"context"
	"errors"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"

	"gorm.io/gorm"
)

// TaskExecutionHistoryRepository tracks the lifecycle of tasks consumed from the stream.
type TaskExecutionHistoryRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.TaskExecutionHistory, error)
	// Claim moves a queued task to running. It reports false when another
	// consumer already claimed it, e.g. after a stream redelivery.
	Claim(ctx context.Context, id uint) (bool, error)
	Complete(ctx context.Context, history *entity.TaskExecutionHistory) error
}

// NewTaskExecutionHistoryRepository creates a new GORM-based task execution history repository.
func NewTaskExecutionHistoryRepository(db *gorm.DB) TaskExecutionHistoryRepository {
	return &taskExecutionHistoryRepository{db: db}
}

type taskExecutionHistoryRepository struct {
	db *gorm.DB
}

func (r *taskExecutionHistoryRepository) FindByID(ctx context.Context, id uint) (*entity.TaskExecutionHistory, error) {
	var history entity.TaskExecutionHistory
	err := r.db.WithContext(ctx).First(&history, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *taskExecutionHistoryRepository) Claim(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&entity.TaskExecutionHistory{}).
		Where("id = ? AND status = ?", id, entity.StatusQueued).
		Update("status", entity.StatusRunning)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *taskExecutionHistoryRepository) Complete(ctx context.Context, history *entity.TaskExecutionHistory) error {
	return r.db.WithContext(ctx).
		Model(&entity.TaskExecutionHistory{}).
		Where("id = ?", history.ID).
		Updates(map[string]interface{}{
			"status":        history.Status,
			"completed_at":  history.CompletedAt,
			"output":        history.Output,
			"error_message": history.ErrorMessage,
		}).Error
}
