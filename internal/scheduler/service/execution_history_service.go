package service

import (
	"context"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/internal/scheduler/dto"
	"golang-stock-advisor/internal/scheduler/repository"
	"golang-stock-advisor/pkg/logger"
)

// ExecutionHistoryService defines the interface for reading execution history.
type ExecutionHistoryService interface {
	GetExecutionHistoryByID(ctx context.Context, id uint) (*dto.ExecutionHistoryResponse, error)
	GetAllExecutionHistories(ctx context.Context) ([]*dto.ExecutionHistoryResponse, error)
	GetExecutionHistoriesBySchedule(ctx context.Context, name string) ([]*dto.ExecutionHistoryResponse, error)
}

// NewExecutionHistoryService creates a new execution history service.
func NewExecutionHistoryService(historyRepo repository.TaskExecutionHistoryRepository, logger *logger.Logger, limit int) ExecutionHistoryService {
	return &executionHistoryService{
		historyRepo: historyRepo,
		logger:      logger,
		limit:       limit,
	}
}

type executionHistoryService struct {
	historyRepo repository.TaskExecutionHistoryRepository
	logger      *logger.Logger
	limit       int
}

// GetExecutionHistoryByID retrieves an execution history record by its ID.
func (s *executionHistoryService) GetExecutionHistoryByID(ctx context.Context, id uint) (*dto.ExecutionHistoryResponse, error) {
	history, err := s.historyRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to find execution history", logger.ErrorField(err), logger.Field("history_id", id))
		return nil, err
	}
	return ToExecutionHistoryResponse(history), nil
}

// GetAllExecutionHistories retrieves the most recent execution history records.
func (s *executionHistoryService) GetAllExecutionHistories(ctx context.Context) ([]*dto.ExecutionHistoryResponse, error) {
	histories, err := s.historyRepo.FindAll(ctx, s.limit)
	if err != nil {
		s.logger.Error("Failed to get all execution histories", logger.ErrorField(err))
		return nil, err
	}
	return mapToExecutionHistoryResponses(histories), nil
}

// GetExecutionHistoriesBySchedule retrieves the most recent records of one schedule.
func (s *executionHistoryService) GetExecutionHistoriesBySchedule(ctx context.Context, name string) ([]*dto.ExecutionHistoryResponse, error) {
	histories, err := s.historyRepo.FindAllBySchedule(ctx, name, s.limit)
	if err != nil {
		s.logger.Error("Failed to get execution histories by schedule", logger.ErrorField(err), logger.StringField("schedule", name))
		return nil, err
	}
	return mapToExecutionHistoryResponses(histories), nil
}

func mapToExecutionHistoryResponses(histories []entity.TaskExecutionHistory) []*dto.ExecutionHistoryResponse {
	responses := make([]*dto.ExecutionHistoryResponse, 0, len(histories))
	for i := range histories {
		responses = append(responses, ToExecutionHistoryResponse(&histories[i]))
	}
	return responses
}

// ToExecutionHistoryResponse maps an entity.TaskExecutionHistory to a dto.ExecutionHistoryResponse.
func ToExecutionHistoryResponse(history *entity.TaskExecutionHistory) *dto.ExecutionHistoryResponse {
	var duration int64
	if history.CompletedAt.Valid {
		duration = history.CompletedAt.Time.Sub(history.StartedAt).Milliseconds()
	}

	return &dto.ExecutionHistoryResponse{
		ID:           history.ID,
		ScheduleName: history.ScheduleName,
		TaskType:     string(history.TaskType),
		Status:       string(history.Status),
		ExecutedAt:   history.StartedAt,
		Duration:     duration,
		Output:       history.Output.String,
		Error:        history.ErrorMessage.String,
	}
}
