package executor

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/strategy"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"

	"github.com/redis/go-redis/v9"
)

// ExecutorService consumes scheduled tasks from the task stream.
type ExecutorService interface {
	ProcessTask(ctx context.Context)
	ProcessRetries(ctx context.Context)
	// Execute runs a task already decoded from the stream.
	Execute(ctx context.Context, task *entity.TaskExecutionHistory, redelivered bool)
}

// NewExecutorService creates a new ExecutorService.
func NewExecutorService(
	cfg config.Executor,
	redisClient *redis.Client,
	historyRepo repository.TaskExecutionHistoryRepository,
	log *logger.Logger,
	strategies []strategy.TaskStrategy,
) ExecutorService {
	strategyMap := make(map[entity.TaskType]strategy.TaskStrategy)
	for _, s := range strategies {
		strategyMap[s.GetType()] = s
	}

	return &executorService{
		cfg:         cfg,
		redisClient: redisClient,
		historyRepo: historyRepo,
		logger:      log,
		strategies:  strategyMap,
		now:         time.Now,
	}
}

type executorService struct {
	cfg         config.Executor
	redisClient *redis.Client
	historyRepo repository.TaskExecutionHistoryRepository
	logger      *logger.Logger
	strategies  map[entity.TaskType]strategy.TaskStrategy
	now         func() time.Time
}

// ProcessTask dequeues and executes a single task.
func (s *executorService) ProcessTask(ctx context.Context) {
	streams, err := s.redisClient.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer,
		Streams:  []string{common.RedisStreamAdvisorTaskExecution, ">"},
		Count:    1,
		Block:    2 * time.Second,
	}).Result()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, redis.Nil) {
			return
		}
		s.logger.Error("Failed to read from stream", logger.ErrorField(err))
		return
	}

	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return
	}
	s.handleMessage(ctx, streams[0].Messages[0], false)
}

// ProcessRetries reclaims a message left pending by a consumer that died mid-task.
func (s *executorService) ProcessRetries(ctx context.Context) {
	msgs, _, err := s.redisClient.XAutoClaim(ctx, &redis.XAutoClaimArgs{
		Stream:   common.RedisStreamAdvisorTaskExecution,
		Group:    common.RedisStreamGroup,
		Consumer: common.RedisStreamConsumer + "-retry",
		MinIdle:  s.cfg.RedisStreamMaxIdleDuration,
		Start:    "0",
		Count:    1,
	}).Result()
	if err != nil {
		s.logger.Error("Failed to claim pending task", logger.ErrorField(err))
		return
	}
	if len(msgs) == 0 {
		s.logger.Debug("No pending tasks to retry", logger.StringField("stream", common.RedisStreamAdvisorTaskExecution))
		return
	}

	s.logger.Info("Retrying pending task", logger.StringField("message_id", msgs[0].ID))
	s.handleMessage(ctx, msgs[0], true)
}

func (s *executorService) handleMessage(ctx context.Context, message redis.XMessage, redelivered bool) {
	defer s.ack(message.ID)

	taskData, ok := message.Values["payload"].(string)
	if !ok {
		s.logger.Error("field 'payload' not found or not a string in stream message", logger.StringField("message_id", message.ID))
		return
	}

	var task entity.TaskExecutionHistory
	if err := json.Unmarshal([]byte(taskData), &task); err != nil {
		s.logger.Error("Failed to unmarshal task data", logger.ErrorField(err), logger.StringField("message_id", message.ID))
		return
	}

	timeout := s.cfg.TaskTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.Execute(execCtx, &task, redelivered)
}

// ack uses its own context so a task that consumed the whole timeout is still acknowledged.
func (s *executorService) ack(id string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.redisClient.XAck(ctx, common.RedisStreamAdvisorTaskExecution, common.RedisStreamGroup, id).Err(); err != nil {
		s.logger.Error("Failed to acknowledge message", logger.ErrorField(err), logger.StringField("message_id", id))
	}
}

func (s *executorService) Execute(ctx context.Context, task *entity.TaskExecutionHistory, redelivered bool) {
	if task.ID != 0 {
		claimed, err := s.historyRepo.Claim(ctx, task.ID)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to claim task", logger.ErrorField(err), logger.IntField("history_id", int(task.ID)))
			return
		}
		if !claimed {
			current, err := s.historyRepo.FindByID(ctx, task.ID)
			if err != nil {
				s.logger.ErrorContext(ctx, "Failed to load task", logger.ErrorField(err), logger.IntField("history_id", int(task.ID)))
				return
			}
			// Only a redelivered task left running by a dead consumer is picked up again.
			if !redelivered || current.Status != entity.StatusRunning {
				s.logger.InfoContext(ctx, "Task already handled, skipping",
					logger.IntField("history_id", int(task.ID)),
					logger.StringField("status", string(current.Status)))
				return
			}
		}
	}

	s.logger.InfoContext(ctx, "Processing task",
		logger.IntField("history_id", int(task.ID)),
		logger.StringField("task_type", string(task.TaskType)),
		logger.StringField("schedule", task.ScheduleName))

	st, ok := s.strategies[task.TaskType]
	if !ok {
		err := fmt.Errorf("no strategy found for task type: %s", task.TaskType)
		s.logger.ErrorContext(ctx, "Task execution failed", logger.ErrorField(err), logger.IntField("history_id", int(task.ID)))
		task.Status = entity.StatusFailed
		task.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
	} else {
		output, err := st.Execute(ctx, task)
		if err != nil {
			s.logger.ErrorContext(ctx, "Task execution failed", logger.ErrorField(err), logger.IntField("history_id", int(task.ID)))
			task.Status = entity.StatusFailed
			task.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		} else {
			task.Status = entity.StatusCompleted
		}
		task.Output = sql.NullString{String: output, Valid: output != ""}
	}
	task.CompletedAt = sql.NullTime{Time: s.now(), Valid: true}

	if task.ID == 0 {
		return
	}
	if err := s.historyRepo.Complete(context.WithoutCancel(ctx), task); err != nil {
		s.logger.ErrorContext(ctx, "Failed to update task history", logger.ErrorField(err), logger.IntField("history_id", int(task.ID)))
	}
	s.logger.InfoContext(ctx, "Task execution completed",
		logger.IntField("history_id", int(task.ID)),
		logger.StringField("status", string(task.Status)))
}
