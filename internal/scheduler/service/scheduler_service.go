package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/internal/scheduler/config"
	"golang-stock-advisor/internal/scheduler/dto"
	"golang-stock-advisor/internal/scheduler/repository"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/lock"
	"golang-stock-advisor/pkg/logger"

	"github.com/robfig/cron/v3"
)

// SchedulerService publishes configured tasks when their cron expression fires.
type SchedulerService interface {
	Start(ctx context.Context)
	ProcessSchedules(ctx context.Context)
	ListSchedules() []dto.ScheduleResponse
	// Trigger publishes a schedule immediately, outside its cron.
	Trigger(ctx context.Context, name string) (*entity.TaskExecutionHistory, error)
}

type scheduleEntry struct {
	cfg  config.Schedule
	cron cron.Schedule
	next time.Time
	last time.Time
}

type schedulerService struct {
	cfg         config.Scheduler
	loc         *time.Location
	historyRepo repository.TaskExecutionHistoryRepository
	publisher   TaskPublisher
	locker      lock.Locker
	logger      *logger.Logger
	now         func() time.Time

	mu      sync.Mutex
	entries []*scheduleEntry
}

// NewSchedulerService parses every configured cron expression. An invalid
// expression is a configuration error.
func NewSchedulerService(
	cfg config.Scheduler,
	loc *time.Location,
	historyRepo repository.TaskExecutionHistoryRepository,
	publisher TaskPublisher,
	locker lock.Locker,
	log *logger.Logger,
) (SchedulerService, error) {
	return newSchedulerService(cfg, loc, historyRepo, publisher, locker, log, time.Now)
}

func newSchedulerService(
	cfg config.Scheduler,
	loc *time.Location,
	historyRepo repository.TaskExecutionHistoryRepository,
	publisher TaskPublisher,
	locker lock.Locker,
	log *logger.Logger,
	now func() time.Time,
) (*schedulerService, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	start := now().In(loc)

	entries := make([]*scheduleEntry, 0, len(cfg.Schedules))
	for _, sc := range cfg.Schedules {
		parsed, err := parser.Parse(sc.Cron)
		if err != nil {
			return nil, &common.ConfigurationError{Field: "scheduler.schedules." + sc.Name + ".cron", Reason: err.Error()}
		}
		entries = append(entries, &scheduleEntry{cfg: sc, cron: parsed, next: parsed.Next(start)})
	}

	return &schedulerService{
		cfg:         cfg,
		loc:         loc,
		historyRepo: historyRepo,
		publisher:   publisher,
		locker:      locker,
		logger:      log,
		now:         now,
		entries:     entries,
	}, nil
}

// Start begins the periodic schedule processing loop.
func (s *schedulerService) Start(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.PollingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Scheduler service stopping")
			return
		case <-ticker.C:
			s.ProcessSchedules(ctx)
		}
	}
}

// ProcessSchedules publishes every enabled schedule whose next execution has passed.
// A run missed while the service was down is fired once, not replayed.
func (s *schedulerService) ProcessSchedules(ctx context.Context) {
	now := s.now().In(s.loc)

	type due struct {
		schedule config.Schedule
		fireAt   time.Time
	}
	var dues []due

	s.mu.Lock()
	for _, e := range s.entries {
		if !e.cfg.Enabled || e.next.After(now) {
			continue
		}
		dues = append(dues, due{schedule: e.cfg, fireAt: e.next})
		e.last = now
		e.next = e.cron.Next(now)
	}
	s.mu.Unlock()

	for _, d := range dues {
		// The lease is left to expire so other replicas skip the same tick.
		key := fmt.Sprintf("%s:%d", d.schedule.Name, d.fireAt.Unix())
		if _, err := s.locker.Acquire(ctx, key, s.cfg.LockTTL); err != nil {
			if errors.Is(err, lock.ErrNotAcquired) {
				s.logger.Debug("Schedule already published by another instance", logger.StringField("schedule", d.schedule.Name))
				continue
			}
			s.logger.Error("Failed to acquire schedule lock", logger.ErrorField(err), logger.StringField("schedule", d.schedule.Name))
			continue
		}
		if _, err := s.publishTask(ctx, d.schedule); err != nil {
			s.logger.Error("Failed to publish scheduled task", logger.ErrorField(err), logger.StringField("schedule", d.schedule.Name))
		}
	}
}

func (s *schedulerService) publishTask(ctx context.Context, schedule config.Schedule) (*entity.TaskExecutionHistory, error) {
	history := &entity.TaskExecutionHistory{
		ScheduleName: schedule.Name,
		TaskType:     schedule.TaskType,
		Payload:      schedule.Payload,
		Status:       entity.StatusQueued,
		StartedAt:    s.now(),
	}
	if err := s.historyRepo.Create(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to create task history: %w", err)
	}

	taskPayload, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	if err := s.publisher.Publish(ctx, taskPayload); err != nil {
		history.Status = entity.StatusFailed
		history.CompletedAt = sql.NullTime{Time: s.now(), Valid: true}
		history.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		if errInner := s.historyRepo.Update(ctx, history); errInner != nil {
			s.logger.Error("Failed to update task history", logger.ErrorField(errInner), logger.Field("history_id", history.ID))
		}
		return history, fmt.Errorf("failed to enqueue task: %w", err)
	}

	s.logger.Info("Task published successfully",
		logger.Field("history_id", history.ID),
		logger.StringField("schedule", schedule.Name),
		logger.StringField("task_type", string(schedule.TaskType)))
	return history, nil
}

func (s *schedulerService) ListSchedules() []dto.ScheduleResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]dto.ScheduleResponse, 0, len(s.entries))
	for _, e := range s.entries {
		r := dto.ScheduleResponse{
			Name:     e.cfg.Name,
			TaskType: string(e.cfg.TaskType),
			Cron:     e.cfg.Cron,
			Payload:  e.cfg.Payload,
			Enabled:  e.cfg.Enabled,
		}
		if e.cfg.Enabled {
			next := e.next
			r.NextExecution = &next
		}
		if !e.last.IsZero() {
			last := e.last
			r.LastExecution = &last
		}
		out = append(out, r)
	}
	return out
}

func (s *schedulerService) Trigger(ctx context.Context, name string) (*entity.TaskExecutionHistory, error) {
	s.mu.Lock()
	var found *scheduleEntry
	for _, e := range s.entries {
		if e.cfg.Name == name {
			found = e
			break
		}
	}
	if found != nil {
		found.last = s.now().In(s.loc)
	}
	s.mu.Unlock()

	if found == nil {
		return nil, fmt.Errorf("schedule %s: %w", name, common.ErrNotFound)
	}
	return s.publishTask(ctx, found.cfg)
}
