package strategy

import (
	"context"
	"fmt"

	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/telegram"
)

type RunVerificationStrategy struct {
	logger              *logger.Logger
	verificationService service.VerificationService
	telegramBot         telegram.Notifier
}

func NewRunVerificationStrategy(log *logger.Logger, verificationService service.VerificationService, telegramBot telegram.Notifier) TaskStrategy {
	return &RunVerificationStrategy{logger: log, verificationService: verificationService, telegramBot: telegramBot}
}

func (s *RunVerificationStrategy) GetType() entity.TaskType {
	return entity.TaskTypeRunVerification
}

func (s *RunVerificationStrategy) Execute(ctx context.Context, task *entity.TaskExecutionHistory) (string, error) {
	payload, err := parsePayload(task.Payload)
	if err != nil {
		return "", err
	}

	run, err := s.verificationService.RunVerification(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to run verification: %w", err)
	}
	output := fmt.Sprintf("verified 1d=%d 7d=%d 30d=%d skipped=%d errors=%d",
		run.Verified1D, run.Verified7D, run.Verified30D, run.Skipped, run.Errors)

	if !payload.SendNotif || run.Total() == 0 {
		return output, nil
	}

	status, err := s.verificationService.GetStatus(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load verification status", logger.ErrorField(err))
		return output, nil
	}
	msg := telegram.FormatVerification(telegram.VerificationSummary{
		Verified1D:  run.Verified1D,
		Verified7D:  run.Verified7D,
		Verified30D: run.Verified30D,
		Errors:      run.Errors,
		Mode:        status.Mode,
		Reason:      status.Reason,
		Stats:       status.Stats,
	})
	if err := s.telegramBot.SendMessage(msg); err != nil {
		s.logger.ErrorContext(ctx, "Failed to send verification notification", logger.ErrorField(err))
	}
	return output, nil
}
