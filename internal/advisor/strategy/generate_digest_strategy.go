package strategy

import (
	"context"
	"fmt"

	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/telegram"
)

type GenerateDigestStrategy struct {
	logger              *logger.Logger
	digestService       service.DigestService
	verificationService service.VerificationService
	telegramBot         telegram.Notifier
}

func NewGenerateDigestStrategy(
	log *logger.Logger,
	digestService service.DigestService,
	verificationService service.VerificationService,
	telegramBot telegram.Notifier) TaskStrategy {
	return &GenerateDigestStrategy{
		logger:              log,
		digestService:       digestService,
		verificationService: verificationService,
		telegramBot:         telegramBot,
	}
}

func (s *GenerateDigestStrategy) GetType() entity.TaskType {
	return entity.TaskTypeGenerateDigest
}

func (s *GenerateDigestStrategy) Execute(ctx context.Context, task *entity.TaskExecutionHistory) (string, error) {
	payload, err := parsePayload(task.Payload)
	if err != nil {
		return "", err
	}

	result, err := s.digestService.GenerateDigest(ctx, s.digestService.Today(), payload.Force)
	if err != nil {
		return "", fmt.Errorf("failed to generate digest: %w", err)
	}
	d := result.Digest
	output := fmt.Sprintf("digest %s: %d buy, %d sell, %d gaps, created=%t",
		d.Date.Format("2006-01-02"), len(d.BuyPicks()), len(d.SellPicks()), d.DataGaps, result.Created)

	if !payload.SendNotif || !result.Created {
		return output, nil
	}

	mode := common.ModeObservation
	if status, err := s.verificationService.GetStatus(ctx); err != nil {
		s.logger.WarnContext(ctx, "Failed to load verification status for digest", logger.ErrorField(err))
	} else {
		mode = status.Mode
	}

	if err := telegram.SendAll(s.telegramBot, telegram.FormatDigest(d, mode)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to send digest notification", logger.ErrorField(err))
	}
	return output, nil
}
