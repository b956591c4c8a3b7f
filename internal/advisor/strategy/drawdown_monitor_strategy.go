package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/service"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/telegram"
	"golang-stock-advisor/pkg/utils"

	"go.uber.org/zap"
)

// DrawdownMonitorStrategy evaluates every tracked ticker, stores the result
// and notifies actionable signals. It never writes the ledger.
type DrawdownMonitorStrategy struct {
	logger        *logger.Logger
	tickers       []string
	signalService service.SignalService
	signalRepo    repository.DrawdownSignalRepository
	telegramBot   telegram.Notifier
}

type DrawdownMonitorResult struct {
	Ticker   string `json:"ticker"`
	Kind     string `json:"kind,omitempty"`
	Notified bool   `json:"notified"`
	Error    string `json:"error,omitempty"`
}

func NewDrawdownMonitorStrategy(
	log *logger.Logger,
	tickers []string,
	signalService service.SignalService,
	signalRepo repository.DrawdownSignalRepository,
	telegramBot telegram.Notifier) TaskStrategy {
	return &DrawdownMonitorStrategy{
		logger:        log,
		tickers:       tickers,
		signalService: signalService,
		signalRepo:    signalRepo,
		telegramBot:   telegramBot,
	}
}

func (s *DrawdownMonitorStrategy) GetType() entity.TaskType {
	return entity.TaskTypeDrawdownMonitor
}

func (s *DrawdownMonitorStrategy) Execute(ctx context.Context, task *entity.TaskExecutionHistory) (string, error) {
	payload, err := parsePayload(task.Payload)
	if err != nil {
		return "", err
	}

	results := make([]DrawdownMonitorResult, 0, len(s.tickers))
	failed := 0
	for _, ticker := range s.tickers {
		if !utils.ShouldContinue(ctx, s.logger) {
			break
		}
		res := s.monitor(ctx, strings.ToUpper(ticker), payload.SendNotif)
		if res.Error != "" {
			failed++
		}
		results = append(results, res)
	}

	out, err := json.Marshal(results)
	if err != nil {
		return "", fmt.Errorf("failed to marshal results: %w", err)
	}
	if failed > 0 && failed == len(s.tickers) {
		return string(out), fmt.Errorf("drawdown monitor failed for all %d tickers", failed)
	}
	return string(out), nil
}

func (s *DrawdownMonitorStrategy) monitor(ctx context.Context, ticker string, sendNotif bool) DrawdownMonitorResult {
	fields := []zap.Field{logger.StringField("ticker", ticker)}
	res := DrawdownMonitorResult{Ticker: ticker}

	view, err := s.signalService.GetSignal(ctx, ticker)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to evaluate drawdown signal", append(fields, logger.ErrorField(err))...)
		res.Error = err.Error()
		return res
	}
	sig := view.Signal
	res.Kind = string(sig.Kind)

	// One notification per kind per day.
	previous, err := s.signalRepo.FindLatestNotified(ctx, ticker, string(sig.Kind))
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load previous drawdown signal", append(fields, logger.ErrorField(err))...)
	}
	repeat := previous != nil && utils.DateOnly(previous.CreatedAt).Equal(utils.DateOnly(sig.EvaluatedAt))

	notify := sendNotif && sig.Actionable() && !repeat
	if notify {
		msg := telegram.FormatSignal(telegram.SignalSummary{
			Ticker:       ticker,
			Kind:         string(sig.Kind),
			Amount:       sig.Amount,
			Shares:       sig.Shares,
			Reason:       sig.Reason,
			CurrentPrice: view.State.CurrentPrice,
			PeakPrice:    view.State.PeakPrice,
			DrawdownPct:  view.State.DrawdownPct,
			PnLPct:       sig.PnLPct,
		})
		if err := s.telegramBot.SendMessage(msg); err != nil {
			s.logger.ErrorContext(ctx, "Failed to send drawdown notification", append(fields, logger.ErrorField(err))...)
			notify = false
		}
	}

	data, err := json.Marshal(view)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to encode drawdown signal data", append(fields, logger.ErrorField(err))...)
		data = nil
	}
	record := &entity.DrawdownSignal{
		Ticker:       ticker,
		Kind:         string(sig.Kind),
		Amount:       sig.Amount,
		Shares:       sig.Shares,
		CurrentPrice: view.State.CurrentPrice,
		PeakPrice:    view.State.PeakPrice,
		DrawdownPct:  view.State.DrawdownPct,
		PnLPct:       sig.PnLPct,
		Reason:       sig.Reason,
		Notified:     notify,
		Data:         data,
	}
	if err := s.signalRepo.Create(ctx, record); err != nil {
		s.logger.ErrorContext(ctx, "Failed to store drawdown signal", append(fields, logger.ErrorField(err))...)
		res.Error = err.Error()
	}
	res.Notified = notify
	return res
}
