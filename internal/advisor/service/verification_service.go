package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/verification"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"
	"golang-stock-advisor/pkg/utils"

	"go.uber.org/zap"
)

// VerificationRun summarizes one verification pass.
type VerificationRun struct {
	Verified1D  int `json:"verified_1d"`
	Verified7D  int `json:"verified_7d"`
	Verified30D int `json:"verified_30d"`
	Skipped     int `json:"skipped"`
	Errors      int `json:"errors"`
}

// Total is the number of horizons resolved by the run.
func (r VerificationRun) Total() int {
	return r.Verified1D + r.Verified7D + r.Verified30D
}

func (r *VerificationRun) add(h entity.Horizon) {
	switch h {
	case entity.Horizon1D:
		r.Verified1D++
	case entity.Horizon7D:
		r.Verified7D++
	case entity.Horizon30D:
		r.Verified30D++
	}
}

// VerificationService resolves predictions and reports the product mode.
type VerificationService interface {
	RunVerification(ctx context.Context) (*VerificationRun, error)
	RecalculateStats(ctx context.Context) (*entity.VerificationStats, error)
	GetStatus(ctx context.Context) (*verification.Status, error)
	ListPredictions(ctx context.Context, limit int) ([]entity.Prediction, error)
}

type verificationService struct {
	cfg            config.Verification
	loc            *time.Location
	log            *logger.Logger
	marketData     repository.MarketDataRepository
	predictionRepo repository.PredictionRepository
	statsRepo      repository.VerificationStatsRepository
	now            func() time.Time
}

// NewVerificationService creates a new VerificationService.
func NewVerificationService(
	cfg config.Verification,
	loc *time.Location,
	log *logger.Logger,
	marketData repository.MarketDataRepository,
	predictionRepo repository.PredictionRepository,
	statsRepo repository.VerificationStatsRepository,
) VerificationService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &verificationService{
		cfg:            cfg,
		loc:            loc,
		log:            log,
		marketData:     marketData,
		predictionRepo: predictionRepo,
		statsRepo:      statsRepo,
		now:            time.Now,
	}
}

func (s *verificationService) gate() verification.Gate {
	return verification.Gate{MinPredictions: s.cfg.MinPredictions, MinAccuracyPct: s.cfg.MinAccuracyPct}
}

type verificationOutcome int

const (
	outcomeResolved verificationOutcome = iota
	outcomeAlready
	outcomeSkipped
	outcomeFailed
)

func (s *verificationService) RunVerification(ctx context.Context) (*VerificationRun, error) {
	today := utils.DateOnly(s.now().In(s.loc))
	pending, err := s.predictionRepo.ListPending(ctx, today)
	if err != nil {
		return nil, err
	}

	run := &VerificationRun{}
	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		sem = make(chan struct{}, s.cfg.Concurrency)
	)

	for i := range pending {
		p := &pending[i]
		for _, h := range entity.Horizons {
			if !verification.Due(p, h, today) {
				continue
			}
			if !utils.ShouldContinue(ctx, s.log) {
				break
			}

			wg.Add(1)
			sem <- struct{}{}
			h := h
			utils.GoSafe(func() {
				defer wg.Done()
				defer func() { <-sem }()

				outcome := s.verifyHorizon(ctx, p, h, today)
				mu.Lock()
				defer mu.Unlock()
				switch outcome {
				case outcomeResolved:
					run.add(h)
				case outcomeSkipped:
					run.Skipped++
				case outcomeFailed:
					run.Errors++
				}
			})
		}
	}
	wg.Wait()

	s.log.InfoContext(ctx, "Verification run finished",
		logger.IntField("pending", len(pending)),
		logger.IntField("verified_1d", run.Verified1D),
		logger.IntField("verified_7d", run.Verified7D),
		logger.IntField("verified_30d", run.Verified30D),
		logger.IntField("skipped", run.Skipped),
		logger.IntField("errors", run.Errors))

	if run.Total() > 0 {
		if _, err := s.RecalculateStats(ctx); err != nil {
			return run, err
		}
	}
	return run, nil
}

func (s *verificationService) verifyHorizon(ctx context.Context, p *entity.Prediction, h entity.Horizon, today time.Time) verificationOutcome {
	due := p.DueDate(h)
	fields := []zap.Field{
		logger.StringField("ticker", p.Ticker),
		logger.StringField("horizon", h.String()),
		logger.StringField("due", utils.FormatDate(due)),
	}

	price, barDate, err := s.marketData.GetHistoricalClose(ctx, p.Ticker, due)
	if err != nil {
		var gap *common.DataGapError
		if errors.As(err, &gap) {
			metrics.DataGaps.WithLabelValues("verification").Inc()
		}
		s.log.WarnContext(ctx, "Failed to fetch close for verification", append(fields, logger.ErrorField(err))...)
		return outcomeFailed
	}
	// A bar dated today is still trading and is not a close.
	if !utils.DateOnly(barDate).Before(today) {
		s.log.DebugContext(ctx, "No settled close yet", fields...)
		return outcomeSkipped
	}
	if p.PriceAtPrediction <= 0 {
		s.log.WarnContext(ctx, "Prediction has no reference price", fields...)
		return outcomeFailed
	}

	result := verification.Resolve(p.Direction, p.PriceAtPrediction, price)
	resolved, err := s.predictionRepo.ResolveHorizon(ctx, p.ID, h, result)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to store verification", append(fields, logger.ErrorField(err))...)
		return outcomeFailed
	}
	if !resolved {
		return outcomeAlready
	}

	metrics.PredictionsVerified.WithLabelValues(h.String()).Inc()
	s.log.DebugContext(ctx, "Prediction verified", append(fields,
		logger.FloatField("price_after", price),
		logger.FloatField("return_pct", *result.Return),
		logger.BoolField("correct", *result.Correct))...)
	return outcomeResolved
}

func (s *verificationService) RecalculateStats(ctx context.Context) (*entity.VerificationStats, error) {
	predictions, err := s.predictionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := verification.ComputeStats(predictions, s.gate(), s.now().UTC())
	if err := s.statsRepo.Create(ctx, &stats); err != nil {
		return nil, err
	}

	for _, h := range entity.Horizons {
		if acc := stats.Accuracy(h); acc != nil {
			metrics.Accuracy.WithLabelValues(h.String()).Set(*acc)
		}
	}
	if stats.IsUnlocked {
		metrics.Unlocked.Set(1)
	} else {
		metrics.Unlocked.Set(0)
	}

	s.log.InfoContext(ctx, "Verification stats recalculated",
		logger.IntField("total", stats.TotalPredictions),
		logger.IntField("verified_7d", stats.Verified7DCount),
		logger.BoolField("unlocked", stats.IsUnlocked),
		logger.StringField("reason", stats.UnlockReason))
	return &stats, nil
}

func (s *verificationService) GetStatus(ctx context.Context) (*verification.Status, error) {
	stats, err := s.statsRepo.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	status := verification.Mode(stats, s.gate())
	return &status, nil
}

func (s *verificationService) ListPredictions(ctx context.Context, limit int) ([]entity.Prediction, error) {
	if limit <= 0 || limit > s.cfg.PredictionsMax {
		limit = s.cfg.PredictionsMax
	}
	return s.predictionRepo.ListRecent(ctx, limit)
}
