package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/digest"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/scoring"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/lock"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"
	"golang-stock-advisor/pkg/utils"
)

// DigestResult is the outcome of a generation request.
type DigestResult struct {
	Digest  *entity.Digest `json:"digest"`
	Created bool           `json:"created"`
	Report  ScoreReport    `json:"report"`
}

// DigestService builds and serves the daily digest.
type DigestService interface {
	// GenerateDigest returns the stored digest for date unless force is set,
	// in which case it is rebuilt and replaced.
	GenerateDigest(ctx context.Context, date time.Time, force bool) (*DigestResult, error)
	// GetDigest returns the digest for date, re-sized when budget is given.
	GetDigest(ctx context.Context, date time.Time, budget *float64) (*entity.Digest, error)
	GetLatestDigest(ctx context.Context, budget *float64) (*entity.Digest, error)
	Today() time.Time
}

type digestService struct {
	cfg        config.Scoring
	log        *logger.Logger
	loc        *time.Location
	stocksRepo repository.StocksRepository
	digestRepo repository.DigestRepository
	scoring    ScoringService
	locker     lock.Locker
	now        func() time.Time
}

// NewDigestService creates a new DigestService.
func NewDigestService(
	cfg config.Scoring,
	loc *time.Location,
	log *logger.Logger,
	stocksRepo repository.StocksRepository,
	digestRepo repository.DigestRepository,
	scoringService ScoringService,
	locker lock.Locker,
) DigestService {
	return &digestService{
		cfg:        cfg,
		log:        log,
		loc:        loc,
		stocksRepo: stocksRepo,
		digestRepo: digestRepo,
		scoring:    scoringService,
		locker:     locker,
		now:        time.Now,
	}
}

func (s *digestService) Today() time.Time {
	return utils.DateOnly(s.now().In(s.loc))
}

func (s *digestService) GenerateDigest(ctx context.Context, date time.Time, force bool) (*DigestResult, error) {
	date = utils.DateOnly(date)

	if !force {
		existing, err := s.digestRepo.FindByDate(ctx, date)
		if err == nil {
			metrics.DigestRuns.WithLabelValues("existing").Inc()
			return &DigestResult{Digest: existing}, nil
		}
		if !errors.Is(err, common.ErrNotFound) {
			return nil, fmt.Errorf("failed to look up digest: %w", err)
		}
	}

	lease, err := s.locker.Acquire(ctx, utils.FormatDate(date), s.cfg.LockTTL)
	if errors.Is(err, lock.ErrNotAcquired) {
		metrics.DigestRuns.WithLabelValues("conflict").Inc()
		return nil, &common.ConcurrentGenerationError{Date: date}
	}
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := lease.Release(context.WithoutCancel(ctx)); err != nil {
			s.log.ErrorContext(ctx, "Failed to release digest lock", logger.ErrorField(err))
		}
	}()

	// another instance may have finished between the lookup and the lock
	if !force {
		if existing, err := s.digestRepo.FindByDate(ctx, date); err == nil {
			metrics.DigestRuns.WithLabelValues("existing").Inc()
			return &DigestResult{Digest: existing}, nil
		}
	}

	result, err := s.build(ctx, date, force)
	if err != nil {
		metrics.DigestRuns.WithLabelValues("failed").Inc()
		return nil, err
	}
	metrics.DigestRuns.WithLabelValues("generated").Inc()
	return result, nil
}

func (s *digestService) build(ctx context.Context, date time.Time, force bool) (*DigestResult, error) {
	stocks, err := s.stocksRepo.GetActiveStocks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock universe: %w", err)
	}
	s.log.InfoContext(ctx, "Generating digest",
		logger.StringField("date", utils.FormatDate(date)),
		logger.IntField("universe", len(stocks)),
		logger.Field("force", force))

	candidates, report := s.scoring.ScoreUniverse(ctx, stocks, date)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("digest generation interrupted: %w", err)
	}

	byTicker := make(map[string]digest.Candidate, len(candidates))
	results := make([]scoring.Result, 0, len(candidates))
	for _, c := range candidates {
		byTicker[c.Result.Ticker] = c
		results = append(results, c.Result)
	}
	buyResults, sellResults := s.scoring.Engine().Rank(results)

	pick := func(rs []scoring.Result) []digest.Candidate {
		out := make([]digest.Candidate, 0, len(rs))
		for _, r := range rs {
			out = append(out, byTicker[r.Ticker])
		}
		return out
	}

	d := digest.Build(date, s.now().UTC(), s.cfg.DefaultBudget, s.cfg.MaxPositionPct, pick(buyResults), pick(sellResults))
	d.UniverseSize = report.Universe
	d.DataGaps = report.DataGaps

	var predictions []entity.Prediction
	for _, p := range digest.Predictions(d) {
		if p.PriceAtPrediction > 0 {
			predictions = append(predictions, p)
		}
	}

	if err := s.digestRepo.Save(ctx, &d, predictions, force); err != nil {
		return nil, err
	}

	metrics.DigestPicks.WithLabelValues(string(entity.DirectionBuy)).Set(float64(len(d.BuyPicks())))
	metrics.DigestPicks.WithLabelValues(string(entity.DirectionSell)).Set(float64(len(d.SellPicks())))
	s.log.InfoContext(ctx, "Digest generated",
		logger.StringField("date", utils.FormatDate(date)),
		logger.IntField("buy", len(d.BuyPicks())),
		logger.IntField("sell", len(d.SellPicks())),
		logger.IntField("data_gaps", report.DataGaps),
		logger.IntField("errors", report.Errors))

	return &DigestResult{Digest: &d, Created: true, Report: report}, nil
}

func (s *digestService) GetDigest(ctx context.Context, date time.Time, budget *float64) (*entity.Digest, error) {
	d, err := s.digestRepo.FindByDate(ctx, utils.DateOnly(date))
	if err != nil {
		return nil, err
	}
	return s.resize(d, budget), nil
}

func (s *digestService) GetLatestDigest(ctx context.Context, budget *float64) (*entity.Digest, error) {
	d, err := s.digestRepo.FindLatest(ctx)
	if err != nil {
		return nil, err
	}
	return s.resize(d, budget), nil
}

func (s *digestService) resize(d *entity.Digest, budget *float64) *entity.Digest {
	if budget == nil || *budget == d.Budget {
		return d
	}
	resized := digest.Resize(*d, *budget, s.cfg.MaxPositionPct)
	return &resized
}
