package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/digest"
	"golang-stock-advisor/internal/advisor/repository"
	"golang-stock-advisor/internal/advisor/scoring"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"
	"golang-stock-advisor/pkg/utils"
)

// seriesLookback covers the 52-week range and the 50-day average.
const seriesLookback = 365

// ScoreReport summarizes a scoring pass over the universe.
type ScoreReport struct {
	Universe   int      `json:"universe"`
	Scored     int      `json:"scored"`
	DataGaps   int      `json:"data_gaps"`
	Errors     int      `json:"errors"`
	GapTickers []string `json:"gap_tickers,omitempty"`
}

// ScoringService computes factor scores for every stock of the universe.
type ScoringService interface {
	ScoreUniverse(ctx context.Context, stocks []entity.Stock, asOf time.Time) ([]digest.Candidate, ScoreReport)
	Engine() *scoring.Engine
}

type scoringService struct {
	cfg        config.Scoring
	log        *logger.Logger
	marketData repository.MarketDataRepository
	news       repository.NewsRepository
	engine     *scoring.Engine
}

// NewScoringService creates a new ScoringService.
func NewScoringService(cfg config.Scoring, log *logger.Logger, marketData repository.MarketDataRepository, news repository.NewsRepository) ScoringService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	w := cfg.Weights
	return &scoringService{
		cfg:        cfg,
		log:        log,
		marketData: marketData,
		news:       news,
		engine: scoring.NewEngine(
			scoring.Weights{Technical: w.Technical, Sentiment: w.Sentiment, Fundamental: w.Fundamental},
			cfg.BuyThreshold, cfg.SellThreshold, cfg.TopN,
		),
	}
}

func (s *scoringService) Engine() *scoring.Engine {
	return s.engine
}

// ScoreUniverse scores stocks on a bounded pool. A ticker with any missing
// factor input is left out and counted as a data gap; the pass itself never fails.
func (s *scoringService) ScoreUniverse(ctx context.Context, stocks []entity.Stock, asOf time.Time) ([]digest.Candidate, ScoreReport) {
	report := ScoreReport{Universe: len(stocks)}
	candidates := make([]digest.Candidate, 0, len(stocks))

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		semaphore = make(chan struct{}, s.cfg.Concurrency)
	)

	for _, stock := range stocks {
		if !utils.ShouldContinue(ctx, s.log) {
			break
		}
		stock := stock
		wg.Add(1)
		utils.GoSafe(func() {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			tickerCtx, cancel := context.WithTimeout(ctx, s.cfg.ProviderTimeout)
			defer cancel()

			c, err := s.scoreStock(tickerCtx, stock, asOf)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				var gap *common.DataGapError
				if errors.As(err, &gap) || errors.Is(err, context.DeadlineExceeded) {
					report.DataGaps++
					report.GapTickers = append(report.GapTickers, stock.Ticker)
					metrics.DataGaps.WithLabelValues("scoring").Inc()
					s.log.WarnContext(ctx, "Ticker excluded from universe", logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
					return
				}
				report.Errors++
				s.log.ErrorContext(ctx, "Failed to score ticker", logger.StringField("ticker", stock.Ticker), logger.ErrorField(err))
				return
			}
			candidates = append(candidates, c)
			report.Scored++
		})
	}
	wg.Wait()

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].Result.Ticker < candidates[j].Result.Ticker
	})
	sort.Strings(report.GapTickers)
	return candidates, report
}

func (s *scoringService) scoreStock(ctx context.Context, stock entity.Stock, asOf time.Time) (digest.Candidate, error) {
	day := utils.DateOnly(asOf)

	quote, err := s.marketData.GetCurrentPrice(ctx, stock.Ticker)
	if err != nil {
		return digest.Candidate{}, err
	}

	series, err := s.marketData.GetPriceSeries(ctx, stock.Ticker, day.AddDate(0, 0, -seriesLookback), day)
	if err != nil {
		return digest.Candidate{}, err
	}
	if len(series) == 0 {
		return digest.Candidate{}, common.NewDataGap(stock.Ticker, day, "empty price series", nil)
	}
	tech := scoring.ComputeTechnicals(series)

	headlines, err := s.news.GetRecentHeadlines(ctx, stock.Ticker, s.cfg.HeadlineLimit)
	if err != nil {
		return digest.Candidate{}, err
	}
	sentiment := scoring.Sentiment(headlines)

	if quote.PE == nil || *quote.PE <= 0 {
		return digest.Candidate{}, common.NewDataGap(stock.Ticker, day, "no P/E ratio", nil)
	}
	fundamental := scoring.FundamentalScore(*quote.PE, stock.Sector)

	name := stock.Name
	if name == "" {
		name = quote.Name
	}
	result := s.engine.Score(stock.Ticker, name, scoring.Factors{
		Technical:   tech.Score,
		Sentiment:   sentiment,
		Fundamental: fundamental,
	})

	s.log.DebugContext(ctx, "Scored ticker",
		logger.StringField("ticker", stock.Ticker),
		logger.FloatField("technical", tech.Score),
		logger.FloatField("sentiment", sentiment),
		logger.FloatField("fundamental", fundamental),
		logger.FloatField("composite", result.Composite))

	return digest.Candidate{
		Result:     result,
		Quote:      *quote,
		Technicals: tech,
		Headlines:  headlines,
	}, nil
}
