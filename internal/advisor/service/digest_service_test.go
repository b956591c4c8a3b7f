package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/lock"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var digestDay = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func testScoringConfig() config.Scoring {
	return config.Scoring{
		Weights:         config.Weights{Technical: 0.40, Sentiment: 0.30, Fundamental: 0.30},
		BuyThreshold:    0.30,
		SellThreshold:   -0.30,
		TopN:            5,
		DefaultBudget:   10000,
		MaxPositionPct:  0.10,
		Concurrency:     2,
		ProviderTimeout: 5 * time.Second,
		HeadlineLimit:   5,
		LockTTL:         time.Minute,
	}
}

// universe returns three stocks of which only AAPL has every factor input.
func universe() ([]entity.Stock, *fakeMarketData, *fakeNews) {
	pe := 20.0
	md := newFakeMarketData()
	md.quotes["AAPL"] = &dto.Quote{Ticker: "AAPL", Name: "Apple Inc.", Price: 226, PE: &pe, AsOf: digestDay}
	md.series["AAPL"] = risingSeries(digestDay, 260, 100, 0.5)
	md.quotes["MSFT"] = &dto.Quote{Ticker: "MSFT", Price: 410, AsOf: digestDay}
	md.series["MSFT"] = risingSeries(digestDay, 260, 300, 0.2)
	md.quoteErr["NVDA"] = common.NewDataGap("NVDA", digestDay, "quote unavailable", nil)

	news := &fakeNews{headlines: map[string][]string{
		"AAPL": {"Apple beats estimates on record iPhone sales", "Apple shares surge after upgrade"},
	}}
	stocks := []entity.Stock{
		{Ticker: "NVDA", Name: "NVIDIA", Sector: "Technology"},
		{Ticker: "MSFT", Name: "Microsoft", Sector: "Technology"},
		{Ticker: "AAPL", Name: "Apple", Sector: "Technology"},
	}
	return stocks, md, news
}

func TestScoreUniverse_ExcludesDataGaps(t *testing.T) {
	stocks, md, news := universe()
	svc := NewScoringService(testScoringConfig(), logger.NewNop(), md, news)

	candidates, report := svc.ScoreUniverse(context.Background(), stocks, digestDay)

	require.Len(t, candidates, 1)
	assert.Equal(t, "AAPL", candidates[0].Result.Ticker)
	assert.Equal(t, "Apple", candidates[0].Result.Name)
	assert.Equal(t, 3, report.Universe)
	assert.Equal(t, 1, report.Scored)
	assert.Equal(t, 2, report.DataGaps)
	assert.Equal(t, 0, report.Errors)
	assert.Equal(t, []string{"MSFT", "NVDA"}, report.GapTickers)
}

func TestScoreUniverse_CountsHardErrors(t *testing.T) {
	stocks, md, news := universe()
	md.quoteErr["AAPL"] = errors.New("connection reset")
	svc := NewScoringService(testScoringConfig(), logger.NewNop(), md, news)

	candidates, report := svc.ScoreUniverse(context.Background(), stocks, digestDay)

	assert.Empty(t, candidates)
	assert.Equal(t, 1, report.Errors)
	assert.Equal(t, 2, report.DataGaps)
}

func newTestDigestService(t *testing.T, locker lock.Locker) (*digestService, *fakeDigestRepo) {
	t.Helper()
	stocks, md, news := universe()
	cfg := testScoringConfig()
	repo := newFakeDigestRepo()
	svc := NewDigestService(cfg, time.UTC, logger.NewNop(),
		&fakeStocksRepo{stocks: stocks}, repo,
		NewScoringService(cfg, logger.NewNop(), md, news), locker).(*digestService)
	svc.now = func() time.Time { return digestDay.Add(14 * time.Hour) }
	return svc, repo
}

func TestGenerateDigest_IsIdempotentPerDate(t *testing.T) {
	svc, repo := newTestDigestService(t, lock.NewLocalLocker())
	ctx := context.Background()

	first, err := svc.GenerateDigest(ctx, svc.Today(), false)
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, digestDay, first.Digest.Date)
	assert.Equal(t, 3, first.Digest.UniverseSize)
	assert.Equal(t, 2, first.Digest.DataGaps)

	second, err := svc.GenerateDigest(ctx, svc.Today(), false)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Same(t, first.Digest, second.Digest)
	assert.Equal(t, 1, repo.saves)
}

func TestGenerateDigest_ForceOverwrites(t *testing.T) {
	svc, repo := newTestDigestService(t, lock.NewLocalLocker())
	ctx := context.Background()

	_, err := svc.GenerateDigest(ctx, digestDay, false)
	require.NoError(t, err)
	res, err := svc.GenerateDigest(ctx, digestDay, true)
	require.NoError(t, err)

	assert.True(t, res.Created)
	assert.Equal(t, 2, repo.saves)
	assert.Equal(t, 1, repo.overwrites)
}

func TestGenerateDigest_ConcurrentGeneration(t *testing.T) {
	locker := lock.NewLocalLocker()
	svc, repo := newTestDigestService(t, locker)
	ctx := context.Background()

	lease, err := locker.Acquire(ctx, utils.FormatDate(digestDay), time.Minute)
	require.NoError(t, err)
	defer lease.Release(ctx)

	_, err = svc.GenerateDigest(ctx, digestDay, false)
	var conflict *common.ConcurrentGenerationError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, digestDay, conflict.Date)
	assert.Zero(t, repo.saves)
}

func TestGetDigest_ResizesForBudget(t *testing.T) {
	svc, _ := newTestDigestService(t, lock.NewLocalLocker())
	ctx := context.Background()

	_, err := svc.GetLatestDigest(ctx, nil)
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = svc.GenerateDigest(ctx, digestDay, false)
	require.NoError(t, err)

	budget := 5000.0
	d, err := svc.GetDigest(ctx, digestDay, &budget)
	require.NoError(t, err)
	assert.Equal(t, 5000.0, d.Budget)

	stored, err := svc.GetDigest(ctx, digestDay, nil)
	require.NoError(t, err)
	assert.Equal(t, 10000.0, stored.Budget)
}
