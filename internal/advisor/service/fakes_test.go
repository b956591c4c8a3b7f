package service

import (
	"context"
	"sync"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/utils"
)

type closeResult struct {
	price   float64
	barDate time.Time
	err     error
}

type fakeMarketData struct {
	quotes   map[string]*dto.Quote
	quoteErr map[string]error
	series   map[string][]dto.PricePoint
	closes   map[string]closeResult
}

func newFakeMarketData() *fakeMarketData {
	return &fakeMarketData{
		quotes:   map[string]*dto.Quote{},
		quoteErr: map[string]error{},
		series:   map[string][]dto.PricePoint{},
		closes:   map[string]closeResult{},
	}
}

func (f *fakeMarketData) GetCurrentPrice(_ context.Context, ticker string) (*dto.Quote, error) {
	if err := f.quoteErr[ticker]; err != nil {
		return nil, err
	}
	q, ok := f.quotes[ticker]
	if !ok {
		return nil, common.NewDataGap(ticker, time.Time{}, "no quote", nil)
	}
	return q, nil
}

func (f *fakeMarketData) GetHistoricalClose(_ context.Context, ticker string, date time.Time) (float64, time.Time, error) {
	r, ok := f.closes[ticker+"@"+utils.FormatDate(date)]
	if !ok {
		return 0, time.Time{}, common.NewDataGap(ticker, date, "no bar", nil)
	}
	return r.price, r.barDate, r.err
}

func (f *fakeMarketData) GetPriceSeries(_ context.Context, ticker string, _, _ time.Time) ([]dto.PricePoint, error) {
	s, ok := f.series[ticker]
	if !ok {
		return nil, common.NewDataGap(ticker, time.Time{}, "no series", nil)
	}
	return s, nil
}

type fakeNews struct {
	headlines map[string][]string
}

func (f *fakeNews) GetRecentHeadlines(_ context.Context, ticker string, limit int) ([]string, error) {
	h := f.headlines[ticker]
	if len(h) > limit {
		h = h[:limit]
	}
	return h, nil
}

type fakeStocksRepo struct {
	stocks []entity.Stock
}

func (f *fakeStocksRepo) GetActiveStocks(context.Context) ([]entity.Stock, error) {
	return f.stocks, nil
}

func (f *fakeStocksRepo) Upsert(_ context.Context, stocks []entity.Stock) error {
	f.stocks = append(f.stocks, stocks...)
	return nil
}

type fakeDigestRepo struct {
	mu          sync.Mutex
	digests     map[string]*entity.Digest
	predictions []entity.Prediction
	saves       int
	overwrites  int
}

func newFakeDigestRepo() *fakeDigestRepo {
	return &fakeDigestRepo{digests: map[string]*entity.Digest{}}
}

func (f *fakeDigestRepo) FindByDate(_ context.Context, date time.Time) (*entity.Digest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.digests[utils.FormatDate(date)]
	if !ok {
		return nil, common.ErrNotFound
	}
	return d, nil
}

func (f *fakeDigestRepo) FindLatest(context.Context) (*entity.Digest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var latest *entity.Digest
	for _, d := range f.digests {
		if latest == nil || d.Date.After(latest.Date) {
			latest = d
		}
	}
	if latest == nil {
		return nil, common.ErrNotFound
	}
	return latest, nil
}

func (f *fakeDigestRepo) Save(_ context.Context, d *entity.Digest, predictions []entity.Prediction, overwrite bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if overwrite {
		f.overwrites++
	}
	f.digests[utils.FormatDate(d.Date)] = d
	f.predictions = append(f.predictions, predictions...)
	return nil
}

type fakePredictionRepo struct {
	mu          sync.Mutex
	predictions []entity.Prediction
}

func (f *fakePredictionRepo) ListPending(_ context.Context, asOf time.Time) ([]entity.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entity.Prediction
	for _, p := range f.predictions {
		if !p.PredictionDate.After(asOf) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePredictionRepo) ListAll(context.Context) ([]entity.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Prediction(nil), f.predictions...), nil
}

func (f *fakePredictionRepo) ListRecent(_ context.Context, limit int) ([]entity.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.predictions) {
		limit = len(f.predictions)
	}
	return append([]entity.Prediction(nil), f.predictions[:limit]...), nil
}

func (f *fakePredictionRepo) ResolveHorizon(_ context.Context, id uint, h entity.Horizon, outcome entity.HorizonOutcome) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.predictions {
		p := &f.predictions[i]
		if p.ID != id {
			continue
		}
		if p.Outcome(h).Verified {
			return false, nil
		}
		p.SetOutcome(h, outcome)
		return true, nil
	}
	return false, common.ErrNotFound
}

type fakeStatsRepo struct {
	mu    sync.Mutex
	stats []entity.VerificationStats
}

func (f *fakeStatsRepo) Create(_ context.Context, s *entity.VerificationStats) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stats = append(f.stats, *s)
	return nil
}

func (f *fakeStatsRepo) FindLatest(context.Context) (*entity.VerificationStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.stats) == 0 {
		return nil, nil
	}
	s := f.stats[len(f.stats)-1]
	return &s, nil
}

type fakeLedgerRepo struct {
	mu      sync.Mutex
	entries map[string][]entity.LedgerEntry
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{entries: map[string][]entity.LedgerEntry{}}
}

func (f *fakeLedgerRepo) ListByTicker(_ context.Context, ticker string) ([]entity.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.LedgerEntry(nil), f.entries[ticker]...), nil
}

func (f *fakeLedgerRepo) Append(_ context.Context, ticker string, build func([]entity.LedgerEntry) (*entity.LedgerEntry, error)) (*entity.LedgerEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, err := build(append([]entity.LedgerEntry(nil), f.entries[ticker]...))
	if err != nil {
		return nil, err
	}
	e.ID = uint(len(f.entries[ticker]) + 1)
	f.entries[ticker] = append(f.entries[ticker], *e)
	return e, nil
}

// risingSeries builds n daily closes starting at start and adding step per day.
func risingSeries(end time.Time, n int, start, step float64) []dto.PricePoint {
	out := make([]dto.PricePoint, n)
	for i := 0; i < n; i++ {
		c := start + step*float64(i)
		out[i] = dto.PricePoint{Date: end.AddDate(0, 0, i-n+1), Open: c, High: c, Low: c, Close: c}
	}
	return out
}
