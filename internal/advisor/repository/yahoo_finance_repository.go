package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/metrics"
	"golang-stock-advisor/pkg/utils"

	"github.com/cenkalti/backoff/v4"
	"github.com/patrickmn/go-cache"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	providerYahoo = "yahoo_finance"
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	// nextTradingDayWindow is how far past a date we look for the next trading bar.
	nextTradingDayWindow = 7
)

// HTTPStatusError is a non-200 answer from an upstream API.
type HTTPStatusError struct {
	StatusCode int
	URL        string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.StatusCode, e.URL)
}

type yahooFinanceRepository struct {
	cfg            config.YahooFinance
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	breaker        *gobreaker.CircuitBreaker
	cache          *cache.Cache
}

// NewYahooFinanceRepository creates a MarketDataRepository backed by the Yahoo Finance chart and quote APIs.
func NewYahooFinanceRepository(cfg config.YahooFinance, log *logger.Logger) MarketDataRepository {
	perRequest := time.Minute / time.Duration(cfg.MaxRequestPerMinute)
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        providerYahoo,
		MaxRequests: 1,
		Timeout:     cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker state changed",
				logger.StringField("breaker", name),
				logger.StringField("from", from.String()),
				logger.StringField("to", to.String()))
		},
	})

	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(perRequest), 1),
		breaker:        breaker,
		cache:          cache.New(cfg.CacheTTL, 2*cfg.CacheTTL),
	}
}

func (r *yahooFinanceRepository) GetCurrentPrice(ctx context.Context, ticker string) (*dto.Quote, error) {
	cacheKey := "quote:" + ticker
	if v, ok := r.cache.Get(cacheKey); ok {
		q := v.(dto.Quote)
		return &q, nil
	}

	endpoint := fmt.Sprintf("%s/v7/finance/quote?symbols=%s", r.cfg.BaseURL, url.QueryEscape(ticker))
	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		return nil, common.NewDataGap(ticker, time.Time{}, "quote request failed", err)
	}

	var response dto.YahooQuoteResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, common.NewDataGap(ticker, time.Time{}, "invalid quote response", err)
	}
	if len(response.QuoteResponse.Result) == 0 || response.QuoteResponse.Result[0].RegularMarketPrice <= 0 {
		return nil, common.NewDataGap(ticker, time.Time{}, "no quote available", nil)
	}

	raw := response.QuoteResponse.Result[0]
	quote := dto.Quote{
		Ticker:           ticker,
		Name:             raw.LongName,
		Price:            raw.RegularMarketPrice,
		PreviousClose:    raw.RegularMarketPreviousClose,
		DayChangePct:     raw.RegularMarketChangePercent,
		PE:               raw.TrailingPE,
		FiftyTwoWeekHigh: raw.FiftyTwoWeekHigh,
		FiftyTwoWeekLow:  raw.FiftyTwoWeekLow,
		AsOf:             time.Unix(raw.RegularMarketTime, 0).UTC(),
	}
	if quote.Name == "" {
		quote.Name = raw.ShortName
	}
	if quote.PE == nil {
		quote.PE = raw.ForwardPE
	}
	if quote.DayChangePct == 0 && quote.PreviousClose > 0 {
		quote.DayChangePct = (quote.Price - quote.PreviousClose) / quote.PreviousClose * 100
	}

	r.cache.SetDefault(cacheKey, quote)
	return &quote, nil
}

func (r *yahooFinanceRepository) GetHistoricalClose(ctx context.Context, ticker string, date time.Time) (float64, time.Time, error) {
	day := utils.DateOnly(date)
	series, err := r.GetPriceSeries(ctx, ticker, day, day.AddDate(0, 0, nextTradingDayWindow))
	if err != nil {
		return 0, time.Time{}, err
	}
	for _, p := range series {
		if !p.Date.Before(day) {
			return p.Close, p.Date, nil
		}
	}
	return 0, time.Time{}, common.NewDataGap(ticker, day, "no trading bar on or after date", nil)
}

func (r *yahooFinanceRepository) GetPriceSeries(ctx context.Context, ticker string, from, to time.Time) ([]dto.PricePoint, error) {
	from, to = utils.DateOnly(from), utils.DateOnly(to)
	cacheKey := fmt.Sprintf("series:%s:%s:%s", ticker, utils.FormatDate(from), utils.FormatDate(to))
	if v, ok := r.cache.Get(cacheKey); ok {
		return v.([]dto.PricePoint), nil
	}

	params := url.Values{}
	params.Set("period1", fmt.Sprint(from.Unix()))
	params.Set("period2", fmt.Sprint(to.AddDate(0, 0, 1).Unix()))
	params.Set("interval", "1d")
	params.Set("events", "history")
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?%s", r.cfg.BaseURL, url.PathEscape(ticker), params.Encode())

	body, err := r.sendRequest(ctx, endpoint)
	if err != nil {
		return nil, common.NewDataGap(ticker, to, "chart request failed", err)
	}

	var response dto.YahooChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, common.NewDataGap(ticker, to, "invalid chart response", err)
	}
	if response.Chart.Error != nil {
		return nil, common.NewDataGap(ticker, to, response.Chart.Error.Description, nil)
	}
	if len(response.Chart.Result) == 0 {
		return nil, common.NewDataGap(ticker, to, "empty chart result", nil)
	}

	series := toPricePoints(response.Chart.Result[0], from, to)
	r.cache.SetDefault(cacheKey, series)
	return series, nil
}

func toPricePoints(result dto.YahooChartResult, from, to time.Time) []dto.PricePoint {
	loc := time.UTC
	if result.Meta.ExchangeTimezoneName != "" {
		if l, err := time.LoadLocation(result.Meta.ExchangeTimezoneName); err == nil {
			loc = l
		}
	}
	if len(result.Indicators.Quote) == 0 {
		return []dto.PricePoint{}
	}
	q := result.Indicators.Quote[0]

	series := make([]dto.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		closePrice := at(q.Close, i)
		if closePrice <= 0 {
			continue
		}
		date := utils.DateOnly(time.Unix(ts, 0).In(loc))
		if date.Before(from) || date.After(to) {
			continue
		}
		series = append(series, dto.PricePoint{
			Date:  date,
			Open:  at(q.Open, i),
			High:  at(q.High, i),
			Low:   at(q.Low, i),
			Close: closePrice,
		})
	}
	return series
}

func at(col []*float64, i int) float64 {
	if i >= len(col) || col[i] == nil {
		return 0
	}
	return *col[i]
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, endpoint string) ([]byte, error) {
	fields := []zap.Field{
		zap.String("url", endpoint),
		zap.Int("max_request_per_minute", r.cfg.MaxRequestPerMinute),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, err
	}

	start := time.Now()
	result, err := r.breaker.Execute(func() (interface{}, error) {
		var body []byte
		operation := func() error {
			var err error
			body, err = r.fetch(ctx, endpoint)
			var statusErr *HTTPStatusError
			if errors.As(err, &statusErr) && statusErr.StatusCode != http.StatusTooManyRequests && statusErr.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.cfg.MaxRetries), ctx)
		if err := backoff.Retry(operation, policy); err != nil {
			return nil, err
		}
		return body, nil
	})

	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.ProviderLatency.WithLabelValues(providerYahoo, status).Observe(time.Since(start).Seconds())

	if err != nil {
		fields = append(fields, zap.Error(err))
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance API", fields...)
		return nil, err
	}
	return result.([]byte), nil
}

func (r *yahooFinanceRepository) fetch(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPStatusError{StatusCode: resp.StatusCode, URL: strings.SplitN(endpoint, "?", 2)[0]}
	}
	return io.ReadAll(resp.Body)
}
