package repository

import (
	"context"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
)

// MarketDataRepository provides prices for a ticker. Missing data is reported
// as a *common.DataGapError.
type MarketDataRepository interface {
	GetCurrentPrice(ctx context.Context, ticker string) (*dto.Quote, error)
	// GetHistoricalClose returns the close on date, or on the next trading day
	// when date was not one, together with the date of the bar used.
	GetHistoricalClose(ctx context.Context, ticker string, date time.Time) (float64, time.Time, error)
	// GetPriceSeries returns daily bars in [from, to], oldest first.
	GetPriceSeries(ctx context.Context, ticker string, from, to time.Time) ([]dto.PricePoint, error)
}

// NewsRepository provides recent headlines for a ticker, most recent first.
type NewsRepository interface {
	GetRecentHeadlines(ctx context.Context, ticker string, limit int) ([]string, error)
}
