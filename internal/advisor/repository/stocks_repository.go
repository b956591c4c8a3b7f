package repository

import (
	"context"

	"golang-stock-advisor/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StocksRepository interface {
	GetActiveStocks(ctx context.Context) ([]entity.Stock, error)
	Upsert(ctx context.Context, stocks []entity.Stock) error
}

type stocksRepository struct {
	db *gorm.DB
}

func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{db: db}
}

func (s *stocksRepository) GetActiveStocks(ctx context.Context) ([]entity.Stock, error) {
	var stocks []entity.Stock
	if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("ticker ASC").Find(&stocks).Error; err != nil {
		return nil, err
	}
	return stocks, nil
}

// Upsert inserts new tickers and refreshes name, sector, tags and active flag of existing ones.
func (s *stocksRepository) Upsert(ctx context.Context, stocks []entity.Stock) error {
	if len(stocks) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ticker"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "sector", "tags", "is_active", "updated_at"}),
	}).CreateInBatches(stocks, 100).Error
}
