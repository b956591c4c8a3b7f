package repository

import (
	"context"
	"fmt"

	"golang-stock-advisor/internal/entity"

	"gorm.io/gorm"
)

// LedgerRepository stores the append-only execution log.
type LedgerRepository interface {
	ListByTicker(ctx context.Context, ticker string) ([]entity.LedgerEntry, error)
	// Append holds a transaction-scoped advisory lock on the ticker, loads its
	// entries and appends whatever build returns. If build fails nothing is written.
	Append(ctx context.Context, ticker string, build func(entries []entity.LedgerEntry) (*entity.LedgerEntry, error)) (*entity.LedgerEntry, error)
}

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new GORM-based ledger repository.
func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) ListByTicker(ctx context.Context, ticker string) ([]entity.LedgerEntry, error) {
	return listLedger(r.db.WithContext(ctx), ticker)
}

func listLedger(db *gorm.DB, ticker string) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	if err := db.Where("ticker = ?", ticker).Order("executed_at ASC, id ASC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ledgerRepository) Append(ctx context.Context, ticker string, build func(entries []entity.LedgerEntry) (*entity.LedgerEntry, error)) (*entity.LedgerEntry, error) {
	var created *entity.LedgerEntry
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "ledger:"+ticker).Error; err != nil {
			return fmt.Errorf("failed to lock ledger %s: %w", ticker, err)
		}

		entries, err := listLedger(tx, ticker)
		if err != nil {
			return fmt.Errorf("failed to load ledger %s: %w", ticker, err)
		}

		entry, err := build(entries)
		if err != nil {
			return err
		}
		if err := tx.Create(entry).Error; err != nil {
			return fmt.Errorf("failed to append ledger entry: %w", err)
		}
		created = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}
