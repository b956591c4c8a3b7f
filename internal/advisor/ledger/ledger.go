// Package ledger derives portfolio aggregates from the append-only execution log.
package ledger

import (
	"fmt"
	"sort"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Portfolio is the aggregate view of one ticker's ledger, valued at a price.
type Portfolio struct {
	Ticker            string          `json:"ticker"`
	TotalInvested     decimal.Decimal `json:"total_invested"`
	TotalShares       decimal.Decimal `json:"total_shares"`
	AverageCost       decimal.Decimal `json:"average_cost"`
	CurrentPrice      decimal.Decimal `json:"current_price"`
	CurrentValue      decimal.Decimal `json:"current_value"`
	PnL               decimal.Decimal `json:"pnl"`
	PnLPct            decimal.Decimal `json:"pnl_pct"`
	RealizedPnL       decimal.Decimal `json:"realized_pnl"`
	RemainingCapacity decimal.Decimal `json:"remaining_capacity"`
	PositionCount     int             `json:"position_count"`
	LastBuyDate       *time.Time      `json:"last_buy_date"`
}

// HasPosition reports whether any shares are held.
func (p Portfolio) HasPosition() bool {
	return p.TotalShares.IsPositive()
}

// Aggregate replays entries in execution order on an average-cost basis.
// A sell reduces invested capital by sold shares times the average cost and
// books the difference to the sale proceeds as realized P&L. A sell that
// exceeds the shares held at its execution time fails with
// InsufficientPositionError.
func Aggregate(ticker string, entries []entity.LedgerEntry, price, maxPosition decimal.Decimal) (Portfolio, error) {
	p := Portfolio{Ticker: ticker, CurrentPrice: price}
	for _, e := range inOrder(entries) {
		switch e.Action {
		case entity.LedgerActionBuy:
			p.TotalInvested = p.TotalInvested.Add(e.Amount)
			p.TotalShares = p.TotalShares.Add(e.Shares)
			p.PositionCount++
			if p.LastBuyDate == nil || e.ExecutedAt.After(*p.LastBuyDate) {
				t := e.ExecutedAt
				p.LastBuyDate = &t
			}
		case entity.LedgerActionSell:
			if e.Shares.GreaterThan(p.TotalShares) {
				return Portfolio{}, oversold(ticker, e, p.TotalShares)
			}
			if !e.Shares.IsPositive() {
				continue
			}
			avg := p.TotalInvested.Div(p.TotalShares)
			cost := e.Shares.Mul(avg)
			p.RealizedPnL = p.RealizedPnL.Add(e.Shares.Mul(e.Price).Sub(cost))
			p.TotalInvested = p.TotalInvested.Sub(cost)
			p.TotalShares = p.TotalShares.Sub(e.Shares)
			if p.TotalShares.IsZero() {
				p.TotalInvested = decimal.Zero
			}
		}
	}

	if p.TotalShares.IsPositive() {
		p.AverageCost = p.TotalInvested.Div(p.TotalShares)
	}
	p.CurrentValue = p.TotalShares.Mul(price)
	p.PnL = p.CurrentValue.Sub(p.TotalInvested)
	if p.TotalInvested.IsPositive() {
		p.PnLPct = p.PnL.Div(p.TotalInvested).Mul(hundred)
	}
	p.RemainingCapacity = maxPosition.Sub(p.TotalInvested)
	return p, nil
}

// SharesAt returns the shares held once every entry executed at or before at
// has been applied.
func SharesAt(entries []entity.LedgerEntry, at time.Time) decimal.Decimal {
	held := decimal.Zero
	for _, e := range entries {
		if e.ExecutedAt.After(at) {
			continue
		}
		switch e.Action {
		case entity.LedgerActionBuy:
			held = held.Add(e.Shares)
		case entity.LedgerActionSell:
			held = held.Sub(e.Shares)
		}
	}
	return held
}

// CheckBalance fails with InsufficientPositionError at the first sell the
// running balance cannot cover.
func CheckBalance(ticker string, entries []entity.LedgerEntry) error {
	_, err := Aggregate(ticker, entries, decimal.Zero, decimal.Zero)
	return err
}

// inOrder sorts a copy of entries by (executed_at, id). Unsaved entries have
// ID 0 and sort after saved ones at the same instant.
func inOrder(entries []entity.LedgerEntry) []entity.LedgerEntry {
	sorted := make([]entity.LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].ExecutedAt.Equal(sorted[j].ExecutedAt) {
			return seq(sorted[i]) < seq(sorted[j])
		}
		return sorted[i].ExecutedAt.Before(sorted[j].ExecutedAt)
	})
	return sorted
}

func seq(e entity.LedgerEntry) uint {
	if e.ID == 0 {
		return ^uint(0)
	}
	return e.ID
}

func oversold(ticker string, e entity.LedgerEntry, held decimal.Decimal) error {
	return fmt.Errorf("sell at %s: %w", e.ExecutedAt.UTC().Format(time.RFC3339), &common.InsufficientPositionError{
		Ticker:    ticker,
		Requested: e.Shares.String(),
		Held:      held.String(),
	})
}

// NewBuy builds a buy entry for amount at price. shares = amount / price.
func NewBuy(ticker string, amount, price decimal.Decimal, at time.Time) (entity.LedgerEntry, error) {
	if !amount.IsPositive() {
		return entity.LedgerEntry{}, fmt.Errorf("%w: buy amount must be positive, got %s", common.ErrInvalidInput, amount)
	}
	if !price.IsPositive() {
		return entity.LedgerEntry{}, fmt.Errorf("%w: price must be positive, got %s", common.ErrInvalidInput, price)
	}
	return entity.LedgerEntry{
		Ticker:     ticker,
		Action:     entity.LedgerActionBuy,
		Amount:     amount,
		Shares:     amount.DivRound(price, 8),
		Price:      price,
		ExecutedAt: at,
	}, nil
}

// NewSell builds a sell entry against the held shares. Exactly one of shares or
// fraction must be set. Selling more than held fails with InsufficientPositionError.
func NewSell(ticker string, held, shares, fraction, price decimal.Decimal, at time.Time) (entity.LedgerEntry, error) {
	if !price.IsPositive() {
		return entity.LedgerEntry{}, fmt.Errorf("%w: price must be positive, got %s", common.ErrInvalidInput, price)
	}
	switch {
	case shares.IsPositive() && fraction.IsPositive():
		return entity.LedgerEntry{}, fmt.Errorf("%w: specify either shares or fraction, not both", common.ErrInvalidInput)
	case fraction.IsPositive():
		if fraction.GreaterThan(decimal.NewFromInt(1)) {
			return entity.LedgerEntry{}, fmt.Errorf("%w: fraction must be in (0, 1], got %s", common.ErrInvalidInput, fraction)
		}
		shares = held.Mul(fraction).RoundDown(8)
	case !shares.IsPositive():
		return entity.LedgerEntry{}, fmt.Errorf("%w: sell requires positive shares or fraction", common.ErrInvalidInput)
	}

	if shares.GreaterThan(held) || !shares.IsPositive() {
		return entity.LedgerEntry{}, &common.InsufficientPositionError{
			Ticker:    ticker,
			Requested: shares.String(),
			Held:      held.String(),
		}
	}
	return entity.LedgerEntry{
		Ticker:     ticker,
		Action:     entity.LedgerActionSell,
		Amount:     shares.Mul(price).Round(6),
		Shares:     shares,
		Price:      price,
		ExecutedAt: at,
	}, nil
}
