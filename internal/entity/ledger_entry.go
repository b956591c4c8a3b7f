package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerAction is the side of a recorded execution.
type LedgerAction string

const (
	LedgerActionBuy  LedgerAction = "buy"
	LedgerActionSell LedgerAction = "sell"
)

// LedgerEntry is one user-confirmed execution. Entries are append-only.
type LedgerEntry struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Ticker     string          `gorm:"type:varchar(16);not null;index" json:"ticker"`
	Action     LedgerAction    `gorm:"type:varchar(8);not null" json:"action"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"amount"`
	Shares     decimal.Decimal `gorm:"type:numeric(20,8);not null" json:"shares"`
	Price      decimal.Decimal `gorm:"type:numeric(20,6);not null" json:"price"`
	Note       string          `gorm:"type:text" json:"note,omitempty"`
	ExecutedAt time.Time       `gorm:"not null;index" json:"executed_at"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
