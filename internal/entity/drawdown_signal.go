package entity

import (
	"time"

	"gorm.io/datatypes"
)

// DrawdownSignal is an audit row written each time the monitor evaluates a tracked ticker.
// It records what was suggested; it never changes the ledger.
type DrawdownSignal struct {
	ID           int64          `gorm:"primaryKey" json:"id"`
	Ticker       string         `gorm:"type:varchar(16);not null;index" json:"ticker"`
	Kind         string         `gorm:"type:varchar(20);not null" json:"kind"`
	Amount       float64        `json:"amount"`
	Shares       float64        `json:"shares"`
	CurrentPrice float64        `json:"current_price"`
	PeakPrice    float64        `json:"peak_price"`
	DrawdownPct  float64        `json:"drawdown_pct"`
	PnLPct       float64        `gorm:"column:pnl_pct" json:"pnl_pct"`
	Reason       string         `gorm:"type:text" json:"reason"`
	Notified     bool           `gorm:"not null;default:false" json:"notified"`
	Data         datatypes.JSON `gorm:"type:jsonb" json:"data"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
}

func (DrawdownSignal) TableName() string {
	return "drawdown_signals"
}
