package entity

import (
	"time"

	"gorm.io/datatypes"
)

// FactorBreakdown is one factor's share of a composite score.
type FactorBreakdown struct {
	Score        float64 `json:"score"`
	Weight       float64 `json:"weight"`
	Contribution float64 `json:"contribution"`
}

// ScoreBreakdown holds the three factor contributions of a pick.
type ScoreBreakdown struct {
	Technical   FactorBreakdown `json:"technical"`
	Sentiment   FactorBreakdown `json:"sentiment"`
	Fundamental FactorBreakdown `json:"fundamental"`
}

// StockPick is a single surfaced recommendation. It never changes once stored in a digest.
type StockPick struct {
	Ticker            string         `json:"ticker"`
	Name              string         `json:"name"`
	Score             float64        `json:"score"`
	Signal            string         `json:"signal"`
	CurrentPrice      float64        `json:"current_price"`
	DayChangePct      float64        `json:"day_change_pct"`
	Explanation       string         `json:"explanation"`
	SuggestedPosition float64        `json:"suggested_position"`
	Headlines         []string       `json:"news_headlines"`
	Breakdown         ScoreBreakdown `json:"breakdown"`
}

// Digest is the curated list of picks for one calendar date.
type Digest struct {
	ID           uint                            `gorm:"primaryKey" json:"id"`
	Date         time.Time                       `gorm:"type:date;uniqueIndex;not null" json:"date"`
	GeneratedAt  time.Time                       `gorm:"not null" json:"generated_at"`
	Budget       float64                         `gorm:"not null" json:"budget"`
	Buy          datatypes.JSONType[[]StockPick] `gorm:"type:jsonb;not null" json:"buy"`
	Sell         datatypes.JSONType[[]StockPick] `gorm:"type:jsonb;not null" json:"sell"`
	Message      string                          `gorm:"type:text" json:"message,omitempty"`
	UniverseSize int                             `gorm:"not null;default:0" json:"universe_size"`
	DataGaps     int                             `gorm:"not null;default:0" json:"data_gaps"`
	CreatedAt    time.Time                       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Digest) TableName() string {
	return "digests"
}

// BuyPicks returns the stored buy list, never nil.
func (d Digest) BuyPicks() []StockPick {
	if picks := d.Buy.Data(); picks != nil {
		return picks
	}
	return []StockPick{}
}

// SellPicks returns the stored sell list, never nil.
func (d Digest) SellPicks() []StockPick {
	if picks := d.Sell.Data(); picks != nil {
		return picks
	}
	return []StockPick{}
}
