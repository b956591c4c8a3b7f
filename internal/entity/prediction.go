package entity

import "time"

// Direction is the side a prediction was made on.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Horizon is a verification offset in calendar days.
type Horizon int

const (
	Horizon1D  Horizon = 1
	Horizon7D  Horizon = 7
	Horizon30D Horizon = 30
)

// Horizons lists every horizon a prediction is checked at.
var Horizons = []Horizon{Horizon1D, Horizon7D, Horizon30D}

func (h Horizon) String() string {
	switch h {
	case Horizon1D:
		return "1d"
	case Horizon7D:
		return "7d"
	case Horizon30D:
		return "30d"
	}
	return "unknown"
}

// Prediction records one surfaced pick and its later outcome per horizon.
// Rows are only ever updated one horizon at a time and never deleted.
type Prediction struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Ticker            string    `gorm:"type:varchar(16);not null;uniqueIndex:idx_prediction_date_ticker" json:"ticker"`
	CompanyName       string    `gorm:"not null" json:"company_name"`
	Direction         Direction `gorm:"type:varchar(8);not null" json:"direction"`
	Score             float64   `gorm:"not null" json:"score"`
	PredictionDate    time.Time `gorm:"type:date;not null;index;uniqueIndex:idx_prediction_date_ticker" json:"prediction_date"`
	PriceAtPrediction float64   `gorm:"not null" json:"price_at_prediction"`

	PriceAfter1D *float64 `gorm:"column:price_after_1d" json:"price_after_1d"`
	Verified1D   bool     `gorm:"column:verified_1d;not null;default:false" json:"verified_1d"`
	Correct1D    *bool    `gorm:"column:correct_1d" json:"correct_1d"`
	Return1D     *float64 `gorm:"column:return_1d" json:"return_1d"`

	PriceAfter7D *float64 `gorm:"column:price_after_7d" json:"price_after_7d"`
	Verified7D   bool     `gorm:"column:verified_7d;not null;default:false" json:"verified_7d"`
	Correct7D    *bool    `gorm:"column:correct_7d" json:"correct_7d"`
	Return7D     *float64 `gorm:"column:return_7d" json:"return_7d"`

	PriceAfter30D *float64 `gorm:"column:price_after_30d" json:"price_after_30d"`
	Verified30D   bool     `gorm:"column:verified_30d;not null;default:false" json:"verified_30d"`
	Correct30D    *bool    `gorm:"column:correct_30d" json:"correct_30d"`
	Return30D     *float64 `gorm:"column:return_30d" json:"return_30d"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Prediction) TableName() string {
	return "predictions"
}

// HorizonOutcome is the verification slot of a prediction for one horizon.
type HorizonOutcome struct {
	PriceAfter *float64
	Verified   bool
	Correct    *bool
	Return     *float64
}

// Outcome returns the slot for h.
func (p *Prediction) Outcome(h Horizon) HorizonOutcome {
	switch h {
	case Horizon1D:
		return HorizonOutcome{p.PriceAfter1D, p.Verified1D, p.Correct1D, p.Return1D}
	case Horizon7D:
		return HorizonOutcome{p.PriceAfter7D, p.Verified7D, p.Correct7D, p.Return7D}
	case Horizon30D:
		return HorizonOutcome{p.PriceAfter30D, p.Verified30D, p.Correct30D, p.Return30D}
	}
	return HorizonOutcome{}
}

// SetOutcome fills the slot for h and marks it verified.
func (p *Prediction) SetOutcome(h Horizon, o HorizonOutcome) {
	switch h {
	case Horizon1D:
		p.PriceAfter1D, p.Verified1D, p.Correct1D, p.Return1D = o.PriceAfter, true, o.Correct, o.Return
	case Horizon7D:
		p.PriceAfter7D, p.Verified7D, p.Correct7D, p.Return7D = o.PriceAfter, true, o.Correct, o.Return
	case Horizon30D:
		p.PriceAfter30D, p.Verified30D, p.Correct30D, p.Return30D = o.PriceAfter, true, o.Correct, o.Return
	}
}

// DueDate is the calendar date at which horizon h may be resolved.
func (p *Prediction) DueDate(h Horizon) time.Time {
	return p.PredictionDate.AddDate(0, 0, int(h))
}
