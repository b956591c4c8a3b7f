package dto

import "time"

// Quote is the latest market snapshot for a ticker.
type Quote struct {
	Ticker           string    `json:"ticker"`
	Name             string    `json:"name,omitempty"`
	Price            float64   `json:"price"`
	PreviousClose    float64   `json:"previous_close"`
	DayChangePct     float64   `json:"day_change_pct"`
	PE               *float64  `json:"pe_ratio,omitempty"`
	FiftyTwoWeekHigh float64   `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  float64   `json:"fifty_two_week_low,omitempty"`
	AsOf             time.Time `json:"as_of"`
}

// PricePoint is one daily bar. Date is the exchange calendar date at midnight UTC.
type PricePoint struct {
	Date  time.Time `json:"date"`
	Open  float64   `json:"open"`
	High  float64   `json:"high"`
	Low   float64   `json:"low"`
	Close float64   `json:"close"`
}

// Closes extracts the close column of a series.
func Closes(series []PricePoint) []float64 {
	out := make([]float64, len(series))
	for i, p := range series {
		out[i] = p.Close
	}
	return out
}
