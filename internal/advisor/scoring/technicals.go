package scoring

import (
	"math"

	"golang-stock-advisor/internal/advisor/dto"
)

const (
	rsiPeriod   = 14
	smaFast     = 20
	smaSlow     = 50
	rsiWeight   = 0.3
	smaWeight   = 0.5
	rangeWeight = 0.2
)

// Technicals holds the indicator readings behind a technical score.
// Nil indicators had too little history and contribute 0.
type Technicals struct {
	RSI        *float64
	SMA20      *float64
	SMA50      *float64
	RangePct   *float64
	RSIScore   float64
	SMAScore   float64
	RangeScore float64
	Score      float64
	Label      string
	LastClose  float64
}

// ComputeTechnicals derives RSI(14), the SMA20/50 cross and the 52-week range
// position from a daily series ordered oldest first. The series must not be empty.
func ComputeTechnicals(series []dto.PricePoint) Technicals {
	closes := dto.Closes(series)
	t := Technicals{LastClose: closes[len(closes)-1]}

	t.RSI = RSI(closes, rsiPeriod)
	if t.RSI != nil {
		t.RSIScore = rsiScore(*t.RSI)
	}

	t.SMA20 = SMA(closes, smaFast)
	t.SMA50 = SMA(closes, smaSlow)
	if t.SMA20 != nil && t.SMA50 != nil {
		t.SMAScore = smaScore(*t.SMA20, *t.SMA50, t.LastClose)
	}

	t.RangePct = rangePosition(series, t.LastClose)
	if t.RangePct != nil {
		t.RangeScore = rangeScore(*t.RangePct)
	}

	t.Score = rsiWeight*t.RSIScore + smaWeight*t.SMAScore + rangeWeight*t.RangeScore
	t.Label = technicalLabel(t.Score)
	return t
}

// RSI is the simple-average relative strength index over the last period changes.
func RSI(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}
	var gain, loss float64
	for i := len(closes) - period; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gain += delta
		} else {
			loss -= delta
		}
	}
	if gain == 0 && loss == 0 {
		return nil
	}
	if loss == 0 {
		v := 100.0
		return &v
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	v := 100 - 100/(1+rs)
	return &v
}

// SMA is the mean of the last period closes.
func SMA(closes []float64, period int) *float64 {
	if period <= 0 || len(closes) < period {
		return nil
	}
	var sum float64
	for _, c := range closes[len(closes)-period:] {
		sum += c
	}
	v := sum / float64(period)
	return &v
}

func rangePosition(series []dto.PricePoint, price float64) *float64 {
	high, low := math.Inf(-1), math.Inf(1)
	for _, p := range series {
		h, l := p.High, p.Low
		if h == 0 {
			h = p.Close
		}
		if l == 0 {
			l = p.Close
		}
		high = math.Max(high, h)
		low = math.Min(low, l)
	}
	if high <= low {
		return nil
	}
	v := (price - low) / (high - low) * 100
	return &v
}

func rsiScore(rsi float64) float64 {
	switch {
	case rsi >= 70:
		return -0.5
	case rsi >= 60:
		return 0.3
	case rsi <= 30:
		return 0.5
	case rsi <= 40:
		return -0.3
	}
	return 0
}

func smaScore(sma20, sma50, price float64) float64 {
	if sma20 > sma50 {
		if price > sma20 {
			return 0.8
		}
		return 0.4
	}
	if price < sma20 {
		return -0.8
	}
	return -0.4
}

func rangeScore(pct float64) float64 {
	switch {
	case pct >= 90:
		return -0.3
	case pct >= 70:
		return 0.2
	case pct <= 10:
		return 0.3
	case pct <= 30:
		return -0.2
	}
	return 0
}

func technicalLabel(score float64) string {
	switch {
	case score >= 0.4:
		return "Bullish"
	case score >= 0.1:
		return "Slightly Bullish"
	case score <= -0.4:
		return "Bearish"
	case score <= -0.1:
		return "Slightly Bearish"
	}
	return "Neutral"
}
