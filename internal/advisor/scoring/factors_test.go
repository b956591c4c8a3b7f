package scoring

import (
	"testing"
	"time"

	"golang-stock-advisor/internal/advisor/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func risingSeries(n int) []dto.PricePoint {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make([]dto.PricePoint, n)
	for i := range series {
		series[i] = dto.PricePoint{Date: start.AddDate(0, 0, i), Close: 100 + float64(i)}
	}
	return series
}

func TestComputeTechnicals_RisingSeries(t *testing.T) {
	tech := ComputeTechnicals(risingSeries(60))

	require.NotNil(t, tech.RSI)
	assert.Equal(t, 100.0, *tech.RSI)
	assert.Equal(t, -0.5, tech.RSIScore)
	assert.Equal(t, 0.8, tech.SMAScore)
	require.NotNil(t, tech.RangePct)
	assert.InDelta(t, 100.0, *tech.RangePct, 1e-9)
	assert.Equal(t, -0.3, tech.RangeScore)
	assert.InDelta(t, 0.19, tech.Score, 1e-9)
	assert.Equal(t, "Slightly Bullish", tech.Label)
}

func TestComputeTechnicals_ShortHistory(t *testing.T) {
	tech := ComputeTechnicals(risingSeries(5))

	assert.Nil(t, tech.RSI)
	assert.Nil(t, tech.SMA20)
	assert.Nil(t, tech.SMA50)
	assert.Zero(t, tech.RSIScore)
	assert.Zero(t, tech.SMAScore)
	assert.InDelta(t, -0.06, tech.Score, 1e-9)
}

func TestRSI(t *testing.T) {
	closes := []float64{10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10, 11, 10}
	rsi := RSI(closes, 14)
	require.NotNil(t, rsi)
	assert.InDelta(t, 50.0, *rsi, 1e-9)

	assert.Nil(t, RSI([]float64{1, 2, 3}, 14))
	assert.Nil(t, RSI([]float64{5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5, 5}, 14))
}

func TestHeadlineSentiment(t *testing.T) {
	tests := []struct {
		name     string
		headline string
		want     float64
	}{
		{"positive", "Apple shares surge after strong earnings", 1},
		{"negative", "Intel stock plunge deepens", -1},
		{"mixed", "Shares drop despite profit gain", -(1.0 / 3.0) * 0.5},
		{"negated", "Tesla does not beat estimates", -0.5},
		{"amplified clamps", "Huge rally for Nvidia", 1},
		{"no keywords", "Company holds annual meeting", 0},
		{"punctuation", "Upgrade!", 1},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HeadlineSentiment(tt.headline), 1e-9)
		})
	}
}

func TestSentiment(t *testing.T) {
	assert.Zero(t, Sentiment(nil))
	assert.InDelta(t, 0.0, Sentiment([]string{"Apple shares surge", "Intel stock plunge"}), 1e-9)
	assert.Equal(t, "Very Positive", SentimentLabel(0.6))
	assert.Equal(t, "Neutral", SentimentLabel(0))
	assert.Equal(t, "Very Negative", SentimentLabel(-0.5))
}

func TestFundamentalScore(t *testing.T) {
	assert.InDelta(t, 0.5, FundamentalScore(14, "Technology"), 1e-9)
	assert.InDelta(t, -1.0, FundamentalScore(100, "Technology"), 1e-9)
	assert.InDelta(t, 0.5, FundamentalScore(10, "Unknown"), 1e-9)
	assert.InDelta(t, 0.0, FundamentalScore(12, "Energy"), 1e-9)
}

func TestExplain(t *testing.T) {
	rsi := 65.0
	tech := Technicals{RSI: &rsi, Label: "Bullish"}

	got := Explain("Apple Inc.", "AAPL", 42, tech, 0.3, -0.4)

	assert.Equal(t, "Apple Inc. (AAPL) shows a positive signal. Technical picture is bullish with RSI at 65. News sentiment is positive. Valuation is rich versus the sector.", got)
	assert.Equal(t, "Intel (INTC) is currently neutral.", Explain("Intel", "INTC", 0, Technicals{Label: "Neutral"}, 0, 0))
}
