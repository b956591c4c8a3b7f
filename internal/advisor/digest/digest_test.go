package digest

import (
	"testing"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/scoring"
	"golang-stock-advisor/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	day    = time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	engine = scoring.NewEngine(scoring.Weights{Technical: 0.4, Sentiment: 0.3, Fundamental: 0.3}, 0, 0, 5)
)

func candidate(ticker string, f scoring.Factors, price float64) Candidate {
	return Candidate{
		Result:     engine.Score(ticker, ticker+" Corp", f),
		Quote:      dto.Quote{Ticker: ticker, Price: price, DayChangePct: 1.5},
		Technicals: scoring.Technicals{Label: "Neutral"},
		Headlines:  []string{"one", "two", "three", "four"},
	}
}

func TestBuild(t *testing.T) {
	buy := []Candidate{
		candidate("AAPL", scoring.Factors{Technical: 1, Sentiment: 1, Fundamental: 1}, 180),
		candidate("MSFT", scoring.Factors{Technical: 0.5}, 400),
	}
	sell := []Candidate{candidate("INTC", scoring.Factors{Technical: -1}, 20)}

	d := Build(day, day.Add(14*time.Hour), 10000, 0.10, buy, sell)

	require.Len(t, d.BuyPicks(), 2)
	require.Len(t, d.SellPicks(), 1)
	assert.Empty(t, d.Message)
	assert.Equal(t, 10000.0, d.Budget)

	first := d.BuyPicks()[0]
	assert.Equal(t, "AAPL", first.Ticker)
	assert.Equal(t, "Strong Buy", first.Signal)
	assert.Equal(t, 180.0, first.CurrentPrice)
	assert.Len(t, first.Headlines, 3)
	assert.Equal(t, 1000.0, first.SuggestedPosition)
	assert.Equal(t, 200.0, d.BuyPicks()[1].SuggestedPosition)
	assert.Zero(t, d.SellPicks()[0].SuggestedPosition)
	assert.Equal(t, "Sell", d.SellPicks()[0].Signal)
}

func TestBuild_Empty(t *testing.T) {
	d := Build(day, day, 10000, 0.10, nil, nil)

	assert.NotEmpty(t, d.Message)
	assert.Empty(t, d.BuyPicks())
	assert.Empty(t, d.SellPicks())
	assert.Empty(t, Predictions(d))
}

func TestSize_NeverExceedsBudget(t *testing.T) {
	picks := make([]entity.StockPick, 20)
	for i := range picks {
		picks[i] = entity.StockPick{Ticker: string(rune('A' + i)), Score: 1}
	}

	sized := Size(picks, 1000, 0.5)

	var total float64
	for _, p := range sized {
		total += p.SuggestedPosition
	}
	assert.LessOrEqual(t, total, 1000.0)
	assert.Equal(t, 50.0, sized[0].SuggestedPosition)
	assert.Zero(t, picks[0].SuggestedPosition, "input must not be mutated")
}

func TestResize_LeavesOriginalUntouched(t *testing.T) {
	d := Build(day, day, 10000, 0.10, []Candidate{candidate("AAPL", scoring.Factors{Technical: 1, Sentiment: 1, Fundamental: 1}, 180)}, nil)

	resized := Resize(d, 5000, 0.10)

	assert.Equal(t, 500.0, resized.BuyPicks()[0].SuggestedPosition)
	assert.Equal(t, 5000.0, resized.Budget)
	assert.Equal(t, 1000.0, d.BuyPicks()[0].SuggestedPosition)
	assert.Equal(t, 10000.0, d.Budget)
}

func TestPredictions(t *testing.T) {
	d := Build(day, day, 10000, 0.10,
		[]Candidate{candidate("AAPL", scoring.Factors{Technical: 1}, 180)},
		[]Candidate{candidate("INTC", scoring.Factors{Technical: -1}, 20)},
	)

	preds := Predictions(d)

	require.Len(t, preds, 2)
	assert.Equal(t, entity.DirectionBuy, preds[0].Direction)
	assert.Equal(t, 180.0, preds[0].PriceAtPrediction)
	assert.Equal(t, day, preds[0].PredictionDate)
	assert.Equal(t, entity.DirectionSell, preds[1].Direction)
	assert.Equal(t, "INTC", preds[1].Ticker)
	assert.False(t, preds[1].Verified7D)
}
