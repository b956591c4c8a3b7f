package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultWeights = Weights{Technical: 0.40, Sentiment: 0.30, Fundamental: 0.30}

func TestEngineScore_ContributionsSumToComposite(t *testing.T) {
	engine := NewEngine(defaultWeights, 0, 0, 5)

	inputs := []Factors{
		{Technical: 0.5, Sentiment: 0.2, Fundamental: -0.1},
		{Technical: -1, Sentiment: -1, Fundamental: -1},
		{Technical: 0.19, Sentiment: 0.333333, Fundamental: 0.7142857},
		{},
	}

	for _, f := range inputs {
		r := engine.Score("AAPL", "Apple Inc.", f)
		b := r.Breakdown
		assert.Equal(t, b.Technical.Contribution+b.Sentiment.Contribution+b.Fundamental.Contribution, r.Composite)
		assert.Equal(t, 0.40*f.Technical, b.Technical.Contribution)
		assert.Equal(t, 0.30*f.Sentiment, b.Sentiment.Contribution)
		assert.Equal(t, 0.30*f.Fundamental, b.Fundamental.Contribution)
		assert.GreaterOrEqual(t, r.Composite, -1.0)
		assert.LessOrEqual(t, r.Composite, 1.0)
	}
}

func TestEngineScore_Example(t *testing.T) {
	engine := NewEngine(defaultWeights, 0, 0, 5)
	r := engine.Score("MSFT", "Microsoft", Factors{Technical: 0.5, Sentiment: 0.2, Fundamental: -0.1})

	assert.InDelta(t, 0.23, r.Composite, 1e-9)
	assert.InDelta(t, 23.0, r.Display(), 1e-9)
	assert.Equal(t, "Hold", SignalLabel(r.Display()))
}

func TestEngineRank(t *testing.T) {
	engine := NewEngine(defaultWeights, 0, 0, 2)
	results := []Result{
		{Ticker: "MSFT", Composite: 0.30},
		{Ticker: "AAPL", Composite: 0.30},
		{Ticker: "NVDA", Composite: 0.10},
		{Ticker: "TSLA", Composite: -0.40},
		{Ticker: "INTC", Composite: -0.20},
		{Ticker: "IBM", Composite: -0.05},
		{Ticker: "KO", Composite: 0},
	}

	buy, sell := engine.Rank(results)

	require.Len(t, buy, 2)
	assert.Equal(t, "AAPL", buy[0].Ticker)
	assert.Equal(t, "MSFT", buy[1].Ticker)
	require.Len(t, sell, 2)
	assert.Equal(t, "TSLA", sell[0].Ticker)
	assert.Equal(t, "INTC", sell[1].Ticker)
}

func TestEngineRank_ThresholdsAreStrict(t *testing.T) {
	engine := NewEngine(defaultWeights, 0.1, -0.1, 5)
	buy, sell := engine.Rank([]Result{
		{Ticker: "A", Composite: 0.1},
		{Ticker: "B", Composite: -0.1},
		{Ticker: "C", Composite: 0.11},
	})

	require.Len(t, buy, 1)
	assert.Equal(t, "C", buy[0].Ticker)
	assert.Empty(t, sell)
}

func TestEngineRank_ShorterListWhenFewQualify(t *testing.T) {
	engine := NewEngine(defaultWeights, 0, 0, 5)
	buy, sell := engine.Rank([]Result{{Ticker: "A", Composite: 0.2}})

	assert.Len(t, buy, 1)
	assert.Empty(t, sell)
}

func TestSignalLabel(t *testing.T) {
	tests := []struct {
		display float64
		want    string
	}{
		{75, "Strong Buy"},
		{60, "Strong Buy"},
		{45, "Buy"},
		{30, "Buy"},
		{0, "Hold"},
		{-30, "Hold"},
		{-45, "Sell"},
		{-60, "Sell"},
		{-61, "Strong Sell"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignalLabel(tt.display), "display %v", tt.display)
	}
}
