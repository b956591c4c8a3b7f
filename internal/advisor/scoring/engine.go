// Package scoring turns per-ticker factor inputs into ranked composite scores.
package scoring

import (
	"sort"

	"golang-stock-advisor/internal/entity"
)

// Weights is the factor weight vector.
type Weights struct {
	Technical   float64
	Sentiment   float64
	Fundamental float64
}

// Factors are the three normalized factor scores of a ticker, each in [-1, 1].
type Factors struct {
	Technical   float64
	Sentiment   float64
	Fundamental float64
}

// Result is a scored ticker.
type Result struct {
	Ticker    string
	Name      string
	Factors   Factors
	Composite float64
	Breakdown entity.ScoreBreakdown
}

// Display returns the composite on the -100..100 display scale.
func (r Result) Display() float64 {
	return r.Composite * 100
}

// Engine scores and ranks tickers.
type Engine struct {
	weights       Weights
	buyThreshold  float64
	sellThreshold float64
	topN          int
}

// NewEngine creates an Engine. Thresholds are on the composite scale.
func NewEngine(weights Weights, buyThreshold, sellThreshold float64, topN int) *Engine {
	return &Engine{
		weights:       weights,
		buyThreshold:  buyThreshold,
		sellThreshold: sellThreshold,
		topN:          topN,
	}
}

// Score combines the factors. The composite is the exact sum of the contributions.
func (e *Engine) Score(ticker, name string, f Factors) Result {
	tech := factor(f.Technical, e.weights.Technical)
	sent := factor(f.Sentiment, e.weights.Sentiment)
	fund := factor(f.Fundamental, e.weights.Fundamental)

	return Result{
		Ticker:    ticker,
		Name:      name,
		Factors:   f,
		Composite: tech.Contribution + sent.Contribution + fund.Contribution,
		Breakdown: entity.ScoreBreakdown{
			Technical:   tech,
			Sentiment:   sent,
			Fundamental: fund,
		},
	}
}

func factor(score, weight float64) entity.FactorBreakdown {
	return entity.FactorBreakdown{Score: score, Weight: weight, Contribution: score * weight}
}

// Rank splits results into buy candidates (composite above the buy threshold,
// highest first) and sell candidates (below the sell threshold, lowest first).
// Everything in between is dropped. Equal composites order by ticker. Each list
// is cut to the top N.
func (e *Engine) Rank(results []Result) (buy, sell []Result) {
	for _, r := range results {
		switch {
		case r.Composite > e.buyThreshold:
			buy = append(buy, r)
		case r.Composite < e.sellThreshold:
			sell = append(sell, r)
		}
	}

	sort.SliceStable(buy, func(i, j int) bool {
		if buy[i].Composite != buy[j].Composite {
			return buy[i].Composite > buy[j].Composite
		}
		return buy[i].Ticker < buy[j].Ticker
	})
	sort.SliceStable(sell, func(i, j int) bool {
		if sell[i].Composite != sell[j].Composite {
			return sell[i].Composite < sell[j].Composite
		}
		return sell[i].Ticker < sell[j].Ticker
	})

	return truncate(buy, e.topN), truncate(sell, e.topN)
}

func truncate(rs []Result, n int) []Result {
	if n > 0 && len(rs) > n {
		return rs[:n]
	}
	return rs
}

// SignalLabel maps a display score to its recommendation label.
func SignalLabel(display float64) string {
	switch {
	case display >= 60:
		return "Strong Buy"
	case display >= 30:
		return "Buy"
	case display >= -30:
		return "Hold"
	case display >= -60:
		return "Sell"
	}
	return "Strong Sell"
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
