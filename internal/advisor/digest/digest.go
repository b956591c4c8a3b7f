// Package digest assembles scored tickers into the immutable daily digest.
package digest

import (
	"math"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/scoring"
	"golang-stock-advisor/internal/entity"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	maxHeadlines = 3
	emptyMessage = "No stock met the buy or sell criteria today. Check back tomorrow."
)

// Candidate is a ranked ticker together with the inputs needed to render its pick.
type Candidate struct {
	Result     scoring.Result
	Quote      dto.Quote
	Technicals scoring.Technicals
	Headlines  []string
}

// Build assembles the digest for date. Buy picks are sized against budget; sell picks carry no position.
// With no candidates at all the digest carries a message and empty lists.
func Build(date, generatedAt time.Time, budget, maxPositionPct float64, buy, sell []Candidate) entity.Digest {
	buyPicks := make([]entity.StockPick, 0, len(buy))
	for _, c := range buy {
		buyPicks = append(buyPicks, newPick(c))
	}
	sellPicks := make([]entity.StockPick, 0, len(sell))
	for _, c := range sell {
		sellPicks = append(sellPicks, newPick(c))
	}
	buyPicks = Size(buyPicks, budget, maxPositionPct)

	d := entity.Digest{
		Date:        date,
		GeneratedAt: generatedAt,
		Budget:      budget,
		Buy:         datatypes.NewJSONType(buyPicks),
		Sell:        datatypes.NewJSONType(sellPicks),
	}
	if len(buyPicks) == 0 && len(sellPicks) == 0 {
		d.Message = emptyMessage
	}
	return d
}

func newPick(c Candidate) entity.StockPick {
	r := c.Result
	headlines := c.Headlines
	if len(headlines) > maxHeadlines {
		headlines = headlines[:maxHeadlines]
	}
	if headlines == nil {
		headlines = []string{}
	}
	display := r.Display()
	return entity.StockPick{
		Ticker:       r.Ticker,
		Name:         r.Name,
		Score:        r.Composite,
		Signal:       scoring.SignalLabel(display),
		CurrentPrice: c.Quote.Price,
		DayChangePct: c.Quote.DayChangePct,
		Explanation:  scoring.Explain(r.Name, r.Ticker, display, c.Technicals, r.Factors.Sentiment, r.Factors.Fundamental),
		Headlines:    append([]string(nil), headlines...),
		Breakdown:    r.Breakdown,
	}
}

// Size returns a copy of buy with suggested positions for budget.
// Each pick gets budget * min(maxPositionPct, 1/len(buy)) * |score|, rounded
// down to cents, so the total never exceeds the budget.
func Size(buy []entity.StockPick, budget, maxPositionPct float64) []entity.StockPick {
	out := make([]entity.StockPick, len(buy))
	copy(out, buy)
	if len(out) == 0 {
		return out
	}
	share := math.Min(maxPositionPct, 1/float64(len(out)))
	for i := range out {
		out[i].SuggestedPosition = SuggestedPosition(budget, share, out[i].Score)
	}
	return out
}

// SuggestedPosition is budget * share * |score| rounded down to cents.
func SuggestedPosition(budget, share, score float64) float64 {
	if budget <= 0 || share <= 0 {
		return 0
	}
	v := decimal.NewFromFloat(budget).
		Mul(decimal.NewFromFloat(share)).
		Mul(decimal.NewFromFloat(math.Min(math.Abs(score), 1))).
		RoundDown(2)
	f, _ := v.Float64()
	return f
}

// Resize returns a copy of d re-sized against budget. The stored digest is untouched.
func Resize(d entity.Digest, budget, maxPositionPct float64) entity.Digest {
	out := d
	out.Budget = budget
	out.Buy = datatypes.NewJSONType(Size(d.BuyPicks(), budget, maxPositionPct))
	out.Sell = datatypes.NewJSONType(append([]entity.StockPick{}, d.SellPicks()...))
	return out
}

// Predictions emits one prediction per surfaced pick.
func Predictions(d entity.Digest) []entity.Prediction {
	var out []entity.Prediction
	for _, p := range d.BuyPicks() {
		out = append(out, newPrediction(d.Date, p, entity.DirectionBuy))
	}
	for _, p := range d.SellPicks() {
		out = append(out, newPrediction(d.Date, p, entity.DirectionSell))
	}
	return out
}

func newPrediction(date time.Time, p entity.StockPick, dir entity.Direction) entity.Prediction {
	return entity.Prediction{
		Ticker:            p.Ticker,
		CompanyName:       p.Name,
		Direction:         dir,
		Score:             p.Score,
		PredictionDate:    date,
		PriceAtPrediction: p.CurrentPrice,
	}
}
