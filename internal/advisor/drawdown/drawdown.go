// Package drawdown implements the rule-based drawdown accumulation strategy.
// Evaluation is pure: it reads a price state and a portfolio snapshot and
// returns a Signal. Executing a signal is a separate, user-confirmed step.
package drawdown

import (
	"fmt"
	"math"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/ledger"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/utils"
)

// Kind tags the variant of a Signal.
type Kind string

const (
	KindHold          Kind = "HOLD"
	KindBuyNormal     Kind = "BUY_NORMAL"
	KindBuyAggressive Kind = "BUY_AGGRESSIVE"
	KindSell          Kind = "SELL"
	KindStopLoss      Kind = "STOP_LOSS"
)

// Guiderails are the risk limits the rule chain enforces.
type Guiderails struct {
	MaxPosition            float64 `json:"max_position"`
	StopLossPct            float64 `json:"stop_loss_pct"`
	ProfitTakePct          float64 `json:"profit_take_pct"`
	DrawdownThresholdPct   float64 `json:"drawdown_threshold_pct"`
	NormalBuyAmount        float64 `json:"normal_buy_amount"`
	AggressiveBuyAmount    float64 `json:"aggressive_buy_amount"`
	NormalCooldownDays     int     `json:"normal_cooldown_days"`
	AggressiveCooldownDays int     `json:"aggressive_cooldown_days"`
	ProfitTakeFraction     float64 `json:"profit_take_fraction"`
}

// State is the drawdown of the latest price from its running peak.
type State struct {
	Ticker       string    `json:"ticker"`
	PeakPrice    float64   `json:"peak_price"`
	PeakDate     time.Time `json:"peak_date"`
	CurrentPrice float64   `json:"current_price"`
	DrawdownPct  float64   `json:"drawdown_pct"`
	AsOf         time.Time `json:"as_of"`
}

// Signal is the outcome of one evaluation.
type Signal struct {
	Kind             Kind      `json:"kind"`
	Amount           float64   `json:"amount"`
	Shares           float64   `json:"shares"`
	Reason           string    `json:"reason"`
	DrawdownPct      float64   `json:"drawdown_pct"`
	PnLPct           float64   `json:"pnl_pct"`
	DaysSinceLastBuy *int      `json:"days_since_last_buy"`
	EvaluatedAt      time.Time `json:"evaluated_at"`
}

// Actionable reports whether the signal asks the user to do something.
func (s Signal) Actionable() bool {
	return s.Kind != KindHold
}

// ComputeState derives the peak and drawdown from the last lookback bars of
// series and the current quote. A quote above the series peak becomes the new
// peak before the drawdown is computed.
func ComputeState(ticker string, series []dto.PricePoint, quote dto.Quote, lookback int) (State, error) {
	if lookback > 0 && len(series) > lookback {
		series = series[len(series)-lookback:]
	}

	var s State
	s.Ticker = ticker
	for _, p := range series {
		if p.Close > s.PeakPrice {
			s.PeakPrice = p.Close
			s.PeakDate = p.Date
		}
	}

	s.CurrentPrice = quote.Price
	s.AsOf = quote.AsOf
	if s.CurrentPrice <= 0 && len(series) > 0 {
		last := series[len(series)-1]
		s.CurrentPrice = last.Close
		s.AsOf = last.Date
	}
	if s.CurrentPrice <= 0 {
		return State{}, common.NewDataGap(ticker, quote.AsOf, "no price for drawdown", nil)
	}

	s = Ratchet(s, s.CurrentPrice, s.AsOf)
	return s, nil
}

// Ratchet applies one observed price: a new high moves the peak, then the
// drawdown is recomputed against the (possibly updated) peak.
func Ratchet(s State, price float64, at time.Time) State {
	if price > s.PeakPrice {
		s.PeakPrice = price
		s.PeakDate = utils.DateOnly(at)
	}
	s.CurrentPrice = price
	s.AsOf = at
	s.DrawdownPct = (s.PeakPrice - price) / s.PeakPrice * 100
	return s
}

// Evaluate runs the rule chain. The first matching rule wins:
// stop-loss, profit-take, aggressive buy, normal buy, otherwise hold.
func Evaluate(g Guiderails, state State, p ledger.Portfolio, now time.Time) Signal {
	invested, _ := p.TotalInvested.Float64()
	shares, _ := p.TotalShares.Float64()
	pnlPct, _ := p.PnLPct.Round(4).Float64()
	capacity := g.MaxPosition - invested

	sig := Signal{
		Kind:        KindHold,
		DrawdownPct: state.DrawdownPct,
		PnLPct:      pnlPct,
		EvaluatedAt: now,
	}

	var days int
	cooled := func(int) bool { return true }
	if p.LastBuyDate != nil {
		days = utils.DaysBetween(p.LastBuyDate.In(now.Location()), now)
		sig.DaysSinceLastBuy = &days
		cooled = func(cooldown int) bool { return days >= cooldown }
	}

	if invested > 0 && pnlPct <= -g.StopLossPct {
		sig.Kind = KindStopLoss
		sig.Shares = shares
		sig.Amount = round2(shares * state.CurrentPrice)
		sig.Reason = fmt.Sprintf("Position down %.1f%%, stop-loss at -%.0f%% triggered. Consider selling all.", pnlPct, g.StopLossPct)
		return sig
	}

	if shares > 0 && pnlPct >= g.ProfitTakePct {
		sig.Kind = KindSell
		sig.Shares = roundShares(shares * g.ProfitTakeFraction)
		sig.Amount = round2(sig.Shares * state.CurrentPrice)
		sig.Reason = fmt.Sprintf("Position up %.1f%%, take %.0f%% profit (%.2f).", pnlPct, g.ProfitTakeFraction*100, sig.Amount)
		return sig
	}

	if capacity <= 0 {
		sig.Reason = fmt.Sprintf("Max position (%.0f) reached. Holding.", g.MaxPosition)
		return sig
	}

	if state.DrawdownPct > g.DrawdownThresholdPct {
		if !cooled(g.AggressiveCooldownDays) {
			sig.Reason = fmt.Sprintf("Aggressive zone but wait %d more days.", g.AggressiveCooldownDays-days)
			return sig
		}
		sig.Kind = KindBuyAggressive
		sig.Amount = math.Min(g.AggressiveBuyAmount, capacity)
		sig.Shares = roundShares(sig.Amount / state.CurrentPrice)
		sig.Reason = fmt.Sprintf("Drawdown %.1f%% above %.0f%%, aggressive buy %.2f.", state.DrawdownPct, g.DrawdownThresholdPct, sig.Amount)
		return sig
	}

	if !cooled(g.NormalCooldownDays) {
		sig.Reason = fmt.Sprintf("Wait %d more days for the next buy.", g.NormalCooldownDays-days)
		return sig
	}
	sig.Kind = KindBuyNormal
	sig.Amount = math.Min(g.NormalBuyAmount, capacity)
	sig.Shares = roundShares(sig.Amount / state.CurrentPrice)
	sig.Reason = fmt.Sprintf("Normal conditions, buy %.2f.", sig.Amount)
	return sig
}

// HistoryPoint is one bar of the drawdown chart.
type HistoryPoint struct {
	Date        time.Time `json:"date"`
	Price       float64   `json:"price"`
	Peak        float64   `json:"peak"`
	DrawdownPct float64   `json:"drawdown_pct"`
}

// History computes the running peak and drawdown over series and returns the last n bars.
func History(series []dto.PricePoint, n int) []HistoryPoint {
	out := make([]HistoryPoint, 0, len(series))
	var peak float64
	for _, p := range series {
		if p.Close <= 0 {
			continue
		}
		peak = math.Max(peak, p.Close)
		out = append(out, HistoryPoint{
			Date:        p.Date,
			Price:       round2(p.Close),
			Peak:        round2(peak),
			DrawdownPct: round2((peak - p.Close) / peak * 100),
		})
	}
	if n > 0 && len(out) > n {
		out = out[len(out)-n:]
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundShares(v float64) float64 {
	return math.Floor(v*1e8) / 1e8
}
