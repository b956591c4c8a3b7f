package drawdown

import (
	"testing"
	"time"

	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/internal/advisor/ledger"
	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now        = time.Date(2025, 4, 10, 16, 0, 0, 0, time.UTC)
	guiderails = Guiderails{
		MaxPosition:            10000,
		StopLossPct:            25,
		ProfitTakePct:          40,
		DrawdownThresholdPct:   20,
		NormalBuyAmount:        500,
		AggressiveBuyAmount:    1500,
		NormalCooldownDays:     7,
		AggressiveCooldownDays: 5,
		ProfitTakeFraction:     0.25,
	}
)

func series(closes ...float64) []dto.PricePoint {
	start := now.AddDate(0, 0, -len(closes))
	out := make([]dto.PricePoint, len(closes))
	for i, c := range closes {
		out[i] = dto.PricePoint{Date: start.AddDate(0, 0, i).Truncate(24 * time.Hour), Close: c}
	}
	return out
}

func portfolio(t *testing.T, price float64, buys ...entity.LedgerEntry) ledger.Portfolio {
	t.Helper()
	p, err := ledger.Aggregate("QQQ", buys, decimal.NewFromFloat(price), decimal.NewFromFloat(guiderails.MaxPosition))
	require.NoError(t, err)
	return p
}

func buy(t *testing.T, amount, price float64, daysAgo int) entity.LedgerEntry {
	t.Helper()
	e, err := ledger.NewBuy("QQQ", decimal.NewFromFloat(amount), decimal.NewFromFloat(price), now.AddDate(0, 0, -daysAgo))
	require.NoError(t, err)
	return e
}

func TestComputeState(t *testing.T) {
	state, err := ComputeState("QQQ", series(450, 500, 420), dto.Quote{Price: 380, AsOf: now}, 252)
	require.NoError(t, err)

	assert.Equal(t, 500.0, state.PeakPrice)
	assert.Equal(t, 380.0, state.CurrentPrice)
	assert.InDelta(t, 24.0, state.DrawdownPct, 1e-9)
}

func TestComputeState_PeakRatchet(t *testing.T) {
	state, err := ComputeState("QQQ", series(450, 500, 420), dto.Quote{Price: 510, AsOf: now}, 252)
	require.NoError(t, err)

	assert.Equal(t, 510.0, state.PeakPrice)
	assert.Equal(t, time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC), state.PeakDate)
	assert.Zero(t, state.DrawdownPct)
}

func TestComputeState_Lookback(t *testing.T) {
	state, err := ComputeState("QQQ", series(900, 500, 420), dto.Quote{Price: 400, AsOf: now}, 2)
	require.NoError(t, err)

	assert.Equal(t, 500.0, state.PeakPrice)
	assert.InDelta(t, 20.0, state.DrawdownPct, 1e-9)
}

func TestComputeState_NoPrice(t *testing.T) {
	_, err := ComputeState("QQQ", nil, dto.Quote{AsOf: now}, 252)
	assert.True(t, common.IsDataGap(err))
}

func TestEvaluate_AggressiveBuyClampedToCapacity(t *testing.T) {
	state := Ratchet(State{Ticker: "QQQ", PeakPrice: 500}, 380, now)
	require.InDelta(t, 24.0, state.DrawdownPct, 1e-9)

	p := portfolio(t, 380, buy(t, 9700, 380, 10))
	sig := Evaluate(guiderails, state, p, now)

	assert.Equal(t, KindBuyAggressive, sig.Kind)
	assert.Equal(t, 300.0, sig.Amount)
	assert.InDelta(t, 300.0/380.0, sig.Shares, 1e-7)
	require.NotNil(t, sig.DaysSinceLastBuy)
	assert.Equal(t, 10, *sig.DaysSinceLastBuy)
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name      string
		drawdown  float64
		price     float64
		buys      func(t *testing.T) []entity.LedgerEntry
		wantKind  Kind
		wantAmt   float64
		wantShare float64
		reason    string
	}{
		{
			name:     "no prior buy counts as cooled down",
			drawdown: 5,
			price:    400,
			buys:     func(t *testing.T) []entity.LedgerEntry { return nil },
			wantKind: KindBuyNormal,
			wantAmt:  500,
		},
		{
			name:     "normal cooldown not satisfied",
			drawdown: 5,
			price:    400,
			buys:     func(t *testing.T) []entity.LedgerEntry { return []entity.LedgerEntry{buy(t, 500, 400, 3)} },
			wantKind: KindHold,
			reason:   "Wait 4 more days for the next buy.",
		},
		{
			name:     "threshold itself is the normal regime",
			drawdown: 20,
			price:    400,
			buys:     func(t *testing.T) []entity.LedgerEntry { return []entity.LedgerEntry{buy(t, 500, 400, 7)} },
			wantKind: KindBuyNormal,
			wantAmt:  500,
		},
		{
			name:     "aggressive cooldown not satisfied",
			drawdown: 30,
			price:    400,
			buys:     func(t *testing.T) []entity.LedgerEntry { return []entity.LedgerEntry{buy(t, 500, 400, 2)} },
			wantKind: KindHold,
			reason:   "Aggressive zone but wait 3 more days.",
		},
		{
			name:     "capacity exhausted",
			drawdown: 30,
			price:    400,
			buys:     func(t *testing.T) []entity.LedgerEntry { return []entity.LedgerEntry{buy(t, 10000, 400, 30)} },
			wantKind: KindHold,
			reason:   "Max position (10000) reached. Holding.",
		},
		{
			name:      "profit take sells a quarter",
			drawdown:  0,
			price:     150,
			buys:      func(t *testing.T) []entity.LedgerEntry { return []entity.LedgerEntry{buy(t, 1000, 100, 60)} },
			wantKind:  KindSell,
			wantShare: 2.5,
			wantAmt:   375,
		},
		{
			name:      "stop loss ignores cooldown",
			drawdown:  40,
			price:     70,
			buys:      func(t *testing.T) []entity.LedgerEntry { return []entity.LedgerEntry{buy(t, 1000, 100, 1)} },
			wantKind:  KindStopLoss,
			wantShare: 10,
			wantAmt:   700,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := State{Ticker: "QQQ", CurrentPrice: tt.price, DrawdownPct: tt.drawdown}
			sig := Evaluate(guiderails, state, portfolio(t, tt.price, tt.buys(t)...), now)

			assert.Equal(t, tt.wantKind, sig.Kind)
			assert.InDelta(t, tt.wantAmt, sig.Amount, 1e-6)
			if tt.wantShare != 0 {
				assert.InDelta(t, tt.wantShare, sig.Shares, 1e-6)
			}
			if tt.reason != "" {
				assert.Equal(t, tt.reason, sig.Reason)
			}
			assert.Equal(t, tt.wantKind != KindHold, sig.Actionable())
		})
	}
}

func TestEvaluate_StopLossRefires(t *testing.T) {
	state := State{Ticker: "QQQ", CurrentPrice: 70, DrawdownPct: 40}
	p := portfolio(t, 70, buy(t, 1000, 100, 1))

	first := Evaluate(guiderails, state, p, now)
	second := Evaluate(guiderails, state, p, now.Add(time.Hour))

	assert.Equal(t, KindStopLoss, first.Kind)
	assert.Equal(t, KindStopLoss, second.Kind)
}

func TestHistory(t *testing.T) {
	points := History(series(100, 120, 90, 110), 3)

	require.Len(t, points, 3)
	assert.Equal(t, 120.0, points[0].Peak)
	assert.Equal(t, 0.0, points[0].DrawdownPct)
	assert.Equal(t, 25.0, points[1].DrawdownPct)
	assert.Equal(t, 120.0, points[2].Peak)
	assert.InDelta(t, 8.33, points[2].DrawdownPct, 1e-9)
}
