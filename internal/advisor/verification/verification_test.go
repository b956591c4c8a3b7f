package verification

import (
	"testing"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	gate    = Gate{MinPredictions: 50, MinAccuracyPct: 55}
	predDay = time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC)
)

func TestResolve(t *testing.T) {
	buy := Resolve(entity.DirectionBuy, 100, 107)
	require.NotNil(t, buy.Return)
	assert.Equal(t, 7.00, *buy.Return)
	assert.True(t, *buy.Correct)
	assert.True(t, buy.Verified)
	assert.Equal(t, 107.0, *buy.PriceAfter)

	sell := Resolve(entity.DirectionSell, 100, 107)
	assert.Equal(t, 7.00, *sell.Return)
	assert.False(t, *sell.Correct)

	flat := Resolve(entity.DirectionBuy, 100, 100)
	assert.False(t, *flat.Correct)
	flatSell := Resolve(entity.DirectionSell, 100, 100)
	assert.False(t, *flatSell.Correct)

	down := Resolve(entity.DirectionSell, 50, 45)
	assert.Equal(t, -10.0, *down.Return)
	assert.True(t, *down.Correct)
}

func TestDue(t *testing.T) {
	p := &entity.Prediction{PredictionDate: predDay}

	assert.False(t, Due(p, entity.Horizon7D, predDay.AddDate(0, 0, 6)))
	assert.True(t, Due(p, entity.Horizon7D, predDay.AddDate(0, 0, 7).Add(9*time.Hour)))
	assert.True(t, Due(p, entity.Horizon1D, predDay.AddDate(0, 0, 30)))

	p.SetOutcome(entity.Horizon7D, Resolve(entity.DirectionBuy, 100, 101))
	assert.False(t, Due(p, entity.Horizon7D, predDay.AddDate(0, 0, 8)))
}

func verifiedPredictions(n, correct int) []entity.Prediction {
	out := make([]entity.Prediction, n)
	for i := range out {
		out[i] = entity.Prediction{Ticker: "T", Direction: entity.DirectionBuy, PredictionDate: predDay, PriceAtPrediction: 100}
		after := 99.0
		if i < correct {
			after = 102
		}
		out[i].SetOutcome(entity.Horizon7D, Resolve(entity.DirectionBuy, 100, after))
	}
	return out
}

func TestComputeStats_Unlock(t *testing.T) {
	stats := ComputeStats(verifiedPredictions(50, 28), gate, predDay)

	assert.Equal(t, 50, stats.TotalPredictions)
	assert.Equal(t, 50, stats.Verified7DCount)
	assert.Equal(t, 28, stats.Correct7DCount)
	require.NotNil(t, stats.Accuracy7D)
	assert.Equal(t, 56.0, *stats.Accuracy7D)
	assert.True(t, stats.IsUnlocked)
	assert.Equal(t, "Achieved 56.0% accuracy over 50 predictions", stats.UnlockReason)
	assert.Nil(t, stats.Accuracy1D)
	assert.Nil(t, stats.AvgReturn30D)
	assert.Equal(t, predDay, stats.CalculatedAt)
}

func TestComputeStats_BelowAccuracy(t *testing.T) {
	stats := ComputeStats(verifiedPredictions(1000, 549), gate, predDay)

	assert.Equal(t, 54.9, *stats.Accuracy7D)
	assert.False(t, stats.IsUnlocked)
	assert.Equal(t, "Accuracy 54.9% < 55% required (1000 predictions)", stats.UnlockReason)
}

func TestComputeStats_TooFewPredictions(t *testing.T) {
	stats := ComputeStats(verifiedPredictions(40, 40), gate, predDay)

	assert.False(t, stats.IsUnlocked)
	assert.Equal(t, "Need 10 more verified predictions (have 40/50)", stats.UnlockReason)
}

func TestComputeStats_Returns(t *testing.T) {
	preds := []entity.Prediction{
		{Direction: entity.DirectionBuy, PriceAtPrediction: 100},
		{Direction: entity.DirectionSell, PriceAtPrediction: 100},
		{Direction: entity.DirectionSell, PriceAtPrediction: 100},
	}
	preds[0].SetOutcome(entity.Horizon7D, Resolve(entity.DirectionBuy, 100, 110))
	preds[1].SetOutcome(entity.Horizon7D, Resolve(entity.DirectionSell, 100, 95))

	stats := ComputeStats(preds, gate, predDay)

	assert.Equal(t, 3, stats.TotalPredictions)
	assert.Equal(t, 2, stats.Verified7DCount)
	assert.Equal(t, 2, stats.Correct7DCount)
	assert.Equal(t, 2.5, *stats.AvgReturn7D)
	assert.Equal(t, 15.0, *stats.HypotheticalReturnTotal)
}

func TestMode(t *testing.T) {
	none := Mode(nil, gate)
	assert.Equal(t, common.ModeObservation, none.Mode)
	assert.False(t, none.IsUnlocked)
	assert.Equal(t, 50, none.Requirements.MinPredictions)

	unlocked := ComputeStats(verifiedPredictions(50, 28), gate, predDay)
	active := Mode(&unlocked, gate)
	assert.Equal(t, common.ModeActive, active.Mode)
	assert.True(t, active.IsUnlocked)
	assert.Equal(t, 50, active.Requirements.CurrentPredictions)

	// the gate is re-evaluated on read, not taken from the stored flag
	stale := unlocked
	stale.Accuracy7D = utils.ToPointer(54.9)
	relocked := Mode(&stale, gate)
	assert.Equal(t, common.ModeObservation, relocked.Mode)
	assert.False(t, relocked.IsUnlocked)
}
