package telegram

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func pick(ticker string) entity.StockPick {
	return entity.StockPick{
		Ticker:            ticker,
		Name:              ticker + " Corp",
		Score:             0.42,
		Signal:            "BUY",
		CurrentPrice:      123.45,
		DayChangePct:      1.5,
		Explanation:       "Technical: Bullish (0.60) | Sentiment: Positive (0.30)",
		SuggestedPosition: 420,
		Headlines:         []string{"Record_quarter for " + ticker},
	}
}

func TestFormatDigest_Empty(t *testing.T) {
	d := &entity.Digest{Date: time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), Budget: 10000}

	parts := FormatDigest(d, common.ModeObservation)
	require.Len(t, parts, 1)
	assert.Contains(t, parts[0], "Daily Digest 2025-06-02")
	assert.Contains(t, parts[0], "Observation mode")
	assert.Contains(t, parts[0], "No picks today.")
}

func TestFormatDigest_EscapesAndSplits(t *testing.T) {
	var buys []entity.StockPick
	for i := 0; i < 40; i++ {
		buys = append(buys, pick(fmt.Sprintf("T%02d", i)))
	}
	d := &entity.Digest{
		Date:   time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		Budget: 10000,
		Buy:    datatypes.NewJSONType(buys),
		Sell:   datatypes.NewJSONType([]entity.StockPick{pick("ZZZ")}),
	}

	parts := FormatDigest(d, common.ModeActive)
	require.Greater(t, len(parts), 1)
	for _, p := range parts {
		assert.LessOrEqual(t, len(p), maxMessageLen)
	}
	assert.NotContains(t, parts[0], "Observation mode")
	assert.Contains(t, parts[1], "Part 2")

	all := strings.Join(parts, "")
	assert.Contains(t, all, `Record\_quarter for T00`)
	assert.Contains(t, all, "*SELL*")
	assert.Equal(t, 41, strings.Count(all, "*Score:*"))
}

func TestFormatSignal(t *testing.T) {
	msg := FormatSignal(SignalSummary{
		Ticker:       "QQQ",
		Kind:         "STOP_LOSS",
		Amount:       1875,
		Shares:       5,
		Reason:       "Position down 25.0%, stop-loss at -25% triggered.",
		CurrentPrice: 375,
		PeakPrice:    520,
		DrawdownPct:  27.9,
		PnLPct:       -25,
	})

	assert.True(t, strings.HasPrefix(msg, "🛑 *QQQ: STOP_LOSS*"))
	assert.Contains(t, msg, "$375.00 (peak $520.00)")
	assert.Contains(t, msg, "-25.0%")
	assert.Contains(t, msg, "5.0000")
}

func TestFormatVerification(t *testing.T) {
	acc := 61.5
	msg := FormatVerification(VerificationSummary{
		Verified1D: 4,
		Verified7D: 2,
		Errors:     1,
		Mode:       common.ModeActive,
		Reason:     "Accuracy 61.5% >= 55%",
		Stats:      &entity.VerificationStats{Verified7DCount: 52, Accuracy7D: &acc},
	})

	assert.Contains(t, msg, "1d: 4 | 7d: 2 | 30d: 0 verified | 1 errors")
	assert.Contains(t, msg, "*7d accuracy:* 61.5% (52)")
	assert.NotContains(t, msg, "1d accuracy")
	assert.Contains(t, msg, "🚀 *Mode:* active")
}

type failingNotifier struct {
	sent int
}

func (f *failingNotifier) SendMessage(string) error {
	f.sent++
	if f.sent == 2 {
		return errors.New("rate limited")
	}
	return nil
}

func TestSendAll_StopsAtFirstFailure(t *testing.T) {
	n := &failingNotifier{}
	err := SendAll(n, []string{"a", "b", "c"})
	assert.Error(t, err)
	assert.Equal(t, 2, n.sent)

	assert.NoError(t, SendAll(NewNopNotifier(), []string{"a"}))
}
