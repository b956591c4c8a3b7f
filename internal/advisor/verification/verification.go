// Package verification resolves prediction horizons against realized prices and
// derives the accuracy statistics that gate the product mode.
package verification

import (
	"fmt"
	"math"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/utils"
)

const (
	messageActive      = "The system has proven sufficient accuracy. You can now follow the advice."
	messageObservation = "Observation mode: review the advice but do not follow it yet. The system has to prove itself first."
	reasonNoData       = "No verification data yet. Wait until the first predictions are verified."
)

// Due reports whether horizon h of p is unresolved and its date has been reached.
func Due(p *entity.Prediction, h entity.Horizon, today time.Time) bool {
	if p.Outcome(h).Verified {
		return false
	}
	return !p.DueDate(h).After(utils.DateOnly(today))
}

// Resolve computes the outcome of a prediction given the realized price.
// A zero return counts as incorrect in both directions.
func Resolve(direction entity.Direction, priceAt, priceAfter float64) entity.HorizonOutcome {
	ret := round(((priceAfter-priceAt)/priceAt)*100, 2)
	correct := (direction == entity.DirectionBuy && ret > 0) || (direction == entity.DirectionSell && ret < 0)
	return entity.HorizonOutcome{
		PriceAfter: &priceAfter,
		Verified:   true,
		Correct:    &correct,
		Return:     &ret,
	}
}

// Gate is the unlock requirement over the 7 day horizon.
type Gate struct {
	MinPredictions int     `json:"min_predictions"`
	MinAccuracyPct float64 `json:"min_accuracy"`
}

// Evaluate returns the unlock flag and a human readable reason.
func (g Gate) Evaluate(verified7d int, accuracy7d *float64) (bool, string) {
	if verified7d < g.MinPredictions {
		return false, fmt.Sprintf("Need %d more verified predictions (have %d/%d)", g.MinPredictions-verified7d, verified7d, g.MinPredictions)
	}
	if accuracy7d != nil && *accuracy7d >= g.MinAccuracyPct {
		return true, fmt.Sprintf("Achieved %.1f%% accuracy over %d predictions", *accuracy7d, verified7d)
	}
	acc := 0.0
	if accuracy7d != nil {
		acc = *accuracy7d
	}
	return false, fmt.Sprintf("Accuracy %.1f%% < %.0f%% required (%d predictions)", acc, g.MinAccuracyPct, verified7d)
}

// ComputeStats recomputes the aggregate statistics from every prediction.
func ComputeStats(predictions []entity.Prediction, gate Gate, now time.Time) entity.VerificationStats {
	stats := entity.VerificationStats{
		TotalPredictions: len(predictions),
		CalculatedAt:     now,
	}

	var hypothetical float64
	for _, h := range entity.Horizons {
		var verified, correct int
		var sum float64
		for i := range predictions {
			p := &predictions[i]
			o := p.Outcome(h)
			if !o.Verified {
				continue
			}
			verified++
			if o.Correct != nil && *o.Correct {
				correct++
			}
			if o.Return != nil {
				sum += *o.Return
				if h == entity.Horizon7D {
					hypothetical += directional(p.Direction, *o.Return)
				}
			}
		}

		var accuracy, avgReturn *float64
		if verified > 0 {
			accuracy = utils.ToPointer(round(float64(correct)/float64(verified)*100, 1))
			avgReturn = utils.ToPointer(round(sum/float64(verified), 2))
		}

		switch h {
		case entity.Horizon1D:
			stats.Verified1DCount, stats.Correct1DCount, stats.Accuracy1D, stats.AvgReturn1D = verified, correct, accuracy, avgReturn
		case entity.Horizon7D:
			stats.Verified7DCount, stats.Correct7DCount, stats.Accuracy7D, stats.AvgReturn7D = verified, correct, accuracy, avgReturn
			if verified > 0 {
				stats.HypotheticalReturnTotal = utils.ToPointer(round(hypothetical, 2))
			}
		case entity.Horizon30D:
			stats.Verified30DCount, stats.Correct30DCount, stats.Accuracy30D, stats.AvgReturn30D = verified, correct, accuracy, avgReturn
		}
	}

	stats.IsUnlocked, stats.UnlockReason = gate.Evaluate(stats.Verified7DCount, stats.Accuracy7D)
	return stats
}

// directional turns a raw return into the return of following the advice.
func directional(d entity.Direction, ret float64) float64 {
	if d == entity.DirectionSell {
		return -ret
	}
	return ret
}

// Requirements reports progress toward the unlock gate.
type Requirements struct {
	MinPredictions     int      `json:"min_predictions"`
	MinAccuracy        float64  `json:"min_accuracy"`
	CurrentPredictions int      `json:"current_predictions"`
	CurrentAccuracy    *float64 `json:"current_accuracy"`
}

// Status is the product mode derived from the latest stats.
type Status struct {
	IsUnlocked   bool                      `json:"is_unlocked"`
	Mode         string                    `json:"mode"`
	Message      string                    `json:"message"`
	Reason       string                    `json:"reason"`
	Stats        *entity.VerificationStats `json:"stats"`
	Requirements Requirements              `json:"unlock_requirements"`
}

// Mode derives the product mode from stats. The gate is re-evaluated on every
// call so a drop in accuracy moves the product back to observation.
func Mode(stats *entity.VerificationStats, gate Gate) Status {
	s := Status{
		Mode:    common.ModeObservation,
		Message: messageObservation,
		Reason:  reasonNoData,
		Stats:   stats,
		Requirements: Requirements{
			MinPredictions: gate.MinPredictions,
			MinAccuracy:    gate.MinAccuracyPct,
		},
	}
	if stats == nil {
		return s
	}

	s.Requirements.CurrentPredictions = stats.Verified7DCount
	s.Requirements.CurrentAccuracy = stats.Accuracy7D
	s.IsUnlocked, s.Reason = gate.Evaluate(stats.Verified7DCount, stats.Accuracy7D)
	if s.IsUnlocked {
		s.Mode = common.ModeActive
		s.Message = messageActive
	}
	return s
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
