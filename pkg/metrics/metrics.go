package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DigestRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "advisor",
		Name:      "digest_runs_total",
		Help:      "Digest generation runs by outcome (generated, existing, conflict, failed).",
	}, []string{"outcome"})

	DigestPicks = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "advisor",
		Name:      "digest_picks",
		Help:      "Number of picks in the last generated digest.",
	}, []string{"direction"})

	DataGaps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "advisor",
		Name:      "data_gaps_total",
		Help:      "Provider data gaps by stage.",
	}, []string{"stage"})

	PredictionsVerified = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "advisor",
		Name:      "predictions_verified_total",
		Help:      "Prediction horizons resolved by horizon.",
	}, []string{"horizon"})

	Accuracy = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "advisor",
		Name:      "prediction_accuracy_pct",
		Help:      "Latest recomputed accuracy per horizon.",
	}, []string{"horizon"})

	Unlocked = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "advisor",
		Name:      "unlocked",
		Help:      "1 when the product is in active mode, 0 in observation mode.",
	})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "advisor",
		Name:      "provider_request_seconds",
		Help:      "Latency of external provider requests.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"provider", "status"})

	SignalsEmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "advisor",
		Name:      "drawdown_signals_total",
		Help:      "Drawdown signals evaluated by kind.",
	}, []string{"kind"})
)
