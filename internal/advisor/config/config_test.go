package config

import (
	"errors"
	"testing"

	"golang-stock-advisor/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	cfg.Guiderails.StopLossPct = 25
	return cfg
}

func TestSetDefaults(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, Weights{Technical: 0.40, Sentiment: 0.30, Fundamental: 0.30}, cfg.Scoring.Weights)
	assert.Equal(t, 5, cfg.Scoring.TopN)
	assert.Equal(t, []string{"QQQ"}, cfg.Guiderails.Tickers)
	assert.Equal(t, 500.0, cfg.Guiderails.NormalBuyAmount)
	assert.Equal(t, 1500.0, cfg.Guiderails.AggressiveBuyAmount)
	assert.Equal(t, 7, cfg.Guiderails.NormalCooldownDays)
	assert.Equal(t, 5, cfg.Guiderails.AggressiveCooldownDays)
	assert.Equal(t, 50, cfg.Verification.MinPredictions)
	assert.Equal(t, 55.0, cfg.Verification.MinAccuracyPct)
	require.NoError(t, cfg.Validate())
}

func TestSetDefaults_KeepsExplicitZeroStopLoss(t *testing.T) {
	cfg := &Config{}
	cfg.SetDefaults()
	assert.Zero(t, cfg.Guiderails.StopLossPct)

	var cfgErr *common.ConfigurationError
	require.ErrorAs(t, cfg.Validate(), &cfgErr)
	assert.Equal(t, "guiderails.stop_loss_pct", cfgErr.Field)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{
			name:   "weights not summing to one",
			mutate: func(c *Config) { c.Scoring.Weights.Technical = 0.5 },
			field:  "scoring.weights",
		},
		{
			name:   "negative weight",
			mutate: func(c *Config) { c.Scoring.Weights = Weights{Technical: 1.2, Sentiment: -0.2} },
			field:  "scoring.weights",
		},
		{
			name:   "non-positive stop loss",
			mutate: func(c *Config) { c.Guiderails.StopLossPct = -5 },
			field:  "guiderails.stop_loss_pct",
		},
		{
			name:   "zero stop loss",
			mutate: func(c *Config) { c.Guiderails.StopLossPct = 0 },
			field:  "guiderails.stop_loss_pct",
		},
		{
			name:   "buy threshold below sell threshold",
			mutate: func(c *Config) { c.Scoring.BuyThreshold = -0.2; c.Scoring.SellThreshold = 0.1 },
			field:  "scoring.buy_threshold",
		},
		{
			name:   "accuracy above 100",
			mutate: func(c *Config) { c.Verification.MinAccuracyPct = 120 },
			field:  "verification.min_accuracy_pct",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			var cfgErr *common.ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
