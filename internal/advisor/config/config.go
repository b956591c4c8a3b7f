package config

import (
	"math"
	"time"

	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/config"
)

// Executor holds stream consumer configuration.
type Executor struct {
	MaxConcurrentTasks              int           `mapstructure:"max_concurrent_tasks"`
	RedisStreamTaskExecutionTimeout time.Duration `mapstructure:"redis_stream_task_execution_timeout"`
	RedisStreamRetryInterval        time.Duration `mapstructure:"redis_stream_retry_interval"`
	RedisStreamMaxIdleDuration      time.Duration `mapstructure:"redis_stream_max_idle_duration"`
	TaskTimeout                     time.Duration `mapstructure:"task_timeout"`
}

// Weights is the factor weight vector. The three weights must sum to 1.
type Weights struct {
	Technical   float64 `mapstructure:"technical"`
	Sentiment   float64 `mapstructure:"sentiment"`
	Fundamental float64 `mapstructure:"fundamental"`
}

// Scoring holds the digest scoring configuration.
type Scoring struct {
	Weights         Weights       `mapstructure:"weights"`
	BuyThreshold    float64       `mapstructure:"buy_threshold"`
	SellThreshold   float64       `mapstructure:"sell_threshold"`
	TopN            int           `mapstructure:"top_n"`
	DefaultBudget   float64       `mapstructure:"default_budget"`
	MaxPositionPct  float64       `mapstructure:"max_position_pct"`
	Concurrency     int           `mapstructure:"concurrency"`
	ProviderTimeout time.Duration `mapstructure:"provider_timeout"`
	HeadlineLimit   int           `mapstructure:"headline_limit"`
	LockTTL         time.Duration `mapstructure:"lock_ttl"`
}

// Guiderails holds the drawdown strategy limits.
type Guiderails struct {
	Tickers                []string `mapstructure:"tickers"`
	MaxPosition            float64  `mapstructure:"max_position"`
	StopLossPct            float64  `mapstructure:"stop_loss_pct"`
	ProfitTakePct          float64  `mapstructure:"profit_take_pct"`
	DrawdownThresholdPct   float64  `mapstructure:"drawdown_threshold_pct"`
	NormalBuyAmount        float64  `mapstructure:"normal_buy_amount"`
	AggressiveBuyAmount    float64  `mapstructure:"aggressive_buy_amount"`
	NormalCooldownDays     int      `mapstructure:"normal_cooldown_days"`
	AggressiveCooldownDays int      `mapstructure:"aggressive_cooldown_days"`
	LookbackDays           int      `mapstructure:"lookback_days"`
	HistoryDays            int      `mapstructure:"history_days"`
	ProfitTakeFraction     float64  `mapstructure:"profit_take_fraction"`
}

// Verification holds the unlock gate and batch settings.
type Verification struct {
	MinPredictions int     `mapstructure:"min_predictions"`
	MinAccuracyPct float64 `mapstructure:"min_accuracy_pct"`
	Concurrency    int     `mapstructure:"concurrency"`
	PredictionsMax int     `mapstructure:"predictions_max"`
}

// YahooFinance holds the configuration for the Yahoo Finance API.
type YahooFinance struct {
	BaseURL             string        `mapstructure:"base_url"`
	MaxRequestPerMinute int           `mapstructure:"max_request_per_minute"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxRetries          uint64        `mapstructure:"max_retries"`
	CacheTTL            time.Duration `mapstructure:"cache_ttl"`
	BreakerMaxFailures  uint32        `mapstructure:"breaker_max_failures"`
	BreakerOpenTimeout  time.Duration `mapstructure:"breaker_open_timeout"`
}

// News holds the RSS headline feed configuration. FeedURL carries a %s for the ticker.
type News struct {
	FeedURL  string        `mapstructure:"feed_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// Telegram holds configuration for the Telegram notifier.
type Telegram struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   int64  `mapstructure:"chat_id"`
}

// Config holds the full configuration for the advisor service.
type Config struct {
	App          config.App      `mapstructure:"app"`
	Logger       config.Logger   `mapstructure:"logger"`
	Database     config.Database `mapstructure:"database"`
	Redis        config.Redis    `mapstructure:"redis"`
	API          config.API      `mapstructure:"api"`
	Executor     Executor        `mapstructure:"executor"`
	Scoring      Scoring         `mapstructure:"scoring"`
	Guiderails   Guiderails      `mapstructure:"guiderails"`
	Verification Verification    `mapstructure:"verification"`
	YahooFinance YahooFinance    `mapstructure:"yahoo_finance"`
	News         News            `mapstructure:"news"`
	Telegram     Telegram        `mapstructure:"telegram"`
}

// Load loads the advisor configuration from the given path, fills defaults and validates it.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every zero value that has a sensible default.
func (c *Config) SetDefaults() {
	if c.Scoring.Weights == (Weights{}) {
		c.Scoring.Weights = Weights{Technical: 0.40, Sentiment: 0.30, Fundamental: 0.30}
	}
	if c.Scoring.TopN == 0 {
		c.Scoring.TopN = 5
	}
	if c.Scoring.DefaultBudget == 0 {
		c.Scoring.DefaultBudget = 10000
	}
	if c.Scoring.MaxPositionPct == 0 {
		c.Scoring.MaxPositionPct = 0.10
	}
	if c.Scoring.Concurrency == 0 {
		c.Scoring.Concurrency = 4
	}
	if c.Scoring.ProviderTimeout == 0 {
		c.Scoring.ProviderTimeout = 15 * time.Second
	}
	if c.Scoring.HeadlineLimit == 0 {
		c.Scoring.HeadlineLimit = 10
	}
	if c.Scoring.LockTTL == 0 {
		c.Scoring.LockTTL = 10 * time.Minute
	}

	g := &c.Guiderails
	if len(g.Tickers) == 0 {
		g.Tickers = []string{"QQQ"}
	}
	if g.MaxPosition == 0 {
		g.MaxPosition = 10000
	}
	if g.ProfitTakePct == 0 {
		g.ProfitTakePct = 40
	}
	if g.DrawdownThresholdPct == 0 {
		g.DrawdownThresholdPct = 20
	}
	if g.NormalBuyAmount == 0 {
		g.NormalBuyAmount = 500
	}
	if g.AggressiveBuyAmount == 0 {
		g.AggressiveBuyAmount = 1500
	}
	if g.NormalCooldownDays == 0 {
		g.NormalCooldownDays = 7
	}
	if g.AggressiveCooldownDays == 0 {
		g.AggressiveCooldownDays = 5
	}
	if g.LookbackDays == 0 {
		g.LookbackDays = 252
	}
	if g.HistoryDays == 0 {
		g.HistoryDays = 90
	}
	if g.ProfitTakeFraction == 0 {
		g.ProfitTakeFraction = 0.25
	}

	if c.Verification.MinPredictions == 0 {
		c.Verification.MinPredictions = 50
	}
	if c.Verification.MinAccuracyPct == 0 {
		c.Verification.MinAccuracyPct = 55
	}
	if c.Verification.Concurrency == 0 {
		c.Verification.Concurrency = 4
	}
	if c.Verification.PredictionsMax == 0 {
		c.Verification.PredictionsMax = 500
	}

	if c.YahooFinance.BaseURL == "" {
		c.YahooFinance.BaseURL = "https://query1.finance.yahoo.com"
	}
	if c.YahooFinance.MaxRequestPerMinute == 0 {
		c.YahooFinance.MaxRequestPerMinute = 120
	}
	if c.YahooFinance.Timeout == 0 {
		c.YahooFinance.Timeout = 10 * time.Second
	}
	if c.YahooFinance.MaxRetries == 0 {
		c.YahooFinance.MaxRetries = 3
	}
	if c.YahooFinance.CacheTTL == 0 {
		c.YahooFinance.CacheTTL = 5 * time.Minute
	}
	if c.YahooFinance.BreakerMaxFailures == 0 {
		c.YahooFinance.BreakerMaxFailures = 5
	}
	if c.YahooFinance.BreakerOpenTimeout == 0 {
		c.YahooFinance.BreakerOpenTimeout = 30 * time.Second
	}

	if c.News.FeedURL == "" {
		c.News.FeedURL = "https://feeds.finance.yahoo.com/rss/2.0/headline?s=%s&region=US&lang=en-US"
	}
	if c.News.Timeout == 0 {
		c.News.Timeout = 10 * time.Second
	}
	if c.News.CacheTTL == 0 {
		c.News.CacheTTL = 15 * time.Minute
	}

	if c.Executor.MaxConcurrentTasks == 0 {
		c.Executor.MaxConcurrentTasks = 2
	}
	if c.Executor.RedisStreamTaskExecutionTimeout == 0 {
		c.Executor.RedisStreamTaskExecutionTimeout = 30 * time.Minute
	}
	if c.Executor.RedisStreamRetryInterval == 0 {
		c.Executor.RedisStreamRetryInterval = time.Minute
	}
	if c.Executor.RedisStreamMaxIdleDuration == 0 {
		c.Executor.RedisStreamMaxIdleDuration = 5 * time.Minute
	}
	if c.Executor.TaskTimeout == 0 {
		c.Executor.TaskTimeout = 20 * time.Minute
	}
}

// Validate rejects configurations the engines cannot run with.
func (c *Config) Validate() error {
	w := c.Scoring.Weights
	if w.Technical < 0 || w.Sentiment < 0 || w.Fundamental < 0 {
		return &common.ConfigurationError{Field: "scoring.weights", Reason: "weights must be non-negative"}
	}
	if sum := w.Technical + w.Sentiment + w.Fundamental; math.Abs(sum-1) > 1e-9 {
		return &common.ConfigurationError{Field: "scoring.weights", Reason: "weights must sum to 1"}
	}
	if c.Scoring.BuyThreshold < c.Scoring.SellThreshold {
		return &common.ConfigurationError{Field: "scoring.buy_threshold", Reason: "must not be below sell_threshold"}
	}
	if c.Scoring.TopN < 1 {
		return &common.ConfigurationError{Field: "scoring.top_n", Reason: "must be at least 1"}
	}
	if c.Scoring.DefaultBudget < 0 {
		return &common.ConfigurationError{Field: "scoring.default_budget", Reason: "must not be negative"}
	}
	if c.Scoring.MaxPositionPct <= 0 || c.Scoring.MaxPositionPct > 1 {
		return &common.ConfigurationError{Field: "scoring.max_position_pct", Reason: "must be in (0, 1]"}
	}

	g := c.Guiderails
	if g.StopLossPct <= 0 {
		return &common.ConfigurationError{Field: "guiderails.stop_loss_pct", Reason: "must be positive"}
	}
	if g.ProfitTakePct <= 0 {
		return &common.ConfigurationError{Field: "guiderails.profit_take_pct", Reason: "must be positive"}
	}
	if g.MaxPosition <= 0 {
		return &common.ConfigurationError{Field: "guiderails.max_position", Reason: "must be positive"}
	}
	if g.NormalBuyAmount <= 0 || g.AggressiveBuyAmount <= 0 {
		return &common.ConfigurationError{Field: "guiderails.buy_amount", Reason: "buy amounts must be positive"}
	}
	if g.NormalCooldownDays < 0 || g.AggressiveCooldownDays < 0 {
		return &common.ConfigurationError{Field: "guiderails.cooldown_days", Reason: "must not be negative"}
	}
	if g.ProfitTakeFraction <= 0 || g.ProfitTakeFraction > 1 {
		return &common.ConfigurationError{Field: "guiderails.profit_take_fraction", Reason: "must be in (0, 1]"}
	}

	if c.Verification.MinPredictions < 1 {
		return &common.ConfigurationError{Field: "verification.min_predictions", Reason: "must be at least 1"}
	}
	if c.Verification.MinAccuracyPct <= 0 || c.Verification.MinAccuracyPct > 100 {
		return &common.ConfigurationError{Field: "verification.min_accuracy_pct", Reason: "must be in (0, 100]"}
	}
	return nil
}
