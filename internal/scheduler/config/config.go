package config

import (
	"fmt"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/config"
)

// Schedule is one cron-triggered task.
type Schedule struct {
	Name     string          `mapstructure:"name"`
	TaskType entity.TaskType `mapstructure:"task_type"`
	Cron     string          `mapstructure:"cron"`
	Payload  string          `mapstructure:"payload"`
	Enabled  bool            `mapstructure:"enabled"`
}

// Scheduler holds scheduler-specific configuration.
type Scheduler struct {
	PollingInterval time.Duration `mapstructure:"polling_interval"`
	Timezone        string        `mapstructure:"timezone"`
	LockTTL         time.Duration `mapstructure:"lock_ttl"`
	HistoryLimit    int           `mapstructure:"history_limit"`
	Schedules       []Schedule    `mapstructure:"schedules"`
}

// Config holds the full configuration for the scheduler service.
type Config struct {
	App       config.App      `mapstructure:"app"`
	Logger    config.Logger   `mapstructure:"logger"`
	Database  config.Database `mapstructure:"database"`
	Redis     config.Redis    `mapstructure:"redis"`
	API       config.API      `mapstructure:"api"`
	Scheduler Scheduler       `mapstructure:"scheduler"`
}

// Load loads the scheduler configuration from the given path.
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

func (c *Config) SetDefaults() {
	if c.Scheduler.PollingInterval <= 0 {
		c.Scheduler.PollingInterval = 30 * time.Second
	}
	if c.Scheduler.LockTTL <= 0 {
		c.Scheduler.LockTTL = 5 * time.Minute
	}
	if c.Scheduler.HistoryLimit <= 0 {
		c.Scheduler.HistoryLimit = 100
	}
	if c.Redis.StreamMaxLen <= 0 {
		c.Redis.StreamMaxLen = 1000
	}
	if c.API.Port == 0 {
		c.API.Port = 8081
	}
}

func (c *Config) Validate() error {
	seen := make(map[string]bool)
	for i, s := range c.Scheduler.Schedules {
		field := fmt.Sprintf("scheduler.schedules[%d]", i)
		if s.Name == "" {
			return &common.ConfigurationError{Field: field + ".name", Reason: "must not be empty"}
		}
		if seen[s.Name] {
			return &common.ConfigurationError{Field: field + ".name", Reason: "duplicate schedule " + s.Name}
		}
		seen[s.Name] = true
		switch s.TaskType {
		case entity.TaskTypeGenerateDigest, entity.TaskTypeRunVerification, entity.TaskTypeDrawdownMonitor:
		default:
			return &common.ConfigurationError{Field: field + ".task_type", Reason: fmt.Sprintf("unknown task type %q", s.TaskType)}
		}
		if s.Cron == "" {
			return &common.ConfigurationError{Field: field + ".cron", Reason: "must not be empty"}
		}
	}
	return nil
}
