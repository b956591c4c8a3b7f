package config

import (
	"testing"
	"time"

	"golang-stock-advisor/internal/entity"
	"golang-stock-advisor/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetDefaults(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()

	assert.Equal(t, 30*time.Second, cfg.Scheduler.PollingInterval)
	assert.Equal(t, 5*time.Minute, cfg.Scheduler.LockTTL)
	assert.Equal(t, 100, cfg.Scheduler.HistoryLimit)
	assert.Equal(t, int64(1000), cfg.Redis.StreamMaxLen)
	assert.Equal(t, 8081, cfg.API.Port)
}

func TestValidate(t *testing.T) {
	valid := Schedule{Name: "digest", TaskType: entity.TaskTypeGenerateDigest, Cron: "0 9 * * 1-5", Enabled: true}

	tests := []struct {
		name      string
		schedules []Schedule
		field     string
	}{
		{name: "valid", schedules: []Schedule{valid}},
		{name: "empty name", schedules: []Schedule{{TaskType: entity.TaskTypeGenerateDigest, Cron: "@daily"}}, field: "scheduler.schedules[0].name"},
		{name: "duplicate", schedules: []Schedule{valid, valid}, field: "scheduler.schedules[1].name"},
		{name: "unknown task type", schedules: []Schedule{{Name: "x", TaskType: "http_request", Cron: "@daily"}}, field: "scheduler.schedules[0].task_type"},
		{name: "missing cron", schedules: []Schedule{{Name: "x", TaskType: entity.TaskTypeDrawdownMonitor}}, field: "scheduler.schedules[0].cron"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Scheduler: Scheduler{Schedules: tt.schedules}}
			err := cfg.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *common.ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
