package dto

import (
	"time"
)

// ScheduleResponse is the DTO for API responses containing schedule details.
type ScheduleResponse struct {
	Name          string     `json:"name"`
	TaskType      string     `json:"task_type"`
	Cron          string     `json:"cron"`
	Payload       string     `json:"payload,omitempty"`
	Enabled       bool       `json:"enabled"`
	NextExecution *time.Time `json:"next_execution"`
	LastExecution *time.Time `json:"last_execution"`
}
