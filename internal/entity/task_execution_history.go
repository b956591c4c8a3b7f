package entity

import (
	"database/sql"
	"time"
)

// TaskType identifies the work a scheduled task performs.
type TaskType string

const (
	TaskTypeGenerateDigest  TaskType = "generate_digest"
	TaskTypeRunVerification TaskType = "run_verification"
	TaskTypeDrawdownMonitor TaskType = "drawdown_monitor"
)

// TaskStatus is the lifecycle state of a task execution.
type TaskStatus string

const (
	StatusQueued    TaskStatus = "queued"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// TaskExecutionHistory tracks one published task from enqueue to completion.
type TaskExecutionHistory struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	ScheduleName string         `gorm:"type:varchar(100);not null;index" json:"schedule_name"`
	TaskType     TaskType       `gorm:"type:varchar(50);not null" json:"task_type"`
	Payload      string         `gorm:"type:text" json:"payload"`
	Status       TaskStatus     `gorm:"type:varchar(20);not null" json:"status"`
	StartedAt    time.Time      `gorm:"not null" json:"started_at"`
	CompletedAt  sql.NullTime   `json:"completed_at"`
	Output       sql.NullString `gorm:"type:text" json:"output"`
	ErrorMessage sql.NullString `gorm:"type:text" json:"error_message"`
}

func (TaskExecutionHistory) TableName() string {
	return "task_execution_histories"
}
