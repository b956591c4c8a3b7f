package strategy

import (
	"context"

	"golang-stock-advisor/internal/entity"
)

// TaskStrategy executes one type of scheduled task and returns a short output
// stored on the task history.
type TaskStrategy interface {
	Execute(ctx context.Context, task *entity.TaskExecutionHistory) (string, error)
	GetType() entity.TaskType
}
