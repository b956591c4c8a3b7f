package service

import (
	"context"

	"golang-stock-advisor/pkg/common"

	"github.com/redis/go-redis/v9"
)

// TaskPublisher hands a serialized task to the advisor.
type TaskPublisher interface {
	Publish(ctx context.Context, payload []byte) error
}

type streamPublisher struct {
	client *redis.Client
	maxLen int64
}

// NewStreamPublisher publishes tasks to the advisor task stream, trimming it to about maxLen entries.
func NewStreamPublisher(client *redis.Client, maxLen int64) TaskPublisher {
	return &streamPublisher{client: client, maxLen: maxLen}
}

func (p *streamPublisher) Publish(ctx context.Context, payload []byte) error {
	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamAdvisorTaskExecution,
		Values: map[string]interface{}{"payload": string(payload)},
		MaxLen: p.maxLen,
		Approx: true,
	}).Err()
}
