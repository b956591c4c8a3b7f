package consumer

import (
	"context"
	"sync"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/executor"
	"golang-stock-advisor/pkg/common"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/utils"
)

// RedisConsumer drives the executor against the task stream until stopped.
type RedisConsumer struct {
	cfg             config.Executor
	executorService executor.ExecutorService
	logger          *logger.Logger
	stopChan        chan struct{}
	wg              sync.WaitGroup
}

// NewRedisConsumer creates a new RedisConsumer.
func NewRedisConsumer(cfg config.Executor, executorService executor.ExecutorService, log *logger.Logger) *RedisConsumer {
	return &RedisConsumer{
		cfg:             cfg,
		executorService: executorService,
		logger:          log,
		stopChan:        make(chan struct{}),
	}
}

// Start launches one reader per configured worker and the retry ticker.
func (c *RedisConsumer) Start(ctx context.Context) {
	c.logger.Info("Redis consumer started", logger.IntField("workers", c.cfg.MaxConcurrentTasks))
	workers := c.cfg.MaxConcurrentTasks
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		c.RegisterStreamHandler(ctx, c.executorService.ProcessTask, common.RedisStreamAdvisorTaskExecution, c.cfg.RedisStreamTaskExecutionTimeout)
	}
	c.RegisterTickerHandler(ctx, c.executorService.ProcessRetries, c.cfg.RedisStreamRetryInterval, c.cfg.RedisStreamTaskExecutionTimeout, common.RedisStreamAdvisorTaskExecution+"-retry")
}

func (c *RedisConsumer) RegisterStreamHandler(ctx context.Context, fn func(ctx context.Context), streamName string, timeout time.Duration) {
	c.logger.Info("Registering stream handler", logger.StringField("stream", streamName))
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		for {
			select {
			case <-ctx.Done():
				c.logger.Info("Stream handler stopping due to context cancellation", logger.StringField("stream", streamName))
				return
			case <-c.stopChan:
				c.logger.Info("Stream handler stopping", logger.StringField("stream", streamName))
				return
			default:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			}
		}
	})
}

func (c *RedisConsumer) RegisterTickerHandler(ctx context.Context, fn func(ctx context.Context), interval time.Duration, timeout time.Duration, name string) {
	c.logger.Info("Registering ticker handler",
		logger.StringField("name", name),
		logger.Field("interval", interval),
		logger.Field("timeout", timeout))
	if interval <= 0 {
		interval = time.Minute
	}
	c.wg.Add(1)
	utils.GoSafe(func() {
		defer c.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				ctxTimeout, cancel := context.WithTimeout(ctx, timeout)
				fn(ctxTimeout)
				cancel()
			case <-ctx.Done():
				c.logger.Info("Ticker handler stopping due to context cancellation", logger.StringField("name", name))
				return
			case <-c.stopChan:
				c.logger.Info("Ticker handler stopping", logger.StringField("name", name))
				return
			}
		}
	})
}

// Stop gracefully shuts down the consumer.
func (c *RedisConsumer) Stop() {
	close(c.stopChan)
	c.wg.Wait()
	c.logger.Info("Redis consumer stopped")
}
