package common

const (
	RedisStreamAdvisorTaskExecution = "advisor.task.execution"

	RedisStreamGroup    = "advisor-group"
	RedisStreamConsumer = "advisor-consumer"

	RedisKeyDigestLock = "lock:digest:"
)

const (
	ModeObservation = "observation"
	ModeActive      = "active"
)
