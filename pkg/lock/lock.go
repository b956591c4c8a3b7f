package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when another holder owns the key.
var ErrNotAcquired = errors.New("lock already held")

// Locker hands out exclusive, expiring leases on string keys.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error)
}

// Lease is a held lock. Release is safe to call more than once.
type Lease interface {
	Release(ctx context.Context) error
}

// releaseScript deletes the key only if it still carries our token, so an expired
// lease can never release a lock that was re-acquired by someone else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type redisLocker struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisLocker creates a Locker backed by Redis SET NX.
func NewRedisLocker(client redis.UniversalClient, prefix string) Locker {
	return &redisLocker{client: client, prefix: prefix}
}

func (l *redisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (Lease, error) {
	token := uuid.NewString()
	fullKey := l.prefix + key
	ok, err := l.client.SetNX(ctx, fullKey, token, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", fullKey, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}
	return &redisLease{client: l.client, key: fullKey, token: token}, nil
}

type redisLease struct {
	client redis.UniversalClient
	key    string
	token  string
	once   sync.Once
	err    error
}

func (r *redisLease) Release(ctx context.Context) error {
	r.once.Do(func() {
		r.err = releaseScript.Run(ctx, r.client, []string{r.key}, r.token).Err()
		if errors.Is(r.err, redis.Nil) {
			r.err = nil
		}
	})
	return r.err
}

type localLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
}

// NewLocalLocker creates an in-process Locker. Useful for single-instance
// deployments and tests.
func NewLocalLocker() Locker {
	return &localLocker{held: make(map[string]time.Time)}
}

func (l *localLocker) Acquire(_ context.Context, key string, ttl time.Duration) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiry, ok := l.held[key]; ok && now.Before(expiry) {
		return nil, ErrNotAcquired
	}
	expiry := now.Add(ttl)
	l.held[key] = expiry
	return &localLease{locker: l, key: key, expiry: expiry}, nil
}

type localLease struct {
	locker *localLocker
	key    string
	expiry time.Time
	once   sync.Once
}

func (r *localLease) Release(_ context.Context) error {
	r.once.Do(func() {
		r.locker.mu.Lock()
		defer r.locker.mu.Unlock()
		if current, ok := r.locker.held[r.key]; ok && current.Equal(r.expiry) {
			delete(r.locker.held, r.key)
		}
	})
	return nil
}
